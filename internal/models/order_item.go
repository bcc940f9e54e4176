package models

import (
	"encoding/json"
	"time"

	"restaurant_site/internal/money"
)

// OrderItem is one menu item line of an order. UnitPrice is a snapshot of the
// menu price taken when the line was written.
type OrderItem struct {
	ID         uint        `json:"id" gorm:"primaryKey"`
	OrderID    uint        `json:"order_id" gorm:"not null;uniqueIndex:idx_order_menu_item"`
	MenuItemID uint        `json:"menu_item_id" gorm:"not null;uniqueIndex:idx_order_menu_item"`
	MenuItem   *MenuItem   `json:"menu_item,omitempty" gorm:"foreignKey:MenuItemID;constraint:OnDelete:RESTRICT"`
	Quantity   int         `json:"quantity" gorm:"not null;default:1"`
	UnitPrice  money.Cents `json:"unit_price" gorm:"column:unit_price_cents;not null"`
	CreatedAt  time.Time   `json:"created_at"`
	UpdatedAt  time.Time   `json:"updated_at"`
}

// Subtotal is derived on every call and never stored.
func (i OrderItem) Subtotal() money.Cents {
	return i.UnitPrice.Mul(i.Quantity)
}

func (i OrderItem) MarshalJSON() ([]byte, error) {
	type orderItem OrderItem
	return json.Marshal(struct {
		orderItem
		Subtotal money.Cents `json:"subtotal"`
	}{orderItem(i), i.Subtotal()})
}
