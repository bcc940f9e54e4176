package models

import (
	"time"

	"restaurant_site/internal/money"
)

type Order struct {
	ID                  uint        `json:"id" gorm:"primaryKey"`
	OrderNumber         string      `json:"order_number" gorm:"uniqueIndex;size:40;not null"`
	CustomerID          *uint       `json:"customer_id" gorm:"index"`
	Customer            *User       `json:"customer,omitempty" gorm:"foreignKey:CustomerID;constraint:OnDelete:SET NULL"`
	GuestName           string      `json:"guest_name" gorm:"size:100"`
	GuestPhone          string      `json:"guest_phone" gorm:"size:20"`
	GuestEmail          string      `json:"guest_email" gorm:"size:254"`
	TotalAmount         money.Cents `json:"total_amount" gorm:"column:total_amount_cents;not null;default:0"`
	Status              string      `json:"status" gorm:"size:20;index;default:'pending'"` // pending, confirmed, preparing, ready, completed, cancelled
	PaymentMethod       string      `json:"payment_method" gorm:"size:20;default:'cash'"`
	IsPaid              bool        `json:"is_paid" gorm:"default:false"`
	DeliveryAddress     string      `json:"delivery_address" gorm:"type:text"`
	SpecialInstructions string      `json:"special_instructions" gorm:"type:text"`
	Items               []OrderItem `json:"items,omitempty" gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	CreatedAt           time.Time   `json:"created_at"`
	UpdatedAt           time.Time   `json:"updated_at"`
}

// IsGuest reports whether the order is identified by contact fields rather
// than an account.
func (o *Order) IsGuest() bool {
	return o.CustomerID == nil
}

type OrderStatus string

const (
	OrderPending   OrderStatus = "pending"
	OrderConfirmed OrderStatus = "confirmed"
	OrderPreparing OrderStatus = "preparing"
	OrderReady     OrderStatus = "ready"
	OrderCompleted OrderStatus = "completed"
	OrderCancelled OrderStatus = "cancelled"
)

type PaymentMethod string

const (
	PaymentCash   PaymentMethod = "cash"
	PaymentCard   PaymentMethod = "card"
	PaymentOnline PaymentMethod = "online"
)

func (p PaymentMethod) Valid() bool {
	switch p {
	case PaymentCash, PaymentCard, PaymentOnline:
		return true
	}
	return false
}
