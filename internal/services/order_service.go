package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"restaurant_site/internal/models"
	"restaurant_site/internal/money"
	"restaurant_site/internal/repository"
	"restaurant_site/internal/statemachine"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// TotalStatus reports what happened to an order's total during a save.
type TotalStatus int

const (
	// TotalRecomputed: the total was set to the sum of the item subtotals.
	TotalRecomputed TotalStatus = iota
	// TotalKept: the order has no items, so the supplied total was kept.
	TotalKept
	// TotalStale: the items could not be read; the stored total may be out of date.
	TotalStale
)

func (s TotalStatus) String() string {
	switch s {
	case TotalRecomputed:
		return "recomputed"
	case TotalKept:
		return "kept"
	case TotalStale:
		return "stale"
	}
	return fmt.Sprintf("TotalStatus(%d)", int(s))
}

// ItemInput is one requested order line. A zero UnitPrice means "use the menu
// item's current price".
type ItemInput struct {
	MenuItemID uint        `json:"menu_item_id"`
	Quantity   int         `json:"quantity"`
	UnitPrice  money.Cents `json:"unit_price"`
}

type OrderService interface {
	// CreateOrder stores a back-office order and its items in one transaction.
	CreateOrder(ctx context.Context, order *models.Order, items []ItemInput) (TotalStatus, error)
	// PlaceOrder is the storefront variant: status and payment state are forced,
	// items must be available and are always priced from the menu.
	PlaceOrder(ctx context.Context, order *models.Order, items []ItemInput) (TotalStatus, error)
	// SaveOrder updates an existing order. A non-nil items slice replaces the
	// order's lines; nil leaves them untouched.
	SaveOrder(ctx context.Context, order *models.Order, items []ItemInput) (TotalStatus, error)
	GetOrder(ctx context.Context, id uint) (*models.Order, error)
	GetOrderByNumber(ctx context.Context, number string) (*models.Order, error)
	ListOrders(ctx context.Context, q repository.ListQuery) ([]models.Order, int64, error)
	ListCustomerOrders(ctx context.Context, customerID uint) ([]models.Order, error)
	DeleteOrder(ctx context.Context, id uint) error

	AddItem(ctx context.Context, orderID uint, in ItemInput) (*models.OrderItem, TotalStatus, error)
	UpdateItem(ctx context.Context, itemID uint, quantity int, unitPrice money.Cents) (*models.OrderItem, TotalStatus, error)
	RemoveItem(ctx context.Context, itemID uint) (TotalStatus, error)

	TransitionStatus(ctx context.Context, id uint, to models.OrderStatus, actor string) (*models.Order, error)
	CancelCustomerOrder(ctx context.Context, id, customerID uint) (*models.Order, error)
	// MarkCompleted sets status=completed on the given orders, skipping
	// cancelled ones, and returns how many rows changed.
	MarkCompleted(ctx context.Context, ids []uint) (int64, error)
}

type orderService struct {
	repos *repository.Repositories
	now   func() time.Time
}

func NewOrderService(repos *repository.Repositories) OrderService {
	return &orderService{repos: repos, now: time.Now}
}

func (s *orderService) CreateOrder(ctx context.Context, order *models.Order, items []ItemInput) (TotalStatus, error) {
	return s.create(ctx, order, items, false)
}

func (s *orderService) PlaceOrder(ctx context.Context, order *models.Order, items []ItemInput) (TotalStatus, error) {
	if len(items) == 0 {
		return 0, invalid("items", "an order needs at least one item")
	}
	order.Status = string(models.OrderPending)
	order.IsPaid = false
	order.TotalAmount = 0
	priced := make([]ItemInput, len(items))
	for i, in := range items {
		in.UnitPrice = 0
		priced[i] = in
	}
	return s.create(ctx, order, priced, true)
}

func (s *orderService) create(ctx context.Context, order *models.Order, items []ItemInput, requireAvailable bool) (TotalStatus, error) {
	if order.ID != 0 {
		return 0, invalid("id", "a new order must not carry an id")
	}
	applyOrderDefaults(order)
	if order.OrderNumber == "" {
		order.OrderNumber = s.newOrderNumber()
	}
	if err := validateOrder(order); err != nil {
		return 0, err
	}
	items, err := mergeItems(items)
	if err != nil {
		return 0, err
	}

	var status TotalStatus
	err = s.repos.Transaction(ctx, func(tx *repository.Repositories) error {
		if err := checkCustomer(ctx, tx, order); err != nil {
			return err
		}
		if err := tx.Orders.Create(ctx, order); err != nil {
			return fmt.Errorf("failed to create order: %w", err)
		}
		for _, in := range items {
			if _, err := addItem(ctx, tx, order.ID, in, requireAvailable); err != nil {
				return err
			}
		}
		var err error
		status, err = recomputeTotal(ctx, tx, order)
		return err
	})
	if err != nil {
		return 0, err
	}
	return status, nil
}

func (s *orderService) SaveOrder(ctx context.Context, order *models.Order, items []ItemInput) (TotalStatus, error) {
	if order.ID == 0 {
		return 0, invalid("id", "order id is required")
	}
	applyOrderDefaults(order)
	if err := validateOrder(order); err != nil {
		return 0, err
	}
	var err error
	if items != nil {
		if items, err = mergeItems(items); err != nil {
			return 0, err
		}
	}

	var status TotalStatus
	err = s.repos.Transaction(ctx, func(tx *repository.Repositories) error {
		existing, err := tx.Orders.GetByID(ctx, order.ID)
		if err != nil {
			return notFound(err, "order")
		}
		if existing.Status != order.Status {
			if err := statemachine.CanTransition(models.OrderStatus(existing.Status), models.OrderStatus(order.Status), statemachine.ActorStaff); err != nil {
				return err
			}
		}
		if order.OrderNumber == "" {
			order.OrderNumber = existing.OrderNumber
		}
		order.CreatedAt = existing.CreatedAt

		if err := checkCustomer(ctx, tx, order); err != nil {
			return err
		}
		if err := tx.Orders.Update(ctx, order); err != nil {
			return fmt.Errorf("failed to update order: %w", err)
		}
		if items != nil {
			if err := replaceItems(ctx, tx, order.ID, existing.Items, items); err != nil {
				return err
			}
		}
		status, err = recomputeTotal(ctx, tx, order)
		return err
	})
	if err != nil {
		return 0, err
	}
	return status, nil
}

func (s *orderService) GetOrder(ctx context.Context, id uint) (*models.Order, error) {
	order, err := s.repos.Orders.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "order")
	}
	return order, nil
}

func (s *orderService) GetOrderByNumber(ctx context.Context, number string) (*models.Order, error) {
	order, err := s.repos.Orders.GetByOrderNumber(ctx, number)
	if err != nil {
		return nil, notFound(err, "order")
	}
	return order, nil
}

func (s *orderService) ListOrders(ctx context.Context, q repository.ListQuery) ([]models.Order, int64, error) {
	return s.repos.Orders.List(ctx, q)
}

func (s *orderService) ListCustomerOrders(ctx context.Context, customerID uint) ([]models.Order, error) {
	return s.repos.Orders.GetByCustomerID(ctx, customerID)
}

func (s *orderService) DeleteOrder(ctx context.Context, id uint) error {
	if err := s.repos.Orders.Delete(ctx, id); err != nil {
		return notFound(err, "order")
	}
	return nil
}

func (s *orderService) AddItem(ctx context.Context, orderID uint, in ItemInput) (*models.OrderItem, TotalStatus, error) {
	if err := validateItem(in); err != nil {
		return nil, 0, err
	}

	var (
		item   *models.OrderItem
		status TotalStatus
	)
	err := s.repos.Transaction(ctx, func(tx *repository.Repositories) error {
		order, err := tx.Orders.GetByID(ctx, orderID)
		if err != nil {
			return notFound(err, "order")
		}
		if item, err = addItem(ctx, tx, order.ID, in, false); err != nil {
			return err
		}
		status, err = recomputeTotal(ctx, tx, order)
		return err
	})
	if err != nil {
		return nil, 0, err
	}
	return item, status, nil
}

func (s *orderService) UpdateItem(ctx context.Context, itemID uint, quantity int, unitPrice money.Cents) (*models.OrderItem, TotalStatus, error) {
	if quantity < 1 {
		return nil, 0, invalid("quantity", "must be at least 1")
	}
	if unitPrice < 0 {
		return nil, 0, invalid("unit_price", "must be greater than zero")
	}

	var (
		item   *models.OrderItem
		status TotalStatus
	)
	err := s.repos.Transaction(ctx, func(tx *repository.Repositories) error {
		var err error
		if item, err = tx.OrderItems.GetByID(ctx, itemID); err != nil {
			return notFound(err, "order item")
		}
		item.Quantity = quantity
		if unitPrice > 0 {
			item.UnitPrice = unitPrice
		}
		if err := tx.OrderItems.Update(ctx, item); err != nil {
			return fmt.Errorf("failed to update order item: %w", err)
		}

		order, err := tx.Orders.GetByID(ctx, item.OrderID)
		if err != nil {
			return notFound(err, "order")
		}
		status, err = recomputeTotal(ctx, tx, order)
		return err
	})
	if err != nil {
		return nil, 0, err
	}
	return item, status, nil
}

func (s *orderService) RemoveItem(ctx context.Context, itemID uint) (TotalStatus, error) {
	var status TotalStatus
	err := s.repos.Transaction(ctx, func(tx *repository.Repositories) error {
		item, err := tx.OrderItems.GetByID(ctx, itemID)
		if err != nil {
			return notFound(err, "order item")
		}
		if err := tx.OrderItems.Delete(ctx, item.ID); err != nil {
			return fmt.Errorf("failed to delete order item: %w", err)
		}

		order, err := tx.Orders.GetByID(ctx, item.OrderID)
		if err != nil {
			return notFound(err, "order")
		}
		status, err = recomputeTotal(ctx, tx, order)
		return err
	})
	if err != nil {
		return 0, err
	}
	return status, nil
}

func (s *orderService) TransitionStatus(ctx context.Context, id uint, to models.OrderStatus, actor string) (*models.Order, error) {
	if !statemachine.Known(to) {
		return nil, invalid("status", fmt.Sprintf("unknown status %q", to))
	}

	var order *models.Order
	err := s.repos.Transaction(ctx, func(tx *repository.Repositories) error {
		var err error
		if order, err = tx.Orders.GetByID(ctx, id); err != nil {
			return notFound(err, "order")
		}
		if err := statemachine.CanTransition(models.OrderStatus(order.Status), to, actor); err != nil {
			return err
		}
		order.Status = string(to)
		if err := tx.Orders.Update(ctx, order); err != nil {
			return fmt.Errorf("failed to update order status: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return order, nil
}

func (s *orderService) CancelCustomerOrder(ctx context.Context, id, customerID uint) (*models.Order, error) {
	order, err := s.repos.Orders.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "order")
	}
	// other customers' orders are reported as missing
	if order.CustomerID == nil || *order.CustomerID != customerID {
		return nil, fmt.Errorf("order %w", ErrNotFound)
	}
	return s.TransitionStatus(ctx, id, models.OrderCancelled, statemachine.ActorCustomer)
}

func (s *orderService) MarkCompleted(ctx context.Context, ids []uint) (int64, error) {
	n, err := s.repos.Orders.UpdateStatus(ctx, ids, models.OrderCompleted, models.OrderCancelled)
	if err != nil {
		return 0, fmt.Errorf("failed to mark orders completed: %w", err)
	}
	return n, nil
}

func (s *orderService) newOrderNumber() string {
	id := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))
	return fmt.Sprintf("ORD-%s-%s", s.now().UTC().Format("20060102"), id[:10])
}

// addItem writes one line, snapshotting the menu price when the input has
// none. A second line for the same menu item adds to the existing quantity.
func addItem(ctx context.Context, tx *repository.Repositories, orderID uint, in ItemInput, requireAvailable bool) (*models.OrderItem, error) {
	menuItem, err := tx.MenuItems.GetByID(ctx, in.MenuItemID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, invalid("menu_item_id", fmt.Sprintf("menu item %d does not exist", in.MenuItemID))
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load menu item: %w", err)
	}
	if requireAvailable && !menuItem.IsAvailable {
		return nil, invalid("menu_item_id", fmt.Sprintf("%s is not available", menuItem.Name))
	}

	existing, err := tx.OrderItems.FindByOrderAndMenuItem(ctx, orderID, in.MenuItemID)
	switch {
	case err == nil:
		existing.Quantity += in.Quantity
		if in.UnitPrice > 0 {
			existing.UnitPrice = in.UnitPrice
		}
		if err := tx.OrderItems.Update(ctx, existing); err != nil {
			return nil, fmt.Errorf("failed to update order item: %w", err)
		}
		existing.MenuItem = menuItem
		return existing, nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		item := &models.OrderItem{
			OrderID:    orderID,
			MenuItemID: menuItem.ID,
			Quantity:   in.Quantity,
			UnitPrice:  in.UnitPrice,
		}
		if item.UnitPrice == 0 {
			item.UnitPrice = menuItem.Price
		}
		if err := tx.OrderItems.Create(ctx, item); err != nil {
			return nil, fmt.Errorf("failed to create order item: %w", err)
		}
		item.MenuItem = menuItem
		return item, nil
	default:
		return nil, fmt.Errorf("failed to load order item: %w", err)
	}
}

// replaceItems makes the order's lines match items: matching lines are
// updated in place (keeping their price snapshot unless a price is given),
// new ones are added and the rest deleted.
func replaceItems(ctx context.Context, tx *repository.Repositories, orderID uint, current []models.OrderItem, items []ItemInput) error {
	byMenuItem := make(map[uint]models.OrderItem, len(current))
	for _, it := range current {
		byMenuItem[it.MenuItemID] = it
	}

	for _, in := range items {
		row, ok := byMenuItem[in.MenuItemID]
		if !ok {
			if _, err := addItem(ctx, tx, orderID, in, false); err != nil {
				return err
			}
			continue
		}
		delete(byMenuItem, in.MenuItemID)

		row.Quantity = in.Quantity
		if in.UnitPrice > 0 {
			row.UnitPrice = in.UnitPrice
		}
		if err := tx.OrderItems.Update(ctx, &row); err != nil {
			return fmt.Errorf("failed to update order item: %w", err)
		}
	}

	for _, stale := range byMenuItem {
		if err := tx.OrderItems.Delete(ctx, stale.ID); err != nil {
			return fmt.Errorf("failed to delete order item: %w", err)
		}
	}
	return nil
}

// recomputeTotal sets the order total to the sum of its item subtotals. An
// order without items keeps its total. A failure to read the items does not
// fail the save: it is logged and reported as TotalStale.
func recomputeTotal(ctx context.Context, tx *repository.Repositories, order *models.Order) (TotalStatus, error) {
	// the read runs under a savepoint so a failure leaves the enclosing
	// transaction usable on postgres
	var items []models.OrderItem
	err := tx.Transaction(ctx, func(read *repository.Repositories) error {
		var err error
		items, err = read.OrderItems.GetByOrderID(ctx, order.ID)
		return err
	})
	if err != nil {
		log.Printf("order total recompute failed: order_id=%d err=%v", order.ID, err)
		return TotalStale, nil
	}
	order.Items = items
	if len(items) == 0 {
		return TotalKept, nil
	}

	var total money.Cents
	for _, it := range items {
		total += it.Subtotal()
	}
	if err := tx.Orders.UpdateTotal(ctx, order.ID, total); err != nil {
		return 0, fmt.Errorf("failed to store order total: %w", err)
	}
	order.TotalAmount = total
	return TotalRecomputed, nil
}

func checkCustomer(ctx context.Context, tx *repository.Repositories, order *models.Order) error {
	if order.CustomerID == nil {
		return nil
	}
	_, err := tx.Users.GetByID(ctx, *order.CustomerID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return invalid("customer_id", fmt.Sprintf("customer %d does not exist", *order.CustomerID))
	}
	if err != nil {
		return fmt.Errorf("failed to load customer: %w", err)
	}
	return nil
}

func applyOrderDefaults(order *models.Order) {
	if order.Status == "" {
		order.Status = string(models.OrderPending)
	}
	if order.PaymentMethod == "" {
		order.PaymentMethod = string(models.PaymentCash)
	}
	order.GuestName = strings.TrimSpace(order.GuestName)
	order.GuestPhone = strings.TrimSpace(order.GuestPhone)
	order.GuestEmail = strings.TrimSpace(order.GuestEmail)
}

func validateOrder(order *models.Order) error {
	v := &ValidationError{}
	if !statemachine.Known(models.OrderStatus(order.Status)) {
		v.add("status", fmt.Sprintf("unknown status %q", order.Status))
	}
	if !models.PaymentMethod(order.PaymentMethod).Valid() {
		v.add("payment_method", fmt.Sprintf("unknown payment method %q", order.PaymentMethod))
	}
	if order.TotalAmount < 0 {
		v.add("total_amount", "must not be negative")
	}
	if order.CustomerID == nil {
		if order.GuestName == "" {
			v.add("guest_name", "required for guest orders")
		}
		if order.GuestPhone == "" && order.GuestEmail == "" {
			v.add("guest_phone", "a phone number or email is required for guest orders")
		}
	}
	if order.GuestPhone != "" && !models.PhonePattern.MatchString(order.GuestPhone) {
		v.add("guest_phone", phoneMessage)
	}
	if order.GuestEmail != "" && !validEmail(order.GuestEmail) {
		v.add("guest_email", "enter a valid email address")
	}
	return v.errOrNil()
}

func validateItem(in ItemInput) error {
	v := &ValidationError{}
	if in.MenuItemID == 0 {
		v.add("menu_item_id", "required")
	}
	if in.Quantity < 1 {
		v.add("quantity", "must be at least 1")
	}
	if in.UnitPrice < 0 {
		v.add("unit_price", "must be greater than zero")
	}
	return v.errOrNil()
}

// mergeItems validates items and folds repeated menu items into one line.
func mergeItems(items []ItemInput) ([]ItemInput, error) {
	merged := make([]ItemInput, 0, len(items))
	index := make(map[uint]int, len(items))
	for _, in := range items {
		if err := validateItem(in); err != nil {
			return nil, err
		}
		if i, ok := index[in.MenuItemID]; ok {
			merged[i].Quantity += in.Quantity
			if in.UnitPrice > 0 {
				merged[i].UnitPrice = in.UnitPrice
			}
			continue
		}
		index[in.MenuItemID] = len(merged)
		merged = append(merged, in)
	}
	return merged, nil
}
