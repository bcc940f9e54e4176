package services

import (
	"context"
	"regexp"
	"strings"
	"testing"
	"time"

	"restaurant_site/internal/models"
	"restaurant_site/internal/money"
	"restaurant_site/internal/repository"
	"restaurant_site/internal/statemachine"
	"restaurant_site/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newRepos(t *testing.T) (*repository.Repositories, *gorm.DB) {
	t.Helper()
	db := testutil.NewDB(t)
	return repository.New(db), db
}

func seedMenuItem(t *testing.T, repos *repository.Repositories, name string, price money.Cents) *models.MenuItem {
	t.Helper()
	item := &models.MenuItem{Name: name, Price: price, Category: string(models.CategoryMain), IsAvailable: true}
	require.NoError(t, repos.MenuItems.Create(context.Background(), item))
	return item
}

func guestOrder() *models.Order {
	return &models.Order{GuestName: "Ada", GuestPhone: "+12025550123"}
}

func TestCreateOrderSnapshotsMenuPrice(t *testing.T) {
	ctx := context.Background()
	repos, _ := newRepos(t)
	svc := NewOrderService(repos)
	wings := seedMenuItem(t, repos, "Wings", 1299)

	order := guestOrder()
	status, err := svc.CreateOrder(ctx, order, []ItemInput{{MenuItemID: wings.ID, Quantity: 2}})
	require.NoError(t, err)
	assert.Equal(t, TotalRecomputed, status)

	// later menu price changes do not touch the stored line
	wings.Price = 1599
	require.NoError(t, repos.MenuItems.Update(ctx, wings))

	stored, err := svc.GetOrder(ctx, order.ID)
	require.NoError(t, err)
	require.Len(t, stored.Items, 1)
	assert.Equal(t, money.Cents(1299), stored.Items[0].UnitPrice)
	assert.Equal(t, money.Cents(2598), stored.TotalAmount)
}

func TestSubtotalIsPriceTimesQuantity(t *testing.T) {
	for qty := 1; qty <= 25; qty++ {
		item := models.OrderItem{UnitPrice: 1050, Quantity: qty}
		assert.Equal(t, money.Cents(1050*int64(qty)), item.Subtotal())
	}
}

func TestOrderTotalIsSumOfSubtotals(t *testing.T) {
	ctx := context.Background()
	repos, _ := newRepos(t)
	svc := NewOrderService(repos)
	burger := seedMenuItem(t, repos, "Burger", 1000)
	soup := seedMenuItem(t, repos, "Soup", 550)

	order := guestOrder()
	status, err := svc.CreateOrder(ctx, order, []ItemInput{
		{MenuItemID: burger.ID, Quantity: 2},
		{MenuItemID: soup.ID, Quantity: 1},
	})
	require.NoError(t, err)
	assert.Equal(t, TotalRecomputed, status)
	assert.Equal(t, "25.50", order.TotalAmount.String())

	stored, err := svc.GetOrder(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, money.Cents(2550), stored.TotalAmount)
}

func TestOrderWithoutItemsKeepsTotal(t *testing.T) {
	ctx := context.Background()
	repos, _ := newRepos(t)
	svc := NewOrderService(repos)

	order := guestOrder()
	status, err := svc.CreateOrder(ctx, order, nil)
	require.NoError(t, err)
	assert.Equal(t, TotalKept, status)

	stored, err := svc.GetOrder(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, money.Cents(0), stored.TotalAmount)
	assert.Regexp(t, regexp.MustCompile(`^ORD-\d{8}-[0-9A-F]{10}$`), stored.OrderNumber)
}

func TestSaveOrderReportsStaleTotal(t *testing.T) {
	ctx := context.Background()
	repos, db := newRepos(t)
	svc := NewOrderService(repos)
	burger := seedMenuItem(t, repos, "Burger", 1000)

	order := guestOrder()
	_, err := svc.CreateOrder(ctx, order, []ItemInput{{MenuItemID: burger.ID, Quantity: 1}})
	require.NoError(t, err)

	// point only the direct item listing at a missing table so the database
	// itself rejects the statement; the preload used to load the order is left alone
	require.NoError(t, db.Callback().Query().Before("gorm:query").Register("test:fail_item_listing", func(d *gorm.DB) {
		if _, ok := d.Statement.Dest.(*[]models.OrderItem); ok {
			d.Statement.Table = "missing_order_items"
		}
	}))
	var raw []string
	require.NoError(t, db.Callback().Raw().After("gorm:raw").Register("test:record_raw", func(d *gorm.DB) {
		raw = append(raw, d.Statement.SQL.String())
	}))
	defer db.Callback().Raw().Remove("test:record_raw")

	loaded, err := svc.GetOrder(ctx, order.ID)
	require.NoError(t, err)
	loaded.TotalAmount = 9999
	status, err := svc.SaveOrder(ctx, loaded, nil)
	require.NoError(t, err)
	assert.Equal(t, TotalStale, status)

	require.NoError(t, db.Callback().Query().Remove("test:fail_item_listing"))
	stored, err := svc.GetOrder(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, money.Cents(9999), stored.TotalAmount)

	// the failed read was undone with a savepoint, not by the whole transaction
	var savepoint, rolledBack bool
	for _, sql := range raw {
		savepoint = savepoint || strings.HasPrefix(sql, "SAVEPOINT ")
		rolledBack = rolledBack || strings.HasPrefix(sql, "ROLLBACK TO SAVEPOINT ")
	}
	assert.True(t, savepoint, "statements: %v", raw)
	assert.True(t, rolledBack, "statements: %v", raw)
}

func TestSaveOrderReplacesItems(t *testing.T) {
	ctx := context.Background()
	repos, _ := newRepos(t)
	svc := NewOrderService(repos)
	burger := seedMenuItem(t, repos, "Burger", 1000)
	soup := seedMenuItem(t, repos, "Soup", 550)
	cake := seedMenuItem(t, repos, "Cake", 700)

	order := guestOrder()
	_, err := svc.CreateOrder(ctx, order, []ItemInput{
		{MenuItemID: burger.ID, Quantity: 1},
		{MenuItemID: soup.ID, Quantity: 1},
	})
	require.NoError(t, err)

	loaded, err := svc.GetOrder(ctx, order.ID)
	require.NoError(t, err)
	status, err := svc.SaveOrder(ctx, loaded, []ItemInput{
		{MenuItemID: burger.ID, Quantity: 3},
		{MenuItemID: cake.ID, Quantity: 1},
	})
	require.NoError(t, err)
	assert.Equal(t, TotalRecomputed, status)

	stored, err := svc.GetOrder(ctx, order.ID)
	require.NoError(t, err)
	require.Len(t, stored.Items, 2)
	assert.Equal(t, burger.ID, stored.Items[0].MenuItemID)
	assert.Equal(t, 3, stored.Items[0].Quantity)
	assert.Equal(t, cake.ID, stored.Items[1].MenuItemID)
	assert.Equal(t, money.Cents(3700), stored.TotalAmount)
}

func TestAddItemIncrementsExistingLine(t *testing.T) {
	ctx := context.Background()
	repos, _ := newRepos(t)
	svc := NewOrderService(repos)
	burger := seedMenuItem(t, repos, "Burger", 1000)

	order := guestOrder()
	_, err := svc.CreateOrder(ctx, order, []ItemInput{{MenuItemID: burger.ID, Quantity: 1}})
	require.NoError(t, err)

	item, status, err := svc.AddItem(ctx, order.ID, ItemInput{MenuItemID: burger.ID, Quantity: 2})
	require.NoError(t, err)
	assert.Equal(t, TotalRecomputed, status)
	assert.Equal(t, 3, item.Quantity)

	stored, err := svc.GetOrder(ctx, order.ID)
	require.NoError(t, err)
	require.Len(t, stored.Items, 1)
	assert.Equal(t, money.Cents(3000), stored.TotalAmount)
}

func TestUpdateAndRemoveItemRecomputeTotal(t *testing.T) {
	ctx := context.Background()
	repos, _ := newRepos(t)
	svc := NewOrderService(repos)
	burger := seedMenuItem(t, repos, "Burger", 1000)
	soup := seedMenuItem(t, repos, "Soup", 550)

	order := guestOrder()
	_, err := svc.CreateOrder(ctx, order, []ItemInput{
		{MenuItemID: burger.ID, Quantity: 1},
		{MenuItemID: soup.ID, Quantity: 1},
	})
	require.NoError(t, err)
	stored, err := svc.GetOrder(ctx, order.ID)
	require.NoError(t, err)

	_, status, err := svc.UpdateItem(ctx, stored.Items[0].ID, 4, 0)
	require.NoError(t, err)
	assert.Equal(t, TotalRecomputed, status)

	status, err = svc.RemoveItem(ctx, stored.Items[1].ID)
	require.NoError(t, err)
	assert.Equal(t, TotalRecomputed, status)

	stored, err = svc.GetOrder(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, money.Cents(4000), stored.TotalAmount)

	// removing the last line leaves the last computed total in place
	status, err = svc.RemoveItem(ctx, stored.Items[0].ID)
	require.NoError(t, err)
	assert.Equal(t, TotalKept, status)
}

func TestPlaceOrder(t *testing.T) {
	ctx := context.Background()
	repos, _ := newRepos(t)
	svc := NewOrderService(repos)
	burger := seedMenuItem(t, repos, "Burger", 1000)

	t.Run("forces pending unpaid and menu prices", func(t *testing.T) {
		order := guestOrder()
		order.Status = string(models.OrderCompleted)
		order.IsPaid = true
		_, err := svc.PlaceOrder(ctx, order, []ItemInput{{MenuItemID: burger.ID, Quantity: 2, UnitPrice: 1}})
		require.NoError(t, err)

		stored, err := svc.GetOrder(ctx, order.ID)
		require.NoError(t, err)
		assert.Equal(t, string(models.OrderPending), stored.Status)
		assert.False(t, stored.IsPaid)
		assert.Equal(t, money.Cents(1000), stored.Items[0].UnitPrice)
		assert.Equal(t, money.Cents(2000), stored.TotalAmount)
	})

	t.Run("requires items", func(t *testing.T) {
		_, err := svc.PlaceOrder(ctx, guestOrder(), nil)
		var verr *ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Contains(t, verr.Fields, "items")
	})

	t.Run("rejects unavailable items", func(t *testing.T) {
		off := seedMenuItem(t, repos, "Seasonal", 800)
		_, err := repos.MenuItems.ToggleAvailability(ctx, []uint{off.ID})
		require.NoError(t, err)

		_, err = svc.PlaceOrder(ctx, guestOrder(), []ItemInput{{MenuItemID: off.ID, Quantity: 1}})
		var verr *ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Contains(t, verr.Fields, "menu_item_id")
	})
}

func TestGuestOrderValidation(t *testing.T) {
	ctx := context.Background()
	repos, _ := newRepos(t)
	svc := NewOrderService(repos)

	tests := []struct {
		name  string
		order *models.Order
		field string
	}{
		{name: "missing name", order: &models.Order{GuestPhone: "+12025550123"}, field: "guest_name"},
		{name: "missing contact", order: &models.Order{GuestName: "Ada"}, field: "guest_phone"},
		{name: "bad phone", order: &models.Order{GuestName: "Ada", GuestPhone: "12-34"}, field: "guest_phone"},
		{name: "bad email", order: &models.Order{GuestName: "Ada", GuestEmail: "nope"}, field: "guest_email"},
		{name: "unknown status", order: &models.Order{GuestName: "Ada", GuestEmail: "a@b.co", Status: "lost"}, field: "status"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.CreateOrder(ctx, tt.order, nil)
			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Contains(t, verr.Fields, tt.field)
		})
	}
}

func TestTransitionStatus(t *testing.T) {
	ctx := context.Background()
	repos, _ := newRepos(t)
	svc := NewOrderService(repos)

	order := guestOrder()
	_, err := svc.CreateOrder(ctx, order, nil)
	require.NoError(t, err)

	updated, err := svc.TransitionStatus(ctx, order.ID, models.OrderConfirmed, statemachine.ActorStaff)
	require.NoError(t, err)
	assert.Equal(t, string(models.OrderConfirmed), updated.Status)

	_, err = svc.TransitionStatus(ctx, order.ID, models.OrderCompleted, statemachine.ActorStaff)
	var terr *statemachine.InvalidTransitionError
	assert.ErrorAs(t, err, &terr)

	_, err = svc.TransitionStatus(ctx, 999, models.OrderConfirmed, statemachine.ActorStaff)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCancelCustomerOrder(t *testing.T) {
	ctx := context.Background()
	repos, _ := newRepos(t)
	svc := NewOrderService(repos)
	users := NewUserService(repos)

	owner, err := users.Register(ctx, RegisterInput{Username: "owner", Email: "owner@example.com", Password: "password1"})
	require.NoError(t, err)
	other, err := users.Register(ctx, RegisterInput{Username: "other", Email: "other@example.com", Password: "password1"})
	require.NoError(t, err)

	order := &models.Order{CustomerID: &owner.ID}
	_, err = svc.CreateOrder(ctx, order, nil)
	require.NoError(t, err)

	_, err = svc.CancelCustomerOrder(ctx, order.ID, other.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	cancelled, err := svc.CancelCustomerOrder(ctx, order.ID, owner.ID)
	require.NoError(t, err)
	assert.Equal(t, string(models.OrderCancelled), cancelled.Status)
}

func TestMarkCompletedSkipsCancelled(t *testing.T) {
	ctx := context.Background()
	repos, _ := newRepos(t)
	svc := NewOrderService(repos)

	open := guestOrder()
	_, err := svc.CreateOrder(ctx, open, nil)
	require.NoError(t, err)
	cancelled := guestOrder()
	cancelled.Status = string(models.OrderCancelled)
	_, err = svc.CreateOrder(ctx, cancelled, nil)
	require.NoError(t, err)

	n, err := svc.MarkCompleted(ctx, []uint{open.ID, cancelled.ID})
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	stored, err := svc.GetOrder(ctx, open.ID)
	require.NoError(t, err)
	assert.Equal(t, string(models.OrderCompleted), stored.Status)
	stored, err = svc.GetOrder(ctx, cancelled.ID)
	require.NoError(t, err)
	assert.Equal(t, string(models.OrderCancelled), stored.Status)
}

func TestOrderNumberUsesClock(t *testing.T) {
	svc := &orderService{now: func() time.Time { return time.Date(2026, 10, 16, 23, 0, 0, 0, time.UTC) }}
	assert.Regexp(t, `^ORD-20261016-[0-9A-F]{10}$`, svc.newOrderNumber())
	assert.NotEqual(t, svc.newOrderNumber(), svc.newOrderNumber())
}
