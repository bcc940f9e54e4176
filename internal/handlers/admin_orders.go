package handlers

import (
	"net/http"

	"restaurant_site/internal/models"
	"restaurant_site/internal/money"
	"restaurant_site/internal/services"
	"restaurant_site/internal/statemachine"

	"github.com/gin-gonic/gin"
)

var orderList = listSpec{
	searchFields: []string{"order_number", "guest_name", "guest_email", "guest_phone"},
	filters: map[string]filterKind{
		"status":         filterString,
		"payment_method": filterString,
		"is_paid":        filterBool,
		"customer_id":    filterInt,
	},
}

// orderRequest is the admin order form. Items, when present, replace the
// order's lines; omit the key to leave them untouched on update.
type orderRequest struct {
	CustomerID          *uint                `json:"customer_id"`
	GuestName           string               `json:"guest_name" binding:"max=100"`
	GuestPhone          string               `json:"guest_phone" binding:"omitempty,intl_phone"`
	GuestEmail          string               `json:"guest_email" binding:"omitempty,email"`
	TotalAmount         *money.Cents         `json:"total_amount"`
	Status              string               `json:"status"`
	PaymentMethod       string               `json:"payment_method" binding:"omitempty,oneof=cash card online"`
	IsPaid              bool                 `json:"is_paid"`
	DeliveryAddress     string               `json:"delivery_address"`
	SpecialInstructions string               `json:"special_instructions"`
	Items               []services.ItemInput `json:"items"`
}

func (r orderRequest) apply(order *models.Order) {
	order.CustomerID = r.CustomerID
	order.GuestName = r.GuestName
	order.GuestPhone = r.GuestPhone
	order.GuestEmail = r.GuestEmail
	if r.TotalAmount != nil {
		order.TotalAmount = *r.TotalAmount
	}
	if r.Status != "" {
		order.Status = r.Status
	}
	if r.PaymentMethod != "" {
		order.PaymentMethod = r.PaymentMethod
	}
	order.IsPaid = r.IsPaid
	order.DeliveryAddress = r.DeliveryAddress
	order.SpecialInstructions = r.SpecialInstructions
}

func (h *AdminHandler) ListOrders(c *gin.Context) {
	q, err := listQuery(c, orderList)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	orders, total, err := h.orderService.ListOrders(c.Request.Context(), q)
	if err != nil {
		respondError(c, err)
		return
	}
	respondList(c, q, orders, total)
}

func (h *AdminHandler) GetOrder(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	order, err := h.orderService.GetOrder(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"order":       order,
		"valid_next":  statemachine.ValidTransitionsFrom(models.OrderStatus(order.Status)),
		"is_terminal": statemachine.IsTerminal(models.OrderStatus(order.Status)),
	})
}

func (h *AdminHandler) CreateOrder(c *gin.Context) {
	var req orderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	order := &models.Order{}
	req.apply(order)
	ctx := c.Request.Context()
	status, err := h.orderService.CreateOrder(ctx, order, req.Items)
	if err != nil {
		respondError(c, err)
		return
	}
	h.respondOrder(c, http.StatusCreated, order.ID, status)
}

func (h *AdminHandler) UpdateOrder(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req orderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	ctx := c.Request.Context()
	order, err := h.orderService.GetOrder(ctx, id)
	if err != nil {
		respondError(c, err)
		return
	}
	req.apply(order)
	status, err := h.orderService.SaveOrder(ctx, order, req.Items)
	if err != nil {
		respondError(c, err)
		return
	}
	h.respondOrder(c, http.StatusOK, order.ID, status)
}

// respondOrder reloads the order so the response carries its items.
func (h *AdminHandler) respondOrder(c *gin.Context, code int, id uint, status services.TotalStatus) {
	order, err := h.orderService.GetOrder(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(code, gin.H{"order": order, "total_status": status.String()})
}

func (h *AdminHandler) DeleteOrder(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := h.orderService.DeleteOrder(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

type statusRequest struct {
	Status string `json:"status" binding:"required"`
}

func (h *AdminHandler) UpdateOrderStatus(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req statusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	order, err := h.orderService.TransitionStatus(c.Request.Context(), id, models.OrderStatus(req.Status), statemachine.ActorStaff)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

func (h *AdminHandler) MarkCompleted(c *gin.Context) {
	var req idsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	n, err := h.orderService.MarkCompleted(c.Request.Context(), req.IDs)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"updated": n})
}

type orderItemRequest struct {
	MenuItemID uint        `json:"menu_item_id"`
	Quantity   int         `json:"quantity" binding:"required,min=1"`
	UnitPrice  money.Cents `json:"unit_price"`
}

func (h *AdminHandler) AddOrderItem(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req orderItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	item, status, err := h.orderService.AddItem(c.Request.Context(), id, services.ItemInput{
		MenuItemID: req.MenuItemID,
		Quantity:   req.Quantity,
		UnitPrice:  req.UnitPrice,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"item": item, "total_status": status.String()})
}

func (h *AdminHandler) UpdateOrderItem(c *gin.Context) {
	itemID, ok := parseID(c)
	if !ok {
		return
	}
	var req orderItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	item, status, err := h.orderService.UpdateItem(c.Request.Context(), itemID, req.Quantity, req.UnitPrice)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"item": item, "total_status": status.String()})
}

func (h *AdminHandler) RemoveOrderItem(c *gin.Context) {
	itemID, ok := parseID(c)
	if !ok {
		return
	}
	status, err := h.orderService.RemoveItem(c.Request.Context(), itemID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"total_status": status.String()})
}
