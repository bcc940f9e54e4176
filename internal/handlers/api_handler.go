package handlers

import (
	"net/http"
	"strings"
	"time"

	"restaurant_site/internal/auth"
	"restaurant_site/internal/middleware"
	"restaurant_site/internal/models"
	"restaurant_site/internal/repository"
	"restaurant_site/internal/services"

	"github.com/gin-gonic/gin"
)

type APIHandler struct {
	menuService  services.MenuService
	userService  services.UserService
	orderService services.OrderService
	issuer       *auth.Issuer
}

func NewAPIHandler(
	menuService services.MenuService,
	userService services.UserService,
	orderService services.OrderService,
	issuer *auth.Issuer,
) *APIHandler {
	return &APIHandler{
		menuService:  menuService,
		userService:  userService,
		orderService: orderService,
		issuer:       issuer,
	}
}

func (h *APIHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Menu lists menu items, optionally narrowed by ?category= and ?vegetarian=.
func (h *APIHandler) Menu(c *gin.Context) {
	filter := repository.MenuFilter{Category: strings.TrimSpace(c.Query("category"))}
	if truthy(c.Query("vegetarian")) {
		veg := true
		filter.IsVegetarian = &veg
	}

	items, err := h.menuService.ListMenu(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	if items == nil {
		items = []models.MenuItem{}
	}
	c.JSON(http.StatusOK, items)
}

// truthy accepts "1", "true" and "yes" in any case.
func truthy(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "1", "true", "yes":
		return true
	}
	return false
}

type registerRequest struct {
	Username string `json:"username" binding:"required,max=150"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
	Phone    string `json:"phone" binding:"omitempty,intl_phone"`
}

type loginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type profileRequest struct {
	Email       *string `json:"email" binding:"omitempty,email"`
	Phone       *string `json:"phone" binding:"omitempty,intl_phone"`
	Address     *string `json:"address"`
	DateOfBirth *string `json:"date_of_birth"`
}

func (h *APIHandler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	user, err := h.userService.Register(c.Request.Context(), services.RegisterInput{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
		Phone:    req.Phone,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	h.respondWithToken(c, http.StatusCreated, user)
}

func (h *APIHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	user, err := h.userService.Authenticate(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		respondError(c, err)
		return
	}
	h.respondWithToken(c, http.StatusOK, user)
}

func (h *APIHandler) respondWithToken(c *gin.Context, status int, user *models.User) {
	token, err := h.issuer.Generate(user)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(status, gin.H{"token": token, "user": user})
}

func (h *APIHandler) Profile(c *gin.Context) {
	user, err := h.userService.GetUser(c.Request.Context(), middleware.GetUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

func (h *APIHandler) UpdateProfile(c *gin.Context) {
	var req profileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	update := services.ProfileUpdate{Email: req.Email, Phone: req.Phone, Address: req.Address}
	if req.DateOfBirth != nil && *req.DateOfBirth != "" {
		dob, err := time.Parse("2006-01-02", *req.DateOfBirth)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"error":  "validation failed",
				"fields": gin.H{"date_of_birth": "Date has wrong format. Use YYYY-MM-DD."},
			})
			return
		}
		update.DateOfBirth = &dob
	}

	user, err := h.userService.UpdateProfile(c.Request.Context(), middleware.GetUserID(c), update)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

type placeOrderRequest struct {
	GuestName           string               `json:"guest_name" binding:"max=100"`
	GuestPhone          string               `json:"guest_phone" binding:"omitempty,intl_phone"`
	GuestEmail          string               `json:"guest_email" binding:"omitempty,email"`
	PaymentMethod       string               `json:"payment_method" binding:"omitempty,oneof=cash card online"`
	DeliveryAddress     string               `json:"delivery_address"`
	SpecialInstructions string               `json:"special_instructions"`
	Items               []services.ItemInput `json:"items" binding:"required,min=1"`
}

// PlaceOrder accepts orders from signed-in customers and guests alike.
func (h *APIHandler) PlaceOrder(c *gin.Context) {
	var req placeOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	order := &models.Order{
		GuestName:           req.GuestName,
		GuestPhone:          req.GuestPhone,
		GuestEmail:          req.GuestEmail,
		PaymentMethod:       req.PaymentMethod,
		DeliveryAddress:     req.DeliveryAddress,
		SpecialInstructions: req.SpecialInstructions,
	}
	if userID := middleware.GetUserID(c); userID != 0 {
		order.CustomerID = &userID
	}

	ctx := c.Request.Context()
	if _, err := h.orderService.PlaceOrder(ctx, order, req.Items); err != nil {
		respondError(c, err)
		return
	}
	created, err := h.orderService.GetOrder(ctx, order.ID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

func (h *APIHandler) MyOrders(c *gin.Context) {
	orders, err := h.orderService.ListCustomerOrders(c.Request.Context(), middleware.GetUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	if orders == nil {
		orders = []models.Order{}
	}
	c.JSON(http.StatusOK, orders)
}

func (h *APIHandler) CancelOrder(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	order, err := h.orderService.CancelCustomerOrder(c.Request.Context(), id, middleware.GetUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}
