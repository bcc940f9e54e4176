package handlers

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"restaurant_site/internal/auth"
	"restaurant_site/internal/models"
	"restaurant_site/internal/repository"
	"restaurant_site/internal/services"

	"github.com/gin-gonic/gin"
)

// AdminHandler is the JSON back-office for every stored resource.
type AdminHandler struct {
	siteService     services.SiteService
	menuService     services.MenuService
	orderService    services.OrderService
	feedbackService services.FeedbackService
	contactService  services.ContactService
	userService     services.UserService
	issuer          *auth.Issuer
}

func NewAdminHandler(
	siteService services.SiteService,
	menuService services.MenuService,
	orderService services.OrderService,
	feedbackService services.FeedbackService,
	contactService services.ContactService,
	userService services.UserService,
	issuer *auth.Issuer,
) *AdminHandler {
	return &AdminHandler{
		siteService:     siteService,
		menuService:     menuService,
		orderService:    orderService,
		feedbackService: feedbackService,
		contactService:  contactService,
		userService:     userService,
		issuer:          issuer,
	}
}

func (h *AdminHandler) Login(c *gin.Context) {
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
	if user.Role != string(models.RoleAdmin) {
		c.JSON(http.StatusForbidden, gin.H{"error": "admin access required"})
		return
	}
	token, err := h.issuer.Generate(user)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"token": token, "user": user})
}

type adminResource struct {
	Name      string `json:"name"`
	Label     string `json:"label"`
	Singleton bool   `json:"singleton"`
	CanAdd    bool   `json:"can_add"`
}

// Index lists the managed resources. Singletons report can_add=false once
// their row exists.
func (h *AdminHandler) Index(c *gin.Context) {
	ctx := c.Request.Context()
	canAddConfig, err := h.siteService.CanAddConfiguration(ctx)
	if err != nil {
		respondError(c, err)
		return
	}
	canAddLocation, err := h.siteService.CanAddLocation(ctx)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"resources": []adminResource{
		{Name: "restaurant", Label: "Restaurant profiles", CanAdd: true},
		{Name: "configuration", Label: "Restaurant configuration", Singleton: true, CanAdd: canAddConfig},
		{Name: "location", Label: "Restaurant location", Singleton: true, CanAdd: canAddLocation},
		{Name: "menu-items", Label: "Menu items", CanAdd: true},
		{Name: "orders", Label: "Orders", CanAdd: true},
		{Name: "feedback", Label: "Feedback", CanAdd: false},
		{Name: "contacts", Label: "Contact submissions", CanAdd: false},
		{Name: "users", Label: "Users", CanAdd: true},
	}})
}

type filterKind int

const (
	filterString filterKind = iota
	filterBool
	filterInt
)

// listSpec describes which columns a resource searches and filters on.
type listSpec struct {
	searchFields []string
	filters      map[string]filterKind
}

// listQuery reads ?search=, ?page=, ?limit= and the resource's filters.
func listQuery(c *gin.Context, spec listSpec) (repository.ListQuery, error) {
	q := repository.ListQuery{
		Search:       c.Query("search"),
		SearchFields: spec.searchFields,
		Filters:      map[string]interface{}{},
	}

	var err error
	if q.Page, err = intQuery(c, "page", 1); err != nil {
		return q, err
	}
	if q.Limit, err = intQuery(c, "limit", repository.DefaultPageSize); err != nil {
		return q, err
	}

	for name, kind := range spec.filters {
		raw, ok := c.GetQuery(name)
		if !ok || raw == "" {
			continue
		}
		switch kind {
		case filterString:
			q.Filters[name] = raw
		case filterBool:
			b, err := parseBool(raw)
			if err != nil {
				return q, fmt.Errorf("%s: %w", name, err)
			}
			q.Filters[name] = b
		case filterInt:
			n, err := strconv.Atoi(raw)
			if err != nil {
				return q, fmt.Errorf("%s: must be a number", name)
			}
			q.Filters[name] = n
		}
	}
	return q, nil
}

func intQuery(c *gin.Context, name string, def int) (int, error) {
	raw := c.Query(name)
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return 0, fmt.Errorf("%s: must be a positive number", name)
	}
	return n, nil
}

func parseBool(raw string) (bool, error) {
	switch strings.ToLower(raw) {
	case "1", "true", "yes":
		return true, nil
	case "0", "false", "no":
		return false, nil
	}
	return false, fmt.Errorf("%q is not a boolean", raw)
}

// respondList writes a page of results with its paging metadata.
func respondList[T any](c *gin.Context, q repository.ListQuery, results []T, total int64) {
	if results == nil {
		results = []T{}
	}
	limit := q.Limit
	if limit < 1 {
		limit = repository.DefaultPageSize
	}
	if limit > repository.MaxPageSize {
		limit = repository.MaxPageSize
	}
	c.JSON(http.StatusOK, gin.H{
		"count":   total,
		"page":    q.Page,
		"limit":   limit,
		"results": results,
	})
}

type idsRequest struct {
	IDs []uint `json:"ids" binding:"required,min=1"`
}

// Singletons

type configurationRequest struct {
	Name    string `json:"name" binding:"required,max=100"`
	Tagline string `json:"tagline" binding:"max=200"`
	Logo    string `json:"logo"`
}

func (r configurationRequest) model() *models.RestaurantConfiguration {
	return &models.RestaurantConfiguration{Name: r.Name, Tagline: r.Tagline, Logo: r.Logo}
}

func (h *AdminHandler) GetConfiguration(c *gin.Context) {
	cfg, err := h.siteService.Configuration(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	if cfg == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "configuration has not been created"})
		return
	}
	c.JSON(http.StatusOK, cfg)
}

// CreateConfiguration is the "add" action and refuses once a row exists.
func (h *AdminHandler) CreateConfiguration(c *gin.Context) {
	var req configurationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	cfg := req.model()
	if err := h.siteService.AddConfiguration(c.Request.Context(), cfg); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, cfg)
}

func (h *AdminHandler) SaveConfiguration(c *gin.Context) {
	var req configurationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	cfg := req.model()
	if err := h.siteService.SaveConfiguration(c.Request.Context(), cfg); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, cfg)
}

type locationRequest struct {
	Address     string `json:"address" binding:"required"`
	Phone       string `json:"phone" binding:"max=20"`
	Email       string `json:"email" binding:"omitempty,email"`
	MapEmbedURL string `json:"map_embed_url" binding:"omitempty,url"`
	Hours       string `json:"hours"`
}

func (r locationRequest) model() *models.RestaurantLocation {
	return &models.RestaurantLocation{
		Address:     r.Address,
		Phone:       r.Phone,
		Email:       r.Email,
		MapEmbedURL: r.MapEmbedURL,
		Hours:       r.Hours,
	}
}

func (h *AdminHandler) GetLocation(c *gin.Context) {
	loc, err := h.siteService.Location(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	if loc == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "location has not been created"})
		return
	}
	c.JSON(http.StatusOK, loc)
}

func (h *AdminHandler) CreateLocation(c *gin.Context) {
	var req locationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	loc := req.model()
	if err := h.siteService.AddLocation(c.Request.Context(), loc); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, loc)
}

func (h *AdminHandler) SaveLocation(c *gin.Context) {
	var req locationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	loc := req.model()
	if err := h.siteService.SaveLocation(c.Request.Context(), loc); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, loc)
}
