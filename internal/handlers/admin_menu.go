package handlers

import (
	"net/http"

	"restaurant_site/internal/models"
	"restaurant_site/internal/money"

	"github.com/gin-gonic/gin"
)

var menuItemList = listSpec{
	searchFields: []string{"name", "description"},
	filters: map[string]filterKind{
		"category":      filterString,
		"is_vegetarian": filterBool,
		"is_available":  filterBool,
	},
}

type menuItemRequest struct {
	Name         string      `json:"name" binding:"required,max=100"`
	Description  string      `json:"description"`
	Price        money.Cents `json:"price" binding:"required"`
	Category     string      `json:"category" binding:"omitempty,oneof=appetizer main dessert beverage side"`
	IsVegetarian *bool       `json:"is_vegetarian"`
	IsAvailable  *bool       `json:"is_available"`
}

// apply copies the request onto item. Omitted flags keep their current value.
func (r menuItemRequest) apply(item *models.MenuItem) {
	item.Name = r.Name
	item.Description = r.Description
	item.Price = r.Price
	if r.Category != "" {
		item.Category = r.Category
	}
	if r.IsVegetarian != nil {
		item.IsVegetarian = *r.IsVegetarian
	}
	if r.IsAvailable != nil {
		item.IsAvailable = *r.IsAvailable
	}
}

func (h *AdminHandler) ListMenuItems(c *gin.Context) {
	q, err := listQuery(c, menuItemList)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	items, total, err := h.menuService.ListMenuItems(c.Request.Context(), q)
	if err != nil {
		respondError(c, err)
		return
	}
	respondList(c, q, items, total)
}

func (h *AdminHandler) GetMenuItem(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	item, err := h.menuService.GetMenuItem(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, item)
}

func (h *AdminHandler) CreateMenuItem(c *gin.Context) {
	var req menuItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	// new items are on the menu unless stated otherwise
	item := &models.MenuItem{IsAvailable: true}
	req.apply(item)
	if err := h.menuService.CreateMenuItem(c.Request.Context(), item); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, item)
}

func (h *AdminHandler) UpdateMenuItem(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req menuItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	ctx := c.Request.Context()
	item, err := h.menuService.GetMenuItem(ctx, id)
	if err != nil {
		respondError(c, err)
		return
	}
	req.apply(item)
	if err := h.menuService.UpdateMenuItem(ctx, item); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, item)
}

func (h *AdminHandler) DeleteMenuItem(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := h.menuService.DeleteMenuItem(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *AdminHandler) ToggleAvailability(c *gin.Context) {
	var req idsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	n, err := h.menuService.ToggleAvailability(c.Request.Context(), req.IDs)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"updated": n})
}

// UploadMenuItemImage stores the multipart "image" file and links it to the item.
func (h *AdminHandler) UploadMenuItemImage(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	fh, err := c.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "image file is required"})
		return
	}
	file, err := fh.Open()
	if err != nil {
		respondError(c, err)
		return
	}
	defer file.Close()

	item, err := h.menuService.SetImage(c.Request.Context(), id, fh.Filename, fh.Size, file)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, item)
}
