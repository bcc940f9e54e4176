package handlers

import (
	"net/http"

	"restaurant_site/internal/models"

	"github.com/gin-gonic/gin"
)

var userList = listSpec{
	searchFields: []string{"username", "email"},
	filters: map[string]filterKind{
		"role":      filterString,
		"is_active": filterBool,
	},
}

type userRequest struct {
	Username string `json:"username" binding:"required,max=150"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password"`
	Role     string `json:"role" binding:"omitempty,oneof=admin customer"`
	IsActive *bool  `json:"is_active"`
}

func (r userRequest) user(id uint) *models.User {
	u := &models.User{
		ID:       id,
		Username: r.Username,
		Email:    r.Email,
		Role:     r.Role,
		IsActive: true,
	}
	if r.IsActive != nil {
		u.IsActive = *r.IsActive
	}
	return u
}

func (h *AdminHandler) ListUsers(c *gin.Context) {
	q, err := listQuery(c, userList)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	users, total, err := h.userService.ListUsers(c.Request.Context(), q)
	if err != nil {
		respondError(c, err)
		return
	}
	respondList(c, q, users, total)
}

func (h *AdminHandler) GetUser(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	user, err := h.userService.GetUser(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

func (h *AdminHandler) CreateUser(c *gin.Context) {
	var req userRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	user := req.user(0)
	if err := h.userService.SaveAccount(c.Request.Context(), user, req.Password); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, user)
}

// UpdateUser saves the account. An empty password keeps the current one.
func (h *AdminHandler) UpdateUser(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req userRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	ctx := c.Request.Context()
	existing, err := h.userService.GetUser(ctx, id)
	if err != nil {
		respondError(c, err)
		return
	}
	user := req.user(id)
	if req.Role == "" {
		user.Role = existing.Role
	}
	if req.IsActive == nil {
		user.IsActive = existing.IsActive
	}
	if err := h.userService.SaveAccount(ctx, user, req.Password); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

func (h *AdminHandler) DeleteUser(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := h.userService.DeleteUser(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
