package handlers

import (
	"net/http"

	"restaurant_site/internal/models"

	"github.com/gin-gonic/gin"
)

var (
	profileList = listSpec{
		searchFields: []string{"name", "description", "phone"},
	}
	feedbackList = listSpec{
		searchFields: []string{"name", "email", "comments"},
		filters: map[string]filterKind{
			"rating":      filterInt,
			"is_approved": filterBool,
		},
	}
	contactList = listSpec{
		searchFields: []string{"name", "email", "message"},
		filters: map[string]filterKind{
			"is_reviewed": filterBool,
		},
	}
)

// Restaurant profiles

type restaurantRequest struct {
	Name         string `json:"name" binding:"required,max=100"`
	Description  string `json:"description"`
	Phone        string `json:"phone" binding:"max=20"`
	WeekdayHours string `json:"weekday_hours" binding:"max=100"`
	WeekendHours string `json:"weekend_hours" binding:"max=100"`
	AboutUs      string `json:"about_us"`
}

func (r restaurantRequest) apply(p *models.RestaurantProfile) {
	p.Name = r.Name
	p.Description = r.Description
	p.Phone = r.Phone
	p.WeekdayHours = r.WeekdayHours
	p.WeekendHours = r.WeekendHours
	p.AboutUs = r.AboutUs
}

func (h *AdminHandler) ListProfiles(c *gin.Context) {
	q, err := listQuery(c, profileList)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	profiles, total, err := h.siteService.ListProfiles(c.Request.Context(), q)
	if err != nil {
		respondError(c, err)
		return
	}
	respondList(c, q, profiles, total)
}

func (h *AdminHandler) GetProfile(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	p, err := h.siteService.GetProfile(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *AdminHandler) CreateProfile(c *gin.Context) {
	var req restaurantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	p := &models.RestaurantProfile{}
	req.apply(p)
	if err := h.siteService.CreateProfile(c.Request.Context(), p); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, p)
}

func (h *AdminHandler) UpdateProfile(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req restaurantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	ctx := c.Request.Context()
	p, err := h.siteService.GetProfile(ctx, id)
	if err != nil {
		respondError(c, err)
		return
	}
	req.apply(p)
	if err := h.siteService.UpdateProfile(ctx, p); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *AdminHandler) DeleteProfile(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := h.siteService.DeleteProfile(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// UploadLogo stores the multipart "logo" file on the profile.
func (h *AdminHandler) UploadLogo(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	fh, err := c.FormFile("logo")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "logo file is required"})
		return
	}
	file, err := fh.Open()
	if err != nil {
		respondError(c, err)
		return
	}
	defer file.Close()

	p, err := h.siteService.SetLogo(c.Request.Context(), id, fh.Filename, fh.Size, file)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

// Feedback

type feedbackRequest struct {
	Name       string `json:"name" binding:"max=100"`
	Email      string `json:"email" binding:"omitempty,email"`
	Rating     int    `json:"rating" binding:"required,min=1,max=5"`
	Comments   string `json:"comments" binding:"required"`
	IsApproved bool   `json:"is_approved"`
}

func (h *AdminHandler) ListFeedback(c *gin.Context) {
	q, err := listQuery(c, feedbackList)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	feedback, total, err := h.feedbackService.List(c.Request.Context(), q)
	if err != nil {
		respondError(c, err)
		return
	}
	respondList(c, q, feedback, total)
}

func (h *AdminHandler) GetFeedback(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	f, err := h.feedbackService.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, f)
}

func (h *AdminHandler) UpdateFeedback(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req feedbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	f := &models.Feedback{
		ID:         id,
		Name:       req.Name,
		Email:      req.Email,
		Rating:     req.Rating,
		Comments:   req.Comments,
		IsApproved: req.IsApproved,
	}
	if err := h.feedbackService.Update(c.Request.Context(), f); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, f)
}

func (h *AdminHandler) DeleteFeedback(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := h.feedbackService.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Contact submissions

type contactRequest struct {
	Name       string `json:"name" binding:"required,max=100"`
	Email      string `json:"email" binding:"required,email"`
	Message    string `json:"message" binding:"required"`
	IsReviewed bool   `json:"is_reviewed"`
}

func (h *AdminHandler) ListContacts(c *gin.Context) {
	q, err := listQuery(c, contactList)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	contacts, total, err := h.contactService.List(c.Request.Context(), q)
	if err != nil {
		respondError(c, err)
		return
	}
	respondList(c, q, contacts, total)
}

func (h *AdminHandler) GetContact(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	s, err := h.contactService.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, s)
}

func (h *AdminHandler) UpdateContact(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req contactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	s := &models.ContactSubmission{
		ID:         id,
		Name:       req.Name,
		Email:      req.Email,
		Message:    req.Message,
		IsReviewed: req.IsReviewed,
	}
	if err := h.contactService.Update(c.Request.Context(), s); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, s)
}

func (h *AdminHandler) DeleteContact(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := h.contactService.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
