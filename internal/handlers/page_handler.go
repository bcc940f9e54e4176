package handlers

import (
	"errors"
	"net/http"
	"strings"

	"restaurant_site/internal/config"
	"restaurant_site/internal/models"
	"restaurant_site/internal/services"

	"github.com/gin-gonic/gin"
)

// PageHandler serves the public HTML pages.
type PageHandler struct {
	siteService     services.SiteService
	menuService     services.MenuService
	feedbackService services.FeedbackService
	contactService  services.ContactService
	settings        config.RestaurantSettings
}

func NewPageHandler(
	siteService services.SiteService,
	menuService services.MenuService,
	feedbackService services.FeedbackService,
	contactService services.ContactService,
	settings config.RestaurantSettings,
) *PageHandler {
	return &PageHandler{
		siteService:     siteService,
		menuService:     menuService,
		feedbackService: feedbackService,
		contactService:  contactService,
		settings:        settings,
	}
}

type feedbackForm struct {
	Name     string `form:"name" binding:"max=100"`
	Email    string `form:"email" binding:"omitempty,email"`
	Rating   int    `form:"rating" binding:"required,min=1,max=5"`
	Comments string `form:"comments" binding:"required"`
}

type contactForm struct {
	Name    string `form:"name" binding:"required,max=100"`
	Email   string `form:"email" binding:"required,email"`
	Message string `form:"message" binding:"required"`
}

type ratingOption struct {
	Value int
	Label string
}

func ratingOptions() []ratingOption {
	opts := make([]ratingOption, 0, len(models.RatingLabels))
	for v := 5; v >= 1; v-- {
		opts = append(opts, ratingOption{Value: v, Label: models.RatingLabels[v]})
	}
	return opts
}

func (h *PageHandler) Home(c *gin.Context) {
	restaurant, err := h.siteService.HomeProfile(c.Request.Context())
	if err != nil {
		h.renderError(c, err, http.StatusInternalServerError, "Sorry, we're experiencing technical difficulties. Please try again later.")
		return
	}
	h.render(c, http.StatusOK, "home.html", gin.H{
		"restaurant":    restaurant,
		"default_phone": h.settings.Phone,
	})
}

func (h *PageHandler) About(c *gin.Context) {
	restaurant, err := h.siteService.FirstProfile(c.Request.Context())
	if err != nil {
		h.renderError(c, err, http.StatusInternalServerError, "Sorry, we're experiencing technical difficulties. Please try again later.")
		return
	}
	h.render(c, http.StatusOK, "about.html", gin.H{"title": "About", "restaurant": restaurant})
}

func (h *PageHandler) Menu(c *gin.Context) {
	sections, err := h.menuService.MenuSections(c.Request.Context())
	if err != nil {
		h.renderError(c, err, http.StatusInternalServerError, "Sorry, we're experiencing technical difficulties. Please try again later.")
		return
	}
	h.render(c, http.StatusOK, "menu.html", gin.H{"title": "Menu", "sections": sections})
}

func (h *PageHandler) Reservations(c *gin.Context) {
	h.render(c, http.StatusOK, "reservations.html", gin.H{"title": "Reservations"})
}

// Search is a placeholder: it echoes the query and never returns results.
func (h *PageHandler) Search(c *gin.Context) {
	h.render(c, http.StatusOK, "search.html", gin.H{
		"title":   "Search",
		"query":   strings.TrimSpace(c.Query("q")),
		"results": []models.MenuItem{},
	})
}

func (h *PageHandler) FeedbackForm(c *gin.Context) {
	h.render(c, http.StatusOK, "feedback.html", gin.H{
		"title":     "Feedback",
		"form":      feedbackForm{Rating: 5},
		"ratings":   ratingOptions(),
		"submitted": c.Query("submitted") == "1",
	})
}

func (h *PageHandler) SubmitFeedback(c *gin.Context) {
	var form feedbackForm
	if err := c.ShouldBind(&form); err != nil {
		h.renderFeedbackErrors(c, form, formErrors(err))
		return
	}

	feedback := &models.Feedback{
		Name:     form.Name,
		Email:    form.Email,
		Rating:   form.Rating,
		Comments: form.Comments,
	}
	if err := h.feedbackService.Submit(c.Request.Context(), feedback); err != nil {
		var validation *services.ValidationError
		if errors.As(err, &validation) {
			h.renderFeedbackErrors(c, form, validation.Fields)
			return
		}
		h.renderError(c, err, http.StatusInternalServerError, "Sorry, we could not save your feedback. Please try again later.")
		return
	}
	c.Redirect(http.StatusSeeOther, "/feedback?submitted=1")
}

func (h *PageHandler) renderFeedbackErrors(c *gin.Context, form feedbackForm, fields map[string]string) {
	h.render(c, http.StatusBadRequest, "feedback.html", gin.H{
		"title":   "Feedback",
		"form":    form,
		"ratings": ratingOptions(),
		"errors":  fields,
	})
}

func (h *PageHandler) ContactForm(c *gin.Context) {
	h.render(c, http.StatusOK, "contact.html", gin.H{
		"title":     "Contact",
		"form":      contactForm{},
		"submitted": c.Query("submitted") == "1",
	})
}

func (h *PageHandler) SubmitContact(c *gin.Context) {
	var form contactForm
	if err := c.ShouldBind(&form); err != nil {
		h.renderContactErrors(c, form, formErrors(err))
		return
	}

	submission := &models.ContactSubmission{
		Name:    form.Name,
		Email:   form.Email,
		Message: form.Message,
	}
	if err := h.contactService.Submit(c.Request.Context(), submission); err != nil {
		var validation *services.ValidationError
		if errors.As(err, &validation) {
			h.renderContactErrors(c, form, validation.Fields)
			return
		}
		h.renderError(c, err, http.StatusInternalServerError, "Sorry, we could not send your message. Please try again later.")
		return
	}
	c.Redirect(http.StatusSeeOther, "/contact?submitted=1")
}

func (h *PageHandler) renderContactErrors(c *gin.Context, form contactForm, fields map[string]string) {
	h.render(c, http.StatusBadRequest, "contact.html", gin.H{
		"title":  "Contact",
		"form":   form,
		"errors": fields,
	})
}

// formErrors falls back to a form-wide message when the failure was not a
// field validation (e.g. a non-numeric rating).
func formErrors(err error) map[string]string {
	if fields := fieldErrors(err); len(fields) > 0 {
		return fields
	}
	return map[string]string{"_": "Please correct the errors below."}
}
