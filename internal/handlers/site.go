package handlers

import (
	"context"
	"html/template"
	"io/fs"
	"log"
	"net/http"
	"strings"
	"time"

	"restaurant_site/internal/config"
	"restaurant_site/internal/models"
	"restaurant_site/internal/services"

	"github.com/gin-gonic/gin"
)

// SiteContext is the data every page template receives as .site.
type SiteContext struct {
	CurrentYear   int
	Restaurant    *models.RestaurantProfile
	Configuration *models.RestaurantConfiguration
	Location      *models.RestaurantLocation

	Name          string
	Tagline       string
	Address       string
	Phone         string
	Email         string
	HoursWeekdays string
	HoursWeekend  string
	HoursSpecial  string
	MapEmbedURL   string
}

// LoadTemplates parses the page templates with the site's helper functions.
func LoadTemplates(files fs.FS, mediaURL string) (*template.Template, error) {
	funcs := template.FuncMap{
		"mediaURL": func(ref string) string { return MediaURL(mediaURL, ref) },
	}
	return template.New("").Funcs(funcs).ParseFS(files, "templates/*.html")
}

// MediaURL turns a stored media reference into a link. Absolute URLs (from
// Cloudinary) are returned as is.
func MediaURL(prefix, ref string) string {
	if ref == "" || strings.HasPrefix(ref, "http://") || strings.HasPrefix(ref, "https://") {
		return ref
	}
	return strings.TrimSuffix(prefix, "/") + "/" + strings.TrimPrefix(ref, "/")
}

// siteContext starts from the configured settings and overrides them with
// whatever the database holds.
func siteContext(ctx context.Context, site services.SiteService, defaults config.RestaurantSettings) *SiteContext {
	sc := &SiteContext{
		CurrentYear:   time.Now().Year(),
		Name:          defaults.Name,
		Tagline:       defaults.Tagline,
		Address:       defaults.Address,
		Phone:         defaults.Phone,
		Email:         defaults.Email,
		HoursWeekdays: defaults.HoursWeekdays,
		HoursWeekend:  defaults.HoursWeekend,
		HoursSpecial:  defaults.HoursSpecial,
		MapEmbedURL:   defaults.MapEmbedURL,
	}

	// lookup failures fall back to the configured settings
	if p, err := site.FirstProfile(ctx); err != nil {
		log.Printf("site context: profile lookup failed: err=%v", err)
	} else if p != nil {
		sc.Restaurant = p
		sc.Name = p.Name
		overrideIfSet(&sc.Phone, p.Phone)
		overrideIfSet(&sc.HoursWeekdays, p.WeekdayHours)
		overrideIfSet(&sc.HoursWeekend, p.WeekendHours)
	}
	if cfg, err := site.Configuration(ctx); err != nil {
		log.Printf("site context: configuration lookup failed: err=%v", err)
	} else if cfg != nil {
		sc.Configuration = cfg
		overrideIfSet(&sc.Name, cfg.Name)
		overrideIfSet(&sc.Tagline, cfg.Tagline)
	}
	if loc, err := site.Location(ctx); err != nil {
		log.Printf("site context: location lookup failed: err=%v", err)
	} else if loc != nil {
		sc.Location = loc
		overrideIfSet(&sc.Address, loc.Address)
		overrideIfSet(&sc.Phone, loc.Phone)
		overrideIfSet(&sc.Email, loc.Email)
		overrideIfSet(&sc.MapEmbedURL, loc.MapEmbedURL)
		overrideIfSet(&sc.HoursSpecial, loc.Hours)
	}
	return sc
}

func overrideIfSet(dst *string, v string) {
	if strings.TrimSpace(v) != "" {
		*dst = v
	}
}

// render executes a page template with the site context and the keys every
// page expects.
func (h *PageHandler) render(c *gin.Context, status int, name string, data gin.H) {
	page := gin.H{
		"site":   siteContext(c.Request.Context(), h.siteService, h.settings),
		"title":  "",
		"query":  "",
		"errors": map[string]string{},
	}
	for k, v := range data {
		page[k] = v
	}
	c.HTML(status, name, page)
}

// renderError logs err and shows the generic error page.
func (h *PageHandler) renderError(c *gin.Context, err error, status int, message string) {
	log.Printf("page failed: method=%s path=%s status=%d err=%v", c.Request.Method, c.Request.URL.Path, status, err)
	h.render(c, status, "error.html", gin.H{
		"title":         "Error",
		"status_code":   status,
		"error_message": message,
	})
}

// NotFound renders the 404 page for unmatched routes. JSON clients get a JSON body.
func (h *PageHandler) NotFound(c *gin.Context) {
	if strings.HasPrefix(c.Request.URL.Path, "/api/") || strings.HasPrefix(c.Request.URL.Path, "/admin") {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}
	h.render(c, http.StatusNotFound, "404.html", gin.H{"title": "Page not found"})
}
