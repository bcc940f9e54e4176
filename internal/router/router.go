package router

import (
	"fmt"
	"io/fs"
	"net/http"

	"restaurant_site/internal/auth"
	"restaurant_site/internal/handlers"
	"restaurant_site/internal/middleware"
	"restaurant_site/internal/models"
	"restaurant_site/web"

	"github.com/gin-gonic/gin"
)

type Handlers struct {
	Pages *handlers.PageHandler
	API   *handlers.APIHandler
	Admin *handlers.AdminHandler
}

type Options struct {
	Issuer  *auth.Issuer
	Limiter *middleware.InMemoryRateLimiter
	// MediaURL is the public prefix of uploaded files.
	MediaURL string
	// MediaRoot is served under MediaURL when set. Leave it empty when media
	// is hosted elsewhere.
	MediaRoot string
}

// Setup builds the engine with every public, API and admin route.
func Setup(h Handlers, opts Options) (*gin.Engine, error) {
	if err := handlers.RegisterValidators(); err != nil {
		return nil, fmt.Errorf("failed to register validators: %w", err)
	}
	tmpl, err := handlers.LoadTemplates(web.Templates, opts.MediaURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}
	static, err := fs.Sub(web.Static, "static")
	if err != nil {
		return nil, fmt.Errorf("failed to open static files: %w", err)
	}

	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery(), middleware.CORS())
	r.SetHTMLTemplate(tmpl)
	r.StaticFS("/static", http.FS(static))
	if opts.MediaRoot != "" {
		r.Static(opts.MediaURL, opts.MediaRoot)
	}

	r.GET("/health", h.API.Health)

	// Public pages
	r.GET("/", h.Pages.Home)
	r.GET("/about", h.Pages.About)
	r.GET("/menu", h.Pages.Menu)
	r.GET("/reservations", h.Pages.Reservations)
	r.GET("/search", h.Pages.Search)
	r.GET("/feedback", h.Pages.FeedbackForm)
	r.POST("/feedback", h.Pages.SubmitFeedback)
	r.GET("/contact", h.Pages.ContactForm)
	r.POST("/contact", h.Pages.SubmitContact)
	r.NoRoute(h.Pages.NotFound)

	api := r.Group("/api")
	{
		api.GET("/menu", h.API.Menu)

		accounts := api.Group("/accounts")
		if opts.Limiter != nil {
			accounts.Use(middleware.RateLimit(opts.Limiter))
		}
		accounts.POST("/register", h.API.Register)
		accounts.POST("/login", h.API.Login)
		accounts.GET("/profile", middleware.AuthRequired(opts.Issuer), h.API.Profile)
		accounts.PUT("/profile", middleware.AuthRequired(opts.Issuer), h.API.UpdateProfile)

		orders := api.Group("/orders")
		orders.POST("", middleware.OptionalAuth(opts.Issuer), h.API.PlaceOrder)
		orders.GET("/mine", middleware.AuthRequired(opts.Issuer), h.API.MyOrders)
		orders.POST("/:id/cancel", middleware.AuthRequired(opts.Issuer), h.API.CancelOrder)
	}

	login := r.Group("/admin")
	if opts.Limiter != nil {
		login.Use(middleware.RateLimit(opts.Limiter))
	}
	login.POST("/login", h.Admin.Login)

	admin := r.Group("/admin")
	admin.Use(middleware.AuthRequired(opts.Issuer), middleware.RoleRequired(models.RoleAdmin))
	{
		admin.GET("", h.Admin.Index)

		admin.GET("/configuration", h.Admin.GetConfiguration)
		admin.POST("/configuration", h.Admin.CreateConfiguration)
		admin.PUT("/configuration", h.Admin.SaveConfiguration)
		admin.GET("/location", h.Admin.GetLocation)
		admin.POST("/location", h.Admin.CreateLocation)
		admin.PUT("/location", h.Admin.SaveLocation)

		admin.GET("/restaurant", h.Admin.ListProfiles)
		admin.POST("/restaurant", h.Admin.CreateProfile)
		admin.GET("/restaurant/:id", h.Admin.GetProfile)
		admin.PUT("/restaurant/:id", h.Admin.UpdateProfile)
		admin.DELETE("/restaurant/:id", h.Admin.DeleteProfile)
		admin.POST("/restaurant/:id/logo", h.Admin.UploadLogo)

		admin.GET("/menu-items", h.Admin.ListMenuItems)
		admin.POST("/menu-items", h.Admin.CreateMenuItem)
		admin.POST("/menu-items/toggle-availability", h.Admin.ToggleAvailability)
		admin.GET("/menu-items/:id", h.Admin.GetMenuItem)
		admin.PUT("/menu-items/:id", h.Admin.UpdateMenuItem)
		admin.DELETE("/menu-items/:id", h.Admin.DeleteMenuItem)
		admin.POST("/menu-items/:id/image", h.Admin.UploadMenuItemImage)

		admin.GET("/orders", h.Admin.ListOrders)
		admin.POST("/orders", h.Admin.CreateOrder)
		admin.POST("/orders/mark-completed", h.Admin.MarkCompleted)
		admin.GET("/orders/:id", h.Admin.GetOrder)
		admin.PUT("/orders/:id", h.Admin.UpdateOrder)
		admin.DELETE("/orders/:id", h.Admin.DeleteOrder)
		admin.PUT("/orders/:id/status", h.Admin.UpdateOrderStatus)
		admin.POST("/orders/:id/items", h.Admin.AddOrderItem)
		admin.PUT("/order-items/:id", h.Admin.UpdateOrderItem)
		admin.DELETE("/order-items/:id", h.Admin.RemoveOrderItem)

		admin.GET("/feedback", h.Admin.ListFeedback)
		admin.GET("/feedback/:id", h.Admin.GetFeedback)
		admin.PUT("/feedback/:id", h.Admin.UpdateFeedback)
		admin.DELETE("/feedback/:id", h.Admin.DeleteFeedback)

		admin.GET("/contacts", h.Admin.ListContacts)
		admin.GET("/contacts/:id", h.Admin.GetContact)
		admin.PUT("/contacts/:id", h.Admin.UpdateContact)
		admin.DELETE("/contacts/:id", h.Admin.DeleteContact)

		admin.GET("/users", h.Admin.ListUsers)
		admin.POST("/users", h.Admin.CreateUser)
		admin.GET("/users/:id", h.Admin.GetUser)
		admin.PUT("/users/:id", h.Admin.UpdateUser)
		admin.DELETE("/users/:id", h.Admin.DeleteUser)
	}

	return r, nil
}
