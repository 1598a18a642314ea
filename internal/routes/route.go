package routes

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joshua-takyi/snapvent/internal/container"
	"github.com/joshua-takyi/snapvent/internal/handlers"
	"github.com/joshua-takyi/snapvent/internal/middleware"
)

// SetupRoutes configures all routes with the dependency container
func SetupRoutes(container *container.Container) *gin.Engine {
	if container.Config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	secureCookies := container.Config.IsProduction()

	r := gin.New()
	r.Use(cors.New(cors.Config{
		AllowOrigins:     container.Config.CORSAllowOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "PATCH"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"},
		ExposeHeaders:    []string{"Content-Length", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	r.Use(middleware.RequestID())
	r.Use(middleware.StructuredLogger(container.Logger))
	r.Use(middleware.ErrorHandler(container.Logger))
	r.Use(gin.Recovery())

	v1 := r.Group("/api/v1")
	{
		v1.GET("/health", func(c *gin.Context) {
			c.JSON(200, gin.H{
				"status":  "OK",
				"service": "snapvent-api",
			})
		})

		v1.POST("/login", handlers.Login(container.UserService, secureCookies))
		v1.POST("/logout", handlers.Logout(secureCookies))
		v1.POST("/webhooks/identity",
			middleware.WebhookSignature(container.Config.WebhookSecret, container.Logger),
			handlers.IdentityWebhook(container.UserService),
		)

		v1.POST("/pricing/preview", handlers.PreviewPrice(container.CatalogService))
		v1.GET("/catalog/capture-plans", handlers.ListCapturePlans(container.CatalogService))
		v1.GET("/catalog/guest-tiers", handlers.ListGuestTiers(container.CatalogService))
	}

	// camera page endpoints, reached through the event QR code
	public := v1.Group("/public/events/:id")
	{
		public.POST("/guests", handlers.RegisterGuest(container.GuestService))
		public.GET("/guests/lookup", handlers.LookupGuest(container.GuestService))
		public.GET("/guests/:guest_id/usage", handlers.GuestUsage(container.GalleryService))
		public.POST("/uploads/url", handlers.GenerateUploadURL(container.GalleryService))
		public.POST("/uploads", handlers.RegisterUpload(container.GalleryService))
	}

	protected := v1.Group("/")
	protected.Use(middleware.AuthMiddleware(container.TokenValidator, container.UserService, container.Logger, secureCookies))

	protected.GET("/me", handlers.Me(container.UserService))

	eventRoutes := protected.Group("/events")
	{
		eventRoutes.POST("", handlers.CreateEvent(container.EventService))
		eventRoutes.GET("", handlers.ListEvents(container.EventService))
		eventRoutes.GET("/:id", handlers.GetEvent(container.EventService))
		eventRoutes.PATCH("/:id", handlers.UpdateEvent(container.EventService))
		eventRoutes.DELETE("/:id", handlers.DeleteEvent(container.EventService))
		eventRoutes.GET("/:id/guests", handlers.ListGuests(container.GuestService))
		eventRoutes.GET("/:id/gallery", handlers.ListEventGallery(container.GalleryService))
		eventRoutes.DELETE("/:id/gallery", handlers.DeleteEventGallery(container.GalleryService))
	}

	guestRoutes := protected.Group("/guests")
	{
		guestRoutes.GET("/:id", handlers.GetGuest(container.GuestService))
		guestRoutes.PATCH("/:id", handlers.UpdateGuest(container.GuestService))
		guestRoutes.DELETE("/:id", handlers.DeleteGuest(container.GuestService))
		guestRoutes.GET("/:id/gallery", handlers.ListGuestGallery(container.GalleryService))
	}

	galleryRoutes := protected.Group("/gallery")
	{
		galleryRoutes.GET("/:id", handlers.GetGalleryItem(container.GalleryService))
		galleryRoutes.DELETE("/:id", handlers.DeleteGalleryItem(container.GalleryService))
	}

	return r
}
