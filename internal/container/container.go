package container

import (
	"github.com/joshua-takyi/snapvent/internal/config"
	"github.com/joshua-takyi/snapvent/internal/middleware"
	"github.com/joshua-takyi/snapvent/internal/models"
	"github.com/joshua-takyi/snapvent/internal/rabbit"
	"github.com/joshua-takyi/snapvent/internal/services"
	"github.com/joshua-takyi/snapvent/internal/storage"
	"github.com/rs/zerolog"
)

// Repos groups the store interfaces the services depend on.
type Repos struct {
	Events  models.EventRepo
	Guests  models.GuestRepo
	Gallery models.GalleryRepo
	Catalog models.CatalogRepo
	Users   models.UserRepo
	Auth    models.AuthRepo
}

// Container holds all application dependencies
type Container struct {
	Config         *config.Config
	Logger         zerolog.Logger
	TokenValidator middleware.TokenValidator

	CatalogService *services.CatalogService
	EventService   *services.EventService
	GuestService   *services.GuestService
	GalleryService *services.GalleryService
	UserService    *services.UserService
}

// NewContainer creates a new dependency injection container
func NewContainer(
	cfg *config.Config,
	logger zerolog.Logger,
	repos Repos,
	blobs storage.BlobStore,
	publisher rabbit.Publisher,
	tokens middleware.TokenValidator,
) *Container {
	catalogService := services.NewCatalogService(repos.Catalog)
	galleryService := services.NewGalleryService(repos.Gallery, repos.Events, repos.Guests, repos.Catalog, blobs, publisher, logger)
	guestService := services.NewGuestService(repos.Guests, repos.Events, galleryService, publisher, logger)
	eventService := services.NewEventService(repos.Events, repos.Guests, catalogService, galleryService, publisher, logger)
	userService := services.NewUserService(repos.Users, repos.Events, repos.Auth, logger)

	return &Container{
		Config:         cfg,
		Logger:         logger,
		TokenValidator: tokens,
		CatalogService: catalogService,
		EventService:   eventService,
		GuestService:   guestService,
		GalleryService: galleryService,
		UserService:    userService,
	}
}

// MongoRepos backs every document repo with MongoDB and auth with Supabase.
func MongoRepos(mongo *models.MongodbRepo, supa *models.SupabaseRepo) Repos {
	return Repos{
		Events:  mongo,
		Guests:  mongo,
		Gallery: mongo,
		Catalog: mongo,
		Users:   mongo,
		Auth:    supa,
	}
}
