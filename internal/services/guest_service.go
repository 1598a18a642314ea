package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/joshua-takyi/snapvent/internal/models"
	"github.com/joshua-takyi/snapvent/internal/rabbit"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type GuestService struct {
	guestRepo models.GuestRepo
	eventRepo models.EventRepo
	gallery   *GalleryService
	publisher rabbit.Publisher
	logger    zerolog.Logger
	now       func() time.Time
}

func NewGuestService(
	guestRepo models.GuestRepo,
	eventRepo models.EventRepo,
	gallery *GalleryService,
	publisher rabbit.Publisher,
	logger zerolog.Logger,
) *GuestService {
	return &GuestService{
		guestRepo: guestRepo,
		eventRepo: eventRepo,
		gallery:   gallery,
		publisher: publisher,
		logger:    logger.With().Str("component", "guests").Logger(),
		now:       time.Now,
	}
}

type guestNotification struct {
	GuestID  string    `json:"guest_id"`
	EventID  string    `json:"event_id"`
	Nickname string    `json:"nickname"`
	At       time.Time `json:"at"`
}

// RegisterGuest adds a guest to an event from the public camera page. A
// device may hold one guest per event; the device is the visitor id prefix
// before the first "_".
func (gs *GuestService) RegisterGuest(ctx context.Context, eventID primitive.ObjectID, req *models.RegisterGuestRequest) (*models.Guest, error) {
	if req != nil {
		req.Nickname = strings.TrimSpace(req.Nickname)
	}
	if err := models.ValidateStruct(req); err != nil {
		return nil, err
	}
	if _, err := gs.eventRepo.GetEventByID(ctx, eventID); err != nil {
		return nil, err
	}

	existing, err := gs.guestRepo.ListGuestsByEvent(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("failed to list guests: %w", err)
	}
	key := req.Fingerprint.DeviceKey()
	for _, g := range existing {
		if models.SameDevice(g.Fingerprint.VisitorID, key) {
			return nil, &models.DuplicateDeviceError{Nickname: g.Nickname}
		}
	}

	now := gs.now()
	guest, err := gs.guestRepo.CreateGuest(ctx, &models.Guest{
		EventID:      eventID,
		Nickname:     req.Nickname,
		Email:        strings.TrimSpace(req.Email),
		SocialHandle: strings.TrimSpace(req.SocialHandle),
		Fingerprint:  *req.Fingerprint,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to register guest: %w", err)
	}

	msg := guestNotification{GuestID: guest.ID.Hex(), EventID: eventID.Hex(), Nickname: guest.Nickname, At: now}
	if err := gs.publisher.Publish(ctx, rabbit.RoutingGuestRegistered, msg); err != nil {
		gs.logger.Warn().Err(err).Msg("failed to publish guest notification")
	}
	return guest, nil
}

// FindGuestByFingerprint returns nil without error when no guest matches.
func (gs *GuestService) FindGuestByFingerprint(ctx context.Context, eventID primitive.ObjectID, visitorID string) (*models.Guest, error) {
	if strings.TrimSpace(visitorID) == "" {
		return nil, models.ValidationError(fmt.Errorf("visitor_id is required"))
	}
	return gs.guestRepo.FindGuestByVisitorID(ctx, eventID, visitorID)
}

func (gs *GuestService) ListGuests(ctx context.Context, callerID string, eventID primitive.ObjectID) ([]*models.Guest, error) {
	if _, err := loadOwnedEvent(ctx, gs.eventRepo, callerID, eventID); err != nil {
		return nil, err
	}
	return gs.guestRepo.ListGuestsByEvent(ctx, eventID)
}

func (gs *GuestService) GetGuest(ctx context.Context, callerID string, id primitive.ObjectID) (*models.Guest, error) {
	return gs.loadOwnedGuest(ctx, callerID, id)
}

func (gs *GuestService) UpdateGuest(ctx context.Context, callerID string, id primitive.ObjectID, patch *models.UpdateGuestRequest) (*models.Guest, error) {
	guest, err := gs.loadOwnedGuest(ctx, callerID, id)
	if err != nil {
		return nil, err
	}
	if err := models.ValidateStruct(patch); err != nil {
		return nil, err
	}
	if patch.Nickname != nil {
		guest.Nickname = strings.TrimSpace(*patch.Nickname)
	}
	if patch.Email != nil {
		guest.Email = strings.TrimSpace(*patch.Email)
	}
	if patch.SocialHandle != nil {
		guest.SocialHandle = strings.TrimSpace(*patch.SocialHandle)
	}
	guest.UpdatedAt = gs.now()

	updated, err := gs.guestRepo.UpdateGuest(ctx, guest)
	if err != nil {
		return nil, fmt.Errorf("failed to update guest: %w", err)
	}
	return updated, nil
}

// DeleteGuest removes the guest's gallery items before the guest. It returns
// how many items were removed.
func (gs *GuestService) DeleteGuest(ctx context.Context, callerID string, id primitive.ObjectID) (int, error) {
	guest, err := gs.loadOwnedGuest(ctx, callerID, id)
	if err != nil {
		return 0, err
	}
	items, err := gs.gallery.galleryRepo.ListGalleryByGuest(ctx, guest.ID)
	if err != nil {
		return 0, fmt.Errorf("failed to list guest gallery: %w", err)
	}
	deleted, failed := gs.gallery.purgeItems(ctx, items)
	if failed > 0 {
		gs.logger.Warn().Str("guest_id", guest.ID.Hex()).Int("failed", failed).Msg("guest gallery partially deleted")
	}
	if err := gs.guestRepo.DeleteGuest(ctx, guest.ID); err != nil {
		return deleted, fmt.Errorf("failed to delete guest: %w", err)
	}
	return deleted, nil
}

func (gs *GuestService) loadOwnedGuest(ctx context.Context, callerID string, id primitive.ObjectID) (*models.Guest, error) {
	if callerID == "" {
		return nil, models.ErrUnauthorized
	}
	guest, err := gs.guestRepo.GetGuestByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if _, err := loadOwnedEvent(ctx, gs.eventRepo, callerID, guest.EventID); err != nil {
		return nil, err
	}
	return guest, nil
}
