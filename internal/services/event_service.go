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

type EventService struct {
	eventRepo models.EventRepo
	guestRepo models.GuestRepo
	catalog   *CatalogService
	gallery   *GalleryService
	publisher rabbit.Publisher
	logger    zerolog.Logger
	now       func() time.Time
}

func NewEventService(
	eventRepo models.EventRepo,
	guestRepo models.GuestRepo,
	catalog *CatalogService,
	gallery *GalleryService,
	publisher rabbit.Publisher,
	logger zerolog.Logger,
) *EventService {
	return &EventService{
		eventRepo: eventRepo,
		guestRepo: guestRepo,
		catalog:   catalog,
		gallery:   gallery,
		publisher: publisher,
		logger:    logger.With().Str("component", "events").Logger(),
		now:       time.Now,
	}
}

// CascadeResult reports what an event deletion removed. Failed counts are
// items that were skipped after an error and may be left orphaned.
type CascadeResult struct {
	GalleryItemsDeleted int `json:"gallery_items_deleted"`
	GalleryItemsFailed  int `json:"gallery_items_failed"`
	GuestsDeleted       int `json:"guests_deleted"`
	GuestsFailed        int `json:"guests_failed"`
}

type eventNotification struct {
	EventID string    `json:"event_id"`
	OwnerID string    `json:"owner_id"`
	Name    string    `json:"name"`
	At      time.Time `json:"at"`
}

// DeriveStatus places now relative to the event window; both bounds are inclusive.
func DeriveStatus(now, start, end time.Time) models.EventStatus {
	switch {
	case now.Before(start):
		return models.EventStatusUpcoming
	case !now.After(end):
		return models.EventStatusLive
	default:
		return models.EventStatusPast
	}
}

func (es *EventService) CreateEvent(ctx context.Context, ownerID string, req *models.CreateEventRequest) (*models.Event, error) {
	if ownerID == "" {
		return nil, models.ErrUnauthorized
	}
	if err := models.ValidateStruct(req); err != nil {
		return nil, err
	}

	plan, err := es.catalog.GetCapturePlan(ctx, req.CapturePlanID)
	if err != nil {
		return nil, err
	}
	breakdown, err := CalculatePrice(req.StartDate, req.EndDate, req.GuestTier, plan)
	if err != nil {
		return nil, err
	}

	now := es.now()
	event := &models.Event{
		OwnerID:       ownerID,
		Name:          strings.TrimSpace(req.Name),
		EventType:     req.EventType,
		Location:      req.Location,
		StartDate:     req.StartDate,
		EndDate:       req.EndDate,
		Status:        DeriveStatus(now, req.StartDate, req.EndDate),
		AddOns:        req.AddOns,
		ReviewMode:    req.ReviewMode,
		TermsAccepted: req.TermsAccepted,
		Paid:          false,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	breakdown.ApplyTo(event)

	created, err := es.eventRepo.CreateEvent(ctx, event)
	if err != nil {
		return nil, fmt.Errorf("failed to create event: %w", err)
	}

	es.notify(ctx, rabbit.RoutingEventCreated, created)
	es.logger.Info().Str("event_id", created.ID.Hex()).Str("owner_id", ownerID).Float64("price", created.Price).Msg("event created")
	return created, nil
}

func (es *EventService) GetEvent(ctx context.Context, callerID string, id primitive.ObjectID) (*models.Event, error) {
	event, err := loadOwnedEvent(ctx, es.eventRepo, callerID, id)
	if err != nil {
		return nil, err
	}
	es.refreshStatus(ctx, event)
	return event, nil
}

func (es *EventService) ListEvents(ctx context.Context, callerID string) ([]*models.Event, error) {
	if callerID == "" {
		return nil, models.ErrUnauthorized
	}
	events, err := es.eventRepo.ListEventsByOwner(ctx, callerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}
	for _, e := range events {
		es.refreshStatus(ctx, e)
	}
	return events, nil
}

func (es *EventService) ListEventsByStatus(ctx context.Context, callerID string, status models.EventStatus) ([]*models.Event, error) {
	if !status.Valid() {
		return nil, models.ValidationError(fmt.Errorf("unknown status %q", status))
	}
	events, err := es.ListEvents(ctx, callerID)
	if err != nil {
		return nil, err
	}
	out := make([]*models.Event, 0, len(events))
	for _, e := range events {
		if e.Status == status {
			out = append(out, e)
		}
	}
	return out, nil
}

// UpdateEvent applies a sparse patch. Packages and price are recomputed from
// the merged values when dates, guest tier or capture plan change.
func (es *EventService) UpdateEvent(ctx context.Context, callerID string, id primitive.ObjectID, patch *models.UpdateEventRequest) (*models.Event, error) {
	event, err := loadOwnedEvent(ctx, es.eventRepo, callerID, id)
	if err != nil {
		return nil, err
	}
	if err := models.ValidateStruct(patch); err != nil {
		return nil, err
	}

	now := es.now()

	if patch.Name != nil {
		event.Name = strings.TrimSpace(*patch.Name)
	}
	if patch.EventType != nil {
		event.EventType = *patch.EventType
	}
	if patch.Location != nil {
		event.Location = *patch.Location
	}
	if patch.AddOns != nil {
		event.AddOns = *patch.AddOns
	}
	if patch.ReviewMode != nil {
		event.ReviewMode = *patch.ReviewMode
	}
	if patch.TermsAccepted != nil {
		event.TermsAccepted = *patch.TermsAccepted
	}

	if patch.TouchesPricing() {
		start, end := event.StartDate, event.EndDate
		if patch.StartDate != nil {
			start = *patch.StartDate
		}
		if patch.EndDate != nil {
			end = *patch.EndDate
		}
		tier := event.GuestPackage.Tier
		if patch.GuestTier != nil {
			tier = *patch.GuestTier
		}
		planID := event.CapturePackage.PlanID.Hex()
		if patch.CapturePlanID != nil {
			planID = *patch.CapturePlanID
		}

		plan, err := es.catalog.GetCapturePlan(ctx, planID)
		if err != nil {
			return nil, err
		}
		breakdown, err := CalculatePrice(start, end, tier, plan)
		if err != nil {
			return nil, err
		}
		event.StartDate = start
		event.EndDate = end
		event.Status = DeriveStatus(now, start, end)
		breakdown.ApplyTo(event)
	}

	event.UpdatedAt = now

	updated, err := es.eventRepo.UpdateEvent(ctx, event)
	if err != nil {
		return nil, fmt.Errorf("failed to update event: %w", err)
	}
	return updated, nil
}

// DeleteEvent removes the event's gallery (blobs first), then its guests,
// then the event. Per item failures are logged and skipped; the steps do not
// run in a transaction.
func (es *EventService) DeleteEvent(ctx context.Context, callerID string, id primitive.ObjectID) (*CascadeResult, error) {
	event, err := loadOwnedEvent(ctx, es.eventRepo, callerID, id)
	if err != nil {
		return nil, err
	}

	result := &CascadeResult{}

	items, err := es.gallery.galleryRepo.ListGalleryByEvent(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to list gallery for event: %w", err)
	}
	result.GalleryItemsDeleted, result.GalleryItemsFailed = es.gallery.purgeItems(ctx, items)

	guests, err := es.guestRepo.ListGuestsByEvent(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to list guests for event: %w", err)
	}
	for _, g := range guests {
		if err := es.guestRepo.DeleteGuest(ctx, g.ID); err != nil {
			es.logger.Error().Err(err).Str("guest_id", g.ID.Hex()).Msg("failed to delete guest during event cascade")
			result.GuestsFailed++
			continue
		}
		result.GuestsDeleted++
	}

	if err := es.eventRepo.DeleteEvent(ctx, id); err != nil {
		return nil, fmt.Errorf("failed to delete event: %w", err)
	}

	es.notify(ctx, rabbit.RoutingEventDeleted, event)
	es.logger.Info().
		Str("event_id", id.Hex()).
		Int("gallery_deleted", result.GalleryItemsDeleted).
		Int("gallery_failed", result.GalleryItemsFailed).
		Int("guests_deleted", result.GuestsDeleted).
		Msg("event deleted")
	return result, nil
}

// SyncEventStatus persists the derived status when it differs from the stored one.
func (es *EventService) SyncEventStatus(ctx context.Context, id primitive.ObjectID, now time.Time) (bool, error) {
	event, err := es.eventRepo.GetEventByID(ctx, id)
	if err != nil {
		return false, err
	}
	return es.syncStatus(ctx, event, now)
}

// SyncAllStatuses moves every event that is not yet past to its current status.
func (es *EventService) SyncAllStatuses(ctx context.Context, now time.Time) (int, error) {
	events, err := es.eventRepo.ListEventsNotInStatus(ctx, models.EventStatusPast)
	if err != nil {
		return 0, fmt.Errorf("failed to list events for status sync: %w", err)
	}
	changed := 0
	for _, e := range events {
		ok, err := es.syncStatus(ctx, e, now)
		if err != nil {
			es.logger.Error().Err(err).Str("event_id", e.ID.Hex()).Msg("failed to sync event status")
			continue
		}
		if ok {
			changed++
		}
	}
	return changed, nil
}

func (es *EventService) syncStatus(ctx context.Context, event *models.Event, now time.Time) (bool, error) {
	status := DeriveStatus(now, event.StartDate, event.EndDate)
	if status == event.Status {
		return false, nil
	}
	if err := es.eventRepo.UpdateEventStatus(ctx, event.ID, status); err != nil {
		return false, err
	}
	event.Status = status
	return true, nil
}

// refreshStatus is the read path version of syncStatus: a failed write still
// returns the derived status to the caller.
func (es *EventService) refreshStatus(ctx context.Context, event *models.Event) {
	now := es.now()
	if _, err := es.syncStatus(ctx, event, now); err != nil {
		es.logger.Warn().Err(err).Str("event_id", event.ID.Hex()).Msg("failed to persist event status")
		event.Status = DeriveStatus(now, event.StartDate, event.EndDate)
	}
}

func (es *EventService) notify(ctx context.Context, routingKey string, event *models.Event) {
	msg := eventNotification{
		EventID: event.ID.Hex(),
		OwnerID: event.OwnerID,
		Name:    event.Name,
		At:      es.now(),
	}
	if err := es.publisher.Publish(ctx, routingKey, msg); err != nil {
		es.logger.Warn().Err(err).Str("routing_key", routingKey).Msg("failed to publish notification")
	}
}
