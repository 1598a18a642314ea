package services

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/joshua-takyi/snapvent/internal/models"
	"github.com/joshua-takyi/snapvent/internal/rabbit"
	"github.com/joshua-takyi/snapvent/internal/storage"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var unsafeFileChars = regexp.MustCompile(`[^a-zA-Z0-9]`)

type GalleryService struct {
	galleryRepo models.GalleryRepo
	eventRepo   models.EventRepo
	guestRepo   models.GuestRepo
	catalogRepo models.CatalogRepo
	blobs       storage.BlobStore
	publisher   rabbit.Publisher
	logger      zerolog.Logger
	now         func() time.Time
}

func NewGalleryService(
	galleryRepo models.GalleryRepo,
	eventRepo models.EventRepo,
	guestRepo models.GuestRepo,
	catalogRepo models.CatalogRepo,
	blobs storage.BlobStore,
	publisher rabbit.Publisher,
	logger zerolog.Logger,
) *GalleryService {
	return &GalleryService{
		galleryRepo: galleryRepo,
		eventRepo:   eventRepo,
		guestRepo:   guestRepo,
		catalogRepo: catalogRepo,
		blobs:       blobs,
		publisher:   publisher,
		logger:      logger.With().Str("component", "gallery").Logger(),
		now:         time.Now,
	}
}

type uploadNotification struct {
	ItemID  string    `json:"item_id"`
	EventID string    `json:"event_id"`
	GuestID string    `json:"guest_id"`
	At      time.Time `json:"at"`
}

// GalleryFileName builds the download name <event>_<nickname>_<unixmillis>.<ext>.
func GalleryFileName(eventName, nickname string, createdAt time.Time, contentType string) string {
	base := fmt.Sprintf("%s_%s_%s", eventName, nickname, strconv.FormatInt(createdAt.UnixMilli(), 10))
	return unsafeFileChars.ReplaceAllString(base, "_") + "." + extensionFor(contentType)
}

func extensionFor(contentType string) string {
	ct, _, _ := strings.Cut(contentType, ";")
	ct = strings.ToLower(strings.TrimSpace(ct))
	if ct == "" {
		return "bin"
	}
	if m := mimetype.Lookup(ct); m != nil && m.Extension() != "" {
		return strings.TrimPrefix(m.Extension(), ".")
	}
	return "bin"
}

// loadEventGuest checks that the event exists and that the guest belongs to it.
func (gs *GalleryService) loadEventGuest(ctx context.Context, eventID, guestID primitive.ObjectID) (*models.Event, *models.Guest, error) {
	event, err := gs.eventRepo.GetEventByID(ctx, eventID)
	if err != nil {
		return nil, nil, err
	}
	guest, err := gs.guestRepo.GetGuestByID(ctx, guestID)
	if err != nil {
		return nil, nil, err
	}
	if guest.EventID != event.ID {
		return nil, nil, models.ErrUnauthorized
	}
	return event, guest, nil
}

// GenerateUploadURL issues a one-off upload URL for a guest of the event.
func (gs *GalleryService) GenerateUploadURL(ctx context.Context, eventID, guestID primitive.ObjectID) (*models.UploadTicket, error) {
	if _, _, err := gs.loadEventGuest(ctx, eventID, guestID); err != nil {
		return nil, err
	}
	key := storage.NewKey(eventID.Hex())
	url, err := gs.blobs.GenerateUploadURL(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("failed to generate upload url: %w", err)
	}
	return &models.UploadTicket{UploadURL: url, StorageID: key}, nil
}

// RegisterUpload links an uploaded blob to the guest that took it.
func (gs *GalleryService) RegisterUpload(ctx context.Context, eventID primitive.ObjectID, req *models.RegisterUploadRequest) (*models.GalleryItem, error) {
	if err := models.ValidateStruct(req); err != nil {
		return nil, err
	}
	guestID, err := primitive.ObjectIDFromHex(req.GuestID)
	if err != nil {
		return nil, models.ValidationError(fmt.Errorf("invalid guest id"))
	}
	if _, _, err := gs.loadEventGuest(ctx, eventID, guestID); err != nil {
		return nil, err
	}
	if !storage.BelongsToEvent(req.StorageID, eventID.Hex()) {
		return nil, models.ValidationError(fmt.Errorf("storage id was not issued for this event"))
	}

	item, err := gs.galleryRepo.CreateGalleryItem(ctx, &models.GalleryItem{
		EventID:   eventID,
		GuestID:   guestID,
		StorageID: req.StorageID,
		CreatedAt: gs.now(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to register upload: %w", err)
	}

	msg := uploadNotification{ItemID: item.ID.Hex(), EventID: eventID.Hex(), GuestID: guestID.Hex(), At: item.CreatedAt}
	if err := gs.publisher.Publish(ctx, rabbit.RoutingGalleryUploaded, msg); err != nil {
		gs.logger.Warn().Err(err).Msg("failed to publish upload notification")
	}
	return item, nil
}

// GuestUsage counts a guest's photos and videos against the event's plan.
// A limit of models.Unlimited leaves the matching "left" value at models.Unlimited.
func (gs *GalleryService) GuestUsage(ctx context.Context, eventID, guestID primitive.ObjectID) (*models.CaptureUsage, error) {
	event, guest, err := gs.loadEventGuest(ctx, eventID, guestID)
	if err != nil {
		return nil, err
	}
	plan, err := gs.catalogRepo.GetCapturePlanByID(ctx, event.CapturePackage.PlanID)
	if err != nil {
		return nil, err
	}
	items, err := gs.galleryRepo.ListGalleryByGuest(ctx, guest.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list guest uploads: %w", err)
	}

	usage := &models.CaptureUsage{PhotoLimit: plan.PhotoLimit, VideoLimit: plan.VideoLimit}
	for _, item := range items {
		info, err := gs.blobs.Stat(ctx, item.StorageID)
		if err != nil {
			gs.logger.Warn().Err(err).Str("item_id", item.ID.Hex()).Msg("failed to stat upload")
			continue
		}
		if info == nil {
			continue
		}
		if storage.IsVideo(info.ContentType) {
			usage.VideosUsed++
		} else {
			usage.PhotosUsed++
		}
	}
	usage.PhotosLeft = remaining(plan.PhotoLimit, usage.PhotosUsed)
	usage.VideosLeft = remaining(plan.VideoLimit, usage.VideosUsed)
	return usage, nil
}

func remaining(limit, used int) int {
	if limit == models.Unlimited {
		return models.Unlimited
	}
	if used >= limit {
		return 0
	}
	return limit - used
}

func (gs *GalleryService) ListEventGallery(ctx context.Context, callerID string, eventID primitive.ObjectID) ([]*models.GalleryItemView, error) {
	event, err := loadOwnedEvent(ctx, gs.eventRepo, callerID, eventID)
	if err != nil {
		return nil, err
	}
	items, err := gs.galleryRepo.ListGalleryByEvent(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("failed to list gallery: %w", err)
	}
	guests, err := gs.guestRepo.ListGuestsByEvent(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("failed to list guests: %w", err)
	}
	nicknames := make(map[primitive.ObjectID]string, len(guests))
	for _, g := range guests {
		nicknames[g.ID] = g.Nickname
	}

	views := make([]*models.GalleryItemView, 0, len(items))
	for _, item := range items {
		views = append(views, gs.buildView(ctx, event, nicknames[item.GuestID], item))
	}
	return views, nil
}

func (gs *GalleryService) ListGuestGallery(ctx context.Context, callerID string, guestID primitive.ObjectID) ([]*models.GalleryItemView, error) {
	guest, err := gs.guestRepo.GetGuestByID(ctx, guestID)
	if err != nil {
		return nil, err
	}
	event, err := loadOwnedEvent(ctx, gs.eventRepo, callerID, guest.EventID)
	if err != nil {
		return nil, err
	}
	items, err := gs.galleryRepo.ListGalleryByGuest(ctx, guestID)
	if err != nil {
		return nil, fmt.Errorf("failed to list guest gallery: %w", err)
	}
	views := make([]*models.GalleryItemView, 0, len(items))
	for _, item := range items {
		views = append(views, gs.buildView(ctx, event, guest.Nickname, item))
	}
	return views, nil
}

// GetDownload returns the URL and file name of one item. A missing blob
// reports the item as not found.
func (gs *GalleryService) GetDownload(ctx context.Context, callerID string, itemID primitive.ObjectID) (*models.GalleryItemView, error) {
	item, event, err := gs.loadOwnedItem(ctx, callerID, itemID)
	if err != nil {
		return nil, err
	}
	nickname := "guest"
	if guest, err := gs.guestRepo.GetGuestByID(ctx, item.GuestID); err == nil {
		nickname = guest.Nickname
	}
	view := gs.buildView(ctx, event, nickname, item)
	if view.URL == "" {
		return nil, models.ErrGalleryItemNotFound
	}
	return view, nil
}

func (gs *GalleryService) DeleteGalleryItem(ctx context.Context, callerID string, itemID primitive.ObjectID) error {
	item, _, err := gs.loadOwnedItem(ctx, callerID, itemID)
	if err != nil {
		return err
	}
	if err := gs.blobs.Delete(ctx, item.StorageID); err != nil {
		return fmt.Errorf("failed to delete blob: %w", err)
	}
	if err := gs.galleryRepo.DeleteGalleryItem(ctx, item.ID); err != nil {
		return fmt.Errorf("failed to delete gallery item: %w", err)
	}
	return nil
}

// DeleteEventGallery removes every item of the event and returns how many
// were deleted. It keeps going past failed items.
func (gs *GalleryService) DeleteEventGallery(ctx context.Context, callerID string, eventID primitive.ObjectID) (int, error) {
	if _, err := loadOwnedEvent(ctx, gs.eventRepo, callerID, eventID); err != nil {
		return 0, err
	}
	items, err := gs.galleryRepo.ListGalleryByEvent(ctx, eventID)
	if err != nil {
		return 0, fmt.Errorf("failed to list gallery: %w", err)
	}
	deleted, _ := gs.purgeItems(ctx, items)
	return deleted, nil
}

func (gs *GalleryService) loadOwnedItem(ctx context.Context, callerID string, itemID primitive.ObjectID) (*models.GalleryItem, *models.Event, error) {
	item, err := gs.galleryRepo.GetGalleryItemByID(ctx, itemID)
	if err != nil {
		return nil, nil, err
	}
	event, err := loadOwnedEvent(ctx, gs.eventRepo, callerID, item.EventID)
	if err != nil {
		return nil, nil, err
	}
	return item, event, nil
}

// purgeItems deletes blob then record for each item, skipping failures.
func (gs *GalleryService) purgeItems(ctx context.Context, items []*models.GalleryItem) (deleted, failed int) {
	for _, item := range items {
		if err := gs.blobs.Delete(ctx, item.StorageID); err != nil {
			gs.logger.Error().Err(err).Str("item_id", item.ID.Hex()).Str("storage_id", item.StorageID).Msg("failed to delete blob")
			failed++
			continue
		}
		if err := gs.galleryRepo.DeleteGalleryItem(ctx, item.ID); err != nil {
			gs.logger.Error().Err(err).Str("item_id", item.ID.Hex()).Msg("failed to delete gallery record")
			failed++
			continue
		}
		deleted++
	}
	return deleted, failed
}

func (gs *GalleryService) buildView(ctx context.Context, event *models.Event, nickname string, item *models.GalleryItem) *models.GalleryItemView {
	view := &models.GalleryItemView{GalleryItem: *item, GuestNickname: nickname}

	info, err := gs.blobs.Stat(ctx, item.StorageID)
	if err != nil {
		gs.logger.Warn().Err(err).Str("item_id", item.ID.Hex()).Msg("failed to stat blob")
		return view
	}
	if info == nil {
		return view
	}
	url, err := gs.blobs.GetURL(ctx, item.StorageID)
	if err != nil {
		gs.logger.Warn().Err(err).Str("item_id", item.ID.Hex()).Msg("failed to get blob url")
	}
	view.URL = url
	view.ContentType = info.ContentType
	view.Size = info.Size
	view.UploadedAt = info.CreatedAt
	view.FileName = GalleryFileName(event.Name, nickname, info.CreatedAt, info.ContentType)
	return view
}
