package models

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type GalleryItem struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	EventID   primitive.ObjectID `bson:"event_id" json:"event_id"`
	GuestID   primitive.ObjectID `bson:"guest_id" json:"guest_id"`
	StorageID string             `bson:"storage_id" json:"storage_id"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
}

// GalleryItemView is what organizers see: the record plus blob metadata.
type GalleryItemView struct {
	GalleryItem
	GuestNickname string    `json:"guest_nickname,omitempty"`
	URL           string    `json:"url,omitempty"`
	ContentType   string    `json:"content_type,omitempty"`
	Size          int64     `json:"size,omitempty"`
	UploadedAt    time.Time `json:"uploaded_at,omitempty"`
	FileName      string    `json:"file_name,omitempty"`
}

type UploadTicket struct {
	UploadURL string `json:"upload_url"`
	StorageID string `json:"storage_id"`
}

type RegisterUploadRequest struct {
	StorageID string `json:"storage_id" validate:"required,max=512"`
	GuestID   string `json:"guest_id" validate:"required,len=24,hexadecimal"`
}

// CaptureUsage compares a guest's uploads with the event's plan limits.
type CaptureUsage struct {
	PhotosUsed int `json:"photos_used"`
	VideosUsed int `json:"videos_used"`
	PhotoLimit int `json:"photo_limit"`
	VideoLimit int `json:"video_limit"`
	PhotosLeft int `json:"photos_left"`
	VideosLeft int `json:"videos_left"`
}

type GalleryRepo interface {
	CreateGalleryItem(ctx context.Context, item *GalleryItem) (*GalleryItem, error)
	GetGalleryItemByID(ctx context.Context, id primitive.ObjectID) (*GalleryItem, error)
	ListGalleryByEvent(ctx context.Context, eventID primitive.ObjectID) ([]*GalleryItem, error)
	ListGalleryByGuest(ctx context.Context, guestID primitive.ObjectID) ([]*GalleryItem, error)
	DeleteGalleryItem(ctx context.Context, id primitive.ObjectID) error
}
