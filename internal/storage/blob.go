package storage

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

type BlobInfo struct {
	ContentType string    `json:"content_type"`
	Size        int64     `json:"size"`
	CreatedAt   time.Time `json:"created_at"`
}

// BlobStore holds uploaded photos and videos. GetURL returns "" and Stat
// returns nil when the blob does not exist.
type BlobStore interface {
	GenerateUploadURL(ctx context.Context, key string) (string, error)
	GetURL(ctx context.Context, key string) (string, error)
	Delete(ctx context.Context, key string) error
	Stat(ctx context.Context, key string) (*BlobInfo, error)
}

// NewKey builds the storage key of a new upload for an event.
func NewKey(eventID string) string {
	return fmt.Sprintf("events/%s/%s", eventID, uuid.NewString())
}

// BelongsToEvent reports whether key was issued by NewKey for eventID.
func BelongsToEvent(key, eventID string) bool {
	return strings.HasPrefix(key, fmt.Sprintf("events/%s/", eventID))
}

func IsVideo(contentType string) bool {
	return strings.HasPrefix(contentType, "video/")
}
