package models

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type PlanType string

const (
	PlanPhotosOnly   PlanType = "photos-only"
	PlanPhotosVideos PlanType = "photos-videos"
	PlanVideosOnly   PlanType = "videos-only"
)

// IncludesVideo reports whether the plan allows video capture.
func (p PlanType) IncludesVideo() bool {
	return p == PlanPhotosVideos || p == PlanVideosOnly
}

// Unlimited marks a capture limit without an upper bound.
const Unlimited = -1

// CaptureLimit is a capture plan from the reference catalog.
type CaptureLimit struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name       string             `bson:"name" json:"name"`
	Type       PlanType           `bson:"type" json:"type"`
	PhotoLimit int                `bson:"photo_limit" json:"photo_limit"`
	VideoLimit int                `bson:"video_limit" json:"video_limit"`
}

type GuestPackageTier struct {
	Tier      string  `json:"tier"`
	MaxGuests int     `json:"max_guests"`
	Price     float64 `json:"price"`
}

var GuestTiers = []GuestPackageTier{
	{Tier: "0-100", MaxGuests: 100, Price: 80},
	{Tier: "100-200", MaxGuests: 200, Price: 160},
	{Tier: "200-300", MaxGuests: 300, Price: 240},
}

// CapturePlanPrices is the per guest price keyed by plan name.
var CapturePlanPrices = map[string]float64{
	"Basic":     0,
	"Standard":  1,
	"Unlimited": 3,
}

// DefaultCapturePlans seeds the capture_limits collection.
var DefaultCapturePlans = []CaptureLimit{
	{Name: "Basic", Type: PlanPhotosOnly, PhotoLimit: 10, VideoLimit: 0},
	{Name: "Standard", Type: PlanPhotosVideos, PhotoLimit: 25, VideoLimit: 5},
	{Name: "Unlimited", Type: PlanPhotosVideos, PhotoLimit: Unlimited, VideoLimit: Unlimited},
	{Name: "Video Only", Type: PlanVideosOnly, PhotoLimit: 0, VideoLimit: 10},
}

func LookupGuestTier(tier string) (GuestPackageTier, bool) {
	for _, t := range GuestTiers {
		if t.Tier == tier {
			return t, true
		}
	}
	return GuestPackageTier{}, false
}

type CatalogRepo interface {
	ListCapturePlans(ctx context.Context) ([]*CaptureLimit, error)
	GetCapturePlanByID(ctx context.Context, id primitive.ObjectID) (*CaptureLimit, error)
	EnsureCapturePlans(ctx context.Context, plans []CaptureLimit) error
}
