package models

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type EventStatus string

const (
	EventStatusUpcoming EventStatus = "upcoming"
	EventStatusLive     EventStatus = "live"
	EventStatusPast     EventStatus = "past"
)

func (s EventStatus) Valid() bool {
	switch s {
	case EventStatusUpcoming, EventStatusLive, EventStatusPast:
		return true
	}
	return false
}

type Location struct {
	Address    string `bson:"address" json:"address" validate:"required,max=200"`
	City       string `bson:"city" json:"city" validate:"max=100"`
	State      string `bson:"state" json:"state,omitempty" validate:"max=100"`
	PostalCode string `bson:"postal_code" json:"postal_code,omitempty" validate:"max=20"`
	Country    string `bson:"country" json:"country" validate:"max=100"`
}

type BasePackage struct {
	DailyRate      float64 `bson:"daily_rate" json:"daily_rate"`
	TotalDays      int     `bson:"total_days" json:"total_days"`
	TotalBasePrice float64 `bson:"total_base_price" json:"total_base_price"`
}

type GuestPackage struct {
	Tier            string  `bson:"tier" json:"tier"`
	MaxGuests       int     `bson:"max_guests" json:"max_guests"`
	AdditionalPrice float64 `bson:"additional_price" json:"additional_price"`
}

type VideoPackage struct {
	Enabled bool    `bson:"enabled" json:"enabled"`
	Price   float64 `bson:"price" json:"price"`
}

type CapturePackage struct {
	PlanID            primitive.ObjectID `bson:"plan_id" json:"plan_id"`
	PlanName          string             `bson:"plan_name" json:"plan_name"`
	PlanType          PlanType           `bson:"plan_type" json:"plan_type"`
	PricePerGuest     float64            `bson:"price_per_guest" json:"price_per_guest"`
	MaxGuests         int                `bson:"max_guests" json:"max_guests"`
	TotalCapturePrice float64            `bson:"total_capture_price" json:"total_capture_price"`
}

// AddOns are optional extras. They do not change the price.
type AddOns struct {
	Slideshow       bool `bson:"slideshow" json:"slideshow"`
	CustomBranding  bool `bson:"custom_branding" json:"custom_branding"`
	ExtendedStorage bool `bson:"extended_storage" json:"extended_storage"`
	DownloadAll     bool `bson:"download_all" json:"download_all"`
}

type Event struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	OwnerID        string             `bson:"owner_id" json:"owner_id"`
	Name           string             `bson:"name" json:"name"`
	EventType      string             `bson:"event_type" json:"event_type"`
	Location       Location           `bson:"location" json:"location"`
	StartDate      time.Time          `bson:"start_date" json:"start_date"`
	EndDate        time.Time          `bson:"end_date" json:"end_date"`
	Status         EventStatus        `bson:"status" json:"status"`
	BasePackage    BasePackage        `bson:"base_package" json:"base_package"`
	GuestPackage   GuestPackage       `bson:"guest_package" json:"guest_package"`
	VideoPackage   VideoPackage       `bson:"video_package" json:"video_package"`
	CapturePackage CapturePackage     `bson:"capture_package" json:"capture_package"`
	AddOns         AddOns             `bson:"add_ons" json:"add_ons"`
	Price          float64            `bson:"price" json:"price"`
	ReviewMode     bool               `bson:"review_mode" json:"review_mode"`
	TermsAccepted  bool               `bson:"terms_accepted" json:"terms_accepted"`
	Paid           bool               `bson:"paid" json:"paid"`
	CreatedAt      time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt      time.Time          `bson:"updated_at" json:"updated_at"`
}

func (e *Event) IsOwnedBy(userID string) bool {
	return e != nil && userID != "" && e.OwnerID == userID
}

type CreateEventRequest struct {
	Name          string    `json:"name" validate:"required,eventname"`
	EventType     string    `json:"event_type" validate:"required,oneof=wedding birthday corporate party conference other"`
	Location      Location  `json:"location" validate:"required"`
	StartDate     time.Time `json:"start_date" validate:"required"`
	EndDate       time.Time `json:"end_date" validate:"required"`
	GuestTier     string    `json:"guest_tier" validate:"required"`
	CapturePlanID string    `json:"capture_plan_id" validate:"required"`
	AddOns        AddOns    `json:"add_ons"`
	ReviewMode    bool      `json:"review_mode"`
	TermsAccepted bool      `json:"terms_accepted" validate:"eq=true"`
}

// UpdateEventRequest is a sparse patch; nil fields are left untouched.
type UpdateEventRequest struct {
	Name          *string    `json:"name,omitempty" validate:"omitempty,eventname"`
	EventType     *string    `json:"event_type,omitempty" validate:"omitempty,oneof=wedding birthday corporate party conference other"`
	Location      *Location  `json:"location,omitempty"`
	StartDate     *time.Time `json:"start_date,omitempty"`
	EndDate       *time.Time `json:"end_date,omitempty"`
	GuestTier     *string    `json:"guest_tier,omitempty"`
	CapturePlanID *string    `json:"capture_plan_id,omitempty"`
	AddOns        *AddOns    `json:"add_ons,omitempty"`
	ReviewMode    *bool      `json:"review_mode,omitempty"`
	TermsAccepted *bool      `json:"terms_accepted,omitempty"`
}

// TouchesPricing reports whether the patch changes an input of the price.
func (r *UpdateEventRequest) TouchesPricing() bool {
	return r.StartDate != nil || r.EndDate != nil || r.GuestTier != nil || r.CapturePlanID != nil
}

type EventRepo interface {
	CreateEvent(ctx context.Context, event *Event) (*Event, error)
	GetEventByID(ctx context.Context, id primitive.ObjectID) (*Event, error)
	ListEventsByOwner(ctx context.Context, ownerID string) ([]*Event, error)
	ListEventsNotInStatus(ctx context.Context, status EventStatus) ([]*Event, error)
	CountEventsByOwner(ctx context.Context, ownerID string) (int64, error)
	UpdateEvent(ctx context.Context, event *Event) (*Event, error)
	UpdateEventStatus(ctx context.Context, id primitive.ObjectID, status EventStatus) error
	DeleteEvent(ctx context.Context, id primitive.ObjectID) error
}
