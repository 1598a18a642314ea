package models

import (
	"context"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Fingerprint struct {
	VisitorID string `bson:"visitor_id" json:"visitor_id" validate:"required,max=256"`
	UserAgent string `bson:"user_agent" json:"user_agent" validate:"max=1024"`
}

// DeviceKey is the part of the visitor id before the first "_".
func (f Fingerprint) DeviceKey() string {
	key, _, _ := strings.Cut(f.VisitorID, "_")
	return key
}

// SameDevice reports whether visitorID was issued to the device identified by key.
func SameDevice(visitorID, key string) bool {
	return strings.HasPrefix(visitorID, key+"_")
}

type Guest struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	EventID      primitive.ObjectID `bson:"event_id" json:"event_id"`
	Nickname     string             `bson:"nickname" json:"nickname"`
	Email        string             `bson:"email,omitempty" json:"email,omitempty"`
	SocialHandle string             `bson:"social_handle,omitempty" json:"social_handle,omitempty"`
	Fingerprint  Fingerprint        `bson:"fingerprint" json:"fingerprint"`
	CreatedAt    time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt    time.Time          `bson:"updated_at" json:"updated_at"`
}

type RegisterGuestRequest struct {
	Nickname     string       `json:"nickname" validate:"required,nickname"`
	Email        string       `json:"email,omitempty" validate:"omitempty,email"`
	SocialHandle string       `json:"social_handle,omitempty" validate:"omitempty,handle"`
	Fingerprint  *Fingerprint `json:"fingerprint" validate:"required"`
}

type UpdateGuestRequest struct {
	Nickname     *string `json:"nickname,omitempty" validate:"omitempty,nickname"`
	Email        *string `json:"email,omitempty" validate:"omitempty,email"`
	SocialHandle *string `json:"social_handle,omitempty" validate:"omitempty,handle"`
}

type GuestRepo interface {
	CreateGuest(ctx context.Context, guest *Guest) (*Guest, error)
	GetGuestByID(ctx context.Context, id primitive.ObjectID) (*Guest, error)
	ListGuestsByEvent(ctx context.Context, eventID primitive.ObjectID) ([]*Guest, error)
	FindGuestByVisitorID(ctx context.Context, eventID primitive.ObjectID, visitorID string) (*Guest, error)
	UpdateGuest(ctx context.Context, guest *Guest) (*Guest, error)
	DeleteGuest(ctx context.Context, id primitive.ObjectID) error
}
