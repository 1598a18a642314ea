package models

import (
	"context"
	"time"
)

type User struct {
	ID        string                 `bson:"_id" json:"id"`
	Email     string                 `bson:"email" json:"email"`
	Name      string                 `bson:"name" json:"name"`
	Raw       map[string]interface{} `bson:"raw,omitempty" json:"-"`
	CreatedAt time.Time              `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time              `bson:"updated_at" json:"updated_at"`
}

const (
	WebhookUserCreated = "user.created"
	WebhookUserUpdated = "user.updated"
	WebhookUserDeleted = "user.deleted"
)

// IdentityWebhook is the notification sent by the identity provider.
type IdentityWebhook struct {
	Type string                 `json:"type" validate:"required,oneof=user.created user.updated user.deleted"`
	Data map[string]interface{} `json:"data" validate:"required"`
}

type UserRepo interface {
	UpsertUser(ctx context.Context, user *User) (*User, error)
	GetUserByID(ctx context.Context, id string) (*User, error)
	DeleteUser(ctx context.Context, id string) error
}
