package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/joshua-takyi/snapvent/internal/models"
)

func TestHandleWebhookUpsertsUser(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	created, err := f.users.HandleWebhook(ctx, &models.IdentityWebhook{
		Type: models.WebhookUserCreated,
		Data: map[string]interface{}{
			"id":            "user-42",
			"email":         "ama@example.com",
			"user_metadata": map[string]interface{}{"full_name": "Ama Mensah"},
		},
	})
	if err != nil {
		t.Fatalf("created: %v", err)
	}
	if created.ID != "user-42" || created.Email != "ama@example.com" || created.Name != "Ama Mensah" {
		t.Errorf("unexpected user %+v", created)
	}

	updated, err := f.users.HandleWebhook(ctx, &models.IdentityWebhook{
		Type: models.WebhookUserUpdated,
		Data: map[string]interface{}{"id": "user-42", "email": "ama@new.example.com", "name": "Ama M."},
	})
	if err != nil {
		t.Fatalf("updated: %v", err)
	}
	if updated.Email != "ama@new.example.com" || updated.Name != "Ama M." {
		t.Errorf("unexpected update %+v", updated)
	}
	if len(f.store.users) != 1 {
		t.Errorf("users = %d, want 1", len(f.store.users))
	}

	got, err := f.users.GetUser(ctx, "user-42")
	if err != nil || got.Email != "ama@new.example.com" {
		t.Errorf("GetUser: %v %v", got, err)
	}
}

func TestHandleWebhookRejectsBadPayloads(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	tests := []struct {
		name string
		hook *models.IdentityWebhook
	}{
		{"unknown type", &models.IdentityWebhook{Type: "session.created", Data: map[string]interface{}{"id": "u"}}},
		{"missing data", &models.IdentityWebhook{Type: models.WebhookUserCreated}},
		{"missing id", &models.IdentityWebhook{Type: models.WebhookUserCreated, Data: map[string]interface{}{"email": "a@b.co"}}},
		{"non string id", &models.IdentityWebhook{Type: models.WebhookUserCreated, Data: map[string]interface{}{"id": 7}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := f.users.HandleWebhook(ctx, tt.hook); !errors.Is(err, models.ErrValidation) {
				t.Errorf("got %v, want validation error", err)
			}
		})
	}
}

func TestHandleWebhookDeleteBlockedByEvents(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	f.store.users[ownerID] = &models.User{ID: ownerID, Email: "owner@example.com"}
	f.createEvent(t, f.now, f.now.Add(time.Hour), "0-100", "Basic")

	hook := &models.IdentityWebhook{Type: models.WebhookUserDeleted, Data: map[string]interface{}{"id": ownerID}}
	if _, err := f.users.HandleWebhook(ctx, hook); !errors.Is(err, models.ErrUserHasEvents) {
		t.Fatalf("got %v, want ErrUserHasEvents", err)
	}
	if _, ok := f.store.users[ownerID]; !ok {
		t.Fatal("user removed despite owning events")
	}

	for id := range f.store.events {
		delete(f.store.events, id)
	}
	if _, err := f.users.HandleWebhook(ctx, hook); err != nil {
		t.Fatalf("delete without events: %v", err)
	}
	if _, ok := f.store.users[ownerID]; ok {
		t.Error("user still stored")
	}
}

func TestHandleWebhookDeleteUnknownUser(t *testing.T) {
	f := newFixture()
	hook := &models.IdentityWebhook{Type: models.WebhookUserDeleted, Data: map[string]interface{}{"id": "never-synced"}}

	user, err := f.users.HandleWebhook(context.Background(), hook)
	if err != nil {
		t.Fatalf("delete of unknown user: %v", err)
	}
	if user != nil {
		t.Errorf("user = %+v, want nil", user)
	}
}

func TestGetUserRequiresID(t *testing.T) {
	f := newFixture()
	if _, err := f.users.GetUser(context.Background(), ""); !errors.Is(err, models.ErrUnauthorized) {
		t.Errorf("empty id: %v", err)
	}
	if _, err := f.users.GetUser(context.Background(), "nobody"); !errors.Is(err, models.ErrUserNotFound) {
		t.Errorf("unknown id: %v", err)
	}
}

func TestLoginAndRefresh(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	resp, err := f.users.Login(ctx, &LoginRequest{Email: "Ama@Example.com", Password: "correct-horse"})
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if resp.AccessToken != "access-ama@example.com" || resp.RefreshToken != "refresh" {
		t.Errorf("unexpected tokens %+v", resp.Session)
	}

	if _, err := f.users.Login(ctx, &LoginRequest{Email: "ama@example.com", Password: "wrong-horse"}); !errors.Is(err, models.ErrUnauthorized) {
		t.Errorf("wrong password: %v", err)
	}
	if _, err := f.users.Login(ctx, &LoginRequest{Email: "not-an-email", Password: "correct-horse"}); !errors.Is(err, models.ErrValidation) {
		t.Errorf("bad email: %v", err)
	}

	refreshed, err := f.users.RefreshToken(ctx, "refresh")
	if err != nil || refreshed.AccessToken != "access-refreshed" {
		t.Errorf("RefreshToken: %v %v", refreshed, err)
	}
	if _, err := f.users.RefreshToken(ctx, ""); !errors.Is(err, models.ErrUnauthorized) {
		t.Errorf("empty refresh token: %v", err)
	}
	if _, err := f.users.RefreshToken(ctx, "stale"); !errors.Is(err, models.ErrUnauthorized) {
		t.Errorf("stale refresh token: %v", err)
	}
}
