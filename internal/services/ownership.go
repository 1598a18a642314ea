package services

import (
	"context"

	"github.com/joshua-takyi/snapvent/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// loadOwnedEvent fetches the event and checks that callerID owns it. Guests
// and gallery items are authorized through the event they belong to.
func loadOwnedEvent(ctx context.Context, eventRepo models.EventRepo, callerID string, eventID primitive.ObjectID) (*models.Event, error) {
	if callerID == "" {
		return nil, models.ErrUnauthorized
	}
	event, err := eventRepo.GetEventByID(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if !event.IsOwnedBy(callerID) {
		return nil, models.ErrUnauthorized
	}
	return event, nil
}
