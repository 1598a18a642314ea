package models

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func (mdb *MongodbRepo) CreateEvent(ctx context.Context, event *Event) (*Event, error) {
	col, err := mdb.GetCollection(EventsColName)
	if err != nil {
		return nil, err
	}
	if event.ID.IsZero() {
		event.ID = primitive.NewObjectID()
	}
	if _, err := col.InsertOne(ctx, event); err != nil {
		return nil, fmt.Errorf("error inserting event: %w", err)
	}
	return event, nil
}

func (mdb *MongodbRepo) GetEventByID(ctx context.Context, id primitive.ObjectID) (*Event, error) {
	col, err := mdb.GetCollection(EventsColName)
	if err != nil {
		return nil, err
	}
	var event Event
	if err := col.FindOne(ctx, bson.M{"_id": id}).Decode(&event); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrEventNotFound
		}
		return nil, fmt.Errorf("error finding event: %w", err)
	}
	return &event, nil
}

func (mdb *MongodbRepo) ListEventsByOwner(ctx context.Context, ownerID string) ([]*Event, error) {
	col, err := mdb.GetCollection(EventsColName)
	if err != nil {
		return nil, err
	}
	opts := options.Find().SetSort(bson.D{{Key: "start_date", Value: 1}})
	cursor, err := col.Find(ctx, bson.M{"owner_id": ownerID}, opts)
	if err != nil {
		return nil, fmt.Errorf("error finding events: %w", err)
	}
	return decodeAll[Event](ctx, cursor)
}

func (mdb *MongodbRepo) ListEventsNotInStatus(ctx context.Context, status EventStatus) ([]*Event, error) {
	col, err := mdb.GetCollection(EventsColName)
	if err != nil {
		return nil, err
	}
	cursor, err := col.Find(ctx, bson.M{"status": bson.M{"$ne": status}})
	if err != nil {
		return nil, fmt.Errorf("error finding events: %w", err)
	}
	return decodeAll[Event](ctx, cursor)
}

func (mdb *MongodbRepo) CountEventsByOwner(ctx context.Context, ownerID string) (int64, error) {
	col, err := mdb.GetCollection(EventsColName)
	if err != nil {
		return 0, err
	}
	n, err := col.CountDocuments(ctx, bson.M{"owner_id": ownerID})
	if err != nil {
		return 0, fmt.Errorf("error counting events: %w", err)
	}
	return n, nil
}

func (mdb *MongodbRepo) UpdateEvent(ctx context.Context, event *Event) (*Event, error) {
	col, err := mdb.GetCollection(EventsColName)
	if err != nil {
		return nil, err
	}
	res, err := col.ReplaceOne(ctx, bson.M{"_id": event.ID}, event)
	if err != nil {
		return nil, fmt.Errorf("error updating event: %w", err)
	}
	if res.MatchedCount == 0 {
		return nil, ErrEventNotFound
	}
	return event, nil
}

// statusUpdate leaves updated_at alone: it tracks owner edits, and status
// moves with the clock.
func statusUpdate(status EventStatus) bson.M {
	return bson.M{"$set": bson.M{"status": status}}
}

func (mdb *MongodbRepo) UpdateEventStatus(ctx context.Context, id primitive.ObjectID, status EventStatus) error {
	col, err := mdb.GetCollection(EventsColName)
	if err != nil {
		return err
	}
	res, err := col.UpdateOne(ctx, bson.M{"_id": id}, statusUpdate(status))
	if err != nil {
		return fmt.Errorf("error updating event status: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrEventNotFound
	}
	return nil
}

func (mdb *MongodbRepo) DeleteEvent(ctx context.Context, id primitive.ObjectID) error {
	col, err := mdb.GetCollection(EventsColName)
	if err != nil {
		return err
	}
	res, err := col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("error deleting event: %w", err)
	}
	if res.DeletedCount == 0 {
		return ErrEventNotFound
	}
	return nil
}
