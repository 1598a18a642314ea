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

func (mdb *MongodbRepo) CreateGuest(ctx context.Context, guest *Guest) (*Guest, error) {
	col, err := mdb.GetCollection(GuestsColName)
	if err != nil {
		return nil, err
	}
	if guest.ID.IsZero() {
		guest.ID = primitive.NewObjectID()
	}
	if _, err := col.InsertOne(ctx, guest); err != nil {
		return nil, fmt.Errorf("error inserting guest: %w", err)
	}
	return guest, nil
}

func (mdb *MongodbRepo) GetGuestByID(ctx context.Context, id primitive.ObjectID) (*Guest, error) {
	col, err := mdb.GetCollection(GuestsColName)
	if err != nil {
		return nil, err
	}
	var guest Guest
	if err := col.FindOne(ctx, bson.M{"_id": id}).Decode(&guest); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrGuestNotFound
		}
		return nil, fmt.Errorf("error finding guest: %w", err)
	}
	return &guest, nil
}

func (mdb *MongodbRepo) ListGuestsByEvent(ctx context.Context, eventID primitive.ObjectID) ([]*Guest, error) {
	col, err := mdb.GetCollection(GuestsColName)
	if err != nil {
		return nil, err
	}
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}})
	cursor, err := col.Find(ctx, bson.M{"event_id": eventID}, opts)
	if err != nil {
		return nil, fmt.Errorf("error finding guests: %w", err)
	}
	return decodeAll[Guest](ctx, cursor)
}

// FindGuestByVisitorID matches the stored visitor id exactly. Returns nil when absent.
func (mdb *MongodbRepo) FindGuestByVisitorID(ctx context.Context, eventID primitive.ObjectID, visitorID string) (*Guest, error) {
	col, err := mdb.GetCollection(GuestsColName)
	if err != nil {
		return nil, err
	}
	filter := bson.M{"event_id": eventID, "fingerprint.visitor_id": visitorID}
	var guest Guest
	if err := col.FindOne(ctx, filter).Decode(&guest); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, fmt.Errorf("error finding guest by fingerprint: %w", err)
	}
	return &guest, nil
}

func (mdb *MongodbRepo) UpdateGuest(ctx context.Context, guest *Guest) (*Guest, error) {
	col, err := mdb.GetCollection(GuestsColName)
	if err != nil {
		return nil, err
	}
	res, err := col.ReplaceOne(ctx, bson.M{"_id": guest.ID}, guest)
	if err != nil {
		return nil, fmt.Errorf("error updating guest: %w", err)
	}
	if res.MatchedCount == 0 {
		return nil, ErrGuestNotFound
	}
	return guest, nil
}

func (mdb *MongodbRepo) DeleteGuest(ctx context.Context, id primitive.ObjectID) error {
	col, err := mdb.GetCollection(GuestsColName)
	if err != nil {
		return err
	}
	res, err := col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("error deleting guest: %w", err)
	}
	if res.DeletedCount == 0 {
		return ErrGuestNotFound
	}
	return nil
}
