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

func (mdb *MongodbRepo) ListCapturePlans(ctx context.Context) ([]*CaptureLimit, error) {
	col, err := mdb.GetCollection(CaptureLimitsColName)
	if err != nil {
		return nil, err
	}
	opts := options.Find().SetSort(bson.D{{Key: "name", Value: 1}})
	cursor, err := col.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("error finding capture plans: %w", err)
	}
	return decodeAll[CaptureLimit](ctx, cursor)
}

func (mdb *MongodbRepo) GetCapturePlanByID(ctx context.Context, id primitive.ObjectID) (*CaptureLimit, error) {
	col, err := mdb.GetCollection(CaptureLimitsColName)
	if err != nil {
		return nil, err
	}
	var plan CaptureLimit
	if err := col.FindOne(ctx, bson.M{"_id": id}).Decode(&plan); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrCapturePlanNotFound
		}
		return nil, fmt.Errorf("error finding capture plan: %w", err)
	}
	return &plan, nil
}

// EnsureCapturePlans upserts the reference plans by name, keeping existing ids.
func (mdb *MongodbRepo) EnsureCapturePlans(ctx context.Context, plans []CaptureLimit) error {
	col, err := mdb.GetCollection(CaptureLimitsColName)
	if err != nil {
		return err
	}
	for _, p := range plans {
		update := bson.M{
			"$set": bson.M{
				"type":        p.Type,
				"photo_limit": p.PhotoLimit,
				"video_limit": p.VideoLimit,
			},
			"$setOnInsert": bson.M{"name": p.Name},
		}
		opts := options.Update().SetUpsert(true)
		if _, err := col.UpdateOne(ctx, bson.M{"name": p.Name}, update, opts); err != nil {
			return fmt.Errorf("error seeding capture plan %s: %w", p.Name, err)
		}
	}
	return nil
}
