package models

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// EnsureIndexes creates the indexes every query in this package relies on.
func (mdb *MongodbRepo) EnsureIndexes(ctx context.Context) error {
	indexes := map[string][]mongo.IndexModel{
		EventsColName: {
			{
				Keys:    bson.D{{Key: "owner_id", Value: 1}, {Key: "start_date", Value: 1}},
				Options: options.Index().SetName("owner_start_idx"),
			},
			{
				Keys:    bson.D{{Key: "status", Value: 1}},
				Options: options.Index().SetName("status_idx"),
			},
		},
		GuestsColName: {
			{
				Keys:    bson.D{{Key: "event_id", Value: 1}, {Key: "created_at", Value: 1}},
				Options: options.Index().SetName("event_created_idx"),
			},
			// lookup by fingerprint
			{
				Keys: bson.D{
					{Key: "event_id", Value: 1},
					{Key: "fingerprint.visitor_id", Value: 1},
				},
				Options: options.Index().SetName("event_visitor_idx"),
			},
		},
		GalleryColName: {
			{
				Keys:    bson.D{{Key: "event_id", Value: 1}, {Key: "created_at", Value: -1}},
				Options: options.Index().SetName("event_created_idx"),
			},
			{
				Keys:    bson.D{{Key: "guest_id", Value: 1}, {Key: "created_at", Value: -1}},
				Options: options.Index().SetName("guest_created_idx"),
			},
		},
		CaptureLimitsColName: {
			{
				Keys:    bson.D{{Key: "name", Value: 1}},
				Options: options.Index().SetUnique(true).SetName("name_unique"),
			},
		},
	}

	for colName, idx := range indexes {
		col, err := mdb.GetCollection(colName)
		if err != nil {
			return err
		}
		if _, err := col.Indexes().CreateMany(ctx, idx); err != nil {
			return fmt.Errorf("error creating indexes on %s: %w", colName, err)
		}
	}
	return nil
}
