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

func (mdb *MongodbRepo) CreateGalleryItem(ctx context.Context, item *GalleryItem) (*GalleryItem, error) {
	col, err := mdb.GetCollection(GalleryColName)
	if err != nil {
		return nil, err
	}
	if item.ID.IsZero() {
		item.ID = primitive.NewObjectID()
	}
	if _, err := col.InsertOne(ctx, item); err != nil {
		return nil, fmt.Errorf("error inserting gallery item: %w", err)
	}
	return item, nil
}

func (mdb *MongodbRepo) GetGalleryItemByID(ctx context.Context, id primitive.ObjectID) (*GalleryItem, error) {
	col, err := mdb.GetCollection(GalleryColName)
	if err != nil {
		return nil, err
	}
	var item GalleryItem
	if err := col.FindOne(ctx, bson.M{"_id": id}).Decode(&item); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrGalleryItemNotFound
		}
		return nil, fmt.Errorf("error finding gallery item: %w", err)
	}
	return &item, nil
}

func (mdb *MongodbRepo) ListGalleryByEvent(ctx context.Context, eventID primitive.ObjectID) ([]*GalleryItem, error) {
	return mdb.listGallery(ctx, bson.M{"event_id": eventID})
}

func (mdb *MongodbRepo) ListGalleryByGuest(ctx context.Context, guestID primitive.ObjectID) ([]*GalleryItem, error) {
	return mdb.listGallery(ctx, bson.M{"guest_id": guestID})
}

func (mdb *MongodbRepo) listGallery(ctx context.Context, filter bson.M) ([]*GalleryItem, error) {
	col, err := mdb.GetCollection(GalleryColName)
	if err != nil {
		return nil, err
	}
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := col.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("error finding gallery items: %w", err)
	}
	return decodeAll[GalleryItem](ctx, cursor)
}

func (mdb *MongodbRepo) DeleteGalleryItem(ctx context.Context, id primitive.ObjectID) error {
	col, err := mdb.GetCollection(GalleryColName)
	if err != nil {
		return err
	}
	res, err := col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("error deleting gallery item: %w", err)
	}
	if res.DeletedCount == 0 {
		return ErrGalleryItemNotFound
	}
	return nil
}
