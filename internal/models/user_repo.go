package models

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func (mdb *MongodbRepo) UpsertUser(ctx context.Context, user *User) (*User, error) {
	col, err := mdb.GetCollection(UsersColName)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	update := bson.M{
		"$set": bson.M{
			"email":      user.Email,
			"name":       user.Name,
			"raw":        user.Raw,
			"updated_at": now,
		},
		"$setOnInsert": bson.M{
			"created_at": now,
		},
	}
	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)

	var result User
	if err := col.FindOneAndUpdate(ctx, bson.M{"_id": user.ID}, update, opts).Decode(&result); err != nil {
		return nil, fmt.Errorf("error upserting user: %w", err)
	}
	return &result, nil
}

func (mdb *MongodbRepo) GetUserByID(ctx context.Context, id string) (*User, error) {
	col, err := mdb.GetCollection(UsersColName)
	if err != nil {
		return nil, err
	}
	var user User
	if err := col.FindOne(ctx, bson.M{"_id": id}).Decode(&user); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("error finding user: %w", err)
	}
	return &user, nil
}

func (mdb *MongodbRepo) DeleteUser(ctx context.Context, id string) error {
	col, err := mdb.GetCollection(UsersColName)
	if err != nil {
		return err
	}
	res, err := col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("error deleting user: %w", err)
	}
	if res.DeletedCount == 0 {
		return ErrUserNotFound
	}
	return nil
}
