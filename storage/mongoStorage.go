package storage

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoStorage keeps one document per namespace, keyed by _id.
type MongoStorage struct {
	collection *mongo.Collection
}

type storageDocument struct {
	Key        string    `bson:"_id"`
	Payload    string    `bson:"payload"`
	Updated_at time.Time `bson:"updated_at"`
}

func NewMongoStorage(collection *mongo.Collection) *MongoStorage {
	return &MongoStorage{collection: collection}
}

func (s *MongoStorage) Get(ctx context.Context, key string) ([]byte, error) {
	var doc storageDocument
	err := s.collection.FindOne(ctx, bson.M{"_id": key}).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, errors.Wrapf(err, "mongo get %s", key)
	}
	return []byte(doc.Payload), nil
}

func (s *MongoStorage) Set(ctx context.Context, key string, value []byte) error {
	updateObj := bson.D{
		{Key: "payload", Value: string(value)},
		{Key: "updated_at", Value: time.Now().UTC()},
	}
	upsert := true
	opts := options.UpdateOptions{
		Upsert: &upsert,
	}
	_, err := s.collection.UpdateOne(
		ctx,
		bson.M{"_id": key},
		bson.D{{Key: "$set", Value: updateObj}},
		&opts,
	)
	if err != nil {
		return errors.Wrapf(err, "mongo set %s", key)
	}
	return nil
}

func (s *MongoStorage) Delete(ctx context.Context, key string) error {
	if _, err := s.collection.DeleteOne(ctx, bson.M{"_id": key}); err != nil {
		return errors.Wrapf(err, "mongo delete %s", key)
	}
	return nil
}
