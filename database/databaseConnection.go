package database

import (
	"context"
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const DefaultDatabase = "foodorder"

// DBinstance connects to MongoDB and verifies the connection with a ping.
func DBinstance(ctx context.Context, uri string) (*mongo.Client, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, errors.Wrap(err, "connect to mongodb")
	}
	if err := client.Ping(ctx, nil); err != nil {
		return nil, errors.Wrap(err, "ping mongodb")
	}
	log.WithField("uri", redactURI(uri)).Info("connected to mongodb")
	return client, nil
}

func OpenCollection(client *mongo.Client, databaseName string, collectionName string) *mongo.Collection {
	if databaseName == "" {
		databaseName = DefaultDatabase
	}
	return client.Database(databaseName).Collection(collectionName)
}
