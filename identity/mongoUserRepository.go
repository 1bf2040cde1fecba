package identity

import (
	"context"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const UserCollection = "user"

type MongoUserRepository struct {
	collection *mongo.Collection
}

func NewMongoUserRepository(collection *mongo.Collection) *MongoUserRepository {
	return &MongoUserRepository{collection: collection}
}

func (r *MongoUserRepository) Create(ctx context.Context, record UserRecord) error {
	count, err := r.collection.CountDocuments(ctx, bson.M{"email": record.Email})
	if err != nil {
		return errors.Wrap(err, "error occured while checking for the email")
	}
	if count > 0 {
		return ErrEmailTaken
	}

	if _, err := r.collection.InsertOne(ctx, record); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrEmailTaken
		}
		return errors.Wrap(err, "user item was not created")
	}
	return nil
}

func (r *MongoUserRepository) Find(ctx context.Context, userID string) (UserRecord, error) {
	return r.findOne(ctx, bson.M{"user_id": userID})
}

func (r *MongoUserRepository) FindByEmail(ctx context.Context, email string) (UserRecord, error) {
	return r.findOne(ctx, bson.M{"email": email})
}

func (r *MongoUserRepository) Update(ctx context.Context, record UserRecord) error {
	var updateObj primitive.D
	updateObj = append(updateObj, bson.E{Key: "email", Value: record.Email})
	updateObj = append(updateObj, bson.E{Key: "user_metadata", Value: record.Metadata})
	updateObj = append(updateObj, bson.E{Key: "updated_at", Value: record.Updated_at})

	upsert := false
	opts := options.UpdateOptions{
		Upsert: &upsert,
	}
	result, err := r.collection.UpdateOne(
		ctx,
		bson.M{"user_id": record.User_id},
		bson.D{{Key: "$set", Value: updateObj}},
		&opts,
	)
	if err != nil {
		return errors.Wrap(err, "user update failed")
	}
	if result.MatchedCount == 0 {
		return ErrUserNotFound
	}
	return nil
}

func (r *MongoUserRepository) findOne(ctx context.Context, filter bson.M) (UserRecord, error) {
	var record UserRecord
	err := r.collection.FindOne(ctx, filter).Decode(&record)
	if err == mongo.ErrNoDocuments {
		return UserRecord{}, ErrUserNotFound
	}
	if err != nil {
		return UserRecord{}, errors.Wrap(err, "find user")
	}
	return record, nil
}
