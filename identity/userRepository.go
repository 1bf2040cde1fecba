package identity

import (
	"context"
	"time"

	"go-food-ordering/models"
)

// UserRecord is a stored account. Password holds the bcrypt hash.
type UserRecord struct {
	User_id    string              `json:"user_id" bson:"user_id"`
	Email      string              `json:"email" bson:"email"`
	Password   string              `json:"password" bson:"password"`
	Metadata   models.UserMetadata `json:"user_metadata" bson:"user_metadata"`
	Created_at time.Time           `json:"created_at" bson:"created_at"`
	Updated_at time.Time           `json:"updated_at" bson:"updated_at"`
}

func (r UserRecord) User() models.User {
	return models.User{
		ID:         r.User_id,
		Email:      r.Email,
		Metadata:   r.Metadata,
		Created_at: r.Created_at,
		Updated_at: r.Updated_at,
	}
}

type UserRepository interface {
	// Create fails with ErrEmailTaken when the email is already registered.
	Create(ctx context.Context, record UserRecord) error
	Find(ctx context.Context, userID string) (UserRecord, error)
	FindByEmail(ctx context.Context, email string) (UserRecord, error)
	Update(ctx context.Context, record UserRecord) error
}
