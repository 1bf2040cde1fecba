package helpers

import (
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// NewLineItemID derives a cart line id from the menu item it was added for.
func NewLineItemID(menuItemID string) string {
	return menuItemID + "-" + uuid.NewString()
}

// NewOrderID embeds the creation second of the ObjectID, so ids sort by creation time.
func NewOrderID() string {
	return "ORDER-" + primitive.NewObjectID().Hex()
}

func NewUserID() string {
	return uuid.NewString()
}
