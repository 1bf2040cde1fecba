package storage

import (
	"context"

	"github.com/pkg/errors"
)

var ErrNotFound = errors.New("storage: key not found")

// Storage is a durable key/value store for serialized store state.
type Storage interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}
