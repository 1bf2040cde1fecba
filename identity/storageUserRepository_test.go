package identity

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-food-ordering/models"
	"go-food-ordering/storage"
)

func TestStorageUserRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewStorageUserRepository(storage.NewMemoryStorage())

	_, err := repo.FindByEmail(ctx, "ana@example.com")
	assert.Equal(t, ErrUserNotFound, err)

	record := UserRecord{User_id: "u-1", Email: "ana@example.com", Password: "hash"}
	require.NoError(t, repo.Create(ctx, record))
	assert.Equal(t, ErrEmailTaken, repo.Create(ctx, UserRecord{User_id: "u-2", Email: "ANA@example.com"}))

	found, err := repo.Find(ctx, "u-1")
	require.NoError(t, err)
	assert.Equal(t, "hash", found.Password)

	found.Metadata = models.UserMetadata{Address1: "12 Main St"}
	require.NoError(t, repo.Update(ctx, found))
	found, err = repo.FindByEmail(ctx, "ana@example.com")
	require.NoError(t, err)
	assert.Equal(t, "12 Main St", found.Metadata.Address1)

	assert.Equal(t, ErrUserNotFound, repo.Update(ctx, UserRecord{User_id: "missing"}))
}
