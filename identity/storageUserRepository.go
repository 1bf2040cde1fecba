package identity

import (
	"context"
	"encoding/json"
	"strings"
	"sync"

	"github.com/pkg/errors"

	"go-food-ordering/storage"
)

const usersKey = "identity-users"

// StorageUserRepository keeps every account in a single storage record. It
// suits the small single-device deployments the memory, redis and mysql
// backends serve.
type StorageUserRepository struct {
	mu      sync.Mutex
	storage storage.Storage
}

func NewStorageUserRepository(s storage.Storage) *StorageUserRepository {
	return &StorageUserRepository{storage: s}
}

func (r *StorageUserRepository) Create(ctx context.Context, record UserRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	users, err := r.load(ctx)
	if err != nil {
		return err
	}
	for _, existing := range users {
		if strings.EqualFold(existing.Email, record.Email) {
			return ErrEmailTaken
		}
	}
	return r.save(ctx, append(users, record))
}

func (r *StorageUserRepository) Find(ctx context.Context, userID string) (UserRecord, error) {
	return r.find(ctx, func(u UserRecord) bool { return u.User_id == userID })
}

func (r *StorageUserRepository) FindByEmail(ctx context.Context, email string) (UserRecord, error) {
	return r.find(ctx, func(u UserRecord) bool { return strings.EqualFold(u.Email, email) })
}

func (r *StorageUserRepository) Update(ctx context.Context, record UserRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	users, err := r.load(ctx)
	if err != nil {
		return err
	}
	for idx := range users {
		if users[idx].User_id == record.User_id {
			users[idx] = record
			return r.save(ctx, users)
		}
	}
	return ErrUserNotFound
}

func (r *StorageUserRepository) find(ctx context.Context, match func(UserRecord) bool) (UserRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	users, err := r.load(ctx)
	if err != nil {
		return UserRecord{}, err
	}
	for _, user := range users {
		if match(user) {
			return user, nil
		}
	}
	return UserRecord{}, ErrUserNotFound
}

func (r *StorageUserRepository) load(ctx context.Context) ([]UserRecord, error) {
	raw, err := r.storage.Get(ctx, usersKey)
	if err == storage.ErrNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var users []UserRecord
	if err := json.Unmarshal(raw, &users); err != nil {
		return nil, errors.Wrap(err, "decode users")
	}
	return users, nil
}

func (r *StorageUserRepository) save(ctx context.Context, users []UserRecord) error {
	raw, err := json.Marshal(users)
	if err != nil {
		return errors.Wrap(err, "encode users")
	}
	return r.storage.Set(ctx, usersKey, raw)
}
