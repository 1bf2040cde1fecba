package storage

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/cenkalti/backoff"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var _ Storage = &flakyStorage{}
var _ Storage = &MemoryStorage{}
var _ Storage = &RedisStorage{}
var _ Storage = &MongoStorage{}
var _ Storage = &MySQLStorage{}

// flakyStorage fails the first `failures` writes and records every attempt.
type flakyStorage struct {
	*MemoryStorage

	mu       sync.Mutex
	failures int
	attempts int
	writes   map[string]int
}

func newFlakyStorage(failures int) *flakyStorage {
	return &flakyStorage{
		MemoryStorage: NewMemoryStorage(),
		failures:      failures,
		writes:        make(map[string]int),
	}
}

func (f *flakyStorage) Set(ctx context.Context, key string, value []byte) error {
	f.mu.Lock()
	f.attempts++
	if f.failures > 0 {
		f.failures--
		f.mu.Unlock()
		return errors.New("connection refused")
	}
	f.writes[key]++
	f.mu.Unlock()
	return f.MemoryStorage.Set(ctx, key, value)
}

func (f *flakyStorage) counts() (int, map[string]int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	writes := make(map[string]int, len(f.writes))
	for k, v := range f.writes {
		writes[k] = v
	}
	return f.attempts, writes
}

func zeroBackOff(retries uint64) Option {
	return WithBackOff(func() backoff.BackOff {
		return backoff.WithMaxRetries(&backoff.ZeroBackOff{}, retries)
	})
}

type cartState struct {
	Items []string `json:"items"`
}

func TestWriteBehind_PersistAndRestore(t *testing.T) {
	ctx := context.Background()
	backing := newFlakyStorage(0)
	w := NewWriteBehind(backing, zeroBackOff(3))
	defer w.Close()

	w.Persist("cart-storage", cartState{Items: []string{"burger"}})
	require.NoError(t, w.Flush(ctx))

	raw, err := backing.Get(ctx, "cart-storage")
	require.NoError(t, err)
	assert.JSONEq(t, `{"state":{"items":["burger"]},"version":0}`, string(raw))

	var restored cartState
	found, err := w.Restore(ctx, "cart-storage", &restored)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, []string{"burger"}, restored.Items)
}

func TestWriteBehind_RestoreMissing(t *testing.T) {
	w := NewWriteBehind(NewMemoryStorage())
	defer w.Close()

	var restored cartState
	found, err := w.Restore(context.Background(), "cart-storage", &restored)
	require.NoError(t, err)
	assert.False(t, found)
	assert.Nil(t, restored.Items)
}

func TestWriteBehind_RestoreCorrupt(t *testing.T) {
	ctx := context.Background()
	backing := NewMemoryStorage()
	require.NoError(t, backing.Set(ctx, "cart-storage", []byte("not json")))
	w := NewWriteBehind(backing)
	defer w.Close()

	var restored cartState
	found, err := w.Restore(ctx, "cart-storage", &restored)
	assert.Error(t, err)
	assert.False(t, found)
}

func TestWriteBehind_RetriesFailedWrites(t *testing.T) {
	ctx := context.Background()
	backing := newFlakyStorage(2)
	w := NewWriteBehind(backing, zeroBackOff(3))
	defer w.Close()

	w.Persist("order-storage", map[string]int{"orders": 1})
	require.NoError(t, w.Flush(ctx))

	attempts, writes := backing.counts()
	assert.Equal(t, 3, attempts)
	assert.Equal(t, 1, writes["order-storage"])
}

func TestWriteBehind_GivesUpAfterRetries(t *testing.T) {
	ctx := context.Background()
	backing := newFlakyStorage(10)
	w := NewWriteBehind(backing, zeroBackOff(3))
	defer w.Close()

	w.Persist("order-storage", map[string]int{"orders": 1})
	require.NoError(t, w.Flush(ctx))

	attempts, writes := backing.counts()
	assert.Equal(t, 4, attempts)
	assert.Zero(t, writes["order-storage"])

	_, err := backing.Get(ctx, "order-storage")
	assert.Equal(t, ErrNotFound, err)
}

func TestWriteBehind_QueuedSnapshotWinsOverStorage(t *testing.T) {
	ctx := context.Background()
	backing := NewMemoryStorage()
	require.NoError(t, backing.Set(ctx, "cart-storage", []byte(`{"state":{"items":["old"]},"version":0}`)))

	w := &WriteBehind{
		storage: backing,
		pending: map[string][]byte{},
	}
	w.pending["cart-storage"] = []byte(`{"state":{"items":["new"]},"version":0}`)

	var restored cartState
	found, err := w.Restore(ctx, "cart-storage", &restored)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, []string{"new"}, restored.Items)
}

func TestWriteBehind_Remove(t *testing.T) {
	ctx := context.Background()
	backing := NewMemoryStorage()
	w := NewWriteBehind(backing)
	defer w.Close()

	w.Persist("auth-storage", map[string]bool{"isAuthenticated": true})
	require.NoError(t, w.Remove(ctx, "auth-storage"))
	require.NoError(t, w.Flush(ctx))

	_, err := backing.Get(ctx, "auth-storage")
	assert.Equal(t, ErrNotFound, err)

	var state map[string]bool
	found, err := w.Restore(ctx, "auth-storage", &state)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestWriteBehind_CloseDrainsQueue(t *testing.T) {
	ctx := context.Background()
	backing := NewMemoryStorage()
	w := NewWriteBehind(backing)

	for i := 0; i < 10; i++ {
		w.Persist("cart-storage", cartState{Items: make([]string, i)})
	}
	require.NoError(t, w.Close())
	require.NoError(t, w.Close())

	var restored cartState
	raw, err := backing.Get(ctx, "cart-storage")
	require.NoError(t, err)
	require.NoError(t, decode(raw, &restored))
	assert.Len(t, restored.Items, 9)

	// persisting after close is dropped and flushing returns immediately
	w.Persist("cart-storage", cartState{})
	flushCtx, cancel := context.WithTimeout(ctx, time.Second)
	defer cancel()
	assert.NoError(t, w.Flush(flushCtx))
}
