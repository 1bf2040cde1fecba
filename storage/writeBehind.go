package storage

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/cenkalti/backoff"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

const defaultWriteTimeout = 5 * time.Second

// envelope is the on-disk shape of every persisted namespace.
type envelope struct {
	State   json.RawMessage `json:"state"`
	Version int             `json:"version"`
}

// WriteBehind accepts state snapshots without blocking and writes them to a
// Storage from a single goroutine. Only the latest snapshot per key is kept.
type WriteBehind struct {
	storage      Storage
	newBackOff   func() backoff.BackOff
	writeTimeout time.Duration
	logger       *log.Entry

	mu      sync.Mutex
	pending map[string][]byte
	order   []string
	closed  bool

	wake      chan struct{}
	flushes   chan chan struct{}
	done      chan struct{}
	stopped   chan struct{}
	closeOnce sync.Once
}

type Option func(*WriteBehind)

// WithBackOff sets the retry policy used for each write. The factory is
// called once per write so policies with state can be used.
func WithBackOff(factory func() backoff.BackOff) Option {
	return func(w *WriteBehind) {
		w.newBackOff = factory
	}
}

func WithWriteTimeout(timeout time.Duration) Option {
	return func(w *WriteBehind) {
		w.writeTimeout = timeout
	}
}

func WithLogger(logger *log.Entry) Option {
	return func(w *WriteBehind) {
		w.logger = logger
	}
}

func DefaultBackOff() backoff.BackOff {
	return backoff.WithMaxRetries(backoff.NewExponentialBackOff(), 3)
}

func NewWriteBehind(storage Storage, opts ...Option) *WriteBehind {
	w := &WriteBehind{
		storage:      storage,
		newBackOff:   DefaultBackOff,
		writeTimeout: defaultWriteTimeout,
		logger:       log.WithField("component", "write-behind"),
		pending:      make(map[string][]byte),
		wake:         make(chan struct{}, 1),
		flushes:      make(chan chan struct{}),
		done:         make(chan struct{}),
		stopped:      make(chan struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}
	go w.run()
	return w
}

// Persist serializes state immediately and queues it for writing under key.
// A newer snapshot for the same key replaces one that has not been written yet.
func (w *WriteBehind) Persist(key string, state interface{}) {
	payload, err := encode(state)
	if err != nil {
		w.logger.WithError(err).WithField("namespace", key).Error("could not encode state")
		return
	}

	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		w.logger.WithField("namespace", key).Warn("write-behind closed, dropping state")
		return
	}
	if _, queued := w.pending[key]; !queued {
		w.order = append(w.order, key)
	}
	w.pending[key] = payload
	w.mu.Unlock()

	select {
	case w.wake <- struct{}{}:
	default:
	}
}

// Restore decodes the latest state for key into dst. Queued snapshots win over
// what is in storage. It reports false when nothing was ever persisted.
func (w *WriteBehind) Restore(ctx context.Context, key string, dst interface{}) (bool, error) {
	w.mu.Lock()
	payload, queued := w.pending[key]
	w.mu.Unlock()

	if !queued {
		var err error
		payload, err = w.storage.Get(ctx, key)
		if err == ErrNotFound {
			return false, nil
		}
		if err != nil {
			return false, err
		}
	}

	if err := decode(payload, dst); err != nil {
		return false, errors.Wrapf(err, "decode %s", key)
	}
	return true, nil
}

// Remove discards any queued snapshot for key and deletes it from storage.
func (w *WriteBehind) Remove(ctx context.Context, key string) error {
	w.mu.Lock()
	if _, queued := w.pending[key]; queued {
		delete(w.pending, key)
		w.order = removeKey(w.order, key)
	}
	w.mu.Unlock()

	// a write for key may already be in flight
	if err := w.Flush(ctx); err != nil {
		return err
	}
	return w.storage.Delete(ctx, key)
}

// Flush blocks until every snapshot queued before the call has been written
// or ctx is done.
func (w *WriteBehind) Flush(ctx context.Context) error {
	ack := make(chan struct{})
	select {
	case w.flushes <- ack:
	case <-w.stopped:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}

	select {
	case <-ack:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close writes whatever is still queued and stops the worker.
func (w *WriteBehind) Close() error {
	w.closeOnce.Do(func() {
		w.mu.Lock()
		w.closed = true
		w.mu.Unlock()
		close(w.done)
	})
	<-w.stopped
	return nil
}

func (w *WriteBehind) run() {
	defer close(w.stopped)
	for {
		select {
		case <-w.wake:
			w.drain()
		case ack := <-w.flushes:
			w.drain()
			close(ack)
		case <-w.done:
			w.drain()
			return
		}
	}
}

func (w *WriteBehind) drain() {
	for {
		w.mu.Lock()
		if len(w.order) == 0 {
			w.mu.Unlock()
			return
		}
		key := w.order[0]
		w.order = w.order[1:]
		payload := w.pending[key]
		delete(w.pending, key)
		w.mu.Unlock()

		w.write(key, payload)
	}
}

func (w *WriteBehind) write(key string, payload []byte) {
	attempt := 0
	operation := func() error {
		attempt++
		ctx, cancel := context.WithTimeout(context.Background(), w.writeTimeout)
		defer cancel()
		return w.storage.Set(ctx, key, payload)
	}
	notify := func(err error, wait time.Duration) {
		w.logger.WithFields(log.Fields{
			"namespace": key,
			"attempt":   attempt,
			"retry_in":  wait.String(),
		}).WithError(err).Warn("state write failed")
	}

	if err := backoff.RetryNotify(operation, w.newBackOff(), notify); err != nil {
		w.logger.WithFields(log.Fields{
			"namespace": key,
			"attempts":  attempt,
		}).WithError(err).Error("giving up on state write")
	}
}

func encode(state interface{}) ([]byte, error) {
	raw, err := json.Marshal(state)
	if err != nil {
		return nil, err
	}
	return json.Marshal(envelope{State: raw})
}

func decode(payload []byte, dst interface{}) error {
	var env envelope
	if err := json.Unmarshal(payload, &env); err != nil {
		return err
	}
	if len(env.State) == 0 || string(env.State) == "null" {
		return nil
	}
	return json.Unmarshal(env.State, dst)
}

func removeKey(keys []string, key string) []string {
	for idx, k := range keys {
		if k == key {
			return append(keys[:idx], keys[idx+1:]...)
		}
	}
	return keys
}
