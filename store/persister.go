package store

import "context"

const (
	CartNamespace  = "cart-storage"
	OrderNamespace = "order-storage"
	AuthNamespace  = "auth-storage"
)

// Persister stores snapshots of store state under a namespace. Persist must
// capture state before returning and must not block on I/O.
type Persister interface {
	Persist(key string, state interface{})
	Restore(ctx context.Context, key string, dst interface{}) (bool, error)
	Remove(ctx context.Context, key string) error
}

type Event interface {
	Type() string
}

type EventDispatcher interface {
	Dispatch(event Event) error
}

type nopDispatcher struct{}

func (nopDispatcher) Dispatch(Event) error { return nil }
