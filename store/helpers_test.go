package store

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/shopspring/decimal"

	"go-food-ordering/models"
)

var _ Persister = &recordingPersister{}
var _ EventDispatcher = &mockEventDispatcher{}

// recordingPersister keeps the last JSON snapshot per namespace synchronously.
type recordingPersister struct {
	mu        sync.Mutex
	snapshots map[string][]byte
	writes    map[string]int
	removed   []string
}

func newRecordingPersister() *recordingPersister {
	return &recordingPersister{
		snapshots: make(map[string][]byte),
		writes:    make(map[string]int),
	}
}

func (p *recordingPersister) Persist(key string, state interface{}) {
	raw, err := json.Marshal(state)
	if err != nil {
		panic(err)
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.snapshots[key] = raw
	p.writes[key]++
}

func (p *recordingPersister) Restore(ctx context.Context, key string, dst interface{}) (bool, error) {
	p.mu.Lock()
	raw, ok := p.snapshots[key]
	p.mu.Unlock()
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(raw, dst)
}

func (p *recordingPersister) Remove(ctx context.Context, key string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.snapshots, key)
	p.removed = append(p.removed, key)
	return nil
}

func (p *recordingPersister) writeCount(key string) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.writes[key]
}

type mockEventDispatcher struct {
	mu     sync.Mutex
	events []Event
}

func (m *mockEventDispatcher) Dispatch(event Event) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, event)
	return nil
}

func (m *mockEventDispatcher) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = nil
}

func dec(value string) decimal.Decimal {
	return decimal.RequireFromString(value)
}

func burger(quantity int) models.CartLineItem {
	return models.CartLineItem{
		MenuItemID:     "1-1",
		RestaurantID:   "1",
		RestaurantName: "Burger Palace",
		Name:           "Classic Beef Burger",
		Price:          dec("8.99"),
		Quantity:       quantity,
		Size:           "Regular",
	}
}

func topping(name, price string) models.MenuModifier {
	return models.MenuModifier{Name: name, Price: dec(price)}
}
