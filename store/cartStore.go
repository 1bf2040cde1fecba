package store

import (
	"context"
	"sync"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"

	"go-food-ordering/helpers"
	"go-food-ordering/models"
)

// CartStore owns the process-wide cart. Every mutation hands the new state to
// the persister before returning.
type CartStore struct {
	mu        sync.Mutex
	state     CartState
	persister Persister
	newID     func(menuItemID string) string
}

func NewCartStore(persister Persister) *CartStore {
	return &CartStore{
		state:     CartState{Items: []models.CartLineItem{}},
		persister: persister,
		newID:     helpers.NewLineItemID,
	}
}

// AddItem merges the candidate into an existing line when menu item,
// restaurant, size and modifiers match; otherwise it appends a new line.
// The candidate's quantity is added as is.
func (s *CartStore) AddItem(candidate models.CartLineItem) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	next, id := s.state.Add(candidate, s.newID)
	s.commit(next)
	return id
}

func (s *CartStore) RemoveItem(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.state.Find(id); !ok {
		return
	}
	s.commit(s.state.Remove(id))
}

func (s *CartStore) UpdateQuantity(id string, quantity int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.state.Find(id); !ok {
		return
	}
	s.commit(s.state.SetQuantity(id, quantity))
}

func (s *CartStore) ClearCart() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.commit(CartState{Items: []models.CartLineItem{}})
}

func (s *CartStore) GetCartTotal() decimal.Decimal {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.state.Total()
}

func (s *CartStore) GetCartItemCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.state.ItemCount()
}

func (s *CartStore) Items() []models.CartLineItem {
	s.mu.Lock()
	defer s.mu.Unlock()

	return models.CloneItems(s.state.Items)
}

func (s *CartStore) Item(id string) (models.CartLineItem, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.state.Find(id)
}

// takeItems returns the current items and empties the cart in one step.
func (s *CartStore) takeItems() []models.CartLineItem {
	s.mu.Lock()
	defer s.mu.Unlock()

	items := s.state.Items
	if len(items) == 0 {
		return nil
	}
	s.commit(CartState{Items: []models.CartLineItem{}})
	return items
}

// Load replaces the in-memory cart with the persisted one, if any.
func (s *CartStore) Load(ctx context.Context) error {
	var state CartState
	found, err := s.persister.Restore(ctx, CartNamespace, &state)
	if err != nil {
		return errors.Wrap(err, "load cart")
	}
	if !found {
		return nil
	}
	if state.Items == nil {
		state.Items = []models.CartLineItem{}
	}

	s.mu.Lock()
	s.state = state
	s.mu.Unlock()
	return nil
}

// Reset empties the cart and deletes its persisted record.
func (s *CartStore) Reset(ctx context.Context) error {
	s.mu.Lock()
	s.state = CartState{Items: []models.CartLineItem{}}
	s.mu.Unlock()

	return s.persister.Remove(ctx, CartNamespace)
}

func (s *CartStore) commit(next CartState) {
	s.state = next
	s.persister.Persist(CartNamespace, next)
}
