package store

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"go-food-ordering/helpers"
	"go-food-ordering/models"
)

const EstimatedDeliveryOffset = 30 * time.Minute

var ErrOrderNotFound = errors.New("order not found")

// IllegalTransitionError is returned by AdvanceOrderStatus when the delivery
// workflow does not allow moving From to To.
type IllegalTransitionError struct {
	OrderID string
	From    models.OrderStatus
	To      models.OrderStatus
}

func (e *IllegalTransitionError) Error() string {
	return fmt.Sprintf("order %s cannot move from %s to %s", e.OrderID, e.From, e.To)
}

type OrderStore struct {
	mu         sync.Mutex
	history    OrderHistory
	persister  Persister
	dispatcher EventDispatcher
	now        func() time.Time
	newID      func() string
	logger     *log.Entry
}

type OrderOption func(*OrderStore)

func WithClock(now func() time.Time) OrderOption {
	return func(s *OrderStore) {
		s.now = now
	}
}

func WithDispatcher(dispatcher EventDispatcher) OrderOption {
	return func(s *OrderStore) {
		s.dispatcher = dispatcher
	}
}

func NewOrderStore(persister Persister, opts ...OrderOption) *OrderStore {
	s := &OrderStore{
		history:    OrderHistory{Orders: []models.Order{}},
		persister:  persister,
		dispatcher: nopDispatcher{},
		now:        time.Now,
		newID:      helpers.NewOrderID,
		logger:     log.WithField("component", "order-store"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// AddOrder freezes a draft into a confirmed order, prepends it to the history
// and makes it the current order. Items are deep copied.
func (s *OrderStore) AddOrder(draft models.OrderDraft) models.Order {
	total := draft.Subtotal.Add(draft.DeliveryFee).Add(draft.ServiceFee)
	if !draft.Total.IsZero() && !draft.Total.Equal(total) {
		s.logger.WithFields(log.Fields{
			"draft_total": draft.Total.String(),
			"total":       total.String(),
		}).Warn("order draft total does not match its parts")
	}

	createdAt := s.now().UTC()
	items := models.CloneItems(draft.Items)
	if items == nil {
		items = []models.CartLineItem{}
	}
	order := models.Order{
		ID:                    s.newID(),
		Items:                 items,
		Subtotal:              draft.Subtotal,
		DeliveryFee:           draft.DeliveryFee,
		ServiceFee:            draft.ServiceFee,
		Total:                 total,
		DeliveryAddress:       draft.DeliveryAddress,
		PaymentMethod:         draft.PaymentMethod,
		Status:                models.StatusConfirmed,
		CreatedAt:             createdAt,
		EstimatedDeliveryTime: createdAt.Add(EstimatedDeliveryOffset),
	}

	s.mu.Lock()
	s.commit(s.history.Prepend(order))
	s.mu.Unlock()

	s.dispatch(models.OrderPlaced{Order: order.Clone()})
	return order.Clone()
}

// UpdateOrderStatus sets the status of an order without checking the
// workflow. Unknown ids are ignored.
func (s *OrderStore) UpdateOrderStatus(orderID string, status models.OrderStatus) {
	s.mu.Lock()
	next, previous, found := s.history.WithStatus(orderID, status)
	if !found || previous == status {
		s.mu.Unlock()
		return
	}
	s.commit(next)
	s.mu.Unlock()

	s.dispatch(models.OrderStatusChanged{OrderID: orderID, OldStatus: previous, NewStatus: status})
}

// AdvanceOrderStatus is UpdateOrderStatus with the delivery workflow enforced.
func (s *OrderStore) AdvanceOrderStatus(orderID string, status models.OrderStatus) error {
	s.mu.Lock()
	existing, ok := s.history.Find(orderID)
	if !ok {
		s.mu.Unlock()
		return ErrOrderNotFound
	}
	if !existing.Status.CanTransitionTo(status) {
		s.mu.Unlock()
		return &IllegalTransitionError{OrderID: orderID, From: existing.Status, To: status}
	}
	next, previous, _ := s.history.WithStatus(orderID, status)
	s.commit(next)
	s.mu.Unlock()

	s.dispatch(models.OrderStatusChanged{OrderID: orderID, OldStatus: previous, NewStatus: status})
	return nil
}

func (s *OrderStore) GetOrderById(orderID string) (models.Order, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.history.Find(orderID)
}

// Orders returns the history, newest first.
func (s *OrderStore) Orders() []models.Order {
	s.mu.Lock()
	defer s.mu.Unlock()

	orders := make([]models.Order, len(s.history.Orders))
	for idx, order := range s.history.Orders {
		orders[idx] = order.Clone()
	}
	return orders
}

func (s *OrderStore) CurrentOrder() (models.Order, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.history.CurrentOrder == nil {
		return models.Order{}, false
	}
	return s.history.CurrentOrder.Clone(), true
}

func (s *OrderStore) Load(ctx context.Context) error {
	var history OrderHistory
	found, err := s.persister.Restore(ctx, OrderNamespace, &history)
	if err != nil {
		return errors.Wrap(err, "load orders")
	}
	if !found {
		return nil
	}
	if history.Orders == nil {
		history.Orders = []models.Order{}
	}

	s.mu.Lock()
	s.history = history
	s.mu.Unlock()
	return nil
}

func (s *OrderStore) Reset(ctx context.Context) error {
	s.mu.Lock()
	s.history = OrderHistory{Orders: []models.Order{}}
	s.mu.Unlock()

	return s.persister.Remove(ctx, OrderNamespace)
}

func (s *OrderStore) commit(next OrderHistory) {
	s.history = next
	s.persister.Persist(OrderNamespace, next)
}

func (s *OrderStore) dispatch(event Event) {
	if err := s.dispatcher.Dispatch(event); err != nil {
		s.logger.WithError(err).WithField("event", event.Type()).Warn("could not dispatch order event")
	}
}
