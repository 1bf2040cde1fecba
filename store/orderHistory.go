package store

import (
	"go-food-ordering/models"
)

// OrderHistory is the persisted shape of the order store, newest order first.
type OrderHistory struct {
	Orders       []models.Order `json:"orders"`
	CurrentOrder *models.Order  `json:"currentOrder"`
}

func (h OrderHistory) Prepend(order models.Order) OrderHistory {
	orders := make([]models.Order, 0, len(h.Orders)+1)
	orders = append(orders, order.Clone())
	for _, existing := range h.Orders {
		orders = append(orders, existing.Clone())
	}
	current := order.Clone()
	return OrderHistory{Orders: orders, CurrentOrder: &current}
}

// WithStatus replaces the status of one order and keeps the current order in
// step with it. found is false when no order has the id.
func (h OrderHistory) WithStatus(id string, status models.OrderStatus) (next OrderHistory, previous models.OrderStatus, found bool) {
	orders := make([]models.Order, len(h.Orders))
	for idx, order := range h.Orders {
		orders[idx] = order.Clone()
		if order.ID == id && !found {
			previous = order.Status
			orders[idx].Status = status
			found = true
		}
	}
	if !found {
		return h, "", false
	}

	next = OrderHistory{Orders: orders}
	if h.CurrentOrder != nil {
		current := h.CurrentOrder.Clone()
		if current.ID == id {
			current.Status = status
		}
		next.CurrentOrder = &current
	}
	return next, previous, true
}

func (h OrderHistory) Find(id string) (models.Order, bool) {
	for _, order := range h.Orders {
		if order.ID == id {
			return order.Clone(), true
		}
	}
	return models.Order{}, false
}
