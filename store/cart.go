package store

import (
	"github.com/shopspring/decimal"

	"go-food-ordering/models"
)

// CartState is the persisted shape of the cart. Its methods never modify the
// receiver; they return the next state.
type CartState struct {
	Items []models.CartLineItem `json:"items"`
}

// Add merges candidate into a matching line or appends it under a fresh id.
// It returns the id of the line that now holds the candidate.
func (c CartState) Add(candidate models.CartLineItem, newID func(menuItemID string) string) (CartState, string) {
	items := models.CloneItems(c.Items)
	for idx := range items {
		if items[idx].SameLine(candidate) {
			items[idx].Quantity += candidate.Quantity
			return CartState{Items: items}, items[idx].ID
		}
	}

	line := candidate.Clone()
	line.ID = newID(candidate.MenuItemID)
	return CartState{Items: append(items, line)}, line.ID
}

func (c CartState) Remove(id string) CartState {
	items := make([]models.CartLineItem, 0, len(c.Items))
	for _, item := range c.Items {
		if item.ID != id {
			items = append(items, item.Clone())
		}
	}
	return CartState{Items: items}
}

// SetQuantity removes the line when quantity is not positive.
func (c CartState) SetQuantity(id string, quantity int) CartState {
	if quantity <= 0 {
		return c.Remove(id)
	}
	items := models.CloneItems(c.Items)
	for idx := range items {
		if items[idx].ID == id {
			items[idx].Quantity = quantity
		}
	}
	return CartState{Items: items}
}

func (c CartState) Find(id string) (models.CartLineItem, bool) {
	for _, item := range c.Items {
		if item.ID == id {
			return item.Clone(), true
		}
	}
	return models.CartLineItem{}, false
}

func (c CartState) Total() decimal.Decimal {
	return CartTotal(c.Items)
}

func (c CartState) ItemCount() int {
	count := 0
	for _, item := range c.Items {
		count += item.Quantity
	}
	return count
}

// CartTotal sums (price + toppings + sides) x quantity without rounding.
func CartTotal(items []models.CartLineItem) decimal.Decimal {
	total := decimal.Zero
	for _, item := range items {
		total = total.Add(item.LineTotal())
	}
	return total
}
