package models

import (
	"sort"

	"github.com/shopspring/decimal"
)

// MenuModifier is a topping or side chosen for a line item.
type MenuModifier struct {
	Name  string          `json:"name" validate:"required"`
	Price decimal.Decimal `json:"price"`
}

// CartLineItem is one entry of the cart. Price already includes any size
// surcharge; toppings and sides are priced on top of it.
type CartLineItem struct {
	ID                  string          `json:"id"`
	MenuItemID          string          `json:"menuItemId"`
	RestaurantID        string          `json:"restaurantId"`
	RestaurantName      string          `json:"restaurantName"`
	Name                string          `json:"name"`
	Image               string          `json:"image,omitempty"`
	Price               decimal.Decimal `json:"price"`
	Quantity            int             `json:"quantity"`
	SelectedToppings    []MenuModifier  `json:"selectedToppings,omitempty"`
	SelectedSides       []MenuModifier  `json:"selectedSides,omitempty"`
	SpecialInstructions string          `json:"specialInstructions,omitempty"`
	Size                string          `json:"size,omitempty"`
}

// UnitPrice is the base price plus every selected modifier.
func (i CartLineItem) UnitPrice() decimal.Decimal {
	return i.Price.Add(SumModifiers(i.SelectedToppings)).Add(SumModifiers(i.SelectedSides))
}

func (i CartLineItem) LineTotal() decimal.Decimal {
	return i.UnitPrice().Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// SameLine reports whether two items would be merged into a single cart line.
// Modifier order is ignored; quantity, instructions and display fields are not compared.
func (i CartLineItem) SameLine(other CartLineItem) bool {
	return i.MenuItemID == other.MenuItemID &&
		i.RestaurantID == other.RestaurantID &&
		i.Size == other.Size &&
		SameModifiers(i.SelectedToppings, other.SelectedToppings) &&
		SameModifiers(i.SelectedSides, other.SelectedSides)
}

func (i CartLineItem) Clone() CartLineItem {
	clone := i
	clone.SelectedToppings = cloneModifiers(i.SelectedToppings)
	clone.SelectedSides = cloneModifiers(i.SelectedSides)
	return clone
}

func CloneItems(items []CartLineItem) []CartLineItem {
	if items == nil {
		return nil
	}
	clones := make([]CartLineItem, len(items))
	for idx, item := range items {
		clones[idx] = item.Clone()
	}
	return clones
}

func SumModifiers(modifiers []MenuModifier) decimal.Decimal {
	sum := decimal.Zero
	for _, modifier := range modifiers {
		sum = sum.Add(modifier.Price)
	}
	return sum
}

// SameModifiers compares two modifier lists as multisets of (name, price).
func SameModifiers(a, b []MenuModifier) bool {
	if len(a) != len(b) {
		return false
	}
	left, right := sortedModifiers(a), sortedModifiers(b)
	for idx := range left {
		if left[idx].Name != right[idx].Name || !left[idx].Price.Equal(right[idx].Price) {
			return false
		}
	}
	return true
}

func sortedModifiers(modifiers []MenuModifier) []MenuModifier {
	sorted := cloneModifiers(modifiers)
	sort.Slice(sorted, func(x, y int) bool {
		if sorted[x].Name != sorted[y].Name {
			return sorted[x].Name < sorted[y].Name
		}
		return sorted[x].Price.LessThan(sorted[y].Price)
	})
	return sorted
}

func cloneModifiers(modifiers []MenuModifier) []MenuModifier {
	if modifiers == nil {
		return nil
	}
	clones := make([]MenuModifier, len(modifiers))
	copy(clones, modifiers)
	return clones
}
