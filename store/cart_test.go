package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-food-ordering/models"
)

func sequentialIDs() func(string) string {
	n := 0
	return func(menuItemID string) string {
		n++
		return menuItemID + "-" + string(rune('a'+n-1))
	}
}

func TestCartState_Add(t *testing.T) {
	newID := sequentialIDs()

	t.Run("does not modify the receiver", func(t *testing.T) {
		empty := CartState{}
		next, id := empty.Add(burger(1), newID)

		assert.Empty(t, empty.Items)
		require.Len(t, next.Items, 1)
		assert.Equal(t, id, next.Items[0].ID)
	})

	t.Run("merge ignores modifier order", func(t *testing.T) {
		first := burger(1)
		first.SelectedToppings = []models.MenuModifier{topping("Bacon", "2.0"), topping("Cheese", "1.0")}
		second := burger(2)
		second.SelectedToppings = []models.MenuModifier{topping("Cheese", "1.00"), topping("Bacon", "2")}

		state, firstID := CartState{}.Add(first, newID)
		state, secondID := state.Add(second, newID)

		require.Len(t, state.Items, 1)
		assert.Equal(t, firstID, secondID)
		assert.Equal(t, 3, state.Items[0].Quantity)
	})

	t.Run("duplicate modifiers count", func(t *testing.T) {
		first := burger(1)
		first.SelectedToppings = []models.MenuModifier{topping("Cheese", "1.0"), topping("Cheese", "1.0")}
		second := burger(1)
		second.SelectedToppings = []models.MenuModifier{topping("Cheese", "1.0")}

		state, _ := CartState{}.Add(first, newID)
		state, _ = state.Add(second, newID)
		assert.Len(t, state.Items, 2)
	})

	t.Run("modifier price is part of identity", func(t *testing.T) {
		first := burger(1)
		first.SelectedSides = []models.MenuModifier{topping("Fries", "3.5")}
		second := burger(1)
		second.SelectedSides = []models.MenuModifier{topping("Fries", "4.0")}

		state, _ := CartState{}.Add(first, newID)
		state, _ = state.Add(second, newID)
		assert.Len(t, state.Items, 2)
	})
}

func TestCartState_SetQuantity(t *testing.T) {
	state, id := CartState{}.Add(burger(1), sequentialIDs())

	assert.Equal(t, 5, state.SetQuantity(id, 5).Items[0].Quantity)
	assert.Equal(t, 1, state.Items[0].Quantity)
	assert.Empty(t, state.SetQuantity(id, 0).Items)
	assert.Empty(t, state.SetQuantity(id, -3).Items)
	assert.Equal(t, state.Items, state.SetQuantity("missing", 4).Items)
}

func TestCartTotal(t *testing.T) {
	assert.True(t, CartTotal(nil).IsZero())

	items := []models.CartLineItem{
		{Price: dec("10.00"), Quantity: 2, SelectedToppings: []models.MenuModifier{topping("Bacon", "1.50")}, SelectedSides: []models.MenuModifier{topping("Fries", "3.50")}},
		{Price: dec("0.10"), Quantity: 3},
	}
	assert.Equal(t, "30.3", CartTotal(items).String())
}
