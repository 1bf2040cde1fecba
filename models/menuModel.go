package models

import "github.com/shopspring/decimal"

type Category struct {
	ID   string `json:"id" yaml:"id"`
	Name string `json:"name" yaml:"name"`
}

type SizeOption struct {
	Name  string          `json:"name" yaml:"name"`
	Price decimal.Decimal `json:"price" yaml:"price"`
}

// ModifierOption is a topping or side offered by the menu.
type ModifierOption struct {
	Name  string          `json:"name" yaml:"name"`
	Image string          `json:"image,omitempty" yaml:"image"`
	Price decimal.Decimal `json:"price" yaml:"price"`
}

func (o ModifierOption) Selected() MenuModifier {
	return MenuModifier{Name: o.Name, Price: o.Price}
}

type MenuItem struct {
	ID              string          `json:"id" yaml:"id"`
	Name            string          `json:"name" yaml:"name"`
	Description     string          `json:"description" yaml:"description"`
	Price           decimal.Decimal `json:"price" yaml:"price"`
	Image           string          `json:"image,omitempty" yaml:"image"`
	Category        string          `json:"category" yaml:"category"`
	Rating          float64         `json:"rating" yaml:"rating"`
	PreparationTime string          `json:"preparationTime" yaml:"preparationTime"`
	Sizes           []SizeOption    `json:"sizes,omitempty" yaml:"sizes"`
}

type Restaurant struct {
	ID           string          `json:"id" yaml:"id"`
	Name         string          `json:"name" yaml:"name"`
	Description  string          `json:"description" yaml:"description"`
	Image        string          `json:"image,omitempty" yaml:"image"`
	Rating       float64         `json:"rating" yaml:"rating"`
	DeliveryTime string          `json:"deliveryTime" yaml:"deliveryTime"`
	DeliveryFee  decimal.Decimal `json:"deliveryFee" yaml:"deliveryFee"`
	Categories   []string        `json:"categories" yaml:"categories"`
	MenuItems    []MenuItem      `json:"menuItems" yaml:"menuItems"`
}

// MenuItemListing is a menu item flattened with the restaurant it belongs to.
type MenuItemListing struct {
	MenuItem
	RestaurantID   string `json:"restaurantId"`
	RestaurantName string `json:"restaurantName"`
}
