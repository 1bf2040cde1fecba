package catalog

import (
	_ "embed"
	"os"
	"strings"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"go-food-ordering/models"
)

//go:embed catalog.yaml
var defaultCatalog []byte

const AllCategories = "All"

var (
	ErrRestaurantNotFound = errors.New("restaurant not found")
	ErrMenuItemNotFound   = errors.New("menu item not found")
	ErrUnknownSize        = errors.New("unknown size")
	ErrUnknownModifier    = errors.New("unknown modifier")
)

// Catalog is the read-only menu: restaurants, their items and the shared
// topping and side options.
type Catalog struct {
	Categories  []models.Category       `yaml:"categories"`
	Toppings    []models.ModifierOption `yaml:"toppings"`
	Sides       []models.ModifierOption `yaml:"sides"`
	Restaurants []models.Restaurant     `yaml:"restaurants"`
}

type SearchResult struct {
	Restaurants []models.Restaurant      `json:"restaurants"`
	MenuItems   []models.MenuItemListing `json:"menuItems"`
}

// LineItemRequest names a menu item and the options picked for it.
type LineItemRequest struct {
	MenuItemID          string
	Size                string
	Toppings            []string
	Sides               []string
	Quantity            int
	SpecialInstructions string
}

func Default() (*Catalog, error) {
	return Parse(defaultCatalog)
}

func Load(path string) (*Catalog, error) {
	if path == "" {
		return Default()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "read catalog %s", path)
	}
	return Parse(data)
}

func Parse(data []byte) (*Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, errors.Wrap(err, "parse catalog")
	}
	if err := c.validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

func (c *Catalog) validate() error {
	restaurants := map[string]bool{}
	items := map[string]bool{}
	for _, restaurant := range c.Restaurants {
		if restaurant.ID == "" || restaurants[restaurant.ID] {
			return errors.Errorf("catalog: missing or duplicate restaurant id %q", restaurant.ID)
		}
		restaurants[restaurant.ID] = true
		for _, item := range restaurant.MenuItems {
			if item.ID == "" || items[item.ID] {
				return errors.Errorf("catalog: missing or duplicate menu item id %q", item.ID)
			}
			items[item.ID] = true
		}
	}
	return nil
}

// ListRestaurants returns the restaurants serving category. An empty category
// or "All" returns every restaurant.
func (c *Catalog) ListRestaurants(category string) []models.Restaurant {
	restaurants := []models.Restaurant{}
	for _, restaurant := range c.Restaurants {
		if restaurantInCategory(restaurant, category) {
			restaurants = append(restaurants, restaurant)
		}
	}
	return restaurants
}

func (c *Catalog) Restaurant(id string) (models.Restaurant, error) {
	for _, restaurant := range c.Restaurants {
		if restaurant.ID == id {
			return restaurant, nil
		}
	}
	return models.Restaurant{}, ErrRestaurantNotFound
}

func (c *Catalog) MenuItem(id string) (models.MenuItemListing, error) {
	for _, restaurant := range c.Restaurants {
		for _, item := range restaurant.MenuItems {
			if item.ID == id {
				return listing(restaurant, item), nil
			}
		}
	}
	return models.MenuItemListing{}, ErrMenuItemNotFound
}

// Search matches query against names and descriptions, ignoring case, and
// narrows the result to category.
func (c *Catalog) Search(query, category string) SearchResult {
	query = strings.ToLower(strings.TrimSpace(query))
	result := SearchResult{
		Restaurants: []models.Restaurant{},
		MenuItems:   []models.MenuItemListing{},
	}

	for _, restaurant := range c.Restaurants {
		if matchesText(query, restaurant.Name, restaurant.Description) && restaurantInCategory(restaurant, category) {
			result.Restaurants = append(result.Restaurants, restaurant)
		}
		for _, item := range restaurant.MenuItems {
			if matchesText(query, item.Name, item.Description) && matchesCategory(category, item.Category) {
				result.MenuItems = append(result.MenuItems, listing(restaurant, item))
			}
		}
	}
	return result
}

// PriceLineItem builds a cart candidate with the size surcharge folded into
// its price and the modifiers resolved from the shared option lists. Items
// with sizes default to their first size.
func (c *Catalog) PriceLineItem(req LineItemRequest) (models.CartLineItem, error) {
	item, err := c.MenuItem(req.MenuItemID)
	if err != nil {
		return models.CartLineItem{}, errors.Wrapf(err, "%q", req.MenuItemID)
	}

	price := item.Price
	size := req.Size
	if size == "" && len(item.Sizes) > 0 {
		size = item.Sizes[0].Name
	}
	if size != "" {
		option, ok := findSize(item.Sizes, size)
		if !ok {
			return models.CartLineItem{}, errors.Wrapf(ErrUnknownSize, "%q for %s", size, item.Name)
		}
		price = price.Add(option.Price)
		size = option.Name
	}

	toppings, err := resolveModifiers(c.Toppings, req.Toppings)
	if err != nil {
		return models.CartLineItem{}, err
	}
	sides, err := resolveModifiers(c.Sides, req.Sides)
	if err != nil {
		return models.CartLineItem{}, err
	}

	return models.CartLineItem{
		MenuItemID:          item.ID,
		RestaurantID:        item.RestaurantID,
		RestaurantName:      item.RestaurantName,
		Name:                item.Name,
		Image:               item.Image,
		Price:               price,
		Quantity:            req.Quantity,
		SelectedToppings:    toppings,
		SelectedSides:       sides,
		SpecialInstructions: strings.TrimSpace(req.SpecialInstructions),
		Size:                size,
	}, nil
}

func listing(restaurant models.Restaurant, item models.MenuItem) models.MenuItemListing {
	return models.MenuItemListing{
		MenuItem:       item,
		RestaurantID:   restaurant.ID,
		RestaurantName: restaurant.Name,
	}
}

func findSize(sizes []models.SizeOption, name string) (models.SizeOption, bool) {
	for _, size := range sizes {
		if strings.EqualFold(size.Name, name) {
			return size, true
		}
	}
	return models.SizeOption{}, false
}

func resolveModifiers(options []models.ModifierOption, names []string) ([]models.MenuModifier, error) {
	if len(names) == 0 {
		return nil, nil
	}
	selected := make([]models.MenuModifier, 0, len(names))
	for _, name := range names {
		found := false
		for _, option := range options {
			if strings.EqualFold(option.Name, name) {
				selected = append(selected, option.Selected())
				found = true
				break
			}
		}
		if !found {
			return nil, errors.Wrapf(ErrUnknownModifier, "%q", name)
		}
	}
	return selected, nil
}

func matchesText(query string, fields ...string) bool {
	if query == "" {
		return true
	}
	for _, field := range fields {
		if strings.Contains(strings.ToLower(field), query) {
			return true
		}
	}
	return false
}

func matchesCategory(selected, category string) bool {
	return selected == "" || strings.EqualFold(selected, AllCategories) || strings.EqualFold(selected, category)
}

func restaurantInCategory(restaurant models.Restaurant, category string) bool {
	if category == "" || strings.EqualFold(category, AllCategories) {
		return true
	}
	for _, c := range restaurant.Categories {
		if strings.EqualFold(c, category) {
			return true
		}
	}
	return false
}
