package store

import (
	"strings"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"

	"go-food-ordering/models"
)

var (
	ErrCartEmpty               = errors.New("your cart is empty")
	ErrDeliveryAddressRequired = errors.New("please enter a delivery address")
)

type Fees struct {
	Delivery decimal.Decimal
	Service  decimal.Decimal
}

func DefaultFees() Fees {
	return Fees{
		Delivery: decimal.RequireFromString("2.99"),
		Service:  decimal.RequireFromString("1.99"),
	}
}

type PaymentMethod struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

var PaymentMethods = []PaymentMethod{
	{ID: "credit-card", Name: "Credit Card"},
	{ID: "cash", Name: "Cash on Delivery"},
}

// PaymentMethodName resolves a payment method id, falling back to the first
// method for unknown ids.
func PaymentMethodName(id string) string {
	for _, method := range PaymentMethods {
		if method.ID == id {
			return method.Name
		}
	}
	return PaymentMethods[0].Name
}

type CheckoutRequest struct {
	DeliveryAddress string `json:"deliveryAddress"`
	PaymentMethod   string `json:"paymentMethod"`
}

type Summary struct {
	Items       []models.CartLineItem `json:"items"`
	ItemCount   int                   `json:"itemCount"`
	Subtotal    decimal.Decimal       `json:"subtotal"`
	DeliveryFee decimal.Decimal       `json:"deliveryFee"`
	ServiceFee  decimal.Decimal       `json:"serviceFee"`
	Total       decimal.Decimal       `json:"total"`
}

// Checkout turns the cart into an order.
type Checkout struct {
	cart   *CartStore
	orders *OrderStore
	auth   *AuthStore
	fees   Fees
}

func NewCheckout(cart *CartStore, orders *OrderStore, auth *AuthStore, fees Fees) *Checkout {
	return &Checkout{cart: cart, orders: orders, auth: auth, fees: fees}
}

func (c *Checkout) Fees() Fees {
	return c.fees
}

func (c *Checkout) Summary() Summary {
	items := c.cart.Items()
	subtotal := CartTotal(items)
	count := 0
	for _, item := range items {
		count += item.Quantity
	}
	return Summary{
		Items:       items,
		ItemCount:   count,
		Subtotal:    subtotal,
		DeliveryFee: c.fees.Delivery,
		ServiceFee:  c.fees.Service,
		Total:       subtotal.Add(c.fees.Delivery).Add(c.fees.Service),
	}
}

// DefaultAddress is the signed-in user's first address line, if any.
func (c *Checkout) DefaultAddress() string {
	if c.auth == nil {
		return ""
	}
	user, ok := c.auth.User()
	if !ok {
		return ""
	}
	return user.Metadata.Address1
}

// PlaceOrder empties the cart into a new order.
func (c *Checkout) PlaceOrder(req CheckoutRequest) (models.Order, error) {
	address := strings.TrimSpace(req.DeliveryAddress)
	if address == "" {
		address = strings.TrimSpace(c.DefaultAddress())
	}
	if address == "" {
		return models.Order{}, ErrDeliveryAddressRequired
	}

	items := c.cart.takeItems()
	if len(items) == 0 {
		return models.Order{}, ErrCartEmpty
	}

	subtotal := CartTotal(items)
	return c.orders.AddOrder(models.OrderDraft{
		Items:           items,
		Subtotal:        subtotal,
		DeliveryFee:     c.fees.Delivery,
		ServiceFee:      c.fees.Service,
		Total:           subtotal.Add(c.fees.Delivery).Add(c.fees.Service),
		DeliveryAddress: address,
		PaymentMethod:   PaymentMethodName(req.PaymentMethod),
	}), nil
}
