package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	StatusPending   OrderStatus = "pending"
	StatusConfirmed OrderStatus = "confirmed"
	StatusPreparing OrderStatus = "preparing"
	StatusOnTheWay  OrderStatus = "on-the-way"
	StatusDelivered OrderStatus = "delivered"
	StatusCancelled OrderStatus = "cancelled"
)

var OrderStatuses = []OrderStatus{
	StatusPending,
	StatusConfirmed,
	StatusPreparing,
	StatusOnTheWay,
	StatusDelivered,
	StatusCancelled,
}

// allowedTransitions is the delivery workflow used when transitions are enforced.
var allowedTransitions = map[OrderStatus][]OrderStatus{
	StatusPending:   {StatusConfirmed, StatusCancelled},
	StatusConfirmed: {StatusPreparing, StatusCancelled},
	StatusPreparing: {StatusOnTheWay, StatusCancelled},
	StatusOnTheWay:  {StatusDelivered},
}

func (s OrderStatus) IsValid() bool {
	for _, status := range OrderStatuses {
		if s == status {
			return true
		}
	}
	return false
}

func (s OrderStatus) IsTerminal() bool {
	return s == StatusDelivered || s == StatusCancelled
}

func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	for _, allowed := range allowedTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Order is immutable once placed except for Status.
type Order struct {
	ID                    string          `json:"id"`
	Items                 []CartLineItem  `json:"items"`
	Subtotal              decimal.Decimal `json:"subtotal"`
	DeliveryFee           decimal.Decimal `json:"deliveryFee"`
	ServiceFee            decimal.Decimal `json:"serviceFee"`
	Total                 decimal.Decimal `json:"total"`
	DeliveryAddress       string          `json:"deliveryAddress"`
	PaymentMethod         string          `json:"paymentMethod"`
	Status                OrderStatus     `json:"status"`
	CreatedAt             time.Time       `json:"createdAt"`
	EstimatedDeliveryTime time.Time       `json:"estimatedDeliveryTime"`
}

func (o Order) Clone() Order {
	clone := o
	clone.Items = CloneItems(o.Items)
	return clone
}

// OrderDraft is assembled by the caller from a cart snapshot and the
// delivery/payment details.
type OrderDraft struct {
	Items           []CartLineItem
	Subtotal        decimal.Decimal
	DeliveryFee     decimal.Decimal
	ServiceFee      decimal.Decimal
	Total           decimal.Decimal
	DeliveryAddress string
	PaymentMethod   string
}
