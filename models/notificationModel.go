package models

// Message is the envelope pushed to websocket clients.
type Message struct {
	Event   string      `json:"event"`
	Payload interface{} `json:"payload"`
}

type OrderPlaced struct {
	Order Order `json:"order"`
}

func (e OrderPlaced) Type() string { return "newOrder" }

type OrderStatusChanged struct {
	OrderID   string      `json:"orderId"`
	OldStatus OrderStatus `json:"oldStatus"`
	NewStatus OrderStatus `json:"newStatus"`
}

func (e OrderStatusChanged) Type() string { return "orderStatus" }
