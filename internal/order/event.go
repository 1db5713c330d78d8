package order

import (
	"context"
	"time"

	"quickcart-be/internal/messaging"
)

// Publisher delivers order events to downstream consumers.
type Publisher interface {
	Publish(ctx context.Context, event messaging.Event) error
}

type PlacedEvent struct {
	OrderID       string    `json:"orderId"`
	OrderNumber   string    `json:"orderNumber"`
	ProductID     string    `json:"productId"`
	Quantity      int       `json:"quantity"`
	TotalPrice    string    `json:"totalPrice"`
	CustomerEmail string    `json:"customerEmail"`
	SellerEmail   string    `json:"sellerEmail"`
	Timestamp     time.Time `json:"timestamp"`
}

func (e PlacedEvent) EventType() string { return "order.placed" }
func (e PlacedEvent) EventKey() string  { return e.OrderID }

type StatusChangedEvent struct {
	OrderID       string    `json:"orderId"`
	From          Status    `json:"from"`
	To            Status    `json:"to"`
	RestoredStock int       `json:"restoredStock"`
	ChangedBy     string    `json:"changedBy"`
	Timestamp     time.Time `json:"timestamp"`
}

func (e StatusChangedEvent) EventType() string { return "order.status_changed" }
func (e StatusChangedEvent) EventKey() string  { return e.OrderID }

type CanceledEvent struct {
	OrderID       string    `json:"orderId"`
	ProductID     string    `json:"productId"`
	RestoredStock int       `json:"restoredStock"`
	CanceledBy    string    `json:"canceledBy"`
	Timestamp     time.Time `json:"timestamp"`
}

func (e CanceledEvent) EventType() string { return "order.canceled" }
func (e CanceledEvent) EventKey() string  { return e.OrderID }
