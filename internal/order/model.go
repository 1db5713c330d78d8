package order

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type Status string

const (
	StatusPending    Status = "pending"
	StatusApproved   Status = "approved"
	StatusProcessing Status = "processing"
	StatusDelivered  Status = "delivered"
	StatusCanceled   Status = "canceled"
)

// NoSize is stored when the customer picks no size.
const NoSize = "No size available"

var transitions = map[Status][]Status{
	StatusPending:    {StatusApproved, StatusProcessing, StatusCanceled},
	StatusApproved:   {StatusProcessing, StatusCanceled},
	StatusProcessing: {StatusDelivered, StatusCanceled},
}

// ParseStatus accepts any letter case; "cancelled" is read as canceled.
func ParseStatus(s string) (Status, error) {
	st := Status(strings.ToLower(strings.TrimSpace(s)))
	if st == "cancelled" {
		st = StatusCanceled
	}
	switch st {
	case StatusPending, StatusApproved, StatusProcessing, StatusDelivered, StatusCanceled:
		return st, nil
	}
	return "", ErrInvalidStatus
}

// CanTransitionTo reports whether a seller may move an order from s to next.
func (s Status) CanTransitionTo(next Status) bool {
	for _, allowed := range transitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// CustomerCancelable reports whether the customer may still withdraw the order.
func (s Status) CustomerCancelable() bool {
	return s == StatusPending || s == StatusCanceled
}

// HoldsStock reports whether the order's quantity is still taken out of the product stock.
func (s Status) HoldsStock() bool {
	return s != StatusCanceled
}

type Order struct {
	ID            string          `json:"_id"`
	OrderNumber   string          `json:"orderNumber"`
	CustomerName  string          `json:"customerName"`
	CustomerEmail string          `json:"customerEmail"`
	CustomerPhoto string          `json:"customerPhoto"`
	ProductID     string          `json:"productId"`
	ProductName   string          `json:"productName"`
	ProductImage  string          `json:"productImage"`
	UnitPrice     decimal.Decimal `json:"price"`
	Quantity      int             `json:"quantity"`
	DeliveryPrice decimal.Decimal `json:"deliveryPrice"`
	TotalPrice    decimal.Decimal `json:"totalPrice"`
	Status        Status          `json:"status"`
	Address       string          `json:"address"`
	CustomerPhone string          `json:"customerPhone"`
	TransactionID string          `json:"transactionId"`
	PaymentMethod string          `json:"paymentMethod"`
	Size          string          `json:"size"`
	SellerEmail   string          `json:"sellerEmail"`
	CreatedAt     time.Time       `json:"createdAt"`
	UpdatedAt     time.Time       `json:"updatedAt"`
}

type PlaceInput struct {
	ProductID     string `json:"productId"`
	Quantity      int    `json:"quantity"`
	CustomerPhone string `json:"customerPhone"`
	Address       string `json:"address"`
	TransactionID string `json:"transactionId"`
	PaymentMethod string `json:"paymentMethod"`
	Size          string `json:"size"`
}

func (in *PlaceInput) normalize() {
	in.ProductID = strings.TrimSpace(in.ProductID)
	in.CustomerPhone = strings.TrimSpace(in.CustomerPhone)
	in.Address = strings.TrimSpace(in.Address)
	in.TransactionID = strings.TrimSpace(in.TransactionID)
	in.Size = strings.TrimSpace(in.Size)
}

// Placement is the result of a successful checkout.
type Placement struct {
	Order               *Order   `json:"order"`
	PaymentInstructions []string `json:"paymentInstructions"`
}

// Guard vets an order while its row is locked. Returning an error aborts the change.
type Guard func(o *Order) error
