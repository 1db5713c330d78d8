package stats

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderSummary is one order line on a dashboard chart or table.
type OrderSummary struct {
	ID           string          `json:"_id"`
	Price        decimal.Decimal `json:"price"`
	Seller       string          `json:"seller"`
	CustomerName string          `json:"customerName"`
	Status       string          `json:"status"`
	OrderDate    time.Time       `json:"orderDate"`
}

type AdminStats struct {
	TotalUsers    int64          `json:"totalUsers"`
	TotalProducts int64          `json:"totalProducts"`
	TodayOrders   []OrderSummary `json:"todayOrders"`
}

type SellerStats struct {
	TotalOrders int64           `json:"totalOrders"`
	TotalPrice  decimal.Decimal `json:"totalPrice"`
	Orders      []OrderSummary  `json:"orders"`
}
