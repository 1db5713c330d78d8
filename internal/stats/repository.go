package stats

import (
	"context"
	"database/sql"
	"time"

	"quickcart-be/internal/logger"

	"go.uber.org/zap"
)

type Repository interface {
	CountUsers(ctx context.Context) (int64, error)
	CountProducts(ctx context.Context) (int64, error)
	OrdersSince(ctx context.Context, since time.Time) ([]OrderSummary, error)
	SellerOrders(ctx context.Context, sellerEmail string) ([]OrderSummary, error)
}

const summarySelect = `
	SELECT id, total_price, seller_email, customer_name, status, created_at
	FROM orders`

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

func (r *repository) count(ctx context.Context, query string) (int64, error) {
	var n int64
	if err := r.db.QueryRowContext(ctx, query).Scan(&n); err != nil {
		logger.FromCtx(ctx).Error("db: count failed",
			zap.String("layer", "repository"),
			zap.Error(err),
		)
		return 0, err
	}
	return n, nil
}

func (r *repository) CountUsers(ctx context.Context) (int64, error) {
	return r.count(ctx, `SELECT COUNT(*) FROM users`)
}

func (r *repository) CountProducts(ctx context.Context) (int64, error) {
	return r.count(ctx, `SELECT COUNT(*) FROM products`)
}

func (r *repository) OrdersSince(ctx context.Context, since time.Time) ([]OrderSummary, error) {
	rows, err := r.db.QueryContext(ctx, summarySelect+`
		WHERE created_at >= $1
		ORDER BY created_at ASC`, since)
	if err != nil {
		return nil, err
	}
	return scanSummaries(rows)
}

// SellerOrders lists the seller's orders that were not canceled, oldest first for charting.
func (r *repository) SellerOrders(ctx context.Context, sellerEmail string) ([]OrderSummary, error) {
	rows, err := r.db.QueryContext(ctx, summarySelect+`
		WHERE seller_email = $1 AND status <> 'canceled'
		ORDER BY created_at ASC`, sellerEmail)
	if err != nil {
		return nil, err
	}
	return scanSummaries(rows)
}

func scanSummaries(rows *sql.Rows) ([]OrderSummary, error) {
	defer rows.Close()

	out := []OrderSummary{}
	for rows.Next() {
		var o OrderSummary
		if err := rows.Scan(&o.ID, &o.Price, &o.Seller, &o.CustomerName, &o.Status, &o.OrderDate); err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	return out, rows.Err()
}
