package order

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"quickcart-be/internal/logger"

	"github.com/lib/pq"
	"go.uber.org/zap"
)

type Repository interface {
	Place(ctx context.Context, o *Order) error
	GetByID(ctx context.Context, id string) (*Order, error)
	ListByCustomer(ctx context.Context, email string) ([]Order, error)
	ListBySeller(ctx context.Context, email string) ([]Order, error)
	Cancel(ctx context.Context, id string, guard Guard) (*Change, error)
	UpdateStatus(ctx context.Context, id string, next Status, guard Guard) (*Change, error)
}

// Change describes what a locked mutation did to an order.
type Change struct {
	Order    *Order
	From     Status
	Restored int
}

const orderColumns = `id, order_number, customer_name, customer_email, customer_photo,
	COALESCE(product_id::text, ''), product_name, product_image, unit_price, quantity,
	delivery_price, total_price, status, address, customer_phone, transaction_id,
	payment_method, size, seller_email, created_at, updated_at`

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanOrder(row rowScanner) (*Order, error) {
	var o Order
	err := row.Scan(
		&o.ID, &o.OrderNumber, &o.CustomerName, &o.CustomerEmail, &o.CustomerPhoto,
		&o.ProductID, &o.ProductName, &o.ProductImage, &o.UnitPrice, &o.Quantity,
		&o.DeliveryPrice, &o.TotalPrice, &o.Status, &o.Address, &o.CustomerPhone,
		&o.TransactionID, &o.PaymentMethod, &o.Size, &o.SellerEmail, &o.CreatedAt, &o.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &o, nil
}

func isOrderNumberConflict(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505" && pqErr.Constraint == "orders_order_number_key"
}

// Place takes the stock and records the order in one transaction.
func (r *repository) Place(ctx context.Context, o *Order) error {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "repository"),
		zap.String("method", "Place"),
		zap.String("product_id", o.ProductID),
		zap.Int("quantity", o.Quantity),
	)

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	// 1. Take stock, only if enough is left
	res, err := tx.ExecContext(ctx, `
		UPDATE products
		SET quantity = quantity - $1, updated_at = NOW()
		WHERE id = $2 AND quantity >= $1
	`, o.Quantity, o.ProductID)
	if err != nil {
		log.Error("failed to take stock", zap.Error(err))
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		log.Info("stock exhausted")
		return ErrInsufficientStock
	}

	// 2. Insert order
	err = tx.QueryRowContext(ctx, `
		INSERT INTO orders (
			order_number, customer_name, customer_email, customer_photo,
			product_id, product_name, product_image, unit_price, quantity,
			delivery_price, total_price, status, address, customer_phone,
			transaction_id, payment_method, size, seller_email
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18)
		RETURNING id, created_at, updated_at
	`,
		o.OrderNumber, o.CustomerName, o.CustomerEmail, o.CustomerPhoto,
		o.ProductID, o.ProductName, o.ProductImage, o.UnitPrice, o.Quantity,
		o.DeliveryPrice, o.TotalPrice, o.Status, o.Address, o.CustomerPhone,
		o.TransactionID, o.PaymentMethod, o.Size, o.SellerEmail,
	).Scan(&o.ID, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		if isOrderNumberConflict(err) {
			return ErrOrderNumberTaken
		}
		log.Error("failed to insert order", zap.Error(err))
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit order: %w", err)
	}
	return nil
}

func (r *repository) GetByID(ctx context.Context, id string) (*Order, error) {
	o, err := scanOrder(r.db.QueryRowContext(ctx,
		`SELECT `+orderColumns+` FROM orders WHERE id = $1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrOrderNotFound
	}
	return o, err
}

func (r *repository) list(ctx context.Context, column, email string) ([]Order, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+orderColumns+` FROM orders WHERE `+column+` = $1 ORDER BY created_at DESC`, email)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	orders := []Order{}
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, *o)
	}
	return orders, rows.Err()
}

func (r *repository) ListByCustomer(ctx context.Context, email string) ([]Order, error) {
	return r.list(ctx, "customer_email", email)
}

func (r *repository) ListBySeller(ctx context.Context, email string) ([]Order, error) {
	return r.list(ctx, "seller_email", email)
}

func lockOrder(ctx context.Context, tx *sql.Tx, id string) (*Order, error) {
	o, err := scanOrder(tx.QueryRowContext(ctx,
		`SELECT `+orderColumns+` FROM orders WHERE id = $1 FOR UPDATE`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrOrderNotFound
	}
	return o, err
}

// restoreStock puts an order's quantity back. Orders whose product was deleted restore nothing.
func restoreStock(ctx context.Context, tx *sql.Tx, o *Order) (int, error) {
	if o.ProductID == "" {
		return 0, nil
	}
	res, err := tx.ExecContext(ctx, `
		UPDATE products
		SET quantity = quantity + $1, updated_at = NOW()
		WHERE id = $2
	`, o.Quantity, o.ProductID)
	if err != nil {
		return 0, err
	}
	if n, err := res.RowsAffected(); err != nil || n == 0 {
		return 0, err
	}
	return o.Quantity, nil
}

// Cancel deletes the order and gives its stock back unless it was already canceled.
func (r *repository) Cancel(ctx context.Context, id string, guard Guard) (*Change, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	o, err := lockOrder(ctx, tx, id)
	if err != nil {
		return nil, err
	}
	if guard != nil {
		if err := guard(o); err != nil {
			return nil, err
		}
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM orders WHERE id = $1`, id); err != nil {
		return nil, err
	}

	restored := 0
	if o.Status.HoldsStock() {
		if restored, err = restoreStock(ctx, tx, o); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit cancel: %w", err)
	}
	return &Change{Order: o, From: o.Status, Restored: restored}, nil
}

// UpdateStatus moves the order along the status machine. Moving to canceled gives the stock back.
func (r *repository) UpdateStatus(ctx context.Context, id string, next Status, guard Guard) (*Change, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	o, err := lockOrder(ctx, tx, id)
	if err != nil {
		return nil, err
	}
	if guard != nil {
		if err := guard(o); err != nil {
			return nil, err
		}
	}

	from := o.Status
	if from == next {
		return &Change{Order: o, From: from}, nil
	}
	if !from.CanTransitionTo(next) {
		return nil, ErrInvalidTransition
	}

	err = tx.QueryRowContext(ctx, `
		UPDATE orders SET status = $2, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at
	`, id, next).Scan(&o.UpdatedAt)
	if err != nil {
		return nil, err
	}
	o.Status = next

	restored := 0
	if next == StatusCanceled {
		if restored, err = restoreStock(ctx, tx, o); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit status change: %w", err)
	}
	return &Change{Order: o, From: from, Restored: restored}, nil
}
