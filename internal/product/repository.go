package product

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"quickcart-be/internal/logger"

	"github.com/lib/pq"
	"go.uber.org/zap"
)

type Repository interface {
	List(ctx context.Context, filter ListFilter) ([]Product, int64, error)
	GetByID(ctx context.Context, id string) (*Product, error)
	ListBySeller(ctx context.Context, sellerEmail string) ([]Product, error)
	Create(ctx context.Context, p *Product) error
	Update(ctx context.Context, p *Product) error
	Delete(ctx context.Context, id string) error
	AdjustQuantity(ctx context.Context, id string, delta int) (int, error)
}

const productColumns = `id, name, image, images, description, price, discount_percentage, quantity,
	category, shop_name, seller_email, seller_name, sizes, delivery_price, bkash_number, nogod_number,
	created_at, updated_at`

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProduct(row rowScanner) (*Product, error) {
	var p Product
	err := row.Scan(
		&p.ID, &p.Name, &p.Image, pq.Array(&p.Images), &p.Description, &p.Price,
		&p.DiscountPercentage, &p.Quantity, &p.Category, &p.ShopName, &p.SellerEmail,
		&p.SellerName, pq.Array(&p.Sizes), &p.DeliveryPrice, &p.BkashNumber, &p.NogodNumber,
		&p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	p.fillDerived()
	return &p, nil
}

func scanProducts(rows *sql.Rows) ([]Product, error) {
	defer rows.Close()

	products := []Product{}
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		products = append(products, *p)
	}
	return products, rows.Err()
}

// likeEscaper makes LIKE wildcards in user input match literally.
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// buildListWhere turns the filter into a WHERE clause and its positional args.
func buildListWhere(f ListFilter) (string, []any) {
	where := " WHERE 1=1"
	args := []any{}
	argIndex := 1

	if f.Search != "" {
		where += fmt.Sprintf(
			` AND (name ILIKE $%d ESCAPE '\' OR category ILIKE $%d ESCAPE '\' OR shop_name ILIKE $%d ESCAPE '\')`,
			argIndex, argIndex, argIndex,
		)
		args = append(args, "%"+likeEscaper.Replace(f.Search)+"%")
		argIndex++
	}

	if f.Category != "" {
		where += fmt.Sprintf(" AND category = $%d", argIndex)
		args = append(args, f.Category)
		argIndex++
	}

	if f.MinPrice != nil {
		where += fmt.Sprintf(" AND price >= $%d", argIndex)
		args = append(args, f.MinPrice.String())
		argIndex++
	}

	if f.MaxPrice != nil {
		where += fmt.Sprintf(" AND price <= $%d", argIndex)
		args = append(args, f.MaxPrice.String())
		argIndex++
	}

	if f.InStock {
		where += " AND quantity > 0"
	}

	return where, args
}

func orderBy(s Sort) string {
	switch s {
	case SortPriceAsc:
		return "price ASC, created_at DESC"
	case SortPriceDesc:
		return "price DESC, created_at DESC"
	default:
		return "created_at DESC"
	}
}

func (r *repository) List(ctx context.Context, f ListFilter) ([]Product, int64, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "repository"),
		zap.String("method", "List"),
		zap.Int("page", f.Page),
		zap.Int("limit", f.Limit),
	)

	where, args := buildListWhere(f)

	var total int64
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM products"+where, args...).Scan(&total); err != nil {
		log.Error("failed to count products", zap.Error(err))
		return nil, 0, err
	}

	offset := (f.Page - 1) * f.Limit
	query := "SELECT " + productColumns + " FROM products" + where +
		" ORDER BY " + orderBy(f.Sort) +
		fmt.Sprintf(" LIMIT $%d OFFSET $%d", len(args)+1, len(args)+2)
	args = append(args, f.Limit, offset)

	log.Debug("executing list products query", zap.String("query", query))

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to query products", zap.Error(err))
		return nil, 0, err
	}

	products, err := scanProducts(rows)
	if err != nil {
		log.Error("failed to scan products", zap.Error(err))
		return nil, 0, err
	}
	return products, total, nil
}

func (r *repository) GetByID(ctx context.Context, id string) (*Product, error) {
	p, err := scanProduct(r.db.QueryRowContext(ctx,
		"SELECT "+productColumns+" FROM products WHERE id = $1", id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrProductNotFound
	}
	return p, err
}

func (r *repository) ListBySeller(ctx context.Context, sellerEmail string) ([]Product, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT "+productColumns+" FROM products WHERE seller_email = $1 ORDER BY created_at DESC", sellerEmail)
	if err != nil {
		return nil, err
	}
	return scanProducts(rows)
}

func (r *repository) Create(ctx context.Context, p *Product) error {
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO products (
			name, image, images, description, price, discount_percentage, quantity,
			category, shop_name, seller_email, seller_name, sizes, delivery_price,
			bkash_number, nogod_number
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15)
		RETURNING id, created_at, updated_at
	`,
		p.Name, p.Image, pq.Array(p.Images), p.Description, p.Price, p.DiscountPercentage,
		p.Quantity, p.Category, p.ShopName, p.SellerEmail, p.SellerName, pq.Array(p.Sizes),
		p.DeliveryPrice, p.BkashNumber, p.NogodNumber,
	).Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		logger.FromCtx(ctx).Error("db: failed to insert product", zap.Error(err))
		return err
	}
	p.fillDerived()
	return nil
}

func (r *repository) Update(ctx context.Context, p *Product) error {
	err := r.db.QueryRowContext(ctx, `
		UPDATE products SET
			name = $2, image = $3, images = $4, description = $5, price = $6,
			discount_percentage = $7, quantity = $8, category = $9, shop_name = $10,
			sizes = $11, delivery_price = $12, bkash_number = $13, nogod_number = $14,
			updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at
	`,
		p.ID, p.Name, p.Image, pq.Array(p.Images), p.Description, p.Price,
		p.DiscountPercentage, p.Quantity, p.Category, p.ShopName, pq.Array(p.Sizes),
		p.DeliveryPrice, p.BkashNumber, p.NogodNumber,
	).Scan(&p.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrProductNotFound
	}
	if err != nil {
		return err
	}
	p.fillDerived()
	return nil
}

// Delete removes a product that no active order references.
func (r *repository) Delete(ctx context.Context, id string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var locked string
	err = tx.QueryRowContext(ctx, `SELECT id FROM products WHERE id = $1 FOR UPDATE`, id).Scan(&locked)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrProductNotFound
	}
	if err != nil {
		return err
	}

	var active int
	err = tx.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM orders
		WHERE product_id = $1 AND status IN ('pending', 'approved', 'processing')
	`, id).Scan(&active)
	if err != nil {
		return err
	}
	if active > 0 {
		return ErrHasActiveOrders
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM products WHERE id = $1`, id); err != nil {
		return err
	}

	return tx.Commit()
}

// AdjustQuantity applies delta to the stock without letting it go negative, and returns the new stock.
func (r *repository) AdjustQuantity(ctx context.Context, id string, delta int) (int, error) {
	var quantity int
	err := r.db.QueryRowContext(ctx, `
		UPDATE products
		SET quantity = quantity + $2, updated_at = NOW()
		WHERE id = $1 AND quantity + $2 >= 0
		RETURNING quantity
	`, id, delta).Scan(&quantity)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, ErrInsufficientStock
	}
	return quantity, err
}
