package review

import (
	"context"
	"database/sql"
	"errors"

	"quickcart-be/internal/logger"

	"go.uber.org/zap"
)

type Repository interface {
	Create(ctx context.Context, r *Review) error
	GetByID(ctx context.Context, id string) (*Review, error)
	Latest(ctx context.Context, limit int) ([]Review, error)
	ListByProduct(ctx context.Context, productID string) ([]Review, error)
	Update(ctx context.Context, r *Review) error
	Delete(ctx context.Context, id string) error
}

const reviewColumns = `id, product_id, author_name, author_email, author_photo, rating, body,
	photo_url, created_at, updated_at`

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanReview(row rowScanner) (*Review, error) {
	var r Review
	err := row.Scan(
		&r.ID, &r.ProductID, &r.AuthorName, &r.AuthorEmail, &r.AuthorPhoto, &r.Rating,
		&r.Body, &r.PhotoURL, &r.CreatedAt, &r.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &r, nil
}

func scanReviews(rows *sql.Rows) ([]Review, error) {
	defer rows.Close()

	reviews := []Review{}
	for rows.Next() {
		r, err := scanReview(rows)
		if err != nil {
			return nil, err
		}
		reviews = append(reviews, *r)
	}
	return reviews, rows.Err()
}

// Create inserts the review if its product still exists.
func (r *repository) Create(ctx context.Context, rv *Review) error {
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO reviews (product_id, author_name, author_email, author_photo, rating, body, photo_url)
		SELECT p.id, $2, $3, $4, $5, $6, $7 FROM products p WHERE p.id = $1
		RETURNING id, created_at, updated_at
	`,
		rv.ProductID, rv.AuthorName, rv.AuthorEmail, rv.AuthorPhoto, rv.Rating, rv.Body, rv.PhotoURL,
	).Scan(&rv.ID, &rv.CreatedAt, &rv.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrProductNotFound
	}
	if err != nil {
		logger.FromCtx(ctx).Error("db: failed to insert review",
			zap.String("layer", "repository"),
			zap.Error(err),
		)
		return err
	}
	return nil
}

func (r *repository) GetByID(ctx context.Context, id string) (*Review, error) {
	rv, err := scanReview(r.db.QueryRowContext(ctx,
		"SELECT "+reviewColumns+" FROM reviews WHERE id = $1", id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrReviewNotFound
	}
	return rv, err
}

func (r *repository) Latest(ctx context.Context, limit int) ([]Review, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT "+reviewColumns+" FROM reviews ORDER BY created_at DESC LIMIT $1", limit)
	if err != nil {
		return nil, err
	}
	return scanReviews(rows)
}

func (r *repository) ListByProduct(ctx context.Context, productID string) ([]Review, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT "+reviewColumns+" FROM reviews WHERE product_id = $1 ORDER BY created_at DESC", productID)
	if err != nil {
		return nil, err
	}
	return scanReviews(rows)
}

func (r *repository) Update(ctx context.Context, rv *Review) error {
	err := r.db.QueryRowContext(ctx, `
		UPDATE reviews SET body = $2, rating = $3, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at
	`, rv.ID, rv.Body, rv.Rating).Scan(&rv.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrReviewNotFound
	}
	return err
}

func (r *repository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM reviews WHERE id = $1`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrReviewNotFound
	}
	return nil
}
