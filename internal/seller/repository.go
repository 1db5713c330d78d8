package seller

import (
	"context"
	"database/sql"
	"errors"

	"quickcart-be/internal/logger"

	"github.com/lib/pq"
	"go.uber.org/zap"
)

type Repository interface {
	Apply(ctx context.Context, s *Seller) error
	List(ctx context.Context) ([]Seller, error)
	GetByID(ctx context.Context, id string) (*Seller, error)
	Delete(ctx context.Context, id string) error
}

// The role is joined from users so the admin sees whether the applicant was already promoted.
const sellerSelect = `
	SELECT s.id, s.name, s.email, s.phone, s.nid_front, s.nid_back, s.photo,
		COALESCE(u.role, ''), s.created_at
	FROM sellers s
	LEFT JOIN users u ON u.email = s.email`

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSeller(row rowScanner) (*Seller, error) {
	var s Seller
	err := row.Scan(&s.ID, &s.Name, &s.Email, &s.Phone, &s.NIDFront, &s.NIDBack, &s.Photo, &s.Role, &s.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// Apply stores the application and marks the user as Requested in one transaction.
func (r *repository) Apply(ctx context.Context, s *Seller) error {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "repository"),
		zap.String("method", "Apply"),
		zap.String("email", s.Email),
	)

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var role string
	err = tx.QueryRowContext(ctx, `SELECT role FROM users WHERE email = $1 FOR UPDATE`, s.Email).Scan(&role)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrUserNotFound
	}
	if err != nil {
		return err
	}
	if role != "customer" {
		return ErrAlreadySeller
	}

	err = tx.QueryRowContext(ctx, `
		INSERT INTO sellers (name, email, phone, nid_front, nid_back, photo)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at
	`, s.Name, s.Email, s.Phone, s.NIDFront, s.NIDBack, s.Photo).Scan(&s.ID, &s.CreatedAt)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return ErrAlreadyApplied
		}
		log.Error("db: failed to insert seller", zap.Error(err))
		return err
	}

	if _, err := tx.ExecContext(ctx, `
		UPDATE users SET status = 'Requested', updated_at = NOW() WHERE email = $1
	`, s.Email); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return err
	}
	s.Role = role
	log.Info("seller application stored", zap.String("seller_id", s.ID))
	return nil
}

func (r *repository) List(ctx context.Context) ([]Seller, error) {
	rows, err := r.db.QueryContext(ctx, sellerSelect+` ORDER BY s.created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	sellers := []Seller{}
	for rows.Next() {
		s, err := scanSeller(rows)
		if err != nil {
			return nil, err
		}
		sellers = append(sellers, *s)
	}
	return sellers, rows.Err()
}

func (r *repository) GetByID(ctx context.Context, id string) (*Seller, error) {
	s, err := scanSeller(r.db.QueryRowContext(ctx, sellerSelect+` WHERE s.id = $1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrSellerNotFound
	}
	return s, err
}

// Delete drops the application. A user still waiting on it goes back to no status.
func (r *repository) Delete(ctx context.Context, id string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var email string
	err = tx.QueryRowContext(ctx, `DELETE FROM sellers WHERE id = $1 RETURNING email`, id).Scan(&email)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrSellerNotFound
	}
	if err != nil {
		return err
	}

	if _, err := tx.ExecContext(ctx, `
		UPDATE users SET status = '', updated_at = NOW()
		WHERE email = $1 AND status = 'Requested'
	`, email); err != nil {
		return err
	}

	return tx.Commit()
}
