package user

import (
	"context"
	"database/sql"
	"errors"

	"quickcart-be/internal/logger"

	"github.com/lib/pq"
	"go.uber.org/zap"
)

type Repository interface {
	Create(ctx context.Context, u *User) error
	FindByEmail(ctx context.Context, email string) (*User, error)
	UpsertVerified(ctx context.Context, id ProviderIdentity) (*User, error)
	SetCredentials(ctx context.Context, email, passwordHash, token string) error
	MarkVerified(ctx context.Context, email, token string) error
	List(ctx context.Context, excludeEmail string) ([]User, error)
	GetRole(ctx context.Context, email string) (Role, error)
	UpdateRole(ctx context.Context, email string, role Role) error
	UpdateStatus(ctx context.Context, email string, status Status) error
	UpdateProfile(ctx context.Context, email, name, photoURL string) (*User, error)
}

const userColumns = `id, name, email, photo_url, role, status, email_verified, password_hash, verification_token, created_at, updated_at`

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (*User, error) {
	var u User
	err := row.Scan(
		&u.ID, &u.Name, &u.Email, &u.PhotoURL, &u.Role, &u.Status, &u.EmailVerified,
		&u.PasswordHash, &u.VerificationToken, &u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}

func (r *repository) Create(ctx context.Context, u *User) error {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "repository"),
		zap.String("method", "Create"),
		zap.String("email", u.Email),
	)

	err := r.db.QueryRowContext(ctx, `
		INSERT INTO users (name, email, photo_url, role, status, email_verified, password_hash, verification_token)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at, updated_at
	`, u.Name, u.Email, u.PhotoURL, u.Role, u.Status, u.EmailVerified, u.PasswordHash, u.VerificationToken,
	).Scan(&u.ID, &u.CreatedAt, &u.UpdatedAt)

	if err != nil {
		if isUniqueViolation(err) {
			return ErrEmailExists
		}
		log.Error("db: failed to insert user", zap.Error(err))
		return err
	}

	log.Info("user created", zap.String("user_id", u.ID))
	return nil
}

func (r *repository) FindByEmail(ctx context.Context, email string) (*User, error) {
	u, err := scanUser(r.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE email = $1`, email))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrUserNotFound
	}
	return u, err
}

// UpsertVerified records a provider sign-in. A password set on a row that was never
// verified is dropped, since nobody proved ownership of the address when it was set.
func (r *repository) UpsertVerified(ctx context.Context, id ProviderIdentity) (*User, error) {
	u, err := scanUser(r.db.QueryRowContext(ctx, `
		INSERT INTO users (name, email, photo_url, role, email_verified)
		VALUES ($1, $2, $3, 'customer', TRUE)
		ON CONFLICT (email) DO UPDATE
		SET email_verified = TRUE,
			password_hash = CASE WHEN users.email_verified THEN users.password_hash END,
			verification_token = NULL,
			updated_at = NOW()
		RETURNING `+userColumns,
		id.Name, id.Email, id.PhotoURL,
	))
	if err != nil {
		logger.FromCtx(ctx).Error("db: failed to upsert provider user",
			zap.String("email", id.Email), zap.Error(err))
		return nil, err
	}
	return u, nil
}

// SetCredentials attaches a password to an account nobody has verified yet. Verified
// accounts are left alone and reported as ErrEmailExists.
func (r *repository) SetCredentials(ctx context.Context, email, passwordHash, token string) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE users
		SET password_hash = $2, verification_token = $3, updated_at = NOW()
		WHERE email = $1 AND email_verified = FALSE
	`, email, passwordHash, token)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrEmailExists
	}
	return nil
}

func (r *repository) MarkVerified(ctx context.Context, email, token string) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE users
		SET email_verified = TRUE, verification_token = NULL, updated_at = NOW()
		WHERE email = $1 AND verification_token = $2
	`, email, token)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrInvalidVerificationToken
	}
	return nil
}

func (r *repository) List(ctx context.Context, excludeEmail string) ([]User, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE email <> $1 ORDER BY created_at DESC`, excludeEmail)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := []User{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, *u)
	}
	return users, rows.Err()
}

func (r *repository) GetRole(ctx context.Context, email string) (Role, error) {
	var role Role
	err := r.db.QueryRowContext(ctx, `SELECT role FROM users WHERE email = $1`, email).Scan(&role)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrUserNotFound
	}
	return role, err
}

func (r *repository) UpdateRole(ctx context.Context, email string, role Role) error {
	return r.execOne(ctx, `
		UPDATE users SET role = $2, status = 'Verified', updated_at = NOW()
		WHERE email = $1
	`, email, role)
}

func (r *repository) UpdateStatus(ctx context.Context, email string, status Status) error {
	return r.execOne(ctx, `
		UPDATE users SET status = $2, updated_at = NOW()
		WHERE email = $1
	`, email, status)
}

func (r *repository) UpdateProfile(ctx context.Context, email, name, photoURL string) (*User, error) {
	u, err := scanUser(r.db.QueryRowContext(ctx, `
		UPDATE users
		SET name = COALESCE(NULLIF($2, ''), name),
			photo_url = COALESCE(NULLIF($3, ''), photo_url),
			updated_at = NOW()
		WHERE email = $1
		RETURNING `+userColumns,
		email, name, photoURL,
	))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrUserNotFound
	}
	return u, err
}

func (r *repository) execOne(ctx context.Context, query string, args ...any) error {
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrUserNotFound
	}
	return nil
}
