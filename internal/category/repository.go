package category

import (
	"context"
	"database/sql"

	"quickcart-be/internal/logger"

	"go.uber.org/zap"
)

type Repository interface {
	GetCategories(ctx context.Context) ([]Category, error)
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

// GetCategories derives categories from the catalog; there is no category table.
func (r *repository) GetCategories(ctx context.Context) ([]Category, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "repository"),
		zap.String("method", "GetCategories"),
	)

	rows, err := r.db.QueryContext(ctx, `
		SELECT category, COUNT(*), COUNT(*) FILTER (WHERE quantity > 0)
		FROM products
		WHERE category <> ''
		GROUP BY category
		ORDER BY category
	`)
	if err != nil {
		log.Error("failed to query categories", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	categories := []Category{}
	for rows.Next() {
		var c Category
		if err := rows.Scan(&c.Name, &c.ProductCount, &c.InStock); err != nil {
			log.Error("failed to scan category row", zap.Error(err))
			return nil, err
		}
		categories = append(categories, c)
	}

	if err := rows.Err(); err != nil {
		log.Error("rows iteration error", zap.Error(err))
		return nil, err
	}
	return categories, nil
}
