package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"storefront/internal/domain"
)

var (
	ErrColorNotFound      = errors.New("color not found")
	ErrColorAlreadyExists = errors.New("color already exists")
)

// ColorRepository defines the interface for the global color vocabulary
type ColorRepository interface {
	Create(ctx context.Context, color *domain.Color) error
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context) ([]domain.Color, error)
	ListLabels(ctx context.Context) ([]string, error)
}

type colorRepository struct {
	db *sql.DB
}

// NewColorRepository creates a new instance of ColorRepository
func NewColorRepository(db *sql.DB) ColorRepository {
	return &colorRepository{db: db}
}

// Create registers a new color label
func (r *colorRepository) Create(ctx context.Context, color *domain.Color) error {
	err := r.db.QueryRowContext(ctx,
		`INSERT INTO colors (color) VALUES ($1) RETURNING id`,
		color.Color,
	).Scan(&color.ID)
	if err != nil {
		if isUniqueViolation(err, "") {
			return ErrColorAlreadyExists
		}
		return fmt.Errorf("failed to create color: %w", err)
	}
	return nil
}

// Delete removes a color label
func (r *colorRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM colors WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete color: %w", err)
	}
	return expectOneRow(result, ErrColorNotFound)
}

// List retrieves every color ordered by label
func (r *colorRepository) List(ctx context.Context) ([]domain.Color, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, color FROM colors ORDER BY color ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list colors: %w", err)
	}
	defer rows.Close()

	colors := []domain.Color{}
	for rows.Next() {
		var c domain.Color
		if err := rows.Scan(&c.ID, &c.Color); err != nil {
			return nil, fmt.Errorf("failed to scan color: %w", err)
		}
		colors = append(colors, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating colors: %w", err)
	}
	return colors, nil
}

// ListLabels retrieves the bare color labels offered as filter options
func (r *colorRepository) ListLabels(ctx context.Context) ([]string, error) {
	colors, err := r.List(ctx)
	if err != nil {
		return nil, err
	}

	labels := make([]string, 0, len(colors))
	for _, c := range colors {
		labels = append(labels, c.Color)
	}
	return labels, nil
}
