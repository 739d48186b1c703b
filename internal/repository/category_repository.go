package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"storefront/internal/domain"
)

var (
	ErrCategoryNotFound      = errors.New("category not found")
	ErrCategoryAlreadyExists = errors.New("category with this name already exists")
	ErrSubcategoryNotFound   = errors.New("subcategory not found")
)

// CategoryRepository defines the interface for category data access
type CategoryRepository interface {
	Create(ctx context.Context, category *domain.Category) error
	Update(ctx context.Context, category *domain.Category) error
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context) ([]*domain.Category, error)
	FindByID(ctx context.Context, id int64) (*domain.Category, error)

	CreateSubcategory(ctx context.Context, sub *domain.Subcategory) error
	UpdateSubcategory(ctx context.Context, sub *domain.Subcategory) error
	DeleteSubcategory(ctx context.Context, id int64) error
	FindSubcategory(ctx context.Context, id int64) (*domain.Subcategory, error)
	ListSubcategories(ctx context.Context, categoryID int64) ([]domain.Subcategory, error)
}

type categoryRepository struct {
	db *sql.DB
}

// NewCategoryRepository creates a new instance of CategoryRepository
func NewCategoryRepository(db *sql.DB) CategoryRepository {
	return &categoryRepository{db: db}
}

// Create inserts a new category
func (r *categoryRepository) Create(ctx context.Context, category *domain.Category) error {
	query := `
		INSERT INTO categories (name, priority)
		VALUES ($1, $2)
		RETURNING id, created_at
	`

	err := r.db.QueryRowContext(ctx, query, category.Name, category.Priority).
		Scan(&category.ID, &category.CreatedAt)
	if err != nil {
		if isUniqueViolation(err, "categories_name_key") {
			return ErrCategoryAlreadyExists
		}
		return fmt.Errorf("failed to create category: %w", err)
	}

	if category.Subcategories == nil {
		category.Subcategories = []domain.Subcategory{}
	}
	return nil
}

// Update renames or re-prioritizes a category
func (r *categoryRepository) Update(ctx context.Context, category *domain.Category) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE categories SET name = $2, priority = $3 WHERE id = $1`,
		category.ID, category.Name, category.Priority,
	)
	if err != nil {
		if isUniqueViolation(err, "categories_name_key") {
			return ErrCategoryAlreadyExists
		}
		return fmt.Errorf("failed to update category: %w", err)
	}
	return expectOneRow(result, ErrCategoryNotFound)
}

// Delete removes a category with its subcategories and products
func (r *categoryRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM categories WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete category: %w", err)
	}
	return expectOneRow(result, ErrCategoryNotFound)
}

// List retrieves all categories with their subcategories preloaded
func (r *categoryRepository) List(ctx context.Context) ([]*domain.Category, error) {
	query := `
		SELECT id, name, priority, created_at
		FROM categories
		ORDER BY priority DESC, name ASC
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	defer rows.Close()

	categories := []*domain.Category{}
	byID := map[int64]*domain.Category{}
	for rows.Next() {
		category := &domain.Category{Subcategories: []domain.Subcategory{}}
		err := rows.Scan(
			&category.ID,
			&category.Name,
			&category.Priority,
			&category.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan category: %w", err)
		}
		categories = append(categories, category)
		byID[category.ID] = category
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating categories: %w", err)
	}

	subRows, err := r.db.QueryContext(ctx, `
		SELECT id, name, parent_category_id, created_at
		FROM subcategories
		ORDER BY name ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list subcategories: %w", err)
	}
	defer subRows.Close()

	for subRows.Next() {
		var sub domain.Subcategory
		if err := scanSubcategory(subRows, &sub); err != nil {
			return nil, err
		}
		if parent, ok := byID[sub.ParentCategoryID]; ok {
			parent.Subcategories = append(parent.Subcategories, sub)
		}
	}
	if err := subRows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating subcategories: %w", err)
	}

	return categories, nil
}

// FindByID retrieves a category with its subcategories
func (r *categoryRepository) FindByID(ctx context.Context, id int64) (*domain.Category, error) {
	query := `
		SELECT id, name, priority, created_at
		FROM categories
		WHERE id = $1
	`

	category := &domain.Category{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&category.ID,
		&category.Name,
		&category.Priority,
		&category.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrCategoryNotFound
		}
		return nil, fmt.Errorf("failed to find category by ID: %w", err)
	}

	subs, err := r.ListSubcategories(ctx, id)
	if err != nil {
		return nil, err
	}
	category.Subcategories = subs

	return category, nil
}

// CreateSubcategory inserts a subcategory under an existing category
func (r *categoryRepository) CreateSubcategory(ctx context.Context, sub *domain.Subcategory) error {
	err := r.db.QueryRowContext(ctx,
		`INSERT INTO subcategories (name, parent_category_id) VALUES ($1, $2) RETURNING id, created_at`,
		sub.Name, sub.ParentCategoryID,
	).Scan(&sub.ID, &sub.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create subcategory: %w", err)
	}
	return nil
}

// UpdateSubcategory renames or moves a subcategory
func (r *categoryRepository) UpdateSubcategory(ctx context.Context, sub *domain.Subcategory) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE subcategories SET name = $2, parent_category_id = $3 WHERE id = $1`,
		sub.ID, sub.Name, sub.ParentCategoryID,
	)
	if err != nil {
		return fmt.Errorf("failed to update subcategory: %w", err)
	}
	return expectOneRow(result, ErrSubcategoryNotFound)
}

// DeleteSubcategory removes a subcategory; its products fall back to the parent category
func (r *categoryRepository) DeleteSubcategory(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM subcategories WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete subcategory: %w", err)
	}
	return expectOneRow(result, ErrSubcategoryNotFound)
}

// FindSubcategory retrieves a subcategory by ID
func (r *categoryRepository) FindSubcategory(ctx context.Context, id int64) (*domain.Subcategory, error) {
	sub := &domain.Subcategory{}
	err := scanSubcategory(r.db.QueryRowContext(ctx,
		`SELECT id, name, parent_category_id, created_at FROM subcategories WHERE id = $1`, id,
	), sub)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrSubcategoryNotFound
		}
		return nil, err
	}
	return sub, nil
}

// ListSubcategories retrieves the subcategories of one category by name
func (r *categoryRepository) ListSubcategories(ctx context.Context, categoryID int64) ([]domain.Subcategory, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, name, parent_category_id, created_at
		FROM subcategories
		WHERE parent_category_id = $1
		ORDER BY name ASC
	`, categoryID)
	if err != nil {
		return nil, fmt.Errorf("failed to list subcategories: %w", err)
	}
	defer rows.Close()

	subs := []domain.Subcategory{}
	for rows.Next() {
		var sub domain.Subcategory
		if err := scanSubcategory(rows, &sub); err != nil {
			return nil, err
		}
		subs = append(subs, sub)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating subcategories: %w", err)
	}
	return subs, nil
}

func scanSubcategory(row scanner, sub *domain.Subcategory) error {
	err := row.Scan(&sub.ID, &sub.Name, &sub.ParentCategoryID, &sub.CreatedAt)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("failed to scan subcategory: %w", err)
	}
	return err
}

func expectOneRow(result sql.Result, notFound error) error {
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return notFound
	}
	return nil
}
