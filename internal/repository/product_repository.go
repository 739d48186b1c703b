package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"storefront/internal/domain"
)

var (
	ErrProductNotFound = errors.New("product not found")
)

// RelatedLimit caps the "you might like" list
const RelatedLimit = 8

// ProductRepository defines the interface for product data access
type ProductRepository interface {
	Create(ctx context.Context, product *domain.Product) error
	Update(ctx context.Context, product *domain.Product) error
	Delete(ctx context.Context, id int64) error
	FindByID(ctx context.Context, id int64) (*domain.Product, error)
	ListSummaries(ctx context.Context, scope domain.ProductScope) ([]domain.ProductSummary, error)
	Related(ctx context.Context, name string) ([]domain.RelatedProduct, error)
}

type productRepository struct {
	db *sql.DB
}

// NewProductRepository creates a new instance of ProductRepository
func NewProductRepository(db *sql.DB) ProductRepository {
	return &productRepository{db: db}
}

const productColumns = `id, name, description, price, old_price, discount_percentage, priority,
	top_sale, limited_edition, color, category_id, subcategory_id,
	cbd_content_mg, thc_content_mg, potency, stock, created_at, updated_at`

func scanProduct(row scanner, p *domain.Product) error {
	return row.Scan(
		&p.ID,
		&p.Name,
		&p.Description,
		&p.Price,
		&p.OldPrice,
		&p.DiscountPercentage,
		&p.Priority,
		&p.TopSale,
		&p.LimitedEdition,
		&p.Color,
		&p.CategoryID,
		&p.SubcategoryID,
		&p.CBDContentMg,
		&p.THCContentMg,
		&p.Potency,
		&p.Stock,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
}

// Create inserts the product with its gallery and color variants in one transaction
func (r *productRepository) Create(ctx context.Context, product *domain.Product) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := `
		INSERT INTO products (name, description, price, old_price, discount_percentage, priority,
			top_sale, limited_edition, color, category_id, subcategory_id,
			cbd_content_mg, thc_content_mg, potency, stock)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		RETURNING id, created_at, updated_at
	`

	err = tx.QueryRowContext(
		ctx,
		query,
		product.Name,
		product.Description,
		product.Price,
		product.OldPrice,
		product.DiscountPercentage,
		product.Priority,
		product.TopSale,
		product.LimitedEdition,
		product.Color,
		product.CategoryID,
		product.SubcategoryID,
		product.CBDContentMg,
		product.THCContentMg,
		product.Potency,
		product.Stock,
	).Scan(&product.ID, &product.CreatedAt, &product.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create product: %w", err)
	}

	if err := insertMedia(ctx, tx, product); err != nil {
		return err
	}
	if err := insertColors(ctx, tx, product); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit product: %w", err)
	}
	return nil
}

// Update rewrites the product and replaces its gallery and color variants
func (r *productRepository) Update(ctx context.Context, product *domain.Product) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := `
		UPDATE products
		SET name = $2, description = $3, price = $4, old_price = $5, discount_percentage = $6,
		    priority = $7, top_sale = $8, limited_edition = $9, color = $10, category_id = $11,
		    subcategory_id = $12, cbd_content_mg = $13, thc_content_mg = $14, potency = $15, stock = $16
		WHERE id = $1
		RETURNING updated_at
	`

	err = tx.QueryRowContext(
		ctx,
		query,
		product.ID,
		product.Name,
		product.Description,
		product.Price,
		product.OldPrice,
		product.DiscountPercentage,
		product.Priority,
		product.TopSale,
		product.LimitedEdition,
		product.Color,
		product.CategoryID,
		product.SubcategoryID,
		product.CBDContentMg,
		product.THCContentMg,
		product.Potency,
		product.Stock,
	).Scan(&product.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrProductNotFound
		}
		return fmt.Errorf("failed to update product: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM product_media WHERE product_id = $1`, product.ID); err != nil {
		return fmt.Errorf("failed to clear product media: %w", err)
	}
	if err := insertMedia(ctx, tx, product); err != nil {
		return err
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM product_colors WHERE product_id = $1`, product.ID); err != nil {
		return fmt.Errorf("failed to clear product colors: %w", err)
	}
	if err := insertColors(ctx, tx, product); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit product: %w", err)
	}
	return nil
}

func insertMedia(ctx context.Context, tx *sql.Tx, product *domain.Product) error {
	for i := range product.Media {
		m := &product.Media[i]
		err := tx.QueryRowContext(
			ctx,
			`INSERT INTO product_media (product_id, url, type, position) VALUES ($1, $2, $3, $4) RETURNING id`,
			product.ID, m.URL, m.Type, i,
		).Scan(&m.ID)
		if err != nil {
			return fmt.Errorf("failed to insert product media: %w", err)
		}
	}
	return nil
}

func insertColors(ctx context.Context, tx *sql.Tx, product *domain.Product) error {
	for i := range product.Colors {
		c := &product.Colors[i]
		err := tx.QueryRowContext(
			ctx,
			`INSERT INTO product_colors (product_id, label, hex) VALUES ($1, $2, $3) RETURNING id`,
			product.ID, c.Label, c.Hex,
		).Scan(&c.ID)
		if err != nil {
			return fmt.Errorf("failed to insert product color: %w", err)
		}
	}
	return nil
}

// Delete removes a product; media and colors cascade
func (r *productRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return ErrProductNotFound
	}

	return nil
}

// FindByID retrieves a product with its gallery and color variants
func (r *productRepository) FindByID(ctx context.Context, id int64) (*domain.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE id = $1`

	product := &domain.Product{}
	if err := scanProduct(r.db.QueryRowContext(ctx, query, id), product); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to find product by ID: %w", err)
	}

	media, err := r.listMedia(ctx, id)
	if err != nil {
		return nil, err
	}
	product.Media = media

	colors, err := r.listColors(ctx, id)
	if err != nil {
		return nil, err
	}
	product.Colors = colors

	return product, nil
}

func (r *productRepository) listMedia(ctx context.Context, productID int64) ([]domain.ProductMedia, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, url, type FROM product_media WHERE product_id = $1 ORDER BY position, id`,
		productID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list product media: %w", err)
	}
	defer rows.Close()

	media := []domain.ProductMedia{}
	for rows.Next() {
		var m domain.ProductMedia
		if err := rows.Scan(&m.ID, &m.URL, &m.Type); err != nil {
			return nil, fmt.Errorf("failed to scan product media: %w", err)
		}
		media = append(media, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating product media: %w", err)
	}
	return media, nil
}

func (r *productRepository) listColors(ctx context.Context, productID int64) ([]domain.ProductColor, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, label, hex FROM product_colors WHERE product_id = $1 ORDER BY created_at, id`,
		productID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list product colors: %w", err)
	}
	defer rows.Close()

	colors := []domain.ProductColor{}
	for rows.Next() {
		var c domain.ProductColor
		if err := rows.Scan(&c.ID, &c.Label, &c.Hex); err != nil {
			return nil, fmt.Errorf("failed to scan product color: %w", err)
		}
		colors = append(colors, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating product colors: %w", err)
	}
	return colors, nil
}

// ListSummaries retrieves the listing projection of every product in scope,
// highest priority and newest first
func (r *productRepository) ListSummaries(ctx context.Context, scope domain.ProductScope) ([]domain.ProductSummary, error) {
	conditions := []string{}
	args := []interface{}{}
	argIndex := 1

	switch {
	case scope.SubcategoryName != "":
		conditions = append(conditions, fmt.Sprintf("LOWER(s.name) = LOWER($%d)", argIndex))
		args = append(args, strings.TrimSpace(scope.SubcategoryName))
		argIndex++
	case scope.CategoryName != "":
		conditions = append(conditions, fmt.Sprintf("LOWER(c.name) = LOWER($%d)", argIndex))
		args = append(args, strings.TrimSpace(scope.CategoryName))
		argIndex++
	}
	if scope.TopSale {
		conditions = append(conditions, "p.top_sale = TRUE")
	}
	if scope.LimitedEdition {
		conditions = append(conditions, "p.limited_edition = TRUE")
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = "WHERE " + strings.Join(conditions, " AND ")
	}

	query := fmt.Sprintf(`
		SELECT p.id, p.name, p.price, p.discount_percentage, p.color, m.url, m.type
		FROM products p
		JOIN categories c ON c.id = p.category_id
		LEFT JOIN subcategories s ON s.id = p.subcategory_id
		LEFT JOIN LATERAL (
			SELECT url, type FROM product_media
			WHERE product_id = p.id
			ORDER BY position, id
			LIMIT 1
		) m ON TRUE
		%s
		ORDER BY p.priority DESC, p.created_at DESC, p.id DESC
	`, whereClause)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	defer rows.Close()

	products := []domain.ProductSummary{}
	for rows.Next() {
		var (
			p         domain.ProductSummary
			mediaURL  sql.NullString
			mediaType sql.NullString
		)
		if err := rows.Scan(&p.ID, &p.Name, &p.Price, &p.DiscountPercentage, &p.Color, &mediaURL, &mediaType); err != nil {
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		if mediaURL.Valid {
			p.FirstMedia = &domain.MediaRef{URL: mediaURL.String, Type: domain.MediaType(mediaType.String)}
		}
		products = append(products, p)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating products: %w", err)
	}

	return products, nil
}

// Related finds up to RelatedLimit products whose name contains name,
// each with its oldest color variant
func (r *productRepository) Related(ctx context.Context, name string) ([]domain.RelatedProduct, error) {
	query := `
		SELECT p.id, p.name, c.id, c.label, c.hex
		FROM products p
		LEFT JOIN LATERAL (
			SELECT id, label, hex FROM product_colors
			WHERE product_id = p.id
			ORDER BY created_at, id
			LIMIT 1
		) c ON TRUE
		WHERE p.name ILIKE $1
		ORDER BY p.priority DESC, p.created_at DESC
		LIMIT $2
	`

	rows, err := r.db.QueryContext(ctx, query, "%"+strings.TrimSpace(name)+"%", RelatedLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to find related products: %w", err)
	}
	defer rows.Close()

	related := []domain.RelatedProduct{}
	for rows.Next() {
		var (
			p       domain.RelatedProduct
			colorID sql.NullInt64
			label   sql.NullString
			hex     *string
		)
		if err := rows.Scan(&p.ID, &p.Name, &colorID, &label, &hex); err != nil {
			return nil, fmt.Errorf("failed to scan related product: %w", err)
		}
		if colorID.Valid {
			p.FirstColor = &domain.ProductColor{ID: colorID.Int64, Label: label.String, Hex: hex}
		}
		related = append(related, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating related products: %w", err)
	}
	return related, nil
}
