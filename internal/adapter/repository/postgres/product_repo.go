package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/hassanafridi/med-rep-sub001/internal/domain"
)

// ProductRepository implements usecase.ProductRepository.
type ProductRepository struct {
	pool *pgxpool.Pool
}

// NewProductRepository creates a new ProductRepository.
func NewProductRepository(pool *pgxpool.Pool) *ProductRepository {
	return &ProductRepository{pool: pool}
}

const productColumns = `id, name, description, unit_price, retail_price, batch_number, expiry, legacy_id, created_at`

// Create creates a new product lot.
func (r *ProductRepository) Create(ctx context.Context, product *domain.Product) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO products (id, name, description, unit_price, retail_price, batch_number, expiry, legacy_id, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, NULLIF($8, ''), $9)`,
		product.ID,
		product.Name,
		product.Description,
		decimalToNumeric(product.UnitPrice),
		decimalToNumeric(product.RetailPrice),
		product.BatchNumber,
		product.Expiry,
		product.LegacyID,
		timeToPgTimestamptz(product.CreatedAt),
	)

	return err
}

// GetByID retrieves a product by ID.
func (r *ProductRepository) GetByID(ctx context.Context, id string) (*domain.Product, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+productColumns+` FROM products WHERE id = $1`, id)

	return scanProduct(row)
}

// GetByLegacyID retrieves a product by its source-store id.
func (r *ProductRepository) GetByLegacyID(ctx context.Context, legacyID string) (*domain.Product, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+productColumns+` FROM products WHERE legacy_id = $1`, legacyID)

	return scanProduct(row)
}

// GetByName retrieves a product by exact name. With several lots of the
// same name the oldest wins.
func (r *ProductRepository) GetByName(ctx context.Context, name string) (*domain.Product, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+productColumns+` FROM products WHERE name = $1 ORDER BY created_at LIMIT 1`, name)

	return scanProduct(row)
}

// Update replaces the product's mutable fields and reports whether any
// column actually changed.
func (r *ProductRepository) Update(ctx context.Context, product *domain.Product) (bool, error) {
	tag, err := r.pool.Exec(ctx,
		`UPDATE products
		 SET name = $2, description = $3, unit_price = $4, retail_price = $5, batch_number = $6, expiry = $7
		 WHERE id = $1
		   AND (name, description, unit_price, retail_price, batch_number, expiry)
		       IS DISTINCT FROM ($2, $3, $4, $5, $6, $7)`,
		product.ID,
		product.Name,
		product.Description,
		decimalToNumeric(product.UnitPrice),
		decimalToNumeric(product.RetailPrice),
		product.BatchNumber,
		product.Expiry,
	)
	if err != nil {
		return false, err
	}

	if tag.RowsAffected() == 0 {
		var exists bool
		if err := r.pool.QueryRow(ctx,
			`SELECT EXISTS (SELECT 1 FROM products WHERE id = $1)`, product.ID).Scan(&exists); err != nil {
			return false, err
		}

		if !exists {
			return false, domain.ErrProductNotFound
		}

		return false, nil
	}

	return true, nil
}

// Delete deletes a product lot.
func (r *ProductRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return err
	}

	if tag.RowsAffected() == 0 {
		return domain.ErrProductNotFound
	}

	return nil
}

// List lists product lots with pagination, oldest first.
func (r *ProductRepository) List(ctx context.Context, limit, offset int) ([]*domain.Product, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+productColumns+` FROM products ORDER BY created_at, id LIMIT $1 OFFSET $2`,
		limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var products []*domain.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}

		products = append(products, p)
	}

	return products, rows.Err()
}

// Count returns the total number of product lots.
func (r *ProductRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM products`).Scan(&count)

	return count, err
}

func scanProduct(row pgx.Row) (*domain.Product, error) {
	var (
		p         domain.Product
		unitPrice pgtype.Numeric
		retail    pgtype.Numeric
		legacyID  *string
	)

	err := row.Scan(&p.ID, &p.Name, &p.Description, &unitPrice, &retail, &p.BatchNumber, &p.Expiry, &legacyID, &p.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrProductNotFound
		}

		return nil, err
	}

	p.UnitPrice = numericToDecimal(unitPrice)
	p.RetailPrice = numericToDecimal(retail)

	if legacyID != nil {
		p.LegacyID = *legacyID
	}

	return &p, nil
}
