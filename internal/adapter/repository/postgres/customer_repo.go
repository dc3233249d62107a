package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/hassanafridi/med-rep-sub001/internal/domain"
)

// CustomerRepository implements usecase.CustomerRepository.
type CustomerRepository struct {
	pool *pgxpool.Pool
}

// NewCustomerRepository creates a new CustomerRepository.
func NewCustomerRepository(pool *pgxpool.Pool) *CustomerRepository {
	return &CustomerRepository{pool: pool}
}

const customerColumns = `id, name, contact, address, legacy_id, created_at`

// Create creates a new customer.
func (r *CustomerRepository) Create(ctx context.Context, customer *domain.Customer) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO customers (id, name, contact, address, legacy_id, created_at)
		 VALUES ($1, $2, $3, $4, NULLIF($5, ''), $6)`,
		customer.ID,
		customer.Name,
		customer.Contact,
		customer.Address,
		customer.LegacyID,
		timeToPgTimestamptz(customer.CreatedAt),
	)

	return err
}

// GetByID retrieves a customer by ID.
func (r *CustomerRepository) GetByID(ctx context.Context, id string) (*domain.Customer, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+customerColumns+` FROM customers WHERE id = $1`, id)

	return scanCustomer(row)
}

// GetByLegacyID retrieves a customer by the id it carried in the source
// store it was migrated from.
func (r *CustomerRepository) GetByLegacyID(ctx context.Context, legacyID string) (*domain.Customer, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+customerColumns+` FROM customers WHERE legacy_id = $1`, legacyID)

	return scanCustomer(row)
}

// GetByName retrieves a customer by exact name.
func (r *CustomerRepository) GetByName(ctx context.Context, name string) (*domain.Customer, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+customerColumns+` FROM customers WHERE name = $1 ORDER BY created_at LIMIT 1`, name)

	return scanCustomer(row)
}

// Update replaces the customer's mutable fields and reports whether any
// column actually changed.
func (r *CustomerRepository) Update(ctx context.Context, customer *domain.Customer) (bool, error) {
	tag, err := r.pool.Exec(ctx,
		`UPDATE customers
		 SET name = $2, contact = $3, address = $4
		 WHERE id = $1
		   AND (name, contact, address) IS DISTINCT FROM ($2, $3, $4)`,
		customer.ID,
		customer.Name,
		customer.Contact,
		customer.Address,
	)
	if err != nil {
		return false, err
	}

	if tag.RowsAffected() == 0 {
		// Unchanged row or missing row; disambiguate.
		var exists bool
		if err := r.pool.QueryRow(ctx,
			`SELECT EXISTS (SELECT 1 FROM customers WHERE id = $1)`, customer.ID).Scan(&exists); err != nil {
			return false, err
		}

		if !exists {
			return false, domain.ErrCustomerNotFound
		}

		return false, nil
	}

	return true, nil
}

// Delete deletes a customer.
func (r *CustomerRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM customers WHERE id = $1`, id)
	if err != nil {
		return err
	}

	if tag.RowsAffected() == 0 {
		return domain.ErrCustomerNotFound
	}

	return nil
}

// List lists customers with pagination, oldest first.
func (r *CustomerRepository) List(ctx context.Context, limit, offset int) ([]*domain.Customer, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+customerColumns+` FROM customers ORDER BY created_at, id LIMIT $1 OFFSET $2`,
		limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var customers []*domain.Customer
	for rows.Next() {
		c, err := scanCustomer(rows)
		if err != nil {
			return nil, err
		}

		customers = append(customers, c)
	}

	return customers, rows.Err()
}

// Count returns the total number of customers.
func (r *CustomerRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM customers`).Scan(&count)

	return count, err
}

func scanCustomer(row pgx.Row) (*domain.Customer, error) {
	var (
		c        domain.Customer
		legacyID *string
	)

	err := row.Scan(&c.ID, &c.Name, &c.Contact, &c.Address, &legacyID, &c.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrCustomerNotFound
		}

		return nil, err
	}

	if legacyID != nil {
		c.LegacyID = *legacyID
	}

	return &c, nil
}
