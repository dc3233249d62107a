package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/hassanafridi/med-rep-sub001/internal/domain"
	"github.com/hassanafridi/med-rep-sub001/internal/usecase"
)

// EntryRepository implements usecase.EntryRepository. The insertion sequence
// is a BIGSERIAL assigned by the database on insert and written back to the
// entry, so same-day ordering is decided once, at creation.
type EntryRepository struct {
	pool *pgxpool.Pool
}

// NewEntryRepository creates a new EntryRepository.
func NewEntryRepository(pool *pgxpool.Pool) *EntryRepository {
	return &EntryRepository{pool: pool}
}

const entryColumns = `id, seq, entry_date, customer_id, product_id, quantity, unit_price, is_credit, notes, legacy_id, created_at`

// Create inserts an entry and writes the assigned sequence back.
func (r *EntryRepository) Create(ctx context.Context, tx usecase.Transaction, entry *domain.Entry) error {
	err := queryer(r.pool, tx).QueryRow(ctx,
		`INSERT INTO entries (id, entry_date, customer_id, product_id, quantity, unit_price, is_credit, notes, legacy_id, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NULLIF($9, ''), $10)
		 RETURNING seq`,
		entry.ID,
		dateToPgDate(entry.Date),
		entry.CustomerID,
		entry.ProductID,
		entry.Quantity,
		decimalToNumeric(entry.UnitPrice),
		entry.IsCredit,
		entry.Notes,
		entry.LegacyID,
		timeToPgTimestamptz(entry.CreatedAt),
	).Scan(&entry.Seq)
	if err != nil {
		return fmt.Errorf("insert entry: %w", err)
	}

	return nil
}

// GetByID retrieves an entry by ID.
func (r *EntryRepository) GetByID(ctx context.Context, id string) (*domain.Entry, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+entryColumns+` FROM entries WHERE id = $1`, id)

	return scanEntry(row)
}

// GetByLegacyID retrieves an entry by its source-store id.
func (r *EntryRepository) GetByLegacyID(ctx context.Context, legacyID string) (*domain.Entry, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+entryColumns+` FROM entries WHERE legacy_id = $1`, legacyID)

	return scanEntry(row)
}

// Update replaces the entry's mutable fields. The sequence never changes.
func (r *EntryRepository) Update(ctx context.Context, tx usecase.Transaction, entry *domain.Entry) error {
	tag, err := queryer(r.pool, tx).Exec(ctx,
		`UPDATE entries
		 SET entry_date = $2, quantity = $3, unit_price = $4, is_credit = $5, notes = $6
		 WHERE id = $1`,
		entry.ID,
		dateToPgDate(entry.Date),
		entry.Quantity,
		decimalToNumeric(entry.UnitPrice),
		entry.IsCredit,
		entry.Notes,
	)
	if err != nil {
		return err
	}

	if tag.RowsAffected() == 0 {
		return domain.ErrEntryNotFound
	}

	return nil
}

// Delete deletes an entry.
func (r *EntryRepository) Delete(ctx context.Context, tx usecase.Transaction, id string) error {
	tag, err := queryer(r.pool, tx).Exec(ctx, `DELETE FROM entries WHERE id = $1`, id)
	if err != nil {
		return err
	}

	if tag.RowsAffected() == 0 {
		return domain.ErrEntryNotFound
	}

	return nil
}

// List returns entries matching the filter, in ledger order.
func (r *EntryRepository) List(ctx context.Context, filter domain.EntryFilter) ([]*domain.Entry, error) {
	query := `SELECT ` + entryColumns + ` FROM entries WHERE 1=1`

	var args []any

	arg := func(v any) string {
		args = append(args, v)

		return fmt.Sprintf("$%d", len(args))
	}

	if filter.DateFrom != nil {
		query += ` AND entry_date >= ` + arg(dateToPgDate(*filter.DateFrom))
	}

	if filter.DateTo != nil {
		query += ` AND entry_date <= ` + arg(dateToPgDate(*filter.DateTo))
	}

	if filter.CustomerID != "" {
		query += ` AND customer_id = ` + arg(filter.CustomerID)
	}

	switch filter.Type {
	case domain.EntryTypeCredit:
		query += ` AND is_credit`
	case domain.EntryTypeDebit:
		query += ` AND NOT is_credit`
	}

	if filter.Search != "" {
		query += ` AND notes ILIKE ` + arg("%"+escapeLike(filter.Search)+"%")
	}

	query += ` ORDER BY entry_date, seq`

	if filter.Limit > 0 {
		query += ` LIMIT ` + arg(filter.Limit)
	}

	if filter.Offset > 0 {
		query += ` OFFSET ` + arg(filter.Offset)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanEntries(rows)
}

// likeEscaper neutralizes ILIKE pattern metacharacters so a search term
// always matches as a literal substring.
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

// ListInLedgerOrder returns every entry ordered by (date, seq).
func (r *EntryRepository) ListInLedgerOrder(ctx context.Context, tx usecase.Transaction) ([]*domain.Entry, error) {
	rows, err := queryer(r.pool, tx).Query(ctx,
		`SELECT `+entryColumns+` FROM entries ORDER BY entry_date, seq`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanEntries(rows)
}

// CountByCustomer counts entries referencing a customer.
func (r *EntryRepository) CountByCustomer(ctx context.Context, customerID string) (int64, error) {
	var count int64
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM entries WHERE customer_id = $1`, customerID).Scan(&count)

	return count, err
}

// CountByProduct counts entries referencing a product lot.
func (r *EntryRepository) CountByProduct(ctx context.Context, productID string) (int64, error) {
	var count int64
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM entries WHERE product_id = $1`, productID).Scan(&count)

	return count, err
}

// Count returns the total number of entries.
func (r *EntryRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM entries`).Scan(&count)

	return count, err
}

func scanEntries(rows pgx.Rows) ([]*domain.Entry, error) {
	var entries []*domain.Entry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}

		entries = append(entries, e)
	}

	return entries, rows.Err()
}

func scanEntry(row pgx.Row) (*domain.Entry, error) {
	var (
		e         domain.Entry
		entryDate pgtype.Date
		unitPrice pgtype.Numeric
		legacyID  *string
	)

	err := row.Scan(&e.ID, &e.Seq, &entryDate, &e.CustomerID, &e.ProductID, &e.Quantity, &unitPrice, &e.IsCredit, &e.Notes, &legacyID, &e.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrEntryNotFound
		}

		return nil, err
	}

	e.Date = entryDate.Time.UTC()
	e.UnitPrice = numericToDecimal(unitPrice)

	if legacyID != nil {
		e.LegacyID = *legacyID
	}

	return &e, nil
}
