package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/hassanafridi/med-rep-sub001/internal/domain"
	"github.com/hassanafridi/med-rep-sub001/internal/usecase"
)

// TransactionRepository implements usecase.TransactionRepository. The entry
// position (entry_date, entry_seq) is denormalized onto each row so a
// retroactive posting re-stamps downstream balances with one range UPDATE.
type TransactionRepository struct {
	pool *pgxpool.Pool
}

// NewTransactionRepository creates a new TransactionRepository.
func NewTransactionRepository(pool *pgxpool.Pool) *TransactionRepository {
	return &TransactionRepository{pool: pool}
}

const transactionColumns = `id, entry_id, amount, balance, entry_date, entry_seq, legacy_id, created_at`

// Create inserts a derived transaction.
func (r *TransactionRepository) Create(ctx context.Context, tx usecase.Transaction, txn *domain.Transaction) error {
	_, err := queryer(r.pool, tx).Exec(ctx,
		`INSERT INTO transactions (id, entry_id, amount, balance, entry_date, entry_seq, legacy_id, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, NULLIF($7, ''), $8)`,
		txn.ID,
		txn.EntryID,
		decimalToNumeric(txn.Amount),
		decimalToNumeric(txn.Balance),
		dateToPgDate(txn.EntryDate),
		txn.EntrySeq,
		txn.LegacyID,
		timeToPgTimestamptz(txn.CreatedAt),
	)

	return err
}

// GetByEntryID retrieves the transaction derived from an entry.
func (r *TransactionRepository) GetByEntryID(ctx context.Context, entryID string) (*domain.Transaction, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+transactionColumns+` FROM transactions WHERE entry_id = $1`, entryID)

	return scanTransaction(row)
}

// GetByLegacyID retrieves a transaction by its source-store id.
func (r *TransactionRepository) GetByLegacyID(ctx context.Context, legacyID string) (*domain.Transaction, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+transactionColumns+` FROM transactions WHERE legacy_id = $1`, legacyID)

	return scanTransaction(row)
}

// DeleteByEntryID deletes the transaction derived from an entry.
func (r *TransactionRepository) DeleteByEntryID(ctx context.Context, tx usecase.Transaction, entryID string) error {
	tag, err := queryer(r.pool, tx).Exec(ctx,
		`DELETE FROM transactions WHERE entry_id = $1`, entryID)
	if err != nil {
		return err
	}

	if tag.RowsAffected() == 0 {
		return domain.ErrTransactionNotFound
	}

	return nil
}

// DeleteAll removes every transaction. Used by the full rebuild.
func (r *TransactionRepository) DeleteAll(ctx context.Context, tx usecase.Transaction) error {
	_, err := queryer(r.pool, tx).Exec(ctx, `DELETE FROM transactions`)

	return err
}

// LastBefore returns the latest transaction ordering strictly before pos.
func (r *TransactionRepository) LastBefore(ctx context.Context, tx usecase.Transaction, pos domain.Position) (*domain.Transaction, error) {
	row := queryer(r.pool, tx).QueryRow(ctx,
		`SELECT `+transactionColumns+` FROM transactions
		 WHERE (entry_date, entry_seq) < ($1, $2)
		 ORDER BY entry_date DESC, entry_seq DESC
		 LIMIT 1`,
		dateToPgDate(pos.Date), pos.Seq)

	return scanTransaction(row)
}

// Last returns the transaction at the tail of the ledger.
func (r *TransactionRepository) Last(ctx context.Context) (*domain.Transaction, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+transactionColumns+` FROM transactions
		 ORDER BY entry_date DESC, entry_seq DESC
		 LIMIT 1`)

	return scanTransaction(row)
}

// ShiftBalancesAfter adds delta to every balance ordering strictly after
// pos and returns the number of re-stamped rows.
func (r *TransactionRepository) ShiftBalancesAfter(ctx context.Context, tx usecase.Transaction, pos domain.Position, delta decimal.Decimal) (int64, error) {
	tag, err := queryer(r.pool, tx).Exec(ctx,
		`UPDATE transactions
		 SET balance = balance + $1
		 WHERE (entry_date, entry_seq) > ($2, $3)`,
		decimalToNumeric(delta),
		dateToPgDate(pos.Date),
		pos.Seq)
	if err != nil {
		return 0, err
	}

	return tag.RowsAffected(), nil
}

// ListInLedgerOrder returns every transaction ordered by (entry_date,
// entry_seq).
func (r *TransactionRepository) ListInLedgerOrder(ctx context.Context) ([]*domain.Transaction, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+transactionColumns+` FROM transactions ORDER BY entry_date, entry_seq`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var txns []*domain.Transaction
	for rows.Next() {
		txn, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}

		txns = append(txns, txn)
	}

	return txns, rows.Err()
}

// Count returns the total number of transactions.
func (r *TransactionRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM transactions`).Scan(&count)

	return count, err
}

func scanTransaction(row pgx.Row) (*domain.Transaction, error) {
	var (
		t         domain.Transaction
		amount    pgtype.Numeric
		balance   pgtype.Numeric
		entryDate pgtype.Date
		legacyID  *string
	)

	err := row.Scan(&t.ID, &t.EntryID, &amount, &balance, &entryDate, &t.EntrySeq, &legacyID, &t.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrTransactionNotFound
		}

		return nil, err
	}

	t.Amount = numericToDecimal(amount)
	t.Balance = numericToDecimal(balance)
	t.EntryDate = entryDate.Time.UTC()

	if legacyID != nil {
		t.LegacyID = *legacyID
	}

	return &t, nil
}

// Type conversion helpers.
func decimalToNumeric(d decimal.Decimal) pgtype.Numeric {
	var n pgtype.Numeric

	_ = n.Scan(d.String())

	return n
}

func numericToDecimal(n pgtype.Numeric) decimal.Decimal {
	if !n.Valid {
		return decimal.Zero
	}

	d, _ := decimal.NewFromString(n.Int.String())
	if n.Exp != 0 {
		d = d.Shift(n.Exp)
	}

	return d
}

func timeToPgTimestamptz(t time.Time) pgtype.Timestamptz {
	return pgtype.Timestamptz{Time: t, Valid: true}
}

func dateToPgDate(t time.Time) pgtype.Date {
	return pgtype.Date{Time: t, Valid: true}
}
