package usecase

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/hassanafridi/med-rep-sub001/internal/domain"
)

// CustomerRepository defines data access for customers.
type CustomerRepository interface {
	Create(ctx context.Context, customer *domain.Customer) error
	GetByID(ctx context.Context, id string) (*domain.Customer, error)
	GetByLegacyID(ctx context.Context, legacyID string) (*domain.Customer, error)
	GetByName(ctx context.Context, name string) (*domain.Customer, error)
	Update(ctx context.Context, customer *domain.Customer) (bool, error)
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, limit, offset int) ([]*domain.Customer, error)
	Count(ctx context.Context) (int64, error)
}

// ProductRepository defines data access for product lots.
type ProductRepository interface {
	Create(ctx context.Context, product *domain.Product) error
	GetByID(ctx context.Context, id string) (*domain.Product, error)
	GetByLegacyID(ctx context.Context, legacyID string) (*domain.Product, error)
	GetByName(ctx context.Context, name string) (*domain.Product, error)
	Update(ctx context.Context, product *domain.Product) (bool, error)
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, limit, offset int) ([]*domain.Product, error)
	Count(ctx context.Context) (int64, error)
}

// EntryRepository defines data access for ledger entries. Create assigns the
// insertion sequence and writes it back to the entry.
type EntryRepository interface {
	Create(ctx context.Context, tx Transaction, entry *domain.Entry) error
	GetByID(ctx context.Context, id string) (*domain.Entry, error)
	GetByLegacyID(ctx context.Context, legacyID string) (*domain.Entry, error)
	Update(ctx context.Context, tx Transaction, entry *domain.Entry) error
	Delete(ctx context.Context, tx Transaction, id string) error
	List(ctx context.Context, filter domain.EntryFilter) ([]*domain.Entry, error)
	ListInLedgerOrder(ctx context.Context, tx Transaction) ([]*domain.Entry, error)
	CountByCustomer(ctx context.Context, customerID string) (int64, error)
	CountByProduct(ctx context.Context, productID string) (int64, error)
	Count(ctx context.Context) (int64, error)
}

// TransactionRepository defines data access for derived balance records.
type TransactionRepository interface {
	Create(ctx context.Context, tx Transaction, txn *domain.Transaction) error
	GetByEntryID(ctx context.Context, entryID string) (*domain.Transaction, error)
	GetByLegacyID(ctx context.Context, legacyID string) (*domain.Transaction, error)
	DeleteByEntryID(ctx context.Context, tx Transaction, entryID string) error
	DeleteAll(ctx context.Context, tx Transaction) error
	// LastBefore returns the latest transaction whose entry position orders
	// strictly before pos, or ErrTransactionNotFound when the ledger is
	// empty up to that point.
	LastBefore(ctx context.Context, tx Transaction, pos domain.Position) (*domain.Transaction, error)
	Last(ctx context.Context) (*domain.Transaction, error)
	// ShiftBalancesAfter adds delta to the balance of every transaction
	// whose entry position orders strictly after pos, returning the number
	// of re-stamped rows.
	ShiftBalancesAfter(ctx context.Context, tx Transaction, pos domain.Position, delta decimal.Decimal) (int64, error)
	ListInLedgerOrder(ctx context.Context) ([]*domain.Transaction, error)
	Count(ctx context.Context) (int64, error)
}

// AuditRepository defines data access for the append-only audit trail.
type AuditRepository interface {
	Create(ctx context.Context, tx Transaction, log *domain.AuditLog) error
	List(ctx context.Context, filter domain.AuditFilter) ([]*domain.AuditLog, error)
}

// Store bundles one backend's repositories. The migration checker copies
// between two of these.
type Store interface {
	Customers() CustomerRepository
	Products() ProductRepository
	Entries() EntryRepository
	Transactions() TransactionRepository
	Audits() AuditRepository
	TxManager() TransactionManager
}

// Transaction represents a database transaction. Repository methods that
// accept one treat nil as "execute outside any transaction".
type Transaction interface {
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// TransactionManager handles transaction lifecycle.
type TransactionManager interface {
	Begin(ctx context.Context) (Transaction, error)
}

// IDGenerator generates unique IDs.
type IDGenerator interface {
	Generate() string
}

// Cache defines caching operations.
type Cache interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}
