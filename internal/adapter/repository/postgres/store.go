package postgres

import (
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/hassanafridi/med-rep-sub001/internal/usecase"
)

// Store bundles the postgres-backed repositories into a usecase.Store.
type Store struct {
	customers    *CustomerRepository
	products     *ProductRepository
	entries      *EntryRepository
	transactions *TransactionRepository
	audits       *AuditRepository
	txManager    *TxManager
}

// NewStore creates a Store over one connection pool.
func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{
		customers:    NewCustomerRepository(pool),
		products:     NewProductRepository(pool),
		entries:      NewEntryRepository(pool),
		transactions: NewTransactionRepository(pool),
		audits:       NewAuditRepository(pool),
		txManager:    NewTxManager(pool),
	}
}

func (s *Store) Customers() usecase.CustomerRepository       { return s.customers }
func (s *Store) Products() usecase.ProductRepository         { return s.products }
func (s *Store) Entries() usecase.EntryRepository            { return s.entries }
func (s *Store) Transactions() usecase.TransactionRepository { return s.transactions }
func (s *Store) Audits() usecase.AuditRepository             { return s.audits }
func (s *Store) TxManager() usecase.TransactionManager       { return s.txManager }
