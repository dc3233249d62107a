package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/hassanafridi/med-rep-sub001/internal/domain"
	"github.com/hassanafridi/med-rep-sub001/internal/usecase"
)

// Collection names.
const (
	collCustomers    = "customers"
	collProducts     = "products"
	collEntries      = "entries"
	collTransactions = "transactions"
	collAuditLogs    = "audit_logs"
	collCounters     = "counters"
)

// Store bundles the mongo-backed repositories into a usecase.Store. It is
// the document-store backend the migration checker copies from or to.
type Store struct {
	client *mongo.Client
	db     *mongo.Database

	customers    *CustomerRepository
	products     *ProductRepository
	entries      *EntryRepository
	transactions *TransactionRepository
	audits       *AuditRepository
	txManager    *TxManager
}

// NewStore connects to MongoDB and verifies the connection.
func NewStore(ctx context.Context, uri, dbName string) (*Store, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("%w: connect to mongodb: %v", domain.ErrStorageUnavailable, err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("%w: ping mongodb: %v", domain.ErrStorageUnavailable, err)
	}

	db := client.Database(dbName)

	return &Store{
		client:       client,
		db:           db,
		customers:    &CustomerRepository{coll: db.Collection(collCustomers)},
		products:     &ProductRepository{coll: db.Collection(collProducts)},
		entries:      &EntryRepository{coll: db.Collection(collEntries), counters: db.Collection(collCounters)},
		transactions: &TransactionRepository{coll: db.Collection(collTransactions)},
		audits:       &AuditRepository{coll: db.Collection(collAuditLogs)},
		txManager:    &TxManager{client: client},
	}, nil
}

// Close disconnects the underlying client.
func (s *Store) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

func (s *Store) Customers() usecase.CustomerRepository       { return s.customers }
func (s *Store) Products() usecase.ProductRepository         { return s.products }
func (s *Store) Entries() usecase.EntryRepository            { return s.entries }
func (s *Store) Transactions() usecase.TransactionRepository { return s.transactions }
func (s *Store) Audits() usecase.AuditRepository             { return s.audits }
func (s *Store) TxManager() usecase.TransactionManager       { return s.txManager }
