package main

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"

	mongoRepo "github.com/hassanafridi/med-rep-sub001/internal/adapter/repository/mongo"
	postgresRepo "github.com/hassanafridi/med-rep-sub001/internal/adapter/repository/postgres"
	"github.com/hassanafridi/med-rep-sub001/internal/usecase"
)

// openStore builds a usecase.Store from a DSN. postgres:// and postgresql://
// open a connection pool; mongodb:// and mongodb+srv:// open a client, with
// the database name taken from the URL path.
func openStore(ctx context.Context, dsn string) (usecase.Store, func(), error) {
	switch {
	case strings.HasPrefix(dsn, "postgres://"), strings.HasPrefix(dsn, "postgresql://"):
		pool, err := pgxpool.New(ctx, dsn)
		if err != nil {
			return nil, nil, fmt.Errorf("connect to postgres: %w", err)
		}

		if err := pool.Ping(ctx); err != nil {
			pool.Close()
			return nil, nil, fmt.Errorf("ping postgres: %w", err)
		}

		return postgresRepo.NewStore(pool), pool.Close, nil

	case strings.HasPrefix(dsn, "mongodb://"), strings.HasPrefix(dsn, "mongodb+srv://"):
		dbName, err := mongoDatabaseName(dsn)
		if err != nil {
			return nil, nil, err
		}

		store, err := mongoRepo.NewStore(ctx, dsn, dbName)
		if err != nil {
			return nil, nil, err
		}

		return store, func() { _ = store.Close(context.Background()) }, nil

	default:
		return nil, nil, fmt.Errorf("unsupported store DSN %q", dsn)
	}
}

func mongoDatabaseName(dsn string) (string, error) {
	u, err := url.Parse(dsn)
	if err != nil {
		return "", fmt.Errorf("parse mongodb DSN: %w", err)
	}

	name := strings.TrimPrefix(u.Path, "/")
	if name == "" {
		return "", fmt.Errorf("mongodb DSN %q must name a database in its path", dsn)
	}

	return name, nil
}

// useCases bundles the use cases the CLI drives against one store.
type useCases struct {
	ledger    *usecase.LedgerUseCase
	customer  *usecase.CustomerUseCase
	product   *usecase.ProductUseCase
	query     *usecase.QueryUseCase
	reconcile *usecase.ReconcileUseCase
	importer  *usecase.ImportUseCase
	exporter  *usecase.ExportUseCase
}

func buildUseCases(store usecase.Store, username string) *useCases {
	idGen := postgresRepo.NewULIDGenerator()

	ledgerUC := usecase.NewLedgerUseCase(
		store.TxManager(),
		store.Customers(),
		store.Products(),
		store.Entries(),
		store.Transactions(),
		store.Audits(),
		idGen,
		nil,
		username,
	)
	customerUC := usecase.NewCustomerUseCase(store.Customers(), store.Entries(), store.Audits(), idGen, username)
	productUC := usecase.NewProductUseCase(store.Products(), store.Entries(), store.Audits(), idGen, username)
	queryUC := usecase.NewQueryUseCase(store.Entries())

	return &useCases{
		ledger:    ledgerUC,
		customer:  customerUC,
		product:   productUC,
		query:     queryUC,
		reconcile: usecase.NewReconcileUseCase(store.Entries(), store.Transactions()),
		importer:  usecase.NewImportUseCase(customerUC, productUC, ledgerUC, store.Customers(), store.Products()),
		exporter:  usecase.NewExportUseCase(store.Customers(), store.Products(), queryUC),
	}
}
