package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/hassanafridi/med-rep-sub001/internal/domain"
)

// MigrateUseCase copies all entities from a source store to a target store,
// preserving relationships through a legacy-id mapping, and verifies the
// result by per-table counts.
//
// Idempotence: every migrated record keeps the source record's id in its
// LegacyID field, and records whose legacy id already exists in the target
// are skipped. Running Migrate twice leaves the target unchanged.
type MigrateUseCase struct {
	idGen IDGenerator
}

// NewMigrateUseCase creates a new MigrateUseCase.
func NewMigrateUseCase(idGen IDGenerator) *MigrateUseCase {
	return &MigrateUseCase{idGen: idGen}
}

// TableReport counts the outcome of one table's copy.
type TableReport struct {
	Copied  int
	Skipped int
	Errors  int
}

// MigrationReport summarizes a full migration run.
type MigrationReport struct {
	Customers    TableReport
	Products     TableReport
	Entries      TableReport
	Transactions TableReport
	StartedAt    time.Time
	FinishedAt   time.Time
}

// ErrorCount is the total number of rows skipped due to errors.
func (r *MigrationReport) ErrorCount() int {
	return r.Customers.Errors + r.Products.Errors + r.Entries.Errors + r.Transactions.Errors
}

// Progress is emitted after each copied table and periodically within large
// tables.
type Progress struct {
	Stage string
	Done  int
	Total int
}

// Migrate copies tables in dependency order: customers and products first,
// then entries (which need the customer/product id mapping), then
// transactions (which need the entry id mapping). Records with unresolved
// references are counted as errors and skipped; the run continues.
// Cancellation is checked between rows; already-copied rows stay.
func (uc *MigrateUseCase) Migrate(ctx context.Context, source, target Store, progress chan<- Progress) (*MigrationReport, error) {
	report := &MigrationReport{StartedAt: time.Now().UTC()}

	customerIDs := make(map[string]string)
	productIDs := make(map[string]string)
	entryIDs := make(map[string]string)
	entrySeqs := make(map[string]int64)

	if err := uc.copyCustomers(ctx, source, target, customerIDs, &report.Customers, progress); err != nil {
		return report, err
	}

	if err := uc.copyProducts(ctx, source, target, productIDs, &report.Products, progress); err != nil {
		return report, err
	}

	if err := uc.copyEntries(ctx, source, target, customerIDs, productIDs, entryIDs, entrySeqs, &report.Entries, progress); err != nil {
		return report, err
	}

	if err := uc.copyTransactions(ctx, source, target, entryIDs, entrySeqs, &report.Transactions, progress); err != nil {
		return report, err
	}

	report.FinishedAt = time.Now().UTC()

	_ = target.Audits().Create(ctx, nil, &domain.AuditLog{
		ID:           uc.idGen.Generate(),
		Username:     "migration",
		Action:       string(domain.AuditActionMigrationRun),
		ResourceType: "store",
		AfterState:   domain.MarshalState(report),
		CreatedAt:    report.FinishedAt,
	})

	return report, nil
}

func (uc *MigrateUseCase) copyCustomers(ctx context.Context, source, target Store, ids map[string]string, table *TableReport, progress chan<- Progress) error {
	customers, err := listAllCustomers(ctx, source.Customers())
	if err != nil {
		return err
	}

	for i, c := range customers {
		if err := ctx.Err(); err != nil {
			return err
		}

		existing, err := target.Customers().GetByLegacyID(ctx, c.ID)
		switch {
		case err == nil:
			ids[c.ID] = existing.ID
			table.Skipped++

			continue
		case !errors.Is(err, domain.ErrCustomerNotFound):
			return err
		}

		copied := *c
		copied.LegacyID = c.ID
		copied.ID = uc.idGen.Generate()

		if err := target.Customers().Create(ctx, &copied); err != nil {
			table.Errors++

			continue
		}

		ids[c.ID] = copied.ID
		table.Copied++

		emit(progress, Progress{Stage: "customers", Done: i + 1, Total: len(customers)})
	}

	return nil
}

func (uc *MigrateUseCase) copyProducts(ctx context.Context, source, target Store, ids map[string]string, table *TableReport, progress chan<- Progress) error {
	products, err := listAllProducts(ctx, source.Products())
	if err != nil {
		return err
	}

	for i, p := range products {
		if err := ctx.Err(); err != nil {
			return err
		}

		existing, err := target.Products().GetByLegacyID(ctx, p.ID)
		switch {
		case err == nil:
			ids[p.ID] = existing.ID
			table.Skipped++

			continue
		case !errors.Is(err, domain.ErrProductNotFound):
			return err
		}

		copied := *p
		copied.LegacyID = p.ID
		copied.ID = uc.idGen.Generate()

		if err := target.Products().Create(ctx, &copied); err != nil {
			table.Errors++

			continue
		}

		ids[p.ID] = copied.ID
		table.Copied++

		emit(progress, Progress{Stage: "products", Done: i + 1, Total: len(products)})
	}

	return nil
}

// copyEntries walks the source in ledger order so the target's freshly
// assigned insertion sequences reproduce the same same-day tie-break.
func (uc *MigrateUseCase) copyEntries(ctx context.Context, source, target Store, customerIDs, productIDs, ids map[string]string, seqs map[string]int64, table *TableReport, progress chan<- Progress) error {
	entries, err := source.Entries().ListInLedgerOrder(ctx, nil)
	if err != nil {
		return err
	}

	for i, e := range entries {
		if err := ctx.Err(); err != nil {
			return err
		}

		existing, err := target.Entries().GetByLegacyID(ctx, e.ID)
		switch {
		case err == nil:
			ids[e.ID] = existing.ID
			seqs[e.ID] = existing.Seq
			table.Skipped++

			continue
		case !errors.Is(err, domain.ErrEntryNotFound):
			return err
		}

		customerID, ok := customerIDs[e.CustomerID]
		if !ok {
			table.Errors++

			continue
		}

		productID, ok := productIDs[e.ProductID]
		if !ok {
			table.Errors++

			continue
		}

		copied := *e
		copied.LegacyID = e.ID
		copied.ID = uc.idGen.Generate()
		copied.CustomerID = customerID
		copied.ProductID = productID
		copied.Seq = 0 // target assigns

		if err := target.Entries().Create(ctx, nil, &copied); err != nil {
			table.Errors++

			continue
		}

		ids[e.ID] = copied.ID
		seqs[e.ID] = copied.Seq
		table.Copied++

		emit(progress, Progress{Stage: "entries", Done: i + 1, Total: len(entries)})
	}

	return nil
}

func (uc *MigrateUseCase) copyTransactions(ctx context.Context, source, target Store, entryIDs map[string]string, entrySeqs map[string]int64, table *TableReport, progress chan<- Progress) error {
	txns, err := source.Transactions().ListInLedgerOrder(ctx)
	if err != nil {
		return err
	}

	for i, t := range txns {
		if err := ctx.Err(); err != nil {
			return err
		}

		_, err := target.Transactions().GetByLegacyID(ctx, t.ID)
		switch {
		case err == nil:
			table.Skipped++

			continue
		case !errors.Is(err, domain.ErrTransactionNotFound):
			return err
		}

		entryID, ok := entryIDs[t.EntryID]
		if !ok {
			table.Errors++

			continue
		}

		copied := *t
		copied.LegacyID = t.ID
		copied.ID = uc.idGen.Generate()
		copied.EntryID = entryID
		copied.EntrySeq = entrySeqs[t.EntryID]

		if err := target.Transactions().Create(ctx, nil, &copied); err != nil {
			table.Errors++

			continue
		}

		table.Copied++

		emit(progress, Progress{Stage: "transactions", Done: i + 1, Total: len(txns)})
	}

	return nil
}

// TableCounts holds per-table record counts for one store.
type TableCounts struct {
	Customers    int64
	Products     int64
	Entries      int64
	Transactions int64
}

// VerifyReport compares per-table counts between two stores.
type VerifyReport struct {
	Source     TableCounts
	Target     TableCounts
	Mismatches []string
}

// Matches reports whether every table count agrees.
func (r *VerifyReport) Matches() bool {
	return len(r.Mismatches) == 0
}

// Verify compares record counts per table. Mismatches are reported
// per-table, not as one opaque failure.
func (uc *MigrateUseCase) Verify(ctx context.Context, source, target Store) (*VerifyReport, error) {
	sourceCounts, err := countTables(ctx, source)
	if err != nil {
		return nil, err
	}

	targetCounts, err := countTables(ctx, target)
	if err != nil {
		return nil, err
	}

	report := &VerifyReport{Source: sourceCounts, Target: targetCounts}

	check := func(table string, s, t int64) {
		if s != t {
			report.Mismatches = append(report.Mismatches, fmt.Sprintf("%s: source=%d target=%d", table, s, t))
		}
	}

	check("customers", sourceCounts.Customers, targetCounts.Customers)
	check("products", sourceCounts.Products, targetCounts.Products)
	check("entries", sourceCounts.Entries, targetCounts.Entries)
	check("transactions", sourceCounts.Transactions, targetCounts.Transactions)

	return report, nil
}

func countTables(ctx context.Context, store Store) (TableCounts, error) {
	var counts TableCounts

	var err error
	if counts.Customers, err = store.Customers().Count(ctx); err != nil {
		return counts, err
	}

	if counts.Products, err = store.Products().Count(ctx); err != nil {
		return counts, err
	}

	if counts.Entries, err = store.Entries().Count(ctx); err != nil {
		return counts, err
	}

	if counts.Transactions, err = store.Transactions().Count(ctx); err != nil {
		return counts, err
	}

	return counts, nil
}

func listAllCustomers(ctx context.Context, repo CustomerRepository) ([]*domain.Customer, error) {
	const page = 1000

	var all []*domain.Customer
	for offset := 0; ; offset += page {
		batch, err := repo.List(ctx, page, offset)
		if err != nil {
			return nil, err
		}

		all = append(all, batch...)
		if len(batch) < page {
			return all, nil
		}
	}
}

func listAllProducts(ctx context.Context, repo ProductRepository) ([]*domain.Product, error) {
	const page = 1000

	var all []*domain.Product
	for offset := 0; ; offset += page {
		batch, err := repo.List(ctx, page, offset)
		if err != nil {
			return nil, err
		}

		all = append(all, batch...)
		if len(batch) < page {
			return all, nil
		}
	}
}

func emit(progress chan<- Progress, p Progress) {
	if progress == nil {
		return
	}

	select {
	case progress <- p:
	default:
	}
}
