package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"github.com/hassanafridi/med-rep-sub001/internal/domain"
)

const balanceCacheKey = "ledger:current_balance"

// LedgerUseCase maintains the invariant that every entry has exactly one
// transaction whose balance equals the cumulative signed sum of all entries
// up to and including it, in ledger order (date asc, insertion seq asc).
//
// The ledger assumes a single active writer. Concurrent readers observe only
// committed state; concurrent writers are out of scope.
type LedgerUseCase struct {
	txManager    TransactionManager
	customerRepo CustomerRepository
	productRepo  ProductRepository
	entryRepo    EntryRepository
	txnRepo      TransactionRepository
	auditRepo    AuditRepository
	idGen        IDGenerator
	cache        Cache
	username     string
}

// NewLedgerUseCase creates a new LedgerUseCase. cache may be nil.
func NewLedgerUseCase(
	txManager TransactionManager,
	customerRepo CustomerRepository,
	productRepo ProductRepository,
	entryRepo EntryRepository,
	txnRepo TransactionRepository,
	auditRepo AuditRepository,
	idGen IDGenerator,
	cache Cache,
	username string,
) *LedgerUseCase {
	return &LedgerUseCase{
		txManager:    txManager,
		customerRepo: customerRepo,
		productRepo:  productRepo,
		entryRepo:    entryRepo,
		txnRepo:      txnRepo,
		auditRepo:    auditRepo,
		idGen:        idGen,
		cache:        cache,
		username:     username,
	}
}

// PostEntryInput represents input for posting an entry.
type PostEntryInput struct {
	Date       string // ISO 8601
	CustomerID string
	ProductID  string
	Quantity   int64
	UnitPrice  decimal.Decimal
	IsCredit   bool
	Notes      string
}

// PostEntry creates an entry and its derived transaction. An entry dated
// before the tail of the ledger is spliced into history: its balance extends
// the latest transaction before its position and every downstream balance is
// shifted by the entry's signed amount. The whole unit commits or rolls back
// together.
func (uc *LedgerUseCase) PostEntry(ctx context.Context, input PostEntryInput) (*domain.Entry, *domain.Transaction, error) {
	entryDate, err := domain.ParseDate(input.Date)
	if err != nil {
		return nil, nil, err
	}

	now := time.Now().UTC()

	entry := &domain.Entry{
		ID:         uc.idGen.Generate(),
		Date:       entryDate,
		CustomerID: input.CustomerID,
		ProductID:  input.ProductID,
		Quantity:   input.Quantity,
		UnitPrice:  input.UnitPrice,
		IsCredit:   input.IsCredit,
		Notes:      input.Notes,
		CreatedAt:  now,
	}

	if err := entry.Validate(); err != nil {
		return nil, nil, err
	}

	if _, err := uc.customerRepo.GetByID(ctx, entry.CustomerID); err != nil {
		return nil, nil, err
	}

	if _, err := uc.productRepo.GetByID(ctx, entry.ProductID); err != nil {
		return nil, nil, err
	}

	tx, err := uc.txManager.Begin(ctx)
	if err != nil {
		return nil, nil, err
	}
	defer tx.Rollback(ctx)

	if err := uc.entryRepo.Create(ctx, tx, entry); err != nil {
		return nil, nil, err
	}

	txn, err := uc.postTransaction(ctx, tx, entry, now)
	if err != nil {
		return nil, nil, err
	}

	uc.audit(ctx, tx, domain.AuditActionEntryPost, "entry", entry.ID, nil, entry, now)

	if err := tx.Commit(ctx); err != nil {
		return nil, nil, err
	}

	uc.invalidateBalance(ctx)

	return entry, txn, nil
}

// postTransaction computes the entry's balance at its ledger position,
// shifts every downstream balance by the signed amount and inserts the
// derived transaction. Must run inside tx.
func (uc *LedgerUseCase) postTransaction(ctx context.Context, tx Transaction, entry *domain.Entry, now time.Time) (*domain.Transaction, error) {
	signed := entry.SignedAmount()
	pos := entry.Position()

	prior := decimal.Zero

	last, err := uc.txnRepo.LastBefore(ctx, tx, pos)
	switch {
	case err == nil:
		prior = last.Balance
	case errors.Is(err, domain.ErrTransactionNotFound):
		// First entry in ledger order; balance starts at zero.
	default:
		return nil, err
	}

	if _, err := uc.txnRepo.ShiftBalancesAfter(ctx, tx, pos, signed); err != nil {
		return nil, err
	}

	txn := &domain.Transaction{
		ID:        uc.idGen.Generate(),
		EntryID:   entry.ID,
		Amount:    signed,
		Balance:   prior.Add(signed),
		EntryDate: entry.Date,
		EntrySeq:  entry.Seq,
		CreatedAt: now,
	}

	if err := uc.txnRepo.Create(ctx, tx, txn); err != nil {
		return nil, err
	}

	return txn, nil
}

// EditEntryInput carries the replacement fields for an entry edit.
type EditEntryInput struct {
	Date      string
	Quantity  int64
	UnitPrice decimal.Decimal
	IsCredit  bool
	Notes     string
}

// EditEntry treats an edit as delete-then-reinsert at the (possibly new)
// ledger position. The entry keeps its insertion sequence, so a date change
// is the only way an edit moves it in ledger order.
func (uc *LedgerUseCase) EditEntry(ctx context.Context, id string, input EditEntryInput) (*domain.Transaction, error) {
	entry, err := uc.entryRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	newDate, err := domain.ParseDate(input.Date)
	if err != nil {
		return nil, err
	}

	before := *entry
	oldPos := entry.Position()
	oldSigned := entry.SignedAmount()

	entry.Date = newDate
	entry.Quantity = input.Quantity
	entry.UnitPrice = input.UnitPrice
	entry.IsCredit = input.IsCredit
	entry.Notes = input.Notes

	if err := entry.Validate(); err != nil {
		return nil, err
	}

	now := time.Now().UTC()

	tx, err := uc.txManager.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	// Remove the old posting and its downstream effect.
	if err := uc.txnRepo.DeleteByEntryID(ctx, tx, entry.ID); err != nil {
		return nil, err
	}

	if _, err := uc.txnRepo.ShiftBalancesAfter(ctx, tx, oldPos, oldSigned.Neg()); err != nil {
		return nil, err
	}

	if err := uc.entryRepo.Update(ctx, tx, entry); err != nil {
		return nil, err
	}

	// Re-post at the new position.
	txn, err := uc.postTransaction(ctx, tx, entry, now)
	if err != nil {
		return nil, err
	}

	uc.audit(ctx, tx, domain.AuditActionEntryEdit, "entry", entry.ID, &before, entry, now)

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	uc.invalidateBalance(ctx)

	return txn, nil
}

// DeleteEntry removes an entry and its transaction, re-stamping every
// subsequent balance by subtracting the removed signed amount.
func (uc *LedgerUseCase) DeleteEntry(ctx context.Context, id string) error {
	entry, err := uc.entryRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	signed := entry.SignedAmount()
	pos := entry.Position()

	tx, err := uc.txManager.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if err := uc.txnRepo.DeleteByEntryID(ctx, tx, entry.ID); err != nil {
		return err
	}

	if _, err := uc.txnRepo.ShiftBalancesAfter(ctx, tx, pos, signed.Neg()); err != nil {
		return err
	}

	if err := uc.entryRepo.Delete(ctx, tx, entry.ID); err != nil {
		return err
	}

	uc.audit(ctx, tx, domain.AuditActionEntryDelete, "entry", entry.ID, entry, nil, now)

	if err := tx.Commit(ctx); err != nil {
		return err
	}

	uc.invalidateBalance(ctx)

	return nil
}

// RebuildAll discards every transaction and recomputes the full sequence
// from the entries in ledger order. It is the correctness oracle for the
// incremental path and returns the number of transactions rebuilt.
func (uc *LedgerUseCase) RebuildAll(ctx context.Context) (int, error) {
	now := time.Now().UTC()

	tx, err := uc.txManager.Begin(ctx)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback(ctx)

	if err := uc.txnRepo.DeleteAll(ctx, tx); err != nil {
		return 0, err
	}

	entries, err := uc.entryRepo.ListInLedgerOrder(ctx, tx)
	if err != nil {
		return 0, err
	}

	balance := decimal.Zero
	for _, entry := range entries {
		signed := entry.SignedAmount()
		balance = balance.Add(signed)

		txn := &domain.Transaction{
			ID:        uc.idGen.Generate(),
			EntryID:   entry.ID,
			Amount:    signed,
			Balance:   balance,
			EntryDate: entry.Date,
			EntrySeq:  entry.Seq,
			CreatedAt: now,
		}

		if err := uc.txnRepo.Create(ctx, tx, txn); err != nil {
			return 0, err
		}
	}

	uc.audit(ctx, tx, domain.AuditActionLedgerRebuild, "ledger", "", nil, map[string]int{"rebuilt": len(entries)}, now)

	if err := tx.Commit(ctx); err != nil {
		return 0, err
	}

	uc.invalidateBalance(ctx)

	return len(entries), nil
}

// CurrentBalance returns the balance of the last transaction in ledger
// order, zero for an empty ledger. The value is the true signed balance;
// clamping negatives for display is a presentation concern.
func (uc *LedgerUseCase) CurrentBalance(ctx context.Context) (decimal.Decimal, error) {
	if uc.cache != nil {
		if cached, err := uc.cache.Get(ctx, balanceCacheKey); err == nil {
			if balance, err := decimal.NewFromString(cached); err == nil {
				return balance, nil
			}
		}
	}

	last, err := uc.txnRepo.Last(ctx)
	if err != nil {
		if errors.Is(err, domain.ErrTransactionNotFound) {
			return decimal.Zero, nil
		}

		return decimal.Zero, err
	}

	if uc.cache != nil {
		_ = uc.cache.Set(ctx, balanceCacheKey, last.Balance.String(), time.Minute)
	}

	return last.Balance, nil
}

func (uc *LedgerUseCase) invalidateBalance(ctx context.Context) {
	if uc.cache != nil {
		_ = uc.cache.Delete(ctx, balanceCacheKey)
	}
}

func (uc *LedgerUseCase) audit(ctx context.Context, tx Transaction, action domain.AuditAction, resourceType, resourceID string, before, after any, now time.Time) {
	if uc.auditRepo == nil {
		return
	}

	// Audit write failures must not abort the ledger mutation.
	_ = uc.auditRepo.Create(ctx, tx, &domain.AuditLog{
		ID:           uc.idGen.Generate(),
		Username:     uc.username,
		Action:       string(action),
		ResourceType: resourceType,
		ResourceID:   resourceID,
		BeforeState:  domain.MarshalState(before),
		AfterState:   domain.MarshalState(after),
		CreatedAt:    now,
	})
}
