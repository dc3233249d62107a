package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/hassanafridi/med-rep-sub001/internal/domain"
)

// ReconcileUseCase checks the incrementally maintained transactions against
// an in-memory replay of the entries in ledger order. A divergence means the
// incremental re-stamping path has corrupted history.
type ReconcileUseCase struct {
	entryRepo EntryRepository
	txnRepo   TransactionRepository
}

// NewReconcileUseCase creates a new ReconcileUseCase.
func NewReconcileUseCase(entryRepo EntryRepository, txnRepo TransactionRepository) *ReconcileUseCase {
	return &ReconcileUseCase{
		entryRepo: entryRepo,
		txnRepo:   txnRepo,
	}
}

// Divergence describes the first entry whose stored balance does not match
// the replayed one.
type Divergence struct {
	EntryID         string
	StoredBalance   decimal.Decimal
	ExpectedBalance decimal.Decimal
}

// ConsistencyReport is the result of a full ledger verification.
type ConsistencyReport struct {
	Entries      int
	Transactions int
	Consistent   bool
	Divergence   *Divergence
	CheckedAt    time.Time
}

// Verify replays all entries in ledger order and compares the running sum
// against the stored transactions. Returns ErrLedgerInconsistent alongside
// the report when they disagree.
func (uc *ReconcileUseCase) Verify(ctx context.Context) (*ConsistencyReport, error) {
	entries, err := uc.entryRepo.ListInLedgerOrder(ctx, nil)
	if err != nil {
		return nil, err
	}

	txns, err := uc.txnRepo.ListInLedgerOrder(ctx)
	if err != nil {
		return nil, err
	}

	report := &ConsistencyReport{
		Entries:      len(entries),
		Transactions: len(txns),
		CheckedAt:    time.Now().UTC(),
	}

	if len(entries) != len(txns) {
		report.Divergence = &Divergence{}

		return report, fmt.Errorf("%w: %d entries vs %d transactions",
			domain.ErrLedgerInconsistent, len(entries), len(txns))
	}

	byEntry := make(map[string]*domain.Transaction, len(txns))
	for _, txn := range txns {
		byEntry[txn.EntryID] = txn
	}

	balance := decimal.Zero
	for _, entry := range entries {
		balance = balance.Add(entry.SignedAmount())

		txn, ok := byEntry[entry.ID]
		if !ok {
			report.Divergence = &Divergence{EntryID: entry.ID, ExpectedBalance: balance}

			return report, fmt.Errorf("%w: entry %s has no transaction", domain.ErrLedgerInconsistent, entry.ID)
		}

		if !txn.Balance.Equal(balance) {
			report.Divergence = &Divergence{
				EntryID:         entry.ID,
				StoredBalance:   txn.Balance,
				ExpectedBalance: balance,
			}

			return report, fmt.Errorf("%w: entry %s stored %s expected %s",
				domain.ErrLedgerInconsistent, entry.ID, txn.Balance, balance)
		}
	}

	report.Consistent = true

	return report, nil
}
