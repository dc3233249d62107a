package usecase_test

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/hassanafridi/med-rep-sub001/internal/domain"
	"github.com/hassanafridi/med-rep-sub001/internal/usecase"
	"github.com/hassanafridi/med-rep-sub001/internal/usecase/mocks"
)

type ledgerFixture struct {
	store    *mocks.MockStore
	cache    *mocks.MockCache
	ledger   *usecase.LedgerUseCase
	customer *domain.Customer
	product  *domain.Product
}

func newLedgerFixture(t *testing.T) *ledgerFixture {
	t.Helper()

	store := mocks.NewMockStore()
	cache := mocks.NewMockCache()
	idGen := mocks.NewMockIDGenerator()

	ledger := usecase.NewLedgerUseCase(
		store.TxMgr,
		store.CustomerRepo,
		store.ProductRepo,
		store.EntryRepo,
		store.TransactionRepo,
		store.AuditRepo,
		idGen,
		cache,
		"tester",
	)

	ctx := context.Background()

	customer := &domain.Customer{ID: idGen.Generate(), Name: "City Pharmacy"}
	if err := store.CustomerRepo.Create(ctx, customer); err != nil {
		t.Fatalf("seed customer: %v", err)
	}

	product := &domain.Product{ID: idGen.Generate(), Name: "Amoxicillin 500mg", UnitPrice: decimal.NewFromInt(10)}
	if err := store.ProductRepo.Create(ctx, product); err != nil {
		t.Fatalf("seed product: %v", err)
	}

	return &ledgerFixture{
		store:    store,
		cache:    cache,
		ledger:   ledger,
		customer: customer,
		product:  product,
	}
}

func (f *ledgerFixture) post(t *testing.T, date string, quantity int64, unitPrice string, isCredit bool) *domain.Entry {
	t.Helper()

	entry, _, err := f.ledger.PostEntry(context.Background(), usecase.PostEntryInput{
		Date:       date,
		CustomerID: f.customer.ID,
		ProductID:  f.product.ID,
		Quantity:   quantity,
		UnitPrice:  decimal.RequireFromString(unitPrice),
		IsCredit:   isCredit,
	})
	if err != nil {
		t.Fatalf("post entry: %v", err)
	}

	return entry
}

// balances returns the stored transaction balances in ledger order.
func (f *ledgerFixture) balances(t *testing.T) []string {
	t.Helper()

	txns, err := f.store.TransactionRepo.ListInLedgerOrder(context.Background())
	if err != nil {
		t.Fatalf("list transactions: %v", err)
	}

	out := make([]string, len(txns))
	for i, txn := range txns {
		out[i] = txn.Balance.String()
	}

	return out
}

func assertBalances(t *testing.T, got []string, want ...string) {
	t.Helper()

	if len(got) != len(want) {
		t.Fatalf("got %d balances %v, want %d %v", len(got), got, len(want), want)
	}

	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("balance[%d] = %s, want %s (full: %v)", i, got[i], want[i], got)
		}
	}
}

func TestLedgerUseCase_PostEntry_RunningBalance(t *testing.T) {
	f := newLedgerFixture(t)
	ctx := context.Background()

	// Credit of 5 x 10.00 followed by a debit of 1 x 15.00.
	a := f.post(t, "2024-01-01", 5, "10.00", true)
	f.post(t, "2024-01-02", 1, "15.00", false)

	assertBalances(t, f.balances(t), "50", "35")

	balance, err := f.ledger.CurrentBalance(ctx)
	if err != nil {
		t.Fatalf("current balance: %v", err)
	}

	if !balance.Equal(decimal.RequireFromString("35")) {
		t.Fatalf("current balance = %s, want 35", balance)
	}

	// Deleting the credit re-stamps the debit against an empty prefix.
	if err := f.ledger.DeleteEntry(ctx, a.ID); err != nil {
		t.Fatalf("delete entry: %v", err)
	}

	assertBalances(t, f.balances(t), "-15")

	balance, err = f.ledger.CurrentBalance(ctx)
	if err != nil {
		t.Fatalf("current balance after delete: %v", err)
	}

	if !balance.Equal(decimal.RequireFromString("-15")) {
		t.Fatalf("current balance = %s, want -15", balance)
	}
}

func TestLedgerUseCase_PostEntry_RetroactiveInsert(t *testing.T) {
	f := newLedgerFixture(t)

	// Post the first and third day, then splice the middle day in.
	f.post(t, "2024-03-01", 5, "10.00", true) // +50
	f.post(t, "2024-03-03", 1, "15.00", false) // -15

	assertBalances(t, f.balances(t), "50", "35")

	f.post(t, "2024-03-02", 1, "10.00", true) // +10, lands between the two

	assertBalances(t, f.balances(t), "50", "60", "45")
}

func TestLedgerUseCase_PostEntry_SameDateOrdersByInsertion(t *testing.T) {
	f := newLedgerFixture(t)

	first := f.post(t, "2024-05-10", 1, "100.00", true)
	second := f.post(t, "2024-05-10", 1, "40.00", false)

	txns, err := f.store.TransactionRepo.ListInLedgerOrder(context.Background())
	if err != nil {
		t.Fatalf("list transactions: %v", err)
	}

	if len(txns) != 2 {
		t.Fatalf("got %d transactions, want 2", len(txns))
	}

	if txns[0].EntryID != first.ID || txns[1].EntryID != second.ID {
		t.Fatalf("same-date entries out of insertion order: %s before %s", txns[0].EntryID, txns[1].EntryID)
	}

	assertBalances(t, f.balances(t), "100", "60")
}

func TestLedgerUseCase_PostEntry_Errors(t *testing.T) {
	tests := []struct {
		name    string
		input   func(f *ledgerFixture) usecase.PostEntryInput
		wantErr error
	}{
		{
			name: "invalid date",
			input: func(f *ledgerFixture) usecase.PostEntryInput {
				return usecase.PostEntryInput{
					Date:       "01/02/2024",
					CustomerID: f.customer.ID,
					ProductID:  f.product.ID,
					Quantity:   1,
					UnitPrice:  decimal.NewFromInt(10),
					IsCredit:   true,
				}
			},
			wantErr: domain.ErrValidation,
		},
		{
			name: "zero quantity",
			input: func(f *ledgerFixture) usecase.PostEntryInput {
				return usecase.PostEntryInput{
					Date:       "2024-01-01",
					CustomerID: f.customer.ID,
					ProductID:  f.product.ID,
					Quantity:   0,
					UnitPrice:  decimal.NewFromInt(10),
					IsCredit:   true,
				}
			},
			wantErr: domain.ErrValidation,
		},
		{
			name: "negative unit price",
			input: func(f *ledgerFixture) usecase.PostEntryInput {
				return usecase.PostEntryInput{
					Date:       "2024-01-01",
					CustomerID: f.customer.ID,
					ProductID:  f.product.ID,
					Quantity:   1,
					UnitPrice:  decimal.NewFromInt(-5),
					IsCredit:   true,
				}
			},
			wantErr: domain.ErrValidation,
		},
		{
			name: "unknown customer",
			input: func(f *ledgerFixture) usecase.PostEntryInput {
				return usecase.PostEntryInput{
					Date:       "2024-01-01",
					CustomerID: "missing",
					ProductID:  f.product.ID,
					Quantity:   1,
					UnitPrice:  decimal.NewFromInt(10),
					IsCredit:   true,
				}
			},
			wantErr: domain.ErrCustomerNotFound,
		},
		{
			name: "unknown product",
			input: func(f *ledgerFixture) usecase.PostEntryInput {
				return usecase.PostEntryInput{
					Date:       "2024-01-01",
					CustomerID: f.customer.ID,
					ProductID:  "missing",
					Quantity:   1,
					UnitPrice:  decimal.NewFromInt(10),
					IsCredit:   true,
				}
			},
			wantErr: domain.ErrProductNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newLedgerFixture(t)

			_, _, err := f.ledger.PostEntry(context.Background(), tt.input(f))
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("PostEntry() error = %v, want %v", err, tt.wantErr)
			}

			count, err := f.store.EntryRepo.Count(context.Background())
			if err != nil {
				t.Fatalf("count entries: %v", err)
			}

			if count != 0 {
				t.Fatalf("rejected entry was persisted, count = %d", count)
			}
		})
	}
}

func TestLedgerUseCase_EditEntry_MovesAndRestamps(t *testing.T) {
	f := newLedgerFixture(t)
	ctx := context.Background()

	a := f.post(t, "2024-06-01", 5, "10.00", true) // +50
	f.post(t, "2024-06-02", 1, "15.00", false)     // -15 -> 35

	// Change the credit's amount in place.
	txn, err := f.ledger.EditEntry(ctx, a.ID, usecase.EditEntryInput{
		Date:      "2024-06-01",
		Quantity:  3,
		UnitPrice: decimal.RequireFromString("10.00"),
		IsCredit:  true,
	})
	if err != nil {
		t.Fatalf("edit entry: %v", err)
	}

	if !txn.Balance.Equal(decimal.NewFromInt(30)) {
		t.Fatalf("edited balance = %s, want 30", txn.Balance)
	}

	assertBalances(t, f.balances(t), "30", "15")

	// Now move the credit after the debit by changing its date.
	if _, err := f.ledger.EditEntry(ctx, a.ID, usecase.EditEntryInput{
		Date:      "2024-06-03",
		Quantity:  3,
		UnitPrice: decimal.RequireFromString("10.00"),
		IsCredit:  true,
	}); err != nil {
		t.Fatalf("edit entry date: %v", err)
	}

	assertBalances(t, f.balances(t), "-15", "15")

	edited, err := f.store.EntryRepo.GetByID(ctx, a.ID)
	if err != nil {
		t.Fatalf("get edited entry: %v", err)
	}

	if edited.Seq != a.Seq {
		t.Fatalf("edit changed insertion seq from %d to %d", a.Seq, edited.Seq)
	}
}

func TestLedgerUseCase_EditEntry_NotFound(t *testing.T) {
	f := newLedgerFixture(t)

	_, err := f.ledger.EditEntry(context.Background(), "missing", usecase.EditEntryInput{
		Date:      "2024-01-01",
		Quantity:  1,
		UnitPrice: decimal.NewFromInt(1),
	})
	if !errors.Is(err, domain.ErrEntryNotFound) {
		t.Fatalf("EditEntry() error = %v, want %v", err, domain.ErrEntryNotFound)
	}
}

func TestLedgerUseCase_RebuildAll_MatchesIncremental(t *testing.T) {
	f := newLedgerFixture(t)
	ctx := context.Background()

	// Mix of in-order posts, a retroactive splice, an edit and a delete.
	f.post(t, "2024-01-05", 2, "25.00", true)
	b := f.post(t, "2024-01-10", 1, "30.00", false)
	f.post(t, "2024-01-07", 4, "5.00", true)
	d := f.post(t, "2024-01-05", 1, "12.50", false)

	if _, err := f.ledger.EditEntry(ctx, b.ID, usecase.EditEntryInput{
		Date:      "2024-01-06",
		Quantity:  2,
		UnitPrice: decimal.RequireFromString("30.00"),
		IsCredit:  false,
	}); err != nil {
		t.Fatalf("edit entry: %v", err)
	}

	if err := f.ledger.DeleteEntry(ctx, d.ID); err != nil {
		t.Fatalf("delete entry: %v", err)
	}

	incremental := f.balances(t)

	rebuilt, err := f.ledger.RebuildAll(ctx)
	if err != nil {
		t.Fatalf("rebuild: %v", err)
	}

	if rebuilt != len(incremental) {
		t.Fatalf("rebuilt %d transactions, want %d", rebuilt, len(incremental))
	}

	assertBalances(t, f.balances(t), incremental...)
}

func TestLedgerUseCase_CurrentBalance_EmptyLedger(t *testing.T) {
	f := newLedgerFixture(t)

	balance, err := f.ledger.CurrentBalance(context.Background())
	if err != nil {
		t.Fatalf("current balance: %v", err)
	}

	if !balance.IsZero() {
		t.Fatalf("empty ledger balance = %s, want 0", balance)
	}
}

func TestLedgerUseCase_CurrentBalance_CacheInvalidation(t *testing.T) {
	f := newLedgerFixture(t)
	ctx := context.Background()

	f.post(t, "2024-02-01", 1, "20.00", true)

	first, err := f.ledger.CurrentBalance(ctx)
	if err != nil {
		t.Fatalf("current balance: %v", err)
	}

	if !first.Equal(decimal.NewFromInt(20)) {
		t.Fatalf("balance = %s, want 20", first)
	}

	// A further post must not serve the stale cached value.
	f.post(t, "2024-02-02", 1, "5.00", true)

	second, err := f.ledger.CurrentBalance(ctx)
	if err != nil {
		t.Fatalf("current balance: %v", err)
	}

	if !second.Equal(decimal.NewFromInt(25)) {
		t.Fatalf("balance after second post = %s, want 25", second)
	}
}

func TestLedgerUseCase_MutationsAreAudited(t *testing.T) {
	f := newLedgerFixture(t)
	ctx := context.Background()

	entry := f.post(t, "2024-04-01", 1, "10.00", true)

	if err := f.ledger.DeleteEntry(ctx, entry.ID); err != nil {
		t.Fatalf("delete entry: %v", err)
	}

	logs, err := f.store.AuditRepo.List(ctx, domain.AuditFilter{ResourceType: "entry"})
	if err != nil {
		t.Fatalf("list audit logs: %v", err)
	}

	if len(logs) != 2 {
		t.Fatalf("got %d audit logs, want 2", len(logs))
	}

	if logs[0].Action != string(domain.AuditActionEntryPost) {
		t.Fatalf("first action = %s, want %s", logs[0].Action, domain.AuditActionEntryPost)
	}

	if logs[1].Action != string(domain.AuditActionEntryDelete) {
		t.Fatalf("second action = %s, want %s", logs[1].Action, domain.AuditActionEntryDelete)
	}
}

func TestLedgerUseCase_PostEntry_RollsBackOnShiftFailure(t *testing.T) {
	f := newLedgerFixture(t)
	f.store.EnableTxRollback()
	ctx := context.Background()

	f.post(t, "2024-03-01", 5, "10.00", true) // +50
	f.post(t, "2024-03-03", 2, "10.00", true) // +20

	shiftErr := errors.New("shift failed")
	f.store.TransactionRepo.ShiftBalancesAfterFunc = func(ctx context.Context, tx usecase.Transaction, pos domain.Position, delta decimal.Decimal) (int64, error) {
		if tx == nil {
			t.Fatal("shift ran outside the open transaction")
		}
		return 0, shiftErr
	}

	// A retroactive splice whose downstream shift fails must leave no trace.
	_, _, err := f.ledger.PostEntry(ctx, usecase.PostEntryInput{
		Date:       "2024-03-02",
		CustomerID: f.customer.ID,
		ProductID:  f.product.ID,
		Quantity:   1,
		UnitPrice:  decimal.NewFromInt(10),
		IsCredit:   true,
	})
	if !errors.Is(err, shiftErr) {
		t.Fatalf("expected shift error, got %v", err)
	}

	f.store.TransactionRepo.ShiftBalancesAfterFunc = nil

	assertBalances(t, f.balances(t), "50", "70")

	count, err := f.store.EntryRepo.Count(ctx)
	if err != nil {
		t.Fatalf("count entries: %v", err)
	}
	if count != 2 {
		t.Fatalf("got %d entries after failed post, want 2", count)
	}

	logs, err := f.store.AuditRepo.List(ctx, domain.AuditFilter{ResourceType: "entry"})
	if err != nil {
		t.Fatalf("list audit logs: %v", err)
	}
	if len(logs) != 2 {
		t.Fatalf("got %d audit logs after failed post, want 2", len(logs))
	}
}

func TestLedgerUseCase_DeleteEntry_RollsBackOnShiftFailure(t *testing.T) {
	f := newLedgerFixture(t)
	f.store.EnableTxRollback()
	ctx := context.Background()

	a := f.post(t, "2024-03-01", 5, "10.00", true) // +50
	f.post(t, "2024-03-02", 1, "15.00", false)     // -15

	shiftErr := errors.New("shift failed")
	f.store.TransactionRepo.ShiftBalancesAfterFunc = func(ctx context.Context, tx usecase.Transaction, pos domain.Position, delta decimal.Decimal) (int64, error) {
		return 0, shiftErr
	}

	if err := f.ledger.DeleteEntry(ctx, a.ID); !errors.Is(err, shiftErr) {
		t.Fatalf("expected shift error, got %v", err)
	}

	f.store.TransactionRepo.ShiftBalancesAfterFunc = nil

	// The entry and its transaction survive the failed delete.
	if _, err := f.store.EntryRepo.GetByID(ctx, a.ID); err != nil {
		t.Fatalf("entry gone after failed delete: %v", err)
	}

	assertBalances(t, f.balances(t), "50", "35")
}
