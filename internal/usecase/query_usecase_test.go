package usecase_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/hassanafridi/med-rep-sub001/internal/domain"
	"github.com/hassanafridi/med-rep-sub001/internal/usecase"
)

func TestSummarize(t *testing.T) {
	entries := []*domain.Entry{
		{Quantity: 2, UnitPrice: decimal.RequireFromString("25.00"), IsCredit: true},
		{Quantity: 1, UnitPrice: decimal.RequireFromString("30.00"), IsCredit: false},
		{Quantity: 4, UnitPrice: decimal.RequireFromString("5.00"), IsCredit: true},
	}

	s := usecase.Summarize(entries)

	if s.Count != 3 {
		t.Fatalf("count = %d, want 3", s.Count)
	}

	if !s.TotalCredit.Equal(decimal.NewFromInt(70)) {
		t.Fatalf("total credit = %s, want 70", s.TotalCredit)
	}

	if !s.TotalDebit.Equal(decimal.NewFromInt(30)) {
		t.Fatalf("total debit = %s, want 30", s.TotalDebit)
	}

	if !s.Net.Equal(decimal.NewFromInt(40)) {
		t.Fatalf("net = %s, want 40", s.Net)
	}
}

func TestSummarize_Empty(t *testing.T) {
	s := usecase.Summarize(nil)

	if s.Count != 0 || !s.TotalCredit.IsZero() || !s.TotalDebit.IsZero() || !s.Net.IsZero() {
		t.Fatalf("empty summary not zero: %+v", s)
	}
}

// The net of a full-ledger summary must equal the final running balance.
func TestQueryUseCase_Summarize_CrossChecksBalance(t *testing.T) {
	f := newLedgerFixture(t)
	ctx := context.Background()

	f.post(t, "2024-01-10", 2, "25.00", true)
	f.post(t, "2024-01-20", 1, "30.00", false)
	f.post(t, "2024-01-15", 4, "5.00", true)

	query := usecase.NewQueryUseCase(f.store.EntryRepo)

	summary, err := query.Summarize(ctx, domain.EntryFilter{})
	if err != nil {
		t.Fatalf("summarize: %v", err)
	}

	balance, err := f.ledger.CurrentBalance(ctx)
	if err != nil {
		t.Fatalf("current balance: %v", err)
	}

	if !summary.Net.Equal(balance) {
		t.Fatalf("summary net %s != current balance %s", summary.Net, balance)
	}
}

func TestQueryUseCase_FilterEntries(t *testing.T) {
	f := newLedgerFixture(t)
	ctx := context.Background()

	f.post(t, "2024-01-10", 2, "25.00", true)
	f.post(t, "2024-01-20", 1, "30.00", false)
	f.post(t, "2024-02-05", 4, "5.00", true)

	query := usecase.NewQueryUseCase(f.store.EntryRepo)

	from := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name   string
		filter domain.EntryFilter
		want   int
	}{
		{"no filter", domain.EntryFilter{}, 3},
		{"january only", domain.EntryFilter{DateFrom: &from, DateTo: &to}, 2},
		{"credits only", domain.EntryFilter{Type: domain.EntryTypeCredit}, 2},
		{"debits only", domain.EntryFilter{Type: domain.EntryTypeDebit}, 1},
		{"customer match", domain.EntryFilter{CustomerID: f.customer.ID}, 3},
		{"customer miss", domain.EntryFilter{CustomerID: "other"}, 0},
		{"january debits", domain.EntryFilter{DateFrom: &from, DateTo: &to, Type: domain.EntryTypeDebit}, 1},
		{"limit", domain.EntryFilter{Limit: 2}, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			entries, err := query.FilterEntries(ctx, tt.filter)
			if err != nil {
				t.Fatalf("filter: %v", err)
			}

			if len(entries) != tt.want {
				t.Fatalf("got %d entries, want %d", len(entries), tt.want)
			}

			for i := 1; i < len(entries); i++ {
				if domain.LedgerLess(entries[i], entries[i-1]) {
					t.Fatalf("results out of ledger order at %d", i)
				}
			}
		})
	}
}

func TestTopNByMetric(t *testing.T) {
	type item struct {
		name  string
		value decimal.Decimal
	}

	items := []item{
		{"a", decimal.NewFromInt(10)},
		{"b", decimal.NewFromInt(30)},
		{"c", decimal.NewFromInt(30)},
		{"d", decimal.NewFromInt(5)},
	}

	top := usecase.TopNByMetric(items, func(i item) decimal.Decimal { return i.value }, 3)

	if len(top) != 3 {
		t.Fatalf("got %d items, want 3", len(top))
	}

	// Ties keep input order: b before c.
	if top[0].name != "b" || top[1].name != "c" || top[2].name != "a" {
		t.Fatalf("got order %s %s %s, want b c a", top[0].name, top[1].name, top[2].name)
	}

	if got := usecase.TopNByMetric(items, func(i item) decimal.Decimal { return i.value }, 10); len(got) != 4 {
		t.Fatalf("n beyond len returned %d items, want 4", len(got))
	}

	if got := usecase.TopNByMetric(items, func(i item) decimal.Decimal { return i.value }, 0); got != nil {
		t.Fatalf("n=0 returned %v, want nil", got)
	}
}

func TestQueryUseCase_TopCustomers(t *testing.T) {
	f := newLedgerFixture(t)
	ctx := context.Background()

	other := &domain.Customer{ID: "cust-other", Name: "Valley Clinic"}
	if err := f.store.CustomerRepo.Create(ctx, other); err != nil {
		t.Fatalf("seed customer: %v", err)
	}

	f.post(t, "2024-01-10", 2, "25.00", true) // fixture customer +50

	if _, _, err := f.ledger.PostEntry(ctx, usecase.PostEntryInput{
		Date:       "2024-01-11",
		CustomerID: other.ID,
		ProductID:  f.product.ID,
		Quantity:   10,
		UnitPrice:  decimal.RequireFromString("8.00"),
		IsCredit:   true,
	}); err != nil {
		t.Fatalf("post entry: %v", err)
	}

	query := usecase.NewQueryUseCase(f.store.EntryRepo)

	top, err := query.TopCustomers(ctx, domain.EntryFilter{}, 1)
	if err != nil {
		t.Fatalf("top customers: %v", err)
	}

	if len(top) != 1 {
		t.Fatalf("got %d customers, want 1", len(top))
	}

	if top[0].CustomerID != other.ID {
		t.Fatalf("top customer = %s, want %s", top[0].CustomerID, other.ID)
	}

	if !top[0].Net.Equal(decimal.NewFromInt(80)) {
		t.Fatalf("top net = %s, want 80", top[0].Net)
	}
}
