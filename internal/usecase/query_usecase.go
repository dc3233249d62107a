package usecase

import (
	"context"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/hassanafridi/med-rep-sub001/internal/domain"
)

// QueryUseCase builds read-only filtered projections over entries. It never
// mutates ledger state.
type QueryUseCase struct {
	entryRepo EntryRepository
}

// NewQueryUseCase creates a new QueryUseCase.
func NewQueryUseCase(entryRepo EntryRepository) *QueryUseCase {
	return &QueryUseCase{entryRepo: entryRepo}
}

// FilterEntries returns entries matching every set filter field, in ledger
// order.
func (uc *QueryUseCase) FilterEntries(ctx context.Context, filter domain.EntryFilter) ([]*domain.Entry, error) {
	if filter.Limit < 0 {
		filter.Limit = 0
	}

	return uc.entryRepo.List(ctx, filter)
}

// Summary aggregates a sequence of entries.
type Summary struct {
	Count       int
	TotalCredit decimal.Decimal
	TotalDebit  decimal.Decimal
	Net         decimal.Decimal
}

// Summarize is a pure aggregation: net equals total credit minus total
// debit. For a sequence contiguous in ledger order it also equals the delta
// between the balance before the first entry and the balance of the last.
func Summarize(entries []*domain.Entry) Summary {
	s := Summary{
		TotalCredit: decimal.Zero,
		TotalDebit:  decimal.Zero,
		Net:         decimal.Zero,
	}

	for _, e := range entries {
		s.Count++

		amount := e.UnitPrice.Mul(decimal.NewFromInt(e.Quantity))
		if e.IsCredit {
			s.TotalCredit = s.TotalCredit.Add(amount)
		} else {
			s.TotalDebit = s.TotalDebit.Add(amount)
		}
	}

	s.Net = s.TotalCredit.Sub(s.TotalDebit)

	return s
}

// Summarize filters entries and aggregates the result in one call.
func (uc *QueryUseCase) Summarize(ctx context.Context, filter domain.EntryFilter) (Summary, error) {
	entries, err := uc.FilterEntries(ctx, filter)
	if err != nil {
		return Summary{}, err
	}

	return Summarize(entries), nil
}

// TopNByMetric ranks items by a caller-supplied metric, descending. Ties
// keep their input order.
func TopNByMetric[T any](items []T, metric func(T) decimal.Decimal, n int) []T {
	if n <= 0 {
		return nil
	}

	ranked := make([]T, len(items))
	copy(ranked, items)

	sort.SliceStable(ranked, func(i, j int) bool {
		return metric(ranked[i]).GreaterThan(metric(ranked[j]))
	})

	if n > len(ranked) {
		n = len(ranked)
	}

	return ranked[:n]
}

// CustomerRevenue pairs a customer id with accumulated net revenue.
type CustomerRevenue struct {
	CustomerID string
	Net        decimal.Decimal
}

// TopCustomers ranks customers by net revenue over the filtered entries.
func (uc *QueryUseCase) TopCustomers(ctx context.Context, filter domain.EntryFilter, n int) ([]CustomerRevenue, error) {
	entries, err := uc.FilterEntries(ctx, filter)
	if err != nil {
		return nil, err
	}

	totals := make(map[string]decimal.Decimal)

	var order []string
	for _, e := range entries {
		if _, seen := totals[e.CustomerID]; !seen {
			order = append(order, e.CustomerID)
		}

		totals[e.CustomerID] = totals[e.CustomerID].Add(e.SignedAmount())
	}

	revenue := make([]CustomerRevenue, 0, len(order))
	for _, id := range order {
		revenue = append(revenue, CustomerRevenue{CustomerID: id, Net: totals[id]})
	}

	return TopNByMetric(revenue, func(r CustomerRevenue) decimal.Decimal { return r.Net }, n), nil
}
