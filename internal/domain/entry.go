package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Entry is a single recorded credit (sale) or debit (return/payment) event
// linking a customer, a product, a quantity and the unit price captured at
// posting time. UnitPrice is deliberately a copy: later edits to the
// Product's price must not move historical balances.
type Entry struct {
	ID         string
	Seq        int64 // insertion sequence, assigned by the store at create
	Date       time.Time
	CustomerID string
	ProductID  string
	Quantity   int64
	UnitPrice  decimal.Decimal
	IsCredit   bool
	Notes      string
	LegacyID   string
	CreatedAt  time.Time
}

// Validate checks create-time requirements. Historical rows arriving through
// migration may carry zero or negative quantities; those are tolerated by the
// balance math but rejected for new entries.
func (e *Entry) Validate() error {
	if e.CustomerID == "" {
		return fmt.Errorf("%w: entry requires a customer", ErrValidation)
	}

	if e.ProductID == "" {
		return fmt.Errorf("%w: entry requires a product", ErrValidation)
	}

	if e.Date.IsZero() {
		return fmt.Errorf("%w: entry requires a date", ErrValidation)
	}

	if e.Quantity <= 0 {
		return fmt.Errorf("%w: quantity must be positive", ErrValidation)
	}

	if e.UnitPrice.IsNegative() {
		return fmt.Errorf("%w: unit price cannot be negative", ErrValidation)
	}

	return nil
}

// SignedAmount is the entry's contribution to the running balance:
// quantity x unit price, negated for debits.
func (e *Entry) SignedAmount() decimal.Decimal {
	amount := e.UnitPrice.Mul(decimal.NewFromInt(e.Quantity))
	if !e.IsCredit {
		amount = amount.Neg()
	}

	return amount
}

// Position is an entry's place in ledger order.
type Position struct {
	Date time.Time
	Seq  int64
}

// Position returns the entry's ledger position.
func (e *Entry) Position() Position {
	return Position{Date: e.Date, Seq: e.Seq}
}

// Before reports whether p orders strictly before other in ledger order:
// date ascending, insertion sequence ascending. The tie-break is part of the
// ledger contract; changing it changes every same-day balance.
func (p Position) Before(other Position) bool {
	if !p.Date.Equal(other.Date) {
		return p.Date.Before(other.Date)
	}

	return p.Seq < other.Seq
}

// Min returns the earlier of two positions.
func (p Position) Min(other Position) Position {
	if other.Before(p) {
		return other
	}

	return p
}

// LedgerLess orders entries by ledger order (date asc, seq asc).
func LedgerLess(a, b *Entry) bool {
	return a.Position().Before(b.Position())
}
