package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Transaction is the derived, balance-bearing record produced from an Entry.
// Exactly one Transaction exists per Entry; the whole set can be dropped and
// rebuilt from the entries and must come back bit-identical.
//
// EntryDate and EntrySeq denormalize the entry's ledger position so
// re-stamping downstream balances is a single range update, not a join.
type Transaction struct {
	ID        string
	EntryID   string
	Amount    decimal.Decimal // signed contribution of the entry
	Balance   decimal.Decimal // running balance after this transaction
	EntryDate time.Time
	EntrySeq  int64
	LegacyID  string
	CreatedAt time.Time
}

// Position returns the ledger position of the underlying entry.
func (t *Transaction) Position() Position {
	return Position{Date: t.EntryDate, Seq: t.EntrySeq}
}
