package domain

import "errors"

var (
	// ErrValidation wraps all malformed-input failures on create/update.
	ErrValidation = errors.New("validation failed")

	// Lookup errors
	ErrCustomerNotFound    = errors.New("customer not found")
	ErrProductNotFound     = errors.New("product not found")
	ErrEntryNotFound       = errors.New("entry not found")
	ErrTransactionNotFound = errors.New("transaction not found")

	// ErrReferentialIntegrity is returned when a delete is blocked by
	// dependent records. The caller must remove dependents first; there is
	// no implicit cascade.
	ErrReferentialIntegrity = errors.New("record is referenced by existing entries")

	// ErrLedgerInconsistent is returned when incrementally maintained
	// balances diverge from a full rebuild.
	ErrLedgerInconsistent = errors.New("ledger balances diverge from rebuild")

	// ErrStorageUnavailable is returned when the backing store stays
	// unreachable after retries.
	ErrStorageUnavailable = errors.New("storage unavailable")
)
