package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/hassanafridi/med-rep-sub001/internal/adapter/http/dto"
	"github.com/hassanafridi/med-rep-sub001/internal/domain"
	"github.com/hassanafridi/med-rep-sub001/internal/usecase"
)

// LedgerService defines the balance-level behavior needed by LedgerHandler.
type LedgerService interface {
	CurrentBalance(ctx context.Context) (decimal.Decimal, error)
	RebuildAll(ctx context.Context) (int, error)
}

// ReconcileService defines the verification behavior.
type ReconcileService interface {
	Verify(ctx context.Context) (*usecase.ConsistencyReport, error)
}

// LedgerHandler handles ledger-level HTTP requests.
type LedgerHandler struct {
	ledgerUC    LedgerService
	reconcileUC ReconcileService
}

// NewLedgerHandler creates a new LedgerHandler.
func NewLedgerHandler(ledgerUC LedgerService, reconcileUC ReconcileService) *LedgerHandler {
	return &LedgerHandler{ledgerUC: ledgerUC, reconcileUC: reconcileUC}
}

// Balance returns the running balance at the tail of the ledger.
func (h *LedgerHandler) Balance(w http.ResponseWriter, r *http.Request) {
	balance, err := h.ledgerUC.CurrentBalance(r.Context())
	if err != nil {
		writeError(w, mapDomainError(err), "failed to get balance", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.BalanceFromDecimal(balance))
}

// Rebuild replays every entry and replaces all balance records.
func (h *LedgerHandler) Rebuild(w http.ResponseWriter, r *http.Request) {
	rebuilt, err := h.ledgerUC.RebuildAll(r.Context())
	if err != nil {
		writeError(w, mapDomainError(err), "failed to rebuild ledger", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.RebuildResponse{Rebuilt: rebuilt})
}

// Verify replays the ledger and compares it against stored balances. An
// inconsistent ledger still returns the report, with a 409 status.
func (h *LedgerHandler) Verify(w http.ResponseWriter, r *http.Request) {
	report, err := h.reconcileUC.Verify(r.Context())
	if err != nil {
		if errors.Is(err, domain.ErrLedgerInconsistent) && report != nil {
			writeJSON(w, http.StatusConflict, dto.ConsistencyFromReport(report))
			return
		}

		writeError(w, mapDomainError(err), "failed to verify ledger", err.Error())

		return
	}

	writeJSON(w, http.StatusOK, dto.ConsistencyFromReport(report))
}
