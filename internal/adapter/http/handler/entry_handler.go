package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/hassanafridi/med-rep-sub001/internal/adapter/http/dto"
	"github.com/hassanafridi/med-rep-sub001/internal/domain"
	"github.com/hassanafridi/med-rep-sub001/internal/usecase"
)

// EntryService defines the ledger behavior needed by EntryHandler.
type EntryService interface {
	PostEntry(ctx context.Context, input usecase.PostEntryInput) (*domain.Entry, *domain.Transaction, error)
	EditEntry(ctx context.Context, id string, input usecase.EditEntryInput) (*domain.Transaction, error)
	DeleteEntry(ctx context.Context, id string) error
}

// EntryQueryService defines the filtered listing behavior.
type EntryQueryService interface {
	FilterEntries(ctx context.Context, filter domain.EntryFilter) ([]*domain.Entry, error)
}

// EntryHandler handles entry-related HTTP requests.
type EntryHandler struct {
	ledgerUC EntryService
	queryUC  EntryQueryService
}

// NewEntryHandler creates a new EntryHandler.
func NewEntryHandler(ledgerUC EntryService, queryUC EntryQueryService) *EntryHandler {
	return &EntryHandler{ledgerUC: ledgerUC, queryUC: queryUC}
}

// PostEntryResponse pairs the created entry with its balance record.
type PostEntryResponse struct {
	Entry       *dto.EntryResponse       `json:"entry"`
	Transaction *dto.TransactionResponse `json:"transaction"`
}

// Create posts a new ledger entry.
func (h *EntryHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.PostEntryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	entry, txn, err := h.ledgerUC.PostEntry(r.Context(), req.ToUseCaseInput())
	if err != nil {
		writeError(w, mapDomainError(err), "failed to post entry", err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, PostEntryResponse{
		Entry:       dto.EntryFromDomain(entry),
		Transaction: dto.TransactionFromDomain(txn),
	})
}

// Update edits an entry, re-stamping downstream balances.
func (h *EntryHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req dto.EditEntryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	txn, err := h.ledgerUC.EditEntry(r.Context(), id, req.ToUseCaseInput())
	if err != nil {
		writeError(w, mapDomainError(err), "failed to edit entry", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.TransactionFromDomain(txn))
}

// Delete removes an entry and its balance record.
func (h *EntryHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.ledgerUC.DeleteEntry(r.Context(), id); err != nil {
		writeError(w, mapDomainError(err), "failed to delete entry", err.Error())
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// List lists entries matching the query filter, in ledger order.
func (h *EntryHandler) List(w http.ResponseWriter, r *http.Request) {
	filter, err := parseEntryFilter(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid filter", err.Error())
		return
	}

	entries, err := h.queryUC.FilterEntries(r.Context(), filter)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to list entries", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.ListEntriesResponse{
		Entries: dto.EntriesFromDomain(entries),
		Total:   int64(len(entries)),
	})
}
