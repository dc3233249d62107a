package handler

import (
	"context"
	"net/http"

	"github.com/hassanafridi/med-rep-sub001/internal/adapter/http/dto"
	"github.com/hassanafridi/med-rep-sub001/internal/domain"
	"github.com/hassanafridi/med-rep-sub001/internal/usecase"
)

// ReportService defines the aggregation behavior needed by ReportHandler.
type ReportService interface {
	Summarize(ctx context.Context, filter domain.EntryFilter) (usecase.Summary, error)
	TopCustomers(ctx context.Context, filter domain.EntryFilter, n int) ([]usecase.CustomerRevenue, error)
}

// ReportHandler handles read-only reporting requests.
type ReportHandler struct {
	queryUC ReportService
}

// NewReportHandler creates a new ReportHandler.
func NewReportHandler(queryUC ReportService) *ReportHandler {
	return &ReportHandler{queryUC: queryUC}
}

// Summary aggregates the filtered entries.
func (h *ReportHandler) Summary(w http.ResponseWriter, r *http.Request) {
	filter, err := parseEntryFilter(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid filter", err.Error())
		return
	}

	summary, err := h.queryUC.Summarize(r.Context(), filter)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to summarize entries", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.SummaryFromUseCase(summary))
}

// TopCustomers ranks customers by net revenue over the filtered entries.
func (h *ReportHandler) TopCustomers(w http.ResponseWriter, r *http.Request) {
	filter, err := parseEntryFilter(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid filter", err.Error())
		return
	}

	n := parseIntQuery(r, "n", 10)

	ranked, err := h.queryUC.TopCustomers(r.Context(), filter, n)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to rank customers", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.TopCustomersFromUseCase(ranked))
}
