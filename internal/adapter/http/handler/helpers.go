package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/hassanafridi/med-rep-sub001/internal/adapter/http/dto"
	"github.com/hassanafridi/med-rep-sub001/internal/domain"
)

// writeJSON writes a JSON response.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// writeError writes an error response.
func writeError(w http.ResponseWriter, status int, message, details string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(dto.ErrorResponse{
		Error:   message,
		Message: details,
	})
}

// mapDomainError maps domain errors to HTTP status codes.
func mapDomainError(err error) int {
	switch {
	case errors.Is(err, domain.ErrCustomerNotFound),
		errors.Is(err, domain.ErrProductNotFound),
		errors.Is(err, domain.ErrEntryNotFound),
		errors.Is(err, domain.ErrTransactionNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrReferentialIntegrity):
		return http.StatusConflict
	case errors.Is(err, domain.ErrLedgerInconsistent):
		return http.StatusConflict
	case errors.Is(err, domain.ErrStorageUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// parseIntQuery parses an integer query parameter with a default value.
func parseIntQuery(r *http.Request, key string, defaultValue int) int {
	val := r.URL.Query().Get(key)
	if val == "" {
		return defaultValue
	}
	i, err := strconv.Atoi(val)
	if err != nil {
		return defaultValue
	}
	return i
}

// parseEntryFilter builds an entry filter from query parameters. All set
// parameters combine with AND. Unknown type values mean "all".
func parseEntryFilter(r *http.Request) (domain.EntryFilter, error) {
	filter := domain.EntryFilter{
		CustomerID: r.URL.Query().Get("customer_id"),
		Search:     r.URL.Query().Get("search"),
		Limit:      parseIntQuery(r, "limit", 0),
		Offset:     parseIntQuery(r, "offset", 0),
	}

	if raw := r.URL.Query().Get("date_from"); raw != "" {
		from, err := domain.ParseDate(raw)
		if err != nil {
			return filter, err
		}

		filter.DateFrom = &from
	}

	if raw := r.URL.Query().Get("date_to"); raw != "" {
		to, err := domain.ParseDate(raw)
		if err != nil {
			return filter, err
		}

		filter.DateTo = &to
	}

	switch r.URL.Query().Get("type") {
	case "credit":
		filter.Type = domain.EntryTypeCredit
	case "debit":
		filter.Type = domain.EntryTypeDebit
	}

	return filter, nil
}
