package handler

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/hassanafridi/med-rep-sub001/internal/domain"
)

func TestMapDomainError(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{domain.ErrCustomerNotFound, http.StatusNotFound},
		{domain.ErrProductNotFound, http.StatusNotFound},
		{domain.ErrEntryNotFound, http.StatusNotFound},
		{fmt.Errorf("%w: name is required", domain.ErrValidation), http.StatusBadRequest},
		{domain.ErrReferentialIntegrity, http.StatusConflict},
		{domain.ErrLedgerInconsistent, http.StatusConflict},
		{domain.ErrStorageUnavailable, http.StatusServiceUnavailable},
		{fmt.Errorf("something else"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		if got := mapDomainError(tt.err); got != tt.want {
			t.Errorf("mapDomainError(%v) = %d, want %d", tt.err, got, tt.want)
		}
	}
}

func TestParseEntryFilter_Defaults(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/entries", nil)

	filter, err := parseEntryFilter(req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if filter.DateFrom != nil || filter.DateTo != nil {
		t.Fatalf("expected no date bounds, got %+v", filter)
	}
	if filter.Type != domain.EntryTypeAll {
		t.Fatalf("expected all entry types, got %v", filter.Type)
	}
}

func TestParseIntQuery_IgnoresGarbage(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/entries?limit=abc", nil)

	if got := parseIntQuery(req, "limit", 20); got != 20 {
		t.Fatalf("expected default 20, got %d", got)
	}
}
