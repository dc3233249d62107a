package domain

import (
	"errors"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
)

func TestCustomerValidate(t *testing.T) {
	tests := []struct {
		name     string
		customer Customer
		wantErr  bool
	}{
		{"valid", Customer{Name: "City Pharmacy"}, false},
		{"empty name", Customer{Name: ""}, true},
		{"whitespace name", Customer{Name: "   "}, true},
		{"name too long", Customer{Name: strings.Repeat("x", MaxNameLength+1)}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.customer.Validate()
			if tt.wantErr && !errors.Is(err, ErrValidation) {
				t.Errorf("expected ErrValidation, got %v", err)
			}
			if !tt.wantErr && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestProductValidate(t *testing.T) {
	tests := []struct {
		name    string
		product Product
		wantErr bool
	}{
		{"valid", Product{Name: "Amoxicillin 500mg", UnitPrice: decimal.NewFromInt(12)}, false},
		{"valid with expiry", Product{Name: "Amoxicillin 500mg", Expiry: "2026-06-30"}, false},
		{"empty name", Product{Name: ""}, true},
		{"negative unit price", Product{Name: "X", UnitPrice: decimal.NewFromInt(-1)}, true},
		{"negative retail price", Product{Name: "X", RetailPrice: decimal.NewFromInt(-1)}, true},
		{"bad expiry", Product{Name: "X", Expiry: "30/06/2026"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.product.Validate()
			if tt.wantErr && !errors.Is(err, ErrValidation) {
				t.Errorf("expected ErrValidation, got %v", err)
			}
			if !tt.wantErr && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestParseDate(t *testing.T) {
	got, err := ParseDate("2024-02-29")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if FormatDate(got) != "2024-02-29" {
		t.Errorf("round trip = %s, want 2024-02-29", FormatDate(got))
	}

	if _, err := ParseDate("2024-13-01"); !errors.Is(err, ErrValidation) {
		t.Errorf("expected ErrValidation for invalid month, got %v", err)
	}
}
