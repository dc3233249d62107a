package usecase_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/hassanafridi/med-rep-sub001/internal/domain"
	"github.com/hassanafridi/med-rep-sub001/internal/usecase"
	"github.com/hassanafridi/med-rep-sub001/internal/usecase/mocks"
)

func newCustomerUseCase() (*usecase.CustomerUseCase, *mocks.MockStore) {
	store := mocks.NewMockStore()
	uc := usecase.NewCustomerUseCase(store.CustomerRepo, store.EntryRepo, store.AuditRepo, mocks.NewMockIDGenerator(), "tester")

	return uc, store
}

func TestCustomerUseCase_CreateCustomer(t *testing.T) {
	tests := []struct {
		name        string
		input       usecase.CreateCustomerInput
		expectError bool
	}{
		{
			name:  "valid customer",
			input: usecase.CreateCustomerInput{Name: "City Pharmacy", Contact: "042-1234567", Address: "12 Mall Road"},
		},
		{
			name:        "empty name",
			input:       usecase.CreateCustomerInput{Name: "   "},
			expectError: true,
		},
		{
			name:        "name too long",
			input:       usecase.CreateCustomerInput{Name: strings.Repeat("x", 256)},
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc, store := newCustomerUseCase()

			customer, err := uc.CreateCustomer(context.Background(), tt.input)
			if tt.expectError {
				if !errors.Is(err, domain.ErrValidation) {
					t.Fatalf("CreateCustomer() error = %v, want %v", err, domain.ErrValidation)
				}

				return
			}

			if err != nil {
				t.Fatalf("CreateCustomer() error = %v", err)
			}

			stored, err := store.CustomerRepo.GetByID(context.Background(), customer.ID)
			if err != nil {
				t.Fatalf("created customer not stored: %v", err)
			}

			if stored.Name != tt.input.Name {
				t.Fatalf("stored name = %q, want %q", stored.Name, tt.input.Name)
			}
		})
	}
}

func TestCustomerUseCase_UpdateCustomer_ReportsChange(t *testing.T) {
	uc, _ := newCustomerUseCase()
	ctx := context.Background()

	customer, err := uc.CreateCustomer(ctx, usecase.CreateCustomerInput{Name: "City Pharmacy"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	changed, err := uc.UpdateCustomer(ctx, customer.ID, usecase.UpdateCustomerInput{Name: "City Pharmacy", Contact: "042-1234567"})
	if err != nil {
		t.Fatalf("update: %v", err)
	}

	if !changed {
		t.Fatal("contact change not reported")
	}

	changed, err = uc.UpdateCustomer(ctx, customer.ID, usecase.UpdateCustomerInput{Name: "City Pharmacy", Contact: "042-1234567"})
	if err != nil {
		t.Fatalf("no-op update: %v", err)
	}

	if changed {
		t.Fatal("identical update reported as change")
	}
}

func TestCustomerUseCase_DeleteCustomer_ReferentialGuard(t *testing.T) {
	f := newLedgerFixture(t)
	ctx := context.Background()

	uc := usecase.NewCustomerUseCase(f.store.CustomerRepo, f.store.EntryRepo, f.store.AuditRepo, mocks.NewMockIDGenerator(), "tester")

	f.post(t, "2024-01-01", 1, "10.00", true)

	err := uc.DeleteCustomer(ctx, f.customer.ID)
	if !errors.Is(err, domain.ErrReferentialIntegrity) {
		t.Fatalf("DeleteCustomer() error = %v, want %v", err, domain.ErrReferentialIntegrity)
	}

	// Still present after the refused delete.
	if _, err := f.store.CustomerRepo.GetByID(ctx, f.customer.ID); err != nil {
		t.Fatalf("customer gone after refused delete: %v", err)
	}

	// Unreferenced customers delete fine.
	other, err := uc.CreateCustomer(ctx, usecase.CreateCustomerInput{Name: "Valley Clinic"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if err := uc.DeleteCustomer(ctx, other.ID); err != nil {
		t.Fatalf("delete unreferenced: %v", err)
	}
}

func TestCustomerUseCase_DeleteCustomer_NotFound(t *testing.T) {
	uc, _ := newCustomerUseCase()

	err := uc.DeleteCustomer(context.Background(), "missing")
	if !errors.Is(err, domain.ErrCustomerNotFound) {
		t.Fatalf("DeleteCustomer() error = %v, want %v", err, domain.ErrCustomerNotFound)
	}
}

func TestCustomerUseCase_ListCustomers_Pagination(t *testing.T) {
	uc, _ := newCustomerUseCase()
	ctx := context.Background()

	names := []string{"Alpha", "Beta", "Gamma"}
	for _, name := range names {
		if _, err := uc.CreateCustomer(ctx, usecase.CreateCustomerInput{Name: name}); err != nil {
			t.Fatalf("create %s: %v", name, err)
		}
	}

	page, err := uc.ListCustomers(ctx, 2, 0)
	if err != nil {
		t.Fatalf("list: %v", err)
	}

	if len(page) != 2 {
		t.Fatalf("got %d customers, want 2", len(page))
	}

	rest, err := uc.ListCustomers(ctx, 2, 2)
	if err != nil {
		t.Fatalf("list offset: %v", err)
	}

	if len(rest) != 1 || rest[0].Name != "Gamma" {
		t.Fatalf("second page = %+v, want single Gamma", rest)
	}
}
