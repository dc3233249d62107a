package usecase_test

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/hassanafridi/med-rep-sub001/internal/domain"
	"github.com/hassanafridi/med-rep-sub001/internal/usecase"
	"github.com/hassanafridi/med-rep-sub001/internal/usecase/mocks"
)

func TestProductUseCase_CreateProduct(t *testing.T) {
	tests := []struct {
		name        string
		input       usecase.CreateProductInput
		expectError bool
	}{
		{
			name: "valid lot",
			input: usecase.CreateProductInput{
				Name:        "Amoxicillin 500mg",
				UnitPrice:   decimal.RequireFromString("10.50"),
				RetailPrice: decimal.RequireFromString("12.00"),
				BatchNumber: "B-2024-017",
				Expiry:      "2026-12-31",
			},
		},
		{
			name:        "empty name",
			input:       usecase.CreateProductInput{Name: "", UnitPrice: decimal.NewFromInt(1)},
			expectError: true,
		},
		{
			name:        "negative unit price",
			input:       usecase.CreateProductInput{Name: "Paracetamol", UnitPrice: decimal.NewFromInt(-1)},
			expectError: true,
		},
		{
			name:        "malformed expiry",
			input:       usecase.CreateProductInput{Name: "Paracetamol", UnitPrice: decimal.NewFromInt(1), Expiry: "31-12-2026"},
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := mocks.NewMockStore()
			uc := usecase.NewProductUseCase(store.ProductRepo, store.EntryRepo, store.AuditRepo, mocks.NewMockIDGenerator(), "tester")

			product, err := uc.CreateProduct(context.Background(), tt.input)
			if tt.expectError {
				if !errors.Is(err, domain.ErrValidation) {
					t.Fatalf("CreateProduct() error = %v, want %v", err, domain.ErrValidation)
				}

				return
			}

			if err != nil {
				t.Fatalf("CreateProduct() error = %v", err)
			}

			if _, err := store.ProductRepo.GetByID(context.Background(), product.ID); err != nil {
				t.Fatalf("created product not stored: %v", err)
			}
		})
	}
}

// Same name, different batch: both lots must coexist as distinct records.
func TestProductUseCase_CreateProduct_DistinctBatches(t *testing.T) {
	store := mocks.NewMockStore()
	uc := usecase.NewProductUseCase(store.ProductRepo, store.EntryRepo, store.AuditRepo, mocks.NewMockIDGenerator(), "tester")
	ctx := context.Background()

	first, err := uc.CreateProduct(ctx, usecase.CreateProductInput{Name: "Amoxicillin 500mg", UnitPrice: decimal.NewFromInt(10), BatchNumber: "B-1"})
	if err != nil {
		t.Fatalf("create first lot: %v", err)
	}

	second, err := uc.CreateProduct(ctx, usecase.CreateProductInput{Name: "Amoxicillin 500mg", UnitPrice: decimal.NewFromInt(10), BatchNumber: "B-2"})
	if err != nil {
		t.Fatalf("create second lot: %v", err)
	}

	if first.ID == second.ID {
		t.Fatal("lots share an id")
	}

	count, err := store.ProductRepo.Count(ctx)
	if err != nil {
		t.Fatalf("count: %v", err)
	}

	if count != 2 {
		t.Fatalf("got %d products, want 2", count)
	}
}

// A price update must not touch entries posted at the old price.
func TestProductUseCase_UpdateProduct_KeepsHistoricalPrices(t *testing.T) {
	f := newLedgerFixture(t)
	ctx := context.Background()

	uc := usecase.NewProductUseCase(f.store.ProductRepo, f.store.EntryRepo, f.store.AuditRepo, mocks.NewMockIDGenerator(), "tester")

	f.post(t, "2024-01-01", 2, "10.00", true)

	changed, err := uc.UpdateProduct(ctx, f.product.ID, usecase.CreateProductInput{
		Name:      f.product.Name,
		UnitPrice: decimal.RequireFromString("99.00"),
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}

	if !changed {
		t.Fatal("price change not reported")
	}

	assertBalances(t, f.balances(t), "20")
}

func TestProductUseCase_DeleteProduct_ReferentialGuard(t *testing.T) {
	f := newLedgerFixture(t)
	ctx := context.Background()

	uc := usecase.NewProductUseCase(f.store.ProductRepo, f.store.EntryRepo, f.store.AuditRepo, mocks.NewMockIDGenerator(), "tester")

	f.post(t, "2024-01-01", 1, "10.00", true)

	err := uc.DeleteProduct(ctx, f.product.ID)
	if !errors.Is(err, domain.ErrReferentialIntegrity) {
		t.Fatalf("DeleteProduct() error = %v, want %v", err, domain.ErrReferentialIntegrity)
	}

	if _, err := f.store.ProductRepo.GetByID(ctx, f.product.ID); err != nil {
		t.Fatalf("product gone after refused delete: %v", err)
	}
}
