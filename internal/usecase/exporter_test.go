package usecase_test

import (
	"context"
	"testing"

	"go.uber.org/mock/gomock"

	"github.com/hassanafridi/med-rep-sub001/internal/domain"
	"github.com/hassanafridi/med-rep-sub001/internal/usecase"
	"github.com/hassanafridi/med-rep-sub001/internal/usecase/mocks"
)

// collectingSink records every Write through the gomock double.
func collectingSink(ctrl *gomock.Controller, rows *[][]string) *mocks.MockRowSink {
	sink := mocks.NewMockRowSink(ctrl)

	sink.EXPECT().Write(gomock.Any()).DoAndReturn(func(record []string) error {
		copied := make([]string, len(record))
		copy(copied, record)
		*rows = append(*rows, copied)

		return nil
	}).AnyTimes()

	sink.EXPECT().Flush().Return(nil).AnyTimes()

	return sink
}

func TestExportUseCase_ExportCustomers(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	f := newLedgerFixture(t)
	query := usecase.NewQueryUseCase(f.store.EntryRepo)
	uc := usecase.NewExportUseCase(f.store.CustomerRepo, f.store.ProductRepo, query)

	var rows [][]string
	sink := collectingSink(ctrl, &rows)

	count, err := uc.ExportCustomers(context.Background(), sink)
	if err != nil {
		t.Fatalf("export: %v", err)
	}

	if count != 1 {
		t.Fatalf("exported %d customers, want 1", count)
	}

	if len(rows) != 2 {
		t.Fatalf("wrote %d rows, want header plus 1", len(rows))
	}

	if rows[0][0] != "name" {
		t.Fatalf("header = %v, want customer headers", rows[0])
	}

	if rows[1][0] != f.customer.Name {
		t.Fatalf("row = %v, want name %q", rows[1], f.customer.Name)
	}
}

func TestExportUseCase_ExportEntries_AppliesFilter(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	f := newLedgerFixture(t)
	f.post(t, "2024-01-10", 2, "25.00", true)
	f.post(t, "2024-01-20", 1, "30.00", false)

	query := usecase.NewQueryUseCase(f.store.EntryRepo)
	uc := usecase.NewExportUseCase(f.store.CustomerRepo, f.store.ProductRepo, query)

	var rows [][]string
	sink := collectingSink(ctrl, &rows)

	count, err := uc.ExportEntries(context.Background(), domain.EntryFilter{Type: domain.EntryTypeCredit}, sink)
	if err != nil {
		t.Fatalf("export: %v", err)
	}

	if count != 1 {
		t.Fatalf("exported %d entries, want 1", count)
	}

	if len(rows) != 2 {
		t.Fatalf("wrote %d rows, want header plus 1", len(rows))
	}

	if rows[1][0] != "2024-01-10" {
		t.Fatalf("exported date = %q, want 2024-01-10", rows[1][0])
	}

	if rows[1][5] != "true" {
		t.Fatalf("exported is_credit = %q, want true", rows[1][5])
	}
}

func TestExportUseCase_ExportProducts(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	f := newLedgerFixture(t)
	query := usecase.NewQueryUseCase(f.store.EntryRepo)
	uc := usecase.NewExportUseCase(f.store.CustomerRepo, f.store.ProductRepo, query)

	var rows [][]string
	sink := collectingSink(ctrl, &rows)

	count, err := uc.ExportProducts(context.Background(), sink)
	if err != nil {
		t.Fatalf("export: %v", err)
	}

	if count != 1 {
		t.Fatalf("exported %d products, want 1", count)
	}

	if rows[1][0] != f.product.Name {
		t.Fatalf("row = %v, want name %q", rows[1], f.product.Name)
	}
}
