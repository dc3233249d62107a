package usecase

import (
	"context"
	"strconv"

	"github.com/hassanafridi/med-rep-sub001/internal/domain"
)

// RowSink consumes tabular records. The CSV adapter implements it.
type RowSink interface {
	Write(record []string) error
	Flush() error
}

// Fixed export headers per entity type.
var (
	CustomerHeaders = []string{"name", "contact", "address", "created_at"}
	ProductHeaders  = []string{"name", "description", "unit_price", "retail_price", "batch_number", "expiry", "created_at"}
	EntryHeaders    = []string{"date", "customer_id", "product_id", "quantity", "unit_price", "is_credit", "notes"}
)

// ExportUseCase writes query-layer output as tabular rows, one row per
// record, headers fixed per entity type. Read-only.
type ExportUseCase struct {
	customerRepo CustomerRepository
	productRepo  ProductRepository
	queryUC      *QueryUseCase
}

// NewExportUseCase creates a new ExportUseCase.
func NewExportUseCase(customerRepo CustomerRepository, productRepo ProductRepository, queryUC *QueryUseCase) *ExportUseCase {
	return &ExportUseCase{
		customerRepo: customerRepo,
		productRepo:  productRepo,
		queryUC:      queryUC,
	}
}

// ExportCustomers writes all customers to the sink.
func (uc *ExportUseCase) ExportCustomers(ctx context.Context, sink RowSink) (int, error) {
	if err := sink.Write(CustomerHeaders); err != nil {
		return 0, err
	}

	customers, err := listAllCustomers(ctx, uc.customerRepo)
	if err != nil {
		return 0, err
	}

	for i, c := range customers {
		if err := ctx.Err(); err != nil {
			return i, err
		}

		record := []string{c.Name, c.Contact, c.Address, c.CreatedAt.UTC().Format("2006-01-02T15:04:05Z")}
		if err := sink.Write(record); err != nil {
			return i, err
		}
	}

	return len(customers), sink.Flush()
}

// ExportProducts writes all product lots to the sink.
func (uc *ExportUseCase) ExportProducts(ctx context.Context, sink RowSink) (int, error) {
	if err := sink.Write(ProductHeaders); err != nil {
		return 0, err
	}

	products, err := listAllProducts(ctx, uc.productRepo)
	if err != nil {
		return 0, err
	}

	for i, p := range products {
		if err := ctx.Err(); err != nil {
			return i, err
		}

		record := []string{
			p.Name,
			p.Description,
			p.UnitPrice.String(),
			p.RetailPrice.String(),
			p.BatchNumber,
			p.Expiry,
			p.CreatedAt.UTC().Format("2006-01-02T15:04:05Z"),
		}
		if err := sink.Write(record); err != nil {
			return i, err
		}
	}

	return len(products), sink.Flush()
}

// ExportEntries writes filtered entries to the sink.
func (uc *ExportUseCase) ExportEntries(ctx context.Context, filter domain.EntryFilter, sink RowSink) (int, error) {
	if err := sink.Write(EntryHeaders); err != nil {
		return 0, err
	}

	entries, err := uc.queryUC.FilterEntries(ctx, filter)
	if err != nil {
		return 0, err
	}

	for i, e := range entries {
		if err := ctx.Err(); err != nil {
			return i, err
		}

		record := []string{
			domain.FormatDate(e.Date),
			e.CustomerID,
			e.ProductID,
			strconv.FormatInt(e.Quantity, 10),
			e.UnitPrice.String(),
			strconv.FormatBool(e.IsCredit),
			e.Notes,
		}
		if err := sink.Write(record); err != nil {
			return i, err
		}
	}

	return len(entries), sink.Flush()
}
