package usecase

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/hassanafridi/med-rep-sub001/internal/domain"
)

// RowSource yields one tabular record per call and io.EOF at end of input.
// The CSV adapter implements it; anything row-shaped can.
type RowSource interface {
	Read() ([]string, error)
}

// FieldMapping maps logical field names to column indexes in the source.
type FieldMapping map[string]int

// RowError records one rejected row.
type RowError struct {
	Line   int
	Reason string
}

// ImportResult accumulates row-level outcomes. One bad row never aborts the
// batch.
type ImportResult struct {
	SuccessCount int
	ErrorCount   int
	Errors       []RowError
}

// ImportUseCase maps tabular rows onto entities. Customer and product rows
// go straight to their stores; entry rows are posted through the ledger
// engine so balances stay consistent. Cancellation is cooperative: the
// context is checked between rows, and rows already committed stay.
type ImportUseCase struct {
	customerUC   *CustomerUseCase
	productUC    *ProductUseCase
	ledgerUC     *LedgerUseCase
	customerRepo CustomerRepository
	productRepo  ProductRepository
}

// NewImportUseCase creates a new ImportUseCase.
func NewImportUseCase(customerUC *CustomerUseCase, productUC *ProductUseCase, ledgerUC *LedgerUseCase, customerRepo CustomerRepository, productRepo ProductRepository) *ImportUseCase {
	return &ImportUseCase{
		customerUC:   customerUC,
		productUC:    productUC,
		ledgerUC:     ledgerUC,
		customerRepo: customerRepo,
		productRepo:  productRepo,
	}
}

// ImportCustomers imports customer rows. Required field: name.
func (uc *ImportUseCase) ImportCustomers(ctx context.Context, src RowSource, mapping FieldMapping, progress chan<- Progress) (*ImportResult, error) {
	return uc.forEachRow(ctx, src, progress, "customers", func(row []string, line int) error {
		name, err := field(row, mapping, "name")
		if err != nil {
			return err
		}

		_, err = uc.customerUC.CreateCustomer(ctx, CreateCustomerInput{
			Name:    name,
			Contact: optionalField(row, mapping, "contact"),
			Address: optionalField(row, mapping, "address"),
		})

		return err
	})
}

// ImportProducts imports product rows. Required fields: name, unit_price.
func (uc *ImportUseCase) ImportProducts(ctx context.Context, src RowSource, mapping FieldMapping, progress chan<- Progress) (*ImportResult, error) {
	return uc.forEachRow(ctx, src, progress, "products", func(row []string, line int) error {
		name, err := field(row, mapping, "name")
		if err != nil {
			return err
		}

		priceRaw, err := field(row, mapping, "unit_price")
		if err != nil {
			return err
		}

		price, err := decimal.NewFromString(priceRaw)
		if err != nil {
			return fmt.Errorf("%w: invalid unit_price %q", domain.ErrValidation, priceRaw)
		}

		retail := decimal.Zero
		if raw := optionalField(row, mapping, "retail_price"); raw != "" {
			if retail, err = decimal.NewFromString(raw); err != nil {
				return fmt.Errorf("%w: invalid retail_price %q", domain.ErrValidation, raw)
			}
		}

		_, err = uc.productUC.CreateProduct(ctx, CreateProductInput{
			Name:        name,
			Description: optionalField(row, mapping, "description"),
			UnitPrice:   price,
			RetailPrice: retail,
			BatchNumber: optionalField(row, mapping, "batch_number"),
			Expiry:      optionalField(row, mapping, "expiry"),
		})

		return err
	})
}

// ImportEntries imports entry rows. Required fields: date, customer_name,
// product_name, quantity, unit_price. Unresolvable name lookups count as
// row errors and the row is skipped.
func (uc *ImportUseCase) ImportEntries(ctx context.Context, src RowSource, mapping FieldMapping, progress chan<- Progress) (*ImportResult, error) {
	return uc.forEachRow(ctx, src, progress, "entries", func(row []string, line int) error {
		date, err := field(row, mapping, "date")
		if err != nil {
			return err
		}

		customerName, err := field(row, mapping, "customer_name")
		if err != nil {
			return err
		}

		productName, err := field(row, mapping, "product_name")
		if err != nil {
			return err
		}

		quantityRaw, err := field(row, mapping, "quantity")
		if err != nil {
			return err
		}

		quantity, err := strconv.ParseInt(quantityRaw, 10, 64)
		if err != nil {
			return fmt.Errorf("%w: invalid quantity %q", domain.ErrValidation, quantityRaw)
		}

		priceRaw, err := field(row, mapping, "unit_price")
		if err != nil {
			return err
		}

		price, err := decimal.NewFromString(priceRaw)
		if err != nil {
			return fmt.Errorf("%w: invalid unit_price %q", domain.ErrValidation, priceRaw)
		}

		customer, err := uc.customerRepo.GetByName(ctx, customerName)
		if err != nil {
			return err
		}

		product, err := uc.productRepo.GetByName(ctx, productName)
		if err != nil {
			return err
		}

		isCredit := true
		if raw := optionalField(row, mapping, "is_credit"); raw != "" {
			isCredit = parseBool(raw)
		}

		_, _, err = uc.ledgerUC.PostEntry(ctx, PostEntryInput{
			Date:       date,
			CustomerID: customer.ID,
			ProductID:  product.ID,
			Quantity:   quantity,
			UnitPrice:  price,
			IsCredit:   isCredit,
			Notes:      optionalField(row, mapping, "notes"),
		})

		return err
	})
}

func (uc *ImportUseCase) forEachRow(ctx context.Context, src RowSource, progress chan<- Progress, stage string, handle func(row []string, line int) error) (*ImportResult, error) {
	result := &ImportResult{}

	for line := 1; ; line++ {
		if err := ctx.Err(); err != nil {
			// Partial import is a reported outcome, not a failure.
			return result, err
		}

		row, err := src.Read()
		if errors.Is(err, io.EOF) {
			return result, nil
		}

		if err != nil {
			result.ErrorCount++
			result.Errors = append(result.Errors, RowError{Line: line, Reason: err.Error()})

			continue
		}

		if err := handle(row, line); err != nil {
			result.ErrorCount++
			result.Errors = append(result.Errors, RowError{Line: line, Reason: err.Error()})

			continue
		}

		result.SuccessCount++

		emit(progress, Progress{Stage: stage, Done: result.SuccessCount})
	}
}

func field(row []string, mapping FieldMapping, name string) (string, error) {
	idx, ok := mapping[name]
	if !ok || idx < 0 || idx >= len(row) {
		return "", fmt.Errorf("%w: missing required field %q", domain.ErrValidation, name)
	}

	value := strings.TrimSpace(row[idx])
	if value == "" {
		return "", fmt.Errorf("%w: empty required field %q", domain.ErrValidation, name)
	}

	return value, nil
}

func optionalField(row []string, mapping FieldMapping, name string) string {
	idx, ok := mapping[name]
	if !ok || idx < 0 || idx >= len(row) {
		return ""
	}

	return strings.TrimSpace(row[idx])
}

func parseBool(raw string) bool {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "0", "false", "no", "debit":
		return false
	default:
		return true
	}
}
