package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/hassanafridi/med-rep-sub001/internal/domain"
)

// ProductUseCase handles product lot management. Distinct batches of the
// same product are distinct records.
type ProductUseCase struct {
	productRepo ProductRepository
	entryRepo   EntryRepository
	auditRepo   AuditRepository
	idGen       IDGenerator
	username    string
}

// NewProductUseCase creates a new ProductUseCase.
func NewProductUseCase(productRepo ProductRepository, entryRepo EntryRepository, auditRepo AuditRepository, idGen IDGenerator, username string) *ProductUseCase {
	return &ProductUseCase{
		productRepo: productRepo,
		entryRepo:   entryRepo,
		auditRepo:   auditRepo,
		idGen:       idGen,
		username:    username,
	}
}

// CreateProductInput represents input for creating a product lot.
type CreateProductInput struct {
	Name        string
	Description string
	UnitPrice   decimal.Decimal
	RetailPrice decimal.Decimal
	BatchNumber string
	Expiry      string
}

// CreateProduct validates and persists a new product lot.
func (uc *ProductUseCase) CreateProduct(ctx context.Context, input CreateProductInput) (*domain.Product, error) {
	product := &domain.Product{
		ID:          uc.idGen.Generate(),
		Name:        input.Name,
		Description: input.Description,
		UnitPrice:   input.UnitPrice,
		RetailPrice: input.RetailPrice,
		BatchNumber: input.BatchNumber,
		Expiry:      input.Expiry,
		CreatedAt:   time.Now().UTC(),
	}

	if err := product.Validate(); err != nil {
		return nil, err
	}

	if err := uc.productRepo.Create(ctx, product); err != nil {
		return nil, err
	}

	uc.audit(ctx, domain.AuditActionProductCreate, product.ID, nil, product)

	return product, nil
}

// GetProduct retrieves a product by ID.
func (uc *ProductUseCase) GetProduct(ctx context.Context, id string) (*domain.Product, error) {
	return uc.productRepo.GetByID(ctx, id)
}

// UpdateProduct replaces mutable fields. Historical entries keep the unit
// price captured when they were posted, so a price change never moves
// existing balances. Returns whether any field changed.
func (uc *ProductUseCase) UpdateProduct(ctx context.Context, id string, input CreateProductInput) (bool, error) {
	product, err := uc.productRepo.GetByID(ctx, id)
	if err != nil {
		return false, err
	}

	before := *product
	product.Name = input.Name
	product.Description = input.Description
	product.UnitPrice = input.UnitPrice
	product.RetailPrice = input.RetailPrice
	product.BatchNumber = input.BatchNumber
	product.Expiry = input.Expiry

	if err := product.Validate(); err != nil {
		return false, err
	}

	changed, err := uc.productRepo.Update(ctx, product)
	if err != nil {
		return false, err
	}

	if changed {
		uc.audit(ctx, domain.AuditActionProductUpdate, product.ID, &before, product)
	}

	return changed, nil
}

// DeleteProduct deletes a product lot unless entries still reference it.
func (uc *ProductUseCase) DeleteProduct(ctx context.Context, id string) error {
	product, err := uc.productRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	refs, err := uc.entryRepo.CountByProduct(ctx, id)
	if err != nil {
		return err
	}

	if refs > 0 {
		return fmt.Errorf("%w: product %s has %d entries", domain.ErrReferentialIntegrity, id, refs)
	}

	if err := uc.productRepo.Delete(ctx, id); err != nil {
		return err
	}

	uc.audit(ctx, domain.AuditActionProductDelete, id, product, nil)

	return nil
}

// ListProducts lists product lots with pagination.
func (uc *ProductUseCase) ListProducts(ctx context.Context, limit, offset int) ([]*domain.Product, error) {
	if limit <= 0 {
		limit = 50
	}

	if limit > 1000 {
		limit = 1000
	}

	return uc.productRepo.List(ctx, limit, offset)
}

func (uc *ProductUseCase) audit(ctx context.Context, action domain.AuditAction, resourceID string, before, after any) {
	if uc.auditRepo == nil {
		return
	}

	_ = uc.auditRepo.Create(ctx, nil, &domain.AuditLog{
		ID:           uc.idGen.Generate(),
		Username:     uc.username,
		Action:       string(action),
		ResourceType: "product",
		ResourceID:   resourceID,
		BeforeState:  domain.MarshalState(before),
		AfterState:   domain.MarshalState(after),
		CreatedAt:    time.Now().UTC(),
	})
}
