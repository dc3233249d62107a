package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/hassanafridi/med-rep-sub001/internal/domain"
)

// CustomerUseCase handles customer profile management.
type CustomerUseCase struct {
	customerRepo CustomerRepository
	entryRepo    EntryRepository
	auditRepo    AuditRepository
	idGen        IDGenerator
	username     string
}

// NewCustomerUseCase creates a new CustomerUseCase.
func NewCustomerUseCase(customerRepo CustomerRepository, entryRepo EntryRepository, auditRepo AuditRepository, idGen IDGenerator, username string) *CustomerUseCase {
	return &CustomerUseCase{
		customerRepo: customerRepo,
		entryRepo:    entryRepo,
		auditRepo:    auditRepo,
		idGen:        idGen,
		username:     username,
	}
}

// CreateCustomerInput represents input for creating a customer.
type CreateCustomerInput struct {
	Name    string
	Contact string
	Address string
}

// CreateCustomer validates and persists a new customer.
func (uc *CustomerUseCase) CreateCustomer(ctx context.Context, input CreateCustomerInput) (*domain.Customer, error) {
	customer := &domain.Customer{
		ID:        uc.idGen.Generate(),
		Name:      input.Name,
		Contact:   input.Contact,
		Address:   input.Address,
		CreatedAt: time.Now().UTC(),
	}

	if err := customer.Validate(); err != nil {
		return nil, err
	}

	if err := uc.customerRepo.Create(ctx, customer); err != nil {
		return nil, err
	}

	uc.audit(ctx, domain.AuditActionCustomerCreate, customer.ID, nil, customer)

	return customer, nil
}

// GetCustomer retrieves a customer by ID.
func (uc *CustomerUseCase) GetCustomer(ctx context.Context, id string) (*domain.Customer, error) {
	return uc.customerRepo.GetByID(ctx, id)
}

// UpdateCustomerInput carries replacement profile fields.
type UpdateCustomerInput struct {
	Name    string
	Contact string
	Address string
}

// UpdateCustomer updates mutable profile fields. Identity never changes.
// Returns whether any field actually changed.
func (uc *CustomerUseCase) UpdateCustomer(ctx context.Context, id string, input UpdateCustomerInput) (bool, error) {
	customer, err := uc.customerRepo.GetByID(ctx, id)
	if err != nil {
		return false, err
	}

	before := *customer
	customer.Name = input.Name
	customer.Contact = input.Contact
	customer.Address = input.Address

	if err := customer.Validate(); err != nil {
		return false, err
	}

	changed, err := uc.customerRepo.Update(ctx, customer)
	if err != nil {
		return false, err
	}

	if changed {
		uc.audit(ctx, domain.AuditActionCustomerUpdate, customer.ID, &before, customer)
	}

	return changed, nil
}

// DeleteCustomer deletes a customer. Blocked with ErrReferentialIntegrity
// while any entry still references the customer; there is no cascade.
func (uc *CustomerUseCase) DeleteCustomer(ctx context.Context, id string) error {
	customer, err := uc.customerRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	refs, err := uc.entryRepo.CountByCustomer(ctx, id)
	if err != nil {
		return err
	}

	if refs > 0 {
		return fmt.Errorf("%w: customer %s has %d entries", domain.ErrReferentialIntegrity, id, refs)
	}

	if err := uc.customerRepo.Delete(ctx, id); err != nil {
		return err
	}

	uc.audit(ctx, domain.AuditActionCustomerDelete, id, customer, nil)

	return nil
}

// ListCustomers lists customers with pagination.
func (uc *CustomerUseCase) ListCustomers(ctx context.Context, limit, offset int) ([]*domain.Customer, error) {
	if limit <= 0 {
		limit = 50
	}

	if limit > 1000 {
		limit = 1000
	}

	return uc.customerRepo.List(ctx, limit, offset)
}

func (uc *CustomerUseCase) audit(ctx context.Context, action domain.AuditAction, resourceID string, before, after any) {
	if uc.auditRepo == nil {
		return
	}

	_ = uc.auditRepo.Create(ctx, nil, &domain.AuditLog{
		ID:           uc.idGen.Generate(),
		Username:     uc.username,
		Action:       string(action),
		ResourceType: "customer",
		ResourceID:   resourceID,
		BeforeState:  domain.MarshalState(before),
		AfterState:   domain.MarshalState(after),
		CreatedAt:    time.Now().UTC(),
	})
}
