package dto

import (
	"github.com/shopspring/decimal"

	"github.com/hassanafridi/med-rep-sub001/internal/usecase"
)

// CreateCustomerRequest represents a request to create a customer.
type CreateCustomerRequest struct {
	Name    string `json:"name"`
	Contact string `json:"contact"`
	Address string `json:"address"`
}

// ToUseCaseInput converts to use case input.
func (r *CreateCustomerRequest) ToUseCaseInput() usecase.CreateCustomerInput {
	return usecase.CreateCustomerInput{
		Name:    r.Name,
		Contact: r.Contact,
		Address: r.Address,
	}
}

// UpdateCustomerRequest represents a request to update a customer's profile.
type UpdateCustomerRequest struct {
	Name    string `json:"name"`
	Contact string `json:"contact"`
	Address string `json:"address"`
}

// ToUseCaseInput converts to use case input.
func (r *UpdateCustomerRequest) ToUseCaseInput() usecase.UpdateCustomerInput {
	return usecase.UpdateCustomerInput{
		Name:    r.Name,
		Contact: r.Contact,
		Address: r.Address,
	}
}

// ProductRequest represents a request to create or update a product lot.
type ProductRequest struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	RetailPrice decimal.Decimal `json:"retail_price"`
	BatchNumber string          `json:"batch_number"`
	Expiry      string          `json:"expiry"`
}

// ToUseCaseInput converts to use case input.
func (r *ProductRequest) ToUseCaseInput() usecase.CreateProductInput {
	return usecase.CreateProductInput{
		Name:        r.Name,
		Description: r.Description,
		UnitPrice:   r.UnitPrice,
		RetailPrice: r.RetailPrice,
		BatchNumber: r.BatchNumber,
		Expiry:      r.Expiry,
	}
}

// PostEntryRequest represents a request to post a ledger entry.
type PostEntryRequest struct {
	Date       string          `json:"date"`
	CustomerID string          `json:"customer_id"`
	ProductID  string          `json:"product_id"`
	Quantity   int64           `json:"quantity"`
	UnitPrice  decimal.Decimal `json:"unit_price"`
	IsCredit   bool            `json:"is_credit"`
	Notes      string          `json:"notes"`
}

// ToUseCaseInput converts to use case input.
func (r *PostEntryRequest) ToUseCaseInput() usecase.PostEntryInput {
	return usecase.PostEntryInput{
		Date:       r.Date,
		CustomerID: r.CustomerID,
		ProductID:  r.ProductID,
		Quantity:   r.Quantity,
		UnitPrice:  r.UnitPrice,
		IsCredit:   r.IsCredit,
		Notes:      r.Notes,
	}
}

// EditEntryRequest represents a request to edit a ledger entry.
type EditEntryRequest struct {
	Date      string          `json:"date"`
	Quantity  int64           `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	IsCredit  bool            `json:"is_credit"`
	Notes     string          `json:"notes"`
}

// ToUseCaseInput converts to use case input.
func (r *EditEntryRequest) ToUseCaseInput() usecase.EditEntryInput {
	return usecase.EditEntryInput{
		Date:      r.Date,
		Quantity:  r.Quantity,
		UnitPrice: r.UnitPrice,
		IsCredit:  r.IsCredit,
		Notes:     r.Notes,
	}
}
