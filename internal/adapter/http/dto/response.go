package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/hassanafridi/med-rep-sub001/internal/domain"
	"github.com/hassanafridi/med-rep-sub001/internal/usecase"
)

// CustomerResponse represents a customer in API responses.
type CustomerResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Contact   string    `json:"contact,omitempty"`
	Address   string    `json:"address,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// CustomerFromDomain converts a domain customer to a response.
func CustomerFromDomain(c *domain.Customer) *CustomerResponse {
	return &CustomerResponse{
		ID:        c.ID,
		Name:      c.Name,
		Contact:   c.Contact,
		Address:   c.Address,
		CreatedAt: c.CreatedAt,
	}
}

// CustomersFromDomain converts domain customers to responses.
func CustomersFromDomain(customers []*domain.Customer) []*CustomerResponse {
	result := make([]*CustomerResponse, len(customers))
	for i, c := range customers {
		result[i] = CustomerFromDomain(c)
	}

	return result
}

// ListCustomersResponse wraps a page of customers.
type ListCustomersResponse struct {
	Customers []*CustomerResponse `json:"customers"`
	Total     int64               `json:"total"`
}

// ProductResponse represents a product lot in API responses.
type ProductResponse struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	RetailPrice decimal.Decimal `json:"retail_price"`
	BatchNumber string          `json:"batch_number,omitempty"`
	Expiry      string          `json:"expiry,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
}

// ProductFromDomain converts a domain product to a response.
func ProductFromDomain(p *domain.Product) *ProductResponse {
	return &ProductResponse{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		UnitPrice:   p.UnitPrice,
		RetailPrice: p.RetailPrice,
		BatchNumber: p.BatchNumber,
		Expiry:      p.Expiry,
		CreatedAt:   p.CreatedAt,
	}
}

// ProductsFromDomain converts domain products to responses.
func ProductsFromDomain(products []*domain.Product) []*ProductResponse {
	result := make([]*ProductResponse, len(products))
	for i, p := range products {
		result[i] = ProductFromDomain(p)
	}

	return result
}

// ListProductsResponse wraps a page of products.
type ListProductsResponse struct {
	Products []*ProductResponse `json:"products"`
	Total    int64              `json:"total"`
}

// EntryResponse represents a ledger entry in API responses.
type EntryResponse struct {
	ID         string          `json:"id"`
	Date       string          `json:"date"`
	CustomerID string          `json:"customer_id"`
	ProductID  string          `json:"product_id"`
	Quantity   int64           `json:"quantity"`
	UnitPrice  decimal.Decimal `json:"unit_price"`
	Amount     decimal.Decimal `json:"amount"`
	IsCredit   bool            `json:"is_credit"`
	Notes      string          `json:"notes,omitempty"`
	CreatedAt  time.Time       `json:"created_at"`
}

// EntryFromDomain converts a domain entry to a response.
func EntryFromDomain(e *domain.Entry) *EntryResponse {
	return &EntryResponse{
		ID:         e.ID,
		Date:       domain.FormatDate(e.Date),
		CustomerID: e.CustomerID,
		ProductID:  e.ProductID,
		Quantity:   e.Quantity,
		UnitPrice:  e.UnitPrice,
		Amount:     e.UnitPrice.Mul(decimal.NewFromInt(e.Quantity)),
		IsCredit:   e.IsCredit,
		Notes:      e.Notes,
		CreatedAt:  e.CreatedAt,
	}
}

// EntriesFromDomain converts domain entries to responses.
func EntriesFromDomain(entries []*domain.Entry) []*EntryResponse {
	result := make([]*EntryResponse, len(entries))
	for i, e := range entries {
		result[i] = EntryFromDomain(e)
	}

	return result
}

// ListEntriesResponse wraps a page of entries.
type ListEntriesResponse struct {
	Entries []*EntryResponse `json:"entries"`
	Total   int64            `json:"total"`
}

// TransactionResponse represents a derived balance record in API responses.
type TransactionResponse struct {
	ID        string          `json:"id"`
	EntryID   string          `json:"entry_id"`
	Amount    decimal.Decimal `json:"amount"`
	Balance   decimal.Decimal `json:"balance"`
	CreatedAt time.Time       `json:"created_at"`
}

// TransactionFromDomain converts a domain transaction to a response.
func TransactionFromDomain(t *domain.Transaction) *TransactionResponse {
	return &TransactionResponse{
		ID:        t.ID,
		EntryID:   t.EntryID,
		Amount:    t.Amount,
		Balance:   t.Balance,
		CreatedAt: t.CreatedAt,
	}
}

// BalanceResponse carries the running balance. Balance is the true signed
// value; DisplayBalance clamps negatives to zero for presentation.
type BalanceResponse struct {
	Balance        decimal.Decimal `json:"balance"`
	DisplayBalance decimal.Decimal `json:"display_balance"`
}

// BalanceFromDecimal builds a balance response from the signed value.
func BalanceFromDecimal(balance decimal.Decimal) BalanceResponse {
	display := balance
	if display.IsNegative() {
		display = decimal.Zero
	}

	return BalanceResponse{Balance: balance, DisplayBalance: display}
}

// RebuildResponse reports a full ledger rebuild.
type RebuildResponse struct {
	Rebuilt int `json:"rebuilt"`
}

// DivergenceResponse describes the first balance mismatch found.
type DivergenceResponse struct {
	EntryID         string          `json:"entry_id"`
	StoredBalance   decimal.Decimal `json:"stored_balance"`
	ExpectedBalance decimal.Decimal `json:"expected_balance"`
}

// ConsistencyResponse reports a ledger verification run.
type ConsistencyResponse struct {
	Entries      int                 `json:"entries"`
	Transactions int                 `json:"transactions"`
	Consistent   bool                `json:"consistent"`
	Divergence   *DivergenceResponse `json:"divergence,omitempty"`
	CheckedAt    time.Time           `json:"checked_at"`
}

// ConsistencyFromReport converts a verification report to a response.
func ConsistencyFromReport(r *usecase.ConsistencyReport) ConsistencyResponse {
	resp := ConsistencyResponse{
		Entries:      r.Entries,
		Transactions: r.Transactions,
		Consistent:   r.Consistent,
		CheckedAt:    r.CheckedAt,
	}

	if r.Divergence != nil {
		resp.Divergence = &DivergenceResponse{
			EntryID:         r.Divergence.EntryID,
			StoredBalance:   r.Divergence.StoredBalance,
			ExpectedBalance: r.Divergence.ExpectedBalance,
		}
	}

	return resp
}

// SummaryResponse aggregates a filtered slice of the ledger.
type SummaryResponse struct {
	Count       int             `json:"count"`
	TotalCredit decimal.Decimal `json:"total_credit"`
	TotalDebit  decimal.Decimal `json:"total_debit"`
	Net         decimal.Decimal `json:"net"`
}

// SummaryFromUseCase converts a query summary to a response.
func SummaryFromUseCase(s usecase.Summary) SummaryResponse {
	return SummaryResponse{
		Count:       s.Count,
		TotalCredit: s.TotalCredit,
		TotalDebit:  s.TotalDebit,
		Net:         s.Net,
	}
}

// CustomerRevenueResponse pairs a customer with accumulated net revenue.
type CustomerRevenueResponse struct {
	CustomerID string          `json:"customer_id"`
	Net        decimal.Decimal `json:"net"`
}

// TopCustomersResponse ranks customers by net revenue.
type TopCustomersResponse struct {
	Customers []CustomerRevenueResponse `json:"customers"`
}

// TopCustomersFromUseCase converts revenue rankings to a response.
func TopCustomersFromUseCase(ranked []usecase.CustomerRevenue) TopCustomersResponse {
	resp := TopCustomersResponse{Customers: make([]CustomerRevenueResponse, len(ranked))}
	for i, r := range ranked {
		resp.Customers[i] = CustomerRevenueResponse{CustomerID: r.CustomerID, Net: r.Net}
	}

	return resp
}

// ErrorResponse represents an error in API responses.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
