package mongo

import (
	"time"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/hassanafridi/med-rep-sub001/internal/domain"
)

// Money is stored as Decimal128 so range updates can $inc balances without
// losing exactness.

type customerDoc struct {
	ID        string    `bson:"_id"`
	Name      string    `bson:"name"`
	Contact   string    `bson:"contact,omitempty"`
	Address   string    `bson:"address,omitempty"`
	LegacyID  string    `bson:"legacy_id,omitempty"`
	CreatedAt time.Time `bson:"created_at"`
}

func toCustomerDoc(c *domain.Customer) customerDoc {
	return customerDoc{
		ID:        c.ID,
		Name:      c.Name,
		Contact:   c.Contact,
		Address:   c.Address,
		LegacyID:  c.LegacyID,
		CreatedAt: c.CreatedAt,
	}
}

func (d customerDoc) toDomain() *domain.Customer {
	return &domain.Customer{
		ID:        d.ID,
		Name:      d.Name,
		Contact:   d.Contact,
		Address:   d.Address,
		LegacyID:  d.LegacyID,
		CreatedAt: d.CreatedAt.UTC(),
	}
}

type productDoc struct {
	ID          string               `bson:"_id"`
	Name        string               `bson:"name"`
	Description string               `bson:"description,omitempty"`
	UnitPrice   primitive.Decimal128 `bson:"unit_price"`
	RetailPrice primitive.Decimal128 `bson:"retail_price"`
	BatchNumber string               `bson:"batch_number,omitempty"`
	Expiry      string               `bson:"expiry,omitempty"`
	LegacyID    string               `bson:"legacy_id,omitempty"`
	CreatedAt   time.Time            `bson:"created_at"`
}

func toProductDoc(p *domain.Product) productDoc {
	return productDoc{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		UnitPrice:   decimalTo128(p.UnitPrice),
		RetailPrice: decimalTo128(p.RetailPrice),
		BatchNumber: p.BatchNumber,
		Expiry:      p.Expiry,
		LegacyID:    p.LegacyID,
		CreatedAt:   p.CreatedAt,
	}
}

func (d productDoc) toDomain() *domain.Product {
	return &domain.Product{
		ID:          d.ID,
		Name:        d.Name,
		Description: d.Description,
		UnitPrice:   decimalFrom128(d.UnitPrice),
		RetailPrice: decimalFrom128(d.RetailPrice),
		BatchNumber: d.BatchNumber,
		Expiry:      d.Expiry,
		LegacyID:    d.LegacyID,
		CreatedAt:   d.CreatedAt.UTC(),
	}
}

type entryDoc struct {
	ID         string               `bson:"_id"`
	Seq        int64                `bson:"seq"`
	Date       time.Time            `bson:"entry_date"`
	CustomerID string               `bson:"customer_id"`
	ProductID  string               `bson:"product_id"`
	Quantity   int64                `bson:"quantity"`
	UnitPrice  primitive.Decimal128 `bson:"unit_price"`
	IsCredit   bool                 `bson:"is_credit"`
	Notes      string               `bson:"notes,omitempty"`
	LegacyID   string               `bson:"legacy_id,omitempty"`
	CreatedAt  time.Time            `bson:"created_at"`
}

func toEntryDoc(e *domain.Entry) entryDoc {
	return entryDoc{
		ID:         e.ID,
		Seq:        e.Seq,
		Date:       e.Date,
		CustomerID: e.CustomerID,
		ProductID:  e.ProductID,
		Quantity:   e.Quantity,
		UnitPrice:  decimalTo128(e.UnitPrice),
		IsCredit:   e.IsCredit,
		Notes:      e.Notes,
		LegacyID:   e.LegacyID,
		CreatedAt:  e.CreatedAt,
	}
}

func (d entryDoc) toDomain() *domain.Entry {
	return &domain.Entry{
		ID:         d.ID,
		Seq:        d.Seq,
		Date:       d.Date.UTC(),
		CustomerID: d.CustomerID,
		ProductID:  d.ProductID,
		Quantity:   d.Quantity,
		UnitPrice:  decimalFrom128(d.UnitPrice),
		IsCredit:   d.IsCredit,
		Notes:      d.Notes,
		LegacyID:   d.LegacyID,
		CreatedAt:  d.CreatedAt.UTC(),
	}
}

type transactionDoc struct {
	ID        string               `bson:"_id"`
	EntryID   string               `bson:"entry_id"`
	Amount    primitive.Decimal128 `bson:"amount"`
	Balance   primitive.Decimal128 `bson:"balance"`
	EntryDate time.Time            `bson:"entry_date"`
	EntrySeq  int64                `bson:"entry_seq"`
	LegacyID  string               `bson:"legacy_id,omitempty"`
	CreatedAt time.Time            `bson:"created_at"`
}

func toTransactionDoc(t *domain.Transaction) transactionDoc {
	return transactionDoc{
		ID:        t.ID,
		EntryID:   t.EntryID,
		Amount:    decimalTo128(t.Amount),
		Balance:   decimalTo128(t.Balance),
		EntryDate: t.EntryDate,
		EntrySeq:  t.EntrySeq,
		LegacyID:  t.LegacyID,
		CreatedAt: t.CreatedAt,
	}
}

func (d transactionDoc) toDomain() *domain.Transaction {
	return &domain.Transaction{
		ID:        d.ID,
		EntryID:   d.EntryID,
		Amount:    decimalFrom128(d.Amount),
		Balance:   decimalFrom128(d.Balance),
		EntryDate: d.EntryDate.UTC(),
		EntrySeq:  d.EntrySeq,
		LegacyID:  d.LegacyID,
		CreatedAt: d.CreatedAt.UTC(),
	}
}

type auditLogDoc struct {
	ID           string      `bson:"_id"`
	Username     string      `bson:"username"`
	Action       string      `bson:"action"`
	ResourceType string      `bson:"resource_type"`
	ResourceID   string      `bson:"resource_id,omitempty"`
	BeforeState  domain.JSON `bson:"before_state,omitempty"`
	AfterState   domain.JSON `bson:"after_state,omitempty"`
	CreatedAt    time.Time   `bson:"created_at"`
}

func toAuditLogDoc(l *domain.AuditLog) auditLogDoc {
	return auditLogDoc{
		ID:           l.ID,
		Username:     l.Username,
		Action:       l.Action,
		ResourceType: l.ResourceType,
		ResourceID:   l.ResourceID,
		BeforeState:  l.BeforeState,
		AfterState:   l.AfterState,
		CreatedAt:    l.CreatedAt,
	}
}

func (d auditLogDoc) toDomain() *domain.AuditLog {
	return &domain.AuditLog{
		ID:           d.ID,
		Username:     d.Username,
		Action:       d.Action,
		ResourceType: d.ResourceType,
		ResourceID:   d.ResourceID,
		BeforeState:  d.BeforeState,
		AfterState:   d.AfterState,
		CreatedAt:    d.CreatedAt.UTC(),
	}
}

func decimalTo128(d decimal.Decimal) primitive.Decimal128 {
	v, err := primitive.ParseDecimal128(d.String())
	if err != nil {
		return primitive.Decimal128{}
	}

	return v
}

func decimalFrom128(v primitive.Decimal128) decimal.Decimal {
	d, err := decimal.NewFromString(v.String())
	if err != nil {
		return decimal.Zero
	}

	return d
}
