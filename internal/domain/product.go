package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Product represents a single lot of a product. Two records may share a
// name and differ by batch number or expiry; they are distinct entities.
type Product struct {
	ID          string
	Name        string
	Description string
	UnitPrice   decimal.Decimal
	RetailPrice decimal.Decimal
	BatchNumber string
	Expiry      string // ISO 8601 date, empty when unknown
	LegacyID    string
	CreatedAt   time.Time
}

// Validate checks create-time requirements.
func (p *Product) Validate() error {
	name := strings.TrimSpace(p.Name)
	if name == "" {
		return fmt.Errorf("%w: product name cannot be empty", ErrValidation)
	}

	if len(name) > MaxNameLength {
		return fmt.Errorf("%w: product name exceeds %d characters", ErrValidation, MaxNameLength)
	}

	if p.UnitPrice.IsNegative() {
		return fmt.Errorf("%w: unit price cannot be negative", ErrValidation)
	}

	if p.RetailPrice.IsNegative() {
		return fmt.Errorf("%w: retail price cannot be negative", ErrValidation)
	}

	if p.Expiry != "" {
		if _, err := ParseDate(p.Expiry); err != nil {
			return err
		}
	}

	return nil
}
