package domain

import (
	"fmt"
	"strings"
	"time"
)

// MaxNameLength bounds customer and product names.
const MaxNameLength = 255

// Customer represents a customer the rep sells to. Identity is immutable;
// profile fields may change.
type Customer struct {
	ID        string
	Name      string
	Contact   string
	Address   string
	LegacyID  string
	CreatedAt time.Time
}

// Validate checks create-time requirements.
func (c *Customer) Validate() error {
	name := strings.TrimSpace(c.Name)
	if name == "" {
		return fmt.Errorf("%w: customer name cannot be empty", ErrValidation)
	}

	if len(name) > MaxNameLength {
		return fmt.Errorf("%w: customer name exceeds %d characters", ErrValidation, MaxNameLength)
	}

	return nil
}
