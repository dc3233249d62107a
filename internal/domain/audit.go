package domain

import (
	"encoding/json"
	"time"
)

// AuditLog is an append-only compliance record. It is written alongside the
// mutation it describes and never read back by ledger logic.
type AuditLog struct {
	ID           string
	Username     string
	Action       string
	ResourceType string
	ResourceID   string
	BeforeState  JSON
	AfterState   JSON
	CreatedAt    time.Time
}

// JSON is a type alias for JSON data
type JSON map[string]any

// AuditAction represents different types of auditable actions
type AuditAction string

const (
	AuditActionCustomerCreate AuditAction = "customer.create"
	AuditActionCustomerUpdate AuditAction = "customer.update"
	AuditActionCustomerDelete AuditAction = "customer.delete"

	AuditActionProductCreate AuditAction = "product.create"
	AuditActionProductUpdate AuditAction = "product.update"
	AuditActionProductDelete AuditAction = "product.delete"

	AuditActionEntryPost   AuditAction = "entry.post"
	AuditActionEntryEdit   AuditAction = "entry.edit"
	AuditActionEntryDelete AuditAction = "entry.delete"

	AuditActionLedgerRebuild AuditAction = "ledger.rebuild"
	AuditActionMigrationRun  AuditAction = "migration.run"
)

// MarshalState converts a domain object to JSON for audit logging
func MarshalState(v any) JSON {
	if v == nil {
		return nil
	}

	data, err := json.Marshal(v)
	if err != nil {
		return JSON{"error": "failed to marshal state"}
	}

	var result JSON
	if err := json.Unmarshal(data, &result); err != nil {
		return JSON{"error": "failed to unmarshal state"}
	}

	return result
}

// AuditFilter defines filters for querying audit logs
type AuditFilter struct {
	Username     string
	Action       string
	ResourceType string
	ResourceID   string
	Limit        int
	Offset       int
}
