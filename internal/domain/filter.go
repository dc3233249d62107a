package domain

import (
	"strings"
	"time"
)

// EntryType restricts a filter to credit entries, debit entries, or both.
type EntryType int

const (
	EntryTypeAll EntryType = iota
	EntryTypeCredit
	EntryTypeDebit
)

// EntryFilter selects entries for retrospective queries. All set fields are
// combined with AND; date bounds are inclusive.
type EntryFilter struct {
	DateFrom   *time.Time
	DateTo     *time.Time
	CustomerID string
	Type       EntryType
	Search     string // case-insensitive substring over notes
	Limit      int
	Offset     int
}

// Matches reports whether an entry satisfies every set filter field.
func (f EntryFilter) Matches(e *Entry) bool {
	if f.DateFrom != nil && e.Date.Before(*f.DateFrom) {
		return false
	}

	if f.DateTo != nil && e.Date.After(*f.DateTo) {
		return false
	}

	if f.CustomerID != "" && e.CustomerID != f.CustomerID {
		return false
	}

	switch f.Type {
	case EntryTypeCredit:
		if !e.IsCredit {
			return false
		}
	case EntryTypeDebit:
		if e.IsCredit {
			return false
		}
	}

	if f.Search != "" && !strings.Contains(strings.ToLower(e.Notes), strings.ToLower(f.Search)) {
		return false
	}

	return true
}
