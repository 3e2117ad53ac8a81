package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Transaction represents a single normalized business transaction.
// Records are created once by the ingestion layer and never mutated;
// every analytics computation treats them as read-only input.
type Transaction struct {
	ID           uuid.UUID `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	Date         time.Time `json:"date" gorm:"not null;index"`
	BusinessName string    `json:"business_name" gorm:"not null;index"`
	Location     string    `json:"location" gorm:"default:'unknown';index"`
	Email        string    `json:"email"`
	Amount       float64   `json:"amount"`

	// Raw imported row kept for audit and re-normalization.
	RawData datatypes.JSON `json:"raw_data,omitempty" gorm:"type:jsonb"`

	CreatedAt time.Time `json:"created_at"`
}

// TableName overrides the gorm default table name.
func (Transaction) TableName() string {
	return "transactions"
}

// AllBusinesses and AllLocations are the sentinel filter values meaning
// "no restriction on this dimension".
const (
	AllBusinesses = "all"
	AllLocations  = "all"
)

// DateRange is an inclusive calendar date range.
type DateRange struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Contains reports whether t falls inside the range, bounds included.
// Comparison is at day precision.
func (r DateRange) Contains(t time.Time) bool {
	day := t.Truncate(24 * time.Hour)
	return !day.Before(r.Start.Truncate(24*time.Hour)) && !day.After(r.End.Truncate(24*time.Hour))
}

// BusinessGroup maps a primary business name to the set of normalized
// business names that should be treated as its aliases when filtering.
type BusinessGroup struct {
	Primary string   `json:"primary"`
	Aliases []string `json:"aliases"`
}

// BusinessGroupMap indexes business groups by their primary name.
type BusinessGroupMap map[string]BusinessGroup

// Expand returns the full set of business names matching the selection:
// the selection itself plus, when the selection is a group primary, all
// of the group's aliases.
func (m BusinessGroupMap) Expand(selected string) map[string]bool {
	names := map[string]bool{selected: true}
	if group, ok := m[selected]; ok {
		for _, alias := range group.Aliases {
			names[alias] = true
		}
	}
	return names
}

// FilterConfig is the immutable selection passed into every analytics
// call. The surrounding application owns the current UI selection; the
// core holds no state between invocations.
type FilterConfig struct {
	Business  string           `json:"business"`
	Location  string           `json:"location"`
	DateRange *DateRange       `json:"date_range,omitempty"`
	Groups    BusinessGroupMap `json:"groups,omitempty"`
}
