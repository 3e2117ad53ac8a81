package analytics

import (
	"github.com/bizpulse/bizpulse/internal/models"
)

// FilterTransactions returns the subset of records matching the
// business, location and date-range selection. Business matching
// honors group alias expansion: selecting a group's primary name also
// matches every record whose normalized business name is in the
// group's alias set.
//
// The function is deterministic and stateless; it never mutates its
// input and is safe to call concurrently on the same record set.
func FilterTransactions(records []models.Transaction, cfg models.FilterConfig) []models.Transaction {
	var businessMatch map[string]bool
	if cfg.Business != "" && cfg.Business != models.AllBusinesses {
		businessMatch = cfg.Groups.Expand(cfg.Business)
	}

	filtered := make([]models.Transaction, 0, len(records))
	for _, record := range records {
		if businessMatch != nil && !businessMatch[record.BusinessName] {
			continue
		}
		if cfg.Location != "" && cfg.Location != models.AllLocations && record.Location != cfg.Location {
			continue
		}
		if cfg.DateRange != nil && !cfg.DateRange.Contains(record.Date) {
			continue
		}
		filtered = append(filtered, record)
	}

	return filtered
}
