package ingest

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/datatypes"

	"github.com/bizpulse/bizpulse/internal/models"
)

// dateLayouts are tried in order when parsing exported dates.
var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	time.RFC3339,
	"02/01/2006",
	"01/02/2006",
	"2/1/2006",
}

// Parser converts exported transaction CSV rows into normalized
// transactions. Per-record defects are silently dropped or defaulted:
// unparsable dates drop the row, unparsable amounts become 0.
type Parser struct {
	normalizer *Normalizer
	logger     *zap.Logger
}

// ParseStats summarizes one parse run.
type ParseStats struct {
	RowsRead     int `json:"rows_read"`
	Parsed       int `json:"parsed"`
	DroppedDates int `json:"dropped_dates"`
	ZeroAmounts  int `json:"zero_amounts"`
}

// NewParser creates a CSV transaction parser.
func NewParser(normalizer *Normalizer, logger *zap.Logger) *Parser {
	return &Parser{
		normalizer: normalizer,
		logger:     logger,
	}
}

// Parse reads a headered CSV stream with columns
// date,merchant,email,amount and returns the normalized transactions.
// Rows whose date cannot be parsed are dropped, not reported as hard
// errors; only structural CSV failures return an error.
func (p *Parser) Parse(r io.Reader) ([]models.Transaction, ParseStats, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, ParseStats{}, fmt.Errorf("failed to read CSV header: %w", err)
	}
	columns := columnIndex(header)

	var (
		transactions []models.Transaction
		stats        ParseStats
	)

	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, stats, fmt.Errorf("failed to read CSV row: %w", err)
		}
		stats.RowsRead++

		date, ok := ParseDate(field(row, columns, "date"))
		if !ok {
			stats.DroppedDates++
			p.logger.Debug("Dropping row with unparsable date",
				zap.String("raw_date", field(row, columns, "date")))
			continue
		}

		business, location := p.normalizer.Normalize(field(row, columns, "merchant"))
		amount := ParseAmount(field(row, columns, "amount"))
		if amount == 0 {
			stats.ZeroAmounts++
		}

		raw, _ := json.Marshal(map[string]string{
			"date":     field(row, columns, "date"),
			"merchant": field(row, columns, "merchant"),
			"email":    field(row, columns, "email"),
			"amount":   field(row, columns, "amount"),
		})

		transactions = append(transactions, models.Transaction{
			Date:         date,
			BusinessName: business,
			Location:     location,
			Email:        strings.ToLower(strings.TrimSpace(field(row, columns, "email"))),
			Amount:       amount,
			RawData:      datatypes.JSON(raw),
		})
		stats.Parsed++
	}

	p.logger.Info("CSV parse completed",
		zap.Int("rows_read", stats.RowsRead),
		zap.Int("parsed", stats.Parsed),
		zap.Int("dropped_dates", stats.DroppedDates))

	return transactions, stats, nil
}

// ParseDate tries the known export layouts. The second return value is
// false for unparsable input, the sentinel aggregation must skip.
func ParseDate(raw string) (time.Time, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}

// ParseAmount parses a lenient decimal: currency symbols and thousand
// separators are stripped; anything still unparsable is 0, and
// negative amounts clamp to 0 since records carry non-negative values.
func ParseAmount(raw string) float64 {
	cleaned := strings.TrimSpace(raw)
	cleaned = strings.TrimLeft(cleaned, "$€£ ")
	cleaned = strings.ReplaceAll(cleaned, ",", "")

	value, err := strconv.ParseFloat(cleaned, 64)
	if err != nil || value < 0 {
		return 0
	}
	return value
}

// columnIndex maps lowercased header names to positions.
func columnIndex(header []string) map[string]int {
	columns := make(map[string]int, len(header))
	for i, name := range header {
		columns[strings.ToLower(strings.TrimSpace(name))] = i
	}
	return columns
}

func field(row []string, columns map[string]int, name string) string {
	idx, ok := columns[name]
	if !ok || idx >= len(row) {
		return ""
	}
	return row[idx]
}
