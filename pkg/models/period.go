package models

import (
	"fmt"
	"time"
)

const (
	sentinelYear  = 1900
	sentinelMonth = time.January
)

// Period identifies one monthly sheet.
type Period struct {
	Year  int        `json:"year"`
	Month time.Month `json:"month"`
	Label string     `json:"label"`
}

// NewPeriod returns a period with the given display label.
func NewPeriod(year int, month time.Month, label string) Period {
	return Period{Year: year, Month: month, Label: label}
}

// SentinelPeriod is used for files whose name cannot be resolved. The label
// keeps the raw filename so these files stay visible.
func SentinelPeriod(label string) Period {
	return Period{Year: sentinelYear, Month: sentinelMonth, Label: label}
}

func (p Period) IsSentinel() bool {
	return p.Year == sentinelYear && p.Month == sentinelMonth
}

// Key is the grouping and lookup key, formatted as YYYY-MM.
func (p Period) Key() string {
	return fmt.Sprintf("%04d-%02d", p.Year, int(p.Month))
}

// Before orders periods by year then month.
func (p Period) Before(o Period) bool {
	if p.Year != o.Year {
		return p.Year < o.Year
	}
	return p.Month < o.Month
}

func (p Period) Same(o Period) bool {
	return p.Year == o.Year && p.Month == o.Month
}

// Start returns the first day of the period.
func (p Period) Start() time.Time {
	return time.Date(p.Year, p.Month, 1, 0, 0, 0, 0, time.UTC)
}

func (p Period) String() string {
	if p.Label != "" {
		return p.Label
	}
	return p.Key()
}

// ParsePeriodKey parses a YYYY-MM key. The label is left empty.
func ParsePeriodKey(key string) (Period, error) {
	t, err := time.Parse("2006-01", key)
	if err != nil {
		return Period{}, fmt.Errorf("invalid period %q: %w", key, err)
	}
	return Period{Year: t.Year(), Month: t.Month()}, nil
}
