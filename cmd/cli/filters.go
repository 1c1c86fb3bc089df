package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/yurifrl/fluxo/pkg/csv"
	"github.com/yurifrl/fluxo/pkg/models"
)

var dateLayouts = []string{"2006-01-02", "02/01/2006", "2006/01/02"}

type filters struct {
	period      string
	startDate   string
	endDate     string
	minAmount   float64
	maxAmount   float64
	description string
}

func parseFilterDate(s string) (time.Time, error) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid date %q, expected YYYY-MM-DD or DD/MM/YYYY", s)
}

// toFilterFunc validates the flags once and returns the matching filter.
func (f *filters) toFilterFunc() (csv.FilterFunc[*models.Transaction], error) {
	var (
		period     *models.Period
		start, end time.Time
		err        error
	)
	if f.period != "" {
		p, err := models.ParsePeriodKey(f.period)
		if err != nil {
			return nil, err
		}
		period = &p
	}
	if f.startDate != "" {
		if start, err = parseFilterDate(f.startDate); err != nil {
			return nil, err
		}
	}
	if f.endDate != "" {
		if end, err = parseFilterDate(f.endDate); err != nil {
			return nil, err
		}
	}
	minAmount := decimal.NewFromFloat(f.minAmount)
	maxAmount := decimal.NewFromFloat(f.maxAmount)
	description := strings.ToLower(f.description)

	return func(t *models.Transaction) bool {
		if period != nil && !t.Period().Same(*period) {
			return false
		}
		if !start.IsZero() && t.Date().Before(start) {
			return false
		}
		if !end.IsZero() && t.Date().After(end) {
			return false
		}
		if f.minAmount != 0 && t.Value().LessThan(minAmount) {
			return false
		}
		if f.maxAmount != 0 && t.Value().GreaterThan(maxAmount) {
			return false
		}
		if description != "" && !strings.Contains(strings.ToLower(t.Description()), description) {
			return false
		}
		return true
	}, nil
}
