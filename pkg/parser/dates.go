package parser

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
)

var errBadDate = errors.New("unparseable date")

// Day-first layouts, most common first.
var dateLayouts = []string{
	"02/01/2006",
	"2/1/2006",
	"02/01/06",
	"2/1/06",
	"02-01-2006",
	"2-1-2006",
	"02.01.2006",
	"2006-01-02",
	"02/01/2006 15:04:05",
	"02/01/2006 15:04",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	time.RFC3339,
}

// parseDate reads a date cell. Numbers are Excel serial dates.
func parseDate(raw any) (time.Time, error) {
	switch v := raw.(type) {
	case time.Time:
		return dateOnly(v), nil
	case float64:
		if v < 1 {
			return time.Time{}, fmt.Errorf("%w: serial %v", errBadDate, v)
		}
		t, err := excelize.ExcelDateToTime(v, false)
		if err != nil {
			return time.Time{}, fmt.Errorf("%w: %v", errBadDate, err)
		}
		return dateOnly(t), nil
	case string:
		s := strings.TrimSpace(v)
		for _, layout := range dateLayouts {
			if t, err := time.Parse(layout, s); err == nil {
				return dateOnly(t), nil
			}
		}
		return time.Time{}, fmt.Errorf("%w: %q", errBadDate, v)
	default:
		return time.Time{}, fmt.Errorf("%w: %v", errBadDate, raw)
	}
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
