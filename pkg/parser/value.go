package parser

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/shopspring/decimal"
)

// ParseValue converts a cell to a decimal. Numbers pass through unchanged;
// text is read as a Brazilian currency string ("R$ 1.234,56").
func ParseValue(raw any) (decimal.Decimal, error) {
	switch v := raw.(type) {
	case decimal.Decimal:
		return v, nil
	case float64:
		return decimal.NewFromFloat(v), nil
	case float32:
		return decimal.NewFromFloat32(v), nil
	case int:
		return decimal.NewFromInt(int64(v)), nil
	case int64:
		return decimal.NewFromInt(v), nil
	case string:
		return parseCurrency(v)
	default:
		return decimal.Zero, fmt.Errorf("%w: %v", ErrNotNumeric, raw)
	}
}

func parseCurrency(s string) (decimal.Decimal, error) {
	clean := strings.ReplaceAll(s, "R$", "")
	clean = strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, clean)
	clean = strings.ReplaceAll(clean, ".", "")  // thousands
	clean = strings.ReplaceAll(clean, ",", ".") // decimal
	if clean == "" {
		return decimal.Zero, fmt.Errorf("%w: %q", ErrNotNumeric, s)
	}

	d, err := decimal.NewFromString(clean)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %q", ErrNotNumeric, s)
	}
	return d, nil
}
