package parser

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
)

func TestParseValue(t *testing.T) {
	tests := []struct {
		raw  any
		want string
	}{
		{"R$ 1.234,56", "1234.56"},
		{"1.234,56", "1234.56"},
		{"R$1.000.000,00", "1000000"},
		{" 12 ", "12"},
		{"-50,00", "-50"},
		{"R$ 0,99", "0.99"},
		{"R$ 250,00", "250"},
		{1234.56, "1234.56"},
		{float32(2.5), "2.5"},
		{3, "3"},
		{int64(7), "7"},
		{decimal.RequireFromString("10.01"), "10.01"},
	}

	for _, tt := range tests {
		got, err := ParseValue(tt.raw)
		if err != nil {
			t.Errorf("ParseValue(%#v) failed: %v", tt.raw, err)
			continue
		}
		if !got.Equal(decimal.RequireFromString(tt.want)) {
			t.Errorf("ParseValue(%#v) = %s, want %s", tt.raw, got, tt.want)
		}
	}
}

func TestParseValueNotNumeric(t *testing.T) {
	for _, raw := range []any{"", "   ", "R$ ", "abc", "R$ 12,34,56x", nil, true} {
		if _, err := ParseValue(raw); !errors.Is(err, ErrNotNumeric) {
			t.Errorf("ParseValue(%#v): expected ErrNotNumeric, got %v", raw, err)
		}
	}
}
