package report

import (
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// printer returns a Brazilian Portuguese printer. Printers keep formatting
// state, so each call gets its own.
func printer() *message.Printer {
	return message.NewPrinter(language.BrazilianPortuguese)
}

// FormatMoney formats d as Brazilian reais, e.g. "R$ 1.234,56".
func FormatMoney(d decimal.Decimal) string {
	sign := ""
	if d.Round(2).IsNegative() {
		sign = "-"
	}
	return sign + printer().Sprintf("R$ %.2f", d.Abs().Round(2).InexactFloat64())
}

// FormatPercent formats a percentage with one decimal and a sign.
func FormatPercent(d decimal.Decimal) string {
	d = d.Round(1)
	sign := ""
	switch {
	case d.IsPositive():
		sign = "+"
	case d.IsNegative():
		sign = "-"
	}
	return sign + printer().Sprintf("%.1f%%", d.Abs().InexactFloat64())
}
