// Package summary computes the monthly KPIs shown on top of the dashboard.
package summary

import (
	"github.com/shopspring/decimal"
	"github.com/yurifrl/fluxo/pkg/models"
)

var hundred = decimal.NewFromInt(100)

type Summary struct {
	Period         models.Period   `json:"period"`
	OpeningBalance decimal.Decimal `json:"opening_balance"`
	TotalIncome    decimal.Decimal `json:"total_income"`
	TotalExpense   decimal.Decimal `json:"total_expense"`
	Net            decimal.Decimal `json:"net"`
	// HasPrevious is false for the first period of the ledger.
	HasPrevious     bool            `json:"has_previous"`
	Previous        models.Period   `json:"previous"`
	DeltaIncomePct  decimal.Decimal `json:"delta_income_pct"`
	DeltaExpensePct decimal.Decimal `json:"delta_expense_pct"`
}

// Summarize totals period p and compares it with the period right before it
// in the ledger. Deltas stay at zero when there is no previous period or its
// total is not positive.
func Summarize(ledger *models.Ledger, p models.Period) Summary {
	s := Summary{
		Period:          p,
		OpeningBalance:  ledger.Balances.For(p),
		TotalIncome:     ledger.Total(p, models.Income),
		TotalExpense:    ledger.Total(p, models.Expense),
		DeltaIncomePct:  decimal.Zero,
		DeltaExpensePct: decimal.Zero,
	}
	s.Net = s.TotalIncome.Sub(s.TotalExpense)

	prev, ok := ledger.Previous(p)
	if !ok {
		return s
	}
	s.HasPrevious = true
	s.Previous = prev
	s.DeltaIncomePct = delta(s.TotalIncome, ledger.Total(prev, models.Income))
	s.DeltaExpensePct = delta(s.TotalExpense, ledger.Total(prev, models.Expense))
	return s
}

func delta(cur, prev decimal.Decimal) decimal.Decimal {
	if !prev.IsPositive() {
		return decimal.Zero
	}
	return cur.Sub(prev).Div(prev).Mul(hundred)
}

// Closing is the balance carried into the next period.
func (s Summary) Closing() decimal.Decimal {
	return s.OpeningBalance.Add(s.Net)
}
