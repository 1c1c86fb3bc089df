package parser

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/yurifrl/fluxo/pkg/models"
)

// Column offsets of the two blocks: description, value, date.
var (
	incomeColumns  = [3]int{0, 1, 2}
	expenseColumns = [3]int{4, 5, 6}
)

// Sheet is the result of extracting one monthly file.
type Sheet struct {
	Period         models.Period
	Income         []*models.Transaction
	Expenses       []*models.Transaction
	OpeningBalance decimal.Decimal
	// Dropped counts block rows discarded for a bad value, date or summary label.
	Dropped int
}

// Transactions returns income rows followed by expense rows.
func (s *Sheet) Transactions() []*models.Transaction {
	out := make([]*models.Transaction, 0, len(s.Income)+len(s.Expenses))
	out = append(out, s.Income...)
	return append(out, s.Expenses...)
}

// Extract reads a cash-flow sheet and tags every row with period. The first
// row is a header; at most maxRows rows below it are read.
func (p *Parser) Extract(data []byte, mimeType string, period models.Period) (sheet *Sheet, err error) {
	read, err := readerFor(mimeType)
	if err != nil {
		return nil, &ParseError{MimeType: mimeType, Err: err}
	}

	// Corrupt workbooks can make the readers panic.
	defer func() {
		if rec := recover(); rec != nil {
			sheet = nil
			err = &ParseError{MimeType: mimeType, Err: fmt.Errorf("panic: %v", rec)}
		}
	}()

	rows, total, err := read(data, p.maxRows+1)
	if err != nil {
		return nil, &ParseError{MimeType: mimeType, Err: err}
	}
	if len(rows) == 0 {
		return nil, &ParseError{MimeType: mimeType, Err: errors.New("no data found in sheet")}
	}
	if total > p.maxRows+1 {
		p.logger.Debug("sheet truncated", "period", period.Label, "rows", total-1, "max_rows", p.maxRows)
	}

	body := rows[1:]
	sheet = &Sheet{
		Period:         period,
		OpeningBalance: openingBalance(body),
	}
	sheet.Income = p.block(sheet, body, incomeColumns, models.Income)
	sheet.Expenses = p.block(sheet, body, expenseColumns, models.Expense)

	p.logger.Debug("sheet extracted", "period", period.Label,
		"income", len(sheet.Income), "expenses", len(sheet.Expenses),
		"dropped", sheet.Dropped, "opening_balance", sheet.OpeningBalance.StringFixed(2))
	return sheet, nil
}

func (p *Parser) block(sheet *Sheet, rows []row, cols [3]int, direction models.Direction) []*models.Transaction {
	var txs []*models.Transaction
	for i, r := range rows {
		rawDesc, rawValue, rawDate := r.cell(cols[0]), r.cell(cols[1]), r.cell(cols[2])
		if rawDesc == nil && rawValue == nil && rawDate == nil {
			continue
		}

		value, err := ParseValue(rawValue)
		if err != nil {
			p.logger.Debug("dropping row", "reason", "value", "direction", direction, "line", i+2, "err", err)
			sheet.Dropped++
			continue
		}

		desc := text(rawDesc)
		if isSummaryRow(desc) {
			sheet.Dropped++
			continue
		}

		date, err := parseDate(rawDate)
		if err != nil {
			p.logger.Debug("dropping row", "reason", "date", "direction", direction, "line", i+2, "err", err)
			sheet.Dropped++
			continue
		}

		cat := p.categorizer.Categorize(rawDesc, direction)
		txs = append(txs, models.NewTransaction(date, desc, value, direction, cat, sheet.Period))
	}
	return txs
}

// openingBalance returns the value next to the first "Saldo" label of the
// income block, zero when absent or unreadable.
func openingBalance(rows []row) decimal.Decimal {
	for _, r := range rows {
		if !strings.Contains(strings.ToLower(text(r.cell(incomeColumns[0]))), "saldo") {
			continue
		}
		v, err := ParseValue(r.cell(incomeColumns[1]))
		if err != nil {
			return decimal.Zero
		}
		return v
	}
	return decimal.Zero
}

func isSummaryRow(desc string) bool {
	lower := strings.ToLower(desc)
	return strings.Contains(lower, "total") || strings.Contains(lower, "saldo")
}

func text(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(t)
	case float64:
		return decimal.NewFromFloat(t).String()
	default:
		return fmt.Sprint(t)
	}
}
