// Package report assembles the dashboard view of one period and renders it.
package report

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"
	"github.com/yurifrl/fluxo/pkg/models"
	"github.com/yurifrl/fluxo/pkg/summary"
)

// GuidanceMessage is shown instead of a dashboard when no sheet was loaded.
const GuidanceMessage = "Renomeie seus arquivos para 'Fluxo de Caixa Mês - Ano.xlsx' (ex: Fluxo de Caixa Novembro - 2025.xlsx)"

var ErrUnknownPeriod = errors.New("unknown period")

// DailyPoint is the sum of one direction on one day.
type DailyPoint struct {
	Date      time.Time       `json:"date"`
	Direction string          `json:"direction"`
	Total     decimal.Decimal `json:"total"`
}

// CategoryShare is the expense total of a category and its percentage of all
// expenses of the period.
type CategoryShare struct {
	Category string          `json:"category"`
	Total    decimal.Decimal `json:"total"`
	Share    decimal.Decimal `json:"share"`
}

type Row struct {
	Date        time.Time       `json:"date"`
	Description string          `json:"description"`
	Value       decimal.Decimal `json:"value"`
	Direction   string          `json:"direction"`
	Category    string          `json:"category"`
	Period      string          `json:"period"`
}

func NewRow(t *models.Transaction) Row {
	return Row{
		Date:        t.Date(),
		Description: t.Description(),
		Value:       t.Value(),
		Direction:   t.Direction().String(),
		Category:    t.Category(),
		Period:      t.Period().Key(),
	}
}

// Rows converts transactions to table rows, sorted by date.
func Rows(txs []*models.Transaction) []Row {
	rows := make([]Row, 0, len(txs))
	for _, t := range txs {
		rows = append(rows, NewRow(t))
	}
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].Date.Before(rows[j].Date) })
	return rows
}

type Dashboard struct {
	Periods    []models.Period `json:"periods"`
	Summary    summary.Summary `json:"summary"`
	Daily      []DailyPoint    `json:"daily"`
	Categories []CategoryShare `json:"categories"`
	Income     []Row           `json:"income"`
	Expenses   []Row           `json:"expenses"`
	Unified    []Row           `json:"unified"`
	Guidance   string          `json:"guidance,omitempty"`
}

// Empty reports whether the dashboard carries only the guidance message.
func (d Dashboard) Empty() bool {
	return d.Guidance != ""
}

// Select returns the ledger period for key, or the latest one when key is
// empty.
func Select(ledger *models.Ledger, key string) (models.Period, error) {
	if key == "" {
		p, ok := ledger.Latest()
		if !ok {
			return models.Period{}, ErrUnknownPeriod
		}
		return p, nil
	}
	if _, err := models.ParsePeriodKey(key); err != nil {
		return models.Period{}, err
	}
	p, ok := ledger.Lookup(key)
	if !ok {
		return models.Period{}, fmt.Errorf("%w: %s", ErrUnknownPeriod, key)
	}
	return p, nil
}

// Build assembles the dashboard of period p. An empty ledger yields a
// dashboard holding only the guidance message.
func Build(ledger *models.Ledger, p models.Period) Dashboard {
	if ledger.Empty() {
		return Dashboard{Guidance: GuidanceMessage}
	}

	txs := ledger.InPeriod(p)
	var income, expenses []*models.Transaction
	for _, t := range txs {
		if t.IsIncome() {
			income = append(income, t)
		} else {
			expenses = append(expenses, t)
		}
	}

	return Dashboard{
		Periods:    ledger.Periods(),
		Summary:    summary.Summarize(ledger, p),
		Daily:      daily(txs),
		Categories: categories(expenses),
		Income:     Rows(income),
		Expenses:   Rows(expenses),
		Unified:    Rows(txs),
	}
}

func daily(txs []*models.Transaction) []DailyPoint {
	type key struct {
		date time.Time
		dir  models.Direction
	}
	sums := make(map[key]decimal.Decimal)
	for _, t := range txs {
		k := key{t.Date(), t.Direction()}
		sums[k] = sums[k].Add(t.Value())
	}

	keys := make([]key, 0, len(sums))
	for k := range sums {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if !keys[i].date.Equal(keys[j].date) {
			return keys[i].date.Before(keys[j].date)
		}
		return keys[i].dir < keys[j].dir
	})

	points := make([]DailyPoint, 0, len(keys))
	for _, k := range keys {
		points = append(points, DailyPoint{Date: k.date, Direction: k.dir.String(), Total: sums[k]})
	}
	return points
}

func categories(expenses []*models.Transaction) []CategoryShare {
	sums := make(map[string]decimal.Decimal)
	total := decimal.Zero
	for _, t := range expenses {
		sums[t.Category()] = sums[t.Category()].Add(t.Value())
		total = total.Add(t.Value())
	}

	out := make([]CategoryShare, 0, len(sums))
	for name, sum := range sums {
		share := decimal.Zero
		if total.IsPositive() {
			share = sum.Div(total).Mul(decimal.NewFromInt(100)).Round(2)
		}
		out = append(out, CategoryShare{Category: name, Total: sum, Share: share})
	}
	sort.Slice(out, func(i, j int) bool {
		if c := out[i].Total.Cmp(out[j].Total); c != 0 {
			return c > 0
		}
		return out[i].Category < out[j].Category
	})
	return out
}
