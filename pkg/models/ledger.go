package models

import (
	"sort"

	"github.com/shopspring/decimal"
)

// Balances maps a period key to the opening balance declared on its sheet.
type Balances map[string]decimal.Decimal

// For returns the opening balance of p, zero when the sheet declared none.
func (b Balances) For(p Period) decimal.Decimal {
	if v, ok := b[p.Key()]; ok {
		return v
	}
	return decimal.Zero
}

// Ledger is the merged, period-sorted set of transactions of every sheet.
// It is read-only once built.
type Ledger struct {
	Transactions []*Transaction
	Balances     Balances
}

// NewLedger sorts txs by period then date and wraps them with balances.
func NewLedger(txs []*Transaction, balances Balances) *Ledger {
	if balances == nil {
		balances = Balances{}
	}
	sort.SliceStable(txs, func(i, j int) bool {
		pi, pj := txs[i].Period(), txs[j].Period()
		if !pi.Same(pj) {
			return pi.Before(pj)
		}
		return txs[i].Date().Before(txs[j].Date())
	})
	return &Ledger{Transactions: txs, Balances: balances}
}

func (l *Ledger) Empty() bool {
	return l == nil || len(l.Transactions) == 0
}

// Periods returns the distinct periods in ascending order. The label of a
// period is the one of its first transaction.
func (l *Ledger) Periods() []Period {
	if l == nil {
		return nil
	}
	seen := make(map[string]bool)
	var out []Period
	for _, t := range l.Transactions {
		p := t.Period()
		if seen[p.Key()] {
			continue
		}
		seen[p.Key()] = true
		out = append(out, p)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Before(out[j]) })
	return out
}

// Lookup returns the ledger's own period for a key, with its label.
func (l *Ledger) Lookup(key string) (Period, bool) {
	for _, p := range l.Periods() {
		if p.Key() == key {
			return p, true
		}
	}
	return Period{}, false
}

// Latest returns the most recent period.
func (l *Ledger) Latest() (Period, bool) {
	periods := l.Periods()
	if len(periods) == 0 {
		return Period{}, false
	}
	return periods[len(periods)-1], true
}

// Previous returns the period immediately before p in the ledger.
func (l *Ledger) Previous(p Period) (Period, bool) {
	periods := l.Periods()
	for i, candidate := range periods {
		if candidate.Same(p) {
			if i == 0 {
				return Period{}, false
			}
			return periods[i-1], true
		}
	}
	return Period{}, false
}

// Filter returns the transactions accepted by fn, in ledger order.
func (l *Ledger) Filter(fn func(*Transaction) bool) []*Transaction {
	if l == nil {
		return nil
	}
	var out []*Transaction
	for _, t := range l.Transactions {
		if fn == nil || fn(t) {
			out = append(out, t)
		}
	}
	return out
}

// InPeriod returns the transactions of p.
func (l *Ledger) InPeriod(p Period) []*Transaction {
	return l.Filter(func(t *Transaction) bool { return t.Period().Same(p) })
}

// Total sums the values of p in the given direction.
func (l *Ledger) Total(p Period, d Direction) decimal.Decimal {
	total := decimal.Zero
	for _, t := range l.InPeriod(p) {
		if t.Direction() == d {
			total = total.Add(t.Value())
		}
	}
	return total
}
