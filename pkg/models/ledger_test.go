package models

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestNewLedgerSortsByPeriod(t *testing.T) {
	nov := NewPeriod(2025, time.November, "Novembro 2025")
	oct := NewPeriod(2025, time.October, "Outubro 2025")
	bad := SentinelPeriod("Fluxo de Caixa Xyz.xlsx")

	l := NewLedger([]*Transaction{
		NewTransaction(day(2025, 11, 20), "b", decimal.NewFromInt(2), Expense, "x", nov),
		NewTransaction(day(2025, 10, 3), "a", decimal.NewFromInt(1), Income, "x", oct),
		NewTransaction(day(2025, 11, 1), "c", decimal.NewFromInt(3), Income, "x", nov),
		NewTransaction(day(2024, 1, 1), "d", decimal.NewFromInt(4), Income, "x", bad),
	}, nil)

	got := []string{}
	for _, tx := range l.Transactions {
		got = append(got, tx.Description())
	}
	want := []string{"d", "a", "c", "b"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("order = %v, want %v", got, want)
		}
	}

	periods := l.Periods()
	if len(periods) != 3 || !periods[0].IsSentinel() || periods[2].Label != "Novembro 2025" {
		t.Errorf("periods = %+v", periods)
	}

	if latest, ok := l.Latest(); !ok || !latest.Same(nov) {
		t.Errorf("latest = %+v", latest)
	}
	if prev, ok := l.Previous(nov); !ok || !prev.Same(oct) {
		t.Errorf("previous(nov) = %+v", prev)
	}
	if _, ok := l.Previous(bad); ok {
		t.Error("sentinel period should have no previous period")
	}
	if total := l.Total(nov, Income); !total.Equal(decimal.NewFromInt(3)) {
		t.Errorf("income total = %s, want 3", total)
	}
	if p, ok := l.Lookup("2025-10"); !ok || p.Label != "Outubro 2025" {
		t.Errorf("lookup = %+v", p)
	}
}

func TestBalancesDefault(t *testing.T) {
	p := NewPeriod(2025, time.May, "Maio 2025")
	b := Balances{p.Key(): decimal.NewFromInt(10)}
	if !b.For(p).Equal(decimal.NewFromInt(10)) {
		t.Errorf("balance = %s", b.For(p))
	}
	if !b.For(NewPeriod(2025, time.June, "")).IsZero() {
		t.Error("missing balance should default to zero")
	}
}

func TestTransactionStoresAbsoluteValue(t *testing.T) {
	tx := NewTransaction(day(2025, 1, 1), "estorno", decimal.NewFromInt(-50), Expense, "x", NewPeriod(2025, time.January, ""))
	if !tx.Value().Equal(decimal.NewFromInt(50)) {
		t.Errorf("value = %s, want 50", tx.Value())
	}
	if !tx.Signed().Equal(decimal.NewFromInt(-50)) {
		t.Errorf("signed = %s, want -50", tx.Signed())
	}
}

func TestParsePeriodKey(t *testing.T) {
	p, err := ParsePeriodKey("2025-03")
	if err != nil {
		t.Fatalf("ParsePeriodKey failed: %v", err)
	}
	if p.Year != 2025 || p.Month != time.March || p.Key() != "2025-03" {
		t.Errorf("got %+v", p)
	}
	if _, err := ParsePeriodKey("março"); err == nil {
		t.Error("expected error")
	}
}
