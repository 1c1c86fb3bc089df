package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Direction tells whether money came in or went out.
type Direction int

const (
	Income Direction = iota
	Expense
)

// String returns the label used on the source sheets.
func (d Direction) String() string {
	switch d {
	case Income:
		return "Entrada"
	case Expense:
		return "Saída"
	default:
		return "Desconhecido"
	}
}

// Transaction is one normalized row of a cash-flow sheet.
type Transaction struct {
	date        time.Time
	description string
	value       decimal.Decimal
	direction   Direction
	category    string
	period      Period
}

// NewTransaction builds a transaction. The value is stored as an absolute
// amount; the direction carries the sign.
func NewTransaction(date time.Time, description string, value decimal.Decimal, direction Direction, category string, period Period) *Transaction {
	return &Transaction{
		date:        date,
		description: description,
		value:       value.Abs(),
		direction:   direction,
		category:    category,
		period:      period,
	}
}

func (t *Transaction) Date() time.Time        { return t.date }
func (t *Transaction) Description() string    { return t.description }
func (t *Transaction) Value() decimal.Decimal { return t.value }
func (t *Transaction) Direction() Direction   { return t.direction }
func (t *Transaction) Category() string       { return t.category }
func (t *Transaction) Period() Period         { return t.period }
func (t *Transaction) IsIncome() bool         { return t.direction == Income }
func (t *Transaction) IsExpense() bool        { return t.direction == Expense }

// Signed returns the value with the sign implied by the direction.
func (t *Transaction) Signed() decimal.Decimal {
	if t.direction == Expense {
		return t.value.Neg()
	}
	return t.value
}

// Equal compares value, date, category, direction and period.
func (t *Transaction) Equal(o *Transaction) bool {
	if t == nil || o == nil {
		return t == o
	}
	return t.date.Equal(o.date) &&
		t.description == o.description &&
		t.value.Equal(o.value) &&
		t.direction == o.direction &&
		t.category == o.category &&
		t.period.Key() == o.period.Key()
}
