package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/shopspring/decimal"
	"github.com/yurifrl/fluxo/pkg/models"
)

// Renderer writes a dashboard to w.
type Renderer interface {
	Render(w io.Writer, d Dashboard) error
}

// TextRenderer prints the dashboard to a terminal.
type TextRenderer struct {
	// Tables toggles the income and expense tables under the summary.
	Tables bool
}

var _ Renderer = TextRenderer{}

var (
	titleStyle   = lipgloss.NewStyle().Bold(true)
	mutedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	incomeStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#00C896"))
	expenseStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF5252"))
	headerStyle  = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle    = lipgloss.NewStyle().Padding(0, 1)
)

func directionStyle(direction string) lipgloss.Style {
	if direction == models.Expense.String() {
		return expenseStyle
	}
	return incomeStyle
}

func (r TextRenderer) Render(w io.Writer, d Dashboard) error {
	if d.Empty() {
		_, err := fmt.Fprintln(w, mutedStyle.Render(d.Guidance))
		return err
	}

	var b strings.Builder
	s := d.Summary

	b.WriteString(titleStyle.Render("Fluxo de Caixa - "+s.Period.String()) + "\n\n")
	fmt.Fprintf(&b, "%-20s %s\n", "Saldo Mês Anterior", FormatMoney(s.OpeningBalance))
	fmt.Fprintf(&b, "%-20s %s%s\n", "Entradas", incomeStyle.Render(FormatMoney(s.TotalIncome)), r.delta(s.HasPrevious, s.DeltaIncomePct))
	fmt.Fprintf(&b, "%-20s %s%s\n", "Saídas", expenseStyle.Render(FormatMoney(s.TotalExpense)), r.delta(s.HasPrevious, s.DeltaExpensePct))
	net := incomeStyle
	if s.Net.IsNegative() {
		net = expenseStyle
	}
	fmt.Fprintf(&b, "%-20s %s\n", "Resultado", net.Render(FormatMoney(s.Net)))

	if len(d.Categories) > 0 {
		b.WriteString("\n" + titleStyle.Render("Despesas por categoria") + "\n")
		for _, c := range d.Categories {
			fmt.Fprintf(&b, "  %-28s %14s  %6s\n", c.Category, FormatMoney(c.Total), strings.TrimPrefix(FormatPercent(c.Share), "+"))
		}
	}

	if len(d.Daily) > 0 {
		b.WriteString("\n" + titleStyle.Render("Movimento diário") + "\n")
		for _, p := range d.Daily {
			fmt.Fprintf(&b, "  %s  %s\n", p.Date.Format("02/01/2006"), directionStyle(p.Direction).Render(fmt.Sprintf("%-8s %14s", p.Direction, FormatMoney(p.Total))))
		}
	}

	if r.Tables {
		b.WriteString("\n" + titleStyle.Render("Entradas") + "\n" + rowsTable(d.Income) + "\n")
		b.WriteString("\n" + titleStyle.Render("Saídas") + "\n" + rowsTable(d.Expenses) + "\n")
	}

	_, err := io.WriteString(w, b.String())
	return err
}

func (r TextRenderer) delta(ok bool, pct decimal.Decimal) string {
	if !ok {
		return ""
	}
	return mutedStyle.Render("  (" + FormatPercent(pct) + " vs mês anterior)")
}

// RenderRows prints rows as a table, used by the ledger listing.
func RenderRows(w io.Writer, rows []Row) error {
	_, err := fmt.Fprintln(w, rowsTable(rows))
	return err
}

func rowsTable(rows []Row) string {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(mutedStyle).
		Headers("Data", "Descrição", "Categoria", "Tipo", "Valor")
	for _, row := range rows {
		value := directionStyle(row.Direction).Render(FormatMoney(row.Value))
		t.Row(row.Date.Format("02/01/2006"), row.Description, row.Category, row.Direction, value)
	}
	t.StyleFunc(func(row, _ int) lipgloss.Style {
		if row == table.HeaderRow {
			return headerStyle
		}
		return cellStyle
	})
	return t.String()
}
