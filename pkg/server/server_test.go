package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/shopspring/decimal"
	"github.com/yurifrl/fluxo/pkg/ledger"
	"github.com/yurifrl/fluxo/pkg/models"
	"github.com/yurifrl/fluxo/pkg/report"
)

type fakeSource struct {
	ledger      *models.Ledger
	err         error
	builds      int
	invalidated int
}

func (f *fakeSource) Build(context.Context) (*models.Ledger, error) {
	f.builds++
	return f.ledger, f.err
}

func (f *fakeSource) Invalidate() { f.invalidated++ }

func sampleLedger() *models.Ledger {
	oct := models.NewPeriod(2025, time.October, "Outubro 2025")
	nov := models.NewPeriod(2025, time.November, "Novembro 2025")
	day := func(p models.Period, d int) time.Time { return time.Date(p.Year, p.Month, d, 0, 0, 0, 0, time.UTC) }
	return models.NewLedger([]*models.Transaction{
		models.NewTransaction(day(oct, 3), "Morador", decimal.NewFromInt(1000), models.Income, "Receita Aluguéis", oct),
		models.NewTransaction(day(nov, 5), "Aluguel", decimal.RequireFromString("1234.56"), models.Income, "Receita Aluguéis", nov),
		models.NewTransaction(day(nov, 10), "Luz", decimal.NewFromInt(250), models.Expense, "Energia Elétrica", nov),
	}, models.Balances{nov.Key(): decimal.NewFromInt(1500)})
}

func newTestServer(src *fakeSource) *Server {
	return New(src, log.New(io.Discard))
}

func do(t *testing.T, s *Server, method, target string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(method, target, nil))
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("Failed to decode body: %v", err)
	}
	return body
}

func TestPeriods(t *testing.T) {
	s := newTestServer(&fakeSource{ledger: sampleLedger()})

	rec := do(t, s, http.MethodGet, "/api/periods")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	periods := decode(t, rec)["periods"].([]any)
	if len(periods) != 2 {
		t.Fatalf("expected 2 periods, got %d", len(periods))
	}
	last := periods[1].(map[string]any)
	if last["key"] != "2025-11" || last["label"] != "Novembro 2025" {
		t.Errorf("last period = %v", last)
	}
}

func TestDashboard(t *testing.T) {
	s := newTestServer(&fakeSource{ledger: sampleLedger()})

	rec := do(t, s, http.MethodGet, "/api/dashboard")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	dashboard := decode(t, rec)["dashboard"].(map[string]any)
	summary := dashboard["summary"].(map[string]any)
	if summary["total_income"] != "1234.56" || summary["opening_balance"] != "1500" {
		t.Errorf("summary = %v", summary)
	}
	if got := len(dashboard["unified"].([]any)); got != 2 {
		t.Errorf("expected 2 unified rows, got %d", got)
	}

	rec = do(t, s, http.MethodGet, "/api/dashboard?period=2025-10")
	summary = decode(t, rec)["dashboard"].(map[string]any)["summary"].(map[string]any)
	if summary["total_income"] != "1000" {
		t.Errorf("october income = %v", summary["total_income"])
	}
}

func TestDashboardInvalidPeriod(t *testing.T) {
	s := newTestServer(&fakeSource{ledger: sampleLedger()})

	if rec := do(t, s, http.MethodGet, "/api/dashboard?period=2020-01"); rec.Code != http.StatusNotFound {
		t.Errorf("unknown period status = %d, want 404", rec.Code)
	}
	if rec := do(t, s, http.MethodGet, "/api/dashboard?period=nov"); rec.Code != http.StatusBadRequest {
		t.Errorf("malformed period status = %d, want 400", rec.Code)
	}
	if rec := do(t, s, http.MethodPost, "/api/dashboard"); rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("POST status = %d, want 405", rec.Code)
	}
}

func TestEmptyDatasetGuidance(t *testing.T) {
	s := newTestServer(&fakeSource{ledger: models.NewLedger(nil, nil), err: ledger.ErrEmptyDataset})

	for _, path := range []string{"/api/dashboard", "/api/periods", "/api/transactions"} {
		rec := do(t, s, http.MethodGet, path)
		if rec.Code != http.StatusOK {
			t.Errorf("%s status = %d", path, rec.Code)
			continue
		}
		if got := decode(t, rec)["guidance"]; got != report.GuidanceMessage {
			t.Errorf("%s guidance = %v", path, got)
		}
	}

	rec := do(t, s, http.MethodGet, "/")
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "Fluxo de Caixa Novembro - 2025.xlsx") {
		t.Errorf("home page = %d %s", rec.Code, rec.Body.String())
	}
}

func TestSourceFailure(t *testing.T) {
	s := newTestServer(&fakeSource{err: errors.New("drive unavailable")})

	rec := do(t, s, http.MethodGet, "/api/dashboard")
	if rec.Code != http.StatusBadGateway {
		t.Errorf("status = %d, want 502", rec.Code)
	}
	if body := decode(t, rec); body["status"] != "error" {
		t.Errorf("body = %v", body)
	}
}

func TestTransactions(t *testing.T) {
	s := newTestServer(&fakeSource{ledger: sampleLedger()})

	tests := []struct {
		query string
		count float64
	}{
		{"", 3},
		{"?period=2025-11", 2},
		{"?direction=saida", 1},
		{"?period=2025-11&direction=entrada", 1},
	}
	for _, tt := range tests {
		rec := do(t, s, http.MethodGet, "/api/transactions"+tt.query)
		if rec.Code != http.StatusOK {
			t.Errorf("%q status = %d", tt.query, rec.Code)
			continue
		}
		if got := decode(t, rec)["count"]; got != tt.count {
			t.Errorf("%q count = %v, want %v", tt.query, got, tt.count)
		}
	}

	if rec := do(t, s, http.MethodGet, "/api/transactions?direction=sideways"); rec.Code != http.StatusBadRequest {
		t.Errorf("invalid direction status = %d, want 400", rec.Code)
	}
}

func TestExport(t *testing.T) {
	s := newTestServer(&fakeSource{ledger: sampleLedger()})

	rec := do(t, s, http.MethodGet, "/api/export.csv?period=2025-11")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "text/csv" {
		t.Errorf("content type = %q", ct)
	}
	if cd := rec.Header().Get("Content-Disposition"); !strings.Contains(cd, "fluxo-de-caixa-2025-11.csv") {
		t.Errorf("content disposition = %q", cd)
	}
	lines := strings.Split(strings.TrimSpace(rec.Body.String()), "\n")
	if len(lines) != 3 {
		t.Errorf("expected header and 2 rows, got %d lines:\n%s", len(lines), rec.Body.String())
	}
}

func TestRefresh(t *testing.T) {
	src := &fakeSource{ledger: sampleLedger()}
	s := newTestServer(src)

	if rec := do(t, s, http.MethodGet, "/api/refresh"); rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("GET status = %d, want 405", rec.Code)
	}
	rec := do(t, s, http.MethodPost, "/api/refresh")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if src.invalidated != 1 || src.builds != 1 {
		t.Errorf("invalidated = %d, builds = %d", src.invalidated, src.builds)
	}
	if got := decode(t, rec)["transactions"]; got != float64(3) {
		t.Errorf("transactions = %v", got)
	}
}

func TestHome(t *testing.T) {
	s := newTestServer(&fakeSource{ledger: sampleLedger()})

	rec := do(t, s, http.MethodGet, "/?period=2025-11")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	body := rec.Body.String()
	for _, want := range []string{
		"Novembro 2025", "R$ 1.234,56", "R$ 1.500,00", "Energia Elétrica",
		"23,5% vs mês anterior", "Movimento diário", "10/11/2025", "<h2>Entradas</h2>", "<h2>Saídas</h2>",
	} {
		if !strings.Contains(body, want) {
			t.Errorf("page missing %q", want)
		}
	}

	if rec := do(t, s, http.MethodGet, "/missing"); rec.Code != http.StatusNotFound {
		t.Errorf("unknown path status = %d, want 404", rec.Code)
	}
}

func TestHealth(t *testing.T) {
	s := newTestServer(&fakeSource{})
	if rec := do(t, s, http.MethodGet, "/healthz"); rec.Code != http.StatusOK {
		t.Errorf("status = %d", rec.Code)
	}
}
