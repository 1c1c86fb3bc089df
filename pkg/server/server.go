package server

import (
	"context"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/shopspring/decimal"
	"github.com/yurifrl/fluxo/pkg/category"
	"github.com/yurifrl/fluxo/pkg/csv"
	"github.com/yurifrl/fluxo/pkg/ledger"
	"github.com/yurifrl/fluxo/pkg/models"
	"github.com/yurifrl/fluxo/pkg/report"
)

//go:embed templates/*.html
var templates embed.FS

// Source provides the ledger served by the dashboard.
type Source interface {
	Build(ctx context.Context) (*models.Ledger, error)
	Invalidate()
}

// Server serves the cash-flow dashboard over HTTP.
type Server struct {
	source   Source
	logger   *log.Logger
	mux      *http.ServeMux
	template *template.Template
}

// New creates a new HTTP server
func New(source Source, logger *log.Logger) *Server {
	tmpl := template.Must(template.New("").Funcs(template.FuncMap{
		"money":   report.FormatMoney,
		"percent": report.FormatPercent,
		"share": func(d decimal.Decimal) string {
			return strings.TrimPrefix(report.FormatPercent(d), "+")
		},
	}).ParseFS(templates, "templates/*.html"))

	s := &Server{
		source:   source,
		logger:   logger,
		mux:      http.NewServeMux(),
		template: tmpl,
	}
	s.setupRoutes()
	return s
}

func (s *Server) Handler() http.Handler {
	return s.mux
}

// Start listens on addr until ctx is cancelled.
func (s *Server) Start(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.mux,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) setupRoutes() {
	s.mux.HandleFunc("/", s.withLogging(s.handleHome))
	s.mux.HandleFunc("/healthz", s.withLogging(s.handleHealth))

	s.mux.HandleFunc("/api/periods", s.withLogging(s.handlePeriods))
	s.mux.HandleFunc("/api/dashboard", s.withLogging(s.handleDashboard))
	s.mux.HandleFunc("/api/transactions", s.withLogging(s.handleTransactions))
	s.mux.HandleFunc("/api/export.csv", s.withLogging(s.handleExport))
	s.mux.HandleFunc("/api/refresh", s.withLogging(s.handleRefresh))
}

// PeriodView is a period as listed by the API.
type PeriodView struct {
	Key      string `json:"key"`
	Label    string `json:"label"`
	Selected bool   `json:"-"`
}

func periodViews(periods []models.Period, selected models.Period) []PeriodView {
	views := make([]PeriodView, len(periods))
	for i, p := range periods {
		views[i] = PeriodView{Key: p.Key(), Label: p.String(), Selected: p.Same(selected)}
	}
	return views
}

// loadLedger builds or fetches the cached ledger. An empty dataset is not an
// error for handlers: they answer with the guidance message.
func (s *Server) loadLedger(w http.ResponseWriter, r *http.Request) (*models.Ledger, bool) {
	l, err := s.source.Build(r.Context())
	if err != nil && !errors.Is(err, ledger.ErrEmptyDataset) {
		s.respondError(w, r, http.StatusBadGateway, "failed to load sheets", err)
		return nil, false
	}
	if l == nil {
		l = models.NewLedger(nil, nil)
	}
	return l, true
}

// selectPeriod resolves the period query parameter, answering the request
// itself when it is invalid.
func (s *Server) selectPeriod(w http.ResponseWriter, r *http.Request, l *models.Ledger) (models.Period, bool) {
	p, err := report.Select(l, r.URL.Query().Get("period"))
	switch {
	case err == nil:
		return p, true
	case errors.Is(err, report.ErrUnknownPeriod):
		s.respondError(w, r, http.StatusNotFound, "period not found", err)
	default:
		s.respondError(w, r, http.StatusBadRequest, "invalid period, expected YYYY-MM", err)
	}
	return models.Period{}, false
}

func (s *Server) handleHome(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		s.respondError(w, r, http.StatusNotFound, "not found", nil)
		return
	}
	l, ok := s.loadLedger(w, r)
	if !ok {
		return
	}

	var (
		dashboard = report.Build(l, models.Period{})
		periods   []PeriodView
	)
	if !l.Empty() {
		p, ok := s.selectPeriod(w, r, l)
		if !ok {
			return
		}
		dashboard = report.Build(l, p)
		periods = periodViews(l.Periods(), p)
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.template.ExecuteTemplate(w, "index.html", map[string]any{
		"Dashboard": dashboard,
		"Periods":   periods,
	}); err != nil {
		s.respondError(w, r, http.StatusInternalServerError, "failed to render page", err)
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if err := s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"}); err != nil {
		s.logger.Warn("failed to write json response", "err", err)
	}
}

func (s *Server) handlePeriods(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.respondError(w, r, http.StatusMethodNotAllowed, "method not allowed", nil)
		return
	}
	l, ok := s.loadLedger(w, r)
	if !ok {
		return
	}

	body := map[string]any{
		"status":  "success",
		"periods": periodViews(l.Periods(), models.Period{}),
	}
	if l.Empty() {
		body["guidance"] = report.GuidanceMessage
	}
	if err := s.writeJSON(w, http.StatusOK, body); err != nil {
		s.logger.Warn("failed to write json response", "err", err)
	}
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.respondError(w, r, http.StatusMethodNotAllowed, "method not allowed", nil)
		return
	}
	l, ok := s.loadLedger(w, r)
	if !ok {
		return
	}

	if l.Empty() {
		if err := s.writeJSON(w, http.StatusOK, map[string]any{
			"status":   "success",
			"guidance": report.GuidanceMessage,
		}); err != nil {
			s.logger.Warn("failed to write json response", "err", err)
		}
		return
	}

	p, ok := s.selectPeriod(w, r, l)
	if !ok {
		return
	}
	if err := s.writeJSON(w, http.StatusOK, map[string]any{
		"status":    "success",
		"dashboard": report.Build(l, p),
	}); err != nil {
		s.logger.Warn("failed to write json response", "err", err)
	}
}

// transactionFilter turns the period and direction query parameters into a
// filter. An absent period means every period.
func (s *Server) transactionFilter(w http.ResponseWriter, r *http.Request, l *models.Ledger) (csv.FilterFunc[*models.Transaction], bool) {
	var (
		period    *models.Period
		direction *models.Direction
	)
	if r.URL.Query().Get("period") != "" {
		p, ok := s.selectPeriod(w, r, l)
		if !ok {
			return nil, false
		}
		period = &p
	}
	if raw := r.URL.Query().Get("direction"); raw != "" {
		d, err := category.ParseDirection(raw)
		if err != nil {
			s.respondError(w, r, http.StatusBadRequest, "invalid direction", err)
			return nil, false
		}
		direction = &d
	}

	return func(t *models.Transaction) bool {
		if period != nil && !t.Period().Same(*period) {
			return false
		}
		if direction != nil && t.Direction() != *direction {
			return false
		}
		return true
	}, true
}

func (s *Server) handleTransactions(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.respondError(w, r, http.StatusMethodNotAllowed, "method not allowed", nil)
		return
	}
	l, ok := s.loadLedger(w, r)
	if !ok {
		return
	}
	filter, ok := s.transactionFilter(w, r, l)
	if !ok {
		return
	}

	rows := report.Rows(l.Filter(filter))
	body := map[string]any{
		"status":       "success",
		"count":        len(rows),
		"transactions": rows,
	}
	if l.Empty() {
		body["guidance"] = report.GuidanceMessage
	}
	if err := s.writeJSON(w, http.StatusOK, body); err != nil {
		s.logger.Warn("failed to write json response", "err", err)
	}
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.respondError(w, r, http.StatusMethodNotAllowed, "method not allowed", nil)
		return
	}
	l, ok := s.loadLedger(w, r)
	if !ok {
		return
	}
	filter, ok := s.transactionFilter(w, r, l)
	if !ok {
		return
	}

	filename := "fluxo-de-caixa.csv"
	if key := r.URL.Query().Get("period"); key != "" {
		filename = fmt.Sprintf("fluxo-de-caixa-%s.csv", key)
	}
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=\"%s\"", filename))
	if _, err := w.Write(csv.Create(l.Transactions, filter)); err != nil {
		s.logger.Warn("failed to write csv response", "err", err)
	}
}

func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.respondError(w, r, http.StatusMethodNotAllowed, "method not allowed", nil)
		return
	}
	s.source.Invalidate()
	l, ok := s.loadLedger(w, r)
	if !ok {
		return
	}

	s.logger.Info("ledger refreshed", "transactions", len(l.Transactions), "periods", len(l.Periods()))
	body := map[string]any{
		"status":       "success",
		"periods":      len(l.Periods()),
		"transactions": len(l.Transactions),
	}
	if l.Empty() {
		body["guidance"] = report.GuidanceMessage
	}
	if err := s.writeJSON(w, http.StatusOK, body); err != nil {
		s.logger.Warn("failed to write json response", "err", err)
	}
}

// --- helpers ---

// writeJSON encodes v as JSON with the given status and writes headers.
func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	return json.NewEncoder(w).Encode(v)
}

// respondError logs the error and returns a minimal JSON error body.
func (s *Server) respondError(w http.ResponseWriter, r *http.Request, status int, message string, err error) {
	if err != nil {
		s.logger.Warn("request error", "status", status, "msg", message, "err", err, "method", r.Method, "path", r.URL.Path)
	} else {
		s.logger.Warn("request error", "status", status, "msg", message, "method", r.Method, "path", r.URL.Path)
	}
	_ = s.writeJSON(w, status, map[string]string{
		"status": "error",
		"error":  message,
	})
}

// withLogging wraps a handler to log requests and recover panics.
func (s *Server) withLogging(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		s.logger.Debug("http request", "method", r.Method, "path", r.URL.Path, "remote", r.RemoteAddr)
		defer func() {
			if rec := recover(); rec != nil {
				s.logger.Error("panic recovered", "panic", rec, "method", r.Method, "path", r.URL.Path)
				s.respondError(w, r, http.StatusInternalServerError, "internal server error", fmt.Errorf("panic: %v", rec))
				return
			}
			s.logger.Debug("http response", "method", r.Method, "path", r.URL.Path, "took", time.Since(start).Round(time.Millisecond))
		}()
		next(w, r)
	}
}
