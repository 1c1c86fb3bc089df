// Package ledger assembles the ledger of every monthly sheet in a folder.
package ledger

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/yurifrl/fluxo/pkg/filestore"
	"github.com/yurifrl/fluxo/pkg/models"
	"github.com/yurifrl/fluxo/pkg/parser"
	"golang.org/x/sync/errgroup"
)

// ErrEmptyDataset means no file matched the naming convention or every
// matching file failed. The ledger returned with it is empty but usable.
var ErrEmptyDataset = errors.New("no cash-flow sheets could be loaded")

// Builder lists a folder, extracts every cash-flow sheet in it and merges
// the results.
type Builder struct {
	store       filestore.FileStore
	parser      *parser.Parser
	resolver    *parser.Resolver
	logger      *log.Logger
	folder      string
	marker      string
	concurrency int
	timeout     time.Duration
}

type Option func(*Builder)

func WithConcurrency(n int) Option {
	return func(b *Builder) {
		if n > 0 {
			b.concurrency = n
		}
	}
}

// WithTimeout bounds a whole build.
func WithTimeout(d time.Duration) Option {
	return func(b *Builder) { b.timeout = d }
}

// WithMarker overrides the phrase file names must contain.
func WithMarker(marker string) Option {
	return func(b *Builder) {
		if marker != "" {
			b.marker = marker
		}
	}
}

func NewBuilder(store filestore.FileStore, p *parser.Parser, resolver *parser.Resolver, folder string, logger *log.Logger, opts ...Option) *Builder {
	b := &Builder{
		store:       store,
		parser:      p,
		resolver:    resolver,
		logger:      logger,
		folder:      folder,
		marker:      resolver.Marker,
		concurrency: 4,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

type fileResult struct {
	file  filestore.File
	sheet *parser.Sheet
	err   error
}

// Build lists the folder and extracts every matching file. Files that fail
// are logged and skipped. A listing failure or a cancelled or timed out ctx
// is returned as an error; an empty result comes back as an empty ledger
// with ErrEmptyDataset.
func (b *Builder) Build(ctx context.Context) (*models.Ledger, error) {
	runID := uuid.NewString()
	logger := b.logger.With("run", runID[:8])
	start := time.Now()

	if b.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, b.timeout)
		defer cancel()
	}

	files, err := b.store.List(ctx, b.folder)
	if err != nil {
		return nil, fmt.Errorf("failed to list folder: %w", err)
	}

	var matched []filestore.File
	for _, f := range files {
		if strings.Contains(f.Name, b.marker) {
			matched = append(matched, f)
		}
	}
	logger.Info("listed folder", "files", len(files), "matched", len(matched))

	results := make([]fileResult, len(matched))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(b.concurrency)
	for i, f := range matched {
		g.Go(func() error {
			sheet, err := b.processFile(gctx, logger, f)
			results[i] = fileResult{file: f, sheet: sheet, err: err}
			return nil
		})
	}
	_ = g.Wait()

	// An interrupted build is neither empty nor complete.
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("build interrupted: %w", err)
	}

	var (
		txs      []*models.Transaction
		balances = models.Balances{}
		loaded   int
	)
	for _, r := range results {
		if r.err != nil {
			logger.Warn("skipping file", "file", r.file.Name, "err", r.err)
			continue
		}
		loaded++
		txs = append(txs, r.sheet.Transactions()...)
		balances[r.sheet.Period.Key()] = r.sheet.OpeningBalance
	}

	ledger := models.NewLedger(txs, balances)
	logger.Info("ledger built", "files", loaded, "failed", len(matched)-loaded,
		"transactions", len(txs), "periods", len(ledger.Periods()), "took", time.Since(start).Round(time.Millisecond))

	if loaded == 0 {
		return ledger, ErrEmptyDataset
	}
	return ledger, nil
}

func (b *Builder) processFile(ctx context.Context, logger *log.Logger, f filestore.File) (*parser.Sheet, error) {
	period, err := b.resolver.Resolve(f.Name)
	if err != nil {
		logger.Warn("file name not resolved, using sentinel period", "file", f.Name, "err", err)
	}

	data, err := b.store.Download(ctx, f.ID, f.MimeType)
	if err != nil {
		return nil, fmt.Errorf("failed to download: %w", err)
	}

	sheet, err := b.parser.Extract(data, filestore.ContentType(f.MimeType), period)
	if err != nil {
		return nil, err
	}
	logger.Debug("processed file", "file", f.Name, "period", period.Key(),
		"income", len(sheet.Income), "expenses", len(sheet.Expenses))
	return sheet, nil
}
