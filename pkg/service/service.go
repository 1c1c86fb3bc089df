// Package service wires configuration into the ledger pipeline shared by the
// CLI and the HTTP server.
package service

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/charmbracelet/log"
	"github.com/yurifrl/fluxo/pkg/category"
	"github.com/yurifrl/fluxo/pkg/config"
	"github.com/yurifrl/fluxo/pkg/filestore"
	"github.com/yurifrl/fluxo/pkg/ledger"
	"github.com/yurifrl/fluxo/pkg/models"
	"github.com/yurifrl/fluxo/pkg/parser"
	"github.com/yurifrl/fluxo/pkg/report"
)

type Service struct {
	Store    filestore.FileStore
	Resolver *parser.Resolver
	Ledger   *ledger.Cached
	logger   *log.Logger
}

func New(ctx context.Context, cfg *config.Config, logger *log.Logger) (*Service, error) {
	categorizer := category.Default()
	if cfg.RulesFile != "" {
		c, err := category.Load(cfg.RulesFile)
		if err != nil {
			return nil, err
		}
		categorizer = c
		logger.Debug("loaded category rules", "file", cfg.RulesFile, "rules", len(c.Rules()))
	}

	store, err := filestore.New(ctx, cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create file store: %w", err)
	}

	resolver := parser.NewResolver(cfg.FallbackYear)
	if cfg.Marker != "" {
		resolver.Marker = cfg.Marker
	}

	p := parser.New(logger, categorizer, parser.WithMaxRows(cfg.MaxRows))
	builder := ledger.NewBuilder(store, p, resolver, cfg.Folder, logger,
		ledger.WithConcurrency(cfg.Concurrency),
		ledger.WithTimeout(cfg.RequestTimeout),
	)

	return &Service{
		Store:    store,
		Resolver: resolver,
		Ledger:   ledger.NewCached(builder, cfg.CacheTTL, logger),
		logger:   logger,
	}, nil
}

// Load returns the ledger. An empty dataset is not an error here: callers
// check Ledger.Empty and show the guidance message.
func (s *Service) Load(ctx context.Context) (*models.Ledger, error) {
	l, err := s.Ledger.Build(ctx)
	if err != nil && !errors.Is(err, ledger.ErrEmptyDataset) {
		return nil, err
	}
	if l == nil {
		l = models.NewLedger(nil, nil)
	}
	return l, nil
}

// Dashboard builds the dashboard of the period with the given key, or of the
// latest period when key is empty.
func (s *Service) Dashboard(ctx context.Context, key string) (report.Dashboard, error) {
	l, err := s.Load(ctx)
	if err != nil {
		return report.Dashboard{}, err
	}
	if l.Empty() {
		return report.Build(l, models.Period{}), nil
	}
	p, err := report.Select(l, key)
	if err != nil {
		return report.Dashboard{}, err
	}
	return report.Build(l, p), nil
}

func (s *Service) Close() error {
	if c, ok := s.Store.(io.Closer); ok {
		return c.Close()
	}
	return nil
}
