// Package filestore lists and downloads the monthly cash-flow spreadsheets.
package filestore

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/yurifrl/fluxo/pkg/config"
	"github.com/yurifrl/fluxo/pkg/models"
)

// File is one entry of a folder listing.
type File struct {
	ID       string
	Name     string
	MimeType string
}

// FileStore is the remote folder the sheets live in.
type FileStore interface {
	List(ctx context.Context, folder string) ([]File, error)
	// Download returns the file bytes. Native online spreadsheets are
	// exported to XLSX.
	Download(ctx context.Context, id, mimeType string) ([]byte, error)
}

// ContentType returns the format Download yields for a file of mimeType.
func ContentType(mimeType string) string {
	if mimeType == models.MimeGoogleSheet {
		return models.MimeXLSX
	}
	return mimeType
}

// New builds the store selected by cfg.Backend.
func New(ctx context.Context, cfg *config.Config, logger *log.Logger) (FileStore, error) {
	switch cfg.Backend {
	case config.BackendDrive:
		return NewDrive(ctx, cfg, logger)
	case config.BackendGCS:
		return NewGCS(ctx, cfg, logger)
	case config.BackendLocal:
		return NewLocal(logger), nil
	case config.BackendMemory:
		return NewMemory(), nil
	default:
		return nil, fmt.Errorf("unknown backend %q", cfg.Backend)
	}
}
