package filestore

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/yurifrl/fluxo/pkg/models"
)

// Local reads sheets from a directory on disk. File ids are paths.
type Local struct {
	logger *log.Logger
}

var _ FileStore = (*Local)(nil)

func NewLocal(logger *log.Logger) *Local {
	return &Local{logger: logger}
}

func (l *Local) List(_ context.Context, folder string) ([]File, error) {
	entries, err := os.ReadDir(folder)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory: %w", err)
	}

	var files []File
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		files = append(files, File{
			ID:       filepath.Join(folder, entry.Name()),
			Name:     entry.Name(),
			MimeType: mimeFor(entry.Name(), ""),
		})
	}
	l.logger.Debug("listed directory", "dir", folder, "files", len(files))
	return files, nil
}

func (l *Local) Download(_ context.Context, id, _ string) ([]byte, error) {
	data, err := os.ReadFile(id)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	return data, nil
}

// mimeFor prefers the extension, since object stores often report a
// generic content type for spreadsheets.
func mimeFor(name, reported string) string {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".xlsx":
		return models.MimeXLSX
	case ".xls":
		return models.MimeXLS
	}
	if reported != "" {
		return reported
	}
	return "application/octet-stream"
}
