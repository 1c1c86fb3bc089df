package filestore

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/yurifrl/fluxo/pkg/config"
	"github.com/yurifrl/fluxo/pkg/models"
	"google.golang.org/api/drive/v3"
	"google.golang.org/api/option"
)

// Drive reads a Google Drive folder with a service account.
type Drive struct {
	svc    *drive.Service
	logger *log.Logger
}

var _ FileStore = (*Drive)(nil)

// NewDrive creates a read-only Drive client from the credentials in cfg.
// CredentialsJSON wins over CredentialsFile; with neither, application
// default credentials are used.
func NewDrive(ctx context.Context, cfg *config.Config, logger *log.Logger) (*Drive, error) {
	opts := []option.ClientOption{
		option.WithScopes(drive.DriveReadonlyScope),
	}
	switch {
	case strings.TrimSpace(cfg.CredentialsJSON) != "":
		logger.Debug("using inline service account credentials")
		opts = append(opts, option.WithCredentialsJSON([]byte(cfg.CredentialsJSON)))
	case cfg.CredentialsFile != "":
		if _, err := os.Stat(cfg.CredentialsFile); err != nil {
			return nil, fmt.Errorf("read service account file: %w", err)
		}
		logger.Debug("using service account file", "path", cfg.CredentialsFile)
		opts = append(opts, option.WithCredentialsFile(cfg.CredentialsFile))
	default:
		logger.Debug("using application default credentials")
	}

	svc, err := drive.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create drive service: %w", err)
	}
	return &Drive{svc: svc, logger: logger}, nil
}

// List returns the non-trashed files directly inside folder.
func (d *Drive) List(ctx context.Context, folder string) ([]File, error) {
	if folder == "" {
		return nil, errors.New("drive folder id is required")
	}
	query := fmt.Sprintf("'%s' in parents and trashed=false", strings.ReplaceAll(folder, "'", `\'`))

	var files []File
	err := d.svc.Files.List().
		Q(query).
		Fields("nextPageToken, files(id, name, mimeType)").
		PageSize(100).
		SupportsAllDrives(true).
		IncludeItemsFromAllDrives(true).
		Pages(ctx, func(page *drive.FileList) error {
			for _, f := range page.Files {
				files = append(files, File{ID: f.Id, Name: f.Name, MimeType: f.MimeType})
			}
			return nil
		})
	if err != nil {
		return nil, fmt.Errorf("list drive folder %s: %w", folder, err)
	}
	d.logger.Debug("listed drive folder", "folder", folder, "files", len(files))
	return files, nil
}

// Download fetches a file, exporting native Google Sheets to XLSX.
func (d *Drive) Download(ctx context.Context, id, mimeType string) ([]byte, error) {
	var (
		resp *http.Response
		err  error
	)
	if mimeType == models.MimeGoogleSheet {
		resp, err = d.svc.Files.Export(id, models.MimeXLSX).Context(ctx).Download()
	} else {
		resp, err = d.svc.Files.Get(id).SupportsAllDrives(true).Context(ctx).Download()
	}
	if err != nil {
		return nil, fmt.Errorf("download drive file %s: %w", id, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read drive file %s: %w", id, err)
	}
	return data, nil
}
