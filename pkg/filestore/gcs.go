package filestore

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"

	"cloud.google.com/go/storage"
	"github.com/charmbracelet/log"
	"github.com/yurifrl/fluxo/pkg/config"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"
)

// GCS reads sheets from a Cloud Storage bucket. The folder is an object
// prefix and file ids are object names.
type GCS struct {
	client *storage.Client
	bucket string
	logger *log.Logger
}

var _ FileStore = (*GCS)(nil)

func NewGCS(ctx context.Context, cfg *config.Config, logger *log.Logger) (*GCS, error) {
	var opts []option.ClientOption
	switch {
	case strings.TrimSpace(cfg.CredentialsJSON) != "":
		opts = append(opts, option.WithCredentialsJSON([]byte(cfg.CredentialsJSON)))
	case cfg.CredentialsFile != "":
		opts = append(opts, option.WithCredentialsFile(cfg.CredentialsFile))
	}

	client, err := storage.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create storage client: %w", err)
	}
	return &GCS{client: client, bucket: cfg.Bucket, logger: logger}, nil
}

// List returns the objects directly under the folder prefix.
func (g *GCS) List(ctx context.Context, folder string) ([]File, error) {
	prefix := strings.Trim(folder, "/")
	if prefix != "" {
		prefix += "/"
	}

	it := g.client.Bucket(g.bucket).Objects(ctx, &storage.Query{Prefix: prefix, Delimiter: "/"})
	var files []File
	for {
		attrs, err := it.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("list gs://%s/%s: %w", g.bucket, prefix, err)
		}
		// Delimiter listings also yield synthetic prefix entries.
		if attrs.Name == "" {
			continue
		}
		files = append(files, File{
			ID:       attrs.Name,
			Name:     path.Base(attrs.Name),
			MimeType: mimeFor(attrs.Name, attrs.ContentType),
		})
	}
	g.logger.Debug("listed bucket prefix", "bucket", g.bucket, "prefix", prefix, "files", len(files))
	return files, nil
}

func (g *GCS) Download(ctx context.Context, id, _ string) ([]byte, error) {
	r, err := g.client.Bucket(g.bucket).Object(id).NewReader(ctx)
	if err != nil {
		return nil, fmt.Errorf("open GCS object reader: %w", err)
	}
	defer r.Close()

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read GCS object: %w", err)
	}
	return data, nil
}

func (g *GCS) Close() error {
	return g.client.Close()
}
