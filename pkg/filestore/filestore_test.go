package filestore

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/yurifrl/fluxo/pkg/config"
	"github.com/yurifrl/fluxo/pkg/models"
)

func TestContentType(t *testing.T) {
	if got := ContentType(models.MimeGoogleSheet); got != models.MimeXLSX {
		t.Errorf("google sheet exports as %q, want xlsx", got)
	}
	if got := ContentType(models.MimeXLS); got != models.MimeXLS {
		t.Errorf("xls content type = %q", got)
	}
}

func TestLocal(t *testing.T) {
	dir := t.TempDir()
	files := map[string]string{
		"Fluxo de Caixa Maio - 2025.xlsx": "xlsx",
		"antigo.xls":                      "xls",
		"notas.txt":                       "txt",
	}
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0644); err != nil {
			t.Fatalf("Failed to write %s: %v", name, err)
		}
	}
	if err := os.Mkdir(filepath.Join(dir, "sub"), 0755); err != nil {
		t.Fatalf("Failed to create subdir: %v", err)
	}

	store := NewLocal(log.New(io.Discard))
	listed, err := store.List(context.Background(), dir)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(listed) != 3 {
		t.Fatalf("expected 3 files, got %d: %+v", len(listed), listed)
	}

	mimes := map[string]string{}
	for _, f := range listed {
		mimes[f.Name] = f.MimeType
	}
	if mimes["Fluxo de Caixa Maio - 2025.xlsx"] != models.MimeXLSX || mimes["antigo.xls"] != models.MimeXLS {
		t.Errorf("unexpected mime types: %v", mimes)
	}

	data, err := store.Download(context.Background(), filepath.Join(dir, "antigo.xls"), models.MimeXLS)
	if err != nil || string(data) != "xls" {
		t.Errorf("Download = %q, %v", data, err)
	}

	if _, err := store.List(context.Background(), filepath.Join(dir, "missing")); err == nil {
		t.Error("expected error listing a missing directory")
	}
}

func TestMemory(t *testing.T) {
	m := NewMemory()
	b := m.Put("root", "b.xlsx", models.MimeXLSX, []byte("b"))
	m.Put("root", "a.xlsx", models.MimeXLSX, []byte("a"))

	listed, err := m.List(context.Background(), "root")
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(listed) != 2 || listed[0].Name != "a.xlsx" {
		t.Errorf("listing = %+v", listed)
	}

	boom := errors.New("boom")
	m.FailDownload(b.ID, boom)
	if _, err := m.Download(context.Background(), b.ID, b.MimeType); !errors.Is(err, boom) {
		t.Errorf("expected injected error, got %v", err)
	}
	if _, err := m.Download(context.Background(), "root/zzz", ""); err == nil {
		t.Error("expected error for unknown id")
	}
}

func TestNewSelectsBackend(t *testing.T) {
	logger := log.New(io.Discard)

	s, err := New(context.Background(), &config.Config{Backend: config.BackendLocal}, logger)
	if err != nil {
		t.Fatalf("New(local) failed: %v", err)
	}
	if _, ok := s.(*Local); !ok {
		t.Errorf("expected *Local, got %T", s)
	}

	s, err = New(context.Background(), &config.Config{Backend: config.BackendMemory}, logger)
	if err != nil {
		t.Fatalf("New(memory) failed: %v", err)
	}
	if _, ok := s.(*Memory); !ok {
		t.Errorf("expected *Memory, got %T", s)
	}

	if _, err := New(context.Background(), &config.Config{Backend: "ftp"}, logger); err == nil {
		t.Error("expected error for unknown backend")
	}
}

func TestMimeFor(t *testing.T) {
	if got := mimeFor("x.XLSX", "application/octet-stream"); got != models.MimeXLSX {
		t.Errorf("got %q", got)
	}
	if got := mimeFor("x.bin", "text/csv"); got != "text/csv" {
		t.Errorf("got %q", got)
	}
	if got := mimeFor("x.bin", ""); got != "application/octet-stream" {
		t.Errorf("got %q", got)
	}
}
