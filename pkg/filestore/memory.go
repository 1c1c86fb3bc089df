package filestore

import (
	"context"
	"fmt"
	"sort"
	"sync"
)

// Memory is an in-process store, used by tests and demos.
type Memory struct {
	mu      sync.RWMutex
	folders map[string][]File
	data    map[string][]byte
	errs    map[string]error
	listErr error
}

var _ FileStore = (*Memory)(nil)

func NewMemory() *Memory {
	return &Memory{
		folders: make(map[string][]File),
		data:    make(map[string][]byte),
		errs:    make(map[string]error),
	}
}

// Put stores a file under folder. The id is folder/name.
func (m *Memory) Put(folder, name, mimeType string, data []byte) File {
	m.mu.Lock()
	defer m.mu.Unlock()
	f := File{ID: folder + "/" + name, Name: name, MimeType: mimeType}
	m.folders[folder] = append(m.folders[folder], f)
	m.data[f.ID] = data
	return f
}

// FailDownload makes downloads of id fail with err.
func (m *Memory) FailDownload(id string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.errs[id] = err
}

// FailList makes List fail with err.
func (m *Memory) FailList(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.listErr = err
}

func (m *Memory) List(_ context.Context, folder string) ([]File, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.listErr != nil {
		return nil, m.listErr
	}
	files := append([]File(nil), m.folders[folder]...)
	sort.SliceStable(files, func(i, j int) bool { return files[i].Name < files[j].Name })
	return files, nil
}

func (m *Memory) Download(_ context.Context, id, _ string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if err := m.errs[id]; err != nil {
		return nil, err
	}
	data, ok := m.data[id]
	if !ok {
		return nil, fmt.Errorf("file %s not found", id)
	}
	return data, nil
}
