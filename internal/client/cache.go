// Package client implements the dashboard-side lead client: a local
// cache mirroring the server store and the reconciliation flow that
// keeps the two views merged. The server store is volatile, so the
// cache is the only copy that survives a restart.
package client

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/visahub/lead-intake/internal/entity"
)

// LeadCache is a single keyed slot holding the mirrored lead set.
// Reads and writes are whole-slot: read-modify-write, last write wins.
type LeadCache interface {
	Load() ([]entity.Lead, error)
	Save(leads []entity.Lead) error
}

// FileCache persists the slot as one JSON-serialized array on disk,
// the local-storage analog for a non-browser client.
type FileCache struct {
	Path string
}

func NewFileCache(path string) *FileCache {
	return &FileCache{Path: path}
}

func (c *FileCache) Load() ([]entity.Lead, error) {
	data, err := os.ReadFile(c.Path)
	if err != nil {
		if os.IsNotExist(err) {
			return []entity.Lead{}, nil
		}
		return nil, err
	}

	var leads []entity.Lead
	if err := json.Unmarshal(data, &leads); err != nil {
		return nil, err
	}
	return leads, nil
}

func (c *FileCache) Save(leads []entity.Lead) error {
	data, err := json.Marshal(leads)
	if err != nil {
		return err
	}
	if dir := filepath.Dir(c.Path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	return os.WriteFile(c.Path, data, 0o644)
}
