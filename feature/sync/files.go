package sync

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/VinniZP/lingx/core/catalog"
)

// LoadDir reads a local translation directory into a catalog. Every *.json
// file at the top level is one language, named after the file's base name,
// holding a flat object of key -> value strings. Subdirectories and other
// files are ignored.
func LoadDir(dir string) (catalog.Catalog, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return catalog.Catalog{}, fmt.Errorf("failed to read translation dir %s: %w", dir, err)
	}

	c := catalog.New()
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}

		lang := strings.TrimSuffix(entry.Name(), ".json")
		path := filepath.Join(dir, entry.Name())

		data, err := os.ReadFile(path)
		if err != nil {
			return catalog.Catalog{}, fmt.Errorf("failed to read %s: %w", path, err)
		}

		var keys map[string]string
		if err := json.Unmarshal(data, &keys); err != nil {
			return catalog.Catalog{}, fmt.Errorf("%s is not a flat string map: %w", path, err)
		}

		for key, value := range keys {
			c.Set(lang, key, value)
		}
	}
	return c, nil
}

// DirLoader adapts a local directory to the engine's Loader port. The
// directory is re-read on every load so retries observe current file state.
type DirLoader struct {
	Dir string
}

// Load reads the directory into a catalog.
func (l DirLoader) Load(_ context.Context) (catalog.Catalog, error) {
	return LoadDir(l.Dir)
}
