// Package recipients provides the recipient directory backed by a local JSON file.
package recipients

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/unifiedui/card-service/internal/domain/models"
)

// DefaultSearchLimit caps search results when the caller gives no limit.
const DefaultSearchLimit = 20

// Directory resolves and searches recipients.
type Directory interface {
	// FindByName returns the recipient whose full name equals name,
	// ignoring case and surrounding whitespace. Returns nil, nil when absent.
	FindByName(ctx context.Context, name string) (*models.Recipient, error)

	// Search returns recipients whose full name contains query, ordered by name.
	Search(ctx context.Context, query string, limit int) ([]models.Recipient, error)

	// Count returns the number of loaded recipients.
	Count() int
}

// directory implements Directory over an in-memory snapshot of the file.
type directory struct {
	path string

	mu     sync.RWMutex
	byName map[string]models.Recipient
	all    []models.Recipient
}

// Config holds the configuration for the recipient directory.
type Config struct {
	// FilePath is the JSON file holding an array of recipients.
	FilePath string
}

// NewDirectory loads the recipient file and returns a directory over it.
func NewDirectory(cfg *Config) (Directory, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}
	if cfg.FilePath == "" {
		return nil, fmt.Errorf("recipients file path is required")
	}

	d := &directory{path: cfg.FilePath}
	if err := d.Reload(); err != nil {
		return nil, err
	}
	return d, nil
}

// NewStaticDirectory builds a directory from an in-memory list.
func NewStaticDirectory(list []models.Recipient) Directory {
	d := &directory{}
	d.install(list)
	return d
}

// Reload re-reads the recipients file.
func (d *directory) Reload() error {
	absPath, err := filepath.Abs(d.path)
	if err != nil {
		return fmt.Errorf("failed to resolve recipients path: %w", err)
	}

	data, err := os.ReadFile(absPath)
	if err != nil {
		return fmt.Errorf("failed to read recipients file: %w", err)
	}

	var list []models.Recipient
	if err := json.Unmarshal(data, &list); err != nil {
		return fmt.Errorf("failed to parse recipients file: %w", err)
	}

	d.install(list)
	log.Info().Str("path", absPath).Int("recipients", len(list)).Msg("recipient directory loaded")
	return nil
}

func (d *directory) install(list []models.Recipient) {
	byName := make(map[string]models.Recipient, len(list))
	all := make([]models.Recipient, 0, len(list))
	for _, r := range list {
		r.FullName = strings.TrimSpace(r.FullName)
		if r.FullName == "" {
			continue
		}
		key := normalizeName(r.FullName)
		if _, dup := byName[key]; dup {
			log.Warn().Str("name", r.FullName).Msg("duplicate recipient name ignored")
			continue
		}
		byName[key] = r
		all = append(all, r)
	}
	sort.Slice(all, func(i, j int) bool {
		return strings.ToLower(all[i].FullName) < strings.ToLower(all[j].FullName)
	})

	d.mu.Lock()
	d.byName = byName
	d.all = all
	d.mu.Unlock()
}

// FindByName performs an exact, case-insensitive lookup.
func (d *directory) FindByName(ctx context.Context, name string) (*models.Recipient, error) {
	key := normalizeName(name)
	if key == "" {
		return nil, nil
	}

	d.mu.RLock()
	defer d.mu.RUnlock()

	r, ok := d.byName[key]
	if !ok {
		return nil, nil
	}
	return &r, nil
}

// Search performs a case-insensitive substring search.
func (d *directory) Search(ctx context.Context, query string, limit int) ([]models.Recipient, error) {
	if limit <= 0 {
		limit = DefaultSearchLimit
	}
	needle := normalizeName(query)

	d.mu.RLock()
	defer d.mu.RUnlock()

	results := make([]models.Recipient, 0, min(limit, len(d.all)))
	for _, r := range d.all {
		if needle != "" && !strings.Contains(normalizeName(r.FullName), needle) {
			continue
		}
		results = append(results, r)
		if len(results) == limit {
			break
		}
	}
	return results, nil
}

// Count returns the number of loaded recipients.
func (d *directory) Count() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.all)
}

func normalizeName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
