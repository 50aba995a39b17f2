// Package catalogservice holds the current catalog of a watched tree and
// answers lookups against it.
package catalogservice

import (
	"context"
	"fmt"
	"log/slog"
	"path"
	"strings"
	"sync"

	"github.com/starford/modcat/internal/apperr"
	"github.com/starford/modcat/internal/catalog"
	"github.com/starford/modcat/internal/index"
	"github.com/starford/modcat/internal/models"
	"github.com/starford/modcat/internal/storage"
)

// Service coordinates traversal, the in-memory catalog and the optional
// SQLite export.
type Service struct {
	store  storage.Provider
	db     index.CatalogIndex
	logger *slog.Logger

	// rebuildMu serializes whole rebuilds so an older walk can never
	// replace the result of a newer one.
	rebuildMu sync.Mutex

	mu       sync.RWMutex
	report   *models.Report
	checksum string
	byPath   map[string]int
}

// NewService creates a new catalog service. db may be nil, in which case
// rebuilds are not exported.
func NewService(store storage.Provider, db index.CatalogIndex, logger *slog.Logger) *Service {
	return &Service{
		store:  store,
		db:     db,
		logger: logger,
		report: catalog.Assemble(nil),
		byPath: map[string]int{},
	}
}

// Root returns the catalog root directory.
func (s *Service) Root() string {
	return s.store.Root()
}

// Rebuild re-walks the whole tree and swaps in the new catalog. It reports
// whether the catalog differs from the previous one.
func (s *Service) Rebuild(_ context.Context) (bool, error) {
	s.rebuildMu.Lock()
	defer s.rebuildMu.Unlock()

	report, err := catalog.Build(s.store, s.logger)
	if err != nil {
		return false, err
	}
	sum, err := catalog.Checksum(report)
	if err != nil {
		return false, err
	}

	if s.db != nil {
		if err := s.db.ReplaceCatalog(report, sum); err != nil {
			s.logger.Warn("catalogservice: export failed", slog.String("error", err.Error()))
		}
	}

	byPath := make(map[string]int, len(report.Files))
	for i, f := range report.Files {
		byPath[f.Path] = i
	}

	s.mu.Lock()
	changed := sum != s.checksum
	s.report = report
	s.checksum = sum
	s.byPath = byPath
	s.mu.Unlock()

	s.logger.Info("catalogservice: rebuilt",
		slog.Int("total_files", report.TotalFiles),
		slog.String("checksum", sum),
		slog.Bool("changed", changed))
	return changed, nil
}

// Snapshot returns the current catalog and its checksum. The report must
// not be modified.
func (s *Service) Snapshot() (*models.Report, string) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.report, s.checksum
}

// Categories returns a copy of the per-category counts.
func (s *Service) Categories() map[string]int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]int, len(s.report.Categories))
	for k, v := range s.report.Categories {
		out[k] = v
	}
	return out
}

// GetFile returns the record for a cataloged path.
func (s *Service) GetFile(_ context.Context, p string) (*models.FileRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i, ok := s.byPath[p]
	if !ok {
		return nil, fmt.Errorf("catalogservice: %s: %w", p, apperr.ErrNotFound)
	}
	rec := s.report.Files[i]
	return &rec, nil
}

// ListFiles returns a page of records in path order, optionally restricted
// to one category, and the unpaginated match count.
func (s *Service) ListFiles(_ context.Context, category string, limit, offset int) ([]models.FileRecord, int) {
	if limit <= 0 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []models.FileRecord{}
	total := 0
	for _, f := range s.report.Files {
		if category != "" && f.Category != category {
			continue
		}
		if total >= offset && len(out) < limit {
			out = append(out, f)
		}
		total++
	}
	return out, total
}

// Search returns records whose path or description contains query,
// case-insensitively.
func (s *Service) Search(_ context.Context, query string, limit int) []models.FileRecord {
	if limit <= 0 {
		limit = 20
	}
	q := strings.ToLower(strings.TrimSpace(query))
	out := []models.FileRecord{}
	if q == "" {
		return out
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, f := range s.report.Files {
		if strings.Contains(strings.ToLower(f.Path), q) || strings.Contains(strings.ToLower(f.Description), q) {
			out = append(out, f)
			if len(out) == limit {
				break
			}
		}
	}
	return out
}

// Classify describes an arbitrary relative path without touching the
// file system.
func Classify(relPath string) models.FileRecord {
	p := strings.Trim(strings.ReplaceAll(relPath, "\\", "/"), "/")
	return catalog.NewRecord(p, path.Base(p))
}
