// Package catalog turns a source tree into a classified, aggregated report.
package catalog

import (
	"fmt"
	"log/slog"
	"path"
	"sort"

	"github.com/starford/modcat/internal/classifier"
	"github.com/starford/modcat/internal/models"
	"github.com/starford/modcat/internal/storage"
)

// Build enumerates store, classifies every entry and assembles the report.
func Build(store storage.Provider, logger *slog.Logger) (*models.Report, error) {
	entries, err := store.List("")
	if err != nil {
		return nil, fmt.Errorf("catalog: build: %w", err)
	}

	records := make([]models.FileRecord, 0, len(entries))
	for _, e := range entries {
		records = append(records, NewRecord(e.Path, e.Filename))
	}

	report := Assemble(records)
	logger.Debug("catalog: built",
		slog.String("root", store.Root()),
		slog.Int("total_files", report.TotalFiles),
		slog.Int("categories", len(report.Categories)))
	return report, nil
}

// BuildDir builds the catalog for the directory at root.
func BuildDir(root string, logger *slog.Logger, opts ...storage.Option) (*models.Report, error) {
	store, err := storage.NewFS(root, append([]storage.Option{storage.WithLogger(logger)}, opts...)...)
	if err != nil {
		return nil, err
	}
	return Build(store, logger)
}

// NewRecord classifies one file and fills every record field. relPath uses
// forward slashes.
func NewRecord(relPath, filename string) models.FileRecord {
	desc, cat := classifier.Classify(relPath, filename)
	dir := path.Dir(relPath)
	if dir == "." {
		dir = ""
	}
	return models.FileRecord{
		Path:        relPath,
		Filename:    filename,
		Extension:   Extension(filename),
		Directory:   dir,
		Description: desc,
		Category:    cat,
	}
}

// Extension returns the suffix of filename starting at its last dot. A
// leading dot does not start a suffix, so ".txt" has none, and neither
// does a name ending in a dot.
func Extension(filename string) string {
	ext := path.Ext(filename)
	if ext == "." || len(ext) == len(filename) {
		return ""
	}
	return ext
}

// Assemble sorts records by path and tallies categories. It takes
// ownership of records.
func Assemble(records []models.FileRecord) *models.Report {
	if records == nil {
		records = []models.FileRecord{}
	}
	sort.Slice(records, func(i, j int) bool {
		return records[i].Path < records[j].Path
	})
	return &models.Report{
		TotalFiles: len(records),
		Categories: CountCategories(records),
		Files:      records,
	}
}

// CountCategories returns the number of records per category. Only
// categories that occur are present.
func CountCategories(records []models.FileRecord) map[string]int {
	counts := make(map[string]int)
	for _, r := range records {
		counts[r.Category]++
	}
	return counts
}
