package index

import "github.com/starford/modcat/internal/models"

// CatalogIndex defines the interface for catalog persistence.
// Consumers should depend on this interface rather than the concrete *DB type.
type CatalogIndex interface {
	ReplaceCatalog(report *models.Report, checksum string) error
	ListFiles(category string, limit, offset int) ([]models.FileRecord, int, error)
	GetFile(path string) (*models.FileRecord, error)
	CategoryCounts() (map[string]int, error)
	Search(query string, limit int) ([]models.FileRecord, error)
	Meta() (Meta, error)
	Close() error
}

// Verify *DB satisfies CatalogIndex at compile time.
var _ CatalogIndex = (*DB)(nil)
