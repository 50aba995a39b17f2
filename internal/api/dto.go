package api

import "github.com/starford/modcat/internal/models"

// FileRecord is a cataloged file (aliased from the domain layer).
type FileRecord = models.FileRecord

// FileListResponse wraps paginated file listings.
type FileListResponse struct {
	Files []FileRecord `json:"files" validate:"required"`
	Total int          `json:"total" example:"42" validate:"required"`
}

// CategoriesResponse lists per-category counts.
type CategoriesResponse struct {
	TotalFiles int            `json:"total_files" example:"3" validate:"required"`
	Categories map[string]int `json:"categories" validate:"required"`
}

// SearchResponse wraps search results.
type SearchResponse struct {
	Results []FileRecord `json:"results" validate:"required"`
}

// RebuildResponse is returned after a manual rebuild.
type RebuildResponse struct {
	Changed    bool   `json:"changed"`
	TotalFiles int    `json:"total_files" example:"3"`
	Checksum   string `json:"checksum" example:"9f86d08..."`
}
