// Package models defines the catalog value types.
package models

// Entry is a file found during traversal, before classification.
type Entry struct {
	Path     string // relative to the catalog root, forward slashes
	Filename string
}

// FileRecord describes one cataloged file.
type FileRecord struct {
	Path        string `json:"path"`
	Filename    string `json:"filename"`
	Extension   string `json:"extension"`
	Directory   string `json:"directory"`
	Description string `json:"description"`
	Category    string `json:"category"`
}

// Report is the catalog produced by one traversal run. Field order is the
// serialized key order.
type Report struct {
	TotalFiles int            `json:"total_files"`
	Categories map[string]int `json:"categories"`
	Files      []FileRecord   `json:"files"`
}
