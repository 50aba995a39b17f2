// Package storage enumerates the source tree a catalog is built from.
package storage

import "github.com/starford/modcat/internal/models"

// Provider is the interface for source tree enumeration.
type Provider interface {
	// Root returns the absolute catalog root.
	Root() string
	// List returns every cataloged file under dir (relative to the root),
	// in traversal order.
	List(dir string) ([]models.Entry, error)
}
