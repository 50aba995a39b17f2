package storage

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/starford/modcat/internal/apperr"
	"github.com/starford/modcat/internal/models"
)

// DefaultExtensions is the allow-list of source, doc and build suffixes.
var DefaultExtensions = []string{".h", ".cpp", ".hpp", ".c", ".cmake", ".md", ".txt", ".tcc"}

// FS implements Provider backed by the local file system.
type FS struct {
	root       string // absolute path to catalog root
	extensions []string
	logger     *slog.Logger
}

// Option configures an FS.
type Option func(*FS)

// WithExtensions replaces the extension allow-list. An empty list keeps
// the default.
func WithExtensions(exts []string) Option {
	return func(f *FS) {
		if len(exts) > 0 {
			f.extensions = exts
		}
	}
}

// WithLogger sets the logger used to report skipped entries.
func WithLogger(l *slog.Logger) Option {
	return func(f *FS) {
		if l != nil {
			f.logger = l
		}
	}
}

// NewFS creates a new FS provider rooted at the given directory.
// The directory must exist and be listable.
func NewFS(root string, opts ...Option) (*FS, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("storage: resolve root: %w", err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("storage: %w: %s", apperr.ErrRootNotFound, abs)
		}
		return nil, fmt.Errorf("storage: %w: %s: %v", apperr.ErrRootUnreadable, abs, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("storage: %w: %s", apperr.ErrNotADirectory, abs)
	}
	if _, err := os.ReadDir(abs); err != nil {
		return nil, fmt.Errorf("storage: %w: %s: %v", apperr.ErrRootUnreadable, abs, err)
	}

	f := &FS{
		root:       abs,
		extensions: DefaultExtensions,
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f, nil
}

// Root returns the absolute catalog root.
func (f *FS) Root() string {
	return f.root
}

// safePath resolves a relative path against the root and rejects
// any result that escapes it (directory traversal).
func (f *FS) safePath(rel string) (string, error) {
	if rel == "" {
		return f.root, nil
	}
	cleaned := filepath.Clean(rel)
	if filepath.IsAbs(cleaned) {
		return "", fmt.Errorf("storage: absolute paths not allowed: %s", rel)
	}
	abs := filepath.Join(f.root, cleaned)
	if !strings.HasPrefix(abs, f.root+string(os.PathSeparator)) && abs != f.root {
		return "", fmt.Errorf("storage: path escapes root: %s", rel)
	}
	return abs, nil
}

// Allowed reports whether name carries an allow-listed extension.
func (f *FS) Allowed(name string) bool {
	for _, ext := range f.extensions {
		if strings.HasSuffix(name, ext) {
			return true
		}
	}
	return false
}

// IsHidden reports whether a directory name is skipped during traversal.
func IsHidden(name string) bool {
	return strings.HasPrefix(name, ".")
}

// List walks dir (relative to root) and returns every allow-listed file,
// pruning hidden directories at any depth. Entries that cannot be read
// below the starting directory are logged and skipped.
func (f *FS) List(dir string) ([]models.Entry, error) {
	base, err := f.safePath(dir)
	if err != nil {
		return nil, err
	}
	out := []models.Entry{}
	err = filepath.WalkDir(base, func(p string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			if p == base {
				return walkErr
			}
			f.logger.Warn("storage: skip unreadable entry",
				slog.String("path", p), slog.String("error", walkErr.Error()))
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			if p != base && IsHidden(d.Name()) {
				return filepath.SkipDir
			}
			return nil
		}
		if !f.Allowed(d.Name()) {
			return nil
		}
		// A file that vanished since the directory was listed is skipped.
		if _, err := d.Info(); err != nil {
			f.logger.Warn("storage: skip unreadable file",
				slog.String("path", p), slog.String("error", err.Error()))
			return nil
		}
		rel, err := filepath.Rel(f.root, p)
		if err != nil {
			return nil
		}
		out = append(out, models.Entry{
			Path:     filepath.ToSlash(rel),
			Filename: d.Name(),
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("storage: list: %w", err)
	}
	return out, nil
}

var _ Provider = (*FS)(nil)
