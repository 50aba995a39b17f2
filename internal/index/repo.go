package index

import (
	"database/sql"
	"errors"
	"fmt"
	"strconv"

	"github.com/starford/modcat/internal/apperr"
	"github.com/starford/modcat/internal/models"
)

// Meta describes the stored catalog.
type Meta struct {
	TotalFiles int
	Checksum   string
}

// ReplaceCatalog drops the stored catalog and writes report in a single
// transaction. Readers never observe a partially written catalog.
func (db *DB) ReplaceCatalog(report *models.Report, checksum string) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return fmt.Errorf("index: begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // best-effort on failure path

	if _, err := tx.Exec(`DELETE FROM files`); err != nil {
		return fmt.Errorf("index: clear files: %w", err)
	}
	if err := ftsClear(tx); err != nil {
		return err
	}

	stmt, err := tx.Prepare(`
		INSERT INTO files (path, filename, extension, directory, description, category)
		VALUES (?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("index: prepare file insert: %w", err)
	}
	defer stmt.Close()

	for _, f := range report.Files {
		if _, err := stmt.Exec(f.Path, f.Filename, f.Extension, f.Directory, f.Description, f.Category); err != nil {
			return fmt.Errorf("index: insert %s: %w", f.Path, err)
		}
		if err := ftsInsert(tx, f); err != nil {
			return err
		}
	}

	meta := map[string]string{
		"total_files": strconv.Itoa(report.TotalFiles),
		"checksum":    checksum,
	}
	for k, v := range meta {
		if _, err := tx.Exec(`
			INSERT INTO catalog_meta (key, value) VALUES (?, ?)
			ON CONFLICT(key) DO UPDATE SET value = excluded.value
		`, k, v); err != nil {
			return fmt.Errorf("index: write meta: %w", err)
		}
	}

	return tx.Commit()
}

// ListFiles returns files ordered by path, optionally filtered by category,
// together with the unpaginated total.
func (db *DB) ListFiles(category string, limit, offset int) ([]models.FileRecord, int, error) {
	if limit <= 0 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}

	where := ""
	args := []any{}
	if category != "" {
		where = "WHERE category = ?"
		args = append(args, category)
	}

	var total int
	if err := db.conn.QueryRow(`SELECT COUNT(*) FROM files `+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("index: count files: %w", err)
	}

	rows, err := db.conn.Query(`
		SELECT path, filename, extension, directory, description, category
		FROM files `+where+`
		ORDER BY path
		LIMIT ? OFFSET ?
	`, append(args, limit, offset)...)
	if err != nil {
		return nil, 0, fmt.Errorf("index: list files: %w", err)
	}
	defer rows.Close()

	out, err := scanFiles(rows)
	if err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

// GetFile returns the record stored for path.
func (db *DB) GetFile(path string) (*models.FileRecord, error) {
	var f models.FileRecord
	err := db.conn.QueryRow(`
		SELECT path, filename, extension, directory, description, category
		FROM files WHERE path = ?
	`, path).Scan(&f.Path, &f.Filename, &f.Extension, &f.Directory, &f.Description, &f.Category)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("index: get file: %w", err)
	}
	return &f, nil
}

// CategoryCounts returns the number of stored files per category.
func (db *DB) CategoryCounts() (map[string]int, error) {
	rows, err := db.conn.Query(`SELECT category, COUNT(*) FROM files GROUP BY category`)
	if err != nil {
		return nil, fmt.Errorf("index: category counts: %w", err)
	}
	defer rows.Close()

	out := make(map[string]int)
	for rows.Next() {
		var cat string
		var n int
		if err := rows.Scan(&cat, &n); err != nil {
			return nil, err
		}
		out[cat] = n
	}
	return out, rows.Err()
}

// Meta returns the total and checksum recorded by the last export.
func (db *DB) Meta() (Meta, error) {
	rows, err := db.conn.Query(`SELECT key, value FROM catalog_meta`)
	if err != nil {
		return Meta{}, fmt.Errorf("index: meta: %w", err)
	}
	defer rows.Close()

	var m Meta
	for rows.Next() {
		var k, v string
		if err := rows.Scan(&k, &v); err != nil {
			return Meta{}, err
		}
		switch k {
		case "total_files":
			m.TotalFiles, _ = strconv.Atoi(v)
		case "checksum":
			m.Checksum = v
		}
	}
	return m, rows.Err()
}

func scanFiles(rows *sql.Rows) ([]models.FileRecord, error) {
	out := []models.FileRecord{}
	for rows.Next() {
		var f models.FileRecord
		if err := rows.Scan(&f.Path, &f.Filename, &f.Extension, &f.Directory, &f.Description, &f.Category); err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	return out, rows.Err()
}
