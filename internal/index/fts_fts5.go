//go:build sqlite_fts5

package index

import (
	"database/sql"
	"fmt"

	"github.com/starford/modcat/internal/models"
)

func initFTS(conn *sql.DB) error {
	_, err := conn.Exec(`
		CREATE VIRTUAL TABLE IF NOT EXISTS files_fts USING fts5(
			path UNINDEXED,
			filename,
			description,
			category,
			tokenize = 'unicode61 remove_diacritics 2'
		);
	`)
	return err
}

func ftsInsert(tx *sql.Tx, f models.FileRecord) error {
	_, err := tx.Exec(`INSERT INTO files_fts (path, filename, description, category) VALUES (?, ?, ?, ?)`,
		f.Path, f.Filename, f.Description, f.Category)
	if err != nil {
		return fmt.Errorf("index: insert fts: %w", err)
	}
	return nil
}

func ftsClear(tx *sql.Tx) error {
	if _, err := tx.Exec(`DELETE FROM files_fts`); err != nil {
		return fmt.Errorf("index: clear fts: %w", err)
	}
	return nil
}

// Search performs an FTS5 full-text search over filenames and descriptions.
func (db *DB) Search(query string, limit int) ([]models.FileRecord, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := db.conn.Query(`
		SELECT f.path, f.filename, f.extension, f.directory, f.description, f.category
		FROM files_fts
		JOIN files f ON f.path = files_fts.path
		WHERE files_fts MATCH ?
		ORDER BY rank
		LIMIT ?
	`, query, limit)
	if err != nil {
		return nil, fmt.Errorf("index: search: %w", err)
	}
	defer rows.Close()
	return scanFiles(rows)
}
