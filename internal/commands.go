package internal

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/starford/modcat/internal/catalog"
	"github.com/starford/modcat/internal/catalogservice"
	"github.com/starford/modcat/internal/display"
	"github.com/starford/modcat/internal/index"
	"github.com/starford/modcat/internal/models"
)

// Generate builds the catalog and writes it as JSON to the configured
// output (stdout when empty). When sqlite.path is set the catalog is
// also exported there.
func Generate(_ context.Context, opts ...Option) error {
	app, logger, err := setup(opts)
	if err != nil {
		return err
	}
	return app.generate(logger)
}

// Export builds the catalog, writes the JSON like Generate and replaces
// the contents of the SQLite database. sqlite.path is required.
func Export(_ context.Context, opts ...Option) error {
	app, logger, err := setup(opts)
	if err != nil {
		return err
	}
	if !app.config.SQLite.Enabled() {
		return errors.New("export: sqlite path is required")
	}
	return app.generate(logger)
}

func (app *application) generate(logger *slog.Logger) error {
	cfg := app.config

	store, err := app.openStore(logger)
	if err != nil {
		return err
	}
	report, err := catalog.Build(store, logger)
	if err != nil {
		return err
	}
	data, err := catalog.Marshal(report)
	if err != nil {
		return err
	}

	// The whole document is encoded before anything is written so that a
	// failure never leaves a truncated catalog behind.
	if cfg.Catalog.Output == "" {
		if _, err := app.stdout.Write(data); err != nil {
			return fmt.Errorf("write catalog: %w", err)
		}
	} else if err := os.WriteFile(cfg.Catalog.Output, data, 0o644); err != nil {
		return fmt.Errorf("write catalog: %w", err)
	}

	if cfg.SQLite.Enabled() {
		if err := exportReport(cfg.SQLite.Path, report); err != nil {
			return err
		}
		logger.Info("catalog exported", slog.String("sqlite_path", cfg.SQLite.Path))
	}

	logger.Info("catalog generated",
		slog.String("root", store.Root()),
		slog.Int("total_files", report.TotalFiles),
		slog.Int("categories", len(report.Categories)))
	return nil
}

func exportReport(dsn string, report *models.Report) error {
	sum, err := catalog.Checksum(report)
	if err != nil {
		return err
	}
	db, err := index.Open(dsn)
	if err != nil {
		return fmt.Errorf("open index: %w", err)
	}
	defer db.Close()
	return db.ReplaceCatalog(report, sum)
}

// Summary builds the catalog and renders a per-category table instead of JSON.
func Summary(_ context.Context, opts ...Option) error {
	app, logger, err := setup(opts)
	if err != nil {
		return err
	}
	store, err := app.openStore(logger)
	if err != nil {
		return err
	}
	report, err := catalog.Build(store, logger)
	if err != nil {
		return err
	}
	return display.Summary(app.stdout, report, store.Root())
}

// Classify prints "path<TAB>category<TAB>description" for every path
// without touching the filesystem.
func Classify(paths []string, opts ...Option) error {
	app := newApplication(opts)
	for _, p := range paths {
		p = strings.Trim(strings.ReplaceAll(p, "\\", "/"), "/")
		if p == "" || p == "." {
			continue
		}
		rec := catalogservice.Classify(path.Clean(p))
		if _, err := fmt.Fprintf(app.stdout, "%s\t%s\t%s\n", rec.Path, rec.Category, rec.Description); err != nil {
			return err
		}
	}
	return nil
}

// QueryParams selects records from an exported database.
type QueryParams struct {
	Category string
	Search   string
	Limit    int
	Path     string // print only this record
	Counts   bool   // print per-category counts instead of records
}

// Query reads back an export made by Export or Generate.
func Query(_ context.Context, q QueryParams, opts ...Option) error {
	app, logger, err := setup(opts)
	if err != nil {
		return err
	}
	dsn := app.config.SQLite.Path
	if dsn == "" {
		return errors.New("query: sqlite path is required")
	}
	if _, err := os.Stat(dsn); err != nil {
		return fmt.Errorf("query: %w", err)
	}

	db, err := index.Open(dsn)
	if err != nil {
		return fmt.Errorf("open index: %w", err)
	}
	defer db.Close()

	meta, err := db.Meta()
	if err != nil {
		return err
	}
	logger.Debug("export loaded", slog.Int("total_files", meta.TotalFiles), slog.String("checksum", meta.Checksum))

	switch {
	case q.Path != "":
		rec, err := db.GetFile(q.Path)
		if err != nil {
			return fmt.Errorf("query: %s: %w", q.Path, err)
		}
		return writeRecords(app.stdout, []models.FileRecord{*rec})
	case q.Counts:
		counts, err := db.CategoryCounts()
		if err != nil {
			return err
		}
		return writeCounts(app.stdout, counts)
	}

	if meta.TotalFiles == 0 {
		return nil
	}
	limit := q.Limit
	if limit <= 0 {
		limit = meta.TotalFiles
	}

	var files []models.FileRecord
	if q.Search != "" {
		// Search has no category filter, so fetch every hit and filter here.
		found, err := db.Search(q.Search, meta.TotalFiles)
		if err != nil {
			return err
		}
		for _, f := range found {
			if q.Category != "" && f.Category != q.Category {
				continue
			}
			if len(files) == limit {
				break
			}
			files = append(files, f)
		}
	} else {
		files, _, err = db.ListFiles(q.Category, limit, 0)
		if err != nil {
			return err
		}
	}
	return writeRecords(app.stdout, files)
}

func writeCounts(w io.Writer, counts map[string]int) error {
	cats := make([]string, 0, len(counts))
	for c := range counts {
		cats = append(cats, c)
	}
	sort.Strings(cats)

	var buf bytes.Buffer
	tw := tabwriter.NewWriter(&buf, 0, 4, 2, ' ', 0)
	for _, c := range cats {
		fmt.Fprintf(tw, "%s\t%d\n", c, counts[c])
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	_, err := w.Write(buf.Bytes())
	return err
}

func writeRecords(w io.Writer, files []models.FileRecord) error {
	var buf bytes.Buffer
	tw := tabwriter.NewWriter(&buf, 0, 4, 2, ' ', 0)
	for _, f := range files {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", f.Path, f.Category, f.Description)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	_, err := w.Write(buf.Bytes())
	return err
}
