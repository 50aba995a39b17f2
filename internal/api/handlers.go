package api

import (
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/starford/modcat/internal/apperr"
	"github.com/starford/modcat/internal/catalog"
	"github.com/starford/modcat/internal/catalogservice"
)

// Notifier is told when a rebuild produced a different catalog.
type Notifier interface {
	PublishCatalogUpdated(totalFiles int, checksum string)
}

// Handler holds API route handlers.
type Handler struct {
	svc      *catalogservice.Service
	notifier Notifier
}

// NewHandler creates a new Handler.
func NewHandler(svc *catalogservice.Service, notifier Notifier) *Handler {
	return &Handler{svc: svc, notifier: notifier}
}

// filePath extracts the cataloged path from the URL (everything after /api/files/).
// Supports encoded slashes (e.g. engine%2Fplugins%2Fx.h).
func filePath(r *http.Request) string {
	raw := strings.TrimPrefix(chi.URLParam(r, "*"), "/")
	if raw == "" {
		return ""
	}
	decoded, err := url.PathUnescape(raw)
	if err != nil {
		return raw
	}
	return decoded
}

// Catalog handles GET /api/catalog.
//
//	@Summary		Get the full catalog report
//	@Tags			catalog
//	@Produce		json
//	@Param			If-None-Match	header	string	false	"Catalog checksum from a previous response"
//	@Success		200	{object}	models.Report
//	@Success		304	"Catalog unchanged"
//	@Security		BearerAuth
//	@Router			/catalog [get]
func (h *Handler) Catalog(w http.ResponseWriter, r *http.Request) {
	report, sum := h.svc.Snapshot()
	etag := `"` + sum + `"`
	w.Header().Set("ETag", etag)
	if match := r.Header.Get("If-None-Match"); match != "" && (match == etag || strings.Trim(match, `"`) == sum) {
		w.WriteHeader(http.StatusNotModified)
		return
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	if err := catalog.Encode(w, report); err != nil {
		slog.Error("catalog encode failed", slog.String("error", err.Error()))
	}
}

// Categories handles GET /api/categories.
//
//	@Summary		Per-category file counts
//	@Tags			catalog
//	@Produce		json
//	@Success		200	{object}	CategoriesResponse
//	@Security		BearerAuth
//	@Router			/categories [get]
func (h *Handler) Categories(w http.ResponseWriter, _ *http.Request) {
	cats := h.svc.Categories()
	total := 0
	for _, n := range cats {
		total += n
	}
	writeJSON(w, http.StatusOK, CategoriesResponse{TotalFiles: total, Categories: cats})
}

// ListFiles handles GET /api/files.
//
//	@Summary		List cataloged files with optional pagination and filtering
//	@Tags			files
//	@Produce		json
//	@Param			category	query		string	false	"Filter by category"
//	@Param			limit		query		int		false	"Page size"
//	@Param			offset		query		int		false	"Page offset"
//	@Success		200			{object}	FileListResponse
//	@Security		BearerAuth
//	@Router			/files [get]
func (h *Handler) ListFiles(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	limit, _ := strconv.Atoi(q.Get("limit"))
	offset, _ := strconv.Atoi(q.Get("offset"))

	files, total := h.svc.ListFiles(r.Context(), q.Get("category"), limit, offset)
	writeJSON(w, http.StatusOK, FileListResponse{Files: files, Total: total})
}

// GetFile handles GET /api/files/*.
//
//	@Summary		Get a single cataloged file by path
//	@Tags			files
//	@Produce		json
//	@Param			path	path		string	true	"File path relative to the catalog root"
//	@Success		200		{object}	FileRecord
//	@Failure		404		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/files/{path} [get]
func (h *Handler) GetFile(w http.ResponseWriter, r *http.Request) {
	path := filePath(r)
	if path == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("path is required"))
		return
	}
	rec, err := h.svc.GetFile(r.Context(), path)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, errorBody("not found"))
		} else {
			slog.Error("get file failed", slog.String("path", path), slog.String("error", err.Error()))
			writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		}
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

// Search handles GET /api/search.
//
//	@Summary		Substring search over paths and descriptions
//	@Tags			files
//	@Produce		json
//	@Param			q		query		string	true	"Search query"
//	@Param			limit	query		int		false	"Max results"
//	@Success		200		{object}	SearchResponse
//	@Failure		400		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/search [get]
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	if strings.TrimSpace(q) == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("query parameter 'q' is required"))
		return
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	writeJSON(w, http.StatusOK, SearchResponse{Results: h.svc.Search(r.Context(), q, limit)})
}

// Classify handles GET /api/classify.
//
//	@Summary		Classify an arbitrary relative path
//	@Tags			catalog
//	@Produce		json
//	@Param			path	query		string	true	"Relative path"
//	@Success		200		{object}	FileRecord
//	@Failure		400		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/classify [get]
func (h *Handler) Classify(w http.ResponseWriter, r *http.Request) {
	p := strings.Trim(r.URL.Query().Get("path"), "/")
	if p == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("query parameter 'path' is required"))
		return
	}
	writeJSON(w, http.StatusOK, catalogservice.Classify(p))
}

// Rebuild handles POST /api/rebuild.
//
//	@Summary		Re-walk the tree and replace the catalog
//	@Tags			catalog
//	@Produce		json
//	@Success		200	{object}	RebuildResponse
//	@Failure		500	{object}	errResponse
//	@Security		BearerAuth
//	@Router			/rebuild [post]
func (h *Handler) Rebuild(w http.ResponseWriter, r *http.Request) {
	changed, err := h.svc.Rebuild(r.Context())
	if err != nil {
		slog.Error("rebuild failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("rebuild failed"))
		return
	}
	report, sum := h.svc.Snapshot()
	if changed && h.notifier != nil {
		h.notifier.PublishCatalogUpdated(report.TotalFiles, sum)
	}
	writeJSON(w, http.StatusOK, RebuildResponse{
		Changed:    changed,
		TotalFiles: report.TotalFiles,
		Checksum:   sum,
	})
}
