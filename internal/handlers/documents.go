package handlers

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/go-chi/chi/v5"

	"docqa/internal/contextutil"
	"docqa/internal/storage"
)

// DocumentsHandler lists uploaded documents and soft-deletes them.
type DocumentsHandler struct {
	store storage.ChunkStore
}

// NewDocumentsHandler creates a DocumentsHandler.
func NewDocumentsHandler(store storage.ChunkStore) *DocumentsHandler {
	return &DocumentsHandler{store: store}
}

// ListResponse enumerates documents that still have live chunks.
type ListResponse struct {
	Documents []storage.SourceInfo `json:"documents"`
}

// DeleteResponse acknowledges a soft deletion.
type DeleteResponse struct {
	Message string `json:"message"`
	Source  string `json:"source"`
	Chunks  int64  `json:"chunks_deleted"`
}

// List handles GET requests for the live document inventory.
func (h *DocumentsHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	sources, err := h.store.ListSources(ctx)
	if err != nil {
		logger.ErrorContext(ctx, "failed to list documents", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to list documents")
		return
	}
	if sources == nil {
		sources = []storage.SourceInfo{}
	}
	writeJSON(w, http.StatusOK, ListResponse{Documents: sources})
}

// Delete handles DELETE requests for one source document. Chunks are
// tombstoned, never removed, and their vectors stay in the index; the
// operation is idempotent, so deleting an unknown source still succeeds.
func (h *DocumentsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	source := chi.URLParam(r, "source")
	if unescaped, err := url.PathUnescape(source); err == nil {
		source = unescaped
	}
	if strings.TrimSpace(source) == "" {
		writeError(w, http.StatusBadRequest, "Source document name is required")
		return
	}

	deleted, err := h.store.SoftDeleteBySource(ctx, source)
	if err != nil {
		logger.ErrorContext(ctx, "failed to delete document", "source", source, "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to delete document")
		return
	}

	logger.InfoContext(ctx, "document soft-deleted", "source", source, "chunks", deleted)
	writeJSON(w, http.StatusOK, DeleteResponse{
		Message: "Document deleted",
		Source:  source,
		Chunks:  deleted,
	})
}
