package handlers

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"docqa/internal/contextutil"
	"docqa/internal/extract"
	"docqa/internal/ingest"
)

// maxUploadSize bounds the multipart form held in memory.
const maxUploadSize = 32 << 20

// Ingester runs a full document ingestion. Implemented by ingest.Pipeline.
type Ingester interface {
	Ingest(ctx context.Context, sourceName, kind string, r io.Reader) (ingest.Stats, error)
}

// UploadHandler accepts a document upload and triggers ingestion.
type UploadHandler struct {
	pipeline  Ingester
	uploadDir string
}

// NewUploadHandler creates an UploadHandler. Raw uploads are retained under
// uploadDir.
func NewUploadHandler(pipeline Ingester, uploadDir string) *UploadHandler {
	return &UploadHandler{pipeline: pipeline, uploadDir: uploadDir}
}

// UploadResponse acknowledges a successful ingestion.
type UploadResponse struct {
	Message  string `json:"message"`
	Source   string `json:"source"`
	Sections int    `json:"sections"`
}

// ServeHTTP handles POST multipart uploads with a "file" part. Unsupported
// file kinds are rejected with 400 before any core logic runs.
func (h *UploadHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		logger.WarnContext(ctx, "invalid multipart form", "error", err)
		writeError(w, http.StatusBadRequest, "Invalid multipart form")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		logger.WarnContext(ctx, "missing file part", "error", err)
		writeError(w, http.StatusBadRequest, "A \"file\" form field is required")
		return
	}
	defer func() {
		_ = file.Close()
	}()

	sourceName := filepath.Base(header.Filename)
	kind := strings.ToLower(filepath.Ext(sourceName))
	if _, err := extract.ForKind(kind); err != nil {
		logger.WarnContext(ctx, "unsupported file kind", "kind", kind, "source", sourceName)
		writeError(w, http.StatusBadRequest,
			fmt.Sprintf("Unsupported file kind %q; supported: %s", kind, strings.Join(extract.SupportedKinds(), ", ")))
		return
	}

	storedPath, err := h.retain(kind, file)
	if err != nil {
		logger.ErrorContext(ctx, "failed to store upload", "source", sourceName, "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to store upload")
		return
	}

	stored, err := os.Open(storedPath)
	if err != nil {
		logger.ErrorContext(ctx, "failed to reopen upload", "path", storedPath, "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to read upload")
		return
	}
	defer func() {
		_ = stored.Close()
	}()

	stats, err := h.pipeline.Ingest(ctx, sourceName, kind, stored)
	if err != nil {
		logger.ErrorContext(ctx, "ingestion failed", "source", sourceName, "error", err)
		if strings.Contains(strings.ToLower(err.Error()), "embed") {
			writeError(w, http.StatusBadGateway, "Embedding service error")
			return
		}
		writeError(w, http.StatusInternalServerError, "Ingestion failed")
		return
	}

	logger.InfoContext(ctx, "upload ingested", "source", sourceName, "sections", stats.Sections, "stored", storedPath)
	writeJSON(w, http.StatusOK, UploadResponse{
		Message:  "File indexed successfully",
		Source:   sourceName,
		Sections: stats.Sections,
	})
}

// retain copies the raw upload to the upload directory under a
// collision-safe name and returns the stored path.
func (h *UploadHandler) retain(kind string, file io.Reader) (string, error) {
	if err := os.MkdirAll(h.uploadDir, 0o755); err != nil {
		return "", err
	}
	storedPath := filepath.Join(h.uploadDir, uuid.NewString()+kind)
	dst, err := os.Create(storedPath)
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(dst, file); err != nil {
		_ = dst.Close()
		_ = os.Remove(storedPath)
		return "", err
	}
	if err := dst.Close(); err != nil {
		_ = os.Remove(storedPath)
		return "", err
	}
	return storedPath, nil
}
