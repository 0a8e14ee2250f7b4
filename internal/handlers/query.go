package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"docqa/internal/contextutil"
	"docqa/internal/rag"
)

// QueryHandler answers natural-language questions over ingested documents.
type QueryHandler struct {
	engine rag.Engine
}

// NewQueryHandler creates a QueryHandler.
func NewQueryHandler(engine rag.Engine) *QueryHandler {
	return &QueryHandler{engine: engine}
}

// QueryRequest is the JSON payload for a query.
type QueryRequest struct {
	Query string `json:"query"`
}

// ServeHTTP handles POST queries. A query before any ingestion yields 404;
// embedding/LLM failures yield 502.
func (h *QueryHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	var req QueryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.WarnContext(ctx, "invalid request body", "error", err)
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if strings.TrimSpace(req.Query) == "" {
		writeError(w, http.StatusBadRequest, "Query is required")
		return
	}

	resp, err := h.engine.Answer(ctx, req.Query)
	if err != nil {
		if errors.Is(err, rag.ErrNoIndex) {
			logger.InfoContext(ctx, "query before first ingestion")
			writeError(w, http.StatusNotFound, "No documents have been indexed yet")
			return
		}
		logger.ErrorContext(ctx, "query failed", "error", err)
		msg := strings.ToLower(err.Error())
		if strings.Contains(msg, "embed") || strings.Contains(msg, "llm") {
			writeError(w, http.StatusBadGateway, "External service error")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to process query")
		return
	}

	writeJSON(w, http.StatusOK, resp)
}
