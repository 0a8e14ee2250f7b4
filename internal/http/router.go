package http

import (
	"database/sql"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"docqa/internal/handlers"
	"docqa/internal/rag"
	"docqa/internal/storage"
)

// Deps holds dependencies for the HTTP router.
type Deps struct {
	Pipeline  handlers.Ingester
	Engine    rag.Engine
	Store     storage.ChunkStore
	DB        *sql.DB
	UploadDir string
}

// NewRouter creates the API router.
func NewRouter(deps *Deps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Recoverer)
	r.Use(LoggerMiddleware)
	r.Use(CORS)

	uploadHandler := handlers.NewUploadHandler(deps.Pipeline, deps.UploadDir)
	queryHandler := handlers.NewQueryHandler(deps.Engine)
	documentsHandler := handlers.NewDocumentsHandler(deps.Store)
	healthHandler := handlers.NewHealthHandler(deps.DB)

	r.Route("/api", func(r chi.Router) {
		r.Method(http.MethodPost, "/upload", uploadHandler)
		r.Method(http.MethodPost, "/query", queryHandler)
		r.Get("/documents", documentsHandler.List)
		r.Delete("/documents/{source}", documentsHandler.Delete)
		r.Method(http.MethodGet, "/health", healthHandler)
	})

	return r
}
