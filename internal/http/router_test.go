package http

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"go.uber.org/mock/gomock"

	"docqa/internal/ingest"
	"docqa/internal/rag"
	"docqa/internal/storage"
	"docqa/internal/storage/mocks"
)

type stubIngester struct{}

func (stubIngester) Ingest(context.Context, string, string, io.Reader) (ingest.Stats, error) {
	return ingest.Stats{}, nil
}

type stubEngine struct{}

func (stubEngine) Answer(_ context.Context, query string) (rag.Response, error) {
	return rag.Response{Question: query, Answer: "ok"}, nil
}

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()
	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)

	store := mocks.NewMockChunkStore(ctrl)
	store.EXPECT().ListSources(gomock.Any()).Return(nil, nil).AnyTimes()
	store.EXPECT().SoftDeleteBySource(gomock.Any(), gomock.Any()).Return(int64(0), nil).AnyTimes()

	db, err := storage.New(filepath.Join(t.TempDir(), "router.db"))
	if err != nil {
		t.Fatalf("storage.New() error = %v", err)
	}
	t.Cleanup(func() {
		_ = db.Close()
	})

	return NewRouter(&Deps{
		Pipeline:  stubIngester{},
		Engine:    stubEngine{},
		Store:     store,
		DB:        db,
		UploadDir: t.TempDir(),
	})
}

func TestRouterRoutes(t *testing.T) {
	router := newTestRouter(t)

	tests := []struct {
		name       string
		method     string
		path       string
		wantStatus int
	}{
		{
			name:       "POST /api/query exists",
			method:     http.MethodPost,
			path:       "/api/query",
			wantStatus: http.StatusBadRequest, // route exists, body is empty
		},
		{
			name:       "POST /api/upload exists",
			method:     http.MethodPost,
			path:       "/api/upload",
			wantStatus: http.StatusBadRequest, // route exists, no multipart body
		},
		{
			name:       "GET /api/documents exists",
			method:     http.MethodGet,
			path:       "/api/documents",
			wantStatus: http.StatusOK,
		},
		{
			name:       "DELETE /api/documents/{source} exists",
			method:     http.MethodDelete,
			path:       "/api/documents/manual.txt",
			wantStatus: http.StatusOK,
		},
		{
			name:       "GET /api/health exists",
			method:     http.MethodGet,
			path:       "/api/health",
			wantStatus: http.StatusOK,
		},
		{
			name:       "unknown route",
			method:     http.MethodGet,
			path:       "/api/nope",
			wantStatus: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, nil)
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)
			if rec.Code != tt.wantStatus {
				t.Errorf("%s %s status = %d, want %d", tt.method, tt.path, rec.Code, tt.wantStatus)
			}
		})
	}
}

func TestRouterCORSPreflight(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodOptions, "/api/query", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Errorf("preflight status = %d, want 204", rec.Code)
	}
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "http://localhost:3000" {
		t.Errorf("Allow-Origin = %q", got)
	}
}
