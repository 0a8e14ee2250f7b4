package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"docqa/internal/rag"
)

type fakeEngine struct {
	gotQuery string
	resp     rag.Response
	err      error
}

func (f *fakeEngine) Answer(_ context.Context, query string) (rag.Response, error) {
	f.gotQuery = query
	return f.resp, f.err
}

func postQuery(t *testing.T, handler http.Handler, payload any) *httptest.ResponseRecorder {
	t.Helper()
	body, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("marshal payload: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, "/api/query", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestQueryHandler(t *testing.T) {
	engine := &fakeEngine{
		resp: rag.Response{Question: "what is this?", Answer: "A document QA service."},
	}
	handler := NewQueryHandler(engine)

	rec := postQuery(t, handler, QueryRequest{Query: "what is this?"})

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200; body: %s", rec.Code, rec.Body.String())
	}

	var resp rag.Response
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Question != "what is this?" || resp.Answer != "A document QA service." {
		t.Errorf("response = %+v", resp)
	}
	if engine.gotQuery != "what is this?" {
		t.Errorf("engine received %q", engine.gotQuery)
	}
}

func TestQueryHandlerNoIndex(t *testing.T) {
	handler := NewQueryHandler(&fakeEngine{err: rag.ErrNoIndex})

	rec := postQuery(t, handler, QueryRequest{Query: "anything?"})

	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404 before first ingestion", rec.Code)
	}
}

func TestQueryHandlerEmptyQuery(t *testing.T) {
	handler := NewQueryHandler(&fakeEngine{})

	rec := postQuery(t, handler, QueryRequest{Query: "   "})

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestQueryHandlerInvalidBody(t *testing.T) {
	handler := NewQueryHandler(&fakeEngine{})

	req := httptest.NewRequest(http.MethodPost, "/api/query", bytes.NewReader([]byte("{not json")))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestQueryHandlerExternalServiceError(t *testing.T) {
	handler := NewQueryHandler(&fakeEngine{err: fmt.Errorf("failed to embed query: connection refused")})

	rec := postQuery(t, handler, QueryRequest{Query: "anything?"})

	if rec.Code != http.StatusBadGateway {
		t.Errorf("status = %d, want 502", rec.Code)
	}
}
