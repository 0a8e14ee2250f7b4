// Package rag implements the query-time retrieval orchestrator: embed the
// question, search the vector index, resolve hits to surviving chunks,
// assemble a grounding context and delegate to the generation backend.
package rag

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_collaborators.go -package=mocks docqa/internal/rag Embedder,Generator,Searcher

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"docqa/internal/contextutil"
	"docqa/internal/storage"
	"docqa/internal/vectorindex"
)

// ErrNoIndex is returned when a query arrives before any document has ever
// been ingested.
var ErrNoIndex = errors.New("no document index has been built")

// NoMatchAnswer is returned when the search hits no surviving chunks. It is
// a distinguished answer, never fabricated content.
const NoMatchAnswer = "No relevant information was found in the uploaded documents."

// Embedder turns texts into fixed-dimension vectors.
type Embedder interface {
	EmbedTexts(ctx context.Context, texts []string) ([][]float32, error)
}

// Generator produces an answer from a grounding prompt.
type Generator interface {
	Chat(ctx context.Context, prompt string) (string, error)
}

// Searcher is the query-side view of the vector index. It returns
// vectorindex.ErrNotFound when no index has ever been persisted.
type Searcher interface {
	Search(query []float32, k int) ([]vectorindex.Result, error)
}

// Response is the answer to one query, echoing the original question.
type Response struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// Engine answers natural-language questions over the ingested documents.
type Engine interface {
	Answer(ctx context.Context, query string) (Response, error)
}

type engine struct {
	embedder Embedder
	index    Searcher
	store    storage.ChunkStore
	llm      Generator
	topK     int
}

// NewEngine creates a retrieval engine. topK bounds how many sections feed
// the grounding context.
func NewEngine(embedder Embedder, index Searcher, store storage.ChunkStore, llm Generator, topK int) Engine {
	if topK <= 0 {
		topK = 5
	}
	return &engine{
		embedder: embedder,
		index:    index,
		store:    store,
		llm:      llm,
		topK:     topK,
	}
}

// Answer runs the full retrieval flow for one query.
func (e *engine) Answer(ctx context.Context, query string) (Response, error) {
	logger := contextutil.LoggerFromContext(ctx)

	vectors, err := e.embedder.EmbedTexts(ctx, []string{query})
	if err != nil {
		return Response{}, fmt.Errorf("failed to embed query: %w", err)
	}
	if len(vectors) == 0 {
		return Response{}, fmt.Errorf("no embedding returned for query")
	}

	results, err := e.index.Search(vectors[0], e.topK)
	if err != nil {
		if errors.Is(err, vectorindex.ErrNotFound) {
			return Response{}, ErrNoIndex
		}
		return Response{}, fmt.Errorf("failed to search index: %w", err)
	}

	positions := make([]int64, len(results))
	for i, res := range results {
		positions[i] = res.Position
	}

	chunks, err := e.store.FetchByPositions(ctx, positions)
	if err != nil {
		return Response{}, fmt.Errorf("failed to fetch chunks: %w", err)
	}

	logger.InfoContext(ctx, "retrieval completed",
		"hits", len(results),
		"live_chunks", len(chunks),
		"k", e.topK,
	)

	// Deleted chunks keep stale vectors in the index; the liveness filter
	// above is what hides them. Zero survivors means there is nothing to
	// ground an answer on.
	if len(chunks) == 0 {
		return Response{Question: query, Answer: NoMatchAnswer}, nil
	}

	answer, err := e.llm.Chat(ctx, buildPrompt(assembleContext(chunks), query))
	if err != nil {
		return Response{}, fmt.Errorf("failed to get LLM response: %w", err)
	}

	return Response{Question: query, Answer: answer}, nil
}

// assembleContext renders retrieved chunks as delimited sections, in the
// order the search returned them (ascending distance).
func assembleContext(chunks []storage.ChunkRecord) string {
	var sb strings.Builder
	for _, chunk := range chunks {
		fmt.Fprintf(&sb, "[SECTION: %s]\n%s\n\n", chunk.Heading, chunk.Content)
	}
	return strings.TrimSpace(sb.String())
}

// buildPrompt embeds the context and question into a grounding prompt that
// forbids answering from outside the supplied context.
func buildPrompt(contextText, question string) string {
	return fmt.Sprintf(`You are a helpful technical assistant.
Answer ONLY from the context below.
If the answer is not in the context, say "Not found in the document".

Context:
%s

Question:
%s

Answer:`, contextText, question)
}
