package ingest

import (
	"context"
	"fmt"
	"io"

	"docqa/internal/contextutil"
	"docqa/internal/extract"
	"docqa/internal/storage"
)

// Embedder turns texts into fixed-dimension vectors.
type Embedder interface {
	EmbedTexts(ctx context.Context, texts []string) ([][]float32, error)
}

// Index is the ingest-side view of the vector index: the next free position
// and a durable append.
type Index interface {
	Size() (int64, error)
	Append(vecs [][]float32) (int64, error)
}

// Stats reports what one ingestion produced.
type Stats struct {
	Sections int
}

// Pipeline runs a full document ingestion: extract → segment → persist
// chunks → embed → append vectors → persist index. Within one batch the
// chunk insertion order, the vector append order and the identifier
// assignment order all match; that ordering is the one correctness-critical
// property here.
type Pipeline struct {
	store    storage.ChunkStore
	embedder Embedder
	index    Index
}

// NewPipeline creates an ingestion pipeline.
func NewPipeline(store storage.ChunkStore, embedder Embedder, index Index) *Pipeline {
	return &Pipeline{store: store, embedder: embedder, index: index}
}

// Ingest processes one document end to end. kind is the declared file kind
// (extension); unsupported kinds fail with extract.ErrUnsupportedKind before
// any state changes. A failed batch must be treated as fully failed: cleanup
// is a soft-delete of the source followed by reingestion, not partial repair.
func (p *Pipeline) Ingest(ctx context.Context, sourceName, kind string, r io.Reader) (Stats, error) {
	logger := contextutil.LoggerFromContext(ctx)

	extractor, err := extract.ForKind(kind)
	if err != nil {
		return Stats{}, fmt.Errorf("cannot ingest %q: %w", kind, err)
	}

	lines, err := extractor.Extract(r)
	if err != nil {
		return Stats{}, fmt.Errorf("failed to extract %q: %w", sourceName, err)
	}

	sections := Segment(lines)
	if len(sections) == 0 {
		logger.WarnContext(ctx, "document produced no sections", "source", sourceName)
		return Stats{}, nil
	}

	base, err := p.index.Size()
	if err != nil {
		return Stats{}, fmt.Errorf("failed to read index size: %w", err)
	}

	texts := make([]string, len(sections))
	for i, section := range sections {
		texts[i] = section.Content
		_, err := p.store.Insert(ctx, &storage.ChunkRecord{
			SourceName: sourceName,
			Heading:    section.Heading,
			Content:    section.Content,
			LocStart:   section.StartLoc,
			LocEnd:     section.EndLoc,
			VectorPos:  base + int64(i),
		})
		if err != nil {
			return Stats{}, fmt.Errorf("failed to persist section %d: %w", i, err)
		}
	}

	vectors, err := p.embedder.EmbedTexts(ctx, texts)
	if err != nil {
		return Stats{}, fmt.Errorf("failed to embed sections: %w", err)
	}

	start, err := p.index.Append(vectors)
	if err != nil {
		return Stats{}, fmt.Errorf("failed to append vectors: %w", err)
	}
	if start != base {
		// Another batch slipped in between Size and Append; the stored
		// vector positions no longer match the index. Surface it loudly.
		return Stats{}, fmt.Errorf("index position drift for %q: expected base %d, got %d", sourceName, base, start)
	}

	logger.InfoContext(ctx, "document ingested",
		"source", sourceName,
		"sections", len(sections),
		"first_position", base,
	)

	return Stats{Sections: len(sections)}, nil
}
