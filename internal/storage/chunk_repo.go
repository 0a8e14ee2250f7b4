package storage

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_chunk_store.go -package=mocks docqa/internal/storage ChunkStore

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
)

// ChunkStore defines the chunk persistence contract.
type ChunkStore interface {
	// Insert persists one chunk and returns its assigned identifier.
	// Identifiers form a dense increasing sequence starting at 1, in call
	// order.
	Insert(ctx context.Context, chunk *ChunkRecord) (int64, error)
	// FetchByIDs returns the non-deleted chunks among the requested ids.
	// Duplicate ids do not duplicate output rows; order is stable per call
	// but otherwise unspecified.
	FetchByIDs(ctx context.Context, ids []int64) ([]ChunkRecord, error)
	// FetchByPositions returns the non-deleted chunks whose vector index
	// positions match, in the order of the requested positions. Positions
	// with no surviving chunk are skipped.
	FetchByPositions(ctx context.Context, positions []int64) ([]ChunkRecord, error)
	// SoftDeleteBySource tombstones every chunk of a source document and
	// returns the number of rows newly marked. Idempotent.
	SoftDeleteBySource(ctx context.Context, sourceName string) (int64, error)
	// ListSources returns the distinct source documents that still have
	// live chunks, with their live chunk counts.
	ListSources(ctx context.Context) ([]SourceInfo, error)
}

// ChunkRepo implements ChunkStore over SQLite.
type ChunkRepo struct {
	db *sql.DB
}

// NewChunkRepo creates a new ChunkRepo.
func NewChunkRepo(db *sql.DB) *ChunkRepo {
	return &ChunkRepo{db: db}
}

// Insert persists one chunk and returns the identifier SQLite assigned.
func (r *ChunkRepo) Insert(ctx context.Context, chunk *ChunkRecord) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO chunks (source_name, heading, content, loc_start, loc_end, vector_pos)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		chunk.SourceName, chunk.Heading, chunk.Content, chunk.LocStart, chunk.LocEnd, chunk.VectorPos,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to insert chunk: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to read inserted chunk id: %w", err)
	}
	chunk.ID = id
	return id, nil
}

// FetchByIDs returns the surviving chunks among the requested ids.
func (r *ChunkRepo) FetchByIDs(ctx context.Context, ids []int64) ([]ChunkRecord, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	query := fmt.Sprintf(
		`SELECT id, source_name, heading, content, loc_start, loc_end, vector_pos
		 FROM chunks WHERE id IN (%s) AND deleted = 0`,
		placeholders(len(ids)),
	)
	return r.query(ctx, query, int64Args(ids))
}

// FetchByPositions returns surviving chunks by vector index position, in
// the caller's position order.
func (r *ChunkRepo) FetchByPositions(ctx context.Context, positions []int64) ([]ChunkRecord, error) {
	if len(positions) == 0 {
		return nil, nil
	}
	query := fmt.Sprintf(
		`SELECT id, source_name, heading, content, loc_start, loc_end, vector_pos
		 FROM chunks WHERE vector_pos IN (%s) AND deleted = 0`,
		placeholders(len(positions)),
	)
	rows, err := r.query(ctx, query, int64Args(positions))
	if err != nil {
		return nil, err
	}

	byPos := make(map[int64]ChunkRecord, len(rows))
	for _, row := range rows {
		byPos[row.VectorPos] = row
	}

	ordered := make([]ChunkRecord, 0, len(rows))
	seen := make(map[int64]bool, len(positions))
	for _, pos := range positions {
		if seen[pos] {
			continue
		}
		seen[pos] = true
		if row, ok := byPos[pos]; ok {
			ordered = append(ordered, row)
		}
	}
	return ordered, nil
}

// SoftDeleteBySource tombstones all chunks of a source document.
func (r *ChunkRepo) SoftDeleteBySource(ctx context.Context, sourceName string) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		"UPDATE chunks SET deleted = 1 WHERE source_name = ? AND deleted = 0",
		sourceName,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to soft-delete chunks: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to count soft-deleted chunks: %w", err)
	}
	return n, nil
}

// ListSources returns the source documents that still have live chunks.
func (r *ChunkRepo) ListSources(ctx context.Context) ([]SourceInfo, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT source_name, COUNT(*) FROM chunks
		 WHERE deleted = 0 GROUP BY source_name ORDER BY source_name`,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query sources: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var sources []SourceInfo
	for rows.Next() {
		var info SourceInfo
		if err := rows.Scan(&info.SourceName, &info.Chunks); err != nil {
			return nil, fmt.Errorf("failed to scan source row: %w", err)
		}
		sources = append(sources, info)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}
	return sources, nil
}

func (r *ChunkRepo) query(ctx context.Context, query string, args []any) ([]ChunkRecord, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query chunks: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var records []ChunkRecord
	for rows.Next() {
		var rec ChunkRecord
		if err := rows.Scan(&rec.ID, &rec.SourceName, &rec.Heading, &rec.Content,
			&rec.LocStart, &rec.LocEnd, &rec.VectorPos); err != nil {
			return nil, fmt.Errorf("failed to scan chunk: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}
	return records, nil
}

func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?,", n), ",")
}

func int64Args(values []int64) []any {
	args := make([]any, len(values))
	for i, v := range values {
		args[i] = v
	}
	return args
}
