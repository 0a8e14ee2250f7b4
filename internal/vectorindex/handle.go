package vectorindex

import "sync"

// Handle binds an index file path and serializes access to it. The on-disk
// file is the source of truth: every operation loads it fresh, so ingestion
// and queries running in the same process (or a restarted one) always see
// the last persisted state and nothing newer. Append is the unit of
// durability: vectors that were added but not yet saved are never visible.
type Handle struct {
	path string
	dim  int

	mu sync.Mutex
}

// NewHandle creates a handle for the index file at path.
func NewHandle(path string, dim int) *Handle {
	return &Handle{path: path, dim: dim}
}

// Size returns the number of persisted vectors; 0 when no index file
// exists yet.
func (h *Handle) Size() (int64, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	x, err := LoadOrNew(h.path, h.dim)
	if err != nil {
		return 0, err
	}
	return x.Size(), nil
}

// Append adds vectors at the end of the index and persists it, returning
// the position assigned to the first vector. At most one batch runs at a
// time; a failure before Save leaves the file untouched, as if the batch
// never happened.
func (h *Handle) Append(vecs [][]float32) (int64, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	x, err := LoadOrNew(h.path, h.dim)
	if err != nil {
		return 0, err
	}
	start := x.Size()
	if err := x.Add(vecs); err != nil {
		return 0, err
	}
	if err := x.Save(h.path); err != nil {
		return 0, err
	}
	return start, nil
}

// Search loads the persisted index and runs a nearest-neighbor query.
// Returns ErrNotFound when no index has ever been built.
func (h *Handle) Search(query []float32, k int) ([]Result, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	x, err := Load(h.path)
	if err != nil {
		return nil, err
	}
	return x.Search(query, k)
}
