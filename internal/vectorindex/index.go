// Package vectorindex implements an append-only flat Euclidean-distance
// nearest-neighbor index persisted as a single file. Positions are 0-based
// insertion ordinals; entries are never removed or reordered, so a position
// stays valid for the lifetime of the index file.
package vectorindex

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
)

// ErrNotFound is returned by Load when no index file exists yet.
var ErrNotFound = errors.New("vector index not found")

// ErrDimensionMismatch is returned when a vector does not match the index
// dimension.
var ErrDimensionMismatch = errors.New("vector dimension mismatch")

// Result is one search hit: the insertion position of the matched vector
// and its squared Euclidean distance to the query.
type Result struct {
	Position int64
	Distance float32
}

const (
	fileMagic   = "DQVI"
	fileVersion = uint32(1)
)

// Index is a flat vector index held in memory.
type Index struct {
	dim     int
	vectors [][]float32
}

// New creates an empty index for vectors of the given dimension.
func New(dim int) *Index {
	return &Index{dim: dim}
}

// Dim returns the vector dimension.
func (x *Index) Dim() int { return x.dim }

// Size returns the number of stored vectors.
func (x *Index) Size() int64 { return int64(len(x.vectors)) }

// Add appends vectors at the end of the index, in order. The caller owns
// the position range previous size .. previous size + len(vecs) - 1.
func (x *Index) Add(vecs [][]float32) error {
	for _, v := range vecs {
		if len(v) != x.dim {
			return fmt.Errorf("%w: got %d, index has %d", ErrDimensionMismatch, len(v), x.dim)
		}
	}
	x.vectors = append(x.vectors, vecs...)
	return nil
}

// Search returns up to k nearest vectors by squared Euclidean distance,
// ascending. Ties break toward the lower insertion position so results are
// deterministic.
func (x *Index) Search(query []float32, k int) ([]Result, error) {
	if len(query) != x.dim {
		return nil, fmt.Errorf("%w: got %d, index has %d", ErrDimensionMismatch, len(query), x.dim)
	}
	if k <= 0 || len(x.vectors) == 0 {
		return nil, nil
	}

	results := make([]Result, len(x.vectors))
	for i, v := range x.vectors {
		var dist float32
		for j := range v {
			d := v[j] - query[j]
			dist += d * d
		}
		results[i] = Result{Position: int64(i), Distance: dist}
	}

	sort.Slice(results, func(i, j int) bool {
		if results[i].Distance != results[j].Distance {
			return results[i].Distance < results[j].Distance
		}
		return results[i].Position < results[j].Position
	})

	if k < len(results) {
		results = results[:k]
	}
	return results, nil
}

// Load reads an index file. A missing file yields ErrNotFound so callers
// that expect pre-existing data (the query path) can distinguish "never
// built" from a read failure.
func Load(path string) (*Index, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to open index file: %w", err)
	}
	defer func() {
		_ = f.Close()
	}()

	r := bufio.NewReader(f)

	magic := make([]byte, len(fileMagic))
	if _, err := io.ReadFull(r, magic); err != nil {
		return nil, fmt.Errorf("failed to read index header: %w", err)
	}
	if string(magic) != fileMagic {
		return nil, fmt.Errorf("not an index file: bad magic %q", magic)
	}

	var version, dim uint32
	var count uint64
	if err := binary.Read(r, binary.LittleEndian, &version); err != nil {
		return nil, fmt.Errorf("failed to read index version: %w", err)
	}
	if version != fileVersion {
		return nil, fmt.Errorf("unsupported index version %d", version)
	}
	if err := binary.Read(r, binary.LittleEndian, &dim); err != nil {
		return nil, fmt.Errorf("failed to read index dimension: %w", err)
	}
	if err := binary.Read(r, binary.LittleEndian, &count); err != nil {
		return nil, fmt.Errorf("failed to read index count: %w", err)
	}

	x := New(int(dim))
	x.vectors = make([][]float32, 0, count)
	for i := uint64(0); i < count; i++ {
		vec := make([]float32, dim)
		if err := binary.Read(r, binary.LittleEndian, vec); err != nil {
			return nil, fmt.Errorf("failed to read vector %d: %w", i, err)
		}
		x.vectors = append(x.vectors, vec)
	}

	return x, nil
}

// LoadOrNew loads an index file, or returns a fresh empty index when none
// exists yet. This is the ingest path, where building from nothing is
// expected.
func LoadOrNew(path string, dim int) (*Index, error) {
	x, err := Load(path)
	if errors.Is(err, ErrNotFound) {
		return New(dim), nil
	}
	return x, err
}

// Save writes the full index to path. The file is fully rewritten via a
// temp file and rename so a crash mid-write never leaves a torn index.
func (x *Index) Save(path string) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".index-*")
	if err != nil {
		return fmt.Errorf("failed to create temp index file: %w", err)
	}
	tmpName := tmp.Name()

	w := bufio.NewWriter(tmp)
	writeErr := func() error {
		if _, err := w.WriteString(fileMagic); err != nil {
			return err
		}
		if err := binary.Write(w, binary.LittleEndian, fileVersion); err != nil {
			return err
		}
		if err := binary.Write(w, binary.LittleEndian, uint32(x.dim)); err != nil {
			return err
		}
		if err := binary.Write(w, binary.LittleEndian, uint64(len(x.vectors))); err != nil {
			return err
		}
		for _, vec := range x.vectors {
			if err := binary.Write(w, binary.LittleEndian, vec); err != nil {
				return err
			}
		}
		return w.Flush()
	}()
	if writeErr != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("failed to write index file: %w", writeErr)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("failed to close index file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("failed to replace index file: %w", err)
	}
	return nil
}
