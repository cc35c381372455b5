package vector

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
)

// Index holds one precomputed embedding vector per catalog property,
// position-aligned with the catalog array. It is built (or loaded) once at
// startup and read-only afterwards, so concurrent searches need no locking.
type Index struct {
	dimensions int
	vectors    [][]float32
}

// NewIndex creates an empty index for vectors of the given dimension.
func NewIndex(dimensions int) (*Index, error) {
	if dimensions <= 0 {
		return nil, fmt.Errorf("dimensions must be positive")
	}
	return &Index{dimensions: dimensions}, nil
}

// Append adds the vector for the next catalog position.
func (x *Index) Append(vec []float32) error {
	if len(vec) != x.dimensions {
		return fmt.Errorf("vector dimension mismatch: got %d, expected %d", len(vec), x.dimensions)
	}
	v := make([]float32, x.dimensions)
	copy(v, vec)
	x.vectors = append(x.vectors, v)
	return nil
}

// At returns the vector at catalog position i, or nil when out of range.
func (x *Index) At(i int) []float32 {
	if i < 0 || i >= len(x.vectors) {
		return nil
	}
	return x.vectors[i]
}

// Len returns the number of stored vectors.
func (x *Index) Len() int { return len(x.vectors) }

// Dimensions returns the vector dimension.
func (x *Index) Dimensions() int { return x.dimensions }

// Save persists the index to path. Directory is created if needed.
// Format: dimensions (4), count (4), then count vectors of dimensions*4
// bytes each, little-endian float32.
func (x *Index) Save(path string) error {
	if path == "" {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create index dir: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create index file: %w", err)
	}
	defer f.Close()
	if err := binary.Write(f, binary.LittleEndian, uint32(x.dimensions)); err != nil {
		return fmt.Errorf("write dimensions: %w", err)
	}
	if err := binary.Write(f, binary.LittleEndian, uint32(len(x.vectors))); err != nil {
		return fmt.Errorf("write count: %w", err)
	}
	for _, vec := range x.vectors {
		if _, err := f.Write(float32SliceToBytes(vec)); err != nil {
			return fmt.Errorf("write vector: %w", err)
		}
	}
	return nil
}

// LoadIndex reads an index from path.
func LoadIndex(path string) (*Index, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open index file: %w", err)
	}
	defer f.Close()
	var dims, n uint32
	if err := binary.Read(f, binary.LittleEndian, &dims); err != nil {
		return nil, fmt.Errorf("read dimensions: %w", err)
	}
	if err := binary.Read(f, binary.LittleEndian, &n); err != nil {
		return nil, fmt.Errorf("read count: %w", err)
	}
	idx, err := NewIndex(int(dims))
	if err != nil {
		return nil, err
	}
	buf := make([]byte, int(dims)*4)
	for i := uint32(0); i < n; i++ {
		if _, err := io.ReadFull(f, buf); err != nil {
			return nil, fmt.Errorf("read vector %d: %w", i, err)
		}
		idx.vectors = append(idx.vectors, bytesToFloat32Slice(buf))
	}
	return idx, nil
}

func float32SliceToBytes(s []float32) []byte {
	const size = 4
	out := make([]byte, len(s)*size)
	for i, v := range s {
		binary.LittleEndian.PutUint32(out[i*size:(i+1)*size], math.Float32bits(v))
	}
	return out
}

func bytesToFloat32Slice(b []byte) []float32 {
	const size = 4
	out := make([]float32, len(b)/size)
	for i := range out {
		out[i] = math.Float32frombits(binary.LittleEndian.Uint32(b[i*size : (i+1)*size]))
	}
	return out
}
