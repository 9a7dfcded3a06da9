package rag

import (
	"fmt"
	"math"
	"sort"

	"github.com/google/uuid"
)

// unitTolerance bounds how far a stored vector's norm may drift from 1.
const unitTolerance = 1e-5

// Hit is one search result: a vector id and its inner product with the query.
type Hit struct {
	ID    int
	Score float64
}

// FlatIndex stores unit vectors in one contiguous row-major slice and answers
// queries by exact brute-force inner product. It is not safe for concurrent
// Add calls; once built it may be searched from many goroutines.
type FlatIndex struct {
	dim     int
	data    []float32
	buildID uuid.UUID
}

// NewFlatIndex returns an empty index for vectors of the given dimension.
func NewFlatIndex(dim int) (*FlatIndex, error) {
	if dim <= 0 {
		return nil, fmt.Errorf("%w: dimension must be positive, got %d", ErrDimensionMismatch, dim)
	}
	return &FlatIndex{dim: dim}, nil
}

// BuildFlatIndex creates an index over vectors; input order becomes id order.
func BuildFlatIndex(vectors [][]float32) (*FlatIndex, error) {
	if len(vectors) == 0 {
		return nil, fmt.Errorf("%w: cannot infer dimension from zero vectors", ErrDimensionMismatch)
	}
	idx, err := NewFlatIndex(len(vectors[0]))
	if err != nil {
		return nil, err
	}
	idx.data = make([]float32, 0, len(vectors)*idx.dim)
	for _, v := range vectors {
		if _, err := idx.Add(v); err != nil {
			return nil, err
		}
	}
	return idx, nil
}

// Add appends vec and returns its id.
func (f *FlatIndex) Add(vec []float32) (int, error) {
	if len(vec) != f.dim {
		return 0, fmt.Errorf("%w: index has dimension %d, vector has %d", ErrDimensionMismatch, f.dim, len(vec))
	}
	f.data = append(f.data, vec...)
	return f.Len() - 1, nil
}

// Dimension returns the fixed vector width.
func (f *FlatIndex) Dimension() int { return f.dim }

// Len returns the number of stored vectors.
func (f *FlatIndex) Len() int {
	if f == nil || f.dim == 0 {
		return 0
	}
	return len(f.data) / f.dim
}

// Vector returns the stored vector for id. The slice aliases index memory.
func (f *FlatIndex) Vector(id int) ([]float32, bool) {
	if id < 0 || id >= f.Len() {
		return nil, false
	}
	return f.data[id*f.dim : (id+1)*f.dim], true
}

// Search returns up to k ids with the highest inner product against query,
// ordered by descending score and then ascending id.
func (f *FlatIndex) Search(query []float32, k int) ([]Hit, error) {
	if len(query) != f.dim {
		return nil, fmt.Errorf("%w: index has dimension %d, query has %d", ErrDimensionMismatch, f.dim, len(query))
	}
	n := f.Len()
	if k <= 0 || n == 0 {
		return nil, nil
	}
	if k > n {
		k = n
	}

	hits := make([]Hit, n)
	for id := 0; id < n; id++ {
		hits[id] = Hit{ID: id, Score: dot(query, f.data[id*f.dim:(id+1)*f.dim])}
	}
	sort.SliceStable(hits, func(i, j int) bool {
		return hits[i].Score > hits[j].Score
	})
	return hits[:k], nil
}

func dot(a, b []float32) float64 {
	sum := 0.0
	for i := range a {
		sum += float64(a[i]) * float64(b[i])
	}
	return sum
}

// Normalize scales vec to unit L2 length in place and reports whether it could;
// a zero or non-finite vector is left untouched.
func Normalize(vec []float32) bool {
	sum := 0.0
	for _, v := range vec {
		sum += float64(v) * float64(v)
	}
	norm := math.Sqrt(sum)
	if norm == 0 || math.IsNaN(norm) || math.IsInf(norm, 0) {
		return false
	}
	for i := range vec {
		vec[i] = float32(float64(vec[i]) / norm)
	}
	return true
}

// IsUnit reports whether vec has L2 norm 1 within a small tolerance.
func IsUnit(vec []float32) bool {
	sum := 0.0
	for _, v := range vec {
		sum += float64(v) * float64(v)
	}
	return math.Abs(math.Sqrt(sum)-1) <= unitTolerance
}
