// Package feature computes Fast Point Feature Histogram (FPFH) descriptors for
// oriented point clouds. Descriptors are rotation/translation invariant and are
// consumed by correspondence-based registration downstream.
package feature

import (
	"github.com/golang/geo/r3"
	"gonum.org/v1/gonum/mat"
)

// Dimension is the length of one FPFH descriptor: three 11-bin sub-histograms.
const Dimension = 33

const binsPerFeature = 11

// Cloud is an oriented point cloud stored as parallel position and normal arrays.
// Points and Normals are paired by index and are read-only to this package.
type Cloud struct {
	Points  []r3.Vector
	Normals []r3.Vector
}

// Size returns the number of points in the cloud.
func (c *Cloud) Size() int {
	if c == nil {
		return 0
	}
	return len(c.Points)
}

// HasNormals reports whether every point carries a normal.
func (c *Cloud) HasNormals() bool {
	return c != nil && len(c.Points) > 0 && len(c.Normals) == len(c.Points)
}

// Feature holds one descriptor per input point as a dense Dimension x N matrix.
// Column i is the descriptor for point i; the mapping never changes after
// construction. Columns for points with missing normals or no neighbors are
// all-zero.
type Feature struct {
	Data *mat.Dense
}

// NewFeature returns an all-zero feature matrix for n points.
func NewFeature(n int) *Feature {
	if n < 1 {
		// mat.NewDense panics on zero-sized matrices.
		return &Feature{}
	}
	return &Feature{Data: mat.NewDense(Dimension, n, nil)}
}

// Num returns the number of descriptors (the input cloud size).
func (f *Feature) Num() int {
	if f.Data == nil {
		return 0
	}
	_, n := f.Data.Dims()
	return n
}

// Descriptor returns a copy of column i. On an empty feature set it returns
// nil for any index.
func (f *Feature) Descriptor(i int) []float64 {
	if f.Data == nil {
		return nil
	}
	return mat.Col(nil, i, f.Data)
}
