package feature

import "github.com/golang/geo/r3"

// SearchMode selects how a neighborhood query is bounded. The set of modes is
// closed; NeighborSearch implementations dispatch exhaustively on it.
type SearchMode int

const (
	// SearchKNN returns the MaxNeighbors nearest points.
	SearchKNN SearchMode = iota
	// SearchRadius returns every point within Radius.
	SearchRadius
	// SearchHybrid returns points within Radius, capped at MaxNeighbors.
	SearchHybrid
)

func (m SearchMode) String() string {
	switch m {
	case SearchKNN:
		return "knn"
	case SearchRadius:
		return "radius"
	case SearchHybrid:
		return "hybrid"
	default:
		return "unknown"
	}
}

// SearchParam configures a neighborhood query. It is immutable once built;
// use the constructors below.
type SearchParam struct {
	Mode         SearchMode
	MaxNeighbors int     // SearchKNN and SearchHybrid
	Radius       float64 // SearchRadius and SearchHybrid
}

// KNNSearch bounds queries to the k nearest points (the query point counts).
func KNNSearch(k int) SearchParam {
	return SearchParam{Mode: SearchKNN, MaxNeighbors: k}
}

// RadiusSearch bounds queries to points within radius r of the query point.
func RadiusSearch(r float64) SearchParam {
	return SearchParam{Mode: SearchRadius, Radius: r}
}

// HybridSearch bounds queries to points within radius r, keeping at most the
// maxNeighbors nearest.
func HybridSearch(r float64, maxNeighbors int) SearchParam {
	return SearchParam{Mode: SearchHybrid, Radius: r, MaxNeighbors: maxNeighbors}
}

// NeighborSearch is the spatial index contract this package consumes. Neighbors
// returns indices into the indexed cloud ordered nearest first, with the query
// point itself at position 0 (squared distance 0) when it is part of the index,
// plus parallel squared distances. Implementations must be safe for concurrent
// queries against a prebuilt, read-only index.
type NeighborSearch interface {
	Neighbors(p r3.Vector, param SearchParam) (indices []int, sqDists []float64)
}
