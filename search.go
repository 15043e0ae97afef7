package cloudreg

import (
	"sort"

	"github.com/golang/geo/r3"
	"go.viam.com/rdk/pointcloud"

	"github.com/biotinker/cloudreg/feature"
)

// KDSearch implements feature.NeighborSearch on top of the rdk KD-tree. The
// index is built once from the full point set and is read-only afterward, so
// concurrent queries are safe.
//
// Coincident duplicate positions collapse to the first index that carried
// them, matching the set semantics of the backing point cloud.
type KDSearch struct {
	tree  *pointcloud.KDTree
	index map[r3.Vector]int
}

// NewKDSearch builds a KD-tree index over the cloud's points.
func NewKDSearch(c *feature.Cloud) *KDSearch {
	basic := pointcloud.NewBasicPointCloud(len(c.Points))
	index := make(map[r3.Vector]int, len(c.Points))
	for i, p := range c.Points {
		//nolint:errcheck
		basic.Set(p, nil)
		if _, ok := index[p]; !ok {
			index[p] = i
		}
	}
	return &KDSearch{tree: pointcloud.ToKDTree(basic), index: index}
}

// Neighbors returns neighbor indices nearest first, the query point itself
// first when indexed, with parallel squared distances.
func (s *KDSearch) Neighbors(p r3.Vector, param feature.SearchParam) ([]int, []float64) {
	var nbs []*pointcloud.PointAndData
	switch param.Mode {
	case feature.SearchKNN:
		nbs = s.tree.KNearestNeighbors(p, param.MaxNeighbors, true)
	case feature.SearchRadius, feature.SearchHybrid:
		nbs = s.tree.RadiusNearestNeighbors(p, param.Radius, true)
	}

	indices := make([]int, 0, len(nbs))
	sqDists := make([]float64, 0, len(nbs))
	for _, nb := range nbs {
		i, ok := s.index[nb.P]
		if !ok {
			continue
		}
		indices = append(indices, i)
		sqDists = append(sqDists, nb.P.Sub(p).Norm2())
	}

	// The contract is nearest-first regardless of what the backing tree
	// returns; stable so the query point stays ahead of any distance tie.
	sort.Stable(byDistance{indices, sqDists})

	if param.Mode == feature.SearchHybrid && len(indices) > param.MaxNeighbors {
		indices = indices[:param.MaxNeighbors]
		sqDists = sqDists[:param.MaxNeighbors]
	}
	return indices, sqDists
}

type byDistance struct {
	indices []int
	sqDists []float64
}

func (b byDistance) Len() int { return len(b.indices) }

func (b byDistance) Less(i, j int) bool { return b.sqDists[i] < b.sqDists[j] }

func (b byDistance) Swap(i, j int) {
	b.indices[i], b.indices[j] = b.indices[j], b.indices[i]
	b.sqDists[i], b.sqDists[j] = b.sqDists[j], b.sqDists[i]
}
