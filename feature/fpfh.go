package feature

import (
	"math"
	"runtime"
	"sync"

	"go.viam.com/rdk/logging"
)

// ComputeFPFH computes a 33-dimensional FPFH descriptor for every point of an
// oriented cloud. The search index must already be built over the same points
// the cloud holds, in the same index order.
//
// Missing normals are a soft failure: the function logs a diagnostic and
// returns a well-formed all-zero matrix so batch pipelines can continue.
// Degenerate geometry (coincident points, isolated points) degrades to zero
// contributions per point, never to an error.
func ComputeFPFH(cloud *Cloud, search NeighborSearch, param SearchParam, logger logging.Logger) *Feature {
	n := cloud.Size()
	fpfh := NewFeature(n)
	if n == 0 {
		return fpfh
	}
	if !cloud.HasNormals() {
		logger.Debug("ComputeFPFH: input cloud has no normals; returning zero feature matrix")
		return fpfh
	}

	spfh := computeSPFH(cloud, search, param)

	// Second pass: combine each point's own histogram with its neighbors',
	// weighted by inverse distance so near neighbors dominate. Must not start
	// until every SPFH column is populated; parallelOverPoints waits for all
	// SPFH workers before returning.
	parallelOverPoints(n, func(start, end int) {
		acc := make([]float64, Dimension)
		for i := start; i < end; i++ {
			indices, sqDists := search.Neighbors(cloud.Points[i], param)

			for b := range acc {
				acc[b] = 0
			}
			k := 0
			for j := 1; j < len(indices); j++ {
				if sqDists[j] <= 0 {
					// A neighbor coincident with the query point adds nothing
					// beyond its own SPFH and would divide by zero.
					continue
				}
				d := math.Sqrt(sqDists[j])
				col := indices[j]
				for b := 0; b < Dimension; b++ {
					acc[b] += spfh.Data.At(b, col) / d
				}
				k++
			}

			for b := 0; b < Dimension; b++ {
				v := spfh.Data.At(b, i)
				if k > 0 {
					v += acc[b] / float64(k)
				}
				fpfh.Data.Set(b, i, v)
			}
		}
	})

	return fpfh
}

// computeSPFH builds the per-point simplified histogram: each point pairs with
// its own neighbors, with itself fixed as the pair reference, and accumulates
// the binned pair features. Each of the three 11-bin sub-histograms of a
// populated column sums to 100.
func computeSPFH(cloud *Cloud, search NeighborSearch, param SearchParam) *Feature {
	spfh := NewFeature(cloud.Size())

	parallelOverPoints(cloud.Size(), func(start, end int) {
		for i := start; i < end; i++ {
			p := cloud.Points[i]
			nrm := cloud.Normals[i]

			indices, _ := search.Neighbors(p, param)
			if len(indices) < 2 {
				// No true neighbors; the column stays all-zero.
				continue
			}

			incr := 100.0 / float64(len(indices)-1)
			for _, j := range indices[1:] {
				f1, f2, f3, _ := pairFeature(p, nrm, cloud.Points[j], cloud.Normals[j])

				b1 := histBin(f1, -math.Pi, math.Pi)
				b2 := binsPerFeature + histBin(f2, -1, 1)
				b3 := 2*binsPerFeature + histBin(f3, -1, 1)
				spfh.Data.Set(b1, i, spfh.Data.At(b1, i)+incr)
				spfh.Data.Set(b2, i, spfh.Data.At(b2, i)+incr)
				spfh.Data.Set(b3, i, spfh.Data.At(b3, i)+incr)
			}
		}
	})

	return spfh
}

// parallelOverPoints partitions [0, n) into contiguous chunks, one goroutine
// per chunk. Each worker exclusively owns the feature columns of its chunk, so
// no locking is needed; returning doubles as the phase barrier.
func parallelOverPoints(n int, fn func(start, end int)) {
	workers := runtime.NumCPU()
	if workers > n {
		workers = n
	}
	if workers < 1 {
		workers = 1
	}
	chunk := (n + workers - 1) / workers

	var wg sync.WaitGroup
	for start := 0; start < n; start += chunk {
		end := start + chunk
		if end > n {
			end = n
		}
		wg.Add(1)
		go func(start, end int) {
			defer wg.Done()
			fn(start, end)
		}(start, end)
	}
	wg.Wait()
}
