package cloudreg

import (
	"runtime"
	"sync"

	"github.com/golang/geo/r3"
	"gonum.org/v1/gonum/mat"

	"go.viam.com/rdk/pointcloud"

	"github.com/biotinker/cloudreg/feature"
)

// EstimateNormals computes a unit surface normal per point by PCA over the k
// nearest neighbors and orients each normal to face the viewpoint (the sensor
// origin). Points whose neighborhoods are too small or degenerate get a zero
// normal; the descriptor stage bins those as zero contributions.
func EstimateNormals(pc pointcloud.PointCloud, k int, viewpoint r3.Vector) (*feature.Cloud, error) {
	if pc == nil {
		return nil, ErrNilPointCloud
	}
	if pc.Size() < 3 {
		return nil, ErrTooFewPoints
	}

	points := pointcloud.CloudToPoints(pc)
	kd := pointcloud.ToKDTree(pc)
	normals := make([]r3.Vector, len(points))

	workers := runtime.NumCPU()
	if workers > len(points) {
		workers = len(points)
	}
	chunk := (len(points) + workers - 1) / workers
	var wg sync.WaitGroup
	for start := 0; start < len(points); start += chunk {
		end := start + chunk
		if end > len(points) {
			end = len(points)
		}
		wg.Add(1)
		go func(start, end int) {
			defer wg.Done()
			for i := start; i < end; i++ {
				n := pcaNormal(kd, points[i], k)
				normals[i] = orientToward(n, points[i], viewpoint)
			}
		}(start, end)
	}
	wg.Wait()

	return &feature.Cloud{Points: points, Normals: normals}, nil
}

// pcaNormal estimates the surface normal at a point as the eigenvector of the
// smallest eigenvalue of the neighborhood covariance matrix.
func pcaNormal(kd *pointcloud.KDTree, point r3.Vector, k int) r3.Vector {
	neighbors := kd.KNearestNeighbors(point, k, true)
	if len(neighbors) < 3 {
		return r3.Vector{}
	}

	// Centroid of the neighborhood.
	var cx, cy, cz float64
	for _, nb := range neighbors {
		cx += nb.P.X
		cy += nb.P.Y
		cz += nb.P.Z
	}
	n := float64(len(neighbors))
	cx /= n
	cy /= n
	cz /= n

	var cov [9]float64 // 3x3 row-major
	for _, nb := range neighbors {
		dx := nb.P.X - cx
		dy := nb.P.Y - cy
		dz := nb.P.Z - cz
		cov[0] += dx * dx
		cov[1] += dx * dy
		cov[2] += dx * dz
		cov[4] += dy * dy
		cov[5] += dy * dz
		cov[8] += dz * dz
	}
	cov[3] = cov[1]
	cov[6] = cov[2]
	cov[7] = cov[5]
	for i := range cov {
		cov[i] /= n
	}

	covMat := mat.NewSymDense(3, cov[:])

	var eigen mat.EigenSym
	if ok := eigen.Factorize(covMat, true); !ok {
		return r3.Vector{}
	}

	var vecs mat.Dense
	eigen.VectorsTo(&vecs)

	// Eigenvalues ascend; column 0 spans the direction of least variance.
	normal := r3.Vector{X: vecs.At(0, 0), Y: vecs.At(1, 0), Z: vecs.At(2, 0)}
	norm := normal.Norm()
	if norm < 1e-12 {
		return r3.Vector{}
	}
	return normal.Mul(1 / norm)
}

// orientToward flips the normal if it points away from the viewpoint, so that
// normals over a scan share a consistent outward orientation.
func orientToward(normal, point, viewpoint r3.Vector) r3.Vector {
	if normal.Dot(viewpoint.Sub(point)) < 0 {
		return normal.Mul(-1)
	}
	return normal
}
