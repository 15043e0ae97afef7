package cloudreg

import (
	"fmt"

	"github.com/golang/geo/r3"
	"go.viam.com/rdk/logging"
	"go.viam.com/rdk/pointcloud"

	"github.com/biotinker/cloudreg/feature"
)

// Config holds parameters for the descriptor pipeline.
type Config struct {
	NormalNeighbors int                 // K for PCA normal estimation
	Viewpoint       r3.Vector           // Sensor origin that normals are oriented toward
	Search          feature.SearchParam // Neighborhood for the SPFH and FPFH passes
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		NormalNeighbors: 15,
		Viewpoint:       r3.Vector{},
		Search:          feature.KNNSearch(30),
	}
}

// ComputeDescriptors runs the full pipeline on an rdk point cloud: PCA normal
// estimation, KD index construction, then FPFH computation. The oriented cloud
// is returned alongside the descriptors so callers can reuse it for matching.
func ComputeDescriptors(pc pointcloud.PointCloud, cfg Config, logger logging.Logger) (*feature.Feature, *feature.Cloud, error) {
	if pc == nil {
		return nil, nil, ErrNilPointCloud
	}

	oriented, err := EstimateNormals(pc, cfg.NormalNeighbors, cfg.Viewpoint)
	if err != nil {
		return nil, nil, fmt.Errorf("normal estimation: %w", err)
	}

	search := NewKDSearch(oriented)
	f := feature.ComputeFPFH(oriented, search, cfg.Search, logger)
	return f, oriented, nil
}
