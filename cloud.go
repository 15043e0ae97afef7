// Package cloudreg glues rdk point clouds to the FPFH descriptor core: normal
// estimation, KD-tree neighborhood queries, and a one-call describe pipeline.
package cloudreg

import (
	"fmt"
	"os"

	"github.com/golang/geo/r3"
	"go.viam.com/rdk/logging"
	"go.viam.com/rdk/pointcloud"
	"go.viam.com/rdk/spatialmath"

	"github.com/biotinker/cloudreg/feature"
)

// FromPointCloud extracts positions from an rdk point cloud into the
// parallel-array form the feature package works on. Normals are left empty;
// see EstimateNormals.
func FromPointCloud(pc pointcloud.PointCloud) *feature.Cloud {
	return &feature.Cloud{Points: pointcloud.CloudToPoints(pc)}
}

// TransformCloud applies a rigid transform to an oriented cloud, returning a
// new cloud. Positions get the full pose; normals are rotated only.
func TransformCloud(c *feature.Cloud, pose spatialmath.Pose) *feature.Cloud {
	rm := pose.Orientation().RotationMatrix()
	t := pose.Point()

	out := &feature.Cloud{
		Points:  make([]r3.Vector, len(c.Points)),
		Normals: make([]r3.Vector, len(c.Normals)),
	}
	for i, p := range c.Points {
		out.Points[i] = rm.Mul(p).Add(t)
	}
	for i, n := range c.Normals {
		out.Normals[i] = rm.Mul(n)
	}
	return out
}

// DownsampleCloud step-samples a point cloud to approximately targetPoints
// points. Dense scans are far larger than descriptor computation needs.
func DownsampleCloud(cloud pointcloud.PointCloud, targetPoints int, logger logging.Logger) pointcloud.PointCloud {
	if targetPoints <= 0 || cloud.Size() <= targetPoints {
		return cloud
	}
	logger.Infof("Point cloud has %d points, downsampling to ~%d...", cloud.Size(), targetPoints)

	downsampled := pointcloud.NewBasicEmpty()
	step := cloud.Size() / targetPoints
	if step < 1 {
		step = 1
	}
	i := 0
	cloud.Iterate(0, 0, func(p r3.Vector, d pointcloud.Data) bool {
		if i%step == 0 {
			if err := downsampled.Set(p, d); err != nil {
				logger.Warnf("Failed to add point: %v", err)
			}
		}
		i++
		return true
	})

	logger.Infof("Downsampled to %d points", downsampled.Size())
	return downsampled
}

// SavePCD writes a point cloud to a PCD file in binary format.
func SavePCD(cloud pointcloud.PointCloud, path string) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create file: %w", err)
	}
	defer file.Close()

	if err := pointcloud.ToPCD(cloud, file, pointcloud.PCDBinary); err != nil {
		return fmt.Errorf("write PCD: %w", err)
	}
	return nil
}
