package cloudreg

import "errors"

var (
	// ErrNilPointCloud is returned when a nil point cloud is passed.
	ErrNilPointCloud = errors.New("point cloud is nil")

	// ErrTooFewPoints is returned when a point cloud has insufficient points for an operation.
	ErrTooFewPoints = errors.New("too few points for operation")
)
