// Command cloudreg computes FPFH descriptors for a point cloud, either loaded
// from a PCD file or captured live from a Viam machine's camera.
package main

import (
	"context"
	"encoding/csv"
	"flag"
	"fmt"
	"math"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/biotinker/cloudreg"
	"github.com/biotinker/cloudreg/feature"
	"github.com/biotinker/cloudreg/internal/creds"

	"go.viam.com/rdk/components/camera"
	"go.viam.com/rdk/logging"
	"go.viam.com/rdk/pointcloud"
	"go.viam.com/rdk/robot/client"
	"go.viam.com/utils/rpc"
)

func main() {
	pcdPath := flag.String("pcd", "", "path to a PCD file to describe")
	credsPath := flag.String("creds", "", "path to robot credentials JSON file (live capture mode)")
	cameraName := flag.String("camera", "primary-cam", "camera to capture from in live mode")
	outPath := flag.String("out", "", "optional CSV file for the computed descriptors")
	downsample := flag.Int("downsample", 0, "downsample the cloud to ~N points first; 0 = off")
	normalK := flag.Int("normal-k", 15, "neighbor count for PCA normal estimation")
	knn := flag.Int("knn", 0, "neighbor count for the descriptor search; 0 = 30 unless -radius is set")
	radius := flag.Float64("radius", 0, "search radius; with -knn > 0 this selects hybrid search")
	flag.Parse()

	logger := logging.NewLogger("cloudreg-cli")

	if *pcdPath == "" && *credsPath == "" {
		logger.Fatal("one of -pcd or -creds is required")
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	var cloud pointcloud.PointCloud
	var err error
	if *pcdPath != "" {
		cloud, err = pointcloud.NewFromFile(*pcdPath, "")
		if err != nil {
			logger.Fatalf("load %s: %v", *pcdPath, err)
		}
		logger.Infof("Loaded %d points from %s", cloud.Size(), *pcdPath)
	} else {
		cloud, err = captureFromRobot(ctx, *credsPath, *cameraName, logger)
		if err != nil {
			logger.Fatal(err)
		}
		logger.Infof("Captured %d points from camera %q", cloud.Size(), *cameraName)
	}

	if *downsample > 0 {
		cloud = cloudreg.DownsampleCloud(cloud, *downsample, logger)
	}

	cfg := cloudreg.DefaultConfig()
	cfg.NormalNeighbors = *normalK
	cfg.Search = searchParam(*knn, *radius)
	logger.Infof("Search: %v (k=%d, r=%.2f)", cfg.Search.Mode, cfg.Search.MaxNeighbors, cfg.Search.Radius)

	descriptors, _, err := cloudreg.ComputeDescriptors(cloud, cfg, logger)
	if err != nil {
		logger.Fatal(err)
	}

	printSummary(descriptors, logger)

	if *outPath != "" {
		if err := writeCSV(descriptors, *outPath); err != nil {
			logger.Fatalf("write %s: %v", *outPath, err)
		}
		logger.Infof("Wrote %d descriptors to %s", descriptors.Num(), *outPath)
	}
}

const defaultKNN = 30

// searchParam maps the -knn and -radius flags to a search mode. Radius alone
// selects pure radius search; both select hybrid; neither falls back to KNN
// with the default neighbor count.
func searchParam(knn int, radius float64) feature.SearchParam {
	switch {
	case radius > 0 && knn > 0:
		return feature.HybridSearch(radius, knn)
	case radius > 0:
		return feature.RadiusSearch(radius)
	case knn > 0:
		return feature.KNNSearch(knn)
	default:
		return feature.KNNSearch(defaultKNN)
	}
}

// captureFromRobot connects to a Viam machine and grabs one point cloud frame.
func captureFromRobot(ctx context.Context, credsPath, cameraName string, logger logging.Logger) (pointcloud.PointCloud, error) {
	robotCreds, err := creds.Load(credsPath)
	if err != nil {
		return nil, err
	}

	machine, err := client.New(
		ctx,
		robotCreds.Address,
		logger,
		client.WithDialOptions(rpc.WithEntityCredentials(
			robotCreds.EntityID,
			rpc.Credentials{
				Type:    rpc.CredentialsTypeAPIKey,
				Payload: robotCreds.APIKey,
			})),
	)
	if err != nil {
		return nil, fmt.Errorf("connect: %w", err)
	}
	defer machine.Close(context.Background())
	logger.Info("Connected to robot")

	cam, err := camera.FromProvider(machine, cameraName)
	if err != nil {
		return nil, fmt.Errorf("camera %q: %w", cameraName, err)
	}

	cloud, err := cam.NextPointCloud(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("capture: %w", err)
	}
	return cloud, nil
}

// printSummary logs how many points produced usable descriptors.
func printSummary(descriptors *feature.Feature, logger logging.Logger) {
	n := descriptors.Num()
	populated := 0
	for i := 0; i < n; i++ {
		var sum float64
		for _, v := range descriptors.Descriptor(i) {
			sum += math.Abs(v)
		}
		if sum > 0 {
			populated++
		}
	}
	logger.Infof("Descriptors: %d total, %d populated, %d zero (isolated or degenerate)",
		n, populated, n-populated)
}

// writeCSV dumps one descriptor per row: point index followed by 33 bin values.
func writeCSV(descriptors *feature.Feature, path string) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	w := csv.NewWriter(file)
	defer w.Flush()

	row := make([]string, feature.Dimension+1)
	for i := 0; i < descriptors.Num(); i++ {
		row[0] = strconv.Itoa(i)
		for b, v := range descriptors.Descriptor(i) {
			row[b+1] = strconv.FormatFloat(v, 'g', -1, 64)
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	return w.Error()
}
