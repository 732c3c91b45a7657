// Snapshot grabs a single frame and writes it to disk.
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/pylonkit/go-pylon-viewer/internal/config"
	"github.com/pylonkit/go-pylon-viewer/internal/log"
	"github.com/pylonkit/go-pylon-viewer/pkg/camera"
	"github.com/pylonkit/go-pylon-viewer/pkg/display"
)

func main() {
	out := flag.String("out", "", "output path (default: timestamped file in IMAGE_DIR)")
	flag.Parse()

	log.Init(config.LogLevel())

	var cam camera.Camera
	if addr := config.CameraAddr(); addr != "" {
		cam = camera.NewBridge(addr)
	} else {
		cam = camera.NewSim()
	}

	start := time.Now()
	frame, err := cam.Grab()
	if err != nil {
		log.Error("grab failed", "err", err)
		os.Exit(1)
	}

	path := *out
	if path == "" {
		path = display.SnapshotName(config.ImageDir(), "png")
	}

	saver := display.NewCV()
	defer saver.Close()
	if err := saver.Save(path, frame); err != nil {
		log.Error("save failed", "path", path, "err", err)
		os.Exit(1)
	}

	fmt.Printf("saved %s (%d bytes grabbed in %s)\n", path, len(frame.Data), time.Since(start).Round(time.Millisecond))
}
