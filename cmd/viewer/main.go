// Interactive camera viewer.
//
// Loads a declarative feature configuration, binds it to a camera (the
// simulated one unless CAMERA_ADDR points at a camera daemon) and serves
// the interactive panel.
package main

import (
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pylonkit/go-pylon-viewer/internal/config"
	"github.com/pylonkit/go-pylon-viewer/internal/log"
	"github.com/pylonkit/go-pylon-viewer/pkg/camera"
	"github.com/pylonkit/go-pylon-viewer/pkg/display"
	"github.com/pylonkit/go-pylon-viewer/pkg/panel"
	"github.com/pylonkit/go-pylon-viewer/pkg/viewer"
)

func main() {
	cfgPath := flag.String("config", "features.yaml", "feature configuration file")
	port := flag.String("port", config.PanelPort(), "panel HTTP port")
	imageDir := flag.String("images", config.ImageDir(), "folder for saved images")
	windowW := flag.Int("window-width", 0, "viewer window width (0 = default)")
	windowH := flag.Int("window-height", 0, "viewer window height (0 = default)")
	flag.Parse()

	log.Init(config.LogLevel())

	cam := openCamera()

	cfg, err := viewer.LoadConfiguration(*cfgPath)
	if err != nil {
		log.Error("load configuration", "path", *cfgPath, "err", err)
		os.Exit(1)
	}

	tk := panel.NewServer(*port)
	tk.StartAsync()

	sink := display.NewCV()
	defer sink.Close()

	v := viewer.New(cam, tk, sink, sink)
	if err := v.SetConfiguration(cfg); err != nil {
		log.Error("apply configuration", "err", err)
		os.Exit(1)
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		log.Info("shutting down")
		v.Stop()
		tk.Shutdown()
	}()

	log.Info("viewer running", "panel", "http://localhost:"+*port, "images", *imageDir)
	if err := v.ShowInteractivePanel(*imageDir, *windowW, *windowH); err != nil {
		log.Error("viewer stopped", "err", err)
		os.Exit(1)
	}
}

// openCamera connects the daemon bridge when CAMERA_ADDR is set and falls
// back to the simulated camera otherwise. The live frame stream is used
// when the daemon offers one.
func openCamera() camera.Camera {
	addr := config.CameraAddr()
	if addr == "" {
		log.Info("CAMERA_ADDR not set, using simulated camera")
		return camera.NewSim()
	}

	bridge := camera.NewBridge(addr)

	stream := camera.NewFrameStream(addr)
	if err := stream.Connect(10 * time.Second); err != nil {
		log.Warn("frame stream unavailable, grabbing over HTTP", "err", err)
	} else {
		bridge.Stream = stream
	}

	log.Info("camera bridge connected", "addr", addr)
	return bridge
}
