// Package config provides configuration helpers for go-pylon-viewer commands.
package config

import (
	"os"
)

// Defaults for the viewer commands.
const (
	DefaultPanelPort = "8090"
	DefaultImageDir  = "./images"
	DefaultLogLevel  = "info"
)

// CameraAddr returns the camera bridge address from CAMERA_ADDR.
// Empty means the simulated camera should be used.
func CameraAddr() string {
	return os.Getenv("CAMERA_ADDR")
}

// PanelPort returns the panel HTTP port from PANEL_PORT or the default.
func PanelPort() string {
	if port := os.Getenv("PANEL_PORT"); port != "" {
		return port
	}
	return DefaultPanelPort
}

// ImageDir returns the folder for saved images from IMAGE_DIR or the default.
func ImageDir() string {
	if dir := os.Getenv("IMAGE_DIR"); dir != "" {
		return dir
	}
	return DefaultImageDir
}

// LogLevel returns the log level from LOG_LEVEL or the default.
func LogLevel() string {
	if level := os.Getenv("LOG_LEVEL"); level != "" {
		return level
	}
	return DefaultLogLevel
}
