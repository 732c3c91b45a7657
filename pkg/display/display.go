// Package display shows frames in OpenCV windows and writes them to disk.
package display

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"gocv.io/x/gocv"

	"github.com/pylonkit/go-pylon-viewer/pkg/camera"
)

// Sink presents frames to the user and reports key presses. The capture
// loop polls PollKey between frames for cooperative cancellation.
type Sink interface {
	// Show displays a frame in the named window, creating it on first use.
	Show(window string, frame camera.Frame) error

	// Resize sets the size of the named window.
	Resize(window string, width, height int)

	// PollKey returns the pending key press, or 0 when none is pending.
	// It must not block beyond the toolkit's minimum event-pump delay.
	PollKey() rune

	// Close destroys all windows owned by the sink.
	Close()
}

// Saver encodes and writes frames to disk.
type Saver interface {
	Save(path string, frame camera.Frame) error
}

// CV displays frames through OpenCV highgui windows.
type CV struct {
	windows map[string]*gocv.Window
}

var (
	_ Sink  = (*CV)(nil)
	_ Saver = (*CV)(nil)
)

// NewCV creates an OpenCV-backed sink.
func NewCV() *CV {
	return &CV{windows: make(map[string]*gocv.Window)}
}

func (c *CV) window(name string) *gocv.Window {
	w, ok := c.windows[name]
	if !ok {
		w = gocv.NewWindow(name)
		c.windows[name] = w
	}
	return w
}

// Show decodes the frame and displays it in the named window.
func (c *CV) Show(window string, frame camera.Frame) error {
	mat, err := gocv.IMDecode(frame.Data, gocv.IMReadColor)
	if err != nil {
		return fmt.Errorf("display: decode frame: %w", err)
	}
	defer mat.Close()

	if mat.Empty() {
		return fmt.Errorf("display: frame decoded to empty image")
	}

	c.window(window).IMShow(mat)
	return nil
}

// Resize sets the window size.
func (c *CV) Resize(window string, width, height int) {
	c.window(window).ResizeWindow(width, height)
}

// PollKey pumps the highgui event loop for 1ms and returns any key press.
func (c *CV) PollKey() rune {
	if len(c.windows) == 0 {
		return 0
	}
	// Any window can pump events; pick one.
	for _, w := range c.windows {
		k := w.WaitKey(1)
		if k <= 0 {
			return 0
		}
		return rune(k)
	}
	return 0
}

// Close destroys all windows.
func (c *CV) Close() {
	for _, w := range c.windows {
		w.Close()
	}
	c.windows = make(map[string]*gocv.Window)
}

// Save decodes the frame and writes it to path. The encoding is chosen by
// the path extension.
func (c *CV) Save(path string, frame camera.Frame) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("display: create image folder: %w", err)
	}

	mat, err := gocv.IMDecode(frame.Data, gocv.IMReadColor)
	if err != nil {
		return fmt.Errorf("display: decode frame: %w", err)
	}
	defer mat.Close()

	if ok := gocv.IMWrite(path, mat); !ok {
		return fmt.Errorf("display: write %s failed", path)
	}
	return nil
}

// SnapshotName builds a collision-avoiding filename inside folder:
// timestamp plus a short unique suffix.
func SnapshotName(folder, ext string) string {
	name := fmt.Sprintf("%s_%s.%s",
		time.Now().Format("20060102_150405"),
		uuid.New().String()[:8],
		ext)
	return filepath.Join(folder, name)
}
