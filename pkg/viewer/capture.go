package viewer

import (
	"github.com/pylonkit/go-pylon-viewer/pkg/camera"
	"github.com/pylonkit/go-pylon-viewer/pkg/display"
)

// windowName is the viewer-owned display window.
const windowName = "camera_image"

// ProcessResult is the tagged outcome of a processing function: either the
// function displayed the frame itself, or it returns the image the viewer
// should display and persist.
type ProcessResult struct {
	displayed bool
	frame     camera.Frame
}

// Displayed marks the frame as already shown by the processing function.
// The viewer suppresses its own window for this cycle.
func Displayed() ProcessResult {
	return ProcessResult{displayed: true}
}

// Processed returns the frame the viewer should display and persist in
// place of the raw camera output.
func Processed(frame camera.Frame) ProcessResult {
	return ProcessResult{frame: frame}
}

// ProcessFunc receives the raw grabbed frame. Errors abort the cycle and
// are reported like acquisition failures.
type ProcessFunc func(camera.Frame) (ProcessResult, error)

// captureCycle runs one grab -> process -> display pass and retains the
// display target as the last image. Every failure aborts the cycle.
func (v *Viewer) captureCycle() error {
	frame, err := v.cam.Grab()
	if err != nil {
		return &AcquisitionError{Err: err}
	}

	target := frame
	selfDisplayed := false

	if v.process != nil {
		result, err := v.process(frame)
		if err != nil {
			return &AcquisitionError{Err: err}
		}
		if result.displayed {
			selfDisplayed = true
		} else if !result.frame.Empty() {
			target = result.frame
		}
	}

	if !selfDisplayed && !v.ownWindow {
		if err := v.sink.Show(windowName, target); err != nil {
			return &AcquisitionError{Err: err}
		}
	}

	if p, ok := v.toolkit.(Previewer); ok && !target.Empty() {
		p.Preview(target)
	}

	v.lastImage = target
	return nil
}

// saveCurrent persists the last display target into the image folder under
// a collision-avoiding filename.
func (v *Viewer) saveCurrent() {
	if v.lastImage.Empty() {
		v.setStatus("nothing to save yet")
		return
	}

	path := display.SnapshotName(v.imageFolder, "png")
	if err := v.saver.Save(path, v.lastImage); err != nil {
		v.report(&PersistenceError{Op: "save image", Err: err})
		return
	}
	v.setStatus("saved " + path)
}

// pollKey asks the display sink for a pending key press.
func (v *Viewer) pollKey() rune {
	if v.sink == nil {
		return 0
	}
	return v.sink.PollKey()
}
