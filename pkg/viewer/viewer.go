package viewer

import (
	"errors"
	"sync"
	"time"

	"github.com/pylonkit/go-pylon-viewer/internal/log"
	"github.com/pylonkit/go-pylon-viewer/pkg/camera"
	"github.com/pylonkit/go-pylon-viewer/pkg/display"
)

// idlePollInterval paces key polling while no capture is running.
const idlePollInterval = 50 * time.Millisecond

// Viewer binds an opened camera to a widget toolkit and a display sink.
// The camera connection is owned by the hosting application; the viewer
// never opens or closes it.
//
// All widget callbacks and capture cycles run on the viewer's single event
// loop. The toolkit queues user events onto an internal channel; continuous
// capture drains that channel between frames, so cancellation is polled,
// never preemptive.
type Viewer struct {
	cam     camera.Camera
	toolkit Toolkit
	sink    display.Sink
	saver   display.Saver

	process   ProcessFunc
	ownWindow bool

	cfg      Configuration
	bindings map[string]*Binding
	order    []string
	actions  map[string]Control
	deps     *depTable

	mode      Mode
	userSet   string
	lastImage camera.Frame

	imageFolder string

	events   chan Event
	quit     chan struct{}
	stopOnce sync.Once
}

// New creates a viewer over an opened camera. toolkit renders the widgets;
// sink and saver display and persist frames.
func New(cam camera.Camera, toolkit Toolkit, sink display.Sink, saver display.Saver) *Viewer {
	v := &Viewer{
		cam:     cam,
		toolkit: toolkit,
		sink:    sink,
		saver:   saver,
		userSet: UserSet1,
		events:  make(chan Event, 64),
		quit:    make(chan struct{}),
	}

	toolkit.OnEvent(func(ev Event) {
		select {
		case v.events <- ev:
		default:
			log.Warn("event queue full, dropping panel event", "widget", ev.Widget)
		}
	})

	return v
}

// SetConfiguration validates the configuration, resolves every feature
// against the camera, builds the widgets and renders the panel layout.
// Any ConfigurationError is returned before a single widget is rendered,
// and the previous bindings stay in effect.
func (v *Viewer) SetConfiguration(cfg Configuration) error {
	if err := cfg.validate(); err != nil {
		return err
	}

	bindings, order, err := buildBindings(cfg, v.cam, v.toolkit)
	if err != nil {
		return err
	}

	actions := make(map[string]Control)
	for _, d := range actionDescriptors(cfg) {
		ctl, err := v.toolkit.Construct(d)
		if err != nil {
			return &ConfigurationError{Reason: "construct action widget " + d.Name(), Err: err}
		}
		actions[d.Name()] = ctl
	}

	controls := make(map[string]Control, len(bindings))
	for name, b := range bindings {
		controls[name] = b.Control
	}
	featureRows, err := arrange(cfg.FeaturesLayout, order, controls, nil)
	if err != nil {
		return err
	}

	hidden := map[string]bool{}
	if cfg.DefaultUserSet != "" {
		hidden[ActionUserSet] = true
	}
	actionRows, err := arrange(cfg.ActionsLayout, ActionNames(), actions, hidden)
	if err != nil {
		return err
	}

	if err := v.toolkit.Render(append(featureRows, actionRows...)); err != nil {
		return &ConfigurationError{Reason: "render panel", Err: err}
	}

	// Old bindings are replaced wholesale.
	v.cfg = cfg
	v.bindings = bindings
	v.order = order
	v.actions = actions
	v.deps = newDepTable(bindings)
	v.mode = ModeIdle

	log.Info("configuration applied", "features", len(order), "defaultUserSet", cfg.DefaultUserSet)
	return nil
}

// SetImageProcessingFunction registers fn for every captured frame. With
// ownWindow the viewer never opens its own display window and leaves all
// display to fn.
func (v *Viewer) SetImageProcessingFunction(fn ProcessFunc, ownWindow bool) error {
	if fn == nil {
		return errors.New("viewer: processing function must not be nil")
	}
	v.process = fn
	v.ownWindow = ownWindow
	return nil
}

// ShowInteractivePanel runs the viewer event loop: panel events trigger
// feature writes and capture cycles, saved images land in imageFolder.
// A non-zero windowSize resizes the viewer window. Blocks until Stop.
func (v *Viewer) ShowInteractivePanel(imageFolder string, windowWidth, windowHeight int) error {
	if v.bindings == nil {
		return configErrf("no configuration applied")
	}
	v.imageFolder = imageFolder

	if windowWidth > 0 && windowHeight > 0 && !v.ownWindow {
		v.sink.Resize(windowName, windowWidth, windowHeight)
	}

	v.setStatus("ready")

	ticker := time.NewTicker(idlePollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-v.quit:
			return nil
		case ev := <-v.events:
			v.handleEvent(ev)
		case <-ticker.C:
			// Key presses matter while idle too: 's' saves the
			// last shot, 'q' closes the viewer windows.
			switch v.pollKey() {
			case 's', 'S':
				v.saveCurrent()
			case 'q', 'Q':
				v.sink.Close()
			}
		}
	}
}

// Stop ends ShowInteractivePanel.
func (v *Viewer) Stop() {
	v.stopOnce.Do(func() { close(v.quit) })
}

// SaveImage grabs one frame and writes it to path.
func (v *Viewer) SaveImage(path string) error {
	frame, err := v.cam.Grab()
	if err != nil {
		return &AcquisitionError{Err: err}
	}
	if err := v.saver.Save(path, frame); err != nil {
		return &PersistenceError{Op: "save image", Err: err}
	}
	v.lastImage = frame
	return nil
}

// GetImage returns the last captured (possibly processed) image. The
// second return is false when nothing has been captured yet.
func (v *Viewer) GetImage() (camera.Frame, bool) {
	if v.lastImage.Empty() {
		return camera.Frame{}, false
	}
	return v.lastImage, true
}

// Mode returns the current capture mode.
func (v *Viewer) Mode() Mode {
	return v.mode
}

// handleEvent dispatches one panel event on the viewer loop.
func (v *Viewer) handleEvent(ev Event) {
	if _, ok := v.bindings[ev.Widget]; ok {
		v.applyFeatureChange(ev.Widget, ev.Value)
		return
	}

	switch ev.Widget {
	case ActionSingleShot:
		if v.mode == ModeIdle {
			v.singleShot()
		}
	case ActionContinuousShot:
		on, _ := ev.Value.(bool)
		switch {
		case on && v.mode == ModeIdle:
			v.continuousShot()
		case !on && v.mode == ModeContinuousRunning:
			v.mode = ModeIdle
		}
	case ActionSaveConfig:
		v.saveConfig()
	case ActionLoadConfig:
		v.loadConfig()
	case ActionUserSet:
		slot, _ := ev.Value.(string)
		if validUserSet(slot) {
			v.userSet = slot
		} else {
			v.report(&PersistenceError{Op: "select user set", Err: errors.New("unknown slot " + slot)})
		}
	default:
		log.Debug("ignoring event for unknown widget", "widget", ev.Widget)
	}
}

// applyFeatureChange writes a widget value to the camera. Rejected writes
// are reported and the widget reverts to its last known-good value.
// Accepted writes are read back so the widget shows the camera-quantized
// value, and dependents are re-evaluated synchronously.
func (v *Viewer) applyFeatureChange(name string, value any) {
	b := v.bindings[name]

	if err := v.cam.Set(name, value); err != nil {
		v.report(&CapabilityWriteError{Feature: name, Err: err})
		b.Control.SetValue(b.lastGood)
		return
	}

	effective := value
	if readBack, err := v.cam.Get(name); err == nil {
		effective = readBack
	}
	// The event may not have come from the widget itself (REST endpoint),
	// so the effective value is always pushed back to the control.
	b.Control.SetValue(effective)

	b.lastGood = effective
	v.deps.observe(name, effective)
	log.Debug("feature written", "feature", name, "value", effective)
}

// setMode transitions the capture mode and mirrors it on the status label.
func (v *Viewer) setMode(m Mode) {
	v.mode = m
	v.setStatus(m.String())
}

// setStatus updates the status label.
func (v *Viewer) setStatus(text string) {
	if ctl, ok := v.actions[ActionStatus]; ok {
		ctl.SetValue(text)
	}
}

// report surfaces a non-fatal error on the status label. Errors never
// propagate to the hosting application from the event loop.
func (v *Viewer) report(err error) {
	log.Warn("viewer error", "err", err)
	v.setStatus(err.Error())
}
