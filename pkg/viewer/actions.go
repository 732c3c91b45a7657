package viewer

import (
	"errors"
	"fmt"

	"github.com/pylonkit/go-pylon-viewer/pkg/camera"
)

// Mode is the capture-mode state of the action panel.
type Mode int

const (
	ModeIdle Mode = iota
	ModeSingleShotPending
	ModeContinuousRunning
)

func (m Mode) String() string {
	switch m {
	case ModeIdle:
		return "idle"
	case ModeSingleShotPending:
		return "single shot"
	case ModeContinuousRunning:
		return "continuous"
	}
	return "unknown"
}

// Action widget names. These are valid references in ActionsLayout.
const (
	ActionStatus         = "status"
	ActionSaveConfig     = "save_config"
	ActionLoadConfig     = "load_config"
	ActionContinuousShot = "continuous_shot"
	ActionSingleShot     = "single_shot"
	ActionUserSet        = "user_set"
)

// ActionNames returns the action widgets in declaration order.
func ActionNames() []string {
	return []string{
		ActionStatus,
		ActionSaveConfig,
		ActionLoadConfig,
		ActionContinuousShot,
		ActionSingleShot,
		ActionUserSet,
	}
}

// actionDescriptors builds the synthetic descriptors of the fixed action
// widgets. The user-set selector is omitted when the configuration pins a
// slot.
func actionDescriptors(cfg Configuration) []Descriptor {
	ds := []Descriptor{
		{Spec: FeatureSpec{Name: ActionStatus}, Kind: KindLabel, Label: "Status:", Value: "idle"},
		{Spec: FeatureSpec{Name: ActionSaveConfig}, Kind: KindButton, Label: "Save configuration"},
		{Spec: FeatureSpec{Name: ActionLoadConfig}, Kind: KindButton, Label: "Load configuration"},
		{Spec: FeatureSpec{Name: ActionContinuousShot}, Kind: KindToggle, Label: "Continuous shot", Value: false},
		{Spec: FeatureSpec{Name: ActionSingleShot}, Kind: KindButton, Label: "Single shot"},
	}
	if cfg.DefaultUserSet == "" {
		ds = append(ds, Descriptor{
			Spec:    FeatureSpec{Name: ActionUserSet},
			Kind:    KindChoiceText,
			Label:   "User set:",
			Value:   UserSet1,
			Options: UserSets(),
		})
	}
	return ds
}

// currentUserSet returns the slot save/load-config operate on.
func (v *Viewer) currentUserSet() string {
	if v.cfg.DefaultUserSet != "" {
		return v.cfg.DefaultUserSet
	}
	return v.userSet
}

// saveConfig persists current camera feature values into the selected
// user set. Failure is reported, not raised.
func (v *Viewer) saveConfig() {
	slot := v.currentUserSet()
	if err := v.cam.SaveToUserSet(slot); err != nil {
		v.report(&PersistenceError{Op: "save to " + slot, Err: err})
		return
	}
	v.setStatus(fmt.Sprintf("configuration saved to %s", slot))
}

// loadConfig restores feature values from the selected user set and pushes
// them into every bound widget. A SaveConfig/LoadConfig round-trip with no
// intervening external change reproduces the displayed values.
func (v *Viewer) loadConfig() {
	slot := v.currentUserSet()
	if err := v.cam.LoadFromUserSet(slot); err != nil {
		v.report(&PersistenceError{Op: "load from " + slot, Err: err})
		return
	}

	for _, name := range v.order {
		b := v.bindings[name]
		value, err := v.cam.Get(name)
		if err != nil {
			v.report(&PersistenceError{Op: "refresh " + name, Err: err})
			continue
		}
		b.Control.SetValue(value)
		b.lastGood = value
		v.deps.observe(name, value)
	}

	v.setStatus(fmt.Sprintf("configuration loaded from %s", slot))
}

// singleShot runs exactly one capture cycle. The panel always returns to
// Idle, whether or not the cycle succeeded.
func (v *Viewer) singleShot() {
	v.setMode(ModeSingleShotPending)
	defer v.setMode(ModeIdle)

	if err := v.captureCycle(); err != nil {
		v.report(err)
	}
}

// continuousShot repeats capture cycles until the toggle is deactivated, a
// cancel key is pressed, or a fatal acquisition error occurs. Panel events
// are drained between cycles so widget changes and the stop toggle keep
// working while grabbing.
func (v *Viewer) continuousShot() {
	v.setMode(ModeContinuousRunning)
	defer func() {
		v.setMode(ModeIdle)
		v.syncToggle(false)
	}()

	for {
		// Cooperative cancellation: handle queued panel events first,
		// so an immediate toggle-off stops before the next grab.
		v.drainEvents()
		if v.mode != ModeContinuousRunning {
			return
		}

		if err := v.captureCycle(); err != nil {
			v.report(err)
			var acq *AcquisitionError
			if errors.As(err, &acq) && camera.IsFatal(acq.Err) {
				return
			}
		}

		switch v.pollKey() {
		case 'q', 'Q':
			return
		case 's', 'S':
			v.saveCurrent()
		}
	}
}

// drainEvents handles all queued panel events without blocking.
func (v *Viewer) drainEvents() {
	for {
		select {
		case ev := <-v.events:
			v.handleEvent(ev)
		default:
			return
		}
	}
}

// syncToggle pushes the continuous-shot toggle state back to the panel so
// the widget reflects loop exits caused by keys or fatal errors.
func (v *Viewer) syncToggle(on bool) {
	if ctl, ok := v.actions[ActionContinuousShot]; ok {
		ctl.SetValue(on)
	}
}
