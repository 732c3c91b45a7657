// Package camera defines the capability surface of an industrial camera.
//
// This package follows the Interface Segregation Principle (ISP) by defining
// small, focused interfaces that can be composed as needed. Consumers should
// depend only on the interfaces they actually use: the widget layer needs
// FeatureAccessor, the capture loop needs FrameGrabber, the action panel
// needs UserSetStore.
//
// The camera connection is owned by the hosting application. Nothing in this
// package opens or closes devices.
package camera

// FeatureAccessor provides read/write access to named camera features
// (gain, exposure time, pixel format, ...).
type FeatureAccessor interface {
	// Get returns the current value of the named feature.
	Get(name string) (any, error)

	// Set writes a new value to the named feature. The camera may quantize
	// the written value to its increment; read back with Get to observe
	// the effective value.
	Set(name string, value any) error

	// Min returns the lower bound of a numeric feature.
	Min(name string) (float64, error)

	// Max returns the upper bound of a numeric feature.
	Max(name string) (float64, error)

	// Increment returns the value step of a numeric feature.
	// Features without an increment return ErrNoIncrement.
	Increment(name string) (float64, error)

	// EnumEntries returns the valid symbolic values of an enumeration
	// feature in camera order.
	EnumEntries(name string) ([]string, error)
}

// FrameGrabber acquires single frames.
type FrameGrabber interface {
	Grab() (Frame, error)
}

// UserSetStore persists and restores feature snapshots in camera-resident
// named slots.
type UserSetStore interface {
	SaveToUserSet(slot string) error
	LoadFromUserSet(slot string) error
}

// Camera is the composite interface for a fully capable device.
type Camera interface {
	FeatureAccessor
	FrameGrabber
	UserSetStore
}

// Frame is one grabbed image. Frames are ephemeral: the capture loop hands
// them to processing/display and does not retain them across cycles.
type Frame struct {
	Width  int
	Height int
	Format string // "jpeg", "png"
	Data   []byte // encoded image bytes
}

// Empty reports whether the frame carries no image data.
func (f Frame) Empty() bool {
	return len(f.Data) == 0
}

// Compile-time interface checks.
var (
	_ Camera = (*Sim)(nil)
	_ Camera = (*Bridge)(nil)
)
