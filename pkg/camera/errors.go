package camera

import "errors"

var (
	// ErrUnknownFeature is returned when a feature name does not resolve
	// on the device.
	ErrUnknownFeature = errors.New("camera: unknown feature")

	// ErrNoIncrement is returned by Increment for features that do not
	// report a value step. Callers typically fall back to 1.
	ErrNoIncrement = errors.New("camera: feature has no increment")

	// ErrNotEnum is returned by EnumEntries for non-enumeration features.
	ErrNotEnum = errors.New("camera: feature is not an enumeration")

	// ErrReadOnly is returned by Set when the feature rejects writes in
	// the current camera state.
	ErrReadOnly = errors.New("camera: feature is read-only")

	// ErrDisconnected classifies fatal acquisition failures. A capture
	// loop observing this error must stop instead of retrying.
	ErrDisconnected = errors.New("camera: disconnected")

	// ErrUnknownUserSet is returned for user-set slots the device does
	// not expose.
	ErrUnknownUserSet = errors.New("camera: unknown user set")
)

// IsFatal reports whether err means the device is gone and further
// grabs are pointless.
func IsFatal(err error) bool {
	return errors.Is(err, ErrDisconnected)
}
