package viewer

import "fmt"

// The viewer separates failures into four classes. Configuration errors
// halt panel construction and are returned to the host. Everything else is
// reported on the status label so the panel stays responsive.

// ConfigurationError means a malformed or unresolvable feature spec or
// layout reference. Raised at SetConfiguration time, before any rendering.
type ConfigurationError struct {
	Reason string
	Err    error
}

func (e *ConfigurationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("configuration: %s: %v", e.Reason, e.Err)
	}
	return "configuration: " + e.Reason
}

func (e *ConfigurationError) Unwrap() error { return e.Err }

func configErrf(format string, args ...any) *ConfigurationError {
	return &ConfigurationError{Reason: fmt.Sprintf(format, args...)}
}

// AcquisitionError means one capture cycle failed. The cycle is aborted;
// continuous mode keeps running unless the cause is fatal.
type AcquisitionError struct {
	Err error
}

func (e *AcquisitionError) Error() string {
	return fmt.Sprintf("acquisition: %v", e.Err)
}

func (e *AcquisitionError) Unwrap() error { return e.Err }

// CapabilityWriteError means the camera rejected a widget value. The
// widget reverts to its last known-good value.
type CapabilityWriteError struct {
	Feature string
	Err     error
}

func (e *CapabilityWriteError) Error() string {
	return fmt.Sprintf("write %s: %v", e.Feature, e.Err)
}

func (e *CapabilityWriteError) Unwrap() error { return e.Err }

// PersistenceError means an image save or a user-set save/load failed.
// No viewer state changes.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }
