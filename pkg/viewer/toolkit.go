package viewer

import "github.com/pylonkit/go-pylon-viewer/pkg/camera"

// Control is one rendered widget. Implementations belong to the UI
// toolkit; the viewer only pushes values and enabled state into them.
type Control interface {
	// Name returns the widget name (feature or action name).
	Name() string

	// Kind returns the widget type.
	Kind() WidgetKind

	// Value returns the currently displayed value.
	Value() any

	// SetValue updates the displayed value without generating a change
	// event.
	SetValue(v any)

	// SetEnabled switches the widget between interactive and grayed-out.
	SetEnabled(enabled bool)
}

// Event is a user interaction delivered by the toolkit: a feature widget
// change or an action widget trigger.
type Event struct {
	Widget string
	Value  any
}

// Toolkit renders widgets and delivers user events. The panel package
// provides the production implementation; tests use fakes.
type Toolkit interface {
	// Construct builds one control from a resolved descriptor.
	Construct(d Descriptor) (Control, error)

	// Render replaces the displayed widget tree with the given rows.
	Render(rows [][]Control) error

	// OnEvent registers the sink for user events. The toolkit must
	// deliver events from a single goroutine.
	OnEvent(fn func(Event))
}

// Previewer is an optional toolkit extension: panels that can show the
// captured frame inline receive each display target.
type Previewer interface {
	Preview(frame camera.Frame)
}
