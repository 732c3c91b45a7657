package panel

import (
	"sync"

	"github.com/pylonkit/go-pylon-viewer/pkg/viewer"
)

// control is the panel-side implementation of viewer.Control. State
// changes pushed by the viewer are broadcast to all connected clients.
type control struct {
	server *Server
	name   string
	kind   viewer.WidgetKind
	label  string

	min, max, step *float64
	options        []string
	unit           string
	layout, style  map[string]string

	mu      sync.RWMutex
	value   any
	enabled bool
}

var _ viewer.Control = (*control)(nil)

func newControl(s *Server, d viewer.Descriptor) *control {
	c := &control{
		server:  s,
		name:    d.Name(),
		kind:    d.Kind,
		label:   d.Label,
		options: d.Options,
		unit:    d.Spec.Unit,
		layout:  d.Spec.Layout,
		style:   d.Spec.Style,
		value:   d.Value,
		enabled: true,
	}
	if d.Kind.Numeric() {
		min, max, step := d.Min, d.Max, d.Step
		c.min, c.max, c.step = &min, &max, &step
	}
	return c
}

func (c *control) Name() string            { return c.name }
func (c *control) Kind() viewer.WidgetKind { return c.kind }

func (c *control) Value() any {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.value
}

// SetValue updates the displayed value and notifies clients. It never
// generates a change event back to the viewer.
func (c *control) SetValue(v any) {
	c.mu.Lock()
	c.value = v
	c.mu.Unlock()
	c.server.broadcastUpdate(c)
}

// SetEnabled switches the widget between interactive and grayed-out.
func (c *control) SetEnabled(enabled bool) {
	c.mu.Lock()
	c.enabled = enabled
	c.mu.Unlock()
	c.server.broadcastUpdate(c)
}

// state snapshots the control for the wire.
func (c *control) state() WidgetState {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return WidgetState{
		Name:    c.name,
		Kind:    string(c.kind),
		Label:   c.label,
		Value:   c.value,
		Enabled: c.enabled,
		Min:     c.min,
		Max:     c.max,
		Step:    c.step,
		Options: c.options,
		Unit:    c.unit,
		Layout:  c.layout,
		Style:   c.style,
	}
}
