package viewer

import "github.com/pylonkit/go-pylon-viewer/pkg/camera"

// Binding pairs a resolved feature with its rendered control. Bindings are
// owned by the Viewer and replaced wholesale when a new configuration is
// applied.
type Binding struct {
	Descriptor Descriptor
	Control    Control

	// lastGood is the last value the camera accepted. The control
	// reverts to it when a write is rejected.
	lastGood any
}

// buildBindings resolves every feature and constructs its control, in
// declaration order.
func buildBindings(cfg Configuration, cam camera.FeatureAccessor, tk Toolkit) (map[string]*Binding, []string, error) {
	bindings := make(map[string]*Binding, len(cfg.Features))
	order := make([]string, 0, len(cfg.Features))

	for _, spec := range cfg.Features {
		d, err := resolve(spec, cam)
		if err != nil {
			return nil, nil, err
		}
		ctl, err := tk.Construct(d)
		if err != nil {
			return nil, nil, &ConfigurationError{Reason: "construct widget " + spec.Name, Err: err}
		}
		bindings[spec.Name] = &Binding{
			Descriptor: d,
			Control:    ctl,
			lastGood:   d.Value,
		}
		order = append(order, spec.Name)
	}

	return bindings, order, nil
}

// depRule gates one dependent widget on the observed values of its
// governing features.
type depRule struct {
	dependent *Binding
	required  map[string]any
}

// enabledFor computes the AND over every governing entry.
func (r *depRule) enabledFor(observed map[string]any) bool {
	for governing, want := range r.required {
		if !valuesEqual(observed[governing], want) {
			return false
		}
	}
	return true
}

// depTable is the explicit subscription table behind dependency wiring:
// each dependent widget registers interest in its governing names, and the
// enabled state is a pure function of the observed values.
type depTable struct {
	byGoverning map[string][]*depRule
	observed    map[string]any
}

// newDepTable wires the dependency rules of every binding and applies the
// initial enabled state from the resolved values.
func newDepTable(bindings map[string]*Binding) *depTable {
	t := &depTable{
		byGoverning: make(map[string][]*depRule),
		observed:    make(map[string]any, len(bindings)),
	}

	for name, b := range bindings {
		t.observed[name] = b.Descriptor.Value
	}

	for _, b := range bindings {
		if len(b.Descriptor.Spec.Dependency) == 0 {
			continue
		}
		rule := &depRule{dependent: b, required: b.Descriptor.Spec.Dependency}
		for governing := range rule.required {
			t.byGoverning[governing] = append(t.byGoverning[governing], rule)
		}
		b.Control.SetEnabled(rule.enabledFor(t.observed))
	}

	return t
}

// observe records a new governing value and synchronously recomputes the
// enabled state of every widget subscribed to it.
func (t *depTable) observe(name string, value any) {
	t.observed[name] = value
	for _, rule := range t.byGoverning[name] {
		rule.dependent.Control.SetEnabled(rule.enabledFor(t.observed))
	}
}

// valuesEqual compares widget values across the JSON/YAML numeric types.
func valuesEqual(a, b any) bool {
	if a == nil || b == nil {
		return a == b
	}
	if af, aok := toFloat(a); aok {
		bf, bok := toFloat(b)
		return bok && af == bf
	}
	switch av := a.(type) {
	case bool:
		bv, ok := b.(bool)
		return ok && av == bv
	case string:
		bv, ok := b.(string)
		return ok && av == bv
	}
	return a == b
}
