package viewer

import (
	"errors"
	"regexp"
	"strings"

	"github.com/pylonkit/go-pylon-viewer/pkg/camera"
)

// Descriptor is a FeatureSpec with every optional field filled in, ready
// for widget construction.
type Descriptor struct {
	Spec  FeatureSpec
	Kind  WidgetKind
	Label string

	Value   any
	Min     float64
	Max     float64
	Step    float64
	Options []string
}

// Name returns the underlying feature name.
func (d Descriptor) Name() string { return d.Spec.Name }

var camelBoundary = regexp.MustCompile(`([a-z0-9])([A-Z])`)

// widgetLabel turns "ExposureTimeAbs" into "Exposure Time Abs :".
func widgetLabel(spec FeatureSpec) string {
	label := camelBoundary.ReplaceAllString(spec.Name, "$1 $2")
	if spec.Unit != "" {
		label += " [" + spec.Unit + "]"
	}
	return label + " :"
}

// resolve fills the unspecified fields of one FeatureSpec from the camera.
// It is a pure read: nothing is written to the device. An unknown or
// inaccessible feature yields a ConfigurationError.
func resolve(spec FeatureSpec, cam camera.FeatureAccessor) (Descriptor, error) {
	kind := spec.Kind
	if kind == "" {
		kind = KindInt
	}

	d := Descriptor{
		Spec:  spec,
		Kind:  kind,
		Label: widgetLabel(spec),
	}

	current, err := cam.Get(spec.Name)
	if err != nil {
		return d, &ConfigurationError{
			Reason: "feature " + spec.Name + " is not accessible",
			Err:    err,
		}
	}

	d.Value = spec.Value
	if d.Value == nil {
		d.Value = current
	}

	switch {
	case kind.Numeric():
		if err := resolveBounds(&d, cam); err != nil {
			return d, err
		}
	case kind == KindBool:
		if _, ok := d.Value.(bool); !ok {
			return d, configErrf("feature %s: value %v is not a bool", spec.Name, d.Value)
		}
	case kind == KindChoiceText:
		if err := resolveOptions(&d, cam); err != nil {
			return d, err
		}
	}

	return d, nil
}

// resolveBounds reads min/max/increment for the fields the spec left out
// and checks the min <= value <= max invariant. Declared bounds never
// widen the camera's own range.
func resolveBounds(d *Descriptor, cam camera.FeatureAccessor) error {
	name := d.Spec.Name

	camMin, err := cam.Min(name)
	if err != nil {
		return &ConfigurationError{Reason: "feature " + name + ": no minimum", Err: err}
	}
	camMax, err := cam.Max(name)
	if err != nil {
		return &ConfigurationError{Reason: "feature " + name + ": no maximum", Err: err}
	}

	d.Min = camMin
	if d.Spec.Min != nil && *d.Spec.Min > camMin {
		d.Min = *d.Spec.Min
	}
	d.Max = camMax
	if d.Spec.Max != nil && *d.Spec.Max < camMax {
		d.Max = *d.Spec.Max
	}
	if d.Min > d.Max {
		return configErrf("feature %s: resolved min %v above max %v", name, d.Min, d.Max)
	}

	if d.Spec.Step != nil {
		d.Step = *d.Spec.Step
	} else {
		step, err := cam.Increment(name)
		switch {
		case err == nil:
			d.Step = step
		case errors.Is(err, camera.ErrNoIncrement):
			d.Step = 1
		default:
			return &ConfigurationError{Reason: "feature " + name + ": increment", Err: err}
		}
	}

	v, ok := toFloat(d.Value)
	if !ok {
		return configErrf("feature %s: value %v is not numeric", name, d.Value)
	}
	if v < d.Min || v > d.Max {
		return configErrf("feature %s: value %v outside [%v, %v]", name, v, d.Min, d.Max)
	}

	return nil
}

// resolveOptions validates that every declared option is a real entry of
// the camera enumeration, and that the initial value is one of the
// declared options.
func resolveOptions(d *Descriptor, cam camera.FeatureAccessor) error {
	name := d.Spec.Name

	entries, err := cam.EnumEntries(name)
	if err != nil {
		return &ConfigurationError{Reason: "feature " + name + " is not an enumeration", Err: err}
	}

	valid := make(map[string]bool, len(entries))
	for _, e := range entries {
		valid[e] = true
	}
	for _, opt := range d.Spec.Options {
		if !valid[opt] {
			return configErrf("feature %s: option %q is not a camera entry (valid: %s)",
				name, opt, strings.Join(entries, ", "))
		}
	}
	d.Options = d.Spec.Options

	str, ok := d.Value.(string)
	if !ok {
		return configErrf("feature %s: value %v is not a string", name, d.Value)
	}
	for _, opt := range d.Options {
		if opt == str {
			return nil
		}
	}
	return configErrf("feature %s: value %q is not among declared options", name, str)
}
