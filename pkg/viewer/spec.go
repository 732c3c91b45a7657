// Package viewer connects an industrial camera to an interactive control
// panel and an OpenCV display. A declarative feature list is turned into
// typed widgets whose values are pushed to the camera, and panel actions
// drive a grab -> process -> display/persist loop.
package viewer

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// WidgetKind selects the control type generated for a feature.
type WidgetKind string

const (
	KindInt        WidgetKind = "int"        // bounded integer slider
	KindFloat      WidgetKind = "float"      // bounded float slider
	KindBool       WidgetKind = "bool"       // checkbox
	KindIntText    WidgetKind = "int_text"   // bounded integer text box
	KindFloatText  WidgetKind = "float_text" // bounded float text box
	KindChoiceText WidgetKind = "choice_text" // dropdown over declared options

	// Action widget kinds. Not valid in a FeatureSpec.
	KindLabel  WidgetKind = "label"
	KindButton WidgetKind = "button"
	KindToggle WidgetKind = "toggle"
)

// featureKinds are the kinds a FeatureSpec may declare.
var featureKinds = map[WidgetKind]bool{
	KindInt:        true,
	KindFloat:      true,
	KindBool:       true,
	KindIntText:    true,
	KindFloatText:  true,
	KindChoiceText: true,
}

// Numeric reports whether the kind carries min/max/step bounds.
func (k WidgetKind) Numeric() bool {
	switch k {
	case KindInt, KindFloat, KindIntText, KindFloatText:
		return true
	}
	return false
}

// FeatureSpec declares one camera feature widget. Unspecified optional
// fields are resolved from the camera when the configuration is applied.
type FeatureSpec struct {
	// Name is the camera feature name, e.g. "GainRaw". It must resolve
	// to an existing capability on the bound camera.
	Name string `yaml:"name" json:"name"`

	// Kind selects the widget type. Defaults to "int".
	Kind WidgetKind `yaml:"type" json:"type"`

	// Value is the initial widget value. Defaults to the current camera
	// value.
	Value any `yaml:"value,omitempty" json:"value,omitempty"`

	// Min/Max/Step bound numeric widgets. Defaults come from the camera;
	// a missing camera increment falls back to 1.
	Min  *float64 `yaml:"min,omitempty" json:"min,omitempty"`
	Max  *float64 `yaml:"max,omitempty" json:"max,omitempty"`
	Step *float64 `yaml:"step,omitempty" json:"step,omitempty"`

	// Options lists the selectable values of a choice_text widget.
	// Required and non-empty for choice_text, forbidden otherwise.
	Options []string `yaml:"options,omitempty" json:"options,omitempty"`

	// Unit is an optional display suffix, e.g. "us".
	Unit string `yaml:"unit,omitempty" json:"unit,omitempty"`

	// Dependency gates this widget on other features: the widget is
	// enabled iff every named feature currently holds the required value.
	Dependency map[string]any `yaml:"dependency,omitempty" json:"dependency,omitempty"`

	// Layout and Style are CSS-ish hints passed through to the toolkit.
	Layout map[string]string `yaml:"layout,omitempty" json:"layout,omitempty"`
	Style  map[string]string `yaml:"style,omitempty" json:"style,omitempty"`
}

// User set slots supported by the action panel.
const (
	UserSet1 = "UserSet1"
	UserSet2 = "UserSet2"
	UserSet3 = "UserSet3"
)

// UserSets returns the selectable user-set slots in order.
func UserSets() []string {
	return []string{UserSet1, UserSet2, UserSet3}
}

func validUserSet(slot string) bool {
	for _, s := range UserSets() {
		if s == slot {
			return true
		}
	}
	return false
}

// Configuration is the full declarative input of the viewer.
type Configuration struct {
	// Features lists the feature widgets in declaration order. Names
	// must be unique.
	Features []FeatureSpec `yaml:"features" json:"features"`

	// FeaturesLayout optionally groups feature widgets into rows.
	// Features omitted here are appended one per row in declaration
	// order.
	FeaturesLayout [][]string `yaml:"features_layout,omitempty" json:"features_layout,omitempty"`

	// ActionsLayout does the same for the action widgets.
	ActionsLayout [][]string `yaml:"actions_layout,omitempty" json:"actions_layout,omitempty"`

	// DefaultUserSet pins save/load-config to one slot and hides the
	// selector. Empty means the selector widget is shown.
	DefaultUserSet string `yaml:"default_user_set,omitempty" json:"default_user_set,omitempty"`
}

// LoadConfiguration reads a YAML configuration file.
func LoadConfiguration(path string) (Configuration, error) {
	var cfg Configuration
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read configuration: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse configuration: %w", err)
	}
	return cfg, nil
}

// validate checks every invariant that does not need the camera:
// name uniqueness, kind validity, option presence, declared bounds
// ordering, dependency targets and user-set membership. Layout rows are
// checked later, against the built widget set.
func (c Configuration) validate() error {
	if len(c.Features) == 0 {
		return configErrf("no features declared")
	}

	declared := make(map[string]bool, len(c.Features))
	for _, f := range c.Features {
		if f.Name == "" {
			return configErrf("feature with empty name")
		}
		if declared[f.Name] {
			return configErrf("duplicate feature %q", f.Name)
		}
		declared[f.Name] = true

		kind := f.Kind
		if kind == "" {
			kind = KindInt
		}
		if !featureKinds[kind] {
			return configErrf("feature %q: unknown widget type %q", f.Name, kind)
		}

		if kind == KindChoiceText && len(f.Options) == 0 {
			return configErrf("feature %q: choice_text requires non-empty options", f.Name)
		}
		if kind != KindChoiceText && len(f.Options) > 0 {
			return configErrf("feature %q: options are only valid for choice_text", f.Name)
		}

		if kind.Numeric() {
			if f.Min != nil && f.Max != nil && *f.Min > *f.Max {
				return configErrf("feature %q: min %v above max %v", f.Name, *f.Min, *f.Max)
			}
			if f.Value != nil && f.Min != nil && f.Max != nil {
				v, ok := toFloat(f.Value)
				if !ok {
					return configErrf("feature %q: value %v is not numeric", f.Name, f.Value)
				}
				if v < *f.Min || v > *f.Max {
					return configErrf("feature %q: value %v outside [%v, %v]", f.Name, v, *f.Min, *f.Max)
				}
			}
		}
	}

	// A dependency naming an undeclared feature is an error, not a
	// silently-ignored rule.
	for _, f := range c.Features {
		for governing := range f.Dependency {
			if !declared[governing] {
				return configErrf("feature %q depends on undeclared feature %q", f.Name, governing)
			}
		}
	}

	if c.DefaultUserSet != "" && !validUserSet(c.DefaultUserSet) {
		return configErrf("unknown default user set %q", c.DefaultUserSet)
	}

	return nil
}

// toFloat converts widget values to float64 for bound checks and
// dependency comparison.
func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint64:
		return float64(n), true
	}
	return 0, false
}
