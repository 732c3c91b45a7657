package viewer

import (
	"errors"
	"testing"

	"github.com/pylonkit/go-pylon-viewer/pkg/camera"
)

func floatPtr(v float64) *float64 { return &v }

func TestResolve_FillsBoundsFromCamera(t *testing.T) {
	// Stubbed camera reports current=20, min=10, max=63, step=1.
	sim := camera.NewSim()

	d, err := resolve(FeatureSpec{Name: "GainRaw", Kind: KindInt}, sim)
	if err != nil {
		t.Fatalf("resolve() error = %v", err)
	}

	if d.Value != 20 {
		t.Errorf("Value = %v, want 20", d.Value)
	}
	if d.Min != 10 {
		t.Errorf("Min = %v, want 10", d.Min)
	}
	if d.Max != 63 {
		t.Errorf("Max = %v, want 63", d.Max)
	}
	if d.Step != 1 {
		t.Errorf("Step = %v, want 1", d.Step)
	}
}

func TestResolve_DefaultsKindToInt(t *testing.T) {
	d, err := resolve(FeatureSpec{Name: "GainRaw"}, camera.NewSim())
	if err != nil {
		t.Fatalf("resolve() error = %v", err)
	}
	if d.Kind != KindInt {
		t.Errorf("Kind = %q, want %q", d.Kind, KindInt)
	}
}

func TestResolve_UnknownFeature(t *testing.T) {
	_, err := resolve(FeatureSpec{Name: "NoSuchFeature", Kind: KindInt}, camera.NewSim())

	var cfgErr *ConfigurationError
	if !errors.As(err, &cfgErr) {
		t.Fatalf("resolve() error = %v, want ConfigurationError", err)
	}
	if !errors.Is(err, camera.ErrUnknownFeature) {
		t.Errorf("error does not wrap ErrUnknownFeature: %v", err)
	}
}

func TestResolve_DeclaredBoundsNeverWidenCameraRange(t *testing.T) {
	tests := []struct {
		name    string
		spec    FeatureSpec
		wantMin float64
		wantMax float64
	}{
		{
			name:    "declared inside camera range",
			spec:    FeatureSpec{Name: "GainRaw", Kind: KindInt, Value: 25, Min: floatPtr(20), Max: floatPtr(40)},
			wantMin: 20,
			wantMax: 40,
		},
		{
			name:    "declared below camera min",
			spec:    FeatureSpec{Name: "GainRaw", Kind: KindInt, Min: floatPtr(0)},
			wantMin: 10,
			wantMax: 63,
		},
		{
			name:    "declared above camera max",
			spec:    FeatureSpec{Name: "GainRaw", Kind: KindInt, Max: floatPtr(1000)},
			wantMin: 10,
			wantMax: 63,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, err := resolve(tt.spec, camera.NewSim())
			if err != nil {
				t.Fatalf("resolve() error = %v", err)
			}
			if d.Min != tt.wantMin || d.Max != tt.wantMax {
				t.Errorf("bounds = [%v, %v], want [%v, %v]", d.Min, d.Max, tt.wantMin, tt.wantMax)
			}
		})
	}
}

func TestResolve_ValueOutsideResolvedBounds(t *testing.T) {
	_, err := resolve(FeatureSpec{Name: "GainRaw", Kind: KindInt, Value: 5}, camera.NewSim())

	var cfgErr *ConfigurationError
	if !errors.As(err, &cfgErr) {
		t.Errorf("resolve() error = %v, want ConfigurationError for value below camera min", err)
	}
}

func TestResolve_MissingIncrementFallsBackToOne(t *testing.T) {
	sim := camera.NewSim()
	sim.AddFeature("BlackLevel", &camera.SimFeature{Value: 0, Min: 0, Max: 255})

	d, err := resolve(FeatureSpec{Name: "BlackLevel", Kind: KindInt}, sim)
	if err != nil {
		t.Fatalf("resolve() error = %v", err)
	}
	if d.Step != 1 {
		t.Errorf("Step = %v, want fallback 1", d.Step)
	}
}

func TestResolve_ChoiceTextValidatesOptionsAgainstCamera(t *testing.T) {
	sim := camera.NewSim() // PixelFormat: Mono8, Mono12, BayerRG8, RGB8Packed

	d, err := resolve(FeatureSpec{
		Name:    "PixelFormat",
		Kind:    KindChoiceText,
		Options: []string{"Mono8", "Mono12"},
	}, sim)
	if err != nil {
		t.Fatalf("resolve() error = %v", err)
	}
	if len(d.Options) != 2 {
		t.Errorf("Options = %v, want the two declared entries", d.Options)
	}
	if d.Value != "Mono8" {
		t.Errorf("Value = %v, want camera current Mono8", d.Value)
	}
}

func TestResolve_ChoiceTextRejectsUnknownOption(t *testing.T) {
	_, err := resolve(FeatureSpec{
		Name:    "PixelFormat",
		Kind:    KindChoiceText,
		Options: []string{"Mono8", "Mono99"},
	}, camera.NewSim())

	var cfgErr *ConfigurationError
	if !errors.As(err, &cfgErr) {
		t.Errorf("resolve() error = %v, want ConfigurationError for non-camera option", err)
	}
}

func TestResolve_ChoiceTextValueMustBeDeclaredOption(t *testing.T) {
	// Camera current is Mono8, which is not among the declared options.
	_, err := resolve(FeatureSpec{
		Name:    "PixelFormat",
		Kind:    KindChoiceText,
		Options: []string{"Mono12", "BayerRG8"},
	}, camera.NewSim())

	var cfgErr *ConfigurationError
	if !errors.As(err, &cfgErr) {
		t.Errorf("resolve() error = %v, want ConfigurationError", err)
	}
}

func TestResolve_BoolRejectsNonBoolValue(t *testing.T) {
	_, err := resolve(FeatureSpec{Name: "ReverseX", Kind: KindBool, Value: 1}, camera.NewSim())

	var cfgErr *ConfigurationError
	if !errors.As(err, &cfgErr) {
		t.Errorf("resolve() error = %v, want ConfigurationError", err)
	}
}

func TestWidgetLabel(t *testing.T) {
	tests := []struct {
		spec FeatureSpec
		want string
	}{
		{FeatureSpec{Name: "GainRaw"}, "Gain Raw :"},
		{FeatureSpec{Name: "ExposureTimeAbs", Unit: "us"}, "Exposure Time Abs [us] :"},
		{FeatureSpec{Name: "Width"}, "Width :"},
	}
	for _, tt := range tests {
		if got := widgetLabel(tt.spec); got != tt.want {
			t.Errorf("widgetLabel(%q) = %q, want %q", tt.spec.Name, got, tt.want)
		}
	}
}
