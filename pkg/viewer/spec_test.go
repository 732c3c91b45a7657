package viewer

import (
	"os"
	"path/filepath"
	"testing"
)

func TestConfigurationValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Configuration
		wantErr bool
	}{
		{
			name: "valid",
			cfg: Configuration{Features: []FeatureSpec{
				{Name: "GainRaw", Kind: KindInt},
				{Name: "PixelFormat", Kind: KindChoiceText, Options: []string{"Mono8"}},
			}},
		},
		{
			name:    "no features",
			cfg:     Configuration{},
			wantErr: true,
		},
		{
			name: "empty name",
			cfg: Configuration{Features: []FeatureSpec{
				{Kind: KindInt},
			}},
			wantErr: true,
		},
		{
			name: "duplicate names",
			cfg: Configuration{Features: []FeatureSpec{
				{Name: "GainRaw", Kind: KindInt},
				{Name: "GainRaw", Kind: KindFloat},
			}},
			wantErr: true,
		},
		{
			name: "unknown widget type",
			cfg: Configuration{Features: []FeatureSpec{
				{Name: "GainRaw", Kind: "slider3d"},
			}},
			wantErr: true,
		},
		{
			name: "choice_text without options",
			cfg: Configuration{Features: []FeatureSpec{
				{Name: "PixelFormat", Kind: KindChoiceText},
			}},
			wantErr: true,
		},
		{
			name: "options on numeric widget",
			cfg: Configuration{Features: []FeatureSpec{
				{Name: "GainRaw", Kind: KindInt, Options: []string{"10"}},
			}},
			wantErr: true,
		},
		{
			name: "min above max",
			cfg: Configuration{Features: []FeatureSpec{
				{Name: "GainRaw", Kind: KindInt, Min: floatPtr(50), Max: floatPtr(10)},
			}},
			wantErr: true,
		},
		{
			name: "value outside declared bounds",
			cfg: Configuration{Features: []FeatureSpec{
				{Name: "GainRaw", Kind: KindInt, Value: 99, Min: floatPtr(10), Max: floatPtr(63)},
			}},
			wantErr: true,
		},
		{
			name: "value inside declared bounds",
			cfg: Configuration{Features: []FeatureSpec{
				{Name: "GainRaw", Kind: KindInt, Value: 20, Min: floatPtr(10), Max: floatPtr(63)},
			}},
		},
		{
			name: "dependency on declared feature",
			cfg: Configuration{Features: []FeatureSpec{
				{Name: "TriggerMode", Kind: KindBool},
				{Name: "TriggerDelay", Kind: KindInt, Dependency: map[string]any{"TriggerMode": true}},
			}},
		},
		{
			name: "dependency on undeclared feature",
			cfg: Configuration{Features: []FeatureSpec{
				{Name: "TriggerDelay", Kind: KindInt, Dependency: map[string]any{"TriggerMode": true}},
			}},
			wantErr: true,
		},
		{
			name: "unknown default user set",
			cfg: Configuration{
				Features:       []FeatureSpec{{Name: "GainRaw", Kind: KindInt}},
				DefaultUserSet: "FactorySet",
			},
			wantErr: true,
		},
		{
			name: "valid default user set",
			cfg: Configuration{
				Features:       []FeatureSpec{{Name: "GainRaw", Kind: KindInt}},
				DefaultUserSet: UserSet1,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestLoadConfiguration(t *testing.T) {
	yamlDoc := `
features:
  - name: GainRaw
    type: int
    value: 20
    min: 10
    max: 63
  - name: PixelFormat
    type: choice_text
    options: [Mono8, Mono12]
  - name: ExposureTimeAbs
    type: float
    unit: us
    dependency:
      GainRaw: 20
features_layout:
  - [GainRaw, ExposureTimeAbs]
  - [PixelFormat]
default_user_set: UserSet2
`
	path := filepath.Join(t.TempDir(), "features.yaml")
	if err := os.WriteFile(path, []byte(yamlDoc), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfiguration(path)
	if err != nil {
		t.Fatalf("LoadConfiguration() error = %v", err)
	}

	if len(cfg.Features) != 3 {
		t.Fatalf("features = %d, want 3", len(cfg.Features))
	}
	if cfg.Features[0].Name != "GainRaw" || cfg.Features[0].Kind != KindInt {
		t.Errorf("feature[0] = %+v, want GainRaw/int", cfg.Features[0])
	}
	if cfg.Features[0].Min == nil || *cfg.Features[0].Min != 10 {
		t.Errorf("feature[0].Min = %v, want 10", cfg.Features[0].Min)
	}
	if got := cfg.Features[2].Dependency["GainRaw"]; got != 20 {
		t.Errorf("dependency value = %v (%T), want 20", got, got)
	}
	if cfg.DefaultUserSet != UserSet2 {
		t.Errorf("DefaultUserSet = %q, want %q", cfg.DefaultUserSet, UserSet2)
	}
	if len(cfg.FeaturesLayout) != 2 || len(cfg.FeaturesLayout[0]) != 2 {
		t.Errorf("FeaturesLayout = %v", cfg.FeaturesLayout)
	}

	if err := cfg.validate(); err != nil {
		t.Errorf("validate() on loaded config: %v", err)
	}
}

func TestLoadConfiguration_MissingFile(t *testing.T) {
	if _, err := LoadConfiguration("no/such/file.yaml"); err == nil {
		t.Error("LoadConfiguration() expected error for missing file")
	}
}
