package camera

import (
	"errors"
	"testing"
)

func TestSim_DefaultGainFeature(t *testing.T) {
	sim := NewSim()

	value, err := sim.Get("GainRaw")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if value != 20 {
		t.Errorf("GainRaw = %v, want 20", value)
	}

	min, _ := sim.Min("GainRaw")
	max, _ := sim.Max("GainRaw")
	step, _ := sim.Increment("GainRaw")
	if min != 10 || max != 63 || step != 1 {
		t.Errorf("bounds = %v/%v/%v, want 10/63/1", min, max, step)
	}
}

func TestSim_UnknownFeature(t *testing.T) {
	sim := NewSim()

	if _, err := sim.Get("NoSuchFeature"); !errors.Is(err, ErrUnknownFeature) {
		t.Errorf("Get() error = %v, want ErrUnknownFeature", err)
	}
	if err := sim.Set("NoSuchFeature", 1); !errors.Is(err, ErrUnknownFeature) {
		t.Errorf("Set() error = %v, want ErrUnknownFeature", err)
	}
}

func TestSim_SetQuantizesToStep(t *testing.T) {
	sim := NewSim()
	sim.AddFeature("Gamma", &SimFeature{Value: 1.0, Min: 0.0, Max: 4.0, Step: 0.5})

	tests := []struct {
		in   float64
		want float64
	}{
		{1.7, 1.5},
		{1.8, 2.0},
		{0.1, 0.0},
		{9.0, 4.0},  // clamped to max
		{-2.0, 0.0}, // clamped to min
	}
	for _, tt := range tests {
		if err := sim.Set("Gamma", tt.in); err != nil {
			t.Fatalf("Set(%v) error = %v", tt.in, err)
		}
		got, _ := sim.Get("Gamma")
		if got != tt.want {
			t.Errorf("Set(%v): value = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestSim_SetIntKeepsIntType(t *testing.T) {
	sim := NewSim()

	if err := sim.Set("GainRaw", 33); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	got, _ := sim.Get("GainRaw")
	if _, ok := got.(int); !ok {
		t.Errorf("GainRaw type = %T, want int", got)
	}
}

func TestSim_SetRejectsWrongType(t *testing.T) {
	sim := NewSim()

	if err := sim.Set("ReverseX", 1); err == nil {
		t.Error("Set(ReverseX, 1) expected type error")
	}
	if err := sim.Set("GainRaw", "high"); err == nil {
		t.Error("Set(GainRaw, string) expected type error")
	}
}

func TestSim_EnumEntries(t *testing.T) {
	sim := NewSim()

	entries, err := sim.EnumEntries("PixelFormat")
	if err != nil {
		t.Fatalf("EnumEntries() error = %v", err)
	}
	if len(entries) != 4 || entries[0] != "Mono8" {
		t.Errorf("entries = %v", entries)
	}

	if _, err := sim.EnumEntries("GainRaw"); !errors.Is(err, ErrNotEnum) {
		t.Errorf("EnumEntries(GainRaw) error = %v, want ErrNotEnum", err)
	}

	if err := sim.Set("PixelFormat", "Mono12"); err != nil {
		t.Errorf("Set(PixelFormat, Mono12) error = %v", err)
	}
	if err := sim.Set("PixelFormat", "YUV422"); err == nil {
		t.Error("Set(PixelFormat, YUV422) expected error for unknown entry")
	}
}

func TestSim_ReadOnlyFeature(t *testing.T) {
	sim := NewSim()
	sim.AddFeature("DeviceTemperature", &SimFeature{Value: 42.0, Min: -40, Max: 120, Step: 0.1, ReadOnly: true})

	if err := sim.Set("DeviceTemperature", 20.0); !errors.Is(err, ErrReadOnly) {
		t.Errorf("Set() error = %v, want ErrReadOnly", err)
	}
}

func TestSim_NoIncrement(t *testing.T) {
	sim := NewSim()
	sim.AddFeature("BlackLevel", &SimFeature{Value: 0, Min: 0, Max: 255})

	if _, err := sim.Increment("BlackLevel"); !errors.Is(err, ErrNoIncrement) {
		t.Errorf("Increment() error = %v, want ErrNoIncrement", err)
	}
}

func TestSim_GrabProducesJPEGFrames(t *testing.T) {
	sim := NewSim()

	first, err := sim.Grab()
	if err != nil {
		t.Fatalf("Grab() error = %v", err)
	}
	if first.Empty() || first.Format != "jpeg" {
		t.Errorf("frame = %dx%d %s (%d bytes)", first.Width, first.Height, first.Format, len(first.Data))
	}

	second, err := sim.Grab()
	if err != nil {
		t.Fatalf("Grab() error = %v", err)
	}
	if string(first.Data) == string(second.Data) {
		t.Error("consecutive frames identical, want shifting test pattern")
	}
}

func TestSim_DisconnectedGrabIsFatal(t *testing.T) {
	sim := NewSim()
	sim.Disconnected = true

	_, err := sim.Grab()
	if !errors.Is(err, ErrDisconnected) {
		t.Fatalf("Grab() error = %v, want ErrDisconnected", err)
	}
	if !IsFatal(err) {
		t.Error("IsFatal() = false, want true")
	}
}

func TestSim_UserSetRoundTrip(t *testing.T) {
	sim := NewSim()

	if err := sim.Set("GainRaw", 42); err != nil {
		t.Fatal(err)
	}
	if err := sim.SaveToUserSet("UserSet1"); err != nil {
		t.Fatalf("SaveToUserSet() error = %v", err)
	}

	if err := sim.Set("GainRaw", 11); err != nil {
		t.Fatal(err)
	}
	if err := sim.LoadFromUserSet("UserSet1"); err != nil {
		t.Fatalf("LoadFromUserSet() error = %v", err)
	}

	got, _ := sim.Get("GainRaw")
	if got != 42 {
		t.Errorf("GainRaw after round-trip = %v, want 42", got)
	}
}

func TestSim_LoadUnknownUserSet(t *testing.T) {
	sim := NewSim()

	if err := sim.LoadFromUserSet("UserSet3"); !errors.Is(err, ErrUnknownUserSet) {
		t.Errorf("LoadFromUserSet() error = %v, want ErrUnknownUserSet", err)
	}
}
