package camera

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/jpeg"
	"sync"
)

// SimFeature describes one feature of the simulated camera.
type SimFeature struct {
	Value   any
	Min     float64
	Max     float64
	Step    float64
	Entries []string // non-nil for enumeration features
	ReadOnly bool
}

func (f *SimFeature) numeric() bool {
	switch f.Value.(type) {
	case int, int64, float64:
		return true
	}
	return false
}

// Sim is an in-memory camera used by commands and tests. Writes to numeric
// features are clamped to [Min, Max] and quantized to Step, matching how
// real devices round requested values.
type Sim struct {
	mu       sync.Mutex
	features map[string]*SimFeature
	userSets map[string]map[string]any
	frameSeq int

	// Disconnected makes every Grab fail fatally.
	Disconnected bool

	// GrabErr, when set, makes Grab fail non-fatally with this error.
	GrabErr error
}

// NewSim creates a simulated camera with a small default feature set
// modeled on a Basler GigE area camera.
func NewSim() *Sim {
	s := &Sim{
		features: make(map[string]*SimFeature),
		userSets: make(map[string]map[string]any),
	}
	s.AddFeature("GainRaw", &SimFeature{Value: 20, Min: 10, Max: 63, Step: 1})
	s.AddFeature("ExposureTimeAbs", &SimFeature{Value: 10000.0, Min: 16.0, Max: 1e7, Step: 1.0})
	s.AddFeature("ReverseX", &SimFeature{Value: false})
	s.AddFeature("PixelFormat", &SimFeature{
		Value:   "Mono8",
		Entries: []string{"Mono8", "Mono12", "BayerRG8", "RGB8Packed"},
	})
	return s
}

// AddFeature registers or replaces a feature definition.
func (s *Sim) AddFeature(name string, f *SimFeature) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.features[name] = f
}

func (s *Sim) feature(name string) (*SimFeature, error) {
	f, ok := s.features[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownFeature, name)
	}
	return f, nil
}

// Get returns the current feature value.
func (s *Sim) Get(name string) (any, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	f, err := s.feature(name)
	if err != nil {
		return nil, err
	}
	return f.Value, nil
}

// Set writes a feature value, quantizing numerics to the feature step.
func (s *Sim) Set(name string, value any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	f, err := s.feature(name)
	if err != nil {
		return err
	}
	if f.ReadOnly {
		return fmt.Errorf("%w: %s", ErrReadOnly, name)
	}

	if f.Entries != nil {
		str, ok := value.(string)
		if !ok {
			return fmt.Errorf("camera: feature %s expects a string, got %T", name, value)
		}
		for _, e := range f.Entries {
			if e == str {
				f.Value = str
				return nil
			}
		}
		return fmt.Errorf("camera: %q is not a valid entry of %s", str, name)
	}

	switch f.Value.(type) {
	case bool:
		b, ok := value.(bool)
		if !ok {
			return fmt.Errorf("camera: feature %s expects a bool, got %T", name, value)
		}
		f.Value = b
	case int, int64:
		v, ok := toFloat(value)
		if !ok {
			return fmt.Errorf("camera: feature %s expects a number, got %T", name, value)
		}
		f.Value = int(f.quantize(v))
	case float64:
		v, ok := toFloat(value)
		if !ok {
			return fmt.Errorf("camera: feature %s expects a number, got %T", name, value)
		}
		f.Value = f.quantize(v)
	default:
		f.Value = value
	}
	return nil
}

// quantize clamps v to the feature bounds and rounds it to the nearest
// step from Min.
func (f *SimFeature) quantize(v float64) float64 {
	if v < f.Min {
		v = f.Min
	}
	if v > f.Max && f.Max > f.Min {
		v = f.Max
	}
	if f.Step > 0 {
		steps := int((v-f.Min)/f.Step + 0.5)
		v = f.Min + float64(steps)*f.Step
		if v > f.Max && f.Max > f.Min {
			v -= f.Step
		}
	}
	return v
}

// Min returns the feature lower bound.
func (s *Sim) Min(name string) (float64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	f, err := s.feature(name)
	if err != nil {
		return 0, err
	}
	return f.Min, nil
}

// Max returns the feature upper bound.
func (s *Sim) Max(name string) (float64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	f, err := s.feature(name)
	if err != nil {
		return 0, err
	}
	return f.Max, nil
}

// Increment returns the feature value step.
func (s *Sim) Increment(name string) (float64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	f, err := s.feature(name)
	if err != nil {
		return 0, err
	}
	if f.Step == 0 {
		return 0, fmt.Errorf("%w: %s", ErrNoIncrement, name)
	}
	return f.Step, nil
}

// EnumEntries returns the valid entries of an enumeration feature.
func (s *Sim) EnumEntries(name string) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	f, err := s.feature(name)
	if err != nil {
		return nil, err
	}
	if f.Entries == nil {
		return nil, fmt.Errorf("%w: %s", ErrNotEnum, name)
	}
	entries := make([]string, len(f.Entries))
	copy(entries, f.Entries)
	return entries, nil
}

// Grab synthesizes one JPEG test frame. The pattern shifts every grab so
// continuous mode shows motion.
func (s *Sim) Grab() (Frame, error) {
	s.mu.Lock()
	if s.Disconnected {
		s.mu.Unlock()
		return Frame{}, ErrDisconnected
	}
	if s.GrabErr != nil {
		err := s.GrabErr
		s.mu.Unlock()
		return Frame{}, err
	}
	s.frameSeq++
	seq := s.frameSeq
	s.mu.Unlock()

	const w, h = 320, 240
	img := image.NewGray(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetGray(x, y, color.Gray{Y: uint8((x + y + seq*4) % 256)})
		}
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: 85}); err != nil {
		return Frame{}, fmt.Errorf("camera: encode sim frame: %w", err)
	}
	return Frame{Width: w, Height: h, Format: "jpeg", Data: buf.Bytes()}, nil
}

// SaveToUserSet snapshots all current feature values into the named slot.
func (s *Sim) SaveToUserSet(slot string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap := make(map[string]any, len(s.features))
	for name, f := range s.features {
		snap[name] = f.Value
	}
	s.userSets[slot] = snap
	return nil
}

// LoadFromUserSet restores feature values from the named slot.
func (s *Sim) LoadFromUserSet(slot string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap, ok := s.userSets[slot]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownUserSet, slot)
	}
	for name, v := range snap {
		if f, ok := s.features[name]; ok {
			f.Value = v
		}
	}
	return nil
}

// toFloat converts JSON-ish numeric values to float64.
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
	}
	return 0, false
}
