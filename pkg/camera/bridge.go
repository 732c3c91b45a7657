package camera

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"

	"github.com/pylonkit/go-pylon-viewer/internal/httpc"
)

// Bridge talks to a camera daemon exposing the GenICam feature tree over a
// small JSON API. The daemon owns the device connection; the bridge never
// opens or closes it.
//
// Endpoints:
//
//	GET  /api/features/{name}        -> featureInfo
//	POST /api/features/{name}        <- {"value": ...}
//	GET  /api/frame                  -> image bytes (Content-Type image/jpeg)
//	POST /api/usersets/{slot}/save
//	POST /api/usersets/{slot}/load
type Bridge struct {
	BaseURL string

	// Stream, when set, serves Grab from the live websocket feed instead
	// of the single-frame endpoint.
	Stream *FrameStream
}

// NewBridge creates a bridge client for the daemon at addr (host:port).
func NewBridge(addr string) *Bridge {
	return &Bridge{BaseURL: fmt.Sprintf("http://%s", addr)}
}

type featureInfo struct {
	Value     any      `json:"value"`
	Min       *float64 `json:"min,omitempty"`
	Max       *float64 `json:"max,omitempty"`
	Increment *float64 `json:"increment,omitempty"`
	Entries   []string `json:"entries,omitempty"`
}

func (b *Bridge) featureInfo(name string) (*featureInfo, error) {
	resp, err := httpc.Get(b.BaseURL + "/api/features/" + name)
	if err != nil {
		return nil, classifyNetErr(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("%w: %s", ErrUnknownFeature, name)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("camera: feature %s: daemon returned %s", name, resp.Status)
	}

	var info featureInfo
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return nil, fmt.Errorf("camera: decode feature %s: %w", name, err)
	}
	return &info, nil
}

// Get returns the current value of the named feature.
func (b *Bridge) Get(name string) (any, error) {
	info, err := b.featureInfo(name)
	if err != nil {
		return nil, err
	}
	return info.Value, nil
}

// Set writes a new value to the named feature.
func (b *Bridge) Set(name string, value any) error {
	payload, err := json.Marshal(map[string]any{"value": value})
	if err != nil {
		return fmt.Errorf("camera: marshal %s value: %w", name, err)
	}

	resp, err := httpc.Post(b.BaseURL+"/api/features/"+name, "application/json", payload)
	if err != nil {
		return classifyNetErr(err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK, http.StatusNoContent:
		return nil
	case http.StatusNotFound:
		return fmt.Errorf("%w: %s", ErrUnknownFeature, name)
	case http.StatusForbidden:
		return fmt.Errorf("%w: %s", ErrReadOnly, name)
	default:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 256))
		return fmt.Errorf("camera: set %s: daemon returned %s: %s", name, resp.Status, body)
	}
}

// Min returns the feature lower bound.
func (b *Bridge) Min(name string) (float64, error) {
	info, err := b.featureInfo(name)
	if err != nil {
		return 0, err
	}
	if info.Min == nil {
		return 0, fmt.Errorf("camera: feature %s reports no minimum", name)
	}
	return *info.Min, nil
}

// Max returns the feature upper bound.
func (b *Bridge) Max(name string) (float64, error) {
	info, err := b.featureInfo(name)
	if err != nil {
		return 0, err
	}
	if info.Max == nil {
		return 0, fmt.Errorf("camera: feature %s reports no maximum", name)
	}
	return *info.Max, nil
}

// Increment returns the feature value step.
func (b *Bridge) Increment(name string) (float64, error) {
	info, err := b.featureInfo(name)
	if err != nil {
		return 0, err
	}
	if info.Increment == nil {
		return 0, fmt.Errorf("%w: %s", ErrNoIncrement, name)
	}
	return *info.Increment, nil
}

// EnumEntries returns the valid entries of an enumeration feature.
func (b *Bridge) EnumEntries(name string) ([]string, error) {
	info, err := b.featureInfo(name)
	if err != nil {
		return nil, err
	}
	if info.Entries == nil {
		return nil, fmt.Errorf("%w: %s", ErrNotEnum, name)
	}
	return info.Entries, nil
}

// Grab acquires one frame, from the live stream when attached, otherwise
// from the daemon's single-frame endpoint.
func (b *Bridge) Grab() (Frame, error) {
	if b.Stream != nil {
		return b.Stream.Latest()
	}

	resp, err := httpc.Get(b.BaseURL + "/api/frame")
	if err != nil {
		return Frame{}, classifyNetErr(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Frame{}, fmt.Errorf("camera: grab: daemon returned %s", resp.Status)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return Frame{}, fmt.Errorf("camera: grab: read body: %w", err)
	}
	return Frame{Format: "jpeg", Data: data}, nil
}

// SaveToUserSet persists current feature values into the named slot.
func (b *Bridge) SaveToUserSet(slot string) error {
	return b.userSetOp(slot, "save")
}

// LoadFromUserSet restores feature values from the named slot.
func (b *Bridge) LoadFromUserSet(slot string) error {
	return b.userSetOp(slot, "load")
}

func (b *Bridge) userSetOp(slot, op string) error {
	resp, err := httpc.Post(b.BaseURL+"/api/usersets/"+slot+"/"+op, "application/json", nil)
	if err != nil {
		return classifyNetErr(err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK, http.StatusNoContent:
		return nil
	case http.StatusNotFound:
		return fmt.Errorf("%w: %s", ErrUnknownUserSet, slot)
	default:
		return fmt.Errorf("camera: user set %s %s: daemon returned %s", slot, op, resp.Status)
	}
}

// classifyNetErr maps transport-level failures onto ErrDisconnected so the
// capture loop can tell fatal errors from transient ones.
func classifyNetErr(err error) error {
	var netErr net.Error
	if errors.As(err, &netErr) && !netErr.Timeout() {
		return fmt.Errorf("%w: %v", ErrDisconnected, err)
	}
	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return fmt.Errorf("%w: %v", ErrDisconnected, err)
	}
	return err
}
