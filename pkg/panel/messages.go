// Package panel serves the interactive viewer panel: a Fiber app that
// renders the widget tree to browser clients and feeds user changes back
// to the viewer event loop over websockets.
package panel

import (
	"encoding/json"
	"fmt"
	"time"
)

// MessageType identifies the type of panel websocket message
type MessageType string

const (
	// Server → Panel messages
	TypeTree   MessageType = "tree"   // Full widget tree after (re)render
	TypeUpdate MessageType = "update" // Single widget state change

	// Panel → Server messages
	TypeChange MessageType = "change" // User changed a widget value

	// Bidirectional
	TypePing MessageType = "ping"
	TypePong MessageType = "pong"
)

// Message is the base wrapper for all panel websocket messages
type Message struct {
	Type      MessageType     `json:"type"`
	Timestamp int64           `json:"ts,omitempty"` // Unix milliseconds
	Data      json.RawMessage `json:"data,omitempty"`
}

// NewMessage creates a new message with the current timestamp
func NewMessage(msgType MessageType, data any) (*Message, error) {
	var rawData json.RawMessage
	if data != nil {
		var err error
		rawData, err = json.Marshal(data)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal message data: %w", err)
		}
	}

	return &Message{
		Type:      msgType,
		Timestamp: time.Now().UnixMilli(),
		Data:      rawData,
	}, nil
}

// ParseData unmarshals the message data into the provided struct
func (m *Message) ParseData(v any) error {
	if m.Data == nil {
		return nil
	}
	return json.Unmarshal(m.Data, v)
}

// Bytes returns the JSON-encoded message
func (m *Message) Bytes() ([]byte, error) {
	return json.Marshal(m)
}

// ParseMessage parses a JSON message from bytes
func ParseMessage(data []byte) (*Message, error) {
	var msg Message
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, fmt.Errorf("failed to parse message: %w", err)
	}
	return &msg, nil
}

// WidgetState is the wire form of one widget.
type WidgetState struct {
	Name    string            `json:"name"`
	Kind    string            `json:"kind"`
	Label   string            `json:"label"`
	Value   any               `json:"value"`
	Enabled bool              `json:"enabled"`
	Min     *float64          `json:"min,omitempty"`
	Max     *float64          `json:"max,omitempty"`
	Step    *float64          `json:"step,omitempty"`
	Options []string          `json:"options,omitempty"`
	Unit    string            `json:"unit,omitempty"`
	Layout  map[string]string `json:"layout,omitempty"`
	Style   map[string]string `json:"style,omitempty"`
}

// TreeData carries the full widget tree, row by row.
type TreeData struct {
	Rows [][]WidgetState `json:"rows"`
}

// ChangeData carries a user change from the panel.
type ChangeData struct {
	Widget string `json:"widget"`
	Value  any    `json:"value"`
}

// NewTreeMessage creates a full-tree message
func NewTreeMessage(rows [][]WidgetState) (*Message, error) {
	return NewMessage(TypeTree, TreeData{Rows: rows})
}

// NewUpdateMessage creates a single-widget update message
func NewUpdateMessage(state WidgetState) (*Message, error) {
	return NewMessage(TypeUpdate, state)
}

// NewChangeMessage creates a user change message
func NewChangeMessage(widget string, value any) (*Message, error) {
	return NewMessage(TypeChange, ChangeData{Widget: widget, Value: value})
}
