package panel

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"

	"github.com/pylonkit/go-pylon-viewer/internal/log"
	"github.com/pylonkit/go-pylon-viewer/pkg/hub"
)

// handleWidgets returns the current widget tree.
func (s *Server) handleWidgets(c *fiber.Ctx) error {
	return c.JSON(s.tree())
}

// eventRequest is the REST body of a widget change or action trigger.
type eventRequest struct {
	Value any `json:"value"`
}

// handleEvent accepts a widget change over plain HTTP. Buttons post with
// an empty body.
func (s *Server) handleEvent(c *fiber.Ctx) error {
	name := c.Params("name")

	s.mu.RLock()
	_, known := s.controls[name]
	s.mu.RUnlock()
	if !known {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "unknown widget " + name,
		})
	}

	var req eventRequest
	if err := c.BodyParser(&req); err != nil && len(c.Body()) > 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	s.emit(name, req.Value)
	return c.JSON(fiber.Map{"widget": name, "queued": true})
}

// handlePanelWS serves the JSON panel channel: widget tree and updates go
// out, user changes come in.
func (s *Server) handlePanelWS(c *websocket.Conn) {
	client := hub.NewClient(s.panelHub, c)
	client.OnMessage = s.handleInbound

	// New clients get the current tree immediately.
	if msg, err := NewTreeMessage(s.tree().Rows); err == nil {
		if data, err := msg.Bytes(); err == nil {
			c.WriteMessage(websocket.TextMessage, data)
		}
	}

	client.Run()
}

// handleFramesWS serves the binary preview-frame channel.
func (s *Server) handleFramesWS(c *websocket.Conn) {
	hub.NewClient(s.frameHub, c).Run()
}

// handleInbound decodes one inbound panel message.
func (s *Server) handleInbound(data []byte) {
	msg, err := ParseMessage(data)
	if err != nil {
		log.Warn("bad panel message", "err", err)
		return
	}

	switch msg.Type {
	case TypeChange:
		var change ChangeData
		if err := msg.ParseData(&change); err != nil {
			log.Warn("bad change payload", "err", err)
			return
		}
		s.emit(change.Widget, change.Value)
	case TypePing:
		// Clients ping over the hub's websocket ping/pong as well;
		// application-level pings need no reply payload.
	default:
		log.Debug("ignoring panel message", "type", string(msg.Type))
	}
}
