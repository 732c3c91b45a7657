package panel

import (
	"sync"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/websocket/v2"

	"github.com/pylonkit/go-pylon-viewer/internal/log"
	"github.com/pylonkit/go-pylon-viewer/pkg/camera"
	"github.com/pylonkit/go-pylon-viewer/pkg/hub"
	"github.com/pylonkit/go-pylon-viewer/pkg/viewer"
)

// Server is the interactive panel: the production viewer.Toolkit. Widget
// state flows out to browser clients through the panel hub; user changes
// flow back as viewer events. Preview frames are broadcast binary on a
// separate hub.
type Server struct {
	app  *fiber.App
	port string

	mu       sync.RWMutex
	controls map[string]*control
	rows     [][]string // rendered layout, by widget name

	onEvent func(viewer.Event)

	panelHub *hub.Hub
	frameHub *hub.Hub
}

var (
	_ viewer.Toolkit   = (*Server)(nil)
	_ viewer.Previewer = (*Server)(nil)
)

// NewServer creates the panel server on the given port.
func NewServer(port string) *Server {
	s := &Server{
		port:     port,
		controls: make(map[string]*control),
		panelHub: hub.New("panel"),
		frameHub: hub.New("frames"),
	}

	app := fiber.New(fiber.Config{
		AppName:               "Camera Viewer Panel",
		DisableStartupMessage: true,
	})

	// CORS for local development
	app.Use(cors.New())

	api := app.Group("/api")
	api.Get("/widgets", s.handleWidgets)
	api.Post("/events/:name", s.handleEvent)

	// WebSocket upgrade middleware
	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})

	app.Get("/ws/panel", websocket.New(s.handlePanelWS))
	app.Get("/ws/frames", websocket.New(s.handleFramesWS))

	s.app = app
	return s
}

// Start runs the panel server. Blocks.
func (s *Server) Start() error {
	log.Info("panel listening", "addr", "http://localhost:"+s.port)

	go s.panelHub.Run()
	go s.frameHub.Run()

	return s.app.Listen(":" + s.port)
}

// StartAsync runs the panel server in a goroutine.
func (s *Server) StartAsync() {
	go func() {
		if err := s.Start(); err != nil {
			log.Error("panel server stopped", "err", err)
		}
	}()
}

// Shutdown stops the panel server.
func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}

// Construct implements viewer.Toolkit.
func (s *Server) Construct(d viewer.Descriptor) (viewer.Control, error) {
	ctl := newControl(s, d)
	s.mu.Lock()
	s.controls[d.Name()] = ctl
	s.mu.Unlock()
	return ctl, nil
}

// Render implements viewer.Toolkit: it replaces the widget tree and pushes
// the new tree to every connected client.
func (s *Server) Render(rows [][]viewer.Control) error {
	named := make([][]string, len(rows))
	keep := make(map[string]bool)
	for i, row := range rows {
		named[i] = make([]string, len(row))
		for j, ctl := range row {
			named[i][j] = ctl.Name()
			keep[ctl.Name()] = true
		}
	}

	s.mu.Lock()
	// Controls from a replaced configuration are dropped.
	for name := range s.controls {
		if !keep[name] {
			delete(s.controls, name)
		}
	}
	s.rows = named
	s.mu.Unlock()

	return s.broadcastTree()
}

// OnEvent implements viewer.Toolkit.
func (s *Server) OnEvent(fn func(viewer.Event)) {
	s.onEvent = fn
}

// Preview implements viewer.Previewer: the display target of each capture
// cycle is broadcast to the panel as a binary frame.
func (s *Server) Preview(frame camera.Frame) {
	if s.frameHub.ClientCount() == 0 {
		return
	}
	s.frameHub.BroadcastBinary(frame.Data)
}

// tree snapshots the rendered widget tree for the wire.
func (s *Server) tree() TreeData {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows := make([][]WidgetState, 0, len(s.rows))
	for _, row := range s.rows {
		group := make([]WidgetState, 0, len(row))
		for _, name := range row {
			if ctl, ok := s.controls[name]; ok {
				group = append(group, ctl.state())
			}
		}
		rows = append(rows, group)
	}
	return TreeData{Rows: rows}
}

func (s *Server) broadcastTree() error {
	msg, err := NewTreeMessage(s.tree().Rows)
	if err != nil {
		return err
	}
	data, err := msg.Bytes()
	if err != nil {
		return err
	}
	s.panelHub.Broadcast(hub.NewJSONMessage(data))
	return nil
}

func (s *Server) broadcastUpdate(ctl *control) {
	msg, err := NewUpdateMessage(ctl.state())
	if err != nil {
		log.Warn("encode widget update", "widget", ctl.Name(), "err", err)
		return
	}
	data, err := msg.Bytes()
	if err != nil {
		return
	}
	s.panelHub.Broadcast(hub.NewJSONMessage(data))
}

// emit forwards a user change to the viewer event loop.
func (s *Server) emit(widget string, value any) {
	if s.onEvent == nil {
		log.Warn("panel event with no viewer attached", "widget", widget)
		return
	}
	s.onEvent(viewer.Event{Widget: widget, Value: value})
}
