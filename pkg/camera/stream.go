package camera

import (
	"fmt"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/pylonkit/go-pylon-viewer/internal/log"
)

// maxFrameAge is how stale the latest streamed frame may be before Grab
// reports the stream dead.
const maxFrameAge = 5 * time.Second

// FrameStream keeps the most recent frame pushed by the camera daemon over
// a websocket. Only the latest frame is retained; slower consumers simply
// skip frames, matching a latest-image-only grab strategy.
type FrameStream struct {
	url string

	ws *websocket.Conn

	mu         sync.RWMutex
	latest     Frame
	receivedAt time.Time
	closed     bool

	frameReady chan struct{}
}

// NewFrameStream creates a stream client for the daemon at addr (host:port).
func NewFrameStream(addr string) *FrameStream {
	return &FrameStream{
		url:        fmt.Sprintf("ws://%s/ws/frames", addr),
		frameReady: make(chan struct{}, 1),
	}
}

// Connect dials the daemon and starts the read pump. It blocks until the
// first frame arrives or the timeout elapses.
func (s *FrameStream) Connect(timeout time.Duration) error {
	dialer := websocket.Dialer{HandshakeTimeout: 10 * time.Second}

	var err error
	s.ws, _, err = dialer.Dial(s.url, nil)
	if err != nil {
		return fmt.Errorf("%w: dial frame stream: %v", ErrDisconnected, err)
	}

	go s.readPump()

	select {
	case <-s.frameReady:
		log.Info("frame stream connected", "url", s.url)
		return nil
	case <-time.After(timeout):
		s.Close()
		return fmt.Errorf("%w: no frame within %s", ErrDisconnected, timeout)
	}
}

// readPump reads binary JPEG messages until the connection drops.
func (s *FrameStream) readPump() {
	for {
		msgType, data, err := s.ws.ReadMessage()
		if err != nil {
			s.mu.Lock()
			s.closed = true
			s.mu.Unlock()
			log.Warn("frame stream closed", "err", err)
			return
		}
		if msgType != websocket.BinaryMessage || len(data) == 0 {
			continue
		}

		s.mu.Lock()
		s.latest = Frame{Format: "jpeg", Data: data}
		s.receivedAt = time.Now()
		s.mu.Unlock()

		select {
		case s.frameReady <- struct{}{}:
		default:
		}
	}
}

// Latest returns the most recently received frame.
func (s *FrameStream) Latest() (Frame, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return Frame{}, fmt.Errorf("%w: frame stream closed", ErrDisconnected)
	}
	if s.latest.Empty() {
		return Frame{}, fmt.Errorf("camera: no frame received yet")
	}
	if time.Since(s.receivedAt) > maxFrameAge {
		return Frame{}, fmt.Errorf("%w: last frame is %s old", ErrDisconnected, time.Since(s.receivedAt).Round(time.Second))
	}
	return s.latest, nil
}

// Close shuts down the websocket connection.
func (s *FrameStream) Close() {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
	if s.ws != nil {
		s.ws.Close()
	}
}
