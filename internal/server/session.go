package server

import (
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	helloTimeout   = 5 * time.Second
	maxMessageSize = 4096
	sendBuffer     = 256
)

// session owns the write side of one websocket connection. Reads happen
// on the connection handler's goroutine; writes are funnelled through a
// buffered channel into writePump so broadcasts never block the table.
type session struct {
	conn   *websocket.Conn
	logger *log.Logger

	seat      int // -1 until seated
	team      string
	spectator bool
	mode      string

	send      chan []byte
	done      chan struct{}
	closeOnce sync.Once
	flushOnce sync.Once
}

func newSession(conn *websocket.Conn, logger *log.Logger) *session {
	return &session{
		conn:   conn,
		logger: logger.With("remote", conn.RemoteAddr().String()),
		seat:   -1,
		send:   make(chan []byte, sendBuffer),
		done:   make(chan struct{}),
	}
}

// enqueue hands a frame to the write pump. A session that cannot keep up
// is closed rather than allowed to stall the table.
func (s *session) enqueue(frame []byte) {
	select {
	case <-s.done:
	case s.send <- frame:
	default:
		s.logger.Warn("send buffer full, dropping connection")
		s.close()
	}
}

func (s *session) close() {
	s.closeOnce.Do(func() {
		close(s.done)
		s.conn.Close()
	})
}

// closeAfterFlush lets the write pump drain the queued frames and send a
// close frame before the socket drops, so a fatal error frame reaches the
// client instead of a bare EOF. Only safe while this goroutine is the sole
// enqueuer, i.e. before the session is registered for broadcasts.
func (s *session) closeAfterFlush() {
	s.flushOnce.Do(func() { close(s.send) })
	select {
	case <-s.done:
	case <-time.After(writeWait):
		s.close()
	}
}

// closeWith sends a close frame with the given reason before dropping
// the connection.
func (s *session) closeWith(code int, reason string) {
	deadline := time.Now().Add(writeWait)
	msg := websocket.FormatCloseMessage(code, reason)
	_ = s.conn.WriteControl(websocket.CloseMessage, msg, deadline)
	s.close()
}

// writePump drains the send channel and keeps the connection alive with
// pings. It exits when the session closes.
func (s *session) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		s.close()
	}()
	for {
		select {
		case <-s.done:
			return
		case frame, ok := <-s.send:
			s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				msg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")
				_ = s.conn.WriteMessage(websocket.CloseMessage, msg)
				return
			}
			if err := s.conn.WriteMessage(websocket.TextMessage, frame); err != nil {
				return
			}
		case <-ticker.C:
			s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := s.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
