package live

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gopher-motorsports/gopher-vision/internal/logging"
	"github.com/gorilla/websocket"
)

const (
	defaultFlushInterval = 50 * time.Millisecond
	defaultBatchSize     = 128
)

// Server upgrades HTTP connections to websockets and streams Hub updates to
// each viewer as JSON arrays, batched on a flush ticker — the same
// batch-then-flush writer shape the teacher uses for its TCP fan-out,
// adapted to one websocket connection per client instead of a raw net.Conn.
type Server struct {
	Hub      *Hub
	upgrader websocket.Upgrader

	flushInterval time.Duration
	batchSize     int
	logger        *slog.Logger

	wg sync.WaitGroup
}

type ServerOption func(*Server)

func NewServer(hub *Hub, opts ...ServerOption) *Server {
	s := &Server{
		Hub:           hub,
		flushInterval: defaultFlushInterval,
		batchSize:     defaultBatchSize,
		logger:        logging.L(),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

func WithFlushInterval(d time.Duration) ServerOption {
	return func(s *Server) {
		if d > 0 {
			s.flushInterval = d
		}
	}
}

func WithBatchSize(n int) ServerOption {
	return func(s *Server) {
		if n > 0 {
			s.batchSize = n
		}
	}
}

func WithLogger(l *slog.Logger) ServerOption {
	return func(s *Server) {
		if l != nil {
			s.logger = l
		}
	}
}

// ServeHTTP upgrades the request to a websocket and streams live updates
// until the client disconnects.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("live_upgrade_failed", "error", err, "remote", r.RemoteAddr)
		return
	}
	client := s.Hub.NewClient()
	s.Hub.Add(client)
	s.logger.Info("live_client_connected", "remote", r.RemoteAddr)

	go s.readPump(conn, client)
	s.writePump(conn, client)
}

// readPump drains client-originated frames (pings/close) so the connection
// stays alive; this feed is one-directional, so any data frame is ignored.
func (s *Server) readPump(conn *websocket.Conn, client *Client) {
	defer client.Close()
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (s *Server) writePump(conn *websocket.Conn, client *Client) {
	defer func() {
		_ = conn.Close()
		s.Hub.Remove(client)
		s.logger.Info("live_client_disconnected")
	}()

	t := time.NewTicker(s.flushInterval)
	defer t.Stop()

	batch := make([]Update, 0, s.batchSize)
	flush := func() bool {
		if len(batch) == 0 {
			return true
		}
		payload, err := json.Marshal(batch)
		batch = batch[:0]
		if err != nil {
			s.logger.Error("live_marshal_error", "error", err)
			return true
		}
		if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
			return false
		}
		return true
	}

	for {
		select {
		case u := <-client.Out:
			batch = append(batch, u)
			if len(batch) >= s.batchSize {
				if !flush() {
					return
				}
			}
		case <-t.C:
			if !flush() {
				return
			}
		case <-client.Closed:
			flush()
			return
		}
	}
}
