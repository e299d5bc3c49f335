package monitor

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/tutormesh/tutormesh/core"
	"github.com/tutormesh/tutormesh/logging"
)

const (
	writeTimeout = 10 * time.Second
	pongTimeout  = 60 * time.Second
	pingInterval = 20 * time.Second
)

// envelope frames every message pushed to a monitor connection.
type envelope struct {
	Type    string `json:"type"`
	Payload any    `json:"payload"`
}

// WSEndpoint is a core.MonitorEndpoint backed by a WebSocket connection.
// Writes are serialized through a mutex; gorilla/websocket permits only one
// concurrent writer per connection.
type WSEndpoint struct {
	conn    *websocket.Conn
	writeMu sync.Mutex
	logger  logging.Logger

	closeOnce sync.Once
	done      chan struct{}
}

// NewWSEndpoint wraps an established connection and starts its keepalive
// ping loop. The caller owns the read side; see Handler for the server-side
// pump.
func NewWSEndpoint(conn *websocket.Conn, logger logging.Logger) *WSEndpoint {
	e := &WSEndpoint{
		conn:   conn,
		logger: core.LoggerOrNoOp(logger),
		done:   make(chan struct{}),
	}
	go e.pingLoop()
	return e
}

// Dial connects to a monitor-facing WebSocket URL and returns the endpoint.
func Dial(ctx context.Context, url string, logger logging.Logger) (*WSEndpoint, error) {
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, url, nil)
	if err != nil {
		return nil, fmt.Errorf("dialing monitor endpoint %s: %w", url, err)
	}
	return NewWSEndpoint(conn, logger), nil
}

// SendControllerMessage pushes an isolated controller-bound activity copy.
func (e *WSEndpoint) SendControllerMessage(ctx context.Context, msg core.ControllerMessage) error {
	return e.write(ctx, envelope{Type: "controllerMessage", Payload: msg})
}

// RequestAuthorization forwards strategies pending human approval.
func (e *WSEndpoint) RequestAuthorization(ctx context.Context, req core.AuthorizeStrategiesRequest) error {
	return e.write(ctx, envelope{Type: "authorizeStrategies", Payload: req})
}

// Close shuts the connection down. Safe to call more than once.
func (e *WSEndpoint) Close() error {
	var err error
	e.closeOnce.Do(func() {
		close(e.done)
		err = e.conn.Close()
	})
	return err
}

func (e *WSEndpoint) write(ctx context.Context, env envelope) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	e.writeMu.Lock()
	defer e.writeMu.Unlock()
	_ = e.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	if err := e.conn.WriteJSON(env); err != nil {
		return fmt.Errorf("writing %s to monitor: %w", env.Type, err)
	}
	return nil
}

func (e *WSEndpoint) pingLoop() {
	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()
	for {
		select {
		case <-e.done:
			return
		case <-ticker.C:
			e.writeMu.Lock()
			err := e.conn.WriteControl(websocket.PingMessage, []byte("ping"), time.Now().Add(writeTimeout))
			e.writeMu.Unlock()
			if err != nil {
				e.logger.Debug("monitor ping failed, closing: %v", err)
				_ = e.Close()
				return
			}
		}
	}
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// Handler returns an http.Handler that upgrades monitor connections and
// attaches them to the registry. The observed session is named by the
// session_id query parameter. The connection stays attached until the
// monitor disconnects.
func Handler(registry *Registry, logger logging.Logger) http.Handler {
	logger = core.LoggerOrNoOp(logger)
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sessionID := r.URL.Query().Get("session_id")
		if sessionID == "" {
			http.Error(w, "session_id required", http.StatusBadRequest)
			return
		}
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}

		endpoint := NewWSEndpoint(conn, logger)
		registry.Attach(sessionID, endpoint)
		logger.Info("monitor attached to session %s", sessionID)
		defer func() {
			registry.Detach(sessionID, endpoint)
			_ = endpoint.Close()
			logger.Info("monitor detached from session %s", sessionID)
		}()

		conn.SetReadLimit(512)
		_ = conn.SetReadDeadline(time.Now().Add(pongTimeout))
		conn.SetPongHandler(func(string) error {
			return conn.SetReadDeadline(time.Now().Add(pongTimeout))
		})

		// Reader pump: monitors only receive, client messages are discarded.
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	})
}
