package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
	"github.com/kapu/cultureg-bot-go/internal/constants"
	"github.com/kapu/cultureg-bot-go/internal/util"
	"go.uber.org/zap"
)

type EventCallback func(event *Event)

type StateCallback func(state WebSocketState)

// WebSocket consumes the relay event stream and fans events out to subscribers.
// A lost connection is re-dialled every reconnectDelay, at most
// maxReconnectAttempts times in a row.
type WebSocket struct {
	wsURL                string
	header               http.Header
	dialer               websocket.Dialer
	maxReconnectAttempts int
	reconnectDelay       time.Duration
	logger               *zap.Logger

	events subscribers[EventCallback]
	states subscribers[StateCallback]

	mu    sync.Mutex // conn, state
	conn  *websocket.Conn
	state WebSocketState

	running  atomic.Bool
	stopCh   chan struct{}
	stopOnce sync.Once
	done     chan struct{}
}

func NewWebSocket(wsURL, token string, maxReconnectAttempts int, reconnectDelay time.Duration, logger *zap.Logger) *WebSocket {
	dialer := *websocket.DefaultDialer
	dialer.HandshakeTimeout = constants.WebSocketConfig.HandshakeTimeout

	header := http.Header{}
	header.Set("Authorization", "Bot "+token)

	return &WebSocket{
		wsURL:                wsURL,
		header:               header,
		dialer:               dialer,
		maxReconnectAttempts: maxReconnectAttempts,
		reconnectDelay:       reconnectDelay,
		logger:               logger,
		state:                WSStateDisconnected,
		stopCh:               make(chan struct{}),
		done:                 make(chan struct{}),
	}
}

// Connect dials the relay once and starts the read loop in the background.
// The first dial is not retried so that a wrong URL or token fails startup.
func (ws *WebSocket) Connect(ctx context.Context) error {
	if !ws.running.CompareAndSwap(false, true) {
		ws.logger.Warn("WebSocket already connected or connecting")
		return nil
	}

	conn, err := ws.dial(ctx)
	if err != nil {
		ws.running.Store(false)
		ws.setState(WSStateFailed)
		return fmt.Errorf("failed to connect websocket: %w", err)
	}

	go ws.run(ctx, conn)
	return nil
}

func (ws *WebSocket) dial(ctx context.Context) (*websocket.Conn, error) {
	ws.setState(WSStateConnecting)

	conn, _, err := ws.dialer.DialContext(ctx, ws.wsURL, ws.header)
	if err != nil {
		ws.logger.Error("Failed to connect WebSocket", zap.Error(err))
		return nil, err
	}

	ws.mu.Lock()
	ws.conn = conn
	ws.mu.Unlock()
	ws.setState(WSStateConnected)

	ws.logger.Info("WebSocket connected", zap.String("url", ws.wsURL))
	return conn, nil
}

// run reads until the connection drops, then reconnects until it succeeds,
// the attempts run out or the socket is stopped.
func (ws *WebSocket) run(ctx context.Context, conn *websocket.Conn) {
	defer close(ws.done)
	defer ws.logger.Info("WebSocket listener stopped")

	for conn != nil {
		ws.read(conn)
		_ = conn.Close()
		if ws.stopping(ctx) {
			return
		}
		ws.setState(WSStateDisconnected)
		conn = ws.reconnect(ctx)
	}
}

func (ws *WebSocket) read(conn *websocket.Conn) {
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			select {
			case <-ws.stopCh:
			default:
				ws.logger.Error("WebSocket read error", zap.Error(err))
			}
			return
		}
		ws.handleMessage(data)
	}
}

func (ws *WebSocket) reconnect(ctx context.Context) *websocket.Conn {
	for attempt := 1; attempt <= ws.maxReconnectAttempts; attempt++ {
		ws.setState(WSStateReconnecting)
		ws.logger.Info("Scheduling reconnect",
			zap.Int("attempt", attempt),
			zap.Int("max", ws.maxReconnectAttempts),
			zap.Duration("delay", ws.reconnectDelay),
		)

		select {
		case <-time.After(ws.reconnectDelay):
		case <-ws.stopCh:
			return nil
		case <-ctx.Done():
			return nil
		}

		conn, err := ws.dial(ctx)
		if err != nil {
			continue
		}
		if ws.stopping(ctx) {
			_ = conn.Close()
			return nil
		}
		return conn
	}

	ws.logger.Error("Max reconnect attempts reached", zap.Int("attempts", ws.maxReconnectAttempts))
	ws.setState(WSStateFailed)
	return nil
}

func (ws *WebSocket) stopping(ctx context.Context) bool {
	select {
	case <-ws.stopCh:
		return true
	case <-ctx.Done():
		return true
	default:
		return false
	}
}

func (ws *WebSocket) handleMessage(data []byte) {
	var event Event
	if err := json.Unmarshal(data, &event); err != nil {
		ws.logger.Error("Failed to parse event",
			zap.Error(err),
			zap.String("data", util.TruncateString(string(data), constants.StringLimits.LogPreview)),
		)
		return
	}

	for _, callback := range ws.events.snapshot() {
		callback(&event)
	}
}

// OnEvent subscribes to every event and returns the unsubscribe function.
// Callbacks run on the listener goroutine and must not block.
func (ws *WebSocket) OnEvent(callback EventCallback) func() {
	return ws.events.add(callback)
}

func (ws *WebSocket) OnStateChange(callback StateCallback) func() {
	return ws.states.add(callback)
}

func (ws *WebSocket) setState(newState WebSocketState) {
	ws.mu.Lock()
	oldState := ws.state
	ws.state = newState
	ws.mu.Unlock()

	if oldState == newState {
		return
	}

	ws.logger.Info("WebSocket state changed",
		zap.String("from", oldState.String()),
		zap.String("to", newState.String()),
	)

	for _, callback := range ws.states.snapshot() {
		callback(newState)
	}
}

func (ws *WebSocket) GetState() WebSocketState {
	ws.mu.Lock()
	defer ws.mu.Unlock()
	return ws.state
}

// Disconnect closes the connection and waits briefly for the read loop to exit.
func (ws *WebSocket) Disconnect() error {
	ws.stopOnce.Do(func() {
		close(ws.stopCh)
	})

	ws.mu.Lock()
	conn := ws.conn
	ws.conn = nil
	ws.mu.Unlock()

	var closeErr error
	if conn != nil {
		_ = conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
			time.Now().Add(time.Second))
		if err := conn.Close(); err != nil {
			ws.logger.Error("Failed to close WebSocket", zap.Error(err))
			closeErr = err
		}
	}

	ws.setState(WSStateDisconnected)

	if ws.running.Load() {
		select {
		case <-ws.done:
			ws.logger.Info("Listener stopped cleanly")
		case <-time.After(5 * time.Second):
			ws.logger.Warn("Timeout waiting for listener to stop")
		}
	}

	return closeErr
}
