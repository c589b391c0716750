package handlers

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/yourusername/fetchbar/internal/app"
	"github.com/yourusername/fetchbar/internal/domain"
	"go.uber.org/zap"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

const writeWait = 10 * time.Second

// Frame is a message sent to the page driving a transfer
type Frame struct {
	Type     string           `json:"type"` // progress, output, done
	Width    string           `json:"width,omitempty"`
	Text     *string          `json:"text,omitempty"`
	Transfer *domain.Transfer `json:"transfer,omitempty"`
}

// WebSocketView renders a transfer into a browser over a WebSocket connection
type WebSocketView struct {
	conn   *websocket.Conn
	logger *zap.Logger
	mu     sync.Mutex
	failed bool
}

// NewWebSocketView creates a view writing frames to conn
func NewWebSocketView(conn *websocket.Conn, logger *zap.Logger) *WebSocketView {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &WebSocketView{conn: conn, logger: logger}
}

// SetWidth implements domain.ProgressBar
func (v *WebSocketView) SetWidth(w domain.Width) {
	v.send(Frame{Type: "progress", Width: w.String()})
}

// SetText implements domain.OutputArea
func (v *WebSocketView) SetText(text string) {
	v.send(Frame{Type: "output", Text: &text})
}

// Done sends the final transfer record
func (v *WebSocketView) Done(transfer *domain.Transfer) {
	v.send(Frame{Type: "done", Transfer: transfer})
}

// Close sends a normal close frame once the transfer is over
func (v *WebSocketView) Close() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.write("close", func() error {
		return v.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
	})
}

func (v *WebSocketView) send(frame Frame) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.write(frame.Type, func() error { return v.conn.WriteJSON(frame) })
}

// write runs fn under a write deadline. Callers hold v.mu.
// After the first failure the peer is gone and later writes are dropped.
func (v *WebSocketView) write(kind string, fn func() error) {
	if v.failed {
		return
	}
	if err := v.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		v.failed = true
		v.logger.Debug("Failed to set write deadline", zap.String("type", kind), zap.Error(err))
		return
	}
	if err := fn(); err != nil {
		v.failed = true
		v.logger.Debug("Failed to write frame", zap.String("type", kind), zap.Error(err))
	}
}

// ProgressWebSocketHandler runs a transfer per WebSocket connection
type ProgressWebSocketHandler struct {
	manager         *app.TransferManager
	defaultStrategy domain.Strategy
	logger          *zap.Logger
}

// NewProgressWebSocketHandler creates a new WebSocket handler
func NewProgressWebSocketHandler(manager *app.TransferManager, defaultStrategy domain.Strategy, log *zap.Logger) *ProgressWebSocketHandler {
	return &ProgressWebSocketHandler{
		manager:         manager,
		defaultStrategy: defaultStrategy,
		logger:          log,
	}
}

// HandleWebSocket handles GET /ws/transfers?strategy=callback|stream
func (h *ProgressWebSocketHandler) HandleWebSocket(c *gin.Context) {
	strategy := domain.Strategy(c.DefaultQuery("strategy", string(h.defaultStrategy)))
	if !domain.ValidateStrategy(strategy) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid strategy: " + string(strategy)})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Error("Failed to upgrade WebSocket", zap.Error(err))
		return
	}
	defer conn.Close()

	h.logger.Info("WebSocket client connected",
		zap.String("strategy", string(strategy)),
		zap.String("remote_addr", c.Request.RemoteAddr))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// The page never sends anything; a read error means it went away
	go func() {
		defer cancel()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	view := NewWebSocketView(conn, h.logger)
	transfer, err := h.manager.Run(ctx, strategy, view)
	if err != nil {
		h.logger.Error("Failed to run transfer", zap.Error(err))
		msg := err.Error()
		view.send(Frame{Type: "error", Text: &msg})
		return
	}
	view.Done(transfer)
	view.Close()
}
