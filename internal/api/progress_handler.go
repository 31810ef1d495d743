package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/phrazzld/dialogcards/internal/domain"
	"github.com/phrazzld/dialogcards/internal/events"
	"github.com/phrazzld/dialogcards/internal/platform/logger"
	"github.com/phrazzld/dialogcards/internal/redact"
)

const (
	streamWriteWait      = 10 * time.Second
	streamPongWait       = 60 * time.Second
	streamPingPeriod     = (streamPongWait * 9) / 10
	streamMaxMessageSize = 512
)

// ProgressHandler streams a learner's progress events over a websocket.
type ProgressHandler struct {
	broadcaster *events.Broadcaster
	upgrader    websocket.Upgrader
	logger      *slog.Logger
}

// NewProgressHandler creates a new ProgressHandler.
func NewProgressHandler(broadcaster *events.Broadcaster, logger *slog.Logger) *ProgressHandler {
	if logger == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for ProgressHandler")
	}

	return &ProgressHandler{
		broadcaster: broadcaster,
		logger:      logger.With(slog.String("component", "progress_handler")),
	}
}

// Stream handles GET /progress/stream. The request is upgraded to a
// websocket on which every progress event of the authenticated learner is
// written as a JSON text frame. Client messages are read and discarded.
func (h *ProgressHandler) Stream(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	learnerID, ok := getLearnerIDFromContext(r)
	if !ok {
		log.Warn("learner ID not found or invalid in request context")
		HandleAPIError(w, r, domain.ErrUnauthorized, "Learner ID not found or invalid")
		return
	}

	// Upgrade writes its own HTTP error response on failure.
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Debug("websocket upgrade failed", redact.ErrorAttr(err))
		return
	}
	defer func() { _ = conn.Close() }()

	updates, cancel := h.broadcaster.Subscribe(learnerID)
	defer cancel()

	log.Debug("progress stream opened")

	closed := make(chan struct{})
	go readUntilClosed(conn, closed)

	ticker := time.NewTicker(streamPingPeriod)
	defer ticker.Stop()

	for {
		select {
		case event, ok := <-updates:
			_ = conn.SetWriteDeadline(time.Now().Add(streamWriteWait))
			if !ok {
				_ = conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := conn.WriteJSON(event); err != nil {
				log.Debug("progress stream write failed", redact.ErrorAttr(err))
				return
			}
		case <-ticker.C:
			_ = conn.SetWriteDeadline(time.Now().Add(streamWriteWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-closed:
			log.Debug("progress stream closed by client")
			return
		}
	}
}

// readUntilClosed consumes client frames so that pongs and close frames are
// processed, and closes done once the connection fails.
func readUntilClosed(conn *websocket.Conn, done chan<- struct{}) {
	defer close(done)

	conn.SetReadLimit(streamMaxMessageSize)
	_ = conn.SetReadDeadline(time.Now().Add(streamPongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(streamPongWait))
	})

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}
