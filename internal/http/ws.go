package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/codencytech/smartdesk-mirror/internal/gateway"
)

// ScreenStreamHandler serves GET /ws/screen: a WebSocket pushing one frame
// data URL per text message at a fixed interval, for clients that prefer a
// live stream over polling /mobile/screen.
type ScreenStreamHandler struct {
	gw       *gateway.Gateway
	interval time.Duration
	upgrader websocket.Upgrader
}

// NewScreenStreamHandler creates the streaming handler.
func NewScreenStreamHandler(gw *gateway.Gateway, interval time.Duration) *ScreenStreamHandler {
	return &ScreenStreamHandler{
		gw:       gw,
		interval: interval,
		upgrader: websocket.Upgrader{
			// The API is LAN-local and session-gated; origins are not checked.
			CheckOrigin: func(*http.Request) bool { return true },
		},
	}
}

func (h *ScreenStreamHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	code := connectionCode(r)
	if !h.gw.Authorize(code) {
		writeJSON(w, http.StatusUnauthorized, apiError{Error: unauthorizedMessage})
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Warn("screen stream upgrade failed", "error", err)
		return
	}
	defer conn.Close()

	// Drain client messages so close frames are processed.
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	slog.Info("screen stream started", "peer", conn.RemoteAddr())
	ticker := time.NewTicker(h.interval)
	defer ticker.Stop()

	for {
		select {
		case <-done:
			slog.Info("screen stream closed by client", "peer", conn.RemoteAddr())
			return
		case <-ticker.C:
			frame, err := h.gw.Screen(code)
			if err != nil {
				slog.Warn("screen stream capture failed", "error", err)
				continue
			}
			if err := conn.WriteMessage(websocket.TextMessage, []byte(frame)); err != nil {
				return
			}
		}
	}
}
