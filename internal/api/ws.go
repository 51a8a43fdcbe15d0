package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/threatmap-io/threatmap/internal/event"
	"github.com/threatmap-io/threatmap/internal/metrics"
)

const wsWriteTimeout = 10 * time.Second

var upgrader = websocket.Upgrader{
	// The globe frontend is served from a different origin in development.
	CheckOrigin: func(*http.Request) bool { return true },
}

// wsMessage mirrors the SSE framing: a named event type plus the record.
type wsMessage struct {
	Event string      `json:"event"`
	Data  event.Event `json:"data"`
}

// GET /events/ws — the same per-connection attack stream over WebSocket.
func (h *Handler) streamWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Debug("websocket upgrade failed", "remote", r.RemoteAddr, "err", err)
		return
	}
	defer conn.Close()

	metrics.StreamClients.WithLabelValues("ws").Inc()
	defer metrics.StreamClients.WithLabelValues("ws").Dec()
	slog.Info("stream subscriber connected", "transport", "ws", "remote", r.RemoteAddr)

	// The subscriber never sends data; the read loop exists to notice the
	// close frame (or a dead peer) and stop the generator promptly.
	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()
	go func() {
		defer cancel()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	gen := h.newGenerator()
	_ = gen.Run(ctx, func(ev event.Event) error {
		conn.SetWriteDeadline(time.Now().Add(wsWriteTimeout))
		return conn.WriteJSON(wsMessage{Event: "attack", Data: ev})
	})

	conn.SetWriteDeadline(time.Now().Add(wsWriteTimeout))
	_ = conn.WriteMessage(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
	slog.Info("stream subscriber disconnected", "transport", "ws", "remote", r.RemoteAddr)
}
