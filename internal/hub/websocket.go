package hub

import (
	"net/http"
	"time"

	"baby-tracker/internal/platform/logger"

	"github.com/bytedance/sonic"
	"github.com/gorilla/websocket"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = pongWait * 9 / 10
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// pensado para la red local de la casa
	CheckOrigin: func(r *http.Request) bool { return true },
}

// ServeWS godoc
// @Summary Avisos de cambios
// @Description WebSocket que emite {"type":"store_changed"} después de cada alta, edición o borrado (también si el archivo se editó por fuera).
// @Tags events
// @Success 101 {object} Message
// @Router /api/events/ws [get]
func ServeWS(h *Hub, log logger.Logger) http.HandlerFunc {
	if log == nil {
		log = logger.Nop()
	}
	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			log.Warn("websocket upgrade failed", map[string]any{"error": err.Error()})
			return
		}
		defer conn.Close()

		msgs, unsubscribe := h.Subscribe()
		defer unsubscribe()

		// read pump: solo detecta que el cliente se fue
		done := make(chan struct{})
		go func() {
			defer close(done)
			conn.SetReadLimit(512)
			_ = conn.SetReadDeadline(time.Now().Add(pongWait))
			conn.SetPongHandler(func(string) error {
				return conn.SetReadDeadline(time.Now().Add(pongWait))
			})
			for {
				if _, _, err := conn.ReadMessage(); err != nil {
					return
				}
			}
		}()

		ticker := time.NewTicker(pingPeriod)
		defer ticker.Stop()

		for {
			select {
			case <-done:
				return
			case <-r.Context().Done():
				return
			case msg, ok := <-msgs:
				_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
				if !ok {
					_ = conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseGoingAway, ""))
					return
				}
				b, err := sonic.Marshal(msg)
				if err != nil {
					log.Error("websocket encode failed", map[string]any{"error": err.Error()})
					return
				}
				if err := conn.WriteMessage(websocket.TextMessage, b); err != nil {
					log.Debug("websocket write failed", map[string]any{"error": err.Error()})
					return
				}
			case <-ticker.C:
				_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
				if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
					return
				}
			}
		}
	}
}
