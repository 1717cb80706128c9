package ws

import (
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/beatguessr/beatguessr-go/internal/model"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// The frontend is served from arbitrary origins behind proxies;
		// room access is gated by the code, not the origin
		return true
	},
}

// Handler upgrades HTTP requests to websocket connections and runs the
// client pumps. Each connection gets a fresh identity for its lifetime.
func Handler(hub *Hub, dispatcher *Dispatcher, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			logger.Warn("websocket upgrade failed", slog.Any("error", err))
			return
		}

		client := newClient(model.ConnectionID(uuid.NewString()), conn)
		hub.Register(client)

		go client.writePump()
		client.readPump(hub, dispatcher)
	}
}
