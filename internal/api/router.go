package api

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/beatguessr/beatguessr-go/internal/api/handler"
	"github.com/beatguessr/beatguessr-go/internal/api/middleware"
	"github.com/beatguessr/beatguessr-go/internal/services/room"
	"github.com/beatguessr/beatguessr-go/internal/ws"
)

// RouterConfig holds configuration for the API router
type RouterConfig struct {
	Logger         *slog.Logger
	RoomController *room.Controller
	Hub            *ws.Hub
	Dispatcher     *ws.Dispatcher
	PublicURL      string
}

// NewRouter creates a new router with all routes configured. The websocket
// endpoint carries all game traffic; the HTTP surface is health and room
// QR codes only.
func NewRouter(cfg RouterConfig) http.Handler {
	r := mux.NewRouter()

	r.Use(middleware.Recovery(cfg.Logger))
	r.Use(middleware.Logging(cfg.Logger))

	r.HandleFunc("/healthz", handler.Health).Methods(http.MethodGet)
	r.HandleFunc("/ws", ws.Handler(cfg.Hub, cfg.Dispatcher, cfg.Logger)).Methods(http.MethodGet)

	qrHandler := handler.NewQRHandler(cfg.RoomController, cfg.PublicURL)
	r.HandleFunc("/api/rooms/{code}/qr", qrHandler.Get).Methods(http.MethodGet)

	return r
}
