package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gorilla/mux"
	"github.com/skip2/go-qrcode"

	"github.com/beatguessr/beatguessr-go/internal/model"
	"github.com/beatguessr/beatguessr-go/internal/services/room"
)

const qrSize = 320

// QRHandler serves join links for rooms as PNG QR codes
type QRHandler struct {
	rooms *room.Controller

	// publicURL, when set, overrides the request-derived base URL. Useful
	// when the server sits behind a proxy that rewrites Host.
	publicURL string
}

// NewQRHandler creates a new QR handler
func NewQRHandler(rooms *room.Controller, publicURL string) *QRHandler {
	return &QRHandler{
		rooms:     rooms,
		publicURL: strings.TrimSuffix(publicURL, "/"),
	}
}

// Get handles GET /api/rooms/{code}/qr
func (h *QRHandler) Get(w http.ResponseWriter, r *http.Request) {
	code := model.RoomCode(strings.ToUpper(mux.Vars(r)["code"]))

	if _, err := h.rooms.Get(r.Context(), code); err != nil {
		if errors.Is(err, model.ErrRoomNotFound) {
			http.Error(w, "room not found", http.StatusNotFound)
			return
		}
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	joinURL := h.joinURL(r, code)

	png, err := qrcode.Encode(joinURL, qrcode.Medium, qrSize)
	if err != nil {
		http.Error(w, "qr generation failed", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	_, _ = w.Write(png)
}

func (h *QRHandler) joinURL(r *http.Request, code model.RoomCode) string {
	base := h.publicURL
	if base == "" {
		// Derive the scheme respecting TLS and X-Forwarded-Proto
		scheme := "http"
		if r.TLS != nil {
			scheme = "https"
		}
		if proto := r.Header.Get("X-Forwarded-Proto"); proto != "" {
			scheme = proto
		}
		base = scheme + "://" + r.Host
	}
	return base + "/?room=" + string(code)
}
