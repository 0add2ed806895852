package handlers

import (
	"net/http"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"evmarket/internal/ws"
)

// EventsHandler upgrades clients onto the booking events feed.
type EventsHandler struct {
	hub      *ws.Hub
	logger   *zap.Logger
	upgrader websocket.Upgrader
}

// NewEventsHandler returns handler for GET /api/ws/bookings.
func NewEventsHandler(hub *ws.Hub, logger *zap.Logger) *EventsHandler {
	return &EventsHandler{
		hub:    hub,
		logger: logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

// ServeHTTP upgrades the connection and pumps broadcast messages until the
// client disconnects.
func (h *EventsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", zap.Error(err))
		return
	}

	client := ws.NewClient(h.hub, conn)
	client.Register()
	go client.WritePump()
	client.ReadPump()
}
