package httpserver

import (
	"net/http"

	"go.uber.org/zap"

	"evmarket/internal/http/handlers"
	"evmarket/internal/http/middleware"
)

// RouterDeps collects handler dependencies.
type RouterDeps struct {
	Stations *handlers.StationsHandlers
	Bookings *handlers.BookingsHandlers
	Payments *handlers.PaymentsHandlers
	Users    *handlers.UsersHandlers
	Events   http.Handler
	Health   http.HandlerFunc
}

// NewRouter wires HTTP routes with middleware.
func NewRouter(deps RouterDeps, logger *zap.Logger) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", deps.Health)

	mux.HandleFunc("GET /api/stations", deps.Stations.List)
	mux.HandleFunc("POST /api/stations/search", deps.Stations.Search)
	mux.HandleFunc("GET /api/stations/{stationId}", deps.Stations.Get)

	mux.HandleFunc("POST /api/bookings", deps.Bookings.Create)
	mux.HandleFunc("POST /api/bookings/confirm", deps.Bookings.Confirm)
	mux.HandleFunc("POST /api/bookings/{bookingId}/cancel", deps.Bookings.Cancel)
	mux.HandleFunc("GET /api/bookings/{bookingId}", deps.Bookings.Get)
	mux.HandleFunc("GET /api/bookings/user/{userId}", deps.Bookings.ListByUser)

	mux.HandleFunc("POST /api/payments/process", deps.Payments.Process)
	mux.HandleFunc("GET /api/payments/{paymentId}/status", deps.Payments.Status)

	mux.HandleFunc("GET /api/users/{userId}", deps.Users.Get)
	mux.HandleFunc("PUT /api/users/{userId}", deps.Users.Upsert)
	mux.HandleFunc("DELETE /api/users/{userId}", deps.Users.Delete)

	if deps.Events != nil {
		mux.Handle("GET /api/ws/bookings", deps.Events)
	}

	return middleware.Chain(mux, middleware.CORS, middleware.RequestLogger(logger))
}
