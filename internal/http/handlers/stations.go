package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"evmarket/internal/repository"
	"evmarket/internal/service"
)

// StationsHandlers serves the station directory endpoints.
type StationsHandlers struct {
	service *service.StationService
	logger  *zap.Logger
}

// NewStationsHandlers returns handler.
func NewStationsHandlers(svc *service.StationService, logger *zap.Logger) *StationsHandlers {
	return &StationsHandlers{service: svc, logger: logger}
}

// List handles GET /api/stations.
func (h *StationsHandlers) List(w http.ResponseWriter, r *http.Request) {
	stations, err := h.service.ListActive(r.Context())
	if err != nil {
		respondError(w, h.logger, err, "Failed to get stations")
		return
	}
	writeList(w, http.StatusOK, stations, len(stations))
}

type searchStationsRequest struct {
	Lat     float64 `json:"lat"`
	Lng     float64 `json:"lng"`
	Radius  float64 `json:"radius" validate:"gte=0"`
	Filters struct {
		ConnectorType string  `json:"connectorType"`
		ChargingSpeed string  `json:"chargingSpeed"`
		MaxPrice      float64 `json:"maxPrice" validate:"gte=0"`
	} `json:"filters"`
}

// Search handles POST /api/stations/search.
func (h *StationsHandlers) Search(w http.ResponseWriter, r *http.Request) {
	var req searchStationsRequest
	if err := decodeAndValidate(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid search request")
		return
	}

	stations, err := h.service.Search(r.Context(), service.SearchInput{
		Lat:    req.Lat,
		Lng:    req.Lng,
		Radius: req.Radius,
		Filters: repository.SearchFilters{
			ConnectorType: req.Filters.ConnectorType,
			ChargingSpeed: req.Filters.ChargingSpeed,
			MaxPrice:      req.Filters.MaxPrice,
		},
	})
	if err != nil {
		respondError(w, h.logger, err, "Failed to search stations")
		return
	}
	writeList(w, http.StatusOK, stations, len(stations))
}

// Get handles GET /api/stations/{stationId}.
func (h *StationsHandlers) Get(w http.ResponseWriter, r *http.Request) {
	station, err := h.service.GetByID(r.Context(), r.PathValue("stationId"))
	if err != nil {
		respondError(w, h.logger, err, "Failed to get station")
		return
	}
	writeData(w, http.StatusOK, station)
}
