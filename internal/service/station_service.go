package service

import (
	"context"
	"database/sql"
	"errors"
	"math"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"evmarket/internal/models"
	"evmarket/internal/repository"
)

const (
	defaultSearchRadiusKm = 10.0
	earthRadiusKm         = 6371.0
)

// StationStore reads the station directory.
type StationStore interface {
	ListActive(ctx context.Context) ([]models.Station, error)
	Search(ctx context.Context, filters repository.SearchFilters) ([]models.Station, error)
	GetByID(ctx context.Context, stationID string) (*models.Station, error)
}

// StationCache caches the active listing.
type StationCache interface {
	GetActive(ctx context.Context) ([]models.Station, error)
	SetActive(ctx context.Context, stations []models.Station) error
}

// StationService answers directory queries.
type StationService struct {
	repo   StationStore
	cache  StationCache
	logger *zap.Logger
}

// NewStationService builds service. cache may be nil.
func NewStationService(repo StationStore, cache StationCache, logger *zap.Logger) *StationService {
	return &StationService{repo: repo, cache: cache, logger: logger}
}

// ListActive returns all active stations, served from cache when warm.
func (s *StationService) ListActive(ctx context.Context) ([]models.Station, error) {
	if s.cache != nil {
		stations, err := s.cache.GetActive(ctx)
		if err == nil {
			return stations, nil
		}
		if !errors.Is(err, redis.Nil) {
			s.logger.Warn("station cache read failed", zap.Error(err))
		}
	}

	stations, err := s.repo.ListActive(ctx)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.SetActive(ctx, stations); err != nil {
			s.logger.Warn("station cache write failed", zap.Error(err))
		}
	}
	return stations, nil
}

// SearchInput carries a station search request. Lat/Lng of zero disables the
// distance bound.
type SearchInput struct {
	Lat     float64
	Lng     float64
	Radius  float64
	Filters repository.SearchFilters
}

// Search returns active stations matching the attribute filters and, when
// coordinates are supplied, within the radius (km) of the search point.
func (s *StationService) Search(ctx context.Context, input SearchInput) ([]models.Station, error) {
	stations, err := s.repo.Search(ctx, input.Filters)
	if err != nil {
		return nil, err
	}

	if input.Lat == 0 && input.Lng == 0 {
		return stations, nil
	}

	radius := input.Radius
	if radius <= 0 {
		radius = defaultSearchRadiusKm
	}

	var within []models.Station
	for _, station := range stations {
		distance := haversineKm(input.Lat, input.Lng, station.Location.Lat, station.Location.Lng)
		if distance <= radius {
			within = append(within, station)
		}
	}
	return within, nil
}

// GetByID returns a single station.
func (s *StationService) GetByID(ctx context.Context, stationID string) (*models.Station, error) {
	station, err := s.repo.GetByID(ctx, stationID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrStationNotFound
		}
		return nil, err
	}
	return station, nil
}

// haversineKm returns the great-circle distance between two coordinates.
func haversineKm(lat1, lng1, lat2, lng2 float64) float64 {
	dLat := toRadians(lat2 - lat1)
	dLng := toRadians(lng2 - lng1)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRadians(lat1))*math.Cos(toRadians(lat2))*
			math.Sin(dLng/2)*math.Sin(dLng/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	return earthRadiusKm * c
}

func toRadians(degrees float64) float64 {
	return degrees * math.Pi / 180
}
