package service

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"evmarket/internal/models"
	"evmarket/internal/repository"
)

type stubStationStore struct {
	stations []models.Station
	listed   int
}

func (s *stubStationStore) ListActive(ctx context.Context) ([]models.Station, error) {
	s.listed++
	var active []models.Station
	for _, station := range s.stations {
		if station.IsActive {
			active = append(active, station)
		}
	}
	return active, nil
}

func (s *stubStationStore) Search(ctx context.Context, filters repository.SearchFilters) ([]models.Station, error) {
	var matched []models.Station
	for _, station := range s.stations {
		if !station.IsActive {
			continue
		}
		if filters.ConnectorType != "" && station.ChargerDetails.ConnectorType != filters.ConnectorType {
			continue
		}
		if filters.ChargingSpeed != "" && station.ChargerDetails.ChargingSpeed != filters.ChargingSpeed {
			continue
		}
		if filters.MaxPrice > 0 && station.Pricing.PricePerKwh > filters.MaxPrice {
			continue
		}
		matched = append(matched, station)
	}
	return matched, nil
}

func (s *stubStationStore) GetByID(ctx context.Context, stationID string) (*models.Station, error) {
	for i := range s.stations {
		if s.stations[i].StationID == stationID {
			return &s.stations[i], nil
		}
	}
	return nil, sql.ErrNoRows
}

type stubStationCache struct {
	stations []models.Station
	warm     bool
	writes   int
}

func (c *stubStationCache) GetActive(ctx context.Context) ([]models.Station, error) {
	if !c.warm {
		return nil, redis.Nil
	}
	return c.stations, nil
}

func (c *stubStationCache) SetActive(ctx context.Context, stations []models.Station) error {
	c.stations = stations
	c.warm = true
	c.writes++
	return nil
}

func bangaloreStations() []models.Station {
	return []models.Station{
		{
			StationID: "station_1",
			Location:  models.Location{Lat: 12.9352, Lng: 77.6245},
			ChargerDetails: models.ChargerDetails{
				ConnectorType: models.ConnectorCCS2,
				ChargingSpeed: models.SpeedFast,
			},
			Pricing:  models.StationPricing{PricePerKwh: 12.5, Currency: "INR"},
			IsActive: true,
		},
		{
			StationID: "station_2",
			Location:  models.Location{Lat: 12.9110, Lng: 77.6386},
			ChargerDetails: models.ChargerDetails{
				ConnectorType: models.ConnectorType2,
				ChargingSpeed: models.SpeedUltraFast,
			},
			Pricing:  models.StationPricing{PricePerKwh: 15.0, Currency: "INR"},
			IsActive: true,
		},
	}
}

func TestListActiveUsesCache(t *testing.T) {
	store := &stubStationStore{stations: bangaloreStations()}
	cache := &stubStationCache{}
	svc := NewStationService(store, cache, zap.NewNop())

	stations, err := svc.ListActive(context.Background())
	if err != nil {
		t.Fatalf("ListActive: %v", err)
	}
	if len(stations) != 2 {
		t.Fatalf("expected 2 stations, got %d", len(stations))
	}
	if store.listed != 1 || cache.writes != 1 {
		t.Fatalf("cold cache must hit the store once and warm the cache, listed=%d writes=%d", store.listed, cache.writes)
	}

	// warm cache: the store is not touched again
	if _, err := svc.ListActive(context.Background()); err != nil {
		t.Fatalf("ListActive warm: %v", err)
	}
	if store.listed != 1 {
		t.Fatalf("expected cached read, store listed %d times", store.listed)
	}
}

func TestSearchByConnectorType(t *testing.T) {
	store := &stubStationStore{stations: bangaloreStations()}
	svc := NewStationService(store, nil, zap.NewNop())

	stations, err := svc.Search(context.Background(), SearchInput{
		Filters: repository.SearchFilters{ConnectorType: models.ConnectorCCS2},
	})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(stations) != 1 || stations[0].StationID != "station_1" {
		t.Fatalf("expected station_1 only, got %+v", stations)
	}
}

func TestSearchByMaxPrice(t *testing.T) {
	store := &stubStationStore{stations: bangaloreStations()}
	svc := NewStationService(store, nil, zap.NewNop())

	stations, err := svc.Search(context.Background(), SearchInput{
		Filters: repository.SearchFilters{MaxPrice: 13},
	})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(stations) != 1 || stations[0].StationID != "station_1" {
		t.Fatalf("expected only the cheaper station, got %+v", stations)
	}
}

func TestSearchWithinRadius(t *testing.T) {
	store := &stubStationStore{stations: bangaloreStations()}
	svc := NewStationService(store, nil, zap.NewNop())

	// Koramangala point: both stations sit well within 10 km
	stations, err := svc.Search(context.Background(), SearchInput{Lat: 12.9352, Lng: 77.6245})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(stations) != 2 {
		t.Fatalf("expected both stations within default radius, got %d", len(stations))
	}

	// tight radius keeps only the station at the search point
	stations, err = svc.Search(context.Background(), SearchInput{Lat: 12.9352, Lng: 77.6245, Radius: 1})
	if err != nil {
		t.Fatalf("Search tight radius: %v", err)
	}
	if len(stations) != 1 || stations[0].StationID != "station_1" {
		t.Fatalf("expected station_1 within 1 km, got %+v", stations)
	}
}

func TestHaversineKm(t *testing.T) {
	// Koramangala to HSR Layout is roughly 3 km
	distance := haversineKm(12.9352, 77.6245, 12.9110, 77.6386)
	if distance < 2 || distance > 4 {
		t.Fatalf("expected ~3 km, got %v", distance)
	}

	if d := haversineKm(12.9352, 77.6245, 12.9352, 77.6245); d != 0 {
		t.Fatalf("distance to self must be 0, got %v", d)
	}
}

func TestStationGetByIDNotFound(t *testing.T) {
	svc := NewStationService(&stubStationStore{}, nil, zap.NewNop())

	_, err := svc.GetByID(context.Background(), "station_missing")
	if !errors.Is(err, ErrStationNotFound) {
		t.Fatalf("expected ErrStationNotFound, got %v", err)
	}
}
