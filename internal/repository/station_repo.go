package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"evmarket/internal/models"
)

// StationRepository persists the station directory.
type StationRepository struct {
	db *sql.DB
}

// NewStationRepository returns repository.
func NewStationRepository(db *sql.DB) *StationRepository {
	return &StationRepository{db: db}
}

// SearchFilters narrows station searches. Zero values disable a filter.
type SearchFilters struct {
	ConnectorType string
	ChargingSpeed string
	MaxPrice      float64
}

const stationColumns = `
	station_id, provider, location, charger_details, pricing, operating_hours,
	amenities, is_active, created_at, updated_at
`

// ListActive returns all active stations.
func (r *StationRepository) ListActive(ctx context.Context) ([]models.Station, error) {
	query := `SELECT ` + stationColumns + ` FROM stations WHERE is_active = true ORDER BY station_id`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanStations(rows)
}

// Search returns active stations matching the supplied filters.
func (r *StationRepository) Search(ctx context.Context, filters SearchFilters) ([]models.Station, error) {
	query := `
		SELECT ` + stationColumns + `
		FROM stations
		WHERE is_active = true
		  AND ($1 = '' OR charger_details->>'connectorType' = $1)
		  AND ($2 = '' OR charger_details->>'chargingSpeed' = $2)
		  AND ($3 <= 0 OR (pricing->>'pricePerKwh')::float8 <= $3)
		ORDER BY station_id
	`
	rows, err := r.db.QueryContext(ctx, query, filters.ConnectorType, filters.ChargingSpeed, filters.MaxPrice)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanStations(rows)
}

// GetByID returns a single station. sql.ErrNoRows when absent.
func (r *StationRepository) GetByID(ctx context.Context, stationID string) (*models.Station, error) {
	query := `SELECT ` + stationColumns + ` FROM stations WHERE station_id = $1`
	row := r.db.QueryRowContext(ctx, query, stationID)
	return scanStation(row)
}

// Upsert inserts or replaces a station record. Used by the seed command.
func (r *StationRepository) Upsert(ctx context.Context, station *models.Station) error {
	provider, err := json.Marshal(station.Provider)
	if err != nil {
		return fmt.Errorf("marshal provider: %w", err)
	}
	location, err := json.Marshal(station.Location)
	if err != nil {
		return fmt.Errorf("marshal location: %w", err)
	}
	charger, err := json.Marshal(station.ChargerDetails)
	if err != nil {
		return fmt.Errorf("marshal charger details: %w", err)
	}
	pricing, err := json.Marshal(station.Pricing)
	if err != nil {
		return fmt.Errorf("marshal pricing: %w", err)
	}
	hours, err := json.Marshal(station.OperatingHours)
	if err != nil {
		return fmt.Errorf("marshal operating hours: %w", err)
	}
	amenities, err := json.Marshal(station.Amenities)
	if err != nil {
		return fmt.Errorf("marshal amenities: %w", err)
	}

	const query = `
		INSERT INTO stations (station_id, provider, location, charger_details, pricing, operating_hours, amenities, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW(), NOW())
		ON CONFLICT (station_id) DO UPDATE SET
			provider = EXCLUDED.provider,
			location = EXCLUDED.location,
			charger_details = EXCLUDED.charger_details,
			pricing = EXCLUDED.pricing,
			operating_hours = EXCLUDED.operating_hours,
			amenities = EXCLUDED.amenities,
			is_active = EXCLUDED.is_active,
			updated_at = NOW()
	`
	_, err = r.db.ExecContext(ctx, query,
		station.StationID,
		provider,
		location,
		charger,
		pricing,
		hours,
		amenities,
		station.IsActive,
	)
	return err
}

// DeleteAll clears the directory before reseeding.
func (r *StationRepository) DeleteAll(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM stations`)
	return err
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanStation(row rowScanner) (*models.Station, error) {
	var (
		station   models.Station
		provider  []byte
		location  []byte
		charger   []byte
		pricing   []byte
		hours     []byte
		amenities []byte
	)
	if err := row.Scan(
		&station.StationID,
		&provider,
		&location,
		&charger,
		&pricing,
		&hours,
		&amenities,
		&station.IsActive,
		&station.CreatedAt,
		&station.UpdatedAt,
	); err != nil {
		return nil, err
	}

	for _, field := range []struct {
		raw    []byte
		target interface{}
	}{
		{provider, &station.Provider},
		{location, &station.Location},
		{charger, &station.ChargerDetails},
		{pricing, &station.Pricing},
		{hours, &station.OperatingHours},
		{amenities, &station.Amenities},
	} {
		if len(field.raw) == 0 {
			continue
		}
		if err := json.Unmarshal(field.raw, field.target); err != nil {
			return nil, fmt.Errorf("decode station %s: %w", station.StationID, err)
		}
	}
	return &station, nil
}

func scanStations(rows *sql.Rows) ([]models.Station, error) {
	var stations []models.Station
	for rows.Next() {
		station, err := scanStation(rows)
		if err != nil {
			return nil, err
		}
		stations = append(stations, *station)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return stations, nil
}
