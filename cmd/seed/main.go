package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"evmarket/internal/config"
	"evmarket/internal/models"
	"evmarket/internal/redisstore"
	"evmarket/internal/repository"
	"evmarket/libs/db"
	"evmarket/libs/logging"
	libredis "evmarket/libs/redis"
)

// seed replaces the station directory with the sample stations and drops the
// cached listing.
func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logger, err := logging.NewLogger()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	sqlDB, err := db.NewPostgresDB(cfg.Database.DSN)
	if err != nil {
		logger.Fatal("failed to connect database", zap.Error(err))
	}
	defer sqlDB.Close()

	if err := repository.Migrate(ctx, sqlDB); err != nil {
		logger.Fatal("failed to migrate database", zap.Error(err))
	}

	repo := repository.NewStationRepository(sqlDB)

	if err := repo.DeleteAll(ctx); err != nil {
		logger.Fatal("failed to clear stations", zap.Error(err))
	}

	for _, station := range sampleStations() {
		if err := repo.Upsert(ctx, &station); err != nil {
			logger.Fatal("failed to seed station", zap.String("station_id", station.StationID), zap.Error(err))
		}
	}
	logger.Info("seeded stations", zap.Int("count", len(sampleStations())))

	if cfg.Redis.Addr != "" {
		redisClient, err := libredis.NewRedisClient(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			logger.Warn("failed to connect redis, cache not invalidated", zap.Error(err))
			return
		}
		defer redisClient.Close()

		cache := redisstore.NewStationCache(redisClient, cfg.Cache.StationTTL)
		if err := cache.Invalidate(ctx); err != nil {
			logger.Warn("failed to invalidate station cache", zap.Error(err))
		}
	}
}

func sampleStations() []models.Station {
	return []models.Station{
		{
			StationID: "station_1",
			Provider: models.Provider{
				Name:        "EV Charging Hub - Koramangala",
				Description: "24/7 Fast Charging Station",
				Contact: models.Contact{
					Phone: "+91-9876543210",
					Email: "koramangala@evhub.com",
				},
			},
			Location: models.Location{
				GPS: "12.9352,77.6245",
				Lat: 12.9352,
				Lng: 77.6245,
				Address: models.Address{
					Street:  "80 Feet Road, Koramangala",
					City:    "Bangalore",
					State:   "Karnataka",
					Country: "India",
					PinCode: "560034",
				},
			},
			ChargerDetails: models.ChargerDetails{
				ConnectorType:     models.ConnectorCCS2,
				ChargingSpeed:     models.SpeedFast,
				PowerOutput:       50,
				Availability:      true,
				SupportedVehicles: []string{"Tata Nexon EV", "MG ZS EV", "Hyundai Kona"},
			},
			Pricing: models.StationPricing{
				PricePerKwh:      12.5,
				Currency:         "INR",
				MinBookingAmount: 50,
			},
			OperatingHours: models.OperatingHours{Open24x7: true},
			Amenities:      []string{"Cafe", "Restrooms", "WiFi"},
			IsActive:       true,
		},
		{
			StationID: "station_2",
			Provider: models.Provider{
				Name:        "Power EV Center - HSR Layout",
				Description: "Ultra Fast Charging Station",
				Contact: models.Contact{
					Phone: "+91-9876543211",
					Email: "hsr@powerev.com",
				},
			},
			Location: models.Location{
				GPS: "12.9110,77.6386",
				Lat: 12.9110,
				Lng: 77.6386,
				Address: models.Address{
					Street:  "27th Main, HSR Layout",
					City:    "Bangalore",
					State:   "Karnataka",
					Country: "India",
					PinCode: "560102",
				},
			},
			ChargerDetails: models.ChargerDetails{
				ConnectorType: models.ConnectorType2,
				ChargingSpeed: models.SpeedUltraFast,
				PowerOutput:   120,
				Availability:  true,
			},
			Pricing: models.StationPricing{
				PricePerKwh:      15.0,
				Currency:         "INR",
				MinBookingAmount: 100,
			},
			OperatingHours: models.OperatingHours{Open24x7: true},
			Amenities:      []string{"Restrooms", "Convenience Store"},
			IsActive:       true,
		},
	}
}
