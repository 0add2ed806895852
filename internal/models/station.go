package models

import "time"

// Connector types supported by the station directory.
const (
	ConnectorType2   = "TYPE2"
	ConnectorCCS2    = "CCS2"
	ConnectorCHAdeMO = "CHAdeMO"
	ConnectorGBT     = "GB/T"
	ConnectorTesla   = "TESLA"
)

// Charging speed classes.
const (
	SpeedSlow      = "SLOW"
	SpeedMedium    = "MEDIUM"
	SpeedFast      = "FAST"
	SpeedUltraFast = "ULTRA_FAST"
)

// Contact holds provider contact details.
type Contact struct {
	Phone string `json:"phone,omitempty"`
	Email string `json:"email,omitempty"`
}

// Provider identifies the charge point operator.
type Provider struct {
	Name        string  `json:"name"`
	Description string  `json:"description,omitempty"`
	Contact     Contact `json:"contact"`
}

// Address is a structured postal address.
type Address struct {
	Street  string `json:"street,omitempty"`
	City    string `json:"city,omitempty"`
	State   string `json:"state,omitempty"`
	Country string `json:"country,omitempty"`
	PinCode string `json:"pinCode,omitempty"`
}

// Location combines GPS coordinates with a postal address.
type Location struct {
	GPS     string  `json:"gps,omitempty"`
	Lat     float64 `json:"lat"`
	Lng     float64 `json:"lng"`
	Address Address `json:"address"`
}

// ChargerDetails describes the physical charger at the station.
type ChargerDetails struct {
	ConnectorType     string   `json:"connectorType"`
	ChargingSpeed     string   `json:"chargingSpeed"`
	PowerOutput       float64  `json:"powerOutput"`
	Availability      bool     `json:"availability"`
	SupportedVehicles []string `json:"supportedVehicles,omitempty"`
}

// StationPricing holds per-kWh pricing terms.
type StationPricing struct {
	PricePerKwh      float64 `json:"pricePerKwh"`
	Currency         string  `json:"currency"`
	MinBookingAmount float64 `json:"minBookingAmount,omitempty"`
	DynamicPricing   bool    `json:"dynamicPricing,omitempty"`
}

// OperatingHours describes when the station is open.
type OperatingHours struct {
	Open24x7    bool   `json:"open24x7"`
	OpeningTime string `json:"openingTime,omitempty"`
	ClosingTime string `json:"closingTime,omitempty"`
	Timezone    string `json:"timezone,omitempty"`
}

// Station is a chargepoint location in the directory. Created by the seed
// process and read-only to the booking flow.
type Station struct {
	StationID      string         `json:"stationId"`
	Provider       Provider       `json:"provider"`
	Location       Location       `json:"location"`
	ChargerDetails ChargerDetails `json:"chargerDetails"`
	Pricing        StationPricing `json:"pricing"`
	OperatingHours OperatingHours `json:"operatingHours"`
	Amenities      []string       `json:"amenities,omitempty"`
	IsActive       bool           `json:"isActive"`
	CreatedAt      time.Time      `json:"createdAt"`
	UpdatedAt      time.Time      `json:"updatedAt"`
}
