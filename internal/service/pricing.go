package service

import (
	"math"

	"evmarket/internal/models"
)

const (
	// defaultEnergyAmountKWh is used when a booking request omits the amount.
	defaultEnergyAmountKWh = 10.0

	// serviceFeeRate is a fixed 10% surcharge on the energy cost.
	serviceFeeRate = 0.10
)

// Quote line titles.
const (
	breakupEnergyCost = "Energy Cost"
	breakupServiceFee = "Service Fee"
)

// roundMoney rounds to 2 decimals. Every term of a quote is rounded
// individually so the total always equals the sum of the breakup lines.
func roundMoney(value float64) float64 {
	return math.Round(value*100) / 100
}

// BuildQuote computes the price breakdown for the requested energy amount at
// the station's tariff.
func BuildQuote(energyAmountKWh, pricePerKwh float64, currency string) models.Quote {
	if energyAmountKWh <= 0 {
		energyAmountKWh = defaultEnergyAmountKWh
	}

	baseCost := roundMoney(energyAmountKWh * pricePerKwh)
	serviceFee := roundMoney(baseCost * serviceFeeRate)
	total := roundMoney(baseCost + serviceFee)

	return models.Quote{
		Price: models.Price{
			Value:    total,
			Currency: currency,
		},
		Breakup: []models.BreakupLine{
			{Title: breakupEnergyCost, Price: models.Price{Value: baseCost, Currency: currency}},
			{Title: breakupServiceFee, Price: models.Price{Value: serviceFee, Currency: currency}},
		},
	}
}
