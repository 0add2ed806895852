package service

import (
	"math"
	"testing"
)

func TestBuildQuoteScenario(t *testing.T) {
	quote := BuildQuote(10, 12.5, "INR")

	if quote.Price.Value != 137.5 {
		t.Fatalf("expected total 137.5, got %v", quote.Price.Value)
	}
	if quote.Price.Currency != "INR" {
		t.Fatalf("expected currency INR, got %s", quote.Price.Currency)
	}
	if len(quote.Breakup) != 2 {
		t.Fatalf("expected 2 breakup lines, got %d", len(quote.Breakup))
	}
	if quote.Breakup[0].Title != "Energy Cost" || quote.Breakup[0].Price.Value != 125 {
		t.Fatalf("unexpected energy line: %+v", quote.Breakup[0])
	}
	if quote.Breakup[1].Title != "Service Fee" || quote.Breakup[1].Price.Value != 12.5 {
		t.Fatalf("unexpected fee line: %+v", quote.Breakup[1])
	}
}

func TestBuildQuoteDefaultEnergyAmount(t *testing.T) {
	quote := BuildQuote(0, 15.0, "INR")

	// 10 kWh default: 150 + 15 fee
	if quote.Price.Value != 165 {
		t.Fatalf("expected total 165 for default amount, got %v", quote.Price.Value)
	}
}

func TestBuildQuoteTotalMatchesBreakup(t *testing.T) {
	cases := []struct {
		energy float64
		price  float64
	}{
		{10, 12.5},
		{7.3, 11.99},
		{0.1, 8.49},
		{33.33, 15},
		{100, 0},
		{1, 0.01},
	}

	for _, tc := range cases {
		quote := BuildQuote(tc.energy, tc.price, "INR")

		var sum float64
		for _, line := range quote.Breakup {
			sum += line.Price.Value
		}
		sum = roundMoney(sum)
		if quote.Price.Value != sum {
			t.Fatalf("energy=%v price=%v: total %v != breakup sum %v", tc.energy, tc.price, quote.Price.Value, sum)
		}

		base := quote.Breakup[0].Price.Value
		fee := quote.Breakup[1].Price.Value
		if want := roundMoney(base * 0.10); fee != want {
			t.Fatalf("energy=%v price=%v: fee %v != 10%% of base %v", tc.energy, tc.price, fee, base)
		}
	}
}

func TestRoundMoney(t *testing.T) {
	if got := roundMoney(1.005); math.Abs(got-1.01) > 1e-9 && math.Abs(got-1.0) > 1e-9 {
		t.Fatalf("unexpected rounding of 1.005: %v", got)
	}
	if got := roundMoney(137.499999); got != 137.5 {
		t.Fatalf("expected 137.5, got %v", got)
	}
}
