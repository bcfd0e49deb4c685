package services

import (
	"testing"

	"course-shop/models"

	"github.com/stretchr/testify/assert"
)

func fptr(v float64) *float64 { return &v }

func TestResolvePriceTiers(t *testing.T) {
	pricing := NewPricingService()

	fullyPriced := &models.Course{
		PriceUSD:    fptr(50),
		PriceEUR:    fptr(45),
		PriceDZD:    fptr(6000),
		PriceAfrica: fptr(20),
	}

	tests := []struct {
		name     string
		country  string
		course   *models.Course
		amount   float64
		currency string
	}{
		{"algeria gets DZD", "DZ", fullyPriced, 6000, "DZD"},
		{"eurozone gets EUR", "FR", fullyPriced, 45, "EUR"},
		{"africa gets africa tier in USD", "NG", fullyPriced, 20, "USD"},
		{"rest of world gets USD", "US", fullyPriced, 50, "USD"},
		{
			"africa falls back to USD amount",
			"KE",
			&models.Course{PriceUSD: fptr(50), PriceEUR: fptr(45)},
			50, "USD",
		},
		{
			"algeria falls back to legacy DZD column",
			"DZ",
			&models.Course{PriceLegacyDZD: fptr(14500), PriceEUR: fptr(45)},
			14500, "DZD",
		},
		{
			"eurozone falls back to legacy EUR column",
			"DE",
			&models.Course{PriceLegacyEUR: fptr(99)},
			99, "EUR",
		},
		{
			"new DZD column beats legacy",
			"DZ",
			&models.Course{PriceDZD: fptr(6000), PriceLegacyDZD: fptr(14500)},
			6000, "DZD",
		},
		{
			"algeria without any DZD amount falls through to world chain",
			"DZ",
			&models.Course{PriceEUR: fptr(45)},
			45, "EUR",
		},
		{
			"eurozone without EUR falls through to world chain",
			"FR",
			&models.Course{PriceDZD: fptr(6000)},
			6000, "DZD",
		},
		{
			"no prices at all yields zero DZD",
			"US",
			&models.Course{},
			0, "DZD",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := pricing.Resolve(tt.country, tt.course)
			assert.Equal(t, tt.amount, p.Amount)
			assert.Equal(t, tt.currency, p.Currency)
		})
	}
}

// the fallback example from the storefront contract: EUR 100 + DZD 14000,
// no USD or Africa amounts
func TestResolveFallbackChain(t *testing.T) {
	pricing := NewPricingService()
	course := &models.Course{PriceEUR: fptr(100), PriceDZD: fptr(14000)}

	dz := pricing.Resolve("DZ", course)
	assert.Equal(t, Price{Amount: 14000, Currency: "DZD"}, dz)

	fr := pricing.Resolve("FR", course)
	assert.Equal(t, Price{Amount: 100, Currency: "EUR"}, fr)

	// USD absent: rest-of-world falls through to EUR
	us := pricing.Resolve("US", course)
	assert.Equal(t, Price{Amount: 100, Currency: "EUR"}, us)
}

func TestAmountIn(t *testing.T) {
	pricing := NewPricingService()

	course := &models.Course{
		PriceUSD:       fptr(50),
		PriceLegacyEUR: fptr(99),
	}

	usd, ok := pricing.AmountIn("USD", course)
	assert.True(t, ok)
	assert.Equal(t, 50.0, usd)

	eur, ok := pricing.AmountIn("EUR", course)
	assert.True(t, ok)
	assert.Equal(t, 99.0, eur)

	_, ok = pricing.AmountIn("DZD", course)
	assert.False(t, ok)

	_, ok = pricing.AmountIn("GBP", course)
	assert.False(t, ok)
}
