package services

import "course-shop/models"

const (
	CurrencyUSD = "USD"
	CurrencyEUR = "EUR"
	CurrencyDZD = "DZD"

	countryAlgeria = "DZ"
)

type Price struct {
	Amount   float64 `json:"amount"`
	Currency string  `json:"currency"`
}

type PricingService struct{}

func NewPricingService() *PricingService {
	return &PricingService{}
}

// priceCandidate pairs a course price field with the currency it is tagged
// with. Fallback order is expressed as ordered candidate lists so the chain
// stays auditable (legacy columns are consulted after the new ones, never
// before).
type priceCandidate struct {
	amount   *float64
	currency string
}

func dzdCandidates(c *models.Course) []priceCandidate {
	return []priceCandidate{
		{c.PriceDZD, CurrencyDZD},
		{c.PriceLegacyDZD, CurrencyDZD},
	}
}

func eurCandidates(c *models.Course) []priceCandidate {
	return []priceCandidate{
		{c.PriceEUR, CurrencyEUR},
		{c.PriceLegacyEUR, CurrencyEUR},
	}
}

// africaCandidates: Africa tier is billed in USD; the plain USD amount is
// its fallback.
func africaCandidates(c *models.Course) []priceCandidate {
	return []priceCandidate{
		{c.PriceAfrica, CurrencyUSD},
		{c.PriceUSD, CurrencyUSD},
	}
}

func firstPrice(candidates []priceCandidate) (Price, bool) {
	for _, cand := range candidates {
		if cand.amount != nil {
			return Price{Amount: *cand.amount, Currency: cand.currency}, true
		}
	}
	return Price{}, false
}

// Resolve picks the single display price for a course in the given country.
// Regional rules apply only when they can produce an amount; otherwise the
// course falls through to the rest-of-world chain.
func (s *PricingService) Resolve(country string, course *models.Course) Price {
	switch {
	case country == countryAlgeria:
		if p, ok := firstPrice(dzdCandidates(course)); ok {
			return p
		}
	case africaCountries[country]:
		if p, ok := firstPrice(africaCandidates(course)); ok {
			return p
		}
	case eurozoneCountries[country]:
		if p, ok := firstPrice(eurCandidates(course)); ok {
			return p
		}
	}

	world := []priceCandidate{{course.PriceUSD, CurrencyUSD}}
	world = append(world, eurCandidates(course)...)
	world = append(world, dzdCandidates(course)...)
	if p, ok := firstPrice(world); ok {
		return p
	}
	return Price{Amount: 0, Currency: CurrencyDZD}
}

// AmountIn returns the course's amount in a specific currency, honoring the
// legacy fallback for that currency. Used when a cart's currency is already
// pinned and later adds must price in it.
func (s *PricingService) AmountIn(currency string, course *models.Course) (float64, bool) {
	var candidates []priceCandidate
	switch currency {
	case CurrencyDZD:
		candidates = dzdCandidates(course)
	case CurrencyEUR:
		candidates = eurCandidates(course)
	case CurrencyUSD:
		candidates = []priceCandidate{{course.PriceUSD, CurrencyUSD}, {course.PriceAfrica, CurrencyUSD}}
	default:
		return 0, false
	}

	if p, ok := firstPrice(candidates); ok {
		return p.Amount, true
	}
	return 0, false
}
