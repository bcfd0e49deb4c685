package models

import "time"

type Category struct {
	ID        int       `json:"id"`
	Name      string    `json:"name"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
}

// Course carries one optional amount per pricing tier. PriceLegacyEUR and
// PriceLegacyDZD are the pre-multi-currency columns (price, price_da); they
// are consulted only when the matching new column is NULL.
type Course struct {
	ID             int       `json:"id"`
	Title          string    `json:"title"`
	Description    string    `json:"description"`
	CategoryID     *int      `json:"category_id,omitempty"`
	PriceUSD       *float64  `json:"price_usd,omitempty"`
	PriceEUR       *float64  `json:"price_eur,omitempty"`
	PriceDZD       *float64  `json:"price_dzd,omitempty"`
	PriceAfrica    *float64  `json:"price_africa,omitempty"`
	PriceLegacyEUR *float64  `json:"price,omitempty"`
	PriceLegacyDZD *float64  `json:"price_da,omitempty"`
	IsActive       bool      `json:"is_active"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// LocalizedCourse is the catalog view: the multi-currency columns collapsed
// into the single price selected for the requesting country.
type LocalizedCourse struct {
	Course
	DisplayPrice    float64 `json:"display_price"`
	DisplayCurrency string  `json:"display_currency"`
}
