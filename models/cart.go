package models

import "time"

// CartOwner identifies who a cart belongs to: an authenticated user id or
// an anonymous session id. Exactly one side should be set.
type CartOwner struct {
	UserID    *int
	SessionID *string
}

func (o CartOwner) Valid() bool {
	return o.UserID != nil || (o.SessionID != nil && *o.SessionID != "")
}

type Cart struct {
	ID        int        `json:"id"`
	UserID    *int       `json:"user_id,omitempty"`
	SessionID *string    `json:"session_id,omitempty"`
	Currency  string     `json:"currency"`
	Total     float64    `json:"total"`
	Items     []CartItem `json:"items"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

type CartItem struct {
	ID       int     `json:"id"`
	CartID   int     `json:"cart_id"`
	CourseID int     `json:"product_id"`
	Course   *Course `json:"product,omitempty"`
	Quantity int     `json:"quantity"`
	// Price is the unit price frozen when the line was added; totals are
	// computed from it, never from the live course price.
	Price   float64   `json:"price"`
	AddedAt time.Time `json:"added_at"`
}
