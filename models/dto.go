package models

type RegisterRequest struct {
	Email    string `json:"email" form:"email" binding:"required,email"`
	Password string `json:"password" form:"password" binding:"required,min=6"`
	FullName string `json:"full_name" form:"full_name" binding:"required,min=3"`
}

type LoginRequest struct {
	Email    string `json:"email" form:"email" binding:"required,email"`
	Password string `json:"password" form:"password" binding:"required"`
	// SessionID lets the storefront hand over its guest cart at login.
	SessionID string `json:"session_id" form:"session_id"`
}

type AddCartItemRequest struct {
	ProductID int    `json:"productId" binding:"required"`
	Quantity  int    `json:"quantity" binding:"required"`
	SessionID string `json:"sessionId"`
}

type UpdateCartItemRequest struct {
	ProductID int    `json:"productId" binding:"required"`
	Quantity  int    `json:"quantity" binding:"required"`
	SessionID string `json:"sessionId"`
}

// SessionID may be empty: a caller with no guest session merges nothing,
// which is a valid outcome.
type MergeCartRequest struct {
	SessionID string `json:"sessionId"`
}

type CreateCourseRequest struct {
	Title       string   `json:"title" form:"title" binding:"required"`
	Description string   `json:"description" form:"description"`
	CategoryID  *int     `json:"category_id" form:"category_id"`
	PriceUSD    *float64 `json:"price_usd" form:"price_usd"`
	PriceEUR    *float64 `json:"price_eur" form:"price_eur"`
	PriceDZD    *float64 `json:"price_dzd" form:"price_dzd"`
	PriceAfrica *float64 `json:"price_africa" form:"price_africa"`
	IsActive    *bool    `json:"is_active" form:"is_active"`
}

type UpdateCourseRequest struct {
	Title       *string  `json:"title" form:"title"`
	Description *string  `json:"description" form:"description"`
	CategoryID  *int     `json:"category_id" form:"category_id"`
	PriceUSD    *float64 `json:"price_usd" form:"price_usd"`
	PriceEUR    *float64 `json:"price_eur" form:"price_eur"`
	PriceDZD    *float64 `json:"price_dzd" form:"price_dzd"`
	PriceAfrica *float64 `json:"price_africa" form:"price_africa"`
	IsActive    *bool    `json:"is_active" form:"is_active"`
}
