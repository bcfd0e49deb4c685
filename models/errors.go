package models

import "errors"

// Cart domain failure conditions. The HTTP layer maps these to status
// codes; storage errors outside this set surface as 500.
var (
	ErrMissingOwner    = errors.New("cart owner required: supply a user id or session id")
	ErrInvalidQuantity = errors.New("quantity must be between 1 and 100")
	ErrCartNotFound    = errors.New("cart not found")
	ErrItemNotFound    = errors.New("cart item not found")
	ErrCourseNotFound  = errors.New("course not found")
	ErrUnauthorized    = errors.New("authentication required")
)
