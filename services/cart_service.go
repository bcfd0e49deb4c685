package services

import (
	"context"
	"errors"
	"log"

	"course-shop/models"
)

// MaxItemQuantity caps a single cart line.
const MaxItemQuantity = 100

// CartStore is the single authoritative cart persistence interface. All
// implementations must recompute the cart total atomically with every item
// mutation and express quantity increments as one atomic statement.
type CartStore interface {
	GetByOwner(ctx context.Context, owner models.CartOwner) (*models.Cart, error)
	GetByID(ctx context.Context, cartID int) (*models.Cart, error)
	Create(ctx context.Context, owner models.CartOwner) (*models.Cart, error)
	AddItem(ctx context.Context, cartID, courseID, quantity int, unitPrice float64, currency string) error
	SetItemQuantity(ctx context.Context, cartID, courseID, quantity int) error
	RemoveItem(ctx context.Context, cartID, courseID int) error
	Clear(ctx context.Context, cartID int) error
	CountItems(ctx context.Context, owner models.CartOwner) (int, error)
	Merge(ctx context.Context, sessionID string, userID int) error
}

// CourseCatalog is the slice of the catalog the cart needs: resolving the
// course being added.
type CourseCatalog interface {
	GetByID(ctx context.Context, id int) (*models.Course, error)
}

type CartService struct {
	store   CartStore
	catalog CourseCatalog
	pricing *PricingService
}

func NewCartService(store CartStore, catalog CourseCatalog, pricing *PricingService) *CartService {
	return &CartService{
		store:   store,
		catalog: catalog,
		pricing: pricing,
	}
}

// GetCart returns the owner's cart without creating one.
func (s *CartService) GetCart(ctx context.Context, owner models.CartOwner) (*models.Cart, error) {
	if !owner.Valid() {
		return nil, models.ErrMissingOwner
	}
	return s.store.GetByOwner(ctx, owner)
}

// CreateCart is idempotent: an existing cart for the owner is returned
// rather than treated as a conflict.
func (s *CartService) CreateCart(ctx context.Context, owner models.CartOwner) (*models.Cart, error) {
	if !owner.Valid() {
		return nil, models.ErrMissingOwner
	}
	return s.store.Create(ctx, owner)
}

// AddItem appends a line or increments an existing one. The unit price is
// frozen at add-time: the first add pins the cart currency from the
// country-resolved price, later adds price the course in the pinned
// currency.
func (s *CartService) AddItem(ctx context.Context, owner models.CartOwner, courseID, quantity int, country string) (*models.Cart, error) {
	if !owner.Valid() {
		return nil, models.ErrMissingOwner
	}
	if quantity < 1 || quantity > MaxItemQuantity {
		return nil, models.ErrInvalidQuantity
	}

	course, err := s.catalog.GetByID(ctx, courseID)
	if err != nil {
		if errors.Is(err, models.ErrCourseNotFound) {
			return nil, models.ErrCourseNotFound
		}
		return nil, err
	}
	if !course.IsActive {
		return nil, models.ErrCourseNotFound
	}

	cart, err := s.store.GetByOwner(ctx, owner)
	if errors.Is(err, models.ErrCartNotFound) {
		cart, err = s.store.Create(ctx, owner)
	}
	if err != nil {
		return nil, err
	}

	var price Price
	if cart.Currency != "" {
		amount, ok := s.pricing.AmountIn(cart.Currency, course)
		if !ok {
			log.Printf("course %d has no %s price, storing zero", courseID, cart.Currency)
		}
		price = Price{Amount: amount, Currency: cart.Currency}
	} else {
		price = s.pricing.Resolve(country, course)
	}

	if err := s.store.AddItem(ctx, cart.ID, courseID, quantity, price.Amount, price.Currency); err != nil {
		return nil, err
	}
	return s.store.GetByID(ctx, cart.ID)
}

// UpdateItemQuantity sets (not increments) a line's quantity. Zero and
// negative quantities are rejected; removal is the explicit remove
// operation.
func (s *CartService) UpdateItemQuantity(ctx context.Context, owner models.CartOwner, courseID, quantity int) (*models.Cart, error) {
	if !owner.Valid() {
		return nil, models.ErrMissingOwner
	}
	if quantity < 1 || quantity > MaxItemQuantity {
		return nil, models.ErrInvalidQuantity
	}

	cart, err := s.store.GetByOwner(ctx, owner)
	if err != nil {
		return nil, err
	}
	if err := s.store.SetItemQuantity(ctx, cart.ID, courseID, quantity); err != nil {
		return nil, err
	}
	return s.store.GetByID(ctx, cart.ID)
}

// RemoveItem deletes a line. A line that is already gone is not an error.
func (s *CartService) RemoveItem(ctx context.Context, owner models.CartOwner, courseID int) (*models.Cart, error) {
	if !owner.Valid() {
		return nil, models.ErrMissingOwner
	}

	cart, err := s.store.GetByOwner(ctx, owner)
	if err != nil {
		return nil, err
	}
	if err := s.store.RemoveItem(ctx, cart.ID, courseID); err != nil {
		return nil, err
	}
	return s.store.GetByID(ctx, cart.ID)
}

// ClearCart empties the cart. Clearing an absent or already-empty cart is a
// no-op returning an empty cart.
func (s *CartService) ClearCart(ctx context.Context, owner models.CartOwner) (*models.Cart, error) {
	if !owner.Valid() {
		return nil, models.ErrMissingOwner
	}

	cart, err := s.store.GetByOwner(ctx, owner)
	if errors.Is(err, models.ErrCartNotFound) {
		return &models.Cart{UserID: owner.UserID, SessionID: owner.SessionID, Items: []models.CartItem{}}, nil
	}
	if err != nil {
		return nil, err
	}
	if err := s.store.Clear(ctx, cart.ID); err != nil {
		return nil, err
	}
	return s.store.GetByID(ctx, cart.ID)
}

// CountItems returns the total quantity across the cart's lines.
func (s *CartService) CountItems(ctx context.Context, owner models.CartOwner) (int, error) {
	if !owner.Valid() {
		return 0, models.ErrMissingOwner
	}
	return s.store.CountItems(ctx, owner)
}

// MergeCarts folds the guest session cart into the user's cart, summing
// quantities for duplicate courses, and disposes of the guest cart. A
// missing guest cart is a valid no-op.
func (s *CartService) MergeCarts(ctx context.Context, sessionID string, userID int) (*models.Cart, error) {
	if sessionID != "" {
		if err := s.store.Merge(ctx, sessionID, userID); err != nil {
			return nil, err
		}
	}

	cart, err := s.store.GetByOwner(ctx, models.CartOwner{UserID: &userID})
	if errors.Is(err, models.ErrCartNotFound) {
		return &models.Cart{UserID: &userID, Items: []models.CartItem{}}, nil
	}
	if err != nil {
		return nil, err
	}
	return cart, nil
}
