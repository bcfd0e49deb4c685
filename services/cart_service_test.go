package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"course-shop/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memCartStore mirrors the SQL store's semantics in memory: upsert-summing
// adds, total recomputed on every mutation, merge disposes of the guest
// cart.
type memCartStore struct {
	mu     sync.Mutex
	nextID int
	carts  map[int]*models.Cart
}

func newMemCartStore() *memCartStore {
	return &memCartStore{carts: map[int]*models.Cart{}}
}

func (m *memCartStore) findByOwner(owner models.CartOwner) *models.Cart {
	for _, cart := range m.carts {
		if owner.UserID != nil && cart.UserID != nil && *cart.UserID == *owner.UserID {
			return cart
		}
		if owner.SessionID != nil && cart.SessionID != nil && *cart.SessionID == *owner.SessionID {
			return cart
		}
	}
	return nil
}

func recompute(cart *models.Cart) {
	total := 0.0
	for _, item := range cart.Items {
		total += item.Price * float64(item.Quantity)
	}
	cart.Total = total
	cart.UpdatedAt = time.Now()
}

func (m *memCartStore) GetByOwner(_ context.Context, owner models.CartOwner) (*models.Cart, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if cart := m.findByOwner(owner); cart != nil {
		return cart, nil
	}
	return nil, models.ErrCartNotFound
}

func (m *memCartStore) GetByID(_ context.Context, cartID int) (*models.Cart, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if cart, ok := m.carts[cartID]; ok {
		return cart, nil
	}
	return nil, models.ErrCartNotFound
}

func (m *memCartStore) Create(_ context.Context, owner models.CartOwner) (*models.Cart, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if cart := m.findByOwner(owner); cart != nil {
		return cart, nil
	}
	m.nextID++
	cart := &models.Cart{
		ID:        m.nextID,
		UserID:    owner.UserID,
		SessionID: owner.SessionID,
		Items:     []models.CartItem{},
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	m.carts[cart.ID] = cart
	return cart, nil
}

func (m *memCartStore) AddItem(_ context.Context, cartID, courseID, quantity int, unitPrice float64, currency string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cart, ok := m.carts[cartID]
	if !ok {
		return models.ErrCartNotFound
	}
	if cart.Currency == "" {
		cart.Currency = currency
	}
	for i := range cart.Items {
		if cart.Items[i].CourseID == courseID {
			cart.Items[i].Quantity += quantity
			cart.Items[i].AddedAt = time.Now()
			recompute(cart)
			return nil
		}
	}
	cart.Items = append(cart.Items, models.CartItem{
		ID:       len(cart.Items) + 1,
		CartID:   cartID,
		CourseID: courseID,
		Quantity: quantity,
		Price:    unitPrice,
		AddedAt:  time.Now(),
	})
	recompute(cart)
	return nil
}

func (m *memCartStore) SetItemQuantity(_ context.Context, cartID, courseID, quantity int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cart, ok := m.carts[cartID]
	if !ok {
		return models.ErrCartNotFound
	}
	for i := range cart.Items {
		if cart.Items[i].CourseID == courseID {
			cart.Items[i].Quantity = quantity
			recompute(cart)
			return nil
		}
	}
	return models.ErrItemNotFound
}

func (m *memCartStore) RemoveItem(_ context.Context, cartID, courseID int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cart, ok := m.carts[cartID]
	if !ok {
		return models.ErrCartNotFound
	}
	for i, item := range cart.Items {
		if item.CourseID == courseID {
			cart.Items = append(cart.Items[:i], cart.Items[i+1:]...)
			break
		}
	}
	recompute(cart)
	return nil
}

func (m *memCartStore) Clear(_ context.Context, cartID int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cart, ok := m.carts[cartID]
	if !ok {
		return models.ErrCartNotFound
	}
	cart.Items = []models.CartItem{}
	recompute(cart)
	return nil
}

func (m *memCartStore) CountItems(_ context.Context, owner models.CartOwner) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	cart := m.findByOwner(owner)
	if cart == nil {
		return 0, nil
	}
	count := 0
	for _, item := range cart.Items {
		count += item.Quantity
	}
	return count, nil
}

func (m *memCartStore) Merge(_ context.Context, sessionID string, userID int) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	guest := m.findByOwner(models.CartOwner{SessionID: &sessionID})
	if guest == nil {
		return nil
	}
	user := m.findByOwner(models.CartOwner{UserID: &userID})
	if user == nil {
		guest.UserID = &userID
		guest.SessionID = nil
		return nil
	}

	for _, line := range guest.Items {
		merged := false
		for i := range user.Items {
			if user.Items[i].CourseID == line.CourseID {
				user.Items[i].Quantity += line.Quantity
				merged = true
				break
			}
		}
		if !merged {
			line.CartID = user.ID
			user.Items = append(user.Items, line)
		}
	}
	delete(m.carts, guest.ID)
	if user.Currency == "" {
		user.Currency = guest.Currency
	}
	recompute(user)
	return nil
}

type memCatalog struct {
	courses map[int]*models.Course
}

func (m *memCatalog) GetByID(_ context.Context, id int) (*models.Course, error) {
	if course, ok := m.courses[id]; ok {
		return course, nil
	}
	return nil, models.ErrCourseNotFound
}

func newTestCartService(courses ...*models.Course) (*CartService, *memCartStore) {
	catalog := &memCatalog{courses: map[int]*models.Course{}}
	for _, c := range courses {
		catalog.courses[c.ID] = c
	}
	store := newMemCartStore()
	return NewCartService(store, catalog, NewPricingService()), store
}

func sessionOwner(id string) models.CartOwner {
	return models.CartOwner{SessionID: &id}
}

func userOwner(id int) models.CartOwner {
	return models.CartOwner{UserID: &id}
}

func activeCourse(id int, priceUSD float64) *models.Course {
	return &models.Course{ID: id, Title: "course", PriceUSD: fptr(priceUSD), IsActive: true}
}

func TestAddItemAccumulatesQuantity(t *testing.T) {
	svc, _ := newTestCartService(activeCourse(1, 50))
	ctx := context.Background()
	owner := sessionOwner("guest-1")

	_, err := svc.AddItem(ctx, owner, 1, 2, "US")
	require.NoError(t, err)

	cart, err := svc.AddItem(ctx, owner, 1, 3, "US")
	require.NoError(t, err)

	require.Len(t, cart.Items, 1)
	assert.Equal(t, 5, cart.Items[0].Quantity)
	assert.Equal(t, 250.0, cart.Total)
}

func TestAddItemQuantityBounds(t *testing.T) {
	svc, _ := newTestCartService(activeCourse(1, 50))
	ctx := context.Background()
	owner := sessionOwner("guest-1")

	for _, qty := range []int{0, -1, 101} {
		_, err := svc.AddItem(ctx, owner, 1, qty, "US")
		assert.ErrorIs(t, err, models.ErrInvalidQuantity, "quantity %d", qty)
	}

	cart, err := svc.AddItem(ctx, owner, 1, 100, "US")
	require.NoError(t, err)
	assert.Equal(t, 100, cart.Items[0].Quantity)
}

func TestAddItemMissingOwner(t *testing.T) {
	svc, _ := newTestCartService(activeCourse(1, 50))

	_, err := svc.AddItem(context.Background(), models.CartOwner{}, 1, 1, "US")
	assert.ErrorIs(t, err, models.ErrMissingOwner)
}

func TestAddItemUnknownOrInactiveCourse(t *testing.T) {
	inactive := activeCourse(2, 50)
	inactive.IsActive = false
	svc, _ := newTestCartService(activeCourse(1, 50), inactive)
	ctx := context.Background()
	owner := sessionOwner("guest-1")

	_, err := svc.AddItem(ctx, owner, 99, 1, "US")
	assert.ErrorIs(t, err, models.ErrCourseNotFound)

	_, err = svc.AddItem(ctx, owner, 2, 1, "US")
	assert.ErrorIs(t, err, models.ErrCourseNotFound)
}

func TestTotalInvariantAcrossOperations(t *testing.T) {
	courseA := activeCourse(1, 50)
	courseB := activeCourse(2, 30)
	svc, _ := newTestCartService(courseA, courseB)
	ctx := context.Background()
	owner := sessionOwner("guest-1")

	checkTotal := func(cart *models.Cart) {
		t.Helper()
		expected := 0.0
		for _, item := range cart.Items {
			expected += item.Price * float64(item.Quantity)
		}
		assert.Equal(t, expected, cart.Total)
	}

	cart, err := svc.AddItem(ctx, owner, 1, 2, "US")
	require.NoError(t, err)
	checkTotal(cart)

	cart, err = svc.AddItem(ctx, owner, 2, 1, "US")
	require.NoError(t, err)
	checkTotal(cart)
	assert.Equal(t, 130.0, cart.Total)

	cart, err = svc.UpdateItemQuantity(ctx, owner, 1, 4)
	require.NoError(t, err)
	checkTotal(cart)
	assert.Equal(t, 230.0, cart.Total)

	cart, err = svc.RemoveItem(ctx, owner, 2)
	require.NoError(t, err)
	checkTotal(cart)
	assert.Equal(t, 200.0, cart.Total)
}

func TestUpdateItemQuantityRejectsNonPositive(t *testing.T) {
	svc, _ := newTestCartService(activeCourse(1, 50))
	ctx := context.Background()
	owner := sessionOwner("guest-1")

	_, err := svc.AddItem(ctx, owner, 1, 2, "US")
	require.NoError(t, err)

	_, err = svc.UpdateItemQuantity(ctx, owner, 1, 0)
	assert.ErrorIs(t, err, models.ErrInvalidQuantity)

	_, err = svc.UpdateItemQuantity(ctx, owner, 1, -3)
	assert.ErrorIs(t, err, models.ErrInvalidQuantity)

	// the line is untouched
	cart, err := svc.GetCart(ctx, owner)
	require.NoError(t, err)
	assert.Equal(t, 2, cart.Items[0].Quantity)
}

func TestUpdateMissingLine(t *testing.T) {
	svc, _ := newTestCartService(activeCourse(1, 50))
	ctx := context.Background()
	owner := sessionOwner("guest-1")

	_, err := svc.AddItem(ctx, owner, 1, 1, "US")
	require.NoError(t, err)

	_, err = svc.UpdateItemQuantity(ctx, owner, 42, 3)
	assert.ErrorIs(t, err, models.ErrItemNotFound)
}

func TestRemoveAbsentLineIsNoop(t *testing.T) {
	svc, _ := newTestCartService(activeCourse(1, 50))
	ctx := context.Background()
	owner := sessionOwner("guest-1")

	_, err := svc.AddItem(ctx, owner, 1, 2, "US")
	require.NoError(t, err)

	cart, err := svc.RemoveItem(ctx, owner, 42)
	require.NoError(t, err)
	assert.Len(t, cart.Items, 1)
	assert.Equal(t, 100.0, cart.Total)
}

func TestClearCartIdempotent(t *testing.T) {
	svc, _ := newTestCartService(activeCourse(1, 50))
	ctx := context.Background()
	owner := sessionOwner("guest-1")

	_, err := svc.AddItem(ctx, owner, 1, 2, "US")
	require.NoError(t, err)

	first, err := svc.ClearCart(ctx, owner)
	require.NoError(t, err)
	assert.Empty(t, first.Items)
	assert.Zero(t, first.Total)

	second, err := svc.ClearCart(ctx, owner)
	require.NoError(t, err)
	assert.Empty(t, second.Items)
	assert.Zero(t, second.Total)
}

func TestClearMissingCartIsNoop(t *testing.T) {
	svc, _ := newTestCartService()

	cart, err := svc.ClearCart(context.Background(), sessionOwner("nobody"))
	require.NoError(t, err)
	assert.Empty(t, cart.Items)
	assert.Zero(t, cart.Total)
}

func TestGetCartDoesNotCreate(t *testing.T) {
	svc, store := newTestCartService()

	_, err := svc.GetCart(context.Background(), sessionOwner("guest-1"))
	assert.ErrorIs(t, err, models.ErrCartNotFound)
	assert.Empty(t, store.carts)
}

func TestGetCartMissingOwner(t *testing.T) {
	svc, _ := newTestCartService()

	_, err := svc.GetCart(context.Background(), models.CartOwner{})
	assert.ErrorIs(t, err, models.ErrMissingOwner)
}

func TestCreateCartIdempotent(t *testing.T) {
	svc, _ := newTestCartService()
	ctx := context.Background()
	owner := sessionOwner("guest-1")

	first, err := svc.CreateCart(ctx, owner)
	require.NoError(t, err)

	second, err := svc.CreateCart(ctx, owner)
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
}

func TestCountItems(t *testing.T) {
	svc, _ := newTestCartService(activeCourse(1, 50), activeCourse(2, 30))
	ctx := context.Background()
	owner := sessionOwner("guest-1")

	count, err := svc.CountItems(ctx, owner)
	require.NoError(t, err)
	assert.Zero(t, count)

	_, err = svc.AddItem(ctx, owner, 1, 2, "US")
	require.NoError(t, err)
	_, err = svc.AddItem(ctx, owner, 2, 3, "US")
	require.NoError(t, err)

	count, err = svc.CountItems(ctx, owner)
	require.NoError(t, err)
	assert.Equal(t, 5, count)
}

func TestMergeSumsDuplicatesAndDisposesGuestCart(t *testing.T) {
	courseA := activeCourse(1, 10)
	courseB := activeCourse(2, 20)
	courseC := activeCourse(3, 30)
	svc, store := newTestCartService(courseA, courseB, courseC)
	ctx := context.Background()

	guest := sessionOwner("guest-1")
	_, err := svc.AddItem(ctx, guest, 1, 2, "US")
	require.NoError(t, err)
	_, err = svc.AddItem(ctx, guest, 2, 1, "US")
	require.NoError(t, err)

	user := userOwner(7)
	_, err = svc.AddItem(ctx, user, 1, 1, "US")
	require.NoError(t, err)
	_, err = svc.AddItem(ctx, user, 3, 4, "US")
	require.NoError(t, err)

	cart, err := svc.MergeCarts(ctx, "guest-1", 7)
	require.NoError(t, err)

	quantities := map[int]int{}
	for _, item := range cart.Items {
		quantities[item.CourseID] = item.Quantity
	}
	assert.Equal(t, map[int]int{1: 3, 2: 1, 3: 4}, quantities)
	assert.Equal(t, 170.0, cart.Total)

	_, err = svc.GetCart(ctx, guest)
	assert.ErrorIs(t, err, models.ErrCartNotFound)
	assert.Len(t, store.carts, 1)
}

func TestMergeReownsGuestCartWhenUserHasNone(t *testing.T) {
	svc, _ := newTestCartService(activeCourse(1, 10))
	ctx := context.Background()

	_, err := svc.AddItem(ctx, sessionOwner("guest-1"), 1, 2, "US")
	require.NoError(t, err)

	cart, err := svc.MergeCarts(ctx, "guest-1", 7)
	require.NoError(t, err)

	require.NotNil(t, cart.UserID)
	assert.Equal(t, 7, *cart.UserID)
	assert.Nil(t, cart.SessionID)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, 2, cart.Items[0].Quantity)
}

func TestMergeWithoutGuestCartIsNoop(t *testing.T) {
	svc, _ := newTestCartService(activeCourse(1, 10))
	ctx := context.Background()

	_, err := svc.AddItem(ctx, userOwner(7), 1, 2, "US")
	require.NoError(t, err)

	cart, err := svc.MergeCarts(ctx, "never-seen", 7)
	require.NoError(t, err)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, 2, cart.Items[0].Quantity)
}

func TestAddItemPinsCurrency(t *testing.T) {
	course := &models.Course{ID: 1, Title: "course", PriceEUR: fptr(45), PriceDZD: fptr(6000), IsActive: true}
	other := &models.Course{ID: 2, Title: "other", PriceEUR: fptr(10), PriceDZD: fptr(1500), IsActive: true}
	svc, _ := newTestCartService(course, other)
	ctx := context.Background()
	owner := sessionOwner("guest-1")

	cart, err := svc.AddItem(ctx, owner, 1, 1, "DZ")
	require.NoError(t, err)
	assert.Equal(t, "DZD", cart.Currency)
	assert.Equal(t, 6000.0, cart.Items[0].Price)

	// a later add from another country still prices in the pinned currency
	cart, err = svc.AddItem(ctx, owner, 2, 1, "FR")
	require.NoError(t, err)
	assert.Equal(t, "DZD", cart.Currency)
	assert.Equal(t, 1500.0, cart.Items[1].Price)
	assert.Equal(t, 7500.0, cart.Total)
}

func TestItemPriceFrozenAtAddTime(t *testing.T) {
	course := activeCourse(1, 50)
	svc, _ := newTestCartService(course)
	ctx := context.Background()
	owner := sessionOwner("guest-1")

	_, err := svc.AddItem(ctx, owner, 1, 1, "US")
	require.NoError(t, err)

	// catalog price changes after the add
	course.PriceUSD = fptr(80)

	cart, err := svc.UpdateItemQuantity(ctx, owner, 1, 2)
	require.NoError(t, err)
	assert.Equal(t, 50.0, cart.Items[0].Price)
	assert.Equal(t, 100.0, cart.Total)
}
