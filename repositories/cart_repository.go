package repositories

import (
	"context"
	"errors"

	"course-shop/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

type CartRepository struct{}

func NewCartRepository() *CartRepository {
	return &CartRepository{}
}

// ownerClause builds the WHERE fragment for a cart owner. Callers guarantee
// the owner is valid (exactly one side set takes precedence: user id wins).
func ownerClause(owner models.CartOwner) (string, interface{}) {
	if owner.UserID != nil {
		return "user_id = $1", *owner.UserID
	}
	return "session_id = $1", *owner.SessionID
}

func (r *CartRepository) GetByOwner(ctx context.Context, owner models.CartOwner) (*models.Cart, error) {
	clause, arg := ownerClause(owner)
	query := `SELECT id, user_id, session_id, currency, total, created_at, updated_at FROM carts WHERE ` + clause

	cart := &models.Cart{}
	err := models.DB.QueryRow(ctx, query, arg).Scan(
		&cart.ID, &cart.UserID, &cart.SessionID, &cart.Currency, &cart.Total, &cart.CreatedAt, &cart.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, models.ErrCartNotFound
	}
	if err != nil {
		return nil, err
	}

	if err := r.loadItems(ctx, cart); err != nil {
		return nil, err
	}
	return cart, nil
}

func (r *CartRepository) GetByID(ctx context.Context, cartID int) (*models.Cart, error) {
	query := `SELECT id, user_id, session_id, currency, total, created_at, updated_at FROM carts WHERE id = $1`

	cart := &models.Cart{}
	err := models.DB.QueryRow(ctx, query, cartID).Scan(
		&cart.ID, &cart.UserID, &cart.SessionID, &cart.Currency, &cart.Total, &cart.CreatedAt, &cart.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, models.ErrCartNotFound
	}
	if err != nil {
		return nil, err
	}

	if err := r.loadItems(ctx, cart); err != nil {
		return nil, err
	}
	return cart, nil
}

func (r *CartRepository) loadItems(ctx context.Context, cart *models.Cart) error {
	query := `
		SELECT ci.id, ci.cart_id, ci.course_id, ci.quantity, ci.price, ci.added_at, co.title, co.is_active
		FROM cart_items ci
		JOIN courses co ON co.id = ci.course_id
		WHERE ci.cart_id = $1
		ORDER BY ci.id
	`
	rows, err := models.DB.Query(ctx, query, cart.ID)
	if err != nil {
		return err
	}
	defer rows.Close()

	cart.Items = []models.CartItem{}
	for rows.Next() {
		var item models.CartItem
		course := &models.Course{}
		if err := rows.Scan(
			&item.ID, &item.CartID, &item.CourseID, &item.Quantity, &item.Price, &item.AddedAt,
			&course.Title, &course.IsActive,
		); err != nil {
			return err
		}
		course.ID = item.CourseID
		item.Course = course
		cart.Items = append(cart.Items, item)
	}
	return rows.Err()
}

// Create is idempotent: a concurrent or earlier create for the same owner
// resolves to the existing cart.
func (r *CartRepository) Create(ctx context.Context, owner models.CartOwner) (*models.Cart, error) {
	existing, err := r.GetByOwner(ctx, owner)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, models.ErrCartNotFound) {
		return nil, err
	}

	query := `
		INSERT INTO carts (user_id, session_id, created_at, updated_at)
		VALUES ($1, $2, NOW(), NOW())
		RETURNING id, user_id, session_id, currency, total, created_at, updated_at
	`
	cart := &models.Cart{}
	err = models.DB.QueryRow(ctx, query, owner.UserID, owner.SessionID).Scan(
		&cart.ID, &cart.UserID, &cart.SessionID, &cart.Currency, &cart.Total, &cart.CreatedAt, &cart.UpdatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return r.GetByOwner(ctx, owner)
		}
		return nil, err
	}

	cart.Items = []models.CartItem{}
	return cart, nil
}

// AddItem upserts a line as a single atomic statement: two concurrent adds
// for the same course both land as increments, never a lost update. The
// cart total is recomputed inside the same transaction.
func (r *CartRepository) AddItem(ctx context.Context, cartID, courseID, quantity int, unitPrice float64, currency string) error {
	tx, err := models.DB.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx,
		`UPDATE carts SET currency = $2 WHERE id = $1 AND currency = ''`,
		cartID, currency,
	)
	if err != nil {
		return err
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO cart_items (cart_id, course_id, quantity, price, added_at)
		VALUES ($1, $2, $3, $4, NOW())
		ON CONFLICT (cart_id, course_id)
		DO UPDATE SET quantity = cart_items.quantity + EXCLUDED.quantity, added_at = NOW()
	`, cartID, courseID, quantity, unitPrice)
	if err != nil {
		return err
	}

	if err := recomputeTotal(ctx, tx, cartID); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func (r *CartRepository) SetItemQuantity(ctx context.Context, cartID, courseID, quantity int) error {
	tx, err := models.DB.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx,
		`UPDATE cart_items SET quantity = $3 WHERE cart_id = $1 AND course_id = $2`,
		cartID, courseID, quantity,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return models.ErrItemNotFound
	}

	if err := recomputeTotal(ctx, tx, cartID); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func (r *CartRepository) RemoveItem(ctx context.Context, cartID, courseID int) error {
	tx, err := models.DB.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	// deleting an absent line is a no-op, not an error
	_, err = tx.Exec(ctx,
		`DELETE FROM cart_items WHERE cart_id = $1 AND course_id = $2`,
		cartID, courseID,
	)
	if err != nil {
		return err
	}

	if err := recomputeTotal(ctx, tx, cartID); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func (r *CartRepository) Clear(ctx context.Context, cartID int) error {
	tx, err := models.DB.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM cart_items WHERE cart_id = $1`, cartID); err != nil {
		return err
	}
	if _, err := tx.Exec(ctx, `UPDATE carts SET total = 0, updated_at = NOW() WHERE id = $1`, cartID); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func (r *CartRepository) CountItems(ctx context.Context, owner models.CartOwner) (int, error) {
	clause, arg := ownerClause(owner)
	query := `
		SELECT COALESCE(SUM(ci.quantity), 0)
		FROM carts c
		LEFT JOIN cart_items ci ON ci.cart_id = c.id
		WHERE c.` + clause

	var count int
	err := models.DB.QueryRow(ctx, query, arg).Scan(&count)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return count, nil
}

// Merge runs entirely in one transaction so a crash mid-merge can never
// leave a half-populated user cart next to a surviving guest cart. Both
// carts are locked for the duration.
func (r *CartRepository) Merge(ctx context.Context, sessionID string, userID int) error {
	tx, err := models.DB.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	var guestCartID int
	var guestCurrency string
	err = tx.QueryRow(ctx,
		`SELECT id, currency FROM carts WHERE session_id = $1 FOR UPDATE`,
		sessionID,
	).Scan(&guestCartID, &guestCurrency)
	if errors.Is(err, pgx.ErrNoRows) {
		// nothing to merge
		return tx.Commit(ctx)
	}
	if err != nil {
		return err
	}

	var userCartID int
	var userCurrency string
	err = tx.QueryRow(ctx,
		`SELECT id, currency FROM carts WHERE user_id = $1 FOR UPDATE`,
		userID,
	).Scan(&userCartID, &userCurrency)
	if errors.Is(err, pgx.ErrNoRows) {
		// user has no cart yet: re-own the guest cart wholesale
		_, err = tx.Exec(ctx,
			`UPDATE carts SET user_id = $1, session_id = NULL, updated_at = NOW() WHERE id = $2`,
			userID, guestCartID,
		)
		if err != nil {
			return err
		}
		return tx.Commit(ctx)
	}
	if err != nil {
		return err
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO cart_items (cart_id, course_id, quantity, price, added_at)
		SELECT $1, course_id, quantity, price, NOW() FROM cart_items WHERE cart_id = $2
		ON CONFLICT (cart_id, course_id)
		DO UPDATE SET quantity = cart_items.quantity + EXCLUDED.quantity, added_at = NOW()
	`, userCartID, guestCartID)
	if err != nil {
		return err
	}

	if _, err := tx.Exec(ctx, `DELETE FROM carts WHERE id = $1`, guestCartID); err != nil {
		return err
	}

	if userCurrency == "" && guestCurrency != "" {
		_, err = tx.Exec(ctx, `UPDATE carts SET currency = $2 WHERE id = $1`, userCartID, guestCurrency)
		if err != nil {
			return err
		}
	}

	if err := recomputeTotal(ctx, tx, userCartID); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

// recomputeTotal keeps the stored total derivable from the items at all
// times: it runs in the same transaction as every item mutation.
func recomputeTotal(ctx context.Context, tx pgx.Tx, cartID int) error {
	_, err := tx.Exec(ctx, `
		UPDATE carts
		SET total = (SELECT COALESCE(SUM(price * quantity), 0) FROM cart_items WHERE cart_id = $1),
		    updated_at = NOW()
		WHERE id = $1
	`, cartID)
	return err
}
