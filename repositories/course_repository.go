package repositories

import (
	"context"
	"errors"
	"time"

	"course-shop/models"

	"github.com/jackc/pgx/v5"
)

type CourseRepository struct{}

func NewCourseRepository() *CourseRepository {
	return &CourseRepository{}
}

const courseColumns = `id, title, description, category_id, price_usd, price_eur, price_dzd, price_africa, price, price_da, is_active, created_at, updated_at`

func scanCourse(row pgx.Row, c *models.Course) error {
	return row.Scan(
		&c.ID, &c.Title, &c.Description, &c.CategoryID,
		&c.PriceUSD, &c.PriceEUR, &c.PriceDZD, &c.PriceAfrica,
		&c.PriceLegacyEUR, &c.PriceLegacyDZD,
		&c.IsActive, &c.CreatedAt, &c.UpdatedAt,
	)
}

func (r *CourseRepository) GetByID(ctx context.Context, id int) (*models.Course, error) {
	query := `SELECT ` + courseColumns + ` FROM courses WHERE id = $1`

	course := &models.Course{}
	err := scanCourse(models.DB.QueryRow(ctx, query, id), course)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, models.ErrCourseNotFound
	}
	if err != nil {
		return nil, err
	}
	return course, nil
}

func (r *CourseRepository) GetAll(ctx context.Context, page, limit int) ([]models.Course, int, error) {
	offset := (page - 1) * limit

	var total int
	if err := models.DB.QueryRow(ctx, `SELECT COUNT(*) FROM courses WHERE is_active = true`).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := `SELECT ` + courseColumns + ` FROM courses WHERE is_active = true ORDER BY created_at DESC LIMIT $1 OFFSET $2`

	rows, err := models.DB.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	courses := []models.Course{}
	for rows.Next() {
		var c models.Course
		if err := scanCourse(rows, &c); err != nil {
			return nil, 0, err
		}
		courses = append(courses, c)
	}
	return courses, total, rows.Err()
}

func (r *CourseRepository) Create(ctx context.Context, course *models.Course) error {
	query := `
		INSERT INTO courses (title, description, category_id, price_usd, price_eur, price_dzd, price_africa, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id, created_at, updated_at
	`
	now := time.Now()
	return models.DB.QueryRow(ctx, query,
		course.Title, course.Description, course.CategoryID,
		course.PriceUSD, course.PriceEUR, course.PriceDZD, course.PriceAfrica,
		course.IsActive, now, now,
	).Scan(&course.ID, &course.CreatedAt, &course.UpdatedAt)
}

func (r *CourseRepository) Update(ctx context.Context, course *models.Course) error {
	query := `
		UPDATE courses
		SET title = $1, description = $2, category_id = $3, price_usd = $4, price_eur = $5,
		    price_dzd = $6, price_africa = $7, is_active = $8, updated_at = $9
		WHERE id = $10
	`
	_, err := models.DB.Exec(ctx, query,
		course.Title, course.Description, course.CategoryID,
		course.PriceUSD, course.PriceEUR, course.PriceDZD, course.PriceAfrica,
		course.IsActive, time.Now(), course.ID,
	)
	return err
}

// Delete deactivates rather than removes: cart lines keep referencing the
// row, and inactive courses are rejected at add-time.
func (r *CourseRepository) Delete(ctx context.Context, id int) error {
	_, err := models.DB.Exec(ctx, `UPDATE courses SET is_active = false, updated_at = NOW() WHERE id = $1`, id)
	return err
}

func (r *CourseRepository) GetAllCategories(ctx context.Context) ([]models.Category, error) {
	rows, err := models.DB.Query(ctx, `SELECT id, name, is_active, created_at FROM categories ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	categories := []models.Category{}
	for rows.Next() {
		var cat models.Category
		if err := rows.Scan(&cat.ID, &cat.Name, &cat.IsActive, &cat.CreatedAt); err != nil {
			return nil, err
		}
		categories = append(categories, cat)
	}
	return categories, rows.Err()
}
