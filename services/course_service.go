package services

import (
	"context"
	"math"

	"course-shop/models"
	"course-shop/repositories"
)

type CourseService struct {
	courseRepo *repositories.CourseRepository
	pricing    *PricingService
}

func NewCourseService() *CourseService {
	return &CourseService{
		courseRepo: repositories.NewCourseRepository(),
		pricing:    NewPricingService(),
	}
}

func (s *CourseService) GetAllCategories(ctx context.Context) ([]models.Category, error) {
	return s.courseRepo.GetAllCategories(ctx)
}

// GetAll lists active courses with the price localized for the requesting
// country.
func (s *CourseService) GetAll(ctx context.Context, page, limit int, country string) (*models.PaginationResponse, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}

	courses, total, err := s.courseRepo.GetAll(ctx, page, limit)
	if err != nil {
		return nil, err
	}

	localized := make([]models.LocalizedCourse, 0, len(courses))
	for i := range courses {
		price := s.pricing.Resolve(country, &courses[i])
		localized = append(localized, models.LocalizedCourse{
			Course:          courses[i],
			DisplayPrice:    price.Amount,
			DisplayCurrency: price.Currency,
		})
	}

	totalPages := int(math.Ceil(float64(total) / float64(limit)))

	return &models.PaginationResponse{
		Success: true,
		Message: "Courses retrieved successfully",
		Data:    localized,
		Meta: models.MetaData{
			Page:       page,
			Limit:      limit,
			TotalItems: total,
			TotalPages: totalPages,
		},
	}, nil
}

func (s *CourseService) GetByID(ctx context.Context, id int, country string) (*models.LocalizedCourse, error) {
	course, err := s.courseRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	price := s.pricing.Resolve(country, course)
	return &models.LocalizedCourse{
		Course:          *course,
		DisplayPrice:    price.Amount,
		DisplayCurrency: price.Currency,
	}, nil
}

func (s *CourseService) Create(ctx context.Context, req models.CreateCourseRequest) (*models.Course, error) {
	isActive := true
	if req.IsActive != nil {
		isActive = *req.IsActive
	}

	course := &models.Course{
		Title:       req.Title,
		Description: req.Description,
		CategoryID:  req.CategoryID,
		PriceUSD:    req.PriceUSD,
		PriceEUR:    req.PriceEUR,
		PriceDZD:    req.PriceDZD,
		PriceAfrica: req.PriceAfrica,
		IsActive:    isActive,
	}

	if err := s.courseRepo.Create(ctx, course); err != nil {
		return nil, err
	}
	return course, nil
}

func (s *CourseService) Update(ctx context.Context, id int, req models.UpdateCourseRequest) (*models.Course, error) {
	course, err := s.courseRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		course.Title = *req.Title
	}
	if req.Description != nil {
		course.Description = *req.Description
	}
	if req.CategoryID != nil {
		course.CategoryID = req.CategoryID
	}
	if req.PriceUSD != nil {
		course.PriceUSD = req.PriceUSD
	}
	if req.PriceEUR != nil {
		course.PriceEUR = req.PriceEUR
	}
	if req.PriceDZD != nil {
		course.PriceDZD = req.PriceDZD
	}
	if req.PriceAfrica != nil {
		course.PriceAfrica = req.PriceAfrica
	}
	if req.IsActive != nil {
		course.IsActive = *req.IsActive
	}

	if err := s.courseRepo.Update(ctx, course); err != nil {
		return nil, err
	}
	return course, nil
}

func (s *CourseService) Delete(ctx context.Context, id int) error {
	if _, err := s.courseRepo.GetByID(ctx, id); err != nil {
		return err
	}
	return s.courseRepo.Delete(ctx, id)
}
