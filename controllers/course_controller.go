package controllers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"course-shop/models"
	"course-shop/services"
	"course-shop/utils"

	"github.com/gin-gonic/gin"
)

type CourseController struct {
	courseService *services.CourseService
}

func NewCourseController() *CourseController {
	return &CourseController{
		courseService: services.NewCourseService(),
	}
}

// cache key carries the country: the same page renders different prices
// per pricing region.
func courseListCacheKey(page, limit int, country string) string {
	return fmt.Sprintf("courses_list_p%d_l%d_%s", page, limit, country)
}

func invalidateCourseCache() {
	if models.RedisClient == nil {
		return
	}
	ctx := context.Background()
	iter := models.RedisClient.Scan(ctx, 0, "courses_list_*", 0).Iterator()
	for iter.Next(ctx) {
		models.RedisClient.Del(ctx, iter.Val())
	}
}

// @Summary Get all categories
// @Description Get list of all categories
// @Tags Categories
// @Produce json
// @Success 200 {object} models.Response
// @Router /categories [get]
func (ctrl *CourseController) GetAllCategories(c *gin.Context) {
	categories, err := ctrl.courseService.GetAllCategories(c.Request.Context())
	if err != nil {
		c.JSON(500, models.ErrorResponse{Success: false, Message: "Failed to retrieve categories"})
		return
	}
	c.JSON(200, models.Response{Success: true, Message: "Categories retrieved", Data: categories})
}

// @Summary Get all courses
// @Description Paginated course list with the price localized for the request country
// @Tags Courses
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Items per page" default(10)
// @Success 200 {object} models.PaginationResponse
// @Router /courses [get]
func (ctrl *CourseController) GetAllCourses(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}

	country := utils.ResolveCountry(c)
	utils.SetCountryCookie(c, country)

	cacheKey := courseListCacheKey(page, limit, country)
	ctx := c.Request.Context()

	if models.RedisClient != nil {
		if cached, err := models.RedisClient.Get(ctx, cacheKey).Result(); err == nil {
			c.Data(200, "application/json", []byte(cached))
			return
		}
	}

	response, err := ctrl.courseService.GetAll(ctx, page, limit, country)
	if err != nil {
		c.JSON(500, models.ErrorResponse{Success: false, Message: "Failed to retrieve courses"})
		return
	}

	if models.RedisClient != nil {
		if jsonData, err := json.Marshal(response); err == nil {
			models.RedisClient.Set(ctx, cacheKey, string(jsonData), 5*time.Minute)
		}
	}

	c.JSON(200, response)
}

// @Summary Get course by ID
// @Description Course detail with the price localized for the request country
// @Tags Courses
// @Produce json
// @Param id path int true "Course ID"
// @Success 200 {object} models.Response
// @Failure 404 {object} models.ErrorResponse
// @Router /courses/{id} [get]
func (ctrl *CourseController) GetCourseByID(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(400, models.ErrorResponse{Success: false, Message: "Invalid course ID"})
		return
	}

	country := utils.ResolveCountry(c)
	utils.SetCountryCookie(c, country)

	course, err := ctrl.courseService.GetByID(c.Request.Context(), id, country)
	if err != nil {
		if errors.Is(err, models.ErrCourseNotFound) {
			c.JSON(404, models.ErrorResponse{Success: false, Message: "Course not found"})
			return
		}
		c.JSON(500, models.ErrorResponse{Success: false, Message: "Failed to retrieve course"})
		return
	}

	c.JSON(200, models.Response{Success: true, Message: "Course retrieved", Data: course})
}

// @Summary Create course
// @Description Create a course with per-tier prices (Admin)
// @Tags Admin - Courses
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param body body models.CreateCourseRequest true "Course"
// @Success 201 {object} models.Response
// @Router /admin/courses [post]
func (ctrl *CourseController) CreateCourse(c *gin.Context) {
	var req models.CreateCourseRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(400, models.ErrorResponse{Success: false, Message: "Invalid request", Error: err.Error()})
		return
	}

	course, err := ctrl.courseService.Create(c.Request.Context(), req)
	if err != nil {
		c.JSON(500, models.ErrorResponse{Success: false, Message: "Failed to create course"})
		return
	}

	invalidateCourseCache()
	c.JSON(201, models.Response{Success: true, Message: "Course created", Data: course})
}

// @Summary Update course
// @Description Update course fields and per-tier prices (Admin)
// @Tags Admin - Courses
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path int true "Course ID"
// @Param body body models.UpdateCourseRequest true "Fields to update"
// @Success 200 {object} models.Response
// @Router /admin/courses/{id} [patch]
func (ctrl *CourseController) UpdateCourse(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(400, models.ErrorResponse{Success: false, Message: "Invalid course ID"})
		return
	}

	var req models.UpdateCourseRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(400, models.ErrorResponse{Success: false, Message: "Invalid request", Error: err.Error()})
		return
	}

	course, err := ctrl.courseService.Update(c.Request.Context(), id, req)
	if err != nil {
		if errors.Is(err, models.ErrCourseNotFound) {
			c.JSON(404, models.ErrorResponse{Success: false, Message: "Course not found"})
			return
		}
		c.JSON(500, models.ErrorResponse{Success: false, Message: "Failed to update course"})
		return
	}

	invalidateCourseCache()
	c.JSON(200, models.Response{Success: true, Message: "Course updated", Data: course})
}

// @Summary Delete course
// @Description Deactivate a course (Admin)
// @Tags Admin - Courses
// @Security BearerAuth
// @Produce json
// @Param id path int true "Course ID"
// @Success 200 {object} models.Response
// @Router /admin/courses/{id} [delete]
func (ctrl *CourseController) DeleteCourse(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(400, models.ErrorResponse{Success: false, Message: "Invalid course ID"})
		return
	}

	if err := ctrl.courseService.Delete(c.Request.Context(), id); err != nil {
		if errors.Is(err, models.ErrCourseNotFound) {
			c.JSON(404, models.ErrorResponse{Success: false, Message: "Course not found"})
			return
		}
		c.JSON(500, models.ErrorResponse{Success: false, Message: "Failed to delete course"})
		return
	}

	invalidateCourseCache()
	c.JSON(200, models.Response{Success: true, Message: "Course deleted"})
}
