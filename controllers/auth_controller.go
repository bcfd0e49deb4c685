package controllers

import (
	"log"

	"course-shop/models"
	"course-shop/repositories"
	"course-shop/services"

	"github.com/gin-gonic/gin"
)

type AuthController struct {
	authService *services.AuthService
	cartService *services.CartService
}

func NewAuthController() *AuthController {
	return &AuthController{
		authService: services.NewAuthService(),
		cartService: services.NewCartService(
			repositories.NewCartRepository(),
			repositories.NewCourseRepository(),
			services.NewPricingService(),
		),
	}
}

// @Summary Register
// @Description Register a new customer account
// @Tags Auth
// @Accept json
// @Produce json
// @Param body body models.RegisterRequest true "Account"
// @Success 201 {object} models.Response
// @Failure 400 {object} models.ErrorResponse
// @Router /auth/register [post]
func (ctrl *AuthController) Register(c *gin.Context) {
	var req models.RegisterRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(400, models.ErrorResponse{Success: false, Message: "Invalid request", Error: err.Error()})
		return
	}

	result, err := ctrl.authService.Register(c.Request.Context(), req)
	if err != nil {
		c.JSON(400, models.ErrorResponse{Success: false, Message: err.Error()})
		return
	}

	c.JSON(201, models.Response{Success: true, Message: "Account created", Data: result})
}

// @Summary Login
// @Description Authenticate and, when a guest session id is supplied, merge its cart into the user's
// @Tags Auth
// @Accept json
// @Produce json
// @Param body body models.LoginRequest true "Credentials"
// @Success 200 {object} models.Response
// @Failure 401 {object} models.ErrorResponse
// @Router /auth/login [post]
func (ctrl *AuthController) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(400, models.ErrorResponse{Success: false, Message: "Invalid request", Error: err.Error()})
		return
	}

	result, err := ctrl.authService.Login(c.Request.Context(), req)
	if err != nil {
		c.JSON(401, models.ErrorResponse{Success: false, Message: err.Error()})
		return
	}

	// hand over the guest cart; login must not fail because of it
	if req.SessionID != "" {
		if _, err := ctrl.cartService.MergeCarts(c.Request.Context(), req.SessionID, result.User.ID); err != nil {
			log.Printf("cart merge at login failed (session=%s user=%d): %v", req.SessionID, result.User.ID, err)
		}
	}

	c.JSON(200, models.Response{Success: true, Message: "Login successful", Data: result})
}
