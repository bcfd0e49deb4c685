package controllers

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strconv"
	"time"

	"course-shop/models"
	"course-shop/repositories"
	"course-shop/services"
	"course-shop/utils"

	"github.com/gin-gonic/gin"
)

type CartController struct {
	cartService *services.CartService
}

func NewCartController() *CartController {
	return &CartController{
		cartService: services.NewCartService(
			repositories.NewCartRepository(),
			repositories.NewCourseRepository(),
			services.NewPricingService(),
		),
	}
}

// ownerFromRequest picks the cart owner: an authenticated user wins over
// any identifier in the request; guests fall back to sessionId, and the
// read endpoints also accept an explicit userId query param.
func (ctrl *CartController) ownerFromRequest(c *gin.Context, sessionID string) models.CartOwner {
	if uid, exists := c.Get("user_id"); exists {
		if id, ok := uid.(int); ok {
			return models.CartOwner{UserID: &id}
		}
	}

	if userIDParam := c.Query("userId"); userIDParam != "" {
		if id, err := strconv.Atoi(userIDParam); err == nil {
			return models.CartOwner{UserID: &id}
		}
	}

	if sessionID == "" {
		sessionID = c.Query("sessionId")
	}
	if sessionID != "" {
		return models.CartOwner{SessionID: &sessionID}
	}
	return models.CartOwner{}
}

func (ctrl *CartController) respondError(c *gin.Context, err error, logCtx string) {
	switch {
	case errors.Is(err, models.ErrMissingOwner), errors.Is(err, models.ErrInvalidQuantity):
		c.JSON(400, gin.H{"error": err.Error()})
	case errors.Is(err, models.ErrCartNotFound), errors.Is(err, models.ErrItemNotFound), errors.Is(err, models.ErrCourseNotFound):
		c.JSON(404, gin.H{"error": err.Error()})
	case errors.Is(err, models.ErrUnauthorized):
		c.JSON(401, gin.H{"error": err.Error()})
	default:
		log.Printf("cart operation failed (%s): %v", logCtx, err)
		c.JSON(500, gin.H{"error": "internal server error"})
	}
}

func cartCountCacheKey(owner models.CartOwner) string {
	if owner.UserID != nil {
		return fmt.Sprintf("cart_count:u:%d", *owner.UserID)
	}
	return "cart_count:s:" + *owner.SessionID
}

func invalidateCartCountCache(owner models.CartOwner) {
	if models.RedisClient == nil || !owner.Valid() {
		return
	}
	models.RedisClient.Del(context.Background(), cartCountCacheKey(owner))
}

// @Summary Get cart
// @Description Get the cart for the authenticated user or a guest session
// @Tags Cart
// @Produce json
// @Param userId query int false "User ID"
// @Param sessionId query string false "Guest session ID"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]interface{}
// @Router /cart [get]
func (ctrl *CartController) GetCart(c *gin.Context) {
	owner := ctrl.ownerFromRequest(c, "")

	cart, err := ctrl.cartService.GetCart(c.Request.Context(), owner)
	if err != nil {
		ctrl.respondError(c, err, "get")
		return
	}
	c.JSON(200, gin.H{"cart": cart})
}

// @Summary Add item to cart
// @Description Add a course to the cart, accumulating quantity for an existing line
// @Tags Cart
// @Accept json
// @Produce json
// @Param body body models.AddCartItemRequest true "Item to add"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /cart [post]
func (ctrl *CartController) AddItem(c *gin.Context) {
	var req models.AddCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(400, gin.H{"error": "productId and quantity are required"})
		return
	}

	owner := ctrl.ownerFromRequest(c, req.SessionID)
	country := utils.ResolveCountry(c)
	utils.SetCountryCookie(c, country)

	cart, err := ctrl.cartService.AddItem(c.Request.Context(), owner, req.ProductID, req.Quantity, country)
	if err != nil {
		ctrl.respondError(c, err, fmt.Sprintf("add course=%d qty=%d", req.ProductID, req.Quantity))
		return
	}

	invalidateCartCountCache(owner)
	c.JSON(200, gin.H{"cart": cart})
}

// @Summary Update cart item quantity
// @Description Set the quantity of a cart line; zero or negative is rejected
// @Tags Cart
// @Accept json
// @Produce json
// @Param body body models.UpdateCartItemRequest true "New quantity"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /cart/items [put]
func (ctrl *CartController) UpdateItem(c *gin.Context) {
	var req models.UpdateCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(400, gin.H{"error": "productId and quantity are required"})
		return
	}

	owner := ctrl.ownerFromRequest(c, req.SessionID)

	cart, err := ctrl.cartService.UpdateItemQuantity(c.Request.Context(), owner, req.ProductID, req.Quantity)
	if err != nil {
		ctrl.respondError(c, err, fmt.Sprintf("update course=%d qty=%d", req.ProductID, req.Quantity))
		return
	}

	invalidateCartCountCache(owner)
	c.JSON(200, gin.H{"cart": cart})
}

// @Summary Remove item from cart
// @Description Remove a course line; removing an absent line is a no-op
// @Tags Cart
// @Produce json
// @Param productId query int true "Course ID"
// @Param sessionId query string false "Guest session ID"
// @Success 200 {object} map[string]interface{}
// @Router /cart/items [delete]
func (ctrl *CartController) RemoveItem(c *gin.Context) {
	productID, err := strconv.Atoi(c.Query("productId"))
	if err != nil || productID < 1 {
		c.JSON(400, gin.H{"error": "valid productId is required"})
		return
	}

	owner := ctrl.ownerFromRequest(c, "")

	cart, err := ctrl.cartService.RemoveItem(c.Request.Context(), owner, productID)
	if err != nil {
		ctrl.respondError(c, err, fmt.Sprintf("remove course=%d", productID))
		return
	}

	invalidateCartCountCache(owner)
	c.JSON(200, gin.H{"cart": cart})
}

// @Summary Clear cart
// @Description Remove every line and reset the total; idempotent
// @Tags Cart
// @Produce json
// @Param userId query int false "User ID"
// @Param sessionId query string false "Guest session ID"
// @Success 200 {object} map[string]interface{}
// @Router /cart/clear [delete]
func (ctrl *CartController) ClearCart(c *gin.Context) {
	owner := ctrl.ownerFromRequest(c, "")

	cart, err := ctrl.cartService.ClearCart(c.Request.Context(), owner)
	if err != nil {
		ctrl.respondError(c, err, "clear")
		return
	}

	invalidateCartCountCache(owner)
	c.JSON(200, gin.H{"cart": cart, "message": "Cart cleared"})
}

// @Summary Get cart item count
// @Description Total quantity in the cart; returns 0 instead of an error
// @Tags Cart
// @Produce json
// @Param sessionId query string false "Guest session ID"
// @Success 200 {object} map[string]interface{}
// @Router /cart/count [get]
func (ctrl *CartController) GetCount(c *gin.Context) {
	c.Header("Cache-Control", "no-store")

	owner := ctrl.ownerFromRequest(c, "")
	if !owner.Valid() {
		c.JSON(200, gin.H{"count": 0})
		return
	}

	cacheKey := cartCountCacheKey(owner)
	if models.RedisClient != nil {
		if cached, err := models.RedisClient.Get(c.Request.Context(), cacheKey).Int(); err == nil {
			c.JSON(200, gin.H{"count": cached})
			return
		}
	}

	count, err := ctrl.cartService.CountItems(c.Request.Context(), owner)
	if err != nil {
		// availability over correctness on this read path
		log.Printf("cart count failed: %v", err)
		c.JSON(200, gin.H{"count": 0})
		return
	}

	if models.RedisClient != nil {
		models.RedisClient.Set(c.Request.Context(), cacheKey, count, time.Minute)
	}
	c.JSON(200, gin.H{"count": count})
}

// @Summary Merge guest cart into user cart
// @Description Fold the guest session cart into the authenticated user's cart
// @Tags Cart
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body models.MergeCartRequest true "Guest session"
// @Success 200 {object} map[string]interface{}
// @Failure 401 {object} map[string]interface{}
// @Router /cart/merge [post]
func (ctrl *CartController) MergeCart(c *gin.Context) {
	uid, exists := c.Get("user_id")
	userID, ok := uid.(int)
	if !exists || !ok {
		ctrl.respondError(c, models.ErrUnauthorized, "merge")
		return
	}

	var req models.MergeCartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(400, gin.H{"error": "invalid request body"})
		return
	}

	cart, err := ctrl.cartService.MergeCarts(c.Request.Context(), req.SessionID, userID)
	if err != nil {
		ctrl.respondError(c, err, fmt.Sprintf("merge session=%s user=%d", req.SessionID, userID))
		return
	}

	invalidateCartCountCache(models.CartOwner{UserID: &userID})
	invalidateCartCountCache(models.CartOwner{SessionID: &req.SessionID})
	c.JSON(200, gin.H{"cart": cart})
}
