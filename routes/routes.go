package routes

import (
	"course-shop/controllers"
	"course-shop/middleware"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func SetupRoutes(router *gin.Engine) {
	authCtrl := controllers.NewAuthController()
	courseCtrl := controllers.NewCourseController()
	cartCtrl := controllers.NewCartController()

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	router.GET("/health", func(c *gin.Context) { c.JSON(200, gin.H{"status": "ok"}) })

	router.POST("/auth/register", authCtrl.Register)
	router.POST("/auth/login", authCtrl.Login)

	router.GET("/categories", courseCtrl.GetAllCategories)
	router.GET("/courses", courseCtrl.GetAllCourses)
	router.GET("/courses/:id", courseCtrl.GetCourseByID)

	// cart endpoints serve guests and users alike; identity is picked up
	// from the bearer token when present
	cart := router.Group("/cart")
	cart.Use(middleware.OptionalAuthMiddleware())
	{
		cart.GET("", cartCtrl.GetCart)
		cart.POST("", cartCtrl.AddItem)
		cart.PUT("/items", cartCtrl.UpdateItem)
		cart.DELETE("/items", cartCtrl.RemoveItem)
		cart.DELETE("/clear", cartCtrl.ClearCart)
		cart.GET("/count", cartCtrl.GetCount)
	}
	router.POST("/cart/merge", middleware.AuthMiddleware(), cartCtrl.MergeCart)

	admin := router.Group("/admin")
	admin.Use(middleware.AuthMiddleware(), middleware.AdminMiddleware())
	{
		admin.POST("/courses", courseCtrl.CreateCourse)
		admin.PATCH("/courses/:id", courseCtrl.UpdateCourse)
		admin.DELETE("/courses/:id", courseCtrl.DeleteCourse)
	}
}
