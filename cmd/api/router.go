package main

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"library-backend/internal/shared/middleware"
	"library-backend/internal/shared/response"
	"library-backend/pkg/container"
)

func SetupRouter(c *container.Container) *gin.Engine {
	router := gin.New()

	router.Use(
		middleware.Recovery(),
		middleware.RequestID(),
		middleware.Logger(),
		middleware.CORS(),
	)

	v1 := router.Group("/api/v1")
	{
		v1.GET("/health", healthCheckHandler(c))

		setupAuthRoutes(v1, c)
		setupUserRoutes(v1, c)
		setupCategoryRoutes(v1, c)
		setupBookRoutes(v1, c)
		setupLoanRoutes(v1, c)
		setupStatsRoutes(v1, c)
	}

	return router
}

func setupAuthRoutes(v1 *gin.RouterGroup, c *container.Container) {
	auth := v1.Group("/auth")
	{
		auth.POST("/register", c.UserHandler.Register)
		auth.POST("/login", c.UserHandler.Login)
	}
}

func setupUserRoutes(v1 *gin.RouterGroup, c *container.Container) {
	authed := middleware.AuthMiddleware(c.JWTManager)
	admin := middleware.AdminMiddleware()

	users := v1.Group("/users")
	users.Use(authed)
	{
		users.GET("/me", c.UserHandler.GetProfile)
		users.PUT("/me", c.UserHandler.UpdateProfile)

		users.GET("", admin, c.UserHandler.ListUsers)
		users.GET("/:id", admin, c.UserHandler.GetUser)
		users.PUT("/:id", admin, c.UserHandler.UpdateUser)
		users.PATCH("/:id/status", admin, c.UserHandler.UpdateUserStatus)
		users.PATCH("/:id/role", admin, c.UserHandler.UpdateUserRole)
		users.DELETE("/:id", admin, c.UserHandler.DeleteUser)

		users.GET("/:id/loans", admin, c.LoanHandler.ListByUser)
	}
}

func setupCategoryRoutes(v1 *gin.RouterGroup, c *container.Container) {
	authed := middleware.AuthMiddleware(c.JWTManager)
	admin := middleware.AdminMiddleware()

	categories := v1.Group("/categories")
	{
		categories.GET("", c.CategoryHandler.List)
		categories.GET("/:id", c.CategoryHandler.GetByID)

		categories.POST("", authed, admin, c.CategoryHandler.Create)
		categories.PUT("/:id", authed, admin, c.CategoryHandler.Update)
		categories.DELETE("/:id", authed, admin, c.CategoryHandler.Delete)
	}
}

func setupBookRoutes(v1 *gin.RouterGroup, c *container.Container) {
	authed := middleware.AuthMiddleware(c.JWTManager)
	admin := middleware.AdminMiddleware()

	books := v1.Group("/books")
	{
		// The catalog is browsable without an account.
		books.GET("", c.BookHandler.List)
		books.GET("/:id", c.BookHandler.GetByID)
		books.GET("/isbn/:isbn", c.BookHandler.GetByISBN)

		books.POST("", authed, admin, c.BookHandler.Create)
		books.PUT("/:id", authed, admin, c.BookHandler.Update)
		books.PATCH("/:id/quantity", authed, admin, c.BookHandler.AdjustQuantity)
		books.DELETE("/:id", authed, admin, c.BookHandler.Delete)

		books.GET("/:id/loans", authed, admin, c.LoanHandler.ListByBook)
	}
}

func setupLoanRoutes(v1 *gin.RouterGroup, c *container.Container) {
	authed := middleware.AuthMiddleware(c.JWTManager)
	admin := middleware.AdminMiddleware()

	loans := v1.Group("/loans")
	loans.Use(authed)
	{
		loans.POST("", c.LoanHandler.Create)
		loans.GET("/me", c.LoanHandler.MyLoans)
		loans.GET("/:id", c.LoanHandler.GetByID)
		loans.POST("/:id/return", c.LoanHandler.Return)
		loans.POST("/:id/extend", c.LoanHandler.Extend)

		loans.GET("", admin, c.LoanHandler.List)
		loans.GET("/active", admin, c.LoanHandler.ListActive)
		loans.GET("/overdue", admin, c.LoanHandler.ListOverdue)
		loans.DELETE("/:id", admin, c.LoanHandler.Delete)
	}
}

func setupStatsRoutes(v1 *gin.RouterGroup, c *container.Container) {
	authed := middleware.AuthMiddleware(c.JWTManager)
	admin := middleware.AdminMiddleware()

	stats := v1.Group("/stats")
	stats.Use(authed, admin)
	{
		stats.GET("", c.StatsHandler.General)
		stats.GET("/books", c.StatsHandler.MostBorrowedBooks)
		stats.GET("/users", c.StatsHandler.MostActiveUsers)
		stats.GET("/monthly", c.StatsHandler.MonthlyLoans)
	}
}

func healthCheckHandler(c *container.Container) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		checkCtx, cancel := context.WithTimeout(ctx.Request.Context(), 5*time.Second)
		defer cancel()

		status := "healthy"
		checks := gin.H{"database": "up", "cache": "up"}
		code := http.StatusOK

		if err := c.DB.HealthCheck(checkCtx); err != nil {
			status = "degraded"
			checks["database"] = "down"
			code = http.StatusServiceUnavailable
		}
		if err := c.Cache.Ping(checkCtx); err != nil {
			status = "degraded"
			checks["cache"] = "down"
			code = http.StatusServiceUnavailable
		}

		response.Success(ctx, code, gin.H{
			"status":      status,
			"version":     c.Config.App.Version,
			"environment": c.Config.App.Environment,
			"checks":      checks,
		})
	}
}
