// Package router sets up the HTTP routing for the application.
package router

import (
	"github.com/gin-gonic/gin"

	"github.com/cashsplit/backend/internal/integration/entrypoint/controller"
	"github.com/cashsplit/backend/internal/integration/entrypoint/middleware"
)

// Router holds the Gin engine and controller dependencies.
type Router struct {
	engine            *gin.Engine
	healthController  *controller.HealthController
	authController    *controller.AuthController
	profileController *controller.ProfileController
	groupController   *controller.GroupController
	expenseController *controller.ExpenseController
	balanceController *controller.BalanceController
	authRateLimiter   *middleware.RateLimiter
	authMiddleware    *middleware.AuthMiddleware
}

// NewRouter creates a new router instance with all dependencies.
func NewRouter(
	healthController *controller.HealthController,
	authController *controller.AuthController,
	profileController *controller.ProfileController,
	groupController *controller.GroupController,
	expenseController *controller.ExpenseController,
	balanceController *controller.BalanceController,
	authRateLimiter *middleware.RateLimiter,
	authMiddleware *middleware.AuthMiddleware,
) *Router {
	return &Router{
		healthController:  healthController,
		authController:    authController,
		profileController: profileController,
		groupController:   groupController,
		expenseController: expenseController,
		balanceController: balanceController,
		authRateLimiter:   authRateLimiter,
		authMiddleware:    authMiddleware,
	}
}

// Setup configures and returns the Gin engine with all routes.
func (r *Router) Setup(environment string) *gin.Engine {
	switch environment {
	case "production":
		gin.SetMode(gin.ReleaseMode)
	case "test":
		gin.SetMode(gin.TestMode)
	}

	middleware.SetupValidator()

	if environment == "test" {
		r.engine = gin.New()
		r.engine.Use(gin.Recovery())
	} else {
		// Default middleware (logger and recovery)
		r.engine = gin.Default()
	}

	r.setupHealthRoutes()
	r.setupAPIRoutes()

	return r.engine
}

// setupHealthRoutes configures health check endpoints.
func (r *Router) setupHealthRoutes() {
	r.engine.GET("/health", r.healthController.Check)
}

// setupAPIRoutes configures the main API routes.
func (r *Router) setupAPIRoutes() {
	v1 := r.engine.Group("/api/v1")

	auth := v1.Group("/auth")
	{
		auth.POST("/signup", r.authRateLimiter.Middleware(), r.authController.Signup)
		auth.POST("/signin", r.authRateLimiter.Middleware(), r.authController.Signin)
		auth.POST("/refresh", r.authController.RefreshToken)
		auth.POST("/logout", r.authController.Logout)
	}

	authenticated := v1.Group("")
	authenticated.Use(r.authMiddleware.Authenticate())
	{
		authenticated.GET("/profile", r.profileController.Get)
		authenticated.PUT("/profile", r.profileController.Update)
		authenticated.GET("/users/suggestions", r.profileController.Suggestions)
	}

	groups := authenticated.Group("/groups")
	{
		groups.GET("", r.groupController.List)
		groups.POST("", r.groupController.Create)
		groups.GET("/:id", r.groupController.Get)
		groups.POST("/:id/members", r.groupController.AddMember)
		groups.POST("/:id/leave", r.groupController.Leave)

		groups.GET("/:id/balances", r.balanceController.Get)
		groups.POST("/:id/settlements", r.balanceController.RecordSettlement)

		groups.POST("/:id/expenses", r.expenseController.Create)
		groups.GET("/:id/expenses/:expenseId", r.expenseController.Get)
		groups.PUT("/:id/expenses/:expenseId", r.expenseController.Update)
		groups.DELETE("/:id/expenses/:expenseId", r.expenseController.Delete)
	}
}

// Engine returns the underlying Gin engine.
func (r *Router) Engine() *gin.Engine {
	return r.engine
}
