// Package router contains routing setup for the HTTP delivery.
package router

import (
	"warden/internal/delivery/http/middleware"
	"warden/internal/delivery/http/router/handler"
	"warden/internal/domain/entity"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

type RouterParams struct {
	fx.In

	AccountHandler *handler.AccountHandler
	SessionHandler *handler.SessionHandler
	ProfileHandler *handler.ProfileHandler
	AuthMiddleware *middleware.AuthMiddleware
}

// router holds all the handlers that need to be registered.
type router struct {
	accountHandler *handler.AccountHandler
	sessionHandler *handler.SessionHandler
	profileHandler *handler.ProfileHandler
	authMiddleware *middleware.AuthMiddleware
}

// NewRouter is the constructor for the Router.
// Fx will inject the required handlers here.
func NewRouter(params RouterParams) *router {
	return &router{
		accountHandler: params.AccountHandler,
		sessionHandler: params.SessionHandler,
		profileHandler: params.ProfileHandler,
		authMiddleware: params.AuthMiddleware,
	}
}

// RegisterRoutes sets up all the API routes for the application.
func (r *router) RegisterRoutes(e *echo.Echo) {
	// Health check endpoint
	e.GET("/health", handler.HealthCheck)

	// Auth routes
	authGroup := e.Group("/auth")
	{
		authGroup.POST("/register", r.accountHandler.Register)
		authGroup.POST("/login", r.sessionHandler.Login)
		authGroup.POST("/verify-email", r.accountHandler.VerifyEmail)
		authGroup.POST("/forgot-password", r.accountHandler.ForgotPassword)
		authGroup.POST("/reset-password", r.accountHandler.ResetPassword)
		authGroup.POST("/resend-verification", r.accountHandler.ResendVerification)
		authGroup.POST("/logout", r.sessionHandler.Logout, r.authMiddleware.Authenticate)
		authGroup.GET("/me", r.sessionHandler.Me, r.authMiddleware.Authenticate)
	}

	// Account routes that require authentication
	accountGroup := e.Group("/account")
	accountGroup.Use(r.authMiddleware.Authenticate)
	{
		accountGroup.GET("/profile", r.profileHandler.GetProfile)
		accountGroup.POST("/profile/complete", r.profileHandler.CompleteProfile)
	}

	// Admin routes that require authentication and the "admin" role
	adminGroup := e.Group("/admin")
	adminGroup.Use(r.authMiddleware.Authenticate)
	adminGroup.Use(r.authMiddleware.RequireRole(entity.RoleAdmin))
	{
		adminGroup.GET("/accounts", r.profileHandler.ListAccounts)
	}
}
