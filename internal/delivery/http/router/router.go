// Package router contains routing and server setup for the HTTP delivery.
package router

import (
	"github.com/dabinj96/Peaberry-sub000/internal/delivery/http/middleware"
	"github.com/dabinj96/Peaberry-sub000/internal/delivery/http/router/handler"
	"github.com/dabinj96/Peaberry-sub000/internal/domain/entity"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

type RouterParams struct {
	fx.In

	AccountHandler  *handler.AccountHandler
	CafeHandler     *handler.CafeHandler
	RatingHandler   *handler.RatingHandler
	FavoriteHandler *handler.FavoriteHandler
	AdminHandler    *handler.AdminHandler
	AuthMiddleware  *middleware.AuthMiddleware
}

// router holds all the handlers that need to be registered.
type router struct {
	accountHandler  *handler.AccountHandler
	cafeHandler     *handler.CafeHandler
	ratingHandler   *handler.RatingHandler
	favoriteHandler *handler.FavoriteHandler
	adminHandler    *handler.AdminHandler
	authMiddleware  *middleware.AuthMiddleware
}

// NewRouter is the constructor for the Router.
// Fx will inject the required handlers here.
func NewRouter(params RouterParams) *router {
	return &router{
		accountHandler:  params.AccountHandler,
		cafeHandler:     params.CafeHandler,
		ratingHandler:   params.RatingHandler,
		favoriteHandler: params.FavoriteHandler,
		adminHandler:    params.AdminHandler,
		authMiddleware:  params.AuthMiddleware,
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
		authGroup.POST("/login", r.accountHandler.Login)
		authGroup.POST("/oauth", r.accountHandler.ExternalLogin)
		authGroup.POST("/refresh", r.accountHandler.Refresh)
		authGroup.POST("/logout", r.accountHandler.Logout)
		authGroup.POST("/password/reset-request", r.accountHandler.RequestPasswordReset)
		authGroup.POST("/password/reset", r.accountHandler.ResetPassword)
	}

	// Password change and account removal need a live session
	sessionGroup := e.Group("/auth")
	sessionGroup.Use(r.authMiddleware.Authenticate)
	{
		sessionGroup.POST("/password", r.accountHandler.ChangePassword)
		sessionGroup.DELETE("/account", r.accountHandler.DeleteAccount)
	}

	// Public browsing. Optional authentication lets results carry the
	// caller's favorite flags and lets admins widen status visibility.
	cafeGroup := e.Group("/cafes")
	cafeGroup.Use(r.authMiddleware.OptionalAuthenticate)
	{
		cafeGroup.GET("", r.cafeHandler.ListCafes)
		cafeGroup.GET("/:id", r.cafeHandler.GetCafe)
		cafeGroup.GET("/:id/ratings", r.ratingHandler.ListCafeRatings)
	}

	// Rating submission requires authentication
	e.POST("/cafes/:id/ratings", r.ratingHandler.SubmitRating, r.authMiddleware.Authenticate)

	// Profile and bookmarks require authentication
	userGroup := e.Group("")
	userGroup.Use(r.authMiddleware.Authenticate)
	{
		userGroup.GET("/profile", r.accountHandler.GetProfile)
		userGroup.GET("/favorites", r.favoriteHandler.ListFavorites)
		userGroup.POST("/favorites/:cafeID", r.favoriteHandler.AddFavorite)
		userGroup.DELETE("/favorites/:cafeID", r.favoriteHandler.RemoveFavorite)
	}

	// Back office requires authentication and the "admin" role
	adminGroup := e.Group("/admin")
	adminGroup.Use(r.authMiddleware.Authenticate)
	adminGroup.Use(r.authMiddleware.RequireRole(entity.RoleAdmin))
	{
		adminGroup.POST("/cafes", r.adminHandler.CreateCafe)
		adminGroup.PUT("/cafes/:id", r.adminHandler.UpdateCafe)
		adminGroup.DELETE("/cafes/:id", r.adminHandler.DeleteCafe)
		adminGroup.POST("/cafes/import", r.adminHandler.ImportCafes)
	}
}
