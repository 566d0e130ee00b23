package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/idlink-io/idlink/internal/interfaces/http/handlers"
	"github.com/idlink-io/idlink/internal/interfaces/http/middleware"
)

// AuthRouteConfig holds dependencies for authentication routes.
type AuthRouteConfig struct {
	AuthHandler    *handlers.AuthHandler
	AuthMiddleware *middleware.AuthMiddleware
}

// SetupAuthRoutes configures authentication routes.
func SetupAuthRoutes(engine *gin.Engine, cfg *AuthRouteConfig) {
	auth := engine.Group("/auth")
	{
		// callback carries OptionalAuth so a logged-in session links instead
		// of signing up
		auth.GET("/oauth/:provider", cfg.AuthHandler.InitiateOAuth)
		auth.GET("/oauth/:provider/callback", cfg.AuthMiddleware.OptionalAuth(), cfg.AuthHandler.HandleOAuthCallback)

		auth.POST("/refresh", cfg.AuthHandler.RefreshToken)
		auth.POST("/logout", cfg.AuthMiddleware.RequireAuth(), cfg.AuthHandler.Logout)
		auth.GET("/me", cfg.AuthMiddleware.RequireAuth(), cfg.AuthHandler.GetCurrentUser)
	}
}
