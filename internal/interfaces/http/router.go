package http

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/idlink-io/idlink/internal/application/identity"
	"github.com/idlink-io/idlink/internal/infrastructure/analytics"
	"github.com/idlink-io/idlink/internal/infrastructure/auth"
	"github.com/idlink-io/idlink/internal/infrastructure/cache"
	"github.com/idlink-io/idlink/internal/infrastructure/config"
	"github.com/idlink-io/idlink/internal/infrastructure/repository"
	"github.com/idlink-io/idlink/internal/infrastructure/telemetry"
	"github.com/idlink-io/idlink/internal/interfaces/http/handlers"
	"github.com/idlink-io/idlink/internal/interfaces/http/middleware"
	"github.com/idlink-io/idlink/internal/interfaces/http/routes"
	"github.com/idlink-io/idlink/internal/shared/constants"
	"github.com/idlink-io/idlink/internal/shared/logger"
	"github.com/idlink-io/idlink/internal/shared/utils"
)

const (
	oauthStatePrefix   = "oauth:state:"
	oauthStateTTL      = 10 * time.Minute
	signupMarkerPrefix = "signup:new:"
	signupMarkerTTL    = 30 * time.Minute
)

// Router represents the HTTP router configuration
type Router struct {
	engine         *gin.Engine
	cfg            *config.Config
	authHandler    *handlers.AuthHandler
	authMiddleware *middleware.AuthMiddleware
	logger         logger.Interface
}

// NewRouter creates a new HTTP router with all dependencies
func NewRouter(db *gorm.DB, redisClient *redis.Client, cfg *config.Config, log logger.Interface) *Router {
	engine := gin.New()

	directory := repository.NewGormDirectory(db)

	clients := identity.ClientRegistry{
		constants.ProviderTwitter: auth.NewTwitterOAuthClient(cfg.OAuth.Twitter),
		constants.ProviderGitHub:  auth.NewGitHubOAuthClient(cfg.OAuth.GitHub),
		constants.ProviderGoogle:  auth.NewGoogleOAuthClient(cfg.OAuth.Google),
	}

	stateStore := cache.NewRedisStateStore(redisClient, oauthStatePrefix, oauthStateTTL)
	signupMarker := cache.NewRedisSignupMarker(redisClient, signupMarkerPrefix, signupMarkerTTL, log)

	jwtService := auth.NewJWTService(
		cfg.Auth.JWT.Secret,
		cfg.Auth.JWT.AccessExpMinutes,
		cfg.Auth.JWT.RefreshExpDays,
	)

	initiateUC := identity.NewInitiateLoginUseCase(clients, stateStore, log)
	reconcileUC := identity.NewReconcileUseCase(
		directory,
		identity.NewConflictResolver(directory),
		identity.NewUsernameDisambiguator(),
		analytics.NewMeasurementClient(&cfg.Analytics, log),
		telemetry.NewLogTelemetry(log),
		signupMarker,
		log,
	)
	callbackUC := identity.NewHandleCallbackUseCase(clients, initiateUC, reconcileUC, log)

	authHandler := handlers.NewAuthHandler(
		initiateUC,
		callbackUC,
		directory,
		signupMarker,
		jwtService,
		cfg.Auth.Cookie,
		cfg.Server.FrontendCallbackURL,
		log,
	)

	authMiddleware := middleware.NewAuthMiddleware(jwtService, log)

	return &Router{
		engine:         engine,
		cfg:            cfg,
		authHandler:    authHandler,
		authMiddleware: authMiddleware,
		logger:         log,
	}
}

// SetupRoutes configures all HTTP routes
func (r *Router) SetupRoutes() {
	r.engine.Use(middleware.Logger(r.logger))
	r.engine.Use(middleware.Recovery())
	r.engine.Use(middleware.CORS(r.cfg.Server.AllowedOrigins))

	r.engine.GET("/health", func(c *gin.Context) {
		utils.SuccessResponse(c, 200, "ok", nil)
	})

	routes.SetupAuthRoutes(r.engine, &routes.AuthRouteConfig{
		AuthHandler:    r.authHandler,
		AuthMiddleware: r.authMiddleware,
	})
}

// GetEngine returns the Gin engine
func (r *Router) GetEngine() *gin.Engine {
	return r.engine
}

// Run starts the HTTP server
func (r *Router) Run(addr string) error {
	return r.engine.Run(addr)
}
