package app

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	swaggerfiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"
	"gorm.io/gorm"

	_ "github.com/prof/server/cmd/server/docs" // swagger docs
	"github.com/prof/server/internal/module/auth"
	"github.com/prof/server/internal/module/chat"
	chatprovider "github.com/prof/server/internal/module/chat/provider"
	"github.com/prof/server/internal/module/user"
	"github.com/prof/server/internal/shared/cache"
	"github.com/prof/server/internal/shared/config"
	"github.com/prof/server/internal/shared/database"
	"github.com/prof/server/internal/shared/logger"
	"github.com/prof/server/internal/utils/metrics"
	"github.com/prof/server/internal/utils/middleware"
)

// LoadConfig loads application configuration.
func LoadConfig() (*config.Config, error) {
	return config.Load()
}

// App wires the tutoring backend together.
type App struct {
	config  *config.Config
	db      *gorm.DB
	redis   redis.UniversalClient
	router  *gin.Engine
	logger  *zap.Logger
	metrics *metrics.Metrics

	jwtManager  *auth.JWTManager
	userHandler *user.Handler
	chatHandler *chat.Handler
}

// New creates a new application instance.
func New(cfg *config.Config) (*App, error) {
	log, err := logger.New(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
	})
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	app := &App{
		config: cfg,
		logger: log,
	}

	db, err := database.New(&cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("init database: %w", err)
	}
	app.db = db

	if err := db.AutoMigrate(&user.User{}, &chat.Conversation{}, &chat.Message{}); err != nil {
		return nil, fmt.Errorf("migrate database: %w", err)
	}

	// Redis is optional: without it the login rate limiter is disabled.
	if cfg.Redis.Address != "" {
		redisClient, err := cache.NewRedisClient(&cfg.Redis)
		if err != nil {
			log.Warn("redis connection failed, rate limiting disabled", zap.Error(err))
		} else {
			app.redis = redisClient
		}
	}

	app.initModules()
	app.router = app.setupRouter()

	return app, nil
}

// initModules builds services and handlers.
func (a *App) initModules() {
	cfg := a.config

	a.jwtManager = auth.NewJWTManager(&auth.JWTConfig{
		Secret:      cfg.Auth.JWTSecret,
		TokenExpiry: cfg.Auth.TokenExpiry,
		Issuer:      "prof",
	})

	userRepo := user.NewRepository(a.db)
	userService := user.NewService(userRepo, a.jwtManager, cfg.Quota.DailyFreeLimit, a.logger)
	a.userHandler = user.NewHandler(userService)

	groq := chatprovider.NewGroqClient(&chatprovider.Config{
		BaseURL:          cfg.AI.BaseURL,
		APIKey:           cfg.AI.APIKey,
		FreeModel:        cfg.AI.FreeModel,
		PremiumModel:     cfg.AI.PremiumModel,
		FreeMaxTokens:    cfg.AI.FreeMaxTokens,
		PremiumMaxTokens: cfg.AI.PremiumMaxTokens,
		Temperature:      cfg.AI.Temperature,
		RequestTimeout:   cfg.AI.RequestTimeout,
		FailureThreshold: cfg.AI.FailureThreshold,
		CircuitTimeout:   cfg.AI.CircuitTimeout,
	}, a.logger)

	m := metrics.New("prof")

	chatRepo := chat.NewRepository(a.db)
	chatService := chat.NewService(chatRepo, userRepo, groq, chat.Config{
		DailyFreeLimit:    cfg.Quota.DailyFreeLimit,
		HistoryWindow:     cfg.Quota.HistoryWindow,
		ConversationLimit: cfg.Quota.ConversationLimit,
		AllowUnknownUser:  cfg.Quota.AllowUnknownUser,
	}, m, a.logger)
	a.chatHandler = chat.NewHandler(chatService)

	a.metrics = m
}

// setupRouter creates and configures the Gin router.
func (a *App) setupRouter() *gin.Engine {
	if a.config.Log.Level == "debug" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	r.Use(middleware.Recovery(a.logger))
	r.Use(middleware.RequestID())
	r.Use(middleware.Logging(a.logger))
	r.Use(middleware.Metrics(a.metrics))

	corsCfg := middleware.DefaultCORSConfig()
	if len(a.config.CORS.AllowOrigins) > 0 {
		corsCfg.AllowOrigins = a.config.CORS.AllowOrigins
	}
	r.Use(middleware.CORS(corsCfg))

	// Health check endpoint
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok", "message": "Prof backend is running!"})
	})

	// Prometheus metrics
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Swagger documentation endpoint
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerfiles.Handler))

	var limiter middleware.RateLimiter
	if a.redis != nil {
		limiter = cache.NewRateLimiter(a.redis)
	}

	api := r.Group("/api")

	// Public auth routes, shielded against credential stuffing
	public := api.Group("")
	public.Use(middleware.RateLimitByIP(limiter, 20, time.Minute))
	a.userHandler.RegisterRoutes(public)

	// Protected routes
	protected := api.Group("")
	protected.Use(middleware.RequireAuth(a.jwtManager))
	a.userHandler.RegisterProtectedRoutes(protected)

	// Chat routes accept either a session token or an explicit account id
	chatGroup := api.Group("")
	chatGroup.Use(middleware.OptionalAuth(a.jwtManager))
	a.chatHandler.RegisterRoutes(chatGroup)

	return r
}

// Router returns the HTTP router.
func (a *App) Router() *gin.Engine {
	return a.router
}

// Stop releases application resources.
func (a *App) Stop() {
	if a.redis != nil {
		if err := cache.Close(a.redis); err != nil {
			a.logger.Warn("close redis", zap.Error(err))
		}
	}
	if a.db != nil {
		if err := database.Close(a.db); err != nil {
			a.logger.Warn("close database", zap.Error(err))
		}
	}
	_ = a.logger.Sync()
}
