package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/cagcankoc/ChatCore/app/config"
	"github.com/cagcankoc/ChatCore/internal/adapters"
	"github.com/cagcankoc/ChatCore/internal/handlers"
	"github.com/cagcankoc/ChatCore/internal/ports"
	"github.com/cagcankoc/ChatCore/internal/realtime"
	"github.com/cagcankoc/ChatCore/internal/repositories"
	"github.com/cagcankoc/ChatCore/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis"

	otelgin "go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/jaeger"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	tracesdk "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.12.0"
	"go.opentelemetry.io/otel/trace"
)

type Container struct {
	isShuttingDown bool

	GinEngine   *gin.Engine
	Config      *config.Config
	Redis       *redis.Client
	RateLimiter *RateLimiter

	Metrics        *Metrics
	Logger         *slog.Logger
	TracerProvider *tracesdk.TracerProvider
	Tracer         trace.Tracer

	Server *http.Server

	Repository *repositories.RepositoryAdapter
	ChatCache  ports.IChatCache

	Registry *realtime.ConnectionRegistry
	Hub      *realtime.Hub

	AuthService     *services.AuthService
	ChatService     *services.ChatService
	MessageService  *services.MessageService
	PresenceService *services.PresenceService

	AuthHandler      *handlers.AuthHandler
	UserHandler      *handlers.UserHandler
	ChatHandler      *handlers.ChatHandler
	WebSocketHandler *handlers.WebSocketHandler
}

func NewContainer() (*Container, error) {
	container := &Container{}

	if err := container.initCore(); err != nil {
		return nil, err
	}

	container.initProductionFeatures()

	return container, nil
}

func (c *Container) initCore() error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return err
	}
	c.Config = &cfg

	c.Logger = c.initLogger()
	c.Redis = c.initRedis()
	c.Metrics = NewMetrics()

	if err = c.initTracing(); err != nil {
		return err
	}

	c.Repository, err = repositories.NewRepositoryAdapter(cfg.Database, c.Logger)
	if err != nil {
		c.Logger.Error("repository initialize error", "error", err.Error())
		return err
	}

	c.ChatCache = c.initChatCache()

	c.Registry = realtime.NewConnectionRegistry()
	c.Hub = realtime.NewHub(c.Registry, c.Metrics.ActiveWebSockets, c.Logger)

	emailService := services.NewEmailService(cfg.Email, c.Logger)

	c.ChatService = services.NewChatService(c.Repository.Chat, c.Repository.User, c.ChatCache, c.Hub, cfg.Cache.ChatTTL, c.Logger)
	c.MessageService = services.NewMessageService(c.Repository.Message, c.ChatService, c.ChatCache, c.Hub, cfg.Cache.ChatTTL, c.Logger)
	c.MessageService.SetSentCounter(c.Metrics.MessagesSent)
	c.PresenceService = services.NewPresenceService(c.Repository.User, c.Hub, c.Logger)

	c.Hub.SetPresenceNotifier(c.PresenceService)
	go c.Hub.Run()

	c.RateLimiter = NewRateLimiter(cfg.RateLimit.MaxRequests, cfg.RateLimit.Window)

	c.AuthService = services.NewAuthService(c.Repository.User, emailService, &services.BcryptHasher{},
		adapters.NewRedisTokenRepository(c.Redis), []byte(cfg.JWT.SecretKey), c.Logger)

	c.AuthHandler = handlers.NewAuthHandler(c.AuthService, c.Logger)
	c.UserHandler = handlers.NewUserHandler(c.Repository.User, c.Logger)
	c.ChatHandler = handlers.NewChatHandler(c.ChatService, c.MessageService, c.Logger, c.Tracer)
	c.WebSocketHandler = handlers.NewWebSocketHandler(c.Hub, c.AuthService, c.Logger)

	c.Server = c.initServer()
	c.GinEngine = c.initGinEngine()
	c.Server.Handler = c.GinEngine

	return nil
}

func (c *Container) initProductionFeatures() {
	c.initHealthRoutes(c.GinEngine)

	c.GinEngine.Use(services.SecurityMiddleware())
	c.GinEngine.Use(services.RequestIDMiddleware())
	c.GinEngine.Use(MetricsMiddleware(c.Metrics))
}

// initChatCache picks redis when an address is configured, otherwise an
// in-process cache. Both honor the same TTL and miss semantics.
func (c *Container) initChatCache() ports.IChatCache {
	if c.Config.Redis.Addr == "" {
		c.Logger.Warn("no redis address configured, using in-memory chat cache")
		return adapters.NewMemoryChatCache()
	}
	return adapters.NewRedisChatCache(c.Redis)
}

func (c *Container) initTracing() error {
	if !c.Config.Tracing.Enabled {
		c.Logger.Info("tracing disabled")
		c.Tracer = trace.NewNoopTracerProvider().Tracer("chatcore")
		return nil
	}

	exp, err := jaeger.New(jaeger.WithCollectorEndpoint(jaeger.WithEndpoint(c.Config.Tracing.Endpoint)))
	if err != nil {
		return err
	}

	c.TracerProvider = tracesdk.NewTracerProvider(
		tracesdk.WithBatcher(exp),
		tracesdk.WithResource(resource.NewWithAttributes(
			semconv.SchemaURL,
			semconv.ServiceNameKey.String(c.Config.Tracing.ServiceName),
			attribute.String("environment", c.Config.Environment.Current),
		)),
	)

	otel.SetTracerProvider(c.TracerProvider)

	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	c.Tracer = c.TracerProvider.Tracer("chatcore")

	c.Logger.Info("tracing initialized", "endpoint", c.Config.Tracing.Endpoint)
	return nil
}

func (c *Container) initHealthRoutes(eng *gin.Engine) {
	eng.GET("/health", func(ctx *gin.Context) {
		health := map[string]string{
			"status":    "ok",
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		}

		if err := c.Repository.HealthCheck(ctx); err != nil {
			health["database"] = "unhealthy"
			health["status"] = "degraded"
			ctx.JSON(503, health)
			return
		}

		if err := c.Redis.Ping().Err(); err != nil {
			health["redis"] = "unhealthy"
			health["status"] = "degraded"
			ctx.JSON(503, health)
			return
		}

		health["database"] = "healthy"
		health["redis"] = "healthy"
		ctx.JSON(200, health)
	})

	eng.GET("/ready", func(ctx *gin.Context) {
		if c.isShuttingDown {
			ctx.JSON(503, gin.H{"status": "shutting down"})
			return
		}
		ctx.JSON(200, gin.H{"status": "ready"})
	})

	eng.GET("/live", func(ctx *gin.Context) {
		ctx.JSON(200, gin.H{"status": "live"})
	})
}

func (c *Container) initGinEngine() *gin.Engine {
	var eng = gin.Default()

	if c.Config.Tracing.Enabled {
		eng.Use(otelgin.Middleware(c.Config.Tracing.ServiceName))
	}

	api := eng.Group("/api")

	api.Use(RateLimitMiddleware(c.RateLimiter))
	{
		authGroup := api.Group("/auth")
		{
			authGroup.POST("/register", c.AuthHandler.Register)
			authGroup.POST("/login", c.AuthHandler.Login)
			authGroup.POST("/logout", c.AuthHandler.Logout)
			authGroup.GET("/verify-email", c.AuthHandler.VerifyEmail)
		}

		usersGroup := api.Group("/users")
		usersGroup.Use(c.AuthHandler.AuthMiddleware())
		{
			usersGroup.GET("", c.UserHandler.GetUsers)
		}

		chatsGroup := api.Group("/chats")
		chatsGroup.Use(c.AuthHandler.AuthMiddleware())
		{
			chatsGroup.POST("", c.ChatHandler.CreateChat)
			chatsGroup.GET("", c.ChatHandler.GetUserChats)
			chatsGroup.GET("/:chatId", c.ChatHandler.GetChat)
			chatsGroup.GET("/:chatId/messages", c.ChatHandler.GetChatMessages)
			chatsGroup.POST("/messages", c.ChatHandler.SendMessage)
		}

		api.GET("/ws", c.WebSocketHandler.HandleWebSocket)
	}

	return eng
}

func (c *Container) initLogger() *slog.Logger {
	var logger *slog.Logger
	if c.Config.Environment.Current == "development" {
		logger = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		}))
	} else {
		logger = slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		}))
	}

	slog.SetDefault(logger)
	return logger
}

func (c *Container) initRedis() *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     c.Config.Redis.Addr,
		Password: c.Config.Redis.Password,
		DB:       c.Config.Redis.DB,
	})
}

func (c *Container) initServer() *http.Server {
	return &http.Server{
		Addr:         ":" + c.Config.Server.Port,
		ReadTimeout:  time.Duration(c.Config.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(c.Config.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(c.Config.Server.IdleTimeout) * time.Second,
	}
}

func (c *Container) Close() error {
	c.isShuttingDown = true

	if c.Redis != nil {
		if err := c.Redis.Close(); err != nil {
			c.Logger.Error("failed to close redis client", "error", err)
		}
	}

	if c.Repository != nil {
		if err := c.Repository.Close(); err != nil {
			c.Logger.Error("failed to close repository", "error", err)
		}
	}

	if c.TracerProvider != nil {
		if err := c.TracerProvider.Shutdown(context.Background()); err != nil {
			c.Logger.Error("failed to shutdown tracer provider", "error", err)
		}
	}

	return nil
}
