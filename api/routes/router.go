package routes

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"eventdesk/internal/activity"
	"eventdesk/internal/auth"
	"eventdesk/internal/events"
	"eventdesk/internal/presets"
	"eventdesk/internal/remote"
	"eventdesk/internal/session"
	"eventdesk/internal/shared/config"
	"eventdesk/internal/shared/database"
	"eventdesk/internal/shared/middleware"
	"eventdesk/internal/users"
	"eventdesk/internal/viewstate"
	"eventdesk/pkg/logger"
	"eventdesk/web"

	"github.com/gin-gonic/gin"
)

const serviceName = "eventdesk"

// Router holds all route dependencies
type Router struct {
	config    *config.Config
	db        *database.DB
	publisher activity.Publisher

	client        *remote.Client
	store         viewstate.Store
	eventService  events.Service
	userService   users.Service
	presetService presets.Service
}

// NewRouter creates a new router instance. publisher may be nil.
func NewRouter(cfg *config.Config, db *database.DB, publisher activity.Publisher) *Router {
	if publisher == nil {
		publisher = activity.NopPublisher{}
	}
	return &Router{
		config:    cfg,
		db:        db,
		publisher: publisher,
	}
}

// SetupRoutes configures the session gate, templates and every route.
func (r *Router) SetupRoutes(engine *gin.Engine) error {
	tmpl, err := web.Templates()
	if err != nil {
		return fmt.Errorf("parse templates: %w", err)
	}
	engine.SetHTMLTemplate(tmpl)
	engine.StaticFS("/static", http.FS(web.Static()))

	r.setupHealthRoutes(engine)

	engine.Use(middleware.SessionGate(session.CookieConfig{
		Name:   r.config.Cookie.Name,
		MaxAge: r.config.Cookie.MaxAge,
		Secure: r.config.Cookie.Secure,
	}))

	r.initServices()

	r.setupAuthRoutes(engine)
	r.setupEventRoutes(engine)
	r.setupPresetRoutes(engine)
	r.setupUserRoutes(engine)

	engine.NoRoute(func(c *gin.Context) {
		if middleware.IsJSONRequest(c) {
			c.JSON(http.StatusNotFound, gin.H{"status": "error", "message": "Not found"})
			return
		}
		c.Redirect(http.StatusSeeOther, session.DefaultRoute)
	})
	return nil
}

// initServices builds the shared services. The view state lives in Redis
// when it is connected and in memory otherwise.
func (r *Router) initServices() {
	appLogger := logger.GetDefault()

	r.client = remote.New(remote.Config{
		BaseURL:     r.config.API.BaseURL,
		Timeout:     r.config.API.Timeout,
		TokenHeader: r.config.API.TokenHeader,
	})

	if rdb := r.db.GetRedisClient(); rdb != nil {
		redisStore := viewstate.NewRedisStore(rdb, r.config.Redis.ViewStateTTL)
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		if err := redisStore.PreloadScripts(ctx); err != nil {
			// scripts are loaded on first use
			appLogger.WithError(err).Warn("failed to preload view state scripts")
		}
		cancel()
		r.store = redisStore
	} else {
		appLogger.Info("redis unavailable, keeping view state in memory")
		memStore := viewstate.NewMemoryStore()
		memStore.SetIdleTTL(r.config.Redis.ViewStateTTL)
		r.store = memStore
	}

	r.eventService = events.NewService(r.client, r.store)
	r.eventService.SetPublisher(r.publisher)

	r.userService = users.NewService(r.client)
	r.userService.SetPublisher(r.publisher)
	if r.db.Cache != nil {
		r.userService.SetCacheService(r.db.Cache)
		r.userService.SetCacheTTL(r.config.Redis.ProfileCacheTTL)
	}

	if store := r.db.GetStore(); store != nil {
		r.presetService = presets.NewService(presets.NewRepository(store), r.userService)
		r.presetService.SetPublisher(r.publisher)
	}
}

// setupHealthRoutes sets up health check and system status routes
func (r *Router) setupHealthRoutes(engine *gin.Engine) {
	engine.GET("/health", func(c *gin.Context) {
		if err := r.db.HealthCheck(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":    "unhealthy",
				"error":     err.Error(),
				"timestamp": time.Now(),
				"service":   serviceName,
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"status":    "healthy",
			"timestamp": time.Now(),
			"service":   serviceName,
			"redis":     r.db.GetRedisClient() != nil,
		})
	})

	engine.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})
}

func (r *Router) setupAuthRoutes(engine *gin.Engine) {
	authService := auth.NewService(r.client, r.eventService, r.userService)
	authService.SetPublisher(r.publisher)
	auth.SetupRoutes(engine, auth.NewController(authService))
}

func (r *Router) setupEventRoutes(engine *gin.Engine) {
	var lister events.PresetLister
	if r.presetService != nil {
		lister = r.presetService
	}
	eventController := events.NewController(r.eventService, lister)

	events.SetupEventPages(engine, eventController)
	events.SetupEventAPI(engine.Group("/api/v1"), eventController)
}

func (r *Router) setupPresetRoutes(engine *gin.Engine) {
	if r.presetService == nil {
		return
	}
	presets.SetupPresetRoutes(engine, presets.NewController(r.presetService, r.store))
}

func (r *Router) setupUserRoutes(engine *gin.Engine) {
	users.SetupUserRoutes(engine, users.NewController(r.userService, r.eventService))
}
