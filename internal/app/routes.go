package app

import (
	"context"
	"net/http"
	"time"

	"taskmanager/internal/auth"
	"taskmanager/internal/config"
	"taskmanager/internal/handlers"
	"taskmanager/internal/logging"
	"taskmanager/internal/repo"
	"taskmanager/internal/service"

	_ "taskmanager/docs"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"github.com/swaggo/swag"
)

// Deps are the handles the HTTP layer is built from.
type Deps struct {
	Config config.Config
	Logger logging.Logger
	Redis  *redis.Client
	Users  repo.UserRepo
	Tasks  repo.TaskRepo
	// Checks are probed by /health, keyed by component name.
	Checks map[string]func(context.Context) error
}

func newRouter(d Deps) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(corsMiddleware(d.Config.HTTP))

	Setup(r, d)
	return r
}

// Setup registers all routes on the given engine.
func Setup(r *gin.Engine, d Deps) {
	r.GET("/", rootHandler(d.Config))
	r.GET("/health", healthHandler(d.Config, d.Logger, d.Checks))
	r.GET("/version", versionHandler(d.Config))
	r.GET("/swagger-doc.json", swaggerDocHandler())
	r.GET("/swagger", func(c *gin.Context) { c.Redirect(http.StatusFound, "/swagger/index.html") })
	r.GET("/swagger/*any", ginSwagger.WrapHandler(
		swaggerFiles.Handler,
		ginSwagger.URL("/swagger-doc.json"),
		ginSwagger.DefaultModelsExpandDepth(-1),
	))

	sessionStore := auth.NewStore(d.Redis, d.Config.Session.TTL.Duration())

	logged := r.Group("", requestLogger(d.Logger))
	// Status checks must not count as activity, so they only peek at the session.
	peek := logged.Group("", auth.PeekSession(sessionStore, d.Logger))
	api := logged.Group("", auth.LoadSession(sessionStore, d.Logger))

	userSvc := service.NewUserService(d.Users)
	authHandler := handlers.NewAuthHandler(sessionStore, userSvc, d.Logger, d.Config.Session.CookieSecure)
	registerAuthRoutes(api, peek, authHandler)

	taskSvc := service.NewTaskService(d.Tasks)
	taskHandler := handlers.NewTaskHandler(taskSvc, d.Logger)
	registerTaskRoutes(api, taskHandler)
}

func rootHandler(cfg config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"service": "Task Manager API",
			"version": cfg.App.Version,
			"env":     cfg.App.Env,
			"docs":    "/swagger/index.html",
			"spec":    "/swagger-doc.json",
			"health":  "/health",
		})
	}
}

func healthHandler(cfg config.Config, log logging.Logger, checks map[string]func(context.Context) error) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		status := http.StatusOK
		components := gin.H{}
		for name, check := range checks {
			if err := check(ctx); err != nil {
				status = http.StatusServiceUnavailable
				log.Warn(ctx, "health check failed", "component", name, "error", err)
				components[name] = "unavailable"
				continue
			}
			components[name] = "ok"
		}
		c.JSON(status, gin.H{"ok": status == http.StatusOK, "env": cfg.App.Env, "components": components})
	}
}

func versionHandler(cfg config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"version": cfg.App.Version})
	}
}

func swaggerDocHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		doc, err := swag.ReadDoc("swagger")
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.Data(http.StatusOK, "application/json; charset=utf-8", []byte(doc))
	}
}

func registerAuthRoutes(api, peek *gin.RouterGroup, h *handlers.AuthHandler) {
	api.POST("/register", h.Register)
	api.POST("/login", h.Login)
	api.POST("/logout", h.Logout)
	peek.GET("/check-session", h.CheckSession)
}

func registerTaskRoutes(api *gin.RouterGroup, h *handlers.TaskHandler) {
	api.GET("/tasks", h.List)

	protected := api.Group("", auth.RequireSession())
	protected.POST("/tasks", h.Create)
	protected.PUT("/tasks/:id", h.Update)
	protected.DELETE("/tasks/:id", h.Delete)
}
