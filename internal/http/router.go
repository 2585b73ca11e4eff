package http

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"auth-api/internal/service"
)

const (
	requestIDHeader = "X-Request-ID"
	requestIDKey    = "request_id"
)

// NewRouter configura el router de Gin con middlewares y rutas.
// Si registry es nil no se exponen métricas.
func NewRouter(
	logger *zap.Logger,
	userH *UserHandler,
	healthH *HealthHandler,
	userSvc *service.UserService,
	registry *prometheus.Registry,
) *gin.Engine {
	r := gin.New()

	// Middlewares basicos: request id, logging y recovery.
	r.Use(requestIDMiddleware(), zapLoggerMiddleware(logger), gin.Recovery())
	if registry != nil {
		r.Use(newHTTPMetrics(registry).middleware())
		r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(registry, promhttp.HandlerOpts{})))
	}

	r.GET("/health", healthH.Health)
	r.GET("/ready", healthH.Ready)

	auth := r.Group("/api/auth")
	auth.POST("/signup", userH.Signup)
	auth.POST("/login", userH.Login)
	auth.GET("/me", JWTAuthMiddleware(logger, userSvc), userH.Me)

	return r
}

// requestIDMiddleware propaga X-Request-ID o genera uno nuevo.
func requestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(requestIDKey, id)
		c.Writer.Header().Set(requestIDHeader, id)
		c.Next()
	}
}

// zapLoggerMiddleware crea un middleware simple de logging con zap.
func zapLoggerMiddleware(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		latency := time.Since(start)
		logger.Info("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", latency),
			zap.String("client_ip", c.ClientIP()),
			zap.String("request_id", c.GetString(requestIDKey)),
		)
	}
}
