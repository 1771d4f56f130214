package serverApp

import (
	"context"
	"net/http"

	mpesaHandler "mpesa-gateway/internal/handler/mpesa"
	"mpesa-gateway/internal/pkg/middleware"
	"mpesa-gateway/internal/pkg/rabbitmq"
	"mpesa-gateway/internal/pkg/redis"
	mpesaService "mpesa-gateway/internal/service/mpesa"

	"github.com/gin-gonic/gin"
)

// Setup initializes the HTTP server with middleware and routes
func Setup(
	engine *gin.Engine,
	ctx context.Context,
	redisClient redis.IRedis,
	rb *rabbitmq.ConnectionManager,
	service mpesaService.IService,
) {
	InitMiddleware(engine)

	engine.GET("/health", func(c *gin.Context) {
		rabbitmqHealth := "unhealthy"
		redisHealth := "unhealthy"

		if rb != nil && !rb.IsClosed() {
			rabbitmqHealth = "healthy"
		}
		if redisClient != nil && redisClient.Ping() == nil {
			redisHealth = "healthy"
		}

		status := http.StatusOK
		if rabbitmqHealth != "healthy" || redisHealth != "healthy" {
			status = http.StatusServiceUnavailable
		}
		c.JSON(status, gin.H{
			"status": status,
			"service": gin.H{
				"rabbitmq": gin.H{"status": rabbitmqHealth},
				"redis":    gin.H{"status": redisHealth},
			},
		})
	})

	e := engine.Group(BasePath())
	InitRoutes(e, ctx, service)
}

// BasePath returns the base API path
func BasePath() string {
	return "/api"
}

// InitMiddleware initializes global middleware
func InitMiddleware(e *gin.Engine) {
	e.Use(middleware.CorsMiddleware())
	e.Use(middleware.RequestInit())
	e.Use(middleware.ResponseInit())
}

func InitRoutes(e *gin.RouterGroup, ctx context.Context, service mpesaService.IService) {
	// === M-Pesa ===
	MpesaHandler := mpesaHandler.NewHandler(ctx, service)
	MpesaHandler.NewRoutes(e)
}
