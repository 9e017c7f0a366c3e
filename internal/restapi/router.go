package restapi

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/Oskar181/ethereum-wallet-analyzer/internal/config"
)

// SetupRouter configures the gin engine: CORS, body limit, inbound rate
// limit, zap request logging and the API routes.
func SetupRouter(handler *AnalyzerHandler, cfg *config.Config, logger *zap.Logger) *gin.Engine {
	router := gin.New()

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowAllOrigins = true
	corsConfig.AllowMethods = []string{"GET", "POST", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Accept", "Authorization"}
	router.Use(cors.New(corsConfig))

	router.Use(ZapLoggerMiddleware(logger))
	router.Use(gin.Recovery())
	router.Use(BodyLimitMiddleware(cfg.Server.MaxBodyBytes))

	apiV1 := router.Group("/api/v1")
	apiV1.Use(RateLimitMiddleware(cfg.Server.RequestsPerSecond))
	{
		apiV1.POST("/analyze", handler.AnalyzeHandler)
		apiV1.GET("/networks", handler.NetworksHandler)
	}

	router.GET("/healthz", handler.HealthHandler)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return router
}
