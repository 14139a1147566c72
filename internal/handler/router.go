package handler

import (
	"net/http"
	"time"

	"diamondtrade/internal/logger"
	"diamondtrade/internal/middleware"
	"diamondtrade/internal/websocket"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"
)

// Routes is implemented by every handler.
type Routes interface {
	RegisterRoutes(router *gin.RouterGroup)
}

// RouterConfig collects what NewRouter needs.
type RouterConfig struct {
	Logger      *zap.Logger
	CORSOrigins []string
	Hub         *websocket.Hub // nil disables /ws
	Swagger     bool
	Handlers    []Routes
}

// NewRouter builds the gin engine with the shared middleware stack.
func NewRouter(cfg RouterConfig) *gin.Engine {
	log := logger.OrNop(cfg.Logger)

	router := gin.New()
	router.Use(middleware.RequestID())
	router.Use(logger.GinMiddleware(log))
	router.Use(logger.Recovery(log))

	if len(cfg.CORSOrigins) > 0 {
		corsConfig := cors.DefaultConfig()
		corsConfig.AllowOrigins = cfg.CORSOrigins
		corsConfig.AllowCredentials = true
		corsConfig.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Accept", middleware.ActorHeader, middleware.RequestIDHeader}
		corsConfig.ExposeHeaders = []string{middleware.RequestIDHeader, "Content-Disposition"}
		corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
		corsConfig.MaxAge = 12 * time.Hour
		router.Use(cors.New(corsConfig))
	}

	router.Use(middleware.Actor())

	if cfg.Swagger {
		router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "OK"})
	})

	if cfg.Hub != nil {
		router.GET("/ws", func(c *gin.Context) {
			websocket.ServeWs(cfg.Hub, c)
		})
	}

	root := router.Group("")
	for _, h := range cfg.Handlers {
		h.RegisterRoutes(root)
	}
	return router
}
