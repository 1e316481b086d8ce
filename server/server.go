package server

import (
	"net/http"
	"time"

	"github.com/example/jewelrystore/pkg/cache"
	"github.com/example/jewelrystore/pkg/config"
	"github.com/example/jewelrystore/pkg/store"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Server owns the HTTP surface. The store may be nil when the database
// was unreachable at startup; handlers report that per request and the
// diagnostic endpoint describes it in-band.
type Server struct {
	config *config.Config
	store  store.Store
	cache  *cache.ProductCache
	logger *zap.Logger
	router *gin.Engine
}

func New(cfg *config.Config, logger *zap.Logger, st store.Store, pc *cache.ProductCache) *Server {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(requestIDMiddleware())
	router.Use(loggerMiddleware(logger))
	router.Use(corsMiddleware())

	return &Server{
		config: cfg,
		store:  st,
		cache:  pc,
		logger: logger,
		router: router,
	}
}

func (s *Server) SetupRoutes() {
	s.router.GET("/", s.root)
	s.router.GET("/test", s.testDatabase)

	api := s.router.Group("/api")
	{
		api.GET("/products", s.listProducts)
		api.POST("/products", s.createProduct)
		api.POST("/orders", s.createOrder)
	}
}

func (s *Server) Start() error {
	addr := s.config.Server.Addr()
	s.logger.Info("Server starting", zap.String("address", addr))
	return s.router.Run(addr)
}

// Handler exposes the router for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

func requestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader("X-Request-ID")
		if id == "" {
			id = uuid.New().String()
		}
		c.Set("request_id", id)
		c.Writer.Header().Set("X-Request-ID", id)
		c.Next()
	}
}

func loggerMiddleware(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		query := c.Request.URL.RawQuery

		c.Next()

		logger.Info("HTTP request",
			zap.String("request_id", c.GetString("request_id")),
			zap.String("method", c.Request.Method),
			zap.String("path", path),
			zap.String("query", query),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
		)
	}
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "*")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}
