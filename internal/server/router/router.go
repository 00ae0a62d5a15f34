package router

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/JesVite28/products-front/internal/alerts"
	"github.com/JesVite28/products-front/internal/server/handlers"
)

// New wires the Gin engine with required routes and middlewares.
func New(auth *handlers.AuthHandler, products *handlers.ProductHandler, users *handlers.UserHandler, alertStore *alerts.Store, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(zapLoggerMiddleware(logger))

	r.POST("/auth/login", auth.Login)
	r.POST("/auth/register", auth.Register)
	r.POST("/auth/logout", auth.Logout)
	r.GET("/auth/session", auth.Session)

	p := r.Group("/products")
	p.GET("", products.List)
	p.GET("/search", products.Search)
	p.POST("", products.Create)
	p.GET("/:id", products.Detail)
	p.PATCH("/:id", products.Update)
	p.DELETE("/:id", products.Delete)
	r.DELETE("/detail", products.CloseDetail)

	u := r.Group("/users")
	u.GET("", users.List)
	u.POST("", users.Create)
	u.PATCH("/:id", users.Update)
	u.DELETE("/:id", users.Delete)

	r.GET("/alerts", func(c *gin.Context) {
		c.JSON(200, gin.H{"alerts": alertStore.Active()})
	})
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	if logger != nil {
		logger.Info("router initialized")
	}

	return r
}

func zapLoggerMiddleware(logger *zap.Logger) gin.HandlerFunc {
	if logger == nil {
		logger = zap.NewNop()
	}

	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		logger.Info("request completed",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("duration", time.Since(start)),
			zap.String("client_ip", c.ClientIP()))
	}
}
