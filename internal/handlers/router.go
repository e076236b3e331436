package handlers

import (
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// NewRouter builds the engine: recovery, request id, logging, permissive CORS,
// health and the survey routes.
func NewRouter(cfg HandlerConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(RequestID())
	r.Use(RequestLogger())
	r.Use(reflectRequestHeaders())
	r.Use(cors.New(corsConfig()))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	RegisterSurveyRoutes(r, cfg)

	return r
}

// corsConfig allows any origin without credentials. AllowHeaders is left
// empty so the preflight answer from reflectRequestHeaders is kept.
func corsConfig() cors.Config {
	cc := cors.DefaultConfig()
	cc.AllowAllOrigins = true
	cc.AllowHeaders = nil
	cc.AddExposeHeaders(HeaderRequestID)
	return cc
}

// reflectRequestHeaders allows whatever headers a preflight asks for.
// Must run before the cors middleware, which aborts preflights.
func reflectRequestHeaders() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method == http.MethodOptions {
			if h := c.GetHeader("Access-Control-Request-Headers"); h != "" {
				c.Header("Access-Control-Allow-Headers", h)
				c.Writer.Header().Add("Vary", "Access-Control-Request-Headers")
			}
		}
		c.Next()
	}
}
