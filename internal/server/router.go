package server

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// RouterDeps aggregates HTTP dependencies.
type RouterDeps struct {
	Handler *Handler
	Logger  *zap.Logger
}

// NewRouter builds the gin engine.
func NewRouter(deps RouterDeps) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(RequestLogger(deps.Logger))

	r.GET("/health", deps.Handler.health)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.GET("/logs/:token/*name", deps.Handler.file)

	api := r.Group("/api/v1")
	api.GET("/categories", deps.Handler.categories)
	api.POST("/collect/:category", deps.Handler.collect)

	return r
}
