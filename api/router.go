// Package api 组装HTTP路由与全局中间件。
package api

import (
	"slices"
	"time"

	"github.com/SlpAus/water-wars-backend/internal/platform/config"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// NewRouter 按服务器配置创建gin引擎并注册所有路由
func NewRouter(cfg config.ServerConfig, h Handlers) *gin.Engine {
	var r *gin.Engine
	if cfg.Mode == gin.ReleaseMode {
		gin.SetMode(gin.ReleaseMode)
		r = gin.New()
		r.Use(gin.Recovery())
	} else {
		r = gin.Default()
	}

	r.Use(cors.New(corsConfig(cfg.Cors)))

	SetupRoutes(r, h)
	return r
}

// corsConfig 在未配置来源或配置了 "*" 时放开所有来源，此时不允许携带凭据
func corsConfig(cfg config.CorsConfig) cors.Config {
	c := cors.Config{
		AllowMethods:  []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders: []string{"Content-Length"},
		MaxAge:        12 * time.Hour,
	}
	if len(cfg.AllowedOrigins) == 0 || slices.Contains(cfg.AllowedOrigins, "*") {
		c.AllowAllOrigins = true
		return c
	}
	c.AllowOrigins = cfg.AllowedOrigins
	c.AllowCredentials = true
	return c
}
