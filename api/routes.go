package api

import (
	"net/http"

	"github.com/SlpAus/water-wars-backend/internal/auth"
	"github.com/SlpAus/water-wars-backend/internal/entry"
	"github.com/SlpAus/water-wars-backend/internal/platform/health"
	"github.com/SlpAus/water-wars-backend/internal/stats"
	"github.com/SlpAus/water-wars-backend/internal/winner"
	"github.com/gin-gonic/gin"
)

// Handlers 汇集了所有需要注册的接口
type Handlers struct {
	Entry  *entry.Handler
	Winner *winner.Handler
	Stats  *stats.Handler
	Health *health.Handler
	Auth   *auth.Handler

	// RateLimit 作用于饮水记录提交，为nil时不限流
	RateLimit gin.HandlerFunc
	// RequireAuth 作用于所有写接口，为nil时不校验令牌
	RequireAuth gin.HandlerFunc
}

// SetupRoutes 注册项目的所有API路由
func SetupRoutes(router *gin.Engine, h Handlers) {
	api := router.Group("/api")
	{
		if h.Auth != nil {
			api.POST("/login", h.Auth.Login)
		}

		// 写接口
		api.POST("/water", writeChain(h, true, h.Entry.RecordIntake)...)
		api.POST("/calculate-winner", writeChain(h, false, h.Winner.CalculateWinner)...)

		// 读接口
		api.GET("/today", h.Entry.GetToday)
		api.GET("/entries", h.Entry.ListEntries)
		api.GET("/winners", h.Winner.ListWinners)
		api.GET("/stats", h.Stats.GetStats)
		api.GET("/health", h.Health.GetHealth)
	}

	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Endpoint not found"})
	})
}

func writeChain(h Handlers, limited bool, final gin.HandlerFunc) []gin.HandlerFunc {
	chain := make([]gin.HandlerFunc, 0, 3)
	if limited && h.RateLimit != nil {
		chain = append(chain, h.RateLimit)
	}
	if h.RequireAuth != nil {
		chain = append(chain, h.RequireAuth)
	}
	return append(chain, final)
}
