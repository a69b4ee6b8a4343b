package stats

import (
	"net/http"

	"github.com/SlpAus/water-wars-backend/internal/platform/apperror"
	"github.com/SlpAus/water-wars-backend/internal/winner"
	"github.com/gin-gonic/gin"
)

// Handler 负责 GET /api/stats
type Handler struct {
	engine      *Engine
	defaultDays int
}

// NewHandler 创建Handler
func NewHandler(engine *Engine, defaultDays int) *Handler {
	return &Handler{engine: engine, defaultDays: defaultDays}
}

// GetStats 处理 GET /api/stats?days=30
func (h *Handler) GetStats(c *gin.Context) {
	days, err := winner.ParseDays(c, h.defaultDays)
	if err != nil {
		apperror.Respond(c, "查询统计", err)
		return
	}
	report, err := h.engine.ForWindow(c.Request.Context(), days)
	if err != nil {
		apperror.Respond(c, "查询统计", err)
		return
	}
	c.JSON(http.StatusOK, report)
}
