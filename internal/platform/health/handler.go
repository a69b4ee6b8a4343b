package health

import (
	"context"
	"net/http"
	"time"

	"github.com/SlpAus/water-wars-backend/internal/platform/database"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// Report 是 GET /api/health 的响应
type Report struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	Uptime    string    `json:"uptime"`
	Database  string    `json:"database"`
	Redis     string    `json:"redis"`
}

// Handler 负责健康报告接口
type Handler struct {
	db      *gorm.DB
	started time.Time
	now     func() time.Time
}

// NewHandler 创建Handler，started 是进程启动时间
func NewHandler(db *gorm.DB, started time.Time) *Handler {
	return &Handler{db: db, started: started, now: time.Now}
}

// GetHealth 处理 GET /api/health。
// 数据库不可达时返回503，Redis降级只体现在报告中。
func (h *Handler) GetHealth(c *gin.Context) {
	now := h.now()
	report := Report{
		Status:    "ok",
		Timestamp: now.UTC(),
		Uptime:    now.Sub(h.started).Truncate(time.Second).String(),
		Database:  "ok",
		Redis:     string(database.GetRedisState()),
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), pingTimeout)
	defer cancel()
	if err := database.Ping(ctx, h.db); err != nil {
		report.Status = "degraded"
		report.Database = "unreachable"
		c.JSON(http.StatusServiceUnavailable, report)
		return
	}
	c.JSON(http.StatusOK, report)
}
