package entry

import (
	"fmt"
	"net/http"

	"github.com/SlpAus/water-wars-backend/internal/platform/apperror"
	"github.com/gin-gonic/gin"
)

// RecordRequestBody 定义了提交饮水记录时请求体的JSON结构
type RecordRequestBody struct {
	Player string `json:"player" binding:"required"`
	Amount int    `json:"amount" binding:"required"`
}

// RecordResponse 是提交成功后的响应
type RecordResponse struct {
	Success bool   `json:"success"`
	ID      string `json:"id"`
	Message string `json:"message"`
}

// Handler 负责饮水记录相关的HTTP接口
type Handler struct {
	service *Service
}

// NewHandler 创建Handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RecordIntake 处理 POST /api/water
func (h *Handler) RecordIntake(c *gin.Context) {
	var body RecordRequestBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid player or amount"})
		return
	}

	e, err := h.service.Record(c.Request.Context(), body.Player, body.Amount)
	if err != nil {
		if apperror.IsValidation(err) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid player or amount"})
			return
		}
		apperror.Respond(c, "新增饮水记录", err)
		return
	}

	c.JSON(http.StatusOK, RecordResponse{
		Success: true,
		ID:      e.ID,
		Message: fmt.Sprintf("Added %d oz for %s", e.Amount, e.Player),
	})
}

// GetToday 处理 GET /api/today
func (h *Handler) GetToday(c *gin.Context) {
	totals, err := h.service.Today(c.Request.Context())
	if err != nil {
		apperror.Respond(c, "查询今日数据", err)
		return
	}
	c.JSON(http.StatusOK, totals)
}

// ListEntries 处理 GET /api/entries?start_date=&end_date=&player=
func (h *Handler) ListEntries(c *gin.Context) {
	entries, err := h.service.List(c.Request.Context(), Filter{
		DateFrom: c.Query("start_date"),
		DateTo:   c.Query("end_date"),
		Player:   c.Query("player"),
	})
	if err != nil {
		apperror.Respond(c, "查询饮水记录", err)
		return
	}
	c.JSON(http.StatusOK, entries)
}
