package winner

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/SlpAus/water-wars-backend/internal/platform/apperror"
	"github.com/gin-gonic/gin"
	"github.com/google/logger"
)

// ResolveResponse 是结算成功后的响应
type ResolveResponse struct {
	Winner  string `json:"winner"`
	Amount  int    `json:"amount"`
	Message string `json:"message"`
}

// Handler 负责胜者相关的HTTP接口
type Handler struct {
	resolver    *Resolver
	service     *Service
	defaultDays int
}

// NewHandler 创建Handler
func NewHandler(resolver *Resolver, service *Service, defaultDays int) *Handler {
	return &Handler{resolver: resolver, service: service, defaultDays: defaultDays}
}

// ParseDays 解析 ?days= 查询参数，缺省时返回def
func ParseDays(c *gin.Context, def int) (int, error) {
	raw := c.Query("days")
	if raw == "" {
		return def, nil
	}
	days, err := strconv.Atoi(raw)
	if err != nil {
		return 0, apperror.Invalid("days", fmt.Sprintf("%q is not a number", raw))
	}
	return days, nil
}

// ListWinners 处理 GET /api/winners?days=30
func (h *Handler) ListWinners(c *gin.Context) {
	days, err := ParseDays(c, h.defaultDays)
	if err != nil {
		apperror.Respond(c, "查询胜者列表", err)
		return
	}
	records, err := h.service.Recent(c.Request.Context(), days)
	if err != nil {
		apperror.Respond(c, "查询胜者列表", err)
		return
	}
	c.JSON(http.StatusOK, records)
}

// CalculateWinner 处理 POST /api/calculate-winner，结算今天
func (h *Handler) CalculateWinner(c *gin.Context) {
	res, err := h.resolver.ResolveToday(c.Request.Context())
	if errors.Is(err, ErrNoEntries) {
		c.JSON(http.StatusOK, gin.H{"message": "No entries for today"})
		return
	}
	if err != nil {
		apperror.Respond(c, "结算今日胜者", err)
		return
	}

	logger.Infof("今日胜者: %s (%d oz)", res.Winner, res.Amount)
	c.JSON(http.StatusOK, ResolveResponse{
		Winner:  string(res.Winner),
		Amount:  res.Amount,
		Message: fmt.Sprintf("%s won today with %d oz!", res.Winner, res.Amount),
	})
}
