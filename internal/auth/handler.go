package auth

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/logger"
)

// LoginRequest 是 POST /api/login 的请求体
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// LoginResponse 是登录成功后的响应
type LoginResponse struct {
	Token  string `json:"token"`
	Player string `json:"player"`
}

// Handler 负责登录接口
type Handler struct {
	service *Service
}

// NewHandler 创建Handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Login 处理 POST /api/login
func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Username and password are required"})
		return
	}

	id, tok, err := h.service.Login(req.Username, req.Password)
	if errors.Is(err, ErrInvalidCredentials) {
		logger.Warningf("登录失败: %q", req.Username)
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid username or password"})
		return
	}
	if err != nil {
		logger.Errorf("登录时发生错误: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not issue token"})
		return
	}

	logger.Infof("参赛者 %s 已登录", id)
	c.JSON(http.StatusOK, LoginResponse{Token: tok, Player: string(id)})
}
