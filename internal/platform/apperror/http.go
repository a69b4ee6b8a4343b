package apperror

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/logger"
)

// Respond 把领域错误映射为HTTP响应：ValidationError -> 400，其余 -> 500。
// 500响应中不包含底层驱动的错误细节。
func Respond(c *gin.Context, op string, err error) {
	if IsValidation(err) {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	logger.Errorf("%s失败: %v", op, err)
	c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
}
