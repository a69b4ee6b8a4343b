// Package health 定期探测Redis并对外提供健康报告。
package health

import (
	"context"
	"time"

	"github.com/SlpAus/water-wars-backend/internal/platform/database"
	"github.com/SlpAus/water-wars-backend/pkg/lifecycle"
	"github.com/google/logger"
	"github.com/redis/go-redis/v9"
)

const (
	checkInterval = 5 * time.Second
	pingTimeout   = 2 * time.Second
)

// Checker 周期性地Ping Redis，并把结果写入共享的Redis状态
type Checker struct {
	rdb      *redis.Client
	interval time.Duration
}

// NewChecker 创建健康检查器，rdb为nil时检查器什么也不做
func NewChecker(rdb *redis.Client) *Checker {
	return &Checker{rdb: rdb, interval: checkInterval}
}

// PerformCheck 执行一次检查并更新状态
func (c *Checker) PerformCheck(ctx context.Context) {
	if c.rdb == nil {
		return
	}
	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	err := c.rdb.Ping(pingCtx).Err()
	if err != nil && ctx.Err() != nil {
		// 停机导致的取消不算Redis故障
		return
	}
	database.UpdateStatus(err == nil)
}

// Start 运行检查循环，直到handle收到停机信号
func (c *Checker) Start(handle *lifecycle.Handle) {
	defer handle.Close()
	if c.rdb == nil {
		logger.Info("健康检查器: 未启用Redis，无需检查。")
		return
	}
	logger.Info("Redis健康检查器已启动。")

	for {
		if err := handle.Sleep(c.interval); err != nil {
			logger.Info("健康检查器: 收到停机信号，正在关闭...")
			return
		}
		c.PerformCheck(handle.Ctx())
	}
}
