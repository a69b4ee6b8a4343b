package database

import (
	"context"
	"fmt"
	"time"

	"github.com/SlpAus/water-wars-backend/internal/platform/config"
	"github.com/google/logger"
	"github.com/redis/go-redis/v9"
)

// RDB 是一个全局的Redis客户端实例，未配置Redis时为nil
var RDB *redis.Client

// InitRedis 初始化与Redis数据库的连接
// 未配置地址时直接跳过，依赖Redis的功能会自动降级
func InitRedis(cfg config.RedisConfig) error {
	if !cfg.Enabled() {
		logger.Info("未配置Redis，频率限制功能将被禁用。")
		globalStatus.setDisabled()
		return nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Address,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	RDB = client

	// 使用Ping命令来测试连接是否成功
	// 连接失败时保留客户端并标记为降级，由健康检查器在恢复后翻转状态
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		UpdateStatus(false)
		return fmt.Errorf("无法连接到Redis %s: %w", cfg.Address, err)
	}

	UpdateStatus(true)
	logger.Info("Redis 连接成功！")
	return nil
}

// CloseRedis 关闭全局Redis客户端
func CloseRedis() error {
	if RDB == nil {
		return nil
	}
	return RDB.Close()
}
