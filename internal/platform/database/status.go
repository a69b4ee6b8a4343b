package database

import (
	"sync"

	"github.com/google/logger"
)

// RedisState 描述Redis的可用状态
type RedisState string

const (
	RedisHealthy  RedisState = "healthy"
	RedisDegraded RedisState = "degraded"
	RedisDisabled RedisState = "disabled"
)

// statusManager 负责线程安全地管理和提供系统的健康状态。
type statusManager struct {
	mu    sync.RWMutex
	state RedisState
}

// 全局的状态管理器实例
var globalStatus = &statusManager{
	state: RedisDisabled,
}

// IsRedisHealthy 返回当前Redis是否可用。
func IsRedisHealthy() bool {
	return GetRedisState() == RedisHealthy
}

// GetRedisState 返回当前Redis的状态。
func GetRedisState() RedisState {
	globalStatus.mu.RLock()
	defer globalStatus.mu.RUnlock()
	return globalStatus.state
}

// UpdateStatus 用于线程安全地更新健康状态，由健康检查器调用。
func UpdateStatus(isHealthy bool) {
	globalStatus.mu.Lock()
	defer globalStatus.mu.Unlock()

	next := RedisDegraded
	if isHealthy {
		next = RedisHealthy
	}

	// 只有当状态发生变化时才打印日志
	if globalStatus.state != next {
		if isHealthy {
			logger.Info("健康检查: Redis服务状态已更新为 [可用]")
		} else {
			logger.Warning("健康检查警告: Redis服务状态已更新为 [不可用]")
		}
		globalStatus.state = next
	}
}

func (sm *statusManager) setDisabled() {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	sm.state = RedisDisabled
}
