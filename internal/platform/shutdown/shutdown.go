// Package shutdown 编排服务进程的分阶段优雅停机。
package shutdown

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/SlpAus/water-wars-backend/pkg/lifecycle"
	"github.com/google/logger"
)

// FinalStep 在所有后台服务退出后执行，例如最后一次结算和关闭连接
type FinalStep struct {
	Name string
	Run  func(ctx context.Context) error
}

// Coordinator 持有两个阶段的生命周期管理器，并按顺序执行停机
type Coordinator struct {
	GracefulManager *lifecycle.Manager
	ForcefulManager *lifecycle.Manager

	HTTPTimeout     time.Duration
	GracefulTimeout time.Duration
	ForcefulTimeout time.Duration

	finalSteps []FinalStep
}

// NewCoordinator 创建一个新的停机协调器
func NewCoordinator(gracefulMgr, forcefulMgr *lifecycle.Manager) *Coordinator {
	return &Coordinator{
		GracefulManager: gracefulMgr,
		ForcefulManager: forcefulMgr,
		HTTPTimeout:     15 * time.Second,
		GracefulTimeout: 30 * time.Second,
		ForcefulTimeout: 1 * time.Second,
	}
}

// AddFinalStep 追加一个最终步骤，按添加顺序执行
func (c *Coordinator) AddFinalStep(name string, run func(ctx context.Context) error) {
	c.finalSteps = append(c.finalSteps, FinalStep{Name: name, Run: run})
}

// ListenForSignalsAndShutdown 阻塞直到收到 SIGINT/SIGTERM，然后执行停机流程
func (c *Coordinator) ListenForSignalsAndShutdown(server *http.Server) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	sig := <-sigChan
	logger.Infof("收到关闭信号 %v，开始优雅停机...", sig)
	c.Shutdown(server)
}

// Shutdown 依次关闭HTTP服务器、后台服务，最后执行最终步骤
func (c *Coordinator) Shutdown(server *http.Server) {
	// 关闭HTTP服务器，允许正在进行的请求完成
	if server != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), c.HTTPTimeout)
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Errorf("Gin服务器关闭错误: %v", err)
		} else {
			logger.Info("Gin服务器已关闭。")
		}
		cancel()
	}

	// --- 阶段一: 优雅停机 ---
	logger.Infof("第一阶段停机：等待最多 %v 以完成任务...", c.GracefulTimeout)
	c.GracefulManager.Shutdown()

	remaining := c.GracefulManager.WaitWithTimeout(c.GracefulTimeout)
	if len(remaining) == 0 {
		logger.Info("所有服务已在第一阶段优雅关闭。")
	} else {
		// --- 阶段二: 强制停机 ---
		logger.Warningf("第一阶段超时，仍在运行: %v。发送第二停机信号 (最多等待 %v)...", remaining, c.ForcefulTimeout)
		c.ForcefulManager.Shutdown()
		if left := c.ForcefulManager.WaitWithTimeout(c.ForcefulTimeout); len(left) > 0 {
			logger.Errorf("强制停机后仍有服务未退出: %v", left)
		}
	}

	// --- 最终步骤 ---
	for _, step := range c.finalSteps {
		ctx, cancel := context.WithTimeout(context.Background(), c.HTTPTimeout)
		if err := step.Run(ctx); err != nil {
			logger.Errorf("最终步骤 [%s] 失败: %v", step.Name, err)
		} else {
			logger.Infof("最终步骤 [%s] 完成。", step.Name)
		}
		cancel()
	}

	logger.Info("优雅停机完成。")
}
