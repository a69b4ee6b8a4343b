package lifecycle

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/logger"
)

// Manager 向后台服务分发句柄(Handle)，并在停机时等待它们退出。
// 它由上层的停机协调器创建和持有。
type Manager struct {
	name string

	wg       sync.WaitGroup
	mu       sync.Mutex
	services map[string]bool

	ctx    context.Context
	cancel context.CancelFunc
}

// NewManager 创建一个新的生命周期管理器，name 只用于日志
func NewManager(name string) *Manager {
	m := &Manager{
		name:     name,
		services: make(map[string]bool),
	}
	m.ctx, m.cancel = context.WithCancel(context.Background())
	return m
}

// NewServiceHandle 为一个服务注册并创建句柄。
// 同名服务只能注册一次。
func (m *Manager) NewServiceHandle(service string) (*Handle, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.services[service] {
		return nil, fmt.Errorf("生命周期管理器[%s]: 服务 '%s' 已被注册", m.name, service)
	}
	m.services[service] = true
	m.wg.Add(1)
	logger.Infof("生命周期管理器[%s]: 服务 [%s] 已注册。", m.name, service)

	var once sync.Once
	return &Handle{
		ctx: m.ctx,
		Close: func() {
			once.Do(func() {
				m.mu.Lock()
				defer m.mu.Unlock()
				delete(m.services, service)
				m.wg.Done()
			})
		},
	}, nil
}

// Go 注册服务并在新的goroutine中运行fn，fn 返回时句柄自动关闭
func (m *Manager) Go(service string, fn func(*Handle)) error {
	handle, err := m.NewServiceHandle(service)
	if err != nil {
		return err
	}
	go func() {
		defer handle.Close()
		fn(handle)
	}()
	return nil
}

// Shutdown 广播停机信号，所有句柄的 Done() 随即关闭
func (m *Manager) Shutdown() {
	logger.Infof("生命周期管理器[%s]: 广播停机信号...", m.name)
	m.cancel()
}

// WaitWithTimeout 等待所有已注册的服务完成，超时后返回仍未退出的服务名
func (m *Manager) WaitWithTimeout(timeout time.Duration) []string {
	doneChan := make(chan struct{})
	go func() {
		m.wg.Wait()
		close(doneChan)
	}()

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case <-doneChan:
		return nil
	case <-timer.C:
		m.mu.Lock()
		defer m.mu.Unlock()
		return m.remainingServices()
	}
}

func (m *Manager) remainingServices() []string {
	remaining := make([]string, 0, len(m.services))
	for name := range m.services {
		remaining = append(remaining, name)
	}
	sort.Strings(remaining)
	return remaining
}
