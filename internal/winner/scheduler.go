package winner

import (
	"context"
	"errors"
	"time"

	"github.com/SlpAus/water-wars-backend/internal/platform/datekey"
	"github.com/SlpAus/water-wars-backend/pkg/lifecycle"
	"github.com/google/logger"
)

// Checkpoint 持久化调度器最近一次结算的日期
type Checkpoint interface {
	LoadLastSettledDay(ctx context.Context) (datekey.Key, error)
	SaveLastSettledDay(ctx context.Context, day datekey.Key) error
}

// Scheduler 定期结算今天的胜者，并在跨日后对前一天做最后一次结算
type Scheduler struct {
	resolver   *Resolver
	clock      datekey.Provider
	interval   time.Duration
	checkpoint Checkpoint

	lastDay datekey.Key
}

// NewScheduler 创建结算调度器，checkpoint 可以为nil
func NewScheduler(resolver *Resolver, clock datekey.Provider, interval time.Duration, checkpoint Checkpoint) *Scheduler {
	return &Scheduler{resolver: resolver, clock: clock, interval: interval, checkpoint: checkpoint}
}

// Restore 从检查点恢复最近一次结算的日期
func (s *Scheduler) Restore(ctx context.Context) {
	if s.checkpoint == nil {
		return
	}
	day, err := s.checkpoint.LoadLastSettledDay(ctx)
	if err != nil {
		logger.Warningf("结算调度器: 无法读取检查点，将从今天开始: %v", err)
		return
	}
	s.lastDay = day
}

// Start 运行调度循环，直到handle收到停机信号
func (s *Scheduler) Start(handle *lifecycle.Handle) {
	defer handle.Close() // 确保在退出时通知管理器
	logger.Infof("每日胜者结算调度器已启动，间隔 %v。", s.interval)

	// 重启后先补做错过的结算
	s.Restore(handle.Ctx())
	s.Tick(handle.Ctx())

	for {
		// 使用可中断的休眠，收到停机信号时立刻退出
		if err := handle.Sleep(s.interval); err != nil {
			logger.Info("结算调度器: 休眠被中断，正在关闭...")
			return
		}
		s.Tick(handle.Ctx())
	}
}

// Tick 执行一次调度：日期变化时先结算前一天，再结算今天
func (s *Scheduler) Tick(ctx context.Context) {
	today := s.clock.Today()

	if s.lastDay != "" && s.lastDay < today {
		s.resolve(ctx, s.lastDay, "跨日结算")
	}
	s.resolve(ctx, today, "定时结算")

	if s.lastDay != today {
		s.lastDay = today
		if s.checkpoint != nil {
			if err := s.checkpoint.SaveLastSettledDay(ctx, today); err != nil {
				logger.Warningf("结算调度器: 无法保存检查点: %v", err)
			}
		}
	}
}

func (s *Scheduler) resolve(ctx context.Context, day datekey.Key, reason string) {
	res, err := s.resolver.Resolve(ctx, day)
	switch {
	case errors.Is(err, ErrNoEntries):
		logger.Infof("结算调度器(%s): %s 没有饮水记录，跳过。", reason, day)
	case err != nil:
		if !errors.Is(err, context.Canceled) {
			logger.Errorf("结算调度器(%s): 结算 %s 失败: %v", reason, day, err)
		}
	default:
		logger.Infof("结算调度器(%s): %s 胜者 %s (%d oz)", reason, day, res.Winner, res.Amount)
	}
}
