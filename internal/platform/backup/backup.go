// Package backup 定期为SQLite数据库生成一致的快照文件。
package backup

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/SlpAus/water-wars-backend/internal/platform/config"
	"github.com/SlpAus/water-wars-backend/internal/platform/metadata"
	"github.com/SlpAus/water-wars-backend/pkg/lifecycle"
	"github.com/google/logger"
	"gorm.io/gorm"
)

const filePrefix = "water_wars-"

// Snapshotter 使用 VACUUM INTO 生成快照，只支持SQLite
type Snapshotter struct {
	db   *gorm.DB
	meta *metadata.Store
	cfg  config.BackupConfig
	now  func() time.Time

	mu sync.Mutex // 避免定时任务与停机时的快照并发执行
}

// NewSnapshotter 创建快照器
func NewSnapshotter(db *gorm.DB, meta *metadata.Store, cfg config.BackupConfig) *Snapshotter {
	return &Snapshotter{db: db, meta: meta, cfg: cfg, now: time.Now}
}

// Supported 判断当前数据库是否支持快照
func (s *Snapshotter) Supported() bool {
	return s.db.Dialector.Name() == "sqlite"
}

// StartBackupScheduler 定期执行快照，直到handle收到停机信号
func (s *Snapshotter) StartBackupScheduler(handle *lifecycle.Handle) {
	defer handle.Close()
	if !s.Supported() {
		logger.Infof("备份调度器: 数据库驱动 %s 不支持快照，调度器不启动。", s.db.Dialector.Name())
		return
	}
	logger.Infof("数据库备份调度器已启动，间隔 %v，目录 %s。", s.cfg.Interval, s.cfg.Dir)

	for {
		// 休眠可被停机信号打断
		if err := handle.Sleep(s.cfg.Interval); err != nil {
			logger.Info("备份调度器: 休眠被中断，正在关闭...")
			return
		}

		path, err := s.Snapshot(handle.Ctx())
		if err != nil {
			if !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded) {
				logger.Errorf("备份调度器错误: 执行快照失败: %v", err)
			}
			continue
		}
		logger.Infof("备份调度器: 快照已写入 %s", path)
	}
}

// Snapshot 立即生成一份快照并清理多余的旧快照，返回快照路径
func (s *Snapshotter) Snapshot(ctx context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.Supported() {
		return "", fmt.Errorf("数据库驱动 %s 不支持快照", s.db.Dialector.Name())
	}
	if err := os.MkdirAll(s.cfg.Dir, 0o755); err != nil {
		return "", fmt.Errorf("无法创建备份目录: %w", err)
	}

	at := s.now().UTC()
	path := filepath.Join(s.cfg.Dir, filePrefix+at.Format("20060102T150405.000")+".db")
	// VACUUM INTO 在一个读事务中复制整个库，得到的文件是一致的
	if err := s.db.WithContext(ctx).Exec("VACUUM INTO ?", path).Error; err != nil {
		return "", fmt.Errorf("VACUUM INTO 失败: %w", err)
	}

	if s.meta != nil {
		if err := s.meta.RecordBackup(ctx, at, path); err != nil {
			logger.Warningf("备份: 无法记录备份元数据: %v", err)
		}
	}
	if err := s.prune(); err != nil {
		logger.Warningf("备份: 清理旧快照失败: %v", err)
	}
	return path, nil
}

// prune 只保留最新的 Keep 份快照
func (s *Snapshotter) prune() error {
	if s.cfg.Keep <= 0 {
		return nil
	}
	entries, err := os.ReadDir(s.cfg.Dir)
	if err != nil {
		return err
	}
	var files []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasPrefix(e.Name(), filePrefix) && strings.HasSuffix(e.Name(), ".db") {
			files = append(files, e.Name())
		}
	}
	// 文件名中的时间戳按字典序即时间序
	sort.Strings(files)
	for len(files) > s.cfg.Keep {
		if err := os.Remove(filepath.Join(s.cfg.Dir, files[0])); err != nil {
			return err
		}
		files = files[1:]
	}
	return nil
}
