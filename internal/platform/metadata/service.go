package metadata

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/SlpAus/water-wars-backend/internal/platform/apperror"
	"github.com/SlpAus/water-wars-backend/internal/platform/datekey"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Store 读写 metadata 表
type Store struct {
	db *gorm.DB
}

// NewStore 创建元数据存储
func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

// GetValue 读取某个键的值，键不存在时返回空字符串
func (s *Store) GetValue(ctx context.Context, key string) (string, error) {
	var meta Metadata
	err := s.db.WithContext(ctx).Where("key = ?", key).First(&meta).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", nil
		}
		return "", apperror.Storage("get metadata "+key, err)
	}
	return meta.Value, nil
}

// SetValue 写入或覆盖某个键的值
func (s *Store) SetValue(ctx context.Context, key, value string) error {
	meta := Metadata{
		Key:   key,
		Value: value,
	}
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&meta).Error
	return apperror.Storage("set metadata "+key, err)
}

// --- 带类型转换的辅助方法 ---

// LoadLastSettledDay 读取调度器最近一次结算的日期，从未结算过时返回空
func (s *Store) LoadLastSettledDay(ctx context.Context) (datekey.Key, error) {
	raw, err := s.GetValue(ctx, LastSettledDayKey)
	if err != nil || raw == "" {
		return "", err
	}
	day, err := datekey.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("无法解析元数据 '%s' 的值: %w", LastSettledDayKey, err)
	}
	return day, nil
}

// SaveLastSettledDay 记录调度器最近一次结算的日期
func (s *Store) SaveLastSettledDay(ctx context.Context, day datekey.Key) error {
	return s.SetValue(ctx, LastSettledDayKey, day.String())
}

// LastBackup 返回最近一次成功备份的时间和文件，从未备份过时时间为零值
func (s *Store) LastBackup(ctx context.Context) (time.Time, string, error) {
	at, err := s.GetValue(ctx, LastBackupAtKey)
	if err != nil || at == "" {
		return time.Time{}, "", err
	}
	t, err := time.Parse(time.RFC3339, at)
	if err != nil {
		return time.Time{}, "", fmt.Errorf("无法解析元数据 '%s' 的值: %w", LastBackupAtKey, err)
	}
	file, err := s.GetValue(ctx, LastBackupFileKey)
	if err != nil {
		return time.Time{}, "", err
	}
	return t, file, nil
}

// RecordBackup 记录一次成功的备份
func (s *Store) RecordBackup(ctx context.Context, at time.Time, file string) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		txStore := NewStore(tx)
		if err := txStore.SetValue(ctx, LastBackupAtKey, at.UTC().Format(time.RFC3339)); err != nil {
			return err
		}
		return txStore.SetValue(ctx, LastBackupFileKey, file)
	})
}
