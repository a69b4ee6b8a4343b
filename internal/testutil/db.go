// Package testutil 提供各模块测试共用的辅助函数。
package testutil

import (
	"path/filepath"
	"testing"

	"github.com/SlpAus/water-wars-backend/internal/platform/config"
	"github.com/SlpAus/water-wars-backend/internal/platform/database"
	"gorm.io/gorm"
)

// OpenDB 在测试临时目录中创建一个全新的SQLite数据库，并迁移给定的模型。
// 连接会在测试结束时关闭。
func OpenDB(t *testing.T, models ...interface{}) *gorm.DB {
	t.Helper()

	db, err := database.Open(config.DatabaseConfig{
		Driver: "sqlite",
		Sqlite: config.SqliteConfig{Path: filepath.Join(t.TempDir(), "test.db")},
	})
	if err != nil {
		t.Fatalf("database.Open() failed: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})

	if len(models) > 0 {
		if err := db.AutoMigrate(models...); err != nil {
			t.Fatalf("AutoMigrate() failed: %v", err)
		}
	}
	return db
}
