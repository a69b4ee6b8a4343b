package entry

import (
	"fmt"

	"github.com/google/logger"
	"gorm.io/gorm"
)

// MigrateDB 负责自动迁移饮水记录表结构
func MigrateDB(db *gorm.DB) error {
	if err := db.AutoMigrate(&Entry{}); err != nil {
		return fmt.Errorf("无法迁移water_entries表: %w", err)
	}
	logger.Info("Entry数据库表迁移成功。")
	return nil
}
