package metadata

import (
	"fmt"

	"github.com/google/logger"
	"gorm.io/gorm"
)

// MigrateDB 负责自动迁移metadata表结构
func MigrateDB(db *gorm.DB) error {
	if err := db.AutoMigrate(&Metadata{}); err != nil {
		return fmt.Errorf("无法迁移metadata表: %w", err)
	}
	logger.Info("Metadata数据库表迁移成功。")
	return nil
}
