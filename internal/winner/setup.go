package winner

import (
	"fmt"

	"github.com/google/logger"
	"gorm.io/gorm"
)

// MigrateDB 负责自动迁移胜者表结构
func MigrateDB(db *gorm.DB) error {
	if err := db.AutoMigrate(&Record{}); err != nil {
		return fmt.Errorf("无法迁移daily_winners表: %w", err)
	}
	logger.Info("Winner数据库表迁移成功。")
	return nil
}
