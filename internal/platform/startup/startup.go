// Package startup 负责迁移数据库并组装各业务模块。
// HTTP服务和运维命令行共用同一套组装逻辑。
package startup

import (
	"fmt"

	"github.com/SlpAus/water-wars-backend/internal/aggregate"
	"github.com/SlpAus/water-wars-backend/internal/entry"
	"github.com/SlpAus/water-wars-backend/internal/platform/config"
	"github.com/SlpAus/water-wars-backend/internal/platform/datekey"
	"github.com/SlpAus/water-wars-backend/internal/platform/metadata"
	"github.com/SlpAus/water-wars-backend/internal/player"
	"github.com/SlpAus/water-wars-backend/internal/stats"
	"github.com/SlpAus/water-wars-backend/internal/winner"
	"github.com/google/logger"
	"gorm.io/gorm"
)

// MigrateAll 依次迁移所有模块的表结构
func MigrateAll(db *gorm.DB) error {
	logger.Info("开始数据库迁移...")
	if err := entry.MigrateDB(db); err != nil {
		return err
	}
	if err := winner.MigrateDB(db); err != nil {
		return err
	}
	if err := metadata.MigrateDB(db); err != nil {
		return err
	}
	logger.Info("数据库迁移完成！")
	return nil
}

// Modules 是组装完成的业务模块
type Modules struct {
	Roster *player.Roster
	Clock  datekey.Provider

	Entries  *entry.Ledger
	Winners  *winner.Ledger
	Resolver *winner.Resolver
	Stats    *stats.Engine
	Metadata *metadata.Store

	EntryService  *entry.Service
	WinnerService *winner.Service
}

// NewModules 基于db和比赛配置组装业务模块。
// clock 为nil时使用配置时区下的系统时钟。
func NewModules(db *gorm.DB, game config.GameConfig, clock datekey.Provider) (*Modules, error) {
	roster, err := player.NewRoster(game.Players...)
	if err != nil {
		return nil, fmt.Errorf("参赛者名单无效: %w", err)
	}
	if clock == nil {
		loc, err := game.Location()
		if err != nil {
			return nil, err
		}
		clock = datekey.NewSystemProvider(loc)
	}

	entries := entry.NewLedger(db, roster, clock)
	winners := winner.NewLedger(db, roster)

	return &Modules{
		Roster:        roster,
		Clock:         clock,
		Entries:       entries,
		Winners:       winners,
		Resolver:      winner.NewResolver(db, entries, winners, roster, clock),
		Metadata:      metadata.NewStore(db),
		Stats:         stats.NewEngine(aggregate.New(entries), winners, roster, clock, game.MaxWindowDays),
		EntryService:  entry.NewService(entries, clock),
		WinnerService: winner.NewService(winners, clock, game.MaxWindowDays),
	}, nil
}
