package winner

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/SlpAus/water-wars-backend/internal/platform/apperror"
	"github.com/SlpAus/water-wars-backend/internal/platform/datekey"
	"github.com/SlpAus/water-wars-backend/internal/player"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Ledger 是按日期唯一的胜者账本
type Ledger struct {
	db     *gorm.DB
	roster *player.Roster
}

// NewLedger 创建胜者账本，db 可以是一个事务
func NewLedger(db *gorm.DB, roster *player.Roster) *Ledger {
	return &Ledger{db: db, roster: roster}
}

// WithTx 返回一个绑定到事务tx的账本副本
func (l *Ledger) WithTx(tx *gorm.DB) *Ledger {
	return &Ledger{db: tx, roster: l.roster}
}

// Upsert 写入或覆盖某一天的胜者。
// 使用 OnConflict 让数据库的唯一约束保证并发结算也只会留下一条记录。
func (l *Ledger) Upsert(ctx context.Context, day datekey.Key, winner player.ID, total int, computedAt time.Time) error {
	id, err := uuid.NewV7()
	if err != nil {
		return fmt.Errorf("无法生成胜者记录ID: %w", err)
	}
	rec := Record{
		ID:            id.String(),
		DateKey:       day.String(),
		WinningPlayer: string(winner),
		WinningTotal:  total,
		ComputedAt:    computedAt.UTC(),
	}
	err = l.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "date_key"}},
		DoUpdates: clause.AssignmentColumns([]string{"winning_player", "winning_total", "computed_at"}),
	}).Create(&rec).Error
	return apperror.Storage("upsert winner", err)
}

// Get 返回某一天的胜者记录，不存在时返回 nil, nil
func (l *Ledger) Get(ctx context.Context, day datekey.Key) (*Record, error) {
	var rec Record
	err := l.db.WithContext(ctx).Where("date_key = ?", day.String()).First(&rec).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, apperror.Storage("get winner", err)
	}
	return &rec, nil
}

// ListRange 返回闭区间[from, to]内的胜者记录，最近的日期在前
func (l *Ledger) ListRange(ctx context.Context, from, to datekey.Key) ([]Record, error) {
	records := []Record{}
	err := l.db.WithContext(ctx).
		Where("date_key >= ? AND date_key <= ?", from.String(), to.String()).
		Order("date_key desc").
		Find(&records).Error
	if err != nil {
		return nil, apperror.Storage("list winners", err)
	}
	return records, nil
}

// winCount 用于接收分组计数的结果
type winCount struct {
	WinningPlayer string
	Wins          int
}

// CountWins 统计闭区间[from, to]内每位参赛者的获胜天数，没有获胜的参赛者为0
func (l *Ledger) CountWins(ctx context.Context, from, to datekey.Key) (map[player.ID]int, error) {
	var rows []winCount
	err := l.db.WithContext(ctx).Model(&Record{}).
		Select("winning_player, COUNT(*) AS wins").
		Where("date_key >= ? AND date_key <= ?", from.String(), to.String()).
		Group("winning_player").
		Scan(&rows).Error
	if err != nil {
		return nil, apperror.Storage("count wins", err)
	}

	wins := make(map[player.ID]int, len(l.roster.IDs()))
	for _, id := range l.roster.IDs() {
		wins[id] = 0
	}
	for _, r := range rows {
		id := player.ID(r.WinningPlayer)
		if l.roster.Contains(id) {
			wins[id] = r.Wins
		}
	}
	return wins, nil
}
