package entry

import (
	"context"
	"fmt"

	"github.com/SlpAus/water-wars-backend/internal/platform/apperror"
	"github.com/SlpAus/water-wars-backend/internal/platform/datekey"
	"github.com/SlpAus/water-wars-backend/internal/player"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Ledger 是只追加的饮水记录账本
type Ledger struct {
	db     *gorm.DB
	roster *player.Roster
	clock  datekey.Provider
}

// NewLedger 创建账本，db 可以是一个事务
func NewLedger(db *gorm.DB, roster *player.Roster, clock datekey.Provider) *Ledger {
	return &Ledger{db: db, roster: roster, clock: clock}
}

// WithTx 返回一个绑定到事务tx的账本副本
func (l *Ledger) WithTx(tx *gorm.DB) *Ledger {
	return &Ledger{db: tx, roster: l.roster, clock: l.clock}
}

// Validate 检查一条记录能否写入，返回规范化后的参赛者和日期
func (l *Ledger) Validate(rawPlayer string, amount int, rawDate string) (player.ID, datekey.Key, error) {
	id, ok := l.roster.Lookup(rawPlayer)
	if !ok {
		return "", "", apperror.Invalid("player", fmt.Sprintf("%q is not a known participant", rawPlayer))
	}
	if amount <= 0 {
		return "", "", apperror.Invalid("amount", "must be a positive number of ounces")
	}
	day, err := datekey.Parse(rawDate)
	if err != nil {
		return "", "", err
	}
	return id, day, nil
}

// Append 校验并写入一条新的记录，返回记录ID。
// 校验失败时不会产生任何写入。
func (l *Ledger) Append(ctx context.Context, rawPlayer string, amount int, rawDate string) (*Entry, error) {
	id, day, err := l.Validate(rawPlayer, amount, rawDate)
	if err != nil {
		return nil, err
	}

	entryID, err := uuid.NewV7()
	if err != nil {
		return nil, fmt.Errorf("无法生成记录ID: %w", err)
	}
	e := &Entry{
		ID:        entryID.String(),
		Player:    string(id),
		Amount:    amount,
		DateKey:   day.String(),
		CreatedAt: l.clock.Now().UTC(),
	}
	if err := l.db.WithContext(ctx).Create(e).Error; err != nil {
		return nil, apperror.Storage("append entry", err)
	}
	return e, nil
}

// List 按筛选条件列出记录，日期降序，同一天内按创建时间降序。
// 没有匹配时返回空切片而不是错误。
func (l *Ledger) List(ctx context.Context, f Filter) ([]Entry, error) {
	q := l.db.WithContext(ctx).Model(&Entry{})

	if f.DateFrom != "" {
		from, err := datekey.Parse(f.DateFrom)
		if err != nil {
			return nil, err
		}
		q = q.Where("date_key >= ?", from.String())
	}
	if f.DateTo != "" {
		to, err := datekey.Parse(f.DateTo)
		if err != nil {
			return nil, err
		}
		q = q.Where("date_key <= ?", to.String())
	}
	if f.Player != "" {
		id, ok := l.roster.Lookup(f.Player)
		if !ok {
			return []Entry{}, nil
		}
		q = q.Where("player = ?", string(id))
	}

	entries := []Entry{}
	if err := q.Order("date_key desc").Order("created_at desc").Order("id desc").Find(&entries).Error; err != nil {
		return nil, apperror.Storage("list entries", err)
	}
	return entries, nil
}

// playerSum 用于接收分组求和的结果
type playerSum struct {
	Player string
	Total  int
}

// SumByPlayer 计算闭区间[from, to]内每位参赛者的总量，没有记录的参赛者为0
func (l *Ledger) SumByPlayer(ctx context.Context, from, to datekey.Key) (player.Totals, error) {
	var rows []playerSum
	err := l.db.WithContext(ctx).Model(&Entry{}).
		Select("player, COALESCE(SUM(amount), 0) AS total").
		Where("date_key >= ? AND date_key <= ?", from.String(), to.String()).
		Group("player").
		Scan(&rows).Error
	if err != nil {
		return nil, apperror.Storage("sum entries", err)
	}

	totals := l.roster.ZeroTotals()
	for _, r := range rows {
		id := player.ID(r.Player)
		if l.roster.Contains(id) {
			totals[id] = r.Total
		}
	}
	return totals, nil
}
