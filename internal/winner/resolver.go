package winner

import (
	"context"
	"errors"
	"fmt"

	"github.com/SlpAus/water-wars-backend/internal/aggregate"
	"github.com/SlpAus/water-wars-backend/internal/entry"
	"github.com/SlpAus/water-wars-backend/internal/platform/apperror"
	"github.com/SlpAus/water-wars-backend/internal/platform/datekey"
	"github.com/SlpAus/water-wars-backend/internal/player"
	"github.com/google/logger"
	"gorm.io/gorm"
)

// ErrNoEntries 表示当天没有任何饮水记录，因此没有胜者。这不是一个故障。
var ErrNoEntries = errors.New("no entries for this day")

// Resolution 是一次结算的结果
type Resolution struct {
	Date   datekey.Key `json:"date"`
	Winner player.ID   `json:"winner"`
	Amount int         `json:"amount"`
}

// Resolver 计算某一天的胜者并写入胜者账本
type Resolver struct {
	db      *gorm.DB
	entries *entry.Ledger
	winners *Ledger
	roster  *player.Roster
	clock   datekey.Provider
}

// NewResolver 创建结算器
func NewResolver(db *gorm.DB, entries *entry.Ledger, winners *Ledger, roster *player.Roster, clock datekey.Provider) *Resolver {
	return &Resolver{
		db:      db,
		entries: entries,
		winners: winners,
		roster:  roster,
		clock:   clock,
	}
}

// Resolve 结算某一天：汇总当天总量，选出胜者并覆盖写入胜者记录。
// 读取、汇总与写入在同一个事务中完成；当天没有记录时返回 ErrNoEntries 且不写入。
// 对未变化的账本重复调用结果不变，因此调用方可以放心重试。
func (r *Resolver) Resolve(ctx context.Context, day datekey.Key) (*Resolution, error) {
	var res *Resolution
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// 1. 在事务内汇总当天的总量
		totals, err := aggregate.New(r.entries.WithTx(tx)).TotalsForDay(ctx, day)
		if err != nil {
			return err
		}

		// 2. 选出总量严格最大者，并列时主参赛者获胜
		winner, amount, ok := r.roster.Leader(totals)
		if !ok {
			return ErrNoEntries
		}

		// 3. 覆盖写入当天唯一的胜者记录
		if err := r.winners.WithTx(tx).Upsert(ctx, day, winner, amount, r.clock.Now()); err != nil {
			return err
		}
		res = &Resolution{Date: day, Winner: winner, Amount: amount}
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrNoEntries) || apperror.IsStorage(err) {
			return nil, err
		}
		return nil, apperror.Storage("resolve winner", err)
	}
	return res, nil
}

// ResolveToday 结算今天
func (r *Resolver) ResolveToday(ctx context.Context) (*Resolution, error) {
	return r.Resolve(ctx, r.clock.Today())
}

// ResolveRange 依次重新结算闭区间内的每一天，跳过没有记录的日期。
// 这是唯一会改写历史胜者的入口，只由运维命令行显式调用。
func (r *Resolver) ResolveRange(ctx context.Context, from, to datekey.Key) ([]Resolution, error) {
	if from > to {
		return nil, apperror.Invalid("range", fmt.Sprintf("%s is after %s", from, to))
	}
	var out []Resolution
	for _, day := range datekey.Days(from, to) {
		res, err := r.Resolve(ctx, day)
		if errors.Is(err, ErrNoEntries) {
			continue
		}
		if err != nil {
			return out, fmt.Errorf("结算 %s 失败: %w", day, err)
		}
		out = append(out, *res)
	}
	logger.Infof("重新结算完成: %s ~ %s，共 %d 天有胜者", from, to, len(out))
	return out, nil
}
