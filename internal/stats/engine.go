// Package stats 汇总一个日期窗口内每位参赛者的总饮水量和获胜天数。
package stats

import (
	"context"

	"github.com/SlpAus/water-wars-backend/internal/aggregate"
	"github.com/SlpAus/water-wars-backend/internal/platform/datekey"
	"github.com/SlpAus/water-wars-backend/internal/player"
)

// PlayerStats 是单个参赛者在窗口内的统计
type PlayerStats struct {
	Total int `json:"total"`
	Wins  int `json:"wins"`
}

// Report 以参赛者为键
type Report map[player.ID]PlayerStats

// WinCounter 统计窗口内的获胜天数，由胜者账本实现
type WinCounter interface {
	CountWins(ctx context.Context, from, to datekey.Key) (map[player.ID]int, error)
}

// Engine 只读取已有的胜者记录，从不重新结算
type Engine struct {
	agg     *aggregate.Aggregator
	wins    WinCounter
	roster  *player.Roster
	clock   datekey.Provider
	maxDays int
}

// NewEngine 创建统计引擎
func NewEngine(agg *aggregate.Aggregator, wins WinCounter, roster *player.Roster, clock datekey.Provider, maxDays int) *Engine {
	return &Engine{agg: agg, wins: wins, roster: roster, clock: clock, maxDays: maxDays}
}

// ForWindow 返回以今天结尾、长度为days天的窗口统计，每位参赛者都有一项
func (e *Engine) ForWindow(ctx context.Context, days int) (Report, error) {
	from, to, err := datekey.Window(e.clock, days, e.maxDays)
	if err != nil {
		return nil, err
	}
	return e.ForRange(ctx, from, to)
}

// ForRange 返回闭区间[from, to]内的统计
func (e *Engine) ForRange(ctx context.Context, from, to datekey.Key) (Report, error) {
	totals, err := e.agg.TotalsForRange(ctx, from, to)
	if err != nil {
		return nil, err
	}
	wins, err := e.wins.CountWins(ctx, from, to)
	if err != nil {
		return nil, err
	}

	report := make(Report, len(e.roster.IDs()))
	for _, id := range e.roster.IDs() {
		report[id] = PlayerStats{Total: totals[id], Wins: wins[id]}
	}
	return report, nil
}
