// Package aggregate 在饮水记录账本之上计算按日和按区间的汇总。
// 不做任何缓存，每次调用都反映账本的当前状态。
package aggregate

import (
	"context"

	"github.com/SlpAus/water-wars-backend/internal/platform/datekey"
	"github.com/SlpAus/water-wars-backend/internal/player"
)

// Summer 是Aggregator对账本的唯一依赖
type Summer interface {
	SumByPlayer(ctx context.Context, from, to datekey.Key) (player.Totals, error)
}

// Aggregator 计算每位参赛者的总量
type Aggregator struct {
	src Summer
}

// New 创建一个基于src的Aggregator
func New(src Summer) *Aggregator {
	return &Aggregator{src: src}
}

// TotalsForDay 返回某一天的总量
func (a *Aggregator) TotalsForDay(ctx context.Context, day datekey.Key) (player.Totals, error) {
	return a.src.SumByPlayer(ctx, day, day)
}

// TotalsForRange 返回闭区间[from, to]内的总量
func (a *Aggregator) TotalsForRange(ctx context.Context, from, to datekey.Key) (player.Totals, error) {
	return a.src.SumByPlayer(ctx, from, to)
}
