package winner

import (
	"context"

	"github.com/SlpAus/water-wars-backend/internal/platform/datekey"
)

// Service 提供胜者列表查询
type Service struct {
	winners *Ledger
	clock   datekey.Provider
	maxDays int
}

// NewService 创建胜者查询服务，maxDays 是窗口上限
func NewService(winners *Ledger, clock datekey.Provider, maxDays int) *Service {
	return &Service{winners: winners, clock: clock, maxDays: maxDays}
}

// Recent 返回以今天结尾、长度为days天的窗口内的胜者记录，最近的在前
func (s *Service) Recent(ctx context.Context, days int) ([]Record, error) {
	from, to, err := datekey.Window(s.clock, days, s.maxDays)
	if err != nil {
		return nil, err
	}
	return s.winners.ListRange(ctx, from, to)
}
