package entry

import (
	"context"

	"github.com/SlpAus/water-wars-backend/internal/aggregate"
	"github.com/SlpAus/water-wars-backend/internal/platform/datekey"
	"github.com/SlpAus/water-wars-backend/internal/player"
	"github.com/google/logger"
)

// Service 是传输层记录和查询饮水量的入口
type Service struct {
	ledger *Ledger
	agg    *aggregate.Aggregator
	clock  datekey.Provider
}

// NewService 创建饮水记录服务
func NewService(ledger *Ledger, clock datekey.Provider) *Service {
	return &Service{
		ledger: ledger,
		agg:    aggregate.New(ledger),
		clock:  clock,
	}
}

// Record 把一次饮水计入今天
func (s *Service) Record(ctx context.Context, rawPlayer string, amount int) (*Entry, error) {
	e, err := s.ledger.Append(ctx, rawPlayer, amount, s.clock.Today().String())
	if err != nil {
		return nil, err
	}
	logger.Infof("新增饮水记录: %s +%d oz (%s)", e.Player, e.Amount, e.DateKey)
	return e, nil
}

// Today 返回今天每位参赛者的总量
func (s *Service) Today(ctx context.Context) (player.Totals, error) {
	return s.agg.TotalsForDay(ctx, s.clock.Today())
}

// List 透传到账本
func (s *Service) List(ctx context.Context, f Filter) ([]Entry, error) {
	return s.ledger.List(ctx, f)
}
