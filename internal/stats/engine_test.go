package stats

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/SlpAus/water-wars-backend/internal/aggregate"
	"github.com/SlpAus/water-wars-backend/internal/entry"
	"github.com/SlpAus/water-wars-backend/internal/platform/apperror"
	"github.com/SlpAus/water-wars-backend/internal/platform/datekey"
	"github.com/SlpAus/water-wars-backend/internal/player"
	"github.com/SlpAus/water-wars-backend/internal/testutil"
	"github.com/SlpAus/water-wars-backend/internal/winner"
	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const today datekey.Key = "2026-10-14"

type env struct {
	clock    *datekey.FixedProvider
	entries  *entry.Ledger
	resolver *winner.Resolver
	engine   *Engine
}

func newEnv(t *testing.T) *env {
	t.Helper()
	db := testutil.OpenDB(t, &entry.Entry{}, &winner.Record{})
	roster := player.DefaultRoster()
	clock := datekey.NewFixedProviderAt(today)
	entries := entry.NewLedger(db, roster, clock)
	winners := winner.NewLedger(db, roster)
	return &env{
		clock:    clock,
		entries:  entries,
		resolver: winner.NewResolver(db, entries, winners, roster, clock),
		engine:   NewEngine(aggregate.New(entries), winners, roster, clock, 365),
	}
}

func (e *env) drink(t *testing.T, p string, amount int, day datekey.Key) {
	t.Helper()
	_, err := e.entries.Append(context.Background(), p, amount, day.String())
	require.NoError(t, err)
}

func (e *env) resolve(t *testing.T, day datekey.Key) {
	t.Helper()
	_, err := e.resolver.Resolve(context.Background(), day)
	require.NoError(t, err)
}

func TestForWindow_SingleDay(t *testing.T) {
	e := newEnv(t)
	e.drink(t, "brielle", 24, today)
	e.resolve(t, today)

	report, err := e.engine.ForWindow(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, Report{
		player.Safari:  {Total: 0, Wins: 0},
		player.Brielle: {Total: 24, Wins: 1},
	}, report)
}

func TestForWindow_EmptyLedger(t *testing.T) {
	e := newEnv(t)

	report, err := e.engine.ForWindow(context.Background(), 30)
	require.NoError(t, err)
	assert.Len(t, report, 2)
	for _, s := range report {
		assert.Equal(t, PlayerStats{}, s)
	}
}

func TestForWindow_RespectsBounds(t *testing.T) {
	e := newEnv(t)
	// 窗口为7天时包含 today-6，不包含 today-7
	e.drink(t, "safari", 10, today.AddDays(-6))
	e.drink(t, "safari", 99, today.AddDays(-7))
	e.resolve(t, today.AddDays(-6))
	e.resolve(t, today.AddDays(-7))
	// 明天的记录不在窗口内
	e.drink(t, "brielle", 50, today.AddDays(1))

	report, err := e.engine.ForWindow(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, PlayerStats{Total: 10, Wins: 1}, report[player.Safari])
	assert.Equal(t, PlayerStats{}, report[player.Brielle])
}

func TestForWindow_DoesNotResolve(t *testing.T) {
	e := newEnv(t)
	e.drink(t, "safari", 10, today)

	report, err := e.engine.ForWindow(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, PlayerStats{Total: 10, Wins: 0}, report[player.Safari])
}

func TestForWindow_InvalidDays(t *testing.T) {
	e := newEnv(t)

	for _, days := range []int{0, -1, 366} {
		_, err := e.engine.ForWindow(context.Background(), days)
		assert.True(t, apperror.IsValidation(err), "days=%d", days)
	}
}

type failingCounter struct{}

func (failingCounter) CountWins(context.Context, datekey.Key, datekey.Key) (map[player.ID]int, error) {
	return nil, apperror.Storage("count wins", errors.New("disk on fire"))
}

func TestForWindow_StorageErrorPropagates(t *testing.T) {
	e := newEnv(t)
	eng := NewEngine(aggregate.New(e.entries), failingCounter{}, player.DefaultRoster(), e.clock, 0)

	_, err := eng.ForWindow(context.Background(), 30)
	assert.True(t, apperror.IsStorage(err))
}

func TestForWindow_Golden(t *testing.T) {
	e := newEnv(t)
	for i := 0; i < 5; i++ {
		day := today.AddDays(-i)
		e.drink(t, "safari", 20+i, day)
		e.drink(t, "brielle", 22, day)
		e.resolve(t, day)
		e.clock.Advance(time.Minute)
	}

	report, err := e.engine.ForWindow(context.Background(), 30)
	require.NoError(t, err)
	got, err := json.Marshal(report)
	require.NoError(t, err)

	g := goldie.New(t)
	g.Assert(t, "stats_window", got)
}
