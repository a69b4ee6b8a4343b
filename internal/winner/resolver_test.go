package winner

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/SlpAus/water-wars-backend/internal/platform/apperror"
	"github.com/SlpAus/water-wars-backend/internal/player"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolve_NonTie(t *testing.T) {
	f := newFixture(t)
	f.drink(t, "safari", 16, today)
	f.drink(t, "safari", 12, today)
	f.drink(t, "brielle", 20, today)

	res, err := f.resolver.Resolve(context.Background(), today)
	require.NoError(t, err)
	assert.Equal(t, player.Safari, res.Winner)
	assert.Equal(t, 28, res.Amount)

	rec, err := f.winners.Get(context.Background(), today)
	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.Equal(t, "safari", rec.WinningPlayer)
	assert.Equal(t, 28, rec.WinningTotal)
}

func TestResolve_TieGoesToPrimary(t *testing.T) {
	f := newFixture(t)
	f.drink(t, "brielle", 20, today)
	f.drink(t, "safari", 20, today)

	res, err := f.resolver.Resolve(context.Background(), today)
	require.NoError(t, err)
	assert.Equal(t, player.Safari, res.Winner)
	assert.Equal(t, 20, res.Amount)
}

func TestResolve_NoEntriesWritesNothing(t *testing.T) {
	f := newFixture(t)
	f.drink(t, "safari", 20, today.AddDays(-1))

	res, err := f.resolver.Resolve(context.Background(), today)
	assert.ErrorIs(t, err, ErrNoEntries)
	assert.Nil(t, res)
	assert.Empty(t, f.winnerRows(t))
}

func TestResolve_Idempotent(t *testing.T) {
	f := newFixture(t)
	f.drink(t, "brielle", 24, today)

	_, err := f.resolver.Resolve(context.Background(), today)
	require.NoError(t, err)
	first := f.winnerRows(t)

	_, err = f.resolver.Resolve(context.Background(), today)
	require.NoError(t, err)
	second := f.winnerRows(t)

	require.Len(t, second, 1)
	assert.Equal(t, first, second)
}

func TestResolve_OverwritesAfterNewEntries(t *testing.T) {
	f := newFixture(t)
	f.drink(t, "brielle", 24, today)

	_, err := f.resolver.Resolve(context.Background(), today)
	require.NoError(t, err)
	before := f.winnerRows(t)

	f.clock.Advance(time.Hour)
	f.drink(t, "safari", 30, today)
	res, err := f.resolver.Resolve(context.Background(), today)
	require.NoError(t, err)
	assert.Equal(t, player.Safari, res.Winner)
	assert.Equal(t, 30, res.Amount)

	after := f.winnerRows(t)
	require.Len(t, after, 1)
	assert.Equal(t, before[0].ID, after[0].ID, "overwrite keeps the record id")
	assert.Equal(t, "safari", after[0].WinningPlayer)
	assert.True(t, after[0].ComputedAt.After(before[0].ComputedAt))
}

func TestResolve_ConcurrentCallsLeaveOneRecord(t *testing.T) {
	f := newFixture(t)
	f.drink(t, "safari", 10, today)

	var wg sync.WaitGroup
	errs := make(chan error, 8)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.resolver.Resolve(context.Background(), today)
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		assert.NoError(t, err)
	}
	assert.Len(t, f.winnerRows(t), 1)
}

func TestResolveToday_UsesClock(t *testing.T) {
	f := newFixture(t)
	f.drink(t, "brielle", 5, today.AddDays(1))
	f.clock.Advance(24 * time.Hour)

	res, err := f.resolver.ResolveToday(context.Background())
	require.NoError(t, err)
	assert.Equal(t, today.AddDays(1), res.Date)
	assert.Equal(t, player.Brielle, res.Winner)
}

func TestResolveRange(t *testing.T) {
	f := newFixture(t)
	f.drink(t, "safari", 10, today.AddDays(-2))
	f.drink(t, "brielle", 12, today)

	out, err := f.resolver.ResolveRange(context.Background(), today.AddDays(-2), today)
	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.Equal(t, today.AddDays(-2), out[0].Date)
	assert.Equal(t, today, out[1].Date)
	assert.Len(t, f.winnerRows(t), 2)

	_, err = f.resolver.ResolveRange(context.Background(), today, today.AddDays(-1))
	assert.True(t, apperror.IsValidation(err))
}

func TestResolve_StorageError(t *testing.T) {
	f := newFixture(t)
	sqlDB, err := f.db.DB()
	require.NoError(t, err)
	require.NoError(t, sqlDB.Close())

	_, err = f.resolver.Resolve(context.Background(), today)
	assert.True(t, apperror.IsStorage(err))
}
