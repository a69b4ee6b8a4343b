package winner

import (
	"context"
	"testing"
	"time"

	"github.com/SlpAus/water-wars-backend/internal/player"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUpsert_OneRowPerDate(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	at := f.clock.Now()

	require.NoError(t, f.winners.Upsert(ctx, today, player.Safari, 10, at))
	require.NoError(t, f.winners.Upsert(ctx, today, player.Brielle, 12, at.Add(time.Minute)))
	require.NoError(t, f.winners.Upsert(ctx, today.AddDays(-1), player.Safari, 8, at))

	rows := f.winnerRows(t)
	require.Len(t, rows, 2)
	assert.Equal(t, "brielle", rows[1].WinningPlayer)
	assert.Equal(t, 12, rows[1].WinningTotal)
}

func TestGet_Missing(t *testing.T) {
	f := newFixture(t)

	rec, err := f.winners.Get(context.Background(), today)
	require.NoError(t, err)
	assert.Nil(t, rec)
}

func TestListRange_MostRecentFirst(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	at := f.clock.Now()
	for i := 0; i < 5; i++ {
		require.NoError(t, f.winners.Upsert(ctx, today.AddDays(-i), player.Safari, 10+i, at))
	}

	got, err := f.winners.ListRange(ctx, today.AddDays(-2), today)
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, today.String(), got[0].DateKey)
	assert.Equal(t, today.AddDays(-2).String(), got[2].DateKey)

	empty, err := f.winners.ListRange(ctx, "2001-01-01", "2001-01-31")
	require.NoError(t, err)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)
}

func TestCountWins_ZeroFilled(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	at := f.clock.Now()
	require.NoError(t, f.winners.Upsert(ctx, today, player.Brielle, 24, at))
	require.NoError(t, f.winners.Upsert(ctx, today.AddDays(-1), player.Brielle, 20, at))
	require.NoError(t, f.winners.Upsert(ctx, today.AddDays(-40), player.Safari, 30, at))

	wins, err := f.winners.CountWins(ctx, today.AddDays(-29), today)
	require.NoError(t, err)
	assert.Equal(t, map[player.ID]int{player.Safari: 0, player.Brielle: 2}, wins)
}
