package winner

import (
	"context"
	"testing"

	"github.com/SlpAus/water-wars-backend/internal/entry"
	"github.com/SlpAus/water-wars-backend/internal/platform/datekey"
	"github.com/SlpAus/water-wars-backend/internal/player"
	"github.com/SlpAus/water-wars-backend/internal/testutil"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

const today datekey.Key = "2026-10-14"

type fixture struct {
	db       *gorm.DB
	clock    *datekey.FixedProvider
	entries  *entry.Ledger
	winners  *Ledger
	resolver *Resolver
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := testutil.OpenDB(t, &entry.Entry{}, &Record{})
	roster := player.DefaultRoster()
	clock := datekey.NewFixedProviderAt(today)
	entries := entry.NewLedger(db, roster, clock)
	winners := NewLedger(db, roster)
	return &fixture{
		db:       db,
		clock:    clock,
		entries:  entries,
		winners:  winners,
		resolver: NewResolver(db, entries, winners, roster, clock),
	}
}

func (f *fixture) drink(t *testing.T, p string, amount int, day datekey.Key) {
	t.Helper()
	_, err := f.entries.Append(context.Background(), p, amount, day.String())
	require.NoError(t, err)
}

func (f *fixture) winnerRows(t *testing.T) []Record {
	t.Helper()
	var rows []Record
	require.NoError(t, f.db.Order("date_key").Find(&rows).Error)
	return rows
}
