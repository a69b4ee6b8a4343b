package database

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
)

func TestIsRetryableError(t *testing.T) {
	assert.False(t, IsRetryableError(nil))
	assert.False(t, IsRetryableError(errors.New("no such table")))

	assert.True(t, IsRetryableError(sqlite3.Error{Code: sqlite3.ErrBusy}))
	assert.True(t, IsRetryableError(fmt.Errorf("tx: %w", sqlite3.Error{Code: sqlite3.ErrLocked})))
	assert.False(t, IsRetryableError(sqlite3.Error{Code: sqlite3.ErrConstraint}))

	assert.True(t, IsRetryableError(&pgconn.PgError{Code: "40001"}))
	assert.False(t, IsRetryableError(&pgconn.PgError{Code: "23505"}))

	assert.True(t, IsRetryableError(errors.New("database is locked")))
}

func TestSqliteDSN(t *testing.T) {
	assert.Equal(t, "a.db?"+sqlitePragmas, sqliteDSN("a.db"))
	assert.Equal(t, "file:a.db?cache=shared&"+sqlitePragmas, sqliteDSN("file:a.db?cache=shared"))
}

func TestUpdateStatus(t *testing.T) {
	globalStatus.setDisabled()
	assert.Equal(t, RedisDisabled, GetRedisState())

	UpdateStatus(true)
	assert.True(t, IsRedisHealthy())

	UpdateStatus(false)
	assert.Equal(t, RedisDegraded, GetRedisState())
	assert.False(t, IsRedisHealthy())

	globalStatus.setDisabled()
}
