package health

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/SlpAus/water-wars-backend/internal/platform/database"
	"github.com/SlpAus/water-wars-backend/internal/testutil"
	"github.com/SlpAus/water-wars-backend/pkg/lifecycle"
	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPerformCheck_TracksRedis(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })

	c := NewChecker(rdb)
	c.PerformCheck(context.Background())
	assert.Equal(t, database.RedisHealthy, database.GetRedisState())

	mr.Close()
	c.PerformCheck(context.Background())
	assert.Equal(t, database.RedisDegraded, database.GetRedisState())
}

func TestChecker_StartWithoutRedisReturns(t *testing.T) {
	m := lifecycle.NewManager("test")
	require.NoError(t, m.Go("health", NewChecker(nil).Start))
	assert.Empty(t, m.WaitWithTimeout(time.Second))
}

func TestGetHealth(t *testing.T) {
	gin.SetMode(gin.TestMode)
	db := testutil.OpenDB(t)
	started := time.Date(2026, 10, 14, 8, 0, 0, 0, time.UTC)
	h := NewHandler(db, started)
	h.now = func() time.Time { return started.Add(90 * time.Minute) }

	r := gin.New()
	r.GET("/api/health", h.GetHealth)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/health", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var rep Report
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &rep))
	assert.Equal(t, "ok", rep.Status)
	assert.Equal(t, "ok", rep.Database)
	assert.Equal(t, "1h30m0s", rep.Uptime)
	assert.NotEmpty(t, rep.Redis)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	require.NoError(t, sqlDB.Close())

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/health", nil))
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}
