package stats

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetStats(t *testing.T) {
	gin.SetMode(gin.TestMode)
	e := newEnv(t)
	e.drink(t, "brielle", 24, today)
	e.resolve(t, today)

	r := gin.New()
	r.GET("/api/stats", NewHandler(e.engine, 30).GetStats)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/stats?days=1", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"safari":{"total":0,"wins":0},"brielle":{"total":24,"wins":1}}`, w.Body.String())

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/stats?days=zero", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
