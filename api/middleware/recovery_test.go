package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yourusername/fetchbar/pkg/logger"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func newPanickingRouter(log *zap.Logger, events *logger.MultiLogger) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(Recovery(log, events))
	router.GET("/boom", func(c *gin.Context) {
		panic("history store gone")
	})
	router.GET("/ok", func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})
	return router
}

func TestRecovery_WritesErrorCategory(t *testing.T) {
	dir := t.TempDir()
	events, err := logger.NewMultiLogger(logger.MultiLoggerConfig{Level: "info", LogsDir: dir})
	require.NoError(t, err)
	defer events.Close()

	core, logs := observer.New(zapcore.ErrorLevel)
	router := newPanickingRouter(zap.New(core), events)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/boom", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"error":"Internal server error"}`, w.Body.String())

	require.Equal(t, 1, logs.FilterMessage("Panic recovered").Len())
	assert.Equal(t, "history store gone", logs.All()[0].ContextMap()["panic"])

	require.NoError(t, events.Sync())
	entries, err := logger.NewLogReader(dir).ReadLogs(logger.CategoryError, time.Now(), 0)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "Panic recovered", entries[0].Message)
	assert.Equal(t, "error", entries[0].Level)
	assert.Equal(t, "/boom", entries[0].Fields["path"])
	assert.Equal(t, float64(http.StatusInternalServerError), entries[0].Fields["status"])
}

func TestRecovery_WithoutEvents(t *testing.T) {
	router := newPanickingRouter(zap.NewNop(), nil)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/boom", nil))
	assert.Equal(t, http.StatusInternalServerError, w.Code)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ok", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ok", w.Body.String())
}
