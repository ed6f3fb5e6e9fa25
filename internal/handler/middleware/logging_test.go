//go:build unit

package middleware

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stay-booking/internal/handler/httperr"
	"stay-booking/internal/pkg/errs"
)

func newLoggedRouter(buf *bytes.Buffer) *gin.Engine {
	gin.SetMode(gin.TestMode)
	logger := slog.New(slog.NewTextHandler(buf, nil))
	r := gin.New()
	r.Use(CustomRecovery(), LoggingMiddleware(logger), ErrorHandler())
	r.GET("/api/reservations/:id", func(c *gin.Context) {
		c.String(http.StatusOK, GetRequestID(c))
	})
	r.GET("/boom", func(*gin.Context) { panic("unexpected") })
	r.GET("/late", func(c *gin.Context) {
		_ = c.Error(errs.Mark(errs.New("already confirmed"), errs.ErrInvalidTransition))
	})
	return r
}

func TestLoggingMiddleware_RequestID(t *testing.T) {
	var buf bytes.Buffer
	r := newLoggedRouter(&buf)
	resID := uuid.NewString()

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/reservations/"+resID, nil))
	generated := w.Header().Get(RequestIDHeader)
	_, err := uuid.Parse(generated)
	require.NoError(t, err)
	assert.Equal(t, generated, w.Body.String())
	assert.Contains(t, buf.String(), "resource_id="+resID)

	incoming := uuid.NewString()
	req := httptest.NewRequest(http.MethodGet, "/api/reservations/"+resID, nil)
	req.Header.Set(RequestIDHeader, incoming)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, incoming, w.Header().Get(RequestIDHeader))

	req = httptest.NewRequest(http.MethodGet, "/api/reservations/"+resID, nil)
	req.Header.Set(RequestIDHeader, "not-a-uuid")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.NotEqual(t, "not-a-uuid", w.Header().Get(RequestIDHeader))
}

func TestErrorHandlerAndRecovery(t *testing.T) {
	var buf bytes.Buffer
	r := newLoggedRouter(&buf)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/late", nil))
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), httperr.CodeInvalidTransition)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/boom", nil))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), httperr.CodeInternal)
}

func TestWithRequired(t *testing.T) {
	got := withRequired([]string{"Origin", "Authorization"}, requiredAllowHeaders)
	assert.Equal(t, []string{"Origin", "Authorization", "Content-Type", "Idempotency-Key", RequestIDHeader}, got)
}
