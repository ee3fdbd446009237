package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	applogger "FinLens/pkg/logger"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
)

type allowN struct{ left int }

func (a *allowN) Allow(string) bool {
	a.left--
	return a.left >= 0
}

func newEcho() *echo.Echo {
	e := echo.New()
	e.GET("/api/v1/charts/prices", func(c echo.Context) error { return c.String(http.StatusOK, "ok") })
	e.GET("/healthz", func(c echo.Context) error { return c.String(http.StatusOK, "ok") })
	e.GET("/panic", func(c echo.Context) error { panic("boom") })
	return e
}

func TestRateLimit(t *testing.T) {
	e := newEcho()
	e.Use(RateLimit(&allowN{left: 1}, "/healthz"))

	do := func(path string) int {
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		return rec.Code
	}

	assert.Equal(t, http.StatusOK, do("/api/v1/charts/prices"))
	assert.Equal(t, http.StatusTooManyRequests, do("/api/v1/charts/prices"))
	assert.Equal(t, http.StatusOK, do("/healthz"))
}

func TestRecover(t *testing.T) {
	e := newEcho()
	e.Use(Recover(applogger.Nop()))

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/panic", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestEchoMetrics(t *testing.T) {
	e := newEcho()
	e.Use(EchoMetrics(applogger.Nop(), 0))

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/charts/prices?assets=A", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())
}

func TestCORSPreflight(t *testing.T) {
	e := newEcho()
	e.Use(CORS(CORSConfig{AllowOrigins: []string{"*"}, AllowMethods: []string{http.MethodGet}}))

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	assert.Equal(t, "http://localhost:3000", rec.Header().Get("Access-Control-Allow-Origin"))
}
