package http

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sampleRequest struct {
	Assets string `query:"assets" validate:"required"`
	Start  string `query:"start" validate:"omitempty,datetime=2006-01-02"`
	Window int    `query:"window" default:"60" validate:"gte=2,lte=2520"`
}

func bind(t *testing.T, target string, req interface{}) interface{} {
	t.Helper()
	e := echo.New()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, target, nil), httptest.NewRecorder())
	return ReadAndValidateRequest(c, req)
}

func TestReadAndValidateRequest_Defaults(t *testing.T) {
	var req sampleRequest
	errs := bind(t, "/?assets=AAPL,MSFT", &req)

	assert.Nil(t, errs)
	assert.Equal(t, "AAPL,MSFT", req.Assets)
	assert.Equal(t, 60, req.Window)
}

func TestReadAndValidateRequest_Errors(t *testing.T) {
	var req sampleRequest
	errs := bind(t, "/?start=01-02-2024&window=1", &req)

	list, ok := errs.([]ValidationError)
	require.True(t, ok)
	require.Len(t, list, 3)

	byField := map[string]ValidationError{}
	for _, e := range list {
		byField[e.Field] = e
	}
	assert.Equal(t, "ERR_REQUIRED", byField["assets"].Code)
	assert.Equal(t, "ERR_DATETIME", byField["start"].Code)
	assert.Equal(t, "ERR_GTE", byField["window"].Code)
}

func TestCanonicalQuery(t *testing.T) {
	a := httptest.NewRequest(http.MethodGet, "/?b=2&a=1&a=0", nil)
	b := httptest.NewRequest(http.MethodGet, "/?a=0&b=2&a=1", nil)
	assert.Equal(t, CanonicalQuery(a.URL.Query()), CanonicalQuery(b.URL.Query()))
	assert.Equal(t, "a=0&a=1&b=2", CanonicalQuery(a.URL.Query()))
}
