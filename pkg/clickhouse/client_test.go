package clickhouse

import (
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildDSN(t *testing.T) {
	cfg := ClientConfig{Port: 9000, Database: "default"}
	for _, opt := range []ClientOption{
		WithHost("ch"),
		WithPort(0),
		WithDatabase("research"),
		WithCredentials("reader", "p@ss"),
		WithTimeouts(2*time.Second, 0),
		WithReadOnly(),
		WithMaxExecutionTime(30 * time.Second),
	} {
		opt(&cfg)
	}

	u, err := url.Parse(buildDSN(cfg))
	require.NoError(t, err)
	assert.Equal(t, "clickhouse", u.Scheme)
	assert.Equal(t, "ch:9000", u.Host)
	assert.Equal(t, "/research", u.Path)
	assert.Equal(t, "reader", u.User.Username())
	pw, _ := u.User.Password()
	assert.Equal(t, "p@ss", pw)
	assert.Equal(t, "2s", u.Query().Get("dial_timeout"))
	assert.Equal(t, "2", u.Query().Get("readonly"))
	assert.Equal(t, "30", u.Query().Get("max_execution_time"))
	assert.Empty(t, u.Query().Get("read_timeout"))
}

func TestNewClient_RequiresHost(t *testing.T) {
	_, err := NewClient()
	assert.Error(t, err)
}
