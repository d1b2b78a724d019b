package conf

import (
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBootstrapDecode(t *testing.T) {
	raw := `{
		"server": {"http": {"addr": "0.0.0.0:8000", "timeout": "2s"}},
		"data": {
			"database": {"driver": "sqlite", "source": "movies.db", "conn_max_lifetime": "1h"},
			"redis": {"addr": "127.0.0.1:6379", "read_timeout": 200000000}
		},
		"auth": {"token": "secret"},
		"pagination": {"default_size": 10, "max_size": 100}
	}`

	var bc Bootstrap
	require.NoError(t, json.Unmarshal([]byte(raw), &bc))

	assert.Equal(t, "0.0.0.0:8000", bc.Server.Http.Addr)
	assert.Equal(t, 2*time.Second, bc.Server.Http.Timeout.AsDuration())
	assert.Equal(t, "sqlite", bc.Data.Database.Driver)
	assert.Equal(t, time.Hour, bc.Data.Database.ConnMaxLifetime.AsDuration())
	assert.Equal(t, 200*time.Millisecond, bc.Data.Redis.ReadTimeout.AsDuration())
	assert.Equal(t, "secret", bc.Auth.Token)
	assert.Equal(t, int32(100), bc.Pagination.MaxSize)
}

func TestDurationRejectsGarbage(t *testing.T) {
	var d Duration
	assert.Error(t, json.Unmarshal([]byte(`"soon"`), &d))
	assert.Error(t, json.Unmarshal([]byte(`true`), &d))

	require.NoError(t, json.Unmarshal([]byte(`""`), &d))
	assert.Zero(t, d.AsDuration())
}
