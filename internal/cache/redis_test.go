package cache

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rubbishit/backend/internal/config"
)

func TestNewRedis_WrongType(t *testing.T) {
	client, err := NewRedis(config.Cache{Type: "memcached"})
	require.Error(t, err)
	assert.Nil(t, client)
}

func TestNewRedis_Options(t *testing.T) {
	var cfg config.Cache
	cfg.Redis.Address = "127.0.0.1:6390"
	cfg.Redis.Password = "pw"
	cfg.Redis.PoolSize = 7

	opts := newRedis(cfg).Options()
	assert.Equal(t, "127.0.0.1:6390", opts.Addr)
	assert.Equal(t, "pw", opts.Password)
	assert.Equal(t, 7, opts.PoolSize)
}
