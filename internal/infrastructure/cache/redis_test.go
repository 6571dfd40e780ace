package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stockbill-api/pkg/config"
)

func TestNewClient_SinDireccionDevuelveNil(t *testing.T) {
	client, err := NewClient(context.Background(), config.RedisConfig{})
	require.NoError(t, err)
	assert.Nil(t, client, "sin REDIS_ADDR no hay cliente")
}

func TestNewClient_PingFallidoDegrada(t *testing.T) {
	client, err := NewClient(context.Background(), config.RedisConfig{Addr: "127.0.0.1:1"})
	require.NoError(t, err)
	assert.Nil(t, client, "si el ping falla la API sigue sin Redis")
}

func TestFixedWindowLimiter_LimiteCeroDejaPasar(t *testing.T) {
	l := NewFixedWindowLimiter(nil, 0, time.Minute)
	ok, err := l.Allow(context.Background(), "1.2.3.4")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestStockChannel_PorUsuario(t *testing.T) {
	assert.Equal(t, "stock:u-1", StockChannel("u-1"))
}
