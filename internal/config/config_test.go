package config

import (
	"testing"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/khaisazumma/rebooku-sub000/internal/model"
	"github.com/khaisazumma/rebooku-sub000/internal/pricing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_Defaults(t *testing.T) {
	t.Setenv("AUTH_JWT_SECRET", "s3cret")

	cfg := &Config{}
	require.NoError(t, env.Parse(cfg))

	assert.Equal(t, "development", cfg.Environment.Name)
	assert.Equal(t, "8080", cfg.HTTP.Port)
	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, "db", cfg.CartStore)
	assert.Equal(t, 24*time.Hour, cfg.Auth.TokenTTL)
	assert.Equal(t, 5, cfg.RateLimit.Burst)

	// defaults must agree with the built-in schedule
	assert.Equal(t, pricing.DefaultFeeSchedule(), cfg.Fees.Schedule())
}

func TestParse_Overrides(t *testing.T) {
	t.Setenv("AUTH_JWT_SECRET", "s3cret")
	t.Setenv("DATABASE_DRIVER", "mysql")
	t.Setenv("DATABASE_URL", "user:pass@tcp(db:3306)/rebooku?parseTime=true")
	t.Setenv("FEE_SHIPPING_EXPRESS", "30000")
	t.Setenv("CART_STORE", "redis")
	t.Setenv("REDIS_ADDR", "cache:6379")

	cfg := &Config{}
	require.NoError(t, env.Parse(cfg))

	assert.Equal(t, "mysql", cfg.Database.Driver)
	assert.Equal(t, "redis", cfg.CartStore)
	assert.Equal(t, "cache:6379", cfg.Redis.Addr)
	assert.Equal(t, "30000", cfg.Fees.Schedule().Shipping[model.ShippingExpress].String())
}

func TestParse_RequiresJWTSecret(t *testing.T) {
	cfg := &Config{}
	assert.Error(t, env.Parse(cfg))
}
