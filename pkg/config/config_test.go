package config

import (
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromViper_ValoresPorDefecto(t *testing.T) {
	cfg, err := fromViper(viper.New())
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.App.Env)
	assert.Equal(t, "ecolend-api", cfg.App.Name)
	assert.Equal(t, 5432, cfg.DB.Port)
	assert.Equal(t, 60, cfg.JWT.Expiration)
	assert.False(t, cfg.Redis.Enabled())
	assert.True(t, cfg.Scheduler.Enabled)
	assert.Equal(t, "0 0 * * * *", cfg.Scheduler.FinanceRefreshCron)
	assert.Equal(t, "0.0.0.0:8080", cfg.HTTP.Addr())
}

func TestFromViper_LeeStringsNumericos(t *testing.T) {
	v := viper.New()
	v.Set("DB_PORT", "6543")
	v.Set("LOGIN_RATE_PER_MINUTE", "not-a-number")
	v.Set("REDIS_ADDR", "localhost:6379")
	v.Set("SCHEDULER_ENABLED", "false")

	cfg, err := fromViper(v)
	require.NoError(t, err)
	assert.Equal(t, 6543, cfg.DB.Port)
	assert.Equal(t, 10, cfg.RateLimit.LoginPerMinute, "valor inválido usa el default")
	assert.True(t, cfg.Redis.Enabled())
	assert.False(t, cfg.Scheduler.Enabled)
}

func TestFromViper_ProduccionExigeSecreto(t *testing.T) {
	v := viper.New()
	v.Set("APP_ENV", "production")
	_, err := fromViper(v)
	assert.Error(t, err)

	v.Set("JWT_SECRET", "s3cr3t")
	_, err = fromViper(v)
	assert.NoError(t, err)
}

func TestDBConfig_ConnectionString(t *testing.T) {
	c := DBConfig{Host: "db", Port: 5432, User: "eco", Password: "p@ss:word", DBName: "ecolend", SSLMode: "disable"}
	assert.Equal(t, "postgres://eco:p%40ss%3Aword@db:5432/ecolend?sslmode=disable", c.ConnectionString())

	c.DatabaseURL = "postgres://x@y/z"
	assert.Equal(t, "postgres://x@y/z", c.ConnectionString())
}
