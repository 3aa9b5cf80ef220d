package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromViper_Defaults(t *testing.T) {
	cfg, err := fromViper(viper.New())
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.App.Env)
	assert.True(t, cfg.App.IsDevelopment())
	assert.True(t, cfg.DB.AutoMigrate)
	assert.Equal(t, 10, cfg.DB.MaxConns)
	assert.True(t, cfg.Report.RoundToStep)
	assert.Equal(t, "es-CO", cfg.Report.Locale)
	assert.Equal(t, NotifyBackendLog, cfg.Notification.Backend)
	assert.Equal(t, 15*time.Minute, cfg.Notification.CodeTTL)
	assert.Equal(t, "0.0.0.0:8080", cfg.HTTP.Addr())
}

func TestFromViper_Overrides(t *testing.T) {
	v := viper.New()
	v.Set("REPORT_ROUND_TO_5_MIN", "false")
	v.Set("NOTIFY_BACKEND", "REDIS")
	v.Set("RESET_CODE_TTL_MINUTES", "5")
	v.Set("HTTP_PORT", "9090")
	v.Set("DB_AUTO_MIGRATE", "0")

	cfg, err := fromViper(v)
	require.NoError(t, err)

	assert.False(t, cfg.Report.RoundToStep)
	assert.Equal(t, NotifyBackendRedis, cfg.Notification.Backend)
	assert.Equal(t, 5*time.Minute, cfg.Notification.CodeTTL)
	assert.Equal(t, 9090, cfg.HTTP.Port)
	assert.False(t, cfg.DB.AutoMigrate)
}

func TestFromViper_BackendInvalido(t *testing.T) {
	v := viper.New()
	v.Set("NOTIFY_BACKEND", "smtp")

	_, err := fromViper(v)
	assert.Error(t, err)
}

func TestDBConfig_ConnectionString(t *testing.T) {
	c := DBConfig{Host: "db", Port: 5432, User: "app", Password: "p@ss:word", DBName: "timereg", SSLMode: "disable"}
	assert.Equal(t, "postgres://app:p%40ss%3Aword@db:5432/timereg?sslmode=disable", c.ConnectionString())

	c.DatabaseURL = "postgres://x@y/z"
	assert.Equal(t, "postgres://x@y/z", c.ConnectionString())
}
