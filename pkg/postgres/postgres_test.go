package postgres

import (
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm/logger"
)

func TestValidateConfig(t *testing.T) {
	cfg := &Config{Host: "localhost", Port: "5432", User: "postgres", Passwd: "123456", DB: "quota"}
	require.NoError(t, validateConfig(cfg))

	require.Equal(t, defaultSSLMode, cfg.SSLMode)
	require.Equal(t, logger.Warn, cfg.LogLevel)
	require.Equal(t, defaultMaxOpenConns, cfg.Connection.MaxOpen)
	require.Equal(t, defaultMaxIdleConns, cfg.Connection.MaxIdle)
	require.Equal(t, defaultMaxLifetime, cfg.Connection.MaxLifetime)
}

func TestValidateConfigMissingFields(t *testing.T) {
	for name, cfg := range map[string]Config{
		"host":     {Port: "5432", User: "u", Passwd: "p", DB: "d"},
		"port":     {Host: "h", User: "u", Passwd: "p", DB: "d"},
		"user":     {Host: "h", Port: "5432", Passwd: "p", DB: "d"},
		"password": {Host: "h", Port: "5432", User: "u", DB: "d"},
		"db":       {Host: "h", Port: "5432", User: "u", Passwd: "p"},
	} {
		cfg := cfg
		t.Run(name, func(t *testing.T) {
			require.Error(t, validateConfig(&cfg))
		})
	}
}

func TestNewClientNilArgs(t *testing.T) {
	_, err := NewClient(nil, zap.NewNop())
	require.Error(t, err)

	_, err = NewClient(&Config{}, nil)
	require.Error(t, err)
}
