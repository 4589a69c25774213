package config

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("DATA_DIR", filepath.Join(dir, "data"))
	t.Setenv("MODEL_PATH", "")
	t.Setenv("PORT", "")
	t.Setenv("LOG_LEVEL", "")
	t.Setenv("DEV_MODE", "")
	t.Setenv("CURRENCY_SYMBOL", "")
	t.Setenv("ANIMATION_URL", "")
	t.Setenv("ANIMATION_TIMEOUT", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(dir, "data"), cfg.DataDir)
	assert.DirExists(t, cfg.DataDir)
	assert.Equal(t, "salary_predictor.msgpack", cfg.ModelPath)
	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.False(t, cfg.DevMode)
	assert.Equal(t, "₹", cfg.CurrencySymbol)
	assert.Empty(t, cfg.AnimationURL)
	assert.Equal(t, 3*time.Second, cfg.AnimationTimeout)
	assert.Equal(t, filepath.Join(dir, "data", "config.db"), cfg.ConfigDBPath())
}

func TestLoad_FromEnvironment(t *testing.T) {
	t.Setenv("DATA_DIR", t.TempDir())
	t.Setenv("MODEL_PATH", "models/census.msgpack")
	t.Setenv("PORT", "9090")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("DEV_MODE", "true")
	t.Setenv("CURRENCY_SYMBOL", "$")
	t.Setenv("ANIMATION_URL", "https://assets.example.com/salary.json")
	t.Setenv("ANIMATION_TIMEOUT", "500ms")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "models/census.msgpack", cfg.ModelPath)
	assert.Equal(t, 9090, cfg.Port)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.True(t, cfg.DevMode)
	assert.Equal(t, "$", cfg.CurrencySymbol)
	assert.Equal(t, "https://assets.example.com/salary.json", cfg.AnimationURL)
	assert.Equal(t, 500*time.Millisecond, cfg.AnimationTimeout)
}

func TestLoad_MalformedValuesFallBack(t *testing.T) {
	t.Setenv("DATA_DIR", t.TempDir())
	t.Setenv("PORT", "not-a-port")
	t.Setenv("DEV_MODE", "maybe")
	t.Setenv("ANIMATION_TIMEOUT", "soon")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Port)
	assert.False(t, cfg.DevMode)
	assert.Equal(t, 3*time.Second, cfg.AnimationTimeout)
}

func TestValidate(t *testing.T) {
	valid := Config{Port: 8080, ModelPath: "model.msgpack", AnimationTimeout: time.Second}
	assert.NoError(t, valid.Validate())

	badPort := valid
	badPort.Port = 0
	assert.Error(t, badPort.Validate())

	noModel := valid
	noModel.ModelPath = "  "
	assert.Error(t, noModel.Validate())

	noTimeout := valid
	noTimeout.AnimationTimeout = 0
	assert.Error(t, noTimeout.Validate())
}
