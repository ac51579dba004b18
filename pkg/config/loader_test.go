package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/helpdeskhq/sendkit/pkg/config"
)

type testConfig struct {
	Interval  time.Duration `env:"TEST_SENDKIT_INTERVAL" envDefault:"2s"`
	BatchSize int           `env:"TEST_SENDKIT_BATCH_SIZE" envDefault:"5"`
	Name      string        `env:"TEST_SENDKIT_NAME"`
}

type requiredConfig struct {
	Token string `env:"TEST_SENDKIT_REQUIRED_TOKEN,required"`
}

func TestLoad_Defaults(t *testing.T) {
	config.ResetCache()

	var cfg testConfig
	require.NoError(t, config.Load(&cfg))

	assert.Equal(t, 2*time.Second, cfg.Interval)
	assert.Equal(t, 5, cfg.BatchSize)
	assert.Empty(t, cfg.Name)
}

func TestLoad_FromEnvironment(t *testing.T) {
	config.ResetCache()
	t.Setenv("TEST_SENDKIT_INTERVAL", "250ms")
	t.Setenv("TEST_SENDKIT_BATCH_SIZE", "10")
	t.Setenv("TEST_SENDKIT_NAME", "outbound")

	var cfg testConfig
	require.NoError(t, config.Load(&cfg))

	assert.Equal(t, 250*time.Millisecond, cfg.Interval)
	assert.Equal(t, 10, cfg.BatchSize)
	assert.Equal(t, "outbound", cfg.Name)
}

func TestLoad_Cached(t *testing.T) {
	config.ResetCache()
	t.Setenv("TEST_SENDKIT_BATCH_SIZE", "7")

	var first testConfig
	require.NoError(t, config.Load(&first))
	require.Equal(t, 7, first.BatchSize)

	// A later change to the environment must not affect the cached type.
	t.Setenv("TEST_SENDKIT_BATCH_SIZE", "99")

	var second testConfig
	require.NoError(t, config.Load(&second))
	assert.Equal(t, 7, second.BatchSize)
}

func TestLoad_RequiredMissing(t *testing.T) {
	config.ResetCache()

	var cfg requiredConfig
	err := config.Load(&cfg)
	require.Error(t, err)
	assert.ErrorIs(t, err, config.ErrParsingConfig)
}

func TestLoad_NilPointer(t *testing.T) {
	config.ResetCache()

	err := config.Load[testConfig](nil)
	assert.ErrorIs(t, err, config.ErrNilPointer)
}
