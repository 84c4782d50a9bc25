package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/streamcast/core/config"
)

type testConfig struct {
	Addr     string        `env:"TEST_CONFIG_ADDR" envDefault:":40000"`
	Interval time.Duration `env:"TEST_CONFIG_INTERVAL" envDefault:"500ms"`
	Verbose  bool          `env:"TEST_CONFIG_VERBOSE" envDefault:"false"`
}

type overrideConfig struct {
	Name string `env:"TEST_CONFIG_NAME" envDefault:"streamcast"`
}

func TestLoad(t *testing.T) {
	t.Run("applies defaults", func(t *testing.T) {
		var cfg testConfig
		require.NoError(t, config.Load(&cfg))

		assert.Equal(t, ":40000", cfg.Addr)
		assert.Equal(t, 500*time.Millisecond, cfg.Interval)
		assert.False(t, cfg.Verbose)
	})

	t.Run("returns cached value on second load", func(t *testing.T) {
		var first testConfig
		require.NoError(t, config.Load(&first))

		// Changing the environment after the first load must not matter.
		t.Setenv("TEST_CONFIG_ADDR", ":50000")

		var second testConfig
		require.NoError(t, config.Load(&second))
		assert.Equal(t, first, second)
	})

	t.Run("reads environment variables", func(t *testing.T) {
		t.Setenv("TEST_CONFIG_NAME", "overlay")

		var cfg overrideConfig
		require.NoError(t, config.Load(&cfg))
		assert.Equal(t, "overlay", cfg.Name)
	})

	t.Run("rejects non-pointer target", func(t *testing.T) {
		err := config.Load(testConfig{})
		assert.ErrorIs(t, err, config.ErrNilConfig)
	})

	t.Run("rejects nil target", func(t *testing.T) {
		err := config.Load(nil)
		assert.ErrorIs(t, err, config.ErrNilConfig)
	})
}

func TestMustLoad(t *testing.T) {
	t.Run("panics on invalid target", func(t *testing.T) {
		assert.Panics(t, func() {
			config.MustLoad(42)
		})
	})

	t.Run("does not panic on valid target", func(t *testing.T) {
		assert.NotPanics(t, func() {
			var cfg testConfig
			config.MustLoad(&cfg)
		})
	})
}
