package config_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codekeep/codekeep/core/config"
)

func TestLoad(t *testing.T) {
	t.Run("parses_environment_variables", func(t *testing.T) {
		type storageConfig struct {
			Driver string `env:"TEST_STORAGE_DRIVER" envDefault:"memory"`
			Limit  int    `env:"TEST_STORAGE_LIMIT" envDefault:"100"`
		}

		t.Setenv("TEST_STORAGE_DRIVER", "redis")

		var cfg storageConfig
		require.NoError(t, config.Load(&cfg))
		assert.Equal(t, "redis", cfg.Driver)
		assert.Equal(t, 100, cfg.Limit)
	})

	t.Run("caches_per_type", func(t *testing.T) {
		type cachedConfig struct {
			Value string `env:"TEST_CACHED_VALUE" envDefault:"first"`
		}

		t.Setenv("TEST_CACHED_VALUE", "first")
		var first cachedConfig
		require.NoError(t, config.Load(&first))

		// A changed environment is not observed by later loads of the same type.
		t.Setenv("TEST_CACHED_VALUE", "second")
		var second cachedConfig
		require.NoError(t, config.Load(&second))
		assert.Equal(t, first, second)
	})

	t.Run("reports_missing_required_variables", func(t *testing.T) {
		type requiredConfig struct {
			Token string `env:"TEST_REQUIRED_TOKEN,required"`
		}

		var cfg requiredConfig
		assert.Error(t, config.Load(&cfg))
	})
}

func TestMustLoad(t *testing.T) {
	t.Run("panics_on_failure", func(t *testing.T) {
		type strictConfig struct {
			Key string `env:"TEST_STRICT_KEY,required"`
		}

		assert.Panics(t, func() {
			var cfg strictConfig
			config.MustLoad(&cfg)
		})
	})
}
