// Package config loads typed configuration structs from environment
// variables, with .env autoloading and per-type caching. Each configuration
// type is parsed once per process; later loads return the cached value.
//
//	type ServerConfig struct {
//		Addr string `env:"SERVER_ADDR" envDefault:":8080"`
//	}
//
//	var cfg ServerConfig
//	config.MustLoad(&cfg)
package config

import (
	"fmt"
	"reflect"
	"sync"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

var (
	mu    sync.Mutex
	cache = make(map[reflect.Type]any)

	// .env is best-effort: absence is the normal production case.
	dotenvOnce sync.Once
)

// Load parses environment variables into cfg. The first load of each type
// parses the environment; subsequent loads of the same type return the
// cached value, so every caller observes identical configuration.
func Load[T any](cfg *T) error {
	dotenvOnce.Do(func() {
		_ = godotenv.Load()
	})

	mu.Lock()
	defer mu.Unlock()

	typ := reflect.TypeOf(*cfg)
	if cached, ok := cache[typ]; ok {
		*cfg = cached.(T)
		return nil
	}

	if err := env.Parse(cfg); err != nil {
		return fmt.Errorf("parse %s from environment: %w", typ, err)
	}

	cache[typ] = *cfg
	return nil
}

// MustLoad is Load that panics on failure. Intended for application startup
// where missing required configuration is fatal anyway.
func MustLoad[T any](cfg *T) {
	if err := Load(cfg); err != nil {
		panic(err)
	}
}
