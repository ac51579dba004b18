// Package config provides a type-safe, generic and cached way to load
// application configuration from environment variables.
//
// It wraps `github.com/joho/godotenv` and `github.com/caarlos0/env/v11` to
// deliver a convenient API that:
//
//   - Loads values from one or multiple `.env` files (fallback to the default
//     `.env` in the current working directory).
//   - Parses the environment into any Go struct using field tags.
//   - Caches each successfully loaded configuration type so it is only parsed
//     once for the lifetime of the process.
//   - Exposes ResetCache for tests that need to re-parse the environment.
//
// # Usage
//
// Create a struct describing your configuration and annotate its fields with
// `env` tags:
//
//	type DispatcherConfig struct {
//	    Interval  time.Duration `env:"DISPATCH_INTERVAL" envDefault:"2s"`
//	    BatchSize int           `env:"BATCH_SIZE" envDefault:"5"`
//	}
//
// Then populate it:
//
//	var cfg DispatcherConfig
//	if err := config.Load(&cfg); err != nil {
//	    log.Fatal(err)
//	}
package config
