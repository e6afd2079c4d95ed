// Package config loads application configuration from environment
// variables into annotated Go structs.
//
// It wraps `github.com/joho/godotenv` and `github.com/caarlos0/env/v11`:
// the default .env file is loaded once per process (missing files are
// fine), then the environment is parsed into the target struct using `env`
// and `envDefault` field tags.
//
//	type AppConfig struct {
//	    Port int `env:"PORT" envDefault:"8080"`
//	}
//
//	var cfg AppConfig
//	if err := config.Load(&cfg); err != nil { ... }
package config
