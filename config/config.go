package config

import (
	"errors"

	"github.com/caarlos0/env/v11"
	"github.com/ctrlware/go-ctrl-boot/dotenv"
	"github.com/go-ini/ini"
)

// go-ctrl-boot keeps a clear distinction between config and secrets.
// Config is application configuration that can live in version control.
// Secrets (connection strings, signing keys) are read exclusively from
// environment variables and therefore carry no ini tag below.
type WebConfig struct {
	MongoUri     string `env:"MONGO-URI"`
	AccessSecret string `env:"ACCESS-SECRET"`

	// ssl
	Domain  string `env:"DOMAIN" ini:"domain"`
	CertDir string `env:"CERT-DIR" ini:"cert_dir"`

	// workflow engine
	TemporalHostPort string `env:"TEMPORAL-HOST-PORT" ini:"temporal_host_port"`
}

// LoadConfig loads config into the target struct from the given INI file,
// then overrides values with environment variables. A .env file, if present,
// is loaded into the environment first, so local development overrides work
// the same way as deployed ones.
func LoadConfig[T any](path string, target *T) error {
	if target == nil {
		return errors.New("target cannot be nil")
	}

	cfg, err := ini.Load(path)
	if err != nil {
		return err
	}

	// Step 1: Load from INI
	if err := cfg.MapTo(target); err != nil {
		return err
	}

	// Step 2: Override from ENV
	err = dotenv.LoadEnv()
	if err != nil {
		return err
	}

	if err := env.Parse(target); err != nil {
		return err
	}

	return nil
}
