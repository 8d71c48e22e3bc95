// Package config loads docweave configuration from a YAML file and environment variables.
package config

import (
	"errors"
	"os"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/maxbolgarin/docweave/internal/agent"
	"github.com/maxbolgarin/docweave/internal/analyzer"
	"github.com/maxbolgarin/docweave/internal/app"
	"github.com/maxbolgarin/docweave/internal/progress"
	"github.com/maxbolgarin/docweave/internal/provider"
	"github.com/maxbolgarin/docweave/internal/server"
	"github.com/maxbolgarin/errm"
)

// Config represents the main application configuration
type Config struct {
	App      app.Config      `yaml:"app"`
	Provider provider.Config `yaml:"provider"`
	Agent    agent.Config    `yaml:"agent"`
	Analyzer analyzer.Config `yaml:"analyzer"`
	Server   server.Config   `yaml:"server"`
	Progress progress.Config `yaml:"progress"`

	Debug bool `yaml:"debug" env:"DOCWEAVE_DEBUG"`
}

// Load reads configuration from path, when it is set, and from DOCWEAVE_* environment variables.
// Environment variables override the file. Defaults are applied to every section.
func Load(path string) (Config, error) {
	var cfg Config

	if path != "" {
		if _, err := os.Stat(path); err != nil {
			if errors.Is(err, os.ErrNotExist) {
				return Config{}, errm.Wrap(ErrConfigNotFound, path)
			}
			return Config{}, errm.Wrap(err, "failed to stat config file")
		}
		if err := cleanenv.ReadConfig(path, &cfg); err != nil {
			return Config{}, errm.Wrap(err, "failed to read config file")
		}
	} else if err := cleanenv.ReadEnv(&cfg); err != nil {
		return Config{}, errm.Wrap(err, "failed to read environment")
	}

	if err := cfg.PrepareAndValidate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// PrepareAndValidate applies defaults to all sections and collects every validation error.
func (c *Config) PrepareAndValidate() error {
	errs := errm.NewList()
	for _, section := range []struct {
		name string
		cfg  interface{ PrepareAndValidate() error }
	}{
		{"app", &c.App},
		{"provider", &c.Provider},
		{"agent", &c.Agent},
		{"analyzer", &c.Analyzer},
		{"server", &c.Server},
		{"progress", &c.Progress},
	} {
		if err := section.cfg.PrepareAndValidate(); err != nil {
			errs.Wrap(err, section.name)
		}
	}
	if err := errs.Err(); err != nil {
		return errm.Wrap(ErrInvalidConfig, err.Error())
	}
	return nil
}
