package config

import (
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"

	"github.com/kochabx/coresdk/log"
)

// Config manages application configuration
type Config struct {
	mu       sync.RWMutex
	viper    *viper.Viper
	validate *validator.Validate
	target   any    // destination the configuration is unmarshalled into
	loader   Loader // responsible for reading the configuration
	name     string
	paths    []string
	defaults map[string]any
}

// New creates a new Config instance with the given options.
// If no loader is provided a FileLoader reading "config.yaml" from "." is used.
func New(target any, opts ...Option) *Config {
	c := &Config{
		viper:    viper.New(),
		validate: validator.New(validator.WithRequiredStructEnabled()),
		target:   target,
		name:     "config.yaml",
		paths:    []string{"."},
	}

	for _, opt := range opts {
		opt(c)
	}

	if c.loader == nil {
		c.loader = NewFileLoader(c.name, c.paths, c.viper, c.validate, c.defaults)
	}

	return c
}

// Load reads the configuration using the configured loader
func (c *Config) Load() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.loader.Load(c.target)
}

// Watch reloads the configuration whenever the loader reports a change
func (c *Config) Watch() error {
	return c.loader.Watch(func() {
		log.Info().Msg("config change detected")

		if err := c.Load(); err != nil {
			log.Error().Err(err).Msg("failed to reload config after change")
			return
		}

		log.Info().Msg("config reloaded successfully")
	})
}

// GetViper returns the underlying viper instance
func (c *Config) GetViper() *viper.Viper {
	return c.viper
}
