package coreapi

import (
	"time"

	"github.com/kochabx/coresdk/config"
	"github.com/kochabx/coresdk/errors"
	corehttp "github.com/kochabx/coresdk/core/net/http"
	"github.com/kochabx/coresdk/log"
)

// Settings is the configuration surface of the SDK
type Settings struct {
	Core    CoreSettings    `mapstructure:"core"`
	Log     log.Config      `mapstructure:"log"`
	Metrics MetricsSettings `mapstructure:"metrics"`
}

// CoreSettings locates the core service
type CoreSettings struct {
	URL          string        `mapstructure:"url" validate:"required,url"`
	Port         int           `mapstructure:"port" validate:"gte=0,lte=65535"`
	Timeout      time.Duration `mapstructure:"timeout" validate:"gte=0"`
	MaxRedirects int           `mapstructure:"max_redirects" validate:"gte=0"`
}

type MetricsSettings struct {
	Enabled bool `mapstructure:"enabled"`
}

// DefaultSettings are applied for keys missing from both file and environment
var DefaultSettings = map[string]any{
	"core.url":           "http://localhost",
	"core.port":          8000,
	"core.timeout":       corehttp.DefaultTimeout.String(),
	"core.max_redirects": corehttp.DefaultMaxRedirects,
	"log.level":          "info",
	"log.output":         log.OutputConsole,
	"metrics.enabled":    false,
}

// LoadSettings reads settings from name (searched in paths) and the
// environment, e.g. CORE_URL or CORE_PORT.
func LoadSettings(name string, paths ...string) (*Settings, error) {
	s := new(Settings)
	c := config.New(s, config.WithFile(name, paths...), config.WithDefaults(DefaultSettings))
	if err := c.Load(); err != nil {
		return nil, errors.FromError(err)
	}
	return s, nil
}
