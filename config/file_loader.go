package config

import (
	"path"
	"strings"

	"github.com/fsnotify/fsnotify"
	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"

	"github.com/kochabx/coresdk/errors"
)

// FileLoader loads configuration from a file, with environment overrides
type FileLoader struct {
	viper    *viper.Viper
	validate *validator.Validate
	name     string
	paths    []string
}

// NewFileLoader creates a new file loader
func NewFileLoader(name string, paths []string, v *viper.Viper, validate *validator.Validate, defaults map[string]any) *FileLoader {
	extension := path.Ext(name)

	for _, configPath := range paths {
		v.AddConfigPath(configPath)
	}
	v.SetConfigName(strings.TrimSuffix(name, extension))
	v.SetConfigType(strings.TrimPrefix(extension, "."))

	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	return &FileLoader{
		viper:    v,
		validate: validate,
		name:     name,
		paths:    paths,
	}
}

// Load implements Loader. A missing file is not an error: defaults and
// environment variables still apply.
func (l *FileLoader) Load(target any) error {
	if err := l.viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return errors.Wrap(err, 500, "config read error")
		}
	}

	if err := l.viper.Unmarshal(target); err != nil {
		return errors.Wrap(err, 500, "config parse error")
	}

	if l.validate != nil {
		if err := l.validate.Struct(target); err != nil {
			return errors.Wrap(err, 400, "config validation failed")
		}
	}

	return nil
}

// Watch implements Loader
func (l *FileLoader) Watch(callback func()) error {
	l.viper.OnConfigChange(func(e fsnotify.Event) {
		if callback != nil {
			callback()
		}
	})

	l.viper.WatchConfig()
	return nil
}
