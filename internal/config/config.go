// Package config loads server settings from config.yaml and SUSPECT_*
// environment variables.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment override, e.g. SUSPECT_ADDR.
const EnvPrefix = "SUSPECT"

type Config struct {
	Hostname        string        `mapstructure:"hostname"`
	Title           string        `mapstructure:"title"`
	Addr            string        `mapstructure:"addr"`
	ContentDir      string        `mapstructure:"contentDir"`
	TemplateDir     string        `mapstructure:"templateDir"`
	StaticDir       string        `mapstructure:"staticDir"`
	Pages           []string      `mapstructure:"pages"`
	LandingPosts    int           `mapstructure:"landingPosts"`
	Sanitize        bool          `mapstructure:"sanitize"`
	Watch           bool          `mapstructure:"watch"`
	ShutdownTimeout time.Duration `mapstructure:"shutdownTimeout"`
	Log             LogConfig     `mapstructure:"log"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// SetDefaults registers the default value of every setting on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("hostname", "http://localhost:8080")
	v.SetDefault("title", "Highly Suspect Agency")
	v.SetDefault("addr", "127.0.0.1:8080")
	v.SetDefault("contentDir", "www/post")
	v.SetDefault("templateDir", "www/template")
	v.SetDefault("staticDir", "www/static")
	v.SetDefault("pages", []string{})
	v.SetDefault("landingPosts", 5)
	v.SetDefault("sanitize", false)
	v.SetDefault("watch", false)
	v.SetDefault("shutdownTimeout", 10*time.Second)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
}

// Load reads configuration from file, or from ./config.yaml when file is
// empty. A missing default config file is not an error; a missing explicit
// one is. The returned bool reports whether a file was read.
func Load(v *viper.Viper, file string) (Config, bool, error) {
	SetDefaults(v)

	if file != "" {
		v.SetConfigFile(file)
	} else {
		v.AddConfigPath(".")
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	found := true
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) || file != "" {
			return Config{}, false, fmt.Errorf("failed to read config file: %w", err)
		}
		found = false
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, false, fmt.Errorf("unable to decode config into struct: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, false, err
	}
	return cfg, found, nil
}

// Validate reports settings that cannot work.
func (c Config) Validate() error {
	var errs []error
	if c.ContentDir == "" {
		errs = append(errs, errors.New("contentDir must be set"))
	}
	if c.TemplateDir == "" {
		errs = append(errs, errors.New("templateDir must be set"))
	}
	if c.Addr == "" {
		errs = append(errs, errors.New("addr must be set"))
	}
	if c.LandingPosts <= 0 {
		errs = append(errs, fmt.Errorf("landingPosts must be positive, got %d", c.LandingPosts))
	}
	if c.ShutdownTimeout <= 0 {
		errs = append(errs, fmt.Errorf("shutdownTimeout must be positive, got %s", c.ShutdownTimeout))
	}
	switch strings.ToLower(c.Log.Format) {
	case "text", "json":
	default:
		errs = append(errs, fmt.Errorf("log.format must be text or json, got %q", c.Log.Format))
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}
