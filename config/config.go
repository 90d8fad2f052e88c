package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/romangod6/gin-sitemap/sitemap"
)

var (
	ErrInvalidConfig = errors.New("configuration validation error")
	ErrConfigExists  = errors.New("config file already exists")
)

type Config struct {
	App             string         `mapstructure:"app" yaml:"app"`
	BaseURL         string         `mapstructure:"base_url" yaml:"base_url"`
	StaticDirs      []string       `mapstructure:"static_dirs" yaml:"static_dirs"`
	StaticPrefix    string         `mapstructure:"static_prefix" yaml:"static_prefix,omitempty"`
	Gzip            bool           `mapstructure:"gzip" yaml:"gzip"`
	ExcludeDeps     []string       `mapstructure:"exclude_deps" yaml:"exclude_deps"`
	ExcludePatterns []string       `mapstructure:"exclude_patterns" yaml:"exclude_patterns"`
	IncludeDynamic  bool           `mapstructure:"include_dynamic" yaml:"include_dynamic"`
	RespectNoindex  bool           `mapstructure:"respect_noindex" yaml:"respect_noindex"`
	URLs            []URLEntry     `mapstructure:"urls" yaml:"urls,omitempty"`
	Sources         []SourceConfig `mapstructure:"sources" yaml:"sources,omitempty"`
	Server          struct {
		Port int `mapstructure:"port" yaml:"port"`
	} `mapstructure:"server" yaml:"server"`
	LogLevel string `mapstructure:"log_level" yaml:"log_level"`
}

// URLEntry is an extra sitemap entry listed inline in the config file.
type URLEntry struct {
	Loc        string   `mapstructure:"loc" yaml:"loc"`
	LastMod    string   `mapstructure:"lastmod" yaml:"lastmod,omitempty"`
	ChangeFreq string   `mapstructure:"changefreq" yaml:"changefreq,omitempty"`
	Priority   *float64 `mapstructure:"priority" yaml:"priority,omitempty"`
}

// SourceConfig points at an entry store read as a sitemap source.
type SourceConfig struct {
	Driver string `mapstructure:"driver" yaml:"driver"`
	DSN    string `mapstructure:"dsn" yaml:"dsn"`
}

// Default returns a Config holding the default values.
func Default() *Config {
	cfg := &Config{
		StaticDirs:      []string{},
		ExcludeDeps:     []string{},
		ExcludePatterns: []string{},
		LogLevel:        "info",
	}
	cfg.Server.Port = 8080
	return cfg
}

func newViper() *viper.Viper {
	v := viper.New()

	// Default values
	v.SetDefault("app", "")
	v.SetDefault("base_url", "")
	v.SetDefault("static_dirs", []string{})
	v.SetDefault("static_prefix", "")
	v.SetDefault("gzip", false)
	v.SetDefault("exclude_deps", []string{})
	v.SetDefault("exclude_patterns", []string{})
	v.SetDefault("include_dynamic", false)
	v.SetDefault("respect_noindex", false)
	v.SetDefault("server.port", 8080)
	v.SetDefault("log_level", "info")

	v.SetEnvPrefix("SITEMAP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// Load reads the config file at path. SITEMAP_* environment variables override
// file values, e.g. SITEMAP_BASE_URL or SITEMAP_SERVER_PORT.
func Load(path string) (*Config, error) {
	v := newViper()
	v.SetConfigFile(path)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml", ".json", ".toml":
	default:
		v.SetConfigType("yaml")
	}

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	// gzip_output is the older spelling of gzip. Registered after reading so the
	// file value is moved under the new key.
	v.RegisterAlias("gzip_output", "gzip")

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return &cfg, nil
}

// Validate checks the settings a generation pass cannot run without.
func (c *Config) Validate() error {
	var problems []string
	if strings.TrimSpace(c.App) == "" {
		problems = append(problems, "app is required")
	}
	if strings.TrimSpace(c.BaseURL) == "" {
		problems = append(problems, "base_url is required")
	}
	for i, src := range c.Sources {
		if src.Driver == "" || src.DSN == "" {
			problems = append(problems, fmt.Sprintf("sources[%d] needs driver and dsn", i))
		}
	}
	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalidConfig, strings.Join(problems, "; "))
	}
	return nil
}

// SitemapOptions maps the config onto sitemap.Options.
func (c *Config) SitemapOptions(log logrus.FieldLogger) sitemap.Options {
	return sitemap.Options{
		BaseURL:         c.BaseURL,
		StaticDirs:      c.StaticDirs,
		StaticPrefix:    c.StaticPrefix,
		Gzip:            c.Gzip,
		ExcludeDeps:     c.ExcludeDeps,
		ExcludePatterns: c.ExcludePatterns,
		IncludeDynamic:  c.IncludeDynamic,
		RespectNoindex:  c.RespectNoindex,
		Logger:          log,
	}
}

// InlineEntries converts the urls section into sitemap entries.
func (c *Config) InlineEntries() []sitemap.URLInfo {
	entries := make([]sitemap.URLInfo, 0, len(c.URLs))
	for _, u := range c.URLs {
		var opts []sitemap.URLOption
		if u.LastMod != "" {
			opts = append(opts, sitemap.WithLastMod(u.LastMod))
		}
		if u.ChangeFreq != "" {
			opts = append(opts, sitemap.WithChangeFreq(sitemap.ChangeFreq(u.ChangeFreq)))
		}
		if u.Priority != nil {
			opts = append(opts, sitemap.WithPriority(*u.Priority))
		}
		entries = append(entries, sitemap.NewURLInfo(u.Loc, opts...))
	}
	return entries
}

const starterHeader = `# Sitemap configuration.
# app names a registered application or a route manifest file (.yaml/.json).
# Environment variables prefixed with SITEMAP_ override these values.
`

// WriteStarter writes cfg as a starter config file. An existing file is only
// replaced when force is set.
func WriteStarter(path string, cfg *Config, force bool) error {
	if !force {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("%w: %s", ErrConfigExists, path)
		}
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("render config: %w", err)
	}
	if err := os.WriteFile(path, append([]byte(starterHeader), data...), 0644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}
