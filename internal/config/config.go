package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// EnvPrefix is the prefix of environment overrides, e.g. GOTOKENIZE_SERVER_PORT.
const EnvPrefix = "GOTOKENIZE"

// envAliases are short environment names accepted next to the full
// GOTOKENIZE_<SECTION>_<KEY> form. The full form wins when both are set.
var envAliases = map[string]string{
	"server.host": EnvPrefix + "_HOST",
	"server.port": EnvPrefix + "_PORT",
}

// Config is the full runtime configuration.
type Config struct {
	Server   ServerConfig   `mapstructure:"server" yaml:"server"`
	Log      LogConfig      `mapstructure:"log" yaml:"log"`
	Analysis AnalysisConfig `mapstructure:"analysis" yaml:"analysis"`
	Indexing IndexingConfig `mapstructure:"indexing" yaml:"indexing"`
	Metrics  MetricsConfig  `mapstructure:"metrics" yaml:"metrics"`
}

// ServerConfig configures the HTTP listener.
type ServerConfig struct {
	Host         string        `mapstructure:"host" yaml:"host"`
	Port         int           `mapstructure:"port" yaml:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout" yaml:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout" yaml:"write_timeout"`
	IdleTimeout  time.Duration `mapstructure:"idle_timeout" yaml:"idle_timeout"`
	// MaxBodyBytes caps the size of a JSON request body.
	MaxBodyBytes int64 `mapstructure:"max_body_bytes" yaml:"max_body_bytes"`
}

// Addr returns host:port.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// LogConfig configures the slog handler.
type LogConfig struct {
	Level  string `mapstructure:"level" yaml:"level"`
	Format string `mapstructure:"format" yaml:"format"`
}

// AnalysisConfig configures tokenization defaults.
type AnalysisConfig struct {
	DefaultTokenizer string `mapstructure:"default_tokenizer" yaml:"default_tokenizer"`
	// CacheSize is the number of analyze results kept in memory. 0 disables the cache.
	CacheSize int `mapstructure:"cache_size" yaml:"cache_size"`
}

// IndexingConfig configures the in-memory write buffer.
type IndexingConfig struct {
	MemoryLimit int64 `mapstructure:"memory_limit" yaml:"memory_limit"`
	MaxDocs     int   `mapstructure:"max_docs" yaml:"max_docs"`
}

// MetricsConfig configures the Prometheus endpoint.
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled" yaml:"enabled"`
	Path    string `mapstructure:"path" yaml:"path"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Host:         "",
			Port:         8080,
			ReadTimeout:  30 * time.Second,
			WriteTimeout: 60 * time.Second,
			IdleTimeout:  120 * time.Second,
			MaxBodyBytes: 1 << 20,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "json",
		},
		Analysis: AnalysisConfig{
			DefaultTokenizer: "whitespace_punc",
			CacheSize:        1024,
		},
		Indexing: IndexingConfig{
			MemoryLimit: 64 * 1024 * 1024,
			MaxDocs:     100_000,
		},
		Metrics: MetricsConfig{
			Enabled: true,
			Path:    "/metrics",
		},
	}
}

// SetDefaults registers the values of Default() on v so that environment
// variables and flags can override every key.
func SetDefaults(v *viper.Viper) {
	d := Default()
	v.SetDefault("server.host", d.Server.Host)
	v.SetDefault("server.port", d.Server.Port)
	v.SetDefault("server.read_timeout", d.Server.ReadTimeout)
	v.SetDefault("server.write_timeout", d.Server.WriteTimeout)
	v.SetDefault("server.idle_timeout", d.Server.IdleTimeout)
	v.SetDefault("server.max_body_bytes", d.Server.MaxBodyBytes)
	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.format", d.Log.Format)
	v.SetDefault("analysis.default_tokenizer", d.Analysis.DefaultTokenizer)
	v.SetDefault("analysis.cache_size", d.Analysis.CacheSize)
	v.SetDefault("indexing.memory_limit", d.Indexing.MemoryLimit)
	v.SetDefault("indexing.max_docs", d.Indexing.MaxDocs)
	v.SetDefault("metrics.enabled", d.Metrics.Enabled)
	v.SetDefault("metrics.path", d.Metrics.Path)
}

// Load reads configuration from defaults, the optional YAML file at path and
// GOTOKENIZE_* environment variables, in increasing priority. GOTOKENIZE_HOST
// and GOTOKENIZE_PORT are accepted for the listener address. Flags bound to
// v beforehand take precedence over all of them. A nil v uses a fresh viper.
func Load(path string, v *viper.Viper) (*Config, error) {
	if v == nil {
		v = viper.New()
	}
	SetDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for key, alias := range envAliases {
		full := EnvPrefix + "_" + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
		if err := v.BindEnv(key, full, alias); err != nil {
			return nil, fmt.Errorf("bind env %s: %w", alias, err)
		}
	}

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// Validate checks that all values are usable.
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port out of range: %d", c.Server.Port)
	}
	if c.Server.MaxBodyBytes <= 0 {
		return errors.New("server.max_body_bytes must be positive")
	}
	if _, err := ParseLogLevel(c.Log.Level); err != nil {
		return err
	}
	switch c.Log.Format {
	case "json", "text":
	default:
		return fmt.Errorf("unknown log.format %q", c.Log.Format)
	}
	if c.Analysis.DefaultTokenizer == "" {
		return errors.New("analysis.default_tokenizer must not be empty")
	}
	if c.Analysis.CacheSize < 0 {
		return errors.New("analysis.cache_size must not be negative")
	}
	if c.Indexing.MemoryLimit <= 0 {
		return errors.New("indexing.memory_limit must be positive")
	}
	if c.Indexing.MaxDocs <= 0 {
		return errors.New("indexing.max_docs must be positive")
	}
	if c.Metrics.Enabled && !strings.HasPrefix(c.Metrics.Path, "/") {
		return fmt.Errorf("metrics.path must start with '/': %q", c.Metrics.Path)
	}
	return nil
}

// Write stores c as YAML at path. It refuses to overwrite an existing file.
func (c *Config) Write(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return fmt.Errorf("create config: %w", err)
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		return fmt.Errorf("write config: %w", err)
	}
	return f.Close()
}
