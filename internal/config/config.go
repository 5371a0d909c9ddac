// File: internal/config/config.go
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Interface defines the contract for accessing application configuration.
// This allows for dependency injection and mocking in tests.
type Interface interface {
	Logger() LoggerConfig
	Database() DatabaseConfig
	Server() ServerConfig
	LLM() LLMConfig
	Prompt() PromptConfig
	Cache() CacheConfig
	Archive() ArchiveConfig
	Report() ReportConfig

	SetDatabaseURL(url string)
	SetLLMProvider(p LLMProvider)
}

// Config holds the entire application configuration.
type Config struct {
	LoggerCfg   LoggerConfig   `mapstructure:"logger" yaml:"logger"`
	DatabaseCfg DatabaseConfig `mapstructure:"database" yaml:"database"`
	ServerCfg   ServerConfig   `mapstructure:"server" yaml:"server"`
	LLMCfg      LLMConfig      `mapstructure:"llm" yaml:"llm"`
	PromptCfg   PromptConfig   `mapstructure:"prompt" yaml:"prompt"`
	CacheCfg    CacheConfig    `mapstructure:"cache" yaml:"cache"`
	ArchiveCfg  ArchiveConfig  `mapstructure:"archive" yaml:"archive"`
	ReportCfg   ReportConfig   `mapstructure:"report" yaml:"report"`
}

// --- Interface Method Implementations (Getters) ---

func (c *Config) Logger() LoggerConfig     { return c.LoggerCfg }
func (c *Config) Database() DatabaseConfig { return c.DatabaseCfg }
func (c *Config) Server() ServerConfig     { return c.ServerCfg }
func (c *Config) LLM() LLMConfig           { return c.LLMCfg }
func (c *Config) Prompt() PromptConfig     { return c.PromptCfg }
func (c *Config) Cache() CacheConfig       { return c.CacheCfg }
func (c *Config) Archive() ArchiveConfig   { return c.ArchiveCfg }
func (c *Config) Report() ReportConfig     { return c.ReportCfg }

// --- Interface Method Implementations (Setters) ---

func (c *Config) SetDatabaseURL(url string)    { c.DatabaseCfg.URL = url }
func (c *Config) SetLLMProvider(p LLMProvider) { c.LLMCfg.Provider = p }

// LoggerConfig holds all the configuration for the logger.
type LoggerConfig struct {
	Level       string      `mapstructure:"level" yaml:"level"`
	Format      string      `mapstructure:"format" yaml:"format"`
	AddSource   bool        `mapstructure:"add_source" yaml:"add_source"`
	ServiceName string      `mapstructure:"service_name" yaml:"service_name"`
	LogFile     string      `mapstructure:"log_file" yaml:"log_file"`
	MaxSize     int         `mapstructure:"max_size" yaml:"max_size"`
	MaxBackups  int         `mapstructure:"max_backups" yaml:"max_backups"`
	MaxAge      int         `mapstructure:"max_age" yaml:"max_age"`
	Compress    bool        `mapstructure:"compress" yaml:"compress"`
	Colors      ColorConfig `mapstructure:"colors" yaml:"colors"`
}

// ColorConfig defines the color codes for different log levels.
type ColorConfig struct {
	Debug  string `mapstructure:"debug" yaml:"debug"`
	Info   string `mapstructure:"info" yaml:"info"`
	Warn   string `mapstructure:"warn" yaml:"warn"`
	Error  string `mapstructure:"error" yaml:"error"`
	DPanic string `mapstructure:"dpanic" yaml:"dpanic"`
	Panic  string `mapstructure:"panic" yaml:"panic"`
	Fatal  string `mapstructure:"fatal" yaml:"fatal"`
}

// DatabaseConfig holds the database connection details. An empty URL selects
// the in-memory store.
type DatabaseConfig struct {
	URL      string `mapstructure:"url" yaml:"url"`
	MaxConns int32  `mapstructure:"max_conns" yaml:"max_conns"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Addr            string        `mapstructure:"addr" yaml:"addr"`
	CORSOrigins     []string      `mapstructure:"cors_origins" yaml:"cors_origins"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout" yaml:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout" yaml:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout" yaml:"shutdown_timeout"`
	MetricsEnabled  bool          `mapstructure:"metrics_enabled" yaml:"metrics_enabled"`
}

// LLMProvider defines the supported text generation providers.
type LLMProvider string

const (
	ProviderGemini LLMProvider = "gemini"
	ProviderFake   LLMProvider = "fake"
)

// LLMConfig configures the text generator.
type LLMConfig struct {
	Provider        LLMProvider   `mapstructure:"provider" yaml:"provider"`
	Model           string        `mapstructure:"model" yaml:"model"`
	APIKey          string        `mapstructure:"api_key" yaml:"api_key"`
	Timeout         time.Duration `mapstructure:"timeout" yaml:"timeout"`
	Temperature     float32       `mapstructure:"temperature" yaml:"temperature"`
	TopP            float32       `mapstructure:"top_p" yaml:"top_p"`
	MaxOutputTokens int32         `mapstructure:"max_output_tokens" yaml:"max_output_tokens"`
	// RequestsPerMinute paces outbound calls. Zero disables pacing.
	RequestsPerMinute float64 `mapstructure:"requests_per_minute" yaml:"requests_per_minute"`
	Burst             int     `mapstructure:"burst" yaml:"burst"`
}

// PromptConfig points at optional overrides of the embedded prompt material.
type PromptConfig struct {
	PreambleFile string `mapstructure:"preamble_file" yaml:"preamble_file"`
	CatalogFile  string `mapstructure:"catalog_file" yaml:"catalog_file"`
}

// CacheConfig configures the team aggregate read cache.
type CacheConfig struct {
	Enabled bool          `mapstructure:"enabled" yaml:"enabled"`
	Size    int           `mapstructure:"size" yaml:"size"`
	// TTL bounds how long a cached aggregate is served. Only writes made by
	// this process purge the cache, so a seed run from another process is
	// visible after at most TTL.
	TTL     time.Duration `mapstructure:"ttl" yaml:"ttl"`
}

// ArchiveConfig configures the optional S3-compatible copy of saved reports.
type ArchiveConfig struct {
	Enabled   bool   `mapstructure:"enabled" yaml:"enabled"`
	Endpoint  string `mapstructure:"endpoint" yaml:"endpoint"`
	Bucket    string `mapstructure:"bucket" yaml:"bucket"`
	AccessKey string `mapstructure:"access_key" yaml:"access_key"`
	SecretKey string `mapstructure:"secret_key" yaml:"secret_key"`
	UseSSL    bool   `mapstructure:"use_ssl" yaml:"use_ssl"`
	Region    string `mapstructure:"region" yaml:"region"`
}

// ReportConfig holds report metadata.
type ReportConfig struct {
	Version string `mapstructure:"version" yaml:"version"`
	// BatchConcurrency caps in-flight generations of a batch run.
	BatchConcurrency int `mapstructure:"batch_concurrency" yaml:"batch_concurrency"`
}

// EnvPrefix prefixes every environment override, e.g. TEAMREPORT_DATABASE_URL.
const EnvPrefix = "TEAMREPORT"

// NewDefaultConfig creates a new configuration struct populated with default values.
func NewDefaultConfig() *Config {
	v := viper.New()
	SetDefaults(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		// This should not happen with defaults, but good to be safe.
		panic(fmt.Sprintf("failed to unmarshal default config: %v", err))
	}
	return &cfg
}

// SetDefaults initializes default values for various configuration parameters.
func SetDefaults(v *viper.Viper) {
	// -- Logger --
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "console")
	v.SetDefault("logger.add_source", false)
	v.SetDefault("logger.service_name", "teamreport")
	v.SetDefault("logger.log_file", "")
	v.SetDefault("logger.max_size", 100)
	v.SetDefault("logger.max_backups", 5)
	v.SetDefault("logger.max_age", 30)
	v.SetDefault("logger.compress", true)
	v.SetDefault("logger.colors.debug", "cyan")
	v.SetDefault("logger.colors.info", "green")
	v.SetDefault("logger.colors.warn", "yellow")
	v.SetDefault("logger.colors.error", "red")
	v.SetDefault("logger.colors.dpanic", "magenta")
	v.SetDefault("logger.colors.panic", "magenta")
	v.SetDefault("logger.colors.fatal", "magenta")

	// -- Database --
	v.SetDefault("database.url", "")
	v.SetDefault("database.max_conns", 10)

	// -- Server --
	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.cors_origins", []string{"*"})
	v.SetDefault("server.read_timeout", "30s")
	v.SetDefault("server.write_timeout", "3m")
	v.SetDefault("server.shutdown_timeout", "15s")
	v.SetDefault("server.metrics_enabled", true)

	// -- LLM --
	v.SetDefault("llm.provider", string(ProviderGemini))
	v.SetDefault("llm.model", "gemini-2.5-flash")
	v.SetDefault("llm.timeout", "2m")
	v.SetDefault("llm.temperature", 0.7)
	v.SetDefault("llm.top_p", 0.95)
	v.SetDefault("llm.max_output_tokens", 8192)
	v.SetDefault("llm.requests_per_minute", 30)
	v.SetDefault("llm.burst", 2)

	// -- Prompt --
	v.SetDefault("prompt.preamble_file", "")
	v.SetDefault("prompt.catalog_file", "")

	// -- Cache --
	v.SetDefault("cache.enabled", true)
	v.SetDefault("cache.size", 256)
	v.SetDefault("cache.ttl", "1m")

	// -- Archive --
	v.SetDefault("archive.enabled", false)
	v.SetDefault("archive.endpoint", "")
	v.SetDefault("archive.bucket", "teamreport")
	v.SetDefault("archive.use_ssl", true)
	v.SetDefault("archive.region", "")

	// -- Report --
	v.SetDefault("report.version", "v1")
	v.SetDefault("report.batch_concurrency", 4)
}

// BindEnv wires the environment into v: every key under the TEAMREPORT_ prefix,
// plus the conventional variable names of the secrets.
func BindEnv(v *viper.Viper) {
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	_ = v.BindEnv("llm.api_key", EnvPrefix+"_LLM_API_KEY", "GEMINI_API_KEY", "GOOGLE_API_KEY")
	_ = v.BindEnv("database.url", EnvPrefix+"_DATABASE_URL", "DATABASE_URL")
	_ = v.BindEnv("archive.access_key", EnvPrefix+"_ARCHIVE_ACCESS_KEY", "MINIO_ACCESS_KEY")
	_ = v.BindEnv("archive.secret_key", EnvPrefix+"_ARCHIVE_SECRET_KEY", "MINIO_SECRET_KEY")
}

// NewConfigFromViper creates a new configuration instance from a viper object.
func NewConfigFromViper(v *viper.Viper) (*Config, error) {
	var cfg Config

	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	// The key may arrive after viper was set up, e.g. from a late-loaded .env file.
	if cfg.LLMCfg.APIKey == "" {
		cfg.LLMCfg.APIKey = os.Getenv("GEMINI_API_KEY")
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

// Validate checks the configuration for required fields and sane values.
// Credentials are checked where they are used, so commands that never reach
// the generator or the archive run without them.
func (c *Config) Validate() error {
	switch c.LLMCfg.Provider {
	case ProviderGemini, ProviderFake:
	default:
		return fmt.Errorf("llm.provider must be one of [%s, %s], got %q", ProviderGemini, ProviderFake, c.LLMCfg.Provider)
	}
	if c.LLMCfg.Timeout <= 0 {
		return fmt.Errorf("llm.timeout must be a positive duration")
	}
	if c.LLMCfg.RequestsPerMinute < 0 {
		return fmt.Errorf("llm.requests_per_minute must not be negative")
	}
	if strings.TrimSpace(c.ReportCfg.Version) == "" {
		return fmt.Errorf("report.version is required")
	}
	if c.ReportCfg.BatchConcurrency < 0 {
		return fmt.Errorf("report.batch_concurrency must not be negative")
	}
	if c.CacheCfg.Enabled && c.CacheCfg.Size <= 0 {
		return fmt.Errorf("cache.size must be a positive integer when the cache is enabled")
	}
	if err := c.ArchiveCfg.Validate(); err != nil {
		return fmt.Errorf("archive configuration invalid: %w", err)
	}
	return nil
}

// Validate checks the archive settings when archiving is enabled.
func (a *ArchiveConfig) Validate() error {
	if !a.Enabled {
		return nil
	}
	if a.Endpoint == "" || a.Bucket == "" {
		return fmt.Errorf("archive.endpoint and archive.bucket are required")
	}
	return nil
}
