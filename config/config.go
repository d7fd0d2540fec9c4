package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config global application configuration
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Storage  StorageConfig  `mapstructure:"storage"`
	Database DatabaseConfig `mapstructure:"db"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Auth     AuthConfig     `mapstructure:"auth"`
	Export   ExportConfig   `mapstructure:"export"`
	Log      LogConfig      `mapstructure:"log"`
}

// Server modes
const (
	ModeDevelopment = "development"
	ModeProduction  = "production"
)

// ServerConfig HTTP server configuration
type ServerConfig struct {
	Port      int        `mapstructure:"port"`
	Mode      string     `mapstructure:"mode"`
	StaticDir string     `mapstructure:"static_dir"`
	BodyLimit int64      `mapstructure:"body_limit"` // bytes
	CORS      CORSConfig `mapstructure:"cors"`
}

// CORSConfig cross-origin configuration
type CORSConfig struct {
	AllowOrigins []string `mapstructure:"allow_origins"`
}

// Storage drivers
const (
	DriverMemory   = "memory"
	DriverRedis    = "redis"
	DriverPostgres = "postgres"
)

// StorageConfig key-value store behind the storage adapter
type StorageConfig struct {
	Driver    string `mapstructure:"driver"`
	Namespace string `mapstructure:"namespace"` // versioned key prefix, e.g. vvfm_prototipo_v1
}

// DatabaseConfig PostgreSQL configuration
type DatabaseConfig struct {
	Host         string `mapstructure:"host"`
	Port         int    `mapstructure:"port"`
	Name         string `mapstructure:"name"`
	User         string `mapstructure:"user"`
	Password     string `mapstructure:"password"`
	SSLMode      string `mapstructure:"sslmode"`
	Timezone     string `mapstructure:"timezone"`
	MaxOpenConns int    `mapstructure:"max_open_conns"`
	MaxIdleConns int    `mapstructure:"max_idle_conns"`
}

// DSN builds the PostgreSQL connection string
func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s TimeZone=%s",
		c.Host, c.Port, c.User, c.Password, c.Name, c.SSLMode, c.Timezone,
	)
}

// RedisConfig Redis configuration
type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// AuthConfig session token configuration
type AuthConfig struct {
	JWTSecret      string        `mapstructure:"jwt_secret"`
	AccessTokenTTL time.Duration `mapstructure:"access_token_ttl"`
	SessionTTL     time.Duration `mapstructure:"session_ttl"` // 0 = session never expires
}

// Settle modes for the PDF export
const (
	SettleDelay  = "delay"
	SettleSignal = "signal"
)

// ExportConfig Listone PDF export configuration
type ExportConfig struct {
	TemplatePath   string        `mapstructure:"template_path"`
	SettleMode     string        `mapstructure:"settle_mode"`
	SettleDelay    time.Duration `mapstructure:"settle_delay"`
	SignalTimeout  time.Duration `mapstructure:"signal_timeout"`
	ChromePath     string        `mapstructure:"chrome_path"`
	NoSandbox      bool          `mapstructure:"no_sandbox"`
	FilenamePrefix string        `mapstructure:"filename_prefix"`
	DefaultComando string        `mapstructure:"default_comando"`
	DefaultUtente  string        `mapstructure:"default_utente"`
	RateLimit      int           `mapstructure:"rate_limit"` // requests per window per client, 0 = off
	RateWindow     time.Duration `mapstructure:"rate_window"`
}

// LogConfig logging configuration
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Load reads configuration from defaults, an optional config file and the environment.
// Precedence: environment > config file > defaults
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	// ── config file ──
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("./config")
		v.AddConfigPath(".")
	}

	// ── environment ──
	v.SetEnvPrefix("VVF")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("read config file: %w", err)
		}
		// no config file: defaults and environment only
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 3000)
	v.SetDefault("server.mode", ModeDevelopment)
	v.SetDefault("server.static_dir", "dist")
	v.SetDefault("server.body_limit", 50<<20)
	v.SetDefault("server.cors.allow_origins", []string{"http://localhost:5173"})

	v.SetDefault("storage.driver", DriverMemory)
	v.SetDefault("storage.namespace", "vvfm_prototipo_v1")

	v.SetDefault("db.host", "localhost")
	v.SetDefault("db.port", 5432)
	v.SetDefault("db.name", "vvf_listone")
	v.SetDefault("db.user", "postgres")
	v.SetDefault("db.password", "")
	v.SetDefault("db.sslmode", "disable")
	v.SetDefault("db.timezone", "Europe/Rome")
	v.SetDefault("db.max_open_conns", 10)
	v.SetDefault("db.max_idle_conns", 5)

	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)

	v.SetDefault("auth.jwt_secret", "")
	v.SetDefault("auth.access_token_ttl", "12h")
	v.SetDefault("auth.session_ttl", "0s")

	v.SetDefault("export.template_path", "templates/listone.html")
	v.SetDefault("export.settle_mode", SettleDelay)
	v.SetDefault("export.settle_delay", "500ms")
	v.SetDefault("export.signal_timeout", "10s")
	v.SetDefault("export.chrome_path", "")
	v.SetDefault("export.no_sandbox", true)
	v.SetDefault("export.filename_prefix", "Listone")
	v.SetDefault("export.default_comando", "MILANO")
	v.SetDefault("export.default_utente", "N/D")
	v.SetDefault("export.rate_limit", 0)
	v.SetDefault("export.rate_window", "1m")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
}

// Validate checks the settings the process cannot start without
func (c *Config) Validate() error {
	if len(c.Auth.JWTSecret) < 16 {
		return fmt.Errorf("invalid config: auth.jwt_secret must be at least 16 characters")
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid config: server.port must be between 1 and 65535")
	}
	switch c.Storage.Driver {
	case DriverMemory, DriverRedis, DriverPostgres:
	default:
		return fmt.Errorf("invalid config: unknown storage.driver %q", c.Storage.Driver)
	}
	if strings.TrimSpace(c.Storage.Namespace) == "" {
		return fmt.Errorf("invalid config: storage.namespace must not be empty")
	}
	switch c.Export.SettleMode {
	case SettleDelay, SettleSignal:
	default:
		return fmt.Errorf("invalid config: unknown export.settle_mode %q", c.Export.SettleMode)
	}
	if c.Export.SettleDelay < 0 {
		return fmt.Errorf("invalid config: export.settle_delay must not be negative")
	}
	if c.Export.SettleMode == SettleSignal && c.Export.SignalTimeout <= 0 {
		return fmt.Errorf("invalid config: export.signal_timeout must be positive with settle_mode %q", SettleSignal)
	}
	return nil
}

// IsDevelopment reports whether the SPA bundle is served by an external dev server
func (c *ServerConfig) IsDevelopment() bool {
	return c.Mode == ModeDevelopment
}
