package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

// FileEnv names an optional YAML or JSON file layered under the environment.
const FileEnv = "RENOA_CONFIG"

const (
	devJWTSecret      = "dev_secret"
	devEvidenceSecret = "dev_evidence_secret"
)

// Config is the full service configuration. Every key can be set from the
// environment by upper-casing its path and joining with "_", e.g. db.ssl_mode
// is DB_SSL_MODE.
type Config struct {
	Env       string `mapstructure:"env"`
	Port      int    `mapstructure:"port"`
	APIPrefix string `mapstructure:"api_prefix"`

	Database      DatabaseConfig      `mapstructure:"db"`
	Redis         RedisConfig         `mapstructure:"redis"`
	JWT           JWTConfig           `mapstructure:"jwt"`
	CORS          CORSConfig          `mapstructure:"cors"`
	Log           LogConfig           `mapstructure:"log"`
	Grid          GridConfig          `mapstructure:"grid"`
	Statistics    StatisticsConfig    `mapstructure:"statistics"`
	Export        ExportConfig        `mapstructure:"export"`
	Evidence      EvidenceConfig      `mapstructure:"evidence"`
	SMTP          SMTPConfig          `mapstructure:"smtp"`
	Notifications NotificationsConfig `mapstructure:"notifications"`
}

type DatabaseConfig struct {
	Host         string `mapstructure:"host"`
	Port         int    `mapstructure:"port"`
	User         string `mapstructure:"user"`
	Password     string `mapstructure:"password"`
	Name         string `mapstructure:"name"`
	SSLMode      string `mapstructure:"ssl_mode"`
	MaxOpenConns int    `mapstructure:"max_open_conns"`
	MaxIdleConns int    `mapstructure:"max_idle_conns"`
}

type RedisConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

type JWTConfig struct {
	Secret            string        `mapstructure:"secret"`
	Expiration        time.Duration `mapstructure:"expiration"`
	RefreshExpiration time.Duration `mapstructure:"refresh_expiration"`
	CookieName        string        `mapstructure:"cookie_name"`
}

type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// GridConfig tunes compliance grid saves.
type GridConfig struct {
	SaveConcurrency int           `mapstructure:"save_concurrency"`
	SaveTimeout     time.Duration `mapstructure:"save_timeout"`
}

// StatisticsConfig governs the statistics endpoints cache.
type StatisticsConfig struct {
	Enabled  bool          `mapstructure:"enabled"`
	CacheTTL time.Duration `mapstructure:"cache_ttl"`
}

// ExportConfig bounds spreadsheet exports.
type ExportConfig struct {
	MaxRangeDays int `mapstructure:"max_range_days"`
}

// EvidenceConfig controls novedad evidence storage and validation.
type EvidenceConfig struct {
	StorageDir       string        `mapstructure:"storage_dir"`
	SignedURLSecret  string        `mapstructure:"signed_url_secret"`
	SignedURLTTL     time.Duration `mapstructure:"signed_url_ttl"`
	MaxFileSizeBytes int64         `mapstructure:"max_file_size"`
	AllowedMIMEs     []string      `mapstructure:"allowed_mime_types"`
}

type SMTPConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
	From     string `mapstructure:"from"`
}

// NotificationsConfig configures asynchronous novedad emails.
type NotificationsConfig struct {
	Enabled           bool     `mapstructure:"enabled"`
	Recipients        []string `mapstructure:"recipients"`
	WorkerConcurrency int      `mapstructure:"worker_concurrency"`
	WorkerRetries     int      `mapstructure:"worker_retries"`
}

// Load reads defaults, the optional RENOA_CONFIG file, .env and the process
// environment, in increasing precedence, and validates the result.
func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)

	if path := os.Getenv(FileEnv); path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read %s: %w", path, err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	cfg.normalize()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate reports every setting that would prevent a safe start.
func (c *Config) Validate() error {
	var errs []error
	if c.Port <= 0 || c.Port > 65535 {
		errs = append(errs, fmt.Errorf("port %d out of range", c.Port))
	}
	if c.JWT.Secret == "" {
		errs = append(errs, errors.New("jwt.secret is required"))
	}
	if c.JWT.Expiration <= 0 || c.JWT.RefreshExpiration <= 0 {
		errs = append(errs, errors.New("jwt expirations must be positive"))
	}
	if c.Grid.SaveConcurrency < 1 {
		errs = append(errs, errors.New("grid.save_concurrency must be at least 1"))
	}
	if c.Export.MaxRangeDays < 1 {
		errs = append(errs, errors.New("export.max_range_days must be at least 1"))
	}
	if c.Notifications.Enabled && c.SMTP.Host == "" {
		errs = append(errs, errors.New("smtp.host is required when notifications are enabled"))
	}
	if c.Env == EnvProduction {
		if c.JWT.Secret == devJWTSecret {
			errs = append(errs, errors.New("jwt.secret must be changed in production"))
		}
		if c.Evidence.SignedURLSecret == devEvidenceSecret {
			errs = append(errs, errors.New("evidence.signed_url_secret must be changed in production"))
		}
	}
	return errors.Join(errs...)
}

func (c *Config) normalize() {
	c.Env = strings.ToLower(strings.TrimSpace(c.Env))
	c.CORS.AllowedOrigins = trimAll(c.CORS.AllowedOrigins)
	c.Evidence.AllowedMIMEs = trimAll(c.Evidence.AllowedMIMEs)
	c.Notifications.Recipients = trimAll(c.Notifications.Recipients)
	if c.Evidence.MaxFileSizeBytes <= 0 {
		c.Evidence.MaxFileSizeBytes = 10 << 20
	}
}

func setDefaults(v *viper.Viper) {
	defaults := map[string]interface{}{
		"env":        EnvDevelopment,
		"port":       8080,
		"api_prefix": "/api/v1",

		"db.host":           "localhost",
		"db.port":           5432,
		"db.user":           "postgres",
		"db.password":       "postgres",
		"db.name":           "renoa",
		"db.ssl_mode":       "disable",
		"db.max_open_conns": 10,
		"db.max_idle_conns": 5,

		"redis.host":     "localhost",
		"redis.port":     6379,
		"redis.password": "",
		"redis.db":       0,

		"jwt.secret":             devJWTSecret,
		"jwt.expiration":         12 * time.Hour,
		"jwt.refresh_expiration": 7 * 24 * time.Hour,
		"jwt.cookie_name":        "renoa_token",

		"cors.allowed_origins": []string{},
		"log.level":            "info",
		"log.format":           "json",

		"grid.save_concurrency": 4,
		"grid.save_timeout":     30 * time.Second,

		"statistics.enabled":   true,
		"statistics.cache_ttl": 5 * time.Minute,

		"export.max_range_days": 93,

		"evidence.storage_dir":        "./evidence",
		"evidence.signed_url_secret":  devEvidenceSecret,
		"evidence.signed_url_ttl":     30 * time.Minute,
		"evidence.max_file_size":      10 << 20,
		"evidence.allowed_mime_types": []string{"image/jpeg", "image/png", "application/pdf"},

		"smtp.host":     "localhost",
		"smtp.port":     587,
		"smtp.username": "",
		"smtp.password": "",
		"smtp.from":     "renoa@localhost",

		"notifications.enabled":            false,
		"notifications.recipients":         []string{},
		"notifications.worker_concurrency": 1,
		"notifications.worker_retries":     3,
	}
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
}

func trimAll(values []string) []string {
	out := make([]string, 0, len(values))
	for _, value := range values {
		for _, part := range strings.Split(value, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
