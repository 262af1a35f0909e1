package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config is the full runtime configuration, loaded from YAML and overridden by env.
type Config struct {
	App       AppConfig       `yaml:"app"`
	Server    ServerConfig    `yaml:"server"`
	Database  DatabaseConfig  `yaml:"database"`
	JWT       JWTConfig       `yaml:"jwt"`
	Auth      AuthConfig      `yaml:"auth"`
	Cache     CacheConfig     `yaml:"cache"`
	RateLimit RateLimitConfig `yaml:"rate_limit"`
	Storage   StorageConfig   `yaml:"storage"`
	Log       LogConfig       `yaml:"log"`
	Jobs      JobsConfig      `yaml:"jobs"`
	Metrics   MetricsConfig   `yaml:"metrics"`
}

type AppConfig struct {
	Name string `yaml:"name"`
	// dev | prod
	Env string `yaml:"env"`
}

type ServerConfig struct {
	Addr               string        `yaml:"addr"`
	GinMode            string        `yaml:"gin_mode"`
	ReadHeaderTimeout  time.Duration `yaml:"read_header_timeout"`
	ReadTimeout        time.Duration `yaml:"read_timeout"`
	WriteTimeout       time.Duration `yaml:"write_timeout"`
	IdleTimeout        time.Duration `yaml:"idle_timeout"`
	ShutdownTimeout    time.Duration `yaml:"shutdown_timeout"`
	CORSAllowedOrigins []string      `yaml:"cors_allowed_origins"`
}

type JWTConfig struct {
	Secret     string        `yaml:"secret"`
	Issuer     string        `yaml:"issuer"`
	Audience   string        `yaml:"audience"`
	AccessTTL  time.Duration `yaml:"access_ttl"`
	RefreshTTL time.Duration `yaml:"refresh_ttl"`
}

type PasswordPolicy struct {
	MinLength     int  `yaml:"min_length"`
	RequireUpper  bool `yaml:"require_upper"`
	RequireLower  bool `yaml:"require_lower"`
	RequireDigit  bool `yaml:"require_digit"`
	RequireSymbol bool `yaml:"require_symbol"`
}

type AuthConfig struct {
	DefaultRole    string         `yaml:"default_role"`
	BcryptCost     int            `yaml:"bcrypt_cost"`
	PasswordPolicy PasswordPolicy `yaml:"password_policy"`
}

type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

type CacheConfig struct {
	// memory | redis
	Driver string        `yaml:"driver"`
	TTL    time.Duration `yaml:"ttl"`
	Prefix string        `yaml:"prefix"`
	Redis  RedisConfig   `yaml:"redis"`
}

type RateLimitConfig struct {
	Enabled bool    `yaml:"enabled"`
	RPS     float64 `yaml:"rps"`
	Burst   int     `yaml:"burst"`
	// fixed window used by the redis limiter
	Window time.Duration `yaml:"window"`
}

type StorageConfig struct {
	// local | memory
	Driver         string `yaml:"driver"`
	Root           string `yaml:"root"`
	MaxUploadBytes int64  `yaml:"max_upload_bytes"`
}

type LogConfig struct {
	Env   string `yaml:"env"`
	Level string `yaml:"level"`
}

type JobsConfig struct {
	Enabled            bool          `yaml:"enabled"`
	TokenPurgeSchedule string        `yaml:"token_purge_schedule"`
	TokenRetention     time.Duration `yaml:"token_retention"`
}

type MetricsConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"`
}

// Load reads .env (when present), the YAML file at path (when present) and env overrides.
// An empty path falls back to CONFIG_PATH, then ./config.yaml.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	if strings.TrimSpace(path) == "" {
		path = strings.TrimSpace(os.Getenv("CONFIG_PATH"))
	}
	explicit := path != ""
	if !explicit {
		path = "config.yaml"
	}

	cfg := &Config{}
	raw, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(raw, cfg); err != nil {
			return nil, fmt.Errorf("config: parse %s: %w", path, err)
		}
	case errors.Is(err, os.ErrNotExist) && !explicit:
		// env + defaults only
	default:
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}

	if err := LoadEnv(cfg); err != nil {
		return nil, fmt.Errorf("config: env: %w", err)
	}
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyDefaults() {
	if c.App.Name == "" {
		c.App.Name = "bizadmin"
	}
	if c.App.Env == "" {
		c.App.Env = "dev"
	}

	s := &c.Server
	if s.Addr == "" {
		s.Addr = ":8080"
	}
	if s.ReadHeaderTimeout <= 0 {
		s.ReadHeaderTimeout = 10 * time.Second
	}
	if s.ReadTimeout <= 0 {
		s.ReadTimeout = 20 * time.Second
	}
	if s.WriteTimeout <= 0 {
		s.WriteTimeout = 20 * time.Second
	}
	if s.IdleTimeout <= 0 {
		s.IdleTimeout = 60 * time.Second
	}
	if s.ShutdownTimeout <= 0 {
		s.ShutdownTimeout = 10 * time.Second
	}
	if len(s.CORSAllowedOrigins) == 0 {
		s.CORSAllowedOrigins = []string{
			"http://localhost:3000",
			"http://127.0.0.1:3000",
			"http://localhost:5173",
			"http://127.0.0.1:5173",
		}
	}

	c.Database.applyDefaults()

	if c.JWT.Issuer == "" {
		c.JWT.Issuer = "bizadmin"
	}
	if c.JWT.Audience == "" {
		c.JWT.Audience = "bizadmin-api"
	}
	if c.JWT.AccessTTL == 0 {
		c.JWT.AccessTTL = 15 * time.Minute
	}
	if c.JWT.RefreshTTL == 0 {
		c.JWT.RefreshTTL = 7 * 24 * time.Hour
	}

	if c.Auth.DefaultRole == "" {
		c.Auth.DefaultRole = "User"
	}
	if c.Auth.BcryptCost == 0 {
		c.Auth.BcryptCost = 10
	}
	if c.Auth.PasswordPolicy.MinLength == 0 {
		c.Auth.PasswordPolicy = PasswordPolicy{
			MinLength:    8,
			RequireUpper: true,
			RequireLower: true,
			RequireDigit: true,
		}
	}

	if c.Cache.Driver == "" {
		c.Cache.Driver = "memory"
	}
	if c.Cache.TTL == 0 {
		c.Cache.TTL = 10 * time.Minute
	}
	if c.Cache.Prefix == "" {
		c.Cache.Prefix = "bizadmin"
	}
	if c.Cache.Redis.Addr == "" {
		c.Cache.Redis.Addr = "127.0.0.1:6379"
	}

	if c.RateLimit.RPS == 0 {
		c.RateLimit.RPS = 5
	}
	if c.RateLimit.Burst == 0 {
		c.RateLimit.Burst = 10
	}
	if c.RateLimit.Window == 0 {
		c.RateLimit.Window = time.Minute
	}

	if c.Storage.Driver == "" {
		c.Storage.Driver = "local"
	}
	if c.Storage.Root == "" {
		c.Storage.Root = "./data/files"
	}
	if c.Storage.MaxUploadBytes == 0 {
		c.Storage.MaxUploadBytes = 2 << 20
	}

	if c.Log.Env == "" {
		c.Log.Env = c.App.Env
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}

	if c.Jobs.TokenPurgeSchedule == "" {
		c.Jobs.TokenPurgeSchedule = "@daily"
	}
	if c.Jobs.TokenRetention == 0 {
		c.Jobs.TokenRetention = 30 * 24 * time.Hour
	}

	if c.Metrics.Path == "" {
		c.Metrics.Path = "/metrics"
	}
}

// Validate rejects configurations the server cannot run with.
func (c *Config) Validate() error {
	var errs []error

	switch c.Database.Driver {
	case DriverMySQL, DriverPostgres:
	default:
		errs = append(errs, fmt.Errorf("database.driver %q not supported", c.Database.Driver))
	}

	secret := strings.TrimSpace(c.JWT.Secret)
	switch {
	case secret == "":
		errs = append(errs, errors.New("jwt.secret is required"))
	case len(secret) < 32:
		errs = append(errs, errors.New("jwt.secret must be at least 32 bytes"))
	}
	if c.JWT.AccessTTL < 0 || c.JWT.RefreshTTL < 0 {
		errs = append(errs, errors.New("jwt ttl must be positive"))
	}

	switch c.Cache.Driver {
	case "memory", "redis":
	default:
		errs = append(errs, fmt.Errorf("cache.driver %q not supported", c.Cache.Driver))
	}
	switch c.Storage.Driver {
	case "local", "memory":
	default:
		errs = append(errs, fmt.Errorf("storage.driver %q not supported", c.Storage.Driver))
	}
	if c.Storage.MaxUploadBytes < 0 {
		errs = append(errs, errors.New("storage.max_upload_bytes must be positive"))
	}
	if c.RateLimit.Enabled && (c.RateLimit.RPS < 0 || c.RateLimit.Burst < 0) {
		errs = append(errs, errors.New("rate_limit rps/burst must be positive"))
	}

	if len(errs) > 0 {
		return fmt.Errorf("config: %w", errors.Join(errs...))
	}
	return nil
}

// IsProd reports whether the app runs in production mode.
func (c *Config) IsProd() bool {
	return strings.EqualFold(c.App.Env, "prod") || strings.EqualFold(c.App.Env, "production")
}
