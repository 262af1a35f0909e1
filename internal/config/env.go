package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// LoadEnv applies environment overrides on top of the YAML values.
// Values that do not parse are reported together; the others still apply.
func LoadEnv(cfg *Config) error {
	var errs []error
	if v := env("APP_ENV"); v != "" {
		cfg.App.Env = v
	}
	if v := env("APP_ADDR"); v != "" {
		cfg.Server.Addr = v
	}
	if v := env("GIN_MODE"); v != "" {
		cfg.Server.GinMode = v
	}
	if v := env("CORS_ALLOWED_ORIGINS"); v != "" {
		cfg.Server.CORSAllowedOrigins = splitList(v)
	}
	if v := env("LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}

	if v := env("DB_DRIVER"); v != "" {
		cfg.Database.Driver = strings.ToLower(v)
	}
	if v := env("DB_DSN"); v != "" {
		cfg.Database.DSN = v
	}
	if v := env("DB_HOST"); v != "" {
		cfg.Database.Host = v
	}
	if v := env("DB_PORT"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 || n > 65535 {
			errs = append(errs, fmt.Errorf("DB_PORT %q is not a valid port", v))
		} else {
			cfg.Database.Port = n
		}
	}
	if v := env("DB_USER"); v != "" {
		cfg.Database.User = v
	}
	if v, ok := os.LookupEnv("DB_PASSWORD"); ok {
		cfg.Database.Password = v
	}
	if v := env("DB_NAME"); v != "" {
		cfg.Database.Name = v
	}
	if v := env("DB_AUTO_MIGRATE"); v != "" {
		errs = append(errs, parseBool("DB_AUTO_MIGRATE", v, &cfg.Database.AutoMigrate))
	}

	if v := env("JWT_SECRET"); v != "" {
		cfg.JWT.Secret = v
	}

	if v := env("CACHE_DRIVER"); v != "" {
		cfg.Cache.Driver = strings.ToLower(v)
	}
	if v := env("REDIS_ADDR"); v != "" {
		cfg.Cache.Redis.Addr = v
	}
	if v, ok := os.LookupEnv("REDIS_PASSWORD"); ok {
		cfg.Cache.Redis.Password = v
	}

	if v := env("STORAGE_DRIVER"); v != "" {
		cfg.Storage.Driver = strings.ToLower(v)
	}
	if v := env("STORAGE_ROOT"); v != "" {
		cfg.Storage.Root = v
	}
	if v := env("RATE_LIMIT_ENABLED"); v != "" {
		errs = append(errs, parseBool("RATE_LIMIT_ENABLED", v, &cfg.RateLimit.Enabled))
	}
	return errors.Join(errs...)
}

func parseBool(key, v string, dst *bool) error {
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fmt.Errorf("%s %q is not a boolean", key, v)
	}
	*dst = b
	return nil
}

func env(key string) string {
	return strings.TrimSpace(os.Getenv(key))
}

func splitList(v string) []string {
	out := []string{}
	for _, o := range strings.Split(v, ",") {
		o = strings.TrimSpace(o)
		if o != "" {
			out = append(out, o)
		}
	}
	return out
}
