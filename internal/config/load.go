// AngelaMos | 2026
// load.go

package config

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

var defaults = map[string]map[string]any{
	"app": {
		"name":        "BOI Bookstore API",
		"version":     "1.0.0",
		"environment": "development",
	},
	"server": {
		"host":             "0.0.0.0",
		"port":             5000,
		"read_timeout":     "30s",
		"write_timeout":    "30s",
		"idle_timeout":     "120s",
		"shutdown_timeout": "15s",
	},
	"database": {
		"max_open_conns":     25,
		"max_idle_conns":     5,
		"conn_max_lifetime":  "1h",
		"conn_max_idle_time": "30m",
	},
	"redis": {
		"pool_size":      10,
		"min_idle_conns": 5,
	},
	"jwt": {
		"access_token_expire": "168h",
		"issuer":              "boi-backend",
		"audience":            "boi-api",
		"private_key_path":    "keys/private.pem",
		"public_key_path":     "keys/public.pem",
	},
	"rate_limit": {
		"requests": 100,
		"window":   "1m",
		"burst":    20,
	},
	"cors": {
		"allowed_origins":   []string{"http://localhost:3000"},
		"allowed_methods":   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		"allowed_headers":   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		"allow_credentials": true,
		"max_age":           300,
	},
	"log": {
		"level":        "info",
		"format":       "json",
		"max_size_mb":  100,
		"max_backups":  5,
		"max_age_days": 28,
		"compress":     true,
	},
	"otel": {
		"enabled":      false,
		"insecure":     true,
		"sample_rate":  0.1,
		"service_name": "boi-backend",
	},
	"metrics": {
		"enabled": true,
		"path":    "/metrics",
	},
	"migrate": {
		"auto": false,
	},
}

// envBindings maps the supported environment variables onto config keys.
// Anything not listed is ignored.
var envBindings = map[string]string{
	"ENVIRONMENT":                 "app.environment",
	"HOST":                        "server.host",
	"PORT":                        "server.port",
	"DATABASE_URL":                "database.url",
	"REDIS_URL":                   "redis.url",
	"JWT_PRIVATE_KEY_PATH":        "jwt.private_key_path",
	"JWT_PUBLIC_KEY_PATH":         "jwt.public_key_path",
	"JWT_ACCESS_TOKEN_EXPIRE":     "jwt.access_token_expire",
	"JWT_ISSUER":                  "jwt.issuer",
	"JWT_AUDIENCE":                "jwt.audience",
	"RATE_LIMIT_REQUESTS":         "rate_limit.requests",
	"RATE_LIMIT_WINDOW":           "rate_limit.window",
	"RATE_LIMIT_BURST":            "rate_limit.burst",
	"LOG_LEVEL":                   "log.level",
	"LOG_FORMAT":                  "log.format",
	"LOG_FILE":                    "log.file",
	"OTEL_ENABLED":                "otel.enabled",
	"OTEL_ENDPOINT":               "otel.endpoint",
	"OTEL_EXPORTER_OTLP_ENDPOINT": "otel.endpoint",
	"OTEL_SERVICE_NAME":           "otel.service_name",
	"OTEL_INSECURE":               "otel.insecure",
	"OTEL_SAMPLE_RATE":            "otel.sample_rate",
	"METRICS_ENABLED":             "metrics.enabled",
	"METRICS_PATH":                "metrics.path",
	"MIGRATE_AUTO":                "migrate.auto",
	"ADMIN_ACCOUNTS":              "admin.inline",
}

// Load reads .env if present, then layers defaults, the YAML file at path
// (skipped when empty) and bound environment variables.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("read .env: %w", err)
	}
	return load(path)
}

func load(path string) (*Config, error) {
	k := koanf.New(".")

	for section, values := range defaults {
		for key, value := range values {
			if err := k.Set(section+"."+key, value); err != nil {
				return nil, fmt.Errorf("default %s.%s: %w", section, key, err)
			}
		}
	}

	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("read %s: %w", path, err)
		}
	}

	bind := func(name string) string { return envBindings[name] }
	if err := k.Load(env.Provider("", ".", bind), nil); err != nil {
		return nil, fmt.Errorf("read environment: %w", err)
	}

	c := &Config{}
	if err := k.Unmarshal("", c); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}

	if c.Admin.Inline != "" {
		extra, err := ParseAdminAccounts(c.Admin.Inline)
		if err != nil {
			return nil, fmt.Errorf("ADMIN_ACCOUNTS: %w", err)
		}
		c.Admin.Accounts = append(c.Admin.Accounts, extra...)
	}

	if err := c.validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return c, nil
}
