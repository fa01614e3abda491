// AngelaMos | 2026
// validate.go

package config

import (
	"errors"
	"slices"
)

// validate reports every problem at once.
func (c *Config) validate() error {
	var problems []error
	check := func(bad bool, msg string) {
		if bad {
			problems = append(problems, errors.New(msg))
		}
	}

	check(c.Database.URL == "", "DATABASE_URL is required")
	check(c.Redis.URL == "", "REDIS_URL is required")
	check(c.JWT.PrivateKeyPath == "", "JWT_PRIVATE_KEY_PATH is required")
	check(c.JWT.PublicKeyPath == "", "JWT_PUBLIC_KEY_PATH is required")
	check(c.JWT.AccessTokenExpire <= 0, "jwt.access_token_expire must be positive")
	check(c.Server.ReadTimeout <= 0, "server.read_timeout must be positive")
	check(c.Server.WriteTimeout <= 0, "server.write_timeout must be positive")
	check(
		c.CORS.AllowCredentials && slices.Contains(c.CORS.AllowedOrigins, "*"),
		"CORS wildcard origin cannot be combined with credentials",
	)
	check(
		c.IsProduction() && c.Otel.Enabled && c.Otel.Insecure,
		"OTEL_INSECURE must be false in production",
	)

	for _, a := range c.Admin.Accounts {
		if a.Email == "" || a.Password == "" {
			check(true, "admin accounts need an email and a password")
			break
		}
	}

	return errors.Join(problems...)
}
