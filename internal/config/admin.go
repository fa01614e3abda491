// AngelaMos | 2026
// admin.go

package config

import (
	"fmt"
	"strings"
)

const defaultAdminName = "Administrator"

// AdminConfig lists the privileged accounts seeded into the users table.
// Their emails are reserved and cannot be registered.
type AdminConfig struct {
	Accounts []AdminAccount `koanf:"accounts"`
	// Inline holds ADMIN_ACCOUNTS, merged into Accounts after loading.
	Inline string `koanf:"inline"`
}

type AdminAccount struct {
	Email    string `koanf:"email"`
	Name     string `koanf:"name"`
	Password string `koanf:"password"`
}

// ParseAdminAccounts reads "email:password[:name]" entries separated by
// semicolons. Emails are lower-cased.
func ParseAdminAccounts(raw string) ([]AdminAccount, error) {
	var accounts []AdminAccount

	for entry := range strings.SplitSeq(raw, ";") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}

		email, rest, ok := strings.Cut(entry, ":")
		password, name, _ := strings.Cut(rest, ":")
		if !ok || strings.TrimSpace(email) == "" || password == "" {
			return nil, fmt.Errorf("admin account %q: want email:password[:name]", entry)
		}

		if name = strings.TrimSpace(name); name == "" {
			name = defaultAdminName
		}
		accounts = append(accounts, AdminAccount{
			Email:    strings.ToLower(strings.TrimSpace(email)),
			Password: password,
			Name:     name,
		})
	}
	return accounts, nil
}

// ReservedEmails returns the lower-cased admin emails.
func (c *Config) ReservedEmails() []string {
	emails := make([]string, len(c.Admin.Accounts))
	for i, a := range c.Admin.Accounts {
		emails[i] = strings.ToLower(a.Email)
	}
	return emails
}
