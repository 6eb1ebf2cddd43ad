package config

import (
	"errors"
	"strings"
	"testing"
)

var allKeys = []string{
	"JIRA_BASE_URL", "JIRA_EMAIL", "JIRA_API_TOKEN", "BOARD_ID", "JIRA_RATE_LIMIT",
	"SQL_DRIVER", "SQL_SERVER", "SQL_DATABASE", "SQL_AUTH", "SQL_USERNAME", "SQL_PASSWORD",
	"SQL_SSLMODE", "SQL_COLUMNS_TABLE", "SQL_ISSUES_TABLE",
}

func clearEnv(t *testing.T) {
	t.Helper()
	// t.Setenv restores the previous value when the test ends.
	for _, k := range allKeys {
		t.Setenv(k, "")
	}
}

func setValidEnv(t *testing.T) {
	t.Helper()
	clearEnv(t)
	t.Setenv("JIRA_BASE_URL", "https://example.atlassian.net/")
	t.Setenv("JIRA_EMAIL", "ops@example.com")
	t.Setenv("JIRA_API_TOKEN", "token")
	t.Setenv("SQL_SERVER", `.\SQLEXPRESS`)
}

func TestLoadConfigDefaults(t *testing.T) {
	setValidEnv(t)

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}

	if cfg.JiraURL != "https://example.atlassian.net" {
		t.Errorf("JiraURL = %q, trailing slash should be trimmed", cfg.JiraURL)
	}
	if cfg.BoardID != DefaultBoardID {
		t.Errorf("BoardID = %d, want %d", cfg.BoardID, DefaultBoardID)
	}
	if cfg.SQLDatabase != DefaultDatabase {
		t.Errorf("SQLDatabase = %q, want %q", cfg.SQLDatabase, DefaultDatabase)
	}
	if cfg.SQLAuth != AuthWindows {
		t.Errorf("SQLAuth = %q, want %q", cfg.SQLAuth, AuthWindows)
	}
	if cfg.SQLDriver != DriverSQLServer {
		t.Errorf("SQLDriver = %q, want %q", cfg.SQLDriver, DriverSQLServer)
	}
	if cfg.ColumnsTable != "dbo.JiraBoardColumns" || cfg.IssuesTable != "dbo.JiraIssuesBoard" {
		t.Errorf("tables = %q, %q", cfg.ColumnsTable, cfg.IssuesTable)
	}
	if cfg.RateLimit != DefaultRateLimit {
		t.Errorf("RateLimit = %v, want %v", cfg.RateLimit, DefaultRateLimit)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate: %v", err)
	}
}

func TestLoadConfigOverrides(t *testing.T) {
	setValidEnv(t)
	t.Setenv("BOARD_ID", "17")
	t.Setenv("SQL_DRIVER", "Postgres")
	t.Setenv("SQL_AUTH", "SQL")
	t.Setenv("SQL_USERNAME", "sync")
	t.Setenv("SQL_PASSWORD", "secret")
	t.Setenv("JIRA_RATE_LIMIT", "0")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.BoardID != 17 {
		t.Errorf("BoardID = %d, want 17", cfg.BoardID)
	}
	if cfg.SQLDriver != DriverPostgres || cfg.SQLAuth != AuthSQL {
		t.Errorf("driver/auth = %q/%q", cfg.SQLDriver, cfg.SQLAuth)
	}
	if cfg.ColumnsTable != "JiraBoardColumns" {
		t.Errorf("ColumnsTable = %q", cfg.ColumnsTable)
	}
	if cfg.RateLimit != 0 {
		t.Errorf("RateLimit = %v, want 0", cfg.RateLimit)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate: %v", err)
	}
}

func TestLoadConfigBadBoardIDFallsBack(t *testing.T) {
	setValidEnv(t)
	t.Setenv("BOARD_ID", "two")

	cfg, _ := LoadConfig()
	if cfg.BoardID != DefaultBoardID {
		t.Errorf("BoardID = %d, want %d", cfg.BoardID, DefaultBoardID)
	}
}

func TestValidateMissing(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		key    string
	}{
		{"base url", func(c *Config) { c.JiraURL = "" }, "JIRA_BASE_URL"},
		{"email", func(c *Config) { c.JiraEmail = "" }, "JIRA_EMAIL"},
		{"token blank", func(c *Config) { c.JiraAPIToken = "   " }, "JIRA_API_TOKEN"},
		{"server", func(c *Config) { c.SQLServer = "" }, "SQL_SERVER"},
		{"database", func(c *Config) { c.SQLDatabase = "" }, "SQL_DATABASE"},
		{"sql user", func(c *Config) { c.SQLAuth = AuthSQL; c.SQLPassword = "x" }, "SQL_USERNAME"},
		{"sql password", func(c *Config) { c.SQLAuth = AuthSQL; c.SQLUsername = "x" }, "SQL_PASSWORD"},
		{"jira checked before db", func(c *Config) { c.JiraEmail = ""; c.SQLServer = "" }, "JIRA_EMAIL"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)

			err := cfg.Validate()
			var missing *MissingConfigurationError
			if !errors.As(err, &missing) {
				t.Fatalf("Validate() = %v, want MissingConfigurationError", err)
			}
			if missing.Key != tt.key {
				t.Errorf("missing key = %q, want %q", missing.Key, tt.key)
			}
		})
	}
}

func TestValidateSQLiteNeedsNoServer(t *testing.T) {
	cfg := validConfig()
	cfg.SQLDriver = DriverSQLite
	cfg.SQLServer = ""
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate: %v", err)
	}
}

func TestValidateRejectsUnknownValues(t *testing.T) {
	cfg := validConfig()
	cfg.SQLDriver = "oracle"
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for unknown driver")
	}

	cfg = validConfig()
	cfg.SQLAuth = "kerberos"
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for unknown auth mode")
	}
}

func TestStringHidesSecrets(t *testing.T) {
	cfg := validConfig()
	cfg.JiraAPIToken = "super-secret-token"
	cfg.SQLPassword = "super-secret-password"

	s := cfg.String()
	for _, secret := range []string{cfg.JiraAPIToken, cfg.SQLPassword} {
		if strings.Contains(s, secret) {
			t.Errorf("String() leaks %q: %s", secret, s)
		}
	}
}

func validConfig() *Config {
	return &Config{
		JiraURL:      "https://example.atlassian.net",
		JiraEmail:    "ops@example.com",
		JiraAPIToken: "token",
		BoardID:      DefaultBoardID,
		SQLDriver:    DriverSQLServer,
		SQLServer:    "localhost",
		SQLDatabase:  DefaultDatabase,
		SQLAuth:      AuthWindows,
	}
}
