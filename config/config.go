package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Supported database drivers.
const (
	DriverSQLServer = "sqlserver"
	DriverPostgres  = "postgres"
	DriverSQLite    = "sqlite3"
)

// Database authentication modes.
const (
	AuthWindows = "windows"
	AuthSQL     = "sql"
)

const (
	DefaultBoardID   = 2
	DefaultDatabase  = "JiraReporting"
	DefaultRateLimit = 10
)

// Config holds everything one sync run needs. It is built once by LoadConfig
// and passed by pointer to the components.
type Config struct {
	// Jira API
	JiraURL      string
	JiraEmail    string
	JiraAPIToken string
	BoardID      int
	// Requests per second against Jira; 0 disables the limiter.
	RateLimit float64

	// Destination database
	SQLDriver   string
	SQLServer   string
	SQLDatabase string
	SQLAuth     string
	SQLUsername string
	SQLPassword string
	SQLSSLMode  string

	ColumnsTable string
	IssuesTable  string
}

// MissingConfigurationError reports a required setting that is absent or empty.
type MissingConfigurationError struct {
	Key string
}

func (e *MissingConfigurationError) Error() string {
	return fmt.Sprintf("missing required environment variable: %s", e.Key)
}

// LoadConfig reads an optional .env file and then the process environment.
// It does not validate; call Validate before doing any I/O.
func LoadConfig() (*Config, error) {
	// A missing .env is fine, the environment may already be populated.
	_ = godotenv.Load()

	driver := strings.ToLower(getEnvWithDefault("SQL_DRIVER", DriverSQLServer))

	cfg := &Config{
		JiraURL:      strings.TrimRight(os.Getenv("JIRA_BASE_URL"), "/"),
		JiraEmail:    os.Getenv("JIRA_EMAIL"),
		JiraAPIToken: os.Getenv("JIRA_API_TOKEN"),
		BoardID:      getEnvAsIntWithDefault("BOARD_ID", DefaultBoardID),
		RateLimit:    getEnvAsFloatWithDefault("JIRA_RATE_LIMIT", DefaultRateLimit),

		SQLDriver:   driver,
		SQLServer:   os.Getenv("SQL_SERVER"),
		SQLDatabase: getEnvWithDefault("SQL_DATABASE", DefaultDatabase),
		SQLAuth:     strings.ToLower(getEnvWithDefault("SQL_AUTH", AuthWindows)),
		SQLUsername: os.Getenv("SQL_USERNAME"),
		SQLPassword: os.Getenv("SQL_PASSWORD"),
		SQLSSLMode:  getEnvWithDefault("SQL_SSLMODE", "disable"),

		ColumnsTable: getEnvWithDefault("SQL_COLUMNS_TABLE", defaultTable(driver, "JiraBoardColumns")),
		IssuesTable:  getEnvWithDefault("SQL_ISSUES_TABLE", defaultTable(driver, "JiraIssuesBoard")),
	}

	return cfg, nil
}

// Validate checks the Jira settings first, then the database settings, and
// reports the first missing one.
func (c *Config) Validate() error {
	if err := c.ValidateJira(); err != nil {
		return err
	}
	return c.ValidateDatabase()
}

// ValidateJira checks only what is needed to talk to the Jira API.
func (c *Config) ValidateJira() error {
	if err := require("JIRA_BASE_URL", c.JiraURL); err != nil {
		return err
	}
	if err := require("JIRA_EMAIL", c.JiraEmail); err != nil {
		return err
	}
	return require("JIRA_API_TOKEN", c.JiraAPIToken)
}

// ValidateDatabase checks the destination database settings.
func (c *Config) ValidateDatabase() error {
	switch c.SQLDriver {
	case DriverSQLServer, DriverPostgres:
		if err := require("SQL_SERVER", c.SQLServer); err != nil {
			return err
		}
	case DriverSQLite:
		// the database name is the file path, no server involved
	default:
		return fmt.Errorf("unsupported SQL_DRIVER %q", c.SQLDriver)
	}

	if err := require("SQL_DATABASE", c.SQLDatabase); err != nil {
		return err
	}

	switch c.SQLAuth {
	case AuthWindows:
	case AuthSQL:
		if err := require("SQL_USERNAME", c.SQLUsername); err != nil {
			return err
		}
		if err := require("SQL_PASSWORD", c.SQLPassword); err != nil {
			return err
		}
	default:
		return fmt.Errorf("unsupported SQL_AUTH %q (want %q or %q)", c.SQLAuth, AuthWindows, AuthSQL)
	}
	return nil
}

// String renders the configuration without secrets.
func (c *Config) String() string {
	return fmt.Sprintf("jira=%s user=%s board=%d driver=%s server=%s database=%s auth=%s",
		c.JiraURL, c.JiraEmail, c.BoardID, c.SQLDriver, c.SQLServer, c.SQLDatabase, c.SQLAuth)
}

func require(key, value string) error {
	if strings.TrimSpace(value) == "" {
		return &MissingConfigurationError{Key: key}
	}
	return nil
}

func defaultTable(driver, name string) string {
	if driver == DriverSQLServer {
		return "dbo." + name
	}
	return name
}

func getEnvWithDefault(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvAsIntWithDefault(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}

	return value
}

func getEnvAsFloatWithDefault(key string, defaultValue float64) float64 {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseFloat(valueStr, 64)
	if err != nil || value < 0 {
		return defaultValue
	}

	return value
}
