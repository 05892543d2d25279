// Package config loads and validates application configuration.
// Values come from environment variables, optionally layered over a config
// file named by ARCHIVER_CONFIG; the CLI additionally binds its flags to the
// same keys.
package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Keys. Each one is also the name of the environment variable that sets it.
const (
	KeyPort         = "PORT"
	KeyDatabaseURL  = "DATABASE_URL"
	KeyLogLevel     = "LOG_LEVEL"
	KeyCORSOrigins  = "CORS_ORIGINS"
	KeyArchiveRoot  = "ARCHIVE_ROOT"
	KeyMaxBodyBytes = "MAX_BODY_BYTES"
	KeyArchiveJobs  = "ARCHIVE_JOBS"
	KeyTagDB        = "TAG_DB"
	KeyConfigFile   = "ARCHIVER_CONFIG"
)

// tagDBName is the SQLite file the CLI keeps inside the archive root.
const tagDBName = ".archiver.db"

// Config holds all configuration values for the API server and the CLI.
type Config struct {
	// Port is the TCP port the HTTP server listens on. Defaults to "8080".
	Port string

	// DatabaseURL is the Postgres connection string. Required by the API server.
	DatabaseURL string

	// LogLevel controls the minimum log level. Defaults to "info".
	// Valid values: debug, info, warn, error.
	LogLevel string

	// CORSOrigins is the list of allowed cross-origin request origins.
	// Defaults to ["http://localhost:5173"].
	// Set CORS_ORIGINS to a comma-separated list to override.
	CORSOrigins []string

	// ArchiveRoot is the directory documents are archived into. Required by
	// the API server; CLI commands that move files check it themselves.
	ArchiveRoot string

	// MaxBodyBytes caps request bodies. Defaults to 1 MiB.
	MaxBodyBytes int64

	// ArchiveJobs is how many documents a batch archive moves concurrently.
	// Defaults to 4.
	ArchiveJobs int

	// TagDB is the CLI's SQLite tag database. Defaults to
	// <ArchiveRoot>/.archiver.db when an archive root is set.
	TagDB string
}

// Load reads the API server configuration from the environment (and the
// optional ARCHIVER_CONFIG file). Returns an error listing any required
// variables that are not set.
func Load() (Config, error) {
	cfg, err := load(viper.New())
	if err != nil {
		return Config{}, err
	}

	var missing []string
	if cfg.DatabaseURL == "" {
		missing = append(missing, KeyDatabaseURL)
	}
	if cfg.ArchiveRoot == "" {
		missing = append(missing, KeyArchiveRoot)
	}
	if len(missing) > 0 {
		return Config{}, fmt.Errorf("required environment variables not set: %s", strings.Join(missing, ", "))
	}
	return cfg, nil
}

// LoadCLI reads the CLI configuration from v, whose keys may already be
// bound to command-line flags. Nothing is required at this stage.
func LoadCLI(v *viper.Viper) (Config, error) {
	return load(v)
}

func load(v *viper.Viper) (Config, error) {
	v.SetDefault(KeyPort, "8080")
	v.SetDefault(KeyLogLevel, "info")
	v.SetDefault(KeyCORSOrigins, "http://localhost:5173")
	v.SetDefault(KeyMaxBodyBytes, 1<<20)
	v.SetDefault(KeyArchiveJobs, 4)
	v.AutomaticEnv()

	if path := v.GetString(KeyConfigFile); path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("config: read %s: %w", path, err)
		}
	}

	cfg := Config{
		Port:         v.GetString(KeyPort),
		DatabaseURL:  v.GetString(KeyDatabaseURL),
		LogLevel:     v.GetString(KeyLogLevel),
		CORSOrigins:  splitCSV(v.GetString(KeyCORSOrigins)),
		ArchiveRoot:  v.GetString(KeyArchiveRoot),
		MaxBodyBytes: v.GetInt64(KeyMaxBodyBytes),
		ArchiveJobs:  v.GetInt(KeyArchiveJobs),
		TagDB:        v.GetString(KeyTagDB),
	}

	if cfg.MaxBodyBytes <= 0 {
		return Config{}, fmt.Errorf("config: %s must be a positive integer, got %q", KeyMaxBodyBytes, v.GetString(KeyMaxBodyBytes))
	}
	if cfg.ArchiveJobs <= 0 {
		return Config{}, fmt.Errorf("config: %s must be a positive integer, got %q", KeyArchiveJobs, v.GetString(KeyArchiveJobs))
	}

	if cfg.ArchiveRoot != "" {
		cfg.ArchiveRoot = filepath.Clean(cfg.ArchiveRoot)
		if cfg.TagDB == "" {
			cfg.TagDB = filepath.Join(cfg.ArchiveRoot, tagDBName)
		}
	}
	return cfg, nil
}

// splitCSV splits a comma-separated string into a trimmed slice, ignoring empty entries.
func splitCSV(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if t := strings.TrimSpace(part); t != "" {
			out = append(out, t)
		}
	}
	return out
}
