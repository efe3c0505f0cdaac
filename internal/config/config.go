// Package config handles application configuration and environment loading.
package config

import (
	"bufio"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
)

// Config holds the configuration for the catalog server and CLI.
type Config struct {
	MetaDBPath     string // path to SQLite control-plane file (integrations, projects)
	FilesDir       string // directory exposed as the "files" schema
	DefaultProject string // project included in the default COLUMNS scope
	ListenAddr     string // HTTP listen address (default ":8080")
	LogLevel       string // log level: debug, info, warn, error (default "info")
	Env            string // environment: "development" (default) or "production"
	SeedFile       string // optional YAML file of integrations/projects applied at startup
	EncryptionKey  string // 64-char hex AES-256 key sealing integration DSNs at rest

	// Rate limiting
	RateLimitRPS   float64 // sustained requests per second (default 100)
	RateLimitBurst int     // burst capacity (default 200)

	// CORS
	CORSAllowedOrigins []string // allowed origins for CORS (default: ["*"])

	// Warnings collects non-fatal warnings generated during config loading.
	// These are logged by the caller after the logger is initialised.
	Warnings []string
}

// SlogLevel maps the LogLevel string to an slog.Level.
func (c *Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// IsProduction returns true when the server is running in production mode.
func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.Env, "production")
}

// NewLogger builds the process logger: JSON in production, text otherwise.
func (c *Config) NewLogger() *slog.Logger {
	opts := &slog.HandlerOptions{Level: c.SlogLevel()}
	if c.IsProduction() {
		return slog.New(slog.NewJSONHandler(os.Stderr, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stderr, opts))
}

// Defaults applied by LoadFromEnv.
const (
	DefaultMetaDBPath     = "fedcat_meta.sqlite"
	DefaultFilesDir       = "files"
	DefaultProject        = "mindsdb"
	DefaultListenAddr     = ":8080"
	// InsecureEncryptionKey is the all-zero key substituted for an unset
	// ENCRYPTION_KEY outside production.
	InsecureEncryptionKey = "0000000000000000000000000000000000000000000000000000000000000000"
	defaultRateLimitRPS   = 100
	defaultRateLimitBurst = 200
)

// LoadFromEnv reads configuration from the environment and applies defaults.
// Malformed numbers are errors. In production a CORS wildcard or a missing
// ENCRYPTION_KEY is fatal; elsewhere they only warn, as does an unreadable
// FILES_DIR.
func LoadFromEnv() (*Config, error) {
	cfg := &Config{
		MetaDBPath:         os.Getenv("META_DB_PATH"),
		FilesDir:           os.Getenv("FILES_DIR"),
		DefaultProject:     strings.TrimSpace(os.Getenv("DEFAULT_PROJECT")),
		ListenAddr:         os.Getenv("LISTEN_ADDR"),
		LogLevel:           os.Getenv("LOG_LEVEL"),
		Env:                os.Getenv("ENV"),
		SeedFile:           os.Getenv("SEED_FILE"),
		EncryptionKey:      strings.TrimSpace(os.Getenv("ENCRYPTION_KEY")),
		CORSAllowedOrigins: splitList(os.Getenv("CORS_ALLOWED_ORIGINS")),
	}

	var err error
	if cfg.RateLimitRPS, err = envFloat("RATE_LIMIT_RPS"); err != nil {
		return nil, err
	}
	if cfg.RateLimitBurst, err = envInt("RATE_LIMIT_BURST"); err != nil {
		return nil, err
	}

	cfg.applyDefaults()

	if _, err := os.Stat(cfg.FilesDir); err != nil {
		cfg.Warnings = append(cfg.Warnings, fmt.Sprintf("FILES_DIR %q is not readable; the files schema will be empty", cfg.FilesDir))
	}
	if cfg.IsProduction() && len(cfg.CORSAllowedOrigins) == 1 && cfg.CORSAllowedOrigins[0] == "*" {
		return nil, fmt.Errorf("CORS wildcard (*) is not allowed in production (ENV=production)")
	}
	if cfg.IsProduction() && cfg.EncryptionKey == InsecureEncryptionKey {
		return nil, fmt.Errorf("ENCRYPTION_KEY must be set in production (ENV=production)")
	}
	return cfg, nil
}

func (c *Config) applyDefaults() {
	setDefault(&c.MetaDBPath, DefaultMetaDBPath)
	setDefault(&c.FilesDir, DefaultFilesDir)
	setDefault(&c.DefaultProject, DefaultProject)
	setDefault(&c.ListenAddr, DefaultListenAddr)
	setDefault(&c.LogLevel, "info")
	if c.EncryptionKey == "" {
		c.EncryptionKey = InsecureEncryptionKey
		c.Warnings = append(c.Warnings, "ENCRYPTION_KEY not set; integration DSNs are sealed with an insecure all-zero key")
	}
	if c.RateLimitRPS == 0 {
		c.RateLimitRPS = defaultRateLimitRPS
	}
	if c.RateLimitBurst == 0 {
		c.RateLimitBurst = defaultRateLimitBurst
	}
	if len(c.CORSAllowedOrigins) == 0 {
		c.CORSAllowedOrigins = []string{"*"}
	}
}

func setDefault(dst *string, v string) {
	if *dst == "" {
		*dst = v
	}
}

// envFloat parses a non-negative float; unset is 0.
func envFloat(key string) (float64, error) {
	v := os.Getenv(key)
	if v == "" {
		return 0, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil || f < 0 {
		return 0, fmt.Errorf("invalid %s %q", key, v)
	}
	return f, nil
}

// envInt parses a non-negative int; unset is 0.
func envInt(key string) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("invalid %s %q", key, v)
	}
	return n, nil
}

// splitList splits a comma-separated value, dropping empty entries.
func splitList(v string) []string {
	var out []string
	for _, item := range strings.Split(v, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

// LoadDotEnv sets variables from a KEY=VALUE file without overriding the
// environment. A missing file is not an error.
func LoadDotEnv(path string) error {
	f, err := os.Open(path) //nolint:gosec // path is caller-controlled
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close() //nolint:errcheck

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		key, value, ok := parseDotEnvLine(scanner.Text())
		if !ok || os.Getenv(key) != "" {
			continue
		}
		if err := os.Setenv(key, value); err != nil {
			return fmt.Errorf("setenv %s: %w", key, err)
		}
	}
	return scanner.Err()
}

// parseDotEnvLine accepts "KEY=VALUE" and "export KEY=VALUE". Blank lines,
// # comments and lines without '=' are skipped.
func parseDotEnvLine(line string) (key, value string, ok bool) {
	line = strings.TrimSpace(line)
	if line == "" || strings.HasPrefix(line, "#") {
		return "", "", false
	}
	key, value, ok = strings.Cut(strings.TrimPrefix(line, "export "), "=")
	key = strings.TrimSpace(key)
	if !ok || key == "" {
		return "", "", false
	}
	return key, stripQuotes(strings.TrimSpace(value)), true
}

func stripQuotes(s string) string {
	if len(s) >= 2 {
		if (s[0] == '"' && s[len(s)-1] == '"') || (s[0] == '\'' && s[len(s)-1] == '\'') {
			return s[1 : len(s)-1]
		}
	}
	return s
}
