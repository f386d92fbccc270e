// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

// Package config defines the command line flags and the resolved
// configuration. Every flag can also be set through an environment variable
// or a key in config.toml.
package config

import (
	"fmt"
	"strings"
	"time"

	altsrc "github.com/urfave/cli-altsrc/v3"
	"github.com/urfave/cli-altsrc/v3/toml"
	"github.com/urfave/cli/v3"
)

var configFile = altsrc.StringSourcer("config.toml")

type Config struct { //nolint:govet // fieldalignment not critical for config structs
	Server    ServerConfig
	Log       LogConfig
	Database  DatabaseConfig
	TLS       TLSConfig
	Auth      AuthConfig
	Redirects RedirectsConfig
	Cache     CacheConfig
	Frontend  FrontendConfig
}

type ServerConfig struct { //nolint:govet // fieldalignment not critical for config structs
	Host        string
	Port        int
	BaseURL     string
	MaxBodySize int // in MB
	CORSOrigins []string
}

type LogConfig struct {
	Level  string // debug, info, warn, error
	Format string // text, json
}

type DatabaseConfig struct {
	DSN string
}

type TLSConfig struct {
	Mode     string // off, manual, acme
	CertDir  string // ACME certificate cache
	Email    string // ACME email for Let's Encrypt
	CertFile string // Path to certificate file (manual mode)
	KeyFile  string // Path to private key file (manual mode)
}

type AuthConfig struct { //nolint:govet // fieldalignment not critical for config structs
	TokenSecret string // empty selects the development secret
	TokenTTL    time.Duration
	BcryptCost  int
}

type RedirectsConfig struct {
	CodeLength int
}

type CacheConfig struct { //nolint:govet // fieldalignment not critical for config structs
	RedisURL string // empty disables the cache
	TTL      time.Duration
}

type FrontendConfig struct {
	Dir string // empty serves the embedded shell
}

func NewFromCLI(cmd *cli.Command) *Config {
	cfg := &Config{
		Server: ServerConfig{
			Host:        cmd.String("host"),
			Port:        int(cmd.Int("port")),
			BaseURL:     cmd.String("base-url"),
			MaxBodySize: int(cmd.Int("max-body-size")),
			CORSOrigins: splitList(cmd.String("cors-origins")),
		},
		Log: LogConfig{
			Level:  cmd.String("log-level"),
			Format: cmd.String("log-format"),
		},
		Database: DatabaseConfig{
			DSN: cmd.String("database-dsn"),
		},
		TLS: TLSConfig{
			Mode:     strings.ToLower(cmd.String("tls-mode")),
			CertDir:  cmd.String("tls-cert-dir"),
			Email:    cmd.String("tls-email"),
			CertFile: cmd.String("tls-cert-file"),
			KeyFile:  cmd.String("tls-key-file"),
		},
		Auth: AuthConfig{
			TokenSecret: cmd.String("token-secret"),
			TokenTTL:    cmd.Duration("token-ttl"),
			BcryptCost:  int(cmd.Int("bcrypt-cost")),
		},
		Redirects: RedirectsConfig{
			CodeLength: int(cmd.Int("code-length")),
		},
		Cache: CacheConfig{
			RedisURL: cmd.String("redis-url"),
			TTL:      cmd.Duration("cache-ttl"),
		},
		Frontend: FrontendConfig{
			Dir: cmd.String("frontend-dir"),
		},
	}

	if cfg.Server.BaseURL == "" {
		cfg.Server.BaseURL = buildBaseURL(cfg)
	}

	return cfg
}

func buildBaseURL(cfg *Config) string {
	host := cfg.Server.Host
	port := cfg.Server.Port

	scheme := "http"
	if shouldUseTLS(cfg.TLS.Mode) {
		scheme = "https"
	}

	// ACME mode always uses port 443
	if cfg.TLS.Mode == "acme" {
		return fmt.Sprintf("https://%s", host)
	}

	// Hide default ports in URL
	if (scheme == "http" && port == 80) || (scheme == "https" && port == 443) {
		return fmt.Sprintf("%s://%s", scheme, host)
	}
	return fmt.Sprintf("%s://%s:%d", scheme, host, port)
}

func shouldUseTLS(mode string) bool {
	switch mode {
	case "acme", "manual":
		return true
	default:
		return false
	}
}

// IsLocalhost checks if the host is a localhost address.
func IsLocalhost(host string) bool {
	switch host {
	case "", "localhost", "127.0.0.1", "::1":
		return true
	}
	// Check for *.localhost subdomains (e.g., app.localhost)
	return strings.HasSuffix(host, ".localhost")
}

// splitList splits a comma separated flag value and drops empty entries.
func splitList(value string) []string {
	var items []string
	for item := range strings.SplitSeq(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return items
}

// DatabaseFlags are the flags shared by the server and the migrate command.
func DatabaseFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "database-dsn",
			Value:   "./data/redirector.db",
			Usage:   "Database DSN",
			Sources: cli.NewValueSourceChain(cli.EnvVar("DATABASE_DSN"), toml.TOML("database.dsn", configFile)),
		},
		&cli.StringFlag{
			Name:    "log-level",
			Value:   "info",
			Usage:   "Log level (debug, info, warn, error)",
			Sources: cli.NewValueSourceChain(cli.EnvVar("LOG_LEVEL"), toml.TOML("log.level", configFile)),
		},
		&cli.StringFlag{
			Name:    "log-format",
			Value:   "text",
			Usage:   "Log format (text, json)",
			Sources: cli.NewValueSourceChain(cli.EnvVar("LOG_FORMAT"), toml.TOML("log.format", configFile)),
		},
	}
}

func Flags() []cli.Flag {
	return append(DatabaseFlags(),
		&cli.StringFlag{
			Name:    "host",
			Value:   "localhost",
			Usage:   "Host to bind to",
			Sources: cli.NewValueSourceChain(cli.EnvVar("HOST"), toml.TOML("server.host", configFile)),
		},
		&cli.IntFlag{
			Name:    "port",
			Value:   8000,
			Usage:   "Port to listen on",
			Sources: cli.NewValueSourceChain(cli.EnvVar("PORT"), toml.TOML("server.port", configFile)),
		},
		&cli.StringFlag{
			Name:    "base-url",
			Usage:   "Base URL for the application",
			Sources: cli.NewValueSourceChain(cli.EnvVar("BASE_URL"), toml.TOML("server.base_url", configFile)),
		},
		&cli.IntFlag{
			Name:    "max-body-size",
			Value:   1,
			Usage:   "Maximum request body size in MB",
			Sources: cli.NewValueSourceChain(cli.EnvVar("MAX_BODY_SIZE"), toml.TOML("server.max_body_size", configFile)),
		},
		&cli.StringFlag{
			Name:    "cors-origins",
			Value:   "http://localhost:5174",
			Usage:   "Comma separated origins allowed to call the API from a browser",
			Sources: cli.NewValueSourceChain(cli.EnvVar("CORS_ORIGINS"), toml.TOML("server.cors_origins", configFile)),
		},
		&cli.StringFlag{
			Name:    "tls-mode",
			Value:   "off",
			Usage:   "TLS mode (off, manual, acme)",
			Sources: cli.NewValueSourceChain(cli.EnvVar("TLS_MODE"), toml.TOML("tls.mode", configFile)),
		},
		&cli.StringFlag{
			Name:    "tls-cert-dir",
			Value:   "./data/certs",
			Usage:   "Directory for ACME certificates",
			Sources: cli.NewValueSourceChain(cli.EnvVar("TLS_CERT_DIR"), toml.TOML("tls.cert_dir", configFile)),
		},
		&cli.StringFlag{
			Name:    "tls-email",
			Usage:   "Email for ACME/Let's Encrypt registration",
			Sources: cli.NewValueSourceChain(cli.EnvVar("TLS_EMAIL"), toml.TOML("tls.email", configFile)),
		},
		&cli.StringFlag{
			Name:    "tls-cert-file",
			Usage:   "Path to TLS certificate file (manual mode)",
			Sources: cli.NewValueSourceChain(cli.EnvVar("TLS_CERT_FILE"), toml.TOML("tls.cert_file", configFile)),
		},
		&cli.StringFlag{
			Name:    "tls-key-file",
			Usage:   "Path to TLS private key file (manual mode)",
			Sources: cli.NewValueSourceChain(cli.EnvVar("TLS_KEY_FILE"), toml.TOML("tls.key_file", configFile)),
		},
		// Auth flags
		&cli.StringFlag{
			Name:    "token-secret",
			Usage:   "Secret for signing access tokens (an insecure development secret is used if empty)",
			Sources: cli.NewValueSourceChain(cli.EnvVar("SECRET_KEY"), cli.EnvVar("TOKEN_SECRET"), toml.TOML("auth.token_secret", configFile)),
		},
		&cli.DurationFlag{
			Name:    "token-ttl",
			Value:   30 * time.Minute,
			Usage:   "Lifetime of issued access tokens",
			Sources: cli.NewValueSourceChain(cli.EnvVar("TOKEN_TTL"), toml.TOML("auth.token_ttl", configFile)),
		},
		&cli.IntFlag{
			Name:    "bcrypt-cost",
			Value:   10,
			Usage:   "bcrypt cost for password hashes (4-31)",
			Sources: cli.NewValueSourceChain(cli.EnvVar("BCRYPT_COST"), toml.TOML("auth.bcrypt_cost", configFile)),
		},
		// Redirect flags
		&cli.IntFlag{
			Name:    "code-length",
			Value:   7,
			Usage:   "Length of generated shortcodes",
			Sources: cli.NewValueSourceChain(cli.EnvVar("CODE_LENGTH"), toml.TOML("redirects.code_length", configFile)),
		},
		// Cache flags
		&cli.StringFlag{
			Name:    "redis-url",
			Usage:   "Redis URL for the shortcode cache (disabled if empty)",
			Sources: cli.NewValueSourceChain(cli.EnvVar("REDIS_URL"), toml.TOML("cache.redis_url", configFile)),
		},
		&cli.DurationFlag{
			Name:    "cache-ttl",
			Value:   time.Hour,
			Usage:   "Lifetime of cached shortcodes",
			Sources: cli.NewValueSourceChain(cli.EnvVar("CACHE_TTL"), toml.TOML("cache.ttl", configFile)),
		},
		// Frontend flags
		&cli.StringFlag{
			Name:    "frontend-dir",
			Usage:   "Directory with the built frontend (index.html and assets)",
			Sources: cli.NewValueSourceChain(cli.EnvVar("FRONTEND_DIR"), toml.TOML("frontend.dir", configFile)),
		},
	)
}
