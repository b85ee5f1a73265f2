// Package config handles configuration for the portfolio server,
// including development defaults and environment overrides.
package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds runtime settings for the portfolio server.
//
// Access and refresh tokens are signed with DISTINCT secrets so that a
// leaked access token can never be replayed as a refresh token.
type Config struct {
	Addr         string // bind address for the HTTP endpoint
	DatabasePath string // sqlite database file, ":memory:" for tests

	AccessTokenSecret  string
	RefreshTokenSecret string
	AccessTokenTTL     time.Duration
	RefreshTokenTTL    time.Duration

	GithubProfileURL string
	GithubReposURL   string
	GithubToken      string
	AppName          string

	S3BaseEndpoint string
	S3Region       string
	S3Bucket       string
	S3AccessKey    string
	S3SecretKey    string

	SMTPHost     string
	SMTPPort     string
	SMTPUsername string
	SMTPPassword string
	MailFrom     string
	OwnerName    string
	FrontendURL  string
	OwnerSummary string

	PasskeyRPID   string
	PasskeyRPName string
	PasskeyOrigin string

	CORSOrigin string
}

// LoadDefaults populates Config with development defaults.
// NOTE: secrets here are insecure and must be overridden in production.
func (c *Config) LoadDefaults() {
	c.Addr = ":8080"
	c.DatabasePath = "portfolio.db"
	c.AccessTokenSecret = "dev-access-secret"
	c.RefreshTokenSecret = "dev-refresh-secret"
	c.AccessTokenTTL = 15 * time.Minute
	c.RefreshTokenTTL = 30 * 24 * time.Hour
	c.GithubProfileURL = "https://api.github.com/users/octocat"
	c.GithubReposURL = "https://api.github.com/users/octocat/repos"
	c.AppName = "portfolio-api"
	c.S3Region = "us-east-1"
	c.S3Bucket = "portfolio"
	c.S3BaseEndpoint = "http://127.0.0.1:9000/"
	c.SMTPPort = "465"
	c.PasskeyRPID = "localhost"
	c.PasskeyRPName = "Portfolio"
	c.PasskeyOrigin = "http://localhost:3000"
	// конкретный origin: wildcard несовместим с cookie-аутентификацией
	c.FrontendURL = "http://localhost:3000"
	c.CORSOrigin = "http://localhost:3000"
}

// Load builds a Config by applying defaults and overlaying environment
// variables.
func Load() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	cfg.parseEnv()
	return cfg
}

func (c *Config) parseEnv() {
	envString("PORT_ADDR", &c.Addr)
	envString("DATABASE_PATH", &c.DatabasePath)
	envString("ACCESS_TOKEN_SECRET", &c.AccessTokenSecret)
	envString("REFRESH_TOKEN_SECRET", &c.RefreshTokenSecret)
	envDuration("ACCESS_TOKEN_LIFETIME", &c.AccessTokenTTL)
	envDuration("REFRESH_TOKEN_LIFETIME", &c.RefreshTokenTTL)
	envString("GITHUB_API_URL", &c.GithubProfileURL)
	envString("GITHUB_REPOS_URL", &c.GithubReposURL)
	envString("GITHUB_ACCESS_TOKEN", &c.GithubToken)
	envString("APP_NAME", &c.AppName)
	envString("S3_BASE_ENDPOINT", &c.S3BaseEndpoint)
	envString("S3_REGION", &c.S3Region)
	envString("S3_BUCKET", &c.S3Bucket)
	envString("S3_ACCESS_KEY", &c.S3AccessKey)
	envString("S3_SECRET_KEY", &c.S3SecretKey)
	envString("SMTP_HOST", &c.SMTPHost)
	envString("SMTP_PORT", &c.SMTPPort)
	envString("SMTP_EMAIL", &c.SMTPUsername)
	envString("SMTP_EMAIL_PASSWORD", &c.SMTPPassword)
	envString("MAIL_FROM", &c.MailFrom)
	envString("OWNER_NAME", &c.OwnerName)
	envString("FRONTEND_URL", &c.FrontendURL)
	envString("OWNER_SUMMARY", &c.OwnerSummary)
	envString("PASSKEY_RP_ID", &c.PasskeyRPID)
	envString("PASSKEY_RP_NAME", &c.PasskeyRPName)
	envString("PASSKEY_ORIGIN", &c.PasskeyOrigin)
	envString("CORS_ORIGIN", &c.CORSOrigin)
}

func envString(key string, target *string) {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		*target = v
	}
}

// envDuration принимает либо time.Duration ("15m"), либо секунды ("900")
func envDuration(key string, target *time.Duration) {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return
	}
	if d, err := time.ParseDuration(v); err == nil {
		*target = d
		return
	}
	if secs, err := strconv.Atoi(v); err == nil {
		*target = time.Duration(secs) * time.Second
	}
}
