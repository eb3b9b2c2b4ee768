// Package config builds the service configuration once at start-up from
// defaults, an optional YAML file and the environment.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"
)

// Config holds every setting the service reads. It is constructed once in
// main and handed to constructors; nothing reads the environment afterwards.
type Config struct {
	Server     ServerConfig     `koanf:"server"`
	Database   DatabaseConfig   `koanf:"database"`
	Auth       AuthConfig       `koanf:"auth"`
	Mail       MailConfig       `koanf:"mail"`
	Newsletter NewsletterConfig `koanf:"newsletter"`
	Upload     UploadConfig     `koanf:"upload"`
	RateLimit  RateLimitConfig  `koanf:"rate_limit"`
	Logging    LoggingConfig    `koanf:"logging"`
}

type ServerConfig struct {
	Host string `koanf:"host"`
	Port string `koanf:"port"`
	// BaseURL is the public origin of the site, used to build links in emails.
	BaseURL string `koanf:"base_url"`
	// SiteName is used in emails until one is saved in the site settings.
	SiteName        string        `koanf:"site_name"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
}

// Addr returns the listen address.
func (s ServerConfig) Addr() string {
	return s.Host + ":" + s.Port
}

type DatabaseConfig struct {
	URL string `koanf:"url"`
}

type AuthConfig struct {
	JWTSecret  string        `koanf:"jwt_secret"`
	SessionTTL time.Duration `koanf:"session_ttl"`
	// CookieSecure marks the session cookie Secure; defaults to true when
	// BaseURL is https.
	CookieSecure bool `koanf:"cookie_secure"`

	AdminEmail    string `koanf:"admin_email"`
	AdminPassword string `koanf:"admin_password"`
	AdminName     string `koanf:"admin_name"`

	GoogleClientID     string `koanf:"google_client_id"`
	GoogleClientSecret string `koanf:"google_client_secret"`
}

// GoogleEnabled reports whether Google sign-in is configured.
func (a AuthConfig) GoogleEnabled() bool {
	return a.GoogleClientID != "" && a.GoogleClientSecret != ""
}

// Mail provider names.
const (
	MailProviderResend   = "resend"
	MailProviderSendGrid = "sendgrid"
	MailProviderSMTP     = "smtp"
)

type MailConfig struct {
	Provider    string `koanf:"provider"`
	FromName    string `koanf:"from_name"`
	FromAddress string `koanf:"from_address"`

	ResendAPIKey   string `koanf:"resend_api_key"`
	SendGridAPIKey string `koanf:"sendgrid_api_key"`

	SMTPHost     string `koanf:"smtp_host"`
	SMTPPort     int    `koanf:"smtp_port"`
	SMTPUsername string `koanf:"smtp_username"`
	SMTPPassword string `koanf:"smtp_password"`

	// ContactConfirmation mails contact form senders an acknowledgement.
	ContactConfirmation bool `koanf:"contact_confirmation"`
}

// From returns the RFC 5322 sender, e.g. "Jane Doe <hello@example.com>".
func (m MailConfig) From() string {
	if m.FromName == "" {
		return m.FromAddress
	}
	return fmt.Sprintf("%s <%s>", m.FromName, m.FromAddress)
}

type NewsletterConfig struct {
	// Concurrency caps in-flight sends during a newsletter batch.
	Concurrency int           `koanf:"concurrency"`
	SendTimeout time.Duration `koanf:"send_timeout"`
	// SendRate is the provider request budget per second. Zero disables
	// pacing.
	SendRate    float64       `koanf:"send_rate"`
}

type UploadConfig struct {
	ImgBBAPIKey string `koanf:"imgbb_api_key"`
	MaxBytes    int64  `koanf:"max_bytes"`
}

type RateLimitConfig struct {
	PerMinute int    `koanf:"per_minute"`
	RedisURL  string `koanf:"redis_url"`
}

type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
}

func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:            "0.0.0.0",
			Port:            "8080",
			BaseURL:         "http://localhost:8080",
			SiteName:        "Folio",
			ShutdownTimeout: 15 * time.Second,
		},
		Auth: AuthConfig{
			SessionTTL: 24 * time.Hour,
			AdminName:  "Admin",
		},
		Mail: MailConfig{
			Provider:            MailProviderResend,
			FromName:            "Newsletter",
			SMTPPort:            587,
			ContactConfirmation: true,
		},
		Newsletter: NewsletterConfig{
			Concurrency: 5,
			SendTimeout: 15 * time.Second,
			SendRate:    2,
		},
		Upload: UploadConfig{
			MaxBytes: 10 << 20,
		},
		RateLimit: RateLimitConfig{
			PerMinute: 10,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// Validate checks the settings the service cannot start without.
func (c *Config) Validate() error {
	var errs []error

	if c.Database.URL == "" {
		errs = append(errs, errors.New("DATABASE_URL is required"))
	}
	if len(c.Auth.JWTSecret) < 32 {
		errs = append(errs, errors.New("JWT_SECRET must be at least 32 characters"))
	}
	if u, err := url.Parse(c.Server.BaseURL); err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		errs = append(errs, fmt.Errorf("BASE_URL must be an absolute http(s) URL, got %q", c.Server.BaseURL))
	}
	if c.Newsletter.Concurrency < 1 {
		errs = append(errs, errors.New("NEWSLETTER_CONCURRENCY must be at least 1"))
	}
	if c.Newsletter.SendTimeout <= 0 {
		errs = append(errs, errors.New("NEWSLETTER_SEND_TIMEOUT must be positive"))
	}
	if c.Newsletter.SendRate < 0 {
		errs = append(errs, errors.New("NEWSLETTER_SEND_RATE must not be negative"))
	}
	if c.Mail.FromAddress == "" {
		errs = append(errs, errors.New("MAIL_FROM_ADDRESS is required"))
	}

	switch c.Mail.Provider {
	case MailProviderResend:
		if c.Mail.ResendAPIKey == "" {
			errs = append(errs, errors.New("RESEND_API_KEY is required for the resend provider"))
		}
	case MailProviderSendGrid:
		if c.Mail.SendGridAPIKey == "" {
			errs = append(errs, errors.New("SENDGRID_API_KEY is required for the sendgrid provider"))
		}
	case MailProviderSMTP:
		if c.Mail.SMTPHost == "" {
			errs = append(errs, errors.New("SMTP_HOST is required for the smtp provider"))
		}
	default:
		errs = append(errs, fmt.Errorf("unsupported MAIL_PROVIDER %q", c.Mail.Provider))
	}

	return errors.Join(errs...)
}

// SecureCookies reports whether cookies should carry the Secure attribute.
func (c *Config) SecureCookies() bool {
	return c.Auth.CookieSecure || strings.HasPrefix(c.Server.BaseURL, "https://")
}
