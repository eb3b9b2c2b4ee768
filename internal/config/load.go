package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// ConfigPathEnvVar overrides the YAML config file location.
const ConfigPathEnvVar = "CONFIG_PATH"

// DefaultConfigPaths are searched in order when CONFIG_PATH is unset.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/folio/config.yaml",
}

// envKeys maps environment variables to koanf paths. Unlisted variables are
// ignored.
var envKeys = map[string]string{
	"host":             "server.host",
	"port":             "server.port",
	"base_url":         "server.base_url",
	"site_name":        "server.site_name",
	"shutdown_timeout": "server.shutdown_timeout",

	"database_url": "database.url",

	"jwt_secret":           "auth.jwt_secret",
	"session_ttl":          "auth.session_ttl",
	"cookie_secure":        "auth.cookie_secure",
	"admin_email":          "auth.admin_email",
	"admin_password":       "auth.admin_password",
	"admin_name":           "auth.admin_name",
	"google_client_id":     "auth.google_client_id",
	"google_client_secret": "auth.google_client_secret",

	"mail_provider":     "mail.provider",
	"mail_from_name":    "mail.from_name",
	"mail_from_address": "mail.from_address",
	"resend_api_key":    "mail.resend_api_key",
	"sendgrid_api_key":  "mail.sendgrid_api_key",
	"smtp_host":         "mail.smtp_host",
	"smtp_port":         "mail.smtp_port",
	"smtp_username":     "mail.smtp_username",
	"smtp_password":     "mail.smtp_password",

	"contact_confirmation": "mail.contact_confirmation",

	"newsletter_concurrency":  "newsletter.concurrency",
	"newsletter_send_timeout": "newsletter.send_timeout",
	"newsletter_send_rate":    "newsletter.send_rate",

	"imgbb_api_key":    "upload.imgbb_api_key",
	"upload_max_bytes": "upload.max_bytes",

	"rate_limit_per_minute": "rate_limit.per_minute",
	"redis_url":             "rate_limit.redis_url",

	"log_level":  "logging.level",
	"log_format": "logging.format",
}

func envTransform(key string) string {
	return envKeys[strings.ToLower(key)]
}

// Load layers defaults, the optional YAML file and environment variables (in
// increasing priority), then validates the result. A .env file in the working
// directory is loaded into the environment first when present.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("load defaults: %w", err)
	}

	if path := findConfigFile(); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("load config file %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider("", ".", envTransform), nil); err != nil {
		return nil, fmt.Errorf("load environment: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	cfg.Server.BaseURL = strings.TrimRight(cfg.Server.BaseURL, "/")

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func findConfigFile() string {
	if p := os.Getenv(ConfigPathEnvVar); p != "" {
		return p
	}
	for _, p := range DefaultConfigPaths {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}
