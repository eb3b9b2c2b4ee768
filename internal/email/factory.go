package email

import (
	"fmt"

	"github.com/gsarma/folio/internal/config"
)

// NewFromConfig builds the configured transport wrapped in a circuit breaker.
// Per-send timeouts are left to callers.
func NewFromConfig(cfg config.MailConfig) (Provider, error) {
	var p Provider
	switch cfg.Provider {
	case config.MailProviderResend:
		p = NewResendProvider(ResendConfig{APIKey: cfg.ResendAPIKey})
	case config.MailProviderSendGrid:
		p = NewSendGridProvider(SendGridConfig{APIKey: cfg.SendGridAPIKey})
	case config.MailProviderSMTP:
		p = NewSMTPProvider(SMTPConfig{
			Host:     cfg.SMTPHost,
			Port:     cfg.SMTPPort,
			Username: cfg.SMTPUsername,
			Password: cfg.SMTPPassword,
		})
	default:
		return nil, fmt.Errorf("unsupported mail provider %q", cfg.Provider)
	}
	return WithBreaker(p, "mail-"+cfg.Provider), nil
}
