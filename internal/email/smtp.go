package email

import (
	"context"
	"fmt"
	"time"

	"github.com/wneessen/go-mail"
)

// SMTPConfig holds credentials for an SMTP server.
type SMTPConfig struct {
	Host     string        `json:"host"`
	Port     int           `json:"port"`
	Username string        `json:"username"`
	Password string        `json:"password"`
	Timeout  time.Duration `json:"timeout"`
}

// SMTPProvider sends email through an SMTP relay using go-mail. STARTTLS is
// used when the server offers it.
type SMTPProvider struct {
	cfg SMTPConfig
}

func NewSMTPProvider(cfg SMTPConfig) *SMTPProvider {
	if cfg.Port == 0 {
		cfg.Port = 587
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 15 * time.Second
	}
	return &SMTPProvider{cfg: cfg}
}

// newClient builds a fresh client per call; go-mail clients hold a single
// connection.
func (p *SMTPProvider) newClient() (*mail.Client, error) {
	opts := []mail.Option{
		mail.WithPort(p.cfg.Port),
		mail.WithTLSPortPolicy(mail.TLSOpportunistic),
		mail.WithTimeout(p.cfg.Timeout),
	}
	if p.cfg.Username != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(p.cfg.Username),
			mail.WithPassword(p.cfg.Password),
		)
	}
	client, err := mail.NewClient(p.cfg.Host, opts...)
	if err != nil {
		return nil, fmt.Errorf("create mail client: %w", err)
	}
	return client, nil
}

func (p *SMTPProvider) buildMsg(msg Message) (*mail.Msg, error) {
	m := mail.NewMsg()
	if err := m.From(msg.From); err != nil {
		return nil, fmt.Errorf("%w: set from: %v", ErrRejected, err)
	}
	if err := m.To(msg.To...); err != nil {
		return nil, fmt.Errorf("%w: set to: %v", ErrRejected, err)
	}
	m.Subject(msg.Subject)
	for k, v := range msg.Headers {
		m.SetGenHeader(mail.Header(k), v)
	}
	contentType := mail.TypeTextPlain
	if msg.HTML {
		contentType = mail.TypeTextHTML
	}
	m.SetBodyString(contentType, msg.Body)
	m.SetMessageID()
	return m, nil
}

func (p *SMTPProvider) Send(ctx context.Context, msg Message) (string, error) {
	m, err := p.buildMsg(msg)
	if err != nil {
		return "", err
	}
	client, err := p.newClient()
	if err != nil {
		return "", err
	}
	if err := client.DialAndSendWithContext(ctx, m); err != nil {
		return "", fmt.Errorf("smtp send: %w", err)
	}
	return m.GetMessageID(), nil
}

// Check dials the relay and closes the connection again.
func (p *SMTPProvider) Check(ctx context.Context) error {
	client, err := p.newClient()
	if err != nil {
		return err
	}
	if err := client.DialWithContext(ctx); err != nil {
		return fmt.Errorf("smtp dial %s:%d: %w", p.cfg.Host, p.cfg.Port, err)
	}
	return client.Close()
}
