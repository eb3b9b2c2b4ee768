package email

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wneessen/go-mail"
)

func TestSMTPProvider_BuildMsg(t *testing.T) {
	p := NewSMTPProvider(SMTPConfig{Host: "smtp.example.com"})
	m, err := p.buildMsg(Message{
		From:    "Folio <news@example.com>",
		To:      []string{"a@x.com"},
		Subject: "Hello",
		Body:    "<p>Hi</p>",
		HTML:    true,
		Headers: map[string]string{"List-Unsubscribe-Post": "List-Unsubscribe=One-Click"},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"List-Unsubscribe=One-Click"}, m.GetGenHeader(mail.Header("List-Unsubscribe-Post")))
	assert.NotEmpty(t, m.GetMessageID())
}

func TestSMTPProvider_BuildMsgRejectsBadRecipient(t *testing.T) {
	p := NewSMTPProvider(SMTPConfig{Host: "smtp.example.com"})
	_, err := p.buildMsg(Message{From: "news@example.com", To: []string{"not-an-address"}})
	assert.ErrorIs(t, err, ErrRejected)
}

func TestNewSMTPProvider_Defaults(t *testing.T) {
	p := NewSMTPProvider(SMTPConfig{Host: "h"})
	assert.Equal(t, 587, p.cfg.Port)
	assert.NotZero(t, p.cfg.Timeout)
}
