package api

import (
	"context"
	"time"

	"github.com/gsarma/folio/internal/email"
	"github.com/gsarma/folio/internal/logging"
)

const transactionalTimeout = 10 * time.Second

// sendTemplate renders a built-in template and sends it. Failures are logged
// and never reach the caller's response.
func (h *Handler) sendTemplate(ctx context.Context, name, to string, vars map[string]any) {
	if h.mailer == nil || h.opts.MailFrom == "" || to == "" {
		return
	}
	log := logging.Ctx(ctx)
	rendered, err := email.Render(name, vars)
	if err != nil {
		log.Error().Err(err).Str("template", name).Msg("failed to render email")
		return
	}

	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), transactionalTimeout)
	defer cancel()
	id, err := h.mailer.Send(ctx, rendered.Message(h.opts.MailFrom, to))
	if err != nil {
		log.Warn().Err(err).Str("template", name).Str("to", to).Msg("transactional email failed")
		return
	}
	log.Debug().Str("template", name).Str("message_id", id).Msg("transactional email sent")
}
