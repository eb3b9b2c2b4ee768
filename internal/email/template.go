package email

import (
	"bytes"
	"errors"
	"fmt"
	htmltemplate "html/template"
	texttemplate "text/template"
)

// ErrUnknownTemplate is returned by Render for a name with no definition.
var ErrUnknownTemplate = errors.New("email: unknown template")

// TemplateDefinition holds the raw (un-rendered) template strings.
type TemplateDefinition struct {
	Subject string
	Body    string
	HTML    string
}

// RenderedTemplate holds the rendered output ready to send.
type RenderedTemplate struct {
	Subject string
	Body    string
	HTML    string
}

const (
	TemplateWelcome             = "welcome"
	TemplateContactNotification = "contact_notification"
	TemplateContactConfirmation = "contact_confirmation"
)

// DefaultTemplates contains the built-in transactional templates.
var DefaultTemplates = map[string]TemplateDefinition{
	TemplateWelcome: {
		Subject: "Thanks for subscribing to {{.SiteName}}",
		Body:    "Hi,\n\nThanks for subscribing to {{.SiteName}}. You'll get new posts and updates by email.\n\nIf this wasn't you, unsubscribe here: {{.UnsubscribeURL}}",
		HTML:    `<p>Hi,</p><p>Thanks for subscribing to <strong>{{.SiteName}}</strong>. You'll get new posts and updates by email.</p><p style="font-size:12px;color:#666">If this wasn't you, <a href="{{.UnsubscribeURL}}">unsubscribe here</a>.</p>`,
	},
	TemplateContactNotification: {
		Subject: "New contact message from {{.Name}}",
		Body:    "Name: {{.Name}}\nEmail: {{.Email}}\n{{if .Phone}}Phone: {{.Phone}}\n{{end}}{{if .Subject}}Subject: {{.Subject}}\n{{end}}\n{{.Message}}",
		HTML:    `<p><strong>Name:</strong> {{.Name}}<br><strong>Email:</strong> <a href="mailto:{{.Email}}">{{.Email}}</a>{{if .Phone}}<br><strong>Phone:</strong> {{.Phone}}{{end}}{{if .Subject}}<br><strong>Subject:</strong> {{.Subject}}{{end}}</p><p style="white-space:pre-wrap">{{.Message}}</p>`,
	},
	TemplateContactConfirmation: {
		Subject: "We received your message",
		Body:    "Hi {{.Name}},\n\nThanks for getting in touch with {{.SiteName}}. Your message has been received and you'll hear back soon.\n\n> {{.Message}}",
		HTML:    `<p>Hi {{.Name}},</p><p>Thanks for getting in touch with <strong>{{.SiteName}}</strong>. Your message has been received and you'll hear back soon.</p><blockquote style="white-space:pre-wrap">{{.Message}}</blockquote>`,
	},
}

// Render renders the built-in template called name.
func Render(name string, vars map[string]any) (RenderedTemplate, error) {
	def, ok := DefaultTemplates[name]
	if !ok {
		return RenderedTemplate{}, fmt.Errorf("%w: %s", ErrUnknownTemplate, name)
	}
	return RenderTemplate(def, vars)
}

// RenderTemplate executes a TemplateDefinition against vars and returns the
// rendered subject, plain-text body, and HTML body.
func RenderTemplate(def TemplateDefinition, vars map[string]any) (RenderedTemplate, error) {
	subject, err := renderText(def.Subject, vars)
	if err != nil {
		return RenderedTemplate{}, fmt.Errorf("render subject: %w", err)
	}

	body, err := renderText(def.Body, vars)
	if err != nil {
		return RenderedTemplate{}, fmt.Errorf("render body: %w", err)
	}

	var htmlOut string
	if def.HTML != "" {
		htmlOut, err = renderHTML(def.HTML, vars)
		if err != nil {
			return RenderedTemplate{}, fmt.Errorf("render html: %w", err)
		}
	}

	return RenderedTemplate{Subject: subject, Body: body, HTML: htmlOut}, nil
}

// Message turns the rendered template into a Message, preferring HTML.
func (r RenderedTemplate) Message(from string, to ...string) Message {
	msg := Message{From: from, To: to, Subject: r.Subject, Body: r.Body}
	if r.HTML != "" {
		msg.Body = r.HTML
		msg.HTML = true
	}
	return msg
}

func renderText(tmplStr string, vars map[string]any) (string, error) {
	t, err := texttemplate.New("").Option("missingkey=zero").Parse(tmplStr)
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if err := t.Execute(&buf, vars); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func renderHTML(tmplStr string, vars map[string]any) (string, error) {
	t, err := htmltemplate.New("").Option("missingkey=zero").Parse(tmplStr)
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if err := t.Execute(&buf, vars); err != nil {
		return "", err
	}
	return buf.String(), nil
}
