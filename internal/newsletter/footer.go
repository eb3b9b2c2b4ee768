package newsletter

import (
	"html"
	"strings"
)

// WithFooter returns content followed by the unsubscribe footer for one
// recipient. content itself is left untouched.
func WithFooter(content, siteName, unsubscribeURL string) string {
	var b strings.Builder
	b.Grow(len(content) + 512)
	b.WriteString(content)
	b.WriteString(`<hr style="margin:32px 0 16px;border:none;border-top:1px solid #e5e5e5">`)
	b.WriteString(`<div style="font-size:12px;line-height:1.5;color:#888;text-align:center">`)
	b.WriteString(`<p style="margin:0 0 8px">You are receiving this email because you subscribed to the `)
	if siteName != "" {
		b.WriteString(html.EscapeString(siteName))
		b.WriteString(" ")
	}
	b.WriteString(`newsletter.</p>`)
	b.WriteString(`<p style="margin:0"><a href="`)
	b.WriteString(html.EscapeString(unsubscribeURL))
	b.WriteString(`" style="color:#888;text-decoration:underline">Unsubscribe</a> from future emails.</p>`)
	b.WriteString(`</div>`)
	return b.String()
}
