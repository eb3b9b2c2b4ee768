package newsletter

import (
	"encoding/base64"
	"errors"
	"net/url"
	"strings"
	"unicode/utf8"

	"github.com/gsarma/folio/internal/validation"
)

// ErrInvalidToken is returned when an unsubscribe token does not decode to an
// email address.
var ErrInvalidToken = errors.New("invalid unsubscribe token")

// EncodeToken turns an address into the opaque token carried by unsubscribe
// links. It is a reversible encoding, not a signature: anyone who knows an
// address can build its token.
func EncodeToken(email string) string {
	return base64.StdEncoding.EncodeToString([]byte(email))
}

var tokenEncodings = []*base64.Encoding{
	base64.StdEncoding,
	base64.URLEncoding,
	base64.RawStdEncoding,
	base64.RawURLEncoding,
}

// DecodeToken reverses EncodeToken. URL-safe and unpadded variants are
// accepted since mail clients and browsers mangle '+', '/' and '='.
func DecodeToken(token string) (string, error) {
	token = strings.TrimSpace(token)
	// A '+' that went through form decoding arrives as a space.
	token = strings.ReplaceAll(token, " ", "+")
	if token == "" {
		return "", ErrInvalidToken
	}
	for _, enc := range tokenEncodings {
		raw, err := enc.DecodeString(token)
		if err != nil || !utf8.Valid(raw) {
			continue
		}
		addr := string(raw)
		if validation.Email(addr) != nil {
			return "", ErrInvalidToken
		}
		return addr, nil
	}
	return "", ErrInvalidToken
}

// UnsubscribeURL builds <baseURL>/unsubscribe?token=<token> for email.
func UnsubscribeURL(baseURL, email string) string {
	return strings.TrimRight(baseURL, "/") + "/unsubscribe?token=" + url.QueryEscape(EncodeToken(email))
}
