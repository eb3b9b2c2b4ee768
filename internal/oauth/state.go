package oauth

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// StatePayload is encoded into the OAuth state parameter. Nonce is also kept
// in a cookie so the callback can tie the state to the browser that started
// the flow.
type StatePayload struct {
	Redirect string `json:"redirect"`
	Nonce    string `json:"nonce"`
}

// EncodeState builds a state parameter for redirect and returns it together
// with its nonce.
func EncodeState(redirect string) (state, nonce string, err error) {
	nonce, err = generateNonce()
	if err != nil {
		return "", "", fmt.Errorf("generating nonce: %w", err)
	}
	b, err := json.Marshal(StatePayload{Redirect: redirect, Nonce: nonce})
	if err != nil {
		return "", "", err
	}
	return base64.URLEncoding.EncodeToString(b), nonce, nil
}

// DecodeState decodes and returns the StatePayload from an OAuth callback state param.
func DecodeState(state string) (*StatePayload, error) {
	b, err := base64.URLEncoding.DecodeString(state)
	if err != nil {
		return nil, errors.New("invalid state encoding")
	}
	var payload StatePayload
	if err := json.Unmarshal(b, &payload); err != nil {
		return nil, errors.New("invalid state payload")
	}
	if payload.Redirect == "" || payload.Nonce == "" {
		return nil, errors.New("incomplete state payload")
	}
	return &payload, nil
}

// VerifyNonce compares the state nonce with the one stored in the cookie.
func (p *StatePayload) VerifyNonce(cookie string) bool {
	return cookie != "" && subtle.ConstantTimeCompare([]byte(p.Nonce), []byte(cookie)) == 1
}

// SafeRedirect reports whether target is a same-site relative path. Absolute
// and protocol-relative URLs are rejected.
func SafeRedirect(target string) bool {
	if !strings.HasPrefix(target, "/") {
		return false
	}
	if strings.HasPrefix(target, "//") || strings.HasPrefix(target, `/\`) {
		return false
	}
	return !strings.ContainsAny(target, "\r\n")
}

func generateNonce() (string, error) {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.URLEncoding.EncodeToString(b), nil
}
