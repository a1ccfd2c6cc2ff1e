package security

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
)

// CSRFFieldName is the hidden form field carrying the token
const CSRFFieldName = "csrf_token"

var errNoSession = errors.New("session ID is required")

// CSRFGenerator derives CSRF tokens from the coach session ID with HMAC-SHA256.
// Nothing is stored, so every replica of the server accepts the same token.
type CSRFGenerator struct {
	secret []byte
}

// NewCSRFGenerator creates a generator keyed by secret
func NewCSRFGenerator(secret string) *CSRFGenerator {
	return &CSRFGenerator{secret: []byte(secret)}
}

// Token returns the CSRF token for sessionID
func (g *CSRFGenerator) Token(sessionID string) (string, error) {
	if sessionID == "" {
		return "", errNoSession
	}
	mac := hmac.New(sha256.New, g.secret)
	mac.Write([]byte("csrf:" + sessionID))
	return hex.EncodeToString(mac.Sum(nil)), nil
}

// Valid reports whether token belongs to sessionID
func (g *CSRFGenerator) Valid(sessionID, token string) bool {
	if token == "" {
		return false
	}
	expected, err := g.Token(sessionID)
	if err != nil {
		return false
	}
	return hmac.Equal([]byte(expected), []byte(token))
}
