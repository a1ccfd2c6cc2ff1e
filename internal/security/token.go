package security

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"coachreports/internal/models"
)

var ErrInvalidToken = errors.New("invalid session token")

const tokenIssuer = "coachreports"

// TokenIssuer signs and verifies HS256 session tokens. The token ID doubles as
// the session ID that keys CSRF tokens and per-session UI state.
type TokenIssuer struct {
	secret   []byte
	duration time.Duration
	now      func() time.Time
}

// NewTokenIssuer creates an issuer whose tokens live for duration
func NewTokenIssuer(secret string, duration time.Duration) *TokenIssuer {
	return &TokenIssuer{secret: []byte(secret), duration: duration, now: time.Now}
}

// Issue creates a signed token and the session it represents
func (i *TokenIssuer) Issue(userID int64) (string, *models.Session, error) {
	now := i.now()
	session := &models.Session{
		ID:        uuid.New().String(),
		UserID:    userID,
		ExpiresAt: now.Add(i.duration),
	}

	claims := jwt.RegisteredClaims{
		ID:        session.ID,
		Subject:   strconv.FormatInt(userID, 10),
		Issuer:    tokenIssuer,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(session.ExpiresAt),
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.secret)
	if err != nil {
		return "", nil, fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, session, nil
}

// Parse verifies a token and returns its session
func (i *TokenIssuer) Parse(token string) (*models.Session, error) {
	claims := &jwt.RegisteredClaims{}
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(tokenIssuer),
		jwt.WithTimeFunc(i.now),
		jwt.WithExpirationRequired(),
	)

	parsed, err := parser.ParseWithClaims(token, claims, func(*jwt.Token) (interface{}, error) {
		return i.secret, nil
	})
	if err != nil || !parsed.Valid {
		return nil, ErrInvalidToken
	}

	userID, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil || claims.ID == "" {
		return nil, ErrInvalidToken
	}

	return &models.Session{
		ID:        claims.ID,
		UserID:    userID,
		ExpiresAt: claims.ExpiresAt.Time,
	}, nil
}
