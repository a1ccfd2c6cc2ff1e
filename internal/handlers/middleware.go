package handlers

import (
	"context"
	"errors"
	"log"
	"net/http"
	"time"

	"coachreports/internal/models"
	"coachreports/internal/router"
	"coachreports/internal/security"
	"coachreports/internal/service"
	"coachreports/internal/store"
)

// ContextKey is a custom type for context keys to avoid collisions
type ContextKey string

const (
	UserContextKey    ContextKey = "user"
	SessionContextKey ContextKey = "session"
)

// Authenticator signs coaches in and out and resolves session tokens
type Authenticator interface {
	Login(ctx context.Context, username, password string) (string, *models.Session, *models.User, error)
	Logout(ctx context.Context, sessionID string) error
	ValidateToken(ctx context.Context, token string) (*models.Session, *models.User, error)
}

// Middleware holds dependencies for middleware functions
type Middleware struct {
	auth    Authenticator
	csrf    *security.CSRFGenerator
	limiter *security.RateLimiter
}

// NewMiddleware creates a new middleware instance
func NewMiddleware(auth Authenticator, csrf *security.CSRFGenerator, limiter *security.RateLimiter) *Middleware {
	return &Middleware{auth: auth, csrf: csrf, limiter: limiter}
}

// RequireCoach is middleware that requires a valid coach session. The session ID
// is also attached for the UI store.
func (m *Middleware) RequireCoach(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		loginURL := router.MustURL(router.Target{PageName: router.PageLogin})

		cookie, err := r.Cookie(security.SessionCookieName)
		if err != nil {
			http.Redirect(w, r, loginURL, http.StatusSeeOther)
			return
		}

		session, user, err := m.auth.ValidateToken(r.Context(), cookie.Value)
		if err != nil {
			if !errors.Is(err, service.ErrSessionNotFound) {
				log.Printf("Session validation failed: %v", err)
			}
			http.SetCookie(w, security.CreateDeleteCookie(r))
			http.Redirect(w, r, loginURL, http.StatusSeeOther)
			return
		}

		ctx := context.WithValue(r.Context(), UserContextKey, user)
		ctx = context.WithValue(ctx, SessionContextKey, session)
		ctx = store.WithSessionID(ctx, session.ID)
		next(w, r.WithContext(ctx))
	}
}

// CSRFProtect rejects state-changing requests without the session's token.
// It must run inside RequireCoach.
func (m *Middleware) CSRFProtect(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session := GetSessionFromContext(r.Context())
		if session == nil {
			respondWithError(w, http.StatusUnauthorized, ErrUnauthorized, "", nil)
			return
		}
		if err := r.ParseForm(); err != nil {
			respondWithError(w, http.StatusBadRequest, ErrInvalidFormData, "", err)
			return
		}
		if !m.csrf.Valid(session.ID, r.PostFormValue(security.CSRFFieldName)) {
			log.Printf("CSRF token mismatch for %s %s", r.Method, r.URL.Path)
			respondWithError(w, http.StatusForbidden, ErrForbidden, "", nil)
			return
		}
		next(w, r)
	}
}

// RateLimit throttles requests per client IP
func (m *Middleware) RateLimit(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ip := m.limiter.ClientIP(r)
		if !m.limiter.Allow(ip) {
			log.Printf("Rate limit exceeded for %s", ip)
			respondWithError(w, http.StatusTooManyRequests, ErrTooManyRequests, "", nil)
			return
		}
		next(w, r)
	}
}

// CSRFToken returns the token for the current session, or "" outside one
func (m *Middleware) CSRFToken(r *http.Request) string {
	session := GetSessionFromContext(r.Context())
	if session == nil {
		return ""
	}
	token, err := m.csrf.Token(session.ID)
	if err != nil {
		log.Printf("Failed to create CSRF token: %v", err)
		return ""
	}
	return token
}

// Logging middleware logs HTTP requests
func Logging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		log.Printf("%s %s %s", r.Method, r.URL.Path, time.Since(start))
	})
}

// GetUserFromContext retrieves the user from the request context
func GetUserFromContext(ctx context.Context) *models.User {
	user, ok := ctx.Value(UserContextKey).(*models.User)
	if !ok {
		return nil
	}
	return user
}

// GetSessionFromContext retrieves the session from the request context
func GetSessionFromContext(ctx context.Context) *models.Session {
	session, ok := ctx.Value(SessionContextKey).(*models.Session)
	if !ok {
		return nil
	}
	return session
}
