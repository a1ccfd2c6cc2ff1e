package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"coachreports/internal/models"
	"coachreports/internal/repository"
	"coachreports/internal/security"
	"coachreports/internal/validation"
)

var (
	ErrUsernameTaken      = errors.New("username already taken")
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrSessionNotFound    = errors.New("session not found")
)

// AuthService handles coach authentication
type AuthService struct {
	userRepo *repository.UserRepository
	tokens   *security.TokenIssuer
}

// NewAuthService creates a new auth service
func NewAuthService(userRepo *repository.UserRepository, tokens *security.TokenIssuer) *AuthService {
	return &AuthService{userRepo: userRepo, tokens: tokens}
}

// CreateCoach creates a coach account with a bcrypt-hashed password
func (s *AuthService) CreateCoach(ctx context.Context, username, fullName, password string, isAdmin bool) (*models.User, error) {
	username = strings.TrimSpace(username)
	fullName = strings.TrimSpace(fullName)

	if err := validation.ValidateUsername(username); err != nil {
		return nil, err
	}
	if err := validation.ValidateName(fullName); err != nil {
		return nil, err
	}
	if err := validation.ValidatePassword(password); err != nil {
		return nil, err
	}

	existing, err := s.userRepo.GetUserByUsername(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing user: %w", err)
	}
	if existing != nil {
		return nil, ErrUsernameTaken
	}

	hash, err := security.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user, err := s.userRepo.CreateUser(ctx, username, fullName, hash, isAdmin)
	if err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	return user, nil
}

// Login authenticates a coach and returns a signed session token
func (s *AuthService) Login(ctx context.Context, username, password string) (string, *models.Session, *models.User, error) {
	user, err := s.userRepo.GetUserByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		return "", nil, nil, fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil || !security.CheckPassword(password, user.PasswordHash) {
		return "", nil, nil, ErrInvalidCredentials
	}

	token, session, err := s.tokens.Issue(user.ID)
	if err != nil {
		return "", nil, nil, fmt.Errorf("failed to create session: %w", err)
	}
	if err := s.userRepo.CreateSession(ctx, session); err != nil {
		return "", nil, nil, err
	}

	return token, session, user, nil
}

// Logout revokes a session; its token stops validating even before it expires
func (s *AuthService) Logout(ctx context.Context, sessionID string) error {
	return s.userRepo.DeleteSession(ctx, sessionID)
}

// SweepSessions deletes expired sessions every interval until ctx is done
func (s *AuthService) SweepSessions(ctx context.Context, every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := s.userRepo.DeleteExpiredSessions(ctx, time.Now())
			if err != nil {
				log.Printf("Session sweep failed: %v", err)
				continue
			}
			if n > 0 {
				log.Printf("Swept %d expired sessions", n)
			}
		}
	}
}

// ValidateToken checks a session token and returns the session and its user
func (s *AuthService) ValidateToken(ctx context.Context, token string) (*models.Session, *models.User, error) {
	claims, err := s.tokens.Parse(token)
	if err != nil {
		return nil, nil, ErrSessionNotFound
	}

	session, err := s.userRepo.GetSession(ctx, claims.ID)
	if err != nil {
		return nil, nil, err
	}
	if session == nil || session.UserID != claims.UserID || session.IsExpired() {
		return nil, nil, ErrSessionNotFound
	}

	user, err := s.userRepo.GetUserByID(ctx, session.UserID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return nil, nil, ErrSessionNotFound
	}

	return session, user, nil
}
