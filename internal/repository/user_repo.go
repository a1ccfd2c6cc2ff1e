package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"coachreports/internal/database"
	"coachreports/internal/models"
)

// UserRepository handles database operations for coach accounts
type UserRepository struct {
	db database.DBTX
}

// NewUserRepository creates a new user repository
func NewUserRepository(db database.DBTX) *UserRepository {
	return &UserRepository{db: db}
}

// CreateUser inserts a coach account
func (r *UserRepository) CreateUser(ctx context.Context, username, fullName, passwordHash string, isAdmin bool) (*models.User, error) {
	query := "INSERT INTO users (username, full_name, password_hash, is_admin) VALUES (?, ?, ?, ?)"
	id, err := r.db.ExecReturningID(ctx, query, username, fullName, passwordHash, isAdmin)
	if err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	return r.GetUserByID(ctx, id)
}

// ImportUser inserts a coach account keeping its timestamps; zero timestamps become now
func (r *UserRepository) ImportUser(ctx context.Context, u models.User) (*models.User, error) {
	now := time.Now().UTC()
	if u.CreatedAt.IsZero() {
		u.CreatedAt = now
	}
	if u.UpdatedAt.IsZero() {
		u.UpdatedAt = u.CreatedAt
	}

	query := "INSERT INTO users (username, full_name, password_hash, is_admin, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?)"
	id, err := r.db.ExecReturningID(ctx, query, u.Username, u.FullName, u.PasswordHash, u.IsAdmin, u.CreatedAt.UTC(), u.UpdatedAt.UTC())
	if err != nil {
		return nil, fmt.Errorf("failed to import user: %w", err)
	}
	return r.GetUserByID(ctx, id)
}

// GetUserByID retrieves a user by ID
func (r *UserRepository) GetUserByID(ctx context.Context, id int64) (*models.User, error) {
	query := `
		SELECT id, username, full_name, password_hash, is_admin, created_at, updated_at
		FROM users WHERE id = ?
	`
	return r.scanUser(r.db.QueryRowContext(ctx, query, id))
}

// GetUserByUsername retrieves a user by username
func (r *UserRepository) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	query := `
		SELECT id, username, full_name, password_hash, is_admin, created_at, updated_at
		FROM users WHERE username = ?
	`
	return r.scanUser(r.db.QueryRowContext(ctx, query, username))
}

func (r *UserRepository) scanUser(row *sql.Row) (*models.User, error) {
	user := &models.User{}
	err := row.Scan(
		&user.ID,
		&user.Username,
		&user.FullName,
		&user.PasswordHash,
		&user.IsAdmin,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return user, nil
}

// ListUsers returns every coach account ordered by ID
func (r *UserRepository) ListUsers(ctx context.Context) ([]models.User, error) {
	query := `
		SELECT id, username, full_name, password_hash, is_admin, created_at, updated_at
		FROM users ORDER BY id
	`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	defer rows.Close()

	var users []models.User
	for rows.Next() {
		var u models.User
		if err := rows.Scan(&u.ID, &u.Username, &u.FullName, &u.PasswordHash, &u.IsAdmin, &u.CreatedAt, &u.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

// CreateSession records a session so it can be revoked before its token expires
func (r *UserRepository) CreateSession(ctx context.Context, session *models.Session) error {
	query := "INSERT INTO sessions (id, user_id, expires_at, created_at) VALUES (?, ?, ?, ?)"
	if session.CreatedAt.IsZero() {
		session.CreatedAt = time.Now().UTC()
	}
	_, err := r.db.ExecContext(ctx, query, session.ID, session.UserID, session.ExpiresAt.UTC(), session.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create session: %w", err)
	}
	return nil
}

// GetSession retrieves a session by ID
func (r *UserRepository) GetSession(ctx context.Context, sessionID string) (*models.Session, error) {
	query := "SELECT id, user_id, expires_at, created_at FROM sessions WHERE id = ?"
	session := &models.Session{}
	err := r.db.QueryRowContext(ctx, query, sessionID).Scan(
		&session.ID,
		&session.UserID,
		&session.ExpiresAt,
		&session.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}
	return session, nil
}

// DeleteSession removes a session
func (r *UserRepository) DeleteSession(ctx context.Context, sessionID string) error {
	if _, err := r.db.ExecContext(ctx, "DELETE FROM sessions WHERE id = ?", sessionID); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

// DeleteExpiredSessions removes every session that expired before now
func (r *UserRepository) DeleteExpiredSessions(ctx context.Context, now time.Time) (int64, error) {
	result, err := r.db.ExecContext(ctx, "DELETE FROM sessions WHERE expires_at < ?", now.UTC())
	if err != nil {
		return 0, fmt.Errorf("failed to delete expired sessions: %w", err)
	}
	return result.RowsAffected()
}
