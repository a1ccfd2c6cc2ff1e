package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"coachreports/internal/database"
	"coachreports/internal/models"
)

// LearnerRepository handles database operations for learners
type LearnerRepository struct {
	db database.DBTX
}

// NewLearnerRepository creates a new learner repository
func NewLearnerRepository(db database.DBTX) *LearnerRepository {
	return &LearnerRepository{db: db}
}

// CreateLearner inserts a learner
func (r *LearnerRepository) CreateLearner(ctx context.Context, learner models.Learner) error {
	query := "INSERT INTO learners (id, username, full_name) VALUES (?, ?, ?)"
	if _, err := r.db.ExecContext(ctx, query, learner.ID, learner.Username, learner.FullName); err != nil {
		return fmt.Errorf("failed to create learner: %w", err)
	}
	return nil
}

// FindLearner retrieves a learner by ID or, failing that, by username
func (r *LearnerRepository) FindLearner(ctx context.Context, idOrUsername string) (*models.Learner, error) {
	query := "SELECT id, username, full_name FROM learners WHERE id = ? OR username = ? ORDER BY CASE WHEN id = ? THEN 0 ELSE 1 END"
	l := &models.Learner{}
	err := r.db.QueryRowContext(ctx, query, idOrUsername, idOrUsername, idOrUsername).Scan(&l.ID, &l.Username, &l.FullName)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get learner: %w", err)
	}
	return l, nil
}

// ListLearners returns every learner
func (r *LearnerRepository) ListLearners(ctx context.Context) ([]models.Learner, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT id, username, full_name FROM learners ORDER BY username ASC")
	if err != nil {
		return nil, fmt.Errorf("failed to query learners: %w", err)
	}
	defer rows.Close()

	var learners []models.Learner
	for rows.Next() {
		var l models.Learner
		if err := rows.Scan(&l.ID, &l.Username, &l.FullName); err != nil {
			return nil, fmt.Errorf("failed to scan learner: %w", err)
		}
		learners = append(learners, l)
	}
	return learners, rows.Err()
}
