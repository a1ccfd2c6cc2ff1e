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

// ErrDuplicateName is returned when the name_key unique index rejects an insert
var ErrDuplicateName = errors.New("classroom name already exists")

// ClassroomRepository handles database operations for classrooms and their members
type ClassroomRepository struct {
	db database.DBTX
}

// NewClassroomRepository creates a new classroom repository
func NewClassroomRepository(db database.DBTX) *ClassroomRepository {
	return &ClassroomRepository{db: db}
}

// ListClassrooms returns every classroom with its learner count, ordered by name
func (r *ClassroomRepository) ListClassrooms(ctx context.Context) ([]models.Classroom, error) {
	query := `
		SELECT c.id, c.name, c.created_at, c.updated_at, COUNT(m.learner_id)
		FROM classrooms c
		LEFT JOIN memberships m ON m.classroom_id = c.id
		GROUP BY c.id, c.name, c.created_at, c.updated_at
		ORDER BY c.name_key ASC
	`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query classrooms: %w", err)
	}
	defer rows.Close()

	var classrooms []models.Classroom
	for rows.Next() {
		var c models.Classroom
		if err := rows.Scan(&c.ID, &c.Name, &c.CreatedAt, &c.UpdatedAt, &c.LearnerCount); err != nil {
			return nil, fmt.Errorf("failed to scan classroom: %w", err)
		}
		classrooms = append(classrooms, c)
	}

	return classrooms, rows.Err()
}

// GetClassroomByID retrieves a classroom by ID
func (r *ClassroomRepository) GetClassroomByID(ctx context.Context, id string) (*models.Classroom, error) {
	query := "SELECT id, name, created_at, updated_at FROM classrooms WHERE id = ?"
	c := &models.Classroom{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(&c.ID, &c.Name, &c.CreatedAt, &c.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get classroom: %w", err)
	}
	return c, nil
}

// CreateClassroom inserts a classroom; the unique name_key column rejects case-insensitive duplicates
func (r *ClassroomRepository) CreateClassroom(ctx context.Context, id, name string) (*models.Classroom, error) {
	now := time.Now().UTC()
	c := models.Classroom{ID: id, Name: name, CreatedAt: now, UpdatedAt: now}
	if err := r.InsertClassroom(ctx, c); err != nil {
		return nil, err
	}
	return &c, nil
}

// InsertClassroom writes c as given, timestamps included
func (r *ClassroomRepository) InsertClassroom(ctx context.Context, c models.Classroom) error {
	query := "INSERT INTO classrooms (id, name, name_key, created_at, updated_at) VALUES (?, ?, ?, ?, ?)"
	if _, err := r.db.ExecContext(ctx, query, c.ID, c.Name, models.NameKey(c.Name), c.CreatedAt.UTC(), c.UpdatedAt.UTC()); err != nil {
		if r.db.GetDialect().IsUniqueViolation(err) {
			return ErrDuplicateName
		}
		return fmt.Errorf("failed to create classroom: %w", err)
	}
	return nil
}

// AddMember enrolls a learner in a classroom
func (r *ClassroomRepository) AddMember(ctx context.Context, classroomID, learnerID string) error {
	query := "INSERT INTO memberships (classroom_id, learner_id) VALUES (?, ?)"
	if _, err := r.db.ExecContext(ctx, query, classroomID, learnerID); err != nil {
		if r.db.GetDialect().IsUniqueViolation(err) {
			return nil
		}
		return fmt.Errorf("failed to add member: %w", err)
	}
	return nil
}

// ListMembers returns the learners enrolled in a classroom, ordered by username
func (r *ClassroomRepository) ListMembers(ctx context.Context, classroomID string) ([]models.Learner, error) {
	query := `
		SELECT l.id, l.username, l.full_name
		FROM learners l
		INNER JOIN memberships m ON m.learner_id = l.id
		WHERE m.classroom_id = ?
		ORDER BY l.username ASC
	`
	rows, err := r.db.QueryContext(ctx, query, classroomID)
	if err != nil {
		return nil, fmt.Errorf("failed to query members: %w", err)
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

// ListMemberships returns (classroom_id, learner_id) pairs for backups
func (r *ClassroomRepository) ListMemberships(ctx context.Context) ([][2]string, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT classroom_id, learner_id FROM memberships ORDER BY classroom_id, learner_id")
	if err != nil {
		return nil, fmt.Errorf("failed to query memberships: %w", err)
	}
	defer rows.Close()

	var pairs [][2]string
	for rows.Next() {
		var pair [2]string
		if err := rows.Scan(&pair[0], &pair[1]); err != nil {
			return nil, fmt.Errorf("failed to scan membership: %w", err)
		}
		pairs = append(pairs, pair)
	}
	return pairs, rows.Err()
}
