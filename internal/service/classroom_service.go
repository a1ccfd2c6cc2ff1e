package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"coachreports/internal/models"
	"coachreports/internal/repository"
	"coachreports/internal/validation"
)

var (
	ErrClassNameRequired  = errors.New("class name is required")
	ErrDuplicateClassName = errors.New("a class with this name already exists")
	ErrClassNotFound      = errors.New("class not found")
	ErrLearnerNotFound    = errors.New("learner not found")
)

// ClassroomService handles classroom business logic
type ClassroomService struct {
	classroomRepo *repository.ClassroomRepository
	learnerRepo   *repository.LearnerRepository
}

// NewClassroomService creates a new classroom service
func NewClassroomService(classroomRepo *repository.ClassroomRepository, learnerRepo *repository.LearnerRepository) *ClassroomService {
	return &ClassroomService{classroomRepo: classroomRepo, learnerRepo: learnerRepo}
}

// ListClassrooms returns every classroom ordered by name
func (s *ClassroomService) ListClassrooms(ctx context.Context) ([]models.Classroom, error) {
	classrooms, err := s.classroomRepo.ListClassrooms(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list classrooms: %w", err)
	}
	return classrooms, nil
}

// GetClassroom retrieves a classroom by ID
func (s *ClassroomService) GetClassroom(ctx context.Context, id string) (*models.Classroom, error) {
	classroom, err := s.classroomRepo.GetClassroomByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get classroom: %w", err)
	}
	if classroom == nil {
		return nil, ErrClassNotFound
	}
	return classroom, nil
}

// CreateClassroom creates a classroom named name (trimmed). A name that matches an
// existing classroom ignoring case is rejected with ErrDuplicateClassName.
func (s *ClassroomService) CreateClassroom(ctx context.Context, name string) (*models.Classroom, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrClassNameRequired
	}
	if err := validation.ValidateClassName(name); err != nil {
		return nil, err
	}

	existing, err := s.classroomRepo.ListClassrooms(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing classrooms: %w", err)
	}
	if models.DuplicateName(existing, name) {
		return nil, ErrDuplicateClassName
	}

	classroom, err := s.classroomRepo.CreateClassroom(ctx, uuid.New().String(), name)
	if errors.Is(err, repository.ErrDuplicateName) {
		// lost a race with a concurrent create
		return nil, ErrDuplicateClassName
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create classroom: %w", err)
	}

	return classroom, nil
}

// ClassLearners returns the learners enrolled in a classroom
func (s *ClassroomService) ClassLearners(ctx context.Context, classID string) ([]models.Learner, error) {
	if _, err := s.GetClassroom(ctx, classID); err != nil {
		return nil, err
	}
	learners, err := s.classroomRepo.ListMembers(ctx, classID)
	if err != nil {
		return nil, fmt.Errorf("failed to list class learners: %w", err)
	}
	return learners, nil
}

// EnrollLearner adds a learner, given by ID or username, to a classroom.
// Enrolling twice is a no-op.
func (s *ClassroomService) EnrollLearner(ctx context.Context, classID, learner string) (*models.Classroom, *models.Learner, error) {
	classroom, err := s.GetClassroom(ctx, classID)
	if err != nil {
		return nil, nil, err
	}

	l, err := s.learnerRepo.FindLearner(ctx, strings.TrimSpace(learner))
	if err != nil {
		return nil, nil, err
	}
	if l == nil {
		return nil, nil, ErrLearnerNotFound
	}

	if err := s.classroomRepo.AddMember(ctx, classroom.ID, l.ID); err != nil {
		return nil, nil, fmt.Errorf("failed to enroll learner: %w", err)
	}
	return classroom, l, nil
}
