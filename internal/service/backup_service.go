package service

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"time"

	"coachreports/internal/database"
	"coachreports/internal/models"
	"coachreports/internal/repository"
)

const backupVersion = "1.0"

// BackupData represents the complete database backup structure
type BackupData struct {
	Version     string             `json:"version"`
	ExportedAt  time.Time          `json:"exported_at"`
	Users       []UserBackup       `json:"users"`
	Learners    []LearnerBackup    `json:"learners"`
	Classrooms  []ClassroomBackup  `json:"classrooms"`
	Memberships []MembershipBackup `json:"memberships"`
	Nodes       []NodeBackup       `json:"content_nodes"`
	Logs        []LogBackup        `json:"summary_logs"`
}

// UserBackup represents a coach account for backup
type UserBackup struct {
	Username     string    `json:"username"`
	FullName     string    `json:"full_name"`
	PasswordHash string    `json:"password_hash"`
	IsAdmin      bool      `json:"is_admin"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// LearnerBackup represents a learner for backup
type LearnerBackup struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	FullName string `json:"full_name"`
}

// ClassroomBackup represents a classroom for backup
type ClassroomBackup struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// MembershipBackup links a learner to a classroom
type MembershipBackup struct {
	ClassroomID string `json:"classroom_id"`
	LearnerID   string `json:"learner_id"`
}

// NodeBackup represents a content node for backup
type NodeBackup struct {
	ID        string  `json:"id"`
	ContentID string  `json:"content_id"`
	ChannelID string  `json:"channel_id"`
	ParentID  *string `json:"parent_id"`
	Kind      string  `json:"kind"`
	Title     string  `json:"title"`
	SortOrder int     `json:"sort_order"`
}

// LogBackup represents a content summary log for backup
type LogBackup struct {
	UserID              string     `json:"user_id"`
	ContentID           string     `json:"content_id"`
	ChannelID           string     `json:"channel_id"`
	Kind                string     `json:"kind"`
	Progress            float64    `json:"progress"`
	TimeSpent           float64    `json:"time_spent"`
	StartTimestamp      time.Time  `json:"start_timestamp"`
	EndTimestamp        *time.Time `json:"end_timestamp"`
	CompletionTimestamp *time.Time `json:"completion_timestamp"`
}

// BackupService handles database backup and restore operations
type BackupService struct {
	db *database.DB
}

// NewBackupService creates a new backup service
func NewBackupService(db *database.DB) *BackupService {
	return &BackupService{db: db}
}

// Export collects every table into a BackupData
func (s *BackupService) Export(ctx context.Context) (*BackupData, error) {
	backup := &BackupData{
		Version:    backupVersion,
		ExportedAt: time.Now().UTC(),
	}

	users, err := repository.NewUserRepository(s.db).ListUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to export users: %w", err)
	}
	for _, u := range users {
		backup.Users = append(backup.Users, UserBackup{
			Username:     u.Username,
			FullName:     u.FullName,
			PasswordHash: u.PasswordHash,
			IsAdmin:      u.IsAdmin,
			CreatedAt:    u.CreatedAt,
			UpdatedAt:    u.UpdatedAt,
		})
	}

	learners, err := repository.NewLearnerRepository(s.db).ListLearners(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to export learners: %w", err)
	}
	for _, l := range learners {
		backup.Learners = append(backup.Learners, LearnerBackup{ID: l.ID, Username: l.Username, FullName: l.FullName})
	}

	classroomRepo := repository.NewClassroomRepository(s.db)
	classrooms, err := classroomRepo.ListClassrooms(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to export classrooms: %w", err)
	}
	for _, c := range classrooms {
		backup.Classrooms = append(backup.Classrooms, ClassroomBackup{
			ID:        c.ID,
			Name:      c.Name,
			CreatedAt: c.CreatedAt,
			UpdatedAt: c.UpdatedAt,
		})
	}

	memberships, err := classroomRepo.ListMemberships(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to export memberships: %w", err)
	}
	for _, m := range memberships {
		backup.Memberships = append(backup.Memberships, MembershipBackup{ClassroomID: m[0], LearnerID: m[1]})
	}

	nodes, err := repository.NewContentRepository(s.db).ListAllNodes(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to export content nodes: %w", err)
	}
	for _, n := range parentsFirst(nodes) {
		backup.Nodes = append(backup.Nodes, NodeBackup{
			ID:        n.ID,
			ContentID: n.ContentID,
			ChannelID: n.ChannelID,
			ParentID:  n.ParentID,
			Kind:      string(n.Kind),
			Title:     n.Title,
			SortOrder: n.SortOrder,
		})
	}

	logs, err := repository.NewSummaryLogRepository(s.db).ListAllLogs(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to export summary logs: %w", err)
	}
	for _, l := range logs {
		backup.Logs = append(backup.Logs, LogBackup{
			UserID:              l.UserID,
			ContentID:           l.ContentID,
			ChannelID:           l.ChannelID,
			Kind:                string(l.Kind),
			Progress:            l.Progress,
			TimeSpent:           l.TimeSpent,
			StartTimestamp:      l.StartTimestamp,
			EndTimestamp:        l.EndTimestamp,
			CompletionTimestamp: l.CompletionTimestamp,
		})
	}

	return backup, nil
}

// ExportToWriter writes the backup as indented JSON
func (s *BackupService) ExportToWriter(ctx context.Context, w io.Writer) error {
	backup, err := s.Export(ctx)
	if err != nil {
		return err
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(backup); err != nil {
		return fmt.Errorf("failed to encode backup: %w", err)
	}

	log.Printf("Exported: %d users, %d learners, %d classrooms, %d memberships, %d nodes, %d logs",
		len(backup.Users), len(backup.Learners), len(backup.Classrooms),
		len(backup.Memberships), len(backup.Nodes), len(backup.Logs))
	return nil
}

// ImportFromReader restores a backup into an empty database in one transaction
func (s *BackupService) ImportFromReader(ctx context.Context, r io.Reader) error {
	var backup BackupData
	if err := json.NewDecoder(r).Decode(&backup); err != nil {
		return fmt.Errorf("failed to decode backup: %w", err)
	}
	if backup.Version != backupVersion {
		return fmt.Errorf("unsupported backup version %q", backup.Version)
	}

	log.Printf("Backup version: %s, exported at: %s", backup.Version, backup.ExportedAt)

	err := s.db.WithTx(ctx, func(tx *database.Tx) error {
		return importBackup(ctx, tx, &backup)
	})
	if err != nil {
		return err
	}

	log.Println("Database import completed successfully")
	return nil
}

// importBackup inserts in dependency order
func importBackup(ctx context.Context, tx database.DBTX, backup *BackupData) error {
	userRepo := repository.NewUserRepository(tx)
	for _, u := range backup.Users {
		_, err := userRepo.ImportUser(ctx, models.User{
			Username:     u.Username,
			FullName:     u.FullName,
			PasswordHash: u.PasswordHash,
			IsAdmin:      u.IsAdmin,
			CreatedAt:    u.CreatedAt,
			UpdatedAt:    u.UpdatedAt,
		})
		if err != nil {
			return fmt.Errorf("failed to import user %s: %w", u.Username, err)
		}
	}

	learnerRepo := repository.NewLearnerRepository(tx)
	for _, l := range backup.Learners {
		if err := learnerRepo.CreateLearner(ctx, models.Learner{ID: l.ID, Username: l.Username, FullName: l.FullName}); err != nil {
			return fmt.Errorf("failed to import learner %s: %w", l.ID, err)
		}
	}

	classroomRepo := repository.NewClassroomRepository(tx)
	now := time.Now().UTC()
	for _, c := range backup.Classrooms {
		classroom := models.Classroom{ID: c.ID, Name: c.Name, CreatedAt: c.CreatedAt, UpdatedAt: c.UpdatedAt}
		if classroom.CreatedAt.IsZero() {
			classroom.CreatedAt = now
		}
		if classroom.UpdatedAt.IsZero() {
			classroom.UpdatedAt = classroom.CreatedAt
		}
		if err := classroomRepo.InsertClassroom(ctx, classroom); err != nil {
			return fmt.Errorf("failed to import classroom %s: %w", c.ID, err)
		}
	}
	for _, m := range backup.Memberships {
		if err := classroomRepo.AddMember(ctx, m.ClassroomID, m.LearnerID); err != nil {
			return fmt.Errorf("failed to import membership %s/%s: %w", m.ClassroomID, m.LearnerID, err)
		}
	}

	nodes := make([]models.ContentNode, 0, len(backup.Nodes))
	for _, n := range backup.Nodes {
		nodes = append(nodes, models.ContentNode{
			ID:        n.ID,
			ContentID: n.ContentID,
			ChannelID: n.ChannelID,
			ParentID:  n.ParentID,
			Kind:      models.ContentKind(n.Kind),
			Title:     n.Title,
			SortOrder: n.SortOrder,
		})
	}
	contentRepo := repository.NewContentRepository(tx)
	for _, n := range parentsFirst(nodes) {
		if !n.Kind.Valid() {
			return fmt.Errorf("content node %s has unknown kind %q", n.ID, n.Kind)
		}
		if err := contentRepo.CreateNode(ctx, n); err != nil {
			return fmt.Errorf("failed to import content node %s: %w", n.ID, err)
		}
	}

	logRepo := repository.NewSummaryLogRepository(tx)
	for _, l := range backup.Logs {
		_, err := logRepo.CreateLog(ctx, models.ContentSummaryLog{
			UserID:              l.UserID,
			ContentID:           l.ContentID,
			ChannelID:           l.ChannelID,
			Kind:                models.ContentKind(l.Kind),
			Progress:            l.Progress,
			TimeSpent:           l.TimeSpent,
			StartTimestamp:      l.StartTimestamp,
			EndTimestamp:        l.EndTimestamp,
			CompletionTimestamp: l.CompletionTimestamp,
		})
		if err != nil {
			return fmt.Errorf("failed to import summary log %s/%s: %w", l.UserID, l.ContentID, err)
		}
	}

	return nil
}

// parentsFirst orders nodes so every parent precedes its children.
// Nodes whose parent is not in the set are treated as roots.
func parentsFirst(nodes []models.ContentNode) []models.ContentNode {
	known := make(map[string]bool, len(nodes))
	for _, n := range nodes {
		known[n.ID] = true
	}

	byParent := make(map[string][]models.ContentNode)
	out := make([]models.ContentNode, 0, len(nodes))
	for _, n := range nodes {
		if n.ParentID == nil || !known[*n.ParentID] {
			out = append(out, n)
			continue
		}
		byParent[*n.ParentID] = append(byParent[*n.ParentID], n)
	}

	for i := 0; i < len(out); i++ {
		out = append(out, byParent[out[i].ID]...)
		delete(byParent, out[i].ID)
	}
	return out
}
