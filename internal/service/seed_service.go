package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"coachreports/internal/database"
	"coachreports/internal/models"
	"coachreports/internal/repository"
	"coachreports/internal/security"
	"coachreports/internal/validation"
)

// Fixture is a YAML document describing coaches, learners, classes, content and activity
type Fixture struct {
	Coaches    []CoachFixture     `yaml:"coaches"`
	Learners   []LearnerFixture   `yaml:"learners"`
	Classrooms []ClassroomFixture `yaml:"classrooms"`
	Channels   []NodeFixture      `yaml:"channels"`
	Logs       []LogFixture       `yaml:"logs"`
}

type CoachFixture struct {
	Username string `yaml:"username"`
	FullName string `yaml:"full_name"`
	Password string `yaml:"password"`
	Admin    bool   `yaml:"admin"`
}

type LearnerFixture struct {
	ID       string `yaml:"id"`
	Username string `yaml:"username"`
	FullName string `yaml:"full_name"`
}

// ClassroomFixture lists its learners by username
type ClassroomFixture struct {
	ID       string   `yaml:"id"`
	Name     string   `yaml:"name"`
	Learners []string `yaml:"learners"`
}

// NodeFixture is a content node with its children. A channel entry is the root topic;
// its ID doubles as the channel ID.
type NodeFixture struct {
	ID        string        `yaml:"id"`
	ContentID string        `yaml:"content_id"`
	Kind      string        `yaml:"kind"`
	Title     string        `yaml:"title"`
	Children  []NodeFixture `yaml:"children"`
}

// LogFixture references a learner by username and a node by ID
type LogFixture struct {
	Learner   string     `yaml:"learner"`
	Node      string     `yaml:"node"`
	Progress  float64    `yaml:"progress"`
	TimeSpent float64    `yaml:"time_spent"`
	Start     time.Time  `yaml:"start"`
	End       *time.Time `yaml:"end"`
	Completed *time.Time `yaml:"completed"`
}

// SeedSummary counts what a seed run inserted
type SeedSummary struct {
	Coaches    int
	Learners   int
	Classrooms int
	Nodes      int
	Logs       int
}

// ParseFixture decodes a YAML fixture, rejecting unknown fields
func ParseFixture(r io.Reader) (*Fixture, error) {
	var f Fixture
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		if errors.Is(err, io.EOF) {
			return &f, nil
		}
		return nil, fmt.Errorf("failed to parse fixture: %w", err)
	}
	return &f, nil
}

// SeedService loads fixtures into the database
type SeedService struct {
	db *database.DB
}

// NewSeedService creates a new seed service
func NewSeedService(db *database.DB) *SeedService {
	return &SeedService{db: db}
}

// Load inserts a fixture in one transaction
func (s *SeedService) Load(ctx context.Context, f *Fixture) (*SeedSummary, error) {
	var summary *SeedSummary
	err := s.db.WithTx(ctx, func(tx *database.Tx) error {
		var err error
		summary, err = loadFixture(ctx, tx, f)
		return err
	})
	if err != nil {
		return nil, err
	}

	log.Printf("Seeded %d coaches, %d learners, %d classrooms, %d nodes, %d logs",
		summary.Coaches, summary.Learners, summary.Classrooms, summary.Nodes, summary.Logs)
	return summary, nil
}

func loadFixture(ctx context.Context, tx database.DBTX, f *Fixture) (*SeedSummary, error) {
	summary := &SeedSummary{}

	userRepo := repository.NewUserRepository(tx)
	for _, c := range f.Coaches {
		if err := validation.ValidateUsername(c.Username); err != nil {
			return nil, err
		}
		if err := validation.ValidatePassword(c.Password); err != nil {
			return nil, fmt.Errorf("coach %s: %w", c.Username, err)
		}
		hash, err := security.HashPassword(c.Password)
		if err != nil {
			return nil, fmt.Errorf("failed to hash password: %w", err)
		}
		if _, err := userRepo.CreateUser(ctx, strings.TrimSpace(c.Username), c.FullName, hash, c.Admin); err != nil {
			return nil, err
		}
		summary.Coaches++
	}

	learnerRepo := repository.NewLearnerRepository(tx)
	learnerIDs := make(map[string]string, len(f.Learners))
	for _, l := range f.Learners {
		learner := models.Learner{ID: l.ID, Username: l.Username, FullName: l.FullName}
		if learner.ID == "" {
			learner.ID = uuid.New().String()
		}
		if err := learnerRepo.CreateLearner(ctx, learner); err != nil {
			return nil, err
		}
		learnerIDs[l.Username] = learner.ID
		summary.Learners++
	}

	classroomRepo := repository.NewClassroomRepository(tx)
	var created []models.Classroom
	for _, c := range f.Classrooms {
		name := strings.TrimSpace(c.Name)
		if err := validation.ValidateClassName(name); err != nil {
			return nil, err
		}
		if models.DuplicateName(created, name) {
			return nil, fmt.Errorf("classroom %q: %w", name, ErrDuplicateClassName)
		}
		id := c.ID
		if id == "" {
			id = uuid.New().String()
		}
		classroom, err := classroomRepo.CreateClassroom(ctx, id, name)
		if err != nil {
			return nil, fmt.Errorf("classroom %q: %w", name, err)
		}
		created = append(created, *classroom)

		for _, username := range c.Learners {
			learnerID, ok := learnerIDs[username]
			if !ok {
				return nil, fmt.Errorf("classroom %q references unknown learner %q", name, username)
			}
			if err := classroomRepo.AddMember(ctx, id, learnerID); err != nil {
				return nil, err
			}
		}
		summary.Classrooms++
	}

	nodes := make(map[string]models.ContentNode)
	contentRepo := repository.NewContentRepository(tx)
	for _, ch := range f.Channels {
		if ch.ID == "" {
			return nil, fmt.Errorf("channel %q needs an id", ch.Title)
		}
		if ch.Kind == "" {
			ch.Kind = string(models.KindTopic)
		}
		if err := insertNode(ctx, contentRepo, ch, ch.ID, nil, 0, nodes); err != nil {
			return nil, err
		}
	}
	summary.Nodes = len(nodes)

	logRepo := repository.NewSummaryLogRepository(tx)
	for _, l := range f.Logs {
		learnerID, ok := learnerIDs[l.Learner]
		if !ok {
			return nil, fmt.Errorf("log references unknown learner %q", l.Learner)
		}
		node, ok := nodes[l.Node]
		if !ok {
			return nil, fmt.Errorf("log references unknown node %q", l.Node)
		}
		if !node.Kind.IsLeaf() {
			return nil, fmt.Errorf("log references topic %q", l.Node)
		}
		start := l.Start
		if start.IsZero() {
			start = time.Now().UTC()
		}
		_, err := logRepo.CreateLog(ctx, models.ContentSummaryLog{
			UserID:              learnerID,
			ContentID:           node.ContentID,
			ChannelID:           node.ChannelID,
			Kind:                node.Kind,
			Progress:            l.Progress,
			TimeSpent:           l.TimeSpent,
			StartTimestamp:      start,
			EndTimestamp:        l.End,
			CompletionTimestamp: l.Completed,
		})
		if err != nil {
			return nil, err
		}
		summary.Logs++
	}

	return summary, nil
}

// insertNode writes a fixture node and its subtree; sort order follows fixture order
func insertNode(ctx context.Context, repo *repository.ContentRepository, f NodeFixture, channelID string, parentID *string, order int, seen map[string]models.ContentNode) error {
	kind := models.ContentKind(f.Kind)
	if !kind.Valid() {
		return fmt.Errorf("node %q has unknown kind %q", f.Title, f.Kind)
	}
	if kind.IsLeaf() && len(f.Children) > 0 {
		return fmt.Errorf("node %q is a %s and cannot have children", f.Title, kind)
	}

	node := models.ContentNode{
		ID:        f.ID,
		ContentID: f.ContentID,
		ChannelID: channelID,
		ParentID:  parentID,
		Kind:      kind,
		Title:     f.Title,
		SortOrder: order,
	}
	if node.ID == "" {
		node.ID = uuid.New().String()
	}
	if node.ContentID == "" {
		node.ContentID = node.ID
	}
	if _, dup := seen[node.ID]; dup {
		return fmt.Errorf("duplicate node id %q", node.ID)
	}

	if err := repo.CreateNode(ctx, node); err != nil {
		return err
	}
	seen[node.ID] = node

	for i, child := range f.Children {
		if err := insertNode(ctx, repo, child, channelID, &node.ID, i, seen); err != nil {
			return err
		}
	}
	return nil
}
