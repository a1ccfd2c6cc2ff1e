package service

import (
	"context"
	"errors"
	"fmt"
	"log"

	"coachreports/internal/cache"
	"coachreports/internal/models"
	"coachreports/internal/repository"
)

var (
	ErrNodeNotFound = errors.New("content node not found")
	ErrNotATopic    = errors.New("content node is not a topic")
	ErrNotAnItem    = errors.New("content node is a topic")
)

// ReportService computes coach report pages from content trees and learner summary logs
type ReportService struct {
	classroomRepo *repository.ClassroomRepository
	contentRepo   *repository.ContentRepository
	logRepo       *repository.SummaryLogRepository
	cache         cache.Cache
}

// NewReportService creates a new report service. A nil cache disables caching.
func NewReportService(
	classroomRepo *repository.ClassroomRepository,
	contentRepo *repository.ContentRepository,
	logRepo *repository.SummaryLogRepository,
	c cache.Cache,
) *ReportService {
	if c == nil {
		c = cache.Nop{}
	}
	return &ReportService{
		classroomRepo: classroomRepo,
		contentRepo:   contentRepo,
		logRepo:       logRepo,
		cache:         c,
	}
}

// TopicReport lists the children of topicID for a class. An empty topicID means the channel root.
func (s *ReportService) TopicReport(ctx context.Context, classID, channelID, topicID string) (*models.PageState, error) {
	key := cache.Key("report", classID, channelID, topicID)

	var cached models.PageState
	found, err := s.cache.Get(ctx, key, &cached)
	if err != nil {
		log.Printf("Report cache read failed for %s: %v", key, err)
	} else if found {
		return &cached, nil
	}

	learners, err := s.classLearners(ctx, classID)
	if err != nil {
		return nil, err
	}

	tree, err := s.channelTree(ctx, channelID)
	if err != nil {
		return nil, err
	}

	var scope models.ContentNode
	if topicID == "" {
		if tree.root == nil {
			return nil, ErrNodeNotFound
		}
		scope = *tree.root
	} else {
		n, ok := tree.get(topicID)
		if !ok {
			return nil, ErrNodeNotFound
		}
		scope = n
	}
	if scope.Kind != models.KindTopic {
		return nil, ErrNotATopic
	}

	leaves := tree.leaves(scope.ID)
	logs, err := s.logRepo.ListLogs(ctx, learnerIDs(learners), contentIDs(leaves))
	if err != nil {
		return nil, fmt.Errorf("failed to load summary logs: %w", err)
	}

	state := buildPageState(tree, scope, learners, indexLogs(logs))
	state.ClassID = classID
	state.ChannelID = channelID

	if err := s.cache.Set(ctx, key, state); err != nil {
		log.Printf("Report cache write failed for %s: %v", key, err)
	}

	return state, nil
}

// buildPageState aggregates every child of scope, keeping the tree's sibling order
func buildPageState(tree *contentTree, scope models.ContentNode, learners []models.Learner, idx logIndex) *models.PageState {
	page := summarize(tree.leaves(scope.ID), learners, idx)

	state := &models.PageState{
		Scope:         scopeOf(scope),
		Ancestors:     scopesOf(tree.ancestors(scope.ID)),
		ExerciseCount: page.exerciseCount,
		ContentCount:  page.contentCount,
		Rows:          []models.ReportRow{},
	}

	for _, child := range tree.children[scope.ID] {
		s := summarize(tree.leaves(child.ID), learners, idx)
		state.Rows = append(state.Rows, models.ReportRow{
			ID:               child.ID,
			Kind:             child.Kind,
			Title:            child.Title,
			ExerciseCount:    s.exerciseCount,
			ContentCount:     s.contentCount,
			ExerciseProgress: s.exerciseProgress,
			ContentProgress:  s.contentProgress,
			TimeSpent:        s.timeSpent,
			LastActive:       s.lastActive,
		})
	}

	return state
}

// ItemLearnerReport breaks a single leaf item down per learner of the class
func (s *ReportService) ItemLearnerReport(ctx context.Context, classID, channelID, nodeID string) (*models.LearnerPageState, error) {
	learners, err := s.classLearners(ctx, classID)
	if err != nil {
		return nil, err
	}

	tree, err := s.channelTree(ctx, channelID)
	if err != nil {
		return nil, err
	}

	item, ok := tree.get(nodeID)
	if !ok {
		return nil, ErrNodeNotFound
	}
	if !item.Kind.IsLeaf() {
		return nil, ErrNotAnItem
	}

	logs, err := s.logRepo.ListLogs(ctx, learnerIDs(learners), []string{item.ContentID})
	if err != nil {
		return nil, fmt.Errorf("failed to load summary logs: %w", err)
	}
	idx := indexLogs(logs)

	state := &models.LearnerPageState{
		ClassID:   classID,
		ChannelID: channelID,
		Item:      scopeOf(item),
		Ancestors: scopesOf(tree.ancestors(item.ID)),
		Rows:      make([]models.LearnerRow, 0, len(learners)),
	}
	for _, learner := range learners {
		row := models.LearnerRow{LearnerID: learner.ID, Name: learner.DisplayName()}
		if l, ok := idx.lookup(item.ContentID, learner.ID); ok {
			row.Progress = l.ClampedProgress()
			row.TimeSpent = l.TimeSpent
			row.CompletedAt = l.CompletionTimestamp
			last := l.LastActive()
			row.LastActive = &last
		}
		state.Rows = append(state.Rows, row)
	}

	return state, nil
}

// Channels lists the channels a coach can report on
func (s *ReportService) Channels(ctx context.Context) ([]models.ContentScopeSummary, error) {
	roots, err := s.contentRepo.ListChannels(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list channels: %w", err)
	}
	return scopesOf(roots), nil
}

// InvalidateClass drops every cached report page of a class: each topic of every
// channel, plus the channel roots
func (s *ReportService) InvalidateClass(ctx context.Context, classID string) error {
	nodes, err := s.contentRepo.ListAllNodes(ctx)
	if err != nil {
		return fmt.Errorf("failed to list content nodes: %w", err)
	}
	if err := s.cache.Delete(ctx, reportKeys(classID, nodes)...); err != nil {
		return fmt.Errorf("failed to invalidate reports of %s: %w", classID, err)
	}
	return nil
}

// InvalidateAll drops the cached report pages of every class
func (s *ReportService) InvalidateAll(ctx context.Context) error {
	classrooms, err := s.classroomRepo.ListClassrooms(ctx)
	if err != nil {
		return fmt.Errorf("failed to list classrooms: %w", err)
	}
	nodes, err := s.contentRepo.ListAllNodes(ctx)
	if err != nil {
		return fmt.Errorf("failed to list content nodes: %w", err)
	}

	var keys []string
	for _, c := range classrooms {
		keys = append(keys, reportKeys(c.ID, nodes)...)
	}
	if err := s.cache.Delete(ctx, keys...); err != nil {
		return fmt.Errorf("failed to invalidate reports: %w", err)
	}
	return nil
}

// reportKeys lists the cache keys TopicReport can write for classID
func reportKeys(classID string, nodes []models.ContentNode) []string {
	var keys []string
	for _, n := range nodes {
		if n.Kind != models.KindTopic {
			continue
		}
		keys = append(keys, cache.Key("report", classID, n.ChannelID, n.ID))
		if n.ParentID == nil {
			keys = append(keys, cache.Key("report", classID, n.ChannelID, ""))
		}
	}
	return keys
}

func (s *ReportService) classLearners(ctx context.Context, classID string) ([]models.Learner, error) {
	classroom, err := s.classroomRepo.GetClassroomByID(ctx, classID)
	if err != nil {
		return nil, fmt.Errorf("failed to get classroom: %w", err)
	}
	if classroom == nil {
		return nil, ErrClassNotFound
	}

	learners, err := s.classroomRepo.ListMembers(ctx, classID)
	if err != nil {
		return nil, fmt.Errorf("failed to list class learners: %w", err)
	}
	return learners, nil
}

func (s *ReportService) channelTree(ctx context.Context, channelID string) (*contentTree, error) {
	nodes, err := s.contentRepo.ListChannelNodes(ctx, channelID)
	if err != nil {
		return nil, fmt.Errorf("failed to load channel: %w", err)
	}
	if len(nodes) == 0 {
		return nil, ErrNodeNotFound
	}
	return newContentTree(nodes), nil
}
