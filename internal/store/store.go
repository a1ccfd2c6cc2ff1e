// Package store is the state/action bridge the view components read from and dispatch to.
package store

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"

	"coachreports/internal/models"
	"coachreports/internal/service"
)

// Notice keys set by actions and shown once on the class list page
const (
	NoticeClassCreated      = "notice.class_created"
	NoticeClassDuplicate    = "notice.class_duplicate"
	NoticeClassCreateFailed = "notice.class_create_failed"
)

// ReportRequest identifies a report page. TopicID empty means the channel root.
type ReportRequest struct {
	ClassID   string
	ChannelID string
	TopicID   string
	ContentID string
}

// Getters exposes read-only state to the view components
type Getters interface {
	ReportState(ctx context.Context, req ReportRequest) (*models.PageState, error)
	LearnerState(ctx context.Context, req ReportRequest) (*models.LearnerPageState, error)
	Classrooms(ctx context.Context) ([]models.Classroom, error)
	Channels(ctx context.Context) ([]models.ContentScopeSummary, error)
	ModalVisible(ctx context.Context) bool
	// Notice returns and clears the pending notice key, or ""
	Notice(ctx context.Context) string
}

// Actions are the side effects view components may request
type Actions interface {
	CreateClass(ctx context.Context, name string)
	DisplayModal(ctx context.Context, visible bool)
}

// ReportSource computes report pages
type ReportSource interface {
	TopicReport(ctx context.Context, classID, channelID, topicID string) (*models.PageState, error)
	ItemLearnerReport(ctx context.Context, classID, channelID, nodeID string) (*models.LearnerPageState, error)
	Channels(ctx context.Context) ([]models.ContentScopeSummary, error)
}

// ClassroomSource lists and creates classrooms
type ClassroomSource interface {
	ListClassrooms(ctx context.Context) ([]models.Classroom, error)
	CreateClassroom(ctx context.Context, name string) (*models.Classroom, error)
}

type sessionKey struct{}

// WithSessionID attaches the caller's session ID to ctx
func WithSessionID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, sessionKey{}, id)
}

// SessionID returns the session ID attached to ctx, or ""
func SessionID(ctx context.Context) string {
	id, _ := ctx.Value(sessionKey{}).(string)
	return id
}

type uiState struct {
	modalVisible bool
	notice       string
	touched      time.Time
}

// Store keeps per-session UI state in memory and delegates data to services
type Store struct {
	reports    ReportSource
	classrooms ClassroomSource
	idleTTL    time.Duration
	now        func() time.Time

	mu       sync.RWMutex
	sessions map[string]*uiState
}

// New creates a store; UI state idle for longer than idleTTL is dropped by Sweep
func New(reports ReportSource, classrooms ClassroomSource, idleTTL time.Duration) *Store {
	return &Store{
		reports:    reports,
		classrooms: classrooms,
		idleTTL:    idleTTL,
		now:        time.Now,
		sessions:   make(map[string]*uiState),
	}
}

var (
	_ Getters = (*Store)(nil)
	_ Actions = (*Store)(nil)
)

func (s *Store) ReportState(ctx context.Context, req ReportRequest) (*models.PageState, error) {
	return s.reports.TopicReport(ctx, req.ClassID, req.ChannelID, req.TopicID)
}

func (s *Store) LearnerState(ctx context.Context, req ReportRequest) (*models.LearnerPageState, error) {
	return s.reports.ItemLearnerReport(ctx, req.ClassID, req.ChannelID, req.ContentID)
}

func (s *Store) Classrooms(ctx context.Context) ([]models.Classroom, error) {
	return s.classrooms.ListClassrooms(ctx)
}

func (s *Store) Channels(ctx context.Context) ([]models.ContentScopeSummary, error) {
	return s.reports.Channels(ctx)
}

func (s *Store) ModalVisible(ctx context.Context) bool {
	id := SessionID(ctx)
	if id == "" {
		return false
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	st, ok := s.sessions[id]
	return ok && st.modalVisible
}

func (s *Store) Notice(ctx context.Context) string {
	id := SessionID(ctx)
	if id == "" {
		return ""
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	st, ok := s.sessions[id]
	if !ok {
		return ""
	}
	notice := st.notice
	st.notice = ""
	return notice
}

// CreateClass creates the classroom; failures become a notice instead of an error
func (s *Store) CreateClass(ctx context.Context, name string) {
	_, err := s.classrooms.CreateClassroom(ctx, name)

	notice := NoticeClassCreated
	switch {
	case errors.Is(err, service.ErrDuplicateClassName):
		notice = NoticeClassDuplicate
	case err != nil:
		log.Printf("Failed to create class %q: %v", name, err)
		notice = NoticeClassCreateFailed
	}

	s.update(ctx, func(st *uiState) { st.notice = notice })
}

func (s *Store) DisplayModal(ctx context.Context, visible bool) {
	s.update(ctx, func(st *uiState) { st.modalVisible = visible })
}

func (s *Store) update(ctx context.Context, fn func(st *uiState)) {
	id := SessionID(ctx)
	if id == "" {
		log.Printf("Dropping UI state change without a session")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	st, ok := s.sessions[id]
	if !ok {
		st = &uiState{}
		s.sessions[id] = st
	}
	fn(st)
	st.touched = s.now()
}

// Forget drops a session's UI state, e.g. on logout
func (s *Store) Forget(sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, sessionID)
}

func (s *Store) sweep() int {
	cutoff := s.now().Add(-s.idleTTL)

	s.mu.Lock()
	defer s.mu.Unlock()
	removed := 0
	for id, st := range s.sessions {
		if st.touched.Before(cutoff) {
			delete(s.sessions, id)
			removed++
		}
	}
	return removed
}

// Sweep removes idle UI state every interval until ctx is done
func (s *Store) Sweep(ctx context.Context, every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := s.sweep(); n > 0 {
				log.Printf("Swept %d idle UI sessions", n)
			}
		}
	}
}
