package models

import "time"

// ContentScopeSummary describes the node whose children a report lists
type ContentScopeSummary struct {
	ID        string
	ChannelID string
	Kind      ContentKind
	Title     string
}

// ReportRow is one listed child of the current scope
type ReportRow struct {
	ID               string
	Kind             ContentKind
	Title            string
	ExerciseCount    int
	ContentCount     int
	ExerciseProgress float64
	ContentProgress  float64
	TimeSpent        float64 // seconds, summed over the class's learners
	LastActive       *time.Time
}

// PageState holds everything the item list report renders
type PageState struct {
	ClassID       string
	ChannelID     string
	Scope         ContentScopeSummary
	Ancestors     []ContentScopeSummary
	ExerciseCount int
	ContentCount  int
	Rows          []ReportRow
}

// LearnerRow is one learner's progress on a single content item
type LearnerRow struct {
	LearnerID   string
	Name        string
	Progress    float64
	TimeSpent   float64 // seconds
	CompletedAt *time.Time
	LastActive  *time.Time
}

// LearnerPageState holds the per-learner breakdown of a single item
type LearnerPageState struct {
	ClassID   string
	ChannelID string
	Item      ContentScopeSummary
	Ancestors []ContentScopeSummary
	Rows      []LearnerRow
}
