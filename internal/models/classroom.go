package models

import (
	"strings"
	"time"
)

// Classroom is a named group of learners a coach reports on
type Classroom struct {
	ID           string
	Name         string
	LearnerCount int
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// NameKey is the case-folded form used for the classroom name uniqueness rule
func NameKey(name string) string {
	return strings.ToLower(name)
}

// Learner is a member of one or more classrooms
type Learner struct {
	ID       string
	Username string
	FullName string
}

// DisplayName prefers the full name and falls back to the username
func (l Learner) DisplayName() string {
	if l.FullName != "" {
		return l.FullName
	}
	return l.Username
}

// DuplicateName reports whether name matches an existing classroom's name ignoring case.
// No other normalization is applied; callers trim the draft themselves.
func DuplicateName(classrooms []Classroom, name string) bool {
	key := NameKey(name)
	for _, c := range classrooms {
		if NameKey(c.Name) == key {
			return true
		}
	}
	return false
}
