package service

import (
	"time"

	"coachreports/internal/models"
)

// logIndex maps content_id -> user_id -> summary log
type logIndex map[string]map[string]models.ContentSummaryLog

func indexLogs(logs []models.ContentSummaryLog) logIndex {
	idx := make(logIndex)
	for _, l := range logs {
		byUser, ok := idx[l.ContentID]
		if !ok {
			byUser = make(map[string]models.ContentSummaryLog)
			idx[l.ContentID] = byUser
		}
		byUser[l.UserID] = l
	}
	return idx
}

func (idx logIndex) lookup(contentID, userID string) (models.ContentSummaryLog, bool) {
	l, ok := idx[contentID][userID]
	return l, ok
}

// summary aggregates a set of leaf items over a set of learners
type summary struct {
	exerciseCount    int
	contentCount     int
	exerciseProgress float64
	contentProgress  float64
	timeSpent        float64
	lastActive       *time.Time
}

// summarize averages progress over every (learner, item) pair, counting a
// missing log as zero, separately for exercises and other resources.
func summarize(leaves []models.ContentNode, learners []models.Learner, idx logIndex) summary {
	var s summary
	var exerciseTotal, contentTotal float64

	for _, leaf := range leaves {
		isExercise := leaf.Kind == models.KindExercise
		if isExercise {
			s.exerciseCount++
		} else {
			s.contentCount++
		}

		for _, learner := range learners {
			l, ok := idx.lookup(leaf.ContentID, learner.ID)
			if !ok {
				continue
			}
			if isExercise {
				exerciseTotal += l.ClampedProgress()
			} else {
				contentTotal += l.ClampedProgress()
			}
			s.timeSpent += l.TimeSpent
			last := l.LastActive()
			if s.lastActive == nil || last.After(*s.lastActive) {
				s.lastActive = &last
			}
		}
	}

	s.exerciseProgress = mean(exerciseTotal, s.exerciseCount*len(learners))
	s.contentProgress = mean(contentTotal, s.contentCount*len(learners))
	return s
}

func mean(total float64, n int) float64 {
	if n == 0 {
		return 0
	}
	return total / float64(n)
}

func contentIDs(nodes []models.ContentNode) []string {
	seen := make(map[string]bool, len(nodes))
	ids := make([]string, 0, len(nodes))
	for _, n := range nodes {
		if !seen[n.ContentID] {
			seen[n.ContentID] = true
			ids = append(ids, n.ContentID)
		}
	}
	return ids
}

func learnerIDs(learners []models.Learner) []string {
	ids := make([]string, len(learners))
	for i, l := range learners {
		ids[i] = l.ID
	}
	return ids
}
