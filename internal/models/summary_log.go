package models

import "time"

// ContentSummaryLog summarizes all interactions one learner has had with one content item
type ContentSummaryLog struct {
	ID                  int64
	UserID              string
	ContentID           string
	ChannelID           string
	Kind                ContentKind
	Progress            float64 // 0..1
	TimeSpent           float64 // seconds
	StartTimestamp      time.Time
	EndTimestamp        *time.Time
	CompletionTimestamp *time.Time
}

// LastActive is the end timestamp, or the start timestamp for logs still open
func (l ContentSummaryLog) LastActive() time.Time {
	if l.EndTimestamp != nil {
		return *l.EndTimestamp
	}
	return l.StartTimestamp
}

// ClampedProgress keeps progress inside [0, 1]
func (l ContentSummaryLog) ClampedProgress() float64 {
	switch {
	case l.Progress < 0:
		return 0
	case l.Progress > 1:
		return 1
	}
	return l.Progress
}
