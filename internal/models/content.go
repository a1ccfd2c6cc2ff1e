package models

// ContentKind discriminates topics (containers) from leaf content items
type ContentKind string

const (
	KindTopic    ContentKind = "topic"
	KindExercise ContentKind = "exercise"
	KindVideo    ContentKind = "video"
	KindAudio    ContentKind = "audio"
	KindDocument ContentKind = "document"
	KindHTML5    ContentKind = "html5"
)

// Valid reports whether k is one of the known kinds
func (k ContentKind) Valid() bool {
	switch k {
	case KindTopic, KindExercise, KindVideo, KindAudio, KindDocument, KindHTML5:
		return true
	}
	return false
}

// IsLeaf is true for everything but topics
func (k ContentKind) IsLeaf() bool {
	return k != KindTopic
}

// ContentNode is one node of a channel's content tree
type ContentNode struct {
	ID        string
	ContentID string
	ChannelID string
	ParentID  *string
	Kind      ContentKind
	Title     string
	SortOrder int
}

// IsRoot reports whether the node is the channel's root topic
func (n ContentNode) IsRoot() bool {
	return n.ParentID == nil
}
