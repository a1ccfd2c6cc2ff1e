package views

import (
	"time"

	"coachreports/internal/models"
)

// Props for the presentational partials under templates/components.
// Each partial receives exactly one of these.

// ContentIconProps feeds the "content-icon" partial
type ContentIconProps struct {
	Kind  models.ContentKind
	Label string
}

// ProgressBarProps feeds the "progress-bar" partial
type ProgressBarProps struct {
	Num        float64
	IsExercise bool
	Percent    int
	Text       string
}

// ElapsedTimeProps feeds the "elapsed-time" partial
type ElapsedTimeProps struct {
	Date *time.Time
	Text string
}

// Alignment of a table column
type Alignment string

const (
	AlignStart  Alignment = "start"
	AlignCenter Alignment = "center"
	AlignEnd    Alignment = "end"
)

// HeaderCellProps feeds the "header-cell" partial. SortURL is empty for unsortable columns.
type HeaderCellProps struct {
	Text    string
	Align   Alignment
	SortURL string
	Sorted  string
}

// NameCellProps feeds the "name-cell" partial
type NameCellProps struct {
	Kind  models.ContentKind
	Title string
	Link  string
	Icon  ContentIconProps
}

// ModalProps feeds the "modal" partial
type ModalProps struct {
	Title      string
	Visible    bool
	SubmitURL  string
	CancelURL  string
	SubmitText string
	CancelText string
}

// TextInputProps feeds the "text-input" partial
type TextInputProps struct {
	Name      string
	Label     string
	Value     string
	Invalid   string
	MaxLength int
	Autofocus bool
	Required  bool
}

// Crumb is one breadcrumb; the current page has no link
type Crumb struct {
	Text string
	Link string
}

// BreadcrumbsProps feeds the "breadcrumbs" partial
type BreadcrumbsProps struct {
	Items []Crumb
}
