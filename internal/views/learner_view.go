package views

import (
	"context"
	"time"

	"coachreports/internal/i18n"
	"coachreports/internal/models"
	"coachreports/internal/store"
)

// LearnerRowView is one learner's line in the item breakdown
type LearnerRowView struct {
	LearnerID  string
	Name       string
	Progress   ProgressBarProps
	TimeSpent  string
	Completed  bool
	StatusText string
	LastActive ElapsedTimeProps
}

// LearnerReportViewModel is everything the item learner page needs
type LearnerReportViewModel struct {
	ClassID     string
	ChannelID   string
	Title       string
	Icon        ContentIconProps
	Breadcrumbs BreadcrumbsProps
	Headers     []HeaderCellProps
	Rows        []LearnerRowView
	EmptyText   string
}

// LearnerReportView breaks a single content item down per learner
type LearnerReportView struct {
	getters store.Getters
	now     func() time.Time
}

func NewLearnerReportView(getters store.Getters) *LearnerReportView {
	return &LearnerReportView{getters: getters, now: time.Now}
}

func (v *LearnerReportView) Render(ctx context.Context, loc *i18n.Localizer, req store.ReportRequest) (*LearnerReportViewModel, error) {
	state, err := v.getters.LearnerState(ctx, req)
	if err != nil {
		return nil, err
	}
	return v.build(loc, state), nil
}

func (v *LearnerReportView) build(loc *i18n.Localizer, state *models.LearnerPageState) *LearnerReportViewModel {
	now := v.now()
	isExercise := state.Item.Kind == models.KindExercise

	vm := &LearnerReportViewModel{
		ClassID:     state.ClassID,
		ChannelID:   state.ChannelID,
		Title:       state.Item.Title,
		Icon:        contentIcon(loc, state.Item.Kind),
		Breadcrumbs: reportBreadcrumbs(loc, state.ClassID, state.ChannelID, state.Ancestors, state.Item.Title),
		Headers: []HeaderCellProps{
			{Text: loc.T("learners.col.name"), Align: AlignStart},
			{Text: loc.T("learners.col.progress"), Align: AlignCenter},
			{Text: loc.T("report.col.time_spent"), Align: AlignEnd},
			{Text: loc.T("learners.col.status"), Align: AlignCenter},
			{Text: loc.T("report.col.last_activity"), Align: AlignEnd},
		},
		Rows: make([]LearnerRowView, 0, len(state.Rows)),
	}

	for _, row := range state.Rows {
		status := loc.T("learners.not_completed")
		if row.CompletedAt != nil {
			status = loc.T("learners.completed")
		}
		vm.Rows = append(vm.Rows, LearnerRowView{
			LearnerID:  row.LearnerID,
			Name:       row.Name,
			Progress:   progressBar(loc, row.Progress, isExercise),
			TimeSpent:  timeSpent(loc, row.TimeSpent),
			Completed:  row.CompletedAt != nil,
			StatusText: status,
			LastActive: elapsedTime(loc, now, row.LastActive),
		})
	}

	if len(vm.Rows) == 0 {
		vm.EmptyText = loc.T("learners.empty")
	}
	return vm
}
