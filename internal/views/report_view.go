package views

import (
	"cmp"
	"context"
	"log"
	"net/url"
	"slices"
	"strings"
	"time"

	"coachreports/internal/i18n"
	"coachreports/internal/models"
	"coachreports/internal/router"
	"coachreports/internal/store"
)

// Sortable report columns
const (
	SortName       = "name"
	SortExercise   = "exercise"
	SortContent    = "content"
	SortLastActive = "lastActive"
	SortTimeSpent  = "timeSpent"
)

// SortSpec is the requested table ordering. An empty Column keeps the computed order.
type SortSpec struct {
	Column string
	Desc   bool
}

// ParseSort reads ?sort= and ?order=; unknown columns fall back to the computed order
func ParseSort(column, order string) SortSpec {
	switch column {
	case SortName, SortExercise, SortContent, SortLastActive, SortTimeSpent:
		return SortSpec{Column: column, Desc: order == "desc"}
	}
	return SortSpec{}
}

// ReportRowView is one rendered table row
type ReportRowView struct {
	ID               string
	Name             NameCellProps
	ExerciseProgress ProgressBarProps
	ContentProgress  ProgressBarProps
	LastActive       ElapsedTimeProps
	TimeSpent        string
}

// ReportViewModel is everything the item list page template needs
type ReportViewModel struct {
	ClassID           string
	ChannelID         string
	Title             string
	Icon              ContentIconProps
	ExerciseCountText string
	ContentCountText  string
	Breadcrumbs       BreadcrumbsProps
	Headers           []HeaderCellProps
	Rows              []ReportRowView
	EmptyText         string
	ExportURL         string
	ExportText        string
}

// ReportView is the item list report: a topic's children with counts and progress
type ReportView struct {
	getters store.Getters
	now     func() time.Time
}

// NewReportView creates a report view reading from getters
func NewReportView(getters store.Getters) *ReportView {
	return &ReportView{getters: getters, now: time.Now}
}

// RowLink picks where a row leads: deeper into a topic, or to the per-learner
// breakdown of a single item. Class and channel come from the page state.
func RowLink(state *models.PageState, row models.ReportRow) router.Target {
	if row.Kind == models.KindTopic {
		return router.Target{
			PageName: router.PageTopicItemList,
			Params:   router.Params{ClassID: state.ClassID, ChannelID: state.ChannelID, TopicID: row.ID},
		}
	}
	return router.Target{
		PageName: router.PageItemLearnerList,
		Params:   router.Params{ClassID: state.ClassID, ChannelID: state.ChannelID, ContentID: row.ID},
	}
}

// Render builds the view model for req. Errors come only from the getters.
func (v *ReportView) Render(ctx context.Context, loc *i18n.Localizer, req store.ReportRequest, sort SortSpec, pageURL string) (*ReportViewModel, error) {
	state, err := v.getters.ReportState(ctx, req)
	if err != nil {
		return nil, err
	}
	return v.build(loc, state, sort, pageURL), nil
}

func (v *ReportView) build(loc *i18n.Localizer, state *models.PageState, sort SortSpec, pageURL string) *ReportViewModel {
	now := v.now()

	vm := &ReportViewModel{
		ClassID:           state.ClassID,
		ChannelID:         state.ChannelID,
		Title:             state.Scope.Title,
		Icon:              contentIcon(loc, state.Scope.Kind),
		ExerciseCountText: loc.T("report.exercise_count", state.ExerciseCount),
		ContentCountText:  loc.T("report.resource_count", state.ContentCount),
		Breadcrumbs:       reportBreadcrumbs(loc, state.ClassID, state.ChannelID, state.Ancestors, state.Scope.Title),
		Headers: []HeaderCellProps{
			sortableHeader(loc.T("report.col.name"), AlignStart, SortName, sort, pageURL),
			sortableHeader(loc.T("report.col.exercise_progress"), AlignCenter, SortExercise, sort, pageURL),
			sortableHeader(loc.T("report.col.resource_progress"), AlignCenter, SortContent, sort, pageURL),
			sortableHeader(loc.T("report.col.time_spent"), AlignEnd, SortTimeSpent, sort, pageURL),
			sortableHeader(loc.T("report.col.last_activity"), AlignEnd, SortLastActive, sort, pageURL),
		},
		Rows:       []ReportRowView{},
		ExportText: loc.T("report.export"),
	}

	vm.ExportURL = linkTo(router.Target{
		PageName: router.PageTopicExport,
		Params:   router.Params{ClassID: state.ClassID, ChannelID: state.ChannelID, TopicID: state.Scope.ID},
	})

	for _, row := range SortRows(state.Rows, sort) {
		vm.Rows = append(vm.Rows, ReportRowView{
			ID: row.ID,
			Name: NameCellProps{
				Kind:  row.Kind,
				Title: row.Title,
				Link:  linkTo(RowLink(state, row)),
				Icon:  contentIcon(loc, row.Kind),
			},
			ExerciseProgress: progressBar(loc, row.ExerciseProgress, true),
			ContentProgress:  progressBar(loc, row.ContentProgress, false),
			LastActive:       elapsedTime(loc, now, row.LastActive),
			TimeSpent:        timeSpent(loc, row.TimeSpent),
		})
	}

	if len(vm.Rows) == 0 {
		vm.EmptyText = loc.T("report.empty")
	}
	return vm
}

// SortRows returns a stably sorted copy of rows
func SortRows(rows []models.ReportRow, sort SortSpec) []models.ReportRow {
	out := slices.Clone(rows)
	if sort.Column == "" {
		return out
	}

	var compare func(a, b models.ReportRow) int
	switch sort.Column {
	case SortName:
		compare = func(a, b models.ReportRow) int {
			return strings.Compare(strings.ToLower(a.Title), strings.ToLower(b.Title))
		}
	case SortExercise:
		compare = func(a, b models.ReportRow) int { return cmp.Compare(a.ExerciseProgress, b.ExerciseProgress) }
	case SortContent:
		compare = func(a, b models.ReportRow) int { return cmp.Compare(a.ContentProgress, b.ContentProgress) }
	case SortLastActive:
		compare = func(a, b models.ReportRow) int { return compareTimes(a.LastActive, b.LastActive) }
	case SortTimeSpent:
		compare = func(a, b models.ReportRow) int { return cmp.Compare(a.TimeSpent, b.TimeSpent) }
	default:
		return out
	}

	if sort.Desc {
		asc := compare
		compare = func(a, b models.ReportRow) int { return asc(b, a) }
	}
	slices.SortStableFunc(out, compare)
	return out
}

// compareTimes orders never-active (nil) before any time
func compareTimes(a, b *time.Time) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return -1
	case b == nil:
		return 1
	}
	return a.Compare(*b)
}

// sortableHeader links to the same page sorted by column, flipping the order
// when the column is already sorted ascending
func sortableHeader(text string, align Alignment, column string, current SortSpec, pageURL string) HeaderCellProps {
	h := HeaderCellProps{Text: text, Align: align}

	order := "asc"
	if current.Column == column {
		h.Sorted = "asc"
		if current.Desc {
			h.Sorted = "desc"
		} else {
			order = "desc"
		}
	}

	if pageURL != "" {
		q := url.Values{}
		q.Set("sort", column)
		q.Set("order", order)
		h.SortURL = pageURL + "?" + q.Encode()
	}
	return h
}

func reportBreadcrumbs(loc *i18n.Localizer, classID, channelID string, ancestors []models.ContentScopeSummary, current string) BreadcrumbsProps {
	items := []Crumb{{Text: loc.T("nav.classes"), Link: linkTo(router.Target{PageName: router.PageClassList})}}
	for _, a := range ancestors {
		items = append(items, Crumb{
			Text: a.Title,
			Link: linkTo(router.Target{
				PageName: router.PageTopicItemList,
				Params:   router.Params{ClassID: classID, ChannelID: channelID, TopicID: a.ID},
			}),
		})
	}
	items = append(items, Crumb{Text: current})
	return BreadcrumbsProps{Items: items}
}

// linkTo renders a target, logging and returning "" for incomplete ones
func linkTo(t router.Target) string {
	u, err := router.URL(t)
	if err != nil {
		log.Printf("Cannot link to %s: %v", t.PageName, err)
		return ""
	}
	return u
}
