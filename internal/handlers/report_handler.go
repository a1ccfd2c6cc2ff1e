package handlers

import (
	"bytes"
	"errors"
	"fmt"
	"log"
	"net/http"

	"coachreports/internal/export"
	"coachreports/internal/i18n"
	"coachreports/internal/service"
	"coachreports/internal/store"
	"coachreports/internal/views"
)

// ReportHandler serves the topic item list, its spreadsheet export and the item learner list
type ReportHandler struct {
	getters  store.Getters
	topics   *views.ReportView
	learners *views.LearnerReportView
	render   *Renderer
}

// NewReportHandler creates a new report handler
func NewReportHandler(getters store.Getters, render *Renderer) *ReportHandler {
	return &ReportHandler{
		getters:  getters,
		topics:   views.NewReportView(getters),
		learners: views.NewLearnerReportView(getters),
		render:   render,
	}
}

// Topic renders a topic's children; without {topicId} it renders the channel root
func (h *ReportHandler) Topic(w http.ResponseWriter, r *http.Request) {
	loc := h.render.Localizer(r)
	q := r.URL.Query()
	sort := views.ParseSort(q.Get("sort"), q.Get("order"))

	vm, err := h.topics.Render(r.Context(), loc, reportRequest(r), sort, r.URL.EscapedPath())
	if err != nil {
		h.reportError(w, loc, err)
		return
	}
	h.render.Page(w, r, http.StatusOK, "report.tmpl", loc, vm.Title, vm)
}

// Export downloads the topic report as an xlsx workbook
func (h *ReportHandler) Export(w http.ResponseWriter, r *http.Request) {
	loc := h.render.Localizer(r)

	state, err := h.getters.ReportState(r.Context(), reportRequest(r))
	if err != nil {
		h.reportError(w, loc, err)
		return
	}

	var buf bytes.Buffer
	if err := export.WriteReport(&buf, loc, state); err != nil {
		respondWithError(w, http.StatusInternalServerError, loc.T("error.internal"), "Failed to export report", err)
		return
	}

	w.Header().Set("Content-Type", xlsxContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", export.Filename(state.Scope.Title)))
	if _, err := buf.WriteTo(w); err != nil {
		log.Printf("Error writing export: %v", err)
	}
}

// Learners renders the per-learner breakdown of one item
func (h *ReportHandler) Learners(w http.ResponseWriter, r *http.Request) {
	loc := h.render.Localizer(r)

	vm, err := h.learners.Render(r.Context(), loc, reportRequest(r))
	if err != nil {
		h.reportError(w, loc, err)
		return
	}
	h.render.Page(w, r, http.StatusOK, "learners.tmpl", loc, vm.Title, vm)
}

func reportRequest(r *http.Request) store.ReportRequest {
	return store.ReportRequest{
		ClassID:   r.PathValue("classId"),
		ChannelID: r.PathValue("channelId"),
		TopicID:   r.PathValue("topicId"),
		ContentID: r.PathValue("contentId"),
	}
}

func (h *ReportHandler) reportError(w http.ResponseWriter, loc *i18n.Localizer, err error) {
	switch {
	case errors.Is(err, service.ErrClassNotFound),
		errors.Is(err, service.ErrNodeNotFound),
		errors.Is(err, service.ErrNotATopic),
		errors.Is(err, service.ErrNotAnItem):
		respondWithError(w, http.StatusNotFound, loc.T("error.not_found"), "", nil)
	default:
		respondWithError(w, http.StatusInternalServerError, loc.T("error.internal"), "Failed to build report", err)
	}
}
