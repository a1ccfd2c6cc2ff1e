package handlers

import (
	"net/http"

	"coachreports/internal/router"
	"coachreports/internal/store"
	"coachreports/internal/views"
)

// ClassHandler serves the class list and its creation modal
type ClassHandler struct {
	view    *views.ClassListView
	actions store.Actions
	render  *Renderer
}

// NewClassHandler creates a new class handler
func NewClassHandler(getters store.Getters, actions store.Actions, render *Renderer) *ClassHandler {
	return &ClassHandler{
		view:    views.NewClassListView(getters, actions),
		actions: actions,
		render:  render,
	}
}

// ShowClasses renders the class list
func (h *ClassHandler) ShowClasses(w http.ResponseWriter, r *http.Request) {
	h.renderList(w, r, http.StatusOK, "", "")
}

// OpenModal shows the creation modal on the next render
func (h *ClassHandler) OpenModal(w http.ResponseWriter, r *http.Request) {
	h.actions.DisplayModal(r.Context(), true)
	h.backToList(w, r)
}

// CancelModal hides the modal without creating anything
func (h *ClassHandler) CancelModal(w http.ResponseWriter, r *http.Request) {
	views.NewCreateClassModal(nil, h.actions).Cancel(r.Context())
	h.backToList(w, r)
}

// Create submits the modal. A rejected name re-renders the page with the modal open.
func (h *ClassHandler) Create(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		respondWithError(w, http.StatusBadRequest, ErrInvalidFormData, "", err)
		return
	}

	modal, err := h.view.Modal(r.Context())
	if err != nil {
		loc := h.render.Localizer(r)
		respondWithError(w, http.StatusInternalServerError, loc.T("error.internal"), "Failed to list classrooms", err)
		return
	}

	result := modal.Submit(r.Context(), r.PostFormValue(views.ClassNameField))
	if !result.Submitted {
		h.renderList(w, r, http.StatusUnprocessableEntity, result.Draft, result.ErrorKey)
		return
	}
	h.backToList(w, r)
}

func (h *ClassHandler) renderList(w http.ResponseWriter, r *http.Request, status int, draft, errorKey string) {
	loc := h.render.Localizer(r)
	vm, err := h.view.Render(r.Context(), loc, draft, errorKey)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, loc.T("error.internal"), "Failed to render class list", err)
		return
	}
	h.render.Page(w, r, status, "classes.tmpl", loc, vm.Title, vm)
}

func (h *ClassHandler) backToList(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, router.MustURL(router.Target{PageName: router.PageClassList}), http.StatusSeeOther)
}
