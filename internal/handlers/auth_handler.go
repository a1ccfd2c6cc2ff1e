package handlers

import (
	"errors"
	"net/http"

	"coachreports/internal/router"
	"coachreports/internal/security"
	"coachreports/internal/service"
)

// SessionForgetter drops per-session UI state
type SessionForgetter interface {
	Forget(sessionID string)
}

// LoginViewData is the login form state
type LoginViewData struct {
	Username string
	Error    string
}

// AuthHandler handles coach sign in and sign out
type AuthHandler struct {
	auth   Authenticator
	ui     SessionForgetter
	render *Renderer
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(auth Authenticator, ui SessionForgetter, render *Renderer) *AuthHandler {
	return &AuthHandler{auth: auth, ui: ui, render: render}
}

// Home sends visitors to the class list, which redirects to login when needed
func (h *AuthHandler) Home(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, router.MustURL(router.Target{PageName: router.PageClassList}), http.StatusSeeOther)
}

// ShowLogin renders the login page
func (h *AuthHandler) ShowLogin(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(security.SessionCookieName); err == nil {
		if _, _, err := h.auth.ValidateToken(r.Context(), cookie.Value); err == nil {
			h.Home(w, r)
			return
		}
	}

	loc := h.render.Localizer(r)
	h.render.Page(w, r, http.StatusOK, "login.tmpl", loc, loc.T("login.title"), LoginViewData{})
}

// Login handles login form submission
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		respondWithError(w, http.StatusBadRequest, ErrInvalidFormData, "", err)
		return
	}

	username := r.FormValue("username")
	password := r.FormValue("password")
	loc := h.render.Localizer(r)

	token, session, _, err := h.auth.Login(r.Context(), username, password)
	if err != nil {
		if !errors.Is(err, service.ErrInvalidCredentials) {
			respondWithError(w, http.StatusInternalServerError, loc.T("error.internal"), "Login failed", err)
			return
		}
		h.render.Page(w, r, http.StatusUnauthorized, "login.tmpl", loc, loc.T("login.title"), LoginViewData{
			Username: username,
			Error:    loc.T("login.invalid"),
		})
		return
	}

	http.SetCookie(w, security.CreateSessionCookie(r, token, session.ExpiresAt))
	h.Home(w, r)
}

// Logout revokes the session, then clears its cookie and UI state
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if session := GetSessionFromContext(r.Context()); session != nil {
		if err := h.auth.Logout(r.Context(), session.ID); err != nil {
			respondWithError(w, http.StatusInternalServerError, ErrInternalServerError, "Logout failed", err)
			return
		}
		h.ui.Forget(session.ID)
	}

	http.SetCookie(w, security.CreateDeleteCookie(r))
	http.Redirect(w, r, router.MustURL(router.Target{PageName: router.PageLogin}), http.StatusSeeOther)
}
