package handlers

import (
	"net/http"

	"coachreports/internal/views"
)

// Handlers groups every page handler for route registration
type Handlers struct {
	Middleware *Middleware
	Auth       *AuthHandler
	Classes    *ClassHandler
	Reports    *ReportHandler
	Health     *HealthHandler
}

// RegisterRoutes mounts the coach pages on mux
func RegisterRoutes(mux *http.ServeMux, h Handlers) {
	m := h.Middleware

	// Public routes
	mux.HandleFunc("GET /{$}", h.Auth.Home)
	mux.HandleFunc("GET /healthz", h.Health.Health)
	mux.HandleFunc("GET /login", h.Auth.ShowLogin)
	mux.HandleFunc("POST /login", m.RateLimit(h.Auth.Login))
	mux.HandleFunc("POST /logout", m.RequireCoach(m.CSRFProtect(h.Auth.Logout)))

	// Class list and creation modal
	mux.HandleFunc("GET /coach/classes", m.RequireCoach(h.Classes.ShowClasses))
	mux.HandleFunc("POST "+views.ModalOpenURL, m.RequireCoach(m.CSRFProtect(h.Classes.OpenModal)))
	mux.HandleFunc("POST "+views.ModalCancelURL, m.RequireCoach(m.CSRFProtect(h.Classes.CancelModal)))
	mux.HandleFunc("POST "+views.ModalSubmitURL, m.RequireCoach(m.CSRFProtect(h.Classes.Create)))

	// Reports
	mux.HandleFunc("GET /coach/{classId}/reports/{channelId}", m.RequireCoach(h.Reports.Topic))
	mux.HandleFunc("GET /coach/{classId}/reports/{channelId}/topics/{topicId}", m.RequireCoach(h.Reports.Topic))
	mux.HandleFunc("GET /coach/{classId}/reports/{channelId}/topics/{topicId}/export.xlsx", m.RequireCoach(h.Reports.Export))
	mux.HandleFunc("GET /coach/{classId}/reports/{channelId}/items/{contentId}/learners", m.RequireCoach(h.Reports.Learners))
}
