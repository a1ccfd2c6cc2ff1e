package handlers

import (
	"bytes"
	"fmt"
	"html/template"
	"log"
	"net/http"
	"path/filepath"
	"time"

	"coachreports/internal/i18n"
	"coachreports/internal/models"
	"coachreports/internal/router"
	"coachreports/internal/security"
	"coachreports/internal/views"
)

// LoadTemplates parses base.tmpl plus every page and component template under templatesPath
func LoadTemplates(templatesPath string) (*template.Template, error) {
	files := []string{filepath.Join(templatesPath, "base.tmpl")}

	patterns := []string{
		filepath.Join(templatesPath, "auth/*.tmpl"),
		filepath.Join(templatesPath, "coach/*.tmpl"),
		filepath.Join(templatesPath, "components/*.tmpl"),
	}
	for _, pattern := range patterns {
		matches, err := filepath.Glob(pattern)
		if err != nil {
			return nil, fmt.Errorf("failed to glob pattern %s: %w", pattern, err)
		}
		files = append(files, matches...)
	}

	funcMap := template.FuncMap{
		"isoTime": func(t *time.Time) string {
			if t == nil {
				return ""
			}
			return t.UTC().Format(time.RFC3339)
		},
		"csrfField": func() string {
			return security.CSRFFieldName
		},
		"url": func(page string) string {
			return router.MustURL(router.Target{PageName: router.Page(page)})
		},
		"modalForm": func(vm views.CreateClassModalViewModel, csrfToken string) ModalForm {
			return ModalForm{Modal: vm.Modal, Input: vm.Input, CSRFToken: csrfToken}
		},
	}

	tmpl, err := template.New("").Funcs(funcMap).ParseFiles(files...)
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}
	return tmpl, nil
}

// ModalForm feeds the "modal" partial: the modal, its one input and the form token
type ModalForm struct {
	Modal     views.ModalProps
	Input     views.TextInputProps
	CSRFToken string
}

// PageData wraps every page's content with the shared layout fields
type PageData struct {
	Loc       *i18n.Localizer
	Title     string
	User      *models.User
	CSRFToken string
	Content   any
}

// Renderer executes page templates in the request's language
type Renderer struct {
	templates     *template.Template
	middleware    *Middleware
	defaultLocale string
}

// NewRenderer creates a renderer; defaultLocale applies when Accept-Language is absent
func NewRenderer(templates *template.Template, middleware *Middleware, defaultLocale string) *Renderer {
	return &Renderer{templates: templates, middleware: middleware, defaultLocale: defaultLocale}
}

// Localizer picks the language for r
func (rd *Renderer) Localizer(r *http.Request) *i18n.Localizer {
	return i18n.ForRequest(r.Header.Get("Accept-Language"), rd.defaultLocale)
}

// Page renders name with status. Output is buffered so a template error still yields a clean 500.
func (rd *Renderer) Page(w http.ResponseWriter, r *http.Request, status int, name string, loc *i18n.Localizer, title string, content any) {
	data := PageData{
		Loc:       loc,
		Title:     title,
		User:      GetUserFromContext(r.Context()),
		CSRFToken: rd.middleware.CSRFToken(r),
		Content:   content,
	}

	var buf bytes.Buffer
	if err := rd.templates.ExecuteTemplate(&buf, name, data); err != nil {
		respondWithError(w, http.StatusInternalServerError, ErrInternalServerError, "Error rendering "+name, err)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Content-Language", loc.Lang())
	w.WriteHeader(status)
	if _, err := buf.WriteTo(w); err != nil {
		log.Printf("Error writing %s: %v", name, err)
	}
}
