package handlers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/xuri/excelize/v2"

	"coachreports/internal/models"
	"coachreports/internal/security"
	"coachreports/internal/service"
	"coachreports/internal/store"
)

const (
	testToken   = "valid-token"
	testSession = "sess-1"
)

type fakeAuth struct {
	mu      sync.Mutex
	revoked map[string]bool
}

func (*fakeAuth) Login(_ context.Context, username, password string) (string, *models.Session, *models.User, error) {
	if username != "coach" || password != "password123" {
		return "", nil, nil, service.ErrInvalidCredentials
	}
	return testToken, &models.Session{ID: testSession, UserID: 1, ExpiresAt: time.Now().Add(time.Hour)}, &models.User{ID: 1}, nil
}

func (f *fakeAuth) Logout(_ context.Context, sessionID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.revoked[sessionID] = true
	return nil
}

func (f *fakeAuth) ValidateToken(_ context.Context, token string) (*models.Session, *models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if token != testToken || f.revoked[testSession] {
		return nil, nil, service.ErrSessionNotFound
	}
	return &models.Session{ID: testSession, UserID: 1}, &models.User{ID: 1, Username: "coach", FullName: "Coach Carter"}, nil
}

type fakeClassrooms struct {
	classes []models.Classroom
}

func (f *fakeClassrooms) ListClassrooms(context.Context) ([]models.Classroom, error) {
	return f.classes, nil
}

func (f *fakeClassrooms) CreateClassroom(_ context.Context, name string) (*models.Classroom, error) {
	c := models.Classroom{ID: strings.ToLower(strings.ReplaceAll(name, " ", "-")), Name: name}
	f.classes = append(f.classes, c)
	return &c, nil
}

type fakeReports struct{}

func (fakeReports) TopicReport(_ context.Context, classID, channelID, topicID string) (*models.PageState, error) {
	if classID != "class-5" {
		return nil, service.ErrClassNotFound
	}
	if topicID != "" && topicID != "maths" && topicID != "why?" {
		return nil, service.ErrNodeNotFound
	}
	active := time.Now().Add(-2 * time.Hour)
	return &models.PageState{
		ClassID:       classID,
		ChannelID:     channelID,
		Scope:         models.ContentScopeSummary{ID: "maths", Kind: models.KindTopic, Title: "Maths"},
		ExerciseCount: 2,
		ContentCount:  1,
		Rows: []models.ReportRow{
			{ID: "fractions", Kind: models.KindTopic, Title: "Fractions", ExerciseCount: 1, ContentCount: 1, ExerciseProgress: 0.5, ContentProgress: 1, LastActive: &active, TimeSpent: 5400},
			{ID: "quiz", Kind: models.KindExercise, Title: "Quiz", ExerciseCount: 1},
		},
	}, nil
}

func (fakeReports) ItemLearnerReport(_ context.Context, classID, channelID, nodeID string) (*models.LearnerPageState, error) {
	if nodeID != "quiz" {
		return nil, service.ErrNotAnItem
	}
	completed := time.Now().Add(-time.Hour)
	return &models.LearnerPageState{
		ClassID:   classID,
		ChannelID: channelID,
		Item:      models.ContentScopeSummary{ID: "quiz", Kind: models.KindExercise, Title: "Quiz"},
		Ancestors: []models.ContentScopeSummary{{ID: "maths", Kind: models.KindTopic, Title: "Maths"}},
		Rows: []models.LearnerRow{
			{LearnerID: "l-ana", Name: "Ana Alvarez", Progress: 1, TimeSpent: 420, CompletedAt: &completed},
			{LearnerID: "l-ben", Name: "Ben Brown"},
		},
	}, nil
}

func (fakeReports) Channels(context.Context) ([]models.ContentScopeSummary, error) {
	// the root node ID differs from the channel ID that report URLs carry
	return []models.ContentScopeSummary{{ID: "maths-root", ChannelID: "maths", Kind: models.KindTopic, Title: "Maths"}}, nil
}

type testServer struct {
	handler http.Handler
	ui      *store.Store
	csrf    string
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	templates, err := LoadTemplates("../templates")
	if err != nil {
		t.Fatalf("LoadTemplates() error = %v", err)
	}

	csrf := security.NewCSRFGenerator("test-secret")
	token, err := csrf.Token(testSession)
	if err != nil {
		t.Fatalf("csrf.Token() error = %v", err)
	}

	ui := store.New(fakeReports{}, &fakeClassrooms{classes: []models.Classroom{
		{ID: "class-5", Name: "Year 5", LearnerCount: 2},
	}}, time.Hour)

	auth := &fakeAuth{revoked: make(map[string]bool)}
	m := NewMiddleware(auth, csrf, security.NewRateLimiter(2, time.Minute))
	render := NewRenderer(templates, m, "en")

	mux := http.NewServeMux()
	RegisterRoutes(mux, Handlers{
		Middleware: m,
		Auth:       NewAuthHandler(auth, ui, render),
		Classes:    NewClassHandler(ui, ui, render),
		Reports:    NewReportHandler(ui, render),
		Health:     NewHealthHandler(map[string]Pinger{
			"database": PingFunc(func(context.Context) error { return nil }),
		}),
	})

	return &testServer{handler: Logging(mux), ui: ui, csrf: token}
}

func (s *testServer) do(method, target string, form url.Values, authed bool) *httptest.ResponseRecorder {
	var req *http.Request
	if form != nil {
		req = httptest.NewRequest(method, target, strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	if authed {
		req.AddCookie(&http.Cookie{Name: security.SessionCookieName, Value: testToken})
	}
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)
	return rec
}

func (s *testServer) post(target string, values map[string]string) *httptest.ResponseRecorder {
	form := url.Values{security.CSRFFieldName: {s.csrf}}
	for k, v := range values {
		form.Set(k, v)
	}
	return s.do(http.MethodPost, target, form, true)
}

func TestRequireCoachRedirectsToLogin(t *testing.T) {
	s := newTestServer(t)

	tests := []struct {
		name   string
		cookie string
	}{
		{"no cookie", ""},
		{"bad token", "forged"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/coach/classes", nil)
			if tt.cookie != "" {
				req.AddCookie(&http.Cookie{Name: security.SessionCookieName, Value: tt.cookie})
			}
			rec := httptest.NewRecorder()
			s.handler.ServeHTTP(rec, req)

			if rec.Code != http.StatusSeeOther {
				t.Fatalf("status = %d, want 303", rec.Code)
			}
			if loc := rec.Header().Get("Location"); loc != "/login" {
				t.Errorf("Location = %q, want /login", loc)
			}
		})
	}
}

func TestLogin(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(http.MethodPost, "/login", url.Values{"username": {"coach"}, "password": {"wrong"}}, false)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("bad password status = %d, want 401", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Incorrect username or password") {
		t.Errorf("bad password page missing error message")
	}

	rec = s.do(http.MethodPost, "/login", url.Values{"username": {"coach"}, "password": {"password123"}}, false)
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("login status = %d, want 303", rec.Code)
	}
	if loc := rec.Header().Get("Location"); loc != "/coach/classes" {
		t.Errorf("Location = %q, want /coach/classes", loc)
	}
	var found bool
	for _, c := range rec.Result().Cookies() {
		if c.Name == security.SessionCookieName && c.Value == testToken && c.HttpOnly {
			found = true
		}
	}
	if !found {
		t.Error("session cookie not set")
	}

	// the limiter allows two attempts per minute
	rec = s.do(http.MethodPost, "/login", url.Values{"username": {"coach"}, "password": {"password123"}}, false)
	if rec.Code != http.StatusTooManyRequests {
		t.Errorf("third attempt status = %d, want 429", rec.Code)
	}
}

func TestShowLoginRedirectsSignedInCoach(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(http.MethodGet, "/login", nil, true)
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("status = %d, want 303", rec.Code)
	}

	rec = s.do(http.MethodGet, "/login", nil, false)
	if rec.Code != http.StatusOK {
		t.Fatalf("anonymous status = %d, want 200", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `name="username"`) {
		t.Error("login form missing username field")
	}
}

func TestShowClasses(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(http.MethodGet, "/coach/classes", nil, true)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	body := rec.Body.String()
	for _, want := range []string{"Year 5", "2 learners", `href="/coach/class-5/reports/maths"`, "Coach Carter"} {
		if !strings.Contains(body, want) {
			t.Errorf("class list missing %q", want)
		}
	}
	if strings.Contains(body, `role="dialog"`) {
		t.Error("modal rendered before it was opened")
	}
	if strings.Contains(body, "/reports/maths-root") {
		t.Error("report link uses the root node ID instead of the channel ID")
	}
}

func TestClassListLocalized(t *testing.T) {
	s := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/coach/classes", nil)
	req.Header.Set("Accept-Language", "es-MX,es;q=0.9")
	req.AddCookie(&http.Cookie{Name: security.SessionCookieName, Value: testToken})
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)

	if got := rec.Header().Get("Content-Language"); got != "es" {
		t.Errorf("Content-Language = %q, want es", got)
	}
	if !strings.Contains(rec.Body.String(), "Clases") {
		t.Error("Spanish page missing translated title")
	}
}

func TestCreateClassModalFlow(t *testing.T) {
	s := newTestServer(t)

	if rec := s.post("/coach/classes/modal/open", nil); rec.Code != http.StatusSeeOther {
		t.Fatalf("open status = %d, want 303", rec.Code)
	}
	rec := s.do(http.MethodGet, "/coach/classes", nil, true)
	if !strings.Contains(rec.Body.String(), `role="dialog"`) {
		t.Fatal("modal not rendered after open")
	}
	if !strings.Contains(rec.Body.String(), `autofocus required`) {
		t.Error("class name input not marked required")
	}

	tests := []struct {
		name    string
		draft   string
		wantMsg string
	}{
		{"empty", "   ", "This field is required"},
		{"duplicate ignoring case", " year 5 ", "A class with this name already exists"},
		{"too long", strings.Repeat("x", 101), "Class name is too long"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := s.post("/coach/classes/create", map[string]string{"name": tt.draft})
			if rec.Code != http.StatusUnprocessableEntity {
				t.Fatalf("status = %d, want 422", rec.Code)
			}
			body := rec.Body.String()
			if !strings.Contains(body, tt.wantMsg) {
				t.Errorf("body missing %q", tt.wantMsg)
			}
			if !strings.Contains(body, `aria-invalid="true"`) {
				t.Error("input not marked invalid")
			}
		})
	}

	rec = s.post("/coach/classes/create", map[string]string{"name": "Year 7"})
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("create status = %d, want 303", rec.Code)
	}

	rec = s.do(http.MethodGet, "/coach/classes", nil, true)
	body := rec.Body.String()
	if !strings.Contains(body, "Year 7") {
		t.Error("new class not listed")
	}
	if !strings.Contains(body, "Class created") {
		t.Error("creation notice not shown")
	}
	if strings.Contains(body, `role="dialog"`) {
		t.Error("modal still visible after create")
	}

	// the notice is shown once
	rec = s.do(http.MethodGet, "/coach/classes", nil, true)
	if strings.Contains(rec.Body.String(), "Class created") {
		t.Error("notice shown twice")
	}
}

func TestCancelModal(t *testing.T) {
	s := newTestServer(t)

	s.post("/coach/classes/modal/open", nil)
	if rec := s.post("/coach/classes/modal/cancel", map[string]string{"name": "Year 9"}); rec.Code != http.StatusSeeOther {
		t.Fatalf("cancel status = %d, want 303", rec.Code)
	}

	body := s.do(http.MethodGet, "/coach/classes", nil, true).Body.String()
	if strings.Contains(body, `role="dialog"`) {
		t.Error("modal still visible after cancel")
	}
	if strings.Contains(body, "Year 9") {
		t.Error("cancel created a class")
	}
}

func TestCSRFProtect(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(http.MethodPost, "/coach/classes/create", url.Values{"name": {"Year 8"}}, true)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want 403", rec.Code)
	}

	rec = s.do(http.MethodPost, "/coach/classes/create", url.Values{"name": {"Year 8"}, security.CSRFFieldName: {"nope"}}, true)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("forged token status = %d, want 403", rec.Code)
	}
}

func TestTopicReport(t *testing.T) {
	s := newTestServer(t)

	tests := []struct {
		name       string
		target     string
		wantStatus int
		wantBody   []string
	}{
		{
			name:       "channel root",
			target:     "/coach/class-5/reports/maths",
			wantStatus: http.StatusOK,
			wantBody: []string{
				`href="/coach/class-5/reports/maths/topics/fractions"`,
				`href="/coach/class-5/reports/maths/items/quiz/learners"`,
				"2 exercises",
				"50%",
				"2 hours ago",
				"1 h 30 min",
				"Time spent",
				"export.xlsx",
			},
		},
		{
			name:       "sort links keep an escaped topic id",
			target:     "/coach/class-5/reports/maths/topics/why%3F",
			wantStatus: http.StatusOK,
			wantBody:   []string{`href="/coach/class-5/reports/maths/topics/why%3F?order=asc`},
		},
		{
			name:       "sorted by name descending",
			target:     "/coach/class-5/reports/maths/topics/maths?sort=name&order=desc",
			wantStatus: http.StatusOK,
			wantBody:   []string{`aria-sort="descending"`},
		},
		{name: "unknown class", target: "/coach/class-9/reports/maths", wantStatus: http.StatusNotFound},
		{name: "unknown topic", target: "/coach/class-5/reports/maths/topics/nope", wantStatus: http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := s.do(http.MethodGet, tt.target, nil, true)
			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			body := rec.Body.String()
			for _, want := range tt.wantBody {
				if !strings.Contains(body, want) {
					t.Errorf("body missing %q", want)
				}
			}
		})
	}
}

func TestTopicReportSortOrder(t *testing.T) {
	s := newTestServer(t)

	body := s.do(http.MethodGet, "/coach/class-5/reports/maths?sort=name&order=desc", nil, true).Body.String()
	quiz := strings.Index(body, ">Quiz<")
	fractions := strings.Index(body, ">Fractions<")
	if quiz < 0 || fractions < 0 {
		t.Fatalf("rows missing from body")
	}
	if quiz > fractions {
		t.Error("descending name sort should list Quiz before Fractions")
	}
}

func TestExportReport(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(http.MethodGet, "/coach/class-5/reports/maths/topics/maths/export.xlsx", nil, true)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != xlsxContentType {
		t.Errorf("Content-Type = %q", ct)
	}
	if cd := rec.Header().Get("Content-Disposition"); !strings.Contains(cd, `filename="Maths.xlsx"`) {
		t.Errorf("Content-Disposition = %q", cd)
	}

	f, err := excelize.OpenReader(rec.Body)
	if err != nil {
		t.Fatalf("OpenReader() error = %v", err)
	}
	defer f.Close()
	name, err := f.GetCellValue("Maths", "A2")
	if err != nil {
		t.Fatalf("GetCellValue() error = %v", err)
	}
	if name != "Fractions" {
		t.Errorf("A2 = %q, want Fractions", name)
	}
}

func TestLearnerReport(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(http.MethodGet, "/coach/class-5/reports/maths/items/quiz/learners", nil, true)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	body := rec.Body.String()
	for _, want := range []string{"Ana Alvarez", "Ben Brown", "100%", "Never", "7 minutes", "Completed", "Not completed", `href="/coach/class-5/reports/maths/topics/maths"`} {
		if !strings.Contains(body, want) {
			t.Errorf("body missing %q", want)
		}
	}

	rec = s.do(http.MethodGet, "/coach/class-5/reports/maths/items/fractions/learners", nil, true)
	if rec.Code != http.StatusNotFound {
		t.Errorf("topic as item status = %d, want 404", rec.Code)
	}
}

func TestLogout(t *testing.T) {
	s := newTestServer(t)

	s.post("/coach/classes/modal/open", nil)
	rec := s.post("/logout", nil)
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("status = %d, want 303", rec.Code)
	}
	if loc := rec.Header().Get("Location"); loc != "/login" {
		t.Errorf("Location = %q, want /login", loc)
	}

	ctx := store.WithSessionID(context.Background(), testSession)
	if s.ui.ModalVisible(ctx) {
		t.Error("UI state survived logout")
	}

	var cleared bool
	for _, c := range rec.Result().Cookies() {
		if c.Name == security.SessionCookieName && c.MaxAge < 0 {
			cleared = true
		}
	}
	if !cleared {
		t.Error("session cookie not cleared")
	}

	// a copy of the old cookie no longer works
	rec = s.do(http.MethodGet, "/coach/classes", nil, true)
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("old token status = %d, want 303", rec.Code)
	}
	if loc := rec.Header().Get("Location"); loc != "/login" {
		t.Errorf("old token Location = %q, want /login", loc)
	}
}

func TestHealth(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantBody   string
	}{
		{"healthy", nil, http.StatusOK, `"cache":"ok"`},
		{"cache down", errors.New("connection refused"), http.StatusServiceUnavailable, "connection refused"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewHealthHandler(map[string]Pinger{
				"cache": PingFunc(func(context.Context) error { return tt.err }),
			})
			rec := httptest.NewRecorder()
			h.Health(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			if !strings.Contains(rec.Body.String(), tt.wantBody) {
				t.Errorf("body = %q, want it to contain %q", rec.Body.String(), tt.wantBody)
			}
		})
	}
}
