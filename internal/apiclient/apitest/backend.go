// Package apitest provides an in-memory job-board backend for tests. It
// serves the same REST surface as the real backend under /api and records
// every request it receives.
package apitest

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/justsurfingit/nextstep-web/internal/dtos"
	"github.com/justsurfingit/nextstep-web/internal/models"
)

const prefix = "/api"

type User struct {
	Username  string
	Password  string
	UserType  string
	FirstName string
	LastName  string
	Email     string
	Bio       string
	Token     string
}

// Request is one call observed by the backend.
type Request struct {
	Method        string
	Path          string
	Authorization string
}

type AccountUpdate struct {
	Username    string
	Bio         string
	Filename    string
	ContentType string
	Size        int
}

type Submission struct {
	Username    string
	JobID       uint
	Phone       string
	CoverLetter string
	ResumeName  string
}

type Backend struct {
	mu            sync.Mutex
	users         map[string]*User
	jobs          []models.Job
	applications  []models.Application
	nextJobID     uint
	nextAppID     uint
	fail          map[string]int
	requests      []Request
	registrations []dtos.RegisterRequest
	updates       []AccountUpdate
	submissions   []Submission

	server *httptest.Server
}

func New() *Backend {
	return &Backend{
		users:     make(map[string]*User),
		fail:      make(map[string]int),
		nextJobID: 1,
		nextAppID: 1,
	}
}

// Start serves the backend until the test ends and returns its API base URL.
func (b *Backend) Start(t testing.TB) string {
	t.Helper()
	b.server = httptest.NewServer(b.routes())
	t.Cleanup(b.server.Close)
	return b.URL()
}

func (b *Backend) URL() string {
	return b.server.URL + prefix
}

func (b *Backend) AddUser(u User) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if u.Token == "" {
		u.Token = "token-" + u.Username
	}
	b.users[u.Username] = &u
}

func (b *Backend) AddJob(j models.Job) models.Job {
	b.mu.Lock()
	defer b.mu.Unlock()
	j.ID = b.nextJobID
	b.nextJobID++
	b.jobs = append(b.jobs, j)
	return j
}

func (b *Backend) AddApplication(a models.Application) models.Application {
	b.mu.Lock()
	defer b.mu.Unlock()
	a.ID = b.nextAppID
	b.nextAppID++
	if a.Status == "" {
		a.Status = models.StatusPending
	}
	b.applications = append(b.applications, a)
	return a
}

// Fail makes "METHOD /path/" (relative to /api) answer with status.
func (b *Backend) Fail(route string, status int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.fail[route] = status
}

func (b *Backend) Jobs() []models.Job {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]models.Job(nil), b.jobs...)
}

func (b *Backend) Applications() []models.Application {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]models.Application(nil), b.applications...)
}

func (b *Backend) Requests() []Request {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]Request(nil), b.requests...)
}

func (b *Backend) Registrations() []dtos.RegisterRequest {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]dtos.RegisterRequest(nil), b.registrations...)
}

func (b *Backend) AccountUpdates() []AccountUpdate {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]AccountUpdate(nil), b.updates...)
}

func (b *Backend) Submissions() []Submission {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]Submission(nil), b.submissions...)
}

func (b *Backend) routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST "+prefix+"/token/", b.handleToken)
	mux.HandleFunc("POST "+prefix+"/register/", b.handleRegister)
	mux.HandleFunc("GET "+prefix+"/jobs/", b.handleListJobs)
	mux.HandleFunc("POST "+prefix+"/jobs/", b.handleCreateJob)
	mux.HandleFunc("GET "+prefix+"/jobs/{id}/", b.handleGetJob)
	mux.HandleFunc("DELETE "+prefix+"/jobs/{id}/", b.handleDeleteJob)
	mux.HandleFunc("GET "+prefix+"/account/", b.handleGetAccount)
	mux.HandleFunc("PUT "+prefix+"/account/", b.handleUpdateAccount)
	mux.HandleFunc("GET "+prefix+"/applications/", b.handleListApplications)
	mux.HandleFunc("POST "+prefix+"/applications/", b.handleApply)
	mux.HandleFunc("POST "+prefix+"/applications/{id}/{action}/", b.handleDecide)

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		route := r.Method + " " + strings.TrimPrefix(r.URL.Path, prefix)
		b.mu.Lock()
		b.requests = append(b.requests, Request{
			Method:        r.Method,
			Path:          strings.TrimPrefix(r.URL.Path, prefix),
			Authorization: r.Header.Get("Authorization"),
		})
		status, failing := b.fail[route]
		b.mu.Unlock()
		if failing {
			writeJSON(w, status, map[string]string{"detail": "injected failure"})
			return
		}
		mux.ServeHTTP(w, r)
	})
}

func (b *Backend) handleToken(w http.ResponseWriter, r *http.Request) {
	var req dtos.TokenRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"detail": "invalid json"})
		return
	}
	b.mu.Lock()
	u, ok := b.users[req.Username]
	b.mu.Unlock()
	if !ok || u.Password != req.Password {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"detail": "No active account found with the given credentials"})
		return
	}
	writeJSON(w, http.StatusOK, dtos.TokenResponse{Access: u.Token, Refresh: "refresh-" + u.Username})
}

func (b *Backend) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req dtos.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"detail": "invalid json"})
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.registrations = append(b.registrations, req)
	if _, exists := b.users[req.Username]; exists {
		writeJSON(w, http.StatusBadRequest, map[string][]string{"username": {"A user with that username already exists."}})
		return
	}
	b.users[req.Username] = &User{
		Username:  req.Username,
		Password:  req.Password,
		UserType:  req.UserType,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Token:     "token-" + req.Username,
	}
	writeJSON(w, http.StatusCreated, map[string]string{"username": req.Username, "user_type": req.UserType})
}

func (b *Backend) handleListJobs(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, b.Jobs())
}

func (b *Backend) handleCreateJob(w http.ResponseWriter, r *http.Request) {
	u := b.requireUser(w, r, models.RoleRecruiter)
	if u == nil {
		return
	}
	var in dtos.JobInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil || in.Title == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"detail": "invalid job"})
		return
	}
	job := b.AddJob(models.Job{Title: in.Title, Description: in.Description, Location: in.Location})
	writeJSON(w, http.StatusCreated, job)
}

func (b *Backend) handleGetJob(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		w.WriteHeader(http.StatusNotFound)
		return
	}
	for _, j := range b.Jobs() {
		if j.ID == id {
			writeJSON(w, http.StatusOK, j)
			return
		}
	}
	writeJSON(w, http.StatusNotFound, map[string]string{"detail": "Not found."})
}

func (b *Backend) handleDeleteJob(w http.ResponseWriter, r *http.Request) {
	if b.requireUser(w, r, models.RoleRecruiter) == nil {
		return
	}
	id, _ := pathID(r)
	b.mu.Lock()
	defer b.mu.Unlock()
	for i, j := range b.jobs {
		if j.ID == id {
			b.jobs = append(b.jobs[:i], b.jobs[i+1:]...)
			w.WriteHeader(http.StatusNoContent)
			return
		}
	}
	writeJSON(w, http.StatusNotFound, map[string]string{"detail": "Not found."})
}

func (b *Backend) handleGetAccount(w http.ResponseWriter, r *http.Request) {
	u := b.requireUser(w, r, "")
	if u == nil {
		return
	}
	writeJSON(w, http.StatusOK, models.Account{
		Username:  u.Username,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Email:     u.Email,
		UserType:  u.UserType,
		Bio:       u.Bio,
	})
}

func (b *Backend) handleUpdateAccount(w http.ResponseWriter, r *http.Request) {
	u := b.requireUser(w, r, "")
	if u == nil {
		return
	}
	if err := r.ParseMultipartForm(8 << 20); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"detail": "expected multipart form"})
		return
	}
	update := AccountUpdate{Username: u.Username, Bio: r.FormValue("bio")}
	if f, hdr, err := r.FormFile("pdf"); err == nil {
		data, _ := io.ReadAll(f)
		f.Close()
		update.Filename = hdr.Filename
		update.ContentType = hdr.Header.Get("Content-Type")
		update.Size = len(data)
	}
	b.mu.Lock()
	u.Bio = update.Bio
	b.updates = append(b.updates, update)
	b.mu.Unlock()
	writeJSON(w, http.StatusOK, map[string]string{"username": u.Username, "bio": update.Bio})
}

func (b *Backend) handleListApplications(w http.ResponseWriter, r *http.Request) {
	if b.requireUser(w, r, "") == nil {
		return
	}
	writeJSON(w, http.StatusOK, b.Applications())
}

func (b *Backend) handleApply(w http.ResponseWriter, r *http.Request) {
	u := b.requireUser(w, r, models.RoleJobSeeker)
	if u == nil {
		return
	}
	if err := r.ParseMultipartForm(8 << 20); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"detail": "expected multipart form"})
		return
	}
	jobID, err := strconv.ParseUint(r.FormValue("job"), 10, 64)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string][]string{"job": {"Invalid pk."}})
		return
	}
	sub := Submission{
		Username:    u.Username,
		JobID:       uint(jobID),
		Phone:       r.FormValue("phone"),
		CoverLetter: r.FormValue("cover_letter"),
	}
	if f, hdr, err := r.FormFile("resume"); err == nil {
		f.Close()
		sub.ResumeName = hdr.Filename
	}

	var title string
	for _, j := range b.Jobs() {
		if j.ID == sub.JobID {
			title = j.Title
		}
	}
	b.mu.Lock()
	b.submissions = append(b.submissions, sub)
	b.mu.Unlock()
	app := b.AddApplication(models.Application{
		Applicant:   models.Applicant{Username: u.Username},
		Job:         models.JobRef{Title: title},
		CoverLetter: sub.CoverLetter,
	})
	writeJSON(w, http.StatusCreated, app)
}

func (b *Backend) handleDecide(w http.ResponseWriter, r *http.Request) {
	if b.requireUser(w, r, models.RoleRecruiter) == nil {
		return
	}
	id, _ := pathID(r)
	var status string
	switch r.PathValue("action") {
	case "approve":
		status = models.StatusApproved
	case "reject":
		status = models.StatusRejected
	default:
		w.WriteHeader(http.StatusNotFound)
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	for i := range b.applications {
		if b.applications[i].ID != id {
			continue
		}
		if b.applications[i].Status != models.StatusPending {
			writeJSON(w, http.StatusBadRequest, map[string]string{"detail": "application already processed"})
			return
		}
		b.applications[i].Status = status
		writeJSON(w, http.StatusOK, map[string]string{"status": status})
		return
	}
	writeJSON(w, http.StatusNotFound, map[string]string{"detail": "Not found."})
}

// requireUser resolves the bearer token. A non-empty role also restricts the
// user type.
func (b *Backend) requireUser(w http.ResponseWriter, r *http.Request, role string) *User {
	token := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
	b.mu.Lock()
	var found *User
	for _, u := range b.users {
		if token != "" && u.Token == token {
			found = u
			break
		}
	}
	b.mu.Unlock()
	if found == nil {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"detail": "Authentication credentials were not provided."})
		return nil
	}
	if role != "" && found.UserType != role {
		writeJSON(w, http.StatusForbidden, map[string]string{"detail": "You do not have permission to perform this action."})
		return nil
	}
	return found
}

func pathID(r *http.Request) (uint, bool) {
	id, err := strconv.ParseUint(r.PathValue("id"), 10, 64)
	if err != nil {
		return 0, false
	}
	return uint(id), true
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
