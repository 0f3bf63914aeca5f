package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"html"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/justsurfingit/nextstep-web/internal/apiclient"
	"github.com/justsurfingit/nextstep-web/internal/apiclient/apitest"
	"github.com/justsurfingit/nextstep-web/internal/dtos"
	"github.com/justsurfingit/nextstep-web/internal/models"
	"github.com/justsurfingit/nextstep-web/internal/services"
	"github.com/justsurfingit/nextstep-web/internal/session"
)

type harness struct {
	backend *apitest.Backend
	store   *session.MemoryStore
	router  http.Handler
	cookies map[string]*http.Cookie
}

func newHarness(t *testing.T, assistant PostingExtractor) *harness {
	t.Helper()
	gin.SetMode(gin.TestMode)

	b := apitest.New()
	b.AddUser(apitest.User{Username: "rita", Password: "pw", UserType: models.RoleRecruiter, Email: "rita@ucalgary.ca"})
	b.AddUser(apitest.User{Username: "sam", Password: "pw", UserType: models.RoleJobSeeker, Bio: "CS student"})
	client := apiclient.NewWithHTTPClient(b.Start(t), &http.Client{Timeout: 5 * time.Second})

	store := session.NewMemoryStore()
	r, err := NewRouter(Deps{
		Sessions:       session.NewManager(store, false),
		Auth:           services.NewAuthService(client),
		Jobs:           services.NewJobService(client),
		Accounts:       services.NewAccountService(client),
		Applications:   services.NewApplicationService(client),
		Assistant:      assistant,
		MaxUploadBytes: 1 << 20,
		Logger:         slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
	require.NoError(t, err)

	return &harness{backend: b, store: store, router: r, cookies: map[string]*http.Cookie{}}
}

func (h *harness) serve(req *http.Request) *httptest.ResponseRecorder {
	for _, c := range h.cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	h.router.ServeHTTP(rec, req)
	for _, c := range rec.Result().Cookies() {
		if c.MaxAge < 0 {
			delete(h.cookies, c.Name)
			continue
		}
		h.cookies[c.Name] = c
	}
	return rec
}

func (h *harness) get(path string) *httptest.ResponseRecorder {
	return h.serve(httptest.NewRequest(http.MethodGet, path, nil))
}

func (h *harness) post(path string, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return h.serve(req)
}

func (h *harness) postMultipart(t *testing.T, path string, fields map[string]string, fileField, filename string, data []byte) *httptest.ResponseRecorder {
	t.Helper()
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}
	if fileField != "" {
		part, err := w.CreateFormFile(fileField, filename)
		require.NoError(t, err)
		_, err = part.Write(data)
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, path, &body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return h.serve(req)
}

func (h *harness) login(t *testing.T, username string) {
	t.Helper()
	rec := h.post("/login", url.Values{"username": {username}, "password": {"pw"}})
	require.Equal(t, http.StatusSeeOther, rec.Code)
}

func (h *harness) stored(t *testing.T) session.Session {
	t.Helper()
	c, ok := h.cookies[session.CookieName]
	if !ok {
		return session.Session{}
	}
	s, err := h.store.Load(context.Background(), c.Value)
	require.NoError(t, err)
	return s
}

func assertShows(t *testing.T, body, msg string) {
	t.Helper()
	assert.Contains(t, body, html.EscapeString(msg))
}

func TestLoginStoresSessionAndUpdatesNav(t *testing.T) {
	h := newHarness(t, nil)

	rec := h.post("/login", url.Values{"username": {"rita"}, "password": {"pw"}})

	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/browse", rec.Header().Get("Location"))
	assert.Equal(t, session.Session{AccessToken: "token-rita", Username: "rita", Role: models.RoleRecruiter}, h.stored(t))

	body := h.get("/browse").Body.String()
	assert.Contains(t, body, "Signed in as: <strong>rita</strong>")
	assert.Contains(t, body, `href="/manage"`)
	assert.NotContains(t, body, `href="/login"`)
}

func TestLoginTakesRoleFromAccount(t *testing.T) {
	h := newHarness(t, nil)

	h.login(t, "sam")

	assert.Equal(t, models.RoleJobSeeker, h.stored(t).Role)
	assert.NotContains(t, h.get("/browse").Body.String(), `href="/manage"`)
}

func TestLoginFailureLeavesSessionEmpty(t *testing.T) {
	h := newHarness(t, nil)

	rec := h.post("/login", url.Values{"username": {"rita"}, "password": {"wrong"}})

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assertShows(t, rec.Body.String(), msgLoginFailed)
	assert.Empty(t, h.cookies)
	assert.Zero(t, h.store.Len())
}

func TestFailedLoginDropsEarlierSession(t *testing.T) {
	h := newHarness(t, nil)
	h.login(t, "rita")
	require.Equal(t, 1, h.store.Len())

	rec := h.post("/login", url.Values{"username": {"sam"}, "password": {"wrong"}})

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Empty(t, h.cookies)
	assert.Zero(t, h.store.Len())

	body := h.get("/").Body.String()
	assert.Contains(t, body, `href="/login"`)
	assert.NotContains(t, body, "Signed in as")
}

func TestLogoutClearsSession(t *testing.T) {
	h := newHarness(t, nil)
	h.login(t, "rita")
	require.Equal(t, 1, h.store.Len())

	rec := h.post("/logout", nil)

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/", rec.Header().Get("Location"))
	assert.Empty(t, h.cookies)
	assert.Zero(t, h.store.Len())

	body := h.get("/").Body.String()
	assert.Contains(t, body, `href="/login"`)
	assert.NotContains(t, body, "Logout")
}

func TestPrivatePagesRedirectToLogin(t *testing.T) {
	h := newHarness(t, nil)

	for _, path := range []string{"/manage", "/manage-jobs", "/account", "/applications", "/jobs/1/apply"} {
		rec := h.get(path)
		assert.Equal(t, http.StatusSeeOther, rec.Code, path)
		assert.Equal(t, "/login", rec.Header().Get("Location"), path)
	}
	assert.Empty(t, h.backend.Requests())
}

func registerValues(password, confirm string) url.Values {
	return url.Values{
		"username":   {"newbie"},
		"first_name": {"New"},
		"last_name":  {"Bie"},
		"email":      {"newbie@ucalgary.ca"},
		"password":   {password},
		"confirm":    {confirm},
		"user_type":  {models.RoleJobSeeker},
		"ucid":       {"30012345"},
	}
}

func TestRegisterPasswordMismatchSkipsBackend(t *testing.T) {
	h := newHarness(t, nil)

	rec := h.post("/register", registerValues("secret", "other"))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assertShows(t, rec.Body.String(), msgPasswordMismatch)
	assert.Empty(t, h.backend.Requests())
}

func TestRegisterSuccess(t *testing.T) {
	h := newHarness(t, nil)

	rec := h.post("/register", registerValues("secret", "secret"))

	assert.Equal(t, http.StatusOK, rec.Code)
	assertShows(t, rec.Body.String(), msgRegistered)
	regs := h.backend.Registrations()
	require.Len(t, regs, 1)
	require.NotNil(t, regs[0].UCID)
	assert.Equal(t, 30012345, *regs[0].UCID)
	assert.Empty(t, h.cookies, "registration does not sign in")
}

func TestRegisterBackendFailure(t *testing.T) {
	h := newHarness(t, nil)
	form := registerValues("secret", "secret")
	form.Set("username", "rita")

	rec := h.post("/register", form)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assertShows(t, rec.Body.String(), msgRegisterFailed)
	assert.NotContains(t, rec.Body.String(), "secret", "passwords are not echoed")
}

func TestBrowseListsJobs(t *testing.T) {
	h := newHarness(t, nil)
	h.backend.AddJob(models.Job{Title: "Lab TA", Location: "ICT"})

	rec := h.get("/jobs")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Lab TA")
	assert.Contains(t, rec.Body.String(), "/jobs/1/apply")
}

func TestBrowseFailureShowsError(t *testing.T) {
	h := newHarness(t, nil)
	h.backend.Fail("GET /jobs/", http.StatusInternalServerError)

	rec := h.get("/browse")

	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assertShows(t, rec.Body.String(), msgBrowseFailed)
}

func TestCreateJobReloadsList(t *testing.T) {
	h := newHarness(t, nil)
	h.backend.AddJob(models.Job{Title: "Existing"})
	h.login(t, "rita")
	before := len(h.backend.Requests())

	rec := h.post("/manage", url.Values{"title": {"Research Assistant"}, "description": {"Data work"}, "location": {"MS 680"}})

	assert.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assertShows(t, body, msgJobAdded)
	assert.Contains(t, body, "Existing")
	assert.Contains(t, body, "Research Assistant")

	reqs := h.backend.Requests()[before:]
	require.Len(t, reqs, 2)
	assert.Equal(t, "POST /jobs/", reqs[0].Method+" "+reqs[0].Path)
	assert.Equal(t, "GET /jobs/", reqs[1].Method+" "+reqs[1].Path)
	assert.Equal(t, "Bearer token-rita", reqs[0].Authorization)
}

func TestCreateJobAsJobSeekerFails(t *testing.T) {
	h := newHarness(t, nil)
	h.login(t, "sam")

	rec := h.post("/manage", url.Values{"title": {"x"}, "description": {"y"}, "location": {"z"}})

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assertShows(t, rec.Body.String(), msgJobAddFailed)
	assert.Empty(t, h.backend.Jobs())
}

func TestDeleteJobRemovesFromNextFetch(t *testing.T) {
	h := newHarness(t, nil)
	job := h.backend.AddJob(models.Job{Title: "Grader"})
	h.login(t, "rita")

	rec := h.post("/manage/1/delete", nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	assertShows(t, rec.Body.String(), msgJobDeleted)
	assert.NotContains(t, rec.Body.String(), job.Title)
	assert.Empty(t, h.backend.Jobs())

	rec = h.post("/manage/1/delete", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assertShows(t, rec.Body.String(), msgJobDeleteFailed)
}

type stubExtractor struct {
	form dtos.JobForm
	err  error
}

func (s stubExtractor) ExtractPosting(context.Context, string) (dtos.JobForm, error) {
	return s.form, s.err
}

func TestAssistPrefillsForm(t *testing.T) {
	h := newHarness(t, stubExtractor{form: dtos.JobForm{Title: "Lab TA", Description: "Run labs", Location: "ICT 121"}})
	h.login(t, "rita")

	manage := h.get("/manage").Body.String()
	assert.Contains(t, manage, `action="/manage/assist"`)

	rec := h.post("/manage/assist", url.Values{"raw_text": {"We need a lab TA in ICT 121"}})

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `value="Lab TA"`)
	assert.Empty(t, h.backend.Jobs(), "prefill never posts")
}

func TestAssistRouteAbsentWithoutAssistant(t *testing.T) {
	h := newHarness(t, nil)
	h.login(t, "rita")

	assert.NotContains(t, h.get("/manage").Body.String(), "/manage/assist")
	assert.Equal(t, http.StatusNotFound, h.post("/manage/assist", url.Values{"raw_text": {"x"}}).Code)
}

func TestApplicationsDecisions(t *testing.T) {
	h := newHarness(t, nil)
	pending := h.backend.AddApplication(models.Application{Applicant: models.Applicant{Username: "sam"}, Job: models.JobRef{Title: "TA"}})
	h.login(t, "rita")

	list := h.get("/applications").Body.String()
	assert.NotContains(t, list, "disabled")

	rec := h.post("/applications/1/approve", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assertShows(t, rec.Body.String(), msgApproved)
	assert.Equal(t, 2, strings.Count(rec.Body.String(), "disabled"))
	assert.Equal(t, models.StatusApproved, h.backend.Applications()[0].Status)

	rec = h.post("/applications/1/reject", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assertShows(t, rec.Body.String(), msgDecisionFailed)
	assert.Equal(t, pending.ID, h.backend.Applications()[0].ID)

	rec = h.post("/applications/1/archive", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRejectMessage(t *testing.T) {
	h := newHarness(t, nil)
	h.backend.AddApplication(models.Application{Applicant: models.Applicant{Username: "sam"}})
	h.login(t, "rita")

	rec := h.post("/applications/1/reject", nil)

	assertShows(t, rec.Body.String(), msgRejected)
	assert.Equal(t, models.StatusRejected, h.backend.Applications()[0].Status)
}

func TestApplicationsEmptyAndFailure(t *testing.T) {
	h := newHarness(t, nil)
	h.login(t, "rita")

	assert.Contains(t, h.get("/applications").Body.String(), "No applications found for your jobs.")

	h.backend.Fail("GET /applications/", http.StatusInternalServerError)
	rec := h.get("/applications")
	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assertShows(t, rec.Body.String(), msgApplicationsFailed)
	assert.NotContains(t, rec.Body.String(), "No applications found")
}

func TestAccountShowAndUpdate(t *testing.T) {
	h := newHarness(t, nil)
	h.login(t, "sam")

	rec := h.get("/account")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "CS student")

	rec = h.postMultipart(t, "/account", map[string]string{"bio": "Final year"}, "pdf", "cv.pdf", []byte("%PDF-1.4\nbody"))
	assert.Equal(t, http.StatusOK, rec.Code)
	assertShows(t, rec.Body.String(), msgAccountUpdated)
	assert.Contains(t, rec.Body.String(), "Final year")

	updates := h.backend.AccountUpdates()
	require.Len(t, updates, 1)
	assert.Equal(t, "cv.pdf", updates[0].Filename)
	assert.Equal(t, "application/pdf", updates[0].ContentType)
}

func TestAccountUpdateRejectsNonPDFLocally(t *testing.T) {
	h := newHarness(t, nil)
	h.login(t, "sam")

	rec := h.postMultipart(t, "/account", map[string]string{"bio": "x"}, "pdf", "cv.pdf", []byte("plain text pretending"))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assertShows(t, rec.Body.String(), msgNotPDF)
	assert.Empty(t, h.backend.AccountUpdates())
	for _, r := range h.backend.Requests() {
		assert.NotEqual(t, http.MethodPut, r.Method)
	}
}

func TestAccountLoadFailure(t *testing.T) {
	h := newHarness(t, nil)
	h.login(t, "sam")
	h.backend.Fail("GET /account/", http.StatusInternalServerError)

	rec := h.get("/account")

	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assertShows(t, rec.Body.String(), msgAccountLoadFailed)
	assert.NotContains(t, rec.Body.String(), `name="bio"`)
}

func TestApplyFlow(t *testing.T) {
	h := newHarness(t, nil)
	h.backend.AddJob(models.Job{Title: "Lab TA", Location: "ICT"})
	h.login(t, "sam")

	rec := h.get("/jobs/1/apply")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Apply for Lab TA")

	rec = h.postMultipart(t, "/jobs/1/apply", map[string]string{"phone": "403-555-0100", "cover_letter": "Hi"}, "resume", "resume.pdf", []byte("%PDF-1.7\n"))
	assert.Equal(t, http.StatusOK, rec.Code)
	assertShows(t, rec.Body.String(), msgApplicationSubmitted)

	subs := h.backend.Submissions()
	require.Len(t, subs, 1)
	assert.Equal(t, uint(1), subs[0].JobID)
	assert.Equal(t, "resume.pdf", subs[0].ResumeName)
}

func TestApplyFailures(t *testing.T) {
	h := newHarness(t, nil)
	h.backend.AddJob(models.Job{Title: "Lab TA"})
	h.login(t, "rita")

	rec := h.postMultipart(t, "/jobs/1/apply", map[string]string{"phone": "403"}, "", "", nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assertShows(t, rec.Body.String(), msgApplyFailed)

	rec = h.get("/jobs/99/apply")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assertShows(t, rec.Body.String(), msgApplyFormLoadFailed)
	assert.NotContains(t, rec.Body.String(), `name="phone"`)
}

func TestSessionEndpointHidesToken(t *testing.T) {
	h := newHarness(t, nil)
	h.login(t, "rita")

	req := httptest.NewRequest(http.MethodGet, "/api/v1/session", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	rec := h.serve(req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, true, body["authenticated"])
	assert.Equal(t, "rita", body[session.KeyUsername])
	assert.Equal(t, models.RoleRecruiter, body[session.KeyUserRole])
	assert.NotContains(t, rec.Body.String(), "token-rita")
}

func TestHealthAndMetrics(t *testing.T) {
	h := newHarness(t, nil)

	rec := h.get("/api/v1/health")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())

	rec = h.get("/metrics")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "nextstep_http_requests_total")
}

func TestFailureStatus(t *testing.T) {
	assert.Equal(t, http.StatusOK, failureStatus(nil))
	assert.Equal(t, http.StatusForbidden, failureStatus(&apiclient.APIError{StatusCode: 403}))
	assert.Equal(t, http.StatusBadGateway, failureStatus(&apiclient.APIError{StatusCode: 503}))
	assert.Equal(t, http.StatusBadRequest, failureStatus(services.ErrPasswordMismatch))
	assert.Equal(t, http.StatusBadRequest, failureStatus(errBadID))
	assert.Equal(t, http.StatusBadGateway, failureStatus(io.ErrUnexpectedEOF))
}
