package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/justsurfingit/nextstep-web/internal/apiclient"
	"github.com/justsurfingit/nextstep-web/internal/dtos"
	"github.com/justsurfingit/nextstep-web/internal/services"
	"github.com/justsurfingit/nextstep-web/internal/session"
	"github.com/justsurfingit/nextstep-web/internal/views"
)

type ApplicationHandler struct {
	ApplicationService *services.ApplicationService
	JobService         *services.JobService
	MaxUploadBytes     int64
}

func NewApplicationHandler(a *services.ApplicationService, j *services.JobService, maxUploadBytes int64) *ApplicationHandler {
	return &ApplicationHandler{
		ApplicationService: a,
		JobService:         j,
		MaxUploadBytes:     maxUploadBytes,
	}
}

// List is GET /applications.
func (h *ApplicationHandler) List(c *gin.Context) {
	h.reload(c, h.newListPage(c), nil)
}

// Decide is POST /applications/:id/:action with action approve or reject.
func (h *ApplicationHandler) Decide(c *gin.Context) {
	page := h.newListPage(c)
	id, err := parseID(c.Param("id"))
	var decision services.Decision
	if err == nil {
		decision, err = services.ParseDecision(c.Param("action"))
	}
	if err == nil {
		token := session.FromGin(c).Current().AccessToken
		err = h.ApplicationService.Decide(c.Request.Context(), token, id, decision)
	}

	if err != nil {
		slog.Warn("application decision failed",
			slog.String("application_id", c.Param("id")),
			slog.String("action", c.Param("action")),
			slog.String("error", err.Error()))
		page.Error = msgDecisionFailed
		h.reload(c, page, err)
		return
	}

	page.Message = msgApproved
	if decision == services.DecisionReject {
		page.Message = msgRejected
	}
	h.reload(c, page, nil)
}

func (h *ApplicationHandler) newListPage(c *gin.Context) views.ApplicationsPage {
	return views.ApplicationsPage{Page: views.NewPage("Applications", session.FromGin(c).Current())}
}

func (h *ApplicationHandler) reload(c *gin.Context, page views.ApplicationsPage, cause error) {
	status := failureStatus(cause)
	apps, err := h.ApplicationService.List(c.Request.Context(), session.FromGin(c).Current().AccessToken)
	if err != nil {
		slog.Warn("list applications failed", slog.String("error", err.Error()))
		if page.Error == "" {
			page.Error = msgApplicationsFailed
		}
		if status == http.StatusOK {
			status = failureStatus(err)
		}
	} else {
		page.Applications = apps
		page.Loaded = true
	}
	c.HTML(status, views.ApplicationsTemplate, page)
}

// ApplyPage is GET /jobs/:id/apply.
func (h *ApplicationHandler) ApplyPage(c *gin.Context) {
	page := views.ApplyPage{Page: views.NewPage("Apply", session.FromGin(c).Current())}
	h.renderApply(c, page, nil)
}

// Apply is POST /jobs/:id/apply.
func (h *ApplicationHandler) Apply(c *gin.Context) {
	page := views.ApplyPage{Page: views.NewPage("Apply", session.FromGin(c).Current())}
	id, err := parseID(c.Param("id"))
	if err != nil {
		h.renderApply(c, page, err)
		return
	}

	var form dtos.ApplyForm
	err = c.ShouldBind(&form)
	var resume *apiclient.Upload
	if err == nil {
		resume, err = readUpload(c, "resume", h.MaxUploadBytes)
	}
	if err == nil {
		token := session.FromGin(c).Current().AccessToken
		err = h.ApplicationService.Apply(c.Request.Context(), token, id, form, resume)
	}

	if err != nil {
		slog.Warn("apply failed", slog.String("job_id", c.Param("id")), slog.String("error", err.Error()))
		page.Form = form
		page.Error = msgApplyFailed
		if errors.Is(err, services.ErrNotPDF) || errors.Is(err, services.ErrUploadTooLarge) {
			page.Error = msgNotPDF
		}
		h.renderApply(c, page, err)
		return
	}
	page.Message = msgApplicationSubmitted
	h.renderApply(c, page, nil)
}

// renderApply loads the posting the form belongs to and renders it.
func (h *ApplicationHandler) renderApply(c *gin.Context, page views.ApplyPage, cause error) {
	status := failureStatus(cause)
	id, err := parseID(c.Param("id"))
	if err == nil {
		page.Job, err = h.JobService.Get(c.Request.Context(), session.FromGin(c).Current().AccessToken, id)
	}
	if err != nil {
		slog.Warn("load apply form failed", slog.String("job_id", c.Param("id")), slog.String("error", err.Error()))
		if page.Error == "" {
			page.Error = msgApplyFormLoadFailed
		}
		if status == http.StatusOK {
			status = failureStatus(err)
		}
	} else {
		page.Loaded = true
	}
	c.HTML(status, views.ApplyTemplate, page)
}
