package handlers

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/justsurfingit/nextstep-web/internal/dtos"
	"github.com/justsurfingit/nextstep-web/internal/services"
	"github.com/justsurfingit/nextstep-web/internal/session"
	"github.com/justsurfingit/nextstep-web/internal/views"
)

// PostingExtractor prefills the job form from pasted posting text.
type PostingExtractor interface {
	ExtractPosting(ctx context.Context, raw string) (dtos.JobForm, error)
}

type JobHandler struct {
	JobService *services.JobService
	Assistant  PostingExtractor
}

// NewJobHandler creates the handler. assistant may be nil.
func NewJobHandler(j *services.JobService, assistant PostingExtractor) *JobHandler {
	return &JobHandler{
		JobService: j,
		Assistant:  assistant,
	}
}

// Browse is GET /browse and GET /jobs.
func (h *JobHandler) Browse(c *gin.Context) {
	sess := session.FromGin(c).Current()
	page := views.BrowsePage{Page: views.NewPage("Job Listings", sess)}

	jobs, err := h.JobService.List(c.Request.Context(), sess.AccessToken)
	if err != nil {
		slog.Warn("list jobs failed", slog.String("error", err.Error()))
		page.Error = msgBrowseFailed
		c.HTML(failureStatus(err), views.BrowseTemplate, page)
		return
	}
	page.Jobs = jobs
	c.HTML(http.StatusOK, views.BrowseTemplate, page)
}

// Manage is GET /manage.
func (h *JobHandler) Manage(c *gin.Context) {
	h.reload(c, h.newManagePage(c), nil)
}

// CreateJob is POST /manage. The list is refetched whatever the outcome.
func (h *JobHandler) CreateJob(c *gin.Context) {
	page := h.newManagePage(c)
	var form dtos.JobForm
	if err := c.ShouldBind(&form); err != nil {
		page.Form = form
		page.Error = msgJobAddFailed
		h.reload(c, page, err)
		return
	}

	token := session.FromGin(c).Current().AccessToken
	if _, err := h.JobService.Create(c.Request.Context(), token, form); err != nil {
		slog.Warn("create job failed", slog.String("error", err.Error()))
		page.Form = form
		page.Error = msgJobAddFailed
		h.reload(c, page, err)
		return
	}
	page.Message = msgJobAdded
	h.reload(c, page, nil)
}

// DeleteJob is POST /manage/:id/delete.
func (h *JobHandler) DeleteJob(c *gin.Context) {
	page := h.newManagePage(c)
	id, err := parseID(c.Param("id"))
	if err == nil {
		token := session.FromGin(c).Current().AccessToken
		err = h.JobService.Delete(c.Request.Context(), token, id)
	}
	if err != nil {
		slog.Warn("delete job failed", slog.String("job_id", c.Param("id")), slog.String("error", err.Error()))
		page.Error = msgJobDeleteFailed
		h.reload(c, page, err)
		return
	}
	page.Message = msgJobDeleted
	h.reload(c, page, nil)
}

// Assist is POST /manage/assist. It only fills the form; nothing is posted.
func (h *JobHandler) Assist(c *gin.Context) {
	page := h.newManagePage(c)
	var req dtos.AssistForm
	if err := c.ShouldBind(&req); err != nil {
		page.Error = msgAssistFailed
		h.reload(c, page, err)
		return
	}
	page.RawText = req.RawText

	form, err := h.Assistant.ExtractPosting(c.Request.Context(), req.RawText)
	if err != nil {
		slog.Warn("posting extraction failed", slog.String("error", err.Error()))
		page.Error = msgAssistFailed
		h.reload(c, page, err)
		return
	}
	page.Form = form
	page.Message = msgAssistFilled
	h.reload(c, page, nil)
}

func (h *JobHandler) newManagePage(c *gin.Context) views.ManagePage {
	return views.ManagePage{
		Page:          views.NewPage("Manage Jobs", session.FromGin(c).Current()),
		AssistEnabled: h.Assistant != nil,
	}
}

// reload is the single refresh step of the manage view: fetch the list,
// then render. cause is the failure of the action that preceded it, if any.
func (h *JobHandler) reload(c *gin.Context, page views.ManagePage, cause error) {
	status := failureStatus(cause)
	jobs, err := h.JobService.List(c.Request.Context(), session.FromGin(c).Current().AccessToken)
	if err != nil {
		slog.Warn("list jobs failed", slog.String("error", err.Error()))
		if page.Error == "" {
			page.Error = msgManageFailed
		}
		if status == http.StatusOK {
			status = failureStatus(err)
		}
	}
	page.Jobs = jobs
	c.HTML(status, views.ManageTemplate, page)
}
