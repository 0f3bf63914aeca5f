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

type AccountHandler struct {
	AccountService *services.AccountService
	MaxUploadBytes int64
}

func NewAccountHandler(a *services.AccountService, maxUploadBytes int64) *AccountHandler {
	return &AccountHandler{AccountService: a, MaxUploadBytes: maxUploadBytes}
}

// Show is GET /account.
func (h *AccountHandler) Show(c *gin.Context) {
	h.reload(c, views.AccountPage{Page: views.NewPage("My Account", session.FromGin(c).Current())}, nil)
}

// Update is POST /account: a full replace of bio plus an optional PDF.
func (h *AccountHandler) Update(c *gin.Context) {
	page := views.AccountPage{Page: views.NewPage("My Account", session.FromGin(c).Current())}
	var form dtos.AccountForm
	err := c.ShouldBind(&form)

	var pdf *apiclient.Upload
	if err == nil {
		pdf, err = readUpload(c, "pdf", h.MaxUploadBytes)
	}
	if err == nil {
		token := session.FromGin(c).Current().AccessToken
		err = h.AccountService.Update(c.Request.Context(), token, form.Bio, pdf)
	}

	if err != nil {
		slog.Warn("account update failed", slog.String("error", err.Error()))
		page.Error = msgAccountUpdateFailed
		if errors.Is(err, services.ErrNotPDF) || errors.Is(err, services.ErrUploadTooLarge) {
			page.Error = msgNotPDF
		}
		h.reload(c, page, err)
		return
	}
	page.Message = msgAccountUpdated
	h.reload(c, page, nil)
}

func (h *AccountHandler) reload(c *gin.Context, page views.AccountPage, cause error) {
	status := failureStatus(cause)
	acct, err := h.AccountService.Get(c.Request.Context(), session.FromGin(c).Current().AccessToken)
	if err != nil {
		slog.Warn("load account failed", slog.String("error", err.Error()))
		if page.Error == "" {
			page.Error = msgAccountLoadFailed
		}
		if status == http.StatusOK {
			status = failureStatus(err)
		}
	} else {
		page.Account = acct
		page.Loaded = true
	}
	c.HTML(status, views.AccountTemplate, page)
}

// readUpload returns nil when the field is absent or empty.
func readUpload(c *gin.Context, field string, limit int64) (*apiclient.Upload, error) {
	fh, err := c.FormFile(field)
	if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if fh.Size == 0 {
		return nil, nil
	}
	if fh.Size > limit {
		return nil, services.ErrUploadTooLarge
	}

	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return services.ReadPDF(fh.Filename, f, limit)
}
