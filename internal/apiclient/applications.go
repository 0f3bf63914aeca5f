package apiclient

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"github.com/justsurfingit/nextstep-web/internal/dtos"
	"github.com/justsurfingit/nextstep-web/internal/models"
)

func (c *Client) ListApplications(ctx context.Context) ([]models.Application, error) {
	var apps []models.Application
	if err := c.doJSON(ctx, "list_applications", http.MethodGet, "/applications/", nil, &apps); err != nil {
		return nil, err
	}
	return apps, nil
}

// Apply submits an application with an optional resume attached.
func (c *Client) Apply(ctx context.Context, in dtos.ApplicationInput, resume *Upload) error {
	fields := []formField{
		{name: "job", value: strconv.FormatUint(uint64(in.JobID), 10)},
		{name: "cover_letter", value: in.CoverLetter},
		{name: "phone", value: in.Phone},
	}
	return c.doMultipart(ctx, "apply", http.MethodPost, "/applications/", fields, "resume", resume)
}

func (c *Client) ApproveApplication(ctx context.Context, id uint) error {
	return c.doJSON(ctx, "approve_application", http.MethodPost, fmt.Sprintf("/applications/%d/approve/", id), nil, nil)
}

func (c *Client) RejectApplication(ctx context.Context, id uint) error {
	return c.doJSON(ctx, "reject_application", http.MethodPost, fmt.Sprintf("/applications/%d/reject/", id), nil, nil)
}
