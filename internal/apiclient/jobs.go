package apiclient

import (
	"context"
	"fmt"
	"net/http"

	"github.com/justsurfingit/nextstep-web/internal/dtos"
	"github.com/justsurfingit/nextstep-web/internal/models"
)

func (c *Client) ListJobs(ctx context.Context) ([]models.Job, error) {
	var jobs []models.Job
	if err := c.doJSON(ctx, "list_jobs", http.MethodGet, "/jobs/", nil, &jobs); err != nil {
		return nil, err
	}
	return jobs, nil
}

func (c *Client) GetJob(ctx context.Context, id uint) (models.Job, error) {
	var job models.Job
	err := c.doJSON(ctx, "get_job", http.MethodGet, fmt.Sprintf("/jobs/%d/", id), nil, &job)
	return job, err
}

// CreateJob posts a new job. The backend assigns posted_by from the token.
func (c *Client) CreateJob(ctx context.Context, in dtos.JobInput) (models.Job, error) {
	var job models.Job
	err := c.doJSON(ctx, "create_job", http.MethodPost, "/jobs/", in, &job)
	return job, err
}

func (c *Client) DeleteJob(ctx context.Context, id uint) error {
	return c.doJSON(ctx, "delete_job", http.MethodDelete, fmt.Sprintf("/jobs/%d/", id), nil, nil)
}
