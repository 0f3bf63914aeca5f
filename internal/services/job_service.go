package services

import (
	"context"
	"strings"

	"github.com/justsurfingit/nextstep-web/internal/apiclient"
	"github.com/justsurfingit/nextstep-web/internal/dtos"
	"github.com/justsurfingit/nextstep-web/internal/models"
)

type JobService struct {
	Client *apiclient.Client
}

func NewJobService(client *apiclient.Client) *JobService {
	return &JobService{
		Client: client,
	}
}

// List fetches every posting. The token is attached when the caller has one.
func (s *JobService) List(ctx context.Context, token string) ([]models.Job, error) {
	return s.Client.WithToken(token).ListJobs(ctx)
}

func (s *JobService) Get(ctx context.Context, token string, id uint) (models.Job, error) {
	return s.Client.WithToken(token).GetJob(ctx, id)
}

// Create posts a job; posted_by is filled in by the backend from the token.
func (s *JobService) Create(ctx context.Context, token string, form dtos.JobForm) (models.Job, error) {
	return s.Client.WithToken(token).CreateJob(ctx, dtos.JobInput{
		Title:       strings.TrimSpace(form.Title),
		Description: strings.TrimSpace(form.Description),
		Location:    strings.TrimSpace(form.Location),
	})
}

func (s *JobService) Delete(ctx context.Context, token string, id uint) error {
	return s.Client.WithToken(token).DeleteJob(ctx, id)
}
