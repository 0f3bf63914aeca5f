package services

import (
	"context"
	"errors"
	"strings"

	"github.com/justsurfingit/nextstep-web/internal/apiclient"
	"github.com/justsurfingit/nextstep-web/internal/dtos"
	"github.com/justsurfingit/nextstep-web/internal/models"
)

type Decision string

const (
	DecisionApprove Decision = "approve"
	DecisionReject  Decision = "reject"
)

var ErrUnknownDecision = errors.New("unknown decision")

func ParseDecision(s string) (Decision, error) {
	switch d := Decision(strings.ToLower(s)); d {
	case DecisionApprove, DecisionReject:
		return d, nil
	default:
		return "", ErrUnknownDecision
	}
}

type ApplicationService struct {
	Client *apiclient.Client
}

func NewApplicationService(client *apiclient.Client) *ApplicationService {
	return &ApplicationService{Client: client}
}

// List returns the applications the backend scopes to the token's owner.
func (s *ApplicationService) List(ctx context.Context, token string) ([]models.Application, error) {
	return s.Client.WithToken(token).ListApplications(ctx)
}

// Decide moves a pending application to approved or rejected.
func (s *ApplicationService) Decide(ctx context.Context, token string, id uint, d Decision) error {
	client := s.Client.WithToken(token)
	switch d {
	case DecisionApprove:
		return client.ApproveApplication(ctx, id)
	case DecisionReject:
		return client.RejectApplication(ctx, id)
	default:
		return ErrUnknownDecision
	}
}

func (s *ApplicationService) Apply(ctx context.Context, token string, jobID uint, form dtos.ApplyForm, resume *apiclient.Upload) error {
	return s.Client.WithToken(token).Apply(ctx, dtos.ApplicationInput{
		JobID:       jobID,
		CoverLetter: strings.TrimSpace(form.CoverLetter),
		Phone:       strings.TrimSpace(form.Phone),
	}, resume)
}
