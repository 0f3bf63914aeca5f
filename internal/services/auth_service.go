package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/justsurfingit/nextstep-web/internal/apiclient"
	"github.com/justsurfingit/nextstep-web/internal/dtos"
	"github.com/justsurfingit/nextstep-web/internal/models"
)

var (
	ErrPasswordMismatch = errors.New("passwords do not match")
	ErrInvalidUCID      = errors.New("ucid must be a number")
)

// SessionWriter is the part of the request session the auth flow mutates.
type SessionWriter interface {
	Login(ctx context.Context, token, username, role string) error
	Logout(ctx context.Context) error
}

type AuthService struct {
	Client *apiclient.Client
}

func NewAuthService(client *apiclient.Client) *AuthService {
	return &AuthService{Client: client}
}

// Login exchanges credentials for a token, asks the backend who the token
// belongs to and only then stores the session. The role comes from the
// account's user_type. A failed attempt clears whatever session the browser
// held before.
func (s *AuthService) Login(ctx context.Context, sess SessionWriter, username, password string) error {
	username = strings.TrimSpace(username)
	token, err := s.Client.ObtainToken(ctx, username, password)
	if err != nil {
		return s.failLogin(ctx, sess, username, err)
	}

	acct, err := s.Client.WithToken(token).GetAccount(ctx)
	if err != nil {
		return s.failLogin(ctx, sess, username, err)
	}

	name := acct.Username
	if name == "" {
		name = username
	}
	return sess.Login(ctx, token, name, acct.UserType)
}

func (s *AuthService) failLogin(ctx context.Context, sess SessionWriter, username string, cause error) error {
	if err := sess.Logout(ctx); err != nil {
		slog.Warn("clear session after failed login", slog.String("username", username), slog.String("error", err.Error()))
	}
	return fmt.Errorf("login %q: %w", username, cause)
}

func (s *AuthService) Logout(ctx context.Context, sess SessionWriter) error {
	return sess.Logout(ctx)
}

// Register validates the form locally before sending anything. Only job
// seekers carry a UCID.
func (s *AuthService) Register(ctx context.Context, form dtos.RegisterForm) error {
	if form.Password != form.Confirm {
		return ErrPasswordMismatch
	}

	req := dtos.RegisterRequest{
		Username:  strings.TrimSpace(form.Username),
		FirstName: strings.TrimSpace(form.FirstName),
		LastName:  strings.TrimSpace(form.LastName),
		Email:     strings.TrimSpace(form.Email),
		Password:  form.Password,
		UserType:  form.Role,
	}
	if form.Role == models.RoleJobSeeker {
		ucid, err := strconv.Atoi(strings.TrimSpace(form.UCID))
		if err != nil || ucid <= 0 {
			return ErrInvalidUCID
		}
		req.UCID = &ucid
	}

	return s.Client.Register(ctx, req)
}
