package apiclient

import (
	"context"
	"errors"
	"net/http"

	"github.com/justsurfingit/nextstep-web/internal/dtos"
)

var ErrMissingToken = errors.New("token response has no access token")

// ObtainToken exchanges credentials for an access token (POST /token/).
func (c *Client) ObtainToken(ctx context.Context, username, password string) (string, error) {
	var out dtos.TokenResponse
	err := c.doJSON(ctx, "obtain_token", http.MethodPost, "/token/", dtos.TokenRequest{
		Username: username,
		Password: password,
	}, &out)
	if err != nil {
		return "", err
	}
	if out.Access == "" {
		return "", ErrMissingToken
	}
	return out.Access, nil
}

// Register creates an account (POST /register/).
func (c *Client) Register(ctx context.Context, req dtos.RegisterRequest) error {
	return c.doJSON(ctx, "register", http.MethodPost, "/register/", req, nil)
}
