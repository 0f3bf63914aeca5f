package apiclient

import (
	"context"
	"net/http"

	"github.com/justsurfingit/nextstep-web/internal/models"
)

func (c *Client) GetAccount(ctx context.Context) (models.Account, error) {
	var acct models.Account
	err := c.doJSON(ctx, "get_account", http.MethodGet, "/account/", nil, &acct)
	return acct, err
}

// UpdateAccount replaces the profile with a multipart PUT of bio and an
// optional pdf.
func (c *Client) UpdateAccount(ctx context.Context, bio string, pdf *Upload) error {
	return c.doMultipart(ctx, "update_account", http.MethodPut, "/account/",
		[]formField{{name: "bio", value: bio}}, "pdf", pdf)
}
