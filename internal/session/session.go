// Package session holds the per-browser authentication state: an access
// token, a username and a role, persisted under an opaque cookie id.
package session

import (
	"context"
	"errors"

	"github.com/justsurfingit/nextstep-web/internal/models"
)

// Storage keys, kept identical to the names the browser client used.
const (
	KeyAccessToken = "accessToken"
	KeyUserRole    = "userRole"
	KeyUsername    = "username"
)

var ErrEmptyToken = errors.New("session: access token is empty")

type Session struct {
	AccessToken string `json:"accessToken"`
	Username    string `json:"username"`
	Role        string `json:"userRole"`
}

func (s Session) Authenticated() bool {
	return s.AccessToken != ""
}

func (s Session) IsRecruiter() bool {
	return s.Authenticated() && s.Role == models.RoleRecruiter
}

// Values returns the three stored keys. Absent values are empty strings.
func (s Session) Values() map[string]string {
	return map[string]string{
		KeyAccessToken: s.AccessToken,
		KeyUserRole:    s.Role,
		KeyUsername:    s.Username,
	}
}

// Store persists sessions by id. Loading an unknown id returns the empty
// session and no error.
type Store interface {
	Load(ctx context.Context, id string) (Session, error)
	Save(ctx context.Context, id string, s Session) error
	Delete(ctx context.Context, id string) error
}
