package session

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const CookieName = "nextstep_session"

const ginKey = "nextstep.session"

// Context is the session of one request. Handlers receive it from the
// middleware rather than reaching for shared state.
type Context struct {
	store     Store
	id        string
	current   Session
	setCookie func(value string, maxAge int)
	newID     func() string
}

func (c *Context) Current() Session {
	return c.current
}

// ID is the cookie id backing this session, empty before the first login.
func (c *Context) ID() string {
	return c.id
}

// Login persists the token, username and role under a freshly issued id.
// Any record behind a previous id is removed, so an id known before login
// never carries the authenticated session.
func (c *Context) Login(ctx context.Context, token, username, role string) error {
	if token == "" {
		return ErrEmptyToken
	}
	sess := Session{AccessToken: token, Username: username, Role: role}
	id := c.newID()
	if err := c.store.Save(ctx, id, sess); err != nil {
		return err
	}
	if c.id != "" && c.id != id {
		if err := c.store.Delete(ctx, c.id); err != nil {
			slog.Warn("delete previous session failed", slog.String("error", err.Error()))
		}
	}
	c.setCookie(id, 0)
	c.id = id
	c.current = sess
	return nil
}

// Logout clears all three keys and expires the cookie.
func (c *Context) Logout(ctx context.Context) error {
	var err error
	if c.id != "" {
		err = c.store.Delete(ctx, c.id)
	}
	c.setCookie("", -1)
	c.id = ""
	c.current = Session{}
	return err
}

type Manager struct {
	store  Store
	secure bool
	newID  func() string
}

func NewManager(store Store, secureCookie bool) *Manager {
	return &Manager{store: store, secure: secureCookie, newID: uuid.NewString}
}

func (m *Manager) Store() Store {
	return m.store
}

// Middleware loads the session named by the cookie and attaches a Context
// to the request. A store failure degrades to the empty session.
func (m *Manager) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, _ := c.Cookie(CookieName)
		sc := &Context{
			store: m.store,
			newID: m.newID,
			setCookie: func(value string, maxAge int) {
				c.SetSameSite(http.SameSiteLaxMode)
				c.SetCookie(CookieName, value, maxAge, "/", "", m.secure, true)
			},
		}
		if id != "" {
			sess, err := m.store.Load(c.Request.Context(), id)
			if err != nil {
				slog.Warn("session load failed", slog.String("error", err.Error()))
			} else if sess.Authenticated() {
				sc.id = id
				sc.current = sess
			}
		}
		c.Set(ginKey, sc)
		c.Next()
	}
}

// FromGin returns the request's session. Outside the middleware it returns a
// detached, empty session backed by a throwaway store.
func FromGin(c *gin.Context) *Context {
	if v, ok := c.Get(ginKey); ok {
		if sc, ok := v.(*Context); ok {
			return sc
		}
	}
	return &Context{
		store:     NewMemoryStore(),
		newID:     uuid.NewString,
		setCookie: func(string, int) {},
	}
}
