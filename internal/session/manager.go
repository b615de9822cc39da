package session

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
)

const (
	DefaultCookieName = "golem_session"
	DefaultMaxAge     = 24 * time.Hour
)

// Options controls how session cookies are issued
type Options struct {
	CookieName string
	MaxAge     time.Duration
	Secure     bool
}

// Manager resolves the session for each incoming request
type Manager struct {
	store      Store
	cookieName string
	maxAge     time.Duration
	secure     bool
	newID      func() string
}

func NewManager(store Store, opts Options) *Manager {
	if opts.CookieName == "" {
		opts.CookieName = DefaultCookieName
	}
	if opts.MaxAge <= 0 {
		opts.MaxAge = DefaultMaxAge
	}
	return &Manager{
		store:      store,
		cookieName: opts.CookieName,
		maxAge:     opts.MaxAge,
		secure:     opts.Secure,
		newID:      uuid.NewString,
	}
}

// Current returns the session identified by the request's cookie, or a new, empty
// session (not yet persisted) if there is no cookie or it doesn't identify a live
// session. An error is returned only if the Store fails.
func (m *Manager) Current(res http.ResponseWriter, req *http.Request) (*Handle, error) {
	if cookie, err := req.Cookie(m.cookieName); err == nil && cookie.Value != "" {
		values, err := m.store.Load(req.Context(), cookie.Value)
		if err == nil {
			return &Handle{id: cookie.Value, values: values, manager: m, res: res}, nil
		}
		if !errors.Is(err, ErrNotFound) {
			return nil, err
		}
	}
	return &Handle{id: m.newID(), values: make(Values), manager: m, res: res}, nil
}

// Destroy deletes the session with the given ID, regardless of which browser holds it
func (m *Manager) Destroy(ctx context.Context, id string) error {
	if _, err := m.store.Load(ctx, id); err != nil {
		return err
	}
	return m.store.Delete(ctx, id)
}

func (m *Manager) setCookie(res http.ResponseWriter, id string) {
	http.SetCookie(res, &http.Cookie{
		Name:     m.cookieName,
		Value:    id,
		Path:     "/",
		MaxAge:   int(m.maxAge.Seconds()),
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	})
}

func (m *Manager) clearCookie(res http.ResponseWriter) {
	http.SetCookie(res, &http.Cookie{
		Name:     m.cookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	})
}
