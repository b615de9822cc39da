package session

import (
	"context"
	"net/http"
)

// Handle is the session bound to a single request. It is not safe for concurrent use;
// each request gets its own Handle.
type Handle struct {
	id      string
	values  Values
	manager *Manager
	res     http.ResponseWriter
}

// ID returns the opaque identifier of the session, or an empty string once the
// session has been deleted
func (h *Handle) ID() string {
	return h.id
}

func (h *Handle) GetString(key string) string {
	s, _ := h.values[key].(string)
	return s
}

func (h *Handle) SetString(key, value string) {
	h.values[key] = value
}

func (h *Handle) GetBool(key string) bool {
	b, _ := h.values[key].(bool)
	return b
}

func (h *Handle) SetBool(key string, value bool) {
	h.values[key] = value
}

// Save persists all pending changes and (re)issues the session cookie. If the session
// was previously deleted, it is saved under a newly-generated ID.
func (h *Handle) Save(ctx context.Context) error {
	if h.id == "" {
		h.id = h.manager.newID()
	}
	if err := h.manager.store.Save(ctx, h.id, h.values, h.manager.maxAge); err != nil {
		return err
	}
	h.manager.setCookie(h.res, h.id)
	return nil
}

// Delete irreversibly destroys the session: its stored state is removed, all values
// are cleared, its identity is dropped and the browser is told to discard its cookie.
// Deleting an already-deleted session is a no-op.
func (h *Handle) Delete(ctx context.Context) error {
	if h.id != "" {
		if err := h.manager.store.Delete(ctx, h.id); err != nil {
			return err
		}
	}
	h.id = ""
	h.values = make(Values)
	h.manager.clearCookie(h.res)
	return nil
}
