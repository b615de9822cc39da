package admin

import (
	"context"
	"errors"
	"net/http"

	"github.com/golden-vcr/auth"
	"github.com/golden-vcr/golem/internal/session"
	"github.com/golden-vcr/server-common/entry"
	"github.com/gorilla/mux"
)

// SessionDestroyer can terminate any session, given its ID
type SessionDestroyer interface {
	Destroy(ctx context.Context, id string) error
}

type Server struct {
	sessions SessionDestroyer
}

func NewServer(sessions SessionDestroyer) *Server {
	return &Server{
		sessions: sessions,
	}
}

func (s *Server) RegisterRoutes(c auth.Client, r *mux.Router) {
	sessions := r.PathPrefix("/admin/sessions").Subrouter()
	sessions.Use(func(next http.Handler) http.Handler {
		return auth.RequireAccess(c, auth.RoleBroadcaster, next)
	})
	sessions.Path("/{id}").Methods("DELETE").HandlerFunc(s.handleDeleteSession)
}

// handleDeleteSession (DELETE /admin/sessions/{id}) forcibly logs out the browser
// holding the given session
func (s *Server) handleDeleteSession(res http.ResponseWriter, req *http.Request) {
	logger := entry.Log(req)

	id := mux.Vars(req)["id"]
	if id == "" {
		http.Error(res, "session ID is required", http.StatusBadRequest)
		return
	}

	if err := s.sessions.Destroy(req.Context(), id); err != nil {
		if errors.Is(err, session.ErrNotFound) {
			http.Error(res, "no such session", http.StatusNotFound)
			return
		}
		logger.Error("Failed to destroy session", "error", err)
		http.Error(res, err.Error(), http.StatusInternalServerError)
		return
	}

	logger.Info("Destroyed session by request of broadcaster")
	res.WriteHeader(http.StatusNoContent)
}
