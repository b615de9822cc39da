package login

import (
	"net/http"
	"time"

	"github.com/golden-vcr/golem"
	"github.com/golden-vcr/golem/internal/events"
	"github.com/golden-vcr/golem/internal/session"
	"github.com/golden-vcr/server-common/entry"
	"github.com/gorilla/mux"
)

type GetSessionFunc func(res http.ResponseWriter, req *http.Request) (Session, error)

type Server struct {
	controller *Controller
	getSession GetSessionFunc
	publisher  events.Publisher
	now        func() time.Time
}

func NewServer(controller *Controller, sessions *session.Manager, publisher events.Publisher) *Server {
	return &Server{
		controller: controller,
		getSession: func(res http.ResponseWriter, req *http.Request) (Session, error) {
			h, err := sessions.Current(res, req)
			if err != nil {
				return nil, err
			}
			return h, nil
		},
		publisher: publisher,
		now:       time.Now,
	}
}

func (s *Server) RegisterRoutes(r *mux.Router) {
	r.Path(s.controller.cfg.LoginPath).Methods("GET").HandlerFunc(s.handleLogin)
	r.Path(s.controller.cfg.CallbackPath).Methods("GET").HandlerFunc(s.handleCallback)
	r.Path(s.controller.cfg.LogoutPath).Methods("GET").HandlerFunc(s.handleLogout)
}

// handleLogin (GET /login) renders the login page, creating a session if the user
// doesn't yet have one
func (s *Server) handleLogin(res http.ResponseWriter, req *http.Request) {
	logger := entry.Log(req)

	sess, err := s.getSession(res, req)
	if err != nil {
		logger.Error("Failed to get session", "error", err)
		http.Error(res, "failed to get session", http.StatusInternalServerError)
		return
	}

	view, err := s.controller.Login(req.Context(), sess)
	if err != nil {
		logger.Error("Failed to save session", "error", err)
		http.Error(res, "failed to save session", http.StatusInternalServerError)
		return
	}

	res.Header().Set("content-type", "text/html; charset=utf-8")
	if err := loginTemplate.Execute(res, view); err != nil {
		logger.Error("Failed to render login page", "error", err)
	}
}

// handleCallback (GET /oauth) is the redirect_uri of our OAuth flow: it completes the
// login and redirects to /login on success, or redirects to /logout on any failure
func (s *Server) handleCallback(res http.ResponseWriter, req *http.Request) {
	logger := entry.Log(req)

	sess, err := s.getSession(res, req)
	if err != nil {
		logger.Error("Failed to get session", "error", err)
		http.Error(res, "failed to get session", http.StatusInternalServerError)
		return
	}

	q := req.URL.Query()
	if providerError := q.Get("error"); providerError != "" {
		logger = logger.With("providerError", providerError, "providerErrorDescription", q.Get("error_description"))
	}

	outcome, err := s.controller.Callback(req.Context(), sess, q.Get("state"), q.Get("code"))
	if err != nil {
		logger.Error("Failed to save session", "error", err)
		http.Error(res, "failed to save session", http.StatusInternalServerError)
		return
	}

	if outcome.IsRejected() {
		logger.Warn("Rejected OAuth callback", "reason", outcome.Reason)
	} else {
		userName := sess.GetString(golem.FieldUserName)
		logger.Info("User logged in", "userName", userName)
		s.publish(req, events.TypeLogin, userName)
	}
	http.Redirect(res, req, outcome.Target, http.StatusFound)
}

// handleLogout (GET /logout) destroys the user's session and sends them back to /login
func (s *Server) handleLogout(res http.ResponseWriter, req *http.Request) {
	logger := entry.Log(req)

	sess, err := s.getSession(res, req)
	if err != nil {
		logger.Error("Failed to get session", "error", err)
		http.Error(res, "failed to get session", http.StatusInternalServerError)
		return
	}

	wasLoggedIn := sess.GetBool(golem.FieldLoggedIn)
	userName := sess.GetString(golem.FieldUserName)

	outcome, err := s.controller.Logout(req.Context(), sess)
	if err != nil {
		logger.Error("Failed to delete session", "error", err)
		http.Error(res, "failed to delete session", http.StatusInternalServerError)
		return
	}

	if wasLoggedIn {
		logger.Info("User logged out", "userName", userName)
		s.publish(req, events.TypeLogout, userName)
	}
	http.Redirect(res, req, outcome.Target, http.StatusFound)
}

// publish sends a login event; failure is logged but never affects the response
func (s *Server) publish(req *http.Request, eventType events.Type, userName string) {
	err := s.publisher.Publish(req.Context(), events.Event{
		Type:      eventType,
		UserName:  userName,
		Timestamp: s.now(),
	})
	if err != nil {
		entry.Log(req).Error("Failed to publish login event", "error", err, "eventType", eventType)
	}
}
