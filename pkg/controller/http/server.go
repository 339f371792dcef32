package http

import (
	"net/http"
	"time"

	"github.com/crmdesk/agenda/pkg/domain/interfaces"
	"github.com/crmdesk/agenda/pkg/utils/logging"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Server exposes the activity API over a repository. It stands in for the
// CRM backend during development.
type Server struct {
	router      *chi.Mux
	activities  interfaces.ActivityRepository
	location    *time.Location
	tokenSecret []byte
}

type Options func(*Server)

// WithLocation sets the location zone-less query dates are read in.
// Defaults to time.Local.
func WithLocation(loc *time.Location) Options {
	return func(s *Server) {
		s.location = loc
	}
}

// WithTokenSecret enables HS256 bearer verification on /activities
func WithTokenSecret(secret []byte) Options {
	return func(s *Server) {
		s.tokenSecret = secret
	}
}

func New(repo interfaces.Repository, opts ...Options) *Server {
	r := chi.NewRouter()

	s := &Server{
		router:     r,
		activities: repo.Activity(),
		location:   time.Local,
	}
	for _, opt := range opts {
		opt(s)
	}

	r.Use(middleware.RequestID)
	r.Use(accessLogger)
	r.Use(middleware.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, r, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/activities", func(r chi.Router) {
		if len(s.tokenSecret) > 0 {
			r.Use(bearerAuth(s.tokenSecret))
		}
		r.Get("/", s.listActivities)
		r.Post("/", s.createActivity)
		r.Patch("/{id}", s.updateActivityStatus)
	})

	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// accessLogger is a middleware that logs HTTP requests
func accessLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		defer func() {
			logging.Default().Info("access",
				"method", r.Method,
				"path", r.URL.Path,
				"query", r.URL.RawQuery,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"duration", time.Since(start),
				"remote", r.RemoteAddr,
				"request_id", middleware.GetReqID(r.Context()),
			)
		}()

		next.ServeHTTP(ww, r)
	})
}
