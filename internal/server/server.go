// Package server exposes the profile proxy, the card upload endpoint and a
// server-side card renderer over HTTP.
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/bulkexchange/accesscard/internal/imagehost"
	"github.com/bulkexchange/accesscard/internal/observability"
	"github.com/bulkexchange/accesscard/internal/render"
	"github.com/bulkexchange/accesscard/pkg/card"
	"github.com/bulkexchange/accesscard/pkg/domain"
)

const maxUploadBytes = 10 << 20

// ProfileFetcher looks up a public profile upstream.
type ProfileFetcher interface {
	UserByUsername(ctx context.Context, username string) (*domain.Profile, error)
}

// CardExporter renders a card view to PNG.
type CardExporter interface {
	Export(ctx context.Context, v card.View) (*render.Artifact, error)
}

// Server holds the collaborators of the HTTP handlers.
type Server struct {
	profiles ProfileFetcher
	uploader imagehost.Uploader
	exporter CardExporter
	logger   *zap.Logger
	now      func() time.Time
}

// Option customises a Server.
type Option func(*Server)

// WithClock overrides the clock used for issue dates.
func WithClock(now func() time.Time) Option {
	return func(s *Server) {
		if now != nil {
			s.now = now
		}
	}
}

// WithLogger sets the base logger.
func WithLogger(l *zap.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.logger = l
		}
	}
}

// New creates a server. A nil uploader disables uploads.
func New(profiles ProfileFetcher, uploader imagehost.Uploader, exporter CardExporter, opts ...Option) *Server {
	if uploader == nil {
		uploader = imagehost.Disabled{}
	}
	s := &Server{
		profiles: profiles,
		uploader: uploader,
		exporter: exporter,
		logger:   zap.NewNop(),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Router builds the chi router with the shared middleware chain.
func (s *Server) Router() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(observability.RequestLogger(s.logger))
	r.Use(middleware.Recoverer)

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusNotFound, "Not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
	})

	r.Get("/healthz", s.health)
	r.Get("/card.png", s.cardImage)
	r.Route("/api", func(api chi.Router) {
		api.Get("/x-profile", s.profile)
		api.Post("/upload-card", s.uploadCard)
	})
	return r
}
