// Package web serves the browser front-end: an upload form, the generated
// minutes and a Markdown download.
package web

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/rs/zerolog"

	"meeting-minutes/internal/config"
	"meeting-minutes/internal/domain"
	"meeting-minutes/internal/minutes"
)

const (
	sessionCookieName = "minutes_session"
	uploadField       = "audio_file"
	sweepInterval     = time.Minute
	shutdownTimeout   = 10 * time.Second
)

// Generator produces minutes text or an error marker for a local file.
type Generator interface {
	GenerateMinutes(ctx context.Context, req minutes.Request) string
}

// Deps groups everything the server needs.
type Deps struct {
	Config      config.WebConfig
	Model       string
	Prompt      string
	Generator   Generator
	Diagnostics func() domain.DiagnosticReport
	Logger      zerolog.Logger
	// Now defaults to time.Now; download names use its local date.
	Now func() time.Time
}

// Server handles the upload, result and download routes.
type Server struct {
	cfg         config.WebConfig
	model       string
	prompt      string
	generator   Generator
	diagnostics func() domain.DiagnosticReport
	sessions    *SessionStore
	log         zerolog.Logger
	now         func() time.Time
	pages       *pages
}

// NewServer builds a server from deps.
func NewServer(deps Deps) (*Server, error) {
	if deps.Generator == nil {
		return nil, errors.New("generator is required")
	}
	if deps.Now == nil {
		deps.Now = time.Now
	}
	if deps.Prompt == "" {
		deps.Prompt = minutes.DefaultPrompt
	}
	if deps.Model == "" {
		deps.Model = minutes.DefaultModel
	}
	if deps.Diagnostics == nil {
		deps.Diagnostics = func() domain.DiagnosticReport { return domain.DiagnosticReport{} }
	}

	pages, err := loadPages()
	if err != nil {
		return nil, fmt.Errorf("load templates: %w", err)
	}

	return &Server{
		cfg:         deps.Config,
		model:       deps.Model,
		prompt:      deps.Prompt,
		generator:   deps.Generator,
		diagnostics: deps.Diagnostics,
		sessions:    NewSessionStore(deps.Config.SessionTTL, deps.Now),
		log:         deps.Logger,
		now:         deps.Now,
		pages:       pages,
	}, nil
}

// Handler returns the routed HTTP handler.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.Recoverer)
	r.Use(chimw.RealIP)
	r.Use(requestLogger(s.log))
	if len(s.cfg.CORSOrigins) > 0 {
		r.Use(cors.Handler(corsOptions(s.cfg.CORSOrigins)))
	}

	r.Get("/", s.handleIndex)
	r.Get("/result", s.handleResult)
	r.Get("/download", s.handleDownload)
	r.Get("/healthz", s.handleHealth)

	r.Group(func(r chi.Router) {
		if s.cfg.UploadRateLimit > 0 {
			r.Use(httprate.LimitByIP(s.cfg.UploadRateLimit, time.Minute))
		}
		r.Post("/upload", s.handleUpload)
	})

	return r
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go s.sweepSessions(ctx)

	errCh := make(chan error, 1)
	go func() {
		s.log.Info().Str("addr", s.cfg.Addr).Msg("web server listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

// sweepSessions evicts idle sessions until ctx ends.
func (s *Server) sweepSessions(ctx context.Context) {
	ticker := time.NewTicker(sweepInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := s.sessions.Sweep(); n > 0 {
				s.log.Debug().Int("evicted", n).Msg("sessions swept")
			}
		}
	}
}
