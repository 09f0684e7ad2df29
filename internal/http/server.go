package httpserver

import (
	"context"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"maragu.dev/gomponents"

	"github.com/Ansh-jadav/Movie-Review-system/internal/config"
	"github.com/Ansh-jadav/Movie-Review-system/internal/proxy"
	"github.com/Ansh-jadav/Movie-Review-system/internal/session"
	"github.com/Ansh-jadav/Movie-Review-system/internal/store"
)

// Server wires HTTP routing, middleware, and handlers.
type Server struct {
	cfg        config.Config
	store      *store.Store
	relay      *proxy.Relay
	controller *session.Controller
	logger     *log.Logger
	router     chi.Router
	httpSrv    *http.Server
}

// New constructs the HTTP server with base middleware and routes.
func New(cfg config.Config, st *store.Store, relay *proxy.Relay, controller *session.Controller, logger *log.Logger) *Server {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	if logger == nil {
		logger = log.Default()
	}

	s := &Server{
		cfg:        cfg,
		store:      st,
		relay:      relay,
		controller: controller,
		logger:     logger,
		router:     r,
	}
	s.registerRoutes()
	return s
}

func (s *Server) registerRoutes() {
	s.router.Get("/healthz", s.handleHealthz)

	s.router.Route("/api", func(r chi.Router) {
		r.Get("/omdb", s.relay.Metadata)
		r.Get("/tmdb", s.relay.Extended)
	})

	s.router.Get("/", s.handleIndex)
	s.router.Route("/fragments", func(r chi.Router) {
		r.Get("/results", s.handleResults)
		r.Get("/suggestions", s.handleSuggestions)
		r.Post("/reviews/clear", s.handleClearReviews)
		r.Route("/movie/{imdbID}", func(r chi.Router) {
			r.Get("/", s.handleMovieDetail)
			r.Get("/videos", s.handleMovieVideos)
			r.Post("/thumb", s.handleThumb)
			r.Post("/reviews", s.handleSubmitReview)
			r.Post("/reviews/{reviewID}/delete", s.handleDeleteReview)
		})
	})
}

// Start boots the HTTP server asynchronously.
func (s *Server) Start(ctx context.Context) error {
	s.httpSrv = &http.Server{
		Addr:         ":" + s.cfg.Port,
		Handler:      s.router,
		ReadTimeout:  time.Duration(s.cfg.ReadTimeoutSecs) * time.Second,
		WriteTimeout: time.Duration(s.cfg.WriteTimeoutSecs) * time.Second,
		IdleTimeout:  time.Duration(s.cfg.IdleTimeoutSecs) * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := s.httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
			return
		}
		errCh <- nil
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = s.httpSrv.Shutdown(shutdownCtx)
		return ctx.Err()
	case err := <-errCh:
		return err
	}
}

// Shutdown gracefully stops the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpSrv == nil {
		return nil
	}
	return s.httpSrv.Shutdown(ctx)
}

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := s.store.HealthCheck(ctx); err != nil {
		http.Error(w, http.StatusText(http.StatusServiceUnavailable), http.StatusServiceUnavailable)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}

// respondNode renders a gomponents tree as the response body.
func (s *Server) respondNode(w http.ResponseWriter, status int, node gomponents.Node) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := node.Render(w); err != nil {
		s.logger.Printf("render error: %v", err)
	}
}
