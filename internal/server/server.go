package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/danmuck/camelwire/internal/engine"
	"github.com/danmuck/camelwire/internal/observability"
	"github.com/danmuck/camelwire/internal/store"
)

const (
	ServiceName = "camelwire"
	Version     = "0.1.0"
)

// Server exposes an Engine over HTTP. The store is optional; without it the
// statistics routes answer 404.
type Server struct {
	Addr     string
	Appeared time.Time

	engine *engine.Engine
	store  *store.Store
	router *gin.Engine
	log    zerolog.Logger
}

type Option func(*Server)

func WithStore(st *store.Store) Option {
	return func(s *Server) { s.store = st }
}

func WithLogger(l zerolog.Logger) Option {
	return func(s *Server) { s.log = l }
}

func Appear(e *engine.Engine, opts ...Option) *Server {
	cfg := e.Config().Server
	s := &Server{
		Addr:     cfg.Addr,
		Appeared: time.Now(),
		engine:   e,
		log:      log.Logger,
	}
	for _, opt := range opts {
		opt(s)
	}

	observability.RegisterMetrics()
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(observability.RequestLogger(s.log))
	r.Use(observability.RequestMetricsMiddleware(ServiceName))
	r.Use(cors.New(cors.Config{
		AllowOrigins: normalizeOrigins(cfg.CorsOrigins),
		AllowMethods: []string{"GET", "POST"},
		AllowHeaders: []string{"Origin", "Content-Type"},
		MaxAge:       12 * time.Hour,
	}))
	_ = r.SetTrustedProxies([]string{"127.0.0.1", "::1"})
	s.router = r
	s.RegisterRoutes()
	return s
}

func (s *Server) HTTPRouter() *gin.Engine {
	return s.router
}

// Serve listens on Addr until ctx is done, then drains in-flight requests.
func (s *Server) Serve(ctx context.Context) error {
	timeout := s.engine.Config().ReadTimeout()
	srv := &http.Server{
		Addr:              s.Addr,
		Handler:           s.router,
		ReadTimeout:       timeout,
		ReadHeaderTimeout: timeout,
		WriteTimeout:      2 * timeout,
	}
	errCh := make(chan error, 1)
	go func() {
		s.log.Info().Str("addr", s.Addr).Str("version", Version).Msg("listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	s.log.Info().Msg("server stopped")
	return nil
}

func normalizeOrigins(origins []string) []string {
	if len(origins) == 0 {
		return []string{"http://localhost:3000"}
	}
	return origins
}
