package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/secmon-lab/dualscope/pkg/usecase"
	"github.com/secmon-lab/dualscope/pkg/utils/logging"
)

type Server struct {
	router         *chi.Mux
	uc             *usecase.UseCases
	metricsHandler http.Handler
	requestTimeout time.Duration
}

type Options func(*Server)

// WithMetricsHandler serves prometheus metrics at /metrics
func WithMetricsHandler(h http.Handler) Options {
	return func(s *Server) {
		s.metricsHandler = h
	}
}

// WithRequestTimeout bounds each API request, including its outbound LLM calls
func WithRequestTimeout(d time.Duration) Options {
	return func(s *Server) {
		s.requestTimeout = d
	}
}

func New(uc *usecase.UseCases, opts ...Options) *Server {
	r := chi.NewRouter()

	s := &Server{
		router: r,
		uc:     uc,
	}
	for _, opt := range opts {
		opt(s)
	}

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(accessLogger)
	r.Use(middleware.Recoverer)

	r.Get("/health", healthHandler)
	if s.metricsHandler != nil {
		r.Method(http.MethodGet, "/metrics", s.metricsHandler)
	}

	r.Route("/api", func(r chi.Router) {
		if s.requestTimeout > 0 {
			r.Use(middleware.Timeout(s.requestTimeout))
		}

		r.Post("/assess", s.assessHandler)
		r.Post("/fetch-url", s.fetchURLHandler)
		r.Get("/axes", s.axesHandler)

		r.Get("/history", s.listHistoryHandler)
		r.Get("/history/{id}", s.getHistoryHandler)

		r.Get("/dashboard/stats", s.dashboardStatsHandler)
		r.Get("/dashboard/assessments", s.dashboardAssessmentsHandler)
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
