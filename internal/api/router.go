package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/savegress/taskflow/internal/config"
	"github.com/savegress/taskflow/internal/jobs"
	"github.com/savegress/taskflow/internal/pages"
)

// Server represents the API server
type Server struct {
	config   *config.Config
	router   chi.Router
	handlers *Handlers
	pages    *pages.Service
}

// NewServer creates a new API server
func NewServer(cfg *config.Config, engine *jobs.Engine, pg *pages.Service) *Server {
	s := &Server{
		config:   cfg,
		router:   chi.NewRouter(),
		handlers: NewHandlers(engine),
		pages:    pg,
	}

	s.setupMiddleware()
	s.setupRoutes()

	return s
}

func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(middleware.Logger)
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.Compress(5))

	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "PATCH"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))
}

func (s *Server) setupRoutes() {
	s.router.Get("/health", s.handlers.HealthCheck)

	s.router.Route("/api/v1/taskflow", func(r chi.Router) {
		// Jobs
		r.Route("/jobs", func(r chi.Router) {
			r.Get("/", s.handlers.ListJobs)
			r.Post("/", s.handlers.SubmitJob)
			r.Get("/{id}", s.handlers.GetJob)
		})

		// Stats
		r.Get("/stats", s.handlers.GetStats)
	})

	// Demo pages, rendered on pool workers
	s.router.Get("/", s.pages.Home)
	s.router.Get("/sleep", s.pages.Sleep)
	s.router.NotFound(s.pages.NotFound)
}

// Router returns the chi router
func (s *Server) Router() http.Handler {
	return s.router
}
