package app

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/markdave123-py/joba/internal/api/handlers"
	middleware "github.com/markdave123-py/joba/internal/api/middlewares"
	"github.com/markdave123-py/joba/internal/config"
	"github.com/markdave123-py/joba/internal/services"
)

// Deps bundles the services the router needs.
type Deps struct {
	Auth        *services.AuthService
	Resume      *services.ResumeService
	CoverLetter *services.CoverLetterService
	JobQuery    *services.JobQueryService
	JobFlow     *services.JobFlowService
	Health      *services.HealthService
}

// Server wraps the HTTP server instance and its handlers.
type Server struct {
	httpServer *http.Server
	logger     *zap.Logger
}

// NewServer builds and wires all routes.
func NewServer(cfg *config.Config, deps Deps, logger *zap.Logger) *Server {
	authHandler := handlers.NewAuthHandler(deps.Auth, logger)
	resumeHandler := handlers.NewResumeHandler(deps.Resume, logger)
	letterHandler := handlers.NewCoverLetterHandler(deps.CoverLetter, logger)
	queryHandler := handlers.NewJobQueryHandler(deps.JobQuery, logger)
	flowHandler := handlers.NewJobFlowHandler(deps.JobFlow, logger)
	healthHandler := handlers.NewHealthHandler(deps.Health)

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(middleware.RequestLogger(logger))
	r.Use(middleware.Metrics)
	r.Use(chimw.Recoverer)
	r.Use(chimw.Timeout(5 * time.Minute))

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:5173", "http://localhost:3000"},
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	}))

	r.Get("/health", healthHandler.Check)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/auth", func(ar chi.Router) {
		ar.Post("/signup", authHandler.Signup)
		ar.Post("/signin", authHandler.Signin)
		ar.Post("/refresh", authHandler.Refresh)
		ar.Get("/check-availability", authHandler.CheckAvailability)

		ar.Group(func(protected chi.Router) {
			protected.Use(middleware.Auth(deps.Auth))
			protected.Get("/me", authHandler.Me)
			protected.Patch("/onboarded", authHandler.SetOnboarded)
		})
	})

	r.Group(func(protected chi.Router) {
		protected.Use(middleware.Auth(deps.Auth))

		protected.Route("/resumes", func(rr chi.Router) {
			rr.Post("/upload", resumeHandler.Upload)
			rr.Get("/list", resumeHandler.List)
			rr.Get("/{resumeID}", resumeHandler.Get)
			rr.Get("/{resumeID}/download", resumeHandler.Download)
			rr.Patch("/{resumeID}/status", resumeHandler.UpdateStatus)
			rr.Post("/{resumeID}/score", resumeHandler.Score)
			rr.Delete("/{resumeID}", resumeHandler.Delete)
		})

		protected.Route("/cover-letters", func(cr chi.Router) {
			cr.Post("/", letterHandler.Create)
			cr.Get("/list", letterHandler.List)
			cr.Get("/search", letterHandler.Search)
			cr.Get("/active", letterHandler.GetActive)
			cr.Post("/generate", letterHandler.GenerateSection)
			cr.Post("/render", letterHandler.Render)
			cr.Get("/{coverLetterID}", letterHandler.Get)
			cr.Patch("/{coverLetterID}", letterHandler.Update)
			cr.Patch("/{coverLetterID}/status", letterHandler.UpdateStatus)
			cr.Delete("/{coverLetterID}", letterHandler.Delete)
		})

		protected.Route("/job-queries", func(qr chi.Router) {
			qr.Post("/", queryHandler.Create)
			qr.Get("/list", queryHandler.List)
			qr.Post("/generate", queryHandler.GenerateKeywords)
			qr.Get("/{jobQueryID}", queryHandler.Get)
			qr.Patch("/{jobQueryID}", queryHandler.Update)
			qr.Patch("/{jobQueryID}/status", queryHandler.UpdateStatus)
			qr.Delete("/{jobQueryID}", queryHandler.Delete)
		})

		protected.Route("/job-flows", func(fr chi.Router) {
			fr.Post("/", flowHandler.Create)
			fr.Get("/list", flowHandler.List)
			fr.Get("/{jobFlowID}", flowHandler.Get)
			fr.Patch("/{jobFlowID}/status", flowHandler.UpdateStatus)
			fr.Delete("/{jobFlowID}", flowHandler.Delete)
		})
	})

	httpSrv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	return &Server{httpServer: httpSrv, logger: logger}
}

// Start runs the HTTP server until it is shut down.
func (s *Server) Start() error {
	s.logger.Info("http server listening", zap.String("addr", s.httpServer.Addr))
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down http server")
	return s.httpServer.Shutdown(ctx)
}
