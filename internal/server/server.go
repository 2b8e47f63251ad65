package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog"

	"github.com/aristath/trade-journal/internal/config"
	"github.com/aristath/trade-journal/internal/database"
	"github.com/aristath/trade-journal/internal/modules/equity"
	"github.com/aristath/trade-journal/internal/modules/export"
	"github.com/aristath/trade-journal/internal/modules/fees"
	"github.com/aristath/trade-journal/internal/modules/journal"
	"github.com/aristath/trade-journal/internal/modules/metrics"
	"github.com/aristath/trade-journal/internal/modules/positions"
)

// Config holds server configuration
type Config struct {
	Port    int
	Log     zerolog.Logger
	DB      *database.DB
	Config  *config.Config
	DevMode bool
}

// Server represents the HTTP server
type Server struct {
	router *chi.Mux
	server *http.Server
	log    zerolog.Logger
	db     *database.DB
	cfg    *config.Config
}

// New creates a new HTTP server
func New(cfg Config) *Server {
	s := &Server{
		router: chi.NewRouter(),
		log:    cfg.Log.With().Str("component", "server").Logger(),
		db:     cfg.DB,
		cfg:    cfg.Config,
	}

	s.setupMiddleware(cfg.DevMode)
	s.setupRoutes()

	s.server = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return s
}

// setupMiddleware configures middleware
func (s *Server) setupMiddleware(devMode bool) {
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(s.loggingMiddleware)
	s.router.Use(middleware.Timeout(60 * time.Second))

	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	if !devMode {
		s.router.Use(middleware.Compress(5))
	}
}

// setupRoutes wires module repositories, services and handlers
func (s *Server) setupRoutes() {
	conn := s.db.Conn()

	journalRepo := journal.NewRepository(conn, s.log)
	feesRepo := fees.NewRepository(conn, s.log)
	equityRepo := equity.NewRepository(conn, s.log)

	positionsService := positions.NewService(conn, journalRepo, s.log)
	metricsService := metrics.NewService(journalRepo, feesRepo, equityRepo, s.log)

	journalHandler := journal.NewHandler(journalRepo, s.cfg.DefaultAccountBalance, s.log)
	positionsHandler := positions.NewHandler(positionsService, s.log)
	feesHandler := fees.NewHandler(feesRepo, s.log)
	equityHandler := equity.NewHandler(equityRepo, s.log)
	metricsHandler := metrics.NewHandler(metricsService, s.log)
	exportHandler := export.NewHandler(journalRepo, feesRepo, metricsService, s.log)

	// Health check
	s.router.Get("/health", s.handleHealth)

	// API routes
	s.router.Route("/api", func(r chi.Router) {
		r.Route("/trades", func(r chi.Router) {
			r.Post("/", journalHandler.HandleAddTrade)
			r.Get("/{userID}", journalHandler.HandleGetTrades)
			r.Put("/{id}", journalHandler.HandleUpdateTrade)
			r.Delete("/{id}", journalHandler.HandleDeleteTrade)
			r.Post("/{userID}/exit", positionsHandler.HandleExitTrade)
		})

		r.Route("/fees", func(r chi.Router) {
			r.Get("/{userID}", feesHandler.HandleGetSchedule)
			r.Post("/", feesHandler.HandleSaveSchedule)
		})

		r.Route("/monthly-returns", func(r chi.Router) {
			r.Get("/{userID}", equityHandler.HandleListSnapshots)
			r.Post("/", equityHandler.HandleSaveSnapshot)
			r.Delete("/{id}", equityHandler.HandleDeleteSnapshot)
		})

		r.Route("/metrics", func(r chi.Router) {
			r.Get("/{userID}", metricsHandler.HandleGetMetrics)
		})

		r.Route("/export", func(r chi.Router) {
			r.Get("/{userID}", exportHandler.HandleExportCSV)
		})
	})
}

// Start starts the HTTP server
func (s *Server) Start() error {
	s.log.Info().Int("port", s.cfg.Port).Msg("Starting HTTP server")
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	s.log.Info().Msg("Shutting down HTTP server")
	return s.server.Shutdown(ctx)
}

// loggingMiddleware logs HTTP requests
func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		s.log.Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Int("bytes", ww.BytesWritten()).
			Dur("duration_ms", time.Since(start)).
			Str("request_id", middleware.GetReqID(r.Context())).
			Msg("HTTP request")
	})
}
