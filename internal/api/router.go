package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/KeyzarRasya/lativa/internal/api/handlers/http/admin"
	"github.com/KeyzarRasya/lativa/internal/api/handlers/http/public"
	"github.com/KeyzarRasya/lativa/internal/api/handlers/http/system"
	"github.com/KeyzarRasya/lativa/internal/config"
	"github.com/KeyzarRasya/lativa/internal/middleware"
	"github.com/KeyzarRasya/lativa/internal/service"
)

type Server struct {
	logger *slog.Logger
	router *chi.Mux
	cfg    config.Config
}

func NewServer(cfg *config.Config, logger *slog.Logger, svc *service.Service, videoChecker public.VideoChecker) *Server {
	adminHandler := admin.NewHandler(logger, svc.Incidents, svc.Lifecycle)
	publicHandler := public.NewHandler(logger, svc, videoChecker)
	systemHandler := system.NewHandler(logger)

	r := InitRouter(cfg, svc, adminHandler, publicHandler, systemHandler, logger)

	return &Server{
		logger: logger,
		router: r,
		cfg:    *cfg,
	}
}

func InitRouter(
	cfg *config.Config,
	svc *service.Service,
	adminHandler *admin.Handler,
	publicHandler *public.Handler,
	systemHandler *system.Handler,
	logger *slog.Logger,
) *chi.Mux {
	r := chi.NewMux()

	r.Use(chimw.RequestID)
	r.Use(chimw.Recoverer)
	r.Use(chimw.Logger)
	r.Use(middleware.Session(svc.Auth))

	r.Route("/api/v1", func(api chi.Router) {
		// PUBLIC
		api.Route("/incidents", func(ir chi.Router) {
			ir.Get("/", publicHandler.IncidentList)
			ir.Get("/area", publicHandler.IncidentsByArea)
			ir.Get("/watch", publicHandler.IncidentWatch)
			ir.Get("/{id}", publicHandler.IncidentGet)
		})
		api.Get("/stats", publicHandler.Stats)

		api.Route("/reports", func(rr chi.Router) {
			rr.Use(middleware.Limit(5, 10, 10*time.Minute, logger))
			rr.Post("/", publicHandler.ReportSubmit)
			rr.Post("/evidence", publicHandler.ReportEvidenceCheck)
		})

		api.Route("/auth", func(ar chi.Router) {
			ar.Use(middleware.Limit(5, 10, 10*time.Minute, logger))
			ar.Post("/register", publicHandler.AuthRegister)
			ar.Post("/login", publicHandler.AuthLogin)
			ar.Post("/logout", publicHandler.AuthLogout)
			ar.Get("/me", publicHandler.AuthMe)
		})

		// ADMIN
		api.Route("/admin", func(ar chi.Router) {
			ar.Use(middleware.RequireAdmin(logger))
			ar.Use(middleware.Limit(10, 20, 10*time.Minute, logger))

			ar.Route("/incidents/{id}", func(rr chi.Router) {
				rr.Patch("/", adminHandler.IncidentUpdate)
				rr.Put("/status", adminHandler.IncidentTransition)
				rr.Put("/zone", adminHandler.IncidentReassignZone)
				rr.Delete("/", adminHandler.IncidentDelete)
			})
		})

		// SYSTEM
		api.Get("/health", systemHandler.SystemHealth)
	})

	return r
}

func (s *Server) Run(ctx context.Context) error {
	port := s.cfg.Http.Port
	if !strings.HasPrefix(port, ":") {
		port = ":" + port
	}

	srv := &http.Server{
		Addr:         port,
		Handler:      s.router,
		ReadTimeout:  s.cfg.Http.ReadTimeout,
		WriteTimeout: s.cfg.Http.WriteTimeout,
		IdleTimeout:  30 * time.Second,
	}

	errChan := make(chan error, 1)

	go func() {
		s.logger.Info("Starting HTTP server",
			slog.String("addr", srv.Addr),
			slog.Duration("read_timeout", s.cfg.Http.ReadTimeout),
			slog.Duration("write_timeout", s.cfg.Http.WriteTimeout),
		)

		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- fmt.Errorf("ListenAndServe error: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		s.logger.Info("Shutting down HTTP server", slog.String("reason", ctx.Err().Error()))

		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.Http.ShutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.logger.Error("Server shutdown failed", slog.Any("error", err))
			return err
		}
		return nil

	case err := <-errChan:
		return err
	}
}
