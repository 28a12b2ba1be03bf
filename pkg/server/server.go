package server

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/tutorapp/tutorapp/pkg/handlers/apierr"
	handlers "github.com/tutorapp/tutorapp/pkg/handlers/revenue"
	"github.com/tutorapp/tutorapp/pkg/services/auth"
	"github.com/tutorapp/tutorapp/pkg/services/report"
	"github.com/tutorapp/tutorapp/pkg/services/revenue"
	tutorappmiddleware "github.com/tutorapp/tutorapp/pkg/server/middleware"
	"github.com/tutorapp/tutorapp/pkg/validation"
)

const defaultShutdownTimeout = 10 * time.Second

type WebAPI struct {
	router          http.Handler
	logger          *zerolog.Logger
	server          *http.Server
	shutdownTimeout time.Duration
}

type Dependencies struct {
	Revenue    revenue.Manager
	Renderer   report.Renderer
	Authorizer auth.Authorizer
	Logger     zerolog.Logger
}

type RateLimit struct {
	PerMinute int
	Burst     int
}

type Config struct {
	Addr            string
	ShutdownTimeout time.Duration
	Location        *time.Location
	// ReportRateLimit throttles document generation per client IP.
	ReportRateLimit RateLimit
	Dependencies    Dependencies
}

func ConfigureRouter(config Config) http.Handler {
	logger := config.Dependencies.Logger
	revenueHandler := handlers.NewHandler(
		config.Dependencies.Revenue,
		config.Dependencies.Renderer,
		validation.New(),
		handlers.Options{Location: config.Location},
	)
	limiter := tutorappmiddleware.NewRateLimiter(config.ReportRateLimit.PerMinute, config.ReportRateLimit.Burst)

	router := chi.NewRouter()

	router.Use(middleware.RequestID)
	router.Use(tutorappmiddleware.Logger(&logger))
	router.Use(middleware.Recoverer)

	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		apierr.WriteJSON(w, r, http.StatusOK, map[string]string{"status": "ok"})
	})

	router.Group(func(r chi.Router) {
		r.Use(tutorappmiddleware.Authenticate(config.Dependencies.Authorizer))

		r.Get("/revenue", revenueHandler.GetRevenue)
		r.With(limiter.Middleware).Post("/revenue/generate-pdf", revenueHandler.GeneratePDF)
	})

	router.NotFound(func(w http.ResponseWriter, r *http.Request) {
		apierr.Write(w, r, http.StatusNotFound, "not found")
	})
	router.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		apierr.Write(w, r, http.StatusMethodNotAllowed, "method not allowed")
	})

	return router
}

func NewWebAPI(config Config) *WebAPI {
	router := ConfigureRouter(config)
	logger := config.Dependencies.Logger

	timeout := config.ShutdownTimeout
	if timeout <= 0 {
		timeout = defaultShutdownTimeout
	}

	return &WebAPI{
		router: router,
		logger: &logger,
		server: &http.Server{
			Addr:              config.Addr,
			Handler:           router,
			ReadHeaderTimeout: 10 * time.Second,
		},
		shutdownTimeout: timeout,
	}
}

func (w *WebAPI) Start() error {
	serverErrors := make(chan error, 1)
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	go func() {
		w.logger.Info().Str("addr", w.server.Addr).Msg("starting server")
		serverErrors <- w.server.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		return err
	case <-shutdown:
		w.logger.Info().Msg("shutdown initiated")

		// Give outstanding requests a deadline for completion.
		ctx, cancel := context.WithTimeout(context.Background(), w.shutdownTimeout)
		defer cancel()

		err := w.server.Shutdown(ctx)
		if err != nil {
			w.logger.Error().Err(err).Msg("graceful shutdown failed")
			err = w.server.Close()
		}

		if err != nil {
			return err
		}
	}

	return nil
}
