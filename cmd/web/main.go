package main

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/tutorapp/tutorapp/pkg/server"
	"github.com/tutorapp/tutorapp/pkg/services/auth"
	"github.com/tutorapp/tutorapp/pkg/services/config"
	"github.com/tutorapp/tutorapp/pkg/services/report"
	"github.com/tutorapp/tutorapp/pkg/services/revenue"
	"github.com/tutorapp/tutorapp/pkg/store/sqldb"
	"github.com/tutorapp/tutorapp/pkg/store/sqldb/lesson"
)

var cfgPath string

func main() {
	var rootCmd = &cobra.Command{
		Use:   "web",
		Short: "Start the TutorApp revenue API",
		RunE:  runServer,
	}

	rootCmd.Flags().StringVarP(&cfgPath, "config", "c", "",
		"Path to the configuration file (TUTORAPP_* variables override it)")

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func newLogger(cfg config.LogConfig) zerolog.Logger {
	var out io.Writer = os.Stdout
	if cfg.Pretty {
		out = zerolog.ConsoleWriter{Out: os.Stdout}
	}
	logger := zerolog.New(out).With().Timestamp().Logger()

	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	return logger.Level(level)
}

func runServer(cmd *cobra.Command, _ []string) error {
	envErr := godotenv.Load()

	cfg, err := config.LoadConfig(cfgPath)
	if err != nil {
		return err
	}

	logger := newLogger(cfg.Log)
	ctx := logger.WithContext(cmd.Context())
	if envErr != nil && !errors.Is(envErr, os.ErrNotExist) {
		logger.Warn().Err(envErr).Msg("failed to load .env file")
	}

	loc, err := cfg.Revenue.Location()
	if err != nil {
		return err
	}

	db, err := sqldb.NewDB(sqldb.Settings{
		Driver:  cfg.Database.Driver,
		DSN:     cfg.Database.DSN,
		Migrate: cfg.Database.Migrate,
		Verbose: cfg.Database.Verbose,
	})
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}

	lessons, err := lesson.NewStore(db)
	if err != nil {
		return fmt.Errorf("failed to create lesson store: %w", err)
	}

	manager := revenue.NewManager(lessons, revenue.NewCalculator(cfg.Revenue.DefaultHourlyRate))
	if cfg.Cache.Enabled {
		c, err := newCache(ctx, cfg.Cache)
		if err != nil {
			return err
		}
		manager = revenue.NewCachedManager(manager, c, cfg.Cache.TTL)
		logger.Info().Str("backend", cfg.Cache.Backend).Dur("ttl", cfg.Cache.TTL).Msg("revenue cache enabled")
	}

	authorizer, err := auth.NewAuthorizer(cfg.Auth.JWTSecret, cfg.Auth.Issuer)
	if err != nil {
		return fmt.Errorf("failed to create authorizer (set auth.jwt_secret): %w", err)
	}

	logger.Info().
		Str("driver", cfg.Database.Driver).
		Str("timezone", loc.String()).
		Float64("default_hourly_rate", cfg.Revenue.DefaultHourlyRate).
		Msg("configuration loaded")

	api := server.NewWebAPI(server.Config{
		Addr:            cfg.Server.Addr(),
		ShutdownTimeout: cfg.Server.ShutdownTimeout,
		Location:        loc,
		ReportRateLimit: server.RateLimit{
			PerMinute: cfg.RateLimit.PDFPerMinute,
			Burst:     cfg.RateLimit.Burst,
		},
		Dependencies: server.Dependencies{
			Revenue:    manager,
			Renderer:   report.NewExporter(report.Options{Compress: cfg.Report.Compress}),
			Authorizer: authorizer,
			Logger:     logger,
		},
	})

	if err := api.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
