package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"
	"time"

	"simhockey/youtube-updater/internal/client"
	"simhockey/youtube-updater/internal/config"
	"simhockey/youtube-updater/internal/logging"
	"simhockey/youtube-updater/internal/metrics"
	"simhockey/youtube-updater/internal/repository"
	"simhockey/youtube-updater/internal/scheduler"
	"simhockey/youtube-updater/internal/updater"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

// app holds everything a command needs for one invocation
type app struct {
	cfg    *config.Config
	logger zerolog.Logger
	db     *repository.Database

	closers []io.Closer
}

func newRootCmd(out io.Writer) *cobra.Command {
	var envFile string

	root := &cobra.Command{
		Use:           "updater",
		Short:         "Store the latest league livestream videos",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runUpdate(cmd.Context(), envFile, out)
		},
	}
	root.PersistentFlags().StringVar(&envFile, "env-file", config.DefaultEnvFile, "key=value file to read configuration from")

	root.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "Print every row of the youtube_data table",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runList(cmd.Context(), envFile, out)
		},
	})

	return root
}

// setup loads configuration, creates the logger and connects to the database
func setup(ctx context.Context, envFile string) (*app, error) {
	cfg, err := config.Load(envFile)
	if err != nil {
		return nil, err
	}

	logger, logFile, err := logging.New(logging.Options{
		File:    cfg.LogFile,
		Level:   cfg.LogLevel,
		Debug:   cfg.Debug,
		Console: cfg.IsDevelopment(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}
	a := &app{cfg: cfg, logger: logger, closers: []io.Closer{logFile}}

	logger.Info().Str("env_file", cfg.EnvFile).Msg("imported config file")
	for _, league := range cfg.LegacyChannelFallbacks() {
		logger.Warn().
			Str("league", league.String()).
			Msg("No channel id configured, falling back to the SMJHL channel")
	}

	db, err := repository.NewDatabase(ctx, repository.Config{
		Driver:   cfg.DatabaseDriver,
		Host:     cfg.DatabaseHost,
		Port:     cfg.DatabasePort,
		User:     cfg.DatabaseUser,
		Password: cfg.DatabasePassword,
		Database: cfg.DatabaseName,
	}, logger)
	if err != nil {
		logger.Error().Err(err).Str("addr", cfg.DatabaseAddr()).Msg("Failed to connect to database")
		a.close()
		return nil, err
	}
	a.db = db
	a.closers = append([]io.Closer{db}, a.closers...)

	return a, nil
}

func (a *app) close() {
	for _, c := range a.closers {
		c.Close()
	}
}

func runUpdate(ctx context.Context, envFile string, out io.Writer) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := setup(ctx, envFile)
	if err != nil {
		return err
	}
	defer a.close()

	yt := client.NewClient(client.Config{
		BaseURL:  a.cfg.YouTubeBaseURL,
		APIKey:   a.cfg.YouTubeAPIKey,
		Referer:  a.cfg.YouTubeReferer,
		Timeout:  a.cfg.YouTubeTimeout,
		Channels: a.cfg.ChannelIDs(),
	}, a.logger)
	u := updater.New(yt, a.db.Livestreams, a.logger, out)

	if a.cfg.IsScheduled() {
		return runScheduled(ctx, a, u)
	}

	runErr := u.Run(ctx)

	if a.cfg.PushgatewayURL != "" {
		pushCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := metrics.Push(pushCtx, a.cfg.PushgatewayURL); err != nil {
			a.logger.Warn().Err(err).Msg("Failed to push metrics")
		}
	}

	return runErr
}

// runScheduled repeats the update until the process is signalled
func runScheduled(ctx context.Context, a *app, u *updater.Updater) error {
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", a.cfg.MetricsPort),
		Handler:           newRouter(a.db),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		a.logger.Info().Int("port", a.cfg.MetricsPort).Msg("Starting metrics server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.logger.Error().Err(err).Msg("Metrics server failed")
		}
	}()

	sched := scheduler.NewScheduler(a.cfg.Schedule, u, true, a.logger)
	if err := sched.Start(ctx); err != nil {
		return err
	}

	<-ctx.Done()
	a.logger.Info().Msg("Received shutdown signal, gracefully shutting down...")
	sched.Stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// healthChecker is satisfied by *repository.Database
type healthChecker interface {
	Health(ctx context.Context) error
}

func newRouter(db healthChecker) http.Handler {
	r := chi.NewRouter()
	r.Handle("/metrics", promhttp.Handler())
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if err := db.Health(r.Context()); err != nil {
			w.WriteHeader(http.StatusServiceUnavailable)
			w.Write([]byte(`{"status":"unhealthy"}`))
			return
		}
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"healthy"}`))
	})
	return r
}

func runList(ctx context.Context, envFile string, out io.Writer) error {
	if ctx == nil {
		ctx = context.Background()
	}

	a, err := setup(ctx, envFile)
	if err != nil {
		return err
	}
	defer a.close()

	rows, err := a.db.Livestreams.SelectAll(ctx)
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tLEAGUE\tVIDEO ID\tIS LIVE")
	for _, row := range rows {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", row.ID, row.League, row.VideoID, row.IsLive)
	}
	return tw.Flush()
}
