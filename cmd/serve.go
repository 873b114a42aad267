package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "plant_buddy/docs"
	"plant_buddy/internal/handlers"
	"plant_buddy/internal/logger"
	"plant_buddy/internal/scheduler"
	"plant_buddy/internal/server"
	"plant_buddy/internal/service"

	"github.com/spf13/cobra"
	"go.uber.org/zap/zapcore"
)

const (
	defaultPort     = "4000"
	shutdownTimeout = 10 * time.Second
	// ceilings on one pass; passTimeout lowers them to the task interval
	reminderPassTimeout = 5 * time.Minute
	weatherPassTimeout  = 10 * time.Minute
)

func newServeCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API together with the reminder and weather schedulers",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(*configPath)
		},
	}
}

func runServe(configPath string) error {
	a, err := newApp(configPath)
	if err != nil {
		return err
	}
	defer a.close()

	// context for background goroutines
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sched := newScheduler(a)
	if err := sched.Start(ctx); err != nil {
		return err
	}

	apiHandler := handlers.NewHandler(a.services, a.log.Named("http"), handlers.Options{
		UploadsDir: a.cfg.Uploads.Dir,
		Metrics:    a.metrics.Handler(),
	})
	srv := server.New(server.Options{
		CORSOrigins: a.cfg.CORSOrigins,
		AccessLog:   a.log.Named("access").Writer(zapcore.InfoLevel),
	})
	runHTTPServer(srv, a.cfg.Port, apiHandler, a.log)

	waitForShutdown(cancel, sched, srv, a.log)
	return nil
}

// newScheduler registers the two periodic passes. The weather pass also runs
// once at startup so a fresh deployment gets alerts without waiting an hour.
func newScheduler(a *app) *scheduler.Scheduler {
	return scheduler.New(a.log.Named("scheduler"), a.metrics,
		scheduler.Task{
			Name:     service.ReminderJobName,
			Interval: a.cfg.Scheduler.ReminderInterval,
			Timeout:  passTimeout(a.cfg.Scheduler.ReminderInterval, reminderPassTimeout),
			Fn:       a.services.ReminderJob.Run,
		},
		scheduler.Task{
			Name:       service.WeatherJobName,
			Interval:   a.cfg.Scheduler.WeatherInterval,
			RunOnStart: true,
			Timeout:    passTimeout(a.cfg.Scheduler.WeatherInterval, weatherPassTimeout),
			Fn:         a.services.WeatherJob.Run,
		},
	)
}

// passTimeout bounds one pass by its task interval, capped at ceiling, so a
// pass never outlives the tick after it.
func passTimeout(interval, ceiling time.Duration) time.Duration {
	if interval > 0 && interval < ceiling {
		return interval
	}
	return ceiling
}

// runHTTPServer runs the HTTP server in a separate goroutine.
func runHTTPServer(srv *server.Server, port string, handler *handlers.Handler, log *logger.Logger) {
	go func() {
		if port == "" {
			port = defaultPort
		}
		log.Infow("http server listening", "port", port)
		if err := srv.Run(port, handler.InitRoutes()); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalw("error starting server", "err", err)
		}
	}()
}

// waitForShutdown listens for termination signals and performs graceful shutdown.
func waitForShutdown(cancel context.CancelFunc, sched *scheduler.Scheduler, srv *server.Server, log *logger.Logger) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Infow("shutting down server...")

	// stop background passes and wait for in-flight ones
	cancel()
	sched.Stop()

	// allow in-flight requests to complete
	ctx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Errorw("server forced to shutdown", "err", err)
	}
}
