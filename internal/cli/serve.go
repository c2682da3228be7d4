package cli

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/raoulx24/ghe-archiver/internal/config"
	"github.com/raoulx24/ghe-archiver/internal/scheduler"
	"github.com/raoulx24/ghe-archiver/internal/watcher"
	"github.com/raoulx24/ghe-archiver/internal/worker"
)

const shutdownTimeout = 5 * time.Second

func newServeCmd(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run archive and prune on their cron schedules",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			// Graceful shutdown
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return serve(ctx, opts)
		},
	}
}

func serve(ctx context.Context, opts *RootOptions) error {
	cfg := opts.cfg
	log := opts.log

	// Mailbox for scheduled jobs
	mb := worker.NewMailbox()
	a := newApp(opts, mb)

	sched := scheduler.New(cfg.Schedule, mb, log)
	if err := sched.Start(ctx); err != nil {
		return err
	}
	defer sched.Stop()

	var watch *watcher.Watcher
	watch = watcher.New(opts.ConfigPath, cfg.ConfigReload, log, func(next *config.Config) {
		a.apply(next)
		if err := sched.Reload(next.Schedule); err != nil {
			log.Error("schedule reload failed", "error", err)
		}
		watch.UpdateConfig(next.ConfigReload)
	})

	// Start worker loop
	workerDone := make(chan struct{})
	go func() {
		a.worker.Start(ctx)
		close(workerDone)
	}()

	if cfg.ConfigReload.Enabled {
		go func() {
			if err := watch.Start(ctx); err != nil {
				log.Error("config watcher stopped", "error", err)
			}
		}()
	}

	// Hot reload on SIGHUP
	hup := make(chan os.Signal, 1)
	signal.Notify(hup, syscall.SIGHUP)
	defer signal.Stop(hup)
	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case <-hup:
				_ = watch.Reload()
			}
		}
	}()

	var srv *http.Server
	if cfg.Metrics.Listen != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", a.metrics.Handler())
		srv = &http.Server{Addr: cfg.Metrics.Listen, Handler: mux, ReadHeaderTimeout: 10 * time.Second}
		go func() {
			log.Info("serving metrics", "listen", cfg.Metrics.Listen)
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Error("metrics server failed", "error", err)
			}
		}()
	}

	log.Info("serving", "archive", cfg.Schedule.Archive, "prune", cfg.Schedule.Prune)
	for kind, next := range sched.Next() {
		log.Info("next run", "kind", string(kind), "at", next)
	}
	<-ctx.Done()
	log.Info("shutting down...")

	if srv != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}
	<-workerDone
	log.Info("exit complete")
	return nil
}
