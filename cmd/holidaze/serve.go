package main

import (
	"context"
	"errors"
	"fmt"
	nethttp "net/http"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/fyrsmithlabs/holidaze/internal/http"
	"github.com/fyrsmithlabs/holidaze/internal/logging"
	"github.com/fyrsmithlabs/holidaze/internal/pipeline"
	"github.com/fyrsmithlabs/holidaze/internal/store"
	"github.com/fyrsmithlabs/holidaze/internal/watch"
)

type serveOptions struct {
	host       string
	port       int
	watch      bool
	transcript string
}

func newServeCmd(a *app) *cobra.Command {
	opts := &serveOptions{}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the itinerary and trip map over HTTP",
		Long: `Start the web front end. The configured trip is shown at /, the trip map
at /map and stored itineraries under /api/v1/itineraries.

With --watch the transcript is re-extracted whenever the export file
changes, so dropping a fresh export next to the old one updates the page.

Examples:
  holidaze serve
  holidaze serve --port 9000 --watch --transcript chat.txt`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), a, opts)
		},
	}

	cmd.Flags().StringVar(&opts.host, "host", "", "listen host (default server.host)")
	cmd.Flags().IntVarP(&opts.port, "port", "p", 0, "listen port (default server.port)")
	cmd.Flags().BoolVarP(&opts.watch, "watch", "w", false, "re-extract when the transcript changes")
	cmd.Flags().StringVar(&opts.transcript, "transcript", "", "transcript to watch (default transcript.path)")
	return cmd
}

func runServe(ctx context.Context, a *app, opts *serveOptions) error {
	cfg := a.cfg
	logger := a.logger

	st, err := a.openStore(ctx)
	if err != nil {
		return err
	}
	defer st.Close()

	if opts.host != "" {
		cfg.Server.Host = opts.host
	}
	if opts.port != 0 {
		cfg.Server.Port = opts.port
	}

	srv, err := http.NewServer(st, logger.Underlying(), &http.Config{
		Host:        cfg.Server.Host,
		Port:        cfg.Server.Port,
		DefaultKey:  cfg.Trip.Key,
		MapDir:      cfg.MapData.Dir,
		MapTitle:    cfg.MapData.Title,
		RateLimit:   cfg.Server.RateLimit,
		RateBurst:   cfg.Server.RateBurst,
		CORSOrigins: cfg.Server.CORSOrigins,
	})
	if err != nil {
		return fmt.Errorf("failed to create http server: %w", err)
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	if opts.watch {
		path, err := a.transcriptPath([]string{opts.transcript})
		if err != nil {
			return err
		}
		if err := startWatch(ctx, a, st, path); err != nil {
			return err
		}
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, nethttp.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down: %w", err)
	}
	logger.Info(ctx, "server shutdown complete")
	return nil
}

// startWatch extracts path once and then again on every settled change.
func startWatch(ctx context.Context, a *app, st store.Store, path string) error {
	svc, err := a.newPipeline(st)
	if err != nil {
		return err
	}

	runOpts := pipeline.Options{
		Transcript:    path,
		Title:         a.cfg.Trip.Title,
		ConfirmedOnly: a.cfg.Trip.ConfirmedOnly,
		Key:           a.cfg.Trip.Key,
	}
	extract := func(ctx context.Context, ev watch.Event) error {
		res, err := svc.Run(ctx, runOpts)
		if err != nil {
			return err
		}
		a.logger.Info(ctx, "itinerary refreshed",
			zap.String("key", res.Key),
			zap.Int("items", len(res.Itinerary.Items)),
			zap.Time("changed_at", ev.Timestamp))
		return nil
	}

	if err := extract(ctx, watch.Event{Path: path}); err != nil {
		a.logger.Warn(ctx, "initial extraction failed", zap.Error(err))
	}

	w, err := watch.NewWatcher(path, a.cfg.Server.WatchDebounce, a.logger.Underlying())
	if err != nil {
		return err
	}
	if err := w.Start(ctx); err != nil {
		w.Stop()
		return err
	}

	go func() {
		defer w.Stop()
		w.Run(logging.WithTranscript(ctx, path), extract)
	}()
	return nil
}
