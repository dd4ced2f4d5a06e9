package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"

	"github.com/fyrsmithlabs/holidaze/internal/config"
	"github.com/fyrsmithlabs/holidaze/internal/itinerary"
	"github.com/fyrsmithlabs/holidaze/internal/metrics"
	"github.com/fyrsmithlabs/holidaze/internal/pipeline"
	"github.com/fyrsmithlabs/holidaze/internal/privacy"
	"github.com/fyrsmithlabs/holidaze/internal/render"
	"github.com/fyrsmithlabs/holidaze/internal/store"
	"github.com/fyrsmithlabs/holidaze/internal/transcript"
)

// openStore opens the configured itinerary store.
func (a *app) openStore(ctx context.Context) (store.Store, error) {
	switch a.cfg.Store.Backend {
	case config.BackendRedis:
		st, err := store.NewRedisStore(ctx, a.cfg.Store.Redis)
		if err != nil {
			return nil, fmt.Errorf("failed to open redis store: %w", err)
		}
		a.logger.Debug(ctx, "using redis store", zap.Stringer("store", st))
		return st, nil
	default:
		st, err := store.NewFileStore(a.cfg.Store.Dir)
		if err != nil {
			return nil, fmt.Errorf("failed to open file store: %w", err)
		}
		a.logger.Debug(ctx, "using file store", zap.String("dir", a.cfg.Store.Dir))
		return st, nil
	}
}

// newPipeline wires a pipeline service against st, which may be nil.
func (a *app) newPipeline(st store.Store) (*pipeline.Service, error) {
	engine, err := a.cfg.Extraction.Engine()
	if err != nil {
		return nil, err
	}

	scrubber, err := privacy.New(&a.cfg.Privacy)
	if err != nil {
		return nil, fmt.Errorf("failed to create scrubber: %w", err)
	}

	reader := transcript.NewReader(
		transcript.NewParser(a.cfg.Transcript.SystemIndicators...),
		a.logger.Underlying(),
	)

	return pipeline.New(reader, scrubber, st, metrics.NewMetrics(), a.logger, pipeline.Config{
		Engine:        engine,
		SystemSenders: a.cfg.Transcript.SystemSenders,
	})
}

// transcriptPath returns the transcript named on the command line or the
// configured default.
func (a *app) transcriptPath(args []string) (string, error) {
	if len(args) > 0 && args[0] != "" {
		return args[0], nil
	}
	if a.cfg.Transcript.Path != "" {
		return a.cfg.Transcript.Path, nil
	}
	return "", fmt.Errorf("no transcript given and transcript.path is not configured")
}

// loadItinerary resolves source as a JSON file when it names one, and as a
// store key otherwise. An empty source selects the configured trip key.
func (a *app) loadItinerary(ctx context.Context, source string) (*itinerary.Itinerary, error) {
	if source == "" {
		source = a.cfg.Trip.Key
	}
	if isFile(source) {
		return render.LoadItinerary(source)
	}

	st, err := a.openStore(ctx)
	if err != nil {
		return nil, err
	}
	defer st.Close()

	it, err := st.Load(ctx, source)
	if err != nil {
		return nil, fmt.Errorf("loading itinerary %q: %w", source, err)
	}
	return it, nil
}

func isFile(source string) bool {
	if strings.HasSuffix(source, ".json") {
		return true
	}
	info, err := os.Stat(source)
	return err == nil && !info.IsDir()
}
