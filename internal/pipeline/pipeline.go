// Package pipeline runs a transcript through the extraction engine and
// hands the result to the privacy scrubber and the itinerary store.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/fyrsmithlabs/holidaze/internal/extraction"
	"github.com/fyrsmithlabs/holidaze/internal/itinerary"
	"github.com/fyrsmithlabs/holidaze/internal/logging"
	"github.com/fyrsmithlabs/holidaze/internal/metrics"
	"github.com/fyrsmithlabs/holidaze/internal/privacy"
	"github.com/fyrsmithlabs/holidaze/internal/store"
	"github.com/fyrsmithlabs/holidaze/internal/transcript"
)

const instrumentationName = "github.com/fyrsmithlabs/holidaze/internal/pipeline"

// Config holds the settings shared by every run.
type Config struct {
	Engine extraction.Config
	// SystemSenders are left out of the participant list.
	SystemSenders []string
}

// Options selects what one run reads and where it saves.
type Options struct {
	Transcript    string
	Title         string
	ConfirmedOnly bool
	// Key is the store key. An empty key, or a Service without a store,
	// skips persistence.
	Key string
}

// TranscriptCounts summarises the parsed transcript.
type TranscriptCounts struct {
	Messages int `json:"messages"`
	System   int `json:"system"`
	Skipped  int `json:"skipped"`
}

// Result is the outcome of one run.
type Result struct {
	RunID      string               `json:"run_id"`
	Key        string               `json:"key,omitempty"`
	Saved      bool                 `json:"saved"`
	Itinerary  *itinerary.Itinerary `json:"itinerary"`
	Transcript TranscriptCounts     `json:"transcript"`
	Stats      extraction.Stats     `json:"stats"`
	Privacy    privacy.Report       `json:"privacy"`
	Duration   time.Duration        `json:"duration"`
}

// Service wires the reader, engine, scrubber and store together.
type Service struct {
	reader   *transcript.Reader
	scrubber privacy.Scrubber
	store    store.Store
	metrics  *metrics.Metrics
	logger   *logging.Logger
	tracer   trace.Tracer
	cfg      Config
}

// New creates a service. st may be nil. A nil scrubber disables scrubbing
// and a nil logger discards output.
func New(reader *transcript.Reader, scrubber privacy.Scrubber, st store.Store, m *metrics.Metrics, logger *logging.Logger, cfg Config) (*Service, error) {
	if reader == nil {
		return nil, errors.New("transcript reader is required")
	}
	if err := cfg.Engine.Validate(); err != nil {
		return nil, fmt.Errorf("invalid engine config: %w", err)
	}
	if scrubber == nil {
		scrubber = privacy.NoopScrubber{}
	}
	if m == nil {
		m = metrics.NewMetrics()
	}
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Service{
		reader:   reader,
		scrubber: scrubber,
		store:    st,
		metrics:  m,
		logger:   logger.Named("pipeline"),
		tracer:   otel.Tracer(instrumentationName),
		cfg:      cfg,
	}, nil
}

// Run reads opts.Transcript, extracts and builds the itinerary, scrubs its
// evidence and saves it under opts.Key. A transcript with no travel items
// is a valid, empty result.
func (s *Service) Run(ctx context.Context, opts Options) (res *Result, err error) {
	start := time.Now()
	runID := uuid.NewString()
	ctx = logging.WithRunID(ctx, runID)
	ctx = logging.WithTranscript(ctx, opts.Transcript)

	ctx, span := s.tracer.Start(ctx, "pipeline.run")
	defer span.End()
	span.SetAttributes(
		attribute.String("run_id", runID),
		attribute.String("key", opts.Key),
		attribute.Bool("confirmed_only", opts.ConfirmedOnly),
	)

	defer func() {
		s.metrics.RecordRun(err, time.Since(start))
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			s.logger.Error(ctx, "extraction run failed", zap.Error(err))
		}
	}()

	s.logger.Info(ctx, "starting extraction run",
		zap.String("key", opts.Key),
		zap.Bool("confirmed_only", opts.ConfirmedOnly),
	)

	parsed, err := s.reader.ReadFile(ctx, opts.Transcript)
	if err != nil {
		return nil, fmt.Errorf("reading transcript: %w", err)
	}
	counts := TranscriptCounts{
		Messages: len(parsed.Messages),
		System:   parsed.SystemCount(),
		Skipped:  parsed.ErrorCount,
	}
	s.metrics.RecordTranscript(counts.Messages-counts.System, counts.System, counts.Skipped)

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	engine := extraction.NewEntityExtractor(parsed.Messages, s.cfg.Engine, s.logger.Underlying())
	participants := transcript.Participants(parsed.Messages, s.cfg.SystemSenders)
	built := engine.BuildItinerary(opts.Title, participants, opts.ConfirmedOnly)
	stats := engine.LastStats()

	for _, item := range built.Items {
		s.metrics.RecordItem(string(item.Category), string(item.Status))
	}
	s.metrics.RecordDiscards(stats.Discarded)

	scrubbed, report := privacy.ScrubItinerary(s.scrubber, built)
	s.metrics.RecordRedactions(report.ByRule)
	if report.Redacted > 0 {
		s.logger.Debug(ctx, "scrubbed evidence messages",
			zap.Int("redacted", report.Redacted),
			zap.Int("messages", report.Messages),
		)
	}

	res = &Result{
		RunID:      runID,
		Key:        opts.Key,
		Itinerary:  scrubbed,
		Transcript: counts,
		Stats:      stats,
		Privacy:    report,
	}

	if s.store != nil && opts.Key != "" {
		if err := s.store.Save(ctx, opts.Key, scrubbed); err != nil {
			return nil, fmt.Errorf("saving itinerary %q: %w", opts.Key, err)
		}
		res.Saved = true
	}

	res.Duration = time.Since(start)
	span.SetAttributes(
		attribute.Int("items", len(scrubbed.Items)),
		attribute.Int("messages", counts.Messages),
		attribute.Bool("saved", res.Saved),
	)
	s.logger.Info(ctx, "extraction run finished",
		zap.Int("items", len(scrubbed.Items)),
		zap.Int("messages", counts.Messages),
		zap.Bool("saved", res.Saved),
		zap.Duration("duration", res.Duration),
	)
	return res, nil
}
