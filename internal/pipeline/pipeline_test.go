package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.uber.org/zap/zapcore"

	"github.com/fyrsmithlabs/holidaze/internal/extraction"
	"github.com/fyrsmithlabs/holidaze/internal/itinerary"
	"github.com/fyrsmithlabs/holidaze/internal/logging"
	"github.com/fyrsmithlabs/holidaze/internal/privacy"
	"github.com/fyrsmithlabs/holidaze/internal/store"
	"github.com/fyrsmithlabs/holidaze/internal/transcript"
)

var tripChat = []string{
	"Crew: \u200eMessages and calls are end-to-end encrypted.",
	"Ana: Check out Sea Breeze Resort Lipe on Booking.com! https://www.booking.com/hotel/th/sea-breeze-resort.en-gb.html?checkin=2026-03-18&checkout=2026-03-21",
	"Ben: booked!",
	"Cat: Etihad LHR to BKK £450pp on 14th March",
	"Ana: Ferry from Koh Lipe to Koh Lanta at 10.45, captain is +66 81 234 5678",
	"Ben: nice",
	"Cat: see you there",
	"Ana: ok",
	"Ben: great",
	"Cat: https://www.booking.com/hotel/th/the-old-house-lanta.en-gb.html",
}

func writeTranscript(t *testing.T, lines []string) string {
	t.Helper()
	var b strings.Builder
	for i, line := range lines {
		fmt.Fprintf(&b, "[02/11/2025, 09:%02d:00] %s\n", i, line)
	}
	path := filepath.Join(t.TempDir(), "_chat.txt")
	require.NoError(t, os.WriteFile(path, []byte(b.String()), 0o644))
	return path
}

func newService(t *testing.T, st store.Store, logger *logging.Logger) *Service {
	t.Helper()
	svc, err := New(
		transcript.NewReader(nil, nil),
		privacy.MustNew(nil),
		st,
		nil,
		logger,
		Config{Engine: extraction.DefaultConfig(), SystemSenders: []string{"Crew"}},
	)
	require.NoError(t, err)
	return svc
}

func TestRun(t *testing.T) {
	st, err := store.NewFileStore(t.TempDir())
	require.NoError(t, err)
	tl := logging.NewTestLogger()
	svc := newService(t, st, tl.Logger)

	res, err := svc.Run(context.Background(), Options{
		Transcript: writeTranscript(t, tripChat),
		Title:      "Thailand 2026",
		Key:        "thailand-2026",
	})
	require.NoError(t, err)

	assert.NotEmpty(t, res.RunID)
	assert.True(t, res.Saved)
	assert.Equal(t, TranscriptCounts{Messages: 10, System: 1}, res.Transcript)
	assert.Equal(t, 9, res.Stats.Messages)

	it := res.Itinerary
	assert.Equal(t, "Thailand 2026", it.Title)
	assert.Equal(t, []string{"Ana", "Ben", "Cat"}, it.Participants)
	require.Len(t, it.Items, 4)

	var ferry itinerary.TravelItem
	for _, item := range it.Items {
		if item.Category == itinerary.CategoryTransfer {
			ferry = item
		}
	}
	require.Len(t, ferry.SourceMessages, 1)
	assert.NotContains(t, ferry.SourceMessages[0].Content, "+66")
	assert.Contains(t, ferry.SourceMessages[0].Content, "[hidden]")
	assert.Equal(t, 1, res.Privacy.Redacted)

	saved, err := st.Load(context.Background(), "thailand-2026")
	require.NoError(t, err)
	assert.Len(t, saved.Items, 4)

	tl.AssertLogged(t, zapcore.InfoLevel, "extraction run finished")
	tl.AssertField(t, "extraction run finished", "run.id", res.RunID)
	tl.AssertNoPII(t)
}

func TestRun_ConfirmedOnly(t *testing.T) {
	svc := newService(t, nil, nil)

	res, err := svc.Run(context.Background(), Options{
		Transcript:    writeTranscript(t, tripChat),
		ConfirmedOnly: true,
		Key:           "ignored-without-store",
	})
	require.NoError(t, err)
	assert.False(t, res.Saved)

	for _, item := range res.Itinerary.Items {
		assert.Equal(t, itinerary.StatusConfirmed, item.Status, item.Title)
	}
	assert.Equal(t, 1, res.Stats.Discarded[extraction.ReasonUnconfirmed])
}

func TestRun_EmptyTranscriptIsValid(t *testing.T) {
	svc := newService(t, nil, nil)

	res, err := svc.Run(context.Background(), Options{
		Transcript: writeTranscript(t, []string{"Ana: hello", "Ben: hi"}),
	})
	require.NoError(t, err)
	assert.Empty(t, res.Itinerary.Items)
	assert.Equal(t, "2026-03-14", res.Itinerary.StartDate.String())
	assert.Equal(t, "2026-03-28", res.Itinerary.EndDate.String())
}

func TestRun_MissingTranscript(t *testing.T) {
	tl := logging.NewTestLogger()
	svc := newService(t, nil, tl.Logger)

	_, err := svc.Run(context.Background(), Options{Transcript: filepath.Join(t.TempDir(), "nope.txt")})
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
	tl.AssertLogged(t, zapcore.ErrorLevel, "extraction run failed")
}

func TestRun_CancelledContext(t *testing.T) {
	svc := newService(t, nil, nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := svc.Run(ctx, Options{Transcript: writeTranscript(t, tripChat)})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRun_StoreErrorIsWrapped(t *testing.T) {
	st, err := store.NewFileStore(t.TempDir())
	require.NoError(t, err)
	svc := newService(t, st, nil)

	_, err = svc.Run(context.Background(), Options{
		Transcript: writeTranscript(t, tripChat),
		Key:        "bad key!",
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "saving itinerary")
}

func TestNew_Validation(t *testing.T) {
	_, err := New(nil, nil, nil, nil, nil, Config{Engine: extraction.DefaultConfig()})
	assert.Error(t, err)

	bad := extraction.DefaultConfig()
	bad.DateBefore = -1
	_, err = New(transcript.NewReader(nil, nil), nil, nil, nil, nil, Config{Engine: bad})
	assert.Error(t, err)
}

func TestRun_RecordsSpan(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	otel.SetTracerProvider(sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder)))
	defer otel.SetTracerProvider(sdktrace.NewTracerProvider())

	svc := newService(t, nil, nil)
	_, err := svc.Run(context.Background(), Options{Transcript: writeTranscript(t, tripChat), Title: "Trip"})
	require.NoError(t, err)

	_, err = svc.Run(context.Background(), Options{Transcript: filepath.Join(t.TempDir(), "missing.txt")})
	require.Error(t, err)

	spans := recorder.Ended()
	require.Len(t, spans, 2)

	ok := spans[0]
	assert.Equal(t, "pipeline.run", ok.Name())
	assert.Contains(t, ok.Attributes(), attribute.Int("items", 4))
	assert.Contains(t, ok.Attributes(), attribute.Bool("saved", false))
	assert.Equal(t, codes.Unset, ok.Status().Code)

	failed := spans[1]
	assert.Equal(t, codes.Error, failed.Status().Code)
	require.Len(t, failed.Events(), 1, "error is recorded as a span event")
}
