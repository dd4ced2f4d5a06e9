package logging

import (
	"context"
	"fmt"
	"regexp"

	"go.uber.org/zap"
)

type runCtxKey struct{}
type transcriptCtxKey struct{}
type requestCtxKey struct{}
type loggerCtxKey struct{}

const maxIDLen = 128

var idPattern = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)

func validateID(id, name string) error {
	if id == "" {
		return fmt.Errorf("%s cannot be empty", name)
	}
	if len(id) > maxIDLen {
		return fmt.Errorf("%s exceeds max length %d", name, maxIDLen)
	}
	if !idPattern.MatchString(id) {
		return fmt.Errorf("%s contains invalid characters (must be alphanumeric, hyphen, underscore)", name)
	}
	return nil
}

// ContextFields extracts correlation data from context.
func ContextFields(ctx context.Context) []zap.Field {
	fields := make([]zap.Field, 0, 3)
	if id := RunIDFromContext(ctx); id != "" {
		fields = append(fields, zap.String("run.id", id))
	}
	if path := TranscriptFromContext(ctx); path != "" {
		fields = append(fields, zap.String("transcript", path))
	}
	if id := RequestIDFromContext(ctx); id != "" {
		fields = append(fields, zap.String("request.id", id))
	}
	return fields
}

// WithRunID tags ctx with the id of one extraction run.
// Panics if id is empty or contains invalid characters.
func WithRunID(ctx context.Context, id string) context.Context {
	if err := validateID(id, "runID"); err != nil {
		panic(fmt.Sprintf("logging: %v", err))
	}
	return context.WithValue(ctx, runCtxKey{}, id)
}

// RunIDFromContext returns the run id, or "".
func RunIDFromContext(ctx context.Context) string {
	if s, ok := ctx.Value(runCtxKey{}).(string); ok {
		return s
	}
	return ""
}

// WithTranscript tags ctx with the transcript being processed.
func WithTranscript(ctx context.Context, path string) context.Context {
	return context.WithValue(ctx, transcriptCtxKey{}, path)
}

// TranscriptFromContext returns the transcript path, or "".
func TranscriptFromContext(ctx context.Context) string {
	if s, ok := ctx.Value(transcriptCtxKey{}).(string); ok {
		return s
	}
	return ""
}

// WithRequestID tags ctx with an HTTP request id.
// Panics if id is empty or contains invalid characters.
func WithRequestID(ctx context.Context, id string) context.Context {
	if err := validateID(id, "requestID"); err != nil {
		panic(fmt.Sprintf("logging: %v", err))
	}
	return context.WithValue(ctx, requestCtxKey{}, id)
}

// RequestIDFromContext returns the request id, or "".
func RequestIDFromContext(ctx context.Context) string {
	if s, ok := ctx.Value(requestCtxKey{}).(string); ok {
		return s
	}
	return ""
}

// WithLogger stores logger in context.
func WithLogger(ctx context.Context, logger *Logger) context.Context {
	return context.WithValue(ctx, loggerCtxKey{}, logger)
}

// FromContext retrieves logger from context, or a nop logger.
func FromContext(ctx context.Context) *Logger {
	if l, ok := ctx.Value(loggerCtxKey{}).(*Logger); ok {
		return l
	}
	return NewNop()
}
