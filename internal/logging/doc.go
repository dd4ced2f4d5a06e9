// Package logging wraps Zap with the conventions used across holidaze.
//
// # Overview
//
// The wrapper adds:
//   - a Trace level (-2, below Debug)
//   - context fields for the current run, transcript and HTTP request
//   - an encoder that redacts sensitive field names and value patterns
//   - level-aware sampling where errors are never sampled
//
// # Usage
//
//	logger, err := logging.NewLogger(logging.NewDefaultConfig())
//	if err != nil {
//	    return err
//	}
//	defer logger.Sync()
//
//	ctx = logging.WithRunID(ctx, runID)
//	logger.Info(ctx, "extraction finished", zap.Int("items", n))
//
// Packages that only need a plain *zap.Logger take Underlying().
//
// # Redaction
//
// Chat transcripts carry phone numbers and booking PINs. Field names listed
// in RedactionConfig.Fields are always replaced, and string values matching
// RedactionConfig.Patterns are replaced wholesale. Message evidence should
// still go through the privacy package before it is logged.
//
// # Testing
//
//	tl := logging.NewTestLogger()
//	svc, err := pipeline.New(reader, scrubber, nil, m, tl.Logger, cfg)
//	tl.AssertLogged(t, zapcore.InfoLevel, "extraction finished")
package logging
