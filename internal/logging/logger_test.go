package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func jsonConfig() *Config {
	cfg := NewDefaultConfig()
	cfg.Format = "json"
	cfg.Level = "debug"
	cfg.Sampling.Enabled = false
	return cfg
}

func bufferLogger(t *testing.T, cfg *Config) (*Logger, *bytes.Buffer) {
	t.Helper()
	var buf bytes.Buffer
	l, err := newLogger(cfg, zapcore.AddSync(&buf))
	require.NoError(t, err)
	return l, &buf
}

func decodeLines(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()
	var out []map[string]any
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}
		var m map[string]any
		require.NoError(t, json.Unmarshal([]byte(line), &m))
		out = append(out, m)
	}
	return out
}

func TestNewLogger(t *testing.T) {
	cfg := NewDefaultConfig()
	logger, err := NewLogger(cfg)
	require.NoError(t, err)
	assert.Equal(t, cfg, logger.config)
	assert.True(t, logger.Enabled(zapcore.InfoLevel))
	assert.False(t, logger.Enabled(zapcore.DebugLevel))
}

func TestNewLogger_InvalidConfig(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.Format = "xml"
	_, err := NewLogger(cfg)
	assert.Error(t, err)
}

func TestLogger_ContextAwareMethods(t *testing.T) {
	core, observed := observer.New(TraceLevel)
	logger := &Logger{zap: zap.New(core), config: NewDefaultConfig()}
	ctx := WithRunID(context.Background(), "run-1")

	tests := []struct {
		name    string
		logFunc func()
		level   zapcore.Level
	}{
		{"trace", func() { logger.Trace(ctx, "msg") }, TraceLevel},
		{"debug", func() { logger.Debug(ctx, "msg") }, zapcore.DebugLevel},
		{"info", func() { logger.Info(ctx, "msg") }, zapcore.InfoLevel},
		{"warn", func() { logger.Warn(ctx, "msg") }, zapcore.WarnLevel},
		{"error", func() { logger.Error(ctx, "msg") }, zapcore.ErrorLevel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			observed.TakeAll()
			tt.logFunc()

			logs := observed.All()
			require.Len(t, logs, 1)
			assert.Equal(t, tt.level, logs[0].Level)
			assert.Equal(t, "run-1", logs[0].ContextMap()["run.id"])
		})
	}
}

func TestLogger_ConstantFields(t *testing.T) {
	logger, buf := bufferLogger(t, jsonConfig())
	logger.Info(context.Background(), "hello")

	lines := decodeLines(t, buf)
	require.Len(t, lines, 1)
	assert.Equal(t, "holidaze", lines[0]["service"])
	assert.Equal(t, "hello", lines[0]["msg"])
}

func TestLogger_TraceLevelName(t *testing.T) {
	cfg := jsonConfig()
	cfg.Level = "trace"
	logger, buf := bufferLogger(t, cfg)
	logger.Trace(context.Background(), "detail")

	lines := decodeLines(t, buf)
	require.Len(t, lines, 1)
	assert.Equal(t, "trace", lines[0]["level"])
}

func TestLogger_WithAndNamed(t *testing.T) {
	tl := NewTestLogger()
	child := tl.Named("pipeline").With(zap.String("key", "trip"))
	child.Info(context.Background(), "saved")

	entries := tl.All()
	require.Len(t, entries, 1)
	assert.Equal(t, "pipeline", entries[0].LoggerName)
	assert.Equal(t, "trip", entries[0].ContextMap()["key"])
}

func TestLevelFromString(t *testing.T) {
	l, err := LevelFromString("trace")
	require.NoError(t, err)
	assert.Equal(t, TraceLevel, l)

	l, err = LevelFromString("warn")
	require.NoError(t, err)
	assert.Equal(t, zapcore.WarnLevel, l)

	_, err = LevelFromString("loud")
	assert.Error(t, err)
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"bad level", func(c *Config) { c.Level = "loud" }},
		{"bad format", func(c *Config) { c.Format = "xml" }},
		{"no output", func(c *Config) { c.Output = "" }},
		{"zero tick", func(c *Config) { c.Sampling.Tick = 0 }},
		{"bad pattern", func(c *Config) { c.Redaction.Patterns = []string{`[x`} }},
		{"long pattern", func(c *Config) { c.Redaction.Patterns = []string{strings.Repeat("a", 201)} }},
		{"empty field value", func(c *Config) { c.Fields = map[string]string{"k": ""} }},
	}

	require.NoError(t, NewDefaultConfig().Validate())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := NewDefaultConfig()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestRedactingEncoder(t *testing.T) {
	logger, buf := bufferLogger(t, jsonConfig())
	logger.Info(context.Background(), "contact",
		zap.String("phone", "0770 0900 123"),
		zap.String("note", "driver on +66 81 234 5678"),
		zap.String("hotel", "Castaway"),
		zap.Strings("email", []string{"a@b.co"}),
	)

	lines := decodeLines(t, buf)
	require.Len(t, lines, 1)
	assert.Equal(t, "[REDACTED]", lines[0]["phone"])
	assert.Equal(t, "[REDACTED:pattern]", lines[0]["note"])
	assert.Equal(t, "Castaway", lines[0]["hotel"])
	assert.Equal(t, "[REDACTED]", lines[0]["email"])
}

func TestRedactingEncoder_WithFields(t *testing.T) {
	logger, buf := bufferLogger(t, jsonConfig())
	logger.With(zap.String("token", "abc")).Info(context.Background(), "x")

	lines := decodeLines(t, buf)
	require.Len(t, lines, 1)
	assert.Equal(t, "[REDACTED]", lines[0]["token"])
}

func TestRedactingEncoder_Disabled(t *testing.T) {
	cfg := jsonConfig()
	cfg.Redaction.Enabled = false
	logger, buf := bufferLogger(t, cfg)
	logger.Info(context.Background(), "x", zap.String("phone", "07700900123"))

	lines := decodeLines(t, buf)
	assert.Equal(t, "07700900123", lines[0]["phone"])
}

func TestRedactedString(t *testing.T) {
	tl := NewTestLogger()
	tl.Info(context.Background(), "auth", RedactedString("redis_url", "redis://:pw@host"))
	tl.AssertField(t, "auth", "redis_url", "[REDACTED:16]")
}

func TestSampling_ErrorsNeverSampled(t *testing.T) {
	core, observed := observer.New(zapcore.InfoLevel)
	sampled := newSampledCore(core, SamplingConfig{Enabled: true, Tick: time.Second, Initial: 2, Thereafter: 0})
	logger := &Logger{zap: zap.New(sampled), config: NewDefaultConfig()}

	for i := 0; i < 20; i++ {
		logger.Error(context.Background(), "boom")
		logger.Info(context.Background(), "chatty")
	}

	assert.Equal(t, 20, observed.FilterMessage("boom").Len())
	assert.Equal(t, 2, observed.FilterMessage("chatty").Len())
}

func TestSampling_Disabled(t *testing.T) {
	core, _ := observer.New(zapcore.InfoLevel)
	assert.Equal(t, core, newSampledCore(core, SamplingConfig{}))
}
