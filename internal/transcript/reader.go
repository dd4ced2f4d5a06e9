package transcript

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"strings"

	"github.com/mholt/archives"
	"go.uber.org/zap"
)

// errFound stops an archive walk once the transcript entry has been read.
var errFound = errors.New("transcript found")

// Reader loads chat exports from disk. Plain text exports are parsed as-is;
// zip archives and compressed files are detected by content.
type Reader struct {
	parser *Parser
	logger *zap.Logger
}

// NewReader creates a reader around parser.
func NewReader(parser *Parser, logger *zap.Logger) *Reader {
	if parser == nil {
		parser = NewParser()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Reader{parser: parser, logger: logger}
}

// ReadFile parses the export at path. Inside an archive the first .txt entry
// is used; an archive without one yields ErrNoTranscript.
func (r *Reader) ReadFile(ctx context.Context, filename string) (*ParseResult, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("opening transcript: %w", err)
	}
	defer f.Close()

	format, stream, err := archives.Identify(ctx, filename, f)
	switch {
	case errors.Is(err, archives.NoMatch):
		r.logger.Debug("reading plain transcript", zap.String("path", filename))
		return r.parse(stream, filename)
	case err != nil:
		return nil, fmt.Errorf("identifying transcript format: %w", err)
	}

	if ex, ok := format.(archives.Extractor); ok {
		return r.readArchive(ctx, ex, stream, filename)
	}
	if dec, ok := format.(archives.Decompressor); ok {
		rc, err := dec.OpenReader(stream)
		if err != nil {
			return nil, fmt.Errorf("decompressing transcript: %w", err)
		}
		defer rc.Close()
		r.logger.Debug("reading compressed transcript",
			zap.String("path", filename),
			zap.String("format", format.Extension()),
		)
		return r.parse(rc, filename)
	}
	return nil, fmt.Errorf("unsupported transcript format %q", format.Extension())
}

func (r *Reader) readArchive(ctx context.Context, ex archives.Extractor, stream io.Reader, filename string) (*ParseResult, error) {
	var result *ParseResult
	err := ex.Extract(ctx, stream, func(ctx context.Context, info archives.FileInfo) error {
		if info.IsDir() || !strings.HasSuffix(info.NameInArchive, ".txt") {
			return nil
		}
		// Skip macOS resource forks that zip tools add alongside the export.
		if strings.HasPrefix(path.Base(info.NameInArchive), "._") {
			return nil
		}

		entry, err := info.Open()
		if err != nil {
			return fmt.Errorf("opening %s: %w", info.NameInArchive, err)
		}
		defer entry.Close()

		r.logger.Debug("reading transcript from archive",
			zap.String("path", filename),
			zap.String("entry", info.NameInArchive),
		)
		result, err = r.parser.Parse(entry)
		if err != nil {
			return err
		}
		return errFound
	})
	if err != nil && !errors.Is(err, errFound) {
		return nil, fmt.Errorf("extracting %s: %w", filename, err)
	}
	if result == nil {
		return nil, ErrNoTranscript
	}
	r.logResult(filename, result)
	return result, nil
}

func (r *Reader) parse(src io.Reader, filename string) (*ParseResult, error) {
	result, err := r.parser.Parse(src)
	if err != nil {
		return nil, err
	}
	r.logResult(filename, result)
	return result, nil
}

func (r *Reader) logResult(filename string, result *ParseResult) {
	if result.ErrorCount > 0 {
		r.logger.Warn("skipped malformed transcript records",
			zap.String("path", filename),
			zap.Int("skipped", result.ErrorCount),
		)
	}
	r.logger.Info("transcript parsed",
		zap.String("path", filename),
		zap.Int("messages", len(result.Messages)),
		zap.Int("system", result.SystemCount()),
	)
}
