package transcript

import (
	"errors"

	"github.com/fyrsmithlabs/holidaze/internal/itinerary"
)

// ErrNoTranscript is returned when an archive holds no .txt chat export.
var ErrNoTranscript = errors.New("no .txt transcript found in archive")

// maxStoredErrors caps ParseResult.Errors. ErrorCount keeps counting.
const maxStoredErrors = 10

// ParseResult contains messages and any errors encountered during parsing.
type ParseResult struct {
	Messages   []itinerary.Message
	ErrorCount int
	Errors     []ParseError
}

// ParseError represents a record that could not be parsed. Line is the
// 1-based line of the record header.
type ParseError struct {
	Line  int
	Error string
}

// SystemCount returns how many parsed messages are flagged as system
// notices.
func (r *ParseResult) SystemCount() int {
	n := 0
	for _, m := range r.Messages {
		if m.IsSystem {
			n++
		}
	}
	return n
}

func (r *ParseResult) addError(line int, msg string) {
	r.ErrorCount++
	if len(r.Errors) < maxStoredErrors {
		r.Errors = append(r.Errors, ParseError{Line: line, Error: msg})
	}
}

// DefaultSystemIndicators are substrings that mark a message as a WhatsApp
// notice rather than something a participant wrote.
var DefaultSystemIndicators = []string{
	"Messages and calls are end-to-end encrypted",
	"created group",
	"added you",
	"changed the group",
	"pinned a message",
	"image omitted",
	"video omitted",
	"document omitted",
	"GIF omitted",
	"Voice call",
	"Waiting for this message",
	"This message was deleted",
	"POLL:",
	"sticker omitted",
	"audio omitted",
}
