package transcript

import (
	"bufio"
	"fmt"
	"io"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/fyrsmithlabs/holidaze/internal/itinerary"
)

const (
	leftToRightMark = "\u200e"
	timestampLayout = "02/01/2006 15:04:05"
)

var (
	headerPattern  = regexp.MustCompile(`^\[\d{2}/\d{2}/\d{4}, \d{2}:\d{2}:\d{2}\]`)
	messagePattern = regexp.MustCompile(`(?s)^\[(\d{2}/\d{2}/\d{4}), (\d{2}:\d{2}:\d{2})\] ([^:]+): (.+)$`)
)

// Parser turns a WhatsApp chat export into messages.
type Parser struct {
	indicators []string
}

// NewParser creates a parser. With no indicators, DefaultSystemIndicators
// are used.
func NewParser(indicators ...string) *Parser {
	if len(indicators) == 0 {
		indicators = DefaultSystemIndicators
	}
	return &Parser{indicators: indicators}
}

// record is one logical message before parsing: a header line and its
// continuation lines.
type record struct {
	line int
	text string
}

// Parse reads an export and returns the messages it holds.
// Returns partial results on bad records rather than failing completely.
func (p *Parser) Parse(r io.Reader) (*ParseResult, error) {
	records, err := split(r)
	if err != nil {
		return nil, err
	}

	result := &ParseResult{
		Messages: make([]itinerary.Message, 0, len(records)),
		Errors:   make([]ParseError, 0),
	}
	for _, rec := range records {
		msg, err := p.parseRecord(rec.text)
		if err != nil {
			result.addError(rec.line, err.Error())
			continue
		}
		result.Messages = append(result.Messages, msg)
	}
	return result, nil
}

// ParseString is Parse over an in-memory export.
func (p *Parser) ParseString(s string) (*ParseResult, error) {
	return p.Parse(strings.NewReader(s))
}

// split groups lines into records. Lines before the first header are
// dropped.
func split(r io.Reader) ([]record, error) {
	scanner := bufio.NewScanner(r)

	// Shared links and pasted itineraries make for long lines.
	const maxLineSize = 4 * 1024 * 1024
	scanner.Buffer(make([]byte, 64*1024), maxLineSize)

	var (
		records []record
		current []string
		start   int
	)
	flush := func() {
		if len(current) > 0 {
			records = append(records, record{line: start, text: strings.Join(current, "\n")})
		}
	}

	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := strings.TrimSuffix(scanner.Text(), "\r")
		// Attachment lines are exported with a leading U+200E before the
		// header; they are messages of their own.
		line = strings.ReplaceAll(line, leftToRightMark, "")

		if headerPattern.MatchString(line) {
			flush()
			current = []string{line}
			start = lineNum
			continue
		}
		if current != nil {
			current = append(current, line)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scanning transcript: %w", err)
	}
	flush()
	return records, nil
}

func (p *Parser) parseRecord(text string) (itinerary.Message, error) {
	m := messagePattern.FindStringSubmatch(text)
	if m == nil {
		return itinerary.Message{}, fmt.Errorf("malformed message header")
	}

	ts, err := time.Parse(timestampLayout, m[1]+" "+m[2])
	if err != nil {
		return itinerary.Message{}, fmt.Errorf("invalid timestamp %q: %w", m[1]+" "+m[2], err)
	}

	content := strings.TrimSpace(m[4])
	return itinerary.Message{
		Timestamp: ts,
		Sender:    strings.TrimSpace(m[3]),
		Content:   content,
		IsSystem:  p.isSystem(content),
	}, nil
}

func (p *Parser) isSystem(content string) bool {
	for _, ind := range p.indicators {
		if strings.Contains(content, ind) {
			return true
		}
	}
	return false
}

// Participants returns the sorted, unique senders of non-system messages.
// Senders named in systemSenders, usually the group name, are left out.
func Participants(messages []itinerary.Message, systemSenders []string) []string {
	skip := make(map[string]struct{}, len(systemSenders))
	for _, s := range systemSenders {
		skip[s] = struct{}{}
	}

	seen := make(map[string]struct{})
	var out []string
	for _, m := range messages {
		if m.IsSystem {
			continue
		}
		if _, ok := skip[m.Sender]; ok {
			continue
		}
		if _, ok := seen[m.Sender]; ok {
			continue
		}
		seen[m.Sender] = struct{}{}
		out = append(out, m.Sender)
	}
	sort.Strings(out)
	return out
}
