package privacy

import (
	"sort"
	"strings"

	"github.com/fyrsmithlabs/holidaze/internal/itinerary"
)

// Scrubber detects and redacts personal data in chat text.
type Scrubber interface {
	// Scrub redacts personal data from content.
	Scrub(content string) *Result

	// Check detects personal data without redacting.
	Check(content string) *Result

	// IsEnabled returns whether scrubbing is enabled.
	IsEnabled() bool
}

type scrubber struct {
	config *Config
}

type redaction struct {
	start, end int
}

// New creates a new Scrubber with the given configuration.
// If config is nil, DefaultConfig() is used. A disabled config yields a
// NoopScrubber.
func New(cfg *Config) (Scrubber, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if !cfg.Enabled {
		return NoopScrubber{}, nil
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &scrubber{config: cfg}, nil
}

// MustNew creates a new Scrubber, panicking on error.
func MustNew(cfg *Config) Scrubber {
	s, err := New(cfg)
	if err != nil {
		panic(err)
	}
	return s
}

func (s *scrubber) Scrub(content string) *Result {
	result := newResult(content)
	var redactions []redaction

	for _, rule := range s.config.compiledRules {
		if !rule.applies(content) {
			continue
		}

		for _, m := range rule.pattern.FindAllStringSubmatchIndex(content, -1) {
			start, end := m[0], m[1]
			if len(m) >= 4 && m[2] >= 0 {
				start, end = m[2], m[3]
			}
			value := content[start:end]

			if rule.check != nil && !rule.check(value) {
				continue
			}
			if s.isAllowed(value) {
				continue
			}

			result.Findings = append(result.Findings, Finding{
				RuleID:      rule.ID,
				Description: rule.Description,
				Severity:    rule.Severity,
				StartIndex:  start,
				EndIndex:    end,
				Line:        strings.Count(content[:start], "\n") + 1,
			})
			result.ByRule[rule.ID]++
			redactions = append(redactions, redaction{start: start, end: end})
		}
	}

	if len(redactions) > 0 {
		result.Scrubbed = redact(content, mergeRedactions(redactions), s.config.Redaction)
	}
	return result
}

func (s *scrubber) Check(content string) *Result {
	result := s.Scrub(content)
	result.Scrubbed = result.Original
	return result
}

func (s *scrubber) IsEnabled() bool {
	return true
}

func (r *compiledRule) applies(content string) bool {
	if len(r.keywords) == 0 {
		return true
	}
	for _, kw := range r.keywords {
		if kw.MatchString(content) {
			return true
		}
	}
	return false
}

func (s *scrubber) isAllowed(value string) bool {
	for _, pattern := range s.config.compiledAllowList {
		if pattern.MatchString(value) {
			return true
		}
	}
	return false
}

// mergeRedactions sorts redactions by start and merges overlapping or
// adjacent spans.
func mergeRedactions(rs []redaction) []redaction {
	sort.Slice(rs, func(i, j int) bool { return rs[i].start < rs[j].start })

	merged := []redaction{rs[0]}
	for _, curr := range rs[1:] {
		last := &merged[len(merged)-1]
		if curr.start <= last.end {
			if curr.end > last.end {
				last.end = curr.end
			}
			continue
		}
		merged = append(merged, curr)
	}
	return merged
}

// redact applies sorted, non-overlapping spans to content.
func redact(content string, spans []redaction, replacement string) string {
	var b strings.Builder
	prev := 0
	for _, r := range spans {
		b.WriteString(content[prev:r.start])
		b.WriteString(replacement)
		prev = r.end
	}
	b.WriteString(content[prev:])
	return b.String()
}

// NoopScrubber leaves content unchanged.
type NoopScrubber struct{}

func (NoopScrubber) Scrub(content string) *Result { return newResult(content) }

func (NoopScrubber) Check(content string) *Result { return newResult(content) }

func (NoopScrubber) IsEnabled() bool { return false }

// ScrubItinerary returns a copy of it with the evidence messages of every
// item scrubbed. Titles, details and booking links are left untouched.
func ScrubItinerary(s Scrubber, it *itinerary.Itinerary) (*itinerary.Itinerary, Report) {
	out := it.Clone()
	rep := Report{ByRule: make(map[string]int)}
	if !s.IsEnabled() {
		return out, rep
	}

	for i := range out.Items {
		msgs := out.Items[i].SourceMessages
		if len(msgs) == 0 {
			continue
		}
		scrubbed := make([]itinerary.Message, len(msgs))
		for j, msg := range msgs {
			res := s.Scrub(msg.Content)
			rep.add(res)
			msg.Content = res.Scrubbed
			scrubbed[j] = msg
		}
		out.Items[i].SourceMessages = scrubbed
	}
	return out, rep
}

var (
	_ Scrubber = (*scrubber)(nil)
	_ Scrubber = NoopScrubber{}
)
