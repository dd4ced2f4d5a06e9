package privacy

import "sort"

// Result contains the scrubbing result.
type Result struct {
	// Original is the input content
	Original string `json:"-"`

	// Scrubbed is the content with personal data redacted
	Scrubbed string `json:"scrubbed"`

	// Findings never carry the matched value.
	Findings []Finding `json:"findings,omitempty"`

	// ByRule maps rule IDs to finding counts
	ByRule map[string]int `json:"by_rule,omitempty"`
}

// Finding is one detected value.
type Finding struct {
	RuleID      string `json:"rule_id"`
	Description string `json:"description"`
	Severity    string `json:"severity"`
	StartIndex  int    `json:"start_index"`
	EndIndex    int    `json:"end_index"`
	Line        int    `json:"line,omitempty"`
}

func newResult(content string) *Result {
	return &Result{
		Original: content,
		Scrubbed: content,
		Findings: make([]Finding, 0),
		ByRule:   make(map[string]int),
	}
}

// HasFindings returns true if anything was found.
func (r *Result) HasFindings() bool {
	return len(r.Findings) > 0
}

// RuleIDs returns the sorted IDs of the rules that matched.
func (r *Result) RuleIDs() []string {
	ids := make([]string, 0, len(r.ByRule))
	for id := range r.ByRule {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Report totals the findings of scrubbing a whole itinerary.
type Report struct {
	Messages int            `json:"messages"`
	Redacted int            `json:"redacted"`
	ByRule   map[string]int `json:"by_rule,omitempty"`
}

func (rep *Report) add(r *Result) {
	rep.Messages++
	if !r.HasFindings() {
		return
	}
	rep.Redacted += len(r.Findings)
	for id, n := range r.ByRule {
		rep.ByRule[id] += n
	}
}
