package privacy

import (
	"fmt"
	"regexp"
)

// Config configures the scrubber.
type Config struct {
	// Enabled controls whether scrubbing is active (default: true)
	Enabled bool `koanf:"enabled"`

	// Rules defines the detection rules
	Rules []Rule `koanf:"rules"`

	// Redaction replaces each detected value (default: "[hidden]")
	Redaction string `koanf:"redaction"`

	// AllowList contains patterns whose matches are left alone
	AllowList []string `koanf:"allow_list"`

	compiledRules     []*compiledRule
	compiledAllowList []*regexp.Regexp
}

// Rule describes one kind of personal data.
//
// When Pattern has a capture group, only the first group is redacted, so a
// rule can anchor on a label such as "PIN:" while hiding just the value.
type Rule struct {
	ID          string   `koanf:"id"`
	Description string   `koanf:"description"`
	Pattern     string   `koanf:"pattern"`
	Keywords    []string `koanf:"keywords"`
	Severity    string   `koanf:"severity"`

	// Check names an extra validation applied to each redacted value:
	// "luhn" or "digits".
	Check string `koanf:"check"`
}

type compiledRule struct {
	Rule
	pattern  *regexp.Regexp
	keywords []*regexp.Regexp
	check    func(string) bool
}

var checks = map[string]func(string) bool{
	"luhn":   luhnValid,
	"digits": hasDigit,
}

// DefaultConfig returns a configuration with the chat PII rules.
func DefaultConfig() *Config {
	return &Config{
		Enabled:   true,
		Redaction: "[hidden]",
		Rules:     DefaultRules(),
		AllowList: []string{},
	}
}

// Validate validates and compiles the configuration.
func (c *Config) Validate() error {
	if !c.Enabled {
		return nil
	}
	if c.Redaction == "" {
		c.Redaction = "[hidden]"
	}

	c.compiledRules = make([]*compiledRule, 0, len(c.Rules))
	for i, rule := range c.Rules {
		if rule.ID == "" {
			return fmt.Errorf("rule %d: ID is required", i)
		}
		if rule.Pattern == "" {
			return fmt.Errorf("rule %s: pattern is required", rule.ID)
		}

		pattern, err := regexp.Compile(rule.Pattern)
		if err != nil {
			return fmt.Errorf("rule %s: invalid pattern: %w", rule.ID, err)
		}

		compiled := &compiledRule{
			Rule:     rule,
			pattern:  pattern,
			keywords: make([]*regexp.Regexp, 0, len(rule.Keywords)),
		}
		if rule.Check != "" {
			check, ok := checks[rule.Check]
			if !ok {
				return fmt.Errorf("rule %s: unknown check %q", rule.ID, rule.Check)
			}
			compiled.check = check
		}

		for _, kw := range rule.Keywords {
			compiled.keywords = append(compiled.keywords, regexp.MustCompile("(?i)"+regexp.QuoteMeta(kw)))
		}

		c.compiledRules = append(c.compiledRules, compiled)
	}

	c.compiledAllowList = make([]*regexp.Regexp, 0, len(c.AllowList))
	for i, pattern := range c.AllowList {
		compiled, err := regexp.Compile(pattern)
		if err != nil {
			return fmt.Errorf("allow_list %d: invalid pattern: %w", i, err)
		}
		c.compiledAllowList = append(c.compiledAllowList, compiled)
	}

	return nil
}
