// Package intent decides which handler answers an utterance.
//
// Classification is a ranked table of keyword rules evaluated in a single pass
// over the lowercased utterance. The first matching rule wins, so an utterance
// such as "what is the weather" is Weather, never EncyclopediaLookup.
package intent

import (
	"sort"
	"strings"
)

type Intent string

const (
	Weather            Intent = "weather"
	News               Intent = "news"
	Sports             Intent = "sports"
	DateTime           Intent = "datetime"
	EncyclopediaLookup Intent = "encyclopedia"
	Conversation       Intent = "conversation"
)

// All lists every intent, default last.
var All = []Intent{Weather, News, Sports, DateTime, EncyclopediaLookup, Conversation}

// Matcher reports whether a lowercased utterance satisfies a rule.
type Matcher func(lower string) bool

type Rule struct {
	Priority int
	Intent   Intent
	// Pattern is a human readable form of Match, used in diagnostics.
	Pattern string
	Match   Matcher
}

// ContainsAny matches when any keyword occurs anywhere in the utterance.
func ContainsAny(keywords ...string) Matcher {
	return func(lower string) bool {
		for _, k := range keywords {
			if strings.Contains(lower, k) {
				return true
			}
		}
		return false
	}
}

// HasAnyPrefix matches when the utterance starts with any prefix.
func HasAnyPrefix(prefixes ...string) Matcher {
	return func(lower string) bool {
		for _, p := range prefixes {
			if strings.HasPrefix(lower, p) {
				return true
			}
		}
		return false
	}
}

// DefaultRules is the production rule table.
//
// "whether" is treated as a misspelling of "weather". This also catches
// sentences like "I wonder whether it will rain"; kept on purpose.
func DefaultRules() []Rule {
	return []Rule{
		{Priority: 10, Intent: Weather, Pattern: `contains "weather"|"whether"`, Match: ContainsAny("weather", "whether")},
		{Priority: 20, Intent: News, Pattern: `contains "news"`, Match: ContainsAny("news")},
		{Priority: 30, Intent: Sports, Pattern: `contains "sports"`, Match: ContainsAny("sports")},
		{Priority: 40, Intent: DateTime, Pattern: `contains "date"|"time"`, Match: ContainsAny("date", "time")},
		{Priority: 50, Intent: EncyclopediaLookup, Pattern: `starts with "who is"|"what is"`, Match: HasAnyPrefix("who is", "what is")},
	}
}

// Classifier evaluates a rule table. The zero value is not usable; use New.
type Classifier struct {
	rules []Rule
}

// New copies rules and orders them by ascending priority. Rules sharing a
// priority keep their relative order.
func New(rules []Rule) *Classifier {
	rs := make([]Rule, len(rules))
	copy(rs, rules)
	sort.SliceStable(rs, func(i, j int) bool { return rs[i].Priority < rs[j].Priority })
	return &Classifier{rules: rs}
}

func NewDefault() *Classifier {
	return New(DefaultRules())
}

// Classify always returns exactly one intent; Conversation when nothing matches.
func (c *Classifier) Classify(utterance string) Intent {
	if r, ok := c.Explain(utterance); ok {
		return r.Intent
	}
	return Conversation
}

// Explain returns the winning rule, or false when the utterance falls through
// to Conversation.
func (c *Classifier) Explain(utterance string) (Rule, bool) {
	lower := strings.ToLower(utterance)
	for _, r := range c.rules {
		if r.Match(lower) {
			return r, true
		}
	}
	return Rule{}, false
}

// Rules returns the evaluated table in order.
func (c *Classifier) Rules() []Rule {
	out := make([]Rule, len(c.rules))
	copy(out, c.rules)
	return out
}
