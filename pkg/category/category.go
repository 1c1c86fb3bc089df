// Package category assigns a spending or income label to a transaction
// description using an ordered list of keyword rules.
package category

import (
	"strings"

	"github.com/yurifrl/fluxo/pkg/models"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Fallback is the label used when no rule matches.
const Fallback = "Outros"

// Rule maps any of its keywords, for one direction, to a label.
type Rule struct {
	Keywords  []string
	Direction models.Direction
	Label     string
}

// Categorizer evaluates rules top to bottom and returns the first match.
// Order matters: when two rules share a keyword, the earlier one wins.
type Categorizer struct {
	rules    []Rule
	fallback string
}

// New returns a categorizer over rules. An empty fallback means Fallback.
func New(rules []Rule, fallback string) *Categorizer {
	if fallback == "" {
		fallback = Fallback
	}
	normalized := make([]Rule, len(rules))
	for i, r := range rules {
		keywords := make([]string, 0, len(r.Keywords))
		for _, k := range r.Keywords {
			if k = normalize(k); k != "" {
				keywords = append(keywords, k)
			}
		}
		normalized[i] = Rule{Keywords: keywords, Direction: r.Direction, Label: r.Label}
	}
	return &Categorizer{rules: normalized, fallback: fallback}
}

// Default returns a categorizer over DefaultRules.
func Default() *Categorizer {
	return New(DefaultRules(), Fallback)
}

// Categorize returns the label of the first rule matching description.
// Non-text descriptions get the fallback label.
func (c *Categorizer) Categorize(description any, direction models.Direction) string {
	text, ok := description.(string)
	if !ok {
		return c.fallback
	}
	desc := normalize(text)
	for _, r := range c.rules {
		if r.Direction != direction {
			continue
		}
		for _, k := range r.Keywords {
			if strings.Contains(desc, k) {
				return r.Label
			}
		}
	}
	return c.fallback
}

func (c *Categorizer) Rules() []Rule {
	return c.rules
}

func (c *Categorizer) FallbackLabel() string {
	return c.fallback
}

// normalize trims and lower-cases s. A Caser is stateful, so each call gets
// its own.
func normalize(s string) string {
	return cases.Lower(language.BrazilianPortuguese).String(strings.TrimSpace(s))
}
