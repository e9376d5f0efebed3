package dashboard

import (
	"regexp"
	"strings"
)

// Category labels used for the product_area buckets. Every issue resolves to
// exactly one of these; there is no free-text fallback.
const (
	CategoryGrammar      = "Grammar/Spelling"
	CategoryDeprecated   = "Deprecated/Potentially Outdated Content"
	CategorySuggested    = "Suggested Content Updates"
	CategoryOther        = "Other (Support/Ambiguous/Process)"
	CategoryPlaceholders = "Placeholders (Template-Incomplete)"
	CategoryModuleUpdate = "MS Learn Module Update Request"
)

// KnownCategories returns the fixed category labels recognized as section
// headings in a meta issue body, in their canonical order.
func KnownCategories() []string {
	return []string{
		CategoryGrammar,
		CategoryDeprecated,
		CategorySuggested,
		CategoryOther,
		CategoryPlaceholders,
	}
}

// Rule maps a set of keywords to a category. Rules are evaluated in order
// and the first keyword hit wins, so classification outcomes depend on rule
// order; keep the slice ordered, never convert it to a map.
type Rule struct {
	Category string   `yaml:"category"`
	Keywords []string `yaml:"keywords"`
}

// DefaultRules returns the built-in keyword rules in priority order.
func DefaultRules() []Rule {
	return []Rule{
		{Category: CategoryGrammar, Keywords: []string{
			"grammar", "spelling", "typo", "typos", "misspelling", "punctuation",
		}},
		{Category: CategoryPlaceholders, Keywords: []string{
			"placeholder", "template", "tbd", "replace_with", "replace with", "lorem ipsum", "todo:",
		}},
		{Category: CategoryDeprecated, Keywords: []string{
			"deprecated", "outdated", "obsolete", "no longer", "old version", "deprecation",
		}},
		{Category: CategorySuggested, Keywords: []string{
			"suggest", "suggestion", "content update", "update content",
			"needs update", "fix content", "improve", "clarify", "add section",
		}},
	}
}

// moduleUpdateTitleRE recognizes titles like
// "MS Learn Module Update Request: Intro to Widgets".
var moduleUpdateTitleRE = regexp.MustCompile(`(?i)^\s*ms\s*learn\s*module\s*update\s*request\s*:`)

var whitespaceRE = regexp.MustCompile(`\s+`)

func normalizeWhitespace(s string) string {
	return whitespaceRE.ReplaceAllString(strings.TrimSpace(s), " ")
}

// Classifier assigns each issue to exactly one category using an ordered
// keyword rule list.
type Classifier struct {
	rules []Rule
}

// NewClassifier creates a classifier with the given ordered rules. Passing
// nil uses DefaultRules.
func NewClassifier(rules []Rule) *Classifier {
	if rules == nil {
		rules = DefaultRules()
	}
	return &Classifier{rules: rules}
}

// Classify maps (title, labels, body) to a category. The title prefix bucket
// is checked first, then each keyword rule in order against the combined
// title, label names and body; unmatched issues fall through to Other.
// Matching is case-insensitive substring.
func (c *Classifier) Classify(title string, labels []string, body string) string {
	titleNorm := normalizeWhitespace(title)
	if moduleUpdateTitleRE.MatchString(titleNorm) {
		return CategoryModuleUpdate
	}

	parts := make([]string, 0, len(labels))
	for _, l := range labels {
		parts = append(parts, normalizeWhitespace(l))
	}
	blob := strings.ToLower(titleNorm + "\n" + strings.Join(parts, " | ") + "\n" + body)

	for _, rule := range c.rules {
		for _, kw := range rule.Keywords {
			if kw != "" && strings.Contains(blob, strings.ToLower(kw)) {
				return rule.Category
			}
		}
	}
	return CategoryOther
}

// Classify applies the default rules. See Classifier.Classify.
func Classify(title string, labels []string, body string) string {
	return NewClassifier(nil).Classify(title, labels, body)
}
