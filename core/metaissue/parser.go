// Package metaissue parses the body of a meta tracking issue: a markdown
// document organized into category sections, each listing links to other
// issues. The parser is deliberately tolerant, since meta issue bodies are
// hand-written and mix headings, bold lines and list items freely.
package metaissue

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	issuePathRE     = regexp.MustCompile(`/issues/(\d+)\b`)
	headingMarkerRE = regexp.MustCompile(`^#{1,6}\s+`)
	listMarkerRE    = regexp.MustCompile(`^[-*+]\s+`)
	orderedListRE   = regexp.MustCompile(`^\d+[.)]\s+`)
	boldRE          = regexp.MustCompile(`^\*\*(.+)\*\*$`)
	boldAltRE       = regexp.MustCompile(`^__(.+)__$`)
	italicRE        = regexp.MustCompile(`^\*(.+)\*$`)
	italicAltRE     = regexp.MustCompile(`^_(.+)_$`)
	trailingColonRE = regexp.MustCompile(`:\s*$`)
	whitespaceRE    = regexp.MustCompile(`\s+`)
)

func normalizeWhitespace(s string) string {
	return whitespaceRE.ReplaceAllString(strings.TrimSpace(s), " ")
}

func normalizeKey(s string) string {
	return strings.ToLower(normalizeWhitespace(s))
}

// stripDecorations removes markdown noise from a line so it can be compared
// against category labels: heading markers, list markers, full-line
// bold/italic wrappers and a trailing colon.
func stripDecorations(line string) string {
	s := strings.TrimSpace(line)
	s = headingMarkerRE.ReplaceAllString(s, "")
	s = listMarkerRE.ReplaceAllString(s, "")
	s = orderedListRE.ReplaceAllString(s, "")
	s = boldRE.ReplaceAllString(s, "$1")
	s = boldAltRE.ReplaceAllString(s, "$1")
	s = italicRE.ReplaceAllString(s, "$1")
	s = italicAltRE.ReplaceAllString(s, "$1")
	s = trailingColonRE.ReplaceAllString(s, "")
	return normalizeWhitespace(s)
}

// ExtractIssueNumbers returns the issue numbers referenced via an
// "/issues/<digits>" path in text, in order of first appearance.
func ExtractIssueNumbers(text string) []int {
	var nums []int
	seen := make(map[int]bool)
	for _, m := range issuePathRE.FindAllStringSubmatch(text, -1) {
		n, err := strconv.Atoi(m[1])
		if err != nil || seen[n] {
			continue
		}
		seen[n] = true
		nums = append(nums, n)
	}
	return nums
}

// isCategoryHeading reports whether key (a normalized candidate heading)
// equals or is a word-boundary prefix match of one of the known keys.
func isCategoryHeading(key string, knownKeys []string) bool {
	for _, k := range knownKeys {
		if key == k || strings.HasPrefix(key, k+" ") {
			return true
		}
	}
	return false
}

// ParseBody maps each referenced issue number to the category section it was
// first referenced under. categories is the set of recognized section labels;
// the exact stripped heading text from the body is preserved as the value.
//
// A line becomes the current category when, stripped of markdown
// decorations, it equals or extends a known category label. Issue references
// on lines before the first recognized heading are ignored. A heading-like
// line that matches no known category is inert: it neither starts a section
// nor clears the current one, so references after it still accumulate under
// the last recognized category. Duplicate references keep their first
// category.
func ParseBody(body string, categories []string) map[int]string {
	knownKeys := make([]string, 0, len(categories))
	for _, c := range categories {
		knownKeys = append(knownKeys, normalizeKey(c))
	}

	mapping := make(map[int]string)
	currentCategory := ""

	for _, line := range strings.Split(body, "\n") {
		candidate := stripDecorations(line)
		if candidate != "" && isCategoryHeading(normalizeKey(candidate), knownKeys) {
			currentCategory = candidate
			continue
		}

		if currentCategory == "" {
			continue
		}

		for _, n := range ExtractIssueNumbers(line) {
			if _, seen := mapping[n]; !seen {
				mapping[n] = currentCategory
			}
		}
	}

	return mapping
}
