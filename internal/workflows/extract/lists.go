package extract

import (
	"regexp"
	"strings"
	"unicode"
)

// topicVocabulary is the fixed set of topics a PR analysis may be tagged
// with. Presence checks only; no fuzzy matching.
var topicVocabulary = []string{
	"security",
	"performance",
	"testing",
	"documentation",
	"refactoring",
	"api",
	"database",
	"frontend",
	"backend",
	"infrastructure",
	"ci",
}

var tagVocabulary = []string{
	"bug",
	"regression",
	"security",
	"performance",
	"ux",
	"tech-debt",
	"documentation",
	"flaky",
}

// Topics returns every vocabulary topic mentioned in the analysis, in
// vocabulary order.
func Topics(text string) []string {
	return vocabularyHits(text, topicVocabulary)
}

// Tags returns every vocabulary tag mentioned in the analysis, in vocabulary
// order.
func Tags(text string) []string {
	return vocabularyHits(text, tagVocabulary)
}

func vocabularyHits(text string, vocabulary []string) []string {
	lower := strings.ToLower(text)
	var out []string
	for _, term := range vocabulary {
		if strings.Contains(lower, term) {
			out = append(out, term)
		}
	}
	return out
}

var categoryLevels = []rankedLevel{
	{"security", []string{"security", "vulnerability", "cve"}},
	{"bug", []string{"bug", "crash", "error", "broken", "fails"}},
	{"performance", []string{"performance", "slow", "latency", "memory"}},
	{"documentation", []string{"documentation", "docs", "readme"}},
	{"feature", []string{"feature", "enhancement", "request"}},
	{"question", []string{"question", "how do", "how to"}},
}

// Category classifies the issue from the analysis text. Defaults to general.
func Category(text string) string {
	return scanLevels(text, categoryLevels, "general")
}

var (
	dependencyRe = regexp.MustCompile(`(?:(?i:depends on|blocked by|requires))[\s:]+([A-Z]+-\d+)`)
	ticketKeyRe  = regexp.MustCompile(`\b[A-Z]+-\d+\b`)
)

// Dependencies collects ticket keys named by dependency phrases, in document
// order, deduplicated.
func Dependencies(text string) []string {
	var out []string
	seen := make(map[string]struct{})
	for _, m := range dependencyRe.FindAllStringSubmatch(text, -1) {
		key := m[1]
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, key)
	}
	return out
}

// TicketKeys collects every ticket-like token in the text, in document
// order, deduplicated.
func TicketKeys(text string) []string {
	var out []string
	seen := make(map[string]struct{})
	for _, key := range ticketKeyRe.FindAllString(text, -1) {
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, key)
	}
	return out
}

var stopWords = map[string]struct{}{
	"the": {}, "this": {}, "that": {}, "with": {}, "from": {}, "have": {},
	"been": {}, "were": {}, "will": {}, "would": {}, "should": {},
	"could": {}, "about": {}, "into": {}, "only": {}, "over": {},
	"such": {}, "than": {}, "then": {}, "them": {}, "they": {},
	"what": {}, "when": {}, "where": {}, "which": {}, "while": {},
	"your": {}, "just": {}, "like": {}, "also": {}, "does": {},
	"after": {}, "before": {}, "there": {}, "their": {},
}

// SearchKeywords extracts up to ten significant lowercase words (longer than
// three characters, stop-word filtered) from the text, in document order.
func SearchKeywords(text string) []string {
	words := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	var out []string
	seen := make(map[string]struct{})
	for _, w := range words {
		if len(w) <= 3 {
			continue
		}
		if _, stop := stopWords[w]; stop {
			continue
		}
		if _, dup := seen[w]; dup {
			continue
		}
		seen[w] = struct{}{}
		out = append(out, w)
		if len(out) == 10 {
			break
		}
	}
	return out
}
