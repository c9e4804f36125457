package sca

import (
	"regexp"
	"strings"

	"github.com/pqcshield/scanner/internal/knowledge"
	"github.com/pqcshield/scanner/internal/model"
)

var (
	scopePrefixRe   = regexp.MustCompile(`^@[^/]+/`)
	nonAlphaNumRe   = regexp.MustCompile(`[^a-z0-9]+`)
	repeatedDashRe  = regexp.MustCompile(`-+`)
)

var stripPrefixes = []string{"python-", "py-", "node-", "js-", "java-", "lib-"}

// normalizeName lowercases, strips an npm scope prefix, collapses
// non-alphanumerics to a single dash, and strips a common language
// prefix, per spec §4.4.
func normalizeName(name string) string {
	n := strings.ToLower(name)
	n = scopePrefixRe.ReplaceAllString(n, "")
	n = nonAlphaNumRe.ReplaceAllString(n, "-")
	n = repeatedDashRe.ReplaceAllString(n, "-")
	n = strings.Trim(n, "-")
	for _, prefix := range stripPrefixes {
		if strings.HasPrefix(n, prefix) {
			n = strings.TrimPrefix(n, prefix)
			break
		}
	}
	return n
}

// normalizeLanguage maps classifier language aliases onto the knowledge
// base's two-way canonical keys.
func normalizeLanguage(lang string) string {
	switch strings.ToLower(lang) {
	case "js", "node", "nodejs", "typescript", "ts":
		return "javascript"
	case "py":
		return "python"
	default:
		return strings.ToLower(lang)
	}
}

type matchResult struct {
	ruleID    string
	entry     knowledge.SCAEntry
	matchType string
}

// match applies the three-stage matcher over a language's knowledge base:
// exact normalized match, case-insensitive raw match, then bidirectional
// substring match requiring both sides >= 4 characters. First hit wins.
func match(dep model.Dependency, language string) (matchResult, bool) {
	kb := knowledge.SCAKnowledgeBase(normalizeLanguage(language))
	if kb == nil {
		return matchResult{}, false
	}

	normalized := normalizeName(dep.Name)
	if entry, ok := kb[normalized]; ok {
		return matchResult{ruleID: normalized, entry: entry, matchType: "exact"}, true
	}

	lowerName := strings.ToLower(dep.Name)
	for ruleID, entry := range kb {
		if strings.ToLower(ruleID) == lowerName {
			return matchResult{ruleID: ruleID, entry: entry, matchType: "exact"}, true
		}
	}

	if len(normalized) >= 4 {
		for ruleID, entry := range kb {
			if len(ruleID) < 4 {
				continue
			}
			if strings.Contains(normalized, ruleID) || strings.Contains(ruleID, normalized) {
				return matchResult{ruleID: ruleID, entry: entry, matchType: "partial"}, true
			}
		}
	}

	return matchResult{}, false
}
