package sast

import (
	"regexp"
	"sort"
	"strings"

	"github.com/pqcshield/scanner/internal/knowledge"
	"github.com/pqcshield/scanner/internal/model"
)

// regexAnalyzer applies a language's static crypto-pattern table to the
// raw source, with no structural/tree pass. Used directly for
// JavaScript/TypeScript and Java, and as the second pass of the Python
// hybrid analyzer.
type regexAnalyzer struct {
	language string
	ruleIDs  []string
	rules    map[string]knowledge.SASTRule
	compiled map[string][]*regexp.Regexp
}

func newRegexAnalyzer(language string) *regexAnalyzer {
	rules := knowledge.SASTRules(language)
	ruleIDs := make([]string, 0, len(rules))
	compiled := make(map[string][]*regexp.Regexp, len(rules))
	for id, rule := range rules {
		ruleIDs = append(ruleIDs, id)
		var patterns []*regexp.Regexp
		for _, p := range rule.Patterns {
			re, err := regexp.Compile(p)
			if err != nil {
				continue
			}
			patterns = append(patterns, re)
		}
		compiled[id] = patterns
	}
	sort.Strings(ruleIDs)
	return &regexAnalyzer{language: language, ruleIDs: ruleIDs, rules: rules, compiled: compiled}
}

func (a *regexAnalyzer) Analyze(source string) ([]model.Vulnerability, error) {
	return a.analyzeExcluding(source, nil)
}

// analyzeExcluding runs the regex pass, skipping any match whose line
// number is present in excludeLines (used by the Python hybrid analyzer
// to de-duplicate against its structural pass).
func (a *regexAnalyzer) analyzeExcluding(source string, excludeLines map[int]bool) ([]model.Vulnerability, error) {
	var out []model.Vulnerability
	for _, ruleID := range a.ruleIDs {
		rule := a.rules[ruleID]
		for _, re := range a.compiled[ruleID] {
			for _, loc := range re.FindAllStringIndex(source, -1) {
				line := 1 + strings.Count(source[:loc[0]], "\n")
				if excludeLines[line] {
					continue
				}
				out = append(out, model.Vulnerability{
					Type:           ruleID,
					Line:           line,
					Code:           source[loc[0]:loc[1]],
					Severity:       rule.Severity,
					Algorithm:      rule.Algorithm,
					Description:    rule.Description,
					Recommendation: rule.Recommendation,
				})
			}
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Line < out[j].Line })
	return out, nil
}
