// Package sast implements the static-analysis engine (S2): a per-language
// analyzer registry producing cryptographic-usage findings, grounded on
// the original implementation's scanners/sast package and on the
// polymorphism note in SPEC_FULL.md §9.
package sast

import "github.com/pqcshield/scanner/internal/model"

// Analyzer is the capability every supported language implements: given a
// file's full source, produce the vulnerability records found in it.
type Analyzer interface {
	Analyze(source string) ([]model.Vulnerability, error)
}

// registry maps a classifier language tag to the Analyzer that handles it.
// JavaScript and TypeScript intentionally share one regex analyzer built
// from the javascript rule table, per spec §4.3.
var registry = map[string]Analyzer{
	"python":     newPythonAnalyzer(),
	"javascript": newRegexAnalyzer("javascript"),
	"typescript": newRegexAnalyzer("javascript"),
	"java":       newRegexAnalyzer("java"),
	"go":         newRegexAnalyzer("go"),
}

// AnalyzerFor returns the registered Analyzer for language, or (nil,
// false) if the language is unsupported.
func AnalyzerFor(language string) (Analyzer, bool) {
	a, ok := registry[language]
	return a, ok
}
