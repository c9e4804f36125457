package sast

import (
	"regexp"
	"strings"

	"github.com/pqcshield/scanner/internal/knowledge"
	"github.com/pqcshield/scanner/internal/model"
)

// pythonAnalyzer is the two-pass hybrid analyzer specified in §4.3: a
// structural pass over import and call shapes, followed by a regex pass
// over the raw source that drops any hit on a line the structural pass
// already flagged.
//
// The structural pass here is a line-oriented approximation rather than a
// full AST visitor; see SPEC_FULL.md §9 for why (no Python-grammar parser
// exists in this codebase's dependency lineage) and what it gives up
// (multi-line imports/calls are not recognized).
type pythonAnalyzer struct {
	regex *regexAnalyzer
}

func newPythonAnalyzer() *pythonAnalyzer {
	return &pythonAnalyzer{regex: newRegexAnalyzer("python")}
}

var (
	importRe     = regexp.MustCompile(`^\s*import\s+([\w.]+)`)
	fromImportRe = regexp.MustCompile(`^\s*from\s+([\w.]+)\s+import\s+([\w.]+)`)
	generateCallRe = regexp.MustCompile(`(\w+)\.generate\(`)
)

func (a *pythonAnalyzer) Analyze(source string) ([]model.Vulnerability, error) {
	structural, flaggedLines := a.structuralPass(source)
	regexHits, err := a.regex.analyzeExcluding(source, flaggedLines)
	if err != nil {
		return nil, err
	}
	out := append(structural, regexHits...)
	return out, nil
}

func (a *pythonAnalyzer) structuralPass(source string) ([]model.Vulnerability, map[int]bool) {
	vulnerableAPIs := knowledge.VulnerableAPIs("python")
	apiSet := make(map[string]bool, len(vulnerableAPIs))
	for _, api := range vulnerableAPIs {
		apiSet[api] = true
	}

	var out []model.Vulnerability
	flagged := map[int]bool{}
	lines := strings.Split(source, "\n")

	for i, line := range lines {
		lineNum := i + 1

		if m := fromImportRe.FindStringSubmatch(line); m != nil {
			module := m[1] + "." + m[2]
			if apiSet[module] || apiSet[m[1]] {
				out = append(out, model.Vulnerability{
					Type:        "vulnerable_import",
					Line:        lineNum,
					Code:        strings.TrimSpace(line),
					Severity:    "MEDIUM",
					Algorithm:   algorithmFromImport(module),
					Description: "Import of a known quantum-vulnerable cryptography API.",
					Recommendation: "Audit usages of this import and plan migration to a PQC-safe alternative.",
				})
				flagged[lineNum] = true
				continue
			}
		}

		if m := importRe.FindStringSubmatch(line); m != nil {
			if apiSet[m[1]] {
				out = append(out, model.Vulnerability{
					Type:        "vulnerable_import",
					Line:        lineNum,
					Code:        strings.TrimSpace(line),
					Severity:    "MEDIUM",
					Algorithm:   algorithmFromImport(m[1]),
					Description: "Import of a known quantum-vulnerable cryptography API.",
					Recommendation: "Audit usages of this import and plan migration to a PQC-safe alternative.",
				})
				flagged[lineNum] = true
				continue
			}
		}

		if m := generateCallRe.FindStringSubmatch(line); m != nil && m[1] == "RSA" {
			out = append(out, model.Vulnerability{
				Type:        "rsa_generation",
				Line:        lineNum,
				Code:        strings.TrimSpace(line),
				Severity:    "HIGH",
				Algorithm:   "RSA",
				Description: "RSA key generation detected - vulnerable to quantum attacks via Shor's algorithm.",
				Recommendation: "Migrate to a PQC-safe key encapsulation mechanism such as Kyber.",
			})
			flagged[lineNum] = true
		}
	}

	return out, flagged
}

func algorithmFromImport(module string) string {
	lower := strings.ToLower(module)
	switch {
	case strings.Contains(lower, "ecdsa"), strings.Contains(lower, ".ec"), strings.HasSuffix(lower, "ec"):
		return "ECDSA"
	case strings.Contains(lower, "rsa"):
		return "RSA"
	default:
		return "Unknown"
	}
}
