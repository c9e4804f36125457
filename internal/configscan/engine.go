package configscan

import (
	"os"
	"regexp"
	"sort"
	"strings"

	"github.com/pqcshield/scanner/internal/knowledge"
	"github.com/pqcshield/scanner/internal/logger"
	"github.com/pqcshield/scanner/internal/model"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

var certificateExtensions = map[string]bool{".pem": true, ".crt": true, ".cer": true, ".key": true}
var structuredExtensions = map[string]bool{".yml": true, ".yaml": true}

var patternRules = compilePatternRules()

type compiledRule struct {
	id       string
	patterns []*regexp.Regexp
	rule     knowledge.ConfigRule
}

func compilePatternRules() []compiledRule {
	rules := knowledge.ConfigRules()
	ids := make([]string, 0, len(rules))
	for id := range rules {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	out := make([]compiledRule, 0, len(ids))
	for _, id := range ids {
		rule := rules[id]
		var patterns []*regexp.Regexp
		for _, p := range rule.Patterns {
			re, err := regexp.Compile("(?i)" + p)
			if err != nil {
				continue
			}
			patterns = append(patterns, re)
		}
		out = append(out, compiledRule{id: id, patterns: patterns, rule: rule})
	}
	return out
}

// ScanFile dispatches a single configuration or certificate file to the
// appropriate analysis path, per spec §4.5.
func ScanFile(meta model.FileMetadata) model.ConfigResult {
	ext := strings.ToLower(meta.Extension)

	var findings []model.ConfigFinding
	switch {
	case certificateExtensions[ext]:
		findings = analyzeCertificate(meta.AbsolutePath, ext)
	case ext == ".xml":
		findings = scanXML(meta.AbsolutePath)
	case structuredExtensions[ext]:
		findings = scanYAML(meta.AbsolutePath)
	default:
		findings = scanTextConfig(meta.AbsolutePath)
	}

	return model.ConfigResult{
		FilePath:      meta.FilePath,
		TotalFindings: len(findings),
		Findings:      findings,
	}
}

func scanYAML(path string) []model.ConfigFinding {
	content, err := os.ReadFile(path)
	if err != nil {
		return []model.ConfigFinding{{Type: "yaml_parse_error", Severity: "INFO", Description: "YAML read failed: " + err.Error()}}
	}
	findings := patternMatch(string(content))

	// Best-effort structured parse; a failure is swallowed and contributes
	// no additional findings. A successful parse is not currently used to
	// extract structured settings, mirroring an open TODO in the original
	// implementation (see SPEC_FULL.md §4.5).
	var doc interface{}
	_ = yaml.Unmarshal(content, &doc)

	return findings
}

func scanXML(path string) []model.ConfigFinding {
	content, err := os.ReadFile(path)
	if err != nil {
		return []model.ConfigFinding{{Type: "xml_parse_error", Severity: "INFO", Description: "XML read failed: " + err.Error()}}
	}
	return patternMatch(string(content))
}

func scanTextConfig(path string) []model.ConfigFinding {
	content, err := os.ReadFile(path)
	if err != nil {
		return []model.ConfigFinding{{Type: "config_read_error", Severity: "INFO", Description: "Config read failed: " + err.Error()}}
	}
	return patternMatch(string(content))
}

func patternMatch(content string) []model.ConfigFinding {
	var findings []model.ConfigFinding
	for _, cr := range patternRules {
		for _, re := range cr.patterns {
			for _, loc := range re.FindAllStringIndex(content, -1) {
				line := 1 + strings.Count(content[:loc[0]], "\n")
				findings = append(findings, model.ConfigFinding{
					Type:           cr.id,
					Line:           line,
					MatchedText:    content[loc[0]:loc[1]],
					Severity:       cr.rule.Severity,
					Description:    cr.rule.Description,
					Recommendation: cr.rule.Recommendation,
				})
			}
		}
	}
	sort.SliceStable(findings, func(i, j int) bool { return findings[i].Line < findings[j].Line })
	return findings
}

// ScanRepository runs the config engine over every target.
func ScanRepository(targets []model.FileMetadata) model.ConfigReport {
	log := logger.Get()
	log.Info("configscan: scanning", zap.Int("targets", len(targets)))

	results := make([]model.ConfigResult, 0, len(targets))
	totalFindings := 0
	for _, meta := range targets {
		result := ScanFile(meta)
		results = append(results, result)
		totalFindings += result.TotalFindings
	}

	log.Info("configscan: scan complete", zap.Int("totalFindings", totalFindings))

	return model.ConfigReport{
		TotalFilesScanned: len(results),
		TotalFindings:     totalFindings,
		DetailedResults:   results,
	}
}
