package fusion

import (
	"strings"

	"github.com/pqcshield/scanner/internal/logger"
	"github.com/pqcshield/scanner/internal/model"
	"github.com/pqcshield/scanner/internal/severity"
	"go.uber.org/zap"
)

// normalize builds the normalized, not yet deduplicated finding stream from the three raw
// engine reports, one Finding per SAST vulnerability, SCA vulnerable
// dependency, and config finding, per spec §4.6.
func normalize(sast model.SASTReport, sca model.SCAReport, cfg model.ConfigReport) []model.Finding {
	var findings []model.Finding

	for _, fr := range sast.Results {
		if fr.Skipped {
			continue
		}
		for _, v := range fr.Vulnerabilities {
			findings = append(findings, sastFinding(fr.FilePath, v))
		}
	}

	for _, fr := range sca.Results {
		if fr.Skipped {
			continue
		}
		for _, dep := range fr.VulnerableDependencies {
			findings = append(findings, scaFinding(fr.FilePath, dep))
		}
	}

	for _, fr := range cfg.DetailedResults {
		for _, f := range fr.Findings {
			findings = append(findings, configFinding(fr.FilePath, f))
		}
	}

	return validate(findings)
}

func sastFinding(filePath string, v model.Vulnerability) model.Finding {
	canon, score := severity.Canonicalize(v.Severity)
	line := v.Line
	algorithm := v.Algorithm

	return model.Finding{
		ScannerType:   model.ScannerSAST,
		RuleID:        v.Type,
		Severity:      canon,
		SeverityScore: score,
		Algorithm:     optionalString(algorithm),
		FilePath:      optionalString(filePath),
		LineStart:     &line,
		LineEnd:       &line,
		Evidence:      optionalString(v.Code),
		Meta: map[string]string{
			"scannerType": string(model.ScannerSAST),
			"ruleId":      v.Type,
			"message":     v.Description,
		},
	}
}

func scaFinding(manifestPath string, dep model.VulnerableDependency) model.Finding {
	canon, score := severity.Canonicalize(dep.Severity)
	evidence := dep.Name + "@" + dep.Version

	return model.Finding{
		ScannerType:   model.ScannerSCA,
		RuleID:        dep.Name,
		Severity:      canon,
		SeverityScore: score,
		FilePath:      optionalString(manifestPath),
		Evidence:      optionalString(evidence),
		Meta: map[string]string{
			"scannerType": string(model.ScannerSCA),
			"ruleId":      dep.Name,
			"message":     dep.Reason,
		},
	}
}

var configAlgorithm = map[string]string{
	"rsa_cipher":      "RSA",
	"ecdsa_cipher":     "ECC",
	"rsa_certificate":  "RSA",
	"ecc_certificate":  "ECC",
}

func configFinding(filePath string, f model.ConfigFinding) model.Finding {
	canon, score := severity.Canonicalize(f.Severity)

	var line *int
	if f.Line > 0 {
		l := f.Line
		line = &l
	}

	evidence := f.MatchedText
	if evidence == "" {
		evidence = f.Description
	}

	finding := model.Finding{
		ScannerType:   model.ScannerConfig,
		RuleID:        f.Type,
		Severity:      canon,
		SeverityScore: score,
		FilePath:      optionalString(filePath),
		LineStart:     line,
		LineEnd:       line,
		Evidence:      optionalString(evidence),
		Meta: map[string]string{
			"scannerType": string(model.ScannerConfig),
			"ruleId":      f.Type,
			"message":     f.Description,
		},
	}
	if algo, ok := configAlgorithm[f.Type]; ok {
		finding.Algorithm = optionalString(algo)
	}
	for k, v := range f.Meta {
		finding.Meta[k] = v
	}
	return finding
}

func optionalString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// validate drops findings missing a required field, logging each drop as a
// warning rather than failing the scan (spec §4.6/§7 soft-error category).
func validate(findings []model.Finding) []model.Finding {
	log := logger.Get()
	out := make([]model.Finding, 0, len(findings))
	for _, f := range findings {
		if strings.TrimSpace(f.RuleID) == "" {
			log.Warn("fusion: dropping finding with empty ruleId")
			continue
		}
		if f.Meta["scannerType"] == "" || f.Meta["ruleId"] == "" {
			log.Warn("fusion: dropping finding missing required meta", zap.String("ruleId", f.RuleID))
			continue
		}
		if _, ok := f.Meta["message"]; !ok {
			log.Warn("fusion: dropping finding missing meta message", zap.String("ruleId", f.RuleID))
			continue
		}
		if _, ok := severity.Score[f.Severity]; !ok {
			log.Warn("fusion: dropping finding with non-canonical severity", zap.String("ruleId", f.RuleID), zap.String("severity", f.Severity))
			continue
		}
		out = append(out, f)
	}
	return out
}
