package fusion

import (
	"crypto/sha256"
	"encoding/hex"
	"strconv"

	"github.com/pqcshield/scanner/internal/model"
)

// dedupKey builds the collision key spec §4.6 defines: scannerType, ruleId,
// filePath, lineStart, lineEnd, and the sha256 of the evidence text (empty
// string if absent).
func dedupKey(f model.Finding) string {
	var evidence string
	if f.Evidence != nil {
		evidence = *f.Evidence
	}
	sum := sha256.Sum256([]byte(evidence))

	return string(f.ScannerType) + "|" + f.RuleID + "|" +
		derefString(f.FilePath) + "|" +
		derefInt(f.LineStart) + "|" +
		derefInt(f.LineEnd) + "|" +
		hex.EncodeToString(sum[:])
}

func derefString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func derefInt(i *int) string {
	if i == nil {
		return ""
	}
	return strconv.Itoa(*i)
}

// dedup collapses findings sharing a dedupKey, keeping the first occurrence
// and incrementing its duplicate_count on every subsequent collision.
// Order of first appearance is preserved.
func dedup(findings []model.Finding) []model.Finding {
	seen := make(map[string]int, len(findings))
	out := make([]model.Finding, 0, len(findings))

	for _, f := range findings {
		key := dedupKey(f)
		if idx, ok := seen[key]; ok {
			existing := &out[idx]
			count := existing.DuplicateCount() + 1
			if existing.Meta == nil {
				existing.Meta = map[string]string{}
			}
			existing.Meta["duplicate_count"] = strconv.Itoa(count)
			continue
		}
		if f.Meta == nil {
			f.Meta = map[string]string{}
		}
		f.Meta["duplicate_count"] = "1"
		seen[key] = len(out)
		out = append(out, f)
	}

	return out
}
