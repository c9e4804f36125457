// Package severity canonicalizes the heterogeneous severity strings each
// scan engine emits into a single closed vocabulary with integer scores,
// ported from the original implementation's severity_map module.
package severity

import "strings"

const (
	Critical = "CRITICAL"
	High     = "HIGH"
	Medium   = "MEDIUM"
	Low      = "LOW"
	Info     = "INFO"
)

// Score maps each canonical severity to its integer weight.
var Score = map[string]int{
	Critical: 100,
	High:     80,
	Medium:   50,
	Low:      20,
	Info:     5,
}

var aliases = map[string]string{
	"WARN":    Medium,
	"WARNING": Medium,
	"SEVERE":  High,
}

// Canonicalize maps an arbitrary scanner-reported severity string to its
// canonical form and integer score. Unknown or empty input canonicalizes
// to MEDIUM, never an error.
func Canonicalize(value string) (string, int) {
	v := strings.ToUpper(strings.TrimSpace(value))
	if v == "" {
		return Medium, Score[Medium]
	}
	if score, ok := Score[v]; ok {
		return v, score
	}
	if canon, ok := aliases[v]; ok {
		return canon, Score[canon]
	}
	return Medium, Score[Medium]
}
