// Package fusion combines the three scan engines' raw reports into the
// normalized finding stream, the PQC readiness inventory, the repository
// risk heatmap, and the ranked remediation list, grounded on the original
// implementation's aggregator module.
package fusion

import "strings"

// severityWeight assigns each canonical severity its contribution to the
// readiness-score aggregate, per spec §4.6.
var severityWeight = map[string]float64{
	"CRITICAL": 4,
	"HIGH":     3,
	"MEDIUM":   2,
	"LOW":      1,
	"INFO":     0.5,
}

// algoWeight boosts the readiness-score contribution of algorithms and weak
// hashes known to be quantum-vulnerable or cryptographically broken.
func algoWeight(algorithm string) float64 {
	a := strings.ToLower(algorithm)
	switch {
	case containsAny(a, "rsa", "ecc", "ecdsa", "dsa", "dh", "diffie"):
		return 1.6
	case containsAny(a, "md5", "sha1", "weak hash"):
		return 1.3
	default:
		return 1.0
	}
}

func containsAny(s string, substrs ...string) bool {
	for _, sub := range substrs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
