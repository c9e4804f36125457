// Package knowledge loads the static, versioned rule tables every scan
// engine consults: SAST crypto-usage patterns, the vulnerable-import table
// for the Python structural pass, config/cipher patterns, and the SCA
// PQC-risk knowledge base. All assets are embedded at build time and
// decoded once at package init, per SPEC_FULL.md §9.
package knowledge

import (
	"embed"
	"fmt"

	"gopkg.in/yaml.v3"
)

//go:embed assets/*.yaml
var assetsFS embed.FS

// SASTRule is one entry of the per-language SAST crypto-pattern table.
type SASTRule struct {
	Patterns       []string `yaml:"patterns"`
	Severity       string   `yaml:"severity"`
	Algorithm      string   `yaml:"algorithm"`
	Description    string   `yaml:"description"`
	Recommendation string   `yaml:"recommendation"`
}

// ConfigRule is one entry of the config/cipher crypto-pattern table.
type ConfigRule struct {
	Patterns       []string `yaml:"patterns"`
	Severity       string   `yaml:"severity"`
	Description    string   `yaml:"description"`
	Recommendation string   `yaml:"recommendation"`
}

// SCAEntry is one knowledge-base row a parsed dependency is matched
// against.
type SCAEntry struct {
	Severity               string   `yaml:"severity"`
	Reason                 string   `yaml:"reason"`
	PQCSupport             string   `yaml:"pqcSupport"`
	Alternatives           []string `yaml:"alternatives"`
	AllVersionsVulnerable  bool     `yaml:"allVersionsVulnerable"`
	VulnerableVersions     []string `yaml:"vulnerableVersions"`
}

var (
	sastRules    map[string]map[string]SASTRule
	vulnerableAPIs map[string][]string
	configRules  map[string]ConfigRule
	scaKB        map[string]map[string]SCAEntry
)

func init() {
	mustLoad("assets/sast_rules.yaml", &sastRules)
	mustLoad("assets/vulnerable_apis.yaml", &vulnerableAPIs)
	mustLoad("assets/config_rules.yaml", &configRules)
	mustLoad("assets/sca_knowledge_base.yaml", &scaKB)
}

func mustLoad(path string, out interface{}) {
	data, err := assetsFS.ReadFile(path)
	if err != nil {
		panic(fmt.Sprintf("knowledge: reading embedded asset %s: %v", path, err))
	}
	if err := yaml.Unmarshal(data, out); err != nil {
		panic(fmt.Sprintf("knowledge: decoding embedded asset %s: %v", path, err))
	}
}

// SASTRules returns the crypto-pattern rule table for language, or nil if
// the language has no SAST rules.
func SASTRules(language string) map[string]SASTRule {
	return sastRules[language]
}

// VulnerableAPIs returns the vulnerable-import list for language, used by
// the Python structural pass.
func VulnerableAPIs(language string) []string {
	return vulnerableAPIs[language]
}

// ConfigRules returns the full config/cipher crypto-pattern table.
func ConfigRules() map[string]ConfigRule {
	return configRules
}

// SCAKnowledgeBase returns the PQC-risk knowledge base for language,
// keyed by normalized library name.
func SCAKnowledgeBase(language string) map[string]SCAEntry {
	return scaKB[language]
}
