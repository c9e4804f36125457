package knowledge

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSASTRules_KnownLanguagesLoad(t *testing.T) {
	for _, lang := range []string{"python", "javascript", "java", "go"} {
		rules := SASTRules(lang)
		assert.NotEmpty(t, rules, "expected rules for %s", lang)
	}
}

func TestSASTRules_UnknownLanguageIsNilNotPanic(t *testing.T) {
	assert.Nil(t, SASTRules("cobol"))
}

func TestVulnerableAPIs_PythonContainsRSAImport(t *testing.T) {
	apis := VulnerableAPIs("python")
	assert.Contains(t, apis, "Crypto.PublicKey.RSA")
}

func TestConfigRules_NonEmpty(t *testing.T) {
	rules := ConfigRules()
	assert.NotEmpty(t, rules)
	for id, rule := range rules {
		assert.NotEmpty(t, rule.Patterns, "rule %s has no patterns", id)
		assert.NotEmpty(t, rule.Severity, "rule %s has no severity", id)
	}
}

func TestSCAKnowledgeBase_PythonHasEntries(t *testing.T) {
	kb := SCAKnowledgeBase("python")
	assert.NotEmpty(t, kb)
}
