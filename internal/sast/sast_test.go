package sast

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPythonAnalyzer_RSAGenerationAndWeakHash(t *testing.T) {
	source := `import hashlib
from Crypto.PublicKey import RSA

key = RSA.generate(2048)
digest = hashlib.md5(b"data").hexdigest()
`
	a, ok := AnalyzerFor("python")
	require.True(t, ok)

	vulns, err := a.Analyze(source)
	require.NoError(t, err)

	var ruleIDs []string
	for _, v := range vulns {
		ruleIDs = append(ruleIDs, v.Type)
	}
	assert.Contains(t, ruleIDs, "rsa_generation")
	assert.Contains(t, ruleIDs, "weak_hash")

	for _, v := range vulns {
		if v.Type == "rsa_generation" {
			assert.Equal(t, "HIGH", v.Severity)
			assert.Equal(t, "RSA", v.Algorithm)
		}
	}
}

func TestPythonAnalyzer_StructuralPassDedupesAgainstRegexPass(t *testing.T) {
	source := "key = RSA.generate(2048)\n"
	a, ok := AnalyzerFor("python")
	require.True(t, ok)

	vulns, err := a.Analyze(source)
	require.NoError(t, err)

	count := 0
	for _, v := range vulns {
		if v.Type == "rsa_generation" && v.Line == 1 {
			count++
		}
	}
	assert.Equal(t, 1, count, "structural and regex passes must not double-report the same line")
}

func TestJavaScriptAnalyzer_CryptoRequire(t *testing.T) {
	source := `const crypto = require('crypto');
crypto.generateKeyPairSync('rsa', { modulusLength: 2048 });
`
	a, ok := AnalyzerFor("javascript")
	require.True(t, ok)

	vulns, err := a.Analyze(source)
	require.NoError(t, err)

	var ruleIDs []string
	for _, v := range vulns {
		ruleIDs = append(ruleIDs, v.Type)
	}
	assert.Contains(t, ruleIDs, "crypto_require")
	assert.Contains(t, ruleIDs, "rsa_generation")
}

func TestTypeScriptSharesJavaScriptRules(t *testing.T) {
	_, ok := AnalyzerFor("typescript")
	require.True(t, ok)
}

func TestAnalyzerFor_UnsupportedLanguage(t *testing.T) {
	_, ok := AnalyzerFor("cobol")
	assert.False(t, ok)
}

func TestGoAnalyzer_ECDSAGeneration(t *testing.T) {
	source := `priv, _ := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)`
	a, ok := AnalyzerFor("go")
	require.True(t, ok)

	vulns, err := a.Analyze(source)
	require.NoError(t, err)
	require.Len(t, vulns, 1)
	assert.Equal(t, "ecdsa_generation", vulns[0].Type)
	assert.Equal(t, "ECDSA", vulns[0].Algorithm)
}
