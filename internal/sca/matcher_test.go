package sca

import (
	"testing"

	"github.com/pqcshield/scanner/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeName(t *testing.T) {
	assert.Equal(t, "rsa", normalizeName("python-rsa"))
	assert.Equal(t, "rsa", normalizeName("py-rsa"))
	assert.Equal(t, "jsonwebtoken", normalizeName("@types/jsonwebtoken"))
	assert.Equal(t, "rsa", normalizeName("node-rsa"))
	assert.Equal(t, "some-library", normalizeName("some-library"))
}

func TestMatch_ExactNormalized(t *testing.T) {
	dep := model.Dependency{Name: "python-rsa", Version: "4.0"}
	result, ok := match(dep, "python")
	require.True(t, ok)
	assert.True(t, result.entry.AllVersionsVulnerable)
}

func TestMatch_CryptographyVersionRange(t *testing.T) {
	dep := model.Dependency{Name: "cryptography", Version: "1.2.0"}
	result, ok := match(dep, "python")
	require.True(t, ok)
	assert.True(t, IsVersionVulnerable(dep.Version, result.entry.VulnerableVersions))

	dep.Version = "5.0.0"
	assert.False(t, IsVersionVulnerable(dep.Version, result.entry.VulnerableVersions))
}

func TestMatch_NoHit(t *testing.T) {
	dep := model.Dependency{Name: "totally-unrelated-package", Version: "1.0.0"}
	_, ok := match(dep, "python")
	assert.False(t, ok)
}

func TestNormalizeLanguage(t *testing.T) {
	assert.Equal(t, "javascript", normalizeLanguage("typescript"))
	assert.Equal(t, "javascript", normalizeLanguage("node"))
	assert.Equal(t, "python", normalizeLanguage("py"))
	assert.Equal(t, "go", normalizeLanguage("go"))
}
