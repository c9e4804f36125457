package classifier

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/pqcshield/scanner/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustWrite(t *testing.T, root, rel, content string) {
	t.Helper()
	path := filepath.Join(root, rel)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestAnalyze_ClassificationIsTotalAndDisjoint(t *testing.T) {
	root := t.TempDir()
	mustWrite(t, root, "main.py", "import os\n")
	mustWrite(t, root, "requirements.txt", "flask==2.0.0\n")
	mustWrite(t, root, "nginx.conf", "ssl_protocols TLSv1.2;\n")
	mustWrite(t, root, "README.md", "# hi\n")
	mustWrite(t, root, "node_modules/pkg/index.js", "module.exports = {}\n")
	mustWrite(t, root, ".git/HEAD", "ref: refs/heads/main\n")

	analysis, err := Analyze(root)
	require.NoError(t, err)

	// node_modules and .git content must never appear.
	for _, m := range analysis.FileMetadataList {
		assert.NotContains(t, m.FilePath, "node_modules")
		assert.NotContains(t, m.FilePath, ".git/")
	}

	// Every surviving file has exactly one category from the closed vocabulary.
	valid := map[model.Category]bool{
		model.CategorySourceCode: true, model.CategoryConfiguration: true,
		model.CategoryDependencyManifest: true, model.CategoryDocumentation: true,
		model.CategoryBinary: true, model.CategoryUnknown: true,
	}
	for _, m := range analysis.FileMetadataList {
		assert.True(t, valid[m.Category], "unexpected category %q for %s", m.Category, m.FilePath)
	}
}

func TestAnalyze_DependencyManifestLanguageOverride(t *testing.T) {
	root := t.TempDir()
	mustWrite(t, root, "requirements.txt", "rsa==4.0\n")

	analysis, err := Analyze(root)
	require.NoError(t, err)
	require.Len(t, analysis.ScannerTargets.SCATargets, 1)
	assert.Equal(t, "python", analysis.ScannerTargets.SCATargets[0].Language)
}

func TestAnalyze_CryptoConfigRoutedToConfigTargets(t *testing.T) {
	root := t.TempDir()
	mustWrite(t, root, "config/nginx.conf", "ssl_certificate /etc/ssl/cert.pem;\n")
	mustWrite(t, root, "config/app.conf", "port = 8080\n")

	analysis, err := Analyze(root)
	require.NoError(t, err)

	var paths []string
	for _, m := range analysis.ScannerTargets.ConfigTargets {
		paths = append(paths, m.FilePath)
	}
	assert.Contains(t, paths, "config/nginx.conf")
	assert.NotContains(t, paths, "config/app.conf")
}

func TestAnalyze_LanguageStatsSumToTotalBytes(t *testing.T) {
	root := t.TempDir()
	mustWrite(t, root, "a.py", "print(1)\n")
	mustWrite(t, root, "b.py", "print(2)\n")
	mustWrite(t, root, "c.go", "package main\n")

	analysis, err := Analyze(root)
	require.NoError(t, err)

	var total float64
	for _, s := range analysis.LanguageStats {
		total += s.Percentage
	}
	assert.InDelta(t, 100.0, total, 0.1)
}

func TestAnalyze_ConfigPathKeywordOverridesSourceExtension(t *testing.T) {
	root := t.TempDir()
	mustWrite(t, root, "config/settings.py", "DEBUG = True\n")

	analysis, err := Analyze(root)
	require.NoError(t, err)

	var got model.Category
	for _, m := range analysis.FileMetadataList {
		if m.FilePath == "config/settings.py" {
			got = m.Category
		}
	}
	assert.Equal(t, model.CategoryConfiguration, got)
}

func TestAnalyze_SpecificConfigFilenamesAreConfiguration(t *testing.T) {
	root := t.TempDir()
	mustWrite(t, root, "Dockerfile", "FROM scratch\n")
	mustWrite(t, root, ".env", "SECRET=1\n")

	analysis, err := Analyze(root)
	require.NoError(t, err)

	byPath := map[string]model.Category{}
	for _, m := range analysis.FileMetadataList {
		byPath[m.FilePath] = m.Category
	}
	assert.Equal(t, model.CategoryConfiguration, byPath["Dockerfile"])
	assert.Equal(t, model.CategoryConfiguration, byPath[".env"])
}

func TestShouldIgnoreDir(t *testing.T) {
	assert.True(t, ShouldIgnoreDir("node_modules"))
	assert.True(t, ShouldIgnoreDir(".git"))
	assert.False(t, ShouldIgnoreDir("src"))
}
