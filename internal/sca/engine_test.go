package sca

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/pqcshield/scanner/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScanFile_FlagsVulnerableDependency(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "requirements.txt")
	require.NoError(t, os.WriteFile(path, []byte("cryptography==1.2.0\nflask==2.0.0\n"), 0o644))

	meta := model.FileMetadata{
		FilePath:     "requirements.txt",
		AbsolutePath: path,
		FileName:     "requirements.txt",
		Language:     "python",
	}

	result := ScanFile(meta)
	require.False(t, result.Skipped)
	assert.Equal(t, 2, result.TotalDependencies)
	require.Len(t, result.VulnerableDependencies, 1)
	assert.Equal(t, "cryptography", result.VulnerableDependencies[0].Name)
}

func TestScanFile_UnsupportedManifestSkips(t *testing.T) {
	meta := model.FileMetadata{FileName: "Gemfile", AbsolutePath: "/nonexistent/Gemfile"}
	result := ScanFile(meta)
	assert.True(t, result.Skipped)
}
