package configscan

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/pqcshield/scanner/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTemp(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestScanFile_NginxConfigFindsRSACipher(t *testing.T) {
	path := writeTemp(t, "nginx.conf", "ssl_protocols TLSv1.2;\nssl_ciphers 'ECDHE-RSA-AES256-GCM-SHA384:TLS_RSA_WITH_AES_256_CBC_SHA';\n")
	meta := model.FileMetadata{FilePath: "nginx.conf", AbsolutePath: path, Extension: ".conf"}

	result := ScanFile(meta)
	require.NotZero(t, result.TotalFindings)

	var types []string
	for _, f := range result.Findings {
		types = append(types, f.Type)
	}
	assert.Contains(t, types, "rsa_cipher")
	assert.Contains(t, types, "ecdsa_cipher")
}

func TestScanFile_YAMLBestEffortParseNeverFails(t *testing.T) {
	path := writeTemp(t, "app.yaml", "tls:\n  protocols: [TLSv1.0]\n  not: [valid, yaml, :::\n")
	meta := model.FileMetadata{FilePath: "app.yaml", AbsolutePath: path, Extension: ".yaml"}

	result := ScanFile(meta)
	assert.NotPanics(t, func() { ScanFile(meta) })
	found := false
	for _, f := range result.Findings {
		if f.Type == "outdated_tls" {
			found = true
		}
	}
	assert.True(t, found)
}

func TestScanRepository_Aggregates(t *testing.T) {
	path := writeTemp(t, "settings.xml", "<cipher>DES</cipher>")
	targets := []model.FileMetadata{
		{FilePath: "settings.xml", AbsolutePath: path, Extension: ".xml"},
	}
	report := ScanRepository(targets)
	assert.Equal(t, 1, report.TotalFilesScanned)
	assert.Equal(t, 1, report.TotalFindings)
}
