package sca

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTemp(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestParseNPM(t *testing.T) {
	path := writeTemp(t, "package.json", `{
		"dependencies": {"jsonwebtoken": "^8.5.1"},
		"devDependencies": {"jest": "~29.0.0"}
	}`)
	deps, err := parseNPM(path)
	require.NoError(t, err)
	require.Len(t, deps, 2)

	byName := map[string]string{}
	for _, d := range deps {
		byName[d.Name] = d.Version
	}
	assert.Equal(t, "8.5.1", byName["jsonwebtoken"])
	assert.Equal(t, "29.0.0", byName["jest"])
}

func TestParsePip(t *testing.T) {
	path := writeTemp(t, "requirements.txt", "cryptography==1.2.0\n# a comment\n\nrsa\n-e git+https://example.com/x\n")
	deps, err := parsePip(path)
	require.NoError(t, err)
	require.Len(t, deps, 2)
	assert.Equal(t, "cryptography", deps[0].Name)
	assert.Equal(t, "1.2.0", deps[0].Version)
	assert.Equal(t, "rsa", deps[1].Name)
	assert.Equal(t, "unknown", deps[1].Version)
}

func TestParseMaven(t *testing.T) {
	path := writeTemp(t, "pom.xml", `<project>
		<dependencies>
			<dependency>
				<groupId>org.bouncycastle</groupId>
				<artifactId>bcprov-jdk15on</artifactId>
				<version>1.60</version>
			</dependency>
		</dependencies>
	</project>`)
	deps, err := parseMaven(path)
	require.NoError(t, err)
	require.Len(t, deps, 1)
	assert.Equal(t, "org.bouncycastle.bcprov-jdk15on", deps[0].Name)
	assert.Equal(t, "1.60", deps[0].Version)
}

func TestParseGoMod(t *testing.T) {
	path := writeTemp(t, "go.mod", "module example.com/foo\n\ngo 1.22\n\nrequire (\n\tgolang.org/x/crypto v0.16.0\n\tgithub.com/pkg/errors v0.9.1 // indirect\n)\n")
	deps, err := parseGoMod(path)
	require.NoError(t, err)
	require.Len(t, deps, 2)
	assert.Equal(t, "golang.org/x/crypto", deps[0].Name)
	assert.Equal(t, "0.16.0", deps[0].Version)
}
