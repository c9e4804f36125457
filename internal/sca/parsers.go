// Package sca implements the software-composition-analysis engine (S3):
// manifest parsing, PQC-risk knowledge-base matching, and version
// comparison, grounded on the original implementation's scanners/sca
// package.
package sca

import (
	"bufio"
	"encoding/json"
	"encoding/xml"
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/pqcshield/scanner/internal/model"
)

// Parser turns a manifest file's raw content into a flat dependency list.
type Parser func(path string) ([]model.Dependency, error)

var parsers = map[string]Parser{
	"package.json":     parseNPM,
	"requirements.txt": parsePip,
	"pom.xml":          parseMaven,
	"go.mod":           parseGoMod,
}

// ParserFor returns the registered Parser for a manifest filename, or
// (nil, false) if the filename is not a supported manifest.
func ParserFor(fileName string) (Parser, bool) {
	p, ok := parsers[fileName]
	return p, ok
}

type npmManifest struct {
	Dependencies    map[string]string `json:"dependencies"`
	DevDependencies map[string]string `json:"devDependencies"`
}

func parseNPM(path string) ([]model.Dependency, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading package.json: %w", err)
	}
	var manifest npmManifest
	if err := json.Unmarshal(data, &manifest); err != nil {
		return nil, fmt.Errorf("parsing package.json: %w", err)
	}

	var deps []model.Dependency
	for name, version := range manifest.Dependencies {
		deps = append(deps, model.Dependency{Name: name, Version: strings.TrimLeft(version, "^~>=< "), DepType: "runtime"})
	}
	for name, version := range manifest.DevDependencies {
		deps = append(deps, model.Dependency{Name: name, Version: strings.TrimLeft(version, "^~>=< "), DepType: "dev"})
	}
	return deps, nil
}

var pipLineRe = regexp.MustCompile(`^([a-zA-Z0-9\-_.]+)\s*(==|>=|<=|~=|>|<)?\s*(.*)?$`)

func parsePip(path string) ([]model.Dependency, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("reading requirements.txt: %w", err)
	}
	defer f.Close()

	var deps []model.Dependency
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") || strings.HasPrefix(line, "-") {
			continue
		}
		m := pipLineRe.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		version := strings.TrimSpace(m[3])
		if version == "" {
			version = "unknown"
		}
		deps = append(deps, model.Dependency{Name: m[1], Version: version, DepType: "runtime"})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading requirements.txt: %w", err)
	}
	return deps, nil
}

type mavenDependency struct {
	GroupID    string `xml:"groupId"`
	ArtifactID string `xml:"artifactId"`
	Version    string `xml:"version"`
}

type mavenProject struct {
	Dependencies struct {
		Dependency []mavenDependency `xml:"dependency"`
	} `xml:"dependencies"`
}

func parseMaven(path string) ([]model.Dependency, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading pom.xml: %w", err)
	}
	var project mavenProject
	if err := xml.Unmarshal(data, &project); err != nil {
		return nil, fmt.Errorf("parsing pom.xml: %w", err)
	}

	var deps []model.Dependency
	for _, d := range project.Dependencies.Dependency {
		if d.ArtifactID == "" {
			continue
		}
		name := d.ArtifactID
		if d.GroupID != "" {
			name = d.GroupID + "." + d.ArtifactID
		}
		version := d.Version
		if version == "" {
			version = "unknown"
		}
		deps = append(deps, model.Dependency{Name: name, Version: version, DepType: "runtime"})
	}
	return deps, nil
}

func parseGoMod(path string) ([]model.Dependency, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("reading go.mod: %w", err)
	}
	defer f.Close()

	var deps []model.Dependency
	inRequireBlock := false
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		switch {
		case strings.HasPrefix(line, "require ("):
			inRequireBlock = true
			continue
		case line == ")":
			inRequireBlock = false
			continue
		case strings.HasPrefix(line, "require ") && !strings.Contains(line, "("):
			line = strings.TrimPrefix(line, "require ")
		case !inRequireBlock:
			continue
		}

		line = strings.TrimSpace(strings.SplitN(line, "//", 2)[0])
		if line == "" {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) < 2 {
			continue
		}
		deps = append(deps, model.Dependency{Name: fields[0], Version: strings.TrimPrefix(fields[1], "v"), DepType: "runtime"})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading go.mod: %w", err)
	}
	return deps, nil
}
