package fusion

import (
	"bufio"
	"math"
	"os"
	"path/filepath"
	"sort"

	"github.com/pqcshield/scanner/internal/model"
	"github.com/pqcshield/scanner/internal/severity"
)

// readinessScore implements spec §4.6's PQC readiness formula: an
// exposure-weighted sum over every SAST vulnerability and SCA vulnerable
// dependency, compressed onto a 1-10 scale where 10 means no detected
// exposure and 1 is the worst attainable score.
func readinessScore(sast model.SASTReport, sca model.SCAReport) int {
	var w float64

	for _, fr := range sast.Results {
		if fr.Skipped {
			continue
		}
		for _, v := range fr.Vulnerabilities {
			sev, _ := severityOf(v.Severity)
			w += severityWeight[sev] * algoWeight(v.Algorithm)
		}
	}

	for _, fr := range sca.Results {
		if fr.Skipped {
			continue
		}
		for _, dep := range fr.VulnerableDependencies {
			sev, _ := severityOf(dep.Severity)
			w += severityWeight[sev] * algoWeight(dep.Name)
		}
	}

	if w == 0 {
		return 10
	}

	score := 10 - math.Min(9, w/3)
	score = math.Floor(score)
	if score < 1 {
		score = 1
	}
	return int(score)
}

func severityOf(raw string) (string, int) {
	return severity.Canonicalize(raw)
}

// algorithmRatios counts SAST vulnerabilities only, per the ratio-source
// Open Question resolution in SPEC_FULL.md §9 (SCA/Config findings do not
// contribute to this breakdown).
func algorithmRatios(sast model.SASTReport) map[string]float64 {
	counts := map[string]int{}
	total := 0
	for _, fr := range sast.Results {
		if fr.Skipped {
			continue
		}
		for _, v := range fr.Vulnerabilities {
			if v.Algorithm == "" {
				continue
			}
			counts[v.Algorithm]++
			total++
		}
	}

	ratios := map[string]float64{}
	if total == 0 {
		return ratios
	}
	for algo, count := range counts {
		ratios[algo] = roundTo2(float64(count) / float64(total))
	}
	return ratios
}

// sortedAlgorithmRatios returns the algorithm names of ratios ordered by
// descending ratio, ties broken by name; the ratio values themselves are
// not included.
func sortedAlgorithmRatios(ratios map[string]float64) []string {
	keys := make([]string, 0, len(ratios))
	for k := range ratios {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if ratios[keys[i]] != ratios[keys[j]] {
			return ratios[keys[i]] > ratios[keys[j]]
		}
		return keys[i] < keys[j]
	})
	return keys
}

func roundTo2(v float64) float64 {
	return math.Round(v*100) / 100
}

// inventoryTable groups every SAST vulnerability by algorithm, accumulating
// occurrence locations with a best-effort three-line code snippet and a
// per-algorithm risk score capped at 10.
func inventoryTable(repoPath string, sast model.SASTReport) []model.InventoryEntry {
	type acc struct {
		locations []model.InventoryLocation
		risk      float64
	}
	byAlgo := map[string]*acc{}

	for _, fr := range sast.Results {
		if fr.Skipped {
			continue
		}
		for _, v := range fr.Vulnerabilities {
			if v.Algorithm == "" {
				continue
			}
			a, ok := byAlgo[v.Algorithm]
			if !ok {
				a = &acc{}
				byAlgo[v.Algorithm] = a
			}

			snippet, start := readSnippet(repoPath, fr.FilePath, v.Line)
			a.locations = append(a.locations, model.InventoryLocation{
				FilePath:         fr.FilePath,
				Line:             v.Line,
				CodeSnippet:      snippet,
				SnippetStartLine: start,
				DetectedPattern:  v.Code,
			})

			sev, _ := severityOf(v.Severity)
			a.risk += severityWeight[sev] * algoWeight(v.Algorithm)
		}
	}

	entries := make([]model.InventoryEntry, 0, len(byAlgo))
	for algo, a := range byAlgo {
		risk := a.risk
		if risk > 10 {
			risk = 10
		}
		entries = append(entries, model.InventoryEntry{
			Algorithm: algo,
			Count:     len(a.locations),
			Locations: a.locations,
			RiskScore: roundTo2(risk),
		})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Count > entries[j].Count })
	return entries
}

// readSnippet returns up to three lines of context around line (1-based)
// in repoPath/relFilePath. Any failure — missing file, out-of-range line —
// is tolerated silently and returns an empty snippet, never an error.
func readSnippet(repoPath, relFilePath string, line int) (string, int) {
	if line <= 0 {
		return "", 0
	}

	f, err := os.Open(filepath.Join(repoPath, filepath.FromSlash(relFilePath)))
	if err != nil {
		return "", 0
	}
	defer f.Close()

	start := line - 1
	if start < 1 {
		start = 1
	}
	end := line + 1

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var lines []string
	n := 0
	for scanner.Scan() {
		n++
		if n < start {
			continue
		}
		if n > end {
			break
		}
		lines = append(lines, scanner.Text())
	}

	if len(lines) == 0 {
		return "", 0
	}

	snippet := lines[0]
	for _, l := range lines[1:] {
		snippet += "\n" + l
	}
	return snippet, start
}
