package fusion

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/pqcshield/scanner/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sastVuln(t string, line int, severity, algorithm string) model.Vulnerability {
	return model.Vulnerability{Type: t, Line: line, Code: "x", Severity: severity, Algorithm: algorithm,
		Description: "desc", Recommendation: "rec"}
}

func TestReadinessScore_NoFindingsIsTen(t *testing.T) {
	score := readinessScore(model.SASTReport{}, model.SCAReport{})
	assert.Equal(t, 10, score)
}

func TestReadinessScore_NeverZeroAlwaysBounded(t *testing.T) {
	results := []model.SASTFileResult{{FilePath: "a.py", Vulnerabilities: []model.Vulnerability{
		sastVuln("rsa_generation", 1, "CRITICAL", "RSA"),
		sastVuln("rsa_generation", 2, "CRITICAL", "RSA"),
		sastVuln("rsa_generation", 3, "CRITICAL", "RSA"),
		sastVuln("rsa_generation", 4, "CRITICAL", "RSA"),
		sastVuln("rsa_generation", 5, "CRITICAL", "RSA"),
	}}}
	score := readinessScore(model.SASTReport{Results: results}, model.SCAReport{})
	assert.GreaterOrEqual(t, score, 1)
	assert.LessOrEqual(t, score, 10)
}

func TestAlgorithmRatios_OnlyCountsSAST(t *testing.T) {
	sast := model.SASTReport{Results: []model.SASTFileResult{{
		FilePath: "a.py",
		Vulnerabilities: []model.Vulnerability{
			sastVuln("rsa_generation", 1, "HIGH", "RSA"),
			sastVuln("ecdsa_generation", 2, "HIGH", "ECDSA"),
			sastVuln("rsa_generation", 3, "HIGH", "RSA"),
		},
	}}}

	ratios := algorithmRatios(sast)
	assert.InDelta(t, 0.67, ratios["RSA"], 0.01)
	assert.InDelta(t, 0.33, ratios["ECDSA"], 0.01)

	var sum float64
	for _, v := range ratios {
		sum += v
	}
	assert.InDelta(t, 1.0, sum, 0.02)
}

func TestDedup_CollapsesIdenticalFindingsAndIncrementsCount(t *testing.T) {
	line := 10
	path := "a.py"
	evidence := "RSA.generate(2048)"
	f := model.Finding{
		ScannerType: model.ScannerSAST, RuleID: "rsa_generation", Severity: "HIGH",
		FilePath: &path, LineStart: &line, LineEnd: &line, Evidence: &evidence,
		Meta: map[string]string{"scannerType": "SAST", "ruleId": "rsa_generation", "message": "m"},
	}
	g := f
	out := dedup([]model.Finding{f, g})
	require.Len(t, out, 1)
	assert.Equal(t, 2, out[0].DuplicateCount())
}

func TestDedup_DistinctLinesNeverCollapse(t *testing.T) {
	l1, l2 := 1, 2
	path := "a.py"
	ev := "x"
	f1 := model.Finding{ScannerType: model.ScannerSAST, RuleID: "r", FilePath: &path, LineStart: &l1, LineEnd: &l1, Evidence: &ev}
	f2 := model.Finding{ScannerType: model.ScannerSAST, RuleID: "r", FilePath: &path, LineStart: &l2, LineEnd: &l2, Evidence: &ev}
	out := dedup([]model.Finding{f1, f2})
	assert.Len(t, out, 2)
}

func TestRecommendations_CapsAtFiveWithDenseRanks(t *testing.T) {
	var vulns []model.Vulnerability
	for i := 0; i < 8; i++ {
		vulns = append(vulns, sastVuln("rsa_generation", i+1, "HIGH", "RSA"))
	}
	sast := model.SASTReport{Results: []model.SASTFileResult{{FilePath: "a.py", Vulnerabilities: vulns}}}

	recs := recommendations(sast)
	require.Len(t, recs, 5)
	for i, r := range recs {
		assert.Equal(t, i+1, r.PriorityRank)
	}
}

func TestBuildHeatmap_BottomUpMaxPropagation(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "pkg", "sub"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "pkg", "a.py"), []byte("x"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "pkg", "sub", "b.py"), []byte("x"), 0o644))

	sast := model.SASTReport{Results: []model.SASTFileResult{
		{FilePath: "pkg/a.py", Vulnerabilities: []model.Vulnerability{sastVuln("rsa_generation", 1, "LOW", "RSA")}},
		{FilePath: "pkg/sub/b.py", Vulnerabilities: []model.Vulnerability{sastVuln("rsa_generation", 1, "CRITICAL", "RSA")}},
	}}

	root_ := buildHeatmap(root, sast)
	require.NotNil(t, root_)

	var findByPath func(n *model.HeatmapNode, path string) *model.HeatmapNode
	findByPath = func(n *model.HeatmapNode, path string) *model.HeatmapNode {
		if n.Path == path {
			return n
		}
		for _, c := range n.Children {
			if found := findByPath(c, path); found != nil {
				return found
			}
		}
		return nil
	}

	pkgNode := findByPath(root_, "pkg")
	require.NotNil(t, pkgNode)
	subNode := findByPath(root_, "pkg/sub")
	require.NotNil(t, subNode)

	// pkg's risk score must equal the max of its direct file and the sub
	// directory's propagated (higher) score.
	assert.Equal(t, subNode.RiskScore, pkgNode.RiskScore)
	assert.Greater(t, pkgNode.RiskScore, 0.0)
}

func TestFuse_EndToEnd(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "app.py"), []byte("import hashlib\nhashlib.md5(b'x')\n"), 0o644))

	sast := model.SASTReport{Results: []model.SASTFileResult{{
		FilePath: "app.py",
		Vulnerabilities: []model.Vulnerability{
			sastVuln("weak_hash", 2, "MEDIUM", "Weak Hash"),
		},
	}}}

	result := Fuse(root, sast, model.SCAReport{}, model.ConfigReport{})
	require.Len(t, result.Findings, 1)
	assert.Equal(t, "weak_hash", result.Findings[0].RuleID)
	assert.NotNil(t, result.Heatmap)
	assert.LessOrEqual(t, len(result.Recommendations), 5)
}
