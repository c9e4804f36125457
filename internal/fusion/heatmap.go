package fusion

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pqcshield/scanner/internal/classifier"
	"github.com/pqcshield/scanner/internal/logger"
	"github.com/pqcshield/scanner/internal/model"
	"go.uber.org/zap"
)

// buildHeatmap walks repoPath with the same directory-exclusion rules the
// classifier applies, attaches a per-file risk score derived from that
// file's SAST vulnerabilities, then propagates each directory's score as
// the maximum of its children, per spec §4.6.
func buildHeatmap(repoPath string, sast model.SASTReport) *model.HeatmapNode {
	fileRisk := fileRiskScores(sast)

	root := &model.HeatmapNode{Name: filepath.Base(repoPath), Path: "", Type: model.HeatmapDir}
	dirs := map[string]*model.HeatmapNode{"": root}

	err := filepath.WalkDir(repoPath, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if path == repoPath {
			return nil
		}

		rel, relErr := filepath.Rel(repoPath, path)
		if relErr != nil {
			return nil
		}
		rel = filepath.ToSlash(rel)

		if d.IsDir() {
			if classifier.ShouldIgnoreDir(d.Name()) {
				return filepath.SkipDir
			}
			node := ensureDir(dirs, rel)
			_ = node
			return nil
		}

		parent := ensureDir(dirs, parentOf(rel))
		parent.Children = append(parent.Children, &model.HeatmapNode{
			Name:      filepath.Base(rel),
			Path:      rel,
			Type:      model.HeatmapFile,
			RiskScore: fileRisk[rel],
		})
		return nil
	})
	if err != nil {
		logger.Get().Warn("fusion: heatmap walk error", zap.Error(err))
	}

	propagate(root)
	return root
}

func fileRiskScores(sast model.SASTReport) map[string]float64 {
	scores := map[string]float64{}
	for _, fr := range sast.Results {
		if fr.Skipped {
			continue
		}
		var total float64
		for _, v := range fr.Vulnerabilities {
			sev, _ := severityOf(v.Severity)
			total += severityWeight[sev] * algoWeight(v.Algorithm)
		}
		if total > 10 {
			total = 10
		}
		scores[fr.FilePath] = roundTo2(total)
	}
	return scores
}

func parentOf(relPath string) string {
	idx := strings.LastIndex(relPath, "/")
	if idx < 0 {
		return ""
	}
	return relPath[:idx]
}

// ensureDir returns the node for relDir, creating it and any missing
// ancestors and wiring parent/child links along the way.
func ensureDir(dirs map[string]*model.HeatmapNode, relDir string) *model.HeatmapNode {
	if node, ok := dirs[relDir]; ok {
		return node
	}

	parentPath := parentOf(relDir)
	parent := ensureDir(dirs, parentPath)

	node := &model.HeatmapNode{
		Name: filepath.Base(relDir),
		Path: relDir,
		Type: model.HeatmapDir,
	}
	dirs[relDir] = node
	parent.Children = append(parent.Children, node)
	return node
}

// propagate sets every directory node's risk score to the maximum of its
// children's scores, bottom-up. An empty directory scores 0.
func propagate(node *model.HeatmapNode) float64 {
	if node.Type == model.HeatmapFile {
		return node.RiskScore
	}

	sort.Slice(node.Children, func(i, j int) bool { return node.Children[i].Name < node.Children[j].Name })

	var max float64
	for _, child := range node.Children {
		if score := propagate(child); score > max {
			max = score
		}
	}
	node.RiskScore = max
	return max
}
