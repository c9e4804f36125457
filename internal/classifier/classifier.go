// Package classifier walks a working copy, builds FileMetadata for every
// surviving file, and partitions the set into disjoint scanner-target
// sequences, grounded on the original implementation's
// language_detector package.
package classifier

import (
	"bufio"
	"bytes"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/pqcshield/scanner/internal/logger"
	"github.com/pqcshield/scanner/internal/model"
	"go.uber.org/zap"
)

const binaryPeekBytes = 1024

// Analyze walks repoPath and returns the full repository analysis: every
// file's metadata, byte-weighted language statistics, and the three
// disjoint scanner-target sequences.
func Analyze(repoPath string) (model.RepositoryAnalysis, error) {
	log := logger.Get()

	paths, err := collectFiles(repoPath)
	if err != nil {
		return model.RepositoryAnalysis{}, err
	}
	log.Info("classifier: collected files", zap.Int("count", len(paths)))

	var metas []model.FileMetadata
	for _, p := range paths {
		meta, ok := analyzeFile(p, repoPath)
		if !ok {
			continue
		}
		metas = append(metas, meta)
	}
	log.Info("classifier: analyzed files", zap.Int("count", len(metas)))

	stats := languageStats(metas)
	targets := classifyForScanners(metas)

	log.Info("classifier: scanner targets",
		zap.Int("sast", len(targets.SASTTargets)),
		zap.Int("sca", len(targets.SCATargets)),
		zap.Int("config", len(targets.ConfigTargets)))

	return model.RepositoryAnalysis{
		RepositoryPath:   repoPath,
		TotalFiles:       len(metas),
		FileMetadataList: metas,
		LanguageStats:    stats,
		ScannerTargets:   targets,
	}, nil
}

func collectFiles(repoPath string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(repoPath, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			logger.Get().Warn("classifier: walk error", zap.String("path", path), zap.Error(err))
			return nil
		}
		if d.IsDir() {
			if path != repoPath && ignoreDirectories[d.Name()] {
				return filepath.SkipDir
			}
			return nil
		}
		if shouldIgnoreFile(d.Name()) {
			return nil
		}
		files = append(files, path)
		return nil
	})
	return files, err
}

func analyzeFile(absPath, repoPath string) (model.FileMetadata, bool) {
	info, err := os.Stat(absPath)
	if err != nil {
		logger.Get().Warn("classifier: stat failed, skipping file", zap.String("path", absPath), zap.Error(err))
		return model.FileMetadata{}, false
	}

	relPath, err := filepath.Rel(repoPath, absPath)
	if err != nil {
		relPath = absPath
	}
	relPath = filepath.ToSlash(relPath)

	isBinary := isBinaryFile(absPath)

	lineCount, encoding := 0, "utf-8"
	if !isBinary {
		lineCount, encoding = countLines(absPath)
	}

	language := detectLanguage(absPath)

	meta := model.FileMetadata{
		FilePath:     relPath,
		AbsolutePath: absPath,
		FileName:     filepath.Base(absPath),
		Extension:    strings.ToLower(filepath.Ext(absPath)),
		Language:     language,
		Category:     model.CategoryUnknown,
		SizeBytes:    info.Size(),
		LineCount:    lineCount,
		Encoding:     encoding,
		IsBinary:     isBinary,
		CreatedAt:    time.Now(),
	}

	meta.Category = classify(meta)
	if meta.Category == model.CategoryDependencyManifest {
		if depLang, ok := dependencyManifestLanguage[meta.FileName]; ok {
			meta.Language = depLang
		}
	}

	return meta, true
}

func isBinaryFile(path string) bool {
	f, err := os.Open(path)
	if err != nil {
		return false
	}
	defer f.Close()

	buf := make([]byte, binaryPeekBytes)
	n, _ := f.Read(buf)
	return bytes.IndexByte(buf[:n], 0) >= 0
}

var textEncodings = []string{"utf-8", "latin-1", "cp1252"}

// countLines counts newline-delimited lines in a text file. Line counting
// is byte-oriented and encoding-independent; textEncodings[0] is reported
// as a representative label rather than detected per byte.
func countLines(path string) (int, string) {
	f, err := os.Open(path)
	if err != nil {
		return 0, "unknown"
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 10*1024*1024)
	count := 0
	for scanner.Scan() {
		count++
	}
	if err := scanner.Err(); err != nil {
		return 0, "unknown"
	}
	return count, textEncodings[0]
}

func detectLanguage(path string) string {
	ext := strings.ToLower(filepath.Ext(path))
	if lang, ok := extensionLanguage[ext]; ok {
		return lang
	}
	if ext != "" {
		return "unknown"
	}
	return detectByShebang(path)
}

func detectByShebang(path string) string {
	f, err := os.Open(path)
	if err != nil {
		return "unknown"
	}
	defer f.Close()

	reader := bufio.NewReader(f)
	line, err := reader.ReadString('\n')
	if err != nil && line == "" {
		return "unknown"
	}
	if !strings.HasPrefix(line, "#!") {
		return "unknown"
	}
	for interpreter, lang := range shebangLanguage {
		if strings.Contains(line, interpreter) {
			return lang
		}
	}
	return "unknown"
}

// classify assigns a Category by the spec's disjoint priority ordering:
// dependency-manifest filename match > configuration match > source
// extension match > binary > documentation extension > unknown.
func classify(meta model.FileMetadata) model.Category {
	if isDependencyManifest(meta.FileName) {
		return model.CategoryDependencyManifest
	}
	if isConfigFile(meta) {
		return model.CategoryConfiguration
	}
	if sourceCodeExtensions[meta.Extension] {
		return model.CategorySourceCode
	}
	if meta.IsBinary {
		return model.CategoryBinary
	}
	if documentationExtensions[meta.Extension] {
		return model.CategoryDocumentation
	}
	return model.CategoryUnknown
}

func isConfigFile(meta model.FileMetadata) bool {
	lowerPath := strings.ToLower(meta.FilePath)
	for _, kw := range configPathKeywords {
		if strings.Contains(lowerPath, kw) {
			return true
		}
	}
	for _, kw := range cryptoConfigKeywords {
		if strings.Contains(lowerPath, kw) {
			return true
		}
	}
	if configExtensions[meta.Extension] {
		return true
	}
	if certificateExtensions[meta.Extension] {
		return true
	}
	if specificConfigFilenames[strings.ToLower(meta.FileName)] {
		return true
	}
	return false
}

func isCryptoRelatedConfig(meta model.FileMetadata) bool {
	if certificateExtensions[meta.Extension] {
		return true
	}
	lowerPath := strings.ToLower(meta.FilePath)
	for _, kw := range cryptoConfigKeywords {
		if strings.Contains(lowerPath, kw) {
			return true
		}
	}
	return false
}

func classifyForScanners(metas []model.FileMetadata) model.ScannerTargets {
	var targets model.ScannerTargets
	for _, m := range metas {
		switch m.Category {
		case model.CategorySourceCode:
			targets.SASTTargets = append(targets.SASTTargets, m)
		case model.CategoryDependencyManifest:
			targets.SCATargets = append(targets.SCATargets, m)
		case model.CategoryConfiguration:
			if isCryptoRelatedConfig(m) {
				targets.ConfigTargets = append(targets.ConfigTargets, m)
			}
		}
	}
	return targets
}

func languageStats(metas []model.FileMetadata) []model.LanguageStats {
	type acc struct {
		count int
		lines int
		bytes int64
	}
	byLang := map[string]*acc{}
	var totalBytes int64
	for _, m := range metas {
		a, ok := byLang[m.Language]
		if !ok {
			a = &acc{}
			byLang[m.Language] = a
		}
		a.count++
		a.lines += m.LineCount
		a.bytes += m.SizeBytes
		totalBytes += m.SizeBytes
	}

	stats := make([]model.LanguageStats, 0, len(byLang))
	for lang, a := range byLang {
		var pct float64
		if totalBytes > 0 {
			pct = roundTo2(float64(a.bytes) / float64(totalBytes) * 100)
		}
		stats = append(stats, model.LanguageStats{
			Language:   lang,
			FileCount:  a.count,
			TotalLines: a.lines,
			TotalBytes: a.bytes,
			Percentage: pct,
		})
	}
	sort.Slice(stats, func(i, j int) bool { return stats[i].Percentage > stats[j].Percentage })
	return stats
}

func roundTo2(v float64) float64 {
	return float64(int(v*100+0.5)) / 100
}
