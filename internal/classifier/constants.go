package classifier

import "regexp"

// extensionLanguage maps a lower-cased file extension (including the dot)
// to a language tag from the closed vocabulary the classifier emits.
var extensionLanguage = map[string]string{
	".py":    "python",
	".pyw":   "python",
	".js":    "javascript",
	".jsx":   "javascript",
	".mjs":   "javascript",
	".cjs":   "javascript",
	".ts":    "typescript",
	".tsx":   "typescript",
	".java":  "java",
	".go":    "go",
	".rb":    "ruby",
	".php":   "php",
	".c":     "c",
	".h":     "c",
	".cpp":   "cpp",
	".cc":    "cpp",
	".hpp":   "cpp",
	".cs":    "csharp",
	".rs":    "rust",
	".kt":    "kotlin",
	".swift": "swift",
	".sh":    "bash",
	".bash":  "bash",
	".yml":   "yaml",
	".yaml":  "yaml",
	".xml":   "xml",
	".json":  "json",
	".toml":  "toml",
	".ini":   "ini",
	".conf":  "conf",
	".cfg":   "conf",
	".pem":   "cert",
	".crt":   "cert",
	".cer":   "cert",
	".key":   "cert",
	".md":    "markdown",
	".txt":   "text",
	".rst":   "text",
	".doc":   "text",
	".docx":  "text",
}

// sourceCodeExtensions is the subset of extensionLanguage that is treated
// as source code for classification purposes (configuration-shaped
// extensions like .yml/.xml/.json are excluded even though they have a
// language tag).
var sourceCodeExtensions = map[string]bool{
	".py": true, ".pyw": true,
	".js": true, ".jsx": true, ".mjs": true, ".cjs": true,
	".ts": true, ".tsx": true,
	".java": true,
	".go":   true,
	".rb":   true,
	".php":  true,
	".c":    true, ".h": true,
	".cpp": true, ".cc": true, ".hpp": true,
	".cs":    true,
	".rs":    true,
	".kt":    true,
	".swift": true,
	".sh":    true, ".bash": true,
}

var documentationExtensions = map[string]bool{
	".md": true, ".txt": true, ".rst": true, ".doc": true, ".docx": true,
}

var certificateExtensions = map[string]bool{
	".pem": true, ".crt": true, ".cer": true, ".key": true,
}

var configExtensions = map[string]bool{
	".yml": true, ".yaml": true, ".xml": true, ".ini": true, ".conf": true, ".cfg": true,
	".toml": true, ".config": true, ".env": true,
}

var cryptoConfigKeywords = []string{"ssl", "tls", "cert", "key", "crypto", "nginx", "apache"}

// configPathKeywords widens isConfigFile's directory-keyword gate beyond
// cryptoConfigKeywords, matching a broader set of conventional config
// directory names that carry no crypto implication on their own.
var configPathKeywords = []string{"config/", "conf/", ".config/", "settings/"}

// specificConfigFilenames are well-known config filenames classified as
// Configuration regardless of extension or path.
var specificConfigFilenames = map[string]bool{
	"dockerfile": true, "docker-compose.yml": true,
	"nginx.conf": true, "apache.conf": true,
}

// dependencyManifestLanguage maps an exact filename to the language that
// owns its dependency tree, overriding the extension-based language tag.
var dependencyManifestLanguage = map[string]string{
	"package.json":     "javascript",
	"requirements.txt": "python",
	"pom.xml":          "java",
	"go.mod":           "go",
}

func isDependencyManifest(fileName string) bool {
	_, ok := dependencyManifestLanguage[fileName]
	return ok
}

// ShouldIgnoreDir reports whether a directory name is pruned from
// enumeration, exported so other stages (the heatmap builder) can walk a
// working copy with the same exclusion rules without re-scanning it.
func ShouldIgnoreDir(name string) bool {
	return ignoreDirectories[name]
}

// ignoreDirectories is spec.md's binding six plus the original
// implementation's broader set, unioned per SPEC_FULL.md §4.2 (strictly
// additional pruning, changes no documented behavior).
var ignoreDirectories = map[string]bool{
	".git": true, "node_modules": true, ".venv": true, "dist": true,
	"build": true, "__pycache__": true,
	"venv": true, "env": true, ".pytest_cache": true, ".mypy_cache": true,
	"target": true, ".gradle": true, "vendor": true,
}

// ignoreFilePatterns match binary/archive/media filenames to prune at
// enumeration time before a file is ever stat'd for classification.
var ignoreFilePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\.(png|jpe?g|gif|bmp|ico|svg|webp)$`),
	regexp.MustCompile(`(?i)\.(mp3|mp4|avi|mov|wav|flac)$`),
	regexp.MustCompile(`(?i)\.(zip|tar|gz|tgz|bz2|7z|rar)$`),
	regexp.MustCompile(`(?i)\.(exe|dll|so|dylib|o|a|class|pyc)$`),
	regexp.MustCompile(`(?i)\.(woff2?|ttf|eot|otf)$`),
	regexp.MustCompile(`(?i)\.(lock)$`),
}

func shouldIgnoreFile(fileName string) bool {
	for _, pattern := range ignoreFilePatterns {
		if pattern.MatchString(fileName) {
			return true
		}
	}
	return false
}

// shebangLanguage maps an interpreter named in a shebang line to a
// language tag, used only for extension-less files.
var shebangLanguage = map[string]string{
	"python":  "python",
	"python3": "python",
	"node":    "javascript",
	"bash":    "bash",
	"sh":      "bash",
	"ruby":    "ruby",
	"php":     "php",
}
