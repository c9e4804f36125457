// Package model defines the data shapes shared across every pipeline stage.
package model

import "time"

// Category is the closed, disjoint classification every enumerated file
// receives in the classifier stage.
type Category string

const (
	CategorySourceCode         Category = "SourceCode"
	CategoryConfiguration      Category = "Configuration"
	CategoryDependencyManifest Category = "DependencyManifest"
	CategoryDocumentation      Category = "Documentation"
	CategoryBinary             Category = "Binary"
	CategoryUnknown            Category = "Unknown"
)

// FileMetadata describes a single file discovered under a working copy.
// Created once in the classifier and never mutated afterward.
type FileMetadata struct {
	FilePath     string `json:"filePath"` // repository-relative, POSIX separators
	AbsolutePath string `json:"absolutePath"`
	FileName     string `json:"fileName"`
	Extension    string `json:"extension"` // lower-cased, includes leading dot
	Language     string `json:"language"`
	Category     Category `json:"category"`
	SizeBytes    int64    `json:"sizeBytes"`
	LineCount    int      `json:"lineCount"`
	Encoding     string   `json:"encoding"`
	IsBinary     bool     `json:"isBinary"`
	CreatedAt    time.Time `json:"createdAt"`
}

// LanguageStats is a byte-weighted breakdown of detected languages across a
// repository, a reporting convenience attached to the classifier's output.
type LanguageStats struct {
	Language   string  `json:"language"`
	FileCount  int     `json:"fileCount"`
	TotalLines int     `json:"totalLines"`
	TotalBytes int64   `json:"totalBytes"`
	Percentage float64 `json:"percentage"`
}

// ScannerTargets partitions a classified file set into the three disjoint
// subsequences each downstream engine consumes.
type ScannerTargets struct {
	SASTTargets   []FileMetadata `json:"sastTargets"`
	SCATargets    []FileMetadata `json:"scaTargets"`
	ConfigTargets []FileMetadata `json:"configTargets"`
}

// RepositoryAnalysis is the full output of the classifier stage.
type RepositoryAnalysis struct {
	RepositoryPath   string          `json:"repositoryPath"`
	TotalFiles       int             `json:"totalFiles"`
	FileMetadataList []FileMetadata  `json:"fileMetadataList"`
	LanguageStats    []LanguageStats `json:"languageStats"`
	ScannerTargets   ScannerTargets  `json:"scannerTargets"`
}
