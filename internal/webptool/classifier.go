package webptool

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
)

// Kind is the classification of a path by file extension.
type Kind int

const (
	// KindUnsupported means the file cannot be processed by the tool.
	KindUnsupported Kind = iota
	// KindImage is a non-WebP image the converter can handle.
	KindImage
	// KindWebP is an existing WebP file.
	KindWebP
)

// Candidate is a directory entry that passed classification.
type Candidate struct {
	Path string
	Kind Kind
}

// Classifier defines the interface for deciding which files a tool processes.
type Classifier interface {
	// Classify returns the kind of a path by case-insensitive extension.
	Classify(path string) Kind
	// ListCandidates returns the supported regular files directly inside dir
	// (depth 1), sorted by name. An empty result is not an error.
	ListCandidates(dir string) ([]Candidate, error)
}

// classifier implements the Classifier interface.
type classifier struct {
	exts []string
}

// converterExts is the converter's allow-list of source formats.
var converterExts = []string{
	".jpg", ".jpeg", ".png", ".gif", ".bmp", ".tiff", ".tif",
	".webp", ".svg", ".ico", ".heic", ".heif",
}

// NewConverterClassifier creates a Classifier accepting every source format
// the converter tool knows how to feed to a codec.
func NewConverterClassifier() Classifier {
	return &classifier{exts: converterExts}
}

// NewCompressorClassifier creates a Classifier accepting only WebP files.
func NewCompressorClassifier() Classifier {
	return &classifier{exts: []string{".webp"}}
}

// Classify returns the kind of a path by case-insensitive extension.
func (c *classifier) Classify(path string) Kind {
	ext := strings.ToLower(filepath.Ext(path))
	if !slices.Contains(c.exts, ext) {
		return KindUnsupported
	}
	if ext == ".webp" {
		return KindWebP
	}
	return KindImage
}

// ListCandidates enumerates supported files directly inside dir.
func (c *classifier) ListCandidates(dir string) ([]Candidate, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("cannot read directory %s: %w", dir, err)
	}

	candidates := []Candidate{}
	for _, entry := range entries {
		if !entry.Type().IsRegular() {
			continue
		}
		kind := c.Classify(entry.Name())
		if kind == KindUnsupported {
			continue
		}
		candidates = append(candidates, Candidate{
			Path: filepath.Join(dir, entry.Name()),
			Kind: kind,
		})
	}
	return candidates, nil
}
