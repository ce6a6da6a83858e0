package main

import (
	"os"
	"path/filepath"
	"strings"
)

// defaultAnnotationDir returns the managed annotation directory for an
// assembly, e.g. ~/.nearest-transcripts/grch38.
func defaultAnnotationDir(assembly string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".nearest-transcripts", strings.ToLower(assembly))
}

// findAnnotationGTF looks for a downloaded GENCODE GTF in the managed
// annotation directory.
func findAnnotationGTF(assembly string) (string, bool) {
	dir := defaultAnnotationDir(assembly)
	if dir == "" {
		return "", false
	}

	var pattern string
	if strings.ToLower(assembly) == "grch37" {
		pattern = "gencode.v*lift37.annotation.gtf.gz"
	} else {
		pattern = "gencode.v*.annotation.gtf.gz"
	}

	matches, err := filepath.Glob(filepath.Join(dir, pattern))
	if err != nil || len(matches) == 0 {
		return "", false
	}
	return matches[0], true
}
