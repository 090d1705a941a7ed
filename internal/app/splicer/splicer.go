// Package splicer renders the kept intervals of a source video into a new file.
package splicer

import (
	"context"
	"path/filepath"
	"strings"

	"videotextcut/internal/app/model"
)

// DefaultSuffix is appended to the source name when no output path is given
const DefaultSuffix = "_trimmed"

// Splicer concatenates intervals of source into outputPath. outputFormat
// ("mp4") decides the container. It returns the path actually written and
// never leaves a partial file behind.
type Splicer interface {
	Splice(ctx context.Context, source string, intervals []model.CutInterval, outputPath, outputFormat string, onProgress func(float64)) (string, error)
}

// OutputPath derives "<dir>/<name><suffix><ext>" from input
func OutputPath(input, suffix string) string {
	if suffix == "" {
		suffix = DefaultSuffix
	}
	ext := filepath.Ext(input)
	return strings.TrimSuffix(input, ext) + suffix + ext
}

// withFormat forces the extension of path to match format
func withFormat(path, format string) string {
	if format == "" {
		return path
	}
	want := "." + strings.TrimPrefix(strings.ToLower(format), ".")
	ext := filepath.Ext(path)
	if strings.EqualFold(ext, want) {
		return path
	}
	return strings.TrimSuffix(path, ext) + want
}
