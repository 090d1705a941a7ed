package files

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	apperrors "videotextcut/internal/app/errors"
)

// MediaFile is one candidate input found on disk
type MediaFile struct {
	FullPath string
	Name     string
	Size     int64
}

// EnsureDir creates dir and its parents when missing
func EnsureDir(dir string) error {
	if dir == "" || dir == "." {
		return nil
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}
	return nil
}

// FindMedia lists the files in dir whose extension is one of formats, sorted by name
func FindMedia(dir string, formats []string) ([]MediaFile, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory %s: %w", dir, err)
	}

	var found []MediaFile
	for _, e := range entries {
		if e.IsDir() || !hasExt(e.Name(), formats) {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		found = append(found, MediaFile{
			FullPath: filepath.Join(dir, e.Name()),
			Name:     e.Name(),
			Size:     info.Size(),
		})
	}

	sort.Slice(found, func(i, j int) bool { return found[i].Name < found[j].Name })
	return found, nil
}

func hasExt(name string, formats []string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	for _, f := range formats {
		if strings.ToLower(f) == ext {
			return true
		}
	}
	return false
}

// ReadTextFile returns the trimmed content of filePath
func ReadTextFile(filePath string) (string, error) {
	content, err := os.ReadFile(filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("%w: %s", apperrors.ErrFileNotFound, filePath)
		}
		return "", apperrors.Wrap(err, "failed to read "+filePath)
	}
	return strings.TrimSpace(string(content)), nil
}

// WriteTextFile writes content to filePath, creating the directory
func WriteTextFile(filePath, content string) error {
	if err := EnsureDir(filepath.Dir(filePath)); err != nil {
		return err
	}
	if !strings.HasSuffix(content, "\n") {
		content += "\n"
	}
	return os.WriteFile(filePath, []byte(content), 0644)
}
