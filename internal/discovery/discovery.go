package discovery

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/dotcommander/atscore/internal/types"
)

// DefaultPatterns are the glob patterns, relative to the root, under which
// resume documents are discovered.
var DefaultPatterns = []string{
	"resume.{yaml,yml,json}",
	"resumes/**/*.{yaml,yml,json}",
	"**/*.resume.{yaml,yml,json}",
}

// File represents a discovered resume document
type File struct {
	Path    string
	RelPath string
	Size    int64
	Format  string
}

// FileDiscovery manages file discovery operations
type FileDiscovery struct {
	rootPath       string
	followSymlinks bool
	exclude        []string
}

// NewFileDiscovery creates a new FileDiscovery instance.
// Exclude holds doublestar patterns matched against root-relative paths.
func NewFileDiscovery(rootPath string, followSymlinks bool, exclude []string) *FileDiscovery {
	return &FileDiscovery{
		rootPath:       rootPath,
		followSymlinks: followSymlinks,
		exclude:        exclude,
	}
}

// DiscoverFiles finds all resume documents under the root, sorted by
// relative path.
func (fd *FileDiscovery) DiscoverFiles() ([]File, error) {
	return fd.DiscoverFilesWithPatterns(DefaultPatterns)
}

// DiscoverFilesWithPatterns finds files using custom patterns.
// A file matched by several patterns is returned once.
func (fd *FileDiscovery) DiscoverFilesWithPatterns(patterns []string) ([]File, error) {
	seen := make(map[string]bool)
	var files []File

	for _, pattern := range patterns {
		matches, err := doublestar.Glob(os.DirFS(fd.rootPath), pattern)
		if err != nil {
			return nil, fmt.Errorf("error evaluating pattern %s: %w", pattern, err)
		}

		for _, match := range matches {
			if seen[match] {
				continue
			}
			f, ok := fd.processMatch(match)
			if !ok {
				continue
			}
			seen[match] = true
			files = append(files, f)
		}
	}

	sort.Slice(files, func(i, j int) bool { return files[i].RelPath < files[j].RelPath })
	return files, nil
}

// processMatch converts a glob match into a File, returning false if the match should be skipped.
func (fd *FileDiscovery) processMatch(match string) (File, bool) {
	if fd.isExcluded(match) {
		return File{}, false
	}

	format, err := DetectFormat(match)
	if err != nil {
		return File{}, false
	}

	fullPath := filepath.Join(fd.rootPath, filepath.FromSlash(match))
	info, err := os.Lstat(fullPath)
	if err != nil {
		return File{}, false
	}

	if info.Mode()&os.ModeSymlink != 0 {
		resolved, resolvedInfo, ok := fd.resolveSymlink(fullPath)
		if !ok {
			return File{}, false
		}
		fullPath = resolved
		info = resolvedInfo
	}

	if info.IsDir() {
		return File{}, false
	}

	return File{
		Path:    fullPath,
		RelPath: match,
		Size:    info.Size(),
		Format:  format,
	}, true
}

// isExcluded reports whether a root-relative path matches any exclude pattern.
func (fd *FileDiscovery) isExcluded(relPath string) bool {
	for _, pattern := range fd.exclude {
		if matched, err := doublestar.Match(pattern, relPath); err == nil && matched {
			return true
		}
	}
	return false
}

// resolveSymlink follows a symlink if configured, returning the resolved path and info.
// Returns false if the symlink should be skipped.
func (fd *FileDiscovery) resolveSymlink(fullPath string) (string, os.FileInfo, bool) {
	if !fd.followSymlinks {
		return "", nil, false
	}

	realPath, err := filepath.EvalSymlinks(fullPath)
	if err != nil {
		return "", nil, false
	}

	realRoot, err := filepath.EvalSymlinks(fd.rootPath)
	if err != nil {
		return "", nil, false
	}
	rel, err := filepath.Rel(realRoot, realPath)
	if err != nil || strings.HasPrefix(rel, "..") {
		return "", nil, false
	}

	info, err := os.Stat(realPath)
	if err != nil {
		return "", nil, false
	}

	return realPath, info, true
}

// IsResumePath reports whether a slash-separated relative path falls under
// one of the default discovery patterns.
func IsResumePath(relPath string) bool {
	relPath = filepath.ToSlash(relPath)
	for _, pattern := range DefaultPatterns {
		if matched, err := doublestar.Match(pattern, relPath); err == nil && matched {
			return true
		}
	}
	return false
}

// DetectFormat determines the document format from the file extension.
func DetectFormat(path string) (string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return types.FormatYAML, nil
	case ".json":
		return types.FormatJSON, nil
	case "":
		return "", fmt.Errorf("unsupported file: %s has no extension. atscore reads .yaml, .yml and .json resumes", filepath.Base(path))
	default:
		return "", fmt.Errorf("unsupported file type: %s. atscore reads .yaml, .yml and .json resumes", filepath.Ext(path))
	}
}

// ValidateFilePath performs comprehensive validation of a file path for scoring.
//
// This function checks all preconditions required before scoring a file:
//   - File exists
//   - Path is a file (not directory)
//   - File is not empty
//   - File is not binary
//
// Returns descriptive errors for each failure mode to guide user action.
func ValidateFilePath(path string) (absPath string, err error) {
	absPath, err = filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("invalid path %q: %w", path, err)
	}

	info, err := os.Lstat(absPath)
	if err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("file not found: %s", absPath)
		}
		if os.IsPermission(err) {
			return "", fmt.Errorf("permission denied: %s", absPath)
		}
		return "", fmt.Errorf("cannot access file: %s: %w", absPath, err)
	}

	if info.Mode()&os.ModeSymlink != 0 {
		realPath, evalErr := filepath.EvalSymlinks(absPath)
		if evalErr != nil {
			return "", fmt.Errorf("cannot resolve symlink %s: %w", absPath, evalErr)
		}
		absPath = realPath
		info, err = os.Stat(absPath)
		if err != nil {
			return "", fmt.Errorf("symlink target inaccessible: %s: %w", absPath, err)
		}
	}

	if info.IsDir() {
		return "", fmt.Errorf("path is a directory, not a file: %s", absPath)
	}

	if info.Size() == 0 {
		return "", fmt.Errorf("file is empty: %s", absPath)
	}

	f, err := os.Open(absPath)
	if err != nil {
		return "", fmt.Errorf("cannot read file: %s: %w", absPath, err)
	}
	defer f.Close()

	// Read first 512 bytes for binary detection
	buf := make([]byte, 512)
	n, err := f.Read(buf)
	if err != nil {
		return "", fmt.Errorf("cannot read file: %s: %w", absPath, err)
	}

	if bytes.Contains(buf[:n], []byte{0}) {
		return "", fmt.Errorf("file appears to be binary, not text: %s", absPath)
	}

	return absPath, nil
}
