package git

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/dotcommander/atscore/internal/discovery"
)

// GetStagedFiles returns absolute paths of resume documents in the git
// staging area. Returns an empty slice if not in a git repository.
func GetStagedFiles(rootPath string) ([]string, error) {
	if !IsGitRepo(rootPath) {
		return []string{}, nil
	}

	// --relative keeps paths relative to rootPath, not the repository top level
	cmd := exec.Command("git", "diff", "--name-only", "--relative", "--staged")
	cmd.Dir = rootPath
	output, err := cmd.CombinedOutput()
	if err != nil {
		return nil, fmt.Errorf("git diff --staged failed: %w: %s", err, output)
	}

	return filterRelevantFiles(string(output), rootPath)
}

// GetChangedFiles returns absolute paths of resume documents with
// uncommitted changes (staged + unstaged).
// Returns an empty slice if not in a git repository.
func GetChangedFiles(rootPath string) ([]string, error) {
	if !IsGitRepo(rootPath) {
		return []string{}, nil
	}

	checkCmd := exec.Command("git", "rev-parse", "HEAD")
	checkCmd.Dir = rootPath
	if err := checkCmd.Run(); err != nil {
		// No commits yet - show all tracked files
		cmd := exec.Command("git", "ls-files")
		cmd.Dir = rootPath
		output, err := cmd.CombinedOutput()
		if err != nil {
			return nil, fmt.Errorf("git ls-files failed: %w: %s", err, output)
		}
		return filterRelevantFiles(string(output), rootPath)
	}

	cmd := exec.Command("git", "diff", "--name-only", "--relative", "HEAD")
	cmd.Dir = rootPath
	output, err := cmd.CombinedOutput()
	if err != nil {
		return nil, fmt.Errorf("git diff HEAD failed: %w: %s", err, output)
	}

	return filterRelevantFiles(string(output), rootPath)
}

// IsGitRepo checks if the given directory is within a git repository.
func IsGitRepo(rootPath string) bool {
	cmd := exec.Command("git", "rev-parse", "--git-dir")
	cmd.Dir = rootPath
	cmd.Stderr = nil
	return cmd.Run() == nil
}

// filterRelevantFiles filters git output down to resume documents that
// still exist on disk. Returns absolute paths.
func filterRelevantFiles(gitOutput, rootPath string) ([]string, error) {
	var files []string

	for _, line := range strings.Split(strings.TrimSpace(gitOutput), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		absPath := filepath.Join(rootPath, line)

		// git reports deletions too
		if _, err := os.Stat(absPath); os.IsNotExist(err) {
			continue
		}

		if !isRelevantFile(line) {
			continue
		}

		files = append(files, absPath)
	}

	return files, nil
}

// isRelevantFile checks if a root-relative path names a resume document.
func isRelevantFile(relPath string) bool {
	return discovery.IsResumePath(filepath.ToSlash(relPath))
}
