package project

import (
	"os"
	"path/filepath"
)

// configMarkers are the config file names that mark a project root.
var configMarkers = []string{".atscorerc.json", ".atscorerc.yaml", ".atscorerc.yml"}

// Info contains information about the detected project.
type Info struct {
	Root          string
	HasGit        bool
	HasConfig     bool
	HasResumesDir bool
	ConfigFile    string
}

// FindProjectRoot searches for a project root starting from the given path
// and climbing up the directory tree if needed. A root holds an atscore
// config file, a .git directory or a resumes/ directory.
func FindProjectRoot(startPath string) (string, error) {
	absPath, err := filepath.Abs(startPath)
	if err != nil {
		return "", err
	}

	currentDir := absPath
	for {
		if isProjectRoot(currentDir) {
			return currentDir, nil
		}

		parent := filepath.Dir(currentDir)
		if parent == currentDir {
			// Reached filesystem root
			break
		}
		currentDir = parent
	}

	// Default to the start directory if no project root found
	return absPath, nil
}

// isProjectRoot determines if a directory is a project root
func isProjectRoot(path string) bool {
	if findConfigFile(path) != "" {
		return true
	}
	if exists(filepath.Join(path, ".git")) {
		return true
	}
	return isDir(filepath.Join(path, "resumes"))
}

// Detect detects project information at the given path.
func Detect(rootPath string) (*Info, error) {
	absRoot, err := filepath.Abs(rootPath)
	if err != nil {
		return nil, err
	}

	info := &Info{
		Root:          absRoot,
		HasGit:        exists(filepath.Join(absRoot, ".git")),
		HasResumesDir: isDir(filepath.Join(absRoot, "resumes")),
		ConfigFile:    findConfigFile(absRoot),
	}
	info.HasConfig = info.ConfigFile != ""

	return info, nil
}

// findConfigFile returns the first config file present in dir, or "".
func findConfigFile(dir string) string {
	for _, name := range configMarkers {
		path := filepath.Join(dir, name)
		if fi, err := os.Stat(path); err == nil && !fi.IsDir() {
			return path
		}
	}
	return ""
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func isDir(path string) bool {
	fi, err := os.Stat(path)
	return err == nil && fi.IsDir()
}
