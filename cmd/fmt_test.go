package cmd

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	formattedYAML = "personalInfo:\n  fullName: Jane Doe\n  email: jane@example.com\n"
	messyYAML     = "skills:\n  - name: Go\npersonalInfo:\n  fullName: Jane Doe\n"
)

func TestFmtCheck(t *testing.T) {
	newProject(t, map[string]string{
		"resumes/clean.yaml": formattedYAML,
		"resumes/messy.yaml": messyYAML,
		"resumes/data.json":  `{"skills": [], "personalInfo": {}}`,
	})

	res := runCLI(t, "fmt", "--check")
	assert.Equal(t, 1, res.exitCode)
	assert.Contains(t, res.stdout, "messy.yaml needs formatting")
	assert.NotContains(t, res.stdout, "clean.yaml needs formatting")
	assert.NotContains(t, res.stdout, "data.json")
	assert.Contains(t, res.stdout, "1 of 2 files need formatting")

	res = runCLI(t, "fmt", "--check", "resumes/clean.yaml")
	assert.Zero(t, res.exitCode)
}

func TestFmtWrite(t *testing.T) {
	dir := newProject(t, map[string]string{"resumes/messy.yaml": messyYAML})

	res := runCLI(t, "fmt", "-w", "resumes/messy.yaml")
	assert.Zero(t, res.exitCode)
	assert.Contains(t, res.stdout, "Formatted resumes/messy.yaml")

	data, err := os.ReadFile(filepath.Join(dir, "resumes/messy.yaml"))
	require.NoError(t, err)
	got := string(data)
	assert.Less(t, strings.Index(got, "personalInfo:"), strings.Index(got, "skills:"))

	res = runCLI(t, "fmt", "--check", "resumes/messy.yaml")
	assert.Zero(t, res.exitCode, "formatting is idempotent")
}

func TestFmtDiffAndPreview(t *testing.T) {
	dir := newProject(t, map[string]string{"resumes/messy.yaml": messyYAML})

	res := runCLI(t, "fmt", "--diff", "resumes/messy.yaml")
	assert.Contains(t, res.stdout, "--- resumes/messy.yaml")
	assert.Contains(t, res.stdout, "+ personalInfo:")

	res = runCLI(t, "fmt", "resumes")
	assert.True(t, strings.HasPrefix(res.stdout, "personalInfo:"), "preview prints the formatted document, got:\n%s", res.stdout)

	// Neither mode touches the file
	data, err := os.ReadFile(filepath.Join(dir, "resumes/messy.yaml"))
	require.NoError(t, err)
	assert.Equal(t, messyYAML, string(data))
}

func TestFmtNoFiles(t *testing.T) {
	newProject(t, nil)

	res := runCLI(t, "fmt")
	assert.Equal(t, 1, res.exitCode)
	assert.Contains(t, res.stderr, "no files to format")
}

func TestFmtSkipsInvalidYAML(t *testing.T) {
	newProject(t, map[string]string{"resumes/bad.yaml": "personalInfo: [unclosed\n"})

	res := runCLI(t, "fmt", "--check")
	assert.Zero(t, res.exitCode)
	assert.Contains(t, res.stderr, "Error formatting resumes/bad.yaml")
}
