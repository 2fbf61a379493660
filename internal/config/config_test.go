package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// resetViper resets viper to a clean state for each test
func resetViper() {
	viper.Reset()
}

// chdirTemp moves the test into a fresh temporary directory.
func chdirTemp(t *testing.T) string {
	t.Helper()
	tmpDir := t.TempDir()
	oldWd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(tmpDir))
	t.Cleanup(func() {
		_ = os.Chdir(oldWd)
	})
	return tmpDir
}

func writeJSONConfig(t *testing.T, dir string, data map[string]interface{}) {
	t.Helper()
	jsonData, err := json.MarshalIndent(data, "", "  ")
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".atscorerc.json"), jsonData, 0644))
}

// TestLoadConfigDefaults tests that default values are set correctly
func TestLoadConfigDefaults(t *testing.T) {
	resetViper()
	chdirTemp(t)

	config, err := LoadConfig("")
	require.NoError(t, err)
	require.NotNil(t, config)

	assert.Empty(t, config.Root, "empty root means auto-detect")
	assert.Equal(t, "console", config.Format)
	assert.Empty(t, config.Output)
	assert.Equal(t, 0, config.FailUnder)
	assert.False(t, config.FollowSymlinks)
	assert.False(t, config.Quiet)
	assert.False(t, config.Verbose)
	assert.False(t, config.LogJSON)
	assert.Equal(t, DefaultConcurrency, config.Concurrency)
	assert.True(t, config.Schemas.Enabled)

	assert.Equal(t, DefaultAddr, config.Serve.Addr)
	assert.Equal(t, 10*time.Second, config.Serve.ReadTimeout)
	assert.Equal(t, int64(DefaultMaxRequestSize), config.Serve.MaxRequestSize)
	assert.True(t, config.Serve.RateLimit.Enabled)
	assert.Equal(t, 120, config.Serve.RateLimit.RequestsPerMin)
	assert.Equal(t, 20, config.Serve.RateLimit.Burst)
	assert.Equal(t, DefaultDebounce, config.Watch.Debounce)
}

// TestLoadConfigFromJSON tests loading configuration from JSON file
func TestLoadConfigFromJSON(t *testing.T) {
	resetViper()
	tmpDir := chdirTemp(t)

	writeJSONConfig(t, tmpDir, map[string]interface{}{
		"root":           "/custom/root",
		"exclude":        []string{"archive/**", "*.draft.yaml"},
		"followSymlinks": true,
		"format":         "json",
		"output":         "report.json",
		"failUnder":      70,
		"quiet":          true,
		"concurrency":    3,
		"baseline":       ".atscore-baseline.json",
		"schemas":        map[string]interface{}{"enabled": false},
		"serve": map[string]interface{}{
			"addr":         ":9000",
			"readTimeout":  "2s",
			"writeTimeout": "3s",
			"rateLimit":    map[string]interface{}{"enabled": false},
		},
		"watch": map[string]interface{}{"debounce": "1s"},
	})

	config, err := LoadConfig("")
	require.NoError(t, err)

	assert.Equal(t, "/custom/root", config.Root)
	assert.Equal(t, []string{"archive/**", "*.draft.yaml"}, config.Exclude)
	assert.True(t, config.FollowSymlinks)
	assert.Equal(t, "json", config.Format)
	assert.Equal(t, "report.json", config.Output)
	assert.Equal(t, 70, config.FailUnder)
	assert.True(t, config.Quiet)
	assert.Equal(t, 3, config.Concurrency)
	assert.Equal(t, ".atscore-baseline.json", config.Baseline)
	assert.False(t, config.Schemas.Enabled)
	assert.Equal(t, ":9000", config.Serve.Addr)
	assert.Equal(t, 2*time.Second, config.Serve.ReadTimeout)
	assert.Equal(t, 3*time.Second, config.Serve.WriteTimeout)
	assert.False(t, config.Serve.RateLimit.Enabled)
	assert.Equal(t, time.Second, config.Watch.Debounce)
}

// TestLoadConfigFromYAML tests loading configuration from YAML file
func TestLoadConfigFromYAML(t *testing.T) {
	resetViper()
	tmpDir := chdirTemp(t)

	yamlContent := `
root: /yaml/root
exclude:
  - old
format: markdown
verbose: true
failUnder: 60
serve:
  rateLimit:
    requestsPerMin: 30
    burst: 5
`
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, ".atscorerc.yaml"), []byte(yamlContent), 0644))

	config, err := LoadConfig("")
	require.NoError(t, err)

	assert.Equal(t, "/yaml/root", config.Root)
	assert.Equal(t, []string{"old"}, config.Exclude)
	assert.Equal(t, "markdown", config.Format)
	assert.True(t, config.Verbose)
	assert.Equal(t, 60, config.FailUnder)
	assert.Equal(t, 30, config.Serve.RateLimit.RequestsPerMin)
	assert.Equal(t, 5, config.Serve.RateLimit.Burst)
	assert.True(t, config.Serve.RateLimit.Enabled)
}

// TestLoadConfigYMLExtension tests .yml extension
func TestLoadConfigYMLExtension(t *testing.T) {
	resetViper()
	tmpDir := chdirTemp(t)

	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, ".atscorerc.yml"), []byte("root: /yml/root\nformat: json\n"), 0644))

	config, err := LoadConfig("")
	require.NoError(t, err)
	assert.Equal(t, "/yml/root", config.Root)
	assert.Equal(t, "json", config.Format)
}

// TestLoadConfigRootPathOverride tests that provided rootPath overrides config
func TestLoadConfigRootPathOverride(t *testing.T) {
	resetViper()
	tmpDir := chdirTemp(t)
	writeJSONConfig(t, tmpDir, map[string]interface{}{"root": "/config/root"})

	config, err := LoadConfig("/override/root")
	require.NoError(t, err)
	assert.Equal(t, "/override/root", config.Root)
}

// TestLoadConfigEnvironmentVariables tests environment variable overrides
func TestLoadConfigEnvironmentVariables(t *testing.T) {
	resetViper()
	chdirTemp(t)

	envVars := map[string]string{
		"ATSCORE_ROOT":            "/env/root",
		"ATSCORE_FORMAT":          "json",
		"ATSCORE_FAILUNDER":       "55",
		"ATSCORE_QUIET":           "true",
		"ATSCORE_CONCURRENCY":     "2",
		"ATSCORE_SERVE_ADDR":      "0.0.0.0:9999",
		"ATSCORE_WATCH_DEBOUNCE":  "50ms",
		"ATSCORE_SCHEMAS_ENABLED": "false",
	}
	for key, value := range envVars {
		t.Setenv(key, value)
	}

	config, err := LoadConfig("")
	require.NoError(t, err)

	assert.Equal(t, "/env/root", config.Root)
	assert.Equal(t, "json", config.Format)
	assert.Equal(t, 55, config.FailUnder)
	assert.True(t, config.Quiet)
	assert.Equal(t, 2, config.Concurrency)
	assert.Equal(t, "0.0.0.0:9999", config.Serve.Addr)
	assert.Equal(t, 50*time.Millisecond, config.Watch.Debounce)
	assert.False(t, config.Schemas.Enabled)
}

// TestLoadConfigConfigFilePriority tests that first found config file is used
func TestLoadConfigConfigFilePriority(t *testing.T) {
	resetViper()
	tmpDir := chdirTemp(t)

	writeJSONConfig(t, tmpDir, map[string]interface{}{"root": "/json/root"})
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, ".atscorerc.yaml"), []byte("root: /yaml/root\n"), 0644))

	config, err := LoadConfig("")
	require.NoError(t, err)
	assert.Equal(t, "/json/root", config.Root)
}

// TestLoadConfigUnmarshalError tests unmarshal error handling
func TestLoadConfigUnmarshalError(t *testing.T) {
	resetViper()
	tmpDir := chdirTemp(t)
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, ".atscorerc.json"), []byte(`{"concurrency": "not-a-number"}`), 0644))

	config, err := LoadConfig("")
	assert.Error(t, err)
	assert.Nil(t, config)
	assert.Contains(t, err.Error(), "error unmarshaling config")
}

// TestLoadConfigMalformedFile tests that a broken config file is reported
func TestLoadConfigMalformedFile(t *testing.T) {
	resetViper()
	tmpDir := chdirTemp(t)
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, ".atscorerc.json"), []byte(`{"root": `), 0644))

	config, err := LoadConfig("")
	assert.Error(t, err)
	assert.Nil(t, config)
	assert.Contains(t, err.Error(), ".atscorerc.json")
}

// TestLoadConfigValidationError tests that LoadConfig returns validation errors
func TestLoadConfigValidationError(t *testing.T) {
	resetViper()
	tmpDir := chdirTemp(t)
	writeJSONConfig(t, tmpDir, map[string]interface{}{"format": "invalid-format"})

	config, err := LoadConfig("")
	assert.Error(t, err)
	assert.Nil(t, config)
	assert.Contains(t, err.Error(), "invalid configuration")
	assert.Contains(t, err.Error(), "invalid format")
}

// TestValidateConfig tests the validation rules
func TestValidateConfig(t *testing.T) {
	valid := func() *Config {
		return &Config{Format: "console", Concurrency: 1}
	}

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{"console", func(c *Config) {}, ""},
		{"json to stdout", func(c *Config) { c.Format = "json" }, ""},
		{"markdown", func(c *Config) { c.Format = "markdown"; c.Output = "report.md" }, ""},
		{"fail-under bounds", func(c *Config) { c.FailUnder = 100 }, ""},
		{"invalid format", func(c *Config) { c.Format = "xml" }, "invalid format"},
		{"negative fail-under", func(c *Config) { c.FailUnder = -1 }, "fail-under must be between 0 and 100"},
		{"fail-under too high", func(c *Config) { c.FailUnder = 101 }, "fail-under must be between 0 and 100"},
		{"zero concurrency", func(c *Config) { c.Concurrency = 0 }, "concurrency must be at least 1"},
		{"negative debounce", func(c *Config) { c.Watch.Debounce = -time.Second }, "watch debounce"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := valid()
			tt.mutate(config)
			err := validateConfig(config)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

// TestSaveConfig tests saving configuration to file
func TestSaveConfig(t *testing.T) {
	tmpDir := t.TempDir()

	config := &Config{
		Root:        "/test/root",
		Exclude:     []string{"old/**"},
		Format:      "json",
		Output:      "output.json",
		FailUnder:   75,
		Quiet:       true,
		Concurrency: 4,
		Schemas:     SchemaConfig{Enabled: true},
		Serve:       ServeConfig{Addr: ":8080", ReadTimeout: time.Second},
	}

	savePath := filepath.Join(tmpDir, "config", "saved.json")
	require.NoError(t, SaveConfig(config, savePath))
	assert.FileExists(t, savePath)

	data, err := os.ReadFile(savePath)
	require.NoError(t, err)

	var loaded Config
	require.NoError(t, json.Unmarshal(data, &loaded))
	assert.Equal(t, *config, loaded)
}

// TestSaveConfigInvalidPath tests error handling for invalid paths
func TestSaveConfigInvalidPath(t *testing.T) {
	tmpDir := t.TempDir()
	filePath := filepath.Join(tmpDir, "file")
	require.NoError(t, os.WriteFile(filePath, []byte("test"), 0644))

	err := SaveConfig(&Config{Format: "console", Concurrency: 1}, filepath.Join(filePath, "config.json"))
	assert.Error(t, err)
}
