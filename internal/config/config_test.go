package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	ierr "github.com/vulnops/snyk-collection-sync/internal/errors"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad(t *testing.T) {
	path := writeConfigFile(t, `{"api_token": "tok", "org_id": "org-1"}`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "tok", cfg.APIToken)
	assert.Equal(t, "org-1", cfg.OrgID)
	assert.Equal(t, DefaultBaseURL, cfg.BaseURL)
	assert.Equal(t, DefaultAPIVersion, cfg.APIVersion)
	assert.NoError(t, cfg.Validate())
}

func TestLoadOverrides(t *testing.T) {
	path := writeConfigFile(t, `{"api_token": "tok", "org_id": "org-1", "base_url": "https://api.eu.snyk.io/rest", "api_version": "2025-01-01"}`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "https://api.eu.snyk.io/rest", cfg.BaseURL)
	assert.Equal(t, "2025-01-01", cfg.APIVersion)
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("SNYK_API_TOKEN", "env-tok")
	path := writeConfigFile(t, `{"api_token": "file-tok", "org_id": "org-1"}`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "env-tok", cfg.APIToken)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.json"))

	require.Error(t, err)
	assert.True(t, ierr.IsConfig(err))
}

func TestLoadMalformedFile(t *testing.T) {
	path := writeConfigFile(t, `{"api_token": `)

	_, err := Load(path)

	require.Error(t, err)
	assert.True(t, ierr.IsConfig(err))
}

func TestValidateMissingCredentials(t *testing.T) {
	cfg := GetDefaultConfig()

	err := cfg.Validate()

	require.Error(t, err)
	assert.True(t, ierr.IsValidation(err))
}
