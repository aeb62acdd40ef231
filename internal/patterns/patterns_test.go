package patterns

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, DefaultVersion, cfg.Version)
	assert.True(t, cfg.IsAdmin("AdministratorAccess"))
	assert.True(t, cfg.IsAdmin("*"))
	assert.True(t, cfg.IsPowerUser("PowerUserAccess"))
	assert.True(t, cfg.IsWrite("S3WriteObjects"))
	assert.True(t, cfg.IsFullService("AmazonS3FullAccess"))
	assert.True(t, cfg.IsReadOnly("AmazonEC2ReadOnlyAccess"))
	assert.True(t, cfg.IsUnusedService("CloudSearchReadOnlyAccess"))
	assert.True(t, cfg.IsLegacy("AWSCodeCommitFullAccess"))

	assert.False(t, cfg.IsAdmin("AppReadOnlyPolicy"))
	assert.False(t, cfg.IsLegacy("awscodecommitfullaccess"), "legacy matching is exact, not case-insensitive")
}

func TestMatchingIsCaseInsensitiveSubstring(t *testing.T) {
	cfg := Default()

	assert.True(t, cfg.IsAdmin("my-ADMIN-policy"))
	assert.True(t, cfg.IsFullService("s3fullaccess-v2"))
	assert.False(t, cfg.IsWrite("ReadOnlyAudit"))
}

func TestAdminAndFullServiceAreDistinct(t *testing.T) {
	cfg := Default()

	// AdministratorAccess is admin grade but not a single-service grant,
	// and the reverse for AmazonS3FullAccess. Downstream classification
	// depends on the two lists not overlapping.
	assert.True(t, cfg.IsAdmin("AdministratorAccess"))
	assert.False(t, cfg.IsFullService("AdministratorAccess"))
	assert.True(t, cfg.IsFullService("AmazonS3FullAccess"))
	assert.False(t, cfg.IsAdmin("AmazonS3FullAccess"))
}

func TestLoad_OverridesOnlyListedFields(t *testing.T) {
	path := filepath.Join(t.TempDir(), "patterns.yaml")
	data := `version: "2026-08-custom"
admin_patterns:
  - superuser
legacy_policy_names:
  - InHouseLegacyPolicy
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "2026-08-custom", cfg.Version)
	assert.True(t, cfg.IsAdmin("superuser-deploy"))
	assert.False(t, cfg.IsAdmin("AdministratorAccess"), "overridden list replaces the default")
	assert.True(t, cfg.IsLegacy("InHouseLegacyPolicy"))
	assert.False(t, cfg.IsLegacy("AWSCodeCommitFullAccess"))

	// Lists absent from the file keep their defaults.
	assert.True(t, cfg.IsFullService("AmazonS3FullAccess"))
	assert.True(t, cfg.IsWrite("S3WriteObjects"))
}

func TestLoad_MissingVersionFallsBack(t *testing.T) {
	path := filepath.Join(t.TempDir(), "patterns.yaml")
	require.NoError(t, os.WriteFile(path, []byte("admin_patterns: [root]\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, DefaultVersion, cfg.Version)
}

func TestLoad_Errors(t *testing.T) {
	t.Run("missing_file", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "error reading pattern config")
	})

	t.Run("malformed_yaml", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "bad.yaml")
		require.NoError(t, os.WriteFile(path, []byte("admin_patterns: {not: [a, list"), 0o644))

		_, err := Load(path)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "error parsing pattern config")
	})
}
