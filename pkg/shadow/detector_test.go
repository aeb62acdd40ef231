package shadow

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shadowscan/shadowscan/internal/models"
)

var testNow = time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)

func daysAgo(n int) *time.Time {
	t := testNow.AddDate(0, 0, -n)
	return &t
}

func findCategory(findings []models.ShadowFinding, cat models.FindingCategory) (models.ShadowFinding, bool) {
	for _, f := range findings {
		if f.Category == cat {
			return f, true
		}
	}
	return models.ShadowFinding{}, false
}

func TestDetector_UnusedAccount(t *testing.T) {
	detector := NewDetector(nil)

	t.Run("never_used", func(t *testing.T) {
		findings := detector.Detect(&models.UserEntity{Name: "ghost"}, testNow)
		finding, ok := findCategory(findings, models.CategoryUnusedAccount)
		require.True(t, ok)
		assert.Equal(t, models.SeverityHigh, finding.Severity)
		assert.Contains(t, finding.Details, `"ghost"`)
	})

	t.Run("inactive_over_three_months", func(t *testing.T) {
		findings := detector.Detect(&models.UserEntity{Name: "stale", LastUsedAt: daysAgo(120), HasMFA: true}, testNow)
		finding, ok := findCategory(findings, models.CategoryUnusedAccount)
		require.True(t, ok)
		assert.Contains(t, finding.Details, "120 days ago")
	})

	t.Run("recently_active_not_flagged", func(t *testing.T) {
		findings := detector.Detect(&models.UserEntity{Name: "busy", LastUsedAt: daysAgo(5), HasMFA: true}, testNow)
		_, ok := findCategory(findings, models.CategoryUnusedAccount)
		assert.False(t, ok)
	})
}

func TestDetector_PolicyChecks(t *testing.T) {
	detector := NewDetector(nil)

	role := &models.RoleEntity{
		Name:       "kitchen-sink",
		LastUsedAt: daysAgo(5),
		Policies: []models.Policy{
			{Name: "AdministratorAccess", Type: models.PolicyTypeManaged, UpdatedAt: daysAgo(30)},
			{Name: "PowerUserAccess", Type: models.PolicyTypeManaged, UpdatedAt: daysAgo(30)},
			{Name: "AmazonS3FullAccess", Type: models.PolicyTypeManaged, UpdatedAt: daysAgo(30)},
			{Name: "LegacyBillingPolicy", Type: models.PolicyTypeManaged, UpdatedAt: daysAgo(400)},
			{Name: "CloudSearchReadOnlyAccess", Type: models.PolicyTypeManaged, UpdatedAt: daysAgo(30)},
			{Name: "TeamScopedPolicy", Type: models.PolicyTypeInline},
		},
		TrustPolicyRaw: `{"Statement":[{"Principal":{"Service":"lambda.amazonaws.com"}}]}`,
	}

	findings := detector.Detect(role, testNow)

	adminFinding, ok := findCategory(findings, models.CategoryExcessivePermissions)
	require.True(t, ok)
	assert.Equal(t, models.SeverityHigh, adminFinding.Severity)
	assert.Contains(t, adminFinding.Details, `"AdministratorAccess"`)

	forgotten, ok := findCategory(findings, models.CategoryForgottenPolicy)
	require.True(t, ok)
	assert.Equal(t, models.SeverityHigh, forgotten.Severity)
	assert.Contains(t, forgotten.Details, `"LegacyBillingPolicy"`)

	unusedService, ok := findCategory(findings, models.CategoryUnusedService)
	require.True(t, ok)
	assert.Contains(t, unusedService.Details, `"CloudSearchReadOnlyAccess"`)

	legacy, ok := findCategory(findings, models.CategoryLegacyPolicy)
	require.True(t, ok)
	assert.Contains(t, legacy.Details, `"CloudSearchReadOnlyAccess"`)

	// Six policies attached crosses the sprawl limit.
	sprawl := false
	for _, f := range findings {
		if f.Category == models.CategoryExcessivePermissions && f.Description == "permission sprawl: too many attached policies" {
			sprawl = true
			assert.Contains(t, f.Details, `"kitchen-sink"`)
		}
	}
	assert.True(t, sprawl)
}

func TestDetector_OldAccessKeys(t *testing.T) {
	detector := NewDetector(nil)

	user := &models.UserEntity{
		Name:       "rotator",
		LastUsedAt: daysAgo(2),
		HasMFA:     true,
		AccessKeys: []models.AccessKey{
			{ID: "AKIAOLD1", CreatedAt: daysAgo(400), Status: models.KeyStatusActive},
			{ID: "AKIAOLD2", CreatedAt: daysAgo(200), Status: models.KeyStatusActive},
			{ID: "AKIANEW1", CreatedAt: daysAgo(10), Status: models.KeyStatusActive},
		},
	}

	findings := detector.Detect(user, testNow)
	finding, ok := findCategory(findings, models.CategoryOldAccessKey)
	require.True(t, ok)
	assert.Equal(t, models.SeverityMedium, finding.Severity)
	assert.Contains(t, finding.Details, "2 access keys")
	assert.Contains(t, finding.Details, `"AKIAOLD1"`)
}

func TestDetector_EachCheckEmitsAtMostOne(t *testing.T) {
	detector := NewDetector(nil)

	user := &models.UserEntity{
		Name:       "double-admin",
		LastUsedAt: daysAgo(1),
		HasMFA:     true,
		Policies: []models.Policy{
			{Name: "AdministratorAccess", Type: models.PolicyTypeManaged},
			{Name: "AdminBackupAccess", Type: models.PolicyTypeManaged},
		},
	}

	findings := detector.Detect(user, testNow)
	adminCount := 0
	for _, f := range findings {
		if f.Category == models.CategoryExcessivePermissions && f.Severity == models.SeverityHigh {
			adminCount++
		}
	}
	assert.Equal(t, 1, adminCount)
}

func TestDetector_Deterministic(t *testing.T) {
	detector := NewDetector(nil)
	user := &models.UserEntity{
		Name:     "repeat",
		Policies: []models.Policy{{Name: "AdministratorAccess"}},
	}

	first := detector.Detect(user, testNow)
	second := detector.Detect(user, testNow)
	assert.Equal(t, first, second)
}

func TestDedupe_CollapsesSharedPolicy(t *testing.T) {
	detector := NewDetector(nil)

	alice := &models.UserEntity{
		Name: "alice", LastUsedAt: daysAgo(1), HasMFA: true,
		Policies: []models.Policy{{Name: "AdministratorAccess", Type: models.PolicyTypeManaged}},
	}
	bob := &models.UserEntity{
		Name: "bob", LastUsedAt: daysAgo(1), HasMFA: true,
		Policies: []models.Policy{{Name: "AdministratorAccess", Type: models.PolicyTypeManaged}},
	}

	var all []models.ShadowFinding
	all = append(all, detector.Detect(alice, testNow)...)
	all = append(all, detector.Detect(bob, testNow)...)
	require.Len(t, all, 2)

	deduped := Dedupe(all)
	assert.Len(t, deduped, 1, "same policy held by two entities collapses to one org-level finding")
}

func TestDedupe_Idempotent(t *testing.T) {
	findings := []models.ShadowFinding{
		{Category: models.CategoryUnusedAccount, Severity: models.SeverityHigh, Details: `"ghost" has no recorded activity since creation`},
		{Category: models.CategoryLegacyPolicy, Severity: models.SeverityMedium, Details: `policy "CloudSearchFullAccess" is on the legacy policy list`},
		{Category: models.CategoryExcessivePermissions, Severity: models.SeverityHigh, Details: `policy "AdministratorAccess" grants administrator-level access`},
	}

	once := Dedupe(findings)
	twice := Dedupe(once)
	assert.Equal(t, once, twice)
}

func TestDedupe_KeepsDistinctUnquotedDetails(t *testing.T) {
	findings := []models.ShadowFinding{
		{Category: models.CategoryUnusedAccount, Details: "no quoted token here"},
		{Category: models.CategoryUnusedAccount, Details: "another unquoted detail"},
	}

	assert.Len(t, Dedupe(findings), 2)
}

func TestFirstQuotedToken(t *testing.T) {
	assert.Equal(t, "AdministratorAccess", firstQuotedToken(`policy "AdministratorAccess" grants access`))
	assert.Equal(t, "AKIAOLD1", firstQuotedToken(`oldest 'AKIAOLD1' of 3`))
	assert.Equal(t, "no quotes", firstQuotedToken("no quotes"))
}
