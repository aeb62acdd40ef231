package timeline

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

func eventsOfType(events []models.TimelineEvent, et models.EventType) []models.TimelineEvent {
	var out []models.TimelineEvent
	for _, ev := range events {
		if ev.EventType == et {
			out = append(out, ev)
		}
	}
	return out
}

func TestProjector_NeverUsedRole(t *testing.T) {
	projector := NewProjector(nil)

	role := &models.RoleEntity{
		Name:           "dormant-deploy",
		TrustPolicyRaw: `{"Statement":[{"Principal":{"Service":"lambda.amazonaws.com"}}]}`,
	}

	timeline := projector.Project([]models.Entity{role}, testNow)

	require.Len(t, timeline.Events, 1)
	ev := timeline.Events[0]
	assert.Equal(t, models.EventShadowRisk, ev.EventType)
	assert.Equal(t, models.SeverityHigh, ev.Severity)
	assert.Equal(t, testNow.AddDate(0, 0, 45), ev.EstimatedDate)
	assert.Equal(t, 90, ev.Confidence)
	assert.True(t, ev.Factors.NeverUsed)
	assert.Equal(t, "dormant-deploy", ev.Entity.Name)
}

func TestProjector_NeverUsedUserIsCritical(t *testing.T) {
	projector := NewProjector(nil)

	user := &models.UserEntity{Name: "ghost", HasMFA: true}
	timeline := projector.Project([]models.Entity{user}, testNow)

	shadow := eventsOfType(timeline.Events, models.EventShadowRisk)
	require.Len(t, shadow, 1)
	assert.Equal(t, models.SeverityCritical, shadow[0].Severity)
	assert.Equal(t, testNow.AddDate(0, 0, 30), shadow[0].EstimatedDate)
	assert.Equal(t, 95, shadow[0].Confidence)
}

func TestProjector_InactivityBands(t *testing.T) {
	projector := NewProjector(nil)

	cases := []struct {
		name       string
		entity     models.Entity
		offset     int
		severity   models.Severity
		confidence int
	}{
		{
			name:       "dormant_user",
			entity:     &models.UserEntity{Name: "u", LastUsedAt: daysAgo(200), HasMFA: true},
			offset:     7,
			severity:   models.SeverityCritical,
			confidence: 90,
		},
		{
			name:       "dormant_role",
			entity:     &models.RoleEntity{Name: "r", LastUsedAt: daysAgo(200)},
			offset:     14,
			severity:   models.SeverityCritical,
			confidence: 90,
		},
		{
			name:       "stale_user",
			entity:     &models.UserEntity{Name: "u", LastUsedAt: daysAgo(120), HasMFA: true},
			offset:     30,
			severity:   models.SeverityHigh,
			confidence: 75,
		},
		{
			name:       "stale_role",
			entity:     &models.RoleEntity{Name: "r", LastUsedAt: daysAgo(120)},
			offset:     45,
			severity:   models.SeverityHigh,
			confidence: 75,
		},
		{
			name:       "aging_user",
			entity:     &models.UserEntity{Name: "u", LastUsedAt: daysAgo(45), HasMFA: true},
			offset:     60,
			severity:   models.SeverityMedium,
			confidence: 60,
		},
		{
			name:       "aging_role",
			entity:     &models.RoleEntity{Name: "r", LastUsedAt: daysAgo(45)},
			offset:     90,
			severity:   models.SeverityMedium,
			confidence: 60,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			timeline := projector.Project([]models.Entity{tc.entity}, testNow)
			events := eventsOfType(timeline.Events, models.EventActivityThreshold)
			require.Len(t, events, 1)
			assert.Equal(t, testNow.AddDate(0, 0, tc.offset), events[0].EstimatedDate)
			assert.Equal(t, tc.severity, events[0].Severity)
			assert.Equal(t, tc.confidence, events[0].Confidence)
		})
	}
}

func TestProjector_ActiveEntityEmitsNoActivityEvent(t *testing.T) {
	projector := NewProjector(nil)

	user := &models.UserEntity{Name: "busy", LastUsedAt: daysAgo(10), HasMFA: true}
	timeline := projector.Project([]models.Entity{user}, testNow)

	assert.Empty(t, timeline.Events)
	assert.Equal(t, 0, timeline.Summary.TotalEvents)
}

func TestProjector_MFAEvent(t *testing.T) {
	projector := NewProjector(nil)

	t.Run("aws_user_without_mfa", func(t *testing.T) {
		user := &models.UserEntity{Name: "no-mfa", LastUsedAt: daysAgo(1)}
		timeline := projector.Project([]models.Entity{user}, testNow)

		events := eventsOfType(timeline.Events, models.EventMFAExpiry)
		require.Len(t, events, 1)
		assert.Equal(t, testNow.AddDate(0, 0, 60), events[0].EstimatedDate)
		assert.Equal(t, models.SeverityHigh, events[0].Severity)
		assert.Equal(t, 80, events[0].Confidence)
	})

	t.Run("google_user_without_2sv", func(t *testing.T) {
		user := &models.GoogleUserEntity{Email: "dev@example.com", LastLoginAt: daysAgo(1)}
		timeline := projector.Project([]models.Entity{user}, testNow)

		events := eventsOfType(timeline.Events, models.EventMFAExpiry)
		require.Len(t, events, 1)
	})

	t.Run("roles_have_no_mfa_concept", func(t *testing.T) {
		role := &models.RoleEntity{Name: "svc", LastUsedAt: daysAgo(1)}
		timeline := projector.Project([]models.Entity{role}, testNow)

		assert.Empty(t, eventsOfType(timeline.Events, models.EventMFAExpiry))
	})
}

func TestProjector_PermissionEvent(t *testing.T) {
	projector := NewProjector(nil)

	t.Run("admin_user", func(t *testing.T) {
		user := &models.UserEntity{
			Name:       "ops-admin",
			LastUsedAt: daysAgo(1),
			HasMFA:     true,
			Policies:   []models.Policy{{Name: "AdministratorAccess"}},
		}
		timeline := projector.Project([]models.Entity{user}, testNow)

		events := eventsOfType(timeline.Events, models.EventPermissionExpiry)
		require.Len(t, events, 1)
		assert.Equal(t, testNow.AddDate(0, 0, 90), events[0].EstimatedDate)
		assert.Equal(t, 85, events[0].Confidence)
		assert.Equal(t, models.PermissionAdmin, events[0].Factors.PermissionLevel)
	})

	t.Run("full_access_role_gets_longer_runway", func(t *testing.T) {
		role := &models.RoleEntity{
			Name:       "s3-writer",
			LastUsedAt: daysAgo(1),
			Policies:   []models.Policy{{Name: "AmazonS3FullAccess"}},
		}
		timeline := projector.Project([]models.Entity{role}, testNow)

		events := eventsOfType(timeline.Events, models.EventPermissionExpiry)
		require.Len(t, events, 1)
		assert.Equal(t, testNow.AddDate(0, 0, 120), events[0].EstimatedDate)
	})

	t.Run("read_only_user_has_no_event", func(t *testing.T) {
		user := &models.UserEntity{
			Name:       "auditor",
			LastUsedAt: daysAgo(1),
			HasMFA:     true,
			Policies:   []models.Policy{{Name: "SecurityAudit"}},
		}
		timeline := projector.Project([]models.Entity{user}, testNow)

		assert.Empty(t, eventsOfType(timeline.Events, models.EventPermissionExpiry))
	})
}

func TestProjector_EventsSortedByDate(t *testing.T) {
	projector := NewProjector(nil)

	entities := []models.Entity{
		&models.UserEntity{Name: "admin-no-mfa", LastUsedAt: daysAgo(200), Policies: []models.Policy{{Name: "AdministratorAccess"}}},
		&models.RoleEntity{Name: "never-role"},
		&models.UserEntity{Name: "ghost"},
	}

	timeline := projector.Project(entities, testNow)
	require.NotEmpty(t, timeline.Events)

	for i := 1; i < len(timeline.Events); i++ {
		assert.False(t, timeline.Events[i].EstimatedDate.Before(timeline.Events[i-1].EstimatedDate),
			"events must be ordered by estimated date")
	}
	for _, ev := range timeline.Events {
		assert.False(t, ev.EstimatedDate.Before(testNow), "projected dates are never in the past")
	}
}

func TestProjector_SummaryHorizons(t *testing.T) {
	projector := NewProjector(nil)

	entities := []models.Entity{
		// Dormant admin without MFA: +7d critical, +60d high, +90d high.
		&models.UserEntity{Name: "worst", LastUsedAt: daysAgo(365), Policies: []models.Policy{{Name: "AdministratorAccess"}}},
		// Aging role: +90d medium.
		&models.RoleEntity{Name: "drifting", LastUsedAt: daysAgo(45)},
	}

	timeline := projector.Project(entities, testNow)
	summary := timeline.Summary

	assert.Equal(t, 4, summary.TotalEvents)
	assert.Equal(t, 1, summary.CriticalCount)
	assert.Equal(t, 2, summary.HighCount)
	assert.Equal(t, 1, summary.MediumCount)
	assert.Equal(t, 1, summary.Within30Days)
	assert.Equal(t, 4, summary.Within90Days)
	assert.Equal(t, 4, summary.Within180Days)
}
