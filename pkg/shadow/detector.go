// Package shadow detects shadow-permission findings: grants that are
// technically valid but practically unmonitored (unused, stale,
// orphaned, or excessive).
package shadow

import (
	"fmt"
	"strings"
	"time"

	"github.com/shadowscan/shadowscan/internal/models"
	"github.com/shadowscan/shadowscan/internal/patterns"
	"github.com/shadowscan/shadowscan/pkg/risk"
	"github.com/shadowscan/shadowscan/pkg/utils"
)

// Detection thresholds.
const (
	unusedAfterDays    = 90  // 3 months of inactivity marks an account unused
	oldKeyMonths       = 6   // access keys older than this are stale
	forgottenAfterDays = 365 // policies untouched this long are forgotten
	policyCountLimit   = 5   // more attached policies than this is sprawl
)

// Detector runs the shadow-permission pattern checks against one
// pattern set.
type Detector struct {
	cfg *patterns.Config
}

// NewDetector creates a Detector. A nil config uses the built-in defaults.
func NewDetector(cfg *patterns.Config) *Detector {
	if cfg == nil {
		cfg = patterns.Default()
	}
	return &Detector{cfg: cfg}
}

// Detect runs every pattern check against the entity. Each check emits
// at most one finding; the evaluation order is fixed so finding lists
// read consistently. MFA and inline-policy signals surface as scorer
// factors rather than findings since they have no finding category.
func (d *Detector) Detect(entity models.Entity, now time.Time) []models.ShadowFinding {
	switch e := entity.(type) {
	case *models.UserEntity:
		return d.detect(e.Ref(), risk.UserActivitySignal(e), e.Policies, e.AccessKeys, now)
	case *models.RoleEntity:
		return d.detect(e.Ref(), e.LastUsedAt, e.Policies, nil, now)
	case *models.GoogleUserEntity:
		return d.detect(e.Ref(), risk.GoogleLoginSignal(e), nil, nil, now)
	default:
		return nil
	}
}

func (d *Detector) detect(ref models.EntityRef, signal *time.Time, policies []models.Policy, keys []models.AccessKey, now time.Time) []models.ShadowFinding {
	var findings []models.ShadowFinding

	// Unused account is the single most actionable finding, checked first.
	if signal == nil {
		findings = append(findings, models.ShadowFinding{
			Category:    models.CategoryUnusedAccount,
			Severity:    models.SeverityHigh,
			Description: fmt.Sprintf("%s has never been used", ref.Kind),
			Details:     fmt.Sprintf("%q has no recorded activity since creation", ref.Name),
		})
	} else if days := utils.ElapsedDays(*signal, now); days > unusedAfterDays {
		findings = append(findings, models.ShadowFinding{
			Category:    models.CategoryUnusedAccount,
			Severity:    models.SeverityHigh,
			Description: fmt.Sprintf("%s inactive for over 3 months", ref.Kind),
			Details:     fmt.Sprintf("%q last active %d days ago", ref.Name, days),
		})
	}

	for _, p := range policies {
		if d.cfg.IsAdmin(p.Name) || d.cfg.IsFullService(p.Name) {
			findings = append(findings, models.ShadowFinding{
				Category:    models.CategoryExcessivePermissions,
				Severity:    models.SeverityHigh,
				Description: "administrator or full-access policy attached",
				Details:     fmt.Sprintf("policy %q grants administrator-level access", p.Name),
			})
			break
		}
	}

	for _, p := range policies {
		if d.cfg.IsPowerUser(p.Name) {
			findings = append(findings, models.ShadowFinding{
				Category:    models.CategoryExcessivePermissions,
				Severity:    models.SeverityMedium,
				Description: "power-user-equivalent policy attached",
				Details:     fmt.Sprintf("policy %q grants power-user access", p.Name),
			})
			break
		}
	}

	fullServiceCount := 0
	firstFullService := ""
	for _, p := range policies {
		if d.cfg.IsFullService(p.Name) {
			if fullServiceCount == 0 {
				firstFullService = p.Name
			}
			fullServiceCount++
		}
	}
	if fullServiceCount > 0 {
		findings = append(findings, models.ShadowFinding{
			Category:    models.CategoryExcessivePermissions,
			Severity:    models.SeverityMedium,
			Description: "full-service-access policies attached",
			Details:     fmt.Sprintf("%d policies grant full access to a single service, including %q", fullServiceCount, firstFullService),
		})
	}

	oldKeyCount := 0
	var oldestKey string
	var oldestDate *time.Time
	keyCutoff := now.AddDate(0, -oldKeyMonths, 0)
	for _, key := range keys {
		if key.CreatedAt != nil && key.CreatedAt.Before(keyCutoff) {
			oldKeyCount++
			if oldestDate == nil || key.CreatedAt.Before(*oldestDate) {
				oldestDate = key.CreatedAt
				oldestKey = key.ID
			}
		}
	}
	if oldKeyCount > 0 {
		findings = append(findings, models.ShadowFinding{
			Category:    models.CategoryOldAccessKey,
			Severity:    models.SeverityMedium,
			Description: fmt.Sprintf("access keys older than %d months", oldKeyMonths),
			Details:     fmt.Sprintf("%d access keys exceed the rotation window, oldest %q", oldKeyCount, oldestKey),
		})
	}

	for _, p := range policies {
		if p.UpdatedAt != nil && utils.ElapsedDays(*p.UpdatedAt, now) > forgottenAfterDays {
			findings = append(findings, models.ShadowFinding{
				Category:    models.CategoryForgottenPolicy,
				Severity:    models.SeverityHigh,
				Description: "policy not updated in over 12 months",
				Details:     fmt.Sprintf("policy %q last updated %d days ago", p.Name, utils.ElapsedDays(*p.UpdatedAt, now)),
			})
			break
		}
	}

	for _, p := range policies {
		if d.cfg.IsUnusedService(p.Name) {
			findings = append(findings, models.ShadowFinding{
				Category:    models.CategoryUnusedService,
				Severity:    models.SeverityMedium,
				Description: "policy grants access to a known unused service",
				Details:     fmt.Sprintf("policy %q references an unused service", p.Name),
			})
			break
		}
	}

	for _, p := range policies {
		if d.cfg.IsLegacy(p.Name) {
			findings = append(findings, models.ShadowFinding{
				Category:    models.CategoryLegacyPolicy,
				Severity:    models.SeverityMedium,
				Description: "legacy policy still attached",
				Details:     fmt.Sprintf("policy %q is on the legacy policy list", p.Name),
			})
			break
		}
	}

	if len(policies) > policyCountLimit {
		findings = append(findings, models.ShadowFinding{
			Category:    models.CategoryExcessivePermissions,
			Severity:    models.SeverityHigh,
			Description: "permission sprawl: too many attached policies",
			Details:     fmt.Sprintf("%q has %d policies attached", ref.Name, len(policies)),
		})
	}

	return findings
}

// Dedupe drops findings sharing (category, first quoted token of
// details), keeping the first occurrence. This collapses the same named
// policy flagged once per holding entity into one organization-level
// finding. Idempotent: deduplicating twice returns the same list.
func Dedupe(findings []models.ShadowFinding) []models.ShadowFinding {
	type dedupKey struct {
		category models.FindingCategory
		token    string
	}

	seen := make(map[dedupKey]bool, len(findings))
	out := make([]models.ShadowFinding, 0, len(findings))
	for _, f := range findings {
		key := dedupKey{category: f.Category, token: firstQuotedToken(f.Details)}
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, f)
	}
	return out
}

// firstQuotedToken returns the first single- or double-quoted token of
// s. Findings without a quoted token fall back to the whole details
// string so distinct unquoted findings never collapse.
func firstQuotedToken(s string) string {
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c != '"' && c != '\'' {
			continue
		}
		if j := strings.IndexByte(s[i+1:], c); j >= 0 {
			return s[i+1 : i+1+j]
		}
	}
	return s
}
