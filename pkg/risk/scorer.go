// Package risk computes per-entity risk assessments. The AWS scorer
// works on a 0-15 scale (three 0-5 sub-scores); the Google scorer uses
// its own wider additive scale. Raw scores never cross a provider
// boundary; only the normalized risk level does.
package risk

import (
	"fmt"
	"time"

	"github.com/shadowscan/shadowscan/internal/models"
	"github.com/shadowscan/shadowscan/internal/patterns"
	"github.com/shadowscan/shadowscan/pkg/utils"
)

// Recency and inactivity thresholds in days.
const (
	recencyActiveDays  = 30
	recencyStaleDays   = 90
	recencyDormantDays = 180
	inactiveAfterDays  = 90
)

// AwsRiskScore holds the three sub-scores of an AWS entity assessment.
type AwsRiskScore struct {
	Recency    int
	Permission int
	Identity   int
}

// Total returns the combined score on the 0-15 AWS scale.
func (s AwsRiskScore) Total() int {
	return s.Recency + s.Permission + s.Identity
}

// RiskLevel maps the total score onto the four-level risk bucket.
func (s AwsRiskScore) RiskLevel() models.RiskLevel {
	switch total := s.Total(); {
	case total <= 4:
		return models.RiskLevelLow
	case total <= 9:
		return models.RiskLevelMedium
	case total <= 14:
		return models.RiskLevelHigh
	default:
		return models.RiskLevelCritical
	}
}

// Scorer computes risk assessments against one pattern set.
type Scorer struct {
	cfg *patterns.Config
}

// NewScorer creates a Scorer. A nil config uses the built-in defaults.
func NewScorer(cfg *patterns.Config) *Scorer {
	if cfg == nil {
		cfg = patterns.Default()
	}
	return &Scorer{cfg: cfg}
}

// Score computes the risk assessment for one entity at the given
// instant. It is deterministic for a fixed entity and now, and never
// fails on entity data; an error means the entity variant is unknown,
// which rejects the whole batch.
func (s *Scorer) Score(entity models.Entity, now time.Time) (models.RiskAssessment, error) {
	switch e := entity.(type) {
	case *models.UserEntity:
		return s.scoreUser(e, now), nil
	case *models.RoleEntity:
		return s.scoreRole(e, now), nil
	case *models.GoogleUserEntity:
		return s.scoreGoogleUser(e, now), nil
	default:
		return models.RiskAssessment{}, fmt.Errorf("unknown entity variant %T", entity)
	}
}

func (s *Scorer) scoreUser(u *models.UserEntity, now time.Time) models.RiskAssessment {
	var factors []string
	var score AwsRiskScore

	signal := UserActivitySignal(u)
	if signal == nil {
		score.Recency = 5
		factors = append(factors, "user has no recorded activity")
	} else {
		days := utils.ElapsedDays(*signal, now)
		score.Recency = recencyScore(days)
		if score.Recency > 0 {
			factors = append(factors, fmt.Sprintf("user last active %d days ago", days))
		}
	}

	perm, permPolicy := s.permissionScore(u.Policies)
	score.Permission = perm
	switch perm {
	case 5:
		factors = append(factors, fmt.Sprintf("administrator-grade policy %q attached", permPolicy))
	case 2:
		factors = append(factors, fmt.Sprintf("write-level policy %q attached", permPolicy))
	}

	hasActiveKey := false
	allKeysInactive := len(u.AccessKeys) > 0
	for _, key := range u.AccessKeys {
		if key.Status == models.KeyStatusActive {
			hasActiveKey = true
			allKeysInactive = false
		}
	}

	switch {
	case !hasActiveKey && !u.HasMFA && signal == nil:
		score.Identity = 5
		factors = append(factors, "orphaned user: no active access keys, no MFA, no activity signal")
	case signal == nil || utils.ElapsedDays(*signal, now) > inactiveAfterDays || allKeysInactive:
		score.Identity = 3
		if allKeysInactive && signal != nil && utils.ElapsedDays(*signal, now) <= inactiveAfterDays {
			factors = append(factors, "inactive user: all access keys are inactive")
		} else {
			factors = append(factors, fmt.Sprintf("inactive user: no activity in over %d days", inactiveAfterDays))
		}
	}

	if !u.HasMFA {
		factors = append(factors, "MFA not enabled")
	}
	if n := countInline(u.Policies); n > 0 {
		factors = append(factors, fmt.Sprintf("%d inline policies attached", n))
	}

	return models.RiskAssessment{
		Entity:    u.Ref(),
		RiskLevel: score.RiskLevel(),
		Score:     score.Total(),
		Subscores: models.Subscores{
			Recency:    score.Recency,
			Permission: score.Permission,
			Identity:   score.Identity,
		},
		Factors: factors,
	}
}

func (s *Scorer) scoreRole(r *models.RoleEntity, now time.Time) models.RiskAssessment {
	var factors []string
	var score AwsRiskScore

	if r.LastUsedAt == nil {
		score.Recency = 5
		factors = append(factors, "role has never been assumed")
	} else {
		days := utils.ElapsedDays(*r.LastUsedAt, now)
		score.Recency = recencyScore(days)
		if score.Recency > 0 {
			factors = append(factors, fmt.Sprintf("role last assumed %d days ago", days))
		}
	}

	perm, permPolicy := s.permissionScore(r.Policies)
	score.Permission = perm
	switch perm {
	case 5:
		factors = append(factors, fmt.Sprintf("administrator-grade policy %q attached", permPolicy))
	case 2:
		factors = append(factors, fmt.Sprintf("write-level policy %q attached", permPolicy))
	}

	// Unreadable trust means the role cannot be vouched for; score it as
	// orphaned rather than failing.
	switch {
	case !hasTrustedPrincipal(r.TrustPolicyRaw):
		score.Identity = 5
		factors = append(factors, "orphaned role: trust policy missing, unparseable, or names no principal")
	case r.LastUsedAt == nil || utils.ElapsedDays(*r.LastUsedAt, now) > inactiveAfterDays:
		score.Identity = 3
		factors = append(factors, fmt.Sprintf("inactive role: not assumed in over %d days", inactiveAfterDays))
	}

	if n := countInline(r.Policies); n > 0 {
		factors = append(factors, fmt.Sprintf("%d inline policies attached", n))
	}

	return models.RiskAssessment{
		Entity:    r.Ref(),
		RiskLevel: score.RiskLevel(),
		Score:     score.Total(),
		Subscores: models.Subscores{
			Recency:    score.Recency,
			Permission: score.Permission,
			Identity:   score.Identity,
		},
		Factors: factors,
	}
}

// UserActivitySignal returns the most recent activity timestamp for a
// user: the later of the console last-used time and any access key's
// last-used time. Nil means the user has never been used.
func UserActivitySignal(u *models.UserEntity) *time.Time {
	signal := u.LastUsedAt
	for _, key := range u.AccessKeys {
		if key.LastUsedAt != nil && (signal == nil || key.LastUsedAt.After(*signal)) {
			signal = key.LastUsedAt
		}
	}
	return signal
}

func recencyScore(days int) int {
	switch {
	case days <= recencyActiveDays:
		return 0
	case days <= recencyStaleDays:
		return 2
	case days <= recencyDormantDays:
		return 3
	default:
		return 5
	}
}

// permissionScore takes the maximum over all policies rather than a
// sum: one high-privilege policy already defines the exposure, and
// summing would over-penalize entities with many low-risk policies.
func (s *Scorer) permissionScore(policies []models.Policy) (int, string) {
	best := 0
	bestName := ""
	for _, p := range policies {
		switch {
		case s.cfg.IsAdmin(p.Name) || s.cfg.IsFullService(p.Name):
			return 5, p.Name
		case s.cfg.IsWrite(p.Name) && best < 2:
			best = 2
			bestName = p.Name
		}
	}
	return best, bestName
}

// PermissionLevelOf classifies an entity's permission breadth from its
// policy names: admin beats full-access beats read-only; anything else
// is custom.
func PermissionLevelOf(cfg *patterns.Config, policies []models.Policy) models.PermissionLevel {
	for _, p := range policies {
		if cfg.IsAdmin(p.Name) {
			return models.PermissionAdmin
		}
	}
	for _, p := range policies {
		if cfg.IsFullService(p.Name) {
			return models.PermissionFullAccess
		}
	}
	for _, p := range policies {
		if cfg.IsReadOnly(p.Name) {
			return models.PermissionReadOnly
		}
	}
	return models.PermissionCustom
}

func countInline(policies []models.Policy) int {
	n := 0
	for _, p := range policies {
		if p.Type == models.PolicyTypeInline {
			n++
		}
	}
	return n
}
