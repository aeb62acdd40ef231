package risk

import (
	"fmt"
	"time"

	"github.com/shadowscan/shadowscan/internal/models"
	"github.com/shadowscan/shadowscan/pkg/utils"
)

// Google Workspace point weights. The Google scale is additive and
// wider than the AWS 0-15 scale; the two are never compared directly.
const (
	googleNeverLoggedIn   = 5
	googleDormantLogin    = 5
	googleStaleLogin      = 3
	googleAgingLogin      = 2
	googleSuspended       = 3
	googleSuperAdmin      = 5
	googleDelegatedAdmin  = 3
	googleNo2SV           = 4
	googleNoMailbox       = 2
	googlePendingPassword = 1
	googleCrossProvider   = 3
)

// GoogleRiskScore is the additive Google Workspace score.
type GoogleRiskScore struct {
	Points int
}

// RiskLevel maps the Google point total onto the shared risk buckets.
// Thresholds differ from the AWS scale on purpose.
func (g GoogleRiskScore) RiskLevel() models.RiskLevel {
	switch {
	case g.Points >= 15:
		return models.RiskLevelCritical
	case g.Points >= 10:
		return models.RiskLevelHigh
	case g.Points >= 5:
		return models.RiskLevelMedium
	default:
		return models.RiskLevelLow
	}
}

func (s *Scorer) scoreGoogleUser(g *models.GoogleUserEntity, now time.Time) models.RiskAssessment {
	var factors []string
	var score GoogleRiskScore

	recencyPoints := 0
	login := GoogleLoginSignal(g)
	if login == nil {
		recencyPoints = googleNeverLoggedIn
		factors = append(factors, "user has never logged in")
	} else {
		days := utils.ElapsedDays(*login, now)
		switch {
		case days > recencyDormantDays:
			recencyPoints = googleDormantLogin
		case days > recencyStaleDays:
			recencyPoints = googleStaleLogin
		case days > recencyActiveDays:
			recencyPoints = googleAgingLogin
		}
		if recencyPoints > 0 {
			factors = append(factors, fmt.Sprintf("user last logged in %d days ago", days))
		}
	}
	score.Points += recencyPoints

	adminPoints := 0
	if g.IsAdmin {
		adminPoints += googleSuperAdmin
		factors = append(factors, "super admin privileges")
	}
	if g.IsDelegatedAdmin {
		adminPoints += googleDelegatedAdmin
		factors = append(factors, "delegated admin privileges")
	}
	score.Points += adminPoints

	identityPoints := 0
	if g.Suspended {
		identityPoints += googleSuspended
		factors = append(factors, "account suspended but not removed")
	}
	if !g.EnrolledIn2SV {
		identityPoints += googleNo2SV
		factors = append(factors, "not enrolled in 2-step verification")
	}
	if !g.MailboxSetup {
		identityPoints += googleNoMailbox
		factors = append(factors, "mailbox never set up")
	}
	if g.ChangePasswordAtNextLogin {
		identityPoints += googlePendingPassword
		factors = append(factors, "password change pending since provisioning")
	}
	if g.HasAWSAccess {
		identityPoints += googleCrossProvider
		factors = append(factors, "also holds AWS access")
	}
	score.Points += identityPoints

	return models.RiskAssessment{
		Entity:    g.Ref(),
		RiskLevel: score.RiskLevel(),
		Score:     score.Points,
		Subscores: models.Subscores{
			Recency:    clampSubscore(recencyPoints),
			Permission: clampSubscore(adminPoints),
			Identity:   clampSubscore(identityPoints),
		},
		Factors: factors,
	}
}

// GoogleLoginSignal returns the user's last login, treating absent or
// epoch-zero values as "never logged in".
func GoogleLoginSignal(g *models.GoogleUserEntity) *time.Time {
	if g.LastLoginAt == nil || g.LastLoginAt.IsZero() || g.LastLoginAt.Unix() == 0 {
		return nil
	}
	return g.LastLoginAt
}

func clampSubscore(points int) int {
	if points > 5 {
		return 5
	}
	if points < 0 {
		return 0
	}
	return points
}
