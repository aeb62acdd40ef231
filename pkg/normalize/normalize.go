// Package normalize maps provider-specific identity records into the
// canonical entity variants so everything downstream is
// provider-agnostic.
package normalize

import (
	"fmt"
	"strings"

	"github.com/shadowscan/shadowscan/internal/models"
)

// ParseProvider validates a provider name. An unknown provider is a
// configuration error, not a data error: the caller must reject the
// batch rather than score it defensively.
func ParseProvider(s string) (models.Provider, error) {
	switch models.Provider(s) {
	case models.ProviderAWS:
		return models.ProviderAWS, nil
	case models.ProviderGoogle:
		return models.ProviderGoogle, nil
	default:
		return "", fmt.Errorf("unknown identity provider %q", s)
	}
}

// FromSnapshot converts one provider-fetch snapshot into canonical
// entities, in AWS-users, AWS-roles, Google-users order. Google users
// whose email local part matches an AWS user name in the same snapshot
// are marked as cross-provider, in addition to any flag the record
// already carries.
func FromSnapshot(snap models.Snapshot) []models.Entity {
	awsUserNames := make(map[string]bool, len(snap.AWSUsers))
	for _, rec := range snap.AWSUsers {
		awsUserNames[strings.ToLower(rec.Name)] = true
	}

	entities := make([]models.Entity, 0, len(snap.AWSUsers)+len(snap.AWSRoles)+len(snap.GoogleUsers))
	for _, rec := range snap.AWSUsers {
		entities = append(entities, AWSUser(rec))
	}
	for _, rec := range snap.AWSRoles {
		entities = append(entities, AWSRole(rec))
	}
	for _, rec := range snap.GoogleUsers {
		user := GoogleUser(rec)
		if !user.HasAWSAccess {
			local, _, found := strings.Cut(rec.Email, "@")
			user.HasAWSAccess = found && awsUserNames[strings.ToLower(local)]
		}
		entities = append(entities, user)
	}
	return entities
}

// AWSUser maps an AWS user record into a UserEntity. Missing optional
// fields take their natural empty defaults.
func AWSUser(rec models.AWSUserRecord) *models.UserEntity {
	keys := make([]models.AccessKey, 0, len(rec.AccessKeys))
	for _, k := range rec.AccessKeys {
		keys = append(keys, models.AccessKey{
			ID:         k.ID,
			CreatedAt:  k.CreatedAt,
			LastUsedAt: k.LastUsedAt,
			Status:     keyStatus(k.Status),
		})
	}

	return &models.UserEntity{
		Name:       rec.Name,
		CreatedAt:  rec.CreatedAt,
		LastUsedAt: rec.LastUsed,
		Policies:   policies(rec.Policies),
		HasMFA:     rec.HasMFA,
		AccessKeys: keys,
	}
}

// AWSRole maps an AWS role record into a RoleEntity.
func AWSRole(rec models.AWSRoleRecord) *models.RoleEntity {
	return &models.RoleEntity{
		Name:           rec.Name,
		CreatedAt:      rec.CreatedAt,
		LastUsedAt:     rec.LastUsed,
		Policies:       policies(rec.Policies),
		TrustPolicyRaw: rec.TrustPolicyRaw,
	}
}

// GoogleUser maps a Google Workspace user record into a GoogleUserEntity.
func GoogleUser(rec models.GoogleUserRecord) *models.GoogleUserEntity {
	return &models.GoogleUserEntity{
		Email:                     rec.Email,
		CreatedAt:                 rec.CreatedAt,
		LastLoginAt:               rec.LastLoginTime,
		Suspended:                 rec.Suspended,
		IsAdmin:                   rec.IsAdmin,
		IsDelegatedAdmin:          rec.IsDelegatedAdmin,
		EnrolledIn2SV:             rec.IsEnrolledIn2SV,
		MailboxSetup:              rec.IsMailboxSetup,
		ChangePasswordAtNextLogin: rec.ChangePasswordAtNextLogin,
		HasAWSAccess:              rec.HasAWSAccess,
	}
}

func policies(recs []models.PolicyRecord) []models.Policy {
	out := make([]models.Policy, 0, len(recs))
	for _, p := range recs {
		out = append(out, models.Policy{
			Name:        p.Name,
			Type:        policyType(p.Type),
			Description: p.Description,
			CreatedAt:   p.CreatedAt,
			UpdatedAt:   p.UpdatedAt,
		})
	}
	return out
}

func policyType(s string) models.PolicyType {
	if s == string(models.PolicyTypeInline) {
		return models.PolicyTypeInline
	}
	return models.PolicyTypeManaged
}

func keyStatus(s string) models.KeyStatus {
	if s == string(models.KeyStatusActive) {
		return models.KeyStatusActive
	}
	return models.KeyStatusInactive
}
