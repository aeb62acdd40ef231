package models

import "time"

// Provider identifies the identity provider an entity was fetched from.
type Provider string

const (
	ProviderAWS    Provider = "aws"
	ProviderGoogle Provider = "google"
)

// EntityKind distinguishes human users from service identities.
type EntityKind string

const (
	EntityKindUser EntityKind = "user"
	EntityKindRole EntityKind = "role"
)

// PolicyType distinguishes inline from managed policies.
type PolicyType string

const (
	PolicyTypeInline  PolicyType = "inline"
	PolicyTypeManaged PolicyType = "managed"
)

// Policy represents a permission policy attached to an entity
type Policy struct {
	Name        string     // Policy name as shown by the provider
	Type        PolicyType // inline or managed
	Description string     // Optional description
	CreatedAt   *time.Time // When the policy was created
	UpdatedAt   *time.Time // When the policy was last updated
}

// KeyStatus is the provider-reported state of an access key.
type KeyStatus string

const (
	KeyStatusActive   KeyStatus = "active"
	KeyStatusInactive KeyStatus = "inactive"
)

// AccessKey represents a long-lived credential attached to a user
type AccessKey struct {
	ID         string     // Access key ID
	CreatedAt  *time.Time // When the key was created
	LastUsedAt *time.Time // When the key was last used (nil = never)
	Status     KeyStatus  // active or inactive
}

// EntityRef identifies an entity across report payloads.
type EntityRef struct {
	Kind     EntityKind `json:"kind"`
	Provider Provider   `json:"provider"`
	Name     string     `json:"name"`
}

// Entity is the closed set of identity variants the engine scores.
// Scoring dispatches on the concrete type; adding a provider means
// adding a variant here and updating every switch that the compiler
// then flags.
type Entity interface {
	Ref() EntityRef
	sealedEntity()
}

// UserEntity is an AWS IAM user
type UserEntity struct {
	Name       string      // IAM user name
	CreatedAt  *time.Time  // When the user was created
	LastUsedAt *time.Time  // Console/password last used (nil = never)
	Policies   []Policy    // Attached and inline policies
	HasMFA     bool        // Whether an MFA device is registered
	AccessKeys []AccessKey // Access keys, possibly empty
}

func (u *UserEntity) Ref() EntityRef {
	return EntityRef{Kind: EntityKindUser, Provider: ProviderAWS, Name: u.Name}
}

func (*UserEntity) sealedEntity() {}

// RoleEntity is an AWS IAM role
type RoleEntity struct {
	Name           string     // IAM role name
	CreatedAt      *time.Time // When the role was created
	LastUsedAt     *time.Time // When the role was last assumed (nil = never)
	Policies       []Policy   // Attached and inline policies
	TrustPolicyRaw string     // Assume-role policy document, empty if unavailable
}

func (r *RoleEntity) Ref() EntityRef {
	return EntityRef{Kind: EntityKindRole, Provider: ProviderAWS, Name: r.Name}
}

func (*RoleEntity) sealedEntity() {}

// GoogleUserEntity is a Google Workspace user
type GoogleUserEntity struct {
	Email                     string     // Primary email, used as the entity name
	CreatedAt                 *time.Time // Account creation time
	LastLoginAt               *time.Time // Last login (nil or epoch-zero = never)
	Suspended                 bool       // Account suspended but not deleted
	IsAdmin                   bool       // Super admin
	IsDelegatedAdmin          bool       // Delegated admin
	EnrolledIn2SV             bool       // 2-step verification enrollment
	MailboxSetup              bool       // Whether the mailbox was ever set up
	ChangePasswordAtNextLogin bool       // Pending forced password change
	HasAWSAccess              bool       // Cross-provider correlation: also holds AWS access
}

func (g *GoogleUserEntity) Ref() EntityRef {
	return EntityRef{Kind: EntityKindUser, Provider: ProviderGoogle, Name: g.Email}
}

func (*GoogleUserEntity) sealedEntity() {}
