package models

import "time"

// Provider record shapes, as supplied by the collectors or a snapshot
// file. The normalizer maps these into entity variants; nothing
// downstream of the normalizer sees them.

// PolicyRecord mirrors Policy with JSON tags for snapshot files.
type PolicyRecord struct {
	Name        string     `json:"name"`
	Type        string     `json:"type"`
	Description string     `json:"description,omitempty"`
	CreatedAt   *time.Time `json:"createdAt,omitempty"`
	UpdatedAt   *time.Time `json:"updatedAt,omitempty"`
}

// AccessKeyRecord mirrors AccessKey for snapshot files.
type AccessKeyRecord struct {
	ID         string     `json:"id"`
	CreatedAt  *time.Time `json:"createdAt,omitempty"`
	LastUsedAt *time.Time `json:"lastUsedAt,omitempty"`
	Status     string     `json:"status"`
}

// AWSUserRecord is the shape the AWS collaborator supplies per user.
type AWSUserRecord struct {
	Name       string            `json:"name"`
	CreatedAt  *time.Time        `json:"createdAt,omitempty"`
	LastUsed   *time.Time        `json:"lastUsed,omitempty"`
	Policies   []PolicyRecord    `json:"policies"`
	HasMFA     bool              `json:"hasMfa"`
	AccessKeys []AccessKeyRecord `json:"accessKeys"`
}

// AWSRoleRecord is the shape the AWS collaborator supplies per role.
type AWSRoleRecord struct {
	Name           string         `json:"name"`
	CreatedAt      *time.Time     `json:"createdAt,omitempty"`
	LastUsed       *time.Time     `json:"lastUsed,omitempty"`
	Policies       []PolicyRecord `json:"policies"`
	TrustPolicyRaw string         `json:"trustPolicyRaw,omitempty"`
}

// GoogleUserRecord is the shape the Google collaborator supplies per user.
type GoogleUserRecord struct {
	Email                     string     `json:"email"`
	CreatedAt                 *time.Time `json:"createdAt,omitempty"`
	LastLoginTime             *time.Time `json:"lastLoginTime,omitempty"`
	Suspended                 bool       `json:"suspended"`
	IsAdmin                   bool       `json:"isAdmin"`
	IsDelegatedAdmin          bool       `json:"isDelegatedAdmin"`
	IsEnrolledIn2SV           bool       `json:"isEnrolledIn2Sv"`
	IsMailboxSetup            bool       `json:"isMailboxSetup"`
	ChangePasswordAtNextLogin bool       `json:"changePasswordAtNextLogin"`
	HasAWSAccess              bool       `json:"hasAwsAccess"`
}

// Snapshot is one provider-fetch of identity inventory. Entities are
// constructed fresh from each snapshot; nothing persists between runs.
type Snapshot struct {
	AWSUsers    []AWSUserRecord    `json:"awsUsers,omitempty"`
	AWSRoles    []AWSRoleRecord    `json:"awsRoles,omitempty"`
	GoogleUsers []GoogleUserRecord `json:"googleUsers,omitempty"`
}
