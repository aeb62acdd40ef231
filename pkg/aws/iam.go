// Package aws collects identity inventory from AWS IAM. The collector
// only gathers facts into provider records; all scoring and threshold
// logic lives in the engine.
package aws

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/iam"
	"github.com/aws/aws-sdk-go-v2/service/iam/types"
	"github.com/briandowns/spinner"

	"github.com/shadowscan/shadowscan/internal/models"
)

// IAMCollector lists IAM users and roles with their policies,
// access keys, and MFA state.
type IAMCollector struct {
	client *iam.Client
	region string
}

// NewIAMCollector creates a new IAMCollector.
func NewIAMCollector(region string) (*IAMCollector, error) {
	// IAM is a global service but we keep region for configuration consistency
	cfg, err := config.LoadDefaultConfig(context.TODO(), config.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("error loading AWS config: %w", err)
	}

	return &IAMCollector{
		client: iam.NewFromConfig(cfg),
		region: region,
	}, nil
}

// CollectUsers returns a snapshot record for every IAM user.
func (c *IAMCollector) CollectUsers(ctx context.Context) ([]models.AWSUserRecord, error) {
	sp := spinner.New(spinner.CharSets[9], 100*time.Millisecond)
	sp.Prefix = "Scanning IAM users "
	sp.Suffix = " (this is a global service)"
	sp.Start()

	var users []types.User
	var marker *string
	for {
		result, err := c.client.ListUsers(ctx, &iam.ListUsersInput{Marker: marker})
		if err != nil {
			sp.Stop()
			return nil, fmt.Errorf("error listing IAM users: %w", err)
		}
		users = append(users, result.Users...)
		if !result.IsTruncated {
			break
		}
		marker = result.Marker
	}

	totalUsers := len(users)
	sp.FinalMSG = fmt.Sprintf("✓ Found %d IAM users\n", totalUsers)
	sp.Stop()

	if totalUsers == 0 {
		return []models.AWSUserRecord{}, nil
	}

	var records []models.AWSUserRecord

	sp = spinner.New(spinner.CharSets[9], 100*time.Millisecond)
	sp.Prefix = "Collecting IAM user credentials and policies "
	sp.Start()

	processedCount := 0
	for _, user := range users {
		userName := *user.UserName

		record, err := c.collectUser(ctx, user)
		if err != nil {
			fmt.Printf("Warning: Error collecting user %s: %v\n", userName, err)
			continue
		}

		records = append(records, record)
		processedCount++

		percentage := (processedCount * 100) / totalUsers
		sp.Suffix = fmt.Sprintf(" (%d/%d, %d%%)", processedCount, totalUsers, percentage)
	}

	sp.FinalMSG = fmt.Sprintf("✓ Collected %d IAM users\n", processedCount)
	sp.Stop()

	return records, nil
}

// CollectRoles returns a snapshot record for every IAM role.
func (c *IAMCollector) CollectRoles(ctx context.Context) ([]models.AWSRoleRecord, error) {
	sp := spinner.New(spinner.CharSets[9], 100*time.Millisecond)
	sp.Prefix = "Scanning IAM roles "
	sp.Suffix = " (this is a global service)"
	sp.Start()

	var roles []types.Role
	var marker *string
	for {
		result, err := c.client.ListRoles(ctx, &iam.ListRolesInput{Marker: marker})
		if err != nil {
			sp.Stop()
			return nil, fmt.Errorf("error listing IAM roles: %w", err)
		}
		roles = append(roles, result.Roles...)
		if !result.IsTruncated {
			break
		}
		marker = result.Marker
	}

	totalRoles := len(roles)
	sp.FinalMSG = fmt.Sprintf("✓ Found %d IAM roles\n", totalRoles)
	sp.Stop()

	if totalRoles == 0 {
		return []models.AWSRoleRecord{}, nil
	}

	var records []models.AWSRoleRecord

	sp = spinner.New(spinner.CharSets[9], 100*time.Millisecond)
	sp.Prefix = "Collecting IAM role trust and policies "
	sp.Start()

	processedCount := 0
	for _, role := range roles {
		roleName := *role.RoleName

		record, err := c.collectRole(ctx, role)
		if err != nil {
			fmt.Printf("Warning: Error collecting role %s: %v\n", roleName, err)
			continue
		}

		records = append(records, record)
		processedCount++

		percentage := (processedCount * 100) / totalRoles
		sp.Suffix = fmt.Sprintf(" (%d/%d, %d%%)", processedCount, totalRoles, percentage)
	}

	sp.FinalMSG = fmt.Sprintf("✓ Collected %d IAM roles\n", processedCount)
	sp.Stop()

	return records, nil
}

// collectUser gathers the snapshot record for a single IAM user.
func (c *IAMCollector) collectUser(ctx context.Context, user types.User) (models.AWSUserRecord, error) {
	userName := *user.UserName

	record := models.AWSUserRecord{
		Name:      userName,
		CreatedAt: user.CreateDate,
		LastUsed:  user.PasswordLastUsed,
	}

	accessKeys, err := c.client.ListAccessKeys(ctx, &iam.ListAccessKeysInput{
		UserName: &userName,
	})
	if err == nil && accessKeys != nil {
		for _, key := range accessKeys.AccessKeyMetadata {
			keyRecord := models.AccessKeyRecord{
				ID:        *key.AccessKeyId,
				CreatedAt: key.CreateDate,
				Status:    string(models.KeyStatusInactive),
			}
			if key.Status == types.StatusTypeActive {
				keyRecord.Status = string(models.KeyStatusActive)
			}

			keyLastUsed, err := c.client.GetAccessKeyLastUsed(ctx, &iam.GetAccessKeyLastUsedInput{
				AccessKeyId: key.AccessKeyId,
			})
			if err == nil && keyLastUsed.AccessKeyLastUsed != nil {
				keyRecord.LastUsedAt = keyLastUsed.AccessKeyLastUsed.LastUsedDate
			}

			record.AccessKeys = append(record.AccessKeys, keyRecord)
		}
	}

	mfaDevices, err := c.client.ListMFADevices(ctx, &iam.ListMFADevicesInput{
		UserName: &userName,
	})
	if err == nil && mfaDevices != nil {
		record.HasMFA = len(mfaDevices.MFADevices) > 0
	}

	record.Policies = c.collectUserPolicies(ctx, userName)

	return record, nil
}

// collectRole gathers the snapshot record for a single IAM role.
func (c *IAMCollector) collectRole(ctx context.Context, role types.Role) (models.AWSRoleRecord, error) {
	roleName := *role.RoleName

	record := models.AWSRoleRecord{
		Name:      roleName,
		CreatedAt: role.CreateDate,
	}

	roleDetail, err := c.client.GetRole(ctx, &iam.GetRoleInput{RoleName: &roleName})
	if err == nil && roleDetail.Role.RoleLastUsed != nil {
		record.LastUsed = roleDetail.Role.RoleLastUsed.LastUsedDate
	}

	// The API returns the trust document URL-encoded
	if role.AssumeRolePolicyDocument != nil {
		if decoded, err := url.QueryUnescape(*role.AssumeRolePolicyDocument); err == nil {
			record.TrustPolicyRaw = decoded
		} else {
			record.TrustPolicyRaw = *role.AssumeRolePolicyDocument
		}
	}

	record.Policies = c.collectRolePolicies(ctx, roleName)

	return record, nil
}

func (c *IAMCollector) collectUserPolicies(ctx context.Context, userName string) []models.PolicyRecord {
	var policies []models.PolicyRecord

	attached, err := c.client.ListAttachedUserPolicies(ctx, &iam.ListAttachedUserPoliciesInput{
		UserName: &userName,
	})
	if err == nil && attached != nil {
		for _, p := range attached.AttachedPolicies {
			policies = append(policies, c.managedPolicyRecord(ctx, p))
		}
	}

	inline, err := c.client.ListUserPolicies(ctx, &iam.ListUserPoliciesInput{
		UserName: &userName,
	})
	if err == nil && inline != nil {
		for _, name := range inline.PolicyNames {
			policies = append(policies, models.PolicyRecord{
				Name: name,
				Type: string(models.PolicyTypeInline),
			})
		}
	}

	return policies
}

func (c *IAMCollector) collectRolePolicies(ctx context.Context, roleName string) []models.PolicyRecord {
	var policies []models.PolicyRecord

	attached, err := c.client.ListAttachedRolePolicies(ctx, &iam.ListAttachedRolePoliciesInput{
		RoleName: &roleName,
	})
	if err == nil && attached != nil {
		for _, p := range attached.AttachedPolicies {
			policies = append(policies, c.managedPolicyRecord(ctx, p))
		}
	}

	inline, err := c.client.ListRolePolicies(ctx, &iam.ListRolePoliciesInput{
		RoleName: &roleName,
	})
	if err == nil && inline != nil {
		for _, name := range inline.PolicyNames {
			policies = append(policies, models.PolicyRecord{
				Name: name,
				Type: string(models.PolicyTypeInline),
			})
		}
	}

	return policies
}

// managedPolicyRecord resolves creation/update dates for an attached
// managed policy. Date lookup failures leave the dates absent; the
// engine treats missing dates as their natural defaults.
func (c *IAMCollector) managedPolicyRecord(ctx context.Context, attached types.AttachedPolicy) models.PolicyRecord {
	record := models.PolicyRecord{
		Name: *attached.PolicyName,
		Type: string(models.PolicyTypeManaged),
	}

	detail, err := c.client.GetPolicy(ctx, &iam.GetPolicyInput{PolicyArn: attached.PolicyArn})
	if err == nil && detail.Policy != nil {
		record.CreatedAt = detail.Policy.CreateDate
		record.UpdatedAt = detail.Policy.UpdateDate
		if detail.Policy.Description != nil {
			record.Description = *detail.Policy.Description
		}
	}

	return record
}
