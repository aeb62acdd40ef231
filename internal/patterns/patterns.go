// Package patterns holds the policy-name keyword lists the scorer,
// detector, and projector all classify against. The lists are a single
// versioned source of truth: built-in defaults, optionally overridden
// per-list from a YAML file.
package patterns

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// DefaultVersion identifies the built-in pattern set.
const DefaultVersion = "2026-05"

// Config is the full set of classification patterns.
// All pattern matching is case-insensitive substring matching except
// LegacyPolicyNames, which is exact.
type Config struct {
	Version string `yaml:"version"`

	// AdminPatterns mark administrator-grade policies (permission sub-score 5).
	AdminPatterns []string `yaml:"admin_patterns"`
	// PowerPatterns mark power-user-equivalent policies.
	PowerPatterns []string `yaml:"power_patterns"`
	// WritePatterns mark write/modify-grade policies (permission sub-score 2).
	WritePatterns []string `yaml:"write_patterns"`
	// FullServicePatterns mark whole-service grants (e.g. AmazonS3FullAccess).
	FullServicePatterns []string `yaml:"full_service_patterns"`
	// ReadPatterns mark read-only policies for permission-level classification.
	ReadPatterns []string `yaml:"read_patterns"`
	// UnusedServicePatterns mark services known to be unused in the org.
	UnusedServicePatterns []string `yaml:"unused_service_patterns"`
	// LegacyPolicyNames are exact names of deprecated in-house policies.
	LegacyPolicyNames []string `yaml:"legacy_policy_names"`
}

// Default returns the built-in pattern set.
func Default() *Config {
	return &Config{
		Version:             DefaultVersion,
		AdminPatterns:       []string{"administratoraccess", "administrator", "admin", "*"},
		PowerPatterns:       []string{"poweruser", "power-user"},
		WritePatterns:       []string{"write", "modify", "update", "create", "delete"},
		FullServicePatterns: []string{"fullaccess", "full-access", "full_access"},
		ReadPatterns:        []string{"readonly", "read-only", "read", "view"},
		UnusedServicePatterns: []string{
			"simpledb", "cloudsearch", "codecommit", "workdocs",
			"mobileanalytics", "machinelearning", "sms-voice",
		},
		LegacyPolicyNames: []string{
			"AWSCodeCommitFullAccess",
			"AWSCodeCommitPowerUser",
			"AWSCodeCommitReadOnly",
			"CloudSearchFullAccess",
			"CloudSearchReadOnlyAccess",
			"AmazonMachineLearningFullAccess",
			"AmazonWorkDocsFullAccess",
		},
	}
}

// Load reads a YAML override file on top of the defaults. Lists absent
// from the file keep their default values.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading pattern config: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("error parsing pattern config %s: %w", path, err)
	}

	if cfg.Version == "" {
		cfg.Version = DefaultVersion
	}

	return cfg, nil
}

// matchAny reports whether name contains any of the patterns,
// case-insensitively.
func matchAny(name string, patterns []string) bool {
	lower := strings.ToLower(name)
	for _, p := range patterns {
		if p == "" {
			continue
		}
		if strings.Contains(lower, strings.ToLower(p)) {
			return true
		}
	}
	return false
}

// IsAdmin reports whether a policy name matches an administrator or
// wildcard pattern.
func (c *Config) IsAdmin(policyName string) bool {
	return matchAny(policyName, c.AdminPatterns)
}

// IsPowerUser reports whether a policy name is power-user-equivalent.
func (c *Config) IsPowerUser(policyName string) bool {
	return matchAny(policyName, c.PowerPatterns)
}

// IsWrite reports whether a policy name grants write/modify access.
func (c *Config) IsWrite(policyName string) bool {
	return matchAny(policyName, c.WritePatterns)
}

// IsFullService reports whether a policy name grants full access to one service.
func (c *Config) IsFullService(policyName string) bool {
	return matchAny(policyName, c.FullServicePatterns)
}

// IsReadOnly reports whether a policy name is read-only.
func (c *Config) IsReadOnly(policyName string) bool {
	return matchAny(policyName, c.ReadPatterns)
}

// IsUnusedService reports whether a policy name references a known
// unused service.
func (c *Config) IsUnusedService(policyName string) bool {
	return matchAny(policyName, c.UnusedServicePatterns)
}

// IsLegacy reports whether a policy name exactly matches a known legacy
// policy.
func (c *Config) IsLegacy(policyName string) bool {
	for _, n := range c.LegacyPolicyNames {
		if policyName == n {
			return true
		}
	}
	return false
}
