package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/spf13/cobra"

	"github.com/shadowscan/shadowscan/internal/models"
	"github.com/shadowscan/shadowscan/internal/patterns"
	"github.com/shadowscan/shadowscan/internal/version"
	"github.com/shadowscan/shadowscan/pkg/aws"
	"github.com/shadowscan/shadowscan/pkg/engine"
	"github.com/shadowscan/shadowscan/pkg/formatter"
	"github.com/shadowscan/shadowscan/pkg/google"
	"github.com/shadowscan/shadowscan/pkg/normalize"
	"github.com/shadowscan/shadowscan/pkg/utils"
)

const DefaultProvider = "aws"

var (
	providers         []string
	region            string
	inputFile         string
	outputMode        string
	patternsFile      string
	previousScore     int
	horizonDays       int
	severityFilter    string
	googleCredentials string
	googleCustomer    string
	showVersion       bool
)

// Provider descriptions for help text
var providerDescriptions = map[string]string{
	"aws":    "Scan AWS IAM users and roles",
	"google": "Scan Google Workspace users",
}

func main() {
	var showProviderList bool

	rootCmd := &cobra.Command{
		Use:   "shadowscan",
		Short: "CLI tool to surface shadow-permission risk in cloud identities",
		Long: `shadowscan ingests identity inventory from AWS IAM and Google Workspace,
scores each entity's risk, detects shadow permissions, computes an
organization posture score, and projects when healthy entities are
likely to degrade into shadow risks.`,
		Run: func(cmd *cobra.Command, args []string) {
			if showVersion {
				info := version.Get()
				fmt.Printf("shadowscan version %s (built: %s, commit: %s)\n",
					info.Version, info.BuildDate, info.GitCommit)
				return
			}

			if showProviderList {
				fmt.Println("Available providers:")

				var providerList []string
				for provider := range providerDescriptions {
					providerList = append(providerList, provider)
				}
				sort.Strings(providerList)

				for _, provider := range providerList {
					if provider == DefaultProvider {
						fmt.Printf("  %-8s - %s (default)\n", provider, providerDescriptions[provider])
					} else {
						fmt.Printf("  %-8s - %s\n", provider, providerDescriptions[provider])
					}
				}

				fmt.Println("\nExample usage:")
				fmt.Printf("  %s --providers %s\n", os.Args[0], strings.Join(providerList, ","))
				return
			}

			if err := run(); err != nil {
				fmt.Println(err)
				os.Exit(1)
			}
		},
	}

	rootCmd.Flags().BoolVarP(&showVersion, "version", "v", false, "Show version information")
	rootCmd.Flags().BoolVarP(&showProviderList, "list-providers", "l", false, "List available providers")
	rootCmd.Flags().StringSliceVarP(&providers, "providers", "p", nil,
		fmt.Sprintf("Identity providers to scan (comma separated, default: %s)", DefaultProvider))
	rootCmd.Flags().StringVarP(&region, "region", "r", "us-east-1", "AWS region used for configuration (IAM is global)")
	rootCmd.Flags().StringVarP(&inputFile, "input", "i", "", "Score a snapshot JSON file instead of scanning providers")
	rootCmd.Flags().StringVarP(&outputMode, "output", "o", "table", "Output format: table or json")
	rootCmd.Flags().StringVar(&patternsFile, "patterns", "", "YAML file overriding the policy classification patterns")
	rootCmd.Flags().IntVar(&previousScore, "previous-score", -1, "Previous posture score for trend computation")
	rootCmd.Flags().IntVar(&horizonDays, "horizon", 0, "Only show timeline events within this many days (7/30/90/180, 0 = all)")
	rootCmd.Flags().StringVar(&severityFilter, "severity", "", "Only show timeline events of this severity")
	rootCmd.Flags().StringVar(&googleCredentials, "google-credentials", "", "Google service account credentials file")
	rootCmd.Flags().StringVar(&googleCustomer, "google-customer", "", "Google Workspace customer ID (default: my_customer)")

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func run() error {
	cfg := patterns.Default()
	if patternsFile != "" {
		loaded, err := patterns.Load(patternsFile)
		if err != nil {
			return err
		}
		cfg = loaded
	}

	scanStartTime := time.Now()

	entities, err := loadEntities()
	if err != nil {
		return err
	}

	opts := engine.Options{Now: scanStartTime.UTC()}
	if previousScore >= 0 {
		prev := previousScore
		opts.PreviousScore = &prev
	}

	report, err := engine.New(cfg).Run(entities, opts)
	if err != nil {
		return err
	}

	scanDuration := time.Since(scanStartTime)

	if outputMode == "json" {
		out, err := utils.FormatJSON(report)
		if err != nil {
			return err
		}
		fmt.Println(out)
		return nil
	}

	printReport(report, scanStartTime, scanDuration)
	return nil
}

// loadEntities reads a snapshot file when given, otherwise scans the
// selected providers in parallel.
func loadEntities() ([]models.Entity, error) {
	if inputFile != "" {
		data, err := os.ReadFile(inputFile)
		if err != nil {
			return nil, fmt.Errorf("error reading snapshot file: %w", err)
		}
		var snap models.Snapshot
		if err := json.Unmarshal(data, &snap); err != nil {
			return nil, fmt.Errorf("error parsing snapshot file %s: %w", inputFile, err)
		}
		return normalize.FromSnapshot(snap), nil
	}

	if len(providers) == 0 {
		providers = []string{DefaultProvider}
	}

	// Unknown providers reject the run up front rather than being
	// scored defensively.
	parsed := make([]models.Provider, 0, len(providers))
	for _, p := range providers {
		provider, err := normalize.ParseProvider(p)
		if err != nil {
			return nil, err
		}
		parsed = append(parsed, provider)
	}

	results := make([]struct {
		snap models.Snapshot
		err  error
	}, len(parsed))

	var wg sync.WaitGroup
	for i, provider := range parsed {
		wg.Add(1)
		go func(idx int, p models.Provider) {
			defer wg.Done()
			switch p {
			case models.ProviderAWS:
				results[idx].snap, results[idx].err = collectAWS()
			case models.ProviderGoogle:
				results[idx].snap, results[idx].err = collectGoogle()
			}
		}(i, provider)
	}
	wg.Wait()

	var snap models.Snapshot
	for i, result := range results {
		if result.err != nil {
			fmt.Printf("Error scanning provider %s: %v\n", parsed[i], result.err)
			continue
		}
		snap.AWSUsers = append(snap.AWSUsers, result.snap.AWSUsers...)
		snap.AWSRoles = append(snap.AWSRoles, result.snap.AWSRoles...)
		snap.GoogleUsers = append(snap.GoogleUsers, result.snap.GoogleUsers...)
	}

	return normalize.FromSnapshot(snap), nil
}

func collectAWS() (models.Snapshot, error) {
	var snap models.Snapshot

	collector, err := aws.NewIAMCollector(region)
	if err != nil {
		return snap, err
	}

	ctx := context.Background()

	users, err := collector.CollectUsers(ctx)
	if err != nil {
		return snap, err
	}
	snap.AWSUsers = users

	roles, err := collector.CollectRoles(ctx)
	if err != nil {
		return snap, err
	}
	snap.AWSRoles = roles

	return snap, nil
}

func collectGoogle() (models.Snapshot, error) {
	var snap models.Snapshot

	ctx := context.Background()
	collector, err := google.NewDirectoryCollector(ctx, googleCredentials, googleCustomer)
	if err != nil {
		return snap, err
	}

	users, err := collector.CollectUsers(ctx)
	if err != nil {
		return snap, err
	}
	snap.GoogleUsers = users

	return snap, nil
}

func printReport(report *models.Report, scanStartTime time.Time, scanDuration time.Duration) {
	fmt.Printf("\n✓ [%d entities scored] Identity risk analyzed - Completed in %.2f seconds\n",
		report.EntityCount, scanDuration.Seconds())

	fmt.Println("\nEntity Risk:")
	formatter.FormatAssessmentTable(os.Stdout, report.Assessments)

	fmt.Println("\nShadow-Permission Findings:")
	formatter.FormatFindingsTable(os.Stdout, report.Findings)

	fmt.Println("\nSecurity Posture:")
	formatter.PrintSecurityScore(os.Stdout, report.Posture)
	fmt.Println()
	formatter.PrintSecurityScore(os.Stdout, report.WeightedPosture)

	timeline := report.Timeline
	if horizonDays > 0 || severityFilter != "" {
		timeline.Events = formatter.FilterEvents(
			timeline.Events, models.Severity(severityFilter), horizonDays, report.GeneratedAt)
	}
	fmt.Println("\nShadow-Risk Timeline:")
	formatter.FormatTimelineTable(os.Stdout, timeline)

	fmt.Println()
	formatter.PrintScanTimestamp(scanStartTime, scanDuration)
}
