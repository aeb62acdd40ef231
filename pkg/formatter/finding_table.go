package formatter

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/shadowscan/shadowscan/internal/models"
)

// FormatFindingsTable writes deduplicated shadow-permission findings in
// a table format
func FormatFindingsTable(writer io.Writer, findings []models.ShadowFinding) {
	if len(findings) == 0 {
		fmt.Fprintln(writer, "No shadow-permission findings.")
		return
	}

	// Sort findings: most severe first, stable within severity
	sorted := make([]models.ShadowFinding, len(findings))
	copy(sorted, findings)
	sort.SliceStable(sorted, func(i, j int) bool {
		return models.SeverityOrder(sorted[i].Severity) < models.SeverityOrder(sorted[j].Severity)
	})

	w := tabwriter.NewWriter(writer, 0, 0, 3, ' ', tabwriter.TabIndent)

	fmt.Fprintln(w, "CATEGORY\tSEVERITY\tDESCRIPTION\tDETAILS")

	for _, f := range sorted {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
			f.Category,
			strings.ToUpper(string(f.Severity)),
			f.Description,
			f.Details,
		)
	}

	w.Flush()

	// Print summary
	highCount := 0
	mediumCount := 0
	for _, f := range sorted {
		switch f.Severity {
		case models.SeverityHigh, models.SeverityCritical:
			highCount++
		case models.SeverityMedium:
			mediumCount++
		}
	}

	fmt.Fprintf(writer, "\nSummary: %d shadow-permission findings (%d high, %d medium)\n",
		len(sorted), highCount, mediumCount)
}
