package formatter

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/shadowscan/shadowscan/internal/models"
)

// FormatAssessmentTable writes per-entity risk assessments in a table format
func FormatAssessmentTable(writer io.Writer, assessments []models.RiskAssessment) {
	if len(assessments) == 0 {
		fmt.Fprintln(writer, "No entities assessed.")
		return
	}

	// Sort assessments: riskiest first, then by score (descending)
	sorted := make([]models.RiskAssessment, len(assessments))
	copy(sorted, assessments)
	sort.SliceStable(sorted, func(i, j int) bool {
		oi, oj := models.RiskLevelOrder(sorted[i].RiskLevel), models.RiskLevelOrder(sorted[j].RiskLevel)
		if oi != oj {
			return oi < oj
		}
		return sorted[i].Score > sorted[j].Score
	})

	w := tabwriter.NewWriter(writer, 0, 0, 3, ' ', tabwriter.TabIndent)

	fmt.Fprintln(w, "NAME\tKIND\tPROVIDER\tRISK\tSCORE\tRECENCY\tPERMISSION\tIDENTITY\tFINDINGS\tFACTORS")

	for _, a := range sorted {
		topFactor := ""
		if len(a.Factors) > 0 {
			topFactor = a.Factors[0]
			if len(a.Factors) > 1 {
				topFactor += fmt.Sprintf(" (+%d more)", len(a.Factors)-1)
			}
		}

		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\t%d\t%d\t%d\t%d\t%s\n",
			a.Entity.Name,
			a.Entity.Kind,
			a.Entity.Provider,
			strings.ToUpper(string(a.RiskLevel)),
			a.Score,
			a.Subscores.Recency,
			a.Subscores.Permission,
			a.Subscores.Identity,
			len(a.ShadowFindings),
			topFactor,
		)
	}

	w.Flush()

	// Print summary
	counts := make(map[models.RiskLevel]int)
	for _, a := range sorted {
		counts[a.RiskLevel]++
	}

	fmt.Fprintf(writer, "\nSummary: %d entities (%d critical, %d high, %d medium, %d low)\n",
		len(sorted),
		counts[models.RiskLevelCritical],
		counts[models.RiskLevelHigh],
		counts[models.RiskLevelMedium],
		counts[models.RiskLevelLow],
	)
}
