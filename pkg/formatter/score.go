package formatter

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/shadowscan/shadowscan/internal/models"
)

// PrintSecurityScore writes the organization posture score with its
// category breakdown and recommendations.
func PrintSecurityScore(writer io.Writer, score models.SecurityScore) {
	fmt.Fprintf(writer, "Security posture: %d/100 (%s risk tier, %s method)\n",
		score.OverallScore, strings.ToUpper(string(score.RiskTier)), score.Method)

	if score.TrendPercent != nil {
		direction := "up"
		if *score.TrendPercent < 0 {
			direction = "down"
		}
		fmt.Fprintf(writer, "Trend: %.1f%% (%s from previous scan)\n", *score.TrendPercent, direction)
	}

	if len(score.CategoryBreakdown) > 0 {
		w := tabwriter.NewWriter(writer, 0, 0, 3, ' ', tabwriter.TabIndent)
		fmt.Fprintln(w, "CATEGORY\tPOINTS DEDUCTED\tFINDINGS")
		for _, cs := range score.CategoryBreakdown {
			fmt.Fprintf(w, "%s\t%d\t%d\n", cs.Category, cs.Score, len(cs.Details))
		}
		w.Flush()
	}

	for _, rec := range score.Recommendations {
		fmt.Fprintf(writer, "  - %s\n", rec)
	}
}
