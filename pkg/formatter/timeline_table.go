package formatter

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/shadowscan/shadowscan/internal/models"
)

// FilterEvents narrows timeline events by severity and horizon. An
// empty severity keeps everything; a horizon of 0 days disables the
// date cutoff.
func FilterEvents(events []models.TimelineEvent, severity models.Severity, horizonDays int, now time.Time) []models.TimelineEvent {
	var out []models.TimelineEvent
	cutoff := now.AddDate(0, 0, horizonDays)
	for _, ev := range events {
		if severity != "" && ev.Severity != severity {
			continue
		}
		if horizonDays > 0 && ev.EstimatedDate.After(cutoff) {
			continue
		}
		out = append(out, ev)
	}
	return out
}

// FormatTimelineTable writes projected shadow-risk events in a table
// format. Events are already date-sorted by the projector.
func FormatTimelineTable(writer io.Writer, timeline models.Timeline) {
	if len(timeline.Events) == 0 {
		fmt.Fprintln(writer, "No projected shadow-risk events.")
		return
	}

	w := tabwriter.NewWriter(writer, 0, 0, 3, ' ', tabwriter.TabIndent)

	fmt.Fprintln(w, "ESTIMATED DATE\tWHEN\tENTITY\tKIND\tEVENT\tSEVERITY\tCONFIDENCE\tDESCRIPTION")

	for _, ev := range timeline.Events {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t%d%%\t%s\n",
			ev.EstimatedDate.Format("2006-01-02"),
			humanize.Time(ev.EstimatedDate),
			ev.Entity.Name,
			ev.Entity.Kind,
			ev.EventType,
			strings.ToUpper(string(ev.Severity)),
			ev.Confidence,
			ev.Description,
		)
	}

	w.Flush()

	fmt.Fprintf(writer, "\nSummary: %d projected events (%d critical, %d high, %d medium); %d within 30 days, %d within 90, %d within 180\n",
		timeline.Summary.TotalEvents,
		timeline.Summary.CriticalCount,
		timeline.Summary.HighCount,
		timeline.Summary.MediumCount,
		timeline.Summary.Within30Days,
		timeline.Summary.Within90Days,
		timeline.Summary.Within180Days,
	)
}
