package github

import (
	"fmt"

	"github.com/perf2issue/perf2issue/internal/appsignal"
	"github.com/perf2issue/perf2issue/internal/utils"
)

const (
	labelPerformance = "performance"
	labelSource      = "appsignal"
	labelNPlusOne    = "n+1-query"
)

// BuildTitle derives the issue title from the incident.
func BuildTitle(inc *appsignal.Incident) string {
	return fmt.Sprintf("[Performance] %s - Slow response time (%s)",
		inc.ActionName("Unknown"), utils.FormatDuration(inc.TotalDuration))
}

// BuildLabels derives the issue label set. The performance and source labels
// are always present; a severity label is added only for the two highest
// tiers, and the N+1 label only when at least one sample carries the flag.
func BuildLabels(inc *appsignal.Incident) []string {
	labels := []string{labelPerformance, labelSource}

	switch inc.Severity {
	case "critical":
		labels = append(labels, "critical")
	case "warning":
		labels = append(labels, "warning")
	}

	if inc.HasNPlusOne() {
		labels = append(labels, labelNPlusOne)
	}
	return labels
}
