// Package report turns one performance incident into a fixed-structure
// markdown document. Everything here is a pure function of the incident
// snapshot; no clock, no randomness, no I/O.
package report

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/perf2issue/perf2issue/internal/appsignal"
	"github.com/perf2issue/perf2issue/internal/utils"
)

const (
	// noData is the placeholder sentence for sections with nothing to show.
	noData = "No data available."

	unknownAction = "Unknown Action"
	noDescription = "No description provided."
)

// frontmatter is the machine-readable header consumed by the downstream
// analysis automation. The `---` fence and the `repository` key spelling are
// a compatibility contract; changing either breaks the linkage.
type frontmatter struct {
	Repository string `yaml:"repository"`
}

// Compose renders the incident report. The target repository names where the
// slow code lives, which is independent of where the issue gets filed.
func Compose(inc *appsignal.Incident, appID string, incidentNumber int, targetRepo string) string {
	var sb strings.Builder

	writeFrontmatter(&sb, targetRepo)
	writeHeader(&sb, inc, appID, incidentNumber, targetRepo)
	writeCriticalInfo(&sb, inc)
	writeMetrics(&sb, inc)
	writeSampleDetails(&sb, inc)
	writeNPlusOne(&sb, inc)
	writeAllocations(&sb, inc)

	return sb.String()
}

func writeFrontmatter(sb *strings.Builder, targetRepo string) {
	// Marshal errors are impossible for a single string field.
	fm, _ := yaml.Marshal(frontmatter{Repository: targetRepo})
	sb.WriteString("---\n")
	sb.Write(fm)
	sb.WriteString("---\n\n")
}

func writeHeader(sb *strings.Builder, inc *appsignal.Incident, appID string, incidentNumber int, targetRepo string) {
	fmt.Fprintf(sb, "# ⚡ Performance Incident Report: %s\n\n", inc.ActionName(unknownAction))

	fmt.Fprintf(sb, "- **Repository:** [%s](https://github.com/%s)\n", targetRepo, targetRepo)
	fmt.Fprintf(sb, "- **Incident Number:** %d\n", incidentNumber)
	fmt.Fprintf(sb, "- **AppSignal Incident ID:** %s\n", inc.ID)
	fmt.Fprintf(sb, "- **App ID:** %s\n", appID)
	fmt.Fprintf(sb, "- **State:** %s\n", decorateState(inc.State))
	fmt.Fprintf(sb, "- **Severity:** %s\n\n", decorateSeverity(inc.Severity))

	description := inc.Description
	if description == "" {
		description = noDescription
	}
	fmt.Fprintf(sb, "**Description:** %s\n\n", description)
}

func writeCriticalInfo(sb *strings.Builder, inc *appsignal.Incident) {
	actionNames := "N/A"
	if len(inc.ActionNames) > 0 {
		actionNames = strings.Join(inc.ActionNames, ", ")
	}

	sb.WriteString("## Critical Information\n\n")
	sb.WriteString("| Metric | Value |\n")
	sb.WriteString("|--------|-------|\n")
	fmt.Fprintf(sb, "| Average Duration | %s |\n", utils.FormatDuration(inc.TotalDuration))
	fmt.Fprintf(sb, "| Action Names | %s |\n", actionNames)
	fmt.Fprintf(sb, "| State | %s |\n", inc.State)
	fmt.Fprintf(sb, "| Severity | %s |\n\n", inc.Severity)
}

func writeMetrics(sb *strings.Builder, inc *appsignal.Incident) {
	sb.WriteString("## Performance Metrics\n\n")

	stats, ok := ComputeDurationStats(inc.Samples)
	if !ok {
		sb.WriteString(noData + "\n\n")
		return
	}

	sb.WriteString("| Statistic | Duration |\n")
	sb.WriteString("|-----------|----------|\n")
	fmt.Fprintf(sb, "| Minimum | %s |\n", utils.FormatDuration(stats.Min))
	fmt.Fprintf(sb, "| Maximum | %s |\n", utils.FormatDuration(stats.Max))
	fmt.Fprintf(sb, "| Mean | %s |\n", utils.FormatDuration(stats.Mean))
	fmt.Fprintf(sb, "| Median | %s |\n\n", utils.FormatDuration(stats.Median))
}

func writeSampleDetails(sb *strings.Builder, inc *appsignal.Incident) {
	sb.WriteString("## Sample Details\n\n")

	if len(inc.Samples) == 0 {
		sb.WriteString(noData + "\n\n")
		return
	}

	// Samples keep their original order; ordinals are 1-based.
	for i, s := range inc.Samples {
		action := s.Action
		if action == "" {
			action = "N/A"
		}

		fmt.Fprintf(sb, "### Sample %d\n\n", i+1)
		fmt.Fprintf(sb, "- **Time:** %s\n", utils.FormatTimestamp(s.Time))
		fmt.Fprintf(sb, "- **Duration:** %s\n", utils.FormatDurationPtr(s.Duration))
		fmt.Fprintf(sb, "- **Action:** %s\n", action)
		fmt.Fprintf(sb, "- **Queue Duration:** %s\n\n", utils.FormatDurationPtr(s.QueueDuration))

		writeTimeBreakdown(sb, s.GroupDurations)
		writeMemoryBreakdown(sb, s.GroupAllocations)
	}
}

func writeTimeBreakdown(sb *strings.Builder, groups []appsignal.GroupValue) {
	sb.WriteString("#### Time Breakdown\n\n")

	if len(groups) == 0 {
		sb.WriteString(noData + "\n\n")
		return
	}

	// Percentages divide by the sum of this sample's own category values,
	// not by the sample's reported duration; the two can diverge when time
	// goes unaccounted. Rows therefore always sum to 100.0%.
	total := 0.0
	for _, g := range groups {
		total += g.Value
	}

	sb.WriteString("| Category | Duration | Percentage |\n")
	sb.WriteString("|----------|----------|------------|\n")
	for _, g := range sortedByValueDesc(groups) {
		pct := 0.0
		if total > 0 {
			pct = g.Value / total * 100
		}
		fmt.Fprintf(sb, "| %s | %s | %.1f%% |\n", g.Group, utils.FormatDuration(g.Value), pct)
	}
	sb.WriteString("\n")
}

func writeMemoryBreakdown(sb *strings.Builder, groups []appsignal.GroupValue) {
	sb.WriteString("#### Memory Breakdown\n\n")

	if len(groups) == 0 {
		sb.WriteString(noData + "\n\n")
		return
	}

	sb.WriteString("| Category | Allocated |\n")
	sb.WriteString("|----------|-----------|\n")
	for _, g := range sortedByValueDesc(groups) {
		fmt.Fprintf(sb, "| %s | %s |\n", g.Group, utils.FormatBytes(g.Value))
	}
	sb.WriteString("\n")
}

func writeNPlusOne(sb *strings.Builder, inc *appsignal.Incident) {
	sb.WriteString("## N+1 Query Detection\n\n")

	var affected []int
	for i, s := range inc.Samples {
		if s.HasNPlusOne {
			affected = append(affected, i)
		}
	}

	if len(affected) == 0 {
		sb.WriteString("✅ No N+1 query patterns detected.\n\n")
		return
	}

	fmt.Fprintf(sb, "⚠️ N+1 query pattern detected in %d out of %d samples:\n\n",
		len(affected), len(inc.Samples))
	for _, i := range affected {
		s := inc.Samples[i]
		fmt.Fprintf(sb, "- Sample %d (%s, %s)\n",
			i+1, utils.FormatTimestamp(s.Time), utils.FormatDurationPtr(s.Duration))
	}
	sb.WriteString("\n")
}

func writeAllocations(sb *strings.Builder, inc *appsignal.Incident) {
	sb.WriteString("## Aggregate Resource Allocation\n\n")

	aggregates := AggregateAllocations(inc.Samples)
	if len(aggregates) == 0 {
		sb.WriteString(noData + "\n")
		return
	}

	sb.WriteString("| Category | Mean Allocation | Samples |\n")
	sb.WriteString("|----------|-----------------|---------|\n")
	for _, a := range aggregates {
		fmt.Fprintf(sb, "| %s | %s | %d |\n", a.Group, utils.FormatBytes(a.Mean), a.SampleCount)
	}
}

// decorateState maps a state enum value to a human-readable label.
// Unmapped values pass through verbatim.
func decorateState(state string) string {
	switch state {
	case "open":
		return "🔴 Open"
	case "closed":
		return "⚪ Closed"
	case "resolved":
		return "✅ Resolved"
	default:
		return state
	}
}

// decorateSeverity maps a severity enum value to a human-readable label.
// Unmapped values pass through verbatim.
func decorateSeverity(severity string) string {
	switch severity {
	case "critical":
		return "🔥 Critical"
	case "warning":
		return "⚠️ Warning"
	case "info":
		return "ℹ️ Info"
	default:
		return severity
	}
}
