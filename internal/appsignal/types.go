package appsignal

import "time"

// KindPerformance is the incident discriminator this pipeline supports.
// Any other kind (ExceptionIncident, LogIncident, ...) is rejected at the
// fetch boundary so downstream code never sees an untagged incident.
const KindPerformance = "PerformanceIncident"

// Incident is a normalized performance incident snapshot. It is immutable
// once fetched; the report composer only derives values from it.
type Incident struct {
	ID            string
	Number        int
	ActionNames   []string
	Description   string
	Severity      string
	State         string
	TotalDuration float64 // milliseconds
	Samples       []Sample
}

// ActionName returns the canonical display name for the incident, or the
// fallback when no action names were reported.
func (i *Incident) ActionName(fallback string) string {
	if len(i.ActionNames) == 0 || i.ActionNames[0] == "" {
		return fallback
	}
	return i.ActionNames[0]
}

// HasNPlusOne reports whether any sample exhibits a repeated-query pattern.
func (i *Incident) HasNPlusOne() bool {
	for _, s := range i.Samples {
		if s.HasNPlusOne {
			return true
		}
	}
	return false
}

// Sample is one observed occurrence of the incident.
type Sample struct {
	ID               string
	Time             *time.Time
	Action           string
	Duration         *float64 // milliseconds
	QueueDuration    *float64 // milliseconds
	HasNPlusOne      bool
	GroupDurations   []GroupValue // per-category time split, source order
	GroupAllocations []GroupValue // per-category allocated bytes, source order
	Overview         []KeyValue   // opaque, passed through
	Params           map[string]interface{}
	SessionData      map[string]interface{}
}

// GroupValue is one (category, value) entry of a breakdown. Categories are
// incident-specific and not known ahead of time, so breakdowns are ordered
// association lists rather than fixed-field records.
type GroupValue struct {
	Group string
	Value float64
}

// KeyValue is one opaque overview entry.
type KeyValue struct {
	Key   string
	Value string
}
