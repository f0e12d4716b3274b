package activity

import (
	"fmt"

	"github.com/plantae/plantae-backend/internal/domain"
)

// fieldLabels maps known plant fields to their display labels. Fields not in
// the table fall back to the raw field name, so an update written by a newer
// version still renders.
var fieldLabels = map[string]string{
	"name":                "Name",
	"water_interval_days": "Watering interval (days)",
	"notes":               "Notes",
}

// photoUpdatedLine is the synthetic diff line for a photo replacement, which
// carries no from/to values.
const photoUpdatedLine = "Photo updated"

// Diff renders the field-level changes of an update record as display lines.
// Returns nil when there is nothing to render; an update with an empty
// payload is distinguishable from one whose diff happens to be empty only by
// having no lines at all.
func Diff(rec domain.ActivityRecord) []string {
	extra := rec.Extra
	if len(extra.Changes) == 0 && !extra.PhotoChanged {
		return nil
	}

	lines := make([]string, 0, len(extra.Changes)+1)
	for _, c := range extra.Changes {
		label, ok := fieldLabels[c.Field]
		if !ok {
			label = c.Field
		}
		lines = append(lines, fmt.Sprintf("%s: %q → %q", label, renderValue(c.From), renderValue(c.To)))
	}

	if extra.PhotoChanged {
		lines = append(lines, photoUpdatedLine)
	}

	return lines
}

func renderValue(v *string) string {
	if v == nil {
		return "—"
	}
	return *v
}
