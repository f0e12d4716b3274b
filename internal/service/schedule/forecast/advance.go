package forecast

import (
	"time"

	"github.com/plantae/plantae-backend/internal/domain"
)

// AdvanceResult is the window advancer's decision for a reconciled cohort.
type AdvanceResult struct {
	NeedsNewWindow bool
	// NewAnchor is the timestamp of the most recent confirmed history record.
	// Local-only completions never re-anchor the window; the projection
	// re-anchors strictly on server-side state.
	NewAnchor time.Time
}

// Advance reports whether the cohort is exhausted and, if so, the anchor for
// the next window.
//
// The check is level-triggered and idempotent: calling it repeatedly with
// the same fully-done cohort yields the same result and mutates nothing.
// An empty cohort never advances.
func Advance(statuses []SlotStatus, history []domain.WateringRecord) AdvanceResult {
	if len(statuses) == 0 {
		return AdvanceResult{}
	}
	for _, st := range statuses {
		if !st.Done {
			return AdvanceResult{}
		}
	}

	result := AdvanceResult{NeedsNewWindow: true}
	if latest := latestRecord(history); latest != nil {
		result.NewAnchor = latest.At
	}
	return result
}
