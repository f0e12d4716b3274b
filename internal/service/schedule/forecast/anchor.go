package forecast

import (
	"time"

	"github.com/plantae/plantae-backend/internal/domain"
)

// AnchorSource tags where an anchor came from.
type AnchorSource string

const (
	// AnchorFromHistory means the anchor is a confirmed watering event,
	// either a history record or the plant's last-watered field.
	AnchorFromHistory AnchorSource = "history"
	// AnchorFromCreation means no watering was ever recorded and the anchor
	// falls back to the creation-implied first watering.
	AnchorFromCreation AnchorSource = "creation"
	// AnchorNone means there is nothing to project from.
	AnchorNone AnchorSource = "none"
)

// Anchor is the resolved projection origin.
type Anchor struct {
	Source AnchorSource
	At     time.Time
}

// IsZero reports whether no anchor could be resolved.
func (a Anchor) IsZero() bool { return a.Source == AnchorNone }

// ResolveAnchor applies the ordered fallback chain every call site must
// agree on: the most recent real watering record, then the plant's
// last-watered field, then the creation-implied first watering.
//
// Records with zero timestamps are skipped. When the chain is exhausted the
// result is AnchorNone, which projects an empty cohort downstream.
func ResolveAnchor(history []domain.WateringRecord, lastWateredAt *time.Time, createdAt time.Time) Anchor {
	if latest := latestRecord(history); latest != nil {
		return Anchor{Source: AnchorFromHistory, At: latest.At}
	}
	if lastWateredAt != nil && !lastWateredAt.IsZero() {
		return Anchor{Source: AnchorFromHistory, At: *lastWateredAt}
	}
	if !createdAt.IsZero() {
		return Anchor{Source: AnchorFromCreation, At: createdAt}
	}
	return Anchor{Source: AnchorNone}
}
