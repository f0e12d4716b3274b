// Package forecast implements the watering schedule algorithm: projecting a
// cohort of due dates from an anchor, reconciling the cohort against the
// confirmed watering history, and deciding when the window rolls forward.
//
// Everything in this package is pure: identical inputs always produce
// identical outputs, no function touches the clock or any store.
package forecast

import (
	"time"

	"github.com/plantae/plantae-backend/internal/domain"
)

// CohortSize is the fixed number of slots projected per window.
const CohortSize = 5

// Slot is one projected due date within a cohort. Slots are derived, never
// persisted; they are recomputed on demand from the anchor and interval.
type Slot struct {
	Index int
	DueAt time.Time
}

// SlotStatus is the reconciled state of a slot.
//
// OnSchedule is true when the completion's calendar day equals the slot's
// calendar day. History matches are on-schedule by construction; a local
// completion can land on a different day and is surfaced as off-schedule
// with the real completion time alongside the nominal one.
type SlotStatus struct {
	Slot       Slot
	Done       bool
	DoneAt     time.Time
	OnSchedule bool
}

// Completion is a locally-recorded, not-yet-server-confirmed completion of a
// slot.
type Completion struct {
	CompletedAt time.Time
}

// Completions maps slot index to its optimistic local completion.
type Completions map[int]Completion

// Project returns the cohort of due dates for the given anchor and interval.
//
// The sequence is anchor, anchor+interval, …, anchor+(count-1)·interval with
// the interval measured in whole 24h days, plain instant arithmetic, no
// calendar-month or DST adjustment. A zero anchor or non-positive interval
// or count is the degenerate no-anchor case and yields nil.
func Project(anchor time.Time, intervalDays, count int) []Slot {
	if anchor.IsZero() || intervalDays <= 0 || count <= 0 {
		return nil
	}

	step := time.Duration(intervalDays) * 24 * time.Hour
	slots := make([]Slot, count)
	for i := range slots {
		slots[i] = Slot{
			Index: i,
			DueAt: anchor.Add(time.Duration(i) * step),
		}
	}
	return slots
}

// SameDay reports whether two instants fall on the same wall-clock calendar
// date in loc, regardless of time of day.
func SameDay(a, b time.Time, loc *time.Location) bool {
	ay, am, ad := a.In(loc).Date()
	by, bm, bd := b.In(loc).Date()
	return ay == by && am == bm && ad == bd
}

// dayBefore reports whether a falls on an earlier calendar date than b in loc.
func dayBefore(a, b time.Time, loc *time.Location) bool {
	ay, am, ad := a.In(loc).Date()
	by, bm, bd := b.In(loc).Date()
	if ay != by {
		return ay < by
	}
	if am != bm {
		return am < bm
	}
	return ad < bd
}

// latestRecord returns the most recent history record with a usable
// timestamp, or nil. Records with zero timestamps (malformed at the store
// boundary) are skipped rather than treated as epoch.
func latestRecord(history []domain.WateringRecord) *domain.WateringRecord {
	var latest *domain.WateringRecord
	for i := range history {
		if history[i].At.IsZero() {
			continue
		}
		if latest == nil || history[i].At.After(latest.At) {
			latest = &history[i]
		}
	}
	return latest
}
