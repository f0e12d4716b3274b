package forecast

import (
	"sort"
	"time"

	"github.com/plantae/plantae-backend/internal/domain"
)

// Reconcile classifies every slot against the confirmed watering history and
// the local completion cache. Every slot yields exactly one status: a local
// completion wins, then the first history record (newest first) on the same
// calendar day, otherwise the slot stays pending.
//
// History records whose calendar day precedes the first slot's day are
// ignored so an old watering kept for audit cannot satisfy a later slot.
// Records with zero timestamps are skipped rather than aborting the run.
func Reconcile(slots []Slot, history []domain.WateringRecord, local Completions, loc *time.Location) []SlotStatus {
	if loc == nil {
		loc = time.Local
	}

	candidates := matchCandidates(slots, history, loc)

	statuses := make([]SlotStatus, len(slots))
	for i, slot := range slots {
		statuses[i] = classify(slot, candidates, local, loc)
	}
	return statuses
}

func classify(slot Slot, candidates []domain.WateringRecord, local Completions, loc *time.Location) SlotStatus {
	if c, ok := local[slot.Index]; ok {
		return SlotStatus{
			Slot:       slot,
			Done:       true,
			DoneAt:     c.CompletedAt,
			OnSchedule: SameDay(c.CompletedAt, slot.DueAt, loc),
		}
	}

	for _, rec := range candidates {
		if SameDay(rec.At, slot.DueAt, loc) {
			return SlotStatus{
				Slot:       slot,
				Done:       true,
				DoneAt:     rec.At,
				OnSchedule: true,
			}
		}
	}

	return SlotStatus{Slot: slot}
}

// matchCandidates returns the usable history records sorted newest first,
// dropping malformed timestamps and records older than the earliest slot.
func matchCandidates(slots []Slot, history []domain.WateringRecord, loc *time.Location) []domain.WateringRecord {
	if len(slots) == 0 {
		return nil
	}
	earliest := slots[0].DueAt

	candidates := make([]domain.WateringRecord, 0, len(history))
	for _, rec := range history {
		if rec.At.IsZero() || dayBefore(rec.At, earliest, loc) {
			continue
		}
		candidates = append(candidates, rec)
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].At.After(candidates[j].At)
	})
	return candidates
}
