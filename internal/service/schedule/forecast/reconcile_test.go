package forecast

import (
	"testing"
	"time"

	"github.com/plantae/plantae-backend/internal/domain"
)

func weeklySlots(t *testing.T) []Slot {
	t.Helper()
	return Project(ts("2024-01-01T00:00:00Z"), 7, CohortSize)
}

func TestReconcile_SameDayRecordMatches(t *testing.T) {
	slots := weeklySlots(t)
	history := []domain.WateringRecord{record("2024-01-08T23:00:00Z")}

	statuses := Reconcile(slots, history, nil, time.UTC)

	st := statuses[1] // slot due Jan 8
	if !st.Done {
		t.Fatal("slot due Jan 8 not matched by record on Jan 8")
	}
	if !st.DoneAt.Equal(ts("2024-01-08T23:00:00Z")) {
		t.Errorf("DoneAt = %v", st.DoneAt)
	}
	if !st.OnSchedule {
		t.Error("same-day match must be on schedule")
	}
}

func TestReconcile_DifferentDayRecordDoesNotMatch(t *testing.T) {
	slots := weeklySlots(t)
	// Record lands on Jan 9: slot due Jan 8 stays pending, and a slot due
	// Jan 9 would match it.
	history := []domain.WateringRecord{record("2024-01-09T00:30:00Z")}

	statuses := Reconcile(slots, history, nil, time.UTC)
	if statuses[1].Done {
		t.Error("slot due Jan 8 matched by a Jan 9 record")
	}

	jan9 := []Slot{{Index: 0, DueAt: ts("2024-01-09T00:00:00Z")}}
	statuses = Reconcile(jan9, history, nil, time.UTC)
	if !statuses[0].Done || !statuses[0].OnSchedule {
		t.Errorf("slot due Jan 9 should match the Jan 9 record, got %+v", statuses[0])
	}
}

func TestReconcile_LocalCompletionWins(t *testing.T) {
	slots := weeklySlots(t)
	history := []domain.WateringRecord{record("2024-01-08T10:00:00Z")}
	local := Completions{
		1: {CompletedAt: ts("2024-01-08T12:00:00Z")},
	}

	statuses := Reconcile(slots, history, local, time.UTC)

	if !statuses[1].DoneAt.Equal(ts("2024-01-08T12:00:00Z")) {
		t.Errorf("local completion should take precedence, DoneAt = %v", statuses[1].DoneAt)
	}
}

func TestReconcile_LocalCompletionOffSchedule(t *testing.T) {
	slots := weeklySlots(t)
	// User marks the Jan 15 slot done, but the real event landed on Jan 13.
	local := Completions{
		2: {CompletedAt: ts("2024-01-13T09:00:00Z")},
	}

	statuses := Reconcile(slots, nil, local, time.UTC)

	st := statuses[2]
	if !st.Done {
		t.Fatal("locally-completed slot not done")
	}
	if st.OnSchedule {
		t.Error("completion on a different calendar day must be off schedule")
	}
	if !st.DoneAt.Equal(ts("2024-01-13T09:00:00Z")) {
		t.Errorf("DoneAt = %v, want the real completion time", st.DoneAt)
	}
}

func TestReconcile_ExactlyOneStatusPerSlot(t *testing.T) {
	slots := weeklySlots(t)
	history := []domain.WateringRecord{
		record("2024-01-01T08:00:00Z"),
		record("2024-01-15T08:00:00Z"),
	}
	local := Completions{3: {CompletedAt: ts("2024-01-22T08:00:00Z")}}

	statuses := Reconcile(slots, history, local, time.UTC)

	if len(statuses) != len(slots) {
		t.Fatalf("len = %d, want %d", len(statuses), len(slots))
	}
	for i, st := range statuses {
		if st.Slot.Index != i {
			t.Errorf("status %d carries slot index %d", i, st.Slot.Index)
		}
		if !st.Done && (st.OnSchedule || !st.DoneAt.IsZero()) {
			t.Errorf("pending slot %d carries completion data: %+v", i, st)
		}
	}
}

func TestReconcile_Idempotent(t *testing.T) {
	slots := weeklySlots(t)
	history := []domain.WateringRecord{
		record("2024-01-08T11:00:00Z"),
		record("2024-01-22T06:00:00Z"),
	}
	local := Completions{0: {CompletedAt: ts("2024-01-01T07:00:00Z")}}

	first := Reconcile(slots, history, local, time.UTC)
	second := Reconcile(slots, history, local, time.UTC)

	for i := range first {
		if first[i] != second[i] {
			t.Errorf("status %d changed between identical runs: %+v vs %+v", i, first[i], second[i])
		}
	}
}

func TestReconcile_IgnoresRecordsBeforeFirstSlot(t *testing.T) {
	// Anchor Jan 29; a stale record from Jan 1 must not satisfy any slot even
	// though it is retained in the history for audit.
	slots := Project(ts("2024-01-29T00:00:00Z"), 7, CohortSize)
	history := []domain.WateringRecord{record("2024-01-01T10:00:00Z")}

	statuses := Reconcile(slots, history, nil, time.UTC)

	for _, st := range statuses {
		if st.Done {
			t.Errorf("slot %d satisfied by a record older than the window", st.Slot.Index)
		}
	}
}

func TestReconcile_SkipsMalformedRecords(t *testing.T) {
	slots := weeklySlots(t)
	history := []domain.WateringRecord{
		{At: time.Time{}},
		record("2024-01-15T10:00:00Z"),
	}

	statuses := Reconcile(slots, history, nil, time.UTC)

	if !statuses[2].Done {
		t.Error("valid record skipped alongside the malformed one")
	}
	if statuses[0].Done || statuses[1].Done {
		t.Error("malformed record satisfied a slot")
	}
}

func TestReconcile_TieBreakNewestFirst(t *testing.T) {
	slots := weeklySlots(t)
	// Two records on the slot's day: the matcher scans newest first.
	history := []domain.WateringRecord{
		record("2024-01-08T08:00:00Z"),
		record("2024-01-08T20:00:00Z"),
	}

	statuses := Reconcile(slots, history, nil, time.UTC)

	if !statuses[1].DoneAt.Equal(ts("2024-01-08T20:00:00Z")) {
		t.Errorf("DoneAt = %v, want the newest same-day record", statuses[1].DoneAt)
	}
}
