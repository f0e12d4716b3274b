package domain

import (
	"time"

	"github.com/google/uuid"
)

// ActivityAction is the kind of mutation recorded in the activity log.
type ActivityAction string

const (
	ActivityActionCreate  ActivityAction = "create"
	ActivityActionUpdate  ActivityAction = "update"
	ActivityActionWater   ActivityAction = "water"
	ActivityActionDelete  ActivityAction = "delete"
	ActivityActionRestore ActivityAction = "restore"
)

func (a ActivityAction) String() string { return string(a) }

func (a ActivityAction) IsValid() bool {
	switch a {
	case ActivityActionCreate, ActivityActionUpdate, ActivityActionWater,
		ActivityActionDelete, ActivityActionRestore:
		return true
	}
	return false
}

// FieldChange is one field-level diff inside an update activity.
type FieldChange struct {
	Field string  `json:"field"`
	From  *string `json:"from"`
	To    *string `json:"to"`
}

// ActivityPayload is the action-specific extra data of an activity record.
//
// For update actions it carries the field diffs and whether the photo
// changed. For create actions it carries the creation-implied first watering
// timestamp, which is distinct from the record's own At.
type ActivityPayload struct {
	Changes      []FieldChange `json:"changes,omitempty"`
	PhotoChanged bool          `json:"photo_changed,omitempty"`
	FirstWatered *time.Time    `json:"first_watered,omitempty"`
}

// IsEmpty reports whether the payload carries nothing renderable.
func (p ActivityPayload) IsEmpty() bool {
	return len(p.Changes) == 0 && !p.PhotoChanged && p.FirstWatered == nil
}

// ActivityRecord is one append-only entry in the activity log. Records are
// never edited or removed; deleting a plant keeps its records for audit and
// restore.
type ActivityRecord struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	PlantID   uuid.UUID
	PlantName string
	Action    ActivityAction
	Extra     ActivityPayload
	At        time.Time
}
