package domain

import (
	"time"

	"github.com/google/uuid"
)

// ActivityFilter narrows activity log reads.
//
// PlantID is an exact match. Day matches every record whose timestamp falls
// on the given wall-clock calendar date, regardless of time of day.
type ActivityFilter struct {
	PlantID *uuid.UUID
	Day     *time.Time
}

// PlantFilter narrows plant list reads.
type PlantFilter struct {
	IncludeDeleted bool
}
