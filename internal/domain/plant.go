package domain

import (
	"time"

	"github.com/google/uuid"
)

// Plant is a tracked plant owned by a user.
//
// LastWateredAt mirrors the most recent watering record for cheap list
// rendering; the watering history remains the source of truth for what
// actually happened.
type Plant struct {
	ID                uuid.UUID
	UserID            uuid.UUID
	Name              string
	WaterIntervalDays int
	Notes             *string
	PhotoID           *uuid.UUID
	LastWateredAt     *time.Time
	CreatedAt         time.Time
	UpdatedAt         time.Time
	DeletedAt         *time.Time
}

// IsDeleted reports whether the plant is soft-deleted.
func (p *Plant) IsDeleted() bool { return p.DeletedAt != nil }

// WateringRecord is one confirmed watering event. Immutable once appended;
// a plant's records ordered by At are the source of truth for reconciliation.
type WateringRecord struct {
	ID      uuid.UUID
	PlantID uuid.UUID
	At      time.Time
}

// Photo is a plant photo stored alongside the plant record.
type Photo struct {
	ID          uuid.UUID
	Content     []byte
	ContentType string
}
