package plant

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/plantae/plantae-backend/internal/domain"
)

const (
	maxNameLen  = 120
	maxNotesLen = 2000
	// maxIntervalDays guards against typos like 700 instead of 7.
	maxIntervalDays = 365
)

// CreateInput is the payload for Create.
//
// FirstWateredAt is the registration-implied first watering; when nil (or
// unparseable at the transport boundary) it defaults to the creation time.
type CreateInput struct {
	Name              string
	WaterIntervalDays int
	Notes             *string
	FirstWateredAt    *time.Time
}

// Validate checks the input and normalizes the name.
func (in *CreateInput) Validate() error {
	var errs []domain.FieldError

	in.Name = strings.TrimSpace(in.Name)
	if in.Name == "" {
		errs = append(errs, domain.FieldError{Field: "name", Message: "required"})
	} else if len(in.Name) > maxNameLen {
		errs = append(errs, domain.FieldError{Field: "name", Message: "too long"})
	}

	if in.WaterIntervalDays <= 0 {
		errs = append(errs, domain.FieldError{Field: "water_interval_days", Message: "must be positive"})
	} else if in.WaterIntervalDays > maxIntervalDays {
		errs = append(errs, domain.FieldError{Field: "water_interval_days", Message: "too large"})
	}

	if in.Notes != nil && len(*in.Notes) > maxNotesLen {
		errs = append(errs, domain.FieldError{Field: "notes", Message: "too long"})
	}

	if len(errs) > 0 {
		return domain.NewValidationErrors(errs)
	}
	return nil
}

// UpdateInput is the payload for Update. Nil fields are left unchanged.
type UpdateInput struct {
	PlantID           uuid.UUID
	Name              *string
	WaterIntervalDays *int
	Notes             *string
}

// Validate checks the input and normalizes the name.
func (in *UpdateInput) Validate() error {
	var errs []domain.FieldError

	if in.PlantID == uuid.Nil {
		errs = append(errs, domain.FieldError{Field: "plant_id", Message: "required"})
	}

	if in.Name != nil {
		trimmed := strings.TrimSpace(*in.Name)
		in.Name = &trimmed
		if trimmed == "" {
			errs = append(errs, domain.FieldError{Field: "name", Message: "must not be empty"})
		} else if len(trimmed) > maxNameLen {
			errs = append(errs, domain.FieldError{Field: "name", Message: "too long"})
		}
	}

	if in.WaterIntervalDays != nil {
		if *in.WaterIntervalDays <= 0 {
			errs = append(errs, domain.FieldError{Field: "water_interval_days", Message: "must be positive"})
		} else if *in.WaterIntervalDays > maxIntervalDays {
			errs = append(errs, domain.FieldError{Field: "water_interval_days", Message: "too large"})
		}
	}

	if in.Notes != nil && len(*in.Notes) > maxNotesLen {
		errs = append(errs, domain.FieldError{Field: "notes", Message: "too long"})
	}

	if len(errs) > 0 {
		return domain.NewValidationErrors(errs)
	}
	return nil
}
