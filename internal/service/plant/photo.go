package plant

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/plantae/plantae-backend/internal/domain"
	"github.com/plantae/plantae-backend/pkg/ctxutil"
)

// maxPhotoBytes caps uploads; larger files are rejected at validation.
const maxPhotoBytes = 5 << 20

// UploadPhoto replaces the plant's photo and writes an update activity with
// photo_changed set. The photo gets a fresh ID on every upload so stale
// photo URLs stop resolving after a replacement.
func (s *Service) UploadPhoto(ctx context.Context, plantID uuid.UUID, content []byte, contentType string) (uuid.UUID, error) {
	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return uuid.Nil, domain.ErrUnauthorized
	}

	if len(content) == 0 {
		return uuid.Nil, domain.NewValidationError("photo", "required")
	}
	if len(content) > maxPhotoBytes {
		return uuid.Nil, domain.NewValidationError("photo", "too large")
	}
	if !strings.HasPrefix(contentType, "image/") {
		return uuid.Nil, domain.NewValidationError("photo", "must be an image")
	}

	plant, err := s.plants.GetByID(ctx, userID, plantID)
	if err != nil {
		return uuid.Nil, err
	}

	photoID := uuid.New()

	txErr := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		if setErr := s.plants.SetPhoto(txCtx, plant.ID, photoID, content, contentType); setErr != nil {
			return fmt.Errorf("set photo: %w", setErr)
		}

		if _, auditErr := s.activity.Append(txCtx, domain.ActivityRecord{
			UserID:    userID,
			PlantID:   plant.ID,
			PlantName: plant.Name,
			Action:    domain.ActivityActionUpdate,
			Extra:     domain.ActivityPayload{PhotoChanged: true},
			At:        s.now().UTC(),
		}); auditErr != nil {
			return fmt.Errorf("activity photo update: %w", auditErr)
		}

		return nil
	})
	if txErr != nil {
		return uuid.Nil, txErr
	}

	return photoID, nil
}

// GetPhoto fetches a photo by its public ID. Photos are addressed by their
// own ID rather than the plant's, matching the upload contract above.
func (s *Service) GetPhoto(ctx context.Context, photoID uuid.UUID) (*domain.Photo, error) {
	return s.plants.GetPhoto(ctx, photoID)
}
