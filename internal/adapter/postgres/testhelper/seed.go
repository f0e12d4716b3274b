package testhelper

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/plantae/plantae-backend/internal/domain"
)

// uniqueSuffix returns a short unique string for generating non-conflicting test data.
func uniqueSuffix() string {
	return uuid.New().String()[:8]
}

// SeedUser creates a user with a unique username. Returns a filled domain.User.
func SeedUser(t *testing.T, pool *pgxpool.Pool) domain.User {
	t.Helper()
	ctx := context.Background()

	suffix := uniqueSuffix()
	now := time.Now().UTC().Truncate(time.Microsecond)
	user := domain.User{
		ID:           uuid.New(),
		Username:     "testuser-" + suffix,
		PasswordHash: "$2a$10$testhashtesthashtesthashtesthashtesthashtesthashtestha",
		CreatedAt:    now,
	}

	_, err := pool.Exec(ctx,
		`INSERT INTO users (id, username, password_hash, created_at)
		 VALUES ($1, $2, $3, $4)`,
		user.ID, user.Username, user.PasswordHash, user.CreatedAt,
	)
	if err != nil {
		t.Fatalf("testhelper: SeedUser insert user: %v", err)
	}

	return user
}

// SeedPlant creates a live plant for the user. Returns a filled domain.Plant.
func SeedPlant(t *testing.T, pool *pgxpool.Pool, userID uuid.UUID) domain.Plant {
	t.Helper()
	ctx := context.Background()

	suffix := uniqueSuffix()
	now := time.Now().UTC().Truncate(time.Microsecond)
	plant := domain.Plant{
		ID:                uuid.New(),
		UserID:            userID,
		Name:              "Test Plant " + suffix,
		WaterIntervalDays: 7,
		CreatedAt:         now,
		UpdatedAt:         now,
	}

	_, err := pool.Exec(ctx,
		`INSERT INTO plants (id, user_id, name, water_interval_days, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		plant.ID, plant.UserID, plant.Name, plant.WaterIntervalDays, plant.CreatedAt, plant.UpdatedAt,
	)
	if err != nil {
		t.Fatalf("testhelper: SeedPlant insert plant: %v", err)
	}

	return plant
}

// SeedDeletedPlant creates a soft-deleted plant for the user.
func SeedDeletedPlant(t *testing.T, pool *pgxpool.Pool, userID uuid.UUID) domain.Plant {
	t.Helper()
	ctx := context.Background()

	plant := SeedPlant(t, pool, userID)
	deletedAt := time.Now().UTC().Truncate(time.Microsecond)

	_, err := pool.Exec(ctx,
		`UPDATE plants SET deleted_at = $1 WHERE id = $2`,
		deletedAt, plant.ID,
	)
	if err != nil {
		t.Fatalf("testhelper: SeedDeletedPlant mark deleted: %v", err)
	}

	plant.DeletedAt = &deletedAt
	return plant
}

// SeedWatering creates a watering record for the plant at the given time.
func SeedWatering(t *testing.T, pool *pgxpool.Pool, plantID uuid.UUID, at time.Time) domain.WateringRecord {
	t.Helper()
	ctx := context.Background()

	rec := domain.WateringRecord{
		ID:      uuid.New(),
		PlantID: plantID,
		At:      at.UTC().Truncate(time.Microsecond),
	}

	_, err := pool.Exec(ctx,
		`INSERT INTO watering_records (id, plant_id, watered_at)
		 VALUES ($1, $2, $3)`,
		rec.ID, rec.PlantID, rec.At,
	)
	if err != nil {
		t.Fatalf("testhelper: SeedWatering insert record: %v", err)
	}

	return rec
}

// SeedActivity creates an activity record with an empty payload.
func SeedActivity(t *testing.T, pool *pgxpool.Pool, userID, plantID uuid.UUID, action domain.ActivityAction, at time.Time) domain.ActivityRecord {
	t.Helper()
	ctx := context.Background()

	rec := domain.ActivityRecord{
		ID:        uuid.New(),
		UserID:    userID,
		PlantID:   plantID,
		PlantName: "Test Plant",
		Action:    action,
		At:        at.UTC().Truncate(time.Microsecond),
	}

	_, err := pool.Exec(ctx,
		`INSERT INTO activity_log (id, user_id, plant_id, plant_name, action, extra, occurred_at)
		 VALUES ($1, $2, $3, $4, $5, '{}', $6)`,
		rec.ID, rec.UserID, rec.PlantID, rec.PlantName, rec.Action.String(), rec.At,
	)
	if err != nil {
		t.Fatalf("testhelper: SeedActivity insert record: %v", err)
	}

	return rec
}
