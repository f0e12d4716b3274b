// Package plant implements the plant repository using PostgreSQL.
package plant

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/plantae/plantae-backend/internal/adapter/postgres"
	"github.com/plantae/plantae-backend/internal/domain"
)

const table = "plants"

var columns = []string{
	"id", "user_id", "name", "water_interval_days", "notes",
	"photo_id", "last_watered_at", "created_at", "updated_at", "deleted_at",
}

var psql = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

// Repo provides plant persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new plant repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

// ---------------------------------------------------------------------------
// Read operations
// ---------------------------------------------------------------------------

// GetByID returns a live plant owned by the user. Soft-deleted plants come
// back as domain.ErrNotFound.
func (r *Repo) GetByID(ctx context.Context, userID, plantID uuid.UUID) (*domain.Plant, error) {
	return r.getOne(ctx, squirrel.Eq{
		"id":         plantID,
		"user_id":    userID,
		"deleted_at": nil,
	}, plantID)
}

// GetByIDIncludingDeleted returns a plant owned by the user even if it has
// been soft-deleted. Used by restore.
func (r *Repo) GetByIDIncludingDeleted(ctx context.Context, userID, plantID uuid.UUID) (*domain.Plant, error) {
	return r.getOne(ctx, squirrel.Eq{
		"id":      plantID,
		"user_id": userID,
	}, plantID)
}

// List returns the user's plants ordered by creation time. Soft-deleted
// plants are excluded unless the filter asks for them.
func (r *Repo) List(ctx context.Context, userID uuid.UUID, filter domain.PlantFilter) ([]domain.Plant, error) {
	query := psql.Select(columns...).
		From(table).
		Where(squirrel.Eq{"user_id": userID}).
		OrderBy("created_at ASC")

	if !filter.IncludeDeleted {
		query = query.Where(squirrel.Eq{"deleted_at": nil})
	}

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list plants query: %w", err)
	}

	rows, err := postgres.QuerierFromCtx(ctx, r.pool).Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("list plants: %w", err)
	}
	defer rows.Close()

	var plants []domain.Plant
	for rows.Next() {
		p, err := scanPlant(rows)
		if err != nil {
			return nil, err
		}
		plants = append(plants, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list plants: %w", err)
	}

	return plants, nil
}

// ---------------------------------------------------------------------------
// Write operations
// ---------------------------------------------------------------------------

// Create inserts a new plant and returns the persisted row.
func (r *Repo) Create(ctx context.Context, plant *domain.Plant) (*domain.Plant, error) {
	query := psql.Insert(table).
		Columns("user_id", "name", "water_interval_days", "notes", "last_watered_at").
		Values(plant.UserID, plant.Name, plant.WaterIntervalDays, plant.Notes, plant.LastWateredAt).
		Suffix("RETURNING " + columnList())

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build create plant query: %w", err)
	}

	row := postgres.QuerierFromCtx(ctx, r.pool).QueryRow(ctx, sql, args...)
	created, err := scanPlant(row)
	if err != nil {
		return nil, postgres.MapError(err, "plant", plant.ID)
	}

	return created, nil
}

// Update overwrites the mutable fields of a plant and returns the persisted
// row. Soft-deleted plants cannot be updated.
func (r *Repo) Update(ctx context.Context, plant *domain.Plant) (*domain.Plant, error) {
	query := psql.Update(table).
		Set("name", plant.Name).
		Set("water_interval_days", plant.WaterIntervalDays).
		Set("notes", plant.Notes).
		Set("updated_at", squirrel.Expr("now()")).
		Where(squirrel.Eq{
			"id":         plant.ID,
			"user_id":    plant.UserID,
			"deleted_at": nil,
		}).
		Suffix("RETURNING " + columnList())

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build update plant query: %w", err)
	}

	row := postgres.QuerierFromCtx(ctx, r.pool).QueryRow(ctx, sql, args...)
	updated, err := scanPlant(row)
	if err != nil {
		return nil, postgres.MapError(err, "plant", plant.ID)
	}

	return updated, nil
}

// SetLastWatered updates the denormalized last watering timestamp.
func (r *Repo) SetLastWatered(ctx context.Context, plantID uuid.UUID, at time.Time) error {
	query := psql.Update(table).
		Set("last_watered_at", at).
		Set("updated_at", squirrel.Expr("now()")).
		Where(squirrel.Eq{"id": plantID, "deleted_at": nil})

	return r.execOne(ctx, query, "plant", plantID)
}

// SoftDelete marks a plant as deleted without removing its rows.
func (r *Repo) SoftDelete(ctx context.Context, userID, plantID uuid.UUID, at time.Time) error {
	query := psql.Update(table).
		Set("deleted_at", at).
		Set("updated_at", squirrel.Expr("now()")).
		Where(squirrel.Eq{
			"id":         plantID,
			"user_id":    userID,
			"deleted_at": nil,
		})

	return r.execOne(ctx, query, "plant", plantID)
}

// Restore clears the deletion mark and returns the restored plant.
func (r *Repo) Restore(ctx context.Context, userID, plantID uuid.UUID) (*domain.Plant, error) {
	query := psql.Update(table).
		Set("deleted_at", nil).
		Set("updated_at", squirrel.Expr("now()")).
		Where(squirrel.Eq{"id": plantID, "user_id": userID}).
		Where(squirrel.NotEq{"deleted_at": nil}).
		Suffix("RETURNING " + columnList())

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build restore plant query: %w", err)
	}

	row := postgres.QuerierFromCtx(ctx, r.pool).QueryRow(ctx, sql, args...)
	restored, err := scanPlant(row)
	if err != nil {
		return nil, postgres.MapError(err, "plant", plantID)
	}

	return restored, nil
}

// HardDeleteOld physically removes plants soft-deleted before the threshold.
// Watering records go with them via the FK cascade; ledger entries stay.
// Returns the number of plants removed.
func (r *Repo) HardDeleteOld(ctx context.Context, threshold time.Time) (int64, error) {
	query := psql.Delete(table).
		Where(squirrel.NotEq{"deleted_at": nil}).
		Where(squirrel.Lt{"deleted_at": threshold})

	sql, args, err := query.ToSql()
	if err != nil {
		return 0, fmt.Errorf("build hard delete query: %w", err)
	}

	tag, err := postgres.QuerierFromCtx(ctx, r.pool).Exec(ctx, sql, args...)
	if err != nil {
		return 0, fmt.Errorf("hard delete old plants: %w", err)
	}

	return tag.RowsAffected(), nil
}

// ---------------------------------------------------------------------------
// Photos
// ---------------------------------------------------------------------------

// SetPhoto stores the photo content on the plant row and points the plant at
// the new photo ID. The previous photo, if any, is overwritten.
func (r *Repo) SetPhoto(ctx context.Context, plantID, photoID uuid.UUID, content []byte, contentType string) error {
	query := psql.Update(table).
		Set("photo_id", photoID).
		Set("photo_content", content).
		Set("photo_content_type", contentType).
		Set("updated_at", squirrel.Expr("now()")).
		Where(squirrel.Eq{"id": plantID, "deleted_at": nil})

	return r.execOne(ctx, query, "plant", plantID)
}

// GetPhoto returns the photo content by photo ID. Photo IDs rotate on every
// upload, so a stale ID reads as not found.
func (r *Repo) GetPhoto(ctx context.Context, photoID uuid.UUID) (*domain.Photo, error) {
	query := psql.Select("photo_id", "photo_content", "photo_content_type").
		From(table).
		Where(squirrel.Eq{"photo_id": photoID})

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get photo query: %w", err)
	}

	var photo domain.Photo
	row := postgres.QuerierFromCtx(ctx, r.pool).QueryRow(ctx, sql, args...)
	if err := row.Scan(&photo.ID, &photo.Content, &photo.ContentType); err != nil {
		return nil, postgres.MapError(err, "photo", photoID)
	}

	return &photo, nil
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

func (r *Repo) getOne(ctx context.Context, where squirrel.Eq, plantID uuid.UUID) (*domain.Plant, error) {
	query := psql.Select(columns...).From(table).Where(where)

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get plant query: %w", err)
	}

	row := postgres.QuerierFromCtx(ctx, r.pool).QueryRow(ctx, sql, args...)
	plant, err := scanPlant(row)
	if err != nil {
		return nil, postgres.MapError(err, "plant", plantID)
	}

	return plant, nil
}

func (r *Repo) execOne(ctx context.Context, query squirrel.UpdateBuilder, entity string, id uuid.UUID) error {
	sql, args, err := query.ToSql()
	if err != nil {
		return fmt.Errorf("build %s query: %w", entity, err)
	}

	tag, err := postgres.QuerierFromCtx(ctx, r.pool).Exec(ctx, sql, args...)
	if err != nil {
		return postgres.MapError(err, entity, id)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%s %s: %w", entity, id, domain.ErrNotFound)
	}

	return nil
}

func scanPlant(row pgx.Row) (*domain.Plant, error) {
	var p domain.Plant
	err := row.Scan(
		&p.ID,
		&p.UserID,
		&p.Name,
		&p.WaterIntervalDays,
		&p.Notes,
		&p.PhotoID,
		&p.LastWateredAt,
		&p.CreatedAt,
		&p.UpdatedAt,
		&p.DeletedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func columnList() string {
	return strings.Join(columns, ", ")
}
