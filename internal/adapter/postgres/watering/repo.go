// Package watering implements the watering history repository using
// PostgreSQL. The history is append-only.
package watering

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/plantae/plantae-backend/internal/adapter/postgres"
	"github.com/plantae/plantae-backend/internal/domain"
)

const table = "watering_records"

var psql = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

// Repo provides watering record persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new watering repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

// Create appends a watering record and returns the persisted row.
func (r *Repo) Create(ctx context.Context, rec *domain.WateringRecord) (*domain.WateringRecord, error) {
	query := psql.Insert(table).
		Columns("plant_id", "watered_at").
		Values(rec.PlantID, rec.At).
		Suffix("RETURNING id, plant_id, watered_at")

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build create watering query: %w", err)
	}

	var created domain.WateringRecord
	row := postgres.QuerierFromCtx(ctx, r.pool).QueryRow(ctx, sql, args...)
	if err := row.Scan(&created.ID, &created.PlantID, &created.At); err != nil {
		return nil, postgres.MapError(err, "watering_record", rec.PlantID)
	}

	return &created, nil
}

// ListByPlant returns the full watering history of a plant ordered oldest
// first.
func (r *Repo) ListByPlant(ctx context.Context, plantID uuid.UUID) ([]domain.WateringRecord, error) {
	query := psql.Select("id", "plant_id", "watered_at").
		From(table).
		Where(squirrel.Eq{"plant_id": plantID}).
		OrderBy("watered_at ASC")

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list waterings query: %w", err)
	}

	rows, err := postgres.QuerierFromCtx(ctx, r.pool).Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("list waterings for plant %s: %w", plantID, err)
	}
	defer rows.Close()

	var records []domain.WateringRecord
	for rows.Next() {
		var rec domain.WateringRecord
		if err := rows.Scan(&rec.ID, &rec.PlantID, &rec.At); err != nil {
			return nil, fmt.Errorf("scan watering record: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list waterings for plant %s: %w", plantID, err)
	}

	return records, nil
}
