// Package activity implements the activity log repository using PostgreSQL.
// It provides append-only operations for activity records.
package activity

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/plantae/plantae-backend/internal/adapter/postgres"
	"github.com/plantae/plantae-backend/internal/domain"
)

const table = "activity_log"

var psql = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

// Repo provides activity log persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new activity repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

// Append inserts an activity record and returns the persisted row.
func (r *Repo) Append(ctx context.Context, rec domain.ActivityRecord) (domain.ActivityRecord, error) {
	extraJSON, err := json.Marshal(rec.Extra)
	if err != nil {
		return domain.ActivityRecord{}, fmt.Errorf("activity_record marshal extra: %w", err)
	}

	query := psql.Insert(table).
		Columns("user_id", "plant_id", "plant_name", "action", "extra", "occurred_at").
		Values(rec.UserID, rec.PlantID, rec.PlantName, rec.Action.String(), extraJSON, rec.At).
		Suffix("RETURNING id, user_id, plant_id, plant_name, action, extra, occurred_at")

	sql, args, err := query.ToSql()
	if err != nil {
		return domain.ActivityRecord{}, fmt.Errorf("build append activity query: %w", err)
	}

	row := postgres.QuerierFromCtx(ctx, r.pool).QueryRow(ctx, sql, args...)
	created, err := scanActivity(row)
	if err != nil {
		return domain.ActivityRecord{}, postgres.MapError(err, "activity_record", rec.PlantID)
	}

	return created, nil
}

// List returns the user's activity records ordered newest first. The filter
// narrows by plant and by wall-clock calendar day of occurred_at.
func (r *Repo) List(ctx context.Context, userID uuid.UUID, filter domain.ActivityFilter) ([]domain.ActivityRecord, error) {
	query := psql.Select("id", "user_id", "plant_id", "plant_name", "action", "extra", "occurred_at").
		From(table).
		Where(squirrel.Eq{"user_id": userID}).
		OrderBy("occurred_at DESC")

	if filter.PlantID != nil {
		query = query.Where(squirrel.Eq{"plant_id": *filter.PlantID})
	}
	if filter.Day != nil {
		y, m, d := filter.Day.Date()
		dayStart := time.Date(y, m, d, 0, 0, 0, 0, filter.Day.Location())
		query = query.Where(squirrel.Expr(
			"occurred_at >= ? AND occurred_at < ?",
			dayStart, dayStart.AddDate(0, 0, 1),
		))
	}

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list activities query: %w", err)
	}

	rows, err := postgres.QuerierFromCtx(ctx, r.pool).Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("list activities: %w", err)
	}
	defer rows.Close()

	var records []domain.ActivityRecord
	for rows.Next() {
		rec, err := scanActivity(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list activities: %w", err)
	}

	return records, nil
}

// scanActivity reads one row into a domain.ActivityRecord, decoding the
// JSONB extra column.
func scanActivity(row interface{ Scan(dest ...any) error }) (domain.ActivityRecord, error) {
	var (
		rec       domain.ActivityRecord
		action    string
		extraJSON []byte
	)

	err := row.Scan(&rec.ID, &rec.UserID, &rec.PlantID, &rec.PlantName, &action, &extraJSON, &rec.At)
	if err != nil {
		return domain.ActivityRecord{}, err
	}

	rec.Action = domain.ActivityAction(action)
	if len(extraJSON) > 0 {
		if err := json.Unmarshal(extraJSON, &rec.Extra); err != nil {
			return domain.ActivityRecord{}, fmt.Errorf("activity_record %s unmarshal extra: %w", rec.ID, err)
		}
	}

	return rec, nil
}
