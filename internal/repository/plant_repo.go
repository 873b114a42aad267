package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"plant_buddy/internal/models"

	"github.com/google/uuid"
)

type PlantSQLite struct {
	db *sql.DB
}

func NewPlantSQLite(db *sql.DB) *PlantSQLite {
	return &PlantSQLite{db: db}
}

var _ PlantRepo = (*PlantSQLite)(nil)

const (
	plantColumns = `id, name, species, type, status, location, sunlight, pot_size, geo,
		planted_at, expected_growth_days, predicted_harvest_at, growth_stage,
		watering_interval_days, fertilizer_interval_days, created_at, deleted_at`

	insertPlantSQL = `
		INSERT INTO plants (id, name, species, type, status, location, sunlight, pot_size, geo,
			planted_at, expected_growth_days, predicted_harvest_at, growth_stage,
			watering_interval_days, fertilizer_interval_days, created_at, deleted_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	updatePlantSQL = `
		UPDATE plants SET
			name = ?, species = ?, type = ?, status = ?, location = ?, sunlight = ?, pot_size = ?,
			geo = ?, expected_growth_days = ?, predicted_harvest_at = ?, growth_stage = ?,
			watering_interval_days = ?, fertilizer_interval_days = ?
		WHERE id = ? AND deleted_at IS NULL
	`
	selectPlantSQL        = `SELECT ` + plantColumns + ` FROM plants WHERE id = ? AND deleted_at IS NULL`
	selectPlantsSQL       = `SELECT ` + plantColumns + ` FROM plants WHERE deleted_at IS NULL ORDER BY created_at DESC`
	selectActivePlantsSQL = `SELECT ` + plantColumns + ` FROM plants WHERE status = 'active' AND deleted_at IS NULL`
	setPlantStatusSQL     = `UPDATE plants SET status = ? WHERE id = ? AND deleted_at IS NULL`
	softDeletePlantSQL    = `UPDATE plants SET deleted_at = ? WHERE id = ? AND deleted_at IS NULL`
	deletePlantLogsSQL    = `DELETE FROM care_logs WHERE plant_id = ?`
	deletePlantRemSQL     = `DELETE FROM reminders WHERE plant_id = ?`
)

func marshalGeo(g *models.GeoLocation) (any, error) {
	if g == nil {
		return nil, nil
	}
	b, err := json.Marshal(g)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func unmarshalGeo(ns sql.NullString) (*models.GeoLocation, error) {
	if !ns.Valid || ns.String == "" {
		return nil, nil
	}
	var g models.GeoLocation
	if err := json.Unmarshal([]byte(ns.String), &g); err != nil {
		return nil, fmt.Errorf("decode plant geo: %w", err)
	}
	return &g, nil
}

func nullableInt(p *int) any {
	if p == nil {
		return nil
	}
	return *p
}

// Create inserts a plant. ID, CreatedAt, Type and Status get defaults when empty.
func (r *PlantSQLite) Create(ctx context.Context, p models.Plant) (models.Plant, error) {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now()
	}
	if p.Type == "" {
		p.Type = models.PlantManual
	}
	if p.Status == "" {
		p.Status = models.PlantActive
	}
	p.CreatedAt = truncateMillis(p.CreatedAt)
	p.PlantedAt = truncateMillis(p.PlantedAt)

	geo, err := marshalGeo(p.Geo)
	if err != nil {
		return models.Plant{}, fmt.Errorf("encode plant geo: %w", err)
	}

	_, err = r.db.ExecContext(ctx, insertPlantSQL,
		p.ID,
		p.Name,
		nullableString(p.Species),
		p.Type,
		p.Status,
		nullableString(p.Location),
		nullableString(p.SunlightRequired),
		nullableString(p.PotSize),
		geo,
		formatTime(p.PlantedAt),
		nullableInt(p.ExpectedGrowthDays),
		nullableTime(p.PredictedHarvestAt),
		p.GrowthStage,
		p.WateringIntervalDays,
		p.FertilizerIntervalDays,
		formatTime(p.CreatedAt),
		nullableTime(p.DeletedAt),
	)
	if err != nil {
		return models.Plant{}, fmt.Errorf("insert plant: %w", err)
	}
	return p, nil
}

// Get fetches a non-deleted plant. Returns (nil, nil) if not found.
func (r *PlantSQLite) Get(ctx context.Context, id string) (*models.Plant, error) {
	p, err := scanPlant(r.db.QueryRowContext(ctx, selectPlantSQL, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("select plant %s: %w", id, err)
	}
	return &p, nil
}

// List returns all non-deleted plants, newest first.
func (r *PlantSQLite) List(ctx context.Context) ([]models.Plant, error) {
	return r.query(ctx, selectPlantsSQL)
}

// ListActive returns non-deleted plants whose status is active.
func (r *PlantSQLite) ListActive(ctx context.Context) ([]models.Plant, error) {
	return r.query(ctx, selectActivePlantsSQL)
}

// Update overwrites the mutable fields of a non-deleted plant.
func (r *PlantSQLite) Update(ctx context.Context, p models.Plant) error {
	geo, err := marshalGeo(p.Geo)
	if err != nil {
		return fmt.Errorf("encode plant geo: %w", err)
	}
	_, err = r.db.ExecContext(ctx, updatePlantSQL,
		p.Name,
		nullableString(p.Species),
		p.Type,
		p.Status,
		nullableString(p.Location),
		nullableString(p.SunlightRequired),
		nullableString(p.PotSize),
		geo,
		nullableInt(p.ExpectedGrowthDays),
		nullableTime(p.PredictedHarvestAt),
		p.GrowthStage,
		p.WateringIntervalDays,
		p.FertilizerIntervalDays,
		p.ID,
	)
	if err != nil {
		return fmt.Errorf("update plant %s: %w", p.ID, err)
	}
	return nil
}

// SetStatus changes the status of a non-deleted plant; it reports whether
// the plant existed.
func (r *PlantSQLite) SetStatus(ctx context.Context, id, status string) (bool, error) {
	res, err := r.db.ExecContext(ctx, setPlantStatusSQL, status, id)
	if err != nil {
		return false, fmt.Errorf("set plant %s status: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("set plant %s status: rows affected: %w", id, err)
	}
	return n > 0, nil
}

// SoftDelete marks the plant deleted and removes its care logs and reminders
// in one transaction.
func (r *PlantSQLite) SoftDelete(ctx context.Context, id string, at time.Time) (bool, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("begin delete plant %s: %w", id, err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	res, err := tx.ExecContext(ctx, softDeletePlantSQL, formatTime(at), id)
	if err != nil {
		return false, fmt.Errorf("soft delete plant %s: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("soft delete plant %s: rows affected: %w", id, err)
	}
	if n == 0 {
		return false, nil
	}
	if _, err := tx.ExecContext(ctx, deletePlantLogsSQL, id); err != nil {
		return false, fmt.Errorf("delete care logs of plant %s: %w", id, err)
	}
	if _, err := tx.ExecContext(ctx, deletePlantRemSQL, id); err != nil {
		return false, fmt.Errorf("delete reminders of plant %s: %w", id, err)
	}
	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("commit delete plant %s: %w", id, err)
	}
	return true, nil
}

func (r *PlantSQLite) query(ctx context.Context, q string) ([]models.Plant, error) {
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("query plants: %w", err)
	}
	defer rows.Close()

	out := make([]models.Plant, 0, 16)
	for rows.Next() {
		p, err := scanPlant(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func scanPlant(s rowScanner) (models.Plant, error) {
	var (
		p            models.Plant
		species      sql.NullString
		location     sql.NullString
		sunlight     sql.NullString
		potSize      sql.NullString
		geo          sql.NullString
		plantedAt    string
		expectedDays sql.NullInt64
		harvestAt    sql.NullString
		createdAt    string
		deletedAt    sql.NullString
	)
	if err := s.Scan(
		&p.ID, &p.Name, &species, &p.Type, &p.Status, &location, &sunlight, &potSize, &geo,
		&plantedAt, &expectedDays, &harvestAt, &p.GrowthStage,
		&p.WateringIntervalDays, &p.FertilizerIntervalDays, &createdAt, &deletedAt,
	); err != nil {
		return models.Plant{}, err
	}
	p.Species = species.String
	p.Location = location.String
	p.SunlightRequired = sunlight.String
	p.PotSize = potSize.String
	if expectedDays.Valid {
		d := int(expectedDays.Int64)
		p.ExpectedGrowthDays = &d
	}

	var err error
	if p.Geo, err = unmarshalGeo(geo); err != nil {
		return models.Plant{}, err
	}
	if p.PlantedAt, err = parseTime(plantedAt); err != nil {
		return models.Plant{}, err
	}
	if p.CreatedAt, err = parseTime(createdAt); err != nil {
		return models.Plant{}, err
	}
	if p.PredictedHarvestAt, err = parseNullTime(harvestAt); err != nil {
		return models.Plant{}, err
	}
	if p.DeletedAt, err = parseNullTime(deletedAt); err != nil {
		return models.Plant{}, err
	}
	return p, nil
}
