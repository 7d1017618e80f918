package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/KeyzarRasya/lativa/internal/domain"
	"github.com/KeyzarRasya/lativa/pkg/e"
)

type IncidentRepo struct {
	pool   *pgxpool.Pool
	logger *slog.Logger
}

func NewIncidentRepo(pool *pgxpool.Pool, logger *slog.Logger) *IncidentRepo {
	return &IncidentRepo{pool: pool, logger: logger}
}

const incidentColumns = `
	id, type, status, COALESCE(zone, ''), location, address, description,
	lat, lng, confidence, COALESCE(created_by, ''), metadata,
	created_at, updated_at`

// orderColumns whitelists the sortable fields; anything else falls back to
// created_at.
var orderColumns = map[string]string{
	"createdAt":  "created_at",
	"updatedAt":  "updated_at",
	"confidence": "confidence",
	"status":     "status",
}

func scanIncident(row pgx.Row) (*domain.Incident, error) {
	var inc domain.Incident
	err := row.Scan(
		&inc.ID,
		&inc.Type,
		&inc.Status,
		&inc.Zone,
		&inc.Location,
		&inc.Address,
		&inc.Description,
		&inc.Coordinates.Lat,
		&inc.Coordinates.Lng,
		&inc.Confidence,
		&inc.CreatedBy,
		&inc.Metadata,
		&inc.CreatedAt,
		&inc.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &inc, nil
}

// Create persists a new incident, filling the store-side defaults: status
// unverified, type derived from status, confidence 0, both timestamps set
// to the same instant. Structural absence of coordinates is the only thing
// rejected here; deep validation belongs to the caller.
func (r *IncidentRepo) Create(ctx context.Context, inc *domain.Incident) error {
	const op = "postgres.Incident.Create"

	if !inc.Coordinates.Valid() {
		return fmt.Errorf("%s: %w", op, e.ErrInvalidCoordinates)
	}

	if inc.ID == uuid.Nil {
		inc.ID = uuid.New()
	}
	if inc.Status == "" {
		inc.Status = domain.StatusUnverified
	}
	if inc.Type == "" {
		inc.Type = domain.TypeForStatus(inc.Status)
	}
	now := time.Now().UTC()
	if inc.CreatedAt.IsZero() {
		inc.CreatedAt = now
	}
	inc.UpdatedAt = inc.CreatedAt

	const query = `
		INSERT INTO incidents
			(id, type, status, zone, location, address, description,
			 lat, lng, confidence, created_by, metadata, created_at, updated_at)
		VALUES ($1, $2, $3, NULLIF($4, ''), $5, $6, $7, $8, $9, $10, NULLIF($11, ''), $12, $13, $14)
	`

	_, err := r.pool.Exec(ctx, query,
		inc.ID,
		inc.Type,
		inc.Status,
		string(inc.Zone),
		inc.Location,
		inc.Address,
		inc.Description,
		inc.Coordinates.Lat,
		inc.Coordinates.Lng,
		inc.Confidence,
		inc.CreatedBy,
		inc.Metadata,
		inc.CreatedAt,
		inc.UpdatedAt,
	)
	if err != nil {
		r.logger.Error("db exec failed", slog.String("op", op), slog.Any("error", err))
		return e.WrapError(ctx, op, err)
	}
	return nil
}

func (r *IncidentRepo) Get(ctx context.Context, id uuid.UUID) (*domain.Incident, error) {
	const op = "postgres.Incident.Get"

	query := `SELECT` + incidentColumns + ` FROM incidents WHERE id = $1`

	inc, err := scanIncident(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, e.ErrNotFound)
		}
		r.logger.Error("db queryrow scan failed", slog.String("op", op), slog.Any("error", err), slog.String("id", id.String()))
		return nil, e.WrapError(ctx, op, err)
	}
	return inc, nil
}

func (r *IncidentRepo) List(ctx context.Context, filter domain.ListFilter) ([]*domain.Incident, error) {
	const op = "postgres.Incident.List"

	filter = filter.Normalized()

	col, ok := orderColumns[filter.OrderBy]
	if !ok {
		col = "created_at"
	}
	dir := "DESC"
	if filter.OrderDirection == domain.OrderAsc {
		dir = "ASC"
	}

	var sb strings.Builder
	sb.WriteString(`SELECT` + incidentColumns + ` FROM incidents`)
	args := make([]any, 0, 2)
	if filter.Status != "" {
		args = append(args, filter.Status)
		sb.WriteString(fmt.Sprintf(" WHERE status = $%d", len(args)))
	}
	args = append(args, filter.Limit)
	sb.WriteString(fmt.Sprintf(" ORDER BY %s %s LIMIT $%d", col, dir, len(args)))

	rows, err := r.pool.Query(ctx, sb.String(), args...)
	if err != nil {
		r.logger.Error("db query failed", slog.String("op", op), slog.Any("error", err))
		return nil, e.WrapError(ctx, op, err)
	}
	defer rows.Close()

	var incidents []*domain.Incident
	for rows.Next() {
		inc, err := scanIncident(rows)
		if err != nil {
			r.logger.Error("row scan failed", slog.String("op", op), slog.Any("error", err))
			return nil, e.WrapError(ctx, op, err)
		}
		incidents = append(incidents, inc)
	}
	if err := rows.Err(); err != nil {
		r.logger.Error("rows err", slog.String("op", op), slog.Any("error", err))
		return nil, e.WrapError(ctx, op, err)
	}
	return incidents, nil
}

// ListByBoundingBox fetches a capped working set and range-filters it in
// memory. The store has no native geo index; acceptable at the record-set
// scale this service targets, and not worth a PostGIS dependency yet.
func (r *IncidentRepo) ListByBoundingBox(ctx context.Context, bounds domain.BoundingBox) ([]*domain.Incident, error) {
	working, err := r.List(ctx, domain.ListFilter{Limit: domain.BoundingBoxLimit})
	if err != nil {
		return nil, err
	}

	out := make([]*domain.Incident, 0, len(working))
	for _, inc := range working {
		if bounds.Contains(inc.Coordinates) {
			out = append(out, inc)
		}
	}
	return out, nil
}

// Update merges the non-nil fields of req into the stored record and
// refreshes updated_at. Status/type consistency is the caller's job; the
// lifecycle service always writes the pair together.
func (r *IncidentRepo) Update(ctx context.Context, id uuid.UUID, req domain.UpdateIncidentRequest) error {
	const op = "postgres.Incident.Update"

	sets := []string{"updated_at = $1"}
	args := []any{time.Now().UTC()}

	add := func(col string, v any) {
		args = append(args, v)
		sets = append(sets, fmt.Sprintf("%s = $%d", col, len(args)))
	}

	if req.Type != nil {
		add("type", *req.Type)
	}
	if req.Status != nil {
		add("status", *req.Status)
	}
	if req.Zone != nil {
		args = append(args, string(*req.Zone))
		sets = append(sets, fmt.Sprintf("zone = NULLIF($%d, '')", len(args)))
	}
	if req.Location != nil {
		add("location", *req.Location)
	}
	if req.Address != nil {
		add("address", *req.Address)
	}
	if req.Description != nil {
		add("description", *req.Description)
	}
	if req.Confidence != nil {
		add("confidence", *req.Confidence)
	}
	if req.Metadata != nil {
		add("metadata", req.Metadata)
	}

	args = append(args, id)
	query := fmt.Sprintf("UPDATE incidents SET %s WHERE id = $%d", strings.Join(sets, ", "), len(args))

	cmd, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		r.logger.Error("db exec failed", slog.String("op", op), slog.Any("error", err), slog.String("id", id.String()))
		return e.WrapError(ctx, op, err)
	}
	if cmd.RowsAffected() == 0 {
		return fmt.Errorf("%s: %w", op, e.ErrNotFound)
	}
	return nil
}

// Delete removes the record permanently. Exists for completeness; no
// default workflow calls it.
func (r *IncidentRepo) Delete(ctx context.Context, id uuid.UUID) error {
	const op = "postgres.Incident.Delete"

	cmd, err := r.pool.Exec(ctx, `DELETE FROM incidents WHERE id = $1`, id)
	if err != nil {
		r.logger.Error("db exec failed", slog.String("op", op), slog.Any("error", err), slog.String("id", id.String()))
		return e.WrapError(ctx, op, err)
	}
	if cmd.RowsAffected() == 0 {
		return fmt.Errorf("%s: %w", op, e.ErrNotFound)
	}
	return nil
}
