package vehicle

import (
	"context"
	"database/sql"
	"errors"

	"github.com/shopspring/decimal"
	"github.com/uptrace/bun"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/Additional-Code/gridlock/internal/database"
	"github.com/Additional-Code/gridlock/internal/entity"
)

var repoTracer = otel.Tracer("github.com/Additional-Code/gridlock/repository/vehicle")

// ErrNotFound is returned when a vehicle is missing.
var ErrNotFound = errors.New("vehicle not found")

// Repository encapsulates read/write access for vehicles.
type Repository struct {
	writer *bun.DB
	reader *bun.DB
}

// NewRepository wires a repository backed by configured database connections.
func NewRepository(conns *database.Connections) *Repository {
	return &Repository{
		writer: conns.Writer,
		reader: conns.Reader,
	}
}

// Create persists a new vehicle using the write connection.
func (r *Repository) Create(ctx context.Context, vehicle *entity.Vehicle) error {
	if vehicle == nil {
		return errors.New("nil vehicle")
	}
	ctx, span := repoTracer.Start(ctx, "VehicleRepository.Create", trace.WithAttributes(
		attribute.String("vehicle.make", vehicle.Make),
		attribute.String("vehicle.model", vehicle.Model),
	))
	defer span.End()

	_, err := r.writer.NewInsert().Model(vehicle).Exec(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "insert failed")
	}
	return err
}

// GetByID fetches a vehicle by primary key using the read replica when available.
func (r *Repository) GetByID(ctx context.Context, id int64) (*entity.Vehicle, error) {
	ctx, span := repoTracer.Start(ctx, "VehicleRepository.GetByID", trace.WithAttributes(attribute.Int64("vehicle.id", id)))
	defer span.End()

	vehicle := new(entity.Vehicle)
	err := r.reader.NewSelect().Model(vehicle).Where("v.id = ?", id).Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		span.SetStatus(codes.Error, "not found")
		return nil, ErrNotFound
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "select failed")
		return nil, err
	}
	return vehicle, nil
}

// List returns every vehicle newest first, each carrying the end time of its
// most recently created auction.
func (r *Repository) List(ctx context.Context) ([]entity.VehicleListing, error) {
	ctx, span := repoTracer.Start(ctx, "VehicleRepository.List")
	defer span.End()

	var rows []entity.VehicleListing
	err := r.reader.NewSelect().
		Model(&rows).
		ColumnExpr("v.*").
		ColumnExpr("(SELECT a.end_time FROM auctions AS a WHERE a.vehicle_id = v.id ORDER BY a.created_at DESC, a.id DESC LIMIT 1) AS auction_end_time").
		OrderExpr("v.created_at DESC, v.id DESC").
		Scan(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "select failed")
		return nil, err
	}
	span.SetAttributes(attribute.Int("vehicle.count", len(rows)))
	return rows, nil
}

// Count returns the number of vehicles, optionally restricted to one status.
func (r *Repository) Count(ctx context.Context, status string) (int, error) {
	ctx, span := repoTracer.Start(ctx, "VehicleRepository.Count", trace.WithAttributes(attribute.String("vehicle.status", status)))
	defer span.End()

	q := r.reader.NewSelect().Model((*entity.Vehicle)(nil))
	if status != "" {
		q = q.Where("v.status = ?", status)
	}
	n, err := q.Count(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "count failed")
	}
	return n, err
}

// SumCurrentBid totals current_bid over vehicles in the given status. The sum
// is taken in decimal arithmetic; SQLite keeps fractional NUMERIC values as
// REAL and SUM over them drifts.
func (r *Repository) SumCurrentBid(ctx context.Context, status string) (decimal.Decimal, error) {
	ctx, span := repoTracer.Start(ctx, "VehicleRepository.SumCurrentBid", trace.WithAttributes(attribute.String("vehicle.status", status)))
	defer span.End()

	rows, err := r.reader.NewSelect().
		Model((*entity.Vehicle)(nil)).
		Column("v.current_bid").
		Where("v.status = ?", status).
		Rows(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "sum failed")
		return decimal.Zero, err
	}
	defer rows.Close()

	total := decimal.Zero
	for rows.Next() {
		var amount decimal.Decimal
		if err := rows.Scan(&amount); err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "sum failed")
			return decimal.Zero, err
		}
		total = total.Add(amount)
	}
	if err := rows.Err(); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "sum failed")
		return decimal.Zero, err
	}
	return total, nil
}
