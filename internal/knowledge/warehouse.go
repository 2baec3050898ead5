package knowledge

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

type rowQuerier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

const (
	outbreakByCitySQL = `SELECT country, city, disease FROM outbreaks WHERE city = $1 LIMIT 1`
	symptomsSQL       = `SELECT symptoms FROM diseases WHERE disease = $1 LIMIT 1`
	facilitiesSQL     = `SELECT address FROM facilities WHERE city = $1 ORDER BY rank`
	countrySQL        = `SELECT disease FROM country_diseases WHERE country = $1 ORDER BY position`
	preventionSQL     = `SELECT prevention FROM country_diseases WHERE lower(disease) = lower($1) AND country = $2 LIMIT 1`
)

// Warehouse runs parameterized, read-only queries against the outbreak
// warehouse tables.
type Warehouse struct {
	db      rowQuerier
	timeout time.Duration
	tracer  trace.Tracer
}

// NewWarehouse builds a warehouse source. A zero timeout leaves query
// deadlines to the caller's context.
func NewWarehouse(pool *pgxpool.Pool, timeout time.Duration) *Warehouse {
	if pool == nil {
		panic("knowledge: pgx pool required")
	}
	return newWarehouseWithQuerier(pool, timeout)
}

func newWarehouseWithQuerier(db rowQuerier, timeout time.Duration) *Warehouse {
	if db == nil {
		panic("knowledge: querier required")
	}
	return &Warehouse{
		db:      db,
		timeout: timeout,
		tracer:  otel.Tracer("evect.internal.knowledge.warehouse"),
	}
}

var _ Source = (*Warehouse)(nil)

func (w *Warehouse) begin(ctx context.Context, op string) (context.Context, trace.Span, context.CancelFunc) {
	ctx, span := w.tracer.Start(ctx, "knowledge.warehouse."+op)
	if w.timeout > 0 {
		ctx, cancel := context.WithTimeout(ctx, w.timeout)
		return ctx, span, cancel
	}
	return ctx, span, func() {}
}

func (w *Warehouse) OutbreakByCity(ctx context.Context, city string) (*Outbreak, error) {
	ctx, span, cancel := w.begin(ctx, OpOutbreakByCity)
	defer cancel()
	defer span.End()
	span.SetAttributes(attribute.String("city", city))

	var o Outbreak
	err := w.db.QueryRow(ctx, outbreakByCitySQL, city).Scan(&o.Country, &o.City, &o.Disease)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("knowledge: outbreak by city: %w", err)
	}
	return &o, nil
}

func (w *Warehouse) Symptoms(ctx context.Context, disease string) ([]string, error) {
	ctx, span, cancel := w.begin(ctx, OpSymptoms)
	defer cancel()
	defer span.End()

	var symptoms []string
	err := w.db.QueryRow(ctx, symptomsSQL, disease).Scan(&symptoms)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("knowledge: symptoms: %w", err)
	}
	return symptoms, nil
}

func (w *Warehouse) Facilities(ctx context.Context, city string) ([]string, error) {
	ctx, span, cancel := w.begin(ctx, OpFacilities)
	defer cancel()
	defer span.End()

	out, err := w.queryStrings(ctx, facilitiesSQL, city)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("knowledge: facilities: %w", err)
	}
	return out, nil
}

func (w *Warehouse) DiseasesByCountry(ctx context.Context, country string) ([]string, error) {
	ctx, span, cancel := w.begin(ctx, OpDiseasesByCountry)
	defer cancel()
	defer span.End()

	out, err := w.queryStrings(ctx, countrySQL, country)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("knowledge: diseases by country: %w", err)
	}
	return out, nil
}

func (w *Warehouse) PreventionText(ctx context.Context, disease, country string) (string, error) {
	ctx, span, cancel := w.begin(ctx, OpPreventionText)
	defer cancel()
	defer span.End()

	var text string
	err := w.db.QueryRow(ctx, preventionSQL, strings.TrimSpace(disease), country).Scan(&text)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		span.RecordError(err)
		return "", fmt.Errorf("knowledge: prevention text: %w", err)
	}
	return text, nil
}

func (w *Warehouse) queryStrings(ctx context.Context, sql string, args ...any) ([]string, error) {
	rows, err := w.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	out, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, nil
	}
	return out, nil
}
