package knowledge

import (
	"context"
	"fmt"

	pgx "github.com/jackc/pgx/v5"
)

type txBeginner interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}

// LoadStats counts rows written per table.
type LoadStats map[string]int64

// LoadWarehouse replaces the contents of the four warehouse tables with ds in
// a single transaction. Readers never observe a partially loaded dataset.
func LoadWarehouse(ctx context.Context, db txBeginner, ds Dataset) (LoadStats, error) {
	tx, err := db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("knowledge: begin load: %w", err)
	}

	stats, err := loadTables(ctx, tx, ds)
	if err != nil {
		_ = tx.Rollback(ctx)
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("knowledge: commit load: %w", err)
	}
	return stats, nil
}

func loadTables(ctx context.Context, tx pgx.Tx, ds Dataset) (LoadStats, error) {
	if _, err := tx.Exec(ctx, "TRUNCATE outbreaks, diseases, facilities, country_diseases"); err != nil {
		return nil, fmt.Errorf("knowledge: truncate tables: %w", err)
	}

	tables := []struct {
		name    string
		columns []string
		rows    [][]any
	}{
		{TableOutbreaks, []string{"country", "city", "disease"}, outbreakRows(ds.Outbreaks)},
		{TableDiseases, []string{"disease", "symptoms"}, diseaseRows(ds.Diseases)},
		{TableFacilities, []string{"city", "rank", "address"}, facilityRows(ds.Facilities)},
		{TableCountryDiseases, []string{"country", "position", "disease", "prevention"}, countryDiseaseRows(ds.CountryDiseases)},
	}

	stats := LoadStats{}
	for _, table := range tables {
		n, err := tx.CopyFrom(ctx, pgx.Identifier{table.name}, table.columns, pgx.CopyFromRows(table.rows))
		if err != nil {
			return nil, fmt.Errorf("knowledge: copy %s: %w", table.name, err)
		}
		stats[table.name] = n
	}
	return stats, nil
}

func outbreakRows(in []Outbreak) [][]any {
	rows := make([][]any, 0, len(in))
	for _, o := range in {
		rows = append(rows, []any{o.Country, o.City, o.Disease})
	}
	return rows
}

func diseaseRows(in []DiseaseRow) [][]any {
	rows := make([][]any, 0, len(in))
	for _, d := range in {
		rows = append(rows, []any{d.Disease, d.Symptoms})
	}
	return rows
}

func facilityRows(in []FacilityRow) [][]any {
	rows := make([][]any, 0, len(in))
	for _, f := range in {
		rows = append(rows, []any{f.City, f.Rank, f.Address})
	}
	return rows
}

func countryDiseaseRows(in []CountryDiseaseRow) [][]any {
	rows := make([][]any, 0, len(in))
	for _, c := range in {
		rows = append(rows, []any{c.Country, c.Position, c.Disease, c.Prevention})
	}
	return rows
}
