package knowledge

import (
	"context"
	"errors"
	"testing"

	pgx "github.com/jackc/pgx/v5"
	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadWarehouse(t *testing.T) {
	ds, err := LoadDataset(EmbeddedFS())
	require.NoError(t, err)

	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectBegin()
	mock.ExpectExec("TRUNCATE outbreaks").WillReturnResult(pgxmock.NewResult("TRUNCATE", 0))
	mock.ExpectCopyFrom(pgx.Identifier{TableOutbreaks}, []string{"country", "city", "disease"}).
		WillReturnResult(int64(len(ds.Outbreaks)))
	mock.ExpectCopyFrom(pgx.Identifier{TableDiseases}, []string{"disease", "symptoms"}).
		WillReturnResult(int64(len(ds.Diseases)))
	mock.ExpectCopyFrom(pgx.Identifier{TableFacilities}, []string{"city", "rank", "address"}).
		WillReturnResult(int64(len(ds.Facilities)))
	mock.ExpectCopyFrom(pgx.Identifier{TableCountryDiseases}, []string{"country", "position", "disease", "prevention"}).
		WillReturnResult(int64(len(ds.CountryDiseases)))
	mock.ExpectCommit()

	stats, err := LoadWarehouse(context.Background(), mock, ds)
	require.NoError(t, err)
	assert.Equal(t, int64(len(ds.Facilities)), stats[TableFacilities])
	assert.Len(t, stats, 4)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestLoadWarehouseRollsBackOnCopyFailure(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectBegin()
	mock.ExpectExec("TRUNCATE outbreaks").WillReturnResult(pgxmock.NewResult("TRUNCATE", 0))
	mock.ExpectCopyFrom(pgx.Identifier{TableOutbreaks}, []string{"country", "city", "disease"}).
		WillReturnError(errors.New("disk full"))
	mock.ExpectRollback()

	_, err = LoadWarehouse(context.Background(), mock, Dataset{Outbreaks: []Outbreak{{Country: "Mozambique", City: "Maputo", Disease: "Cholera"}}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "copy outbreaks")
	require.NoError(t, mock.ExpectationsWereMet())
}
