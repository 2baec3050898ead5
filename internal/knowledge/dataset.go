package knowledge

import (
	"bufio"
	"embed"
	"encoding/json"
	"fmt"
	"io/fs"
)

//go:embed dataset/*.jsonl
var embedded embed.FS

// EmbeddedFS exposes the bundled dataset, one newline-delimited JSON file per
// table.
func EmbeddedFS() fs.FS {
	sub, err := fs.Sub(embedded, "dataset")
	if err != nil {
		panic(fmt.Sprintf("knowledge: embedded dataset: %v", err))
	}
	return sub
}

// DiseaseRow is one row of the diseases table.
type DiseaseRow struct {
	Disease  string   `json:"disease"`
	Symptoms []string `json:"symptoms"`
}

// FacilityRow is one row of the facilities table; rank orders facilities
// within a city.
type FacilityRow struct {
	City    string `json:"city"`
	Rank    int    `json:"rank"`
	Address string `json:"address"`
}

// CountryDiseaseRow is one row of the country_diseases table.
type CountryDiseaseRow struct {
	Country    string `json:"country"`
	Position   int    `json:"position"`
	Disease    string `json:"disease"`
	Prevention string `json:"prevention"`
}

// Dataset holds every table of the outbreak dataset.
type Dataset struct {
	Outbreaks       []Outbreak
	Diseases        []DiseaseRow
	Facilities      []FacilityRow
	CountryDiseases []CountryDiseaseRow
}

// Table file names inside a dataset FS. They double as warehouse table names.
const (
	TableOutbreaks       = "outbreaks"
	TableDiseases        = "diseases"
	TableFacilities      = "facilities"
	TableCountryDiseases = "country_diseases"
)

// LoadDataset decodes all tables from fsys.
func LoadDataset(fsys fs.FS) (Dataset, error) {
	var ds Dataset
	if err := decodeTable(fsys, TableOutbreaks, &ds.Outbreaks); err != nil {
		return Dataset{}, err
	}
	if err := decodeTable(fsys, TableDiseases, &ds.Diseases); err != nil {
		return Dataset{}, err
	}
	if err := decodeTable(fsys, TableFacilities, &ds.Facilities); err != nil {
		return Dataset{}, err
	}
	if err := decodeTable(fsys, TableCountryDiseases, &ds.CountryDiseases); err != nil {
		return Dataset{}, err
	}
	return ds, nil
}

func decodeTable[T any](fsys fs.FS, table string, out *[]T) error {
	f, err := fsys.Open(table + ".jsonl")
	if err != nil {
		return fmt.Errorf("knowledge: open %s: %w", table, err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	line := 0
	for scanner.Scan() {
		line++
		raw := scanner.Bytes()
		if len(raw) == 0 {
			continue
		}
		var row T
		if err := json.Unmarshal(raw, &row); err != nil {
			return fmt.Errorf("knowledge: decode %s line %d: %w", table, line, err)
		}
		*out = append(*out, row)
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("knowledge: read %s: %w", table, err)
	}
	return nil
}
