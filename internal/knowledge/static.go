package knowledge

import (
	"context"
	"fmt"
	"sort"
	"strings"
)

// Static answers lookups from in-memory tables. It is read-only after
// construction and safe for concurrent use.
type Static struct {
	outbreaks  []Outbreak
	symptoms   map[string][]string
	facilities map[string][]string
	countries  map[string][]CountryDiseaseRow
}

// NewStatic indexes a dataset.
func NewStatic(ds Dataset) *Static {
	s := &Static{
		outbreaks:  append([]Outbreak(nil), ds.Outbreaks...),
		symptoms:   make(map[string][]string, len(ds.Diseases)),
		facilities: make(map[string][]string),
		countries:  make(map[string][]CountryDiseaseRow),
	}
	for _, d := range ds.Diseases {
		if _, ok := s.symptoms[d.Disease]; !ok {
			s.symptoms[d.Disease] = append([]string(nil), d.Symptoms...)
		}
	}

	byCity := make(map[string][]FacilityRow)
	for _, f := range ds.Facilities {
		byCity[f.City] = append(byCity[f.City], f)
	}
	for city, rows := range byCity {
		sort.SliceStable(rows, func(i, j int) bool { return rows[i].Rank < rows[j].Rank })
		addrs := make([]string, len(rows))
		for i, r := range rows {
			addrs[i] = r.Address
		}
		s.facilities[city] = addrs
	}

	for _, c := range ds.CountryDiseases {
		s.countries[c.Country] = append(s.countries[c.Country], c)
	}
	for _, rows := range s.countries {
		sort.SliceStable(rows, func(i, j int) bool { return rows[i].Position < rows[j].Position })
	}
	return s
}

// NewEmbeddedStatic builds a Static source from the bundled dataset.
func NewEmbeddedStatic() (*Static, error) {
	ds, err := LoadDataset(EmbeddedFS())
	if err != nil {
		return nil, fmt.Errorf("knowledge: load embedded dataset: %w", err)
	}
	return NewStatic(ds), nil
}

var _ Source = (*Static)(nil)

func (s *Static) OutbreakByCity(_ context.Context, city string) (*Outbreak, error) {
	for _, o := range s.outbreaks {
		if o.City == city {
			match := o
			return &match, nil
		}
	}
	return nil, nil
}

func (s *Static) Symptoms(_ context.Context, disease string) ([]string, error) {
	return cloneStrings(s.symptoms[disease]), nil
}

func (s *Static) Facilities(_ context.Context, city string) ([]string, error) {
	return cloneStrings(s.facilities[city]), nil
}

func (s *Static) DiseasesByCountry(_ context.Context, country string) ([]string, error) {
	rows := s.countries[country]
	if len(rows) == 0 {
		return nil, nil
	}
	out := make([]string, len(rows))
	for i, r := range rows {
		out[i] = r.Disease
	}
	return out, nil
}

// PreventionText matches the disease case-insensitively since it usually comes
// from free text.
func (s *Static) PreventionText(_ context.Context, disease, country string) (string, error) {
	disease = strings.TrimSpace(disease)
	for _, r := range s.countries[country] {
		if strings.EqualFold(r.Disease, disease) {
			return r.Prevention, nil
		}
	}
	return "", nil
}

func cloneStrings(in []string) []string {
	if len(in) == 0 {
		return nil
	}
	return append([]string(nil), in...)
}
