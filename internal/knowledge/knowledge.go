// Package knowledge supplies outbreak, symptom, facility and travel-risk
// lookups behind one interface, backed either by static tables or by a SQL
// warehouse.
package knowledge

import "context"

// Outbreak associates a location with a disease believed to be active there.
type Outbreak struct {
	Country string `json:"country"`
	City    string `json:"city"`
	Disease string `json:"disease"`
}

// Source is the Outbreak Knowledge Source. Lookups are read-only; a missing
// key yields a zero value and a nil error.
type Source interface {
	// OutbreakByCity returns nil when no outbreak is known for the city.
	OutbreakByCity(ctx context.Context, city string) (*Outbreak, error)
	// Symptoms returns the disease's canonical symptoms in order.
	Symptoms(ctx context.Context, disease string) ([]string, error)
	// Facilities returns treatment facility addresses for a city, nearest first.
	Facilities(ctx context.Context, city string) ([]string, error)
	DiseasesByCountry(ctx context.Context, country string) ([]string, error)
	PreventionText(ctx context.Context, disease, country string) (string, error)
}

// Lookup operation names, used as metric labels and cache key segments.
const (
	OpOutbreakByCity    = "outbreak_by_city"
	OpSymptoms          = "symptoms"
	OpFacilities        = "facilities"
	OpDiseasesByCountry = "diseases_by_country"
	OpPreventionText    = "prevention_text"
)
