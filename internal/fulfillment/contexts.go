package fulfillment

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/evect-health/fulfillment/internal/dialogflow"
)

// Context ids shared with the Dialogflow agent configuration.
const (
	SymptomFollowupName     = "conditionintake-symptom-followup"
	AnalysisFollowupName    = "conditionintake-analysis-followup"
	HospitalFollowupName    = "hospital-location-followup"
	CountryRiskFollowupName = "warningandprevention-followup"
)

// ErrMissingContext is returned when a follow-up handler runs without the
// context its predecessor writes.
var ErrMissingContext = errors.New("fulfillment: follow-up context missing")

// FollowupContext is the closed set of records handed from one turn to the
// next. Each type names the context it travels in.
type FollowupContext interface {
	ContextName() string
	Lifespan() int
	Valid() bool
}

// SymptomFollowup is written by symptom intake and read by the duration and
// outbreak-symptom follow-ups.
type SymptomFollowup struct {
	City     string               `json:"city"`
	CityName string               `json:"city_name,omitempty"`
	Symptom  []string             `json:"symptom"`
	Organ    []string             `json:"organ,omitempty"`
	Duration *dialogflow.Duration `json:"duration,omitempty"`
}

func (SymptomFollowup) ContextName() string { return SymptomFollowupName }
func (SymptomFollowup) Lifespan() int       { return 1 }
func (c SymptomFollowup) Valid() bool       { return c.City != "" && len(c.Symptom) > 0 }

// Place is the city as the caller spelled it.
func (c SymptomFollowup) Place() string { return displayName(c.CityName, c.City) }

// AnalysisFollowup carries the matched outbreak into symptom analysis.
type AnalysisFollowup struct {
	City     string   `json:"city"`
	CityName string   `json:"city_name,omitempty"`
	Symptom  []string `json:"symptom"`
	Disease  string   `json:"disease"`
}

func (AnalysisFollowup) ContextName() string { return AnalysisFollowupName }
func (AnalysisFollowup) Lifespan() int       { return 1 }
func (c AnalysisFollowup) Valid() bool       { return c.City != "" && c.Disease != "" }

// Place is the city as the caller spelled it.
func (c AnalysisFollowup) Place() string { return displayName(c.CityName, c.City) }

// HospitalFollowup holds the facilities offered but not yet listed.
type HospitalFollowup struct {
	City       string   `json:"city"`
	Facilities []string `json:"facilities"`
}

func (HospitalFollowup) ContextName() string { return HospitalFollowupName }
func (HospitalFollowup) Lifespan() int       { return 1 }
func (c HospitalFollowup) Valid() bool       { return len(c.Facilities) > 0 }

// CountryRiskFollowup keys the prevention follow-up by country.
type CountryRiskFollowup struct {
	Country     string   `json:"country"`
	CountryName string   `json:"country_name,omitempty"`
	Diseases    []string `json:"diseases"`
}

func (CountryRiskFollowup) ContextName() string { return CountryRiskFollowupName }
func (CountryRiskFollowup) Lifespan() int       { return 2 }
func (c CountryRiskFollowup) Valid() bool       { return c.Country != "" }

// Place is the country as the caller spelled it.
func (c CountryRiskFollowup) Place() string { return displayName(c.CountryName, c.Country) }

// spokenName returns said when it differs from the dataset key, so contexts
// only carry a display name when normalization changed the spelling.
func spokenName(said, key string) string {
	if said == key {
		return ""
	}
	return said
}

func displayName(name, key string) string {
	if name != "" {
		return name
	}
	return key
}

// ReadContext decodes the context of type T from the turn. It returns
// ErrMissingContext when the context is absent or lacks required fields.
func ReadContext[T FollowupContext](t *Turn) (T, error) {
	var out T
	raw, ok := t.contexts[out.ContextName()]
	if !ok {
		return out, fmt.Errorf("%w: %s", ErrMissingContext, out.ContextName())
	}
	data, err := json.Marshal(raw)
	if err != nil {
		return out, fmt.Errorf("fulfillment: decode context %s: %w", out.ContextName(), err)
	}
	if err := json.Unmarshal(data, &out); err != nil {
		return out, fmt.Errorf("%w: %s: %v", ErrMissingContext, out.ContextName(), err)
	}
	if !out.Valid() {
		return out, fmt.Errorf("%w: %s incomplete", ErrMissingContext, out.ContextName())
	}
	return out, nil
}
