package fulfillment

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/evect-health/fulfillment/internal/dialogflow"
)

// RoutineVaccines is the catch-all entry present for every country.
const RoutineVaccines = "Routine Vaccines"

const defaultSymptomCap = 3

// Policy holds the business rules that varied between handler revisions.
type Policy struct {
	// SymptomCap bounds the follow-up symptom checklist.
	SymptomCap int
	// ExcludeRoutineVaccines drops RoutineVaccines from country listings.
	ExcludeRoutineVaccines bool
	// NormalizeDiacritics maps accented city spellings onto dataset keys.
	NormalizeDiacritics bool
}

// DefaultPolicy returns the rules used when nothing is configured.
func DefaultPolicy() Policy {
	return Policy{
		SymptomCap:             defaultSymptomCap,
		ExcludeRoutineVaccines: true,
		NormalizeDiacritics:    true,
	}
}

func (p Policy) symptomCap() int {
	if p.SymptomCap <= 0 {
		return defaultSymptomCap
	}
	return p.SymptomCap
}

var cityVariants = map[string]string{
	"São Paulo": "Sao Paulo",
}

var countryVariants = map[string]string{
	"Democratic Republic of the Congo": "Congo, Democratic Republic of the",
}

func (p Policy) normalizeCity(city string) string {
	if !p.NormalizeDiacritics {
		return city
	}
	if canonical, ok := cityVariants[city]; ok {
		return canonical
	}
	return city
}

func normalizeCountry(country string) string {
	if canonical, ok := countryVariants[country]; ok {
		return canonical
	}
	return country
}

// activeDiseases applies the routine vaccine rule to a country listing.
func (p Policy) activeDiseases(diseases []string) []string {
	out := make([]string, 0, len(diseases))
	for _, d := range diseases {
		if p.ExcludeRoutineVaccines && d == RoutineVaccines {
			continue
		}
		out = append(out, d)
	}
	return out
}

// unreportedSymptoms returns canonical symptoms the caller has not mentioned,
// in canonical order, at most limit entries.
func unreportedSymptoms(canonical, reported []string, limit int) []string {
	seen := symptomSet(reported)
	var out []string
	for _, s := range canonical {
		if len(out) == limit {
			break
		}
		if _, ok := seen[strings.ToLower(s)]; ok {
			continue
		}
		out = append(out, s)
	}
	return out
}

// matchingSymptoms intersects reported symptoms with the canonical list,
// returning matches in canonical order.
func matchingSymptoms(reported, canonical []string) []string {
	seen := symptomSet(reported)
	var out []string
	for _, s := range canonical {
		if _, ok := seen[strings.ToLower(s)]; ok {
			out = append(out, s)
		}
	}
	return out
}

func symptomSet(symptoms []string) map[string]struct{} {
	set := make(map[string]struct{}, len(symptoms))
	for _, s := range symptoms {
		set[strings.ToLower(strings.TrimSpace(s))] = struct{}{}
	}
	return set
}

// ErrUnrecognizedUnit is a hard failure: the duration entity produced a unit
// the agent has no wording for.
var ErrUnrecognizedUnit = errors.New("fulfillment: unrecognized duration unit")

var durationUnits = map[string]string{
	"min":  "minutes",
	"h":    "hours",
	"day":  "days",
	"wk":   "weeks",
	"mo":   "months",
	"year": "years",
}

func formatDuration(d dialogflow.Duration) (string, error) {
	unit, ok := durationUnits[d.Unit]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnrecognizedUnit, d.Unit)
	}
	return strconv.FormatFloat(d.Amount, 'f', -1, 64) + " " + unit, nil
}

// joinList renders items as "a", "a and b" or "a, b and c".
func joinList(items []string, conj string) string {
	switch len(items) {
	case 0:
		return ""
	case 1:
		return items[0]
	default:
		return strings.Join(items[:len(items)-1], ", ") + " " + conj + " " + items[len(items)-1]
	}
}
