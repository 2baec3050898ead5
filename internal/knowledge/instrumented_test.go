package knowledge

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

type recordedLookup struct {
	backend, op string
	failed      bool
}

type recordingObserver struct {
	lookups []recordedLookup
}

func (r *recordingObserver) ObserveLookup(backend, op string, err error) {
	r.lookups = append(r.lookups, recordedLookup{backend: backend, op: op, failed: err != nil})
}

func TestInstrumentedReportsEveryLookup(t *testing.T) {
	obs := &recordingObserver{}
	src := newCountingSource(t)
	inst := NewInstrumented(src, "static", obs)
	ctx := context.Background()

	_, _ = inst.OutbreakByCity(ctx, "Maputo")
	_, _ = inst.Symptoms(ctx, "Cholera")
	_, _ = inst.Facilities(ctx, "Maputo")
	_, _ = inst.DiseasesByCountry(ctx, "Brazil")
	_, _ = inst.PreventionText(ctx, "Dengue", "Brazil")

	src.err = errors.New("down")
	_, err := inst.OutbreakByCity(ctx, "Maputo")
	assert.Error(t, err)

	assert.Equal(t, []recordedLookup{
		{"static", OpOutbreakByCity, false},
		{"static", OpSymptoms, false},
		{"static", OpFacilities, false},
		{"static", OpDiseasesByCountry, false},
		{"static", OpPreventionText, false},
		{"static", OpOutbreakByCity, true},
	}, obs.lookups)
}

func TestInstrumentedNilObserver(t *testing.T) {
	inst := NewInstrumented(newTestStatic(t), "static", nil)
	_, err := inst.Symptoms(context.Background(), "Dengue")
	assert.NoError(t, err)
}
