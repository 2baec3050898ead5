package knowledge

import "context"

// LookupObserver records the outcome of each lookup.
type LookupObserver interface {
	ObserveLookup(backend, op string, err error)
}

// Instrumented reports every lookup on the wrapped source to an observer.
type Instrumented struct {
	next     Source
	backend  string
	observer LookupObserver
}

func NewInstrumented(next Source, backend string, observer LookupObserver) *Instrumented {
	return &Instrumented{next: next, backend: backend, observer: observer}
}

var _ Source = (*Instrumented)(nil)

func (i *Instrumented) observe(op string, err error) {
	if i.observer != nil {
		i.observer.ObserveLookup(i.backend, op, err)
	}
}

func (i *Instrumented) OutbreakByCity(ctx context.Context, city string) (*Outbreak, error) {
	o, err := i.next.OutbreakByCity(ctx, city)
	i.observe(OpOutbreakByCity, err)
	return o, err
}

func (i *Instrumented) Symptoms(ctx context.Context, disease string) ([]string, error) {
	out, err := i.next.Symptoms(ctx, disease)
	i.observe(OpSymptoms, err)
	return out, err
}

func (i *Instrumented) Facilities(ctx context.Context, city string) ([]string, error) {
	out, err := i.next.Facilities(ctx, city)
	i.observe(OpFacilities, err)
	return out, err
}

func (i *Instrumented) DiseasesByCountry(ctx context.Context, country string) ([]string, error) {
	out, err := i.next.DiseasesByCountry(ctx, country)
	i.observe(OpDiseasesByCountry, err)
	return out, err
}

func (i *Instrumented) PreventionText(ctx context.Context, disease, country string) (string, error) {
	out, err := i.next.PreventionText(ctx, disease, country)
	i.observe(OpPreventionText, err)
	return out, err
}
