package fulfillment

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/evect-health/fulfillment/internal/dialogflow"
	"github.com/evect-health/fulfillment/internal/knowledge"
	"github.com/evect-health/fulfillment/pkg/logging"
)

var errWarehouseDown = errors.New("warehouse down")

// failingSource fails the named lookup and delegates the rest.
type failingSource struct {
	knowledge.Source
	failOp string
}

func (f *failingSource) fail(op string) bool { return f.failOp == op }

func (f *failingSource) OutbreakByCity(ctx context.Context, city string) (*knowledge.Outbreak, error) {
	if f.fail(knowledge.OpOutbreakByCity) {
		return nil, errWarehouseDown
	}
	return f.Source.OutbreakByCity(ctx, city)
}

func (f *failingSource) Symptoms(ctx context.Context, disease string) ([]string, error) {
	if f.fail(knowledge.OpSymptoms) {
		return nil, errWarehouseDown
	}
	return f.Source.Symptoms(ctx, disease)
}

func (f *failingSource) Facilities(ctx context.Context, city string) ([]string, error) {
	if f.fail(knowledge.OpFacilities) {
		return nil, errWarehouseDown
	}
	return f.Source.Facilities(ctx, city)
}

func (f *failingSource) DiseasesByCountry(ctx context.Context, country string) ([]string, error) {
	if f.fail(knowledge.OpDiseasesByCountry) {
		return nil, errWarehouseDown
	}
	return f.Source.DiseasesByCountry(ctx, country)
}

func (f *failingSource) PreventionText(ctx context.Context, disease, country string) (string, error) {
	if f.fail(knowledge.OpPreventionText) {
		return "", errWarehouseDown
	}
	return f.Source.PreventionText(ctx, disease, country)
}

func staticSource(t *testing.T) knowledge.Source {
	t.Helper()
	s, err := knowledge.NewEmbeddedStatic()
	require.NoError(t, err)
	return s
}

func newTestAgent(t *testing.T, policy Policy) *Agent {
	t.Helper()
	return NewAgent(staticSource(t), policy, logging.New("error"))
}

func newFailingAgent(t *testing.T, op string) *Agent {
	t.Helper()
	return NewAgent(&failingSource{Source: staticSource(t), failOp: op}, DefaultPolicy(), logging.New("error"))
}

// nextTurn builds the turn that follows resp, carrying its context writes the
// way the platform would.
func nextTurn(intent string, params dialogflow.Parameters, resp *Response) *Turn {
	contexts := map[string]map[string]any{}
	if resp != nil {
		for _, c := range resp.Contexts {
			contexts[c.Name] = c.Parameters
		}
	}
	return NewTurn(intent, params, contexts)
}

func dispatch(t *testing.T, a *Agent, turn *Turn) *Response {
	t.Helper()
	d := NewDispatcher(a.Registry(), logging.New("error"), nil)
	resp, err := d.Dispatch(context.Background(), turn)
	require.NoError(t, err)
	require.NotNil(t, resp)
	return resp
}

func list(items ...string) []any {
	out := make([]any, len(items))
	for i, s := range items {
		out[i] = s
	}
	return out
}
