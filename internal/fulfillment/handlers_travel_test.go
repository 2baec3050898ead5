package fulfillment

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/evect-health/fulfillment/internal/dialogflow"
	"github.com/evect-health/fulfillment/internal/knowledge"
)

func TestCountryRiskExcludesRoutineVaccines(t *testing.T) {
	a := newTestAgent(t, DefaultPolicy())
	resp := dispatch(t, a, NewTurn(IntentCountryRisk, dialogflow.Parameters{"geo-country": "Brazil"}, nil))

	assert.Equal(t, []string{
		"Travelers to Brazil should be aware of: Yellow Fever and Dengue.",
		askPreventionTopic,
	}, resp.Texts())

	write, ok := resp.Context(CountryRiskFollowupName)
	require.True(t, ok)
	assert.Equal(t, 2, write.Lifespan)
	assert.Equal(t, "Brazil", write.Parameters["country"])
	assert.Equal(t, []any{"Yellow Fever", "Dengue"}, write.Parameters["diseases"])
}

func TestCountryRiskIncludesRoutineVaccinesWhenConfigured(t *testing.T) {
	policy := DefaultPolicy()
	policy.ExcludeRoutineVaccines = false
	a := newTestAgent(t, policy)

	resp := dispatch(t, a, NewTurn(IntentCountryRisk, dialogflow.Parameters{"geo-country": list("Brazil")}, nil))
	assert.Equal(t, "Travelers to Brazil should be aware of: Routine Vaccines, Yellow Fever and Dengue.", resp.Texts()[0])
}

func TestCountryRiskOnlyRoutineVaccines(t *testing.T) {
	a := newTestAgent(t, DefaultPolicy())
	resp := dispatch(t, a, NewTurn(IntentCountryRisk, dialogflow.Parameters{"geo-country": "Iceland"}, nil))

	require.Len(t, resp.Texts(), 1)
	assert.Contains(t, resp.Texts()[0], "no active diseases to worry about in Iceland")
	assert.Empty(t, resp.Contexts)
}

func TestCountryRiskUnknownCountry(t *testing.T) {
	a := newTestAgent(t, DefaultPolicy())
	resp := dispatch(t, a, NewTurn(IntentCountryRisk, dialogflow.Parameters{"geo-country": "Atlantis"}, nil))

	assert.Equal(t, []string{"I don't have any travel health notices for Atlantis."}, resp.Texts())
	assert.Empty(t, resp.Contexts)
}

func TestCountryRiskNormalizesCongo(t *testing.T) {
	a := newTestAgent(t, DefaultPolicy())
	resp := dispatch(t, a, NewTurn(IntentCountryRisk, dialogflow.Parameters{"geo-country": "Democratic Republic of the Congo"}, nil))

	assert.Equal(t, "Travelers to Democratic Republic of the Congo should be aware of: Measles and Ebola.", resp.Texts()[0])
	write, ok := resp.Context(CountryRiskFollowupName)
	require.True(t, ok)
	assert.Equal(t, "Congo, Democratic Republic of the", write.Parameters["country"])
}

func TestCountryRiskPrompts(t *testing.T) {
	a := newTestAgent(t, DefaultPolicy())

	tests := []struct {
		name   string
		params dialogflow.Parameters
		want   string
	}{
		{"region", dialogflow.Parameters{"Region": "South America", "geo-city": "Lima"}, "Cool! Can you tell me the cities you'll be visiting on your trip to South America?"},
		{"city", dialogflow.Parameters{"geo-city": list("Lima")}, "So you will be visiting Lima?"},
		{"nothing", dialogflow.Parameters{"geo-country": ""}, askCountry},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := dispatch(t, a, NewTurn(IntentCountryRisk, tt.params, nil))
			assert.Equal(t, []string{tt.want}, resp.Texts())
			assert.Empty(t, resp.Contexts)
		})
	}
}

func TestCountryRiskLookupFailure(t *testing.T) {
	a := newFailingAgent(t, knowledge.OpDiseasesByCountry)
	resp := dispatch(t, a, NewTurn(IntentCountryRisk, dialogflow.Parameters{"geo-country": "Brazil"}, nil))

	assert.Empty(t, resp.Messages)
	assert.Empty(t, resp.Contexts)
}

func TestCountryFollowupPrevention(t *testing.T) {
	a := newTestAgent(t, DefaultPolicy())
	risk := dispatch(t, a, NewTurn(IntentCountryRisk, dialogflow.Parameters{"geo-country": "Brazil"}, nil))

	resp := dispatch(t, a, nextTurn(IntentCountryFollowup, dialogflow.Parameters{"Disease": "yellow fever"}, risk))
	require.Len(t, resp.Texts(), 1)
	assert.Contains(t, resp.Texts()[0], "To protect yourself from yellow fever in Brazil:")
	assert.Contains(t, resp.Texts()[0], "yellow fever vaccine")
}

func TestCountryFollowupFallsBackToQueryText(t *testing.T) {
	a := newTestAgent(t, DefaultPolicy())
	risk := dispatch(t, a, NewTurn(IntentCountryRisk, dialogflow.Parameters{"geo-country": "Nigeria"}, nil))

	turn := nextTurn(IntentCountryFollowup, nil, risk)
	turn.QueryText = " Lassa Fever "
	resp := dispatch(t, a, turn)
	assert.Contains(t, resp.Texts()[0], "rodent")
}

func TestCountryFollowupUnknownDisease(t *testing.T) {
	a := newTestAgent(t, DefaultPolicy())
	risk := dispatch(t, a, NewTurn(IntentCountryRisk, dialogflow.Parameters{"geo-country": "Brazil"}, nil))

	resp := dispatch(t, a, nextTurn(IntentCountryFollowup, dialogflow.Parameters{"Disease": "Cholera"}, risk))
	assert.Equal(t, []string{"I don't have prevention tips for Cholera in Brazil."}, resp.Texts())
}

func TestCountryFollowupWithoutDiseaseKeepsContext(t *testing.T) {
	a := newTestAgent(t, DefaultPolicy())
	risk := dispatch(t, a, NewTurn(IntentCountryRisk, dialogflow.Parameters{"geo-country": "Brazil"}, nil))

	resp := dispatch(t, a, nextTurn(IntentCountryFollowup, nil, risk))
	assert.Equal(t, []string{askPreventionTopic}, resp.Texts())
	_, ok := resp.Context(CountryRiskFollowupName)
	assert.True(t, ok)
}

func TestCountryFollowupWithoutContext(t *testing.T) {
	a := newTestAgent(t, DefaultPolicy())
	resp := dispatch(t, a, NewTurn(IntentCountryFollowup, dialogflow.Parameters{"Disease": "Dengue"}, nil))
	assert.Equal(t, []string{askCountry}, resp.Texts())
}

func TestCountryFollowupFindsDiseaseInSentence(t *testing.T) {
	a := newTestAgent(t, DefaultPolicy())
	risk := dispatch(t, a, NewTurn(IntentCountryRisk, dialogflow.Parameters{"geo-country": "Nigeria"}, nil))

	turn := nextTurn(IntentCountryFollowup, dialogflow.Parameters{"Disease": ""}, risk)
	turn.QueryText = "How do I avoid Lassa Fever?"
	resp := dispatch(t, a, turn)

	require.Len(t, resp.Texts(), 1)
	assert.Contains(t, resp.Texts()[0], "To protect yourself from Lassa Fever in Nigeria:")
	assert.Contains(t, resp.Texts()[0], "rodent")
}

func TestCountryFollowupSpeaksCountryAsSaid(t *testing.T) {
	a := newTestAgent(t, DefaultPolicy())
	risk := dispatch(t, a, NewTurn(IntentCountryRisk, dialogflow.Parameters{"geo-country": "Democratic Republic of the Congo"}, nil))

	write, ok := risk.Context(CountryRiskFollowupName)
	require.True(t, ok)
	assert.Equal(t, "Democratic Republic of the Congo", write.Parameters["country_name"])

	turn := nextTurn(IntentCountryFollowup, nil, risk)
	turn.QueryText = "what about ebola"
	resp := dispatch(t, a, turn)

	require.Len(t, resp.Texts(), 1)
	assert.Contains(t, resp.Texts()[0], "To protect yourself from Ebola in Democratic Republic of the Congo:")
	assert.NotContains(t, resp.Texts()[0], "Congo, Democratic Republic of the")
}

func TestMentionedDisease(t *testing.T) {
	candidates := []string{"Fever", "Yellow Fever", "Dengue"}

	assert.Equal(t, "Yellow Fever", mentionedDisease("tips for yellow fever please", candidates))
	assert.Equal(t, "Dengue", mentionedDisease("DENGUE?", candidates))
	assert.Equal(t, "Malaria", mentionedDisease("  Malaria ", candidates))
	assert.Equal(t, "", mentionedDisease("   ", candidates))
}
