package fulfillment

import (
	"context"
	"fmt"
	"strings"

	"github.com/evect-health/fulfillment/internal/knowledge"
)

const (
	askCountry         = "Which country are you planning to visit?"
	askPreventionTopic = "Which disease would you like prevention tips for?"
)

func (a *Agent) countryRisk(ctx context.Context, turn *Turn) (*Response, error) {
	resp := &Response{}
	country := turn.Params.String("geo-country")
	region := turn.Params.String("Region")
	city := turn.Params.String("geo-city")

	switch {
	case country != "":
	case region != "":
		resp.Say(fmt.Sprintf("Cool! Can you tell me the cities you'll be visiting on your trip to %s?", region))
		return resp, nil
	case city != "":
		resp.Say(fmt.Sprintf("So you will be visiting %s?", city))
		return resp, nil
	default:
		resp.Say(askCountry)
		return resp, nil
	}

	key := normalizeCountry(country)
	diseases, err := a.knowledge.DiseasesByCountry(ctx, key)
	if err != nil {
		a.lookupFailed(turn, knowledge.OpDiseasesByCountry, err)
		return resp, nil
	}
	if len(diseases) == 0 {
		resp.Say(fmt.Sprintf("I don't have any travel health notices for %s.", country))
		return resp, nil
	}

	active := a.policy.activeDiseases(diseases)
	if len(active) == 0 {
		resp.Say(fmt.Sprintf("There are no active diseases to worry about in %s right now. Just make sure you are up-to-date on your routine vaccines.", country))
		return resp, nil
	}

	resp.Say(
		fmt.Sprintf("Travelers to %s should be aware of: %s.", country, joinList(active, "and")),
		askPreventionTopic,
	)
	a.setContext(turn, resp, CountryRiskFollowup{Country: key, CountryName: spokenName(country, key), Diseases: active})
	return resp, nil
}

func (a *Agent) countryFollowup(ctx context.Context, turn *Turn) (*Response, error) {
	resp := &Response{}
	risk, err := ReadContext[CountryRiskFollowup](turn)
	if err != nil {
		a.missingContext(turn, err)
		resp.Say(askCountry)
		return resp, nil
	}

	disease := turn.Params.String("Disease")
	if disease == "" {
		disease = mentionedDisease(turn.QueryText, risk.Diseases)
	}
	if disease == "" {
		resp.Say(askPreventionTopic)
		a.setContext(turn, resp, risk)
		return resp, nil
	}

	text, err := a.knowledge.PreventionText(ctx, disease, risk.Country)
	if err != nil {
		a.lookupFailed(turn, knowledge.OpPreventionText, err)
		return resp, nil
	}
	if text == "" {
		resp.Say(fmt.Sprintf("I don't have prevention tips for %s in %s.", disease, risk.Place()))
		return resp, nil
	}
	resp.Say(fmt.Sprintf("To protect yourself from %s in %s: %s", disease, risk.Place(), text))
	return resp, nil
}

// mentionedDisease finds which of the listed diseases the caller named in
// free text, preferring the longest name ("Yellow Fever" over "Fever"). The
// trimmed text itself is returned when none is mentioned.
func mentionedDisease(text string, candidates []string) string {
	lowered := strings.ToLower(text)
	var best string
	for _, c := range candidates {
		name := strings.TrimSpace(c)
		if name == "" || !strings.Contains(lowered, strings.ToLower(name)) {
			continue
		}
		if len(name) > len(best) {
			best = name
		}
	}
	if best != "" {
		return best
	}
	return strings.TrimSpace(text)
}
