package fulfillment

import (
	"context"
	"fmt"

	"github.com/evect-health/fulfillment/internal/knowledge"
)

const (
	askCity         = "What city are you currently located in?"
	askSymptoms     = "Can you tell me your Symptoms?"
	askDuration     = "How long have you been experiencing these symptoms?"
	askBoth         = "Can you tell me your symptoms and where you are currently located?"
	startOverPrompt = "I'm sorry, I lost track of our conversation. " + askBoth
	takeCare        = "Take care and I hope you feel better soon!"
)

func (a *Agent) conditionIntake(ctx context.Context, turn *Turn) (*Response, error) {
	resp := &Response{}
	symptoms := turn.Params.Strings("Symptom")
	organs := turn.Params.Strings("Organ")
	city := turn.Params.String("geo-city")

	switch {
	case len(symptoms) > 0 && city == "":
		resp.Say(askCity)
		return resp, nil
	case len(symptoms) == 0 && city != "":
		resp.Say(askSymptoms)
		return resp, nil
	case len(symptoms) == 0 && city == "":
		resp.Say("I'm sorry to hear you're not feeling well.", askBoth)
		return resp, nil
	}

	if len(organs) > 0 {
		resp.Say(fmt.Sprintf("I understand that you are experiencing %s in your %s on your trip to %s.",
			joinList(symptoms, "and"), joinList(organs, "and"), city))
	} else {
		resp.Say(fmt.Sprintf("I understand that you are currently experiencing %s on your trip to %s.",
			joinList(symptoms, "and"), city))
	}

	key := a.policy.normalizeCity(city)
	outbreak, err := a.knowledge.OutbreakByCity(ctx, key)
	if err != nil {
		a.lookupFailed(turn, knowledge.OpOutbreakByCity, err)
		return resp, nil
	}
	if outbreak == nil {
		resp.Say(fmt.Sprintf("I am not aware of any active disease outbreaks in %s right now. If your symptoms get worse, please see a doctor.", city))
		resp.Close()
		return resp, nil
	}

	resp.Say(askDuration)
	a.setContext(turn, resp, SymptomFollowup{City: key, CityName: spokenName(city, key), Symptom: symptoms, Organ: organs})
	return resp, nil
}

func (a *Agent) durationFollowup(_ context.Context, turn *Turn) (*Response, error) {
	resp := &Response{}
	intake, err := ReadContext[SymptomFollowup](turn)
	if err != nil {
		a.missingContext(turn, err)
		resp.Say(startOverPrompt)
		return resp, nil
	}

	duration, ok := turn.Params.Duration("duration")
	if !ok {
		resp.Say(askDuration)
		a.setContext(turn, resp, intake)
		return resp, nil
	}
	display, err := formatDuration(duration)
	if err != nil {
		return nil, err
	}

	resp.Say("To confirm:", fmt.Sprintf(
		"You are currently experiencing %s on your trip to %s. You have been experiencing these symptoms for %s. Is that correct?",
		joinList(intake.Symptom, "and"), intake.Place(), display))
	intake.Duration = &duration
	a.setContext(turn, resp, intake)
	return resp, nil
}

func (a *Agent) symptomFollowup(ctx context.Context, turn *Turn) (*Response, error) {
	resp := &Response{}
	intake, err := ReadContext[SymptomFollowup](turn)
	if err != nil {
		a.missingContext(turn, err)
		resp.Say(startOverPrompt)
		return resp, nil
	}

	outbreak, err := a.knowledge.OutbreakByCity(ctx, intake.City)
	if err != nil {
		a.lookupFailed(turn, knowledge.OpOutbreakByCity, err)
		return resp, nil
	}
	if outbreak == nil {
		resp.Say(fmt.Sprintf("There are no known disease outbreaks in %s at the moment, so your symptoms are unlikely to be outbreak related. If they get worse, please see a doctor.", intake.Place()))
		resp.Close()
		return resp, nil
	}

	canonical, err := a.knowledge.Symptoms(ctx, outbreak.Disease)
	if err != nil {
		a.lookupFailed(turn, knowledge.OpSymptoms, err)
		return resp, nil
	}
	checklist := unreportedSymptoms(canonical, intake.Symptom, a.policy.symptomCap())

	resp.Say(fmt.Sprintf("There is currently an outbreak of %s in %s.", outbreak.Disease, intake.Place()))
	if len(checklist) > 0 {
		resp.Say(fmt.Sprintf("Are you also experiencing any of the following symptoms: %s?", joinList(checklist, "or")))
	} else {
		resp.Say("Have you noticed any other symptoms?")
	}
	a.setContext(turn, resp, AnalysisFollowup{City: intake.City, CityName: intake.CityName, Symptom: intake.Symptom, Disease: outbreak.Disease})
	return resp, nil
}

func (a *Agent) symptomAnalysis(ctx context.Context, turn *Turn) (*Response, error) {
	resp := &Response{}
	analysis, err := ReadContext[AnalysisFollowup](turn)
	if err != nil {
		a.missingContext(turn, err)
		resp.Say(startOverPrompt)
		return resp, nil
	}

	reported := append(append([]string(nil), analysis.Symptom...), turn.Params.Strings("Symptom")...)
	canonical, err := a.knowledge.Symptoms(ctx, analysis.Disease)
	if err != nil {
		a.lookupFailed(turn, knowledge.OpSymptoms, err)
		return resp, nil
	}
	matched := matchingSymptoms(reported, canonical)
	if len(matched) == 0 {
		resp.Say(fmt.Sprintf("Your symptoms do not appear to be related to any known outbreaks in %s. If they persist, please see a doctor.", analysis.Place()))
		resp.Close()
		return resp, nil
	}

	resp.Say(fmt.Sprintf("Your symptoms (%s) are consistent with %s, which is currently active in %s. I recommend getting checked at a medical facility.",
		joinList(matched, "and"), analysis.Disease, analysis.Place()))

	facilities, err := a.knowledge.Facilities(ctx, analysis.City)
	if err != nil {
		a.lookupFailed(turn, knowledge.OpFacilities, err)
		return resp, nil
	}
	if len(facilities) == 0 {
		resp.Say(fmt.Sprintf("I couldn't find a treatment facility near %s. Please contact local emergency services.", analysis.Place()))
		return resp, nil
	}

	resp.Say(fmt.Sprintf("The nearest facility is: %s", facilities[0]))
	var offered []string
	switch {
	case len(facilities) > 2:
		offered = facilities[1:3]
		resp.Say("I know of 2 other facilities nearby. Would you like to hear about them?")
	case len(facilities) == 2:
		offered = facilities[1:2]
		resp.Say("I know of one other facility nearby. Would you like to hear about it?")
	}
	if len(offered) > 0 {
		a.setContext(turn, resp, HospitalFollowup{City: analysis.City, Facilities: offered})
	}
	return resp, nil
}

func (a *Agent) hospitalFollowup(_ context.Context, turn *Turn) (*Response, error) {
	resp := &Response{}
	hospital, err := ReadContext[HospitalFollowup](turn)
	if err != nil {
		a.missingContext(turn, err)
		resp.Say(startOverPrompt)
		return resp, nil
	}

	if len(hospital.Facilities) == 1 {
		resp.Say(fmt.Sprintf("The other facility is: %s", hospital.Facilities[0]))
	} else {
		resp.Say("Here are the other facilities nearby:")
		resp.Say(hospital.Facilities...)
	}
	resp.Say(takeCare)
	resp.Close()
	return resp, nil
}
