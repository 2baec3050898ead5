package fulfillment

import (
	"errors"

	"github.com/evect-health/fulfillment/internal/knowledge"
	"github.com/evect-health/fulfillment/pkg/logging"
)

// Agent implements the turn handlers for the eVect agent.
type Agent struct {
	knowledge knowledge.Source
	policy    Policy
	logger    *logging.Logger
}

// NewAgent creates the handler set over a knowledge source.
func NewAgent(source knowledge.Source, policy Policy, logger *logging.Logger) *Agent {
	if source == nil {
		panic("fulfillment: knowledge source required")
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Agent{knowledge: source, policy: policy, logger: logger}
}

// Registry returns the routing table for every intent the agent serves.
func (a *Agent) Registry() *Registry {
	return NewRegistry(map[string]Handler{
		IntentWelcome:          HandlerFunc(a.welcome),
		IntentFallback:         HandlerFunc(a.fallback),
		IntentAboutMe:          HandlerFunc(a.aboutMe),
		IntentCreator:          HandlerFunc(a.creator),
		IntentConditionIntake:  HandlerFunc(a.conditionIntake),
		IntentDurationFollowup: HandlerFunc(a.durationFollowup),
		IntentSymptomFollowup:  HandlerFunc(a.symptomFollowup),
		IntentSymptomAnalysis:  HandlerFunc(a.symptomAnalysis),
		IntentHospitalFollowup: HandlerFunc(a.hospitalFollowup),
		IntentCountryRisk:      HandlerFunc(a.countryRisk),
		IntentCountryFollowup:  HandlerFunc(a.countryFollowup),
	})
}

// lookupFailed logs a knowledge failure. The turn keeps whatever output it
// already produced and adds nothing more.
func (a *Agent) lookupFailed(turn *Turn, op string, err error) {
	a.logger.Error("knowledge lookup failed",
		"intent", turn.Intent,
		"op", op,
		"error", err,
	)
}

// missingContext logs a follow-up that fired without its predecessor.
func (a *Agent) missingContext(turn *Turn, err error) {
	level := a.logger.Warn
	if !errors.Is(err, ErrMissingContext) {
		level = a.logger.Error
	}
	level("follow-up context unavailable", "intent", turn.Intent, "error", err)
}

// setContext writes c, logging instead of failing the turn.
func (a *Agent) setContext(turn *Turn, resp *Response, c FollowupContext) {
	if err := resp.Set(c); err != nil {
		a.logger.Error("failed to write follow-up context", "intent", turn.Intent, "context", c.ContextName(), "error", err)
	}
}
