package fulfillment

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/evect-health/fulfillment/pkg/logging"
)

// Registered intent names. They must match the display names configured in
// the Dialogflow agent.
const (
	IntentWelcome          = "Default Welcome Intent"
	IntentFallback         = "Default Fallback Intent"
	IntentAboutMe          = "eVect Statement of Purpose"
	IntentCreator          = "eVect Creation"
	IntentConditionIntake  = "Condition Intake"
	IntentDurationFollowup = "Condition Intake - Duration Followup"
	IntentSymptomFollowup  = "Condition Intake - Symptom Followup"
	IntentSymptomAnalysis  = "Condition Intake - Outbreak Symptom Analysis"
	IntentHospitalFollowup = "Condition Intake - Hospital Location Followup"
	IntentCountryRisk      = "Warning and Prevention"
	IntentCountryFollowup  = "Warning and Prevention - Disease Followup"
)

// ErrMissingIntent is returned for a turn that carries no intent name.
var ErrMissingIntent = errors.New("fulfillment: intent name required")

// Handler produces the response for one turn.
type Handler interface {
	Handle(ctx context.Context, turn *Turn) (*Response, error)
}

// HandlerFunc adapts a function to Handler.
type HandlerFunc func(ctx context.Context, turn *Turn) (*Response, error)

func (f HandlerFunc) Handle(ctx context.Context, turn *Turn) (*Response, error) {
	return f(ctx, turn)
}

// Registry is an immutable intent-name to handler mapping.
type Registry struct {
	handlers map[string]Handler
}

// NewRegistry copies handlers into a new registry.
func NewRegistry(handlers map[string]Handler) *Registry {
	copied := make(map[string]Handler, len(handlers))
	for name, h := range handlers {
		if h != nil {
			copied[name] = h
		}
	}
	return &Registry{handlers: copied}
}

// Lookup finds the handler registered under the exact intent name.
func (r *Registry) Lookup(intent string) (Handler, bool) {
	h, ok := r.handlers[intent]
	return h, ok
}

// Intents lists registered intent names in sorted order.
func (r *Registry) Intents() []string {
	names := make([]string, 0, len(r.handlers))
	for name := range r.handlers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// TurnObserver records dispatch outcomes.
type TurnObserver interface {
	ObserveTurn(intent, outcome string, seconds float64)
	ObserveClosed()
}

// Dispatcher invokes the handler registered for a turn's intent.
type Dispatcher struct {
	registry *Registry
	logger   *logging.Logger
	observer TurnObserver
}

// NewDispatcher creates a dispatcher over registry. observer may be nil.
func NewDispatcher(registry *Registry, logger *logging.Logger, observer TurnObserver) *Dispatcher {
	if registry == nil {
		panic("fulfillment: registry required")
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Dispatcher{registry: registry, logger: logger, observer: observer}
}

// Dispatch runs the handler for turn.Intent. An unregistered intent runs the
// fallback handler, or yields an empty response when none is registered.
func (d *Dispatcher) Dispatch(ctx context.Context, turn *Turn) (*Response, error) {
	if turn == nil || turn.Intent == "" {
		return nil, ErrMissingIntent
	}

	label := turn.Intent
	h, ok := d.registry.Lookup(turn.Intent)
	if !ok {
		d.logger.Warn("no handler registered for intent", "intent", turn.Intent)
		label = "unregistered"
		h, ok = d.registry.Lookup(IntentFallback)
		if !ok {
			return &Response{}, nil
		}
	}

	start := time.Now()
	resp, err := h.Handle(ctx, turn)
	elapsed := time.Since(start).Seconds()
	if err != nil {
		d.observe(label, "error", elapsed)
		return nil, err
	}
	if resp == nil {
		resp = &Response{}
	}
	d.observe(label, "ok", elapsed)
	if resp.End && d.observer != nil {
		d.observer.ObserveClosed()
	}
	return resp, nil
}

func (d *Dispatcher) observe(intent, outcome string, seconds float64) {
	if d.observer != nil {
		d.observer.ObserveTurn(intent, outcome, seconds)
	}
}
