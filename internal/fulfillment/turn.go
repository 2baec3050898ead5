// Package fulfillment routes Dialogflow intents to scripted turn handlers and
// carries multi-turn state through typed follow-up contexts.
package fulfillment

import (
	"encoding/json"
	"fmt"

	"github.com/evect-health/fulfillment/internal/dialogflow"
)

// Turn is one inbound call: the matched intent, its parameters and the
// contexts still alive from earlier turns.
type Turn struct {
	Intent    string
	QueryText string
	Session   string
	Params    dialogflow.Parameters

	contexts map[string]map[string]any
}

// NewTurn builds a turn. contexts maps context ids (without session path) to
// their parameters.
func NewTurn(intent string, params dialogflow.Parameters, contexts map[string]map[string]any) *Turn {
	if params == nil {
		params = dialogflow.Parameters{}
	}
	if contexts == nil {
		contexts = map[string]map[string]any{}
	}
	return &Turn{Intent: intent, Params: params, contexts: contexts}
}

// TurnFromRequest converts a webhook request into a Turn.
func TurnFromRequest(req dialogflow.WebhookRequest) *Turn {
	contexts := make(map[string]map[string]any, len(req.QueryResult.OutputContexts))
	for _, c := range req.QueryResult.OutputContexts {
		name := c.ShortName()
		if _, seen := contexts[name]; seen {
			continue
		}
		contexts[name] = c.Parameters
	}
	t := NewTurn(req.QueryResult.Intent.DisplayName, req.QueryResult.Parameters, contexts)
	t.QueryText = req.QueryResult.QueryText
	t.Session = req.Session
	return t
}

// HasContext reports whether a context with the given id is active.
func (t *Turn) HasContext(name string) bool {
	_, ok := t.contexts[name]
	return ok
}

// Message is one output item: plain text, or a card when Card is set.
type Message struct {
	Text string
	Card *Card
}

// Card is a titled link card.
type Card struct {
	Title      string
	ImageURL   string
	ButtonText string
	ButtonURL  string
}

// ContextWrite instructs the platform to (re)set a context.
type ContextWrite struct {
	Name       string
	Lifespan   int
	Parameters map[string]any
}

// Response is the ordered output of a turn.
type Response struct {
	Messages []Message
	Contexts []ContextWrite
	End      bool
}

// Say appends plain text messages.
func (r *Response) Say(texts ...string) {
	for _, text := range texts {
		r.Messages = append(r.Messages, Message{Text: text})
	}
}

// Show appends a card.
func (r *Response) Show(card Card) {
	r.Messages = append(r.Messages, Message{Card: &card})
}

// Close ends the conversation after this turn.
func (r *Response) Close() {
	r.End = true
}

// Set writes a follow-up context, replacing any same-named write from this
// turn.
func (r *Response) Set(c FollowupContext) error {
	params, err := encodeContext(c)
	if err != nil {
		return err
	}
	write := ContextWrite{Name: c.ContextName(), Lifespan: c.Lifespan(), Parameters: params}
	for i := range r.Contexts {
		if r.Contexts[i].Name == write.Name {
			r.Contexts[i] = write
			return nil
		}
	}
	r.Contexts = append(r.Contexts, write)
	return nil
}

// Texts returns the text of every plain text message, in order.
func (r *Response) Texts() []string {
	var out []string
	for _, m := range r.Messages {
		if m.Card == nil {
			out = append(out, m.Text)
		}
	}
	return out
}

// Context returns the write for the named context, if any.
func (r *Response) Context(name string) (ContextWrite, bool) {
	for _, c := range r.Contexts {
		if c.Name == name {
			return c, true
		}
	}
	return ContextWrite{}, false
}

// ToWebhookResponse renders the response in Dialogflow's wire format,
// qualifying context names with the session path.
func (r *Response) ToWebhookResponse(session string) dialogflow.WebhookResponse {
	var out dialogflow.WebhookResponse
	texts := r.Texts()
	if len(texts) > 0 {
		out.FulfillmentText = texts[0]
	}
	for _, m := range r.Messages {
		if m.Card != nil {
			card := &dialogflow.Card{Title: m.Card.Title, ImageURI: m.Card.ImageURL}
			if m.Card.ButtonText != "" {
				card.Buttons = []dialogflow.CardButton{{Text: m.Card.ButtonText, Postback: m.Card.ButtonURL}}
			}
			out.FulfillmentMessages = append(out.FulfillmentMessages, dialogflow.Message{Card: card})
			continue
		}
		out.FulfillmentMessages = append(out.FulfillmentMessages, dialogflow.Message{Text: &dialogflow.Text{Text: []string{m.Text}}})
	}
	for _, c := range r.Contexts {
		out.OutputContexts = append(out.OutputContexts, dialogflow.Context{
			Name:          dialogflow.ContextPath(session, c.Name),
			LifespanCount: c.Lifespan,
			Parameters:    c.Parameters,
		})
	}
	if r.End {
		out.Payload = dialogflow.EndConversationPayload()
	}
	return out
}

func encodeContext(c FollowupContext) (map[string]any, error) {
	data, err := json.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("fulfillment: encode context %s: %w", c.ContextName(), err)
	}
	var params map[string]any
	if err := json.Unmarshal(data, &params); err != nil {
		return nil, fmt.Errorf("fulfillment: encode context %s: %w", c.ContextName(), err)
	}
	return params, nil
}
