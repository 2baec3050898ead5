// Package dialogflow holds the Dialogflow ES v2 webhook wire format.
package dialogflow

import (
	"encoding/json"
	"strings"
)

// WebhookRequest is the body Dialogflow POSTs to the fulfillment webhook.
type WebhookRequest struct {
	ResponseID                  string          `json:"responseId"`
	Session                     string          `json:"session"`
	QueryResult                 QueryResult     `json:"queryResult"`
	OriginalDetectIntentRequest json.RawMessage `json:"originalDetectIntentRequest,omitempty"`
}

// QueryResult is the NLU outcome for the current turn.
type QueryResult struct {
	QueryText                 string     `json:"queryText"`
	Parameters                Parameters `json:"parameters"`
	AllRequiredParamsPresent  bool       `json:"allRequiredParamsPresent"`
	Intent                    Intent     `json:"intent"`
	IntentDetectionConfidence float64    `json:"intentDetectionConfidence"`
	OutputContexts            []Context  `json:"outputContexts"`
	LanguageCode              string     `json:"languageCode"`
}

type Intent struct {
	Name        string `json:"name"`
	DisplayName string `json:"displayName"`
}

// Context is a named, expiring parameter bag. On input Name is the full
// resource path; ShortName strips it.
type Context struct {
	Name          string         `json:"name"`
	LifespanCount int            `json:"lifespanCount,omitempty"`
	Parameters    map[string]any `json:"parameters,omitempty"`
}

// ShortName returns the context id without the session path.
func (c Context) ShortName() string {
	if i := strings.LastIndex(c.Name, "/contexts/"); i >= 0 {
		return c.Name[i+len("/contexts/"):]
	}
	return c.Name
}

// ContextPath qualifies a context id with the session path.
func ContextPath(session, name string) string {
	if session == "" {
		return name
	}
	return session + "/contexts/" + name
}

// WebhookResponse is returned to Dialogflow.
type WebhookResponse struct {
	FulfillmentText     string         `json:"fulfillmentText,omitempty"`
	FulfillmentMessages []Message      `json:"fulfillmentMessages,omitempty"`
	OutputContexts      []Context      `json:"outputContexts,omitempty"`
	Payload             map[string]any `json:"payload,omitempty"`
}

// Message is a rich response item; exactly one field is set.
type Message struct {
	Text *Text `json:"text,omitempty"`
	Card *Card `json:"card,omitempty"`
}

type Text struct {
	Text []string `json:"text"`
}

type Card struct {
	Title    string       `json:"title,omitempty"`
	Subtitle string       `json:"subtitle,omitempty"`
	ImageURI string       `json:"imageUri,omitempty"`
	Buttons  []CardButton `json:"buttons,omitempty"`
}

type CardButton struct {
	Text     string `json:"text"`
	Postback string `json:"postback"`
}

// EndConversationPayload tells Actions on Google to close the session after
// this response.
func EndConversationPayload() map[string]any {
	return map[string]any{
		"google": map[string]any{"expectUserResponse": false},
	}
}
