package fulfillment

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/evect-health/fulfillment/internal/dialogflow"
	"github.com/evect-health/fulfillment/internal/http/middleware"
	"github.com/evect-health/fulfillment/pkg/logging"
)

const maxWebhookBody = 1 << 20

// WebhookHandler serves Dialogflow fulfillment calls.
type WebhookHandler struct {
	dispatcher *Dispatcher
	logger     *logging.Logger
}

// NewWebhookHandler creates the HTTP entry point over a dispatcher.
func NewWebhookHandler(dispatcher *Dispatcher, logger *logging.Logger) *WebhookHandler {
	if dispatcher == nil {
		panic("fulfillment: dispatcher required")
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &WebhookHandler{dispatcher: dispatcher, logger: logger}
}

// HandleWebhook handles POST /webhook.
func (h *WebhookHandler) HandleWebhook(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With("request_id", middleware.RequestIDFromContext(r.Context()))

	var req dialogflow.WebhookRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxWebhookBody)).Decode(&req); err != nil {
		logger.Warn("failed to decode webhook request", "error", err)
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	turn := TurnFromRequest(req)
	logger.Debug("webhook request",
		"intent", turn.Intent,
		"session", turn.Session,
		"parameters", req.QueryResult.Parameters,
		"contexts", len(req.QueryResult.OutputContexts),
	)

	resp, err := h.dispatcher.Dispatch(r.Context(), turn)
	if err != nil {
		if errors.Is(err, ErrMissingIntent) {
			http.Error(w, "missing intent", http.StatusBadRequest)
			return
		}
		logger.Error("fulfillment failed", "intent", turn.Intent, "session", turn.Session, "error", err)
		http.Error(w, "fulfillment failed", http.StatusInternalServerError)
		return
	}

	body := resp.ToWebhookResponse(turn.Session)
	logger.Debug("webhook response",
		"intent", turn.Intent,
		"messages", len(body.FulfillmentMessages),
		"contexts", len(body.OutputContexts),
		"end", resp.End,
	)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(body)
}
