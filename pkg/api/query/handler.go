// Package query exposes the natural-language question endpoint: classify
// the question, dispatch the metric, render the answer.
package query

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"cfocopilot/pkg/core/classifier"
	"cfocopilot/pkg/core/dataset"
	"cfocopilot/pkg/core/present"
	"cfocopilot/pkg/core/router"
	"cfocopilot/pkg/core/session"
)

// Handler provides the HTTP handler for CFO questions.
type Handler struct {
	classifier *classifier.Classifier
	loader     *dataset.Loader
	repo       *session.Repo // nil when history persistence is disabled
	log        zerolog.Logger
}

// NewHandler creates a new query handler. repo may be nil.
func NewHandler(c *classifier.Classifier, loader *dataset.Loader, repo *session.Repo, log zerolog.Logger) *Handler {
	return &Handler{classifier: c, loader: loader, repo: repo, log: log}
}

// Request is the user's question, optionally tied to a conversation.
type Request struct {
	Question       string `json:"question"`
	ConversationID string `json:"conversation_id,omitempty"`
}

// Response carries the rendered answer plus the routing decision, so
// clients can show what was understood.
type Response struct {
	Status         string         `json:"status"`
	Intent         string         `json:"intent"`
	Text           string         `json:"text"`
	Chart          *present.Chart `json:"chart,omitempty"`
	ConversationID string         `json:"conversation_id,omitempty"`
}

// HandleQuery answers one question.
func (h *Handler) HandleQuery(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

	if r.Method == "OPTIONS" {
		w.WriteHeader(http.StatusOK)
		return
	}
	if r.Method != "POST" {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.Question == "" {
		http.Error(w, "Missing question", http.StatusBadRequest)
		return
	}

	ctx := r.Context()
	q := h.classifier.Classify(ctx, req.Question)
	result := router.Dispatch(h.loader.Current(), q)
	answer := present.Render(result)

	h.log.Info().
		Str("intent", string(result.Intent)).
		Str("status", string(result.Status)).
		Msg("query answered")

	resp := Response{
		Status: string(result.Status),
		Intent: string(result.Intent),
		Text:   answer.Text,
		Chart:  answer.Chart,
	}

	if h.repo != nil {
		resp.ConversationID = h.saveHistory(r, req, answer.Text)
	}

	json.NewEncoder(w).Encode(resp)
}

// saveHistory appends the question/answer pair to the conversation. History
// is best effort: a storage failure is logged and the answer still goes out.
func (h *Handler) saveHistory(r *http.Request, req Request, answer string) string {
	conversationID, err := uuid.Parse(req.ConversationID)
	if err != nil {
		conversationID = uuid.New()
	}

	ctx := r.Context()
	if _, err := h.repo.Append(ctx, conversationID, "user", req.Question); err != nil {
		h.log.Warn().Err(err).Msg("failed to save user message")
		return conversationID.String()
	}
	if _, err := h.repo.Append(ctx, conversationID, "assistant", answer); err != nil {
		h.log.Warn().Err(err).Msg("failed to save assistant message")
	}
	return conversationID.String()
}

// HandleHistory returns the messages of one conversation.
func (h *Handler) HandleHistory(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Access-Control-Allow-Origin", "*")

	if r.Method != "GET" {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if h.repo == nil {
		http.Error(w, "History persistence is disabled", http.StatusNotImplemented)
		return
	}

	conversationID, err := uuid.Parse(r.URL.Query().Get("conversation_id"))
	if err != nil {
		http.Error(w, "Invalid conversation_id", http.StatusBadRequest)
		return
	}

	messages, err := h.repo.History(r.Context(), conversationID)
	if err != nil {
		h.log.Error().Err(err).Msg("failed to load history")
		http.Error(w, "Failed to load history", http.StatusInternalServerError)
		return
	}
	json.NewEncoder(w).Encode(messages)
}
