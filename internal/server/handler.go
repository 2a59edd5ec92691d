package server

import (
	"encoding/json"
	"net/http"

	"zerohunger-chat/internal/common/logger"
	"zerohunger-chat/internal/conversation/engine"
)

type chatRequest struct {
	Message   string `json:"message"`
	SessionID string `json:"session_id,omitempty"`
}

type chatResponse struct {
	Reply          string `json:"reply"`
	SessionID      string `json:"session_id,omitempty"`
	Intent         string `json:"intent,omitempty"`
	AssistanceType string `json:"assistance_type,omitempty"`
	Warning        string `json:"warning,omitempty"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// ChatHandler exposes the conversation engine over HTTP.
type ChatHandler struct {
	engine *engine.Engine
	log    logger.Logger
}

func NewChatHandler(eng *engine.Engine, log logger.Logger) *ChatHandler {
	return &ChatHandler{engine: eng, log: log}
}

func (h *ChatHandler) HandleChat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	res, err := h.engine.HandleMessage(r.Context(), req.SessionID, req.Message)
	if err != nil {
		// The conversation must never look stuck: surface an apology
		// instead of an error payload so the client keeps the session.
		h.log.WithError(err).Error("Turn processing failed", map[string]interface{}{
			"sessionId": req.SessionID,
		})
		respondJSON(w, http.StatusOK, chatResponse{
			Reply:     "I'm sorry, something went wrong on our side. Please try again.",
			SessionID: req.SessionID,
		})
		return
	}

	resp := chatResponse{
		Reply:          res.Reply,
		SessionID:      res.SessionID,
		Intent:         string(res.Intent),
		AssistanceType: res.AssistanceType,
	}
	if res.DispatchFailed {
		resp.Warning = "fulfillment_dispatch_failed"
	}
	respondJSON(w, http.StatusOK, resp)
}

func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

func respondError(w http.ResponseWriter, status int, msg string) {
	respondJSON(w, status, errorResponse{Error: msg})
}
