package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/bea-tech/site-assistant/internal/knowledge"
	"github.com/bea-tech/site-assistant/internal/llm"
	"github.com/bea-tech/site-assistant/internal/middleware"
	"github.com/bea-tech/site-assistant/internal/model"
	"github.com/bea-tech/site-assistant/internal/tool"
	"github.com/bea-tech/site-assistant/pkg/logger"
)

// ChatRequest is the stateless proxy request body: the full
// conversation history, resent on every call.
type ChatRequest struct {
	History []model.Turn `json:"history"`
}

// ChatResponse wraps the classified completion result.
type ChatResponse struct {
	Response *llm.CompletionResponse `json:"response"`
}

// ChatHandler proxies completion calls for clients that keep their
// conversation history locally. It adds the system prompt and the tool
// catalog server-side so the credential and the brief never ship to
// the browser.
type ChatHandler struct {
	client llm.Client
	logger *logger.Logger
}

// NewChatHandler creates a new chat proxy handler. client may be nil
// when no credential is configured; requests then fail with an
// explanatory 500.
func NewChatHandler(client llm.Client, log *logger.Logger) *ChatHandler {
	return &ChatHandler{
		client: client,
		logger: log,
	}
}

// Complete handles POST /api/chat
func (h *ChatHandler) Complete(w http.ResponseWriter, r *http.Request) {
	if h.client == nil {
		writeError(w, http.StatusInternalServerError, "completion service API key not configured on server")
		return
	}

	var req ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if len(req.History) == 0 {
		writeError(w, http.StatusBadRequest, "history cannot be empty")
		return
	}

	resp, err := h.client.Complete(r.Context(), &llm.CompletionRequest{
		History:      req.History,
		SystemPrompt: knowledge.SystemPrompt(),
		Tools:        tool.Catalog(),
	})
	if err != nil {
		h.logger.Error("proxy completion failed",
			zap.String("correlation_id", middleware.GetCorrelationID(r.Context())),
			zap.Error(err))

		switch {
		case errors.Is(err, llm.ErrUnauthenticated):
			writeErrorDetails(w, http.StatusInternalServerError, "completion service rejected the server credential", err.Error())
		default:
			writeErrorDetails(w, http.StatusBadGateway, "completion service request failed", err.Error())
		}
		return
	}

	writeJSON(w, http.StatusOK, ChatResponse{Response: resp})
}
