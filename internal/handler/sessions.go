package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/bea-tech/site-assistant/internal/chat"
	"github.com/bea-tech/site-assistant/internal/middleware"
	"github.com/bea-tech/site-assistant/internal/model"
	"github.com/bea-tech/site-assistant/internal/session"
	"github.com/bea-tech/site-assistant/pkg/logger"
)

// SessionResponse describes one widget session and its transcript.
type SessionResponse struct {
	ID            string       `json:"id"`
	CreatedAt     time.Time    `json:"created_at"`
	Turns         []model.Turn `json:"turns"`
	Pending       bool         `json:"pending"`
	FormRequested bool         `json:"form_requested"`
}

// SendTurnRequest is the request to send a visitor message.
type SendTurnRequest struct {
	Text string `json:"text"`
}

// SessionHandler handles widget session endpoints.
type SessionHandler struct {
	manager *session.Manager
	logger  *logger.Logger
}

// NewSessionHandler creates a new session handler.
func NewSessionHandler(manager *session.Manager, log *logger.Logger) *SessionHandler {
	return &SessionHandler{
		manager: manager,
		logger:  log,
	}
}

// Create handles POST /api/v1/sessions
func (h *SessionHandler) Create(w http.ResponseWriter, r *http.Request) {
	sess := h.manager.Create()
	writeJSON(w, http.StatusCreated, sessionResponse(sess))
}

// Get handles GET /api/v1/sessions/{id}
func (h *SessionHandler) Get(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.session(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, sessionResponse(sess))
}

// Send handles POST /api/v1/sessions/{id}/messages
func (h *SessionHandler) Send(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.session(w, r)
	if !ok {
		return
	}

	var req SendTurnRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := middleware.ValidateMessageContent(req.Text); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	err := sess.Controller.SendUserMessage(r.Context(), req.Text)
	switch {
	case errors.Is(err, chat.ErrBusy):
		writeError(w, http.StatusConflict, "a message is already being processed for this session")
		return
	case errors.Is(err, chat.ErrEmptyMessage):
		writeError(w, http.StatusBadRequest, "message text cannot be empty")
		return
	case err != nil:
		h.logger.Error("send failed")
		writeError(w, http.StatusInternalServerError, "failed to send message")
		return
	}

	writeJSON(w, http.StatusOK, sessionResponse(sess))
}

// Reset handles POST /api/v1/sessions/{id}/reset
func (h *SessionHandler) Reset(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.session(w, r)
	if !ok {
		return
	}

	if err := sess.Controller.Reset(); err != nil {
		writeError(w, http.StatusConflict, "a message is being processed; try again shortly")
		return
	}

	writeJSON(w, http.StatusOK, sessionResponse(sess))
}

// ClearForm handles POST /api/v1/sessions/{id}/form-ack
func (h *SessionHandler) ClearForm(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.session(w, r)
	if !ok {
		return
	}

	sess.Controller.ClearFormRequest()
	writeJSON(w, http.StatusOK, sessionResponse(sess))
}

// Delete handles DELETE /api/v1/sessions/{id}
func (h *SessionHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := middleware.ValidateSessionID(id); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.manager.Delete(id); err != nil {
		writeError(w, http.StatusNotFound, "session not found")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *SessionHandler) session(w http.ResponseWriter, r *http.Request) (*session.Session, bool) {
	id := chi.URLParam(r, "id")
	if err := middleware.ValidateSessionID(id); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return nil, false
	}

	sess, err := h.manager.Get(id)
	if err != nil {
		writeError(w, http.StatusNotFound, "session not found")
		return nil, false
	}
	return sess, true
}

func sessionResponse(sess *session.Session) SessionResponse {
	return SessionResponse{
		ID:            sess.ID,
		CreatedAt:     sess.CreatedAt,
		Turns:         sess.Controller.Turns(),
		Pending:       sess.Controller.Pending(),
		FormRequested: sess.Controller.FormRequested(),
	}
}
