package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bea-tech/site-assistant/internal/chat"
	"github.com/bea-tech/site-assistant/internal/llm"
	"github.com/bea-tech/site-assistant/internal/model"
	"github.com/bea-tech/site-assistant/internal/session"
	"github.com/bea-tech/site-assistant/pkg/logger"
)

func newSessionRouter(client llm.Client) (*chi.Mux, *session.Manager) {
	manager := session.NewManager(client, nil, logger.NewNop())
	h := NewSessionHandler(manager, logger.NewNop())

	r := chi.NewRouter()
	r.Route("/api/v1/sessions", func(r chi.Router) {
		r.Post("/", h.Create)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", h.Get)
			r.Delete("/", h.Delete)
			r.Post("/messages", h.Send)
			r.Post("/reset", h.Reset)
			r.Post("/form-ack", h.ClearForm)
		})
	})
	return r, manager
}

func decodeSession(t *testing.T, rec *httptest.ResponseRecorder) SessionResponse {
	t.Helper()
	var out SessionResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func TestSessionLifecycle(t *testing.T) {
	t.Parallel()

	client := &fakeClient{resp: &llm.CompletionResponse{Text: "We repair laptops, yes."}}
	r, manager := newSessionRouter(client)

	// Create starts with the greeting already in place.
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/sessions", nil))
	require.Equal(t, http.StatusCreated, rec.Code)

	created := decodeSession(t, rec)
	require.NotEmpty(t, created.ID)
	require.Len(t, created.Turns, 1)
	assert.Equal(t, model.RoleModel, created.Turns[0].Role)
	assert.Equal(t, chat.Greeting, created.Turns[0].Text())
	assert.False(t, created.Pending)

	// Send appends the user turn and the model reply.
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost,
		"/api/v1/sessions/"+created.ID+"/messages",
		strings.NewReader(`{"text":"Do you repair laptops?"}`)))
	require.Equal(t, http.StatusOK, rec.Code)

	after := decodeSession(t, rec)
	require.Len(t, after.Turns, 3)
	assert.Equal(t, "Do you repair laptops?", after.Turns[1].Text())
	assert.Equal(t, "We repair laptops, yes.", after.Turns[2].Text())

	// Get returns the same transcript.
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/sessions/"+created.ID, nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decodeSession(t, rec).Turns, 3)

	// Reset drops everything back to the greeting.
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/sessions/"+created.ID+"/reset", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decodeSession(t, rec).Turns, 1)

	// Delete disposes the session.
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/api/v1/sessions/"+created.ID, nil))
	require.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, 0, manager.Count())

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/sessions/"+created.ID, nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestSessionFormRequestAck(t *testing.T) {
	t.Parallel()

	client := &fakeClient{resp: &llm.CompletionResponse{
		ToolCalls: []model.ToolCall{{Name: "displayAppointmentForm"}},
	}}
	r, manager := newSessionRouter(client)

	sess := manager.Create()

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost,
		"/api/v1/sessions/"+sess.ID+"/messages",
		strings.NewReader(`{"text":"I want to book an appointment"}`)))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, decodeSession(t, rec).FormRequested)

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/sessions/"+sess.ID+"/form-ack", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.False(t, decodeSession(t, rec).FormRequested)
}

func TestSessionSendValidation(t *testing.T) {
	t.Parallel()

	client := &fakeClient{resp: &llm.CompletionResponse{Text: "hi"}}
	r, manager := newSessionRouter(client)
	sess := manager.Create()

	for _, tc := range []struct {
		name string
		body string
	}{
		{"malformed body", `{not json`},
		{"blank text", `{"text":"   "}`},
		{"oversized text", `{"text":"` + strings.Repeat("a", 5000) + `"}`},
	} {
		t.Run(tc.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost,
				"/api/v1/sessions/"+sess.ID+"/messages", strings.NewReader(tc.body)))
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}

func TestSessionUnknownAndInvalidIDs(t *testing.T) {
	t.Parallel()

	r, _ := newSessionRouter(&fakeClient{resp: &llm.CompletionResponse{Text: "hi"}})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/sessions/not-a-uuid", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet,
		"/api/v1/sessions/019059e8-36c5-7000-8000-000000000000", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete,
		"/api/v1/sessions/019059e8-36c5-7000-8000-000000000000", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
