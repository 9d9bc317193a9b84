package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bea-tech/site-assistant/internal/llm"
	"github.com/bea-tech/site-assistant/internal/model"
	"github.com/bea-tech/site-assistant/pkg/logger"
)

// fakeClient answers every completion from a fixed script.
type fakeClient struct {
	resp *llm.CompletionResponse
	err  error

	lastReq *llm.CompletionRequest
}

func (f *fakeClient) Complete(_ context.Context, req *llm.CompletionRequest) (*llm.CompletionResponse, error) {
	f.lastReq = req
	if f.err != nil {
		return nil, f.err
	}
	return f.resp, nil
}

func (f *fakeClient) Name() string { return "fake" }

func chatBody(t *testing.T, history []model.Turn) *bytes.Reader {
	t.Helper()
	b, err := json.Marshal(ChatRequest{History: history})
	require.NoError(t, err)
	return bytes.NewReader(b)
}

func TestChatCompleteReturnsModelText(t *testing.T) {
	t.Parallel()

	client := &fakeClient{resp: &llm.CompletionResponse{Text: "We are open weekdays 9 to 6."}}
	h := NewChatHandler(client, logger.NewNop())

	req := httptest.NewRequest(http.MethodPost, "/api/chat", chatBody(t, []model.Turn{
		model.TextTurn(model.RoleUser, "What are your hours?"),
	}))
	rec := httptest.NewRecorder()
	h.Complete(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var out ChatResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	require.NotNil(t, out.Response)
	assert.Equal(t, "We are open weekdays 9 to 6.", out.Response.Text)

	// The prompt and tool catalog ride server-side only.
	require.NotNil(t, client.lastReq)
	assert.NotEmpty(t, client.lastReq.SystemPrompt)
	assert.Len(t, client.lastReq.Tools, 2)
}

func TestChatCompleteWithoutClient(t *testing.T) {
	t.Parallel()

	h := NewChatHandler(nil, logger.NewNop())

	req := httptest.NewRequest(http.MethodPost, "/api/chat", chatBody(t, []model.Turn{
		model.TextTurn(model.RoleUser, "hello"),
	}))
	rec := httptest.NewRecorder()
	h.Complete(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "not configured")
}

func TestChatCompleteBadRequests(t *testing.T) {
	t.Parallel()

	h := NewChatHandler(&fakeClient{resp: &llm.CompletionResponse{Text: "hi"}}, logger.NewNop())

	t.Run("malformed body", func(t *testing.T) {
		t.Parallel()

		req := httptest.NewRequest(http.MethodPost, "/api/chat", strings.NewReader("{not json"))
		rec := httptest.NewRecorder()
		h.Complete(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("empty history", func(t *testing.T) {
		t.Parallel()

		req := httptest.NewRequest(http.MethodPost, "/api/chat", chatBody(t, nil))
		rec := httptest.NewRecorder()
		h.Complete(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), "history")
	})
}

func TestChatCompleteErrorMapping(t *testing.T) {
	t.Parallel()

	for _, tc := range []struct {
		name       string
		err        error
		wantStatus int
	}{
		{"rejected credential", llm.ErrUnauthenticated, http.StatusInternalServerError},
		{"upstream unavailable", llm.ErrUnavailable, http.StatusBadGateway},
		{"malformed reply", llm.ErrMalformedResponse, http.StatusBadGateway},
	} {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			h := NewChatHandler(&fakeClient{err: tc.err}, logger.NewNop())

			req := httptest.NewRequest(http.MethodPost, "/api/chat", chatBody(t, []model.Turn{
				model.TextTurn(model.RoleUser, "hello"),
			}))
			rec := httptest.NewRecorder()
			h.Complete(rec, req)

			assert.Equal(t, tc.wantStatus, rec.Code)

			var out map[string]string
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
			assert.NotEmpty(t, out["error"])
			assert.NotEmpty(t, out["details"])
		})
	}
}

func TestChatRouteRejectsOtherMethods(t *testing.T) {
	t.Parallel()

	h := NewChatHandler(&fakeClient{resp: &llm.CompletionResponse{Text: "hi"}}, logger.NewNop())

	r := chi.NewRouter()
	r.Post("/api/chat", h.Complete)

	req := httptest.NewRequest(http.MethodGet, "/api/chat", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}
