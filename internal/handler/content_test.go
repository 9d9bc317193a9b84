package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bea-tech/site-assistant/internal/knowledge"
)

func TestContentEndpoints(t *testing.T) {
	t.Parallel()

	h := NewContentHandler()

	for _, tc := range []struct {
		name    string
		handler http.HandlerFunc
		key     string
		wantLen int
	}{
		{"services", h.Services, "services", len(knowledge.Services())},
		{"products", h.Products, "products", len(knowledge.Products())},
		{"testimonials", h.Testimonials, "testimonials", len(knowledge.Testimonials())},
	} {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			rec := httptest.NewRecorder()
			tc.handler(rec, httptest.NewRequest(http.MethodGet, "/api/v1/content/"+tc.name, nil))
			require.Equal(t, http.StatusOK, rec.Code)
			assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

			var out map[string]json.RawMessage
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))

			var items []json.RawMessage
			require.NoError(t, json.Unmarshal(out[tc.key], &items))
			assert.Len(t, items, tc.wantLen)
		})
	}
}

func TestContentContact(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	NewContentHandler().Contact(rec, httptest.NewRequest(http.MethodGet, "/api/v1/content/contact", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var out knowledge.ContactDetails
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	assert.Equal(t, knowledge.Contact(), out)
}
