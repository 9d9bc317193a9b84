package handler

import (
	"net/http"

	"github.com/bea-tech/site-assistant/internal/knowledge"
)

// ContentHandler serves the static site catalogs. The same data feeds
// the assistant's system prompt, so the widget and the page sections
// never disagree.
type ContentHandler struct{}

// NewContentHandler creates a new content handler.
func NewContentHandler() *ContentHandler {
	return &ContentHandler{}
}

// Services handles GET /api/v1/content/services
func (h *ContentHandler) Services(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"services": knowledge.Services()})
}

// Products handles GET /api/v1/content/products
func (h *ContentHandler) Products(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"products": knowledge.Products()})
}

// Testimonials handles GET /api/v1/content/testimonials
func (h *ContentHandler) Testimonials(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"testimonials": knowledge.Testimonials()})
}

// Contact handles GET /api/v1/content/contact
func (h *ContentHandler) Contact(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, knowledge.Contact())
}
