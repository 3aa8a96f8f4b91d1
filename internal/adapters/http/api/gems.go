package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/okian/diamond/internal/domain/tiering"
)

// GemsDependencies defines what the filter endpoints need.
type GemsDependencies interface {
	HiddenGems(ctx context.Context) ([]tiering.Record, error)
	Categories(ctx context.Context) (map[tiering.Category][]tiering.Record, error)
	Thresholds() tiering.Thresholds
}

// GemsHandler serves the hidden-gem and category filters.
type GemsHandler struct {
	deps GemsDependencies
}

// NewGemsHandler creates a new filter handler.
func NewGemsHandler(deps GemsDependencies) *GemsHandler {
	return &GemsHandler{deps: deps}
}

type gemsResponse struct {
	Count      int                `json:"count"`
	Thresholds tiering.Thresholds `json:"thresholds"`
	Pitchers   []tiering.Record   `json:"pitchers"`
}

// HandleGetGems handles GET /gems.
func (h *GemsHandler) HandleGetGems(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_gems"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	gems, err := h.deps.HiddenGems(r.Context())
	if err != nil {
		writeServiceError(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, gemsResponse{Count: len(gems), Thresholds: h.deps.Thresholds(), Pitchers: gems})
}

// HandleGetCategories handles GET /categories and GET /categories?name=elite.
func (h *GemsHandler) HandleGetCategories(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_categories"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	buckets, err := h.deps.Categories(r.Context())
	if err != nil {
		writeServiceError(w, op, err)
		return
	}
	name := r.URL.Query().Get("name")
	if name == "" {
		writeJSON(w, http.StatusOK, buckets)
		return
	}
	list, ok := buckets[tiering.Category(name)]
	if !ok {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, fmt.Errorf("unknown category %q", name)))
		return
	}
	writeJSON(w, http.StatusOK, list)
}
