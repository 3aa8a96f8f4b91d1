package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/okian/diamond/internal/adapters/repository"
	"github.com/okian/diamond/internal/domain/model"
	"github.com/okian/diamond/internal/domain/types"
)

// maxSubmissionBytes bounds a POST /pitchers body.
const maxSubmissionBytes = 8 << 20

// PitchersDependencies defines what the pitcher endpoints need.
type PitchersDependencies interface {
	Submit(ctx context.Context, sub model.Submission) (types.Ack, error)
	Evaluation(ctx context.Context, pitcherID string) (repository.Standing, error)
}

// PitchersHandler handles pitcher submissions and evaluation lookups.
type PitchersHandler struct {
	deps PitchersDependencies
}

// NewPitchersHandler creates a new pitchers handler.
func NewPitchersHandler(deps PitchersDependencies) *PitchersHandler {
	return &PitchersHandler{deps: deps}
}

// submissionRequest is the POST /pitchers body.
type submissionRequest struct {
	SubmissionID string           `json:"submission_id"`
	PitcherID    string           `json:"pitcher_id"`
	Name         string           `json:"name"`
	Pitches      []model.Pitch    `json:"pitches"`
	Metrics      model.RawMetrics `json:"metrics"`
}

func (req *submissionRequest) validate() error {
	if strings.TrimSpace(req.PitcherID) == "" {
		return errors.New("missing pitcher_id")
	}
	for i := range req.Pitches {
		if strings.TrimSpace(req.Pitches[i].GameDate) == "" {
			return fmt.Errorf("pitch %d: missing game_date", i)
		}
	}
	return nil
}

type ackResponse struct {
	Status string `json:"status"`
	types.Ack
}

// decodeSubmission reads the body keeping metric numbers as json.Number.
func decodeSubmission(w http.ResponseWriter, r *http.Request) (submissionRequest, error) {
	var req submissionRequest
	var buf bytes.Buffer
	if _, err := buf.ReadFrom(http.MaxBytesReader(w, r.Body, maxSubmissionBytes)); err != nil {
		return req, err
	}
	dec := json.NewDecoder(&buf)
	dec.UseNumber()
	if err := dec.Decode(&req); err != nil {
		return req, err
	}
	return req, req.validate()
}

// HandlePostPitcher handles POST /pitchers.
func (h *PitchersHandler) HandlePostPitcher(w http.ResponseWriter, r *http.Request) {
	const op = "api.post_pitcher"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	req, err := decodeSubmission(w, r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}

	ack, err := h.deps.Submit(r.Context(), model.Submission{
		SubmissionID: strings.TrimSpace(req.SubmissionID),
		PitcherID:    strings.TrimSpace(req.PitcherID),
		Name:         req.Name,
		Pitches:      req.Pitches,
		Metrics:      req.Metrics,
	})
	if err != nil {
		writeServiceError(w, op, err)
		return
	}
	if ack.Duplicate {
		writeJSON(w, http.StatusOK, ackResponse{Status: "duplicate", Ack: ack})
		return
	}
	writeJSON(w, http.StatusAccepted, ackResponse{Status: "accepted", Ack: ack})
}

// HandleGetPitcher handles GET /pitchers/{pitcher_id}.
func (h *PitchersHandler) HandleGetPitcher(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_pitcher"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	id, ok := pathID(r.URL.Path, "/pitchers/")
	if !ok {
		writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
		return
	}
	st, err := h.deps.Evaluation(r.Context(), id)
	if err != nil {
		writeServiceError(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, st)
}

// pathID extracts the single path segment after prefix.
func pathID(path, prefix string) (string, bool) {
	id := strings.TrimPrefix(path, prefix)
	if id == "" || id == path || strings.Contains(id, "/") {
		return "", false
	}
	return id, true
}
