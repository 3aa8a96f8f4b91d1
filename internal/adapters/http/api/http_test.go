package api_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/okian/diamond/internal/adapters/http/api"
	"github.com/okian/diamond/internal/adapters/repository"
	service "github.com/okian/diamond/internal/app"
	"github.com/okian/diamond/internal/domain/model"
	"github.com/okian/diamond/internal/domain/scoring"
	"github.com/okian/diamond/internal/domain/tiering"
	"github.com/okian/diamond/internal/domain/types"
)

type mockDeps struct {
	submitted []model.Submission
	submitErr error
	duplicate bool

	topN     []types.Entry
	topNErr  error
	rank     types.Entry
	rankErr  error
	standing repository.Standing
	evalErr  error

	gems    []tiering.Record
	buckets map[tiering.Category][]tiering.Record
}

func (m *mockDeps) Submit(_ context.Context, sub model.Submission) (types.Ack, error) {
	if m.submitErr != nil {
		return types.Ack{}, m.submitErr
	}
	m.submitted = append(m.submitted, sub)
	id := sub.SubmissionID
	if id == "" {
		id = "generated"
	}
	return types.Ack{SubmissionID: id, PitcherID: sub.PitcherID, Duplicate: m.duplicate}, nil
}

func (m *mockDeps) TopN(_ context.Context, n int) ([]types.Entry, error) {
	if m.topNErr != nil {
		return nil, m.topNErr
	}
	if n > len(m.topN) {
		return m.topN, nil
	}
	return m.topN[:n], nil
}

func (m *mockDeps) Rank(_ context.Context, _ string) (types.Entry, error) {
	return m.rank, m.rankErr
}

func (m *mockDeps) Evaluation(_ context.Context, _ string) (repository.Standing, error) {
	return m.standing, m.evalErr
}

func (m *mockDeps) HiddenGems(context.Context) ([]tiering.Record, error) { return m.gems, nil }

func (m *mockDeps) Categories(context.Context) (map[tiering.Category][]tiering.Record, error) {
	return m.buckets, nil
}

func (m *mockDeps) Thresholds() tiering.Thresholds { return tiering.DefaultThresholds() }

func (m *mockDeps) GetStats() map[string]any {
	return map[string]any{"started": true, "pitchers": len(m.topN)}
}

func newMux(deps *mockDeps) *http.ServeMux {
	mux := http.NewServeMux()
	api.NewServer(deps, 50).Register(mux)
	return mux
}

func do(mux *http.ServeMux, method, target, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	return rec
}

func TestPostPitcher(t *testing.T) {
	Convey("Given the pitchers endpoint", t, func() {
		deps := &mockDeps{}
		mux := newMux(deps)

		Convey("A valid submission is accepted", func() {
			body := `{"submission_id":"s1","pitcher_id":"p1","name":"Ace",
				"pitches":[{"game_date":"2024-04-01","at_bat_number":1,"pitch_number":1,"pitch_type":"SL","release_speed":88.5,"spin_axis":180}],
				"metrics":{"k_pct":31.5,"gyro_sweeper_combo":true}}`
			rec := do(mux, http.MethodPost, "/pitchers", body)
			So(rec.Code, ShouldEqual, http.StatusAccepted)

			var resp map[string]any
			So(json.Unmarshal(rec.Body.Bytes(), &resp), ShouldBeNil)
			So(resp["status"], ShouldEqual, "accepted")
			So(resp["submission_id"], ShouldEqual, "s1")

			So(deps.submitted, ShouldHaveLength, 1)
			sub := deps.submitted[0]
			So(sub.PitcherID, ShouldEqual, "p1")
			So(sub.Pitches, ShouldHaveLength, 1)
			So(*sub.Pitches[0].ReleaseSpeed, ShouldEqual, 88.5)
			k, ok := sub.Metrics.Float(model.MetricKPct)
			So(ok, ShouldBeTrue)
			So(k, ShouldEqual, 31.5)
			So(sub.Metrics.Flag(model.MetricGyroSweeperCombo), ShouldBeTrue)
		})

		Convey("A duplicate submission answers 200", func() {
			deps.duplicate = true
			rec := do(mux, http.MethodPost, "/pitchers", `{"submission_id":"s1","pitcher_id":"p1"}`)
			So(rec.Code, ShouldEqual, http.StatusOK)
			So(rec.Body.String(), ShouldContainSubstring, `"duplicate"`)
		})

		Convey("Malformed bodies are rejected", func() {
			So(do(mux, http.MethodPost, "/pitchers", `{`).Code, ShouldEqual, http.StatusBadRequest)
			So(do(mux, http.MethodPost, "/pitchers", `{"name":"x"}`).Code, ShouldEqual, http.StatusBadRequest)
			So(do(mux, http.MethodPost, "/pitchers", `{"pitcher_id":"p","pitches":[{"pitch_type":"FF"}]}`).Code, ShouldEqual, http.StatusBadRequest)
			So(deps.submitted, ShouldBeEmpty)
		})

		Convey("Service errors map to status codes", func() {
			cases := []struct {
				err  error
				code int
			}{
				{fmt.Errorf("%w: %w", service.ErrBackpressure, errors.New("full")), http.StatusTooManyRequests},
				{service.ErrNotStarted, http.StatusServiceUnavailable},
				{service.ErrInvalidSubmission, http.StatusBadRequest},
				{errors.New("boom"), http.StatusInternalServerError},
			}
			for _, c := range cases {
				deps.submitErr = c.err
				So(do(mux, http.MethodPost, "/pitchers", `{"pitcher_id":"p1"}`).Code, ShouldEqual, c.code)
			}
		})

		Convey("Other methods are not routed", func() {
			So(do(mux, http.MethodGet, "/pitchers", "").Code, ShouldEqual, http.StatusNotFound)
		})
	})
}

func TestGetPitcher(t *testing.T) {
	Convey("Given the pitcher detail endpoint", t, func() {
		deps := &mockDeps{standing: repository.Standing{
			Record:     tiering.Record{PitcherID: "p1", Name: "Ace", DiamondScore: 91},
			Evaluation: scoring.Evaluation{PitcherID: "p1", DiamondScore: 91},
			Tier:       tiering.TierOf(91),
		}}
		mux := newMux(deps)

		Convey("A known pitcher returns its evaluation", func() {
			rec := do(mux, http.MethodGet, "/pitchers/p1", "")
			So(rec.Code, ShouldEqual, http.StatusOK)
			So(rec.Body.String(), ShouldContainSubstring, `"p1"`)
		})

		Convey("An unknown pitcher is a 404", func() {
			deps.evalErr = repository.ErrNotFound
			So(do(mux, http.MethodGet, "/pitchers/nobody", "").Code, ShouldEqual, http.StatusNotFound)
		})

		Convey("Nested paths are rejected", func() {
			So(do(mux, http.MethodGet, "/pitchers/a/b", "").Code, ShouldEqual, http.StatusBadRequest)
		})
	})
}

func TestLeaderboardAndRank(t *testing.T) {
	Convey("Given a populated board", t, func() {
		entries := make([]types.Entry, 20)
		for i := range entries {
			entries[i] = types.Entry{Rank: i + 1, PitcherID: fmt.Sprintf("p%02d", i), DiamondScore: float64(90 - i)}
		}
		deps := &mockDeps{topN: entries, rank: entries[3]}
		mux := newMux(deps)

		Convey("The default limit is 10", func() {
			rec := do(mux, http.MethodGet, "/leaderboard", "")
			So(rec.Code, ShouldEqual, http.StatusOK)
			var got []types.Entry
			So(json.Unmarshal(rec.Body.Bytes(), &got), ShouldBeNil)
			So(got, ShouldHaveLength, 10)
			So(got[0].PitcherID, ShouldEqual, "p00")
		})

		Convey("An explicit limit is honored", func() {
			var got []types.Entry
			rec := do(mux, http.MethodGet, "/leaderboard?limit=3", "")
			So(json.Unmarshal(rec.Body.Bytes(), &got), ShouldBeNil)
			So(got, ShouldHaveLength, 3)
		})

		Convey("Bad limits are rejected", func() {
			So(do(mux, http.MethodGet, "/leaderboard?limit=0", "").Code, ShouldEqual, http.StatusBadRequest)
			So(do(mux, http.MethodGet, "/leaderboard?limit=x", "").Code, ShouldEqual, http.StatusBadRequest)
			So(do(mux, http.MethodGet, "/leaderboard?limit=51", "").Code, ShouldEqual, http.StatusBadRequest)
		})

		Convey("Rank returns the entry", func() {
			rec := do(mux, http.MethodGet, "/rank/p03", "")
			So(rec.Code, ShouldEqual, http.StatusOK)
			var got types.Entry
			So(json.Unmarshal(rec.Body.Bytes(), &got), ShouldBeNil)
			So(got.Rank, ShouldEqual, 4)
		})

		Convey("Rank of an unknown pitcher is a 404", func() {
			deps.rankErr = repository.ErrNotFound
			So(do(mux, http.MethodGet, "/rank/zzz", "").Code, ShouldEqual, http.StatusNotFound)
			So(do(mux, http.MethodGet, "/rank/", "").Code, ShouldEqual, http.StatusBadRequest)
		})
	})
}

func TestFilters(t *testing.T) {
	Convey("Given gem and category results", t, func() {
		gem := tiering.Record{PitcherID: "g1", DiamondScore: 82, Saves: 2, BustRisk: 20}
		deps := &mockDeps{
			gems: []tiering.Record{gem},
			buckets: map[tiering.Category][]tiering.Record{
				tiering.CategoryElite:     {gem},
				tiering.CategoryAvoid:     {},
				tiering.CategoryValuePlay: {},
			},
		}
		mux := newMux(deps)

		Convey("GET /gems reports count and thresholds", func() {
			rec := do(mux, http.MethodGet, "/gems", "")
			So(rec.Code, ShouldEqual, http.StatusOK)
			var got struct {
				Count      int              `json:"count"`
				Pitchers   []tiering.Record `json:"pitchers"`
				Thresholds map[string]any   `json:"thresholds"`
			}
			So(json.Unmarshal(rec.Body.Bytes(), &got), ShouldBeNil)
			So(got.Count, ShouldEqual, 1)
			So(got.Pitchers[0].PitcherID, ShouldEqual, "g1")
			So(got.Thresholds, ShouldNotBeEmpty)
		})

		Convey("GET /categories returns every bucket", func() {
			rec := do(mux, http.MethodGet, "/categories", "")
			So(rec.Code, ShouldEqual, http.StatusOK)
			var got map[string][]tiering.Record
			So(json.Unmarshal(rec.Body.Bytes(), &got), ShouldBeNil)
			So(got, ShouldContainKey, "elite")
			So(got["elite"], ShouldHaveLength, 1)
		})

		Convey("A single category can be selected", func() {
			rec := do(mux, http.MethodGet, "/categories?name=elite", "")
			So(rec.Code, ShouldEqual, http.StatusOK)
			So(do(mux, http.MethodGet, "/categories?name=nope", "").Code, ShouldEqual, http.StatusBadRequest)
		})
	})
}

func TestStatsAndHealth(t *testing.T) {
	Convey("Given the operational endpoints", t, func() {
		mux := newMux(&mockDeps{})

		Convey("Stats are served as JSON", func() {
			rec := do(mux, http.MethodGet, "/stats", "")
			So(rec.Code, ShouldEqual, http.StatusOK)
			So(rec.Header().Get("Content-Type"), ShouldStartWith, "application/json")
			So(rec.Body.String(), ShouldContainSubstring, `"started":true`)
		})

		Convey("Health exposes metrics", func() {
			do(mux, http.MethodGet, "/stats", "")
			rec := do(mux, http.MethodGet, "/healthz", "")
			So(rec.Code, ShouldEqual, http.StatusOK)
			So(rec.Body.String(), ShouldContainSubstring, "diamond_")
		})
	})
}

func TestErrors(t *testing.T) {
	Convey("API errors expose kind and cause", t, func() {
		cause := errors.New("disk")
		err := api.WrapKind("op", api.ErrNotFound, cause)
		So(errors.Is(err, api.ErrNotFound), ShouldBeTrue)
		So(errors.Is(err, cause), ShouldBeTrue)
		So(err.Error(), ShouldEqual, "op: not found: disk")
		So(api.Wrap("op", nil), ShouldBeNil)
		So(api.NewKind("op", api.ErrBadRequest).Error(), ShouldEqual, "op: bad request")
	})
}
