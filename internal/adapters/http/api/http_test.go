package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/whichracket/advisor/internal/adapters/feed"
	"github.com/whichracket/advisor/internal/adapters/http/api"
	service "github.com/whichracket/advisor/internal/app"
	"github.com/whichracket/advisor/internal/domain/catalog"
	. "github.com/smartystreets/goconvey/convey"
	"github.com/whichracket/advisor/pkg/logger"
)

func TestMain(m *testing.M) {
	if err := logger.Init(); err != nil {
		os.Exit(1)
	}
	os.Exit(m.Run())
}

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	svc := service.New(
		service.WithCatalogItems([]catalog.Item{
			{ID: "a", Name: "A", Weight: 300, Attributes: map[string]float64{"Power": 90, "Control": 50}},
			{ID: "b", Name: "B", Weight: 305, Attributes: map[string]float64{"Power": 70, "Control": 70}},
			{ID: "c", Name: "C", Weight: 315, Attributes: map[string]float64{"Power": 50, "Control": 90}},
		}),
		service.WithQuestions([]feed.Question{
			{Text: "Power or control?", Answers: []feed.Answer{
				{Text: "Power", Effects: map[string]float64{"Power": 20, "Aggressive Baseliner": 10}},
				{Text: "Control", Effects: map[string]float64{"Control": 20, "Counterpuncher": 10}},
			}},
		}),
	)
	if err := svc.Start(context.Background()); err != nil {
		t.Fatalf("start service: %v", err)
	}
	t.Cleanup(svc.Stop)

	mux := http.NewServeMux()
	api.NewServer(svc, svc, 10).Register(context.Background(), mux)

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func doJSON(t *testing.T, method, url string, body any, out any) *http.Response {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode request: %v", err)
		}
	}
	req, err := http.NewRequest(method, url, &buf)
	if err != nil {
		t.Fatalf("build request: %v", err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, url, err)
	}
	defer resp.Body.Close()
	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			t.Fatalf("decode response: %v", err)
		}
	}
	return resp
}

func createSession(t *testing.T, base string) string {
	t.Helper()
	var state struct {
		SessionID string `json:"session_id"`
	}
	resp := doJSON(t, http.MethodPost, base+"/sessions", nil, &state)
	if resp.StatusCode != http.StatusCreated || state.SessionID == "" {
		t.Fatalf("create session: status %d, id %q", resp.StatusCode, state.SessionID)
	}
	return state.SessionID
}

func TestSessionEndpoints(t *testing.T) {
	Convey("Given a running API server", t, func() {
		srv := newTestServer(t)

		Convey("When a session is created", func() {
			id := createSession(t, srv.URL)

			Convey("Then GET returns progress and profile", func() {
				var got struct {
					SessionID      string             `json:"session_id"`
					Answered       int                `json:"answered"`
					QuestionsTotal int                `json:"questions_total"`
					Attributes     map[string]float64 `json:"attributes"`
					Styles         map[string]float64 `json:"styles"`
				}
				resp := doJSON(t, http.MethodGet, srv.URL+"/sessions/"+id, nil, &got)
				So(resp.StatusCode, ShouldEqual, http.StatusOK)
				So(got.SessionID, ShouldEqual, id)
				So(got.Answered, ShouldEqual, 0)
				So(got.QuestionsTotal, ShouldEqual, 1)
				So(got.Attributes["Power"], ShouldEqual, 70)
				So(got.Styles["All-Court"], ShouldEqual, 50)
			})

			Convey("Then DELETE removes it", func() {
				resp := doJSON(t, http.MethodDelete, srv.URL+"/sessions/"+id, nil, nil)
				So(resp.StatusCode, ShouldEqual, http.StatusNoContent)

				resp = doJSON(t, http.MethodGet, srv.URL+"/sessions/"+id, nil, nil)
				So(resp.StatusCode, ShouldEqual, http.StatusNotFound)
			})
		})

		Convey("When an unknown session is requested", func() {
			resp := doJSON(t, http.MethodGet, srv.URL+"/sessions/unknown", nil, nil)

			Convey("Then the API answers 404", func() {
				So(resp.StatusCode, ShouldEqual, http.StatusNotFound)
			})
		})

		Convey("When /sessions is hit with the wrong method", func() {
			resp := doJSON(t, http.MethodGet, srv.URL+"/sessions", nil, nil)

			So(resp.StatusCode, ShouldEqual, http.StatusNotFound)
		})
	})
}

func TestAnswerEndpoints(t *testing.T) {
	Convey("Given a session", t, func() {
		srv := newTestServer(t)
		id := createSession(t, srv.URL)
		answersURL := srv.URL + "/sessions/" + id + "/answers"

		Convey("When a valid answer is submitted", func() {
			var state struct {
				Answered int `json:"answered"`
			}
			resp := doJSON(t, http.MethodPost, answersURL, map[string]any{
				"question_index": 0,
				"effects":        map[string]float64{"Power": 20, "Aggressive Baseliner": 10},
			}, &state)

			Convey("Then progress advances", func() {
				So(resp.StatusCode, ShouldEqual, http.StatusOK)
				So(state.Answered, ShouldEqual, 1)
			})

			Convey("And DELETE undoes it", func() {
				resp := doJSON(t, http.MethodDelete, answersURL, nil, &state)
				So(resp.StatusCode, ShouldEqual, http.StatusOK)
				So(state.Answered, ShouldEqual, 0)
			})
		})

		Convey("When the payload is invalid", func() {
			Convey("Then missing effects are rejected", func() {
				resp := doJSON(t, http.MethodPost, answersURL, map[string]any{"question_index": 0}, nil)
				So(resp.StatusCode, ShouldEqual, http.StatusBadRequest)
			})

			Convey("And an out-of-range question index is rejected", func() {
				resp := doJSON(t, http.MethodPost, answersURL, map[string]any{
					"question_index": 99,
					"effects":        map[string]float64{"Power": 1},
				}, nil)
				So(resp.StatusCode, ShouldEqual, http.StatusBadRequest)
			})

			Convey("And malformed JSON is rejected", func() {
				resp, err := http.Post(answersURL, "application/json", bytes.NewBufferString("{"))
				So(err, ShouldBeNil)
				resp.Body.Close()
				So(resp.StatusCode, ShouldEqual, http.StatusBadRequest)
			})
		})

		Convey("When undoing with no answers", func() {
			var state struct {
				Answered int `json:"answered"`
			}
			resp := doJSON(t, http.MethodDelete, answersURL, nil, &state)

			Convey("Then the request succeeds at the start state", func() {
				So(resp.StatusCode, ShouldEqual, http.StatusOK)
				So(state.Answered, ShouldEqual, 0)
			})
		})
	})
}

func TestRecommendationEndpoints(t *testing.T) {
	Convey("Given a session with an answer", t, func() {
		srv := newTestServer(t)
		id := createSession(t, srv.URL)
		doJSON(t, http.MethodPost, srv.URL+"/sessions/"+id+"/answers", map[string]any{
			"question_index": 0,
			"effects":        map[string]float64{"Power": 20, "Aggressive Baseliner": 10},
		}, nil)
		recsURL := srv.URL + "/sessions/" + id + "/recommendations"

		Convey("When recommendations are requested", func() {
			var recs []api.Recommendation
			resp := doJSON(t, http.MethodGet, recsURL, nil, &recs)

			Convey("Then the ranking comes back ordered", func() {
				So(resp.StatusCode, ShouldEqual, http.StatusOK)
				So(len(recs), ShouldEqual, 3)
				So(recs[0].Rank, ShouldEqual, 1)
				So(recs[0].ID, ShouldEqual, "a")
				So(recs[0].Score, ShouldBeLessThanOrEqualTo, recs[1].Score)
			})
		})

		Convey("When a mode and limit are given", func() {
			var recs []api.Recommendation
			resp := doJSON(t, http.MethodGet, recsURL+"?mode=strength&limit=2", nil, &recs)

			So(resp.StatusCode, ShouldEqual, http.StatusOK)
			So(len(recs), ShouldEqual, 2)
		})

		Convey("When the mode is unknown", func() {
			resp := doJSON(t, http.MethodGet, recsURL+"?mode=bogus", nil, nil)

			So(resp.StatusCode, ShouldEqual, http.StatusBadRequest)
		})

		Convey("When the limit is out of range", func() {
			for _, q := range []string{"?limit=0", "?limit=-1", "?limit=99", "?limit=x"} {
				resp := doJSON(t, http.MethodGet, recsURL+q, nil, nil)
				So(resp.StatusCode, ShouldEqual, http.StatusBadRequest)
			}
		})

		Convey("When the session does not exist", func() {
			resp := doJSON(t, http.MethodGet, srv.URL+"/sessions/unknown/recommendations", nil, nil)

			So(resp.StatusCode, ShouldEqual, http.StatusNotFound)
		})
	})
}

func TestStyleAndResetEndpoints(t *testing.T) {
	Convey("Given a session with a style-leaning answer", t, func() {
		srv := newTestServer(t)
		id := createSession(t, srv.URL)
		doJSON(t, http.MethodPost, srv.URL+"/sessions/"+id+"/answers", map[string]any{
			"question_index": 0,
			"effects":        map[string]float64{"Power": 20, "Aggressive Baseliner": 10},
		}, nil)

		Convey("When the style label is requested", func() {
			var label struct {
				Primary   string             `json:"primary"`
				Hybrid    bool               `json:"hybrid"`
				Intensity map[string]float64 `json:"intensity"`
			}
			resp := doJSON(t, http.MethodGet, srv.URL+"/sessions/"+id+"/style", nil, &label)

			Convey("Then the leading style is reported", func() {
				So(resp.StatusCode, ShouldEqual, http.StatusOK)
				So(label.Primary, ShouldEqual, "Aggressive Baseliner")
				So(label.Hybrid, ShouldBeFalse)
				So(label.Intensity["Aggressive Baseliner"], ShouldBeGreaterThan, 0)
			})
		})

		Convey("When the session is reset", func() {
			var state struct {
				Answered int `json:"answered"`
			}
			resp := doJSON(t, http.MethodPost, srv.URL+"/sessions/"+id+"/reset", nil, &state)

			Convey("Then the quiz starts over in place", func() {
				So(resp.StatusCode, ShouldEqual, http.StatusOK)
				So(state.Answered, ShouldEqual, 0)
			})
		})
	})
}

func TestInfraEndpoints(t *testing.T) {
	Convey("Given a running API server", t, func() {
		srv := newTestServer(t)

		Convey("Then the health endpoint answers OK", func() {
			resp, err := http.Get(srv.URL + "/healthz")
			So(err, ShouldBeNil)
			resp.Body.Close()
			So(resp.StatusCode, ShouldEqual, http.StatusOK)
		})

		Convey("Then the stats endpoint reports the service state", func() {
			var stats map[string]any
			resp := doJSON(t, http.MethodGet, srv.URL+"/stats", nil, &stats)
			So(resp.StatusCode, ShouldEqual, http.StatusOK)
			So(stats["started"], ShouldEqual, true)
		})

		Convey("Then the question feed is served", func() {
			var questions []feed.Question
			resp := doJSON(t, http.MethodGet, srv.URL+"/questions", nil, &questions)
			So(resp.StatusCode, ShouldEqual, http.StatusOK)
			So(len(questions), ShouldEqual, 1)
			So(len(questions[0].Answers), ShouldEqual, 2)
		})
	})
}
