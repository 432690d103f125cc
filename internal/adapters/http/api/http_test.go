package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/okian/skillwheel/internal/adapters/http/api"
	"github.com/okian/skillwheel/internal/adapters/http/live"
	"github.com/okian/skillwheel/internal/adapters/repository"
	service "github.com/okian/skillwheel/internal/app"
	"github.com/okian/skillwheel/internal/domain/model"
	"github.com/okian/skillwheel/internal/domain/selection"
	"github.com/okian/skillwheel/internal/domain/types"
	. "github.com/smartystreets/goconvey/convey"
)

var scenario = model.Dataset{
	{Name: "A", MainSkills: []string{"x"}, OtherSkills: []string{"y"}},
	{Name: "B", MainSkills: []string{"y"}, OtherSkills: []string{}},
}

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func newMux(t *testing.T, opts ...service.Option) (*http.ServeMux, *service.Service) {
	t.Helper()
	svc := service.New(append([]service.Option{service.WithDataset(scenario)}, opts...)...)
	if err := svc.Start(context.Background()); err != nil {
		t.Fatalf("start: %v", err)
	}
	t.Cleanup(svc.Stop)
	mux := http.NewServeMux()
	api.NewServer(svc).Register(context.Background(), mux)
	return mux, svc
}

func do(mux *http.ServeMux, method, target string, body []byte) *httptest.ResponseRecorder {
	var req *http.Request
	if body != nil {
		req = httptest.NewRequest(method, target, bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, target, http.NoBody)
	}
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)
	return w
}

func decodeError(w *httptest.ResponseRecorder) errorBody {
	var e errorBody
	_ = json.Unmarshal(w.Body.Bytes(), &e)
	return e
}

func TestDiagramEndpoints(t *testing.T) {
	Convey("Given the API over the scenario dataset", t, func() {
		mux, _ := newMux(t)

		Convey("GET /healthz serves prometheus metrics", func() {
			w := do(mux, http.MethodGet, "/healthz", nil)
			So(w.Code, ShouldEqual, http.StatusOK)
			So(w.Body.String(), ShouldContainSubstring, "skillwheel_")
		})

		Convey("GET /stats reports the service", func() {
			w := do(mux, http.MethodGet, "/stats", nil)
			So(w.Code, ShouldEqual, http.StatusOK)
			var stats map[string]any
			So(json.Unmarshal(w.Body.Bytes(), &stats), ShouldBeNil)
			So(stats["started"], ShouldEqual, true)
			So(stats["competences"], ShouldEqual, 2.0)
		})

		Convey("GET /api/dataset returns the competences and version", func() {
			w := do(mux, http.MethodGet, "/api/dataset", nil)
			So(w.Code, ShouldEqual, http.StatusOK)
			var view service.DatasetView
			So(json.Unmarshal(w.Body.Bytes(), &view), ShouldBeNil)
			So(view.Version, ShouldEqual, uint64(1))
			So(view.Competences, ShouldResemble, scenario)
		})

		Convey("GET /api/skills lists skills in first-seen order", func() {
			w := do(mux, http.MethodGet, "/api/skills", nil)
			So(w.Code, ShouldEqual, http.StatusOK)
			var body struct {
				Count  int           `json:"count"`
				Skills []model.Skill `json:"skills"`
			}
			So(json.Unmarshal(w.Body.Bytes(), &body), ShouldBeNil)
			So(body.Count, ShouldEqual, 2)
			So(body.Skills, ShouldResemble, []model.Skill{{Name: "x"}, {Name: "y"}})
		})

		Convey("GET /api/connections", func() {
			Convey("resolves a skill", func() {
				w := do(mux, http.MethodGet, "/api/connections?skill=y", nil)
				So(w.Code, ShouldEqual, http.StatusOK)
				var body struct {
					Connections []selection.Connection `json:"connections"`
				}
				So(json.Unmarshal(w.Body.Bytes(), &body), ShouldBeNil)
				So(len(body.Connections), ShouldEqual, 2)
				So(body.Connections[1].Relation, ShouldEqual, model.RelationMain)
			})

			Convey("requires a selection", func() {
				w := do(mux, http.MethodGet, "/api/connections", nil)
				So(w.Code, ShouldEqual, http.StatusBadRequest)
				So(decodeError(w).Code, ShouldEqual, "bad_request")
			})

			Convey("rejects unknown names", func() {
				w := do(mux, http.MethodGet, "/api/connections?competence=Z", nil)
				So(w.Code, ShouldEqual, http.StatusBadRequest)
			})

			Convey("rejects both parameters", func() {
				w := do(mux, http.MethodGet, "/api/connections?skill=x&competence=A", nil)
				So(w.Code, ShouldEqual, http.StatusBadRequest)
			})
		})

		Convey("GET /api/plan", func() {
			Convey("renders idle without parameters", func() {
				w := do(mux, http.MethodGet, "/api/plan", nil)
				So(w.Code, ShouldEqual, http.StatusOK)
				var p struct {
					Instructions []types.Instruction `json:"instructions"`
				}
				So(json.Unmarshal(w.Body.Bytes(), &p), ShouldBeNil)
				So(p.Instructions[0].Op, ShouldEqual, types.OpClear)
				// clear, two mesh arcs per ring, two nodes per ring
				So(len(p.Instructions), ShouldEqual, 9)
			})

			Convey("highlights a competence", func() {
				w := do(mux, http.MethodGet, "/api/plan?competence=A", nil)
				So(w.Code, ShouldEqual, http.StatusOK)
				So(w.Body.String(), ShouldContainSubstring, `"kind":"highlight"`)
			})
		})

		Convey("GET /api/diagram.svg links every node back to itself", func() {
			w := do(mux, http.MethodGet, "/api/diagram.svg?skill=x", nil)
			So(w.Code, ShouldEqual, http.StatusOK)
			So(w.Header().Get("Content-Type"), ShouldEqual, "image/svg+xml")
			So(w.Body.String(), ShouldContainSubstring, `href="/api/diagram.svg?skill=x"`)
			So(w.Body.String(), ShouldContainSubstring, `href="/api/diagram.svg?competence=B&amp;index=1"`)
		})

		Convey("POST /api/dataset/reload without a file is a conflict", func() {
			w := do(mux, http.MethodPost, "/api/dataset/reload", nil)
			So(w.Code, ShouldEqual, http.StatusConflict)
		})

		Convey("Unrouted methods are refused", func() {
			w := do(mux, http.MethodPost, "/api/plan", nil)
			So(w.Code, ShouldEqual, http.StatusMethodNotAllowed)
		})
	})
}

func TestReloadEndpoint(t *testing.T) {
	Convey("Given the API serving a dataset file", t, func() {
		path := filepath.Join(t.TempDir(), "skills.json")
		So(os.WriteFile(path, []byte(`[{"name":"A","mainSkills":["x"],"otherSkills":[]}]`), 0o600), ShouldBeNil)
		mux, _ := newMux(t, service.WithDatasetPath(path))

		Convey("POST /api/dataset/reload reads the file again", func() {
			w := do(mux, http.MethodPost, "/api/dataset/reload", nil)
			So(w.Code, ShouldEqual, http.StatusOK)
		})

		Convey("A file that went missing is an invalid dataset", func() {
			So(os.Remove(path), ShouldBeNil)
			w := do(mux, http.MethodPost, "/api/dataset/reload", nil)
			So(w.Code, ShouldEqual, http.StatusUnprocessableEntity)
			So(decodeError(w).Code, ShouldEqual, "invalid_dataset")
		})

		Convey("A broken file is an invalid dataset", func() {
			So(os.WriteFile(path, []byte(`{`), 0o600), ShouldBeNil)
			w := do(mux, http.MethodPost, "/api/dataset/reload", nil)
			So(w.Code, ShouldEqual, http.StatusUnprocessableEntity)
		})
	})
}

func TestNamesakeCompetences(t *testing.T) {
	Convey("Given two competences sharing a name", t, func() {
		mux, svc := newMux(t, service.WithDataset(model.Dataset{
			{Name: "A", MainSkills: []string{"x"}, OtherSkills: []string{}},
			{Name: "A", MainSkills: []string{"y"}, OtherSkills: []string{}},
		}))

		Convey("The index parameter selects the second node", func() {
			w := do(mux, http.MethodGet, "/api/connections?competence=A&index=1", nil)
			So(w.Code, ShouldEqual, http.StatusOK)
			var body struct {
				Connections []selection.Connection `json:"connections"`
			}
			So(json.Unmarshal(w.Body.Bytes(), &body), ShouldBeNil)
			So(body.Connections, ShouldResemble, []selection.Connection{
				{Skill: "y", SkillIndex: 1, Competence: "A", CompetenceIndex: 1, Relation: model.RelationMain},
			})
		})

		Convey("An index that does not hold the name is refused", func() {
			So(do(mux, http.MethodGet, "/api/plan?competence=A&index=5", nil).Code, ShouldEqual, http.StatusBadRequest)
			So(do(mux, http.MethodGet, "/api/plan?competence=A&index=-1", nil).Code, ShouldEqual, http.StatusBadRequest)
			So(do(mux, http.MethodGet, "/api/plan?competence=A&index=one", nil).Code, ShouldEqual, http.StatusBadRequest)
		})

		Convey("Each node links to its own position", func() {
			body := do(mux, http.MethodGet, "/api/diagram.svg", nil).Body.String()
			So(body, ShouldContainSubstring, `href="/api/diagram.svg?competence=A&amp;index=0"`)
			So(body, ShouldContainSubstring, `href="/api/diagram.svg?competence=A&amp;index=1"`)
		})

		Convey("A click carrying an index selects that node", func() {
			view, err := svc.CreateSession(context.Background())
			So(err, ShouldBeNil)
			base := "/api/sessions/" + view.ID
			w := do(mux, http.MethodPost, base+"/clicks", []byte(`{"ring":"competence","name":"A","index":1}`))
			So(w.Code, ShouldEqual, http.StatusAccepted)

			var got struct {
				Selection selection.Selection `json:"selection"`
			}
			deadline := time.Now().Add(3 * time.Second)
			for time.Now().Before(deadline) {
				So(json.Unmarshal(do(mux, http.MethodGet, base, nil).Body.Bytes(), &got), ShouldBeNil)
				if !got.Selection.IsIdle() {
					break
				}
				time.Sleep(10 * time.Millisecond)
			}
			pos, pinned := got.Selection.Position()
			So(pinned, ShouldBeTrue)
			So(pos, ShouldEqual, 1)
			c, _ := got.Selection.Competence()
			So(c.MainSkills, ShouldResemble, []string{"y"})

			So(do(mux, http.MethodPost, base+"/clicks", []byte(`{"ring":"competence","name":"A","index":-2}`)).Code, ShouldEqual, http.StatusBadRequest)
			So(do(mux, http.MethodPost, base+"/clicks", []byte(`{"ring":"competence","name":"B","index":1}`)).Code, ShouldEqual, http.StatusBadRequest)
		})
	})
}

func TestSessionEndpoints(t *testing.T) {
	Convey("Given the API with a created session", t, func() {
		mux, _ := newMux(t)
		w := do(mux, http.MethodPost, "/api/sessions", nil)
		So(w.Code, ShouldEqual, http.StatusCreated)
		var created struct {
			ID string `json:"id"`
		}
		So(json.Unmarshal(w.Body.Bytes(), &created), ShouldBeNil)
		So(created.ID, ShouldNotBeEmpty)
		So(w.Header().Get("Location"), ShouldEqual, "/api/sessions/"+created.ID)
		base := "/api/sessions/" + created.ID

		Convey("GET returns an idle session", func() {
			w := do(mux, http.MethodGet, base, nil)
			So(w.Code, ShouldEqual, http.StatusOK)
			So(w.Body.String(), ShouldContainSubstring, `"state":"idle"`)
		})

		Convey("A click is accepted and applied", func() {
			w := do(mux, http.MethodPost, base+"/clicks", []byte(`{"ring":"competence","name":"A"}`))
			So(w.Code, ShouldEqual, http.StatusAccepted)

			deadline := time.Now().Add(3 * time.Second)
			body := ""
			for time.Now().Before(deadline) {
				body = do(mux, http.MethodGet, base, nil).Body.String()
				if strings.Contains(body, `"state":"competence"`) {
					break
				}
				time.Sleep(10 * time.Millisecond)
			}
			So(body, ShouldContainSubstring, `"state":"competence"`)
		})

		Convey("Invalid clicks are refused", func() {
			So(do(mux, http.MethodPost, base+"/clicks", []byte(`{"ring":"outer","name":"A"}`)).Code, ShouldEqual, http.StatusBadRequest)
			So(do(mux, http.MethodPost, base+"/clicks", []byte(`{"ring":"skill","name":""}`)).Code, ShouldEqual, http.StatusBadRequest)
			So(do(mux, http.MethodPost, base+"/clicks", []byte(`{"ring":"skill","name":"nope"}`)).Code, ShouldEqual, http.StatusBadRequest)
			So(do(mux, http.MethodPost, base+"/clicks", []byte(`not json`)).Code, ShouldEqual, http.StatusBadRequest)
		})

		Convey("Unknown sessions are 404", func() {
			So(do(mux, http.MethodGet, "/api/sessions/missing", nil).Code, ShouldEqual, http.StatusNotFound)
			w := do(mux, http.MethodPost, "/api/sessions/missing/clicks", []byte(`{"ring":"skill","name":"x"}`))
			So(w.Code, ShouldEqual, http.StatusNotFound)
			So(decodeError(w).Code, ShouldEqual, "not_found")
			So(do(mux, http.MethodGet, "/api/sessions/missing/live", nil).Code, ShouldEqual, http.StatusNotFound)
		})
	})
}

func TestLiveEndpoint(t *testing.T) {
	Convey("Given a live viewer connected over a real server", t, func() {
		mux, svc := newMux(t)
		srv := httptest.NewServer(mux)
		defer srv.Close()

		view, err := svc.CreateSession(context.Background())
		So(err, ShouldBeNil)

		url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/api/sessions/" + view.ID + "/live"
		conn, _, err := websocket.DefaultDialer.Dial(url, nil)
		So(err, ShouldBeNil)
		defer conn.Close()
		_ = conn.SetReadDeadline(time.Now().Add(3 * time.Second))

		var first live.Message
		So(conn.ReadJSON(&first), ShouldBeNil)
		So(first.Type, ShouldEqual, live.TypePlan)
		So(first.Plan.Selection.IsIdle(), ShouldBeTrue)

		Convey("A click sent over the socket comes back as a plan", func() {
			So(conn.WriteJSON(live.ClickMessage{Ring: model.RingSkill, Name: "x"}), ShouldBeNil)
			var next live.Message
			So(conn.ReadJSON(&next), ShouldBeNil)
			So(next.Type, ShouldEqual, live.TypePlan)
			sk, ok := next.Plan.Selection.Skill()
			So(ok, ShouldBeTrue)
			So(sk.Name, ShouldEqual, "x")
		})

		Convey("An unknown node is reported with an API code", func() {
			So(conn.WriteJSON(live.ClickMessage{Ring: model.RingSkill, Name: "nope"}), ShouldBeNil)
			var next live.Message
			So(conn.ReadJSON(&next), ShouldBeNil)
			So(next.Type, ShouldEqual, live.TypeError)
			So(next.Error.Code, ShouldEqual, "bad_request")
		})
	})
}

func TestErrorHelpers(t *testing.T) {
	Convey("Given the error helpers", t, func() {
		Convey("Wrap keeps the cause", func() {
			So(api.Wrap("op", nil), ShouldBeNil)
			err := api.Wrap("session", repository.ErrNotFound)
			So(err.Error(), ShouldEqual, "session: session not found")
			So(errors.Is(err, repository.ErrNotFound), ShouldBeTrue)
		})

		Convey("WrapKind keeps kind and cause", func() {
			cause := errors.New("eof")
			err := api.WrapKind("click", api.ErrBadRequest, cause)
			So(err.Error(), ShouldEqual, "click: bad request: eof")
			So(errors.Is(err, api.ErrBadRequest), ShouldBeTrue)
			So(errors.Is(err, cause), ShouldBeTrue)
			So(errors.Is(api.WrapKind("x", api.ErrNotFound, nil), api.ErrNotFound), ShouldBeTrue)
		})

		Convey("ErrorCode classifies service errors", func() {
			So(api.ErrorCode(service.ErrBackpressure), ShouldEqual, "backpressure")
			So(api.ErrorCode(live.ErrThrottled), ShouldEqual, "throttled")
			So(api.ErrorCode(api.NewKind("x", api.ErrNotFound)), ShouldEqual, "not_found")
			So(api.ErrorCode(selection.ErrUnknownRing), ShouldEqual, "bad_request")
			So(api.ErrorCode(service.ErrNotStarted), ShouldEqual, "unavailable")
			So(api.ErrorCode(&model.MalformedEntityError{Index: 0, Name: "A", Field: "mainSkills"}), ShouldEqual, "invalid_dataset")
			So(api.ErrorCode(repository.ErrRead), ShouldEqual, "invalid_dataset")
			So(api.ErrorCode(errors.New("boom")), ShouldEqual, "internal_error")
		})
	})
}
